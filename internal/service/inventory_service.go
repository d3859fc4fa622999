package service

import (
	"time"

	"inventory-manager/internal/domain"
	"inventory-manager/internal/query"
	"inventory-manager/internal/store"

	"go.uber.org/zap"
)

// InventoryService defines the interface for inventory business logic
type InventoryService interface {
	Open() error
	Save() error
	SaveIfModified() (bool, error)
	HasUnsavedChanges() bool
	LastSaved() time.Time
	Close()

	CreateCategory(name, description string) (*domain.Category, error)
	UpdateCategory(id int32, patch domain.GroupPatch) (*domain.Category, error)
	RemoveCategory(id int32) error
	GetCategory(id int32) (*domain.Category, error)
	ListCategories() []*domain.Category

	CreateSubgroup(categoryID int32, name, description string) (*domain.Subgroup, error)
	UpdateSubgroup(id int32, patch domain.GroupPatch) (*domain.Subgroup, error)
	RemoveSubgroup(id int32) error
	GetSubgroup(id int32) (*domain.Subgroup, error)
	ListSubgroups(categoryID int32) ([]*domain.Subgroup, error)

	CreateProduct(subgroupID int32, in store.ProductInput) (*domain.Product, error)
	UpdateProduct(id int32, patch domain.ProductPatch) (*domain.Product, error)
	ReplaceProduct(id int32, in store.ProductInput) (*domain.Product, error)
	RemoveProduct(id int32) error
	GetProduct(id int32) (*domain.Product, error)
	ListProducts(subgroupID int32) ([]*domain.Product, error)
	ProductsInCategory(categoryID int32) ([]*domain.Product, error)

	SearchByName(substr string) query.SearchResult
	SearchInCategory(categoryID int32, substr string) (query.SearchResult, error)
	SearchByPriceRange(low, high float32) (query.SearchResult, error)
	SearchByQuantityRange(low, high int32) (query.SearchResult, error)
	Statistics() query.Statistics
}

type inventoryService struct {
	store      *store.DataStore
	dataPath   string
	backupPath string
	logger     *zap.Logger
}

// NewInventoryService creates a new instance of InventoryService over an
// empty store bound to the given data and backup files.
func NewInventoryService(dataPath, backupPath string, logger *zap.Logger) InventoryService {
	return &inventoryService{
		store:      store.New(),
		dataPath:   dataPath,
		backupPath: backupPath,
		logger:     logger,
	}
}

// Open loads the data file. A missing file starts an empty inventory.
func (s *inventoryService) Open() error {
	if err := s.store.Load(s.dataPath); err != nil {
		s.logger.Error("Failed to load inventory", zap.String("path", s.dataPath), zap.Error(err))
		return err
	}

	s.logger.Info("Inventory loaded",
		zap.String("path", s.dataPath),
		zap.Int("categories", s.store.CategoryCount()),
	)
	return nil
}

func (s *inventoryService) Save() error {
	if err := s.store.Save(s.dataPath, s.backupPath); err != nil {
		s.logger.Error("Failed to save inventory", zap.String("path", s.dataPath), zap.Error(err))
		return err
	}

	s.logger.Info("Inventory saved", zap.String("path", s.dataPath), zap.String("backup", s.backupPath))
	return nil
}

// SaveIfModified saves only when there are unsaved changes and reports
// whether it wrote the file.
func (s *inventoryService) SaveIfModified() (bool, error) {
	if !s.store.IsModified() {
		return false, nil
	}
	if err := s.Save(); err != nil {
		return false, err
	}
	return true, nil
}

func (s *inventoryService) HasUnsavedChanges() bool {
	return s.store.IsModified()
}

func (s *inventoryService) LastSaved() time.Time {
	return s.store.LastSaved()
}

// Close releases the tree. Unsaved changes are dropped with a warning.
func (s *inventoryService) Close() {
	if s.store.IsModified() {
		s.logger.Warn("Closing inventory with unsaved changes")
	}
	s.store.Close()
}

func (s *inventoryService) CreateCategory(name, description string) (*domain.Category, error) {
	c, err := s.store.CreateCategory(name, description)
	if err != nil {
		s.logger.Warn("Failed to create category", zap.String("name", name), zap.Error(err))
		return nil, err
	}

	s.logger.Info("Category created", zap.Int32("category_id", c.ID), zap.String("name", c.Name))
	return c, nil
}

func (s *inventoryService) UpdateCategory(id int32, patch domain.GroupPatch) (*domain.Category, error) {
	c, err := s.store.UpdateCategory(id, patch)
	if err != nil {
		s.logger.Warn("Failed to update category", zap.Int32("category_id", id), zap.Error(err))
		return nil, err
	}

	s.logger.Info("Category updated", zap.Int32("category_id", id))
	return c, nil
}

func (s *inventoryService) RemoveCategory(id int32) error {
	if err := s.store.RemoveCategory(id); err != nil {
		s.logger.Warn("Failed to remove category", zap.Int32("category_id", id), zap.Error(err))
		return err
	}

	s.logger.Info("Category removed", zap.Int32("category_id", id))
	return nil
}

func (s *inventoryService) GetCategory(id int32) (*domain.Category, error) {
	return s.store.FindCategory(id)
}

func (s *inventoryService) ListCategories() []*domain.Category {
	return s.store.Categories()
}

func (s *inventoryService) CreateSubgroup(categoryID int32, name, description string) (*domain.Subgroup, error) {
	sub, err := s.store.CreateSubgroup(categoryID, name, description)
	if err != nil {
		s.logger.Warn("Failed to create subgroup",
			zap.Int32("category_id", categoryID),
			zap.String("name", name),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("Subgroup created",
		zap.Int32("subgroup_id", sub.ID),
		zap.Int32("category_id", categoryID),
		zap.String("name", sub.Name),
	)
	return sub, nil
}

func (s *inventoryService) UpdateSubgroup(id int32, patch domain.GroupPatch) (*domain.Subgroup, error) {
	sub, err := s.store.UpdateSubgroup(id, patch)
	if err != nil {
		s.logger.Warn("Failed to update subgroup", zap.Int32("subgroup_id", id), zap.Error(err))
		return nil, err
	}

	s.logger.Info("Subgroup updated", zap.Int32("subgroup_id", id))
	return sub, nil
}

func (s *inventoryService) RemoveSubgroup(id int32) error {
	if err := s.store.RemoveSubgroup(id); err != nil {
		s.logger.Warn("Failed to remove subgroup", zap.Int32("subgroup_id", id), zap.Error(err))
		return err
	}

	s.logger.Info("Subgroup removed", zap.Int32("subgroup_id", id))
	return nil
}

func (s *inventoryService) GetSubgroup(id int32) (*domain.Subgroup, error) {
	return s.store.FindSubgroup(id)
}

func (s *inventoryService) ListSubgroups(categoryID int32) ([]*domain.Subgroup, error) {
	c, err := s.store.FindCategory(categoryID)
	if err != nil {
		return nil, err
	}
	return c.Subgroups.All(), nil
}

func (s *inventoryService) CreateProduct(subgroupID int32, in store.ProductInput) (*domain.Product, error) {
	p, err := s.store.CreateProduct(subgroupID, in)
	if err != nil {
		s.logger.Warn("Failed to create product",
			zap.Int32("subgroup_id", subgroupID),
			zap.String("name", in.Name),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("Product created",
		zap.Int32("product_id", p.ID),
		zap.Int32("subgroup_id", subgroupID),
		zap.String("name", p.Name),
		zap.Float32("price", p.Price),
		zap.Int32("quantity", p.Quantity),
	)
	return p, nil
}

func (s *inventoryService) UpdateProduct(id int32, patch domain.ProductPatch) (*domain.Product, error) {
	p, err := s.store.UpdateProduct(id, patch)
	if err != nil {
		s.logger.Warn("Failed to update product", zap.Int32("product_id", id), zap.Error(err))
		return nil, err
	}

	s.logger.Info("Product updated", zap.Int32("product_id", id))
	return p, nil
}

func (s *inventoryService) ReplaceProduct(id int32, in store.ProductInput) (*domain.Product, error) {
	p, err := s.store.ReplaceProduct(id, in)
	if err != nil {
		s.logger.Warn("Failed to replace product", zap.Int32("product_id", id), zap.Error(err))
		return nil, err
	}

	s.logger.Info("Product replaced", zap.Int32("product_id", id))
	return p, nil
}

func (s *inventoryService) RemoveProduct(id int32) error {
	if err := s.store.RemoveProduct(id); err != nil {
		s.logger.Warn("Failed to remove product", zap.Int32("product_id", id), zap.Error(err))
		return err
	}

	s.logger.Info("Product removed", zap.Int32("product_id", id))
	return nil
}

func (s *inventoryService) GetProduct(id int32) (*domain.Product, error) {
	return s.store.FindProduct(id)
}

func (s *inventoryService) ListProducts(subgroupID int32) ([]*domain.Product, error) {
	sub, err := s.store.FindSubgroup(subgroupID)
	if err != nil {
		return nil, err
	}
	return sub.Products.All(), nil
}

func (s *inventoryService) ProductsInCategory(categoryID int32) ([]*domain.Product, error) {
	return s.store.ProductsInCategory(categoryID)
}

func (s *inventoryService) SearchByName(substr string) query.SearchResult {
	return query.SearchByName(s.store, substr)
}

func (s *inventoryService) SearchInCategory(categoryID int32, substr string) (query.SearchResult, error) {
	return query.SearchInCategory(s.store, categoryID, substr)
}

func (s *inventoryService) SearchByPriceRange(low, high float32) (query.SearchResult, error) {
	return query.SearchByPriceRange(s.store, low, high)
}

func (s *inventoryService) SearchByQuantityRange(low, high int32) (query.SearchResult, error) {
	return query.SearchByQuantityRange(s.store, low, high)
}

func (s *inventoryService) Statistics() query.Statistics {
	return query.GetStatistics(s.store)
}

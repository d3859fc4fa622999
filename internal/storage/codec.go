// Package storage reads and writes the binary inventory file.
//
// The file is a header followed by the category tree in depth-first order.
// All integers are little-endian int32, prices are IEEE-754 float32, and
// text fields are fixed-width NUL-terminated byte arrays:
//
//	header   category_count, next_category_id, next_subgroup_id, next_product_id
//	category id, name[50], description[200], subgroup_count
//	subgroup id, category_id, name[50], description[200], product_count
//	product  id, subgroup_id, code[20], name[100], description[200],
//	         price, quantity, created_at[20], updated_at[20]
//
// Each category record is followed by its subgroups, and each subgroup
// record by its products. The format carries no magic, version or checksum.
package storage

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"inventory-manager/internal/collection"
	"inventory-manager/internal/domain"
)

// Field widths in bytes, terminator included.
const (
	codeWidth        = 20
	productNameWidth = 100
	productDescWidth = 200
	groupNameWidth   = 50
	groupDescWidth   = 200
	timestampWidth   = 20
)

// Record sizes in bytes.
const (
	HeaderSize         = 16
	CategoryRecordSize = 4 + groupNameWidth + groupDescWidth + 4
	SubgroupRecordSize = 4 + 4 + groupNameWidth + groupDescWidth + 4
	ProductRecordSize  = 4 + 4 + codeWidth + productNameWidth + productDescWidth + 4 + 4 + 2*timestampWidth
)

// MaxRecords bounds every count read from a file.
const MaxRecords = 1 << 20

var (
	ErrCorrupt  = errors.New("inventory file is corrupt")
	ErrTooLarge = errors.New("record count exceeds the file format limit")
)

// Image is the decoded content of an inventory file.
type Image struct {
	NextCategoryID int32
	NextSubgroupID int32
	NextProductID  int32
	Categories     []*domain.Category
}

// Encode writes img to w in the inventory file layout.
func Encode(w io.Writer, img *Image) error {
	if len(img.Categories) > MaxRecords {
		return fmt.Errorf("%w: %d categories", ErrTooLarge, len(img.Categories))
	}

	header := make([]byte, HeaderSize)
	putInt32(header[0:4], int32(len(img.Categories)))
	putInt32(header[4:8], img.NextCategoryID)
	putInt32(header[8:12], img.NextSubgroupID)
	putInt32(header[12:16], img.NextProductID)
	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, category := range img.Categories {
		if err := encodeCategory(w, category); err != nil {
			return err
		}
	}
	return nil
}

func encodeCategory(w io.Writer, c *domain.Category) error {
	subgroups := c.Subgroups.All()
	if len(subgroups) > MaxRecords {
		return fmt.Errorf("%w: %d subgroups in category %d", ErrTooLarge, len(subgroups), c.ID)
	}

	buf := make([]byte, CategoryRecordSize)
	off := 0
	putInt32(buf[off:], c.ID)
	off += 4
	putText(buf[off:off+groupNameWidth], c.Name)
	off += groupNameWidth
	putText(buf[off:off+groupDescWidth], c.Description)
	off += groupDescWidth
	putInt32(buf[off:], int32(len(subgroups)))

	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("write category %d: %w", c.ID, err)
	}

	for _, s := range subgroups {
		if err := encodeSubgroup(w, s); err != nil {
			return err
		}
	}
	return nil
}

func encodeSubgroup(w io.Writer, s *domain.Subgroup) error {
	products := s.Products.All()
	if len(products) > MaxRecords {
		return fmt.Errorf("%w: %d products in subgroup %d", ErrTooLarge, len(products), s.ID)
	}

	buf := make([]byte, SubgroupRecordSize)
	off := 0
	putInt32(buf[off:], s.ID)
	off += 4
	putInt32(buf[off:], s.CategoryID)
	off += 4
	putText(buf[off:off+groupNameWidth], s.Name)
	off += groupNameWidth
	putText(buf[off:off+groupDescWidth], s.Description)
	off += groupDescWidth
	putInt32(buf[off:], int32(len(products)))

	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("write subgroup %d: %w", s.ID, err)
	}

	// One buffer is reused for every product record
	record := make([]byte, ProductRecordSize)
	for _, p := range products {
		encodeProduct(record, p)
		if _, err := w.Write(record); err != nil {
			return fmt.Errorf("write product %d: %w", p.ID, err)
		}
	}
	return nil
}

func encodeProduct(buf []byte, p *domain.Product) {
	clear(buf)

	putInt32(buf[0:4], p.ID)
	putInt32(buf[4:8], p.SubgroupID)
	putText(buf[8:28], p.Code)
	putText(buf[28:128], p.Name)
	putText(buf[128:328], p.Description)
	binary.LittleEndian.PutUint32(buf[328:332], math.Float32bits(p.Price))
	putInt32(buf[332:336], p.Quantity)
	putText(buf[336:356], domain.FormatTimestamp(p.CreatedAt))
	putText(buf[356:376], domain.FormatTimestamp(p.UpdatedAt))
}

// Decode parses a complete inventory file. Every record is validated and
// the input must be consumed exactly.
func Decode(data []byte) (*Image, error) {
	d := &decoder{data: data}

	rawCount, err := d.int32()
	if err != nil {
		return nil, err
	}

	img := &Image{}
	if img.NextCategoryID, err = d.int32(); err != nil {
		return nil, err
	}
	if img.NextSubgroupID, err = d.int32(); err != nil {
		return nil, err
	}
	if img.NextProductID, err = d.int32(); err != nil {
		return nil, err
	}
	if img.NextCategoryID < 1 || img.NextSubgroupID < 1 || img.NextProductID < 1 {
		return nil, fmt.Errorf("%w: id counters must be positive", ErrCorrupt)
	}

	categoryCount, err := d.checkCount("category", rawCount, CategoryRecordSize)
	if err != nil {
		return nil, err
	}

	img.Categories = make([]*domain.Category, 0, categoryCount)
	for i := 0; i < categoryCount; i++ {
		category, err := d.category()
		if err != nil {
			return nil, err
		}
		img.Categories = append(img.Categories, category)
	}

	if d.remaining() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrCorrupt, d.remaining())
	}
	return img, nil
}

// decoder is a bounds-checked cursor over the file bytes.
type decoder struct {
	data []byte
	off  int
}

func (d *decoder) remaining() int {
	return len(d.data) - d.off
}

func (d *decoder) next(n int) ([]byte, error) {
	if d.remaining() < n {
		return nil, fmt.Errorf("%w: unexpected end of data at offset %d", ErrCorrupt, d.off)
	}
	b := d.data[d.off : d.off+n]
	d.off += n
	return b, nil
}

func (d *decoder) int32() (int32, error) {
	b, err := d.next(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(b)), nil
}

func (d *decoder) text(width int) (string, error) {
	b, err := d.next(width)
	if err != nil {
		return "", err
	}
	return getText(b), nil
}

// count reads a record count and checks it with checkCount.
func (d *decoder) count(what string, recordSize int) (int, error) {
	n, err := d.int32()
	if err != nil {
		return 0, err
	}
	return d.checkCount(what, n, recordSize)
}

// checkCount rejects a negative or oversized count, or one the rest of the
// input is too short to hold at recordSize bytes per record.
func (d *decoder) checkCount(what string, n int32, recordSize int) (int, error) {
	if n < 0 || n > MaxRecords {
		return 0, fmt.Errorf("%w: %s count %d out of range", ErrCorrupt, what, n)
	}
	if int64(n)*int64(recordSize) > int64(d.remaining()) {
		return 0, fmt.Errorf("%w: %s count %d exceeds remaining data", ErrCorrupt, what, n)
	}
	return int(n), nil
}

func (d *decoder) category() (*domain.Category, error) {
	c := &domain.Category{}
	var err error

	if c.ID, err = d.int32(); err != nil {
		return nil, err
	}
	if c.Name, err = d.text(groupNameWidth); err != nil {
		return nil, err
	}
	if c.Description, err = d.text(groupDescWidth); err != nil {
		return nil, err
	}
	subgroupCount, err := d.count("subgroup", SubgroupRecordSize)
	if err != nil {
		return nil, err
	}

	c.Subgroups = domain.NewSubgroupCollection(max(subgroupCount, collection.DefaultCapacity))
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%w: category %d: %v", ErrCorrupt, c.ID, err)
	}

	for i := 0; i < subgroupCount; i++ {
		s, err := d.subgroup()
		if err != nil {
			return nil, err
		}
		if err := c.RestoreSubgroup(s); err != nil {
			return nil, fmt.Errorf("%w: category %d: %v", ErrCorrupt, c.ID, err)
		}
	}
	return c, nil
}

func (d *decoder) subgroup() (*domain.Subgroup, error) {
	s := &domain.Subgroup{}
	var err error

	if s.ID, err = d.int32(); err != nil {
		return nil, err
	}
	if s.CategoryID, err = d.int32(); err != nil {
		return nil, err
	}
	if s.Name, err = d.text(groupNameWidth); err != nil {
		return nil, err
	}
	if s.Description, err = d.text(groupDescWidth); err != nil {
		return nil, err
	}
	productCount, err := d.count("product", ProductRecordSize)
	if err != nil {
		return nil, err
	}

	s.Products = domain.NewProductCollection(max(productCount, collection.DefaultCapacity))
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%w: subgroup %d: %v", ErrCorrupt, s.ID, err)
	}

	for i := 0; i < productCount; i++ {
		p, err := d.product()
		if err != nil {
			return nil, err
		}
		if err := s.AddProduct(p); err != nil {
			return nil, fmt.Errorf("%w: subgroup %d: %v", ErrCorrupt, s.ID, err)
		}
	}
	return s, nil
}

func (d *decoder) product() (*domain.Product, error) {
	b, err := d.next(ProductRecordSize)
	if err != nil {
		return nil, err
	}

	p := &domain.Product{
		ID:          getInt32(b[0:4]),
		SubgroupID:  getInt32(b[4:8]),
		Code:        getText(b[8:28]),
		Name:        getText(b[28:128]),
		Description: getText(b[128:328]),
		Price:       math.Float32frombits(binary.LittleEndian.Uint32(b[328:332])),
		Quantity:    getInt32(b[332:336]),
		CreatedAt:   domain.ParseTimestamp(getText(b[336:356])),
		UpdatedAt:   domain.ParseTimestamp(getText(b[356:376])),
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: product %d: %v", ErrCorrupt, p.ID, err)
	}
	return p, nil
}

func putInt32(b []byte, v int32) {
	binary.LittleEndian.PutUint32(b[:4], uint32(v))
}

func getInt32(b []byte) int32 {
	return int32(binary.LittleEndian.Uint32(b[:4]))
}

// putText copies s into the fixed-width field b, leaving at least one
// trailing NUL. b must already be zeroed.
func putText(b []byte, s string) {
	copy(b, domain.Truncate(s, len(b)-1))
}

// getText reads a field up to its first NUL. A field with no terminator
// is cut to width-1 bytes.
func getText(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return string(b[:i])
	}
	return domain.Truncate(string(b), len(b)-1)
}

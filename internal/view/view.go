// Package view renders the inventory tree as terminal text. Rendering never
// mutates the tree.
package view

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"inventory-manager/internal/domain"
	"inventory-manager/internal/query"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// NameColumnWidth is the widest product name shown in a table row.
const NameColumnWidth = 20

// ShortName cuts names longer than NameColumnWidth runes and marks the cut
// with an ellipsis.
func ShortName(name string) string {
	if utf8.RuneCountInString(name) <= NameColumnWidth {
		return name
	}
	runes := []rune(name)
	return string(runes[:NameColumnWidth-3]) + "..."
}

// All renders every category with its subgroups and their products.
func All(categories []*domain.Category) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Inventory"))
	sb.WriteString("\n\n")

	if len(categories) == 0 {
		sb.WriteString(emptyStyle.Render("No categories."))
		sb.WriteString("\n")
		return sb.String()
	}

	for _, c := range categories {
		sb.WriteString(categoryStyle.Render(fmt.Sprintf("[%d] %s", c.ID, c.Name)))
		fmt.Fprintf(&sb, "  %s  subgroups: %d  products: %d  value: %s\n",
			domain.DisplayText(c.Description), c.SubgroupCount(), c.TotalProducts(), money(c.TotalValue()))

		if c.SubgroupCount() == 0 {
			sb.WriteString(subgroupStyle.Render(emptyStyle.Render("No subgroups.")))
			sb.WriteString("\n")
		}
		c.Subgroups.Each(func(s *domain.Subgroup) bool {
			sb.WriteString(subgroupStyle.Render(fmt.Sprintf("[%d] %s", s.ID, s.Name)))
			fmt.Fprintf(&sb, "  products: %d  quantity: %d  value: %s\n",
				s.ProductCount(), s.TotalQuantity(), money(s.TotalValue()))
			sb.WriteString(ProductTable(productValues(s.Products.All())))
			return true
		})
		sb.WriteString("\n")
	}
	return sb.String()
}

// ProductTable renders products as a bordered table.
func ProductTable(products []domain.Product) string {
	if len(products) == 0 {
		return emptyStyle.Render("No products.") + "\n"
	}

	rows := make([][]string, 0, len(products))
	for _, p := range products {
		rows = append(rows, []string{
			strconv.Itoa(int(p.ID)),
			strconv.Itoa(int(p.SubgroupID)),
			domain.DisplayText(p.Code),
			ShortName(p.Name),
			money(float64(p.Price)),
			strconv.Itoa(int(p.Quantity)),
			money(p.Value()),
		})
	}
	return render([]string{"ID", "Sub ID", "Code", "Name", "Price", "Quantity", "Value"}, rows, 0, 1, 4, 5, 6)
}

// CategoryTable renders one summary row per category.
func CategoryTable(categories []*domain.Category) string {
	if len(categories) == 0 {
		return emptyStyle.Render("No categories.") + "\n"
	}

	rows := make([][]string, 0, len(categories))
	for _, c := range categories {
		rows = append(rows, []string{
			strconv.Itoa(int(c.ID)),
			c.Name,
			domain.DisplayText(c.Description),
			strconv.Itoa(c.SubgroupCount()),
			strconv.Itoa(c.TotalProducts()),
			money(c.TotalValue()),
		})
	}
	return render([]string{"ID", "Name", "Description", "Subgroups", "Products", "Value"}, rows, 0, 3, 4, 5)
}

// SubgroupTable renders one summary row per subgroup.
func SubgroupTable(subgroups []*domain.Subgroup) string {
	if len(subgroups) == 0 {
		return emptyStyle.Render("No subgroups.") + "\n"
	}

	rows := make([][]string, 0, len(subgroups))
	for _, s := range subgroups {
		rows = append(rows, []string{
			strconv.Itoa(int(s.ID)),
			strconv.Itoa(int(s.CategoryID)),
			s.Name,
			domain.DisplayText(s.Description),
			strconv.Itoa(s.ProductCount()),
			strconv.FormatInt(s.TotalQuantity(), 10),
			money(s.TotalValue()),
		})
	}
	return render([]string{"ID", "Cat ID", "Name", "Description", "Products", "Quantity", "Value"}, rows, 0, 1, 4, 5, 6)
}

// ProductDetail renders every field of one product.
func ProductDetail(p *domain.Product) string {
	lines := []string{
		titleStyle.Render(fmt.Sprintf("Product %d", p.ID)),
		"",
		field("Subgroup", strconv.Itoa(int(p.SubgroupID))),
		field("Code", domain.DisplayText(p.Code)),
		field("Name", p.Name),
		field("Description", domain.DisplayText(p.Description)),
		field("Price", money(float64(p.Price))),
		field("Quantity", strconv.Itoa(int(p.Quantity))),
		field("Value", money(p.Value())),
		field("Created", domain.DisplayText(domain.FormatTimestamp(p.CreatedAt))),
		field("Updated", domain.DisplayText(domain.FormatTimestamp(p.UpdatedAt))),
	}
	return strings.Join(lines, "\n") + "\n"
}

// Statistics renders the summary panel. A zero lastSaved shows as Never.
func Statistics(stats query.Statistics, lastSaved time.Time, modified bool) string {
	saved := "Never"
	if !lastSaved.IsZero() {
		saved = domain.FormatTimestamp(lastSaved)
	}

	lines := []string{
		titleStyle.Render("Statistics"),
		"",
		field("Categories", strconv.Itoa(stats.TotalCategories)),
		field("Subgroups", strconv.Itoa(stats.TotalSubgroups)),
		field("Products", strconv.Itoa(stats.TotalProducts)),
		field("Total quantity", strconv.FormatInt(stats.TotalQuantity, 10)),
		field("Total value", money(stats.TotalValue)),
		field("Average price", money(stats.AveragePrice)),
		field("Last saved", saved),
	}
	if modified {
		lines = append(lines, modifiedStyle.Render("Unsaved changes"))
	}
	return strings.Join(lines, "\n") + "\n"
}

// render builds a table whose columns listed in numeric are right-aligned.
func render(headers []string, rows [][]string, numeric ...int) string {
	right := make(map[int]bool, len(numeric))
	for _, col := range numeric {
		right[col] = true
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case right[col]:
				return numberStyle
			default:
				return cellStyle
			}
		})
	return t.Render() + "\n"
}

func field(label, value string) string {
	return labelStyle.Render(label) + valueStyle.Render(value)
}

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func productValues(products []*domain.Product) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		out = append(out, *p)
	}
	return out
}

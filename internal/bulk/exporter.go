package bulk

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Aidin1998/qrmenu/internal/branches"
	"github.com/Aidin1998/qrmenu/internal/categories"
	"github.com/Aidin1998/qrmenu/internal/products"
	"github.com/Aidin1998/qrmenu/pkg/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Exporter flattens the catalogue into spreadsheet rows.
type Exporter struct {
	categories categories.CategoryService
	products   products.ProductService
	branches   branches.BranchService
}

func NewExporter(categories categories.CategoryService, products products.ProductService, branches branches.BranchService) *Exporter {
	return &Exporter{categories: categories, products: products, branches: branches}
}

// Export returns one row per product, inactive ones included. A product in
// a subcategory carries the parent name in Kategori and its own category
// in Alt Kategori.
func (e *Exporter) Export(ctx context.Context) ([]Row, error) {
	cats, err := e.categories.List(ctx, categories.ListFilter{AllLevels: true, IncludeInactive: true})
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	byID := make(map[uuid.UUID]*models.Category, len(cats))
	for i := range cats {
		byID[cats[i].ID] = &cats[i]
	}

	list, err := e.branches.List(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}
	branchNames := make(map[uuid.UUID]string, len(list))
	for _, b := range list {
		branchNames[b.ID] = b.Name
	}

	prods, err := e.products.List(ctx, products.ListFilter{IncludeInactive: true})
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	rows := make([]Row, 0, len(prods))
	for _, p := range prods {
		row := Row{
			ID:          p.ID.String(),
			Name:        p.Name,
			Description: deref(p.Description),
			Warning:     deref(p.Warning),
			Price:       price(p.PriceSingle),
			PriceSmall:  price(p.PriceSmall),
			PriceMedium: price(p.PriceMedium),
			PriceLarge:  price(p.PriceLarge),
			SortOrder:   strconv.Itoa(p.SortOrder),
			Status:      "Pasif",
			Image:       deref(p.ImageURL),
		}
		if p.Active {
			row.Status = "Aktif"
		}

		if category, ok := byID[p.CategoryID]; ok {
			row.Category = category.Name
			if category.ParentID != nil {
				if parent, ok := byID[*category.ParentID]; ok {
					row.Category = parent.Name
					row.Subcategory = category.Name
				}
			}
		}

		names := make([]string, 0, len(p.BranchIDs))
		for _, id := range p.BranchIDs {
			if name, ok := branchNames[id]; ok {
				names = append(names, name)
			}
		}
		joined := strings.Join(names, ", ")
		row.Branches = &joined

		rows = append(rows, row)
	}
	return rows, nil
}

func price(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.StringFixed(2)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

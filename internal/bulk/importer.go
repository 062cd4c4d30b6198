package bulk

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Aidin1998/qrmenu/common/errors"
	"github.com/Aidin1998/qrmenu/common/set"
	"github.com/Aidin1998/qrmenu/internal/branches"
	"github.com/Aidin1998/qrmenu/internal/categories"
	"github.com/Aidin1998/qrmenu/internal/products"
	"github.com/Aidin1998/qrmenu/internal/textutil"
	"github.com/Aidin1998/qrmenu/pkg/metrics"
	"github.com/Aidin1998/qrmenu/pkg/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Mode selects how an import treats existing products.
type Mode string

const (
	// ModeUpdate updates rows whose ID matches a product and creates the rest.
	ModeUpdate Mode = "update"
	// ModeDeleteAll removes every product first and creates all rows.
	ModeDeleteAll Mode = "delete_all"
)

// maxReportedErrors bounds the row errors returned to the client.
const maxReportedErrors = 3

// ParseMode validates an import mode; blank means ModeUpdate.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.TrimSpace(s)) {
	case "", ModeUpdate:
		return ModeUpdate, nil
	case ModeDeleteAll:
		return ModeDeleteAll, nil
	}
	return "", errors.Invalid.Explain("unknown import mode %q", s)
}

// Result summarises an import run.
type Result struct {
	SuccessCount      int      `json:"success_count"`
	ErrorCount        int      `json:"error_count"`
	Errors            []string `json:"errors"`
	Created           int      `json:"created"`
	Updated           int      `json:"updated"`
	CategoriesCreated int      `json:"categories_created"`
	// RemovedImages lists image URLs of products deleted by the run that no
	// imported row points at again.
	RemovedImages []string `json:"-"`
}

func (r *Result) fail(line int, err error) {
	r.ErrorCount++
	if len(r.Errors) < maxReportedErrors {
		r.Errors = append(r.Errors, fmt.Sprintf("Satır %d: %s", line, reason(err)))
	}
	metrics.ImportRows.WithLabelValues("error").Inc()
}

func (r *Result) succeed(created bool) {
	r.SuccessCount++
	if created {
		r.Created++
	} else {
		r.Updated++
	}
	metrics.ImportRows.WithLabelValues("success").Inc()
}

// Importer writes spreadsheet rows through the catalogue services.
type Importer struct {
	logger     *zap.Logger
	categories categories.CategoryService
	products   products.ProductService
	branches   branches.BranchService
}

func NewImporter(logger *zap.Logger, categories categories.CategoryService, products products.ProductService, branches branches.BranchService) *Importer {
	return &Importer{logger: logger, categories: categories, products: products, branches: branches}
}

// categoryKey identifies a category path by folded names.
type categoryKey struct {
	main string
	sub  string
}

type resolved struct {
	id  uuid.UUID
	err error
}

// Import processes rows in order. Row failures are counted and reported
// without stopping the run; only failures that affect every row, such as
// clearing the catalogue, abort it.
func (i *Importer) Import(ctx context.Context, rows []Row, mode Mode) (*Result, error) {
	result := &Result{Errors: []string{}}

	if mode == ModeDeleteAll {
		removed, err := i.products.DeleteAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to clear products: %w", err)
		}
		for _, p := range removed {
			if p.ImageURL != nil {
				result.RemovedImages = append(result.RemovedImages, *p.ImageURL)
			}
		}
		i.logger.Info("products cleared for import", zap.Int("count", len(removed)))
	}

	branchIDs, err := i.branchIndex(ctx)
	if err != nil {
		return nil, err
	}
	targets := i.resolveCategories(ctx, rows, result)
	written := make(set.Set[string])

	for n := range rows {
		row := &rows[n]
		line := row.Line
		if line == 0 {
			line = n + 2
		}

		if strings.TrimSpace(row.Category) == "" || strings.TrimSpace(row.Name) == "" {
			result.fail(line, errors.Invalid.Explain("Kategori ve Ürün Adı zorunludur"))
			continue
		}
		target := targets[keyOf(row)]
		if target.err != nil {
			result.fail(line, target.err)
			continue
		}

		created, err := i.importRow(ctx, row, target.id, branchIDs, mode)
		if err != nil {
			result.fail(line, err)
			continue
		}
		result.succeed(created)
		if image := strings.TrimSpace(row.Image); image != "" {
			written.Insert(image)
		}
	}
	result.RemovedImages = orphaned(result.RemovedImages, written)

	i.logger.Info("import finished",
		zap.String("mode", string(mode)),
		zap.Int("success", result.SuccessCount),
		zap.Int("errors", result.ErrorCount),
		zap.Int("categories_created", result.CategoriesCreated))
	return result, nil
}

func orphaned(removed []string, written set.Set[string]) []string {
	seen := make(set.Set[string])
	var out []string
	for _, u := range removed {
		if written.Include(u) || seen.Include(u) {
			continue
		}
		seen.Insert(u)
		out = append(out, u)
	}
	return out
}

func keyOf(row *Row) categoryKey {
	return categoryKey{main: textutil.Fold(row.Category), sub: textutil.Fold(row.Subcategory)}
}

// resolveCategories finds or creates every category the rows refer to
// before any product is written.
func (i *Importer) resolveCategories(ctx context.Context, rows []Row, result *Result) map[categoryKey]resolved {
	targets := make(map[categoryKey]resolved)
	mains := make(map[string]resolved)

	for n := range rows {
		row := &rows[n]
		if strings.TrimSpace(row.Category) == "" || strings.TrimSpace(row.Name) == "" {
			continue
		}
		key := keyOf(row)
		if _, done := targets[key]; done {
			continue
		}

		main, ok := mains[key.main]
		if !ok {
			main.id, main.err = i.findOrCreate(ctx, strings.TrimSpace(row.Category), nil, result)
			mains[key.main] = main
		}
		if key.sub == "" || main.err != nil {
			targets[key] = main
			continue
		}

		var sub resolved
		sub.id, sub.err = i.findOrCreate(ctx, strings.TrimSpace(row.Subcategory), &main.id, result)
		targets[key] = sub
	}
	return targets
}

func (i *Importer) findOrCreate(ctx context.Context, name string, parentID *uuid.UUID, result *Result) (uuid.UUID, error) {
	category, err := i.categories.FindByName(ctx, name, parentID)
	if err == nil {
		return category.ID, nil
	}
	if !errors.Is(err, errors.NotFound) {
		return uuid.Nil, err
	}

	category, err = i.categories.Create(ctx, &models.CategoryInput{Name: name, ParentID: parentID})
	if err != nil {
		return uuid.Nil, err
	}
	result.CategoriesCreated++
	return category.ID, nil
}

func (i *Importer) branchIndex(ctx context.Context) (map[string]uuid.UUID, error) {
	list, err := i.branches.List(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}
	index := make(map[string]uuid.UUID, len(list))
	for _, b := range list {
		if _, dup := index[textutil.Fold(b.Name)]; !dup {
			index[textutil.Fold(b.Name)] = b.ID
		}
	}
	return index, nil
}

// importRow writes one row and reports whether a product was created.
func (i *Importer) importRow(ctx context.Context, row *Row, categoryID uuid.UUID, branchIndex map[string]uuid.UUID, mode Mode) (bool, error) {
	var existing *models.Product
	if mode == ModeUpdate && row.ID != "" {
		if id, err := uuid.Parse(row.ID); err == nil {
			p, err := i.products.Get(ctx, id)
			if err != nil && !errors.Is(err, errors.NotFound) {
				return false, err
			}
			existing = p
		}
	}

	in, err := rowInput(row, categoryID, branchIndex, existing)
	if err != nil {
		return false, err
	}

	if existing != nil {
		_, err := i.products.Update(ctx, existing.ID, in)
		return false, err
	}
	_, err = i.products.Create(ctx, in)
	return true, err
}

func rowInput(row *Row, categoryID uuid.UUID, branchIndex map[string]uuid.UUID, existing *models.Product) (*models.ProductInput, error) {
	in := &models.ProductInput{
		CategoryID:  categoryID,
		Name:        strings.TrimSpace(row.Name),
		Description: optional(row.Description),
		Warning:     optional(row.Warning),
		ImageURL:    optional(row.Image),
	}
	if existing != nil {
		in.NameEN = existing.NameEN
		in.DescriptionEN = existing.DescriptionEN
		in.WarningEN = existing.WarningEN
		in.BranchIDs = existing.BranchIDs
	}

	var err error
	prices := []struct {
		column string
		value  string
		dst    **decimal.Decimal
	}{
		{ColPrice, row.Price, &in.PriceSingle},
		{ColPriceSmall, row.PriceSmall, &in.PriceSmall},
		{ColPriceMedium, row.PriceMedium, &in.PriceMedium},
		{ColPriceLarge, row.PriceLarge, &in.PriceLarge},
	}
	for _, p := range prices {
		if *p.dst, err = ParsePrice(p.value); err != nil {
			return nil, errors.Invalid.Explain("%s geçersiz: %q", p.column, p.value)
		}
	}

	if in.SortOrder, err = parseSortOrder(row.SortOrder); err != nil {
		return nil, err
	}
	active := ParseStatus(row.Status)
	in.Active = &active

	if row.Branches != nil {
		in.BranchIDs = []uuid.UUID{}
		for _, name := range strings.Split(*row.Branches, ",") {
			if strings.TrimSpace(name) == "" {
				continue
			}
			id, ok := branchIndex[textutil.Fold(name)]
			if !ok {
				return nil, errors.Invalid.Explain("unknown branch %q", strings.TrimSpace(name))
			}
			in.BranchIDs = append(in.BranchIDs, id)
		}
	}
	return in, nil
}

// ParsePrice parses a price cell. Blank cells are nil; a comma is accepted
// as the decimal separator and a leading currency symbol is ignored.
func ParsePrice(s string) (*decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "₺"))
	if s == "" {
		return nil, nil
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ParseStatus reads the Durum cell: blank or anything containing "aktif"
// is active, everything else such as "Pasif" is inactive.
func ParseStatus(s string) bool {
	folded := textutil.Fold(s)
	return folded == "" || strings.Contains(folded, "aktif")
}

func parseSortOrder(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	// Fractions are truncated, so "2.5" sorts as 2.
	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= 0 && f < math.MaxInt32 {
		return int(f), nil
	}
	return 0, errors.Invalid.Explain("%s geçersiz: %q", ColSortOrder, s)
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func reason(err error) string {
	var e *errors.Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return err.Error()
}

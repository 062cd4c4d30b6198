package products

import (
	"context"

	"github.com/Aidin1998/qrmenu/common/dbutil"
	"github.com/Aidin1998/qrmenu/common/errors"
	"github.com/Aidin1998/qrmenu/common/set"
	"github.com/Aidin1998/qrmenu/internal/database"
	"github.com/Aidin1998/qrmenu/internal/sortorder"
	"github.com/Aidin1998/qrmenu/pkg/models"
	"github.com/Aidin1998/qrmenu/pkg/validation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProductService defines menu product operations.
type ProductService interface {
	List(ctx context.Context, filter ListFilter) ([]models.Product, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Create(ctx context.Context, in *models.ProductInput) (*models.Product, error)
	Update(ctx context.Context, id uuid.UUID, in *models.ProductInput) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) (*models.Product, error)
	DeleteMany(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
	DeleteAll(ctx context.Context) ([]models.Product, error)
}

// ListFilter narrows a product listing.
type ListFilter struct {
	CategoryID *uuid.UUID
	// BranchID keeps products linked to the branch or to no branch.
	BranchID *uuid.UUID
	// IncludeInactive lists inactive products too; Active then filters on
	// the flag when set.
	IncludeInactive bool
	Active          *bool
}

// Service implements ProductService
type Service struct {
	logger   *zap.Logger
	db       *gorm.DB
	validate *validation.Validator
}

// NewService creates a new ProductService
func NewService(logger *zap.Logger, db *gorm.DB, validate *validation.Validator) (ProductService, error) {
	return &Service{logger: logger, db: db, validate: validate}, nil
}

func listQuery(db *gorm.DB, filter ListFilter) *gorm.DB {
	query := db.Model(&models.Product{})
	if !filter.IncludeInactive {
		query = query.Where("active = ?", true)
	} else if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.BranchID != nil {
		query = query.Where(database.ProductBranches.Visible(), *filter.BranchID)
	}
	return query.Order("sort_order ASC, name ASC")
}

// List returns the products matching filter ordered by sort order then name.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]models.Product, error) {
	db := s.db.WithContext(ctx)

	products := []models.Product{}
	if err := listQuery(db, filter).Find(&products).Error; err != nil {
		return nil, dbutil.WrapError(err)
	}
	if err := decorate(db, products); err != nil {
		return nil, err
	}
	return products, nil
}

// Get returns a single product.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	db := s.db.WithContext(ctx)

	product, err := dbutil.FindOne[models.Product](db.Where("id = ?", id))
	if err != nil {
		return nil, notFound(err)
	}
	products := []models.Product{*product}
	if err := decorate(db, products); err != nil {
		return nil, err
	}
	return &products[0], nil
}

// Create stores a new product in an existing category.
func (s *Service) Create(ctx context.Context, in *models.ProductInput) (*models.Product, error) {
	product := &models.Product{}
	if err := s.apply(product, in); err != nil {
		return nil, err
	}
	branchIDs := set.Unique(in.BranchIDs)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.place(tx, product, nil, branchIDs); err != nil {
			return err
		}
		if err := tx.Create(product).Error; err != nil {
			return dbutil.WrapError(err)
		}
		return dbutil.WrapError(database.ProductBranches.Replace(tx, product.ID, branchIDs))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("product created", zap.String("product_id", product.ID.String()), zap.String("name", product.Name))
	product.BranchIDs = branchIDs
	product.PriceDisplay = PriceDisplay(product)
	return product, nil
}

// Update replaces the writable fields of a product and its branch links.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in *models.ProductInput) (*models.Product, error) {
	var product *models.Product
	branchIDs := set.Unique(in.BranchIDs)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		product, err = dbutil.FindOne[models.Product](tx.Where("id = ?", id))
		if err != nil {
			return notFound(err)
		}
		if err := s.apply(product, in); err != nil {
			return err
		}
		if err := s.place(tx, product, &product.ID, branchIDs); err != nil {
			return err
		}
		if err := tx.Save(product).Error; err != nil {
			return dbutil.WrapError(err)
		}
		return dbutil.WrapError(database.ProductBranches.Replace(tx, product.ID, branchIDs))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("product updated", zap.String("product_id", product.ID.String()))
	product.BranchIDs = branchIDs
	product.PriceDisplay = PriceDisplay(product)
	return product, nil
}

// Delete removes a product and its branch links and returns it so the
// caller can clean up its image.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	removed, err := s.DeleteMany(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(removed) == 0 {
		return nil, errors.NotFound.Explain("Product not found")
	}
	return &removed[0], nil
}

// DeleteMany removes the listed products. Unknown ids are ignored; the
// products actually removed are returned.
func (s *Service) DeleteMany(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	ids = set.Unique(ids)
	var removed []models.Product

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id IN ?", ids).Find(&removed).Error; err != nil {
			return dbutil.WrapError(err)
		}
		if len(removed) == 0 {
			return nil
		}

		found := make([]uuid.UUID, len(removed))
		for i := range removed {
			found[i] = removed[i].ID
		}
		if err := database.ProductBranches.DeleteOwners(tx, found); err != nil {
			return dbutil.WrapError(err)
		}
		return dbutil.WrapError(tx.Where("id IN ?", found).Delete(&models.Product{}).Error)
	})
	if err != nil {
		return nil, err
	}

	if len(removed) > 0 {
		s.logger.Info("products deleted", zap.Int("requested", len(ids)), zap.Int("deleted", len(removed)))
	}
	return removed, nil
}

// DeleteAll removes every product and returns them.
func (s *Service) DeleteAll(ctx context.Context) ([]models.Product, error) {
	var removed []models.Product

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Find(&removed).Error; err != nil {
			return dbutil.WrapError(err)
		}
		if err := database.ProductBranches.DeleteAll(tx); err != nil {
			return dbutil.WrapError(err)
		}
		return dbutil.WrapError(tx.Exec("DELETE FROM products").Error)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Warn("all products deleted", zap.Int("deleted", len(removed)))
	return removed, nil
}

func (s *Service) apply(product *models.Product, in *models.ProductInput) error {
	if err := s.validate.Validate(in); err != nil {
		return err
	}
	product.Name = s.validate.Text(in.Name)
	if product.Name == "" {
		return errors.Invalid.Explain("name is required")
	}
	product.CategoryID = in.CategoryID
	product.NameEN = s.validate.OptionalText(in.NameEN)
	product.Description = s.validate.OptionalText(in.Description)
	product.DescriptionEN = s.validate.OptionalText(in.DescriptionEN)
	product.Warning = s.validate.OptionalText(in.Warning)
	product.WarningEN = s.validate.OptionalText(in.WarningEN)
	product.ImageURL = blankToNil(in.ImageURL)
	product.SortOrder = in.SortOrder
	product.Active = in.Active == nil || *in.Active

	prices := []struct {
		field string
		in    *decimal.Decimal
		out   **decimal.Decimal
	}{
		{"price_single", in.PriceSingle, &product.PriceSingle},
		{"price_small", in.PriceSmall, &product.PriceSmall},
		{"price_medium", in.PriceMedium, &product.PriceMedium},
		{"price_large", in.PriceLarge, &product.PriceLarge},
	}
	for _, p := range prices {
		if p.in == nil {
			*p.out = nil
			continue
		}
		if p.in.IsNegative() {
			return errors.Invalid.Explain("%s cannot be negative", p.field)
		}
		rounded := p.in.Round(2)
		*p.out = &rounded
	}
	return nil
}

// place checks the product's category and branches and resolves its sort
// order among the other products of the category.
func (s *Service) place(tx *gorm.DB, product *models.Product, self *uuid.UUID, branchIDs []uuid.UUID) error {
	exists, err := dbutil.Exists(tx.Where("id = ?", product.CategoryID), &models.Category{})
	if err != nil {
		return err
	}
	if !exists {
		return errors.Invalid.Explain("category not found")
	}
	if err := database.CheckBranches(tx, branchIDs); err != nil {
		return err
	}

	query := tx.Model(&models.Product{}).Where("category_id = ?", product.CategoryID)
	if self != nil {
		query = query.Where("id <> ?", *self)
	}
	var orders []int
	if err := query.Pluck("sort_order", &orders).Error; err != nil {
		return dbutil.WrapError(err)
	}
	product.SortOrder = sortorder.Assign(product.SortOrder, set.FromSlice(orders))
	return nil
}

func decorate(db *gorm.DB, products []models.Product) error {
	ids := make([]uuid.UUID, len(products))
	for i := range products {
		ids[i] = products[i].ID
	}
	links, err := database.ProductBranches.Load(db, ids)
	if err != nil {
		return dbutil.WrapError(err)
	}
	for i := range products {
		products[i].BranchIDs = links[products[i].ID]
		products[i].PriceDisplay = PriceDisplay(&products[i])
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, errors.NotFound) {
		return errors.NotFound.Explain("Product not found")
	}
	return err
}

func blankToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

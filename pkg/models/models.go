package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	// Prices are rendered as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// Branch is a physical location of the business, optionally reachable
// through its own subdomain.
type Branch struct {
	ID        uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	Name      string    `json:"name" gorm:"size:255;not null"`
	Subdomain *string   `json:"subdomain" gorm:"size:63;uniqueIndex"`
	SortOrder int       `json:"sort_order" gorm:"not null"`
	IsActive  bool      `json:"is_active" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Branch) BeforeCreate(*gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Category is a menu section. Subcategories reference a root category
// through ParentID; nesting is at most two levels deep.
type Category struct {
	ID        uuid.UUID   `json:"id" gorm:"primaryKey;type:uuid"`
	Name      string      `json:"name" gorm:"size:255;not null"`
	NameEN    *string     `json:"name_en" gorm:"column:name_en;size:255"`
	ImageURL  *string     `json:"image_url" gorm:"type:text"`
	ParentID  *uuid.UUID  `json:"parent_id" gorm:"type:uuid;index"`
	SortOrder int         `json:"sort_order" gorm:"not null;index"`
	Active    bool        `json:"active" gorm:"not null"`
	BranchIDs []uuid.UUID `json:"branch_ids" gorm:"-"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

func (c *Category) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Product is a menu item with up to four sized prices.
type Product struct {
	ID            uuid.UUID        `json:"id" gorm:"primaryKey;type:uuid"`
	CategoryID    uuid.UUID        `json:"category_id" gorm:"type:uuid;not null;index"`
	Name          string           `json:"name" gorm:"size:255;not null"`
	NameEN        *string          `json:"name_en" gorm:"column:name_en;size:255"`
	Description   *string          `json:"description" gorm:"type:text"`
	DescriptionEN *string          `json:"description_en" gorm:"column:description_en;type:text"`
	Warning       *string          `json:"warning" gorm:"type:text"`
	WarningEN     *string          `json:"warning_en" gorm:"column:warning_en;type:text"`
	ImageURL      *string          `json:"image_url" gorm:"type:text"`
	PriceSingle   *decimal.Decimal `json:"price_single" gorm:"type:decimal(10,2)"`
	PriceSmall    *decimal.Decimal `json:"price_small" gorm:"type:decimal(10,2)"`
	PriceMedium   *decimal.Decimal `json:"price_medium" gorm:"type:decimal(10,2)"`
	PriceLarge    *decimal.Decimal `json:"price_large" gorm:"type:decimal(10,2)"`
	SortOrder     int              `json:"sort_order" gorm:"not null;index"`
	Active        bool             `json:"active" gorm:"not null"`
	BranchIDs     []uuid.UUID      `json:"branch_ids" gorm:"-"`
	PriceDisplay  string           `json:"price_display" gorm:"-"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// CategoryBranch restricts a category to a branch. A category without rows
// is visible on every branch.
type CategoryBranch struct {
	CategoryID uuid.UUID `gorm:"primaryKey;type:uuid"`
	BranchID   uuid.UUID `gorm:"primaryKey;type:uuid;index"`
}

func (CategoryBranch) TableName() string { return "category_branches" }

// ProductBranch restricts a product to a branch.
type ProductBranch struct {
	ProductID uuid.UUID `gorm:"primaryKey;type:uuid"`
	BranchID  uuid.UUID `gorm:"primaryKey;type:uuid;index"`
}

func (ProductBranch) TableName() string { return "product_branches" }

// SettingEntry is one stored presentation option. A NULL BranchID marks the
// global value.
type SettingEntry struct {
	ID           uuid.UUID  `json:"id" gorm:"primaryKey;type:uuid"`
	SettingKey   string     `json:"setting_key" gorm:"size:100;not null;index"`
	SettingValue string     `json:"setting_value" gorm:"type:text;not null"`
	BranchID     *uuid.UUID `json:"branch_id" gorm:"type:uuid;index"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (SettingEntry) TableName() string { return "settings" }

func (s *SettingEntry) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Admin is a back office account.
type Admin struct {
	ID           uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	Username     string    `json:"username" gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (a *Admin) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// All returns every persisted model, in migration order.
func All() []any {
	return []any{
		&Branch{},
		&Category{},
		&Product{},
		&CategoryBranch{},
		&ProductBranch{},
		&SettingEntry{},
		&Admin{},
	}
}

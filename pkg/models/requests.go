package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CategoryInput is the writable shape of a category.
type CategoryInput struct {
	Name      string      `json:"name" validate:"required,max=255"`
	NameEN    *string     `json:"name_en" validate:"omitempty,max=255"`
	ImageURL  *string     `json:"image_url" validate:"omitempty,max=2048"`
	ParentID  *uuid.UUID  `json:"parent_id"`
	SortOrder int         `json:"sort_order" validate:"min=0"`
	Active    *bool       `json:"active"`
	BranchIDs []uuid.UUID `json:"branch_ids"`
}

// ProductInput is the writable shape of a product.
type ProductInput struct {
	CategoryID    uuid.UUID        `json:"category_id" validate:"required"`
	Name          string           `json:"name" validate:"required,max=255"`
	NameEN        *string          `json:"name_en" validate:"omitempty,max=255"`
	Description   *string          `json:"description" validate:"omitempty,max=5000"`
	DescriptionEN *string          `json:"description_en" validate:"omitempty,max=5000"`
	Warning       *string          `json:"warning" validate:"omitempty,max=1000"`
	WarningEN     *string          `json:"warning_en" validate:"omitempty,max=1000"`
	ImageURL      *string          `json:"image_url" validate:"omitempty,max=2048"`
	PriceSingle   *decimal.Decimal `json:"price_single"`
	PriceSmall    *decimal.Decimal `json:"price_small"`
	PriceMedium   *decimal.Decimal `json:"price_medium"`
	PriceLarge    *decimal.Decimal `json:"price_large"`
	SortOrder     int              `json:"sort_order" validate:"min=0"`
	Active        *bool            `json:"active"`
	BranchIDs     []uuid.UUID      `json:"branch_ids"`
}

// BranchInput is the writable shape of a branch.
type BranchInput struct {
	Name      string  `json:"name" validate:"required,max=255"`
	Subdomain *string `json:"subdomain" validate:"omitempty,max=63,hostname_rfc1123"`
	SortOrder int     `json:"sort_order" validate:"min=0"`
	IsActive  *bool   `json:"is_active"`
}

// LoginRequest carries admin credentials.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
	Admin     *Admin `json:"admin"`
}

// ChangePasswordRequest updates the password of the signed-in admin.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6,max=72"`
}

// ChangeUsernameRequest renames the signed-in admin.
type ChangeUsernameRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewUsername     string `json:"new_username" validate:"required,min=3,max=100"`
}

// BulkDeleteRequest lists products to remove.
type BulkDeleteRequest struct {
	IDs []uuid.UUID `json:"ids" validate:"required,min=1"`
}

// MediaDeleteRequest names a stored image by URL or file name.
type MediaDeleteRequest struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

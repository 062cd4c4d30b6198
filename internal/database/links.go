package database

import (
	"github.com/Aidin1998/qrmenu/common/dbutil"
	"github.com/Aidin1998/qrmenu/common/errors"
	"github.com/Aidin1998/qrmenu/pkg/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BranchLinks manages a join table restricting rows of an owner table to
// branches. An owner without links is visible on every branch.
type BranchLinks struct {
	Table       string
	OwnerTable  string
	OwnerColumn string
}

var (
	CategoryBranches = BranchLinks{Table: "category_branches", OwnerTable: "categories", OwnerColumn: "category_id"}
	ProductBranches  = BranchLinks{Table: "product_branches", OwnerTable: "products", OwnerColumn: "product_id"}
)

// Visible returns a condition, for use in Where, that keeps owners which have
// no links at all or a link to the branch bound to its single placeholder.
func (l BranchLinks) Visible() string {
	return "(NOT EXISTS (SELECT 1 FROM " + l.Table + " bl WHERE bl." + l.OwnerColumn + " = " + l.OwnerTable + ".id)" +
		" OR EXISTS (SELECT 1 FROM " + l.Table + " bl WHERE bl." + l.OwnerColumn + " = " + l.OwnerTable + ".id AND bl.branch_id = ?))"
}

// Replace rewrites the links of owner to exactly branchIDs.
func (l BranchLinks) Replace(tx *gorm.DB, owner uuid.UUID, branchIDs []uuid.UUID) error {
	if err := l.DeleteOwner(tx, owner); err != nil {
		return err
	}
	for _, branchID := range branchIDs {
		err := tx.Exec("INSERT INTO "+l.Table+" ("+l.OwnerColumn+", branch_id) VALUES (?, ?)", owner, branchID).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// DeleteOwner removes every link of owner.
func (l BranchLinks) DeleteOwner(tx *gorm.DB, owner uuid.UUID) error {
	return tx.Exec("DELETE FROM "+l.Table+" WHERE "+l.OwnerColumn+" = ?", owner).Error
}

// DeleteOwners removes every link of the given owners.
func (l BranchLinks) DeleteOwners(tx *gorm.DB, owners []uuid.UUID) error {
	if len(owners) == 0 {
		return nil
	}
	return tx.Exec("DELETE FROM "+l.Table+" WHERE "+l.OwnerColumn+" IN ?", owners).Error
}

// DeleteAll removes every link in the table.
func (l BranchLinks) DeleteAll(tx *gorm.DB) error {
	return tx.Exec("DELETE FROM " + l.Table).Error
}

// DeleteBranch removes every link pointing at branch.
func (l BranchLinks) DeleteBranch(tx *gorm.DB, branch uuid.UUID) error {
	return tx.Exec("DELETE FROM "+l.Table+" WHERE branch_id = ?", branch).Error
}

// Load returns the branch ids linked to each of owners. Owners without links
// map to an empty slice.
func (l BranchLinks) Load(tx *gorm.DB, owners []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	result := make(map[uuid.UUID][]uuid.UUID, len(owners))
	if len(owners) == 0 {
		return result, nil
	}
	for _, owner := range owners {
		result[owner] = []uuid.UUID{}
	}

	var rows []struct {
		OwnerID  uuid.UUID
		BranchID uuid.UUID
	}
	err := tx.Table(l.Table).
		Select(l.OwnerColumn+" AS owner_id, branch_id").
		Where(l.OwnerColumn+" IN ?", owners).
		Order("branch_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.OwnerID] = append(result[row.OwnerID], row.BranchID)
	}
	return result, nil
}

// CheckBranches fails with errors.Invalid unless every id names a branch.
func CheckBranches(tx *gorm.DB, branchIDs []uuid.UUID) error {
	if len(branchIDs) == 0 {
		return nil
	}
	var count int64
	if err := tx.Model(&models.Branch{}).Where("id IN ?", branchIDs).Count(&count).Error; err != nil {
		return dbutil.WrapError(err)
	}
	if int(count) != len(branchIDs) {
		return errors.Invalid.Explain("unknown branch in branch_ids")
	}
	return nil
}

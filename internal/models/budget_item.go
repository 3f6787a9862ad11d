package models

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BudgetItem is one plannable line in a budget scenario.
//
// Items are organized in a flat hierarchy: an item either is a folder or
// belongs to at most one folder. Folders never carry spend themselves,
// their totals are the sum of all non-folder descendants.
type BudgetItem struct {
	DefaultModel
	ScenarioID   uuid.UUID `gorm:"uniqueIndex:budget_item_scenario_name"`
	Scenario     Scenario  `json:"-"`
	Name         string    `gorm:"uniqueIndex:budget_item_scenario_name"`
	Note         string
	Budgeted     decimal.Decimal `gorm:"type:DECIMAL(20,8)"` // The planned amount, used as weight for proportional allocation
	ParentID     *uuid.UUID
	DisplayOrder uint
	IsFolder     bool
	Archived     bool
}

func (b *BudgetItem) BeforeCreate(tx *gorm.DB) error {
	_ = b.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*BudgetItem)
	return b.checkIntegrity(tx, *toSave)
}

func (b *BudgetItem) BeforeUpdate(tx *gorm.DB) error {
	toSave := tx.Statement.Dest.(BudgetItem)

	if tx.Statement.Changed("ScenarioID") || tx.Statement.Changed("ParentID") {
		// A partial update only carries the changed fields, integrity is
		// checked against the values the row has after the update.
		if !tx.Statement.Changed("ScenarioID") {
			toSave.ScenarioID = b.ScenarioID
		}

		if !tx.Statement.Changed("ParentID") {
			toSave.ParentID = b.ParentID
		}

		if toSave.ParentID != nil && *toSave.ParentID == b.ID {
			return ErrBudgetItemFolderCycle
		}

		err := b.checkIntegrity(tx, toSave)
		if err != nil {
			return err
		}
	}

	return nil
}

// checkIntegrity verifies references to other resources: the scenario has
// to exist and the parent, if set, has to be a folder in the same scenario.
func (b *BudgetItem) checkIntegrity(tx *gorm.DB, toSave BudgetItem) error {
	err := tx.First(&Scenario{}, toSave.ScenarioID).Error
	if err != nil {
		return err
	}

	if toSave.ParentID == nil || *toSave.ParentID == uuid.Nil {
		return nil
	}

	var parent BudgetItem
	err = tx.First(&parent, *toSave.ParentID).Error
	if err != nil {
		return err
	}

	if !parent.IsFolder || parent.ScenarioID != toSave.ScenarioID {
		return ErrBudgetItemParentNotFolder
	}

	return nil
}

func (b *BudgetItem) BeforeSave(_ *gorm.DB) error {
	b.Name = strings.TrimSpace(b.Name)
	b.Note = strings.TrimSpace(b.Note)

	return nil
}

func (b *BudgetItem) BeforeDelete(tx *gorm.DB) error {
	var count int64
	err := tx.Model(&BudgetItem{}).Where("parent_id = ?", b.ID).Count(&count).Error
	if err != nil {
		return err
	}

	if count > 0 {
		return ErrBudgetItemHasChildren
	}

	return nil
}

// Children returns the direct descendants of a folder.
func (b BudgetItem) Children(db *gorm.DB) ([]BudgetItem, error) {
	var children []BudgetItem
	err := db.Where("parent_id = ?", b.ID).Order("display_order ASC, name ASC").Find(&children).Error
	if err != nil {
		return nil, err
	}

	return children, nil
}

// Spent returns the amount of money attributed to the budget item.
//
// Spend is never written by the allocation engine, it is always derived by
// summing the expense allocations that reference the item.
func (b BudgetItem) Spent(db *gorm.DB) (decimal.Decimal, error) {
	if b.IsFolder {
		return b.sumChildren(db, func(child BudgetItem) (decimal.Decimal, error) {
			return child.Spent(db)
		})
	}

	var sum decimal.NullDecimal
	err := db.Table("expense_allocations").
		Where("budget_item_id = ? AND scenario_id = ? AND deleted_at IS NULL", b.ID, b.ScenarioID).
		Select("SUM(amount)").
		Row().
		Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("getting allocations for budget item %s failed: %w", b.ID, err)
	}

	return sum.Decimal, nil
}

// Received returns the gift money attributed to the budget item.
func (b BudgetItem) Received(db *gorm.DB) (decimal.Decimal, error) {
	if b.IsFolder {
		return b.sumChildren(db, func(child BudgetItem) (decimal.Decimal, error) {
			return child.Received(db)
		})
	}

	var sum decimal.NullDecimal
	err := db.Table("gift_allocations").
		Where("budget_item_id = ? AND scenario_id = ? AND deleted_at IS NULL", b.ID, b.ScenarioID).
		Select("SUM(amount)").
		Row().
		Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("getting gift allocations for budget item %s failed: %w", b.ID, err)
	}

	return sum.Decimal, nil
}

// TotalBudgeted returns the budgeted amount. For folders this is the sum
// over all non-folder descendants since folders have no budget themselves.
func (b BudgetItem) TotalBudgeted(db *gorm.DB) (decimal.Decimal, error) {
	if !b.IsFolder {
		return b.Budgeted, nil
	}

	return b.sumChildren(db, func(child BudgetItem) (decimal.Decimal, error) {
		return child.TotalBudgeted(db)
	})
}

func (b BudgetItem) sumChildren(db *gorm.DB, value func(BudgetItem) (decimal.Decimal, error)) (decimal.Decimal, error) {
	children, err := b.Children(db)
	if err != nil {
		return decimal.Zero, err
	}

	sum := decimal.Zero
	for _, child := range children {
		v, err := value(child)
		if err != nil {
			return decimal.Zero, err
		}
		sum = sum.Add(v)
	}

	return sum, nil
}

// Returns all budget items on this instance for export
func (BudgetItem) Export() (json.RawMessage, error) {
	var items []BudgetItem
	err := DB.Unscoped().Where(&BudgetItem{}).Find(&items).Error
	if err != nil {
		return nil, err
	}

	j, err := json.Marshal(&items)
	if err != nil {
		return json.RawMessage{}, err
	}
	return json.RawMessage(j), nil
}

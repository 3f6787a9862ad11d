package models

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wedplan/backend/internal/allocation"
	"gorm.io/gorm"
)

// ExpenseAllocation attributes a part of an expense amount to one budget
// item within a scenario.
//
// For a fixed (expense, scenario) pair the amounts of all rows sum to the
// expense amount. To keep that invariant enforceable the rows are never
// patched individually, the allocation engine always replaces the full
// set through ReplaceAllocations.
type ExpenseAllocation struct {
	DefaultModel
	ScenarioID   uuid.UUID       `gorm:"uniqueIndex:expense_allocation_scenario_item_source"`
	Scenario     Scenario        `json:"-"`
	BudgetItemID uuid.UUID       `gorm:"uniqueIndex:expense_allocation_scenario_item_source"`
	BudgetItem   BudgetItem      `json:"-"`
	ExpenseID    string          `gorm:"uniqueIndex:expense_allocation_scenario_item_source"`
	Amount       decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
}

func (a *ExpenseAllocation) BeforeCreate(tx *gorm.DB) error {
	_ = a.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*ExpenseAllocation)
	return checkAllocationIntegrity(tx, toSave.ScenarioID, toSave.BudgetItemID)
}

func (a *ExpenseAllocation) AfterSave(_ *gorm.DB) error {
	if a.Amount.IsNegative() {
		return ErrAllocationAmountNegative
	}

	return nil
}

// Returns all expense allocations on this instance for export
func (ExpenseAllocation) Export() (json.RawMessage, error) {
	var allocations []ExpenseAllocation
	err := DB.Unscoped().Where(&ExpenseAllocation{}).Find(&allocations).Error
	if err != nil {
		return nil, err
	}

	j, err := json.Marshal(&allocations)
	if err != nil {
		return json.RawMessage{}, err
	}
	return json.RawMessage(j), nil
}

// GiftAllocation mirrors ExpenseAllocation for gifts and owed money.
type GiftAllocation struct {
	DefaultModel
	ScenarioID   uuid.UUID       `gorm:"uniqueIndex:gift_allocation_scenario_item_source"`
	Scenario     Scenario        `json:"-"`
	BudgetItemID uuid.UUID       `gorm:"uniqueIndex:gift_allocation_scenario_item_source"`
	BudgetItem   BudgetItem      `json:"-"`
	GiftID       string          `gorm:"uniqueIndex:gift_allocation_scenario_item_source"`
	Amount       decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
}

func (a *GiftAllocation) BeforeCreate(tx *gorm.DB) error {
	_ = a.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*GiftAllocation)
	return checkAllocationIntegrity(tx, toSave.ScenarioID, toSave.BudgetItemID)
}

func (a *GiftAllocation) AfterSave(_ *gorm.DB) error {
	if a.Amount.IsNegative() {
		return ErrAllocationAmountNegative
	}

	return nil
}

// Returns all gift allocations on this instance for export
func (GiftAllocation) Export() (json.RawMessage, error) {
	var allocations []GiftAllocation
	err := DB.Unscoped().Where(&GiftAllocation{}).Find(&allocations).Error
	if err != nil {
		return nil, err
	}

	j, err := json.Marshal(&allocations)
	if err != nil {
		return json.RawMessage{}, err
	}
	return json.RawMessage(j), nil
}

// checkAllocationIntegrity verifies that the budget item exists, belongs
// to the scenario and is not a folder. Folders never hold allocations.
func checkAllocationIntegrity(tx *gorm.DB, scenarioID, budgetItemID uuid.UUID) error {
	err := tx.First(&Scenario{}, scenarioID).Error
	if err != nil {
		return err
	}

	var item BudgetItem
	err = tx.First(&item, budgetItemID).Error
	if err != nil {
		return err
	}

	if item.IsFolder {
		return ErrAllocationBudgetItemIsFolder
	}

	if item.ScenarioID != scenarioID {
		return ErrAllocationScenarioItemMismatch
	}

	return nil
}

// ScenarioItems provides budget item weights to the allocation engine.
type ScenarioItems struct{}

func (ScenarioItems) BudgetItems(ctx context.Context, scenarioID uuid.UUID) ([]allocation.Item, error) {
	var items []BudgetItem
	err := DB.WithContext(ctx).Where(&BudgetItem{ScenarioID: scenarioID}).Find(&items).Error
	if err != nil {
		return nil, err
	}

	resources := make([]allocation.Item, 0, len(items))
	for _, item := range items {
		resources = append(resources, allocation.Item{
			ID:       item.ID,
			Budgeted: item.Budgeted,
			IsFolder: item.IsFolder,
		})
	}

	return resources, nil
}

// ExpenseLinks is the expense variant of the allocation engine's link
// store, backed by the expense_allocations table.
type ExpenseLinks struct{}

func (ExpenseLinks) AllocationsForSource(ctx context.Context, sourceID string, scenarioID uuid.UUID) ([]allocation.Row, error) {
	var allocations []ExpenseAllocation
	err := DB.WithContext(ctx).
		Where(&ExpenseAllocation{ExpenseID: sourceID, ScenarioID: scenarioID}).
		Order("created_at ASC").
		Find(&allocations).Error
	if err != nil {
		return nil, err
	}

	rows := make([]allocation.Row, 0, len(allocations))
	for _, a := range allocations {
		rows = append(rows, allocation.Row{
			ID:           a.ID,
			BudgetItemID: a.BudgetItemID,
			Amount:       a.Amount,
		})
	}

	return rows, nil
}

// ReplaceAllocations replaces the full allocation set for the source in
// one transaction so that the sum invariant can never be observed broken.
func (ExpenseLinks) ReplaceAllocations(ctx context.Context, sourceID string, scenarioID uuid.UUID, rows []allocation.Row) error {
	return DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Hard delete, a soft deleted row would still occupy the unique index
		err := tx.Unscoped().
			Where("expense_id = ? AND scenario_id = ?", sourceID, scenarioID).
			Delete(&ExpenseAllocation{}).Error
		if err != nil {
			return err
		}

		for _, row := range rows {
			a := ExpenseAllocation{
				DefaultModel: DefaultModel{ID: row.ID},
				ScenarioID:   scenarioID,
				BudgetItemID: row.BudgetItemID,
				ExpenseID:    sourceID,
				Amount:       row.Amount,
			}

			err := tx.Create(&a).Error
			if err != nil {
				return err
			}
		}

		return nil
	})
}

// GiftLinks mirrors ExpenseLinks for the gift_allocations table.
type GiftLinks struct{}

func (GiftLinks) AllocationsForSource(ctx context.Context, sourceID string, scenarioID uuid.UUID) ([]allocation.Row, error) {
	var allocations []GiftAllocation
	err := DB.WithContext(ctx).
		Where(&GiftAllocation{GiftID: sourceID, ScenarioID: scenarioID}).
		Order("created_at ASC").
		Find(&allocations).Error
	if err != nil {
		return nil, err
	}

	rows := make([]allocation.Row, 0, len(allocations))
	for _, a := range allocations {
		rows = append(rows, allocation.Row{
			ID:           a.ID,
			BudgetItemID: a.BudgetItemID,
			Amount:       a.Amount,
		})
	}

	return rows, nil
}

func (GiftLinks) ReplaceAllocations(ctx context.Context, sourceID string, scenarioID uuid.UUID, rows []allocation.Row) error {
	return DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Unscoped().
			Where("gift_id = ? AND scenario_id = ?", sourceID, scenarioID).
			Delete(&GiftAllocation{}).Error
		if err != nil {
			return err
		}

		for _, row := range rows {
			a := GiftAllocation{
				DefaultModel: DefaultModel{ID: row.ID},
				ScenarioID:   scenarioID,
				BudgetItemID: row.BudgetItemID,
				GiftID:       sourceID,
				Amount:       row.Amount,
			}

			err := tx.Create(&a).Error
			if err != nil {
				return err
			}
		}

		return nil
	})
}

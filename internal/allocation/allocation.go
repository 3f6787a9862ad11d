// Package allocation distributes the amount of a source item, an expense
// or a gift, across the budget items it is linked to within a scenario.
//
// The engine computes the complete, correct allocation set for a
// (source, scenario) pair and hands it to the link store as one
// replace-all write. It owns no persistence itself: budget item weights
// and allocation rows come from collaborator interfaces that are injected
// on construction.
package allocation

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Source is the item whose amount is distributed. Expenses and gifts are
// both sources, the engine does not care which.
type Source struct {
	ID     string
	Amount decimal.Decimal
}

// Item carries the properties of a budget item the engine needs: the
// budgeted amount is the weight for the proportional split, folders are
// rejected as link targets.
type Item struct {
	ID       uuid.UUID
	Budgeted decimal.Decimal
	IsFolder bool
}

// Row is one allocation of a part of a source amount to a budget item.
//
// The ID is the persisted row ID. When the engine rebalances a set it
// keeps the IDs of rows whose budget item stays linked and leaves the ID
// of new rows at uuid.Nil for the store to fill in.
type Row struct {
	ID           uuid.UUID
	BudgetItemID uuid.UUID
	Amount       decimal.Decimal
}

// BudgetItems supplies the budget items of a scenario.
type BudgetItems interface {
	BudgetItems(ctx context.Context, scenarioID uuid.UUID) ([]Item, error)
}

// LinkStore is the keyed association table mapping (source id, scenario
// id) to the set of allocation rows.
//
// ReplaceAllocations must replace the full set atomically: a partial
// write would break the invariant that the row amounts sum to the source
// amount.
type LinkStore interface {
	AllocationsForSource(ctx context.Context, sourceID string, scenarioID uuid.UUID) ([]Row, error)
	ReplaceAllocations(ctx context.Context, sourceID string, scenarioID uuid.UUID, rows []Row) error
}

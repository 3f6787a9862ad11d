package allocation

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// amountPlaces is the number of decimal places for allocation amounts,
// matching the DECIMAL(20,8) columns of the link store.
const amountPlaces = 8

// Engine computes proportional allocation sets.
type Engine struct {
	items BudgetItems
	links LinkStore
}

func New(items BudgetItems, links LinkStore) *Engine {
	return &Engine{
		items: items,
		links: links,
	}
}

// Link links the source to the target budget item and rebalances the
// allocations of all budget items the source is linked to in the
// scenario.
//
// The full source amount is always distributed, weighted by the budgeted
// amounts of the linked items. A single linked item receives 100%
// regardless of its weight. When all weights are zero the amount is split
// equally instead, so that linking never divides by zero.
//
// The returned rows are the set that was written. Re-running Link with
// the same inputs and unchanged external state writes the same set again.
func (e *Engine) Link(ctx context.Context, source Source, targetID, scenarioID uuid.UUID) ([]Row, error) {
	if !source.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	existing, err := e.links.AllocationsForSource(ctx, source.ID, scenarioID)
	if err != nil {
		return nil, err
	}

	// The target set keeps the order of the existing rows so that
	// rebalancing is stable, the new member goes last.
	memberIDs := make([]uuid.UUID, 0, len(existing)+1)
	rowIDs := make(map[uuid.UUID]uuid.UUID, len(existing))
	for _, row := range existing {
		memberIDs = append(memberIDs, row.BudgetItemID)
		rowIDs[row.BudgetItemID] = row.ID
	}

	if _, linked := rowIDs[targetID]; !linked {
		memberIDs = append(memberIDs, targetID)
	}

	members, err := e.resolve(ctx, scenarioID, memberIDs)
	if err != nil {
		return nil, err
	}

	for _, member := range members {
		if member.ID == targetID && member.IsFolder {
			return nil, ErrFolderTarget
		}
	}

	rows := split(source.Amount, members, rowIDs)

	err = e.links.ReplaceAllocations(ctx, source.ID, scenarioID, rows)
	if err != nil {
		return nil, err
	}

	return rows, nil
}

// Unlink removes one budget item from the link set of the source and
// rebalances the full source amount across the remaining items. Removing
// the last linked item clears the set. Removing an item that is not
// linked leaves the set untouched.
func (e *Engine) Unlink(ctx context.Context, source Source, itemID, scenarioID uuid.UUID) ([]Row, error) {
	existing, err := e.links.AllocationsForSource(ctx, source.ID, scenarioID)
	if err != nil {
		return nil, err
	}

	memberIDs := make([]uuid.UUID, 0, len(existing))
	rowIDs := make(map[uuid.UUID]uuid.UUID, len(existing))
	removed := false
	for _, row := range existing {
		if row.BudgetItemID == itemID {
			removed = true
			continue
		}

		memberIDs = append(memberIDs, row.BudgetItemID)
		rowIDs[row.BudgetItemID] = row.ID
	}

	if !removed {
		return existing, nil
	}

	if len(memberIDs) == 0 {
		err = e.links.ReplaceAllocations(ctx, source.ID, scenarioID, []Row{})
		if err != nil {
			return nil, err
		}

		return []Row{}, nil
	}

	if !source.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	members, err := e.resolve(ctx, scenarioID, memberIDs)
	if err != nil {
		return nil, err
	}

	rows := split(source.Amount, members, rowIDs)

	err = e.links.ReplaceAllocations(ctx, source.ID, scenarioID, rows)
	if err != nil {
		return nil, err
	}

	return rows, nil
}

// resolve maps the member IDs of a target set to budget items. An ID that
// does not exist in the scenario aborts the operation, a write with a
// vanished member would persist an allocation to nowhere.
func (e *Engine) resolve(ctx context.Context, scenarioID uuid.UUID, memberIDs []uuid.UUID) ([]Item, error) {
	items, err := e.items.BudgetItems(ctx, scenarioID)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]Item, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	members := make([]Item, 0, len(memberIDs))
	for _, id := range memberIDs {
		item, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w %s", ErrItemNotFound, id)
		}

		members = append(members, item)
	}

	return members, nil
}

// split computes one row per member.
//
// The last member receives the residual instead of its own rounded share,
// which makes the amounts sum to the source amount exactly.
func split(amount decimal.Decimal, members []Item, rowIDs map[uuid.UUID]uuid.UUID) []Row {
	rows := make([]Row, 0, len(members))

	// A single member gets everything. This also avoids rounding
	// artifacts when there is nothing to distribute.
	if len(members) == 1 {
		return append(rows, Row{
			ID:           rowIDs[members[0].ID],
			BudgetItemID: members[0].ID,
			Amount:       amount,
		})
	}

	totalWeight := decimal.Zero
	for _, member := range members {
		totalWeight = totalWeight.Add(member.Budgeted)
	}

	assigned := decimal.Zero
	for i, member := range members {
		var share decimal.Decimal

		// Non-last shares are truncated, not rounded. Rounding up could
		// push the assigned sum past the source amount and turn the
		// residual of the last member negative.
		switch {
		case i == len(members)-1:
			share = amount.Sub(assigned)
		case totalWeight.IsZero():
			// All weights zero: split equally instead of dividing by zero
			share, _ = amount.QuoRem(decimal.NewFromInt(int64(len(members))), amountPlaces)
		default:
			share, _ = amount.Mul(member.Budgeted).QuoRem(totalWeight, amountPlaces)
		}

		assigned = assigned.Add(share)
		rows = append(rows, Row{
			ID:           rowIDs[member.ID],
			BudgetItemID: member.ID,
			Amount:       share,
		})
	}

	return rows
}

package importer

import (
	"github.com/google/uuid"
	"github.com/wedplan/backend/internal/models"
)

// ExpensePreview is used to preview expenses that will be imported to allow for editing.
type ExpensePreview struct {
	Expense             models.Expense `json:"expense"`
	VendorName          string         `json:"vendorName" example:"Blossom & Stem"`                           // Name of the vendor from the CSV file
	DuplicateExpenseIDs []uuid.UUID    `json:"duplicateExpenseIds"`                                           // IDs of expenses that this expense duplicates
	BudgetItemID        uuid.UUID      `json:"budgetItemId" example:"3b1ea324-d438-4419-882a-2fc91d71772f"`   // Budget item a link rule matched, if any
	LinkRuleID          uuid.UUID      `json:"linkRuleId" example:"95685c82-53c6-455d-b235-f49960b73412"`     // ID of the link rule that was applied to this expense preview
}

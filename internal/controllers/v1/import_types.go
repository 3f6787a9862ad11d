package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/wedplan/backend/internal/importer"
	wp_uuid "github.com/wedplan/backend/internal/uuid"
)

// ImportResponse is the response to a cost sheet import.
type ImportResponse struct {
	Data    []Expense `json:"data"`                                                          // The created expenses
	Created int       `json:"created" example:"17"`                                          // Number of expenses that were created
	Skipped int       `json:"skipped" example:"2"`                                           // Number of expenses that were skipped as duplicates
	Linked  int       `json:"linked" example:"11"`                                           // Number of expenses that were auto-linked by link rules
	Error   *string   `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

// ImportQuery are the parameters for a cost sheet import.
type ImportQuery struct {
	ScenarioID string `form:"scenario"` // ID of the scenario to auto-link the imported expenses in. No auto-linking without it.
}

// ImportPreviewQuery are the parameters for a cost sheet import preview.
type ImportPreviewQuery struct {
	ScenarioID wp_uuid.UUID `form:"scenario" binding:"required"` // ID of the scenario the expenses will be imported into
}

// ImportPreviewList is the response to a cost sheet import preview.
type ImportPreviewList struct {
	Data  []ExpensePreview `json:"data"`                                                          // List of expense previews
	Error *string          `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

// newExpensePreview transforms an ExpensePreview to the API resource
func newExpensePreview(c *gin.Context, p importer.ExpensePreview) ExpensePreview {
	budgetItemID := &p.BudgetItemID
	if p.BudgetItemID == uuid.Nil {
		budgetItemID = nil
	}

	linkRuleID := &p.LinkRuleID
	if p.LinkRuleID == uuid.Nil {
		linkRuleID = nil
	}

	return ExpensePreview{
		Expense:             newExpense(c, p.Expense),
		VendorName:          p.VendorName,
		DuplicateExpenseIDs: p.DuplicateExpenseIDs,
		BudgetItemID:        budgetItemID,
		LinkRuleID:          linkRuleID,
	}
}

// ExpensePreview is used to preview expenses that will be imported to allow for editing.
type ExpensePreview struct {
	Expense             Expense     `json:"expense"`
	VendorName          string      `json:"vendorName" example:"Blossom & Stem"`                         // Name of the vendor from the CSV file
	DuplicateExpenseIDs []uuid.UUID `json:"duplicateExpenseIds"`                                         // IDs of expenses that this expense duplicates
	BudgetItemID        *uuid.UUID  `json:"budgetItemId" example:"3b1ea324-d438-4419-882a-2fc91d71772f"` // Budget item the first matching link rule links to
	LinkRuleID          *uuid.UUID  `json:"linkRuleId" example:"95685c82-53c6-455d-b235-f49960b73412"`   // ID of the link rule that was applied to this expense preview
}

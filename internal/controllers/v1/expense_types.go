package v1

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wedplan/backend/internal/models"
	wp_uuid "github.com/wedplan/backend/internal/uuid"
)

// ExpenseEditable represents all user configurable parameters
type ExpenseEditable struct {
	VendorID *uuid.UUID           `json:"vendorId" example:"d92c0e05-b57a-4918-bd62-bdbd8a4a09fe"`       // ID of the vendor the expense was booked with
	Name     string               `json:"name" example:"Deposit bouquets" default:""`                    // Name of the expense
	Note     string               `json:"note" example:"50% due on signing" default:""`                  // Notes about the expense
	Amount   decimal.Decimal      `json:"amount" example:"750" minimum:"0" multipleOf:"0.00000001"`      // Amount of the expense
	Date     time.Time            `json:"date" example:"2026-04-12T00:00:00Z"`                           // Date of the expense
	Status   models.PaymentStatus `json:"status" example:"pending" default:"pending"`                    // Payment status
}

func (editable ExpenseEditable) model() models.Expense {
	return models.Expense{
		VendorID: editable.VendorID,
		Name:     editable.Name,
		Note:     editable.Note,
		Amount:   editable.Amount,
		Date:     editable.Date,
		Status:   editable.Status,
	}
}

type ExpenseLinksSection struct {
	Self        string `json:"self" example:"https://example.com/api/v1/expenses/a6b0f7b7-57cb-48a5-9e6b-dcd68067f312"`                 // The expense itself
	Allocations string `json:"allocations" example:"https://example.com/api/v1/allocations?expense=a6b0f7b7-57cb-48a5-9e6b-dcd68067f312"` // Allocations of this expense
}

type Expense struct {
	models.DefaultModel
	ExpenseEditable
	Links ExpenseLinksSection `json:"links"`
}

func newExpense(c *gin.Context, model models.Expense) Expense {
	url := c.GetString(string(models.DBContextURL))

	return Expense{
		DefaultModel: model.DefaultModel,
		ExpenseEditable: ExpenseEditable{
			VendorID: model.VendorID,
			Name:     model.Name,
			Note:     model.Note,
			Amount:   model.Amount,
			Date:     model.Date,
			Status:   model.Status,
		},
		Links: ExpenseLinksSection{
			Self:        fmt.Sprintf("%s/v1/expenses/%s", url, model.ID),
			Allocations: fmt.Sprintf("%s/v1/allocations?expense=%s", url, model.ID),
		},
	}
}

type ExpenseListResponse struct {
	Data       []Expense   `json:"data"`                                                          // List of expenses
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type ExpenseCreateResponse struct {
	Error *string           `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []ExpenseResponse `json:"data"`                                                          // List of the created expenses or their respective error
}

func (r *ExpenseCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	r.Data = append(r.Data, ExpenseResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type ExpenseResponse struct {
	Data  *Expense `json:"data"`                                                          // Data for the expense
	Error *string  `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type ExpenseQueryFilter struct {
	VendorID wp_uuid.UUID         `form:"vendor"`                     // By ID of the vendor
	Name     string               `form:"name" filterField:"false"`   // By name
	Note     string               `form:"note" filterField:"false"`   // By note
	Status   models.PaymentStatus `form:"status"`                     // By payment status
	Search   string               `form:"search" filterField:"false"` // By string in name or note
	Offset   uint                 `form:"offset" filterField:"false"` // The offset of the first expense returned. Defaults to 0.
	Limit    int                  `form:"limit" filterField:"false"`  // Maximum number of expenses to return. Defaults to 50.
}

func (f ExpenseQueryFilter) model() (models.Expense, error) {
	var vendorID *uuid.UUID
	if f.VendorID != wp_uuid.Nil {
		vendorID = &f.VendorID.UUID
	}

	return models.Expense{
		VendorID: vendorID,
		Status:   f.Status,
	}, nil
}

// LinkEditable is the request body for linking a source to one more
// budget item.
type LinkEditable struct {
	ScenarioID   uuid.UUID `json:"scenarioId" binding:"required" example:"52d967d3-33f4-4b04-9ba7-772e5ab9d0ce"`   // Scenario to link within
	BudgetItemID uuid.UUID `json:"budgetItemId" binding:"required" example:"3b1ea324-d438-4419-882a-2fc91d71772f"` // The budget item to link to
}

// LinkScenarioQuery scopes an unlink call to one scenario.
type LinkScenarioQuery struct {
	ScenarioID wp_uuid.UUID `form:"scenario"` // ID of the scenario to unlink within
}

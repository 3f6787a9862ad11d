package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wedplan/backend/internal/models"
	wp_uuid "github.com/wedplan/backend/internal/uuid"
	"gorm.io/gorm"
)

// BudgetItemEditable represents all user configurable parameters
type BudgetItemEditable struct {
	ScenarioID   uuid.UUID       `json:"scenarioId" example:"52d967d3-33f4-4b04-9ba7-772e5ab9d0ce"`                                  // ID of the scenario the item belongs to
	Name         string          `json:"name" example:"Flowers" default:""`                                                          // Name of the budget item
	Note         string          `json:"note" example:"Bouquet and table decorations" default:""`                                    // Notes about the item
	Budgeted     decimal.Decimal `json:"budgeted" example:"1500" minimum:"0" multipleOf:"0.00000001"`                                // The planned amount. Weight for proportional allocation.
	ParentID     *uuid.UUID      `json:"parentId" example:"a0909e84-e8f9-4cb6-82a5-025dff105ff2"`                                    // ID of the folder the item is grouped under
	DisplayOrder uint            `json:"displayOrder" example:"3" default:"0"`                                                       // Sort order in the planning view
	IsFolder     bool            `json:"isFolder" example:"false" default:"false"`                                                   // Is this item a folder?
	Archived     bool            `json:"archived" example:"true" default:"false"`                                                    // Is the item archived?
}

func (editable BudgetItemEditable) model() models.BudgetItem {
	return models.BudgetItem{
		ScenarioID:   editable.ScenarioID,
		Name:         editable.Name,
		Note:         editable.Note,
		Budgeted:     editable.Budgeted,
		ParentID:     editable.ParentID,
		DisplayOrder: editable.DisplayOrder,
		IsFolder:     editable.IsFolder,
		Archived:     editable.Archived,
	}
}

type BudgetItemLinks struct {
	Self        string `json:"self" example:"https://example.com/api/v1/budget-items/3b1ea324-d438-4419-882a-2fc91d71772f"`               // The budget item itself
	Allocations string `json:"allocations" example:"https://example.com/api/v1/allocations?budgetItem=3b1ea324-d438-4419-882a-2fc91d71772f"` // Allocations for this item
}

type BudgetItem struct {
	models.DefaultModel
	BudgetItemEditable
	Links BudgetItemLinks `json:"links"`

	// These fields are computed. For folders they are the sums over all
	// descendants.
	TotalBudgeted decimal.Decimal `json:"totalBudgeted" example:"1500"` // Budgeted amount including descendants
	Spent         decimal.Decimal `json:"spent" example:"350.5"`        // Sum of expense allocations
	Received      decimal.Decimal `json:"received" example:"50"`        // Sum of gift allocations
}

func newBudgetItem(c *gin.Context, db *gorm.DB, model models.BudgetItem) (BudgetItem, error) {
	url := c.GetString(string(models.DBContextURL))

	item := BudgetItem{
		DefaultModel: model.DefaultModel,
		BudgetItemEditable: BudgetItemEditable{
			ScenarioID:   model.ScenarioID,
			Name:         model.Name,
			Note:         model.Note,
			Budgeted:     model.Budgeted,
			ParentID:     model.ParentID,
			DisplayOrder: model.DisplayOrder,
			IsFolder:     model.IsFolder,
			Archived:     model.Archived,
		},
		Links: BudgetItemLinks{
			Self:        fmt.Sprintf("%s/v1/budget-items/%s", url, model.ID),
			Allocations: fmt.Sprintf("%s/v1/allocations?budgetItem=%s", url, model.ID),
		},
	}

	var err error
	item.TotalBudgeted, err = model.TotalBudgeted(db)
	if err != nil {
		return BudgetItem{}, err
	}

	item.Spent, err = model.Spent(db)
	if err != nil {
		return BudgetItem{}, err
	}

	item.Received, err = model.Received(db)
	if err != nil {
		return BudgetItem{}, err
	}

	return item, nil
}

type BudgetItemListResponse struct {
	Data       []BudgetItem `json:"data"`                                                          // List of budget items
	Error      *string      `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination  `json:"pagination"`                                                    // Pagination information
}

type BudgetItemCreateResponse struct {
	Error *string              `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []BudgetItemResponse `json:"data"`                                                          // List of the created budget items or their respective error
}

func (r *BudgetItemCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	r.Data = append(r.Data, BudgetItemResponse{Error: &s})

	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type BudgetItemResponse struct {
	Data  *BudgetItem `json:"data"`                                                          // Data for the budget item
	Error *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type BudgetItemQueryFilter struct {
	ScenarioID wp_uuid.UUID `form:"scenario"`                   // By ID of the scenario
	ParentID   wp_uuid.UUID `form:"parent"`                     // By ID of the parent folder
	Name       string       `form:"name" filterField:"false"`   // By name
	Note       string       `form:"note" filterField:"false"`   // By note
	IsFolder   bool         `form:"isFolder"`                   // Only folders or only non-folders
	Archived   bool         `form:"archived"`                   // Is the item archived?
	Search     string       `form:"search" filterField:"false"` // By string in name or note
	Offset     uint         `form:"offset" filterField:"false"` // The offset of the first item returned. Defaults to 0.
	Limit      int          `form:"limit" filterField:"false"`  // Maximum number of items to return. Defaults to 50.
}

func (f BudgetItemQueryFilter) model() (models.BudgetItem, error) {
	var parentID *uuid.UUID
	if f.ParentID.UUID != uuid.Nil {
		parentID = &f.ParentID.UUID
	}

	return models.BudgetItem{
		ScenarioID: f.ScenarioID.UUID,
		ParentID:   parentID,
		IsFolder:   f.IsFolder,
		Archived:   f.Archived,
	}, nil
}

// BudgetItemDeleteQuery controls what happens to the contents of a folder
// when it is deleted.
type BudgetItemDeleteQuery struct {
	DeleteContents bool `form:"deleteContents"` // Also delete all items inside the folder instead of re-parenting them
}

// BatchLinkEditable is the request body for linking multiple expenses to
// one budget item in one call.
type BatchLinkEditable struct {
	ScenarioID uuid.UUID   `json:"scenarioId" binding:"required" example:"52d967d3-33f4-4b04-9ba7-772e5ab9d0ce"` // Scenario to link within
	ExpenseIDs []uuid.UUID `json:"expenseIds" example:"d430d7c3-d14c-4712-9336-ee56965a6673"`                    // The expenses to link, processed in order
}

// BatchLinkFailure reports why one expense of a batch could not be linked.
type BatchLinkFailure struct {
	ExpenseID string `json:"expenseId" example:"d430d7c3-d14c-4712-9336-ee56965a6673"` // The expense that failed
	Error     string `json:"error" example:"no budget item found for ID"`              // The reason
}

// BatchLinkResponse reports the outcome of a batch link operation.
//
// A mixed outcome carries both the success count and the error summary:
// partial failure is never hidden behind a refreshed view.
type BatchLinkResponse struct {
	Succeeded int                `json:"succeeded" example:"4"` // Number of expenses that were linked
	Failed    []BatchLinkFailure `json:"failed"`                // The expenses that could not be linked
	Error     *string            `json:"error"`                 // Aggregate error message, if any failures occurred
}

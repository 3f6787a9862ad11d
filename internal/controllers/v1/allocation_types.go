package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wedplan/backend/internal/models"
	wp_uuid "github.com/wedplan/backend/internal/uuid"
)

// AllocationSource names the table an allocation row lives in.
//
// swagger:enum AllocationSource
type AllocationSource string

const (
	AllocationSourceExpense AllocationSource = "expense"
	AllocationSourceGift    AllocationSource = "gift"
)

type AllocationLinks struct {
	BudgetItem string `json:"budgetItem" example:"https://example.com/api/v1/budget-items/3b1ea324-d438-4419-882a-2fc91d71772f"` // The budget item the amount is attributed to
	Scenario   string `json:"scenario" example:"https://example.com/api/v1/scenarios/52d967d3-33f4-4b04-9ba7-772e5ab9d0ce"`      // The scenario the allocation belongs to
}

// Allocation is one attributed part of a source amount. The amounts of
// all allocations of a source within one scenario sum to the source
// amount exactly.
type Allocation struct {
	models.DefaultModel
	Source       AllocationSource `json:"source" example:"expense"`                                       // Whether the allocated amount comes from an expense or a gift
	SourceID     string           `json:"sourceId" example:"a6b0f7b7-57cb-48a5-9e6b-dcd68067f312"`        // ID of the expense or gift
	ScenarioID   uuid.UUID        `json:"scenarioId" example:"52d967d3-33f4-4b04-9ba7-772e5ab9d0ce"`      // ID of the scenario
	BudgetItemID uuid.UUID        `json:"budgetItemId" example:"3b1ea324-d438-4419-882a-2fc91d71772f"`    // ID of the budget item
	Amount       decimal.Decimal  `json:"amount" example:"150" minimum:"0" multipleOf:"0.00000001"`       // The attributed amount
	Links        AllocationLinks  `json:"links"`
}

func newExpenseAllocation(c *gin.Context, model models.ExpenseAllocation) Allocation {
	url := c.GetString(string(models.DBContextURL))

	return Allocation{
		DefaultModel: model.DefaultModel,
		Source:       AllocationSourceExpense,
		SourceID:     model.ExpenseID,
		ScenarioID:   model.ScenarioID,
		BudgetItemID: model.BudgetItemID,
		Amount:       model.Amount,
		Links: AllocationLinks{
			BudgetItem: fmt.Sprintf("%s/v1/budget-items/%s", url, model.BudgetItemID),
			Scenario:   fmt.Sprintf("%s/v1/scenarios/%s", url, model.ScenarioID),
		},
	}
}

func newGiftAllocation(c *gin.Context, model models.GiftAllocation) Allocation {
	url := c.GetString(string(models.DBContextURL))

	return Allocation{
		DefaultModel: model.DefaultModel,
		Source:       AllocationSourceGift,
		SourceID:     model.GiftID,
		ScenarioID:   model.ScenarioID,
		BudgetItemID: model.BudgetItemID,
		Amount:       model.Amount,
		Links: AllocationLinks{
			BudgetItem: fmt.Sprintf("%s/v1/budget-items/%s", url, model.BudgetItemID),
			Scenario:   fmt.Sprintf("%s/v1/scenarios/%s", url, model.ScenarioID),
		},
	}
}

type AllocationListResponse struct {
	Data       []Allocation `json:"data"`                                                          // List of allocations
	Error      *string      `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination  `json:"pagination"`                                                    // Pagination information
}

type AllocationQueryFilter struct {
	Source     AllocationSource `form:"source"`                     // Only expense or only gift allocations
	SourceID   string           `form:"sourceId"`                   // By ID of the expense or gift
	ScenarioID wp_uuid.UUID     `form:"scenario"`                   // By ID of the scenario
	BudgetItem wp_uuid.UUID     `form:"budgetItem"`                 // By ID of the budget item
	Offset     uint             `form:"offset" filterField:"false"` // The offset of the first allocation returned. Defaults to 0.
	Limit      int              `form:"limit" filterField:"false"`  // Maximum number of allocations to return. Defaults to 50.
}

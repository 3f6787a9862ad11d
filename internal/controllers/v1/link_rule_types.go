package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/wedplan/backend/internal/models"
	wp_uuid "github.com/wedplan/backend/internal/uuid"
)

// LinkRuleEditable represents all user configurable parameters
type LinkRuleEditable struct {
	BudgetItemID uuid.UUID `json:"budgetItemId" example:"3b1ea324-d438-4419-882a-2fc91d71772f"` // The budget item matching imports are linked to
	Priority     uint      `json:"priority" example:"1" default:"0"`                            // Rules are evaluated in ascending priority order
	Match        string    `json:"match" example:"Blossom*"`                                    // Glob pattern matched against the vendor and expense name
}

func (editable LinkRuleEditable) model() models.LinkRule {
	return models.LinkRule{
		BudgetItemID: editable.BudgetItemID,
		Priority:     editable.Priority,
		Match:        editable.Match,
	}
}

type LinkRuleLinks struct {
	Self       string `json:"self" example:"https://example.com/api/v1/link-rules/95685c82-53c6-455d-b235-f49960b73412"`        // The link rule itself
	BudgetItem string `json:"budgetItem" example:"https://example.com/api/v1/budget-items/3b1ea324-d438-4419-882a-2fc91d71772f"` // The budget item the rule links to
}

type LinkRule struct {
	models.DefaultModel
	LinkRuleEditable
	Links LinkRuleLinks `json:"links"`
}

func newLinkRule(c *gin.Context, model models.LinkRule) LinkRule {
	url := c.GetString(string(models.DBContextURL))

	return LinkRule{
		DefaultModel: model.DefaultModel,
		LinkRuleEditable: LinkRuleEditable{
			BudgetItemID: model.BudgetItemID,
			Priority:     model.Priority,
			Match:        model.Match,
		},
		Links: LinkRuleLinks{
			Self:       fmt.Sprintf("%s/v1/link-rules/%s", url, model.ID),
			BudgetItem: fmt.Sprintf("%s/v1/budget-items/%s", url, model.BudgetItemID),
		},
	}
}

type LinkRuleListResponse struct {
	Data       []LinkRule  `json:"data"`                                                          // List of link rules
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type LinkRuleCreateResponse struct {
	Error *string            `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []LinkRuleResponse `json:"data"`                                                          // List of the created link rules or their respective error
}

func (r *LinkRuleCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	r.Data = append(r.Data, LinkRuleResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type LinkRuleResponse struct {
	Data  *LinkRule `json:"data"`                                                          // Data for the link rule
	Error *string   `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type LinkRuleQueryFilter struct {
	BudgetItemID wp_uuid.UUID `form:"budgetItem"`                 // By ID of the budget item
	Match        string       `form:"match" filterField:"false"`  // By match pattern
	Offset       uint         `form:"offset" filterField:"false"` // The offset of the first link rule returned. Defaults to 0.
	Limit        int          `form:"limit" filterField:"false"`  // Maximum number of link rules to return. Defaults to 50.
}

func (f LinkRuleQueryFilter) model() (models.LinkRule, error) {
	return models.LinkRule{
		BudgetItemID: f.BudgetItemID.UUID,
	}, nil
}

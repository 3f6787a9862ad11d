package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/wedplan/backend/internal/models"
	"gorm.io/gorm"
)

// ScenarioEditable represents all user configurable parameters
type ScenarioEditable struct {
	Name     string `json:"name" example:"Garden wedding" default:""`               // Name of the scenario
	Note     string `json:"note" example:"The plan if we stay under 100 guests" default:""` // Notes about the scenario
	Currency string `json:"currency" example:"EUR" default:"EUR"`                   // ISO 4217 currency code for the scenario
	Archived bool   `json:"archived" example:"true" default:"false"`                // Is the scenario archived?
}

func (editable ScenarioEditable) model() models.Scenario {
	return models.Scenario{
		Name:     editable.Name,
		Note:     editable.Note,
		Currency: editable.Currency,
		Archived: editable.Archived,
	}
}

type ScenarioLinks struct {
	Self        string `json:"self" example:"https://example.com/api/v1/scenarios/3b1ea324-d438-4419-882a-2fc91d71772f"`               // The scenario itself
	BudgetItems string `json:"budgetItems" example:"https://example.com/api/v1/budget-items?scenario=3b1ea324-d438-4419-882a-2fc91d71772f"` // Budget items for this scenario
	Allocations string `json:"allocations" example:"https://example.com/api/v1/allocations?scenario=3b1ea324-d438-4419-882a-2fc91d71772f"`  // Allocations within this scenario
}

type Scenario struct {
	models.DefaultModel
	ScenarioEditable
	Links ScenarioLinks `json:"links"`

	// These fields are computed
	Budgeted decimal.Decimal `json:"budgeted" example:"25000"`  // Sum of the budgeted amounts of all items
	Spent    decimal.Decimal `json:"spent" example:"3500.17"`   // Sum of all expense allocations
	Received decimal.Decimal `json:"received" example:"1200"`   // Sum of all gift allocations
}

func newScenario(c *gin.Context, db *gorm.DB, model models.Scenario) (Scenario, error) {
	url := c.GetString(string(models.DBContextURL))

	scenario := Scenario{
		DefaultModel: model.DefaultModel,
		ScenarioEditable: ScenarioEditable{
			Name:     model.Name,
			Note:     model.Note,
			Currency: model.Currency,
			Archived: model.Archived,
		},
		Budgeted: decimal.Zero,
		Spent:    decimal.Zero,
		Received: decimal.Zero,
		Links: ScenarioLinks{
			Self:        fmt.Sprintf("%s/v1/scenarios/%s", url, model.ID),
			BudgetItems: fmt.Sprintf("%s/v1/budget-items?scenario=%s", url, model.ID),
			Allocations: fmt.Sprintf("%s/v1/allocations?scenario=%s", url, model.ID),
		},
	}

	items, err := model.BudgetItems(db)
	if err != nil {
		return Scenario{}, err
	}

	for _, item := range items {
		if item.IsFolder {
			continue
		}

		scenario.Budgeted = scenario.Budgeted.Add(item.Budgeted)

		spent, err := item.Spent(db)
		if err != nil {
			return Scenario{}, err
		}
		scenario.Spent = scenario.Spent.Add(spent)

		received, err := item.Received(db)
		if err != nil {
			return Scenario{}, err
		}
		scenario.Received = scenario.Received.Add(received)
	}

	return scenario, nil
}

type ScenarioListResponse struct {
	Data       []Scenario  `json:"data"`                                                          // List of scenarios
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type ScenarioCreateResponse struct {
	Error *string            `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []ScenarioResponse `json:"data"`                                                          // List of the created scenarios or their respective error
}

func (r *ScenarioCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	r.Data = append(r.Data, ScenarioResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type ScenarioResponse struct {
	Data  *Scenario `json:"data"`                                                          // Data for the scenario
	Error *string   `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type ScenarioQueryFilter struct {
	Name     string `form:"name" filterField:"false"`   // By name
	Note     string `form:"note" filterField:"false"`   // By note
	Currency string `form:"currency"`                   // By currency
	Archived bool   `form:"archived"`                   // Is the scenario archived?
	Search   string `form:"search" filterField:"false"` // By string in name or note
	Offset   uint   `form:"offset" filterField:"false"` // The offset of the first scenario returned. Defaults to 0.
	Limit    int    `form:"limit" filterField:"false"`  // Maximum number of scenarios to return. Defaults to 50.
}

func (f ScenarioQueryFilter) model() (models.Scenario, error) {
	return models.Scenario{
		Currency: f.Currency,
		Archived: f.Archived,
	}, nil
}

package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	v1 "github.com/wedplan/backend/internal/controllers/v1"
	"github.com/wedplan/backend/test"
)

// TestAllocationsReadOnly verifies that allocations can not be written
// through their own endpoint.
func (suite *TestSuiteStandard) TestAllocationsReadOnly() {
	r := test.Request(suite.T(), http.MethodOptions, "http://example.com/v1/allocations", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)
	assert.Equal(suite.T(), "OPTIONS, GET", r.Header().Get("allow"))

	r = test.Request(suite.T(), http.MethodPost, "http://example.com/v1/allocations", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusMethodNotAllowed)
}

// TestAllocationsGetFilter verifies the merged listing over expense and
// gift allocations.
func (suite *TestSuiteStandard) TestAllocationsGetFilter() {
	scenario := createTestScenario(suite.T(), v1.ScenarioEditable{})
	other := createTestScenario(suite.T(), v1.ScenarioEditable{})

	item := createTestBudgetItem(suite.T(), v1.BudgetItemEditable{ScenarioID: scenario.Data.ID})
	otherItem := createTestBudgetItem(suite.T(), v1.BudgetItemEditable{ScenarioID: other.Data.ID})

	expense := createTestExpense(suite.T(), v1.ExpenseEditable{Amount: decimal.NewFromFloat(100)})
	gift := createTestGift(suite.T(), v1.GiftEditable{Amount: decimal.NewFromFloat(50)})

	linkExpense(suite.T(), expense.Data.ID, scenario.Data.ID, item.Data.ID)
	linkExpense(suite.T(), expense.Data.ID, other.Data.ID, otherItem.Data.ID)
	linkGift(suite.T(), gift.Data.ID, scenario.Data.ID, item.Data.ID)

	tests := []struct {
		name  string
		query string
		len   int
	}{
		{"All", "", 3},
		{"Expenses only", "source=expense", 2},
		{"Gifts only", "source=gift", 1},
		{"Scenario", fmt.Sprintf("scenario=%s", scenario.Data.ID), 2},
		{"Budget item", fmt.Sprintf("budgetItem=%s", otherItem.Data.ID), 1},
		{"Source ID", fmt.Sprintf("sourceId=%s", gift.Data.ID), 1},
		{"Limit", "limit=2", 2},
		{"Offset", "offset=2", 1},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/allocations?%s", tt.query), "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var response v1.AllocationListResponse
			test.DecodeResponse(t, &r, &response)
			assert.Len(t, response.Data, tt.len)
		})
	}
}

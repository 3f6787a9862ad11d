package v1_test

import (
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	v1 "github.com/wedplan/backend/internal/controllers/v1"
	"github.com/wedplan/backend/test"
)

func (suite *TestSuiteStandard) TestCleanup() {
	scenario := createTestScenario(suite.T(), v1.ScenarioEditable{})
	item := createTestBudgetItem(suite.T(), v1.BudgetItemEditable{ScenarioID: scenario.Data.ID})
	_ = createTestVendor(suite.T(), v1.VendorEditable{})
	_ = createTestGuest(suite.T(), v1.GuestEditable{})
	_ = createTestLinkRule(suite.T(), v1.LinkRuleEditable{BudgetItemID: item.Data.ID, Match: "Delete me"})
	gift := createTestGift(suite.T(), v1.GiftEditable{Amount: decimal.NewFromFloat(50)})
	expense := createTestExpense(suite.T(), v1.ExpenseEditable{Amount: decimal.NewFromFloat(100)})

	linkExpense(suite.T(), expense.Data.ID, scenario.Data.ID, item.Data.ID)
	linkGift(suite.T(), gift.Data.ID, scenario.Data.ID, item.Data.ID)

	tests := []string{
		"http://example.com/v1/allocations",
		"http://example.com/v1/budget-items",
		"http://example.com/v1/expenses",
		"http://example.com/v1/gifts",
		"http://example.com/v1/guests",
		"http://example.com/v1/link-rules",
		"http://example.com/v1/scenarios",
		"http://example.com/v1/vendors",
	}

	// Delete
	recorder := test.Request(suite.T(), http.MethodDelete, "http://example.com/v1?confirm=yes-please-delete-everything", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)

	// Verify
	for _, tt := range tests {
		suite.T().Run(tt, func(t *testing.T) {
			recorder := test.Request(suite.T(), http.MethodGet, tt, "")
			test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

			var response struct {
				Data []any `json:"data"`
			}

			test.DecodeResponse(t, &recorder, &response)
			assert.Len(t, response.Data, 0, "There are resources left for type %s", tt)
		})
	}
}

func (suite *TestSuiteStandard) TestCleanupFails() {
	tests := []struct {
		name string
		path string
	}{
		{"Invalid confirmation", "confirm=2"},
		{"Missing confirmation", ""},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			recorder := test.Request(t, http.MethodDelete, "http://example.com/v1?"+tt.path, "")
			test.AssertHTTPStatus(t, &recorder, http.StatusBadRequest)
		})
	}
}

package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	v1 "github.com/wedplan/backend/internal/controllers/v1"
	"github.com/wedplan/backend/internal/models"
	"github.com/wedplan/backend/test"
)

func createTestLinkRule(t *testing.T, l v1.LinkRuleEditable, expectedStatus ...int) v1.LinkRuleResponse {
	if l.BudgetItemID == uuid.Nil {
		l.BudgetItemID = createTestBudgetItem(t, v1.BudgetItemEditable{}).Data.ID
	}

	if l.Match == "" {
		l.Match = uuid.NewString()
	}

	// Default to 201 Created as expected status
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	body := []v1.LinkRuleEditable{l}

	r := test.Request(t, http.MethodPost, "http://example.com/v1/link-rules", body)
	test.AssertHTTPStatus(t, &r, expectedStatus...)

	var response v1.LinkRuleCreateResponse
	test.DecodeResponse(t, &r, &response)

	if r.Code == http.StatusCreated {
		return response.Data[0]
	}

	return v1.LinkRuleResponse{}
}

func (suite *TestSuiteStandard) TestLinkRulesCreateInvalid() {
	item := createTestBudgetItem(suite.T(), v1.BudgetItemEditable{})

	tests := []struct {
		name   string
		body   any
		status int
		err    error
	}{
		{"Empty match", []v1.LinkRuleEditable{{BudgetItemID: item.Data.ID, Match: " "}}, http.StatusBadRequest, models.ErrLinkRuleMatchEmpty},
		{"Budget item does not exist", []v1.LinkRuleEditable{{BudgetItemID: uuid.New(), Match: "Cake*"}}, http.StatusNotFound, models.ErrResourceNotFound},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPost, "http://example.com/v1/link-rules", tt.body)
			test.AssertHTTPStatus(t, &r, tt.status)

			var response v1.LinkRuleCreateResponse
			test.DecodeResponse(t, &r, &response)
			require.NotNil(t, response.Data[0].Error)
			assert.Contains(t, *response.Data[0].Error, tt.err.Error())
		})
	}
}

func (suite *TestSuiteStandard) TestLinkRulesGetFilter() {
	item := createTestBudgetItem(suite.T(), v1.BudgetItemEditable{})

	_ = createTestLinkRule(suite.T(), v1.LinkRuleEditable{BudgetItemID: item.Data.ID, Match: "Blossom*", Priority: 1})
	_ = createTestLinkRule(suite.T(), v1.LinkRuleEditable{BudgetItemID: item.Data.ID, Match: "*Catering*", Priority: 2})
	_ = createTestLinkRule(suite.T(), v1.LinkRuleEditable{Match: "Cake*"})

	tests := []struct {
		name  string
		query string
		len   int
	}{
		{"Budget item", fmt.Sprintf("budgetItem=%s", item.Data.ID), 2},
		{"Match", "match=Blossom", 1},
		{"All", "", 3},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/link-rules?%s", tt.query), "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var response v1.LinkRuleListResponse
			test.DecodeResponse(t, &r, &response)
			assert.Len(t, response.Data, tt.len)
		})
	}
}

// TestLinkRulesOrdering verifies that rules are returned in evaluation
// order, ascending by priority.
func (suite *TestSuiteStandard) TestLinkRulesOrdering() {
	item := createTestBudgetItem(suite.T(), v1.BudgetItemEditable{})

	_ = createTestLinkRule(suite.T(), v1.LinkRuleEditable{BudgetItemID: item.Data.ID, Match: "Second", Priority: 5})
	_ = createTestLinkRule(suite.T(), v1.LinkRuleEditable{BudgetItemID: item.Data.ID, Match: "First", Priority: 1})

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/link-rules", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.LinkRuleListResponse
	test.DecodeResponse(suite.T(), &r, &response)
	require.Len(suite.T(), response.Data, 2)
	assert.Equal(suite.T(), "First", response.Data[0].Match)
	assert.Equal(suite.T(), "Second", response.Data[1].Match)
}

func (suite *TestSuiteStandard) TestLinkRulesUpdateDelete() {
	rule := createTestLinkRule(suite.T(), v1.LinkRuleEditable{Match: "Before*"})

	r := test.Request(suite.T(), http.MethodPatch, rule.Data.Links.Self, map[string]any{
		"match": "After*",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var updated v1.LinkRuleResponse
	test.DecodeResponse(suite.T(), &r, &updated)
	assert.Equal(suite.T(), "After*", updated.Data.Match)

	r = test.Request(suite.T(), http.MethodDelete, rule.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.T(), http.MethodGet, rule.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

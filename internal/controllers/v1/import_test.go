package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	v1 "github.com/wedplan/backend/internal/controllers/v1"
	"github.com/wedplan/backend/test"
)

// TestImportExpenses verifies the happy path of a cost sheet import:
// expenses are created, vendors are resolved by name and the second
// upload of the same file only produces duplicates.
func (suite *TestSuiteStandard) TestImportExpenses() {
	vendor := createTestVendor(suite.T(), v1.VendorEditable{Name: "Blossom & Stem"})

	body, headers := test.LoadTestFile(suite.T(), "costsheet.csv")
	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/import/expenses", body, headers)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	var response v1.ImportResponse
	test.DecodeResponse(suite.T(), &r, &response)

	assert.Equal(suite.T(), 3, response.Created)
	assert.Equal(suite.T(), 0, response.Skipped)
	assert.Equal(suite.T(), 0, response.Linked, "no scenario was given, nothing may be linked")
	require.Len(suite.T(), response.Data, 3)

	// The vendor is resolved by its exact name
	var withVendor int
	for _, e := range response.Data {
		if e.VendorID != nil {
			withVendor++
			assert.Equal(suite.T(), vendor.Data.ID, *e.VendorID)
		}
	}
	assert.Equal(suite.T(), 1, withVendor)

	// A second import of the same file skips everything
	body, headers = test.LoadTestFile(suite.T(), "costsheet.csv")
	r = test.Request(suite.T(), http.MethodPost, "http://example.com/v1/import/expenses", body, headers)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	test.DecodeResponse(suite.T(), &r, &response)
	assert.Equal(suite.T(), 0, response.Created)
	assert.Equal(suite.T(), 3, response.Skipped)
}

// TestImportExpensesAutoLink verifies that link rules are applied when a
// scenario is given.
func (suite *TestSuiteStandard) TestImportExpensesAutoLink() {
	scenario := createTestScenario(suite.T(), v1.ScenarioEditable{})
	item := createTestBudgetItem(suite.T(), v1.BudgetItemEditable{ScenarioID: scenario.Data.ID, Budgeted: decimal.NewFromFloat(500)})
	_ = createTestLinkRule(suite.T(), v1.LinkRuleEditable{BudgetItemID: item.Data.ID, Match: "Blossom*"})

	body, headers := test.LoadTestFile(suite.T(), "costsheet.csv")
	r := test.Request(suite.T(), http.MethodPost, fmt.Sprintf("http://example.com/v1/import/expenses?scenario=%s", scenario.Data.ID), body, headers)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	var response v1.ImportResponse
	test.DecodeResponse(suite.T(), &r, &response)

	assert.Equal(suite.T(), 3, response.Created)
	assert.Equal(suite.T(), 1, response.Linked)

	// The linked expense is allocated in full to the rule's budget item
	ar := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/allocations?budgetItem=%s", item.Data.ID), "")
	test.AssertHTTPStatus(suite.T(), &ar, http.StatusOK)

	var allocations v1.AllocationListResponse
	test.DecodeResponse(suite.T(), &ar, &allocations)
	require.Len(suite.T(), allocations.Data, 1)
	assert.True(suite.T(), allocations.Data[0].Amount.Equal(decimal.NewFromFloat(250)), "Amount is %s, should be 250", allocations.Data[0].Amount)
}

func (suite *TestSuiteStandard) TestImportExpensesErrors() {
	tests := []struct {
		name     string
		file     string
		url      string
		contains string
	}{
		{
			"Wrong file suffix",
			"costsheet.txt",
			"http://example.com/v1/import/expenses",
			"this endpoint only supports files of the following types",
		},
		{
			"Broken cost sheet",
			"costsheet-broken.csv",
			"http://example.com/v1/import/expenses",
			"error in line 2",
		},
		{
			"Scenario is not a UUID",
			"costsheet.csv",
			"http://example.com/v1/import/expenses?scenario=not-a-uuid",
			"invalid UUID",
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			body, headers := test.LoadTestFile(t, tt.file)
			r := test.Request(t, http.MethodPost, tt.url, body, headers)
			test.AssertHTTPStatus(t, &r, http.StatusBadRequest)

			var response v1.ImportResponse
			test.DecodeResponse(t, &r, &response)
			require.NotNil(t, response.Error)
			assert.Contains(t, *response.Error, tt.contains)
		})
	}
}

func (suite *TestSuiteStandard) TestImportExpensesNoFile() {
	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/import/expenses", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	var response v1.ImportResponse
	test.DecodeResponse(suite.T(), &r, &response)
	require.NotNil(suite.T(), response.Error)
	assert.Equal(suite.T(), "you must send a file to this endpoint", *response.Error)
}

// TestImportExpensesPreview verifies that a preview applies link rules,
// resolves vendors and detects duplicates without writing anything.
func (suite *TestSuiteStandard) TestImportExpensesPreview() {
	vendor := createTestVendor(suite.T(), v1.VendorEditable{Name: "Blossom & Stem"})
	scenario := createTestScenario(suite.T(), v1.ScenarioEditable{})
	item := createTestBudgetItem(suite.T(), v1.BudgetItemEditable{ScenarioID: scenario.Data.ID})
	rule := createTestLinkRule(suite.T(), v1.LinkRuleEditable{BudgetItemID: item.Data.ID, Match: "Blossom*"})

	previewURL := fmt.Sprintf("http://example.com/v1/import/expenses/preview?scenario=%s", scenario.Data.ID)

	body, headers := test.LoadTestFile(suite.T(), "costsheet.csv")
	r := test.Request(suite.T(), http.MethodPost, previewURL, body, headers)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.ImportPreviewList
	test.DecodeResponse(suite.T(), &r, &response)
	require.Len(suite.T(), response.Data, 3)

	// The first row matches the link rule on its vendor name
	first := response.Data[0]
	require.NotNil(suite.T(), first.BudgetItemID)
	assert.Equal(suite.T(), item.Data.ID, *first.BudgetItemID)
	require.NotNil(suite.T(), first.LinkRuleID)
	assert.Equal(suite.T(), rule.Data.ID, *first.LinkRuleID)
	require.NotNil(suite.T(), first.Expense.VendorID)
	assert.Equal(suite.T(), vendor.Data.ID, *first.Expense.VendorID)
	assert.Empty(suite.T(), first.DuplicateExpenseIDs)

	// The other rows match no rule
	assert.Nil(suite.T(), response.Data[1].BudgetItemID)
	assert.Nil(suite.T(), response.Data[2].LinkRuleID)

	// Nothing was written
	er := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/expenses", "")
	var expenses v1.ExpenseListResponse
	test.DecodeResponse(suite.T(), &er, &expenses)
	assert.Empty(suite.T(), expenses.Data)

	// After an import of the file the previews reference the duplicates
	body, headers = test.LoadTestFile(suite.T(), "costsheet.csv")
	ir := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/import/expenses", body, headers)
	test.AssertHTTPStatus(suite.T(), &ir, http.StatusCreated)

	body, headers = test.LoadTestFile(suite.T(), "costsheet.csv")
	r = test.Request(suite.T(), http.MethodPost, previewURL, body, headers)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	test.DecodeResponse(suite.T(), &r, &response)
	require.Len(suite.T(), response.Data, 3)
	for _, preview := range response.Data {
		assert.Len(suite.T(), preview.DuplicateExpenseIDs, 1)
	}
}

func (suite *TestSuiteStandard) TestImportExpensesPreviewErrors() {
	scenario := createTestScenario(suite.T(), v1.ScenarioEditable{})

	tests := []struct {
		name     string
		file     string
		url      string
		status   int
		contains string
	}{
		{
			"Scenario missing",
			"costsheet.csv",
			"http://example.com/v1/import/expenses/preview",
			http.StatusBadRequest,
			"scenario",
		},
		{
			"Scenario is not a UUID",
			"costsheet.csv",
			"http://example.com/v1/import/expenses/preview?scenario=not-a-uuid",
			http.StatusBadRequest,
			"invalid UUID",
		},
		{
			"Scenario does not exist",
			"costsheet.csv",
			fmt.Sprintf("http://example.com/v1/import/expenses/preview?scenario=%s", uuid.New()),
			http.StatusNotFound,
			"there is no scenario matching your query",
		},
		{
			"Wrong file suffix",
			"costsheet.txt",
			fmt.Sprintf("http://example.com/v1/import/expenses/preview?scenario=%s", scenario.Data.ID),
			http.StatusBadRequest,
			"this endpoint only supports files of the following types",
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			body, headers := test.LoadTestFile(t, tt.file)
			r := test.Request(t, http.MethodPost, tt.url, body, headers)
			test.AssertHTTPStatus(t, &r, tt.status)

			var response v1.ImportPreviewList
			test.DecodeResponse(t, &r, &response)
			require.NotNil(t, response.Error)
			assert.Contains(t, *response.Error, tt.contains)
		})
	}
}

func (suite *TestSuiteStandard) TestImportExpensesScenarioNotFound() {
	body, headers := test.LoadTestFile(suite.T(), "costsheet.csv")
	r := test.Request(suite.T(), http.MethodPost, fmt.Sprintf("http://example.com/v1/import/expenses?scenario=%s", uuid.New()), body, headers)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

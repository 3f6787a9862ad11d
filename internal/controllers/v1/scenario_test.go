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
	"github.com/wedplan/backend/internal/models"
	"github.com/wedplan/backend/test"
)

func createTestScenario(t *testing.T, s v1.ScenarioEditable, expectedStatus ...int) v1.ScenarioResponse {
	if s.Name == "" {
		s.Name = uuid.NewString()
	}

	// Default to 201 Created as expected status
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	body := []v1.ScenarioEditable{s}

	r := test.Request(t, http.MethodPost, "http://example.com/v1/scenarios", body)
	test.AssertHTTPStatus(t, &r, expectedStatus...)

	var response v1.ScenarioCreateResponse
	test.DecodeResponse(t, &r, &response)

	if r.Code == http.StatusCreated {
		return response.Data[0]
	}

	return v1.ScenarioResponse{}
}

// TestScenariosDBClosed verifies that errors are processed correctly when
// the database is closed.
func (suite *TestSuiteStandard) TestScenariosDBClosed() {
	tests := []struct {
		name string             // Name of the test
		test func(t *testing.T) // Code to run
	}{
		{
			"Creation fails",
			func(t *testing.T) {
				createTestScenario(t, v1.ScenarioEditable{}, http.StatusInternalServerError)
			},
		},
		{
			"GET fails",
			func(t *testing.T) {
				recorder := test.Request(t, http.MethodGet, "http://example.com/v1/scenarios", "")
				test.AssertHTTPStatus(t, &recorder, http.StatusInternalServerError)

				var response v1.ScenarioListResponse
				test.DecodeResponse(t, &recorder, &response)
				assert.Contains(t, *response.Error, models.ErrGeneral.Error())
			},
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			suite.CloseDB()

			tt.test(t)
		})
	}
}

// TestScenariosOptions verifies that OPTIONS requests are handled correctly.
func (suite *TestSuiteStandard) TestScenariosOptions() {
	tests := []struct {
		name   string
		id     string // path at the scenarios endpoint to test
		status int    // Expected HTTP status code
	}{
		{"No scenario with this ID", uuid.New().String(), http.StatusNotFound},
		{"Not a valid UUID", "NotParseableAsUUID", http.StatusBadRequest},
		{"Scenario exists", createTestScenario(suite.T(), v1.ScenarioEditable{}).Data.ID.String(), http.StatusNoContent},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			path := fmt.Sprintf("%s/%s", "http://example.com/v1/scenarios", tt.id)
			r := test.Request(t, http.MethodOptions, path, "")
			test.AssertHTTPStatus(t, &r, tt.status)

			if tt.status == http.StatusNoContent {
				assert.Equal(t, "OPTIONS, GET, PATCH, DELETE", r.Header().Get("allow"))
			}
		})
	}
}

// TestScenariosGetSingle verifies that requests for the resource endpoints
// are handled correctly.
func (suite *TestSuiteStandard) TestScenariosGetSingle() {
	s := createTestScenario(suite.T(), v1.ScenarioEditable{})

	tests := []struct {
		name   string
		id     string
		status int
		method string
	}{
		{"GET Existing scenario", s.Data.ID.String(), http.StatusOK, http.MethodGet},
		{"GET No scenario with this ID", uuid.New().String(), http.StatusNotFound, http.MethodGet},
		{"GET Invalid ID (negative number)", "-56", http.StatusBadRequest, http.MethodGet},
		{"GET Invalid ID (string)", "notaUUID", http.StatusBadRequest, http.MethodGet},
		{"PATCH Invalid ID (string)", "notaUUID", http.StatusBadRequest, http.MethodPatch},
		{"DELETE Invalid ID (string)", "notaUUID", http.StatusBadRequest, http.MethodDelete},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, tt.method, fmt.Sprintf("http://example.com/v1/scenarios/%s", tt.id), "")

			var scenario v1.ScenarioResponse
			test.DecodeResponse(t, &r, &scenario)
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}

func (suite *TestSuiteStandard) TestScenariosCreateInvalid() {
	tests := []struct {
		name   string
		body   any
		status int
	}{
		{"Broken JSON", `{ "name": "Scenario"`, http.StatusBadRequest},
		{"Not a list", `{ "name": "Scenario" }`, http.StatusBadRequest},
		{"Invalid currency", []v1.ScenarioEditable{{Name: "Invalid currency", Currency: "MONEY"}}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPost, "http://example.com/v1/scenarios", tt.body)
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}

func (suite *TestSuiteStandard) TestScenariosDuplicateName() {
	_ = createTestScenario(suite.T(), v1.ScenarioEditable{Name: "Unique scenario name"})

	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/scenarios", []v1.ScenarioEditable{{Name: "Unique scenario name"}})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	var response v1.ScenarioCreateResponse
	test.DecodeResponse(suite.T(), &r, &response)
	require.NotNil(suite.T(), response.Data[0].Error)
	assert.Equal(suite.T(), models.ErrScenarioNameNotUnique.Error(), *response.Data[0].Error)
}

func (suite *TestSuiteStandard) TestScenariosGetFilter() {
	_ = createTestScenario(suite.T(), v1.ScenarioEditable{Name: "Garden party", Currency: "EUR"})
	_ = createTestScenario(suite.T(), v1.ScenarioEditable{Name: "City hall", Currency: "USD"})
	_ = createTestScenario(suite.T(), v1.ScenarioEditable{Name: "Destination wedding", Currency: "USD", Archived: true})

	tests := []struct {
		name  string
		query string
		len   int
	}{
		{"Currency", "currency=USD", 2},
		{"Name", "name=Garden party", 1},
		{"Search", "search=wedding", 1},
		{"Archived", "archived=true", 1},
		{"Limit", "limit=2", 2},
		{"Offset", "offset=2", 1},
		{"No matches", "name=Does not exist", 0},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/scenarios?%s", tt.query), "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var response v1.ScenarioListResponse
			test.DecodeResponse(t, &r, &response)
			assert.Len(t, response.Data, tt.len)
		})
	}
}

func (suite *TestSuiteStandard) TestScenariosUpdate() {
	s := createTestScenario(suite.T(), v1.ScenarioEditable{Name: "Before"})

	r := test.Request(suite.T(), http.MethodPatch, s.Data.Links.Self, map[string]any{
		"name": "After",
		"note": "Updated note",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var updated v1.ScenarioResponse
	test.DecodeResponse(suite.T(), &r, &updated)
	assert.Equal(suite.T(), "After", updated.Data.Name)
	assert.Equal(suite.T(), "Updated note", updated.Data.Note)
}

func (suite *TestSuiteStandard) TestScenariosDelete() {
	s := createTestScenario(suite.T(), v1.ScenarioEditable{})

	r := test.Request(suite.T(), http.MethodDelete, s.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.T(), http.MethodGet, s.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

// TestScenariosComputedFields verifies the aggregation of budgeted, spent
// and received amounts over the scenario's budget items.
func (suite *TestSuiteStandard) TestScenariosComputedFields() {
	scenario := createTestScenario(suite.T(), v1.ScenarioEditable{})

	first := createTestBudgetItem(suite.T(), v1.BudgetItemEditable{
		ScenarioID: scenario.Data.ID,
		Budgeted:   decimal.NewFromFloat(1000),
	})
	_ = createTestBudgetItem(suite.T(), v1.BudgetItemEditable{
		ScenarioID: scenario.Data.ID,
		Budgeted:   decimal.NewFromFloat(500),
	})

	expense := createTestExpense(suite.T(), v1.ExpenseEditable{Amount: decimal.NewFromFloat(100)})
	linkExpense(suite.T(), expense.Data.ID, scenario.Data.ID, first.Data.ID)

	r := test.Request(suite.T(), http.MethodGet, scenario.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.ScenarioResponse
	test.DecodeResponse(suite.T(), &r, &response)

	assert.True(suite.T(), response.Data.Budgeted.Equal(decimal.NewFromFloat(1500)), "Budgeted is %s, should be 1500", response.Data.Budgeted)
	assert.True(suite.T(), response.Data.Spent.Equal(decimal.NewFromFloat(100)), "Spent is %s, should be 100", response.Data.Spent)
	assert.True(suite.T(), response.Data.Received.IsZero(), "Received is %s, should be 0", response.Data.Received)
}

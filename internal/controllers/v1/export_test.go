package v1_test

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	v1 "github.com/wedplan/backend/internal/controllers/v1"
	"github.com/wedplan/backend/internal/models"
	"github.com/wedplan/backend/test"
)

// TestExport verifies that the export works correctly
//
// Thorough checks are only executed for the non-data fields since
// the data fields are populated by the Export() methods of the models
func (suite *TestSuiteStandard) TestExport() {
	t := suite.T()

	scenario := createTestScenario(t, v1.ScenarioEditable{})
	item := createTestBudgetItem(t, v1.BudgetItemEditable{ScenarioID: scenario.Data.ID})

	recorder := test.Request(t, http.MethodGet, "http://example.com/v1/export", "")
	test.AssertHTTPStatus(t, &recorder, http.StatusOK)

	var response v1.ExportResponse
	test.DecodeResponse(t, &recorder, &response)

	assert.Equal(t, "0.0.0", response.Version)

	// Not sure if this is a good test, if it ever fails we'll re-evaluate
	now := time.Now()
	difference := response.CreationTime.Sub(now).Seconds()
	assert.Less(t, difference, float64(1))

	// Basic tests for the data fields. Full testing is done in the respective Export() methods
	// of the models
	assert.Len(t, response.Data, len(models.Registry), "Number of models in export does not match registry")

	// CreatedAt check for scenario
	var scenarios []models.Scenario
	require.Nil(t, json.Unmarshal(response.Data["Scenario"], &scenarios))
	require.Len(t, scenarios, 1, "Number of scenarios in export must be 1")
	assert.Equal(t, scenario.Data.CreatedAt, scenarios[0].CreatedAt)

	// CreatedAt check for budget item
	var items []models.BudgetItem
	require.Nil(t, json.Unmarshal(response.Data["BudgetItem"], &items))
	require.Len(t, items, 1, "Number of budget items in export must be 1")
	assert.Equal(t, item.Data.CreatedAt, items[0].CreatedAt)
}

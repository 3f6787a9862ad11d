package models_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wedplan/backend/internal/models"
)

func (suite *TestSuiteStandard) TestScenarioTrimWhitespace() {
	name := "Summer wedding"
	note := "The one with the beach"

	scenario := suite.createTestScenario(models.Scenario{
		Name: " " + name + "\t",
		Note: "  " + note + " ",
	})

	assert.Equal(suite.T(), name, scenario.Name)
	assert.Equal(suite.T(), note, scenario.Note)
}

func (suite *TestSuiteStandard) TestScenarioCurrency() {
	tests := []struct {
		name     string
		currency string
		expected string
		err      error
	}{
		{"Empty defaults to EUR", "", "EUR", nil},
		{"Lower case is normalized", "usd", "USD", nil},
		{"Whitespace is trimmed", " CHF ", "CHF", nil},
		{"Invalid code", "MONEY", "", models.ErrScenarioCurrencyInvalid},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			scenario := models.Scenario{Name: tt.name, Currency: tt.currency}
			err := models.DB.Create(&scenario).Error

			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, scenario.Currency)
		})
	}
}

func (suite *TestSuiteStandard) TestScenarioNameNotUnique() {
	_ = suite.createTestScenario(models.Scenario{Name: "Plan A"})

	err := models.DB.Create(&models.Scenario{Name: "Plan A"}).Error
	assert.ErrorIs(suite.T(), err, models.ErrScenarioNameNotUnique)
}

func (suite *TestSuiteStandard) TestScenarioBudgetItems() {
	scenario := suite.createTestScenario(models.Scenario{})

	_ = suite.createTestBudgetItem(models.BudgetItem{ScenarioID: scenario.ID, Name: "Flowers", DisplayOrder: 2})
	_ = suite.createTestBudgetItem(models.BudgetItem{ScenarioID: scenario.ID, Name: "Catering", DisplayOrder: 1})

	// Items of other scenarios are not returned
	other := suite.createTestScenario(models.Scenario{})
	_ = suite.createTestBudgetItem(models.BudgetItem{ScenarioID: other.ID})

	items, err := scenario.BudgetItems(models.DB)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), items, 2)

	// Ordered by display order
	assert.Equal(suite.T(), "Catering", items[0].Name)
	assert.Equal(suite.T(), "Flowers", items[1].Name)
}

func (suite *TestSuiteStandard) TestScenarioExport() {
	t := suite.T()

	for i := 0; i < 2; i++ {
		_ = suite.createTestScenario(models.Scenario{Currency: "USD"})
	}

	raw, err := models.Scenario{}.Export()
	if err != nil {
		require.Fail(t, "scenario export failed", err)
	}

	var scenarios []models.Scenario
	err = json.Unmarshal(raw, &scenarios)
	if err != nil {
		require.Fail(t, "JSON could not be unmarshaled", err)
	}

	require.Len(t, scenarios, 2, "number of scenarios in export is wrong")
}

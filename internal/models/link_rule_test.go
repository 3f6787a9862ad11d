package models_test

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wedplan/backend/internal/models"
)

func (suite *TestSuiteStandard) TestLinkRuleBeforeCreate() {
	scenario := suite.createTestScenario(models.Scenario{})
	item := suite.createTestBudgetItem(models.BudgetItem{ScenarioID: scenario.ID})

	_ = suite.createTestLinkRule(models.LinkRule{BudgetItemID: item.ID, Match: "Flower*"})

	err := models.DB.Create(&models.LinkRule{BudgetItemID: uuid.New(), Match: "Flower*"}).Error
	assert.ErrorIs(suite.T(), err, models.ErrResourceNotFound)
}

func (suite *TestSuiteStandard) TestLinkRuleMatchEmpty() {
	scenario := suite.createTestScenario(models.Scenario{})
	item := suite.createTestBudgetItem(models.BudgetItem{ScenarioID: scenario.ID})

	err := models.DB.Create(&models.LinkRule{BudgetItemID: item.ID, Match: "  "}).Error
	assert.ErrorIs(suite.T(), err, models.ErrLinkRuleMatchEmpty)
}

func (suite *TestSuiteStandard) TestLinkRuleBeforeUpdate() {
	scenario := suite.createTestScenario(models.Scenario{})
	item := suite.createTestBudgetItem(models.BudgetItem{ScenarioID: scenario.ID})
	rule := suite.createTestLinkRule(models.LinkRule{BudgetItemID: item.ID, Match: "Cake*"})

	tests := []struct {
		name         string
		budgetItemID uuid.UUID
		err          error
	}{
		{
			"Update budget item",
			suite.createTestBudgetItem(models.BudgetItem{ScenarioID: scenario.ID}).ID,
			nil,
		},
		{
			"Update budget item to non-existing",
			uuid.New(),
			models.ErrResourceNotFound,
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			err := models.DB.Model(&rule).Select("BudgetItemID").Updates(models.LinkRule{BudgetItemID: tt.budgetItemID}).Error
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func (suite *TestSuiteStandard) TestLinkRuleExport() {
	t := suite.T()

	scenario := suite.createTestScenario(models.Scenario{})
	item := suite.createTestBudgetItem(models.BudgetItem{ScenarioID: scenario.ID})

	for i := 0; i < 2; i++ {
		_ = suite.createTestLinkRule(models.LinkRule{BudgetItemID: item.ID, Match: "*"})
	}

	raw, err := models.LinkRule{}.Export()
	if err != nil {
		require.Fail(t, "link rule export failed", err)
	}

	var rules []models.LinkRule
	err = json.Unmarshal(raw, &rules)
	if err != nil {
		require.Fail(t, "JSON could not be unmarshaled", err)
	}

	require.Len(t, rules, 2, "number of link rules in export is wrong")
}

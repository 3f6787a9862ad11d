package models_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wedplan/backend/internal/models"
)

func (suite *TestSuiteStandard) TestBudgetItemBeforeCreate() {
	scenario := suite.createTestScenario(models.Scenario{})
	folder := suite.createTestBudgetItem(models.BudgetItem{ScenarioID: scenario.ID, IsFolder: true})
	regular := suite.createTestBudgetItem(models.BudgetItem{ScenarioID: scenario.ID})

	otherScenario := suite.createTestScenario(models.Scenario{})
	otherFolder := suite.createTestBudgetItem(models.BudgetItem{ScenarioID: otherScenario.ID, IsFolder: true})

	missingParent := uuid.New()

	tests := []struct {
		name       string
		scenarioID uuid.UUID
		parentID   *uuid.UUID
		err        error
	}{
		{"No parent", scenario.ID, nil, nil},
		{"Parent is a folder", scenario.ID, &folder.ID, nil},
		{"Scenario does not exist", uuid.New(), nil, models.ErrResourceNotFound},
		{"Parent is not a folder", scenario.ID, &regular.ID, models.ErrBudgetItemParentNotFolder},
		{"Parent in another scenario", scenario.ID, &otherFolder.ID, models.ErrBudgetItemParentNotFolder},
		{"Parent does not exist", scenario.ID, &missingParent, models.ErrResourceNotFound},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			item := models.BudgetItem{
				ScenarioID: tt.scenarioID,
				Name:       uuid.New().String(),
				ParentID:   tt.parentID,
			}

			err := models.DB.Create(&item).Error
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func (suite *TestSuiteStandard) TestBudgetItemFolderCycle() {
	scenario := suite.createTestScenario(models.Scenario{})
	folder := suite.createTestBudgetItem(models.BudgetItem{ScenarioID: scenario.ID, IsFolder: true})

	err := models.DB.Model(&folder).Select("ParentID").Updates(models.BudgetItem{ParentID: &folder.ID}).Error
	assert.ErrorIs(suite.T(), err, models.ErrBudgetItemFolderCycle)
}

func (suite *TestSuiteStandard) TestBudgetItemBeforeUpdate() {
	scenario := suite.createTestScenario(models.Scenario{})
	folder := suite.createTestBudgetItem(models.BudgetItem{ScenarioID: scenario.ID, IsFolder: true})
	item := suite.createTestBudgetItem(models.BudgetItem{ScenarioID: scenario.ID})

	other := suite.createTestBudgetItem(models.BudgetItem{ScenarioID: scenario.ID})

	err := models.DB.Model(&item).Select("ParentID").Updates(models.BudgetItem{ParentID: &folder.ID}).Error
	require.NoError(suite.T(), err)

	err = models.DB.Model(&item).Select("ParentID").Updates(models.BudgetItem{ParentID: &other.ID}).Error
	assert.ErrorIs(suite.T(), err, models.ErrBudgetItemParentNotFolder)
}

func (suite *TestSuiteStandard) TestBudgetItemNameNotUnique() {
	scenario := suite.createTestScenario(models.Scenario{})
	_ = suite.createTestBudgetItem(models.BudgetItem{ScenarioID: scenario.ID, Name: "Catering"})

	err := models.DB.Create(&models.BudgetItem{ScenarioID: scenario.ID, Name: "Catering"}).Error
	assert.ErrorIs(suite.T(), err, models.ErrBudgetItemNameNotUnique)

	// The same name is fine in another scenario
	other := suite.createTestScenario(models.Scenario{})
	_ = suite.createTestBudgetItem(models.BudgetItem{ScenarioID: other.ID, Name: "Catering"})
}

func (suite *TestSuiteStandard) TestBudgetItemDeleteWithChildren() {
	scenario := suite.createTestScenario(models.Scenario{})
	folder := suite.createTestBudgetItem(models.BudgetItem{ScenarioID: scenario.ID, IsFolder: true})
	child := suite.createTestBudgetItem(models.BudgetItem{ScenarioID: scenario.ID, ParentID: &folder.ID})

	err := models.DB.Delete(&folder).Error
	assert.ErrorIs(suite.T(), err, models.ErrBudgetItemHasChildren)

	err = models.DB.Delete(&child).Error
	require.NoError(suite.T(), err)

	err = models.DB.Delete(&folder).Error
	assert.NoError(suite.T(), err)
}

func (suite *TestSuiteStandard) TestBudgetItemChildren() {
	scenario := suite.createTestScenario(models.Scenario{})
	folder := suite.createTestBudgetItem(models.BudgetItem{ScenarioID: scenario.ID, IsFolder: true})

	_ = suite.createTestBudgetItem(models.BudgetItem{ScenarioID: scenario.ID, ParentID: &folder.ID, Name: "Band", DisplayOrder: 2})
	_ = suite.createTestBudgetItem(models.BudgetItem{ScenarioID: scenario.ID, ParentID: &folder.ID, Name: "DJ", DisplayOrder: 1})
	_ = suite.createTestBudgetItem(models.BudgetItem{ScenarioID: scenario.ID})

	children, err := folder.Children(models.DB)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), children, 2)
	assert.Equal(suite.T(), "DJ", children[0].Name)
	assert.Equal(suite.T(), "Band", children[1].Name)
}

func (suite *TestSuiteStandard) TestBudgetItemSpentAndReceived() {
	scenario := suite.createTestScenario(models.Scenario{})
	folder := suite.createTestBudgetItem(models.BudgetItem{ScenarioID: scenario.ID, IsFolder: true})
	first := suite.createTestBudgetItem(models.BudgetItem{ScenarioID: scenario.ID, ParentID: &folder.ID})
	second := suite.createTestBudgetItem(models.BudgetItem{ScenarioID: scenario.ID, ParentID: &folder.ID})

	expense := suite.createTestExpense(models.Expense{Name: "Venue deposit", Amount: decimal.NewFromFloat(100)})
	gift := suite.createTestGift(models.Gift{From: "Aunt Vera", Amount: decimal.NewFromFloat(50)})

	_ = suite.createTestExpenseAllocation(models.ExpenseAllocation{
		ScenarioID:   scenario.ID,
		BudgetItemID: first.ID,
		ExpenseID:    expense.ID.String(),
		Amount:       decimal.NewFromFloat(60),
	})
	_ = suite.createTestExpenseAllocation(models.ExpenseAllocation{
		ScenarioID:   scenario.ID,
		BudgetItemID: second.ID,
		ExpenseID:    expense.ID.String(),
		Amount:       decimal.NewFromFloat(40),
	})
	_ = suite.createTestGiftAllocation(models.GiftAllocation{
		ScenarioID:   scenario.ID,
		BudgetItemID: first.ID,
		GiftID:       gift.ID.String(),
		Amount:       decimal.NewFromFloat(50),
	})

	spent, err := first.Spent(models.DB)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), spent.Equal(decimal.NewFromFloat(60)), "Spent is %s, should be 60", spent)

	// Folders sum over their children
	spent, err = folder.Spent(models.DB)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), spent.Equal(decimal.NewFromFloat(100)), "Spent is %s, should be 100", spent)

	received, err := folder.Received(models.DB)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), received.Equal(decimal.NewFromFloat(50)), "Received is %s, should be 50", received)

	received, err = second.Received(models.DB)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), received.IsZero(), "Received is %s, should be 0", received)
}

func (suite *TestSuiteStandard) TestBudgetItemTotalBudgeted() {
	scenario := suite.createTestScenario(models.Scenario{})
	folder := suite.createTestBudgetItem(models.BudgetItem{ScenarioID: scenario.ID, IsFolder: true})
	nested := suite.createTestBudgetItem(models.BudgetItem{ScenarioID: scenario.ID, ParentID: &folder.ID, IsFolder: true})

	_ = suite.createTestBudgetItem(models.BudgetItem{ScenarioID: scenario.ID, ParentID: &folder.ID, Budgeted: decimal.NewFromFloat(1000)})
	_ = suite.createTestBudgetItem(models.BudgetItem{ScenarioID: scenario.ID, ParentID: &nested.ID, Budgeted: decimal.NewFromFloat(250)})

	total, err := folder.TotalBudgeted(models.DB)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), total.Equal(decimal.NewFromFloat(1250)), "TotalBudgeted is %s, should be 1250", total)
}

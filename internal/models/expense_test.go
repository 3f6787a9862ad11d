package models_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wedplan/backend/internal/models"
)

func (suite *TestSuiteStandard) TestExpenseDefaults() {
	expense := suite.createTestExpense(models.Expense{Name: " Venue deposit "})

	assert.Equal(suite.T(), "Venue deposit", expense.Name)
	assert.Equal(suite.T(), models.PaymentStatusPending, expense.Status)
	assert.False(suite.T(), expense.Date.IsZero())
	assert.Equal(suite.T(), time.UTC, expense.Date.Location())
}

func (suite *TestSuiteStandard) TestExpenseDateUTC() {
	date := time.Date(2026, 6, 12, 15, 0, 0, 0, time.FixedZone("CEST", 2*60*60))
	expense := suite.createTestExpense(models.Expense{Name: "Florist", Date: date})

	assert.Equal(suite.T(), time.UTC, expense.Date.Location())
	assert.True(suite.T(), expense.Date.Equal(date))
}

func (suite *TestSuiteStandard) TestExpenseStatus() {
	tests := []struct {
		status models.PaymentStatus
		err    error
	}{
		{models.PaymentStatusPaid, nil},
		{models.PaymentStatusPartial, nil},
		{models.PaymentStatusRefunded, nil},
		{"definitely-paid", models.ErrExpenseStatusInvalid},
	}

	for _, tt := range tests {
		suite.T().Run(string(tt.status), func(t *testing.T) {
			expense := models.Expense{
				Name:   "Status " + string(tt.status),
				Amount: decimal.NewFromFloat(1),
				Status: tt.status,
			}

			err := models.DB.Create(&expense).Error
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func (suite *TestSuiteStandard) TestExpenseAmountPositive() {
	tests := []struct {
		name   string
		amount decimal.Decimal
		err    error
	}{
		{"Zero", decimal.Zero, models.ErrExpenseAmountNotPositive},
		{"Negative", decimal.NewFromFloat(-12.5), models.ErrExpenseAmountNotPositive},
		{"Positive", decimal.NewFromFloat(0.01), nil},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			expense := models.Expense{Name: tt.name, Amount: tt.amount}
			err := models.DB.Create(&expense).Error
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func (suite *TestSuiteStandard) TestExpenseAmountUpdateRollback() {
	expense := suite.createTestExpense(models.Expense{Name: "Photographer"})

	err := models.DB.Model(&expense).Select("Amount").Updates(models.Expense{Amount: decimal.NewFromFloat(-1)}).Error
	assert.ErrorIs(suite.T(), err, models.ErrExpenseAmountNotPositive)

	// The update was rolled back
	var reloaded models.Expense
	require.NoError(suite.T(), models.DB.First(&reloaded, expense.ID).Error)
	assert.True(suite.T(), reloaded.Amount.IsPositive())
}

func (suite *TestSuiteStandard) TestVendorExpenses() {
	vendor := suite.createTestVendor(models.Vendor{Name: "Petal Pushers"})

	_ = suite.createTestExpense(models.Expense{Name: "Bouquet", VendorID: &vendor.ID})
	_ = suite.createTestExpense(models.Expense{Name: "Centerpieces", VendorID: &vendor.ID})
	_ = suite.createTestExpense(models.Expense{Name: "Unrelated"})

	expenses, err := vendor.Expenses(models.DB)
	require.NoError(suite.T(), err)
	assert.Len(suite.T(), expenses, 2)
}

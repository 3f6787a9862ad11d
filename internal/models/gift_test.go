package models_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/wedplan/backend/internal/models"
)

func (suite *TestSuiteStandard) TestGiftDefaults() {
	gift := suite.createTestGift(models.Gift{From: " Aunt Vera "})

	assert.Equal(suite.T(), "Aunt Vera", gift.From)
	assert.Equal(suite.T(), models.GiftTypeGift, gift.Type)
	assert.False(suite.T(), gift.Date.IsZero())
	assert.Equal(suite.T(), time.UTC, gift.Date.Location())
}

func (suite *TestSuiteStandard) TestGiftType() {
	tests := []struct {
		giftType models.GiftType
		err      error
	}{
		{models.GiftTypeGift, nil},
		{models.GiftTypeOwed, nil},
		{"iou", models.ErrGiftTypeInvalid},
	}

	for _, tt := range tests {
		suite.T().Run(string(tt.giftType), func(t *testing.T) {
			gift := models.Gift{
				From:   "Type " + string(tt.giftType),
				Amount: decimal.NewFromFloat(1),
				Type:   tt.giftType,
			}

			err := models.DB.Create(&gift).Error
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func (suite *TestSuiteStandard) TestGiftAmountPositive() {
	err := models.DB.Create(&models.Gift{From: "Nobody", Amount: decimal.Zero}).Error
	assert.ErrorIs(suite.T(), err, models.ErrGiftAmountNotPositive)

	err = models.DB.Create(&models.Gift{From: "Nobody", Amount: decimal.NewFromFloat(-5)}).Error
	assert.ErrorIs(suite.T(), err, models.ErrGiftAmountNotPositive)
}

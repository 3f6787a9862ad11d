package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GiftType discriminates between money that was received as a gift and
// money that is owed to the couple.
//
// swagger:enum GiftType
type GiftType string

const (
	GiftTypeGift GiftType = "gift"
	GiftTypeOwed GiftType = "owed"
)

func (t GiftType) Valid() bool {
	return t == GiftTypeGift || t == GiftTypeOwed
}

// Gift is a monetary gift received or money owed.
//
// For allocation purposes gifts behave exactly like expenses: the full
// amount is distributed over the linked budget items of a scenario.
type Gift struct {
	DefaultModel
	From   string // Who gave or owes the money
	Note   string
	Amount decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Date   time.Time
	Type   GiftType
}

func (g *Gift) BeforeSave(_ *gorm.DB) error {
	g.From = strings.TrimSpace(g.From)
	g.Note = strings.TrimSpace(g.Note)

	if g.Date.IsZero() {
		g.Date = time.Now().In(time.UTC)
	} else {
		g.Date = g.Date.In(time.UTC)
	}

	if g.Type == "" {
		g.Type = GiftTypeGift
	}

	if !g.Type.Valid() {
		return ErrGiftTypeInvalid
	}

	return nil
}

func (g *Gift) AfterSave(_ *gorm.DB) error {
	if !g.Amount.IsPositive() {
		return ErrGiftAmountNotPositive
	}

	return nil
}

func (g *Gift) AfterFind(_ *gorm.DB) error {
	_ = g.DefaultModel.AfterFind(nil)
	g.Date = g.Date.In(time.UTC)
	return nil
}

// Returns all gifts on this instance for export
func (Gift) Export() (json.RawMessage, error) {
	var gifts []Gift
	err := DB.Unscoped().Where(&Gift{}).Find(&gifts).Error
	if err != nil {
		return nil, err
	}

	j, err := json.Marshal(&gifts)
	if err != nil {
		return json.RawMessage{}, err
	}
	return json.RawMessage(j), nil
}

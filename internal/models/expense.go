package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentStatus describes how far an expense has been paid.
//
// swagger:enum PaymentStatus
type PaymentStatus string

const (
	PaymentStatusPaid      PaymentStatus = "paid"
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusPartial   PaymentStatus = "partial"
	PaymentStatusOverdue   PaymentStatus = "overdue"
	PaymentStatusCancelled PaymentStatus = "cancelled"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPaid, PaymentStatusPending, PaymentStatusPartial,
		PaymentStatusOverdue, PaymentStatusCancelled, PaymentStatusRefunded:
		return true
	}

	return false
}

// Expense is a real-world cost, e.g. an invoice from a vendor.
//
// Expenses are linked to budget items through ExpenseAllocation rows,
// which always distribute the full expense amount.
type Expense struct {
	DefaultModel
	VendorID *uuid.UUID
	Vendor   Vendor `json:"-"`
	Name     string
	Note     string
	Amount   decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Date     time.Time
	Status   PaymentStatus

	// The SHA256 hash of a unique combination of values to use in duplicate detection on import
	ImportHash string
}

func (e *Expense) BeforeSave(_ *gorm.DB) error {
	e.Name = strings.TrimSpace(e.Name)
	e.Note = strings.TrimSpace(e.Note)

	if e.Date.IsZero() {
		e.Date = time.Now().In(time.UTC)
	} else {
		e.Date = e.Date.In(time.UTC)
	}

	if e.Status == "" {
		e.Status = PaymentStatusPending
	}

	if !e.Status.Valid() {
		return ErrExpenseStatusInvalid
	}

	return nil
}

func (e *Expense) AfterSave(_ *gorm.DB) error {
	if !e.Amount.IsPositive() {
		return ErrExpenseAmountNotPositive
	}

	return nil
}

func (e *Expense) AfterFind(_ *gorm.DB) error {
	_ = e.DefaultModel.AfterFind(nil)
	e.Date = e.Date.In(time.UTC)
	return nil
}

// Returns all expenses on this instance for export
func (Expense) Export() (json.RawMessage, error) {
	var expenses []Expense
	err := DB.Unscoped().Where(&Expense{}).Find(&expenses).Error
	if err != nil {
		return nil, err
	}

	j, err := json.Marshal(&expenses)
	if err != nil {
		return json.RawMessage{}, err
	}
	return json.RawMessage(j), nil
}

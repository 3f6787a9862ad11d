package models

import (
	"encoding/json"
	"strings"

	"gorm.io/gorm"
)

// Vendor is a business that provides a service for the wedding, for
// example the caterer or the florist.
type Vendor struct {
	DefaultModel
	Name     string
	Category string
	Email    string
	Phone    string
	Note     string
	Archived bool
}

func (v *Vendor) BeforeSave(_ *gorm.DB) error {
	v.Name = strings.TrimSpace(v.Name)
	v.Category = strings.TrimSpace(v.Category)
	v.Email = strings.TrimSpace(v.Email)
	v.Phone = strings.TrimSpace(v.Phone)
	v.Note = strings.TrimSpace(v.Note)

	return nil
}

// Expenses returns all expenses booked with this vendor.
func (v Vendor) Expenses(db *gorm.DB) ([]Expense, error) {
	var expenses []Expense
	err := db.Where("vendor_id = ?", v.ID).Order("date DESC").Find(&expenses).Error
	if err != nil {
		return nil, err
	}

	return expenses, nil
}

// Returns all vendors on this instance for export
func (Vendor) Export() (json.RawMessage, error) {
	var vendors []Vendor
	err := DB.Unscoped().Where(&Vendor{}).Find(&vendors).Error
	if err != nil {
		return nil, err
	}

	j, err := json.Marshal(&vendors)
	if err != nil {
		return json.RawMessage{}, err
	}
	return json.RawMessage(j), nil
}

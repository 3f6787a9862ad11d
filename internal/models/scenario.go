package models

import (
	"encoding/json"
	"strings"

	"golang.org/x/text/currency"
	"gorm.io/gorm"
)

// Scenario is a named "what-if" plan for the wedding budget.
//
// It is the highest level of organization, all other budget resources
// reference it directly or transitively. The same expense can be split
// differently under different scenarios.
type Scenario struct {
	DefaultModel
	Name     string `gorm:"uniqueIndex"`
	Note     string
	Currency string
	Archived bool
}

func (s *Scenario) BeforeSave(_ *gorm.DB) error {
	s.Name = strings.TrimSpace(s.Name)
	s.Note = strings.TrimSpace(s.Note)

	if s.Currency == "" {
		s.Currency = "EUR"
	}

	s.Currency = strings.ToUpper(strings.TrimSpace(s.Currency))
	if _, err := currency.ParseISO(s.Currency); err != nil {
		return ErrScenarioCurrencyInvalid
	}

	return nil
}

// BudgetItems returns all non-deleted budget items of the scenario.
func (s Scenario) BudgetItems(db *gorm.DB) ([]BudgetItem, error) {
	var items []BudgetItem
	err := db.Where(&BudgetItem{ScenarioID: s.ID}).Order("display_order ASC, name ASC").Find(&items).Error
	if err != nil {
		return nil, err
	}

	return items, nil
}

// Returns all scenarios on this instance for export
func (Scenario) Export() (json.RawMessage, error) {
	var scenarios []Scenario
	err := DB.Unscoped().Where(&Scenario{}).Find(&scenarios).Error
	if err != nil {
		return nil, err
	}

	j, err := json.Marshal(&scenarios)
	if err != nil {
		return json.RawMessage{}, err
	}
	return json.RawMessage(j), nil
}

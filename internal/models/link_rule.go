package models

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LinkRule automatically links imported expenses to a budget item when the
// vendor or expense name matches the glob pattern in Match.
type LinkRule struct {
	DefaultModel
	BudgetItemID uuid.UUID
	BudgetItem   BudgetItem `json:"-"`
	Priority     uint
	Match        string
}

func (r *LinkRule) BeforeCreate(tx *gorm.DB) error {
	_ = r.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*LinkRule)
	return r.checkIntegrity(tx, *toSave)
}

func (r *LinkRule) BeforeUpdate(tx *gorm.DB) error {
	toSave := tx.Statement.Dest.(LinkRule)

	if tx.Statement.Changed("BudgetItemID") {
		err := r.checkIntegrity(tx, toSave)
		if err != nil {
			return err
		}
	}

	return nil
}

func (r *LinkRule) checkIntegrity(tx *gorm.DB, toSave LinkRule) error {
	return tx.First(&BudgetItem{}, toSave.BudgetItemID).Error
}

func (r *LinkRule) BeforeSave(_ *gorm.DB) error {
	r.Match = strings.TrimSpace(r.Match)
	if r.Match == "" {
		return ErrLinkRuleMatchEmpty
	}

	return nil
}

// Returns all link rules on this instance for export
func (LinkRule) Export() (json.RawMessage, error) {
	var rules []LinkRule
	err := DB.Unscoped().Where(&LinkRule{}).Find(&rules).Error
	if err != nil {
		return nil, err
	}

	j, err := json.Marshal(&rules)
	if err != nil {
		return json.RawMessage{}, err
	}
	return json.RawMessage(j), nil
}

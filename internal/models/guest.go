package models

import (
	"encoding/json"
	"strings"

	"gorm.io/gorm"
)

// RSVPStatus is the reply state of a guest invitation.
//
// swagger:enum RSVPStatus
type RSVPStatus string

const (
	RSVPStatusInvited   RSVPStatus = "invited"
	RSVPStatusConfirmed RSVPStatus = "confirmed"
	RSVPStatusDeclined  RSVPStatus = "declined"
	RSVPStatusTentative RSVPStatus = "tentative"
)

func (s RSVPStatus) Valid() bool {
	switch s {
	case RSVPStatusInvited, RSVPStatusConfirmed, RSVPStatusDeclined, RSVPStatusTentative:
		return true
	}

	return false
}

// Guest is one invitation on the guest list, possibly covering a whole
// party.
type Guest struct {
	DefaultModel
	Name      string
	PartySize uint
	RSVP      RSVPStatus
	Note      string
}

func (g *Guest) BeforeSave(_ *gorm.DB) error {
	g.Name = strings.TrimSpace(g.Name)
	g.Note = strings.TrimSpace(g.Note)

	if g.PartySize == 0 {
		g.PartySize = 1
	}

	if g.RSVP == "" {
		g.RSVP = RSVPStatusInvited
	}

	if !g.RSVP.Valid() {
		return ErrGuestRSVPStatusInvalid
	}

	return nil
}

// Returns all guests on this instance for export
func (Guest) Export() (json.RawMessage, error) {
	var guests []Guest
	err := DB.Unscoped().Where(&Guest{}).Find(&guests).Error
	if err != nil {
		return nil, err
	}

	j, err := json.Marshal(&guests)
	if err != nil {
		return json.RawMessage{}, err
	}
	return json.RawMessage(j), nil
}

package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/wedplan/backend/internal/models"
)

// GuestEditable represents all user configurable parameters
type GuestEditable struct {
	Name      string            `json:"name" example:"Jordan & Sam" default:""`           // Name of the guest or party
	PartySize uint              `json:"partySize" example:"2" default:"1"`                // How many people the invitation covers
	RSVP      models.RSVPStatus `json:"rsvp" example:"confirmed" default:"invited"`       // Reply state of the invitation
	Note      string            `json:"note" example:"Vegetarian, no nuts" default:""`    // Notes about the guest
}

func (editable GuestEditable) model() models.Guest {
	return models.Guest{
		Name:      editable.Name,
		PartySize: editable.PartySize,
		RSVP:      editable.RSVP,
		Note:      editable.Note,
	}
}

type GuestLinks struct {
	Self string `json:"self" example:"https://example.com/api/v1/guests/2c237ee8-2a1e-4eb6-ad32-f4fc0b187fbe"` // The guest itself
}

type Guest struct {
	models.DefaultModel
	GuestEditable
	Links GuestLinks `json:"links"`
}

func newGuest(c *gin.Context, model models.Guest) Guest {
	url := c.GetString(string(models.DBContextURL))

	return Guest{
		DefaultModel: model.DefaultModel,
		GuestEditable: GuestEditable{
			Name:      model.Name,
			PartySize: model.PartySize,
			RSVP:      model.RSVP,
			Note:      model.Note,
		},
		Links: GuestLinks{
			Self: fmt.Sprintf("%s/v1/guests/%s", url, model.ID),
		},
	}
}

type GuestListResponse struct {
	Data       []Guest     `json:"data"`                                                          // List of guests
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type GuestCreateResponse struct {
	Error *string         `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []GuestResponse `json:"data"`                                                          // List of the created guests or their respective error
}

func (r *GuestCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	r.Data = append(r.Data, GuestResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type GuestResponse struct {
	Data  *Guest  `json:"data"`                                                          // Data for the guest
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type GuestQueryFilter struct {
	Name   string            `form:"name" filterField:"false"`   // By name
	Note   string            `form:"note" filterField:"false"`   // By note
	RSVP   models.RSVPStatus `form:"rsvp"`                       // By reply state
	Search string            `form:"search" filterField:"false"` // By string in name or note
	Offset uint              `form:"offset" filterField:"false"` // The offset of the first guest returned. Defaults to 0.
	Limit  int               `form:"limit" filterField:"false"`  // Maximum number of guests to return. Defaults to 50.
}

func (f GuestQueryFilter) model() (models.Guest, error) {
	return models.Guest{
		RSVP: f.RSVP,
	}, nil
}

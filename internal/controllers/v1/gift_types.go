package v1

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/wedplan/backend/internal/models"
)

// GiftEditable represents all user configurable parameters
type GiftEditable struct {
	From   string          `json:"from" example:"Aunt Marianne" default:""`                  // Who gave or owes the money
	Note   string          `json:"note" example:"Card at the engagement party" default:""`   // Notes about the gift
	Amount decimal.Decimal `json:"amount" example:"200" minimum:"0" multipleOf:"0.00000001"` // Amount of the gift
	Date   time.Time       `json:"date" example:"2026-02-14T00:00:00Z"`                      // Date the gift was received or promised
	Type   models.GiftType `json:"type" example:"gift" default:"gift"`                       // Received gift or owed money
}

func (editable GiftEditable) model() models.Gift {
	return models.Gift{
		From:   editable.From,
		Note:   editable.Note,
		Amount: editable.Amount,
		Date:   editable.Date,
		Type:   editable.Type,
	}
}

type GiftLinksSection struct {
	Self        string `json:"self" example:"https://example.com/api/v1/gifts/5340f085-88f8-47f8-a467-c57b0cf33ca9"`                 // The gift itself
	Allocations string `json:"allocations" example:"https://example.com/api/v1/allocations?gift=5340f085-88f8-47f8-a467-c57b0cf33ca9"` // Allocations of this gift
}

type Gift struct {
	models.DefaultModel
	GiftEditable
	Links GiftLinksSection `json:"links"`
}

func newGift(c *gin.Context, model models.Gift) Gift {
	url := c.GetString(string(models.DBContextURL))

	return Gift{
		DefaultModel: model.DefaultModel,
		GiftEditable: GiftEditable{
			From:   model.From,
			Note:   model.Note,
			Amount: model.Amount,
			Date:   model.Date,
			Type:   model.Type,
		},
		Links: GiftLinksSection{
			Self:        fmt.Sprintf("%s/v1/gifts/%s", url, model.ID),
			Allocations: fmt.Sprintf("%s/v1/allocations?gift=%s", url, model.ID),
		},
	}
}

type GiftListResponse struct {
	Data       []Gift      `json:"data"`                                                          // List of gifts
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type GiftCreateResponse struct {
	Error *string        `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []GiftResponse `json:"data"`                                                          // List of the created gifts or their respective error
}

func (r *GiftCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	r.Data = append(r.Data, GiftResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type GiftResponse struct {
	Data  *Gift   `json:"data"`                                                          // Data for the gift
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type GiftQueryFilter struct {
	From   string          `form:"from" filterField:"false"`   // By giver
	Note   string          `form:"note" filterField:"false"`   // By note
	Type   models.GiftType `form:"type"`                       // Only gifts or only owed money
	Search string          `form:"search" filterField:"false"` // By string in giver or note
	Offset uint            `form:"offset" filterField:"false"` // The offset of the first gift returned. Defaults to 0.
	Limit  int             `form:"limit" filterField:"false"`  // Maximum number of gifts to return. Defaults to 50.
}

func (f GiftQueryFilter) model() (models.Gift, error) {
	return models.Gift{
		Type: f.Type,
	}, nil
}

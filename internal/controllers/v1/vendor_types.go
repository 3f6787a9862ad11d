package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/wedplan/backend/internal/models"
)

// VendorEditable represents all user configurable parameters
type VendorEditable struct {
	Name     string `json:"name" example:"Blossom & Stem" default:""`            // Name of the vendor
	Category string `json:"category" example:"Florist" default:""`              // What the vendor provides
	Email    string `json:"email" example:"hello@blossomandstem.example" default:""` // Contact email address
	Phone    string `json:"phone" example:"+49 30 1234567" default:""`          // Contact phone number
	Note     string `json:"note" example:"Recommended by the venue" default:""` // Notes about the vendor
	Archived bool   `json:"archived" example:"true" default:"false"`            // Is the vendor archived?
}

func (editable VendorEditable) model() models.Vendor {
	return models.Vendor{
		Name:     editable.Name,
		Category: editable.Category,
		Email:    editable.Email,
		Phone:    editable.Phone,
		Note:     editable.Note,
		Archived: editable.Archived,
	}
}

type VendorLinks struct {
	Self     string `json:"self" example:"https://example.com/api/v1/vendors/d92c0e05-b57a-4918-bd62-bdbd8a4a09fe"`            // The vendor itself
	Expenses string `json:"expenses" example:"https://example.com/api/v1/expenses?vendor=d92c0e05-b57a-4918-bd62-bdbd8a4a09fe"` // Expenses booked with this vendor
}

type Vendor struct {
	models.DefaultModel
	VendorEditable
	Links VendorLinks `json:"links"`
}

func newVendor(c *gin.Context, model models.Vendor) Vendor {
	url := c.GetString(string(models.DBContextURL))

	return Vendor{
		DefaultModel: model.DefaultModel,
		VendorEditable: VendorEditable{
			Name:     model.Name,
			Category: model.Category,
			Email:    model.Email,
			Phone:    model.Phone,
			Note:     model.Note,
			Archived: model.Archived,
		},
		Links: VendorLinks{
			Self:     fmt.Sprintf("%s/v1/vendors/%s", url, model.ID),
			Expenses: fmt.Sprintf("%s/v1/expenses?vendor=%s", url, model.ID),
		},
	}
}

type VendorListResponse struct {
	Data       []Vendor    `json:"data"`                                                          // List of vendors
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type VendorCreateResponse struct {
	Error *string          `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []VendorResponse `json:"data"`                                                          // List of the created vendors or their respective error
}

func (r *VendorCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	r.Data = append(r.Data, VendorResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type VendorResponse struct {
	Data  *Vendor `json:"data"`                                                          // Data for the vendor
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type VendorQueryFilter struct {
	Name     string `form:"name" filterField:"false"`   // By name
	Category string `form:"category"`                   // By category
	Note     string `form:"note" filterField:"false"`   // By note
	Archived bool   `form:"archived"`                   // Is the vendor archived?
	Search   string `form:"search" filterField:"false"` // By string in name or note
	Offset   uint   `form:"offset" filterField:"false"` // The offset of the first vendor returned. Defaults to 0.
	Limit    int    `form:"limit" filterField:"false"`  // Maximum number of vendors to return. Defaults to 50.
}

func (f VendorQueryFilter) model() (models.Vendor, error) {
	return models.Vendor{
		Category: f.Category,
		Archived: f.Archived,
	}, nil
}

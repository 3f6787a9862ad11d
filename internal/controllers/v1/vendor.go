package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wedplan/backend/internal/httputil"
	"github.com/wedplan/backend/internal/models"
	"golang.org/x/exp/slices"
)

// RegisterVendorRoutes registers the routes for vendors with
// the RouterGroup that is passed.
func RegisterVendorRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsVendorList)
		r.GET("", GetVendors)
		r.POST("", CreateVendors)
	}

	// Vendor with ID
	{
		r.OPTIONS("/:id", OptionsVendorDetail)
		r.GET("/:id", GetVendor)
		r.PATCH("/:id", UpdateVendor)
		r.DELETE("/:id", DeleteVendor)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Vendors
// @Success		204
// @Router			/v1/vendors [options]
func OptionsVendorList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Vendors
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/vendors/{id} [options]
func OptionsVendorDetail(c *gin.Context) {
	resourceOptionsDetail(c, models.Vendor{})
}

// @Summary		Create vendors
// @Description	Creates new vendors
// @Tags			Vendors
// @Produce		json
// @Success		201		{object}	VendorCreateResponse
// @Failure		400		{object}	VendorCreateResponse
// @Failure		500		{object}	VendorCreateResponse
// @Param			vendors	body		[]VendorEditable	true	"Vendors"
// @Router			/v1/vendors [post]
func CreateVendors(c *gin.Context) {
	var editables []VendorEditable

	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), VendorCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := VendorCreateResponse{}

	for _, editable := range editables {
		vendor := editable.model()

		err = models.DB.Create(&vendor).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data := newVendor(c, vendor)
		r.Data = append(r.Data, VendorResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		Get vendors
// @Description	Returns a list of vendors
// @Tags			Vendors
// @Produce		json
// @Success		200	{object}	VendorListResponse
// @Failure		500	{object}	VendorListResponse
// @Router			/v1/vendors [get]
// @Param			name		query	string	false	"Filter by name"
// @Param			category	query	string	false	"Filter by category"
// @Param			note		query	string	false	"Filter by note"
// @Param			archived	query	bool	false	"Is the vendor archived?"
// @Param			search		query	string	false	"Search for this text in name and note"
// @Param			offset		query	uint	false	"The offset of the first vendor returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of vendors to return. Defaults to 50."
func GetVendors(c *gin.Context) {
	var filter VendorQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.Bind(&filter)

	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	filterModel, err := filter.model()
	if err != nil {
		s := err.Error()
		c.JSON(status(err), VendorListResponse{
			Error: &s,
		})
		return
	}

	q := models.DB.
		Order("name ASC").
		Where(&filterModel, queryFields...)

	q = stringFilters(models.DB, q, setFields, filter.Name, filter.Note, filter.Search)

	q = q.Offset(int(filter.Offset))

	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var vendors []models.Vendor
	err = q.Find(&vendors).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), VendorListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), VendorListResponse{
			Error: &e,
		})
		return
	}

	data := make([]Vendor, 0)
	for _, vendor := range vendors {
		data = append(data, newVendor(c, vendor))
	}

	c.JSON(http.StatusOK, VendorListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get vendor
// @Description	Returns a specific vendor
// @Tags			Vendors
// @Produce		json
// @Success		200	{object}	VendorResponse
// @Failure		400	{object}	VendorResponse
// @Failure		404	{object}	VendorResponse
// @Failure		500	{object}	VendorResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/vendors/{id} [get]
func GetVendor(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), VendorResponse{
			Error: &s,
		})
		return
	}

	var vendor models.Vendor
	err = models.DB.First(&vendor, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), VendorResponse{
			Error: &s,
		})
		return
	}

	data := newVendor(c, vendor)
	c.JSON(http.StatusOK, VendorResponse{Data: &data})
}

// @Summary		Update vendor
// @Description	Update an existing vendor. Only values to be updated need to be specified.
// @Tags			Vendors
// @Accept			json
// @Produce		json
// @Success		200		{object}	VendorResponse
// @Failure		400		{object}	VendorResponse
// @Failure		404		{object}	VendorResponse
// @Failure		500		{object}	VendorResponse
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			vendor	body		VendorEditable	true	"Vendor"
// @Router			/v1/vendors/{id} [patch]
func UpdateVendor(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), VendorResponse{
			Error: &s,
		})
		return
	}

	var vendor models.Vendor
	err = models.DB.First(&vendor, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), VendorResponse{
			Error: &s,
		})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, VendorEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), VendorResponse{
			Error: &s,
		})
		return
	}

	var data VendorEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), VendorResponse{
			Error: &s,
		})
		return
	}

	err = models.DB.Model(&vendor).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), VendorResponse{
			Error: &s,
		})
		return
	}

	r := newVendor(c, vendor)
	c.JSON(http.StatusOK, VendorResponse{Data: &r})
}

// @Summary		Delete vendor
// @Description	Deletes a vendor. Expenses booked with the vendor are kept.
// @Tags			Vendors
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/vendors/{id} [delete]
func DeleteVendor(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var vendor models.Vendor
	err = models.DB.First(&vendor, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Delete(&vendor).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

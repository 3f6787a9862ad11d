package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wedplan/backend/internal/httputil"
	"github.com/wedplan/backend/internal/models"
	"golang.org/x/exp/slices"
)

// RegisterGuestRoutes registers the routes for guests with
// the RouterGroup that is passed.
func RegisterGuestRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsGuestList)
		r.GET("", GetGuests)
		r.POST("", CreateGuests)
	}

	// Guest with ID
	{
		r.OPTIONS("/:id", OptionsGuestDetail)
		r.GET("/:id", GetGuest)
		r.PATCH("/:id", UpdateGuest)
		r.DELETE("/:id", DeleteGuest)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Guests
// @Success		204
// @Router			/v1/guests [options]
func OptionsGuestList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Guests
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/guests/{id} [options]
func OptionsGuestDetail(c *gin.Context) {
	resourceOptionsDetail(c, models.Guest{})
}

// @Summary		Create guests
// @Description	Creates new guests
// @Tags			Guests
// @Produce		json
// @Success		201		{object}	GuestCreateResponse
// @Failure		400		{object}	GuestCreateResponse
// @Failure		500		{object}	GuestCreateResponse
// @Param			guests	body		[]GuestEditable	true	"Guests"
// @Router			/v1/guests [post]
func CreateGuests(c *gin.Context) {
	var editables []GuestEditable

	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GuestCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := GuestCreateResponse{}

	for _, editable := range editables {
		guest := editable.model()

		err = models.DB.Create(&guest).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data := newGuest(c, guest)
		r.Data = append(r.Data, GuestResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		Get guests
// @Description	Returns a list of guests
// @Tags			Guests
// @Produce		json
// @Success		200	{object}	GuestListResponse
// @Failure		400	{object}	GuestListResponse
// @Failure		500	{object}	GuestListResponse
// @Router			/v1/guests [get]
// @Param			name	query	string	false	"Filter by name"
// @Param			note	query	string	false	"Filter by note"
// @Param			rsvp	query	string	false	"Filter by reply state"
// @Param			search	query	string	false	"Search for this text in name and note"
// @Param			offset	query	uint	false	"The offset of the first guest returned. Defaults to 0."
// @Param			limit	query	int		false	"Maximum number of guests to return. Defaults to 50."
func GetGuests(c *gin.Context) {
	var filter GuestQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.Bind(&filter)

	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	filterModel, err := filter.model()
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GuestListResponse{
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

	var guests []models.Guest
	err = q.Find(&guests).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GuestListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GuestListResponse{
			Error: &e,
		})
		return
	}

	data := make([]Guest, 0)
	for _, guest := range guests {
		data = append(data, newGuest(c, guest))
	}

	c.JSON(http.StatusOK, GuestListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get guest
// @Description	Returns a specific guest
// @Tags			Guests
// @Produce		json
// @Success		200	{object}	GuestResponse
// @Failure		400	{object}	GuestResponse
// @Failure		404	{object}	GuestResponse
// @Failure		500	{object}	GuestResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/guests/{id} [get]
func GetGuest(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GuestResponse{
			Error: &s,
		})
		return
	}

	var guest models.Guest
	err = models.DB.First(&guest, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GuestResponse{
			Error: &s,
		})
		return
	}

	data := newGuest(c, guest)
	c.JSON(http.StatusOK, GuestResponse{Data: &data})
}

// @Summary		Update guest
// @Description	Update an existing guest. Only values to be updated need to be specified.
// @Tags			Guests
// @Accept			json
// @Produce		json
// @Success		200		{object}	GuestResponse
// @Failure		400		{object}	GuestResponse
// @Failure		404		{object}	GuestResponse
// @Failure		500		{object}	GuestResponse
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			guest	body		GuestEditable	true	"Guest"
// @Router			/v1/guests/{id} [patch]
func UpdateGuest(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GuestResponse{
			Error: &s,
		})
		return
	}

	var guest models.Guest
	err = models.DB.First(&guest, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GuestResponse{
			Error: &s,
		})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, GuestEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GuestResponse{
			Error: &s,
		})
		return
	}

	var data GuestEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GuestResponse{
			Error: &s,
		})
		return
	}

	err = models.DB.Model(&guest).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GuestResponse{
			Error: &s,
		})
		return
	}

	r := newGuest(c, guest)
	c.JSON(http.StatusOK, GuestResponse{Data: &r})
}

// @Summary		Delete guest
// @Description	Deletes a guest
// @Tags			Guests
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/guests/{id} [delete]
func DeleteGuest(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var guest models.Guest
	err = models.DB.First(&guest, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Delete(&guest).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

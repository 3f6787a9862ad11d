package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/wedplan/backend/internal/allocation"
	"github.com/wedplan/backend/internal/httputil"
	"github.com/wedplan/backend/internal/metrics"
	"github.com/wedplan/backend/internal/models"
	wp_uuid "github.com/wedplan/backend/internal/uuid"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// RegisterGiftRoutes registers the routes for gifts with
// the RouterGroup that is passed.
func RegisterGiftRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsGiftList)
		r.GET("", GetGifts)
		r.POST("", CreateGifts)
	}

	// Gift with ID
	{
		r.OPTIONS("/:id", OptionsGiftDetail)
		r.GET("/:id", GetGift)
		r.PATCH("/:id", UpdateGift)
		r.DELETE("/:id", DeleteGift)
	}

	// Linking to budget items
	{
		r.OPTIONS("/:id/links", OptionsGiftLinks)
		r.POST("/:id/links", LinkGift)
		r.DELETE("/:id/links/:budgetItemId", UnlinkGift)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Gifts
// @Success		204
// @Router			/v1/gifts [options]
func OptionsGiftList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Gifts
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/gifts/{id} [options]
func OptionsGiftDetail(c *gin.Context) {
	resourceOptionsDetail(c, models.Gift{})
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Gifts
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/gifts/{id}/links [options]
func OptionsGiftLinks(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&models.Gift{}, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsPostDelete(c)
}

// @Summary		Create gifts
// @Description	Creates new gifts
// @Tags			Gifts
// @Produce		json
// @Success		201		{object}	GiftCreateResponse
// @Failure		400		{object}	GiftCreateResponse
// @Failure		500		{object}	GiftCreateResponse
// @Param			gifts	body		[]GiftEditable	true	"Gifts"
// @Router			/v1/gifts [post]
func CreateGifts(c *gin.Context) {
	var editables []GiftEditable

	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GiftCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := GiftCreateResponse{}

	for _, editable := range editables {
		gift := editable.model()

		err = models.DB.Create(&gift).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data := newGift(c, gift)
		r.Data = append(r.Data, GiftResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		Get gifts
// @Description	Returns a list of gifts
// @Tags			Gifts
// @Produce		json
// @Success		200	{object}	GiftListResponse
// @Failure		400	{object}	GiftListResponse
// @Failure		500	{object}	GiftListResponse
// @Router			/v1/gifts [get]
// @Param			from	query	string	false	"Filter by giver"
// @Param			note	query	string	false	"Filter by note"
// @Param			type	query	string	false	"Filter by gift type"
// @Param			search	query	string	false	"Search for this text in giver and note"
// @Param			offset	query	uint	false	"The offset of the first gift returned. Defaults to 0."
// @Param			limit	query	int		false	"Maximum number of gifts to return. Defaults to 50."
func GetGifts(c *gin.Context) {
	var filter GiftQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.Bind(&filter)

	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	filterModel, err := filter.model()
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GiftListResponse{
			Error: &s,
		})
		return
	}

	q := models.DB.
		Order("date DESC").
		Where(&filterModel, queryFields...)

	// Gifts have a giver instead of a name, so the shared string filters
	// do not apply here
	for _, field := range setFields {
		switch field {
		case "From":
			q = q.Where("`from` LIKE ?", "%"+filter.From+"%")
		case "Note":
			q = q.Where("note LIKE ?", "%"+filter.Note+"%")
		}
	}

	if filter.Search != "" {
		q = q.Where(
			models.DB.Where("`from` LIKE ?", "%"+filter.Search+"%").
				Or("note LIKE ?", "%"+filter.Search+"%"),
		)
	}

	q = q.Offset(int(filter.Offset))

	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var gifts []models.Gift
	err = q.Find(&gifts).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GiftListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GiftListResponse{
			Error: &e,
		})
		return
	}

	data := make([]Gift, 0)
	for _, gift := range gifts {
		data = append(data, newGift(c, gift))
	}

	c.JSON(http.StatusOK, GiftListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get gift
// @Description	Returns a specific gift
// @Tags			Gifts
// @Produce		json
// @Success		200	{object}	GiftResponse
// @Failure		400	{object}	GiftResponse
// @Failure		404	{object}	GiftResponse
// @Failure		500	{object}	GiftResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/gifts/{id} [get]
func GetGift(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GiftResponse{
			Error: &s,
		})
		return
	}

	var gift models.Gift
	err = models.DB.First(&gift, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GiftResponse{
			Error: &s,
		})
		return
	}

	data := newGift(c, gift)
	c.JSON(http.StatusOK, GiftResponse{Data: &data})
}

// @Summary		Update gift
// @Description	Update an existing gift. Only values to be updated need to be specified. Changing the amount rebalances the gift's allocations in every scenario it is linked in.
// @Tags			Gifts
// @Accept			json
// @Produce		json
// @Success		200		{object}	GiftResponse
// @Failure		400		{object}	GiftResponse
// @Failure		404		{object}	GiftResponse
// @Failure		500		{object}	GiftResponse
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			gift	body		GiftEditable	true	"Gift"
// @Router			/v1/gifts/{id} [patch]
func UpdateGift(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GiftResponse{
			Error: &s,
		})
		return
	}

	var gift models.Gift
	err = models.DB.First(&gift, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GiftResponse{
			Error: &s,
		})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, GiftEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GiftResponse{
			Error: &s,
		})
		return
	}

	var data GiftEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GiftResponse{
			Error: &s,
		})
		return
	}

	err = models.DB.Model(&gift).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GiftResponse{
			Error: &s,
		})
		return
	}

	// A changed amount re-splits the allocations over the unchanged
	// member sets so that the sum invariant holds for the new amount
	if slices.Contains(updateFields, "Amount") {
		err = rebalanceGift(c, gift)
		if err != nil {
			s := err.Error()
			c.JSON(status(err), GiftResponse{
				Error: &s,
			})
			return
		}
	}

	r := newGift(c, gift)
	c.JSON(http.StatusOK, GiftResponse{Data: &r})
}

// rebalanceGift re-runs the allocation split for every scenario the gift
// is linked in.
func rebalanceGift(c *gin.Context, gift models.Gift) error {
	ctx := c.Request.Context()

	var scenarioIDs []uuid.UUID
	err := models.DB.WithContext(ctx).
		Model(&models.GiftAllocation{}).
		Where("gift_id = ?", gift.ID.String()).
		Distinct().
		Pluck("scenario_id", &scenarioIDs).Error
	if err != nil {
		return err
	}

	engine := allocation.New(models.ScenarioItems{}, models.GiftLinks{})
	links := models.GiftLinks{}
	source := allocation.Source{ID: gift.ID.String(), Amount: gift.Amount}

	for _, scenarioID := range scenarioIDs {
		rows, err := links.AllocationsForSource(ctx, source.ID, scenarioID)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			continue
		}

		_, err = engine.Link(ctx, source, rows[0].BudgetItemID, scenarioID)
		if err != nil {
			return err
		}
	}

	return nil
}

// @Summary		Delete gift
// @Description	Deletes a gift and all of its allocations
// @Tags			Gifts
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/gifts/{id} [delete]
func DeleteGift(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var gift models.Gift
	err = models.DB.First(&gift, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		// Hard delete, a soft deleted row would still occupy the unique index
		err := tx.Unscoped().
			Where("gift_id = ?", gift.ID.String()).
			Delete(&models.GiftAllocation{}).Error
		if err != nil {
			return err
		}

		return tx.Delete(&gift).Error
	})
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// @Summary		Link gift
// @Description	Links the gift to a budget item, rebalancing the gift's allocations proportionally by the budgeted amounts of all linked items. Linking an already linked item only re-splits the amounts.
// @Tags			Gifts
// @Accept			json
// @Produce		json
// @Success		200		{object}	AllocationListResponse
// @Failure		400		{object}	AllocationListResponse
// @Failure		404		{object}	AllocationListResponse
// @Failure		500		{object}	AllocationListResponse
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			link	body		LinkEditable	true	"Link"
// @Router			/v1/gifts/{id}/links [post]
func LinkGift(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AllocationListResponse{
			Error: &s,
		})
		return
	}

	var gift models.Gift
	err = models.DB.First(&gift, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AllocationListResponse{
			Error: &s,
		})
		return
	}

	var editable LinkEditable
	err = httputil.BindData(c, &editable)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AllocationListResponse{
			Error: &s,
		})
		return
	}

	engine := allocation.New(models.ScenarioItems{}, models.GiftLinks{})
	source := allocation.Source{ID: gift.ID.String(), Amount: gift.Amount}

	_, err = engine.Link(c.Request.Context(), source, editable.BudgetItemID, editable.ScenarioID)
	if err != nil {
		metrics.LinksTotal.WithLabelValues(metrics.SourceGift, metrics.OutcomeFailure).Inc()
		s := err.Error()
		c.JSON(status(err), AllocationListResponse{
			Error: &s,
		})
		return
	}
	metrics.LinksTotal.WithLabelValues(metrics.SourceGift, metrics.OutcomeSuccess).Inc()

	respondGiftAllocations(c, gift.ID.String(), editable.ScenarioID)
}

// @Summary		Unlink gift
// @Description	Removes the budget item from the gift's allocations in the scenario and rebalances the remaining ones. Unlinking the last item removes all allocations of the gift in the scenario.
// @Tags			Gifts
// @Produce		json
// @Success		200				{object}	AllocationListResponse
// @Failure		400				{object}	AllocationListResponse
// @Failure		404				{object}	AllocationListResponse
// @Failure		500				{object}	AllocationListResponse
// @Param			id				path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			budgetItemId	path		string	true	"ID of the budget item to unlink"
// @Param			scenario		query		string	true	"ID of the scenario to unlink within"
// @Router			/v1/gifts/{id}/links/{budgetItemId} [delete]
func UnlinkGift(c *gin.Context) {
	var uri URILink
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AllocationListResponse{
			Error: &s,
		})
		return
	}

	var query LinkScenarioQuery
	_ = c.Bind(&query)

	if query.ScenarioID == wp_uuid.Nil {
		s := errScenarioIDParameter.Error()
		c.JSON(http.StatusBadRequest, AllocationListResponse{
			Error: &s,
		})
		return
	}

	var gift models.Gift
	err = models.DB.First(&gift, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AllocationListResponse{
			Error: &s,
		})
		return
	}

	engine := allocation.New(models.ScenarioItems{}, models.GiftLinks{})
	source := allocation.Source{ID: gift.ID.String(), Amount: gift.Amount}

	_, err = engine.Unlink(c.Request.Context(), source, uri.BudgetItemID.UUID, query.ScenarioID.UUID)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AllocationListResponse{
			Error: &s,
		})
		return
	}

	respondGiftAllocations(c, gift.ID.String(), query.ScenarioID.UUID)
}

// respondGiftAllocations returns the current allocation set of the gift
// within the scenario.
func respondGiftAllocations(c *gin.Context, giftID string, scenarioID uuid.UUID) {
	var allocations []models.GiftAllocation
	err := models.DB.
		Where(&models.GiftAllocation{GiftID: giftID, ScenarioID: scenarioID}).
		Order("created_at ASC").
		Find(&allocations).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AllocationListResponse{
			Error: &s,
		})
		return
	}

	data := make([]Allocation, 0)
	for _, a := range allocations {
		data = append(data, newGiftAllocation(c, a))
	}

	c.JSON(http.StatusOK, AllocationListResponse{Data: data})
}

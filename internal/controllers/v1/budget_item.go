package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/wedplan/backend/internal/allocation"
	"github.com/wedplan/backend/internal/httputil"
	"github.com/wedplan/backend/internal/metrics"
	"github.com/wedplan/backend/internal/models"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// RegisterBudgetItemRoutes registers the routes for budget items with
// the RouterGroup that is passed.
func RegisterBudgetItemRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsBudgetItemList)
		r.GET("", GetBudgetItems)
		r.POST("", CreateBudgetItems)
	}

	// Budget item with ID
	{
		r.OPTIONS("/:id", OptionsBudgetItemDetail)
		r.GET("/:id", GetBudgetItem)
		r.PATCH("/:id", UpdateBudgetItem)
		r.DELETE("/:id", DeleteBudgetItem)
	}

	// Batch linking
	{
		r.OPTIONS("/:id/link-expenses", OptionsBudgetItemLinkExpenses)
		r.POST("/:id/link-expenses", LinkExpensesToBudgetItem)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			BudgetItems
// @Success		204
// @Router			/v1/budget-items [options]
func OptionsBudgetItemList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			BudgetItems
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/budget-items/{id} [options]
func OptionsBudgetItemDetail(c *gin.Context) {
	resourceOptionsDetail(c, models.BudgetItem{})
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			BudgetItems
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/budget-items/{id}/link-expenses [options]
func OptionsBudgetItemLinkExpenses(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&models.BudgetItem{}, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsPost(c)
}

// @Summary		Create budget items
// @Description	Creates new budget items
// @Tags			BudgetItems
// @Produce		json
// @Success		201		{object}	BudgetItemCreateResponse
// @Failure		400		{object}	BudgetItemCreateResponse
// @Failure		404		{object}	BudgetItemCreateResponse
// @Failure		500		{object}	BudgetItemCreateResponse
// @Param			items	body		[]BudgetItemEditable	true	"Budget items"
// @Router			/v1/budget-items [post]
func CreateBudgetItems(c *gin.Context) {
	var editables []BudgetItemEditable

	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetItemCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := BudgetItemCreateResponse{}

	for _, editable := range editables {
		item := editable.model()

		err = models.DB.Create(&item).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data, err := newBudgetItem(c, models.DB, item)
		if err != nil {
			status = r.appendError(err, status)
			continue
		}
		r.Data = append(r.Data, BudgetItemResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		Get budget items
// @Description	Returns a list of budget items
// @Tags			BudgetItems
// @Produce		json
// @Success		200	{object}	BudgetItemListResponse
// @Failure		400	{object}	BudgetItemListResponse
// @Failure		500	{object}	BudgetItemListResponse
// @Router			/v1/budget-items [get]
// @Param			scenario	query	string	false	"Filter by scenario ID"
// @Param			parent		query	string	false	"Filter by parent folder ID"
// @Param			name		query	string	false	"Filter by name"
// @Param			note		query	string	false	"Filter by note"
// @Param			isFolder	query	bool	false	"Only folders or only non-folders"
// @Param			archived	query	bool	false	"Is the item archived?"
// @Param			search		query	string	false	"Search for this text in name and note"
// @Param			offset		query	uint	false	"The offset of the first item returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of items to return. Defaults to 50."
func GetBudgetItems(c *gin.Context) {
	var filter BudgetItemQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.Bind(&filter)

	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	filterModel, err := filter.model()
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetItemListResponse{
			Error: &s,
		})
		return
	}

	q := models.DB.
		Order("display_order ASC, name ASC").
		Where(&filterModel, queryFields...)

	q = stringFilters(models.DB, q, setFields, filter.Name, filter.Note, filter.Search)

	q = q.Offset(int(filter.Offset))

	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var items []models.BudgetItem
	err = q.Find(&items).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetItemListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetItemListResponse{
			Error: &e,
		})
		return
	}

	data := make([]BudgetItem, 0)
	for _, item := range items {
		apiResource, err := newBudgetItem(c, models.DB, item)
		if err != nil {
			s := err.Error()
			c.JSON(status(err), BudgetItemListResponse{
				Error: &s,
			})
			return
		}
		data = append(data, apiResource)
	}

	c.JSON(http.StatusOK, BudgetItemListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get budget item
// @Description	Returns a specific budget item
// @Tags			BudgetItems
// @Produce		json
// @Success		200	{object}	BudgetItemResponse
// @Failure		400	{object}	BudgetItemResponse
// @Failure		404	{object}	BudgetItemResponse
// @Failure		500	{object}	BudgetItemResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/budget-items/{id} [get]
func GetBudgetItem(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetItemResponse{
			Error: &s,
		})
		return
	}

	var item models.BudgetItem
	err = models.DB.First(&item, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetItemResponse{
			Error: &s,
		})
		return
	}

	data, err := newBudgetItem(c, models.DB, item)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetItemResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, BudgetItemResponse{Data: &data})
}

// @Summary		Update budget item
// @Description	Update an existing budget item. Only values to be updated need to be specified.
// @Tags			BudgetItems
// @Accept			json
// @Produce		json
// @Success		200		{object}	BudgetItemResponse
// @Failure		400		{object}	BudgetItemResponse
// @Failure		404		{object}	BudgetItemResponse
// @Failure		500		{object}	BudgetItemResponse
// @Param			id		path		URIID				true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			item	body		BudgetItemEditable	true	"Budget item"
// @Router			/v1/budget-items/{id} [patch]
func UpdateBudgetItem(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetItemResponse{
			Error: &s,
		})
		return
	}

	var item models.BudgetItem
	err = models.DB.First(&item, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetItemResponse{
			Error: &s,
		})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, BudgetItemEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetItemResponse{
			Error: &s,
		})
		return
	}

	var data BudgetItemEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetItemResponse{
			Error: &s,
		})
		return
	}

	err = models.DB.Model(&item).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetItemResponse{
			Error: &s,
		})
		return
	}

	r, err := newBudgetItem(c, models.DB, item)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetItemResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, BudgetItemResponse{Data: &r})
}

// @Summary		Delete budget item
// @Description	Deletes a budget item. For folders, the contents are re-parented to the folder's parent unless deleteContents is set.
// @Tags			BudgetItems
// @Success		204
// @Failure		400				{object}	httpError
// @Failure		404				{object}	httpError
// @Failure		500				{object}	httpError
// @Param			id				path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			deleteContents	query		bool	false	"Also delete all items inside the folder"
// @Router			/v1/budget-items/{id} [delete]
func DeleteBudgetItem(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var query BudgetItemDeleteQuery
	_ = c.Bind(&query)

	var item models.BudgetItem
	err = models.DB.First(&item, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	doomed, err := collectBudgetItems(models.DB, item, query.DeleteContents)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	// Unlinking rebalances the remaining allocations of every affected
	// source, so it has to happen through the engine. The unlinks commit
	// one by one, the row deletion below only happens once all of them
	// went through.
	for _, doomedItem := range doomed {
		if doomedItem.IsFolder {
			continue
		}

		err = unlinkAllSources(c.Request.Context(), doomedItem)
		if err != nil {
			c.JSON(status(err), httpError{
				Error: err.Error(),
			})
			return
		}
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		if item.IsFolder && !query.DeleteContents {
			children, err := item.Children(tx)
			if err != nil {
				return err
			}

			// The contents move up to the folder's parent
			for _, child := range children {
				err = tx.Model(&child).Select("ParentID").Updates(models.BudgetItem{ParentID: item.ParentID}).Error
				if err != nil {
					return err
				}
			}
		}

		// Children first so that the folder check in the delete hook passes
		for i := len(doomed) - 1; i >= 0; i-- {
			err := tx.Delete(&doomed[i]).Error
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// collectBudgetItems returns the item and, when folder contents are
// deleted too, all of its descendants in top-down order.
func collectBudgetItems(db *gorm.DB, item models.BudgetItem, deleteContents bool) ([]models.BudgetItem, error) {
	items := []models.BudgetItem{item}

	if !item.IsFolder || !deleteContents {
		return items, nil
	}

	children, err := item.Children(db)
	if err != nil {
		return nil, err
	}

	for _, child := range children {
		descendants, err := collectBudgetItems(db, child, true)
		if err != nil {
			return nil, err
		}
		items = append(items, descendants...)
	}

	return items, nil
}

// unlinkAllSources removes the budget item from the allocations of every
// expense and gift that is linked to it.
func unlinkAllSources(ctx context.Context, item models.BudgetItem) error {
	var expenseAllocations []models.ExpenseAllocation
	err := models.DB.WithContext(ctx).
		Where(&models.ExpenseAllocation{BudgetItemID: item.ID}).
		Find(&expenseAllocations).Error
	if err != nil {
		return err
	}

	expenseEngine := allocation.New(models.ScenarioItems{}, models.ExpenseLinks{})
	for _, a := range expenseAllocations {
		var expense models.Expense
		err := models.DB.First(&expense, "id = ?", a.ExpenseID).Error
		if err != nil {
			return err
		}

		source := allocation.Source{ID: a.ExpenseID, Amount: expense.Amount}
		_, err = expenseEngine.Unlink(ctx, source, item.ID, a.ScenarioID)
		if err != nil {
			return err
		}
	}

	var giftAllocations []models.GiftAllocation
	err = models.DB.WithContext(ctx).
		Where(&models.GiftAllocation{BudgetItemID: item.ID}).
		Find(&giftAllocations).Error
	if err != nil {
		return err
	}

	giftEngine := allocation.New(models.ScenarioItems{}, models.GiftLinks{})
	for _, a := range giftAllocations {
		var gift models.Gift
		err := models.DB.First(&gift, "id = ?", a.GiftID).Error
		if err != nil {
			return err
		}

		source := allocation.Source{ID: a.GiftID, Amount: gift.Amount}
		_, err = giftEngine.Unlink(ctx, source, item.ID, a.ScenarioID)
		if err != nil {
			return err
		}
	}

	return nil
}

// @Summary		Link expenses
// @Description	Links all specified expenses to the budget item, rebalancing each expense's allocations proportionally across all budget items it is linked to. Expenses are processed in order. Partial failure does not roll back successful links, failures are reported in the response.
// @Tags			BudgetItems
// @Accept			json
// @Produce		json
// @Success		200		{object}	BatchLinkResponse
// @Failure		400		{object}	BatchLinkResponse
// @Failure		404		{object}	BatchLinkResponse
// @Failure		500		{object}	BatchLinkResponse
// @Param			id		path		URIID				true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			body	body		BatchLinkEditable	true	"Expenses to link"
// @Router			/v1/budget-items/{id}/link-expenses [post]
func LinkExpensesToBudgetItem(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BatchLinkResponse{
			Error: &s,
		})
		return
	}

	var editable BatchLinkEditable
	err = httputil.BindData(c, &editable)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BatchLinkResponse{
			Error: &s,
		})
		return
	}

	if len(editable.ExpenseIDs) == 0 {
		s := errBatchNoExpenses.Error()
		c.JSON(http.StatusBadRequest, BatchLinkResponse{
			Error: &s,
		})
		return
	}

	// Sources are fetched up front so that references to expenses that
	// do not exist fail the batch member, not the whole request
	sources := make([]allocation.Source, 0, len(editable.ExpenseIDs))
	var failed []BatchLinkFailure
	for _, id := range editable.ExpenseIDs {
		var expense models.Expense
		err := models.DB.First(&expense, id).Error
		if err != nil {
			failed = append(failed, BatchLinkFailure{ExpenseID: id.String(), Error: err.Error()})
			continue
		}

		sources = append(sources, allocation.Source{
			ID:     expense.ID.String(),
			Amount: expense.Amount,
		})
	}

	engine := allocation.New(models.ScenarioItems{}, models.ExpenseLinks{})
	result, err := engine.LinkBatch(c.Request.Context(), sources, uri.ID.UUID, editable.ScenarioID, func(current, total int) {
		log.Debug().Int("current", current).Int("total", total).Str("budgetItem", uri.ID.String()).Msg("batch link progress")
	})
	if err != nil {
		// The request was cancelled. Committed links stay committed.
		s := err.Error()
		c.JSON(status(err), BatchLinkResponse{
			Succeeded: result.Succeeded,
			Failed:    failed,
			Error:     &s,
		})
		return
	}

	for _, failure := range result.Failed {
		failed = append(failed, BatchLinkFailure{ExpenseID: failure.SourceID, Error: failure.Err.Error()})
	}

	metrics.BatchSourcesTotal.WithLabelValues(metrics.OutcomeSuccess).Add(float64(result.Succeeded))
	metrics.BatchSourcesTotal.WithLabelValues(metrics.OutcomeFailure).Add(float64(len(failed)))

	response := BatchLinkResponse{
		Succeeded: result.Succeeded,
		Failed:    failed,
	}

	// All three outcomes carry the success count: for a mixed outcome
	// the caller refreshes what did work and still sees what needs
	// manual follow-up.
	if len(failed) > 0 {
		var summary string
		for i, failure := range failed {
			if i > 0 {
				summary += "; "
			}
			summary += "linking source " + failure.ExpenseID + " failed: " + failure.Error
		}
		response.Error = &summary
	}

	httpStatus := http.StatusCreated
	if len(failed) > 0 {
		httpStatus = http.StatusOK
	}
	if response.Succeeded == 0 && len(failed) > 0 {
		httpStatus = http.StatusBadRequest
	}

	c.JSON(httpStatus, response)
}

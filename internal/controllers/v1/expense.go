package v1

import (
	"context"
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

// RegisterExpenseRoutes registers the routes for expenses with
// the RouterGroup that is passed.
func RegisterExpenseRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsExpenseList)
		r.GET("", GetExpenses)
		r.POST("", CreateExpenses)
	}

	// Expense with ID
	{
		r.OPTIONS("/:id", OptionsExpenseDetail)
		r.GET("/:id", GetExpense)
		r.PATCH("/:id", UpdateExpense)
		r.DELETE("/:id", DeleteExpense)
	}

	// Linking to budget items
	{
		r.OPTIONS("/:id/links", OptionsExpenseLinks)
		r.POST("/:id/links", LinkExpense)
		r.DELETE("/:id/links/:budgetItemId", UnlinkExpense)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Expenses
// @Success		204
// @Router			/v1/expenses [options]
func OptionsExpenseList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Expenses
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/expenses/{id} [options]
func OptionsExpenseDetail(c *gin.Context) {
	resourceOptionsDetail(c, models.Expense{})
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Expenses
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/expenses/{id}/links [options]
func OptionsExpenseLinks(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&models.Expense{}, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsPostDelete(c)
}

// @Summary		Create expenses
// @Description	Creates new expenses
// @Tags			Expenses
// @Produce		json
// @Success		201			{object}	ExpenseCreateResponse
// @Failure		400			{object}	ExpenseCreateResponse
// @Failure		404			{object}	ExpenseCreateResponse
// @Failure		500			{object}	ExpenseCreateResponse
// @Param			expenses	body		[]ExpenseEditable	true	"Expenses"
// @Router			/v1/expenses [post]
func CreateExpenses(c *gin.Context) {
	var editables []ExpenseEditable

	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := ExpenseCreateResponse{}

	for _, editable := range editables {
		expense := editable.model()

		err = models.DB.Create(&expense).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data := newExpense(c, expense)
		r.Data = append(r.Data, ExpenseResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		Get expenses
// @Description	Returns a list of expenses
// @Tags			Expenses
// @Produce		json
// @Success		200	{object}	ExpenseListResponse
// @Failure		400	{object}	ExpenseListResponse
// @Failure		500	{object}	ExpenseListResponse
// @Router			/v1/expenses [get]
// @Param			vendor	query	string	false	"Filter by vendor ID"
// @Param			name	query	string	false	"Filter by name"
// @Param			note	query	string	false	"Filter by note"
// @Param			status	query	string	false	"Filter by payment status"
// @Param			search	query	string	false	"Search for this text in name and note"
// @Param			offset	query	uint	false	"The offset of the first expense returned. Defaults to 0."
// @Param			limit	query	int		false	"Maximum number of expenses to return. Defaults to 50."
func GetExpenses(c *gin.Context) {
	var filter ExpenseQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.Bind(&filter)

	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	filterModel, err := filter.model()
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ExpenseListResponse{
			Error: &s,
		})
		return
	}

	q := models.DB.
		Order("date DESC, name ASC").
		Where(&filterModel, queryFields...)

	q = stringFilters(models.DB, q, setFields, filter.Name, filter.Note, filter.Search)

	q = q.Offset(int(filter.Offset))

	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var expenses []models.Expense
	err = q.Find(&expenses).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ExpenseListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenseListResponse{
			Error: &e,
		})
		return
	}

	data := make([]Expense, 0)
	for _, expense := range expenses {
		data = append(data, newExpense(c, expense))
	}

	c.JSON(http.StatusOK, ExpenseListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get expense
// @Description	Returns a specific expense
// @Tags			Expenses
// @Produce		json
// @Success		200	{object}	ExpenseResponse
// @Failure		400	{object}	ExpenseResponse
// @Failure		404	{object}	ExpenseResponse
// @Failure		500	{object}	ExpenseResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/expenses/{id} [get]
func GetExpense(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ExpenseResponse{
			Error: &s,
		})
		return
	}

	var expense models.Expense
	err = models.DB.First(&expense, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ExpenseResponse{
			Error: &s,
		})
		return
	}

	data := newExpense(c, expense)
	c.JSON(http.StatusOK, ExpenseResponse{Data: &data})
}

// @Summary		Update expense
// @Description	Update an existing expense. Only values to be updated need to be specified. Changing the amount rebalances the expense's allocations in every scenario it is linked in.
// @Tags			Expenses
// @Accept			json
// @Produce		json
// @Success		200		{object}	ExpenseResponse
// @Failure		400		{object}	ExpenseResponse
// @Failure		404		{object}	ExpenseResponse
// @Failure		500		{object}	ExpenseResponse
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			expense	body		ExpenseEditable	true	"Expense"
// @Router			/v1/expenses/{id} [patch]
func UpdateExpense(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ExpenseResponse{
			Error: &s,
		})
		return
	}

	var expense models.Expense
	err = models.DB.First(&expense, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ExpenseResponse{
			Error: &s,
		})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, ExpenseEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ExpenseResponse{
			Error: &s,
		})
		return
	}

	var data ExpenseEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ExpenseResponse{
			Error: &s,
		})
		return
	}

	err = models.DB.Model(&expense).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ExpenseResponse{
			Error: &s,
		})
		return
	}

	// A changed amount re-splits the allocations over the unchanged
	// member sets so that the sum invariant holds for the new amount
	if slices.Contains(updateFields, "Amount") {
		err = rebalanceExpense(c.Request.Context(), expense)
		if err != nil {
			s := err.Error()
			c.JSON(status(err), ExpenseResponse{
				Error: &s,
			})
			return
		}
	}

	r := newExpense(c, expense)
	c.JSON(http.StatusOK, ExpenseResponse{Data: &r})
}

// rebalanceExpense re-runs the allocation split for every scenario the
// expense is linked in. The member sets stay as they are, only the
// amounts change.
func rebalanceExpense(ctx context.Context, expense models.Expense) error {
	var scenarioIDs []uuid.UUID
	err := models.DB.WithContext(ctx).
		Model(&models.ExpenseAllocation{}).
		Where("expense_id = ?", expense.ID.String()).
		Distinct().
		Pluck("scenario_id", &scenarioIDs).Error
	if err != nil {
		return err
	}

	engine := allocation.New(models.ScenarioItems{}, models.ExpenseLinks{})
	links := models.ExpenseLinks{}
	source := allocation.Source{ID: expense.ID.String(), Amount: expense.Amount}

	for _, scenarioID := range scenarioIDs {
		rows, err := links.AllocationsForSource(ctx, source.ID, scenarioID)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			continue
		}

		// Linking an already linked item leaves the member set as it is
		// and re-splits the amount
		_, err = engine.Link(ctx, source, rows[0].BudgetItemID, scenarioID)
		if err != nil {
			return err
		}
	}

	return nil
}

// @Summary		Delete expense
// @Description	Deletes an expense and all of its allocations
// @Tags			Expenses
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/expenses/{id} [delete]
func DeleteExpense(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var expense models.Expense
	err = models.DB.First(&expense, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		// Hard delete, a soft deleted row would still occupy the unique index
		err := tx.Unscoped().
			Where("expense_id = ?", expense.ID.String()).
			Delete(&models.ExpenseAllocation{}).Error
		if err != nil {
			return err
		}

		return tx.Delete(&expense).Error
	})
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// @Summary		Link expense
// @Description	Links the expense to a budget item, rebalancing the expense's allocations proportionally by the budgeted amounts of all linked items. Linking an already linked item only re-splits the amounts.
// @Tags			Expenses
// @Accept			json
// @Produce		json
// @Success		200		{object}	AllocationListResponse
// @Failure		400		{object}	AllocationListResponse
// @Failure		404		{object}	AllocationListResponse
// @Failure		500		{object}	AllocationListResponse
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			link	body		LinkEditable	true	"Link"
// @Router			/v1/expenses/{id}/links [post]
func LinkExpense(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AllocationListResponse{
			Error: &s,
		})
		return
	}

	var expense models.Expense
	err = models.DB.First(&expense, uri.ID).Error
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

	engine := allocation.New(models.ScenarioItems{}, models.ExpenseLinks{})
	source := allocation.Source{ID: expense.ID.String(), Amount: expense.Amount}

	_, err = engine.Link(c.Request.Context(), source, editable.BudgetItemID, editable.ScenarioID)
	if err != nil {
		metrics.LinksTotal.WithLabelValues(metrics.SourceExpense, metrics.OutcomeFailure).Inc()
		s := err.Error()
		c.JSON(status(err), AllocationListResponse{
			Error: &s,
		})
		return
	}
	metrics.LinksTotal.WithLabelValues(metrics.SourceExpense, metrics.OutcomeSuccess).Inc()

	respondExpenseAllocations(c, expense.ID.String(), editable.ScenarioID)
}

// @Summary		Unlink expense
// @Description	Removes the budget item from the expense's allocations in the scenario and rebalances the remaining ones. Unlinking the last item removes all allocations of the expense in the scenario.
// @Tags			Expenses
// @Produce		json
// @Success		200				{object}	AllocationListResponse
// @Failure		400				{object}	AllocationListResponse
// @Failure		404				{object}	AllocationListResponse
// @Failure		500				{object}	AllocationListResponse
// @Param			id				path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			budgetItemId	path		string	true	"ID of the budget item to unlink"
// @Param			scenario		query		string	true	"ID of the scenario to unlink within"
// @Router			/v1/expenses/{id}/links/{budgetItemId} [delete]
func UnlinkExpense(c *gin.Context) {
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

	var expense models.Expense
	err = models.DB.First(&expense, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AllocationListResponse{
			Error: &s,
		})
		return
	}

	engine := allocation.New(models.ScenarioItems{}, models.ExpenseLinks{})
	source := allocation.Source{ID: expense.ID.String(), Amount: expense.Amount}

	_, err = engine.Unlink(c.Request.Context(), source, uri.BudgetItemID.UUID, query.ScenarioID.UUID)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AllocationListResponse{
			Error: &s,
		})
		return
	}

	respondExpenseAllocations(c, expense.ID.String(), query.ScenarioID.UUID)
}

// respondExpenseAllocations returns the current allocation set of the
// expense within the scenario.
func respondExpenseAllocations(c *gin.Context, expenseID string, scenarioID uuid.UUID) {
	var allocations []models.ExpenseAllocation
	err := models.DB.
		Where(&models.ExpenseAllocation{ExpenseID: expenseID, ScenarioID: scenarioID}).
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
		data = append(data, newExpenseAllocation(c, a))
	}

	c.JSON(http.StatusOK, AllocationListResponse{Data: data})
}

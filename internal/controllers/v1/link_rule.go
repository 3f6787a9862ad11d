package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wedplan/backend/internal/httputil"
	"github.com/wedplan/backend/internal/models"
	"golang.org/x/exp/slices"
)

// RegisterLinkRuleRoutes registers the routes for link rules with
// the RouterGroup that is passed.
func RegisterLinkRuleRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsLinkRuleList)
		r.GET("", GetLinkRules)
		r.POST("", CreateLinkRules)
	}

	// Link rule with ID
	{
		r.OPTIONS("/:id", OptionsLinkRuleDetail)
		r.GET("/:id", GetLinkRule)
		r.PATCH("/:id", UpdateLinkRule)
		r.DELETE("/:id", DeleteLinkRule)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			LinkRules
// @Success		204
// @Router			/v1/link-rules [options]
func OptionsLinkRuleList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			LinkRules
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/link-rules/{id} [options]
func OptionsLinkRuleDetail(c *gin.Context) {
	resourceOptionsDetail(c, models.LinkRule{})
}

// @Summary		Create link rules
// @Description	Creates new link rules
// @Tags			LinkRules
// @Produce		json
// @Success		201		{object}	LinkRuleCreateResponse
// @Failure		400		{object}	LinkRuleCreateResponse
// @Failure		404		{object}	LinkRuleCreateResponse
// @Failure		500		{object}	LinkRuleCreateResponse
// @Param			rules	body		[]LinkRuleEditable	true	"Link rules"
// @Router			/v1/link-rules [post]
func CreateLinkRules(c *gin.Context) {
	var editables []LinkRuleEditable

	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), LinkRuleCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := LinkRuleCreateResponse{}

	for _, editable := range editables {
		rule := editable.model()

		err = models.DB.Create(&rule).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data := newLinkRule(c, rule)
		r.Data = append(r.Data, LinkRuleResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		Get link rules
// @Description	Returns a list of link rules
// @Tags			LinkRules
// @Produce		json
// @Success		200	{object}	LinkRuleListResponse
// @Failure		400	{object}	LinkRuleListResponse
// @Failure		500	{object}	LinkRuleListResponse
// @Router			/v1/link-rules [get]
// @Param			budgetItem	query	string	false	"Filter by budget item ID"
// @Param			match		query	string	false	"Filter by match pattern"
// @Param			offset		query	uint	false	"The offset of the first link rule returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of link rules to return. Defaults to 50."
func GetLinkRules(c *gin.Context) {
	var filter LinkRuleQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.Bind(&filter)

	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	filterModel, err := filter.model()
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LinkRuleListResponse{
			Error: &s,
		})
		return
	}

	q := models.DB.
		Order("priority ASC, created_at ASC").
		Where(&filterModel, queryFields...)

	if slices.Contains(setFields, "Match") {
		q = q.Where("match LIKE ?", "%"+filter.Match+"%")
	}

	q = q.Offset(int(filter.Offset))

	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var rules []models.LinkRule
	err = q.Find(&rules).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LinkRuleListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), LinkRuleListResponse{
			Error: &e,
		})
		return
	}

	data := make([]LinkRule, 0)
	for _, rule := range rules {
		data = append(data, newLinkRule(c, rule))
	}

	c.JSON(http.StatusOK, LinkRuleListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get link rule
// @Description	Returns a specific link rule
// @Tags			LinkRules
// @Produce		json
// @Success		200	{object}	LinkRuleResponse
// @Failure		400	{object}	LinkRuleResponse
// @Failure		404	{object}	LinkRuleResponse
// @Failure		500	{object}	LinkRuleResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/link-rules/{id} [get]
func GetLinkRule(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LinkRuleResponse{
			Error: &s,
		})
		return
	}

	var rule models.LinkRule
	err = models.DB.First(&rule, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LinkRuleResponse{
			Error: &s,
		})
		return
	}

	data := newLinkRule(c, rule)
	c.JSON(http.StatusOK, LinkRuleResponse{Data: &data})
}

// @Summary		Update link rule
// @Description	Update an existing link rule. Only values to be updated need to be specified.
// @Tags			LinkRules
// @Accept			json
// @Produce		json
// @Success		200		{object}	LinkRuleResponse
// @Failure		400		{object}	LinkRuleResponse
// @Failure		404		{object}	LinkRuleResponse
// @Failure		500		{object}	LinkRuleResponse
// @Param			id		path		URIID				true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			rule	body		LinkRuleEditable	true	"Link rule"
// @Router			/v1/link-rules/{id} [patch]
func UpdateLinkRule(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LinkRuleResponse{
			Error: &s,
		})
		return
	}

	var rule models.LinkRule
	err = models.DB.First(&rule, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LinkRuleResponse{
			Error: &s,
		})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, LinkRuleEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LinkRuleResponse{
			Error: &s,
		})
		return
	}

	var data LinkRuleEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LinkRuleResponse{
			Error: &s,
		})
		return
	}

	err = models.DB.Model(&rule).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LinkRuleResponse{
			Error: &s,
		})
		return
	}

	r := newLinkRule(c, rule)
	c.JSON(http.StatusOK, LinkRuleResponse{Data: &r})
}

// @Summary		Delete link rule
// @Description	Deletes a link rule
// @Tags			LinkRules
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/link-rules/{id} [delete]
func DeleteLinkRule(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var rule models.LinkRule
	err = models.DB.First(&rule, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Delete(&rule).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

package v1

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ryanuber/go-glob"
	"github.com/wedplan/backend/internal/allocation"
	"github.com/wedplan/backend/internal/httputil"
	"github.com/wedplan/backend/internal/importer"
	"github.com/wedplan/backend/internal/importer/parser/costsheet"
	"github.com/wedplan/backend/internal/metrics"
	"github.com/wedplan/backend/internal/models"
	wp_uuid "github.com/wedplan/backend/internal/uuid"
	"gorm.io/gorm"
)

// RegisterImportRoutes registers the routes for imports.
func RegisterImportRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("/expenses", OptionsImportExpenses)
		r.POST("/expenses", ImportExpenses)

		r.OPTIONS("/expenses/preview", OptionsImportExpensesPreview)
		r.POST("/expenses/preview", ImportExpensesPreview)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs.
// @Tags			Import
// @Success		204
// @Router			/v1/import/expenses [options]
func OptionsImportExpenses(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs.
// @Tags			Import
// @Success		204
// @Router			/v1/import/expenses/preview [options]
func OptionsImportExpensesPreview(c *gin.Context) {
	httputil.OptionsPost(c)
}

// getUploadedFile returns the form file and handles potential errors.
func getUploadedFile(c *gin.Context, suffix string) (multipart.File, error) {
	formFile, err := c.FormFile("file")
	if formFile == nil {
		return nil, errNoFilePost
	}

	if err != nil {
		return nil, err
	}

	if !strings.HasSuffix(formFile.Filename, suffix) {
		return nil, fmt.Errorf("%w: %s", errWrongFileSuffix, suffix)
	}

	f, err := formFile.Open()
	if err != nil {
		return nil, err
	}

	return f, nil
}

// duplicateExpenses finds expenses that were already imported from the same
// cost sheet row. Their IDs are set on the DuplicateExpenseIDs field.
func duplicateExpenses(preview *importer.ExpensePreview) error {
	var duplicates []models.Expense
	err := models.DB.Where(&models.Expense{
		ImportHash: preview.Expense.ImportHash,
	}).Find(&duplicates).Error
	if err != nil {
		return err
	}

	// When there are no duplicates, we want an empty list, not null
	ids := make([]uuid.UUID, 0, len(duplicates))
	for _, duplicate := range duplicates {
		ids = append(ids, duplicate.ID)
	}
	preview.DuplicateExpenseIDs = ids

	return nil
}

// findVendor resolves a vendor name from the cost sheet to an existing
// vendor. Unknown names import fine, the expense just has no vendor then.
func findVendor(preview *importer.ExpensePreview) error {
	if preview.VendorName == "" {
		return nil
	}

	var vendor models.Vendor
	err := models.DB.Where(&models.Vendor{
		Name:     preview.VendorName,
		Archived: false,
	},
		// Vendor names are not unique, the first match is used
		"Name", "Archived").First(&vendor).Error

	// A vendor might just not exist yet, this is not an error
	if errors.Is(err, models.ErrResourceNotFound) || errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	preview.Expense.VendorID = &vendor.ID

	return nil
}

// applyLinkRules applies the link rules to an expense preview. Rules are in
// priority order, the first glob match on the vendor or the expense name
// wins.
func applyLinkRules(preview *importer.ExpensePreview, rules []models.LinkRule) {
	for _, rule := range rules {
		if glob.Glob(rule.Match, preview.VendorName) || glob.Glob(rule.Match, preview.Expense.Name) {
			preview.BudgetItemID = rule.BudgetItemID
			preview.LinkRuleID = rule.ID
			return
		}
	}
}

// scenarioLinkRules loads the link rules that target budget items of the
// scenario, in priority order.
func scenarioLinkRules(scenarioID uuid.UUID) ([]models.LinkRule, error) {
	var rules []models.LinkRule
	err := models.DB.
		Joins("JOIN budget_items ON budget_items.id = link_rules.budget_item_id AND budget_items.scenario_id = ?", scenarioID).
		Order("link_rules.priority ASC, link_rules.created_at ASC").
		Find(&rules).Error
	if err != nil {
		return nil, err
	}

	return rules, nil
}

// @Summary		Import expenses
// @Description	Imports expenses from a cost sheet CSV file. Duplicates are detected by their import hash and skipped. When a scenario is given, link rules are applied to link the imported expenses to budget items.
// @Tags			Import
// @Accept			multipart/form-data
// @Produce		json
// @Success		201			{object}	ImportResponse
// @Failure		400			{object}	ImportResponse
// @Failure		500			{object}	ImportResponse
// @Param			file		formData	file	true	"The cost sheet CSV file"
// @Param			scenario	query		string	false	"ID of the scenario to auto-link the imported expenses in"
// @Router			/v1/import/expenses [post]
func ImportExpenses(c *gin.Context) {
	var query ImportQuery
	_ = c.BindQuery(&query)

	var scenarioID uuid.UUID
	if query.ScenarioID != "" {
		parsed, err := uuid.Parse(query.ScenarioID)
		if err != nil {
			s := err.Error()
			c.JSON(http.StatusBadRequest, ImportResponse{
				Error: &s,
			})
			return
		}
		scenarioID = parsed

		err = models.DB.First(&models.Scenario{}, scenarioID).Error
		if err != nil {
			s := err.Error()
			c.JSON(status(err), ImportResponse{
				Error: &s,
			})
			return
		}
	}

	f, err := getUploadedFile(c, ".csv")
	if err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, ImportResponse{
			Error: &s,
		})
		return
	}

	previews, err := costsheet.Parse(f)
	if err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, ImportResponse{
			Error: &s,
		})
		return
	}

	var rules []models.LinkRule
	if scenarioID != uuid.Nil {
		rules, err = scenarioLinkRules(scenarioID)
		if err != nil {
			s := err.Error()
			c.JSON(status(err), ImportResponse{
				Error: &s,
			})
			return
		}
	}

	r := ImportResponse{Data: make([]Expense, 0)}
	engine := allocation.New(models.ScenarioItems{}, models.ExpenseLinks{})

	for _, preview := range previews {
		err := duplicateExpenses(&preview)
		if err != nil {
			s := err.Error()
			c.JSON(status(err), ImportResponse{
				Error: &s,
			})
			return
		}
		if len(preview.DuplicateExpenseIDs) > 0 {
			r.Skipped++
			continue
		}

		err = findVendor(&preview)
		if err != nil {
			s := err.Error()
			c.JSON(status(err), ImportResponse{
				Error: &s,
			})
			return
		}

		expense := preview.Expense
		err = models.DB.Create(&expense).Error
		if err != nil {
			s := err.Error()
			c.JSON(status(err), ImportResponse{
				Error: &s,
			})
			return
		}

		r.Created++
		metrics.ImportedExpensesTotal.Inc()

		if scenarioID != uuid.Nil {
			applyLinkRules(&preview, rules)
			if preview.BudgetItemID != uuid.Nil {
				source := allocation.Source{ID: expense.ID.String(), Amount: expense.Amount}

				_, err = engine.Link(c.Request.Context(), source, preview.BudgetItemID, scenarioID)
				if err != nil {
					s := err.Error()
					c.JSON(status(err), ImportResponse{
						Error: &s,
					})
					return
				}
				r.Linked++
			}
		}

		r.Data = append(r.Data, newExpense(c, expense))
	}

	c.JSON(http.StatusCreated, r)
}

// @Summary		Expense import preview
// @Description	Returns a preview of the expenses to be imported after parsing a cost sheet CSV file. Link rules, vendor resolution and duplicate detection are applied, but nothing is written.
// @Tags			Import
// @Accept			multipart/form-data
// @Produce		json
// @Success		200			{object}	ImportPreviewList
// @Failure		400			{object}	ImportPreviewList
// @Failure		404			{object}	ImportPreviewList
// @Failure		500			{object}	ImportPreviewList
// @Param			file		formData	file				true	"The cost sheet CSV file"
// @Param			scenario	query		ImportPreviewQuery	false	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/import/expenses/preview [post]
func ImportExpensesPreview(c *gin.Context) {
	var query ImportPreviewQuery
	err := c.BindQuery(&query)
	if err != nil {
		s := fmt.Errorf("scenario: %w", err).Error()
		c.JSON(http.StatusBadRequest, ImportPreviewList{
			Error: &s,
		})
		return
	}

	if query.ScenarioID == wp_uuid.Nil {
		s := errNoScenarioParameter.Error()
		c.JSON(http.StatusBadRequest, ImportPreviewList{
			Error: &s,
		})
		return
	}

	f, err := getUploadedFile(c, ".csv")
	if err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, ImportPreviewList{
			Error: &s,
		})
		return
	}

	// Verify that the scenario exists
	err = models.DB.First(&models.Scenario{}, query.ScenarioID.UUID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ImportPreviewList{
			Error: &s,
		})
		return
	}

	previews, err := costsheet.Parse(f)
	if err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, ImportPreviewList{
			Error: &s,
		})
		return
	}

	rules, err := scenarioLinkRules(query.ScenarioID.UUID)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ImportPreviewList{
			Error: &s,
		})
		return
	}

	for i, preview := range previews {
		if len(rules) > 0 {
			applyLinkRules(&preview, rules)
		}

		err = findVendor(&preview)
		if err != nil {
			s := err.Error()
			c.JSON(status(err), ImportPreviewList{
				Error: &s,
			})
			return
		}

		err = duplicateExpenses(&preview)
		if err != nil {
			s := err.Error()
			c.JSON(status(err), ImportPreviewList{
				Error: &s,
			})
			return
		}

		previews[i] = preview
	}

	data := make([]ExpensePreview, 0, len(previews))
	for _, preview := range previews {
		data = append(data, newExpensePreview(c, preview))
	}

	c.JSON(http.StatusOK, ImportPreviewList{Data: data})
}

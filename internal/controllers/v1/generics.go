package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/wedplan/backend/internal/httputil"
	"github.com/wedplan/backend/internal/models"
	"gorm.io/gorm"
)

// resourceOptionsDetail returns the appropriate response for an HTTP OPTIONS request for a specific resource.
func resourceOptionsDetail[R models.Scenario | models.BudgetItem | models.Vendor | models.Expense | models.Gift | models.Guest | models.LinkRule](c *gin.Context, resource R) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&resource, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// stringFilters appends filters for all strings to a gorm query. Strings
// are always filtered case insensitively with substring matching.
func stringFilters(db, query *gorm.DB, setFields []string, name, note, search string) *gorm.DB {
	for _, field := range setFields {
		switch field {
		case "Name":
			query = query.Where("name LIKE ?", "%"+name+"%")
		case "Note":
			query = query.Where("note LIKE ?", "%"+note+"%")
		}
	}

	if search != "" {
		query = query.Where(
			db.Where("name LIKE ?", "%"+search+"%").
				Or("note LIKE ?", "%"+search+"%"),
		)
	}

	return query
}

package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wedplan/backend/internal/httputil"
	"github.com/wedplan/backend/internal/models"
	wp_uuid "github.com/wedplan/backend/internal/uuid"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// RegisterAllocationRoutes registers the routes for allocations with
// the RouterGroup that is passed.
//
// Allocations are read-only. They are written exclusively by the link
// operations so that the sum invariant can never be broken by hand.
func RegisterAllocationRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsAllocationList)
	r.GET("", GetAllocations)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Allocations
// @Success		204
// @Router			/v1/allocations [options]
func OptionsAllocationList(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Get allocations
// @Description	Returns a list of allocations
// @Tags			Allocations
// @Produce		json
// @Success		200	{object}	AllocationListResponse
// @Failure		400	{object}	AllocationListResponse
// @Failure		500	{object}	AllocationListResponse
// @Router			/v1/allocations [get]
// @Param			source		query	string	false	"Only expense or only gift allocations"
// @Param			sourceId	query	string	false	"Filter by expense or gift ID"
// @Param			scenario	query	string	false	"Filter by scenario ID"
// @Param			budgetItem	query	string	false	"Filter by budget item ID"
// @Param			offset		query	uint	false	"The offset of the first allocation returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of allocations to return. Defaults to 50."
func GetAllocations(c *gin.Context) {
	var filter AllocationQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.Bind(&filter)

	_, setFields := httputil.GetURLFields(c.Request.URL, filter)

	data := make([]Allocation, 0)
	var total int64

	if filter.Source == "" || filter.Source == AllocationSourceExpense {
		q := expenseAllocationQuery(filter)

		var allocations []models.ExpenseAllocation
		err := q.Find(&allocations).Error
		if err != nil {
			s := err.Error()
			c.JSON(status(err), AllocationListResponse{
				Error: &s,
			})
			return
		}

		var count int64
		err = q.Count(&count).Error
		if err != nil {
			s := err.Error()
			c.JSON(status(err), AllocationListResponse{
				Error: &s,
			})
			return
		}
		total += count

		for _, a := range allocations {
			data = append(data, newExpenseAllocation(c, a))
		}
	}

	if filter.Source == "" || filter.Source == AllocationSourceGift {
		q := giftAllocationQuery(filter)

		var allocations []models.GiftAllocation
		err := q.Find(&allocations).Error
		if err != nil {
			s := err.Error()
			c.JSON(status(err), AllocationListResponse{
				Error: &s,
			})
			return
		}

		var count int64
		err = q.Count(&count).Error
		if err != nil {
			s := err.Error()
			c.JSON(status(err), AllocationListResponse{
				Error: &s,
			})
			return
		}
		total += count

		for _, a := range allocations {
			data = append(data, newGiftAllocation(c, a))
		}
	}

	// Pagination applies to the merged list since expense and gift
	// allocations live in separate tables
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}

	offset := int(filter.Offset)
	if offset > len(data) {
		offset = len(data)
	}
	data = data[offset:]

	if limit >= 0 && limit < len(data) {
		data = data[:limit]
	}

	c.JSON(http.StatusOK, AllocationListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  total,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

func expenseAllocationQuery(filter AllocationQueryFilter) *gorm.DB {
	q := models.DB.Model(&models.ExpenseAllocation{}).Order("created_at ASC")

	if filter.SourceID != "" {
		q = q.Where("expense_id = ?", filter.SourceID)
	}
	if filter.ScenarioID != wp_uuid.Nil {
		q = q.Where("scenario_id = ?", filter.ScenarioID.UUID)
	}
	if filter.BudgetItem != wp_uuid.Nil {
		q = q.Where("budget_item_id = ?", filter.BudgetItem.UUID)
	}

	return q
}

func giftAllocationQuery(filter AllocationQueryFilter) *gorm.DB {
	q := models.DB.Model(&models.GiftAllocation{}).Order("created_at ASC")

	if filter.SourceID != "" {
		q = q.Where("gift_id = ?", filter.SourceID)
	}
	if filter.ScenarioID != wp_uuid.Nil {
		q = q.Where("scenario_id = ?", filter.ScenarioID.UUID)
	}
	if filter.BudgetItem != wp_uuid.Nil {
		q = q.Where("budget_item_id = ?", filter.BudgetItem.UUID)
	}

	return q
}

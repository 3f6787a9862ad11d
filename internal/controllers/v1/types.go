package v1

import (
	wp_uuid "github.com/wedplan/backend/internal/uuid"
)

type URIID struct {
	ID wp_uuid.UUID `uri:"id" binding:"required" format:"UUID"` // ID of the resource
}

type URILink struct {
	URIID
	BudgetItemID wp_uuid.UUID `uri:"budgetItemId" binding:"required" format:"UUID"` // ID of the linked budget item
}

type Pagination struct {
	Count  int   `json:"count"`  // The amount of records returned in this response
	Offset uint  `json:"offset"` // The offset for the first record returned
	Limit  int   `json:"limit"`  // The maximum amount of resources to return for this request
	Total  int64 `json:"total"`  // The total number of resources matching the query
}

package v1

import (
	"time"

	"github.com/gin-gonic/gin"
	mc_uuid "github.com/meicontrol/backend/internal/uuid"

	"github.com/meicontrol/backend/internal/models"
)

type URIID struct {
	ID mc_uuid.UUID `uri:"id" binding:"required" format:"UUID"` // ID of the resource
}

type URIMonth struct {
	Month time.Time `uri:"month" time_format:"2006-01" time_utc:"1" example:"2025-03" binding:"required"` // Year and month in YYYY-MM format
}

type URIYear struct {
	Year int `uri:"year" binding:"required" example:"2025"` // Four digit year
}

type Pagination struct {
	Count  int   `json:"count"`  // The amount of records returned in this response
	Offset uint  `json:"offset"` // The offset for the first record returned
	Limit  int   `json:"limit"`  // The maximum amount of resources to return for this request
	Total  int64 `json:"total"`  // The total number of resources matching the query
}

// currentUser returns the authenticated user that the middleware loaded
// into the context.
func currentUser(c *gin.Context) models.User {
	return c.MustGet(string(models.DBContextUser)).(models.User)
}

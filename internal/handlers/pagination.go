package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// paginate applies page/per_page query params when both parse as positive
// integers; otherwise the query is returned unpaginated.
func paginate(c *gin.Context, q *gorm.DB) *gorm.DB {
	page, errPage := strconv.Atoi(c.Query("page"))
	perPage, errPer := strconv.Atoi(c.Query("per_page"))
	if errPage != nil || errPer != nil || page < 1 || perPage < 1 {
		return q
	}
	return q.Offset((page - 1) * perPage).Limit(perPage)
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id64, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id64), true
}

package httpresp

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	DefaultPerPage = 10
	MaxPerPage     = 100

	// Returned with a 200 and an empty list whenever page/per_page fail to
	// parse or point past the last page. Clients depend on the exact string.
	ErrPageNotFound = "Page not found or exceeds total pages"
)

// Paginate runs the given query with page/per_page taken from the request
// and writes the list envelope under key alongside the paging metadata.
func Paginate[T any](c *gin.Context, query *gorm.DB, key string) {
	page, perPage, parsed := pageParams(c)

	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	totalPages := int((total + int64(perPage) - 1) / int64(perPage))

	if !parsed || page < 1 || (totalPages > 0 && page > totalPages) {
		c.JSON(http.StatusOK, envelope(key, []T{}, page, perPage, total, totalPages, ErrPageNotFound))
		return
	}

	var items []T
	if err := query.
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if items == nil {
		items = []T{}
	}

	c.JSON(http.StatusOK, envelope(key, items, page, perPage, total, totalPages, ""))
}

func pageParams(c *gin.Context) (page, perPage int, ok bool) {
	page, perPage, ok = 1, DefaultPerPage, true

	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return page, perPage, false
		}
		page = n
	}
	if raw := c.Query("per_page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return page, perPage, false
		}
		perPage = n
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return page, perPage, ok
}

func envelope[T any](key string, items []T, page, perPage int, total int64, totalPages int, errMsg string) gin.H {
	h := gin.H{
		key:            items,
		"current_page": page,
		"has_next":     page < totalPages,
		"has_prev":     page > 1 && totalPages > 0,
		"page":         page,
		"per_page":     perPage,
		"total":        total,
		"total_pages":  totalPages,
	}
	if errMsg != "" {
		h["error"] = errMsg
	}
	return h
}

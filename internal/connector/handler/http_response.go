package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Response is the envelope every endpoint answers with
type Response struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data,omitempty"`
	Summary    interface{} `json:"summary,omitempty"`
	Items      interface{} `json:"items,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Error      *ErrorInfo  `json:"error,omitempty"`
	Meta       *MetaInfo   `json:"meta,omitempty"`
}

// ErrorInfo represents error information in a response
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Pagination is the cursor state of a listing; Cursor is the id of the last item, null when empty
type Pagination struct {
	HasMore bool    `json:"hasMore"`
	Cursor  *string `json:"cursor"`
}

// MetaInfo represents metadata in a response
type MetaInfo struct {
	DurationMs   int64 `json:"durationMs"`
	LookbackDays *int  `json:"lookbackDays,omitempty"`
}

// newMeta measures the request duration from start
func newMeta(start time.Time) *MetaInfo {
	return &MetaInfo{DurationMs: time.Since(start).Milliseconds()}
}

// newPagination builds pagination from the ids of the page, in order
func newPagination(hasMore bool, lastID string) *Pagination {
	p := &Pagination{HasMore: hasMore}
	if lastID != "" {
		p.Cursor = &lastID
	}
	return p
}

// setResponseHeaders marks the response as freshly fetched and privately cacheable
func setResponseHeaders(c *gin.Context, endpoint string) {
	c.Header("X-"+endpoint+"-Cache-Hit", "false")
	c.Header("Cache-Control", "private, max-age=30")
}

// RespondData sends a 200 with data
func RespondData(c *gin.Context, data interface{}, meta *MetaInfo) {
	c.JSON(http.StatusOK, &Response{
		Success: true,
		Data:    data,
		Meta:    meta,
	})
}

// RespondPage sends a 200 with one page of data
func RespondPage(c *gin.Context, data interface{}, pagination *Pagination, meta *MetaInfo) {
	c.JSON(http.StatusOK, &Response{
		Success:    true,
		Data:       data,
		Pagination: pagination,
		Meta:       meta,
	})
}

// RespondReport sends a 200 with a summary and its items
func RespondReport(c *gin.Context, summary, items interface{}, meta *MetaInfo) {
	c.JSON(http.StatusOK, &Response{
		Success: true,
		Summary: summary,
		Items:   items,
		Meta:    meta,
	})
}

// respondError sends the failure envelope; it carries no timestamp
func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, &Response{
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	})
}

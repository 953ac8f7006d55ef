package handler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/connector-stripe/internal/domain/billing"
	"github.com/gin-gonic/gin"
)

const (
	minPageSize = 1
	maxPageSize = 100
)

// errInvalidDate is not a Stripe error, so it classifies as UPSTREAM_ERROR
var errInvalidDate = errors.New("invalid date")

// Accepted date layouts; values without a zone are read as UTC
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// parseLimit reads a page size, falling back to def when absent or not a number,
// and clamps it to [1, 100]
func parseLimit(c *gin.Context, def int) int {
	limit := def
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
			limit = n
		}
	}
	if limit < minPageSize {
		return minPageSize
	}
	if limit > maxPageSize {
		return maxPageSize
	}
	return limit
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", errInvalidDate, raw)
}

// parseOptionalDate returns nil for an absent parameter
func parseOptionalDate(c *gin.Context, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := parseDate(raw)
	if err != nil {
		return nil, fmt.Errorf("parameter %s: %w", key, err)
	}
	return &t, nil
}

// parseWindowSpec picks the as_of convention when as_of is present, otherwise legacy from/to.
// A lookback_days that is not a number falls back to the default.
func parseWindowSpec(c *gin.Context) (billing.WindowSpec, error) {
	if c.Query("as_of") != "" {
		asOf, err := parseOptionalDate(c, "as_of")
		if err != nil {
			return nil, err
		}
		spec := billing.AsOfWindow{AsOf: *asOf}
		if raw := c.Query("lookback_days"); raw != "" {
			if n, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
				spec.LookbackDays = &n
			}
		}
		return spec, nil
	}

	from, err := parseOptionalDate(c, "from")
	if err != nil {
		return nil, err
	}
	to, err := parseOptionalDate(c, "to")
	if err != nil {
		return nil, err
	}
	return billing.RangeWindow{From: from, To: to}, nil
}

// parseInvoiceNumbers splits a comma separated list, dropping empty entries
func parseInvoiceNumbers(raw string) []string {
	numbers := []string{}
	for _, n := range strings.Split(raw, ",") {
		if n != "" {
			numbers = append(numbers, n)
		}
	}
	return numbers
}

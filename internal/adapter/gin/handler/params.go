package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"commerce-service/internal/domain/page"
	apperrors "commerce-service/pkg/errors"
)

// localDateTime is the ISO date-time without offset, interpreted as UTC.
const localDateTime = "2006-01-02T15:04:05"

func parseID(c *gin.Context, name string) (int64, error) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError(name, "must be a positive number")
	}
	return id, nil
}

// pageRequest reads page, size and sort (field,asc|desc) from the query string.
func pageRequest(c *gin.Context) (page.Request, error) {
	p, err := intQuery(c, "page", 0)
	if err != nil {
		return page.Request{}, err
	}
	size, err := intQuery(c, "size", page.DefaultSize)
	if err != nil {
		return page.Request{}, err
	}
	req := page.NewRequest(p, size)

	if sort := strings.TrimSpace(c.Query("sort")); sort != "" {
		field, dir, _ := strings.Cut(sort, ",")
		req.Sort = strings.TrimSpace(field)
		req.Desc = strings.EqualFold(strings.TrimSpace(dir), "desc")
	}
	return req, nil
}

func intQuery(c *gin.Context, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.NewValidationError(name, "must be an integer")
	}
	return v, nil
}

func requiredQuery(c *gin.Context, name string) (string, error) {
	v := strings.TrimSpace(c.Query(name))
	if v == "" {
		return "", apperrors.NewValidationError(name, "is required")
	}
	return v, nil
}

// parseDateTime accepts RFC3339 or a local date-time without offset.
func parseDateTime(raw string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), true
	}
	if t, err := time.ParseInLocation(localDateTime, raw, time.UTC); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func dateQuery(c *gin.Context, name string) (time.Time, error) {
	raw, err := requiredQuery(c, name)
	if err != nil {
		return time.Time{}, err
	}
	t, ok := parseDateTime(raw)
	if !ok {
		return time.Time{}, apperrors.NewValidationError(name, "must be an ISO date-time such as 2024-01-31T00:00:00")
	}
	return t, nil
}

func decimalQuery(c *gin.Context, name string) (decimal.Decimal, error) {
	raw, err := requiredQuery(c, name)
	if err != nil {
		return decimal.Zero, err
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, apperrors.NewValidationError(name, "must be a decimal number")
	}
	return d, nil
}

func optionalDecimalQuery(c *gin.Context, name string) (*decimal.Decimal, error) {
	if strings.TrimSpace(c.Query(name)) == "" {
		return nil, nil
	}
	d, err := decimalQuery(c, name)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func bindError(err error) error {
	return apperrors.NewValidationError("body", "malformed JSON request: "+err.Error())
}

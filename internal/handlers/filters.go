package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pushp314/releasenotes-backend/pkg/errors"
	"gorm.io/gorm"
)

type scope = func(*gorm.DB) *gorm.DB

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// parseTimestamp accepts ISO-8601 date-times. Naive values are UTC. A "+"
// offset that arrived unescaped in a query string shows up as a space and is
// put back.
func parseTimestamp(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	var lastErr error
	for _, candidate := range []string{v, restorePlus(v)} {
		for _, layout := range timestampLayouts {
			t, err := time.Parse(layout, candidate)
			if err == nil {
				return t.UTC(), nil
			}
			lastErr = err
		}
	}
	return time.Time{}, lastErr
}

func restorePlus(v string) string {
	if i := strings.LastIndex(v, " "); i > 10 {
		return v[:i] + "+" + v[i+1:]
	}
	return v
}

// timestampFilters maps created_before/created_after/modified_before/
// modified_after to inclusive bounds on table's timestamp columns.
func timestampFilters(c *gin.Context, table string) ([]scope, error) {
	bounds := []struct {
		param, column, op string
	}{
		{"created_before", "created", "<="},
		{"created_after", "created", ">="},
		{"modified_before", "modified", "<="},
		{"modified_after", "modified", ">="},
	}

	var scopes []scope
	for _, b := range bounds {
		raw, ok := c.GetQuery(b.param)
		if !ok || raw == "" {
			continue
		}
		t, err := parseTimestamp(raw)
		if err != nil {
			return nil, errors.BadRequestf("%s: enter a valid date/time", b.param)
		}
		clause := table + "." + b.column + " " + b.op + " ?"
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where(clause, t)
		})
	}
	return scopes, nil
}

// fieldFilter describes one exact-match query parameter
type fieldFilter struct {
	param  string
	column string
	kind   filterKind
}

type filterKind int

const (
	filterString filterKind = iota
	filterBool
	filterInt
)

func fieldFilters(c *gin.Context, filters []fieldFilter) ([]scope, error) {
	var scopes []scope
	for _, f := range filters {
		raw, ok := c.GetQuery(f.param)
		if !ok || raw == "" {
			continue
		}

		var value interface{}
		switch f.kind {
		case filterBool:
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return nil, errors.BadRequestf("%s: expected a boolean", f.param)
			}
			value = b
		case filterInt:
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return nil, errors.BadRequestf("%s: expected a number", f.param)
			}
			value = n
		default:
			value = raw
		}

		clause := f.column
		if !strings.Contains(clause, "?") {
			clause += " = ?"
		}
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where(clause, value)
		})
	}
	return scopes, nil
}

// listScopes combines the timestamp filters of table with filters
func listScopes(c *gin.Context, table string, filters []fieldFilter) ([]scope, error) {
	ts, err := timestampFilters(c, table)
	if err != nil {
		return nil, err
	}
	fs, err := fieldFilters(c, filters)
	if err != nil {
		return nil, err
	}
	return append(ts, fs...), nil
}

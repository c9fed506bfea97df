// Package pagination parses numeric paging query parameters
package pagination

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Defaults of paginated listings
const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	maxPage = 1 << 30
)

// Params is a validated page request
type Params struct {
	Page     int
	PageSize int
}

// Offset returns the number of rows to skip
func (p Params) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// ParseInt parses a client supplied integer.
// Empty, non-numeric, non-finite and fractional values yield def, as do values below minimum.
// Values above maximum are capped to maximum. Integral floats such as "10.0" are accepted.
func ParseInt(raw string, def, minimum, maximum int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return def
	}

	if f < float64(minimum) {
		return def
	}
	if f > float64(maximum) {
		return maximum
	}
	return int(f)
}

// Parse reads page and page_size from a query, accepting the legacy limit alias for page_size
func Parse(query url.Values, defaultPageSize, maxPageSize int) Params {
	sizeRaw := query.Get("page_size")
	if sizeRaw == "" {
		sizeRaw = query.Get("limit")
	}

	return Params{
		Page:     ParseInt(query.Get("page"), DefaultPage, 1, maxPage),
		PageSize: ParseInt(sizeRaw, defaultPageSize, 1, maxPageSize),
	}
}

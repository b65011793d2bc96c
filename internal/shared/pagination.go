package shared

import "math"

// PageInfo contains metadata for paginated listings.
type PageInfo struct {
	Page    int  `json:"page"`
	Limit   int  `json:"limit"`
	Total   int  `json:"total"`
	Pages   int  `json:"pages"`
	HasNext bool `json:"hasNext"`
	HasPrev bool `json:"hasPrev"`
}

// NewPageInfo computes pagination metadata. A non-positive limit is a
// degenerate input: Pages is defined as 0 so the arithmetic stays total.
func NewPageInfo(page, limit, total int) PageInfo {
	if page <= 0 {
		page = 1
	}
	pages := 0
	if limit > 0 {
		pages = int(math.Ceil(float64(total) / float64(limit)))
	}
	return PageInfo{
		Page:    page,
		Limit:   limit,
		Total:   total,
		Pages:   pages,
		HasNext: page < pages,
		HasPrev: page > 1,
	}
}

// Offset returns the row offset for the page.
func (p PageInfo) Offset() int {
	if p.Limit <= 0 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

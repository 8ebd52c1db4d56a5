package pagination

// DefaultPerPage is the standard page size when one is not provided.
const DefaultPerPage = 25

// MaxPerPage caps how many rows any list query can request.
const MaxPerPage = 100

// Params holds offset pagination inputs from controllers or services.
type Params struct {
	Page    int
	PerPage int
}

// Normalize clamps the page and per-page values into their allowed ranges.
func (p Params) Normalize() Params {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PerPage <= 0 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	return p
}

// Offset returns the row offset for the normalized params.
func (p Params) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.PerPage
}

// Limit returns the row limit for the normalized params.
func (p Params) Limit() int {
	return p.Normalize().PerPage
}

// Meta describes a page of results in list responses.
type Meta struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

// NewMeta builds response metadata for the given params and total row count.
func NewMeta(p Params, total int64) Meta {
	n := p.Normalize()
	pages := total / int64(n.PerPage)
	if total%int64(n.PerPage) != 0 {
		pages++
	}
	return Meta{
		Page:       n.Page,
		PerPage:    n.PerPage,
		Total:      total,
		TotalPages: pages,
	}
}

package repository

// ListQuery represents common query parameters. PerPage == 0 returns the
// full result set.
type ListQuery struct {
	Page    int
	PerPage int
	Filters map[string]string
}

// NewListQuery creates an unpaginated ListQuery
func NewListQuery() *ListQuery {
	return &ListQuery{
		Page:    1,
		Filters: make(map[string]string),
	}
}

// Offset returns the row offset for the current page.
func (q *ListQuery) Offset() int {
	if q.Page < 1 {
		return 0
	}
	return (q.Page - 1) * q.PerPage
}

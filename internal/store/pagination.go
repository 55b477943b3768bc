package store

const DefaultPerPage = 20

// Pagination is the page counter of one list. Page is 1-based.
type Pagination struct {
	Page    int
	PerPage int
	Total   int
}

// TotalPages is ceil(Total/PerPage), at least 1 so an empty list still has
// a page to show.
func (p Pagination) TotalPages() int {
	per := p.perPage()
	if p.Total <= 0 {
		return 1
	}
	return (p.Total + per - 1) / per
}

// Clamp moves Page into [1, TotalPages].
func (p Pagination) Clamp() Pagination {
	p.PerPage = p.perPage()
	if p.Page < 1 {
		p.Page = 1
	}
	if last := p.TotalPages(); p.Page > last {
		p.Page = last
	}
	return p
}

// Offset is the index of the first element of the current page.
func (p Pagination) Offset() int {
	c := p.Clamp()
	return (c.Page - 1) * c.PerPage
}

// WithTotal updates the total and re-clamps the page.
func (p Pagination) WithTotal(total int) Pagination {
	if total < 0 {
		total = 0
	}
	p.Total = total
	return p.Clamp()
}

func (p Pagination) HasPrev() bool { return p.Clamp().Page > 1 }

func (p Pagination) HasNext() bool {
	c := p.Clamp()
	return c.Page < c.TotalPages()
}

func (p Pagination) perPage() int {
	if p.PerPage <= 0 {
		return DefaultPerPage
	}
	return p.PerPage
}

// Window returns the slice of list shown on the current page. It is used
// when a list was fetched whole and is paged on the client.
func Window[T any](list []T, p Pagination) []T {
	p = p.WithTotal(len(list))
	start := p.Offset()
	if start >= len(list) {
		return []T{}
	}
	end := start + p.PerPage
	if end > len(list) {
		end = len(list)
	}
	out := make([]T, end-start)
	copy(out, list[start:end])
	return out
}

package contacts

// Pagination is a pure view over the full in-memory snapshot. Nothing here
// is persisted or cached; every render recomputes the slice.

// Pager holds the current page position. The zero value is not valid; use
// NewPager.
type Pager struct {
	Page    int
	PerPage int
}

// NewPager returns a pager on page 1 with the given page size. A page size
// below 1 falls back to 1.
func NewPager(perPage int) Pager {
	if perPage < 1 {
		perPage = 1
	}
	return Pager{Page: 1, PerPage: perPage}
}

// TotalPages returns ceil(n/perPage), with a minimum of 1 even for an empty
// list.
func TotalPages(n, perPage int) int {
	if perPage < 1 {
		perPage = 1
	}
	pages := (n + perPage - 1) / perPage
	if pages < 1 {
		return 1
	}
	return pages
}

// Clamp forces the page into [1, TotalPages(n)] for a list of n contacts.
// Used after deletes shrink the list under the current page.
func (p Pager) Clamp(n int) Pager {
	total := TotalPages(n, p.PerPage)
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Page > total {
		p.Page = total
	}
	return p
}

// Next advances one page; a no-op at the last page.
func (p Pager) Next(n int) Pager {
	if p.Page < TotalPages(n, p.PerPage) {
		p.Page++
	}
	return p
}

// Prev goes back one page; a no-op at page 1.
func (p Pager) Prev() Pager {
	if p.Page > 1 {
		p.Page--
	}
	return p
}

// Slice returns the contacts visible on the current page, in snapshot order.
func (p Pager) Slice(list []Contact) []Contact {
	start := (p.Page - 1) * p.PerPage
	if start < 0 || start >= len(list) {
		return nil
	}
	end := start + p.PerPage
	if end > len(list) {
		end = len(list)
	}
	return list[start:end]
}

package crud

import (
	"fmt"
	"strconv"
	"strings"
)

// Paginator slices an ordered collection into pages of PerPage items.
type Paginator struct {
	PerPage int
}

// NewPaginator returns a Paginator for pages of perPage items.
func NewPaginator(perPage int) (Paginator, error) {
	if perPage <= 0 {
		return Paginator{}, fmt.Errorf("page size must be positive, got %d", perPage)
	}
	return Paginator{PerPage: perPage}, nil
}

// NumPages returns the number of pages needed for count items.
// There is always at least one page, even if it's empty.
func (p Paginator) NumPages(count int) int {
	if count <= 0 {
		return 1
	}
	return (count + p.PerPage - 1) / p.PerPage
}

// Number normalizes a raw page number taken from the query string.
// Missing or malformed numbers, zero and negative numbers all mean the first page.
// Numbers past the end mean the last page.
func (p Paginator) Number(raw string, count int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 1
	}
	if last := p.NumPages(count); n > last {
		return last
	}
	return n
}

// Bounds returns the offset and limit of a valid page number.
func (p Paginator) Bounds(number int) (offset, limit int) {
	return (number - 1) * p.PerPage, p.PerPage
}

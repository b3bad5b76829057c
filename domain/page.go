package domain

// DefaultPageSize is the number of posts on one feed page unless configured otherwise.
const DefaultPageSize = 10

// Page is one page of a feed. Number is 1-based and always valid: requests for pages that
// don't exist are clamped into [1, NumPages]. An empty feed still has one (empty) page.
type Page struct {
	Posts    []Post
	Number   int
	NumPages int
	// Count is the total number of posts in the feed, across all pages.
	Count int
}

func (p *Page) HasNext() bool {
	return p.Number < p.NumPages
}

func (p *Page) HasPrevious() bool {
	return p.Number > 1
}

func (p *Page) HasOtherPages() bool {
	return p.HasNext() || p.HasPrevious()
}

func (p *Page) NextNumber() int {
	return p.Number + 1
}

func (p *Page) PreviousNumber() int {
	return p.Number - 1
}

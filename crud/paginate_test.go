package crud

import "testing"

func TestNewPaginator(t *testing.T) {
	for _, perPage := range []int{0, -1} {
		if _, err := NewPaginator(perPage); err == nil {
			t.Errorf("NewPaginator(%d) succeeded, want error", perPage)
		}
	}
}

func TestPaginatorNumPages(t *testing.T) {
	p := Paginator{PerPage: 10}
	tests := []struct {
		count int
		want  int
	}{
		{0, 1},
		{1, 1},
		{10, 1},
		{11, 2},
		{13, 2},
		{20, 2},
		{21, 3},
	}
	for _, tt := range tests {
		if got := p.NumPages(tt.count); got != tt.want {
			t.Errorf("NumPages(%d) = %d, want %d", tt.count, got, tt.want)
		}
	}
}

func TestPaginatorNumber(t *testing.T) {
	p := Paginator{PerPage: 10}
	tests := []struct {
		raw   string
		count int
		want  int
	}{
		{"", 13, 1},
		{"1", 13, 1},
		{"2", 13, 2},
		{" 2 ", 13, 2},
		{"3", 13, 2},
		{"999", 13, 2},
		{"0", 13, 1},
		{"-4", 13, 1},
		{"abc", 13, 1},
		{"2.5", 13, 1},
		{"1", 0, 1},
		{"5", 0, 1},
	}
	for _, tt := range tests {
		if got := p.Number(tt.raw, tt.count); got != tt.want {
			t.Errorf("Number(%q, %d) = %d, want %d", tt.raw, tt.count, got, tt.want)
		}
	}
}

func TestPaginatorBounds(t *testing.T) {
	p := Paginator{PerPage: 10}
	if offset, limit := p.Bounds(1); offset != 0 || limit != 10 {
		t.Errorf("Bounds(1) = %d, %d; want 0, 10", offset, limit)
	}
	if offset, limit := p.Bounds(3); offset != 20 || limit != 10 {
		t.Errorf("Bounds(3) = %d, %d; want 20, 10", offset, limit)
	}
}

package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFixtures(t *testing.T) {
	f, err := loadFixtures("groups.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if len(f.Groups) != 3 {
		t.Fatalf("got %d groups, want 3", len(f.Groups))
	}
	if f.Groups[0].Slug != "cats" || f.Groups[0].Title != "Cats" {
		t.Errorf("first group = %+v", f.Groups[0])
	}
}

func TestLoadFixturesRequiresSlug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "groups.yaml")
	if err := os.WriteFile(path, []byte("groups:\n  - title: No slug\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadFixtures(path); err == nil {
		t.Fatal("expected an error for a group without slug")
	}
}

func TestPostRows(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rows := postRows(7, []int{10, 20}, 5, now)
	if len(rows) != 5 {
		t.Fatalf("got %d rows, want 5", len(rows))
	}

	wantGroups := []int{10, 20, 10, 20, 10}
	for i, row := range rows {
		if row[1] != 7 {
			t.Errorf("row %d: author = %v, want 7", i, row[1])
		}
		if g := row[2].(*int); *g != wantGroups[i] {
			t.Errorf("row %d: group = %d, want %d", i, *g, wantGroups[i])
		}
	}
	if last := rows[4][4].(time.Time); !last.Equal(now) {
		t.Errorf("newest post created at %s, want %s", last, now)
	}
	if first := rows[0][4].(time.Time); !first.Equal(now.Add(-4 * time.Minute)) {
		t.Errorf("oldest post created at %s", first)
	}
}

func TestPostRowsWithoutGroups(t *testing.T) {
	rows := postRows(1, nil, 2, time.Now())
	for i, row := range rows {
		if g := row[2].(*int); g != nil {
			t.Errorf("row %d: group = %d, want none", i, *g)
		}
	}
}

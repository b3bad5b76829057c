package crud

import (
	"context"
	"strings"
	"testing"

	"yatube/domain"
	"yatube/errs"
)

func TestGroupCreate(t *testing.T) {
	s := newTestServices(t, 10)
	ctx := context.Background()
	createGroup(t, s, "cats")

	tests := []struct {
		name  string
		group domain.Group
		code  string
	}{
		{"missing title", domain.Group{Slug: "dogs"}, errs.EINVALID},
		{"long title", domain.Group{Title: strings.Repeat("a", 201), Slug: "dogs"}, errs.EINVALID},
		{"bad slug", domain.Group{Title: "Dogs", Slug: "dogs and cats"}, errs.EINVALID},
		{"taken slug", domain.Group{Title: "Cats again", Slug: "cats"}, errs.ECONFLICT},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.Group.Create(ctx, &tt.group); errs.ErrorCode(err) != tt.code {
				t.Errorf("Create() = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestGroupLookup(t *testing.T) {
	s := newTestServices(t, 10)
	ctx := context.Background()
	cats := createGroup(t, s, "cats")
	createGroup(t, s, "birds")

	got, err := s.Group.BySlug(ctx, "cats")
	if err != nil || got.ID != cats.ID {
		t.Errorf("BySlug(cats) = %v, %v", got, err)
	}
	if _, err := s.Group.BySlug(ctx, "dogs"); errs.ErrorCode(err) != errs.ENOTFOUND {
		t.Errorf("BySlug(dogs) = %v, want not found", err)
	}

	all, err := s.Group.All(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 || all[0].Slug != "birds" {
		t.Errorf("All() not ordered by title: %+v", all)
	}
}

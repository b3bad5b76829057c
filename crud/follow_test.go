package crud

import (
	"context"
	"testing"

	"yatube/domain"
	"yatube/errs"
)

func TestFollowGetOrCreateIsIdempotent(t *testing.T) {
	s := newTestServices(t, 10)
	ctx := context.Background()
	alice := createUser(t, s, "alice")
	bob := createUser(t, s, "bob")

	edge := domain.Follow{UserID: alice.ID, AuthorID: bob.ID}
	created, err := s.Follow.GetOrCreate(ctx, &edge)
	if err != nil || !created {
		t.Fatalf("first GetOrCreate = %v, %v; want true, nil", created, err)
	}
	again := domain.Follow{UserID: alice.ID, AuthorID: bob.ID}
	created, err = s.Follow.GetOrCreate(ctx, &again)
	if err != nil || created {
		t.Fatalf("second GetOrCreate = %v, %v; want false, nil", created, err)
	}
	if again.ID != edge.ID || again.UserID != alice.ID || again.AuthorID != bob.ID {
		t.Errorf("loaded edge = %+v, want the one with id %d", again, edge.ID)
	}

	var count int64
	s.db.Model(&domain.Follow{}).Count(&count)
	if count != 1 {
		t.Errorf("%d follow rows, want 1", count)
	}

	ok, err := s.Follow.Exists(ctx, alice.ID, bob.ID)
	if err != nil || !ok {
		t.Errorf("Exists(alice, bob) = %v, %v", ok, err)
	}
	ok, err = s.Follow.Exists(ctx, bob.ID, alice.ID)
	if err != nil || ok {
		t.Errorf("Exists(bob, alice) = %v, %v; edges are directed", ok, err)
	}
}

func TestFollowUnknownAuthor(t *testing.T) {
	s := newTestServices(t, 10)
	alice := createUser(t, s, "alice")
	_, err := s.Follow.GetOrCreate(context.Background(), &domain.Follow{UserID: alice.ID, AuthorID: 999})
	if errs.ErrorCode(err) != errs.ENOTFOUND {
		t.Errorf("GetOrCreate() error = %v, want not found", err)
	}
}

func TestFollowDelete(t *testing.T) {
	s := newTestServices(t, 10)
	ctx := context.Background()
	alice := createUser(t, s, "alice")
	bob := createUser(t, s, "bob")

	if err := s.Follow.Delete(ctx, alice.ID, "bob"); errs.ErrorCode(err) != errs.ENOTFOUND {
		t.Fatalf("Delete() of missing edge = %v, want not found", err)
	}

	if _, err := s.Follow.GetOrCreate(ctx, &domain.Follow{UserID: alice.ID, AuthorID: bob.ID}); err != nil {
		t.Fatal(err)
	}
	if err := s.Follow.Delete(ctx, alice.ID, "bob"); err != nil {
		t.Fatalf("Delete() = %v", err)
	}
	if ok, _ := s.Follow.Exists(ctx, alice.ID, bob.ID); ok {
		t.Error("edge still exists after Delete")
	}
	if err := s.Follow.Delete(ctx, alice.ID, "bob"); errs.ErrorCode(err) != errs.ENOTFOUND {
		t.Errorf("second Delete() = %v, want not found", err)
	}
}

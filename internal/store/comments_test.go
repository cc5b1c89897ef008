package store

import (
	"context"
	"testing"

	"github.com/nrstore/storefront/internal/db"
	"github.com/nrstore/storefront/internal/model"
)

func TestAddAndListComments(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	p, _ := CreateProduct(ctx, database, model.ProductDraft{Name: "Commented", Price: 1, Stock: 1})

	AddComment(ctx, database, p.ID, "ana", "first")
	AddComment(ctx, database, p.ID, "bob", "second")

	comments, err := ListComments(ctx, database, p.ID)
	if err != nil {
		t.Fatalf("ListComments: %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("expected 2 comments, got %d", len(comments))
	}
	if comments[0].Username != "ana" || comments[1].Username != "bob" {
		t.Errorf("expected oldest-first order, got %q then %q", comments[0].Username, comments[1].Username)
	}
	if comments[0].Date == "" {
		t.Error("expected a formatted date on the comment")
	}
}

func TestListCommentsEmptyThread(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	p, _ := CreateProduct(ctx, database, model.ProductDraft{Name: "Quiet", Price: 1, Stock: 1})

	comments, err := ListComments(ctx, database, p.ID)
	if err != nil {
		t.Fatalf("ListComments: %v", err)
	}
	if len(comments) != 0 {
		t.Errorf("expected empty thread, got %d comments", len(comments))
	}
}

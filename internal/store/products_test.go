package store

import (
	"context"
	"errors"
	"testing"

	"github.com/nrstore/storefront/internal/db"
	"github.com/nrstore/storefront/internal/model"
)

func TestCreateAndGetProduct(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	p, err := CreateProduct(ctx, database, model.ProductDraft{
		Name: "Puff Classic", Description: "The original", Price: 9.99, Stock: 5,
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if p.Name != "Puff Classic" {
		t.Errorf("expected name 'Puff Classic', got %q", p.Name)
	}
	if p.Stock != 5 {
		t.Errorf("expected stock 5, got %d", p.Stock)
	}

	missing, err := GetProduct(ctx, database, p.ID+100)
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing product")
	}
}

func TestListProductsInsertionOrder(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateProduct(ctx, database, model.ProductDraft{Name: "Zeta", Price: 1, Stock: 1})
	CreateProduct(ctx, database, model.ProductDraft{Name: "Alpha", Price: 2, Stock: 2})

	products, err := ListProducts(ctx, database)
	if err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}
	if products[0].Name != "Zeta" || products[1].Name != "Alpha" {
		t.Errorf("expected insertion order, got %q then %q", products[0].Name, products[1].Name)
	}
}

func TestUpdateProduct(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	p, _ := CreateProduct(ctx, database, model.ProductDraft{Name: "Old", Price: 1, Stock: 1})

	err := UpdateProduct(ctx, database, p.ID, model.ProductDraft{
		Name: "New", Description: "updated", Price: 2.5, Stock: 3, Image: "https://example.com/x.jpg",
	})
	if err != nil {
		t.Fatalf("UpdateProduct: %v", err)
	}

	got, _ := GetProduct(ctx, database, p.ID)
	if got.Name != "New" || got.Price != 2.5 || got.Stock != 3 {
		t.Errorf("unexpected product after update: %+v", got)
	}
	if got.Image != "https://example.com/x.jpg" {
		t.Errorf("expected image to be set, got %q", got.Image)
	}
}

func TestDeleteProductCascadesComments(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	p, _ := CreateProduct(ctx, database, model.ProductDraft{Name: "Doomed", Price: 1, Stock: 1})
	AddComment(ctx, database, p.ID, "visitor", "nice")

	if err := DeleteProduct(ctx, database, p.ID); err != nil {
		t.Fatalf("DeleteProduct: %v", err)
	}

	got, _ := GetProduct(ctx, database, p.ID)
	if got != nil {
		t.Error("expected product to be gone after delete")
	}

	comments, _ := ListComments(ctx, database, p.ID)
	if len(comments) != 0 {
		t.Errorf("expected comments to cascade, got %d", len(comments))
	}
}

func TestReduceStock(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	p, _ := CreateProduct(ctx, database, model.ProductDraft{Name: "Stocked", Price: 1, Stock: 5})

	if err := ReduceStock(ctx, database, p.ID, 3); err != nil {
		t.Fatalf("ReduceStock: %v", err)
	}

	got, _ := GetProduct(ctx, database, p.ID)
	if got.Stock != 2 {
		t.Errorf("expected stock 2, got %d", got.Stock)
	}
}

func TestReduceStockRejectsOverdraw(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	p, _ := CreateProduct(ctx, database, model.ProductDraft{Name: "Scarce", Price: 1, Stock: 2})

	err := ReduceStock(ctx, database, p.ID, 3)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	// Stock must be untouched, never underflowed.
	got, _ := GetProduct(ctx, database, p.ID)
	if got.Stock != 2 {
		t.Errorf("expected stock unchanged at 2, got %d", got.Stock)
	}
}

func TestReduceStockMissingProduct(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	err := ReduceStock(ctx, database, 42, 1)
	if !errors.Is(err, ErrNoProduct) {
		t.Fatalf("expected ErrNoProduct, got %v", err)
	}
}

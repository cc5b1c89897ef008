// Package catalogtest provides a configurable fake catalog client for
// controller tests. Each method records its call, then delegates to the
// matching func field or returns a zero value when unset.
package catalogtest

import (
	"context"
	"io"

	"github.com/nrstore/storefront/internal/model"
)

// Fake implements catalog.Client with per-method hooks and a call log.
type Fake struct {
	ListProductsFunc  func(ctx context.Context) ([]model.Product, error)
	GetProductFunc    func(ctx context.Context, id int64) (*model.Product, error)
	CreateProductFunc func(ctx context.Context, draft model.ProductDraft) (*model.Product, error)
	UpdateProductFunc func(ctx context.Context, id int64, draft model.ProductDraft) (*model.Product, error)
	DeleteProductFunc func(ctx context.Context, id int64) error
	ReduceStockFunc   func(ctx context.Context, id int64, qty int) error
	UploadImageFunc   func(ctx context.Context, filename string, r io.Reader) (string, error)
	SettingsFunc      func(ctx context.Context) (*model.Settings, error)
	SaveSettingsFunc  func(ctx context.Context, s model.Settings) error
	CommentsFunc      func(ctx context.Context, productID int64) ([]model.Comment, error)
	PostCommentFunc   func(ctx context.Context, productID int64, username, text string) ([]model.Comment, error)
	LoginFunc         func(ctx context.Context, username, password string) (string, error)

	// Calls records method names in invocation order.
	Calls []string
}

func (f *Fake) record(name string) {
	f.Calls = append(f.Calls, name)
}

// CallCount returns how many times the named method was invoked.
func (f *Fake) CallCount(name string) int {
	n := 0
	for _, c := range f.Calls {
		if c == name {
			n++
		}
	}
	return n
}

func (f *Fake) ListProducts(ctx context.Context) ([]model.Product, error) {
	f.record("ListProducts")
	if f.ListProductsFunc != nil {
		return f.ListProductsFunc(ctx)
	}
	return []model.Product{}, nil
}

func (f *Fake) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	f.record("GetProduct")
	if f.GetProductFunc != nil {
		return f.GetProductFunc(ctx, id)
	}
	return &model.Product{ID: id}, nil
}

func (f *Fake) CreateProduct(ctx context.Context, draft model.ProductDraft) (*model.Product, error) {
	f.record("CreateProduct")
	if f.CreateProductFunc != nil {
		return f.CreateProductFunc(ctx, draft)
	}
	return &model.Product{ID: 1, Name: draft.Name, Description: draft.Description, Price: draft.Price, Stock: draft.Stock, Image: draft.Image}, nil
}

func (f *Fake) UpdateProduct(ctx context.Context, id int64, draft model.ProductDraft) (*model.Product, error) {
	f.record("UpdateProduct")
	if f.UpdateProductFunc != nil {
		return f.UpdateProductFunc(ctx, id, draft)
	}
	return &model.Product{ID: id, Name: draft.Name, Description: draft.Description, Price: draft.Price, Stock: draft.Stock, Image: draft.Image}, nil
}

func (f *Fake) DeleteProduct(ctx context.Context, id int64) error {
	f.record("DeleteProduct")
	if f.DeleteProductFunc != nil {
		return f.DeleteProductFunc(ctx, id)
	}
	return nil
}

func (f *Fake) ReduceStock(ctx context.Context, id int64, qty int) error {
	f.record("ReduceStock")
	if f.ReduceStockFunc != nil {
		return f.ReduceStockFunc(ctx, id, qty)
	}
	return nil
}

func (f *Fake) UploadImage(ctx context.Context, filename string, r io.Reader) (string, error) {
	f.record("UploadImage")
	if f.UploadImageFunc != nil {
		return f.UploadImageFunc(ctx, filename, r)
	}
	return "", nil
}

func (f *Fake) Settings(ctx context.Context) (*model.Settings, error) {
	f.record("Settings")
	if f.SettingsFunc != nil {
		return f.SettingsFunc(ctx)
	}
	return &model.Settings{}, nil
}

func (f *Fake) SaveSettings(ctx context.Context, s model.Settings) error {
	f.record("SaveSettings")
	if f.SaveSettingsFunc != nil {
		return f.SaveSettingsFunc(ctx, s)
	}
	return nil
}

func (f *Fake) Comments(ctx context.Context, productID int64) ([]model.Comment, error) {
	f.record("Comments")
	if f.CommentsFunc != nil {
		return f.CommentsFunc(ctx, productID)
	}
	return []model.Comment{}, nil
}

func (f *Fake) PostComment(ctx context.Context, productID int64, username, text string) ([]model.Comment, error) {
	f.record("PostComment")
	if f.PostCommentFunc != nil {
		return f.PostCommentFunc(ctx, productID, username, text)
	}
	return []model.Comment{{Username: username, Text: text}}, nil
}

func (f *Fake) Login(ctx context.Context, username, password string) (string, error) {
	f.record("Login")
	if f.LoginFunc != nil {
		return f.LoginFunc(ctx, username, password)
	}
	return "", nil
}

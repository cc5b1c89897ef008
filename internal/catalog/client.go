package catalog

import (
	"context"
	"io"

	"github.com/nrstore/storefront/internal/model"
)

// TokenSource supplies the current session token. An empty string means
// anonymous; calls are sent unauthenticated and the backend decides.
type TokenSource interface {
	Token() string
}

// Client is the transport layer against a product catalog. Two backings
// exist: the remote REST backend and the embedded local store. Callers own
// idempotence concerns: after a stock decrement they re-fetch the product
// rather than trusting a local subtraction. No retries, no caching.
type Client interface {
	// ListProducts returns the full catalog.
	ListProducts(ctx context.Context) ([]model.Product, error)

	// GetProduct returns a single product, or ErrNotFound.
	GetProduct(ctx context.Context, id int64) (*model.Product, error)

	// CreateProduct stores a new product and returns it with its
	// assigned id. Requires a session token.
	CreateProduct(ctx context.Context, draft model.ProductDraft) (*model.Product, error)

	// UpdateProduct replaces a product's writable fields. Requires a
	// session token.
	UpdateProduct(ctx context.Context, id int64, draft model.ProductDraft) (*model.Product, error)

	// DeleteProduct removes a product. Requires a session token.
	DeleteProduct(ctx context.Context, id int64) error

	// ReduceStock durably decrements a product's stock by qty. The
	// backend rejects (never underflows) when qty exceeds current stock.
	ReduceStock(ctx context.Context, id int64, qty int) error

	// UploadImage stores an image and returns its hosted URL. Requires a
	// session token.
	UploadImage(ctx context.Context, filename string, r io.Reader) (string, error)

	// Settings returns the store-wide settings.
	Settings(ctx context.Context) (*model.Settings, error)

	// SaveSettings replaces the store-wide settings. Requires a session
	// token.
	SaveSettings(ctx context.Context, s model.Settings) error

	// Comments returns a product's comment thread, oldest first.
	Comments(ctx context.Context, productID int64) ([]model.Comment, error)

	// PostComment appends a comment and returns the authoritative
	// updated thread.
	PostComment(ctx context.Context, productID int64, username, text string) ([]model.Comment, error)

	// Login exchanges admin credentials for a session token.
	Login(ctx context.Context, username, password string) (string, error)
}

// Package local implements the catalog client against an embedded SQLite
// database instead of the remote backend. It is the legacy fully-local
// variant: same contract, no network, admin tokens minted and verified
// in-process.
package local

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/nrstore/storefront/internal/auth"
	"github.com/nrstore/storefront/internal/catalog"
	"github.com/nrstore/storefront/internal/imaging"
	"github.com/nrstore/storefront/internal/model"
	"github.com/nrstore/storefront/internal/store"
)

// imageURLPrefix addresses uploads stored in the local images table.
const imageURLPrefix = "local://images/"

// Client is the sqlite-backed catalog client.
type Client struct {
	db     *sql.DB
	tokens catalog.TokenSource
	secret string
}

// New creates a local catalog client over an opened database. The token
// signing secret is loaded from the settings table (generated on first use).
func New(ctx context.Context, db *sql.DB, tokens catalog.TokenSource) (*Client, error) {
	secret, err := store.JWTSecret(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("loading signing secret: %w", err)
	}
	return &Client{db: db, tokens: tokens, secret: secret}, nil
}

// ListProducts returns the full catalog.
func (c *Client) ListProducts(ctx context.Context) ([]model.Product, error) {
	products, err := store.ListProducts(ctx, c.db)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", catalog.ErrBackend, err)
	}
	if products == nil {
		products = []model.Product{}
	}
	return products, nil
}

// GetProduct returns a single product.
func (c *Client) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	p, err := store.GetProduct(ctx, c.db, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", catalog.ErrBackend, err)
	}
	if p == nil {
		return nil, catalog.ErrNotFound
	}
	return p, nil
}

// CreateProduct stores a new product. Requires an admin session.
func (c *Client) CreateProduct(ctx context.Context, draft model.ProductDraft) (*model.Product, error) {
	if err := c.requireAdmin(); err != nil {
		return nil, err
	}
	p, err := store.CreateProduct(ctx, c.db, draft)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", catalog.ErrBackend, err)
	}
	return p, nil
}

// UpdateProduct replaces a product's writable fields. Requires an admin session.
func (c *Client) UpdateProduct(ctx context.Context, id int64, draft model.ProductDraft) (*model.Product, error) {
	if err := c.requireAdmin(); err != nil {
		return nil, err
	}

	existing, err := store.GetProduct(ctx, c.db, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", catalog.ErrBackend, err)
	}
	if existing == nil {
		return nil, catalog.ErrNotFound
	}

	if err := store.UpdateProduct(ctx, c.db, id, draft); err != nil {
		return nil, fmt.Errorf("%w: %v", catalog.ErrBackend, err)
	}
	return c.GetProduct(ctx, id)
}

// DeleteProduct removes a product. Requires an admin session.
func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	if err := c.requireAdmin(); err != nil {
		return err
	}

	existing, err := store.GetProduct(ctx, c.db, id)
	if err != nil {
		return fmt.Errorf("%w: %v", catalog.ErrBackend, err)
	}
	if existing == nil {
		return catalog.ErrNotFound
	}

	if err := store.DeleteProduct(ctx, c.db, id); err != nil {
		return fmt.Errorf("%w: %v", catalog.ErrBackend, err)
	}
	return nil
}

// ReduceStock decrements a product's stock by qty. Anonymous visitors may
// call this; it is what placing an order does. Rejects when qty exceeds
// current stock.
func (c *Client) ReduceStock(ctx context.Context, id int64, qty int) error {
	err := store.ReduceStock(ctx, c.db, id, qty)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNoProduct):
		return catalog.ErrNotFound
	default:
		return fmt.Errorf("%w: %v", catalog.ErrBackend, err)
	}
}

// UploadImage validates and downscales the upload, stores it in the images
// table, and returns a local URL for it. Requires an admin session.
func (c *Client) UploadImage(ctx context.Context, filename string, r io.Reader) (string, error) {
	if err := c.requireAdmin(); err != nil {
		return "", err
	}

	data, mime, err := imaging.Prepare(r)
	if err != nil {
		return "", fmt.Errorf("%w: %v", catalog.ErrBackend, err)
	}

	id := uuid.NewString()
	if err := store.SaveImage(ctx, c.db, id, data, mime); err != nil {
		return "", fmt.Errorf("%w: %v", catalog.ErrBackend, err)
	}
	return imageURLPrefix + id, nil
}

// Settings returns the store-wide settings.
func (c *Client) Settings(ctx context.Context) (*model.Settings, error) {
	username, err := store.GetSetting(ctx, c.db, store.SettingInstagramUsername)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", catalog.ErrBackend, err)
	}
	return &model.Settings{InstagramUsername: username}, nil
}

// SaveSettings replaces the store-wide settings. Requires an admin session.
func (c *Client) SaveSettings(ctx context.Context, s model.Settings) error {
	if err := c.requireAdmin(); err != nil {
		return err
	}
	if err := store.SetSetting(ctx, c.db, store.SettingInstagramUsername, s.InstagramUsername); err != nil {
		return fmt.Errorf("%w: %v", catalog.ErrBackend, err)
	}
	return nil
}

// Comments returns a product's comment thread, oldest first.
func (c *Client) Comments(ctx context.Context, productID int64) ([]model.Comment, error) {
	comments, err := store.ListComments(ctx, c.db, productID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", catalog.ErrBackend, err)
	}
	if comments == nil {
		comments = []model.Comment{}
	}
	return comments, nil
}

// PostComment appends a comment and re-reads the thread so the caller gets
// the authoritative order.
func (c *Client) PostComment(ctx context.Context, productID int64, username, text string) ([]model.Comment, error) {
	p, err := store.GetProduct(ctx, c.db, productID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", catalog.ErrBackend, err)
	}
	if p == nil {
		return nil, catalog.ErrNotFound
	}

	if err := store.AddComment(ctx, c.db, productID, username, text); err != nil {
		return nil, fmt.Errorf("%w: %v", catalog.ErrBackend, err)
	}
	return c.Comments(ctx, productID)
}

// Login exchanges admin credentials for a signed session token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	user, err := store.GetUserByUsername(ctx, c.db, username)
	if err != nil {
		return "", fmt.Errorf("%w: %v", catalog.ErrBackend, err)
	}
	if user == nil || user.DeletedAt != nil {
		return "", catalog.ErrUnauthorized
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", catalog.ErrUnauthorized
	}

	token, err := auth.GenerateToken(c.secret, user.ID, user.Username, user.Role)
	if err != nil {
		return "", fmt.Errorf("%w: %v", catalog.ErrBackend, err)
	}
	return token, nil
}

// requireAdmin verifies the current session token carries the admin role.
func (c *Client) requireAdmin() error {
	if c.tokens == nil {
		return catalog.ErrUnauthorized
	}
	token := c.tokens.Token()
	if token == "" {
		return catalog.ErrUnauthorized
	}

	claims, err := auth.ValidateToken(c.secret, token)
	if err != nil {
		return catalog.ErrUnauthorized
	}
	if claims.Role != model.RoleAdmin {
		return catalog.ErrUnauthorized
	}
	return nil
}

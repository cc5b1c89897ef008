// Package rest implements the catalog client against the remote storefront
// backend. Every call is a fresh round trip; callers re-fetch after
// mutations instead of patching local state.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/nrstore/storefront/internal/catalog"
	"github.com/nrstore/storefront/internal/model"
)

// DefaultTimeout is the transport-level request timeout.
const DefaultTimeout = 30 * time.Second

// Client talks to the storefront REST backend.
type Client struct {
	baseURL    string
	tokens     catalog.TokenSource
	httpClient *http.Client
}

// New creates a REST catalog client. The token source supplies the session
// token attached to authenticated calls; an empty token sends the request
// unauthenticated and lets the backend reject it.
func New(baseURL string, tokens catalog.TokenSource, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ListProducts returns the full catalog.
func (c *Client) ListProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := c.do(ctx, http.MethodGet, "/items", nil, &products); err != nil {
		return nil, err
	}
	if products == nil {
		products = []model.Product{}
	}
	return products, nil
}

// GetProduct returns a single product.
func (c *Client) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	p := &model.Product{}
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/items/%d", id), nil, p); err != nil {
		return nil, err
	}
	return p, nil
}

// CreateProduct stores a new product.
func (c *Client) CreateProduct(ctx context.Context, draft model.ProductDraft) (*model.Product, error) {
	p := &model.Product{}
	if err := c.do(ctx, http.MethodPost, "/items", draft, p); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateProduct replaces a product's writable fields.
func (c *Client) UpdateProduct(ctx context.Context, id int64, draft model.ProductDraft) (*model.Product, error) {
	p := &model.Product{}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/items/%d", id), draft, p); err != nil {
		return nil, err
	}
	return p, nil
}

// DeleteProduct removes a product.
func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/items/%d", id), nil, nil)
}

// ReduceStock decrements a product's stock by qty. The backend rejects the
// call when qty exceeds current stock.
func (c *Client) ReduceStock(ctx context.Context, id int64, qty int) error {
	body := map[string]int{"qty": qty}
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/items/%d/stock", id), body, nil)
}

// UploadImage sends a multipart upload and returns the hosted URL.
func (c *Client) UploadImage(ctx context.Context, filename string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return "", fmt.Errorf("building upload form: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", fmt.Errorf("copying upload data: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("finishing upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", &buf)
	if err != nil {
		return "", fmt.Errorf("creating upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.attachToken(req)

	var out struct {
		URL string `json:"url"`
	}
	if err := c.send(req, &out); err != nil {
		return "", err
	}
	return out.URL, nil
}

// Settings returns the store-wide settings.
func (c *Client) Settings(ctx context.Context) (*model.Settings, error) {
	s := &model.Settings{}
	if err := c.do(ctx, http.MethodGet, "/settings", nil, s); err != nil {
		return nil, err
	}
	return s, nil
}

// SaveSettings replaces the store-wide settings.
func (c *Client) SaveSettings(ctx context.Context, s model.Settings) error {
	return c.do(ctx, http.MethodPut, "/settings", s, nil)
}

// Comments returns a product's comment thread as the backend ordered it.
func (c *Client) Comments(ctx context.Context, productID int64) ([]model.Comment, error) {
	var comments []model.Comment
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/comments/%d", productID), nil, &comments); err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []model.Comment{}
	}
	return comments, nil
}

// PostComment appends a comment and returns the authoritative updated thread.
func (c *Client) PostComment(ctx context.Context, productID int64, username, text string) ([]model.Comment, error) {
	body := map[string]string{"username": username, "comment": text}
	var comments []model.Comment
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/comments/%d", productID), body, &comments); err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []model.Comment{}
	}
	return comments, nil
}

// Login exchanges admin credentials for a session token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	body := map[string]string{"username": username, "password": password}
	var out struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/admin/login", body, &out); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", fmt.Errorf("%w: login response carried no token", catalog.ErrBackend)
	}
	return out.Token, nil
}

// do builds a JSON request, sends it, and decodes the response into out
// (skipped when out is nil).
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.attachToken(req)

	return c.send(req, out)
}

// attachToken sets the Authorization header when a session token is present.
func (c *Client) attachToken(req *http.Request) {
	if c.tokens == nil {
		return
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", catalog.ErrBackend, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(resp.Body)
		return statusError(resp.StatusCode, data)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: decoding response: %v", catalog.ErrBackend, err)
		}
	}
	return nil
}

// statusError maps a non-success response onto the catalog error taxonomy.
func statusError(status int, body []byte) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return catalog.ErrUnauthorized
	case http.StatusNotFound:
		return catalog.ErrNotFound
	default:
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			return fmt.Errorf("%w: status %d", catalog.ErrBackend, status)
		}
		return fmt.Errorf("%w: status %d: %s", catalog.ErrBackend, status, msg)
	}
}

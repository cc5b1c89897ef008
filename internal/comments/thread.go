// Package comments drives a product's comment thread view: load replaces
// the list wholesale, post validates locally and then reconciles against
// the authoritative thread so concurrent posts never diverge.
package comments

import (
	"context"
	"fmt"
	"strings"

	"github.com/nrstore/storefront/internal/catalog"
	"github.com/nrstore/storefront/internal/model"
)

// Thread is one product's comment view. Not safe for concurrent use.
type Thread struct {
	client    catalog.Client
	productID int64
	comments  []model.Comment
	loaded    bool
}

// NewThread creates a comment thread view for a product.
func NewThread(client catalog.Client, productID int64) *Thread {
	return &Thread{client: client, productID: productID}
}

// Comments returns the displayed thread.
func (t *Thread) Comments() []model.Comment { return t.comments }

// Empty reports whether a loaded thread has no comments. An empty thread is
// a valid state, not an error.
func (t *Thread) Empty() bool { return t.loaded && len(t.comments) == 0 }

// Load replaces the displayed list wholesale with a fresh fetch.
func (t *Thread) Load(ctx context.Context) error {
	comments, err := t.client.Comments(ctx, t.productID)
	if err != nil {
		return fmt.Errorf("loading comments: %w", err)
	}
	t.comments = comments
	t.loaded = true
	return nil
}

// Post validates the input locally, appends the comment, and replaces the
// displayed list with the authoritative updated thread. Empty author or
// body (after trimming) is rejected with no network call.
func (t *Thread) Post(ctx context.Context, username, text string) error {
	username = strings.TrimSpace(username)
	text = strings.TrimSpace(text)
	if username == "" || text == "" {
		return fmt.Errorf("%w: name and comment required", catalog.ErrValidationFailed)
	}

	updated, err := t.client.PostComment(ctx, t.productID, username, text)
	if err != nil {
		return fmt.Errorf("posting comment: %w", err)
	}

	// Never append client-side; the backend's thread is the truth.
	t.comments = updated
	t.loaded = true
	return nil
}

// Package order holds the quantity selector and the order commit flow: the
// sequence that decrements stock remotely, re-fetches the authoritative
// product, and hands the visitor off to the external channel.
package order

import (
	"context"
	"fmt"
	"strconv"

	"github.com/nrstore/storefront/internal/catalog"
	"github.com/nrstore/storefront/internal/model"
)

// State is the order flow's position in its lifecycle.
type State int

const (
	// StateIdle accepts quantity changes and commit triggers.
	StateIdle State = iota
	// StateCommitting has a decrement request in flight.
	StateCommitting
	// StateFailed keeps the prior view after a failed commit; the order
	// was not placed and another attempt is allowed.
	StateFailed
	// StateOutOfStock is terminal until the view is reloaded.
	StateOutOfStock
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCommitting:
		return "committing"
	case StateFailed:
		return "failed"
	case StateOutOfStock:
		return "out of stock"
	default:
		return "unknown"
	}
}

// Flow drives one product view's order lifecycle. Not safe for concurrent
// use; the UI runs one flow per view on a single event loop.
type Flow struct {
	client    catalog.Client
	product   model.Product
	instagram string
	qty       int
	state     State
	lastErr   error
}

// NewFlow creates an order flow for a product view. instagramUser is the
// external channel identity preloaded from settings; empty means ordering
// is blocked before any network call.
func NewFlow(client catalog.Client, product model.Product, instagramUser string) *Flow {
	f := &Flow{
		client:    client,
		product:   product,
		instagram: instagramUser,
	}
	f.qty = Clamp(product.Stock, 1)
	if product.Stock <= 0 {
		f.state = StateOutOfStock
	}
	return f
}

// State returns the current flow state.
func (f *Flow) State() State { return f.state }

// Err returns the error from the last failed commit, if any.
func (f *Flow) Err() error { return f.lastErr }

// Product returns the displayed (possibly stale) product copy.
func (f *Flow) Product() model.Product { return f.product }

// Quantity returns the currently selected quantity.
func (f *Flow) Quantity() int { return f.qty }

// SetQuantity re-clamps the requested quantity against displayed stock.
func (f *Flow) SetQuantity(requested int) {
	f.qty = Clamp(f.product.Stock, requested)
}

// Total is always quantity times the price in effect at order time.
func (f *Flow) Total() float64 {
	return float64(f.qty) * f.product.Price
}

// Disabled reports whether the order control should be non-interactive.
func (f *Flow) Disabled() bool {
	return f.state == StateCommitting || f.state == StateOutOfStock
}

// ButtonLabel renders the order control's text for the current state.
func (f *Flow) ButtonLabel() string {
	if f.state == StateOutOfStock {
		return "Out of stock"
	}
	return fmt.Sprintf("Order on Instagram (%d x %s€ = %s€)",
		f.qty, formatAmount(f.product.Price), formatAmount(f.Total()))
}

// Commit places the order: validates, decrements stock remotely, re-fetches
// the authoritative product, and returns the external-channel handoff URL.
// The handoff itself is fire-and-forget; a failed redirect does not roll
// back the decrement. On any error the displayed stock is left unchanged
// and the order is not considered placed.
func (f *Flow) Commit(ctx context.Context) (string, error) {
	switch f.state {
	case StateCommitting:
		return "", fmt.Errorf("order already in flight")
	case StateOutOfStock:
		return "", fmt.Errorf("%w: product is out of stock", catalog.ErrValidationFailed)
	}

	// Blocked before any network call when the channel is unset.
	if f.instagram == "" {
		return "", catalog.ErrConfigurationMissing
	}

	if f.qty < 1 || f.qty > f.product.Stock {
		return "", fmt.Errorf("%w: quantity %d out of range [1, %d]",
			catalog.ErrValidationFailed, f.qty, f.product.Stock)
	}

	f.state = StateCommitting

	if err := f.client.ReduceStock(ctx, f.product.ID, f.qty); err != nil {
		f.state = StateFailed
		f.lastErr = err
		return "", fmt.Errorf("committing order: %w", err)
	}

	// Re-fetch for the authoritative stock; concurrent buyers may have
	// raced, so a locally computed decrement is never trusted. Issued
	// strictly after the decrement completed.
	fresh, err := f.client.GetProduct(ctx, f.product.ID)
	if err != nil {
		f.state = StateFailed
		f.lastErr = err
		return "", fmt.Errorf("refreshing stock after commit: %w", err)
	}

	f.product = *fresh
	f.qty = Clamp(fresh.Stock, f.qty)
	f.lastErr = nil

	if fresh.Stock <= 0 {
		f.state = StateOutOfStock
	} else {
		f.state = StateIdle
	}

	return "https://instagram.com/" + f.instagram, nil
}

// formatAmount renders a price the way the storefront displays it: no
// trailing zeros, no fixed precision.
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

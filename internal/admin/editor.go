// Package admin drives the product management form: a create/edit state
// machine over the catalog client, including the image-source precedence
// rule (an attached file overrides a pasted URL) and store settings.
package admin

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nrstore/storefront/internal/catalog"
	"github.com/nrstore/storefront/internal/model"
)

// Mode is the editor's form mode. Exactly one mode is active at a time.
type Mode int

const (
	// ModeCreating is the default: submit creates a new product.
	ModeCreating Mode = iota
	// ModeEditing binds the form to an existing product id.
	ModeEditing
)

func (m Mode) String() string {
	if m == ModeEditing {
		return "editing"
	}
	return "creating"
}

// Form holds the field values currently bound to the product form.
type Form struct {
	Name        string
	Description string
	Price       float64
	Stock       int
	ImageURL    string
}

// pendingFile is an attached upload awaiting submit.
type pendingFile struct {
	name string
	data []byte
}

// Editor is the admin product editor. Not safe for concurrent use.
type Editor struct {
	client    catalog.Client
	mode      Mode
	editingID int64
	form      Form
	file      *pendingFile
	products  []model.Product
}

// NewEditor creates an editor in creating mode with empty fields.
func NewEditor(client catalog.Client) *Editor {
	return &Editor{client: client}
}

// Mode returns the active form mode.
func (e *Editor) Mode() Mode { return e.mode }

// EditingID returns the product id bound in editing mode, 0 otherwise.
func (e *Editor) EditingID() int64 { return e.editingID }

// Form returns the currently bound field values.
func (e *Editor) Form() Form { return e.form }

// SetForm replaces the bound field values.
func (e *Editor) SetForm(f Form) { e.form = f }

// AttachFile stages an image upload for the next submit. It takes
// precedence over the pasted URL field.
func (e *Editor) AttachFile(name string, data []byte) {
	e.file = &pendingFile{name: name, data: data}
}

// ImagePreview returns the URL shown in the form's preview box, or "" when
// there is nothing to preview.
func (e *Editor) ImagePreview() string { return e.form.ImageURL }

// Products returns the last wholesale-loaded product list.
func (e *Editor) Products() []model.Product { return e.products }

// Reload replaces the product list wholesale; the server is the source of
// truth, never a partial patch.
func (e *Editor) Reload(ctx context.Context) error {
	products, err := e.client.ListProducts(ctx)
	if err != nil {
		return fmt.Errorf("reloading products: %w", err)
	}
	e.products = products
	return nil
}

// EnterEdit fetches a product and binds its fields verbatim, switching the
// form to editing mode. On failure the editor is left unchanged.
func (e *Editor) EnterEdit(ctx context.Context, id int64) error {
	p, err := e.client.GetProduct(ctx, id)
	if err != nil {
		return fmt.Errorf("loading product for edit: %w", err)
	}

	e.mode = ModeEditing
	e.editingID = id
	e.file = nil
	e.form = Form{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		ImageURL:    p.Image,
	}
	return nil
}

// Cancel clears all bound fields, discards any pending file selection, and
// returns to creating mode.
func (e *Editor) Cancel() {
	e.mode = ModeCreating
	e.editingID = 0
	e.form = Form{}
	e.file = nil
}

// Submit validates the form, resolves the image source, and issues the
// create or update call for the active mode. On success the form resets to
// creating mode and the list is reloaded wholesale. On failure mode and
// fields are left unchanged so the admin can correct input and retry.
func (e *Editor) Submit(ctx context.Context) error {
	if strings.TrimSpace(e.form.Name) == "" {
		return fmt.Errorf("%w: name required", catalog.ErrValidationFailed)
	}
	if e.form.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", catalog.ErrValidationFailed)
	}
	if e.form.Stock < 0 {
		return fmt.Errorf("%w: stock must not be negative", catalog.ErrValidationFailed)
	}

	image, err := e.resolveImage(ctx)
	if err != nil {
		return err
	}

	draft := model.ProductDraft{
		Name:        e.form.Name,
		Description: e.form.Description,
		Price:       e.form.Price,
		Stock:       e.form.Stock,
		Image:       image,
	}

	if e.mode == ModeEditing {
		_, err = e.client.UpdateProduct(ctx, e.editingID, draft)
	} else {
		_, err = e.client.CreateProduct(ctx, draft)
	}
	if err != nil {
		return fmt.Errorf("saving product: %w", err)
	}

	e.Cancel()
	return e.Reload(ctx)
}

// resolveImage applies the image-source precedence: an attached file is
// uploaded and its hosted URL wins; otherwise the pasted URL field is used
// verbatim, possibly empty.
func (e *Editor) resolveImage(ctx context.Context) (string, error) {
	if e.file == nil {
		return e.form.ImageURL, nil
	}
	url, err := e.client.UploadImage(ctx, e.file.name, bytes.NewReader(e.file.data))
	if err != nil {
		return "", fmt.Errorf("uploading image: %w", err)
	}
	return url, nil
}

// Delete removes a product after explicit confirmation, then reloads the
// list. If the deleted product is the one currently open for editing, the
// form falls back to creating mode.
func (e *Editor) Delete(ctx context.Context, id int64, confirm func() bool) error {
	if confirm == nil || !confirm() {
		return nil
	}

	err := e.client.DeleteProduct(ctx, id)
	if err != nil && !errors.Is(err, catalog.ErrNotFound) {
		return fmt.Errorf("deleting product: %w", err)
	}

	// A NotFound means someone else already removed it; the reload below
	// reconciles the view either way.
	if e.mode == ModeEditing && e.editingID == id {
		e.Cancel()
	}
	if reloadErr := e.Reload(ctx); reloadErr != nil {
		return reloadErr
	}
	if err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}
	return nil
}

// LoadInstagram returns the configured external-channel identity.
func (e *Editor) LoadInstagram(ctx context.Context) (string, error) {
	s, err := e.client.Settings(ctx)
	if err != nil {
		return "", fmt.Errorf("loading settings: %w", err)
	}
	return s.InstagramUsername, nil
}

// SaveInstagram stores the external-channel identity.
func (e *Editor) SaveInstagram(ctx context.Context, username string) error {
	err := e.client.SaveSettings(ctx, model.Settings{InstagramUsername: username})
	if err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	return nil
}

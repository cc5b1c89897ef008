package model

// Product is a catalog entry. The backend owns the record; clients hold a
// transient, possibly-stale copy and must re-fetch after any mutation.
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Image       string  `json:"image,omitempty"`
}

// ProductDraft carries the writable fields of a product for create and
// update calls.
type ProductDraft struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Image       string  `json:"image"`
}

// Available reports whether the product can currently be ordered.
func (p *Product) Available() bool {
	return p.Stock > 0
}

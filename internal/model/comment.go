package model

// Comment is a single entry in a product's comment thread. Comments are
// immutable once created; list order is whatever the backend returns.
type Comment struct {
	Username string `json:"username"`
	Text     string `json:"comment"`
	Date     string `json:"date"`
}

package model

// Settings holds the store-wide configuration exposed by the backend.
// InstagramUsername is the external channel orders are handed off to;
// an empty value blocks ordering entirely.
type Settings struct {
	InstagramUsername string `json:"instagram_username"`
}

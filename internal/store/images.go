package store

import (
	"context"
	"database/sql"
	"fmt"
)

// SaveImage stores processed image data under an opaque id.
func SaveImage(ctx context.Context, db *sql.DB, id string, data []byte, mime string) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO images (id, data, mime) VALUES (?, ?, ?)`,
		id, data, mime,
	)
	if err != nil {
		return fmt.Errorf("saving image: %w", err)
	}
	return nil
}

// GetImage returns image data and MIME type by id, or nil data if missing.
func GetImage(ctx context.Context, db *sql.DB, id string) ([]byte, string, error) {
	var data []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT data, mime FROM images WHERE id = ?`, id,
	).Scan(&data, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting image: %w", err)
	}
	return data, mime.String, nil
}

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/nrstore/storefront/internal/model"
)

// commentDateFormat matches the human-readable dates the remote backend
// returns in comment threads.
const commentDateFormat = "2006-01-02 15:04"

// ListComments returns a product's comments, oldest first.
func ListComments(ctx context.Context, db *sql.DB, productID int64) ([]model.Comment, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT username, comment, created_at FROM comments WHERE product_id = ? ORDER BY id`,
		productID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing comments: %w", err)
	}
	defer rows.Close()

	var comments []model.Comment
	for rows.Next() {
		var c model.Comment
		var createdAt time.Time
		if err := rows.Scan(&c.Username, &c.Text, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning comment: %w", err)
		}
		c.Date = createdAt.Format(commentDateFormat)
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// AddComment appends a comment to a product's thread.
func AddComment(ctx context.Context, db *sql.DB, productID int64, username, text string) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO comments (product_id, username, comment) VALUES (?, ?, ?)`,
		productID, username, text,
	)
	if err != nil {
		return fmt.Errorf("adding comment: %w", err)
	}
	return nil
}

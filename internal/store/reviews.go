// File: internal/store/reviews.go
package store

import (
	"context"
	"fmt"
	"net/url"

	"devcamper/internal/database"
	"devcamper/internal/model"
	"devcamper/internal/query"

	"github.com/jackc/pgx/v5"
)

const reviewColumns = `id, bootcamp_id, user_id, title, text, rating, created_at`

var ReviewSchema = query.Schema{
	Table: "reviews",
	Fields: []query.Field{
		{Name: "id", Column: "id", Kind: query.Int},
		{Name: "bootcamp", Column: "bootcamp_id", Kind: query.Int},
		{Name: "user", Column: "user_id", Kind: query.Int},
		{Name: "title", Column: "title", Kind: query.Text},
		{Name: "text", Column: "text", Kind: query.Text},
		{Name: "rating", Column: "rating", Kind: query.Int},
		{Name: "createdAt", Column: "created_at", Kind: query.Time},
	},
}

func scanReview(row pgx.Row) (*model.Review, error) {
	r := &model.Review{}
	err := row.Scan(
		&r.ID,
		&r.BootcampID,
		&r.UserID,
		&r.Title,
		&r.Text,
		&r.Rating,
		&r.CreatedAt,
	)
	return r, err
}

func GetReviewByID(ctx context.Context, db database.DB, id int) (*model.Review, error) {
	r, err := scanReview(db.QueryRow(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE id = $1`,
		id,
	))
	if err != nil {
		return nil, fmt.Errorf("GetReviewByID: %w", err)
	}
	return r, nil
}

// CreateReview 同一使用者對同一 bootcamp 只能評論一次 (UNIQUE 限制)
func CreateReview(ctx context.Context, db database.DB, r *model.Review) (*model.Review, error) {
	row := db.QueryRow(ctx,
		`INSERT INTO reviews (bootcamp_id, user_id, title, text, rating)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		r.BootcampID,
		r.UserID,
		r.Title,
		r.Text,
		r.Rating,
	)
	if err := row.Scan(&r.ID, &r.CreatedAt); err != nil {
		return nil, fmt.Errorf("CreateReview: %w", err)
	}
	if err := UpdateAverageRating(ctx, db, r.BootcampID); err != nil {
		return nil, err
	}
	return r, nil
}

func UpdateReview(ctx context.Context, db database.DB, r *model.Review) error {
	tag, err := db.Exec(ctx,
		`UPDATE reviews SET title = $1, text = $2, rating = $3 WHERE id = $4`,
		r.Title,
		r.Text,
		r.Rating,
		r.ID,
	)
	if err != nil {
		return fmt.Errorf("UpdateReview: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("UpdateReview: %w", pgx.ErrNoRows)
	}
	return UpdateAverageRating(ctx, db, r.BootcampID)
}

func DeleteReview(ctx context.Context, db database.DB, r *model.Review) error {
	tag, err := db.Exec(ctx,
		`DELETE FROM reviews WHERE id = $1`,
		r.ID,
	)
	if err != nil {
		return fmt.Errorf("DeleteReview: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("DeleteReview: %w", pgx.ErrNoRows)
	}
	return UpdateAverageRating(ctx, db, r.BootcampID)
}

func UpdateAverageRating(ctx context.Context, db database.DB, bootcampID int) error {
	_, err := db.Exec(ctx,
		`UPDATE bootcamps
		 SET average_rating = (SELECT AVG(rating)::float8 FROM reviews WHERE bootcamp_id = $1)
		 WHERE id = $1`,
		bootcampID,
	)
	if err != nil {
		return fmt.Errorf("UpdateAverageRating: %w", err)
	}
	return nil
}

func ListReviews(ctx context.Context, db database.DB, params url.Values, bootcampID int) (*query.Result, error) {
	return query.Run(ctx, db, ReviewSchema, params, query.Options{
		Scope:    bootcampScope(bootcampID),
		Populate: PopulateBootcamp,
	})
}

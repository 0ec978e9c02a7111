package repository

import (
	"context"
	"database/sql"

	"github.com/mkarani499/video-platform-2/app/entity"
)

type VideoRepository struct {
	db DBTX
}

func NewVideoRepository(db DBTX) *VideoRepository {
	return &VideoRepository{db: db}
}

func (r *VideoRepository) Create(ctx context.Context, video *entity.Video) error {
	query := `
		INSERT INTO videos (title, description, price, url, thumbnail, duration, is_public, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		video.Title,
		video.Description,
		video.Price,
		video.URL,
		video.Thumbnail,
		video.Duration,
		video.IsPublic,
		video.CreatedAt,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	video.ID = uint64(id)
	return nil
}

func (r *VideoRepository) FindByID(ctx context.Context, id uint64) (*entity.Video, error) {
	query := `
		SELECT id, title, description, price, url, thumbnail, duration, is_public, created_at
		FROM videos
		WHERE id = ?
	`

	video := &entity.Video{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&video.ID,
		&video.Title,
		&video.Description,
		&video.Price,
		&video.URL,
		&video.Thumbnail,
		&video.Duration,
		&video.IsPublic,
		&video.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return video, nil
}

func (r *VideoRepository) ListPublic(ctx context.Context) ([]*entity.Video, error) {
	query := `
		SELECT id, title, description, price, url, thumbnail, duration, is_public, created_at
		FROM videos
		WHERE is_public = TRUE
		ORDER BY id DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	videos := make([]*entity.Video, 0)
	for rows.Next() {
		video := &entity.Video{}
		if err := rows.Scan(
			&video.ID,
			&video.Title,
			&video.Description,
			&video.Price,
			&video.URL,
			&video.Thumbnail,
			&video.Duration,
			&video.IsPublic,
			&video.CreatedAt,
		); err != nil {
			return nil, err
		}
		videos = append(videos, video)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return videos, nil
}

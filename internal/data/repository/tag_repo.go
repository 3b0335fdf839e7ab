package repository

import (
	"context"
	"errors"
	"fmt"

	"backoffice/internal/data/entity"
	"backoffice/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type TagFilter struct {
	Search string
}

type TagRepository interface {
	Create(ctx context.Context, tag *entity.Tag) error
	FindByID(ctx context.Context, id int64) (*entity.Tag, error)
	FindByName(ctx context.Context, name string) (*entity.Tag, error)
	Search(ctx context.Context, filter TagFilter, limit, offset int) ([]*entity.Tag, error)
	Count(ctx context.Context, filter TagFilter) (int64, error)
	Update(ctx context.Context, tag *entity.Tag) error
	Delete(ctx context.Context, id int64) error
	DeleteByIDs(ctx context.Context, ids []int64) (int64, error)
}

type tagRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewTagRepository(db database.Querier, log *zap.Logger) TagRepository {
	return &tagRepository{
		db:  db,
		log: log.With(zap.String("repository", "tag")),
	}
}

const tagColumns = `id, name, color, created_at, updated_at`

func (tr *tagRepository) Create(ctx context.Context, tag *entity.Tag) error {
	query := `
		INSERT INTO tags (name, color)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`

	err := tr.db.QueryRow(ctx, query, tag.Name, tag.Color).
		Scan(&tag.ID, &tag.CreatedAt, &tag.UpdatedAt)
	if err != nil {
		tr.log.Error("Failed to create tag", zap.Error(err), zap.String("name", tag.Name))
		return fmt.Errorf("create tag %s: %w", tag.Name, err)
	}

	return nil
}

func (tr *tagRepository) FindByID(ctx context.Context, id int64) (*entity.Tag, error) {
	return tr.findOne(ctx, `SELECT `+tagColumns+` FROM tags WHERE id = $1`, id)
}

func (tr *tagRepository) FindByName(ctx context.Context, name string) (*entity.Tag, error) {
	return tr.findOne(ctx, `SELECT `+tagColumns+` FROM tags WHERE name = $1`, name)
}

func (tr *tagRepository) findOne(ctx context.Context, query string, arg any) (*entity.Tag, error) {
	var tag entity.Tag
	err := tr.db.QueryRow(ctx, query, arg).
		Scan(&tag.ID, &tag.Name, &tag.Color, &tag.CreatedAt, &tag.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		tr.log.Error("Failed to find tag", zap.Error(err), zap.Any("key", arg))
		return nil, fmt.Errorf("find tag %v: %w", arg, err)
	}

	return &tag, nil
}

func (tr *tagRepository) Search(ctx context.Context, filter TagFilter, limit, offset int) ([]*entity.Tag, error) {
	var w whereBuilder
	w.addSearch(filter.Search, "name")

	query := `SELECT ` + tagColumns + ` FROM tags` + w.sql() +
		` ORDER BY created_at DESC, id DESC LIMIT ` + w.next()
	w.args = append(w.args, limit)
	query += ` OFFSET ` + w.next()
	w.args = append(w.args, offset)

	rows, err := tr.db.Query(ctx, query, w.args...)
	if err != nil {
		tr.log.Error("Failed to search tags",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("search tags limit %d offset %d: %w", limit, offset, err)
	}
	defer rows.Close()

	tags := []*entity.Tag{}
	for rows.Next() {
		var tag entity.Tag
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.Color, &tag.CreatedAt, &tag.UpdatedAt); err != nil {
			tr.log.Error("Failed to scan tag row", zap.Error(err))
			return nil, fmt.Errorf("scan tag row: %w", err)
		}
		tags = append(tags, &tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tags rows: %w", err)
	}

	return tags, nil
}

func (tr *tagRepository) Count(ctx context.Context, filter TagFilter) (int64, error) {
	var w whereBuilder
	w.addSearch(filter.Search, "name")

	var count int64
	if err := tr.db.QueryRow(ctx, `SELECT COUNT(*) FROM tags`+w.sql(), w.args...).Scan(&count); err != nil {
		tr.log.Error("Database error counting tags", zap.Error(err))
		return 0, fmt.Errorf("count tags: %w", err)
	}
	return count, nil
}

func (tr *tagRepository) Update(ctx context.Context, tag *entity.Tag) error {
	query := `
		UPDATE tags
		SET name = $2, color = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := tr.db.QueryRow(ctx, query, tag.ID, tag.Name, tag.Color).Scan(&tag.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("update tag %d: %w", tag.ID, ErrNotFound)
	}
	if err != nil {
		tr.log.Error("Failed to update tag", zap.Error(err), zap.Int64("tag_id", tag.ID))
		return fmt.Errorf("update tag %d: %w", tag.ID, err)
	}

	return nil
}

func (tr *tagRepository) Delete(ctx context.Context, id int64) error {
	result, err := tr.db.Exec(ctx, `DELETE FROM tags WHERE id = $1`, id)
	if err != nil {
		tr.log.Error("Failed to delete tag", zap.Error(err), zap.Int64("id", id))
		return fmt.Errorf("delete tag %d: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete tag %d: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteByIDs removes the listed tags and reports how many existed.
func (tr *tagRepository) DeleteByIDs(ctx context.Context, ids []int64) (int64, error) {
	result, err := tr.db.Exec(ctx, `DELETE FROM tags WHERE id = ANY($1)`, ids)
	if err != nil {
		tr.log.Error("Failed to bulk delete tags", zap.Error(err), zap.Int64s("ids", ids))
		return 0, fmt.Errorf("bulk delete tags: %w", err)
	}
	return result.RowsAffected(), nil
}

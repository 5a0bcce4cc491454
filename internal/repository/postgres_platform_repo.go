package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/anischedule/internal/model"
)

// PostgresPlatformRepo はPostgreSQLを使用したプラットフォームリポジトリ。
type PostgresPlatformRepo struct {
	db *sql.DB
}

// NewPostgresPlatformRepo はPostgresPlatformRepoを生成する。
func NewPostgresPlatformRepo(db *sql.DB) *PostgresPlatformRepo {
	return &PostgresPlatformRepo{db: db}
}

// FindByID は指定IDのプラットフォームを取得する。見つからない場合はnilを返す。
func (r *PostgresPlatformRepo) FindByID(ctx context.Context, id string) (*model.Platform, error) {
	platform := &model.Platform{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, created_at, updated_at FROM platforms WHERE id = $1`, id,
	).Scan(&platform.ID, &platform.Name, &platform.CreatedAt, &platform.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("プラットフォームの取得に失敗しました: %w", err)
	}
	return platform, nil
}

// FindByName は名前でプラットフォームを検索する。見つからない場合はnilを返す。
func (r *PostgresPlatformRepo) FindByName(ctx context.Context, name string) (*model.Platform, error) {
	platform := &model.Platform{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, created_at, updated_at FROM platforms WHERE name = $1`, name,
	).Scan(&platform.ID, &platform.Name, &platform.CreatedAt, &platform.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("名前によるプラットフォームの検索に失敗しました: %w", err)
	}
	return platform, nil
}

// Create はプラットフォームを作成する。
func (r *PostgresPlatformRepo) Create(ctx context.Context, platform *model.Platform) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO platforms (id, name, created_at, updated_at) VALUES ($1, $2, $3, $4)`,
		platform.ID, platform.Name, platform.CreatedAt, platform.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("プラットフォームの作成に失敗しました: %w", err)
	}
	return nil
}

// Update はプラットフォーム情報を更新する。
func (r *PostgresPlatformRepo) Update(ctx context.Context, platform *model.Platform) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE platforms SET name = $2, updated_at = $3 WHERE id = $1`,
		platform.ID, platform.Name, platform.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("プラットフォームの更新に失敗しました: %w", err)
	}
	return nil
}

// Delete は指定IDのプラットフォームを削除する。
func (r *PostgresPlatformRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM platforms WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("プラットフォームの削除に失敗しました: %w", err)
	}
	return nil
}

// List は全プラットフォームを名前昇順で取得する。
func (r *PostgresPlatformRepo) List(ctx context.Context) ([]*model.Platform, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, created_at, updated_at FROM platforms ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("プラットフォーム一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var platforms []*model.Platform
	for rows.Next() {
		platform := &model.Platform{}
		if err := rows.Scan(&platform.ID, &platform.Name, &platform.CreatedAt, &platform.UpdatedAt); err != nil {
			return nil, fmt.Errorf("プラットフォーム一覧の読み取りに失敗しました: %w", err)
		}
		platforms = append(platforms, platform)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("プラットフォーム一覧の走査に失敗しました: %w", err)
	}

	return platforms, nil
}

// compile-time interface check
var _ PlatformRepository = (*PostgresPlatformRepo)(nil)

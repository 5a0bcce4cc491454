package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hitoshi/anischedule/internal/model"
)

// PostgresAnimeRepo はPostgreSQLを使用したアニメリポジトリ。
type PostgresAnimeRepo struct {
	db *sql.DB
}

// NewPostgresAnimeRepo はPostgresAnimeRepoを生成する。
func NewPostgresAnimeRepo(db *sql.DB) *PostgresAnimeRepo {
	return &PostgresAnimeRepo{db: db}
}

// animeColumns はanimesテーブルのSELECT列リスト。
const animeColumns = `id, mal_id, title, picture, release_at, episode_total, status, created_at, updated_at`

// scanAnime は1行分のアニメを読み取る。
func scanAnime(scan func(dest ...any) error) (*model.Anime, error) {
	anime := &model.Anime{}
	var picture sql.NullString
	var releaseAt sql.NullTime

	if err := scan(
		&anime.ID, &anime.MalID, &anime.Title, &picture,
		&releaseAt, &anime.EpisodeTotal, &anime.Status,
		&anime.CreatedAt, &anime.UpdatedAt,
	); err != nil {
		return nil, err
	}

	anime.Picture = nullStringValue(picture)
	anime.ReleaseAt = nullTimeValue(releaseAt)
	return anime, nil
}

// FindByID は指定IDのアニメを取得する。見つからない場合はnilを返す。
func (r *PostgresAnimeRepo) FindByID(ctx context.Context, id string) (*model.Anime, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+animeColumns+` FROM animes WHERE id = $1`, id)

	anime, err := scanAnime(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("アニメの取得に失敗しました: %w", err)
	}
	return anime, nil
}

// FindByMalID は外部カタログIDでアニメを検索する。見つからない場合はnilを返す。
func (r *PostgresAnimeRepo) FindByMalID(ctx context.Context, malID int64) (*model.Anime, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+animeColumns+` FROM animes WHERE mal_id = $1`, malID)

	anime, err := scanAnime(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("外部カタログIDによるアニメの検索に失敗しました: %w", err)
	}
	return anime, nil
}

// Create はアニメを作成する。
func (r *PostgresAnimeRepo) Create(ctx context.Context, anime *model.Anime) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO animes (id, mal_id, title, picture, release_at, episode_total, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		anime.ID, anime.MalID, anime.Title, nullString(anime.Picture),
		nullTime(anime.ReleaseAt), anime.EpisodeTotal, anime.Status,
		anime.CreatedAt, anime.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("アニメの作成に失敗しました: %w", err)
	}
	return nil
}

// Update はアニメ情報を更新する。
func (r *PostgresAnimeRepo) Update(ctx context.Context, anime *model.Anime) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE animes SET
		    title = $2, picture = $3, release_at = $4,
		    episode_total = $5, status = $6, updated_at = $7
		 WHERE id = $1`,
		anime.ID, anime.Title, nullString(anime.Picture),
		nullTime(anime.ReleaseAt), anime.EpisodeTotal, anime.Status,
		anime.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("アニメの更新に失敗しました: %w", err)
	}
	return nil
}

// UpdateStatus はアニメの放送ステータスのみを更新する。
func (r *PostgresAnimeRepo) UpdateStatus(ctx context.Context, id string, status model.AnimeStatus) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE animes SET status = $2, updated_at = now() WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return fmt.Errorf("アニメステータスの更新に失敗しました: %w", err)
	}
	return nil
}

// Delete は指定IDのアニメを削除する。関連行はCASCADE削除される。
func (r *PostgresAnimeRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM animes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("アニメの削除に失敗しました: %w", err)
	}
	return nil
}

// List は全アニメをタイトル昇順で取得する。
func (r *PostgresAnimeRepo) List(ctx context.Context) ([]*model.Anime, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+animeColumns+` FROM animes ORDER BY title ASC`)
	if err != nil {
		return nil, fmt.Errorf("アニメ一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var animes []*model.Anime
	for rows.Next() {
		anime, err := scanAnime(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("アニメ一覧の読み取りに失敗しました: %w", err)
		}
		animes = append(animes, anime)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("アニメ一覧の走査に失敗しました: %w", err)
	}

	return animes, nil
}

// nullString は空文字列をsql.NullStringに変換する。
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// nullStringValue はsql.NullStringから文字列を取得する。
func nullStringValue(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// nullTime は*time.Timeをsql.NullTimeに変換する。
func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// nullTimeValue はsql.NullTimeから*time.Timeを取得する。
func nullTimeValue(nt sql.NullTime) *time.Time {
	if nt.Valid {
		t := nt.Time
		return &t
	}
	return nil
}

// compile-time interface check
var _ AnimeRepository = (*PostgresAnimeRepo)(nil)

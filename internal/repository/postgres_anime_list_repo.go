package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/anischedule/internal/model"
)

// PostgresAnimeListRepo はPostgreSQLを使用した視聴リストリポジトリ。
type PostgresAnimeListRepo struct {
	db *sql.DB
}

// NewPostgresAnimeListRepo はPostgresAnimeListRepoを生成する。
func NewPostgresAnimeListRepo(db *sql.DB) *PostgresAnimeListRepo {
	return &PostgresAnimeListRepo{db: db}
}

// animeListColumns はanime_listsテーブルのSELECT列リスト。
const animeListColumns = `user_id, anime_id, anime_platform_id, progress, episodes_difference,
	        score, status, start_date, finish_date, created_at, updated_at`

// scanAnimeListEntry は1行分の視聴リストエントリを読み取る。
func scanAnimeListEntry(scan func(dest ...any) error) (*model.AnimeListEntry, error) {
	entry := &model.AnimeListEntry{}
	var animePlatformID, status sql.NullString
	var startDate, finishDate sql.NullTime

	if err := scan(
		&entry.UserID, &entry.AnimeID, &animePlatformID,
		&entry.Progress, &entry.EpisodesDifference,
		&entry.Score, &status, &startDate, &finishDate,
		&entry.CreatedAt, &entry.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if animePlatformID.Valid {
		id := animePlatformID.String
		entry.AnimePlatformID = &id
	}
	entry.Status = nullStringValue(status)
	entry.StartDate = nullTimeValue(startDate)
	entry.FinishDate = nullTimeValue(finishDate)
	return entry, nil
}

// FindByUserAndAnime は(userID, animeID)でエントリを検索する。見つからない場合はnilを返す。
func (r *PostgresAnimeListRepo) FindByUserAndAnime(ctx context.Context, userID, animeID string) (*model.AnimeListEntry, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+animeListColumns+` FROM anime_lists
		 WHERE user_id = $1 AND anime_id = $2`, userID, animeID)

	entry, err := scanAnimeListEntry(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("視聴リストエントリの取得に失敗しました: %w", err)
	}
	return entry, nil
}

// ListByUserID はユーザーの全エントリを取得する。
func (r *PostgresAnimeListRepo) ListByUserID(ctx context.Context, userID string) ([]*model.AnimeListEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+animeListColumns+` FROM anime_lists
		 WHERE user_id = $1 ORDER BY anime_id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("視聴リストの取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var entries []*model.AnimeListEntry
	for rows.Next() {
		entry, err := scanAnimeListEntry(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("視聴リストの読み取りに失敗しました: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("視聴リストの走査に失敗しました: %w", err)
	}

	return entries, nil
}

// Upsert は(userID, animeID)をキーにエントリを作成または更新する。
// xmax = 0 はINSERTされた行でのみ成立するため、新規作成の判定に使用する。
func (r *PostgresAnimeListRepo) Upsert(ctx context.Context, entry *model.AnimeListEntry) (bool, error) {
	var animePlatformID sql.NullString
	if entry.AnimePlatformID != nil {
		animePlatformID = sql.NullString{String: *entry.AnimePlatformID, Valid: true}
	}

	var inserted bool
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO anime_lists (user_id, anime_id, anime_platform_id, progress, episodes_difference,
		     score, status, start_date, finish_date, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 ON CONFLICT (user_id, anime_id) DO UPDATE SET
		     anime_platform_id = EXCLUDED.anime_platform_id,
		     progress = EXCLUDED.progress,
		     episodes_difference = EXCLUDED.episodes_difference,
		     score = EXCLUDED.score,
		     status = EXCLUDED.status,
		     start_date = EXCLUDED.start_date,
		     finish_date = EXCLUDED.finish_date,
		     updated_at = EXCLUDED.updated_at
		 RETURNING (xmax = 0)`,
		entry.UserID, entry.AnimeID, animePlatformID,
		entry.Progress, entry.EpisodesDifference,
		entry.Score, nullString(entry.Status),
		nullTime(entry.StartDate), nullTime(entry.FinishDate),
		entry.CreatedAt, entry.UpdatedAt,
	).Scan(&inserted)
	if err != nil {
		return false, fmt.Errorf("視聴リストエントリのUPSERTに失敗しました: %w", err)
	}
	return inserted, nil
}

// Delete は(userID, animeID)のエントリを削除する。
func (r *PostgresAnimeListRepo) Delete(ctx context.Context, userID, animeID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM anime_lists WHERE user_id = $1 AND anime_id = $2`, userID, animeID)
	if err != nil {
		return fmt.Errorf("視聴リストエントリの削除に失敗しました: %w", err)
	}
	return nil
}

// compile-time interface check
var _ AnimeListRepository = (*PostgresAnimeListRepo)(nil)

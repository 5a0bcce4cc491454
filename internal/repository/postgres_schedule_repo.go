package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hitoshi/anischedule/internal/model"
)

// PostgresPlatformScheduleRepo はPostgreSQLを使用した
// キュレーション済みスケジュールリポジトリ。
type PostgresPlatformScheduleRepo struct {
	db *sql.DB
}

// NewPostgresPlatformScheduleRepo はPostgresPlatformScheduleRepoを生成する。
func NewPostgresPlatformScheduleRepo(db *sql.DB) *PostgresPlatformScheduleRepo {
	return &PostgresPlatformScheduleRepo{db: db}
}

// platformScheduleColumns はplatform_schedulesテーブルのSELECT列リスト。
const platformScheduleColumns = `id, anime_platform_id, episode_number, update_on, is_updated, created_at, updated_at`

// scanPlatformSchedule は1行分のスケジュールを読み取る。
func scanPlatformSchedule(scan func(dest ...any) error) (*model.PlatformSchedule, error) {
	s := &model.PlatformSchedule{}
	if err := scan(
		&s.ID, &s.AnimePlatformID, &s.EpisodeNumber, &s.UpdateOn,
		&s.IsUpdated, &s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return s, nil
}

// FindByID は指定IDのスケジュールを取得する。見つからない場合はnilを返す。
func (r *PostgresPlatformScheduleRepo) FindByID(ctx context.Context, id string) (*model.PlatformSchedule, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+platformScheduleColumns+` FROM platform_schedules WHERE id = $1`, id)

	s, err := scanPlatformSchedule(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("スケジュールの取得に失敗しました: %w", err)
	}
	return s, nil
}

// FindByPlatformAndEpisode は(animePlatformID, episodeNumber)でスケジュールを検索する。
// 見つからない場合はnilを返す。
func (r *PostgresPlatformScheduleRepo) FindByPlatformAndEpisode(ctx context.Context, animePlatformID string, episodeNumber int) (*model.PlatformSchedule, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+platformScheduleColumns+` FROM platform_schedules
		 WHERE anime_platform_id = $1 AND episode_number = $2`,
		animePlatformID, episodeNumber)

	s, err := scanPlatformSchedule(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("エピソード番号によるスケジュールの検索に失敗しました: %w", err)
	}
	return s, nil
}

// ListByAnimePlatformID はアニメプラットフォームの全スケジュールを
// エピソード番号昇順で取得する。
func (r *PostgresPlatformScheduleRepo) ListByAnimePlatformID(ctx context.Context, animePlatformID string) ([]*model.PlatformSchedule, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+platformScheduleColumns+` FROM platform_schedules
		 WHERE anime_platform_id = $1
		 ORDER BY episode_number ASC`, animePlatformID)
	if err != nil {
		return nil, fmt.Errorf("スケジュール一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	return collectPlatformSchedules(rows)
}

// Upsert は(animePlatformID, episodeNumber)をキーにスケジュールを
// アトミックに作成または更新する。更新時はis_updatedをfalseに戻し、
// 日時変更後のエントリがAdvancerによって再度適用されるようにする。
func (r *PostgresPlatformScheduleRepo) Upsert(ctx context.Context, schedule *model.PlatformSchedule) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO platform_schedules (id, anime_platform_id, episode_number, update_on, is_updated, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, FALSE, $5, $6)
		 ON CONFLICT (anime_platform_id, episode_number) DO UPDATE SET
		     update_on = EXCLUDED.update_on,
		     is_updated = FALSE,
		     updated_at = EXCLUDED.updated_at`,
		schedule.ID, schedule.AnimePlatformID, schedule.EpisodeNumber,
		schedule.UpdateOn, schedule.CreatedAt, schedule.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("スケジュールのUPSERTに失敗しました: %w", err)
	}
	return nil
}

// ListDue は適用期限が到来した未適用スケジュールをエピソード番号昇順で取得する。
// 同一プラットフォーム内の因果的な適用順序を保つため、エピソード番号を第一キーとする。
func (r *PostgresPlatformScheduleRepo) ListDue(ctx context.Context, now time.Time) ([]*model.PlatformSchedule, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+platformScheduleColumns+` FROM platform_schedules
		 WHERE is_updated = FALSE AND update_on <= $1
		 ORDER BY episode_number ASC, update_on ASC`, now)
	if err != nil {
		return nil, fmt.Errorf("適用対象スケジュールの取得に失敗しました: %w", err)
	}
	defer rows.Close()

	return collectPlatformSchedules(rows)
}

// MarkUpdated はスケジュールを適用済みにする。
// このフラグがAdvancerの冪等性を保証する唯一のガードとなる。
func (r *PostgresPlatformScheduleRepo) MarkUpdated(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE platform_schedules SET is_updated = TRUE, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("スケジュールの適用済みマークに失敗しました: %w", err)
	}
	return nil
}

// Delete は指定IDのスケジュールを削除する。
func (r *PostgresPlatformScheduleRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM platform_schedules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("スケジュールの削除に失敗しました: %w", err)
	}
	return nil
}

// collectPlatformSchedules は全行分のスケジュールを読み取る。
func collectPlatformSchedules(rows *sql.Rows) ([]*model.PlatformSchedule, error) {
	var schedules []*model.PlatformSchedule
	for rows.Next() {
		s, err := scanPlatformSchedule(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("スケジュールの読み取りに失敗しました: %w", err)
		}
		schedules = append(schedules, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("スケジュールの走査に失敗しました: %w", err)
	}

	return schedules, nil
}

// PostgresAnimeScheduleRepo はPostgreSQLを使用したアニメ遷移予約リポジトリ。
type PostgresAnimeScheduleRepo struct {
	db *sql.DB
}

// NewPostgresAnimeScheduleRepo はPostgresAnimeScheduleRepoを生成する。
func NewPostgresAnimeScheduleRepo(db *sql.DB) *PostgresAnimeScheduleRepo {
	return &PostgresAnimeScheduleRepo{db: db}
}

// animeScheduleColumns はanime_schedulesテーブルのSELECT列リスト。
const animeScheduleColumns = `id, anime_id, status, update_on, is_updated, created_at, updated_at`

// scanAnimeSchedule は1行分の遷移予約を読み取る。
func scanAnimeSchedule(scan func(dest ...any) error) (*model.AnimeSchedule, error) {
	s := &model.AnimeSchedule{}
	if err := scan(
		&s.ID, &s.AnimeID, &s.Status, &s.UpdateOn,
		&s.IsUpdated, &s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return s, nil
}

// FindByID は指定IDの遷移予約を取得する。見つからない場合はnilを返す。
func (r *PostgresAnimeScheduleRepo) FindByID(ctx context.Context, id string) (*model.AnimeSchedule, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+animeScheduleColumns+` FROM anime_schedules WHERE id = $1`, id)

	s, err := scanAnimeSchedule(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("遷移予約の取得に失敗しました: %w", err)
	}
	return s, nil
}

// ListByAnimeID はアニメの全遷移予約を取得する。
func (r *PostgresAnimeScheduleRepo) ListByAnimeID(ctx context.Context, animeID string) ([]*model.AnimeSchedule, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+animeScheduleColumns+` FROM anime_schedules
		 WHERE anime_id = $1 ORDER BY update_on ASC`, animeID)
	if err != nil {
		return nil, fmt.Errorf("遷移予約一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	return collectAnimeSchedules(rows)
}

// Upsert は(animeID, status)をキーに遷移予約をアトミックに作成または更新する。
func (r *PostgresAnimeScheduleRepo) Upsert(ctx context.Context, schedule *model.AnimeSchedule) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO anime_schedules (id, anime_id, status, update_on, is_updated, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, FALSE, $5, $6)
		 ON CONFLICT (anime_id, status) DO UPDATE SET
		     update_on = EXCLUDED.update_on,
		     is_updated = FALSE,
		     updated_at = EXCLUDED.updated_at`,
		schedule.ID, schedule.AnimeID, schedule.Status,
		schedule.UpdateOn, schedule.CreatedAt, schedule.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("遷移予約のUPSERTに失敗しました: %w", err)
	}
	return nil
}

// ListDue は適用期限が到来した未適用の遷移予約を取得する。
func (r *PostgresAnimeScheduleRepo) ListDue(ctx context.Context, now time.Time) ([]*model.AnimeSchedule, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+animeScheduleColumns+` FROM anime_schedules
		 WHERE is_updated = FALSE AND update_on <= $1
		 ORDER BY update_on ASC`, now)
	if err != nil {
		return nil, fmt.Errorf("適用対象遷移予約の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	return collectAnimeSchedules(rows)
}

// MarkUpdated は遷移予約を適用済みにする。
func (r *PostgresAnimeScheduleRepo) MarkUpdated(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE anime_schedules SET is_updated = TRUE, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("遷移予約の適用済みマークに失敗しました: %w", err)
	}
	return nil
}

// Delete は指定IDの遷移予約を削除する。
func (r *PostgresAnimeScheduleRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM anime_schedules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("遷移予約の削除に失敗しました: %w", err)
	}
	return nil
}

// collectAnimeSchedules は全行分の遷移予約を読み取る。
func collectAnimeSchedules(rows *sql.Rows) ([]*model.AnimeSchedule, error) {
	var schedules []*model.AnimeSchedule
	for rows.Next() {
		s, err := scanAnimeSchedule(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("遷移予約の読み取りに失敗しました: %w", err)
		}
		schedules = append(schedules, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("遷移予約の走査に失敗しました: %w", err)
	}

	return schedules, nil
}

// compile-time interface checks
var (
	_ PlatformScheduleRepository = (*PostgresPlatformScheduleRepo)(nil)
	_ AnimeScheduleRepository    = (*PostgresAnimeScheduleRepo)(nil)
)

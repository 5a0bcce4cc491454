package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hitoshi/anischedule/internal/model"
)

// PostgresAnimePlatformRepo はPostgreSQLを使用したアニメプラットフォームリポジトリ。
type PostgresAnimePlatformRepo struct {
	db *sql.DB
}

// NewPostgresAnimePlatformRepo はPostgresAnimePlatformRepoを生成する。
func NewPostgresAnimePlatformRepo(db *sql.DB) *PostgresAnimePlatformRepo {
	return &PostgresAnimePlatformRepo{db: db}
}

// animePlatformColumns はanime_platformsテーブルのSELECT列リスト。
const animePlatformColumns = `id, anime_id, platform_id, link, access_type,
	        episode_aired, last_episode_aired_at, next_episode_airing_at,
	        interval_in_days, is_main_platform, is_hiatus, created_at, updated_at`

// scanAnimePlatform は1行分のアニメプラットフォームを読み取る。
func scanAnimePlatform(scan func(dest ...any) error) (*model.AnimePlatform, error) {
	ap := &model.AnimePlatform{}
	var link, accessType sql.NullString
	var lastAiredAt, nextAiringAt sql.NullTime

	if err := scan(
		&ap.ID, &ap.AnimeID, &ap.PlatformID, &link, &accessType,
		&ap.EpisodeAired, &lastAiredAt, &nextAiringAt,
		&ap.IntervalInDays, &ap.IsMainPlatform, &ap.IsHiatus,
		&ap.CreatedAt, &ap.UpdatedAt,
	); err != nil {
		return nil, err
	}

	ap.Link = nullStringValue(link)
	ap.AccessType = nullStringValue(accessType)
	ap.LastEpisodeAiredAt = nullTimeValue(lastAiredAt)
	ap.NextEpisodeAiringAt = nullTimeValue(nextAiringAt)
	return ap, nil
}

// FindByID は指定IDのアニメプラットフォームを取得する。見つからない場合はnilを返す。
func (r *PostgresAnimePlatformRepo) FindByID(ctx context.Context, id string) (*model.AnimePlatform, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+animePlatformColumns+` FROM anime_platforms WHERE id = $1`, id)

	ap, err := scanAnimePlatform(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("アニメプラットフォームの取得に失敗しました: %w", err)
	}
	return ap, nil
}

// FindByAnimeAndPlatform は(animeID, platformID)でアニメプラットフォームを検索する。
// 見つからない場合はnilを返す。
func (r *PostgresAnimePlatformRepo) FindByAnimeAndPlatform(ctx context.Context, animeID, platformID string) (*model.AnimePlatform, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+animePlatformColumns+` FROM anime_platforms
		 WHERE anime_id = $1 AND platform_id = $2`, animeID, platformID)

	ap, err := scanAnimePlatform(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("アニメプラットフォームの検索に失敗しました: %w", err)
	}
	return ap, nil
}

// joinedAnimePlatformColumns は親アニメとプラットフォーム名を結合したSELECT列リスト。
const joinedAnimePlatformColumns = `ap.id, ap.anime_id, ap.platform_id, ap.link, ap.access_type,
	        ap.episode_aired, ap.last_episode_aired_at, ap.next_episode_airing_at,
	        ap.interval_in_days, ap.is_main_platform, ap.is_hiatus, ap.created_at, ap.updated_at,
	        a.id, a.mal_id, a.title, a.picture, a.release_at, a.episode_total, a.status,
	        a.created_at, a.updated_at,
	        p.name`

// scanAnimePlatformWithAnime は結合済みの1行分を読み取る。
func scanAnimePlatformWithAnime(scan func(dest ...any) error) (*AnimePlatformWithAnime, error) {
	row := &AnimePlatformWithAnime{}
	var link, accessType, picture sql.NullString
	var lastAiredAt, nextAiringAt, releaseAt sql.NullTime

	if err := scan(
		&row.ID, &row.AnimeID, &row.PlatformID, &link, &accessType,
		&row.EpisodeAired, &lastAiredAt, &nextAiringAt,
		&row.IntervalInDays, &row.IsMainPlatform, &row.IsHiatus,
		&row.CreatedAt, &row.UpdatedAt,
		&row.Anime.ID, &row.Anime.MalID, &row.Anime.Title, &picture,
		&releaseAt, &row.Anime.EpisodeTotal, &row.Anime.Status,
		&row.Anime.CreatedAt, &row.Anime.UpdatedAt,
		&row.PlatformName,
	); err != nil {
		return nil, err
	}

	row.Link = nullStringValue(link)
	row.AccessType = nullStringValue(accessType)
	row.LastEpisodeAiredAt = nullTimeValue(lastAiredAt)
	row.NextEpisodeAiringAt = nullTimeValue(nextAiringAt)
	row.Anime.Picture = nullStringValue(picture)
	row.Anime.ReleaseAt = nullTimeValue(releaseAt)
	return row, nil
}

// FindWithAnimeByID は指定IDのアニメプラットフォームを親アニメ付きで取得する。
// 見つからない場合はnilを返す。
func (r *PostgresAnimePlatformRepo) FindWithAnimeByID(ctx context.Context, id string) (*AnimePlatformWithAnime, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+joinedAnimePlatformColumns+`
		 FROM anime_platforms ap
		 INNER JOIN animes a ON ap.anime_id = a.id
		 INNER JOIN platforms p ON ap.platform_id = p.id
		 WHERE ap.id = $1`, id)

	result, err := scanAnimePlatformWithAnime(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("アニメプラットフォームの取得に失敗しました: %w", err)
	}
	return result, nil
}

// ListByAnimeID はアニメに紐付く全アニメプラットフォームを取得する。
func (r *PostgresAnimePlatformRepo) ListByAnimeID(ctx context.Context, animeID string) ([]*model.AnimePlatform, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+animePlatformColumns+` FROM anime_platforms
		 WHERE anime_id = $1
		 ORDER BY is_main_platform DESC, platform_id ASC`, animeID)
	if err != nil {
		return nil, fmt.Errorf("アニメプラットフォーム一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var aps []*model.AnimePlatform
	for rows.Next() {
		ap, err := scanAnimePlatform(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("アニメプラットフォーム一覧の読み取りに失敗しました: %w", err)
		}
		aps = append(aps, ap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("アニメプラットフォーム一覧の走査に失敗しました: %w", err)
	}

	return aps, nil
}

// Upsert は(animeID, platformID)をキーにアニメプラットフォームを作成または更新する。
// IsMainPlatformがtrueの場合、同一トランザクション内で同一アニメの
// 他のプラットフォームのメインフラグをクリアしてから反映する。
// メインプラットフォームはアニメごとに高々1つという不変条件を保つ。
func (r *PostgresAnimePlatformRepo) Upsert(ctx context.Context, ap *model.AnimePlatform) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("トランザクションの開始に失敗しました: %w", err)
	}
	defer tx.Rollback()

	if ap.IsMainPlatform {
		if _, err := tx.ExecContext(ctx,
			`UPDATE anime_platforms SET is_main_platform = FALSE, updated_at = now()
			 WHERE anime_id = $1 AND is_main_platform = TRUE`, ap.AnimeID); err != nil {
			return fmt.Errorf("メインプラットフォームのクリアに失敗しました: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO anime_platforms (id, anime_id, platform_id, link, access_type,
		     episode_aired, last_episode_aired_at, next_episode_airing_at,
		     interval_in_days, is_main_platform, is_hiatus, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 ON CONFLICT (anime_id, platform_id) DO UPDATE SET
		     link = EXCLUDED.link,
		     access_type = EXCLUDED.access_type,
		     episode_aired = EXCLUDED.episode_aired,
		     last_episode_aired_at = EXCLUDED.last_episode_aired_at,
		     next_episode_airing_at = EXCLUDED.next_episode_airing_at,
		     interval_in_days = EXCLUDED.interval_in_days,
		     is_main_platform = EXCLUDED.is_main_platform,
		     is_hiatus = EXCLUDED.is_hiatus,
		     updated_at = EXCLUDED.updated_at`,
		ap.ID, ap.AnimeID, ap.PlatformID, nullString(ap.Link), nullString(ap.AccessType),
		ap.EpisodeAired, nullTime(ap.LastEpisodeAiredAt), nullTime(ap.NextEpisodeAiringAt),
		ap.IntervalInDays, ap.IsMainPlatform, ap.IsHiatus, ap.CreatedAt, ap.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("アニメプラットフォームのUPSERTに失敗しました: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("トランザクションのコミットに失敗しました: %w", err)
	}
	return nil
}

// Delete は指定IDのアニメプラットフォームを削除する。
func (r *PostgresAnimePlatformRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM anime_platforms WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("アニメプラットフォームの削除に失敗しました: %w", err)
	}
	return nil
}

// ApplySchedule はキュレーション済みスケジュールの適用結果を書き込む。
func (r *PostgresAnimePlatformRepo) ApplySchedule(ctx context.Context, id string, episodeAired int, lastAiredAt time.Time, nextAiringAt *time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE anime_platforms SET
		    episode_aired = $2,
		    last_episode_aired_at = $3,
		    next_episode_airing_at = $4,
		    updated_at = now()
		 WHERE id = $1`,
		id, episodeAired, lastAiredAt, nullTime(nextAiringAt),
	)
	if err != nil {
		return fmt.Errorf("スケジュール適用の書き込みに失敗しました: %w", err)
	}
	return nil
}

// ListDueForCadence は固定周期による進行対象のアニメプラットフォームを親アニメ付きで取得する。
// 未適用のキュレーション済みスケジュールを持つプラットフォームは
// スケジュールスキャン側で処理されるため除外する。
func (r *PostgresAnimePlatformRepo) ListDueForCadence(ctx context.Context, now time.Time) ([]*AnimePlatformWithAnime, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+joinedAnimePlatformColumns+`
		 FROM anime_platforms ap
		 INNER JOIN animes a ON ap.anime_id = a.id
		 INNER JOIN platforms p ON ap.platform_id = p.id
		 WHERE ap.is_hiatus = FALSE
		   AND ap.next_episode_airing_at IS NOT NULL
		   AND ap.next_episode_airing_at <= $1
		   AND NOT EXISTS (
		       SELECT 1 FROM platform_schedules ps
		       WHERE ps.anime_platform_id = ap.id AND ps.is_updated = FALSE)
		 ORDER BY ap.next_episode_airing_at ASC`, now)
	if err != nil {
		return nil, fmt.Errorf("進行対象アニメプラットフォームの取得に失敗しました: %w", err)
	}
	defer rows.Close()

	return collectAnimePlatformsWithAnime(rows)
}

// AdvanceCadence は固定周期による進行を楽観的排他付きで書き込む。
// episode_airedが読み取り時の値のままである場合のみ更新する。
// 競合した場合はfalseを返し、次のティックで自然に再試行される。
func (r *PostgresAnimePlatformRepo) AdvanceCadence(ctx context.Context, id string, fromEpisode, episodeAired int, lastAiredAt, nextAiringAt time.Time, isHiatus bool) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE anime_platforms SET
		    episode_aired = $3,
		    last_episode_aired_at = $4,
		    next_episode_airing_at = $5,
		    is_hiatus = $6,
		    updated_at = now()
		 WHERE id = $1 AND episode_aired = $2`,
		id, fromEpisode, episodeAired, lastAiredAt, nextAiringAt, isHiatus,
	)
	if err != nil {
		return false, fmt.Errorf("固定周期進行の書き込みに失敗しました: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("固定周期進行の結果確認に失敗しました: %w", err)
	}
	return affected > 0, nil
}

// ListAiringWithin はlast_episode_aired_atまたはnext_episode_airing_atが
// [from, to]に含まれる非休止のアニメプラットフォームを親アニメ付きで取得する。
func (r *PostgresAnimePlatformRepo) ListAiringWithin(ctx context.Context, from, to time.Time) ([]*AnimePlatformWithAnime, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+joinedAnimePlatformColumns+`
		 FROM anime_platforms ap
		 INNER JOIN animes a ON ap.anime_id = a.id
		 INNER JOIN platforms p ON ap.platform_id = p.id
		 WHERE ap.is_hiatus = FALSE
		   AND ((ap.last_episode_aired_at BETWEEN $1 AND $2)
		     OR (ap.next_episode_airing_at BETWEEN $1 AND $2))
		 ORDER BY ap.anime_id ASC, ap.is_main_platform DESC, ap.platform_id ASC`,
		from, to)
	if err != nil {
		return nil, fmt.Errorf("期間内アニメプラットフォームの取得に失敗しました: %w", err)
	}
	defer rows.Close()

	return collectAnimePlatformsWithAnime(rows)
}

// collectAnimePlatformsWithAnime は結合済みの全行を読み取る。
func collectAnimePlatformsWithAnime(rows *sql.Rows) ([]*AnimePlatformWithAnime, error) {
	var results []*AnimePlatformWithAnime
	for rows.Next() {
		row, err := scanAnimePlatformWithAnime(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("アニメプラットフォームの読み取りに失敗しました: %w", err)
		}
		results = append(results, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("アニメプラットフォームの走査に失敗しました: %w", err)
	}

	return results, nil
}

// compile-time interface check
var _ AnimePlatformRepository = (*PostgresAnimePlatformRepo)(nil)

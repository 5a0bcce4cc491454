// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"time"

	"github.com/hitoshi/anischedule/internal/model"
)

// AnimeRepository はアニメカタログの永続化インターフェース。
type AnimeRepository interface {
	// FindByID は指定IDのアニメを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Anime, error)

	// FindByMalID は外部カタログIDでアニメを検索する。見つからない場合はnilを返す。
	FindByMalID(ctx context.Context, malID int64) (*model.Anime, error)

	// Create はアニメを作成する。
	Create(ctx context.Context, anime *model.Anime) error

	// Update はアニメ情報を更新する。
	Update(ctx context.Context, anime *model.Anime) error

	// UpdateStatus はアニメの放送ステータスのみを更新する。
	UpdateStatus(ctx context.Context, id string, status model.AnimeStatus) error

	// Delete は指定IDのアニメを削除する。関連行はCASCADE削除される。
	Delete(ctx context.Context, id string) error

	// List は全アニメを取得する。
	List(ctx context.Context) ([]*model.Anime, error)
}

// PlatformRepository は配信プラットフォームカタログの永続化インターフェース。
type PlatformRepository interface {
	// FindByID は指定IDのプラットフォームを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Platform, error)

	// FindByName は名前でプラットフォームを検索する。見つからない場合はnilを返す。
	FindByName(ctx context.Context, name string) (*model.Platform, error)

	// Create はプラットフォームを作成する。
	Create(ctx context.Context, platform *model.Platform) error

	// Update はプラットフォーム情報を更新する。
	Update(ctx context.Context, platform *model.Platform) error

	// Delete は指定IDのプラットフォームを削除する。
	Delete(ctx context.Context, id string) error

	// List は全プラットフォームを取得する。
	List(ctx context.Context) ([]*model.Platform, error)
}

// AnimePlatformWithAnime はアニメプラットフォームに親アニメと
// プラットフォーム名を結合した集約構造体。
type AnimePlatformWithAnime struct {
	model.AnimePlatform
	Anime        model.Anime
	PlatformName string
}

// AnimePlatformRepository はアニメとプラットフォームの紐付けの永続化インターフェース。
type AnimePlatformRepository interface {
	// FindByID は指定IDのアニメプラットフォームを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.AnimePlatform, error)

	// FindByAnimeAndPlatform は(animeID, platformID)でアニメプラットフォームを検索する。
	// 見つからない場合はnilを返す。
	FindByAnimeAndPlatform(ctx context.Context, animeID, platformID string) (*model.AnimePlatform, error)

	// FindWithAnimeByID は指定IDのアニメプラットフォームを親アニメ付きで取得する。
	// 見つからない場合はnilを返す。
	FindWithAnimeByID(ctx context.Context, id string) (*AnimePlatformWithAnime, error)

	// ListByAnimeID はアニメに紐付く全アニメプラットフォームを取得する。
	ListByAnimeID(ctx context.Context, animeID string) ([]*model.AnimePlatform, error)

	// Upsert は(animeID, platformID)をキーにアニメプラットフォームを作成または更新する。
	// IsMainPlatformがtrueの場合、同一トランザクション内で同一アニメの
	// 他のプラットフォームのメインフラグをクリアしてから反映する。
	Upsert(ctx context.Context, ap *model.AnimePlatform) error

	// Delete は指定IDのアニメプラットフォームを削除する。
	Delete(ctx context.Context, id string) error

	// ApplySchedule はキュレーション済みスケジュールの適用結果を書き込む。
	// nextAiringAtがnilの場合、next_episode_airing_atはNULLになる。
	ApplySchedule(ctx context.Context, id string, episodeAired int, lastAiredAt time.Time, nextAiringAt *time.Time) error

	// ListDueForCadence は固定周期による進行対象のアニメプラットフォームを親アニメ付きで取得する。
	// 対象は is_hiatus=false かつ next_episode_airing_at<=now で、
	// 未適用のキュレーション済みスケジュールを持つものは除外する。
	ListDueForCadence(ctx context.Context, now time.Time) ([]*AnimePlatformWithAnime, error)

	// AdvanceCadence は固定周期による進行を楽観的排他付きで書き込む。
	// episode_airedがfromEpisodeのままである場合のみ更新し、適用されたかどうかを返す。
	AdvanceCadence(ctx context.Context, id string, fromEpisode, episodeAired int, lastAiredAt, nextAiringAt time.Time, isHiatus bool) (bool, error)

	// ListAiringWithin はlast_episode_aired_atまたはnext_episode_airing_atが
	// [from, to]に含まれる非休止のアニメプラットフォームを親アニメ付きで取得する。
	ListAiringWithin(ctx context.Context, from, to time.Time) ([]*AnimePlatformWithAnime, error)
}

// PlatformScheduleRepository はエピソード単位のキュレーション済みスケジュールの
// 永続化インターフェース。
type PlatformScheduleRepository interface {
	// FindByID は指定IDのスケジュールを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.PlatformSchedule, error)

	// FindByPlatformAndEpisode は(animePlatformID, episodeNumber)でスケジュールを検索する。
	// 見つからない場合はnilを返す。
	FindByPlatformAndEpisode(ctx context.Context, animePlatformID string, episodeNumber int) (*model.PlatformSchedule, error)

	// ListByAnimePlatformID はアニメプラットフォームの全スケジュールを
	// エピソード番号昇順で取得する。
	ListByAnimePlatformID(ctx context.Context, animePlatformID string) ([]*model.PlatformSchedule, error)

	// Upsert は(animePlatformID, episodeNumber)をキーにスケジュールを
	// アトミックに作成または更新する。更新時はis_updatedをfalseに戻す。
	Upsert(ctx context.Context, schedule *model.PlatformSchedule) error

	// ListDue は適用期限が到来した未適用スケジュールをエピソード番号昇順で取得する。
	ListDue(ctx context.Context, now time.Time) ([]*model.PlatformSchedule, error)

	// MarkUpdated はスケジュールを適用済みにする。
	MarkUpdated(ctx context.Context, id string) error

	// Delete は指定IDのスケジュールを削除する。
	Delete(ctx context.Context, id string) error
}

// AnimeScheduleRepository はアニメレベルのステータス遷移予約の永続化インターフェース。
type AnimeScheduleRepository interface {
	// FindByID は指定IDの遷移予約を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.AnimeSchedule, error)

	// ListByAnimeID はアニメの全遷移予約を取得する。
	ListByAnimeID(ctx context.Context, animeID string) ([]*model.AnimeSchedule, error)

	// Upsert は(animeID, status)をキーに遷移予約をアトミックに作成または更新する。
	// 更新時はis_updatedをfalseに戻す。
	Upsert(ctx context.Context, schedule *model.AnimeSchedule) error

	// ListDue は適用期限が到来した未適用の遷移予約を取得する。
	ListDue(ctx context.Context, now time.Time) ([]*model.AnimeSchedule, error)

	// MarkUpdated は遷移予約を適用済みにする。
	MarkUpdated(ctx context.Context, id string) error

	// Delete は指定IDの遷移予約を削除する。
	Delete(ctx context.Context, id string) error
}

// AnimeListRepository はユーザー視聴リストの永続化インターフェース。
type AnimeListRepository interface {
	// FindByUserAndAnime は(userID, animeID)でエントリを検索する。
	// 見つからない場合はnilを返す。
	FindByUserAndAnime(ctx context.Context, userID, animeID string) (*model.AnimeListEntry, error)

	// ListByUserID はユーザーの全エントリを取得する。
	ListByUserID(ctx context.Context, userID string) ([]*model.AnimeListEntry, error)

	// Upsert は(userID, animeID)をキーにエントリを作成または更新する。
	// 新規作成した場合はtrueを返す。
	Upsert(ctx context.Context, entry *model.AnimeListEntry) (bool, error)

	// Delete は(userID, animeID)のエントリを削除する。
	Delete(ctx context.Context, userID, animeID string) error
}

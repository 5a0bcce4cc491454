// Package schedule はキュレーション済み配信スケジュールの検証と登録の
// ドメインロジックを提供する。
package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/anischedule/internal/model"
	"github.com/hitoshi/anischedule/internal/repository"
)

// Service はスケジュール登録のサービス層。
// エピソード間の時系列整合性を検証してから永続化する。
type Service struct {
	animeRepo    repository.AnimeRepository
	platformRepo repository.AnimePlatformRepository
	psRepo       repository.PlatformScheduleRepository
	asRepo       repository.AnimeScheduleRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	animeRepo repository.AnimeRepository,
	platformRepo repository.AnimePlatformRepository,
	psRepo repository.PlatformScheduleRepository,
	asRepo repository.AnimeScheduleRepository,
) *Service {
	return &Service{
		animeRepo:    animeRepo,
		platformRepo: platformRepo,
		psRepo:       psRepo,
		asRepo:       asRepo,
	}
}

// UpsertPlatformSchedule はエピソードのキュレーション済み配信日時を登録する。
//
// 検証ルール:
//   - episodeNumber-1 のエントリが存在し、そのupdateOnが新しいupdateOnより
//     後の場合は拒否する（連続エピソード間で時間は逆行しない）。
//   - episodeNumber+1 のエントリが存在し、そのupdateOnが新しいupdateOnより
//     前の場合も同様に拒否する。
//   - 両隣が存在せず episodeNumber != 1 の場合は拒否する。キュレーション済み
//     スケジュールはエピソード1を起点とする連続チェーンとして構築する。
//
// 登録に成功し、かつ対象プラットフォームがアニメのメインプラットフォームの
// 場合は、エピソード1でcurrently_airing、最終話でfinished_airingへの
// 遷移予約を同じupdateOnで登録する。遷移は予約時ではなくupdateOn到来時に
// Advancerによって適用される。
func (s *Service) UpsertPlatformSchedule(ctx context.Context, animePlatformID string, episodeNumber int, updateOn time.Time) (*model.PlatformSchedule, error) {
	if episodeNumber < 1 {
		return nil, model.NewInvalidEpisodeNumberError(episodeNumber)
	}

	ap, err := s.platformRepo.FindWithAnimeByID(ctx, animePlatformID)
	if err != nil {
		return nil, fmt.Errorf("アニメプラットフォームの取得に失敗しました: %w", err)
	}
	if ap == nil {
		return nil, model.NewAnimePlatformNotFoundError(animePlatformID)
	}

	prev, err := s.psRepo.FindByPlatformAndEpisode(ctx, animePlatformID, episodeNumber-1)
	if err != nil {
		return nil, fmt.Errorf("前のエピソードのスケジュール取得に失敗しました: %w", err)
	}
	next, err := s.psRepo.FindByPlatformAndEpisode(ctx, animePlatformID, episodeNumber+1)
	if err != nil {
		return nil, fmt.Errorf("次のエピソードのスケジュール取得に失敗しました: %w", err)
	}

	if prev != nil && prev.UpdateOn.After(updateOn) {
		return nil, model.NewScheduleOrderViolationError(prev.EpisodeNumber, prev.UpdateOn)
	}
	if next != nil && next.UpdateOn.Before(updateOn) {
		return nil, model.NewScheduleOrderViolationError(next.EpisodeNumber, next.UpdateOn)
	}
	if prev == nil && next == nil && episodeNumber != 1 {
		return nil, model.NewScheduleAnchorMissingError(episodeNumber)
	}

	sched := &model.PlatformSchedule{
		ID:              uuid.NewString(),
		AnimePlatformID: animePlatformID,
		EpisodeNumber:   episodeNumber,
		UpdateOn:        updateOn,
		IsUpdated:       false,
	}
	if err := s.psRepo.Upsert(ctx, sched); err != nil {
		return nil, fmt.Errorf("スケジュールの登録に失敗しました: %w", err)
	}

	// メインプラットフォームの場合はアニメレベルの遷移予約を登録する
	if ap.IsMainPlatform {
		if err := s.enqueueStatusTransition(ctx, &ap.Anime, episodeNumber, updateOn); err != nil {
			return nil, err
		}
	}

	stored, err := s.psRepo.FindByPlatformAndEpisode(ctx, animePlatformID, episodeNumber)
	if err != nil {
		return nil, fmt.Errorf("登録済みスケジュールの取得に失敗しました: %w", err)
	}
	if stored != nil {
		return stored, nil
	}
	return sched, nil
}

// enqueueStatusTransition はエピソード番号に応じたステータス遷移予約を登録する。
func (s *Service) enqueueStatusTransition(ctx context.Context, anime *model.Anime, episodeNumber int, updateOn time.Time) error {
	var status model.AnimeStatus
	switch {
	case episodeNumber == 1:
		status = model.AnimeStatusCurrentlyAiring
	case anime.EpisodeTotal > 0 && episodeNumber == anime.EpisodeTotal:
		status = model.AnimeStatusFinishedAiring
	default:
		return nil
	}

	as := &model.AnimeSchedule{
		ID:       uuid.NewString(),
		AnimeID:  anime.ID,
		Status:   status,
		UpdateOn: updateOn,
	}
	if err := s.asRepo.Upsert(ctx, as); err != nil {
		return fmt.Errorf("ステータス遷移予約の登録に失敗しました: %w", err)
	}
	return nil
}

// ListPlatformSchedules はアニメプラットフォームの全スケジュールを
// エピソード番号昇順で返す。
func (s *Service) ListPlatformSchedules(ctx context.Context, animePlatformID string) ([]*model.PlatformSchedule, error) {
	ap, err := s.platformRepo.FindByID(ctx, animePlatformID)
	if err != nil {
		return nil, fmt.Errorf("アニメプラットフォームの取得に失敗しました: %w", err)
	}
	if ap == nil {
		return nil, model.NewAnimePlatformNotFoundError(animePlatformID)
	}

	schedules, err := s.psRepo.ListByAnimePlatformID(ctx, animePlatformID)
	if err != nil {
		return nil, fmt.Errorf("スケジュール一覧の取得に失敗しました: %w", err)
	}
	return schedules, nil
}

// DeletePlatformSchedule はスケジュールを削除する。管理者操作を想定する。
func (s *Service) DeletePlatformSchedule(ctx context.Context, scheduleID string) error {
	sched, err := s.psRepo.FindByID(ctx, scheduleID)
	if err != nil {
		return fmt.Errorf("スケジュールの取得に失敗しました: %w", err)
	}
	if sched == nil {
		return model.NewScheduleNotFoundError(scheduleID)
	}

	if err := s.psRepo.Delete(ctx, scheduleID); err != nil {
		return fmt.Errorf("スケジュールの削除に失敗しました: %w", err)
	}
	return nil
}

// UpsertAnimeSchedule はアニメレベルのステータス遷移予約を直接登録する。
// 遷移先ステータスの妥当性のみを検証し、適用はAdvancerに委ねる。
func (s *Service) UpsertAnimeSchedule(ctx context.Context, animeID string, status model.AnimeStatus, updateOn time.Time) (*model.AnimeSchedule, error) {
	if !status.IsValid() {
		return nil, model.NewInvalidStatusError(string(status))
	}

	anime, err := s.animeRepo.FindByID(ctx, animeID)
	if err != nil {
		return nil, fmt.Errorf("アニメの取得に失敗しました: %w", err)
	}
	if anime == nil {
		return nil, model.NewAnimeNotFoundError(animeID)
	}

	as := &model.AnimeSchedule{
		ID:       uuid.NewString(),
		AnimeID:  animeID,
		Status:   status,
		UpdateOn: updateOn,
	}
	if err := s.asRepo.Upsert(ctx, as); err != nil {
		return nil, fmt.Errorf("ステータス遷移予約の登録に失敗しました: %w", err)
	}
	return as, nil
}

// ListAnimeSchedules はアニメの全遷移予約を返す。
func (s *Service) ListAnimeSchedules(ctx context.Context, animeID string) ([]*model.AnimeSchedule, error) {
	anime, err := s.animeRepo.FindByID(ctx, animeID)
	if err != nil {
		return nil, fmt.Errorf("アニメの取得に失敗しました: %w", err)
	}
	if anime == nil {
		return nil, model.NewAnimeNotFoundError(animeID)
	}

	schedules, err := s.asRepo.ListByAnimeID(ctx, animeID)
	if err != nil {
		return nil, fmt.Errorf("遷移予約一覧の取得に失敗しました: %w", err)
	}
	return schedules, nil
}

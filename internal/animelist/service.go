// Package animelist はユーザー視聴リストのドメインロジックを提供する。
package animelist

import (
	"context"
	"fmt"
	"time"

	"github.com/hitoshi/anischedule/internal/model"
	"github.com/hitoshi/anischedule/internal/repository"
)

// UpsertInput は視聴リストエントリの作成・更新の入力。
// nilのフィールドは更新時に変更しない。
type UpsertInput struct {
	UserID             string
	AnimeID            string
	AnimePlatformID    *string
	Progress           *int
	EpisodesDifference *int
	Score              *int
	Status             *string
	StartDate          *time.Time
	FinishDate         *time.Time
}

// Service は視聴リストのサービス層。
type Service struct {
	listRepo  repository.AnimeListRepository
	animeRepo repository.AnimeRepository
	apRepo    repository.AnimePlatformRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	listRepo repository.AnimeListRepository,
	animeRepo repository.AnimeRepository,
	apRepo repository.AnimePlatformRepository,
) *Service {
	return &Service{
		listRepo:  listRepo,
		animeRepo: animeRepo,
		apRepo:    apRepo,
	}
}

// Upsert は視聴リストエントリを作成または更新する。
// 新規作成した場合はtrueを返す。プラットフォーム指定は
// 対象アニメに紐付くアニメプラットフォームでなければならない。
func (s *Service) Upsert(ctx context.Context, in UpsertInput) (*model.AnimeListEntry, bool, error) {
	anime, err := s.animeRepo.FindByID(ctx, in.AnimeID)
	if err != nil {
		return nil, false, fmt.Errorf("アニメの取得に失敗しました: %w", err)
	}
	if anime == nil {
		return nil, false, model.NewAnimeNotFoundError(in.AnimeID)
	}

	if in.AnimePlatformID != nil {
		ap, err := s.apRepo.FindByID(ctx, *in.AnimePlatformID)
		if err != nil {
			return nil, false, fmt.Errorf("アニメプラットフォームの取得に失敗しました: %w", err)
		}
		if ap == nil || ap.AnimeID != in.AnimeID {
			return nil, false, model.NewAnimePlatformNotFoundError(*in.AnimePlatformID)
		}
	}

	entry, err := s.listRepo.FindByUserAndAnime(ctx, in.UserID, in.AnimeID)
	if err != nil {
		return nil, false, fmt.Errorf("視聴リストの取得に失敗しました: %w", err)
	}
	now := time.Now()
	if entry == nil {
		entry = &model.AnimeListEntry{
			UserID:    in.UserID,
			AnimeID:   in.AnimeID,
			CreatedAt: now,
		}
	}

	if in.AnimePlatformID != nil {
		entry.AnimePlatformID = in.AnimePlatformID
	}
	if in.Progress != nil {
		entry.Progress = *in.Progress
	}
	if in.EpisodesDifference != nil {
		entry.EpisodesDifference = *in.EpisodesDifference
	}
	if in.Score != nil {
		entry.Score = *in.Score
	}
	if in.Status != nil {
		entry.Status = *in.Status
	}
	if in.StartDate != nil {
		entry.StartDate = in.StartDate
	}
	if in.FinishDate != nil {
		entry.FinishDate = in.FinishDate
	}
	entry.UpdatedAt = now

	created, err := s.listRepo.Upsert(ctx, entry)
	if err != nil {
		return nil, false, fmt.Errorf("視聴リストの保存に失敗しました: %w", err)
	}
	return entry, created, nil
}

// Get は(userID, animeID)の視聴リストエントリを取得する。
func (s *Service) Get(ctx context.Context, userID, animeID string) (*model.AnimeListEntry, error) {
	entry, err := s.listRepo.FindByUserAndAnime(ctx, userID, animeID)
	if err != nil {
		return nil, fmt.Errorf("視聴リストの取得に失敗しました: %w", err)
	}
	if entry == nil {
		return nil, model.NewAnimeListNotFoundError(animeID)
	}
	return entry, nil
}

// List はユーザーの全視聴リストエントリを取得する。
func (s *Service) List(ctx context.Context, userID string) ([]*model.AnimeListEntry, error) {
	entries, err := s.listRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("視聴リストの取得に失敗しました: %w", err)
	}
	return entries, nil
}

// Delete は(userID, animeID)の視聴リストエントリを削除する。
func (s *Service) Delete(ctx context.Context, userID, animeID string) error {
	entry, err := s.listRepo.FindByUserAndAnime(ctx, userID, animeID)
	if err != nil {
		return fmt.Errorf("視聴リストの取得に失敗しました: %w", err)
	}
	if entry == nil {
		return model.NewAnimeListNotFoundError(animeID)
	}
	if err := s.listRepo.Delete(ctx, userID, animeID); err != nil {
		return fmt.Errorf("視聴リストの削除に失敗しました: %w", err)
	}
	return nil
}

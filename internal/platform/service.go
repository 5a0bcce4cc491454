// Package platform は配信プラットフォームカタログと
// アニメとプラットフォームの紐付けのドメインロジックを提供する。
package platform

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/anischedule/internal/model"
	"github.com/hitoshi/anischedule/internal/repository"
)

// AnimePlatformInput はアニメプラットフォーム作成の入力。
type AnimePlatformInput struct {
	AnimeID             string
	PlatformID          string
	Link                string
	AccessType          string
	EpisodeAired        int
	LastEpisodeAiredAt  *time.Time
	NextEpisodeAiringAt *time.Time
	IntervalInDays      int
	IsMainPlatform      bool
	IsHiatus            bool
}

// AnimePlatformUpdateInput はアニメプラットフォーム更新の入力。
// nilのフィールドは変更しない。
type AnimePlatformUpdateInput struct {
	Link                *string
	AccessType          *string
	EpisodeAired        *int
	LastEpisodeAiredAt  *time.Time
	NextEpisodeAiringAt *time.Time
	IntervalInDays      *int
	IsMainPlatform      *bool
	IsHiatus            *bool
}

// Service はプラットフォームカタログのサービス層。
type Service struct {
	platformRepo repository.PlatformRepository
	apRepo       repository.AnimePlatformRepository
	animeRepo    repository.AnimeRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	platformRepo repository.PlatformRepository,
	apRepo repository.AnimePlatformRepository,
	animeRepo repository.AnimeRepository,
) *Service {
	return &Service{
		platformRepo: platformRepo,
		apRepo:       apRepo,
		animeRepo:    animeRepo,
	}
}

// CreatePlatform はプラットフォームを作成する。名前は一意。
func (s *Service) CreatePlatform(ctx context.Context, name string) (*model.Platform, error) {
	existing, err := s.platformRepo.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("プラットフォームの重複確認に失敗しました: %w", err)
	}
	if existing != nil {
		return nil, model.NewDuplicateEntryError("プラットフォーム")
	}

	now := time.Now()
	platform := &model.Platform{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.platformRepo.Create(ctx, platform); err != nil {
		return nil, fmt.Errorf("プラットフォームの作成に失敗しました: %w", err)
	}
	return platform, nil
}

// GetPlatform は指定IDのプラットフォームを取得する。
func (s *Service) GetPlatform(ctx context.Context, id string) (*model.Platform, error) {
	platform, err := s.platformRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("プラットフォームの取得に失敗しました: %w", err)
	}
	if platform == nil {
		return nil, model.NewPlatformNotFoundError(id)
	}
	return platform, nil
}

// UpdatePlatform はプラットフォーム名を変更する。
func (s *Service) UpdatePlatform(ctx context.Context, id, name string) (*model.Platform, error) {
	platform, err := s.platformRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("プラットフォームの取得に失敗しました: %w", err)
	}
	if platform == nil {
		return nil, model.NewPlatformNotFoundError(id)
	}

	other, err := s.platformRepo.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("プラットフォームの重複確認に失敗しました: %w", err)
	}
	if other != nil && other.ID != id {
		return nil, model.NewDuplicateEntryError("プラットフォーム")
	}

	platform.Name = name
	platform.UpdatedAt = time.Now()
	if err := s.platformRepo.Update(ctx, platform); err != nil {
		return nil, fmt.Errorf("プラットフォームの更新に失敗しました: %w", err)
	}
	return platform, nil
}

// DeletePlatform は指定IDのプラットフォームを削除する。
func (s *Service) DeletePlatform(ctx context.Context, id string) error {
	platform, err := s.platformRepo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("プラットフォームの取得に失敗しました: %w", err)
	}
	if platform == nil {
		return model.NewPlatformNotFoundError(id)
	}
	if err := s.platformRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("プラットフォームの削除に失敗しました: %w", err)
	}
	return nil
}

// ListPlatforms は全プラットフォームを取得する。
func (s *Service) ListPlatforms(ctx context.Context) ([]*model.Platform, error) {
	platforms, err := s.platformRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("プラットフォーム一覧の取得に失敗しました: %w", err)
	}
	return platforms, nil
}

// CreateAnimePlatform はアニメとプラットフォームの紐付けを作成する。
// IsMainPlatformがtrueの場合、同一アニメの他の紐付けのメインフラグは
// ストア層で同一トランザクション内にクリアされる。
func (s *Service) CreateAnimePlatform(ctx context.Context, in AnimePlatformInput) (*model.AnimePlatform, error) {
	anime, err := s.animeRepo.FindByID(ctx, in.AnimeID)
	if err != nil {
		return nil, fmt.Errorf("アニメの取得に失敗しました: %w", err)
	}
	if anime == nil {
		return nil, model.NewAnimeNotFoundError(in.AnimeID)
	}

	platform, err := s.platformRepo.FindByID(ctx, in.PlatformID)
	if err != nil {
		return nil, fmt.Errorf("プラットフォームの取得に失敗しました: %w", err)
	}
	if platform == nil {
		return nil, model.NewPlatformNotFoundError(in.PlatformID)
	}

	existing, err := s.apRepo.FindByAnimeAndPlatform(ctx, in.AnimeID, in.PlatformID)
	if err != nil {
		return nil, fmt.Errorf("アニメプラットフォームの重複確認に失敗しました: %w", err)
	}
	if existing != nil {
		return nil, model.NewDuplicateEntryError("アニメプラットフォーム")
	}

	now := time.Now()
	ap := &model.AnimePlatform{
		ID:                  uuid.NewString(),
		AnimeID:             in.AnimeID,
		PlatformID:          in.PlatformID,
		Link:                in.Link,
		AccessType:          in.AccessType,
		EpisodeAired:        in.EpisodeAired,
		LastEpisodeAiredAt:  in.LastEpisodeAiredAt,
		NextEpisodeAiringAt: in.NextEpisodeAiringAt,
		IntervalInDays:      in.IntervalInDays,
		IsMainPlatform:      in.IsMainPlatform,
		IsHiatus:            in.IsHiatus,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := s.apRepo.Upsert(ctx, ap); err != nil {
		return nil, fmt.Errorf("アニメプラットフォームの作成に失敗しました: %w", err)
	}
	return ap, nil
}

// GetAnimePlatform は指定IDのアニメプラットフォームを取得する。
func (s *Service) GetAnimePlatform(ctx context.Context, id string) (*model.AnimePlatform, error) {
	ap, err := s.apRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("アニメプラットフォームの取得に失敗しました: %w", err)
	}
	if ap == nil {
		return nil, model.NewAnimePlatformNotFoundError(id)
	}
	return ap, nil
}

// UpdateAnimePlatform はアニメプラットフォームを部分更新する。
func (s *Service) UpdateAnimePlatform(ctx context.Context, id string, in AnimePlatformUpdateInput) (*model.AnimePlatform, error) {
	ap, err := s.apRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("アニメプラットフォームの取得に失敗しました: %w", err)
	}
	if ap == nil {
		return nil, model.NewAnimePlatformNotFoundError(id)
	}

	if in.Link != nil {
		ap.Link = *in.Link
	}
	if in.AccessType != nil {
		ap.AccessType = *in.AccessType
	}
	if in.EpisodeAired != nil {
		ap.EpisodeAired = *in.EpisodeAired
	}
	if in.LastEpisodeAiredAt != nil {
		ap.LastEpisodeAiredAt = in.LastEpisodeAiredAt
	}
	if in.NextEpisodeAiringAt != nil {
		ap.NextEpisodeAiringAt = in.NextEpisodeAiringAt
	}
	if in.IntervalInDays != nil {
		ap.IntervalInDays = *in.IntervalInDays
	}
	if in.IsMainPlatform != nil {
		ap.IsMainPlatform = *in.IsMainPlatform
	}
	if in.IsHiatus != nil {
		ap.IsHiatus = *in.IsHiatus
	}

	ap.UpdatedAt = time.Now()
	if err := s.apRepo.Upsert(ctx, ap); err != nil {
		return nil, fmt.Errorf("アニメプラットフォームの更新に失敗しました: %w", err)
	}
	return ap, nil
}

// DeleteAnimePlatform は指定IDのアニメプラットフォームを削除する。
func (s *Service) DeleteAnimePlatform(ctx context.Context, id string) error {
	ap, err := s.apRepo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("アニメプラットフォームの取得に失敗しました: %w", err)
	}
	if ap == nil {
		return model.NewAnimePlatformNotFoundError(id)
	}
	if err := s.apRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("アニメプラットフォームの削除に失敗しました: %w", err)
	}
	return nil
}

// ListAnimePlatforms はアニメに紐付く全アニメプラットフォームを取得する。
func (s *Service) ListAnimePlatforms(ctx context.Context, animeID string) ([]*model.AnimePlatform, error) {
	anime, err := s.animeRepo.FindByID(ctx, animeID)
	if err != nil {
		return nil, fmt.Errorf("アニメの取得に失敗しました: %w", err)
	}
	if anime == nil {
		return nil, model.NewAnimeNotFoundError(animeID)
	}
	aps, err := s.apRepo.ListByAnimeID(ctx, animeID)
	if err != nil {
		return nil, fmt.Errorf("アニメプラットフォーム一覧の取得に失敗しました: %w", err)
	}
	return aps, nil
}

// Package anime はアニメカタログのドメインロジックを提供する。
package anime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/anischedule/internal/model"
	"github.com/hitoshi/anischedule/internal/repository"
)

// Metadata は外部カタログから取得したアニメの補完情報。
type Metadata struct {
	Title        string
	Picture      string
	ReleaseAt    *time.Time
	EpisodeTotal int
	Status       model.AnimeStatus
}

// MetadataProvider は外部カタログ（MyAnimeListなど）の参照インターフェース。
// 実装は呼び出し側が注入する。
type MetadataProvider interface {
	// FetchByMalID は外部カタログIDでアニメの補完情報を取得する。
	FetchByMalID(ctx context.Context, malID int64) (*Metadata, error)
}

// CreateInput はアニメ作成の入力。ゼロ値のフィールドは
// MetadataProviderから補完される。
type CreateInput struct {
	MalID        int64
	Title        string
	Picture      string
	ReleaseAt    *time.Time
	EpisodeTotal int
	Status       model.AnimeStatus
}

// UpdateInput はアニメ更新の入力。nilのフィールドは変更しない。
type UpdateInput struct {
	Title        *string
	Picture      *string
	ReleaseAt    *time.Time
	EpisodeTotal *int
	Status       *model.AnimeStatus
}

// Service はアニメカタログのサービス層。
type Service struct {
	animeRepo repository.AnimeRepository
	provider  MetadataProvider
	logger    *slog.Logger
}

// NewService はServiceの新しいインスタンスを生成する。
// providerはnil可。nilの場合、作成時の補完は行われない。
func NewService(animeRepo repository.AnimeRepository, provider MetadataProvider, logger *slog.Logger) *Service {
	return &Service{
		animeRepo: animeRepo,
		provider:  provider,
		logger:    logger,
	}
}

// Create はアニメを作成する。未指定のフィールドはMetadataProviderから
// 補完する。補完の失敗は作成を妨げない（指定されたフィールドのみで作成する）。
func (s *Service) Create(ctx context.Context, in CreateInput) (*model.Anime, error) {
	existing, err := s.animeRepo.FindByMalID(ctx, in.MalID)
	if err != nil {
		return nil, fmt.Errorf("アニメの重複確認に失敗しました: %w", err)
	}
	if existing != nil {
		return nil, model.NewDuplicateEntryError("アニメ")
	}

	s.fillFromProvider(ctx, &in)

	if in.Status == "" {
		in.Status = model.AnimeStatusNotYetAired
	}
	if !in.Status.IsValid() {
		return nil, model.NewInvalidStatusError(string(in.Status))
	}

	now := time.Now()
	anime := &model.Anime{
		ID:           uuid.NewString(),
		MalID:        in.MalID,
		Title:        in.Title,
		Picture:      in.Picture,
		ReleaseAt:    in.ReleaseAt,
		EpisodeTotal: in.EpisodeTotal,
		Status:       in.Status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.animeRepo.Create(ctx, anime); err != nil {
		return nil, fmt.Errorf("アニメの作成に失敗しました: %w", err)
	}
	return anime, nil
}

// fillFromProvider は入力の未指定フィールドを外部カタログの情報で埋める。
func (s *Service) fillFromProvider(ctx context.Context, in *CreateInput) {
	if s.provider == nil {
		return
	}
	meta, err := s.provider.FetchByMalID(ctx, in.MalID)
	if err != nil {
		s.logger.Warn("外部カタログからの補完に失敗しました",
			"mal_id", in.MalID,
			"error", err)
		return
	}
	if meta == nil {
		return
	}
	if in.Title == "" {
		in.Title = meta.Title
	}
	if in.Picture == "" {
		in.Picture = meta.Picture
	}
	if in.ReleaseAt == nil {
		in.ReleaseAt = meta.ReleaseAt
	}
	if in.EpisodeTotal == 0 {
		in.EpisodeTotal = meta.EpisodeTotal
	}
	if in.Status == "" && meta.Status.IsValid() {
		in.Status = meta.Status
	}
}

// Get は指定IDのアニメを取得する。
func (s *Service) Get(ctx context.Context, id string) (*model.Anime, error) {
	anime, err := s.animeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("アニメの取得に失敗しました: %w", err)
	}
	if anime == nil {
		return nil, model.NewAnimeNotFoundError(id)
	}
	return anime, nil
}

// GetByMalID は外部カタログIDでアニメを取得する。
func (s *Service) GetByMalID(ctx context.Context, malID int64) (*model.Anime, error) {
	anime, err := s.animeRepo.FindByMalID(ctx, malID)
	if err != nil {
		return nil, fmt.Errorf("アニメの取得に失敗しました: %w", err)
	}
	if anime == nil {
		return nil, model.NewAnimeNotFoundError(fmt.Sprintf("mal:%d", malID))
	}
	return anime, nil
}

// Update はアニメ情報を部分更新する。放送ステータスの変更は
// 前進遷移のみ許可される。
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*model.Anime, error) {
	anime, err := s.animeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("アニメの取得に失敗しました: %w", err)
	}
	if anime == nil {
		return nil, model.NewAnimeNotFoundError(id)
	}

	if in.Title != nil {
		anime.Title = *in.Title
	}
	if in.Picture != nil {
		anime.Picture = *in.Picture
	}
	if in.ReleaseAt != nil {
		anime.ReleaseAt = in.ReleaseAt
	}
	if in.EpisodeTotal != nil {
		anime.EpisodeTotal = *in.EpisodeTotal
	}
	if in.Status != nil && *in.Status != anime.Status {
		if !anime.Status.CanTransitionTo(*in.Status) {
			return nil, model.NewInvalidStatusError(string(*in.Status))
		}
		anime.Status = *in.Status
	}

	anime.UpdatedAt = time.Now()
	if err := s.animeRepo.Update(ctx, anime); err != nil {
		return nil, fmt.Errorf("アニメの更新に失敗しました: %w", err)
	}
	return anime, nil
}

// Delete は指定IDのアニメを削除する。関連するアニメプラットフォーム、
// スケジュール、視聴リストエントリもCASCADE削除される。
func (s *Service) Delete(ctx context.Context, id string) error {
	anime, err := s.animeRepo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("アニメの取得に失敗しました: %w", err)
	}
	if anime == nil {
		return model.NewAnimeNotFoundError(id)
	}
	if err := s.animeRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("アニメの削除に失敗しました: %w", err)
	}
	return nil
}

// List は全アニメを取得する。
func (s *Service) List(ctx context.Context) ([]*model.Anime, error) {
	animes, err := s.animeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("アニメ一覧の取得に失敗しました: %w", err)
	}
	return animes, nil
}

package timeline

import (
	"context"
	"time"

	"github.com/hitoshi/anischedule/internal/model"
	"github.com/hitoshi/anischedule/internal/repository"
)

// mockAnimePlatformRepo はrepository.AnimePlatformRepositoryのモック実装。
type mockAnimePlatformRepo struct {
	listAiringWithinFn func(ctx context.Context, from, to time.Time) ([]*repository.AnimePlatformWithAnime, error)
}

func (m *mockAnimePlatformRepo) FindByID(ctx context.Context, id string) (*model.AnimePlatform, error) {
	return nil, nil
}

func (m *mockAnimePlatformRepo) FindByAnimeAndPlatform(ctx context.Context, animeID, platformID string) (*model.AnimePlatform, error) {
	return nil, nil
}

func (m *mockAnimePlatformRepo) FindWithAnimeByID(ctx context.Context, id string) (*repository.AnimePlatformWithAnime, error) {
	return nil, nil
}

func (m *mockAnimePlatformRepo) ListByAnimeID(ctx context.Context, animeID string) ([]*model.AnimePlatform, error) {
	return nil, nil
}

func (m *mockAnimePlatformRepo) Upsert(ctx context.Context, ap *model.AnimePlatform) error {
	return nil
}

func (m *mockAnimePlatformRepo) Delete(ctx context.Context, id string) error {
	return nil
}

func (m *mockAnimePlatformRepo) ApplySchedule(ctx context.Context, id string, episodeAired int, lastAiredAt time.Time, nextAiringAt *time.Time) error {
	return nil
}

func (m *mockAnimePlatformRepo) ListDueForCadence(ctx context.Context, now time.Time) ([]*repository.AnimePlatformWithAnime, error) {
	return nil, nil
}

func (m *mockAnimePlatformRepo) AdvanceCadence(ctx context.Context, id string, fromEpisode, episodeAired int, lastAiredAt, nextAiringAt time.Time, isHiatus bool) (bool, error) {
	return false, nil
}

func (m *mockAnimePlatformRepo) ListAiringWithin(ctx context.Context, from, to time.Time) ([]*repository.AnimePlatformWithAnime, error) {
	if m.listAiringWithinFn != nil {
		return m.listAiringWithinFn(ctx, from, to)
	}
	return nil, nil
}

// mockAnimeListRepo はrepository.AnimeListRepositoryのモック実装。
type mockAnimeListRepo struct {
	listByUserIDFn func(ctx context.Context, userID string) ([]*model.AnimeListEntry, error)
}

func (m *mockAnimeListRepo) FindByUserAndAnime(ctx context.Context, userID, animeID string) (*model.AnimeListEntry, error) {
	return nil, nil
}

func (m *mockAnimeListRepo) ListByUserID(ctx context.Context, userID string) ([]*model.AnimeListEntry, error) {
	if m.listByUserIDFn != nil {
		return m.listByUserIDFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockAnimeListRepo) Upsert(ctx context.Context, entry *model.AnimeListEntry) (bool, error) {
	return false, nil
}

func (m *mockAnimeListRepo) Delete(ctx context.Context, userID, animeID string) error {
	return nil
}

var (
	_ repository.AnimePlatformRepository = (*mockAnimePlatformRepo)(nil)
	_ repository.AnimeListRepository     = (*mockAnimeListRepo)(nil)
)

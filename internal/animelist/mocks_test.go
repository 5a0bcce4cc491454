package animelist

import (
	"context"
	"time"

	"github.com/hitoshi/anischedule/internal/model"
	"github.com/hitoshi/anischedule/internal/repository"
)

// mockAnimeListRepo はrepository.AnimeListRepositoryのモック実装。
type mockAnimeListRepo struct {
	findByUserAndAnimeFn func(ctx context.Context, userID, animeID string) (*model.AnimeListEntry, error)
	listByUserIDFn       func(ctx context.Context, userID string) ([]*model.AnimeListEntry, error)
	upsertFn             func(ctx context.Context, entry *model.AnimeListEntry) (bool, error)
	deleteFn             func(ctx context.Context, userID, animeID string) error
}

func (m *mockAnimeListRepo) FindByUserAndAnime(ctx context.Context, userID, animeID string) (*model.AnimeListEntry, error) {
	if m.findByUserAndAnimeFn != nil {
		return m.findByUserAndAnimeFn(ctx, userID, animeID)
	}
	return nil, nil
}

func (m *mockAnimeListRepo) ListByUserID(ctx context.Context, userID string) ([]*model.AnimeListEntry, error) {
	if m.listByUserIDFn != nil {
		return m.listByUserIDFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockAnimeListRepo) Upsert(ctx context.Context, entry *model.AnimeListEntry) (bool, error) {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, entry)
	}
	return false, nil
}

func (m *mockAnimeListRepo) Delete(ctx context.Context, userID, animeID string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, userID, animeID)
	}
	return nil
}

// mockAnimeRepo はrepository.AnimeRepositoryのモック実装。
type mockAnimeRepo struct {
	findByIDFn func(ctx context.Context, id string) (*model.Anime, error)
}

func (m *mockAnimeRepo) FindByID(ctx context.Context, id string) (*model.Anime, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockAnimeRepo) FindByMalID(ctx context.Context, malID int64) (*model.Anime, error) {
	return nil, nil
}

func (m *mockAnimeRepo) Create(ctx context.Context, anime *model.Anime) error { return nil }

func (m *mockAnimeRepo) Update(ctx context.Context, anime *model.Anime) error { return nil }

func (m *mockAnimeRepo) UpdateStatus(ctx context.Context, id string, status model.AnimeStatus) error {
	return nil
}

func (m *mockAnimeRepo) Delete(ctx context.Context, id string) error { return nil }

func (m *mockAnimeRepo) List(ctx context.Context) ([]*model.Anime, error) { return nil, nil }

// mockAnimePlatformRepo はrepository.AnimePlatformRepositoryのモック実装。
type mockAnimePlatformRepo struct {
	findByIDFn func(ctx context.Context, id string) (*model.AnimePlatform, error)
}

func (m *mockAnimePlatformRepo) FindByID(ctx context.Context, id string) (*model.AnimePlatform, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
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

func (m *mockAnimePlatformRepo) Delete(ctx context.Context, id string) error { return nil }

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
	return nil, nil
}

var (
	_ repository.AnimeListRepository     = (*mockAnimeListRepo)(nil)
	_ repository.AnimeRepository         = (*mockAnimeRepo)(nil)
	_ repository.AnimePlatformRepository = (*mockAnimePlatformRepo)(nil)
)

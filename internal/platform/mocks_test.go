package platform

import (
	"context"
	"time"

	"github.com/hitoshi/anischedule/internal/model"
	"github.com/hitoshi/anischedule/internal/repository"
)

// mockPlatformRepo はrepository.PlatformRepositoryのモック実装。
type mockPlatformRepo struct {
	findByIDFn   func(ctx context.Context, id string) (*model.Platform, error)
	findByNameFn func(ctx context.Context, name string) (*model.Platform, error)
	createFn     func(ctx context.Context, platform *model.Platform) error
	updateFn     func(ctx context.Context, platform *model.Platform) error
	deleteFn     func(ctx context.Context, id string) error
	listFn       func(ctx context.Context) ([]*model.Platform, error)
}

func (m *mockPlatformRepo) FindByID(ctx context.Context, id string) (*model.Platform, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockPlatformRepo) FindByName(ctx context.Context, name string) (*model.Platform, error) {
	if m.findByNameFn != nil {
		return m.findByNameFn(ctx, name)
	}
	return nil, nil
}

func (m *mockPlatformRepo) Create(ctx context.Context, platform *model.Platform) error {
	if m.createFn != nil {
		return m.createFn(ctx, platform)
	}
	return nil
}

func (m *mockPlatformRepo) Update(ctx context.Context, platform *model.Platform) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, platform)
	}
	return nil
}

func (m *mockPlatformRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockPlatformRepo) List(ctx context.Context) ([]*model.Platform, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

// mockAnimePlatformRepo はrepository.AnimePlatformRepositoryのモック実装。
type mockAnimePlatformRepo struct {
	findByIDFn               func(ctx context.Context, id string) (*model.AnimePlatform, error)
	findByAnimeAndPlatformFn func(ctx context.Context, animeID, platformID string) (*model.AnimePlatform, error)
	listByAnimeIDFn          func(ctx context.Context, animeID string) ([]*model.AnimePlatform, error)
	upsertFn                 func(ctx context.Context, ap *model.AnimePlatform) error
	deleteFn                 func(ctx context.Context, id string) error
}

func (m *mockAnimePlatformRepo) FindByID(ctx context.Context, id string) (*model.AnimePlatform, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockAnimePlatformRepo) FindByAnimeAndPlatform(ctx context.Context, animeID, platformID string) (*model.AnimePlatform, error) {
	if m.findByAnimeAndPlatformFn != nil {
		return m.findByAnimeAndPlatformFn(ctx, animeID, platformID)
	}
	return nil, nil
}

func (m *mockAnimePlatformRepo) FindWithAnimeByID(ctx context.Context, id string) (*repository.AnimePlatformWithAnime, error) {
	return nil, nil
}

func (m *mockAnimePlatformRepo) ListByAnimeID(ctx context.Context, animeID string) ([]*model.AnimePlatform, error) {
	if m.listByAnimeIDFn != nil {
		return m.listByAnimeIDFn(ctx, animeID)
	}
	return nil, nil
}

func (m *mockAnimePlatformRepo) Upsert(ctx context.Context, ap *model.AnimePlatform) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, ap)
	}
	return nil
}

func (m *mockAnimePlatformRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
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
	return nil, nil
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

var (
	_ repository.PlatformRepository      = (*mockPlatformRepo)(nil)
	_ repository.AnimePlatformRepository = (*mockAnimePlatformRepo)(nil)
	_ repository.AnimeRepository         = (*mockAnimeRepo)(nil)
)

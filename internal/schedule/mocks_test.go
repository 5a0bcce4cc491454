package schedule

import (
	"context"
	"time"

	"github.com/hitoshi/anischedule/internal/model"
	"github.com/hitoshi/anischedule/internal/repository"
)

// --- モック ---

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
func (m *mockAnimeRepo) Delete(ctx context.Context, id string) error      { return nil }
func (m *mockAnimeRepo) List(ctx context.Context) ([]*model.Anime, error) { return nil, nil }

type mockAnimePlatformRepo struct {
	findByIDFn      func(ctx context.Context, id string) (*model.AnimePlatform, error)
	findWithAnimeFn func(ctx context.Context, id string) (*repository.AnimePlatformWithAnime, error)
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
	if m.findWithAnimeFn != nil {
		return m.findWithAnimeFn(ctx, id)
	}
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

type mockPlatformScheduleRepo struct {
	findByIDFn       func(ctx context.Context, id string) (*model.PlatformSchedule, error)
	findByEpisodeFn  func(ctx context.Context, animePlatformID string, episodeNumber int) (*model.PlatformSchedule, error)
	listByPlatformFn func(ctx context.Context, animePlatformID string) ([]*model.PlatformSchedule, error)
	upsertFn         func(ctx context.Context, schedule *model.PlatformSchedule) error
	deleteFn         func(ctx context.Context, id string) error
}

func (m *mockPlatformScheduleRepo) FindByID(ctx context.Context, id string) (*model.PlatformSchedule, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}
func (m *mockPlatformScheduleRepo) FindByPlatformAndEpisode(ctx context.Context, animePlatformID string, episodeNumber int) (*model.PlatformSchedule, error) {
	if m.findByEpisodeFn != nil {
		return m.findByEpisodeFn(ctx, animePlatformID, episodeNumber)
	}
	return nil, nil
}
func (m *mockPlatformScheduleRepo) ListByAnimePlatformID(ctx context.Context, animePlatformID string) ([]*model.PlatformSchedule, error) {
	if m.listByPlatformFn != nil {
		return m.listByPlatformFn(ctx, animePlatformID)
	}
	return nil, nil
}
func (m *mockPlatformScheduleRepo) Upsert(ctx context.Context, schedule *model.PlatformSchedule) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, schedule)
	}
	return nil
}
func (m *mockPlatformScheduleRepo) ListDue(ctx context.Context, now time.Time) ([]*model.PlatformSchedule, error) {
	return nil, nil
}
func (m *mockPlatformScheduleRepo) MarkUpdated(ctx context.Context, id string) error { return nil }
func (m *mockPlatformScheduleRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

type mockAnimeScheduleRepo struct {
	listByAnimeFn func(ctx context.Context, animeID string) ([]*model.AnimeSchedule, error)
	upsertFn      func(ctx context.Context, schedule *model.AnimeSchedule) error
}

func (m *mockAnimeScheduleRepo) FindByID(ctx context.Context, id string) (*model.AnimeSchedule, error) {
	return nil, nil
}
func (m *mockAnimeScheduleRepo) ListByAnimeID(ctx context.Context, animeID string) ([]*model.AnimeSchedule, error) {
	if m.listByAnimeFn != nil {
		return m.listByAnimeFn(ctx, animeID)
	}
	return nil, nil
}
func (m *mockAnimeScheduleRepo) Upsert(ctx context.Context, schedule *model.AnimeSchedule) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, schedule)
	}
	return nil
}
func (m *mockAnimeScheduleRepo) ListDue(ctx context.Context, now time.Time) ([]*model.AnimeSchedule, error) {
	return nil, nil
}
func (m *mockAnimeScheduleRepo) MarkUpdated(ctx context.Context, id string) error { return nil }
func (m *mockAnimeScheduleRepo) Delete(ctx context.Context, id string) error      { return nil }

package handler

import (
	"context"
	"time"

	"github.com/hitoshi/anischedule/internal/anime"
	"github.com/hitoshi/anischedule/internal/animelist"
	"github.com/hitoshi/anischedule/internal/model"
	"github.com/hitoshi/anischedule/internal/platform"
	"github.com/hitoshi/anischedule/internal/timeline"
)

// mockAnimeService はAnimeServiceInterfaceのモック実装。
type mockAnimeService struct {
	createFn func(ctx context.Context, in anime.CreateInput) (*model.Anime, error)
	getFn    func(ctx context.Context, id string) (*model.Anime, error)
	updateFn func(ctx context.Context, id string, in anime.UpdateInput) (*model.Anime, error)
	deleteFn func(ctx context.Context, id string) error
	listFn   func(ctx context.Context) ([]*model.Anime, error)
}

func (m *mockAnimeService) Create(ctx context.Context, in anime.CreateInput) (*model.Anime, error) {
	if m.createFn != nil {
		return m.createFn(ctx, in)
	}
	return &model.Anime{ID: "anime-1"}, nil
}

func (m *mockAnimeService) Get(ctx context.Context, id string) (*model.Anime, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return &model.Anime{ID: id}, nil
}

func (m *mockAnimeService) Update(ctx context.Context, id string, in anime.UpdateInput) (*model.Anime, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, in)
	}
	return &model.Anime{ID: id}, nil
}

func (m *mockAnimeService) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockAnimeService) List(ctx context.Context) ([]*model.Anime, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

// mockPlatformService はPlatformServiceInterfaceのモック実装。
type mockPlatformService struct {
	createPlatformFn      func(ctx context.Context, name string) (*model.Platform, error)
	getPlatformFn         func(ctx context.Context, id string) (*model.Platform, error)
	updatePlatformFn      func(ctx context.Context, id, name string) (*model.Platform, error)
	deletePlatformFn      func(ctx context.Context, id string) error
	listPlatformsFn       func(ctx context.Context) ([]*model.Platform, error)
	createAnimePlatformFn func(ctx context.Context, in platform.AnimePlatformInput) (*model.AnimePlatform, error)
	getAnimePlatformFn    func(ctx context.Context, id string) (*model.AnimePlatform, error)
	updateAnimePlatformFn func(ctx context.Context, id string, in platform.AnimePlatformUpdateInput) (*model.AnimePlatform, error)
	deleteAnimePlatformFn func(ctx context.Context, id string) error
	listAnimePlatformsFn  func(ctx context.Context, animeID string) ([]*model.AnimePlatform, error)
}

func (m *mockPlatformService) CreatePlatform(ctx context.Context, name string) (*model.Platform, error) {
	if m.createPlatformFn != nil {
		return m.createPlatformFn(ctx, name)
	}
	return &model.Platform{ID: "plat-1", Name: name}, nil
}

func (m *mockPlatformService) GetPlatform(ctx context.Context, id string) (*model.Platform, error) {
	if m.getPlatformFn != nil {
		return m.getPlatformFn(ctx, id)
	}
	return &model.Platform{ID: id}, nil
}

func (m *mockPlatformService) UpdatePlatform(ctx context.Context, id, name string) (*model.Platform, error) {
	if m.updatePlatformFn != nil {
		return m.updatePlatformFn(ctx, id, name)
	}
	return &model.Platform{ID: id, Name: name}, nil
}

func (m *mockPlatformService) DeletePlatform(ctx context.Context, id string) error {
	if m.deletePlatformFn != nil {
		return m.deletePlatformFn(ctx, id)
	}
	return nil
}

func (m *mockPlatformService) ListPlatforms(ctx context.Context) ([]*model.Platform, error) {
	if m.listPlatformsFn != nil {
		return m.listPlatformsFn(ctx)
	}
	return nil, nil
}

func (m *mockPlatformService) CreateAnimePlatform(ctx context.Context, in platform.AnimePlatformInput) (*model.AnimePlatform, error) {
	if m.createAnimePlatformFn != nil {
		return m.createAnimePlatformFn(ctx, in)
	}
	return &model.AnimePlatform{ID: "ap-1"}, nil
}

func (m *mockPlatformService) GetAnimePlatform(ctx context.Context, id string) (*model.AnimePlatform, error) {
	if m.getAnimePlatformFn != nil {
		return m.getAnimePlatformFn(ctx, id)
	}
	return &model.AnimePlatform{ID: id}, nil
}

func (m *mockPlatformService) UpdateAnimePlatform(ctx context.Context, id string, in platform.AnimePlatformUpdateInput) (*model.AnimePlatform, error) {
	if m.updateAnimePlatformFn != nil {
		return m.updateAnimePlatformFn(ctx, id, in)
	}
	return &model.AnimePlatform{ID: id}, nil
}

func (m *mockPlatformService) DeleteAnimePlatform(ctx context.Context, id string) error {
	if m.deleteAnimePlatformFn != nil {
		return m.deleteAnimePlatformFn(ctx, id)
	}
	return nil
}

func (m *mockPlatformService) ListAnimePlatforms(ctx context.Context, animeID string) ([]*model.AnimePlatform, error) {
	if m.listAnimePlatformsFn != nil {
		return m.listAnimePlatformsFn(ctx, animeID)
	}
	return nil, nil
}

// mockScheduleService はScheduleServiceInterfaceのモック実装。
type mockScheduleService struct {
	upsertPlatformScheduleFn func(ctx context.Context, animePlatformID string, episodeNumber int, updateOn time.Time) (*model.PlatformSchedule, error)
	listPlatformSchedulesFn  func(ctx context.Context, animePlatformID string) ([]*model.PlatformSchedule, error)
	deletePlatformScheduleFn func(ctx context.Context, scheduleID string) error
	upsertAnimeScheduleFn    func(ctx context.Context, animeID string, status model.AnimeStatus, updateOn time.Time) (*model.AnimeSchedule, error)
	listAnimeSchedulesFn     func(ctx context.Context, animeID string) ([]*model.AnimeSchedule, error)
}

func (m *mockScheduleService) UpsertPlatformSchedule(ctx context.Context, animePlatformID string, episodeNumber int, updateOn time.Time) (*model.PlatformSchedule, error) {
	if m.upsertPlatformScheduleFn != nil {
		return m.upsertPlatformScheduleFn(ctx, animePlatformID, episodeNumber, updateOn)
	}
	return &model.PlatformSchedule{ID: "sched-1", AnimePlatformID: animePlatformID, EpisodeNumber: episodeNumber, UpdateOn: updateOn}, nil
}

func (m *mockScheduleService) ListPlatformSchedules(ctx context.Context, animePlatformID string) ([]*model.PlatformSchedule, error) {
	if m.listPlatformSchedulesFn != nil {
		return m.listPlatformSchedulesFn(ctx, animePlatformID)
	}
	return nil, nil
}

func (m *mockScheduleService) DeletePlatformSchedule(ctx context.Context, scheduleID string) error {
	if m.deletePlatformScheduleFn != nil {
		return m.deletePlatformScheduleFn(ctx, scheduleID)
	}
	return nil
}

func (m *mockScheduleService) UpsertAnimeSchedule(ctx context.Context, animeID string, status model.AnimeStatus, updateOn time.Time) (*model.AnimeSchedule, error) {
	if m.upsertAnimeScheduleFn != nil {
		return m.upsertAnimeScheduleFn(ctx, animeID, status, updateOn)
	}
	return &model.AnimeSchedule{ID: "as-1", AnimeID: animeID, Status: status, UpdateOn: updateOn}, nil
}

func (m *mockScheduleService) ListAnimeSchedules(ctx context.Context, animeID string) ([]*model.AnimeSchedule, error) {
	if m.listAnimeSchedulesFn != nil {
		return m.listAnimeSchedulesFn(ctx, animeID)
	}
	return nil, nil
}

// mockTimelineBuilder はTimelineBuilderInterfaceのモック実装。
type mockTimelineBuilder struct {
	buildFn func(ctx context.Context, q timeline.Query) (*timeline.Timeline, error)
}

func (m *mockTimelineBuilder) Build(ctx context.Context, q timeline.Query) (*timeline.Timeline, error) {
	if m.buildFn != nil {
		return m.buildFn(ctx, q)
	}
	return &timeline.Timeline{Days: []timeline.DayBucket{}}, nil
}

// mockAnimeListService はAnimeListServiceInterfaceのモック実装。
type mockAnimeListService struct {
	upsertFn func(ctx context.Context, in animelist.UpsertInput) (*model.AnimeListEntry, bool, error)
	getFn    func(ctx context.Context, userID, animeID string) (*model.AnimeListEntry, error)
	listFn   func(ctx context.Context, userID string) ([]*model.AnimeListEntry, error)
	deleteFn func(ctx context.Context, userID, animeID string) error
}

func (m *mockAnimeListService) Upsert(ctx context.Context, in animelist.UpsertInput) (*model.AnimeListEntry, bool, error) {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, in)
	}
	return &model.AnimeListEntry{UserID: in.UserID, AnimeID: in.AnimeID}, true, nil
}

func (m *mockAnimeListService) Get(ctx context.Context, userID, animeID string) (*model.AnimeListEntry, error) {
	if m.getFn != nil {
		return m.getFn(ctx, userID, animeID)
	}
	return &model.AnimeListEntry{UserID: userID, AnimeID: animeID}, nil
}

func (m *mockAnimeListService) List(ctx context.Context, userID string) ([]*model.AnimeListEntry, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockAnimeListService) Delete(ctx context.Context, userID, animeID string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, userID, animeID)
	}
	return nil
}

var (
	_ AnimeServiceInterface     = (*mockAnimeService)(nil)
	_ PlatformServiceInterface  = (*mockPlatformService)(nil)
	_ ScheduleServiceInterface  = (*mockScheduleService)(nil)
	_ TimelineBuilderInterface  = (*mockTimelineBuilder)(nil)
	_ AnimeListServiceInterface = (*mockAnimeListService)(nil)
)

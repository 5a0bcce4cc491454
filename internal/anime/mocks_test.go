package anime

import (
	"context"

	"github.com/hitoshi/anischedule/internal/model"
	"github.com/hitoshi/anischedule/internal/repository"
)

// mockAnimeRepo はrepository.AnimeRepositoryのモック実装。
type mockAnimeRepo struct {
	findByIDFn    func(ctx context.Context, id string) (*model.Anime, error)
	findByMalIDFn func(ctx context.Context, malID int64) (*model.Anime, error)
	createFn      func(ctx context.Context, anime *model.Anime) error
	updateFn      func(ctx context.Context, anime *model.Anime) error
	deleteFn      func(ctx context.Context, id string) error
	listFn        func(ctx context.Context) ([]*model.Anime, error)
}

func (m *mockAnimeRepo) FindByID(ctx context.Context, id string) (*model.Anime, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockAnimeRepo) FindByMalID(ctx context.Context, malID int64) (*model.Anime, error) {
	if m.findByMalIDFn != nil {
		return m.findByMalIDFn(ctx, malID)
	}
	return nil, nil
}

func (m *mockAnimeRepo) Create(ctx context.Context, anime *model.Anime) error {
	if m.createFn != nil {
		return m.createFn(ctx, anime)
	}
	return nil
}

func (m *mockAnimeRepo) Update(ctx context.Context, anime *model.Anime) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, anime)
	}
	return nil
}

func (m *mockAnimeRepo) UpdateStatus(ctx context.Context, id string, status model.AnimeStatus) error {
	return nil
}

func (m *mockAnimeRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockAnimeRepo) List(ctx context.Context) ([]*model.Anime, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

// mockProvider はMetadataProviderのモック実装。
type mockProvider struct {
	fetchFn func(ctx context.Context, malID int64) (*Metadata, error)
}

func (m *mockProvider) FetchByMalID(ctx context.Context, malID int64) (*Metadata, error) {
	if m.fetchFn != nil {
		return m.fetchFn(ctx, malID)
	}
	return nil, nil
}

var (
	_ repository.AnimeRepository = (*mockAnimeRepo)(nil)
	_ MetadataProvider           = (*mockProvider)(nil)
)

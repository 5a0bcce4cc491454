package anime

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/hitoshi/anischedule/internal/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestCreate_FillsFromProvider(t *testing.T) {
	var created *model.Anime
	repo := &mockAnimeRepo{
		createFn: func(ctx context.Context, anime *model.Anime) error {
			created = anime
			return nil
		},
	}
	release := time.Date(2025, 4, 6, 0, 0, 0, 0, time.UTC)
	provider := &mockProvider{
		fetchFn: func(ctx context.Context, malID int64) (*Metadata, error) {
			return &Metadata{
				Title:        "補完タイトル",
				Picture:      "https://example.com/pic.jpg",
				ReleaseAt:    &release,
				EpisodeTotal: 12,
				Status:       model.AnimeStatusCurrentlyAiring,
			}, nil
		},
	}
	svc := NewService(repo, provider, testLogger())

	got, err := svc.Create(context.Background(), CreateInput{MalID: 100})
	if err != nil {
		t.Fatalf("作成に失敗: %v", err)
	}
	if created == nil {
		t.Fatal("Createが呼ばれていない")
	}
	if got.Title != "補完タイトル" || got.EpisodeTotal != 12 {
		t.Errorf("補完結果が不正: title=%q episodeTotal=%d", got.Title, got.EpisodeTotal)
	}
	if got.Status != model.AnimeStatusCurrentlyAiring {
		t.Errorf("status = %q, want currently_airing", got.Status)
	}
	if got.ID == "" {
		t.Error("IDが採番されていない")
	}
}

func TestCreate_InputTakesPrecedenceOverProvider(t *testing.T) {
	provider := &mockProvider{
		fetchFn: func(ctx context.Context, malID int64) (*Metadata, error) {
			return &Metadata{Title: "補完タイトル", EpisodeTotal: 24}, nil
		},
	}
	svc := NewService(&mockAnimeRepo{}, provider, testLogger())

	got, err := svc.Create(context.Background(), CreateInput{
		MalID: 100,
		Title: "指定タイトル",
	})
	if err != nil {
		t.Fatalf("作成に失敗: %v", err)
	}
	if got.Title != "指定タイトル" {
		t.Errorf("title = %q, want 指定タイトル", got.Title)
	}
	if got.EpisodeTotal != 24 {
		t.Errorf("episodeTotal = %d, want 24 (未指定フィールドは補完される)", got.EpisodeTotal)
	}
}

func TestCreate_ProviderFailureDoesNotBlock(t *testing.T) {
	provider := &mockProvider{
		fetchFn: func(ctx context.Context, malID int64) (*Metadata, error) {
			return nil, errors.New("外部カタログ障害")
		},
	}
	svc := NewService(&mockAnimeRepo{}, provider, testLogger())

	got, err := svc.Create(context.Background(), CreateInput{MalID: 100, Title: "タイトル"})
	if err != nil {
		t.Fatalf("補完失敗が作成を妨げた: %v", err)
	}
	if got.Status != model.AnimeStatusNotYetAired {
		t.Errorf("status = %q, want not_yet_aired (デフォルト)", got.Status)
	}
}

func TestCreate_WithoutProvider(t *testing.T) {
	svc := NewService(&mockAnimeRepo{}, nil, testLogger())

	got, err := svc.Create(context.Background(), CreateInput{MalID: 100, Title: "タイトル"})
	if err != nil {
		t.Fatalf("作成に失敗: %v", err)
	}
	if got.Title != "タイトル" {
		t.Errorf("title = %q, want タイトル", got.Title)
	}
}

func TestCreate_RejectsDuplicateMalID(t *testing.T) {
	repo := &mockAnimeRepo{
		findByMalIDFn: func(ctx context.Context, malID int64) (*model.Anime, error) {
			return &model.Anime{ID: "anime-1", MalID: malID}, nil
		},
	}
	svc := NewService(repo, nil, testLogger())

	_, err := svc.Create(context.Background(), CreateInput{MalID: 100})
	if err == nil {
		t.Fatal("重複malIdがエラーにならなかった")
	}
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("APIErrorであるべき: %v", err)
	}
	if apiErr.Code != "DUPLICATE_ENTRY" {
		t.Errorf("code = %q, want %q", apiErr.Code, "DUPLICATE_ENTRY")
	}
}

func TestCreate_RejectsInvalidStatus(t *testing.T) {
	svc := NewService(&mockAnimeRepo{}, nil, testLogger())

	_, err := svc.Create(context.Background(), CreateInput{MalID: 100, Status: "cancelled"})
	if err == nil {
		t.Fatal("不正なステータスがエラーにならなかった")
	}
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("APIErrorであるべき: %v", err)
	}
	if apiErr.Code != "INVALID_STATUS" {
		t.Errorf("code = %q, want %q", apiErr.Code, "INVALID_STATUS")
	}
}

func TestGet_NotFound(t *testing.T) {
	svc := NewService(&mockAnimeRepo{}, nil, testLogger())

	_, err := svc.Get(context.Background(), "missing")
	if err == nil {
		t.Fatal("未存在のアニメがエラーにならなかった")
	}
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("APIErrorであるべき: %v", err)
	}
	if apiErr.Code != "ANIME_NOT_FOUND" || apiErr.Category != "catalog" {
		t.Errorf("code=%q category=%q, want ANIME_NOT_FOUND/catalog", apiErr.Code, apiErr.Category)
	}
}

func TestUpdate_ForwardStatusTransition(t *testing.T) {
	var updated *model.Anime
	repo := &mockAnimeRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Anime, error) {
			return &model.Anime{ID: id, Status: model.AnimeStatusNotYetAired}, nil
		},
		updateFn: func(ctx context.Context, anime *model.Anime) error {
			updated = anime
			return nil
		},
	}
	svc := NewService(repo, nil, testLogger())

	status := model.AnimeStatusCurrentlyAiring
	got, err := svc.Update(context.Background(), "anime-1", UpdateInput{Status: &status})
	if err != nil {
		t.Fatalf("更新に失敗: %v", err)
	}
	if got.Status != model.AnimeStatusCurrentlyAiring {
		t.Errorf("status = %q, want currently_airing", got.Status)
	}
	if updated == nil {
		t.Fatal("Updateが呼ばれていない")
	}
}

func TestUpdate_RejectsBackwardStatusTransition(t *testing.T) {
	tests := []struct {
		name string
		from model.AnimeStatus
		to   model.AnimeStatus
	}{
		{"放送終了から放送中への逆行", model.AnimeStatusFinishedAiring, model.AnimeStatusCurrentlyAiring},
		{"放送中から放送前への逆行", model.AnimeStatusCurrentlyAiring, model.AnimeStatusNotYetAired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockAnimeRepo{
				findByIDFn: func(ctx context.Context, id string) (*model.Anime, error) {
					return &model.Anime{ID: id, Status: tt.from}, nil
				},
			}
			svc := NewService(repo, nil, testLogger())

			_, err := svc.Update(context.Background(), "anime-1", UpdateInput{Status: &tt.to})
			if err == nil {
				t.Fatal("逆行遷移がエラーにならなかった")
			}
			var apiErr *model.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("APIErrorであるべき: %v", err)
			}
			if apiErr.Code != "INVALID_STATUS" {
				t.Errorf("code = %q, want %q", apiErr.Code, "INVALID_STATUS")
			}
		})
	}
}

func TestUpdate_PartialFields(t *testing.T) {
	repo := &mockAnimeRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Anime, error) {
			return &model.Anime{
				ID:           id,
				Title:        "旧タイトル",
				Picture:      "https://example.com/old.jpg",
				EpisodeTotal: 12,
				Status:       model.AnimeStatusCurrentlyAiring,
			}, nil
		},
	}
	svc := NewService(repo, nil, testLogger())

	title := "新タイトル"
	got, err := svc.Update(context.Background(), "anime-1", UpdateInput{Title: &title})
	if err != nil {
		t.Fatalf("更新に失敗: %v", err)
	}
	if got.Title != "新タイトル" {
		t.Errorf("title = %q, want 新タイトル", got.Title)
	}
	if got.Picture != "https://example.com/old.jpg" || got.EpisodeTotal != 12 {
		t.Error("未指定のフィールドが変更された")
	}
}

func TestDelete_NotFound(t *testing.T) {
	svc := NewService(&mockAnimeRepo{}, nil, testLogger())

	err := svc.Delete(context.Background(), "missing")
	if err == nil {
		t.Fatal("未存在のアニメの削除がエラーにならなかった")
	}
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("APIErrorであるべき: %v", err)
	}
	if apiErr.Code != "ANIME_NOT_FOUND" {
		t.Errorf("code = %q, want %q", apiErr.Code, "ANIME_NOT_FOUND")
	}
}

func TestDelete_Success(t *testing.T) {
	deleted := ""
	repo := &mockAnimeRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Anime, error) {
			return &model.Anime{ID: id}, nil
		},
		deleteFn: func(ctx context.Context, id string) error {
			deleted = id
			return nil
		},
	}
	svc := NewService(repo, nil, testLogger())

	if err := svc.Delete(context.Background(), "anime-1"); err != nil {
		t.Fatalf("削除に失敗: %v", err)
	}
	if deleted != "anime-1" {
		t.Errorf("削除対象 = %q, want anime-1", deleted)
	}
}

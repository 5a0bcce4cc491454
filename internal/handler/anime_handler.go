package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/anischedule/internal/anime"
	"github.com/hitoshi/anischedule/internal/model"
)

// AnimeServiceInterface はアニメハンドラーが必要とするサービスインターフェース。
type AnimeServiceInterface interface {
	// Create はアニメを作成する。未指定のフィールドは外部カタログから補完される。
	Create(ctx context.Context, in anime.CreateInput) (*model.Anime, error)
	// Get は指定IDのアニメを取得する。
	Get(ctx context.Context, id string) (*model.Anime, error)
	// Update はアニメ情報を部分更新する。
	Update(ctx context.Context, id string, in anime.UpdateInput) (*model.Anime, error)
	// Delete は指定IDのアニメを削除する。
	Delete(ctx context.Context, id string) error
	// List は全アニメを取得する。
	List(ctx context.Context) ([]*model.Anime, error)
}

// AnimeHandler はアニメカタログのHTTPハンドラー。
type AnimeHandler struct {
	service AnimeServiceInterface
}

// NewAnimeHandler はAnimeHandlerを生成する。
func NewAnimeHandler(service AnimeServiceInterface) *AnimeHandler {
	return &AnimeHandler{service: service}
}

// createAnimeRequest はアニメ作成リクエストのボディ。
type createAnimeRequest struct {
	MalID        int64  `json:"malId"`
	Title        string `json:"title"`
	Picture      string `json:"picture"`
	ReleaseAt    string `json:"releaseAt"`
	EpisodeTotal int    `json:"episodeTotal"`
	Status       string `json:"status"`
}

// updateAnimeRequest はアニメ更新リクエストのボディ。
type updateAnimeRequest struct {
	Title        *string `json:"title"`
	Picture      *string `json:"picture"`
	ReleaseAt    *string `json:"releaseAt"`
	EpisodeTotal *int    `json:"episodeTotal"`
	Status       *string `json:"status"`
}

// animeResponse はアニメ情報のAPIレスポンス。
type animeResponse struct {
	ID           string     `json:"id"`
	MalID        int64      `json:"malId"`
	Title        string     `json:"title"`
	Picture      string     `json:"picture"`
	ReleaseAt    *time.Time `json:"releaseAt"`
	EpisodeTotal int        `json:"episodeTotal"`
	Status       string     `json:"status"`
}

// CreateAnime はアニメ作成を処理する。
// POST /api/animes
func (h *AnimeHandler) CreateAnime(w http.ResponseWriter, r *http.Request) {
	var req createAnimeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	in := anime.CreateInput{
		MalID:        req.MalID,
		Title:        req.Title,
		Picture:      req.Picture,
		EpisodeTotal: req.EpisodeTotal,
		Status:       model.AnimeStatus(req.Status),
	}
	if req.ReleaseAt != "" {
		releaseAt, err := parseTimestamp(req.ReleaseAt)
		if err != nil {
			writeAPIErrorResponse(w, http.StatusBadRequest, invalidTimestampError("releaseAt"))
			return
		}
		in.ReleaseAt = &releaseAt
	}

	created, err := h.service.Create(r.Context(), in)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAnimeResponse(created))
}

// GetAnime はアニメ詳細を取得する。
// GET /api/animes/:id
func (h *AnimeHandler) GetAnime(w http.ResponseWriter, r *http.Request) {
	got, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAnimeResponse(got))
}

// UpdateAnime はアニメ情報を部分更新する。
// PATCH /api/animes/:id
func (h *AnimeHandler) UpdateAnime(w http.ResponseWriter, r *http.Request) {
	var req updateAnimeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	in := anime.UpdateInput{
		Title:        req.Title,
		Picture:      req.Picture,
		EpisodeTotal: req.EpisodeTotal,
	}
	if req.ReleaseAt != nil {
		releaseAt, err := parseTimestamp(*req.ReleaseAt)
		if err != nil {
			writeAPIErrorResponse(w, http.StatusBadRequest, invalidTimestampError("releaseAt"))
			return
		}
		in.ReleaseAt = &releaseAt
	}
	if req.Status != nil {
		status := model.AnimeStatus(*req.Status)
		in.Status = &status
	}

	updated, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAnimeResponse(updated))
}

// DeleteAnime はアニメを削除する。
// DELETE /api/animes/:id
func (h *AnimeHandler) DeleteAnime(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListAnimes はアニメ一覧を取得する。
// GET /api/animes
func (h *AnimeHandler) ListAnimes(w http.ResponseWriter, r *http.Request) {
	animes, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	res := make([]animeResponse, 0, len(animes))
	for _, a := range animes {
		res = append(res, toAnimeResponse(a))
	}
	writeJSON(w, http.StatusOK, res)
}

// toAnimeResponse はmodel.AnimeからAPIレスポンスに変換する。
func toAnimeResponse(a *model.Anime) animeResponse {
	return animeResponse{
		ID:           a.ID,
		MalID:        a.MalID,
		Title:        a.Title,
		Picture:      a.Picture,
		ReleaseAt:    a.ReleaseAt,
		EpisodeTotal: a.EpisodeTotal,
		Status:       string(a.Status),
	}
}

// invalidTimestampError は日時フィールドの解析失敗エラーを生成する。
func invalidTimestampError(field string) *model.APIError {
	return &model.APIError{
		Code:     "INVALID_REQUEST",
		Message:  field + " の日時形式が不正です。",
		Category: "validation",
		Action:   "RFC3339形式または YYYY-MM-DD 形式で指定してください。",
	}
}

package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/anischedule/internal/model"
	"github.com/hitoshi/anischedule/internal/platform"
)

// PlatformServiceInterface はプラットフォームハンドラーが必要とするサービスインターフェース。
type PlatformServiceInterface interface {
	CreatePlatform(ctx context.Context, name string) (*model.Platform, error)
	GetPlatform(ctx context.Context, id string) (*model.Platform, error)
	UpdatePlatform(ctx context.Context, id, name string) (*model.Platform, error)
	DeletePlatform(ctx context.Context, id string) error
	ListPlatforms(ctx context.Context) ([]*model.Platform, error)

	CreateAnimePlatform(ctx context.Context, in platform.AnimePlatformInput) (*model.AnimePlatform, error)
	GetAnimePlatform(ctx context.Context, id string) (*model.AnimePlatform, error)
	UpdateAnimePlatform(ctx context.Context, id string, in platform.AnimePlatformUpdateInput) (*model.AnimePlatform, error)
	DeleteAnimePlatform(ctx context.Context, id string) error
	ListAnimePlatforms(ctx context.Context, animeID string) ([]*model.AnimePlatform, error)
}

// PlatformHandler はプラットフォームカタログのHTTPハンドラー。
type PlatformHandler struct {
	service PlatformServiceInterface
}

// NewPlatformHandler はPlatformHandlerを生成する。
func NewPlatformHandler(service PlatformServiceInterface) *PlatformHandler {
	return &PlatformHandler{service: service}
}

// platformRequest はプラットフォーム作成・更新リクエストのボディ。
type platformRequest struct {
	Name string `json:"name"`
}

// platformResponse はプラットフォーム情報のAPIレスポンス。
type platformResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// createAnimePlatformRequest はアニメプラットフォーム作成リクエストのボディ。
type createAnimePlatformRequest struct {
	AnimeID             string `json:"animeId"`
	PlatformID          string `json:"platformId"`
	Link                string `json:"link"`
	AccessType          string `json:"accessType"`
	EpisodeAired        int    `json:"episodeAired"`
	LastEpisodeAiredAt  string `json:"lastEpisodeAiredAt"`
	NextEpisodeAiringAt string `json:"nextEpisodeAiringAt"`
	IntervalInDays      int    `json:"intervalInDays"`
	IsMainPlatform      bool   `json:"isMainPlatform"`
	IsHiatus            bool   `json:"isHiatus"`
}

// updateAnimePlatformRequest はアニメプラットフォーム更新リクエストのボディ。
type updateAnimePlatformRequest struct {
	Link                *string `json:"link"`
	AccessType          *string `json:"accessType"`
	EpisodeAired        *int    `json:"episodeAired"`
	LastEpisodeAiredAt  *string `json:"lastEpisodeAiredAt"`
	NextEpisodeAiringAt *string `json:"nextEpisodeAiringAt"`
	IntervalInDays      *int    `json:"intervalInDays"`
	IsMainPlatform      *bool   `json:"isMainPlatform"`
	IsHiatus            *bool   `json:"isHiatus"`
}

// animePlatformResponse はアニメプラットフォーム情報のAPIレスポンス。
type animePlatformResponse struct {
	ID                  string     `json:"id"`
	AnimeID             string     `json:"animeId"`
	PlatformID          string     `json:"platformId"`
	Link                string     `json:"link"`
	AccessType          string     `json:"accessType"`
	EpisodeAired        int        `json:"episodeAired"`
	LastEpisodeAiredAt  *time.Time `json:"lastEpisodeAiredAt"`
	NextEpisodeAiringAt *time.Time `json:"nextEpisodeAiringAt"`
	IntervalInDays      int        `json:"intervalInDays"`
	IsMainPlatform      bool       `json:"isMainPlatform"`
	IsHiatus            bool       `json:"isHiatus"`
}

// CreatePlatform はプラットフォーム作成を処理する。
// POST /api/platforms
func (h *PlatformHandler) CreatePlatform(w http.ResponseWriter, r *http.Request) {
	var req platformRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}
	if req.Name == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "プラットフォーム名が空です。",
			Category: "validation",
			Action:   "nameを指定してください。",
		})
		return
	}

	created, err := h.service.CreatePlatform(r.Context(), req.Name)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPlatformResponse(created))
}

// GetPlatform はプラットフォーム詳細を取得する。
// GET /api/platforms/:id
func (h *PlatformHandler) GetPlatform(w http.ResponseWriter, r *http.Request) {
	got, err := h.service.GetPlatform(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPlatformResponse(got))
}

// UpdatePlatform はプラットフォーム名を変更する。
// PATCH /api/platforms/:id
func (h *PlatformHandler) UpdatePlatform(w http.ResponseWriter, r *http.Request) {
	var req platformRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	updated, err := h.service.UpdatePlatform(r.Context(), chi.URLParam(r, "id"), req.Name)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPlatformResponse(updated))
}

// DeletePlatform はプラットフォームを削除する。
// DELETE /api/platforms/:id
func (h *PlatformHandler) DeletePlatform(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeletePlatform(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListPlatforms はプラットフォーム一覧を取得する。
// GET /api/platforms
func (h *PlatformHandler) ListPlatforms(w http.ResponseWriter, r *http.Request) {
	platforms, err := h.service.ListPlatforms(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	res := make([]platformResponse, 0, len(platforms))
	for _, p := range platforms {
		res = append(res, toPlatformResponse(p))
	}
	writeJSON(w, http.StatusOK, res)
}

// CreateAnimePlatform はアニメとプラットフォームの紐付け作成を処理する。
// POST /api/anime-platforms
func (h *PlatformHandler) CreateAnimePlatform(w http.ResponseWriter, r *http.Request) {
	var req createAnimePlatformRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	in := platform.AnimePlatformInput{
		AnimeID:        req.AnimeID,
		PlatformID:     req.PlatformID,
		Link:           req.Link,
		AccessType:     req.AccessType,
		EpisodeAired:   req.EpisodeAired,
		IntervalInDays: req.IntervalInDays,
		IsMainPlatform: req.IsMainPlatform,
		IsHiatus:       req.IsHiatus,
	}
	if req.LastEpisodeAiredAt != "" {
		at, err := parseTimestamp(req.LastEpisodeAiredAt)
		if err != nil {
			writeAPIErrorResponse(w, http.StatusBadRequest, invalidTimestampError("lastEpisodeAiredAt"))
			return
		}
		in.LastEpisodeAiredAt = &at
	}
	if req.NextEpisodeAiringAt != "" {
		at, err := parseTimestamp(req.NextEpisodeAiringAt)
		if err != nil {
			writeAPIErrorResponse(w, http.StatusBadRequest, invalidTimestampError("nextEpisodeAiringAt"))
			return
		}
		in.NextEpisodeAiringAt = &at
	}

	created, err := h.service.CreateAnimePlatform(r.Context(), in)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAnimePlatformResponse(created))
}

// GetAnimePlatform はアニメプラットフォーム詳細を取得する。
// GET /api/anime-platforms/:id
func (h *PlatformHandler) GetAnimePlatform(w http.ResponseWriter, r *http.Request) {
	got, err := h.service.GetAnimePlatform(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAnimePlatformResponse(got))
}

// UpdateAnimePlatform はアニメプラットフォームを部分更新する。
// PATCH /api/anime-platforms/:id
func (h *PlatformHandler) UpdateAnimePlatform(w http.ResponseWriter, r *http.Request) {
	var req updateAnimePlatformRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	in := platform.AnimePlatformUpdateInput{
		Link:           req.Link,
		AccessType:     req.AccessType,
		EpisodeAired:   req.EpisodeAired,
		IntervalInDays: req.IntervalInDays,
		IsMainPlatform: req.IsMainPlatform,
		IsHiatus:       req.IsHiatus,
	}
	if req.LastEpisodeAiredAt != nil {
		at, err := parseTimestamp(*req.LastEpisodeAiredAt)
		if err != nil {
			writeAPIErrorResponse(w, http.StatusBadRequest, invalidTimestampError("lastEpisodeAiredAt"))
			return
		}
		in.LastEpisodeAiredAt = &at
	}
	if req.NextEpisodeAiringAt != nil {
		at, err := parseTimestamp(*req.NextEpisodeAiringAt)
		if err != nil {
			writeAPIErrorResponse(w, http.StatusBadRequest, invalidTimestampError("nextEpisodeAiringAt"))
			return
		}
		in.NextEpisodeAiringAt = &at
	}

	updated, err := h.service.UpdateAnimePlatform(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAnimePlatformResponse(updated))
}

// DeleteAnimePlatform はアニメプラットフォームを削除する。
// DELETE /api/anime-platforms/:id
func (h *PlatformHandler) DeleteAnimePlatform(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteAnimePlatform(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListAnimePlatforms はアニメに紐付くアニメプラットフォーム一覧を取得する。
// GET /api/animes/:id/platforms
func (h *PlatformHandler) ListAnimePlatforms(w http.ResponseWriter, r *http.Request) {
	aps, err := h.service.ListAnimePlatforms(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	res := make([]animePlatformResponse, 0, len(aps))
	for _, ap := range aps {
		res = append(res, toAnimePlatformResponse(ap))
	}
	writeJSON(w, http.StatusOK, res)
}

func toPlatformResponse(p *model.Platform) platformResponse {
	return platformResponse{ID: p.ID, Name: p.Name}
}

func toAnimePlatformResponse(ap *model.AnimePlatform) animePlatformResponse {
	return animePlatformResponse{
		ID:                  ap.ID,
		AnimeID:             ap.AnimeID,
		PlatformID:          ap.PlatformID,
		Link:                ap.Link,
		AccessType:          ap.AccessType,
		EpisodeAired:        ap.EpisodeAired,
		LastEpisodeAiredAt:  ap.LastEpisodeAiredAt,
		NextEpisodeAiringAt: ap.NextEpisodeAiringAt,
		IntervalInDays:      ap.IntervalInDays,
		IsMainPlatform:      ap.IsMainPlatform,
		IsHiatus:            ap.IsHiatus,
	}
}

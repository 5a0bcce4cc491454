package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/anischedule/internal/model"
)

// ScheduleServiceInterface はスケジュールハンドラーが必要とするサービスインターフェース。
type ScheduleServiceInterface interface {
	// UpsertPlatformSchedule はエピソードのキュレーション済み配信日時を
	// 時系列整合性を検証してから登録する。
	UpsertPlatformSchedule(ctx context.Context, animePlatformID string, episodeNumber int, updateOn time.Time) (*model.PlatformSchedule, error)
	// ListPlatformSchedules はアニメプラットフォームの全スケジュールを取得する。
	ListPlatformSchedules(ctx context.Context, animePlatformID string) ([]*model.PlatformSchedule, error)
	// DeletePlatformSchedule はスケジュールを削除する。
	DeletePlatformSchedule(ctx context.Context, scheduleID string) error
	// UpsertAnimeSchedule はアニメレベルのステータス遷移予約を登録する。
	UpsertAnimeSchedule(ctx context.Context, animeID string, status model.AnimeStatus, updateOn time.Time) (*model.AnimeSchedule, error)
	// ListAnimeSchedules はアニメの全遷移予約を取得する。
	ListAnimeSchedules(ctx context.Context, animeID string) ([]*model.AnimeSchedule, error)
}

// ScheduleHandler は配信スケジュールのHTTPハンドラー。
type ScheduleHandler struct {
	service ScheduleServiceInterface
}

// NewScheduleHandler はScheduleHandlerを生成する。
func NewScheduleHandler(service ScheduleServiceInterface) *ScheduleHandler {
	return &ScheduleHandler{service: service}
}

// upsertScheduleRequest はスケジュール登録リクエストのボディ。
type upsertScheduleRequest struct {
	EpisodeNumber int    `json:"episodeNumber"`
	UpdateOn      string `json:"updateOn"`
}

// upsertAnimeScheduleRequest はステータス遷移予約リクエストのボディ。
type upsertAnimeScheduleRequest struct {
	Status   string `json:"status"`
	UpdateOn string `json:"updateOn"`
}

// scheduleResponse はスケジュールのAPIレスポンス。
type scheduleResponse struct {
	ID              string    `json:"id"`
	AnimePlatformID string    `json:"animePlatformId"`
	EpisodeNumber   int       `json:"episodeNumber"`
	UpdateOn        time.Time `json:"updateOn"`
	IsUpdated       bool      `json:"isUpdated"`
}

// animeScheduleResponse はステータス遷移予約のAPIレスポンス。
type animeScheduleResponse struct {
	ID        string    `json:"id"`
	AnimeID   string    `json:"animeId"`
	Status    string    `json:"status"`
	UpdateOn  time.Time `json:"updateOn"`
	IsUpdated bool      `json:"isUpdated"`
}

// UpsertPlatformSchedule はエピソードの配信日時登録を処理する。
// POST /api/anime-platforms/:id/schedules
func (h *ScheduleHandler) UpsertPlatformSchedule(w http.ResponseWriter, r *http.Request) {
	var req upsertScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}
	updateOn, err := parseTimestamp(req.UpdateOn)
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, invalidTimestampError("updateOn"))
		return
	}

	schedule, err := h.service.UpsertPlatformSchedule(r.Context(), chi.URLParam(r, "id"), req.EpisodeNumber, updateOn)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toScheduleResponse(schedule))
}

// ListPlatformSchedules はアニメプラットフォームのスケジュール一覧を取得する。
// GET /api/anime-platforms/:id/schedules
func (h *ScheduleHandler) ListPlatformSchedules(w http.ResponseWriter, r *http.Request) {
	schedules, err := h.service.ListPlatformSchedules(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	res := make([]scheduleResponse, 0, len(schedules))
	for _, s := range schedules {
		res = append(res, toScheduleResponse(s))
	}
	writeJSON(w, http.StatusOK, res)
}

// DeletePlatformSchedule はスケジュールを削除する。
// DELETE /api/schedules/:id
func (h *ScheduleHandler) DeletePlatformSchedule(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeletePlatformSchedule(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpsertAnimeSchedule はアニメレベルのステータス遷移予約を処理する。
// POST /api/animes/:id/schedules
func (h *ScheduleHandler) UpsertAnimeSchedule(w http.ResponseWriter, r *http.Request) {
	var req upsertAnimeScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}
	updateOn, err := parseTimestamp(req.UpdateOn)
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, invalidTimestampError("updateOn"))
		return
	}

	schedule, err := h.service.UpsertAnimeSchedule(r.Context(), chi.URLParam(r, "id"), model.AnimeStatus(req.Status), updateOn)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAnimeScheduleResponse(schedule))
}

// ListAnimeSchedules はアニメのステータス遷移予約一覧を取得する。
// GET /api/animes/:id/schedules
func (h *ScheduleHandler) ListAnimeSchedules(w http.ResponseWriter, r *http.Request) {
	schedules, err := h.service.ListAnimeSchedules(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	res := make([]animeScheduleResponse, 0, len(schedules))
	for _, s := range schedules {
		res = append(res, toAnimeScheduleResponse(s))
	}
	writeJSON(w, http.StatusOK, res)
}

func toScheduleResponse(s *model.PlatformSchedule) scheduleResponse {
	return scheduleResponse{
		ID:              s.ID,
		AnimePlatformID: s.AnimePlatformID,
		EpisodeNumber:   s.EpisodeNumber,
		UpdateOn:        s.UpdateOn,
		IsUpdated:       s.IsUpdated,
	}
}

func toAnimeScheduleResponse(s *model.AnimeSchedule) animeScheduleResponse {
	return animeScheduleResponse{
		ID:        s.ID,
		AnimeID:   s.AnimeID,
		Status:    string(s.Status),
		UpdateOn:  s.UpdateOn,
		IsUpdated: s.IsUpdated,
	}
}

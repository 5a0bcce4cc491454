package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/anischedule/internal/animelist"
	"github.com/hitoshi/anischedule/internal/model"
)

// AnimeListServiceInterface は視聴リストハンドラーが必要とするサービスインターフェース。
type AnimeListServiceInterface interface {
	// Upsert は視聴リストエントリを作成または更新する。新規作成した場合はtrueを返す。
	Upsert(ctx context.Context, in animelist.UpsertInput) (*model.AnimeListEntry, bool, error)
	// Get は(userID, animeID)のエントリを取得する。
	Get(ctx context.Context, userID, animeID string) (*model.AnimeListEntry, error)
	// List はユーザーの全エントリを取得する。
	List(ctx context.Context, userID string) ([]*model.AnimeListEntry, error)
	// Delete は(userID, animeID)のエントリを削除する。
	Delete(ctx context.Context, userID, animeID string) error
}

// AnimeListHandler はユーザー視聴リストのHTTPハンドラー。
type AnimeListHandler struct {
	service AnimeListServiceInterface
}

// NewAnimeListHandler はAnimeListHandlerを生成する。
func NewAnimeListHandler(service AnimeListServiceInterface) *AnimeListHandler {
	return &AnimeListHandler{service: service}
}

// upsertAnimeListRequest は視聴リスト登録リクエストのボディ。
type upsertAnimeListRequest struct {
	UserID             string  `json:"userId"`
	AnimeID            string  `json:"animeId"`
	AnimePlatformID    *string `json:"animePlatformId"`
	Progress           *int    `json:"progress"`
	EpisodesDifference *int    `json:"episodesDifference"`
	Score              *int    `json:"score"`
	Status             *string `json:"status"`
	StartDate          *string `json:"startDate"`
	FinishDate         *string `json:"finishDate"`
}

// animeListResponse は視聴リストエントリのAPIレスポンス。
type animeListResponse struct {
	UserID             string     `json:"userId"`
	AnimeID            string     `json:"animeId"`
	AnimePlatformID    *string    `json:"animePlatformId"`
	Progress           int        `json:"progress"`
	EpisodesDifference int        `json:"episodesDifference"`
	Score              int        `json:"score"`
	Status             string     `json:"status"`
	StartDate          *time.Time `json:"startDate"`
	FinishDate         *time.Time `json:"finishDate"`
}

// UpsertAnimeList は視聴リストエントリの作成・更新を処理する。
// 新規作成時は201、更新時は200を返す。
// POST /api/anime-list
func (h *AnimeListHandler) UpsertAnimeList(w http.ResponseWriter, r *http.Request) {
	var req upsertAnimeListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}
	if req.UserID == "" || req.AnimeID == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "userIdとanimeIdは必須です。",
			Category: "validation",
			Action:   "userIdとanimeIdを指定してください。",
		})
		return
	}

	in := animelist.UpsertInput{
		UserID:             req.UserID,
		AnimeID:            req.AnimeID,
		AnimePlatformID:    req.AnimePlatformID,
		Progress:           req.Progress,
		EpisodesDifference: req.EpisodesDifference,
		Score:              req.Score,
		Status:             req.Status,
	}
	if req.StartDate != nil {
		at, err := parseTimestamp(*req.StartDate)
		if err != nil {
			writeAPIErrorResponse(w, http.StatusBadRequest, invalidTimestampError("startDate"))
			return
		}
		in.StartDate = &at
	}
	if req.FinishDate != nil {
		at, err := parseTimestamp(*req.FinishDate)
		if err != nil {
			writeAPIErrorResponse(w, http.StatusBadRequest, invalidTimestampError("finishDate"))
			return
		}
		in.FinishDate = &at
	}

	entry, created, err := h.service.Upsert(r.Context(), in)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, toAnimeListResponse(entry))
}

// GetAnimeList は視聴リストエントリを取得する。
// GET /api/anime-list/:animeId?userId=
func (h *AnimeListHandler) GetAnimeList(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeMissingUserID(w)
		return
	}

	entry, err := h.service.Get(r.Context(), userID, chi.URLParam(r, "animeId"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAnimeListResponse(entry))
}

// ListAnimeList はユーザーの視聴リスト一覧を取得する。
// GET /api/anime-list?userId=
func (h *AnimeListHandler) ListAnimeList(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeMissingUserID(w)
		return
	}

	entries, err := h.service.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	res := make([]animeListResponse, 0, len(entries))
	for _, e := range entries {
		res = append(res, toAnimeListResponse(e))
	}
	writeJSON(w, http.StatusOK, res)
}

// DeleteAnimeList は視聴リストエントリを削除する。
// DELETE /api/anime-list/:animeId?userId=
func (h *AnimeListHandler) DeleteAnimeList(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeMissingUserID(w)
		return
	}

	if err := h.service.Delete(r.Context(), userID, chi.URLParam(r, "animeId")); err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toAnimeListResponse(e *model.AnimeListEntry) animeListResponse {
	return animeListResponse{
		UserID:             e.UserID,
		AnimeID:            e.AnimeID,
		AnimePlatformID:    e.AnimePlatformID,
		Progress:           e.Progress,
		EpisodesDifference: e.EpisodesDifference,
		Score:              e.Score,
		Status:             e.Status,
		StartDate:          e.StartDate,
		FinishDate:         e.FinishDate,
	}
}

// writeMissingUserID はuserId未指定のエラーレスポンスを書き込む。
func writeMissingUserID(w http.ResponseWriter) {
	writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
		Code:     "INVALID_REQUEST",
		Message:  "userIdが指定されていません。",
		Category: "validation",
		Action:   "クエリパラメータuserIdを指定してください。",
	})
}

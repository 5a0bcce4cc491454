package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/hitoshi/anischedule/internal/model"
	"github.com/hitoshi/anischedule/internal/timeline"
)

// TimelineBuilderInterface はタイムラインハンドラーが必要とするインターフェース。
type TimelineBuilderInterface interface {
	// Build はクエリに従ってタイムラインを構築する。
	Build(ctx context.Context, q timeline.Query) (*timeline.Timeline, error)
}

// TimelineHandler はタイムラインのHTTPハンドラー。
type TimelineHandler struct {
	builder TimelineBuilderInterface
}

// NewTimelineHandler はTimelineHandlerを生成する。
func NewTimelineHandler(builder TimelineBuilderInterface) *TimelineHandler {
	return &TimelineHandler{builder: builder}
}

// GetTimeline はタイムライン取得を処理する。
// GET /api/timeline?weekCount=&timeZone=&myListOnly=&originalSchedule=&userId=
func (h *TimelineHandler) GetTimeline(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	weekCount, err := strconv.Atoi(query.Get("weekCount"))
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidWeekCountError(0))
		return
	}

	q := timeline.Query{
		UserID:              query.Get("userId"),
		WeekCount:           weekCount,
		TimeZone:            query.Get("timeZone"),
		MyListOnly:          query.Get("myListOnly") == "true",
		UseOriginalSchedule: query.Get("originalSchedule") == "true",
	}

	tl, err := h.builder.Build(r.Context(), q)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tl)
}

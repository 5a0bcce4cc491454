package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/anischedule/internal/metrics"
	"github.com/hitoshi/anischedule/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	LoggingMiddleware func(next http.Handler) http.Handler

	// カタログ
	AnimeService    AnimeServiceInterface
	PlatformService PlatformServiceInterface

	// スケジュール
	ScheduleService ScheduleServiceInterface

	// タイムライン
	TimelineBuilder TimelineBuilderInterface

	// 視聴リスト
	AnimeListService AnimeListServiceInterface

	// メトリクス
	MetricsGatherer prometheus.Gatherer
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CORSMiddleware → SecurityHeadersMiddleware → RecoveryMiddleware → LoggingMiddleware
//
// /health と /metrics はレート制限の外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewRecoveryMiddleware())
	if deps.LoggingMiddleware != nil {
		r.Use(deps.LoggingMiddleware)
	}

	animeHandler := NewAnimeHandler(deps.AnimeService)
	platformHandler := NewPlatformHandler(deps.PlatformService)
	scheduleHandler := NewScheduleHandler(deps.ScheduleService)
	timelineHandler := NewTimelineHandler(deps.TimelineBuilder)
	animeListHandler := NewAnimeListHandler(deps.AnimeListService)

	// --- 運用エンドポイント（レート制限の外） ---

	r.Get("/health", handleHealth)
	if deps.MetricsGatherer != nil {
		r.Handle("/metrics", metrics.Handler(deps.MetricsGatherer))
	}

	// --- APIルート ---
	r.Group(func(r chi.Router) {
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.GeneralMiddleware())
		}

		// アニメカタログ
		r.Route("/api/animes", func(r chi.Router) {
			r.Post("/", animeHandler.CreateAnime)
			r.Get("/", animeHandler.ListAnimes)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", animeHandler.GetAnime)
				r.Patch("/", animeHandler.UpdateAnime)
				r.Delete("/", animeHandler.DeleteAnime)

				// GET /api/animes/{id}/platforms - アニメごとの配信プラットフォーム一覧
				r.Get("/platforms", platformHandler.ListAnimePlatforms)

				// アニメレベルのステータス遷移予約
				r.Post("/schedules", scheduleHandler.UpsertAnimeSchedule)
				r.Get("/schedules", scheduleHandler.ListAnimeSchedules)
			})
		})

		// プラットフォームカタログ
		r.Route("/api/platforms", func(r chi.Router) {
			r.Post("/", platformHandler.CreatePlatform)
			r.Get("/", platformHandler.ListPlatforms)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", platformHandler.GetPlatform)
				r.Patch("/", platformHandler.UpdatePlatform)
				r.Delete("/", platformHandler.DeletePlatform)
			})
		})

		// アニメプラットフォーム
		r.Route("/api/anime-platforms", func(r chi.Router) {
			r.Post("/", platformHandler.CreateAnimePlatform)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", platformHandler.GetAnimePlatform)
				r.Patch("/", platformHandler.UpdateAnimePlatform)
				r.Delete("/", platformHandler.DeleteAnimePlatform)

				// キュレーション済み配信スケジュール
				// POST には登録専用レート制限を追加
				if deps.RateLimiter != nil {
					r.With(deps.RateLimiter.ScheduleRegistrationMiddleware()).Post("/schedules", scheduleHandler.UpsertPlatformSchedule)
				} else {
					r.Post("/schedules", scheduleHandler.UpsertPlatformSchedule)
				}
				r.Get("/schedules", scheduleHandler.ListPlatformSchedules)
			})
		})

		// スケジュール（管理用削除）
		r.Delete("/api/schedules/{id}", scheduleHandler.DeletePlatformSchedule)

		// タイムライン
		r.Get("/api/timeline", timelineHandler.GetTimeline)

		// 視聴リスト
		r.Route("/api/anime-list", func(r chi.Router) {
			r.Post("/", animeListHandler.UpsertAnimeList)
			r.Get("/", animeListHandler.ListAnimeList)

			r.Route("/{animeId}", func(r chi.Router) {
				r.Get("/", animeListHandler.GetAnimeList)
				r.Delete("/", animeListHandler.DeleteAnimeList)
			})
		})
	})

	return r
}

// handleHealth はヘルスチェックを処理する。
// GET /health
func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

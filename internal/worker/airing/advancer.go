// Package airing は放送スケジュールを自動進行させるバックグラウンドワーカーを提供する。
// キュレーション済みスケジュールの適用、固定周期によるエピソード進行、
// アニメステータスの遷移予約の適用を定期スイープで行う。
package airing

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hitoshi/anischedule/internal/metrics"
	"github.com/hitoshi/anischedule/internal/model"
	"github.com/hitoshi/anischedule/internal/repository"
)

// Advancer は放送進行のスイープを実行するワーカー。
// スイープは常に高々1つだけ実行される。前回のスイープが完了する前に
// 次のティックが到来した場合、そのティックはスキップされる（キューイングしない）。
type Advancer struct {
	animeRepo repository.AnimeRepository
	apRepo    repository.AnimePlatformRepository
	psRepo    repository.PlatformScheduleRepository
	asRepo    repository.AnimeScheduleRepository
	logger    *slog.Logger
	collector metrics.MetricsCollector

	maxConcurrency int
	running        atomic.Bool

	// now はテストで時計を差し替えるためのフック。
	now func() time.Time
}

// NewAdvancer はAdvancerの新しいインスタンスを生成する。
// maxConcurrencyが0以下の場合はデフォルト値10を使用する。
func NewAdvancer(
	animeRepo repository.AnimeRepository,
	apRepo repository.AnimePlatformRepository,
	psRepo repository.PlatformScheduleRepository,
	asRepo repository.AnimeScheduleRepository,
	logger *slog.Logger,
	collector metrics.MetricsCollector,
	maxConcurrency int,
) *Advancer {
	if maxConcurrency <= 0 {
		maxConcurrency = 10
	}
	return &Advancer{
		animeRepo:      animeRepo,
		apRepo:         apRepo,
		psRepo:         psRepo,
		asRepo:         asRepo,
		logger:         logger,
		collector:      collector,
		maxConcurrency: maxConcurrency,
		now:            time.Now,
	}
}

// Start は指定間隔のティッカーでAdvancerを起動する。
// コンテキストがキャンセルされるまで実行を継続する。
func (a *Advancer) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	a.logger.Info("放送進行ワーカーを開始しました",
		slog.Duration("interval", interval),
		slog.Int("max_concurrency", a.maxConcurrency),
	)

	// 起動直後に1回実行
	a.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("放送進行ワーカーを停止しました")
			return
		case <-ticker.C:
			a.RunOnce(ctx)
		}
	}
}

// RunOnce はスイープを1回実行する。
// 前回のスイープが実行中の場合は何もせずfalseを返す。
// 各行の処理エラーはログに記録され、スイープは最後まで継続する。
// 行をまたぐトランザクションは張らない。
func (a *Advancer) RunOnce(ctx context.Context) bool {
	if !a.running.CompareAndSwap(false, true) {
		a.logger.Warn("前回のスイープが実行中のためスキップします")
		return false
	}
	defer a.running.Store(false)

	start := time.Now()
	now := a.now()

	a.applyCuratedSchedules(ctx, now)
	a.advanceCadences(ctx, now)
	a.applyAnimeSchedules(ctx, now)

	a.collector.RecordSweepDuration(time.Since(start))
	return true
}

// applyCuratedSchedules は期限の到来したキュレーション済みスケジュールを
// エピソード番号昇順で適用する。昇順処理によりプラットフォーム内の
// 因果順序が保たれる。is_updatedへのマークが唯一の冪等性ガードとなる。
func (a *Advancer) applyCuratedSchedules(ctx context.Context, now time.Time) {
	due, err := a.psRepo.ListDue(ctx, now)
	if err != nil {
		a.logger.Error("キュレーション済みスケジュールの取得に失敗しました",
			slog.String("error", err.Error()),
		)
		a.collector.RecordAdvanceFailure("curated_list")
		return
	}

	for _, row := range due {
		if err := a.applyCuratedRow(ctx, row); err != nil {
			a.logger.Error("スケジュール行の適用に失敗しました",
				slog.String("schedule_id", row.ID),
				slog.String("anime_platform_id", row.AnimePlatformID),
				slog.Int("episode", row.EpisodeNumber),
				slog.String("error", err.Error()),
			)
			a.collector.RecordAdvanceFailure("curated_apply")
			continue
		}
		a.collector.RecordScheduleApplied(row.AnimePlatformID)
		a.logger.Info("キュレーション済みスケジュールを適用しました",
			slog.String("anime_platform_id", row.AnimePlatformID),
			slog.Int("episode", row.EpisodeNumber),
		)
	}
}

// applyCuratedRow は1行のキュレーション済みスケジュールを適用する。
// 次のエピソードの行が存在する場合、そのupdateOnで
// next_episode_airing_atを先行設定する。
func (a *Advancer) applyCuratedRow(ctx context.Context, row *model.PlatformSchedule) error {
	next, err := a.psRepo.FindByPlatformAndEpisode(ctx, row.AnimePlatformID, row.EpisodeNumber+1)
	if err != nil {
		return err
	}

	var nextAiringAt *time.Time
	if next != nil {
		t := next.UpdateOn
		nextAiringAt = &t
	}

	if err := a.apRepo.ApplySchedule(ctx, row.AnimePlatformID, row.EpisodeNumber, row.UpdateOn, nextAiringAt); err != nil {
		return err
	}

	return a.psRepo.MarkUpdated(ctx, row.ID)
}

// advanceCadences はnext_episode_airing_atが到来した非休止の
// アニメプラットフォームを固定周期で進行させる。
// 未適用のキュレーション済みスケジュールを持つプラットフォームは
// リポジトリ側のクエリで除外されている。
// 行単位の更新は楽観的排他で保護され、競合した行はこのティックでは
// 破棄される（次のティックで自然に再選択される）。
func (a *Advancer) advanceCadences(ctx context.Context, now time.Time) {
	due, err := a.apRepo.ListDueForCadence(ctx, now)
	if err != nil {
		a.logger.Error("固定周期の進行対象の取得に失敗しました",
			slog.String("error", err.Error()),
		)
		a.collector.RecordAdvanceFailure("cadence_list")
		return
	}

	sem := make(chan struct{}, a.maxConcurrency)
	var wg sync.WaitGroup

	for _, row := range due {
		wg.Add(1)
		sem <- struct{}{}

		go func(ap *repository.AnimePlatformWithAnime) {
			defer wg.Done()
			defer func() { <-sem }()

			a.advanceCadenceRow(ctx, ap)
		}(row)
	}

	wg.Wait()
}

// advanceCadenceRow は1つのアニメプラットフォームを固定周期で1話進行させる。
func (a *Advancer) advanceCadenceRow(ctx context.Context, ap *repository.AnimePlatformWithAnime) {
	if ap.NextEpisodeAiringAt == nil {
		return
	}

	oldNext := *ap.NextEpisodeAiringAt
	newEpisode := ap.EpisodeAired + 1
	newNext := oldNext.AddDate(0, 0, ap.IntervalInDays)

	// 総話数が既知で最終話に到達した場合、固定周期は恒久的に停止する
	reachedFinal := ap.Anime.EpisodeTotal > 0 && newEpisode >= ap.Anime.EpisodeTotal

	applied, err := a.apRepo.AdvanceCadence(ctx, ap.ID, ap.EpisodeAired, newEpisode, oldNext, newNext, reachedFinal)
	if err != nil {
		a.logger.Error("固定周期の進行に失敗しました",
			slog.String("anime_platform_id", ap.ID),
			slog.Int("episode", newEpisode),
			slog.String("error", err.Error()),
		)
		a.collector.RecordAdvanceFailure("cadence_advance")
		return
	}
	if !applied {
		// 競合の敗者はこのティックでは破棄する。二重適用はしない
		a.logger.Warn("同時更新と競合したため進行を破棄しました",
			slog.String("anime_platform_id", ap.ID),
			slog.Int("episode", newEpisode),
		)
		a.collector.RecordConflictDrop()
		return
	}

	a.collector.RecordCadenceAdvanced(ap.ID)
	a.logger.Info("固定周期でエピソードを進行しました",
		slog.String("anime_platform_id", ap.ID),
		slog.String("anime_id", ap.AnimeID),
		slog.Int("episode", newEpisode),
		slog.Time("next_episode_airing_at", newNext),
	)

	// ステータス遷移の副作用
	status := ap.Anime.Status

	// 初回放送（0→1）で放送開始前のアニメは放送中に遷移する
	if newEpisode == 1 && status == model.AnimeStatusNotYetAired {
		if err := a.transitionAnime(ctx, ap.AnimeID, status, model.AnimeStatusCurrentlyAiring); err != nil {
			a.collector.RecordAdvanceFailure("status_transition")
			return
		}
		status = model.AnimeStatusCurrentlyAiring
	}

	// 最終話到達で放送中のアニメは放送終了に遷移する
	if reachedFinal && status == model.AnimeStatusCurrentlyAiring {
		if err := a.transitionAnime(ctx, ap.AnimeID, status, model.AnimeStatusFinishedAiring); err != nil {
			a.collector.RecordAdvanceFailure("status_transition")
		}
	}
}

// applyAnimeSchedules は期限の到来したステータス遷移予約を適用する。
// 遷移は前進方向のみ許可され、既に追い越されている予約は
// 適用せずに消化（適用済みマーク）される。
func (a *Advancer) applyAnimeSchedules(ctx context.Context, now time.Time) {
	due, err := a.asRepo.ListDue(ctx, now)
	if err != nil {
		a.logger.Error("ステータス遷移予約の取得に失敗しました",
			slog.String("error", err.Error()),
		)
		a.collector.RecordAdvanceFailure("anime_schedule_list")
		return
	}

	for _, row := range due {
		if err := a.applyAnimeScheduleRow(ctx, row); err != nil {
			a.logger.Error("ステータス遷移予約の適用に失敗しました",
				slog.String("anime_schedule_id", row.ID),
				slog.String("anime_id", row.AnimeID),
				slog.String("status", string(row.Status)),
				slog.String("error", err.Error()),
			)
			a.collector.RecordAdvanceFailure("anime_schedule_apply")
		}
	}
}

// applyAnimeScheduleRow は1件の遷移予約を適用する。
func (a *Advancer) applyAnimeScheduleRow(ctx context.Context, row *model.AnimeSchedule) error {
	anime, err := a.animeRepo.FindByID(ctx, row.AnimeID)
	if err != nil {
		return err
	}
	if anime == nil {
		// 親アニメが削除されている。予約を消化して終了
		return a.asRepo.MarkUpdated(ctx, row.ID)
	}

	if anime.Status.CanTransitionTo(row.Status) {
		if err := a.transitionAnime(ctx, anime.ID, anime.Status, row.Status); err != nil {
			return err
		}
	} else {
		a.logger.Info("前進しない遷移予約のため適用をスキップしました",
			slog.String("anime_id", anime.ID),
			slog.String("current", string(anime.Status)),
			slog.String("scheduled", string(row.Status)),
		)
	}

	return a.asRepo.MarkUpdated(ctx, row.ID)
}

// transitionAnime はアニメのステータスを更新し、メトリクスとログを記録する。
func (a *Advancer) transitionAnime(ctx context.Context, animeID string, from, to model.AnimeStatus) error {
	if err := a.animeRepo.UpdateStatus(ctx, animeID, to); err != nil {
		a.logger.Error("ステータス更新に失敗しました",
			slog.String("anime_id", animeID),
			slog.String("to", string(to)),
			slog.String("error", err.Error()),
		)
		return err
	}
	a.collector.RecordStatusTransition(string(to))
	a.logger.Info("アニメのステータスを遷移しました",
		slog.String("anime_id", animeID),
		slog.String("from", string(from)),
		slog.String("to", string(to)),
	)
	return nil
}

// Package cleanup は消化済みスケジュールの自動削除ジョブを提供する。
// 発火済み（is_updated = TRUE）のままテーブルに残っている古いスケジュール行を
// 日次バッチで削除する。未発火の行には一切触れない。
package cleanup

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// Executor はSQLのExecContextを抽象化するインターフェース。
// *sql.DB や *sql.Tx を受け付けることができる。
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// CleanupJob は保持期間を超過した消化済みスケジュールの自動削除ジョブ。
// 日次実行のバッチジョブとして設計されており、冪等な削除処理を保証する。
// 再実行時の重複発火防止はis_updatedフラグが担っているため、
// 保持期間内の消化済み行は削除しない。
type CleanupJob struct {
	db            Executor
	logger        *slog.Logger
	RetentionDays int // 消化済みスケジュールの保持日数（デフォルト: 180）
}

// NewCleanupJob は新しいCleanupJobを生成する。
// デフォルトの保持日数は180日。
func NewCleanupJob(db Executor, logger *slog.Logger) *CleanupJob {
	return &CleanupJob{
		db:            db,
		logger:        logger,
		RetentionDays: 180,
	}
}

// Run は保持期間を超過した消化済みスケジュールを削除する。
// update_onがRetentionDays日前より古く、かつis_updatedがTRUEの行を
// platform_schedulesとanime_schedulesの両方からDELETEする。
// 冪等: 削除対象がない場合でもエラーにならない。
func (j *CleanupJob) Run(ctx context.Context) error {
	start := time.Now()

	interval := fmt.Sprintf("%d days", j.RetentionDays)

	var total int64
	for _, table := range []string{"platform_schedules", "anime_schedules"} {
		query := fmt.Sprintf(
			`DELETE FROM %s WHERE is_updated AND update_on < now() - $1::interval`, table)
		result, err := j.db.ExecContext(ctx, query, interval)
		if err != nil {
			j.logger.Error("スケジュールクリーンアップジョブの実行に失敗しました",
				slog.String("table", table),
				slog.String("error", err.Error()),
				slog.Int("retention_days", j.RetentionDays),
			)
			return fmt.Errorf("スケジュールクリーンアップの実行に失敗: %w", err)
		}

		deleted, err := result.RowsAffected()
		if err != nil {
			j.logger.Error("削除件数の取得に失敗しました",
				slog.String("table", table),
				slog.String("error", err.Error()),
			)
			return fmt.Errorf("削除件数の取得に失敗: %w", err)
		}
		total += deleted
	}

	duration := time.Since(start)
	j.logger.Info("スケジュールクリーンアップジョブが完了しました",
		slog.Int64("deleted_count", total),
		slog.Int("retention_days", j.RetentionDays),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
	)

	return nil
}

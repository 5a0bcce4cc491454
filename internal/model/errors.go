package model

import (
	"fmt"
	"time"
)

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: validation, catalog, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeScheduleOrderViolation = "SCHEDULE_ORDER_VIOLATION"
	ErrCodeScheduleAnchorMissing  = "SCHEDULE_ANCHOR_MISSING"
	ErrCodeAnimeNotFound          = "ANIME_NOT_FOUND"
	ErrCodePlatformNotFound       = "PLATFORM_NOT_FOUND"
	ErrCodeAnimePlatformNotFound  = "ANIME_PLATFORM_NOT_FOUND"
	ErrCodeScheduleNotFound       = "SCHEDULE_NOT_FOUND"
	ErrCodeAnimeListNotFound      = "ANIME_LIST_NOT_FOUND"
	ErrCodeDuplicateEntry         = "DUPLICATE_ENTRY"
	ErrCodeInvalidTimeZone        = "INVALID_TIMEZONE"
	ErrCodeInvalidWeekCount       = "INVALID_WEEK_COUNT"
	ErrCodeInvalidEpisodeNumber   = "INVALID_EPISODE_NUMBER"
	ErrCodeInvalidStatus          = "INVALID_STATUS"
)

// NewScheduleOrderViolationError はスケジュールの時系列順序違反エラーを生成する。
// 衝突した隣接エピソードの番号と日時をメッセージに含める。
func NewScheduleOrderViolationError(neighborEpisode int, neighborUpdateOn time.Time) *APIError {
	return &APIError{
		Code: ErrCodeScheduleOrderViolation,
		Message: fmt.Sprintf("エピソード%dの配信日時（%s）と時系列が矛盾しています。",
			neighborEpisode, neighborUpdateOn.Format(time.RFC3339)),
		Category: "validation",
		Action:   "配信日時がエピソード番号順に単調増加するように指定してください。",
	}
}

// NewScheduleAnchorMissingError はエピソード1を起点としない孤立挿入のエラーを生成する。
func NewScheduleAnchorMissingError(episodeNumber int) *APIError {
	return &APIError{
		Code:     ErrCodeScheduleAnchorMissing,
		Message:  fmt.Sprintf("エピソード%dには隣接するスケジュールが存在しません。", episodeNumber),
		Category: "validation",
		Action:   "スケジュールはエピソード1を起点に連続した範囲で登録してください。",
	}
}

// NewAnimeNotFoundError はアニメ未検出エラーを生成する。
func NewAnimeNotFoundError(animeID string) *APIError {
	return &APIError{
		Code:     ErrCodeAnimeNotFound,
		Message:  fmt.Sprintf("指定されたアニメが見つかりません: %s", animeID),
		Category: "catalog",
		Action:   "アニメIDを確認してください。",
	}
}

// NewPlatformNotFoundError はプラットフォーム未検出エラーを生成する。
func NewPlatformNotFoundError(platformID string) *APIError {
	return &APIError{
		Code:     ErrCodePlatformNotFound,
		Message:  fmt.Sprintf("指定されたプラットフォームが見つかりません: %s", platformID),
		Category: "catalog",
		Action:   "プラットフォームIDを確認してください。",
	}
}

// NewAnimePlatformNotFoundError はアニメプラットフォーム未検出エラーを生成する。
func NewAnimePlatformNotFoundError(animePlatformID string) *APIError {
	return &APIError{
		Code:     ErrCodeAnimePlatformNotFound,
		Message:  fmt.Sprintf("指定されたアニメプラットフォームが見つかりません: %s", animePlatformID),
		Category: "catalog",
		Action:   "アニメプラットフォームIDを確認してください。",
	}
}

// NewScheduleNotFoundError はスケジュール未検出エラーを生成する。
func NewScheduleNotFoundError(scheduleID string) *APIError {
	return &APIError{
		Code:     ErrCodeScheduleNotFound,
		Message:  fmt.Sprintf("指定されたスケジュールが見つかりません: %s", scheduleID),
		Category: "catalog",
		Action:   "スケジュールIDを確認してください。",
	}
}

// NewAnimeListNotFoundError は視聴リストエントリ未検出エラーを生成する。
func NewAnimeListNotFoundError(animeID string) *APIError {
	return &APIError{
		Code:     ErrCodeAnimeListNotFound,
		Message:  fmt.Sprintf("指定されたアニメは視聴リストに登録されていません: %s", animeID),
		Category: "catalog",
		Action:   "視聴リストの内容を確認してください。",
	}
}

// NewDuplicateEntryError は一意制約に違反する重複登録のエラーを生成する。
func NewDuplicateEntryError(entity string) *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateEntry,
		Message:  fmt.Sprintf("%sは既に登録されています。", entity),
		Category: "validation",
		Action:   "既存の登録内容を確認してください。",
	}
}

// NewInvalidTimeZoneError は無効なタイムゾーン指定のエラーを生成する。
func NewInvalidTimeZoneError(timeZone string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidTimeZone,
		Message:  fmt.Sprintf("無効なタイムゾーンです: %s", timeZone),
		Category: "validation",
		Action:   "IANAタイムゾーン識別子（例: Asia/Tokyo）を指定してください。",
	}
}

// NewInvalidWeekCountError は無効な週数指定のエラーを生成する。
func NewInvalidWeekCountError(weekCount int) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidWeekCount,
		Message:  fmt.Sprintf("無効な週数です: %d", weekCount),
		Category: "validation",
		Action:   "週数には1以上の整数を指定してください。",
	}
}

// NewInvalidEpisodeNumberError は無効なエピソード番号のエラーを生成する。
func NewInvalidEpisodeNumberError(episodeNumber int) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidEpisodeNumber,
		Message:  fmt.Sprintf("無効なエピソード番号です: %d", episodeNumber),
		Category: "validation",
		Action:   "エピソード番号には1以上の整数を指定してください。",
	}
}

// NewInvalidStatusError は無効な放送ステータスのエラーを生成する。
func NewInvalidStatusError(status string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidStatus,
		Message:  fmt.Sprintf("無効な放送ステータスです: %s", status),
		Category: "validation",
		Action:   "not_yet_aired、currently_airing、finished_airing のいずれかを指定してください。",
	}
}

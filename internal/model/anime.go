// Package model はドメインモデルを定義する。
package model

import "time"

// Anime はカタログ上のアニメ作品を表す。
type Anime struct {
	ID           string
	MalID        int64
	Title        string
	Picture      string
	ReleaseAt    *time.Time
	EpisodeTotal int // 0は総話数未確定を表す
	Status       AnimeStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AnimeStatus はアニメの放送ステータスを表す。
// ステータスは not_yet_aired → currently_airing → finished_airing の順にのみ遷移する。
type AnimeStatus string

const (
	// AnimeStatusNotYetAired は放送開始前のステータス。
	AnimeStatusNotYetAired AnimeStatus = "not_yet_aired"
	// AnimeStatusCurrentlyAiring は放送中のステータス。
	AnimeStatusCurrentlyAiring AnimeStatus = "currently_airing"
	// AnimeStatusFinishedAiring は放送終了のステータス。
	AnimeStatusFinishedAiring AnimeStatus = "finished_airing"
)

// statusRank はステータスの遷移順序を表す。値が大きいほど後段。
var statusRank = map[AnimeStatus]int{
	AnimeStatusNotYetAired:     0,
	AnimeStatusCurrentlyAiring: 1,
	AnimeStatusFinishedAiring:  2,
}

// IsValid は既知のステータス値かどうかを返す。
func (s AnimeStatus) IsValid() bool {
	_, ok := statusRank[s]
	return ok
}

// CanTransitionTo は現在のステータスからnextへの前進遷移が可能かどうかを返す。
// 同一ステータスへの遷移と逆行は不可。
func (s AnimeStatus) CanTransitionTo(next AnimeStatus) bool {
	from, ok := statusRank[s]
	if !ok {
		return false
	}
	to, ok := statusRank[next]
	if !ok {
		return false
	}
	return to > from
}

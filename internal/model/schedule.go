package model

import "time"

// PlatformSchedule はエピソード単位で手動入力された配信日時を表す。
// 固定周期では表現できない不規則な配信カレンダーに使用する。
// (AnimePlatformID, EpisodeNumber) が一意キー。
type PlatformSchedule struct {
	ID              string
	AnimePlatformID string
	EpisodeNumber   int
	UpdateOn        time.Time
	IsUpdated       bool // true = Advancerによって適用済み
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// AnimeSchedule はアニメレベルのステータス遷移の予約を表す。
// 管理者が編集した時点ではなく、UpdateOnの時刻が到来した時点で
// Advancerのスイープによって適用される。
// (AnimeID, Status) が一意キー。
type AnimeSchedule struct {
	ID        string
	AnimeID   string
	Status    AnimeStatus
	UpdateOn  time.Time
	IsUpdated bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

package model

import "time"

// Platform は配信プラットフォームのカタログエントリを表す。
// 時間的な状態は持たない。
type Platform struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AnimePlatform はアニメとプラットフォームの紐付けごとの配信状態を表す。
// 自動進行（Advancer）が更新する中心的なミュータブルエンティティ。
type AnimePlatform struct {
	ID                  string
	AnimeID             string
	PlatformID          string
	Link                string
	AccessType          string
	EpisodeAired        int // 単調非減少。EpisodeTotal既知の場合はそれを超えない
	LastEpisodeAiredAt  *time.Time
	NextEpisodeAiringAt *time.Time
	IntervalInDays      int // キュレーション済みスケジュールが無い場合の固定周期
	IsMainPlatform      bool
	IsHiatus            bool // trueになった時点で自動進行は恒久的に停止する
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

package model

import "time"

// AnimeListEntry はユーザーの視聴リストのエントリを表す。
// (UserID, AnimeID) が一意キー。
type AnimeListEntry struct {
	UserID          string
	AnimeID         string
	AnimePlatformID *string // 指定された場合、タイムラインでメインプラットフォームより優先される
	Progress        int     // ユーザーが視聴済みのエピソード数
	// EpisodesDifference はユーザー個人のエピソード番号と
	// プラットフォームのカウンターとの符号付き差分。
	// 分割クールなどで番号付けがずれる場合に使用する。
	EpisodesDifference int
	Score              int
	Status             string
	StartDate          *time.Time
	FinishDate         *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

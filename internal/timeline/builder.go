// Package timeline はカタログ全体の配信状態とユーザー個別の設定を統合した
// タイムラインの構築ロジックを提供する。
package timeline

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/hitoshi/anischedule/internal/metrics"
	"github.com/hitoshi/anischedule/internal/model"
	"github.com/hitoshi/anischedule/internal/repository"
)

// Query はタイムライン構築の入力パラメータ。
type Query struct {
	// UserID は任意。指定された場合、視聴リストのプラットフォーム指定と
	// エピソード番号差分が反映される。
	UserID string
	// WeekCount は表示期間の週数。ウィンドウは現在時刻の前後3·WeekCount日。
	WeekCount int
	// TimeZone はIANAタイムゾーン名。日付境界はこのゾーンの暦日で計算する。
	TimeZone string
	// MyListOnly がtrueの場合、ユーザーの視聴リストにあるアニメのみを含める。
	MyListOnly bool
	// UseOriginalSchedule がtrueの場合、視聴リストのプラットフォーム指定を
	// 無視してメインプラットフォームのスケジュールを使用する。
	UseOriginalSchedule bool
}

// Event はタイムライン上の1件の配信イベント。
type Event struct {
	AnimeID         string    `json:"animeId"`
	AnimePlatformID string    `json:"animePlatformId"`
	PlatformID      string    `json:"platformId"`
	PlatformName    string    `json:"platformName"`
	Title           string    `json:"title"`
	Picture         string    `json:"picture"`
	Episode         int       `json:"episode"`
	AiredAt         time.Time `json:"airedAt"`
	Upcoming        bool      `json:"upcoming"`
	Link            string    `json:"link"`
	AccessType      string    `json:"accessType"`
}

// TimeSlot は同一の現地時刻（時:分）に配信されるイベントのグループ。
type TimeSlot struct {
	Time   string  `json:"time"`
	Events []Event `json:"events"`
}

// DayBucket は現地暦日ごとのイベントのグループ。
// イベントが無い日も空のバケットとして出力される。
type DayBucket struct {
	Date  string     `json:"date"`
	Slots []TimeSlot `json:"slots"`
}

// Timeline は構築結果。Daysは現地暦日の昇順。
type Timeline struct {
	Days []DayBucket `json:"days"`
}

// Builder はタイムラインを構築する。
// 読み取り専用の純粋な集約処理であり、状態を持たず並行呼び出しに安全。
type Builder struct {
	platformRepo repository.AnimePlatformRepository
	listRepo     repository.AnimeListRepository
	collector    metrics.MetricsCollector
	maxWeeks     int

	// now はテストから時刻を注入するためのフック。
	now func() time.Time
}

// NewBuilder はBuilderの新しいインスタンスを生成する。
// maxWeeksが0以下の場合は4にフォールバックする。
func NewBuilder(
	platformRepo repository.AnimePlatformRepository,
	listRepo repository.AnimeListRepository,
	collector metrics.MetricsCollector,
	maxWeeks int,
) *Builder {
	if maxWeeks <= 0 {
		maxWeeks = 4
	}
	return &Builder{
		platformRepo: platformRepo,
		listRepo:     listRepo,
		collector:    collector,
		maxWeeks:     maxWeeks,
		now:          time.Now,
	}
}

// Build はクエリに従ってタイムラインを構築する。
//
// ウィンドウは現在時刻の前後3·WeekCount日。候補は休止中でなく、
// 直近配信日時または次回配信予定日時がウィンドウ内にあるアニメ
// プラットフォーム。アニメごとに1つのプラットフォームを選択し、
// 「配信済み」（直近配信がウィンドウ開始より後かつ現在時刻より前）と
// 「配信予定」（次回配信が現在時刻より後かつウィンドウ終了より前）に
// 分類する。各イベントは現地暦日のバケットと時:分のスロットに
// グループ化される。
func (b *Builder) Build(ctx context.Context, q Query) (*Timeline, error) {
	start := time.Now()
	defer func() {
		if b.collector != nil {
			b.collector.RecordTimelineLatency(time.Since(start))
		}
	}()

	if q.WeekCount < 1 || q.WeekCount > b.maxWeeks {
		return nil, model.NewInvalidWeekCountError(q.WeekCount)
	}
	loc, err := time.LoadLocation(q.TimeZone)
	if err != nil {
		return nil, model.NewInvalidTimeZoneError(q.TimeZone)
	}

	localNow := b.now().In(loc)
	windowStart := localNow.AddDate(0, 0, -3*q.WeekCount)
	windowEnd := localNow.AddDate(0, 0, 3*q.WeekCount)

	candidates, err := b.platformRepo.ListAiringWithin(ctx, windowStart, windowEnd)
	if err != nil {
		return nil, fmt.Errorf("配信中アニメプラットフォームの取得に失敗しました: %w", err)
	}

	entries, err := b.loadListEntries(ctx, q.UserID)
	if err != nil {
		return nil, err
	}

	aired, ahead := b.classify(candidates, entries, q, localNow, windowStart, windowEnd, loc)

	sortEventsByTime(aired)
	sortEventsByTime(ahead)

	return bucketize(append(aired, ahead...), windowStart, windowEnd, loc), nil
}

// loadListEntries はユーザーの視聴リストをアニメIDをキーとするマップで返す。
// ユーザー未指定の場合は空のマップを返す。
func (b *Builder) loadListEntries(ctx context.Context, userID string) (map[string]*model.AnimeListEntry, error) {
	entries := make(map[string]*model.AnimeListEntry)
	if userID == "" {
		return entries, nil
	}
	list, err := b.listRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("視聴リストの取得に失敗しました: %w", err)
	}
	for _, e := range list {
		entries[e.AnimeID] = e
	}
	return entries, nil
}

// classify は候補からアニメごとに1プラットフォームを選択し、
// 配信済みと配信予定の2つのリストに振り分ける。
// candidatesはアニメID昇順、メインプラットフォーム優先、
// プラットフォームID昇順でソート済みであることを前提とする。
func (b *Builder) classify(
	candidates []*repository.AnimePlatformWithAnime,
	entries map[string]*model.AnimeListEntry,
	q Query,
	localNow, windowStart, windowEnd time.Time,
	loc *time.Location,
) (aired, ahead []Event) {
	seen := make(map[string]bool)
	for _, ap := range candidates {
		if seen[ap.AnimeID] {
			continue
		}
		entry := entries[ap.AnimeID]
		if q.MyListOnly && entry == nil {
			continue
		}

		selected := selectPlatform(ap, candidates, entry, q.UseOriginalSchedule)
		if selected == nil {
			continue
		}
		seen[ap.AnimeID] = true

		diff := 0
		if entry != nil {
			diff = entry.EpisodesDifference
		}

		if at := selected.LastEpisodeAiredAt; at != nil && at.After(windowStart) && at.Before(localNow) {
			aired = append(aired, newEvent(selected, at.In(loc), selected.EpisodeAired+diff, false))
		}
		if at := selected.NextEpisodeAiringAt; at != nil && at.After(localNow) && at.Before(windowEnd) {
			ahead = append(ahead, newEvent(selected, at.In(loc), selected.EpisodeAired+diff+1, true))
		}
	}
	return aired, ahead
}

// selectPlatform はアニメに対して使用するプラットフォームを決定する。
// 視聴リストにプラットフォーム指定があり、かつ元スケジュール表示でない
// 場合はその指定を使用する。指定されたプラットフォームが候補に
// 含まれない場合（休止中やウィンドウ外）、そのアニメは出力されない。
// 指定が無い場合は候補の先頭（メインプラットフォーム優先）を使用する。
func selectPlatform(
	first *repository.AnimePlatformWithAnime,
	candidates []*repository.AnimePlatformWithAnime,
	entry *model.AnimeListEntry,
	useOriginalSchedule bool,
) *repository.AnimePlatformWithAnime {
	if entry == nil || entry.AnimePlatformID == nil || useOriginalSchedule {
		return first
	}
	for _, c := range candidates {
		if c.AnimeID == first.AnimeID && c.AnimePlatform.ID == *entry.AnimePlatformID {
			return c
		}
	}
	return nil
}

func newEvent(ap *repository.AnimePlatformWithAnime, at time.Time, episode int, upcoming bool) Event {
	return Event{
		AnimeID:         ap.AnimeID,
		AnimePlatformID: ap.AnimePlatform.ID,
		PlatformID:      ap.PlatformID,
		PlatformName:    ap.PlatformName,
		Title:           ap.Anime.Title,
		Picture:         ap.Anime.Picture,
		Episode:         episode,
		AiredAt:         at,
		Upcoming:        upcoming,
		Link:            ap.Link,
		AccessType:      ap.AccessType,
	}
}

// sortEventsByTime はイベントを時刻昇順でソートする。
// 同時刻の場合はアニメID昇順で順序を固定し、出力を決定的にする。
func sortEventsByTime(events []Event) {
	sort.Slice(events, func(i, j int) bool {
		if !events[i].AiredAt.Equal(events[j].AiredAt) {
			return events[i].AiredAt.Before(events[j].AiredAt)
		}
		return events[i].AnimeID < events[j].AnimeID
	})
}

// bucketize はイベントを現地暦日のバケットと時:分のスロットに
// グループ化する。ウィンドウ内の全ての日についてバケットを生成し、
// イベントの無い日も空のバケットとして出力する。
func bucketize(events []Event, windowStart, windowEnd time.Time, loc *time.Location) *Timeline {
	startDay := time.Date(windowStart.Year(), windowStart.Month(), windowStart.Day(), 0, 0, 0, 0, loc)
	endDay := time.Date(windowEnd.Year(), windowEnd.Month(), windowEnd.Day(), 0, 0, 0, 0, loc)

	tl := &Timeline{}
	index := make(map[string]int)
	for d := startDay; !d.After(endDay); d = d.AddDate(0, 0, 1) {
		date := d.Format("2006-01-02")
		index[date] = len(tl.Days)
		tl.Days = append(tl.Days, DayBucket{Date: date, Slots: []TimeSlot{}})
	}

	for _, ev := range events {
		i, ok := index[ev.AiredAt.Format("2006-01-02")]
		if !ok {
			continue
		}
		day := &tl.Days[i]
		hhmm := ev.AiredAt.Format("15:04")
		placed := false
		for j := range day.Slots {
			if day.Slots[j].Time == hhmm {
				day.Slots[j].Events = append(day.Slots[j].Events, ev)
				placed = true
				break
			}
		}
		if !placed {
			day.Slots = append(day.Slots, TimeSlot{Time: hhmm, Events: []Event{ev}})
		}
	}
	return tl
}

package airing

import (
	"context"
	"sync"
	"time"

	"github.com/hitoshi/anischedule/internal/model"
	"github.com/hitoshi/anischedule/internal/repository"
)

// --- モック ---

type mockAnimeRepo struct {
	mu           sync.Mutex
	findByIDFn   func(ctx context.Context, id string) (*model.Anime, error)
	statusWrites []statusWrite
}

type statusWrite struct {
	animeID string
	status  model.AnimeStatus
}

func (m *mockAnimeRepo) FindByID(ctx context.Context, id string) (*model.Anime, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}
func (m *mockAnimeRepo) FindByMalID(ctx context.Context, malID int64) (*model.Anime, error) {
	return nil, nil
}
func (m *mockAnimeRepo) Create(ctx context.Context, anime *model.Anime) error { return nil }
func (m *mockAnimeRepo) Update(ctx context.Context, anime *model.Anime) error { return nil }
func (m *mockAnimeRepo) UpdateStatus(ctx context.Context, id string, status model.AnimeStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statusWrites = append(m.statusWrites, statusWrite{animeID: id, status: status})
	return nil
}
func (m *mockAnimeRepo) Delete(ctx context.Context, id string) error      { return nil }
func (m *mockAnimeRepo) List(ctx context.Context) ([]*model.Anime, error) { return nil, nil }

func (m *mockAnimeRepo) writes() []statusWrite {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]statusWrite(nil), m.statusWrites...)
}

type appliedSchedule struct {
	id           string
	episodeAired int
	lastAiredAt  time.Time
	nextAiringAt *time.Time
}

type cadenceAdvance struct {
	id           string
	fromEpisode  int
	episodeAired int
	lastAiredAt  time.Time
	nextAiringAt time.Time
	isHiatus     bool
}

type mockAnimePlatformRepo struct {
	mu               sync.Mutex
	listDueFn        func(ctx context.Context, now time.Time) ([]*repository.AnimePlatformWithAnime, error)
	advanceCadenceFn func(ctx context.Context, id string, fromEpisode, episodeAired int, lastAiredAt, nextAiringAt time.Time, isHiatus bool) (bool, error)
	applyScheduleFn  func(ctx context.Context, id string, episodeAired int, lastAiredAt time.Time, nextAiringAt *time.Time) error
	applied          []appliedSchedule
	advances         []cadenceAdvance
}

func (m *mockAnimePlatformRepo) FindByID(ctx context.Context, id string) (*model.AnimePlatform, error) {
	return nil, nil
}
func (m *mockAnimePlatformRepo) FindByAnimeAndPlatform(ctx context.Context, animeID, platformID string) (*model.AnimePlatform, error) {
	return nil, nil
}
func (m *mockAnimePlatformRepo) FindWithAnimeByID(ctx context.Context, id string) (*repository.AnimePlatformWithAnime, error) {
	return nil, nil
}
func (m *mockAnimePlatformRepo) ListByAnimeID(ctx context.Context, animeID string) ([]*model.AnimePlatform, error) {
	return nil, nil
}
func (m *mockAnimePlatformRepo) Upsert(ctx context.Context, ap *model.AnimePlatform) error {
	return nil
}
func (m *mockAnimePlatformRepo) Delete(ctx context.Context, id string) error { return nil }
func (m *mockAnimePlatformRepo) ApplySchedule(ctx context.Context, id string, episodeAired int, lastAiredAt time.Time, nextAiringAt *time.Time) error {
	if m.applyScheduleFn != nil {
		if err := m.applyScheduleFn(ctx, id, episodeAired, lastAiredAt, nextAiringAt); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.applied = append(m.applied, appliedSchedule{
		id:           id,
		episodeAired: episodeAired,
		lastAiredAt:  lastAiredAt,
		nextAiringAt: nextAiringAt,
	})
	return nil
}
func (m *mockAnimePlatformRepo) ListDueForCadence(ctx context.Context, now time.Time) ([]*repository.AnimePlatformWithAnime, error) {
	if m.listDueFn != nil {
		return m.listDueFn(ctx, now)
	}
	return nil, nil
}
func (m *mockAnimePlatformRepo) AdvanceCadence(ctx context.Context, id string, fromEpisode, episodeAired int, lastAiredAt, nextAiringAt time.Time, isHiatus bool) (bool, error) {
	applied := true
	if m.advanceCadenceFn != nil {
		var err error
		applied, err = m.advanceCadenceFn(ctx, id, fromEpisode, episodeAired, lastAiredAt, nextAiringAt, isHiatus)
		if err != nil {
			return false, err
		}
	}
	if applied {
		m.mu.Lock()
		m.advances = append(m.advances, cadenceAdvance{
			id:           id,
			fromEpisode:  fromEpisode,
			episodeAired: episodeAired,
			lastAiredAt:  lastAiredAt,
			nextAiringAt: nextAiringAt,
			isHiatus:     isHiatus,
		})
		m.mu.Unlock()
	}
	return applied, nil
}
func (m *mockAnimePlatformRepo) ListAiringWithin(ctx context.Context, from, to time.Time) ([]*repository.AnimePlatformWithAnime, error) {
	return nil, nil
}

func (m *mockAnimePlatformRepo) appliedRows() []appliedSchedule {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]appliedSchedule(nil), m.applied...)
}

func (m *mockAnimePlatformRepo) advancedRows() []cadenceAdvance {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]cadenceAdvance(nil), m.advances...)
}

type mockPlatformScheduleRepo struct {
	mu              sync.Mutex
	listDueFn       func(ctx context.Context, now time.Time) ([]*model.PlatformSchedule, error)
	findByEpisodeFn func(ctx context.Context, animePlatformID string, episodeNumber int) (*model.PlatformSchedule, error)
	marked          []string
}

func (m *mockPlatformScheduleRepo) FindByID(ctx context.Context, id string) (*model.PlatformSchedule, error) {
	return nil, nil
}
func (m *mockPlatformScheduleRepo) FindByPlatformAndEpisode(ctx context.Context, animePlatformID string, episodeNumber int) (*model.PlatformSchedule, error) {
	if m.findByEpisodeFn != nil {
		return m.findByEpisodeFn(ctx, animePlatformID, episodeNumber)
	}
	return nil, nil
}
func (m *mockPlatformScheduleRepo) ListByAnimePlatformID(ctx context.Context, animePlatformID string) ([]*model.PlatformSchedule, error) {
	return nil, nil
}
func (m *mockPlatformScheduleRepo) Upsert(ctx context.Context, schedule *model.PlatformSchedule) error {
	return nil
}
func (m *mockPlatformScheduleRepo) ListDue(ctx context.Context, now time.Time) ([]*model.PlatformSchedule, error) {
	if m.listDueFn != nil {
		return m.listDueFn(ctx, now)
	}
	return nil, nil
}
func (m *mockPlatformScheduleRepo) MarkUpdated(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.marked = append(m.marked, id)
	return nil
}
func (m *mockPlatformScheduleRepo) Delete(ctx context.Context, id string) error { return nil }

func (m *mockPlatformScheduleRepo) markedIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.marked...)
}

type mockAnimeScheduleRepo struct {
	mu        sync.Mutex
	listDueFn func(ctx context.Context, now time.Time) ([]*model.AnimeSchedule, error)
	marked    []string
}

func (m *mockAnimeScheduleRepo) FindByID(ctx context.Context, id string) (*model.AnimeSchedule, error) {
	return nil, nil
}
func (m *mockAnimeScheduleRepo) ListByAnimeID(ctx context.Context, animeID string) ([]*model.AnimeSchedule, error) {
	return nil, nil
}
func (m *mockAnimeScheduleRepo) Upsert(ctx context.Context, schedule *model.AnimeSchedule) error {
	return nil
}
func (m *mockAnimeScheduleRepo) ListDue(ctx context.Context, now time.Time) ([]*model.AnimeSchedule, error) {
	if m.listDueFn != nil {
		return m.listDueFn(ctx, now)
	}
	return nil, nil
}
func (m *mockAnimeScheduleRepo) MarkUpdated(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.marked = append(m.marked, id)
	return nil
}
func (m *mockAnimeScheduleRepo) Delete(ctx context.Context, id string) error { return nil }

func (m *mockAnimeScheduleRepo) markedIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.marked...)
}

// mockCollector はメトリクス記録を数えるテスト用コレクター。
type mockCollector struct {
	mu               sync.Mutex
	scheduleApplied  int
	cadenceAdvanced  int
	statusTransition map[string]int
	advanceFail      map[string]int
	conflictDrop     int
	sweeps           int
}

func newMockCollector() *mockCollector {
	return &mockCollector{
		statusTransition: make(map[string]int),
		advanceFail:      make(map[string]int),
	}
}

func (m *mockCollector) RecordScheduleApplied(animePlatformID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scheduleApplied++
}
func (m *mockCollector) RecordCadenceAdvanced(animePlatformID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cadenceAdvanced++
}
func (m *mockCollector) RecordStatusTransition(status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statusTransition[status]++
}
func (m *mockCollector) RecordAdvanceFailure(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.advanceFail[reason]++
}
func (m *mockCollector) RecordConflictDrop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conflictDrop++
}
func (m *mockCollector) RecordSweepDuration(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweeps++
}
func (m *mockCollector) RecordTimelineLatency(d time.Duration) {}

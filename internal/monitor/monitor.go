// Package monitor re-checks discovered gems against their live HN
// score and promotes first-time threshold crossings into permanent
// hall-of-fame records.
package monitor

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"hn-gems/internal/metrics"
	"hn-gems/internal/model"
	"hn-gems/internal/store"
	"hn-gems/internal/sweep"
)

// ErrMonitorInProgress is returned when a re-check cycle overlaps a
// running one; the tardy invocation is dropped.
var ErrMonitorInProgress = errors.New("hall-of-fame monitoring already in progress")

// Monitor drives success tracking for gems.
type Monitor struct {
	source    sweep.Source
	store     *store.Store
	threshold int

	running atomic.Bool
}

// New builds a monitor. threshold is the HN score that counts as
// verified success.
func New(src sweep.Source, st *store.Store, threshold int) *Monitor {
	if threshold <= 0 {
		threshold = 100
	}
	return &Monitor{source: src, store: st, threshold: threshold}
}

// Run re-checks every persisted gem once. Posts that vanished upstream
// are skipped; the next cycle naturally retries them.
func (m *Monitor) Run(ctx context.Context) error {
	if !m.running.CompareAndSwap(false, true) {
		slog.Warn("monitor: already in progress, skipping")
		return ErrMonitorInProgress
	}
	defer m.running.Store(false)

	start := time.Now().UTC()
	gems, err := m.store.GemsToMonitor(ctx)
	if err != nil {
		return err
	}
	slog.Info("monitor: starting", "gems", len(gems))

	var newSuccesses, updated, errCount int
	for i := range gems {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		switch promoted, err := m.checkGem(ctx, &gems[i]); {
		case err != nil:
			slog.Error("monitor: gem check failed", "hn_id", gems[i].HNID, "error", err)
			errCount++
		case promoted:
			newSuccesses++
		default:
			updated++
		}
		metrics.MonitorChecks.Inc()
	}

	slog.Info("monitor: completed",
		"new_successes", newSuccesses, "updated", updated,
		"errors", errCount, "duration", time.Since(start))
	return nil
}

// checkGem re-polls one gem. Reports true when the gem was promoted to
// the hall of fame for the first time.
func (m *Monitor) checkGem(ctx context.Context, gem *model.Post) (bool, error) {
	item := m.source.Item(ctx, gem.HNID)
	if item == nil {
		return false, nil
	}

	now := time.Now().UTC()
	currentScore := item.Score
	if err := m.store.RefreshPostPoll(ctx, gem.HNID, currentScore, item.Descendants, now); err != nil {
		return false, err
	}

	entry, err := m.store.HallOfFameByPostID(ctx, gem.ID)
	if err != nil {
		return false, err
	}

	if entry != nil {
		// Success fields are frozen after the first crossing; only the
		// peak keeps moving.
		entry.UpdateSuccess(currentScore, m.threshold, now)
		return false, m.store.SaveHallOfFame(ctx, entry)
	}

	if currentScore < m.threshold {
		return false, nil
	}

	// First crossing: capture the discovery-vs-success metrics.
	discoveryScore := 0.0
	if qs, err := m.store.ScoreForPost(ctx, gem.ID); err == nil && qs != nil {
		discoveryScore = qs.EffectiveScore()
	}

	entry = &model.HallOfFame{
		PostID:            gem.ID,
		DiscoveredAt:      gem.CreatedAt,
		DiscoveryScore:    discoveryScore,
		DiscoveryHNScore:  gem.BestScore(),
		DiscoveryKarma:    gem.AuthorKarma,
		DiscoveryAgeHours: gem.DiscoveryAgeHours(),
		SuccessThreshold:  m.threshold,
	}
	entry.UpdateSuccess(currentScore, m.threshold, now)

	if err := m.store.CreateHallOfFame(ctx, entry); err != nil {
		if store.IsDuplicateKey(err) {
			// A concurrent cycle won the insert; its entry stands.
			slog.Debug("monitor: entry already exists", "hn_id", gem.HNID)
			return false, nil
		}
		return false, err
	}

	metrics.MonitorSuccesses.Inc()
	slog.Info("monitor: new success",
		"hn_id", gem.HNID, "title", gem.Title,
		"score", currentScore, "tier", entry.SuccessType,
		"author", gem.Author, "discovery_score", discoveryScore)
	return true, nil
}

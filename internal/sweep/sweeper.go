// Package sweep drives periodic ingestion sweeps: pull recent story
// ids, score and classify the new ones, and persist each result in its
// own transaction.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/samber/lo"

	"hn-gems/internal/analyzer"
	"hn-gems/internal/config"
	"hn-gems/internal/dupe"
	"hn-gems/internal/hackernews"
	"hn-gems/internal/metrics"
	"hn-gems/internal/model"
	"hn-gems/internal/store"
)

// Classification cutoffs on the spam dimension: above the ceiling a
// post cannot be a gem, above the floor it is flagged spam outright.
const (
	SpamGemCeiling = 0.4
	SpamFlagFloor  = 0.7
)

// ErrSweepInProgress is returned when a sweep is invoked while another
// is still running. The tardy invocation is dropped, never queued.
var ErrSweepInProgress = errors.New("sweep already in progress")

// Source is the read-only upstream the sweeper pulls from. Absent
// results mean "skip this one", never "abort the sweep".
type Source interface {
	StoryIDs(ctx context.Context, category string, limit int) []int
	Item(ctx context.Context, id int) *hackernews.Item
	User(ctx context.Context, name string) *hackernews.User
}

// Status is the externally inspectable state of the sweeper.
type Status struct {
	State        string        `json:"state"` // idle, sweeping, errored
	LastRun      time.Time     `json:"last_run"`
	LastDuration time.Duration `json:"last_duration"`
	Processed    int           `json:"processed"`
	Created      int           `json:"created"`
	GemsFound    int           `json:"gems_found"`
	Errors       int           `json:"errors"`
	TotalRuns    int           `json:"total_runs"`
}

// Sweeper orchestrates ingestion sweeps. A single atomic flag guards
// re-entrancy; everything inside a run is synchronous.
type Sweeper struct {
	source   Source
	store    *store.Store
	analyzer *analyzer.Analyzer
	detector dupe.Detector
	cfg      config.SweepConfig

	running atomic.Bool
	mu      sync.Mutex
	status  Status
}

// New builds a sweeper.
func New(src Source, st *store.Store, an *analyzer.Analyzer, cfg config.SweepConfig) *Sweeper {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 25
	}
	if cfg.MaxStories <= 0 {
		cfg.MaxStories = 500
	}
	if cfg.WindowMinutes <= 0 {
		cfg.WindowMinutes = 60
	}
	return &Sweeper{
		source:   src,
		store:    st,
		analyzer: an,
		cfg:      cfg,
		status:   Status{State: "idle"},
	}
}

// Status returns a copy of the current counters.
func (s *Sweeper) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// itemOutcome tags the result of processing one story id; the loop
// inspects it to pick a counter bucket instead of using errors for
// skip/continue control flow.
type itemOutcome int

const (
	outcomeSkipped itemOutcome = iota // already stored, absent, wrong type, no title
	outcomeCreated                    // persisted post + score
	outcomeErrored                    // persist failed (non-race)
	outcomeStop                       // older than the window cutoff
)

// Run executes one sweep over the last minutesBack minutes. If a sweep
// is already in flight it logs and returns ErrSweepInProgress without
// queueing.
func (s *Sweeper) Run(ctx context.Context, minutesBack int) (err error) {
	if !s.running.CompareAndSwap(false, true) {
		slog.Warn("sweep: already in progress, skipping")
		return ErrSweepInProgress
	}
	defer s.running.Store(false)

	if minutesBack <= 0 {
		minutesBack = s.cfg.WindowMinutes
	}
	start := time.Now().UTC()
	cutoff := start.Add(-time.Duration(minutesBack) * time.Minute)

	// A panic escaping item handling must not take the worker goroutine
	// down or leave the state stuck at "sweeping"; the deferred guard
	// release above still runs, so the next sweep proceeds.
	defer func() {
		if r := recover(); r != nil {
			slog.Error("sweep: aborted", "panic", r)
			s.mu.Lock()
			s.status.State = "errored"
			s.status.LastRun = start
			s.status.LastDuration = time.Since(start)
			s.status.TotalRuns++
			s.mu.Unlock()
			err = fmt.Errorf("sweep aborted: %v", r)
		}
	}()

	s.setState("sweeping")
	slog.Info("sweep: starting", "minutes_back", minutesBack, "max_stories", s.cfg.MaxStories)

	var processed, created, gems, errCount int

	// Ids arrive newest-first; the first item older than the cutoff
	// ends the scan, it does not merely skip.
	ids := s.source.StoryIDs(ctx, "new", s.cfg.MaxStories)
scan:
	for _, id := range ids {
		select {
		case <-ctx.Done():
			break scan
		default:
		}

		outcome, isGem := s.processItem(ctx, id, cutoff, start)
		switch outcome {
		case outcomeStop:
			slog.Info("sweep: reached posts older than window, stopping", "minutes_back", minutesBack)
			break scan
		case outcomeCreated:
			processed++
			created++
			metrics.SweepProcessed.WithLabelValues("created").Inc()
			if isGem {
				gems++
				metrics.GemsFound.Inc()
			}
			if created%s.cfg.BatchSize == 0 {
				slog.Info("sweep: progress", "created", created, "gems", gems)
			}
		case outcomeErrored:
			processed++
			errCount++
			metrics.SweepProcessed.WithLabelValues("errored").Inc()
		default:
			processed++
			metrics.SweepProcessed.WithLabelValues("skipped").Inc()
		}
	}

	duration := time.Since(start)
	metrics.SweepDuration.Observe(duration.Seconds())

	s.mu.Lock()
	s.status = Status{
		State:        "idle",
		LastRun:      start,
		LastDuration: duration,
		Processed:    processed,
		Created:      created,
		GemsFound:    gems,
		Errors:       errCount,
		TotalRuns:    s.status.TotalRuns + 1,
	}
	s.mu.Unlock()

	slog.Info("sweep: completed",
		"processed", processed, "created", created,
		"gems", gems, "errors", errCount, "duration", duration)
	return nil
}

// processItem handles a single story id end to end. The second return
// value reports whether a created post was classified as a gem.
func (s *Sweeper) processItem(ctx context.Context, id int, cutoff, now time.Time) (itemOutcome, bool) {
	exists, err := s.store.PostExists(ctx, id)
	if err != nil {
		slog.Error("sweep: existence check failed", "hn_id", id, "error", err)
		return outcomeErrored, false
	}
	if exists {
		return outcomeSkipped, false
	}

	item := s.source.Item(ctx, id)
	if item == nil || item.Deleted || item.Dead {
		return outcomeSkipped, false
	}
	if item.Type != "story" {
		return outcomeSkipped, false
	}
	if item.CreatedAt().Before(cutoff) {
		return outcomeStop, false
	}
	if item.Title == "" {
		return outcomeSkipped, false
	}

	karma, accountAge := s.upsertAuthor(ctx, item.By, now)

	scores := s.analyzer.Analyze(ctx, analyzer.Input{
		Title: item.Title,
		URL:   item.URL,
		Text:  item.Text,
	})

	isGem := karma < s.cfg.KarmaThreshold &&
		scores.OverallInterest >= s.cfg.MinInterestScore &&
		scores.SpamLikelihood < SpamGemCeiling
	isSpam := scores.SpamLikelihood >= SpamFlagFloor

	// A confirmed duplicate overrides the score-based classification.
	if dup := s.findDuplicate(ctx, item, cutoff); dup != nil {
		slog.Info("sweep: duplicate detected",
			"hn_id", id, "of", dup.of, "reasons", dup.reasons, "action", dup.action)
		isSpam = true
		isGem = false
	}

	post := &model.Post{
		HNID:           item.ID,
		Title:          item.Title,
		URL:            item.URL,
		Text:           item.Text,
		Author:         item.By,
		AuthorKarma:    karma,
		AccountAgeDays: accountAge,
		Score:          item.Score,
		Descendants:    item.Descendants,
		HNCreatedAt:    item.CreatedAt(),
		IsHiddenGem:    isGem,
		IsSpam:         isSpam,
	}
	qs := &model.QualityScore{
		TechnicalDepth:   scores.TechnicalDepth,
		Originality:      scores.Originality,
		ProblemSolving:   scores.ProblemSolving,
		SpamLikelihood:   scores.SpamLikelihood,
		OverallInterest:  scores.OverallInterest,
		GithubQuality:    scores.GithubQuality,
		DomainReputation: scores.DomainReputation,
		AnalyzerVersion:  analyzer.Version,
		AnalyzedAt:       now,
	}

	if err := s.store.CreatePostWithScore(ctx, post, qs); err != nil {
		if store.IsDuplicateKey(err) {
			// Benign race with a concurrent path inserting the same id.
			slog.Debug("sweep: post already exists, skipping duplicate insert", "hn_id", id)
			return outcomeSkipped, false
		}
		slog.Error("sweep: persist failed", "hn_id", id, "error", err)
		return outcomeErrored, false
	}

	if isGem {
		slog.Info("sweep: found gem",
			"hn_id", id, "title", truncate(item.Title, 50),
			"interest", fmt.Sprintf("%.2f", scores.OverallInterest), "karma", karma)
	}
	return outcomeCreated, isGem
}

// upsertAuthor fetches the author profile and refreshes the user row.
// A missing profile degrades to zero karma and age, it never fails the
// item.
func (s *Sweeper) upsertAuthor(ctx context.Context, username string, now time.Time) (karma, accountAgeDays int) {
	if username == "" {
		return 0, 0
	}
	profile := s.source.User(ctx, username)
	var joined *time.Time
	if profile != nil {
		karma = profile.Karma
		if profile.Created > 0 {
			t := profile.JoinedAt()
			joined = &t
			accountAgeDays = int(now.Sub(t).Hours() / 24)
		}
	}
	if _, err := s.store.UpsertUser(ctx, username, karma, joined, now); err != nil {
		slog.Error("sweep: user upsert failed", "username", username, "error", err)
	}
	return karma, accountAgeDays
}

type duplicateHit struct {
	of      int
	reasons []string
	action  string
}

// findDuplicate compares the incoming item against recently stored
// candidates sharing its author or URL host.
func (s *Sweeper) findDuplicate(ctx context.Context, item *hackernews.Item, since time.Time) *duplicateHit {
	candidates, err := s.store.DuplicateCandidates(ctx, item.By, item.URL, since, item.ID)
	if err != nil {
		slog.Error("sweep: candidate query failed", "hn_id", item.ID, "error", err)
		return nil
	}
	if len(candidates) == 0 {
		return nil
	}

	incoming := dupe.PostContent{
		HNID:      item.ID,
		Title:     item.Title,
		URL:       item.URL,
		Text:      item.Text,
		Author:    item.By,
		Score:     item.Score,
		CreatedAt: item.CreatedAt(),
	}
	contents := lo.Map(candidates, func(p model.Post, _ int) dupe.PostContent {
		return dupe.PostContent{
			HNID:      p.HNID,
			Title:     p.Title,
			URL:       p.URL,
			Text:      p.Text,
			Author:    p.Author,
			Score:     p.Score,
			CreatedAt: p.HNCreatedAt,
		}
	})

	for _, other := range contents {
		m := s.detector.Compare(incoming, other)
		if !m.IsDuplicate {
			continue
		}
		rec := s.detector.Recommend(incoming, other, m)
		return &duplicateHit{
			of:      other.HNID,
			reasons: lo.Uniq(m.Reasons),
			action:  rec.Action,
		}
	}
	return nil
}

func (s *Sweeper) setState(state string) {
	s.mu.Lock()
	s.status.State = state
	s.mu.Unlock()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

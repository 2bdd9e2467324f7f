package sweep

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"hn-gems/internal/analyzer"
	"hn-gems/internal/config"
	"hn-gems/internal/hackernews"
	"hn-gems/internal/model"
	"hn-gems/internal/store"
)

// fakeSource serves canned stories and records which item ids were
// fetched.
type fakeSource struct {
	ids   []int
	items map[int]*hackernews.Item
	users map[string]*hackernews.User

	mu        sync.Mutex
	itemCalls []int

	started chan struct{} // closed when StoryIDs is entered, if set
	release chan struct{} // StoryIDs blocks on this, if set
}

func (f *fakeSource) StoryIDs(ctx context.Context, category string, limit int) []int {
	if f.started != nil {
		close(f.started)
		f.started = nil
	}
	if f.release != nil {
		<-f.release
	}
	if limit > 0 && len(f.ids) > limit {
		return f.ids[:limit]
	}
	return f.ids
}

func (f *fakeSource) Item(ctx context.Context, id int) *hackernews.Item {
	f.mu.Lock()
	f.itemCalls = append(f.itemCalls, id)
	f.mu.Unlock()
	return f.items[id]
}

func (f *fakeSource) User(ctx context.Context, name string) *hackernews.User {
	return f.users[name]
}

func (f *fakeSource) fetched(id int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.itemCalls {
		if c == id {
			return true
		}
	}
	return false
}

func testConfig() config.SweepConfig {
	return config.SweepConfig{
		WindowMinutes:    60,
		MaxStories:       500,
		BatchSize:        25,
		KarmaThreshold:   100,
		MinInterestScore: 0.3,
	}
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func story(id int, by, title, url string, age time.Duration) *hackernews.Item {
	return &hackernews.Item{
		ID:    id,
		Type:  "story",
		By:    by,
		Title: title,
		URL:   url,
		Time:  time.Now().UTC().Add(-age).Unix(),
		Score: 2,
	}
}

func TestRunCreatesAndClassifies(t *testing.T) {
	st := newTestStore(t)
	src := &fakeSource{
		ids: []int{11, 12},
		items: map[int]*hackernews.Item{
			11: story(11, "newbie", "Show HN: I built a tiny debugging tool",
				"https://github.com/newbie/tinytool", 10*time.Minute),
			12: story(12, "veteran", "Show HN: I made a fast search tool",
				"https://example.io/search", 15*time.Minute),
		},
		users: map[string]*hackernews.User{
			"newbie":  {ID: "newbie", Karma: 10, Created: time.Now().AddDate(0, -2, 0).Unix()},
			"veteran": {ID: "veteran", Karma: 150, Created: time.Now().AddDate(-5, 0, 0).Unix()},
		},
	}
	sw := New(src, st, &analyzer.Analyzer{}, testConfig())

	require.NoError(t, sw.Run(context.Background(), 60))

	ctx := context.Background()
	gem, err := st.FindPostByHNID(ctx, 11)
	require.NoError(t, err)
	require.NotNil(t, gem)
	require.True(t, gem.IsHiddenGem)
	require.False(t, gem.IsSpam)
	require.Equal(t, 10, gem.AuthorKarma)

	// Same kind of post from a high-karma account is not a gem.
	known, err := st.FindPostByHNID(ctx, 12)
	require.NoError(t, err)
	require.NotNil(t, known)
	require.False(t, known.IsHiddenGem)

	qs, err := st.ScoreForPost(ctx, gem.ID)
	require.NoError(t, err)
	require.NotNil(t, qs)
	require.GreaterOrEqual(t, qs.OverallInterest, 0.3)

	u, err := st.FindUser(ctx, "newbie")
	require.NoError(t, err)
	require.Equal(t, 10, u.Karma)
	require.Equal(t, 1, u.TotalPosts)

	status := sw.Status()
	require.Equal(t, 2, status.Processed)
	require.Equal(t, 2, status.Created)
	require.Equal(t, 1, status.GemsFound)
	require.Equal(t, 0, status.Errors)
	require.Equal(t, 1, status.TotalRuns)
	require.Equal(t, "idle", status.State)
}

func TestRunIsIdempotent(t *testing.T) {
	st := newTestStore(t)
	src := &fakeSource{
		ids: []int{21},
		items: map[int]*hackernews.Item{
			21: story(21, "newbie", "Show HN: I built a tiny debugging tool",
				"https://github.com/newbie/tinytool", 10*time.Minute),
		},
		users: map[string]*hackernews.User{
			"newbie": {ID: "newbie", Karma: 10, Created: time.Now().AddDate(0, -2, 0).Unix()},
		},
	}
	sw := New(src, st, &analyzer.Analyzer{}, testConfig())

	require.NoError(t, sw.Run(context.Background(), 60))
	require.Equal(t, 1, sw.Status().Created)

	// Replaying the same window changes nothing.
	require.NoError(t, sw.Run(context.Background(), 60))
	status := sw.Status()
	require.Equal(t, 0, status.Created)
	require.Equal(t, 1, status.Processed)
	require.Equal(t, 2, status.TotalRuns)

	posts, err := st.GemsToMonitor(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 1)
}

func TestRunStopsAtWindowCutoff(t *testing.T) {
	st := newTestStore(t)
	src := &fakeSource{
		ids: []int{33, 32, 31}, // newest first
		items: map[int]*hackernews.Item{
			33: story(33, "a", "Fresh post about a rust compiler", "https://one.example/x", 5*time.Minute),
			32: story(32, "b", "Stale post from yesterday", "https://two.example/y", 25*time.Hour),
			31: story(31, "c", "Even older post", "https://three.example/z", 48*time.Hour),
		},
	}
	sw := New(src, st, &analyzer.Analyzer{}, testConfig())

	require.NoError(t, sw.Run(context.Background(), 60))

	require.True(t, src.fetched(33))
	require.True(t, src.fetched(32))
	require.False(t, src.fetched(31), "scan should stop at the first post outside the window")

	exists, err := st.PostExists(context.Background(), 32)
	require.NoError(t, err)
	require.False(t, exists)
}

func TestRunSkipsNonStories(t *testing.T) {
	st := newTestStore(t)
	src := &fakeSource{
		ids: []int{41, 42, 43, 44},
		items: map[int]*hackernews.Item{
			41: {ID: 41, Type: "job", By: "hr", Title: "Hiring", Time: time.Now().Unix()},
			42: {ID: 42, Type: "story", By: "x", Title: "Gone", Time: time.Now().Unix(), Dead: true},
			// 43 is absent upstream
			44: {ID: 44, Type: "story", By: "y", Title: "", Time: time.Now().Unix()},
		},
	}
	sw := New(src, st, &analyzer.Analyzer{}, testConfig())

	require.NoError(t, sw.Run(context.Background(), 60))

	status := sw.Status()
	require.Equal(t, 4, status.Processed)
	require.Equal(t, 0, status.Created)
	require.Equal(t, 0, status.Errors)
}

func TestRunMarksDuplicateAsSpam(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	// Already-stored post the incoming one duplicates.
	original := &model.Post{
		HNID:        51,
		Title:       "A fast JSON parser in Zig",
		URL:         "https://blog.example.com/json-parser",
		Author:      "dave",
		Score:       9,
		HNCreatedAt: time.Now().UTC().Add(-30 * time.Minute),
		CreatedAt:   time.Now().UTC().Add(-20 * time.Minute),
	}
	require.NoError(t, st.CreatePostWithScore(ctx, original, &model.QualityScore{
		OverallInterest: 0.5, AnalyzedAt: time.Now().UTC(),
	}))

	src := &fakeSource{
		ids: []int{52},
		items: map[int]*hackernews.Item{
			52: story(52, "dave", "A fast JSON parser in Zig",
				"https://blog.example.com/json-parser?utm_source=twitter", 5*time.Minute),
		},
		users: map[string]*hackernews.User{
			"dave": {ID: "dave", Karma: 10, Created: time.Now().AddDate(0, -1, 0).Unix()},
		},
	}
	sw := New(src, st, &analyzer.Analyzer{}, testConfig())

	require.NoError(t, sw.Run(ctx, 60))

	repost, err := st.FindPostByHNID(ctx, 52)
	require.NoError(t, err)
	require.NotNil(t, repost)
	require.True(t, repost.IsSpam)
	require.False(t, repost.IsHiddenGem)
}

func TestRunSingleFlight(t *testing.T) {
	st := newTestStore(t)
	src := &fakeSource{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	sw := New(src, st, &analyzer.Analyzer{}, testConfig())

	done := make(chan error, 1)
	go func() { done <- sw.Run(context.Background(), 60) }()

	<-src.started
	require.ErrorIs(t, sw.Run(context.Background(), 60), ErrSweepInProgress)

	close(src.release)
	require.NoError(t, <-done)

	// The flag is released after the run.
	require.NoError(t, sw.Run(context.Background(), 60))
}

// explodingSource fails mid-sweep with a panic rather than an error.
type explodingSource struct {
	fakeSource
	broken bool
}

func (s *explodingSource) Item(ctx context.Context, id int) *hackernews.Item {
	if s.broken {
		panic("corrupt item payload")
	}
	return s.fakeSource.Item(ctx, id)
}

func TestRunMarksErroredOnPanic(t *testing.T) {
	st := newTestStore(t)
	src := &explodingSource{
		fakeSource: fakeSource{
			ids: []int{71},
			items: map[int]*hackernews.Item{
				71: story(71, "a", "Some post title here", "https://one.example/x", 5*time.Minute),
			},
		},
		broken: true,
	}
	sw := New(src, st, &analyzer.Analyzer{}, testConfig())

	err := sw.Run(context.Background(), 60)
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrSweepInProgress)
	require.Equal(t, "errored", sw.Status().State)

	// The single-flight guard was released; the next sweep runs and
	// recovers the missed item.
	src.broken = false
	require.NoError(t, sw.Run(context.Background(), 60))
	status := sw.Status()
	require.Equal(t, "idle", status.State)
	require.Equal(t, 1, status.Created)
	require.Equal(t, 2, status.TotalRuns)
}

func TestRunHonorsContextCancel(t *testing.T) {
	st := newTestStore(t)
	src := &fakeSource{
		ids: []int{61},
		items: map[int]*hackernews.Item{
			61: story(61, "a", "Some post title here", "https://one.example/x", 5*time.Minute),
		},
	}
	sw := New(src, st, &analyzer.Analyzer{}, testConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, sw.Run(ctx, 60))
	require.Equal(t, 0, sw.Status().Processed)
}

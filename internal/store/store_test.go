package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"hn-gems/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testPost(hnID int, author string) *model.Post {
	now := time.Now().UTC()
	return &model.Post{
		HNID:        hnID,
		Title:       "A post",
		URL:         "https://example.com/p",
		Author:      author,
		HNCreatedAt: now.Add(-time.Hour),
		CreatedAt:   now,
	}
}

func testScore(overall float64) *model.QualityScore {
	return &model.QualityScore{
		OverallInterest: overall,
		AnalyzerVersion: "1.0",
		AnalyzedAt:      time.Now().UTC(),
	}
}

func TestCreatePostWithScore(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	post := testPost(100, "alice")
	require.NoError(t, s.CreatePostWithScore(ctx, post, testScore(0.6)))
	require.NotZero(t, post.ID)

	found, err := s.FindPostByHNID(ctx, 100)
	require.NoError(t, err)
	require.NotNil(t, found)
	require.Equal(t, "alice", found.Author)

	exists, err := s.PostExists(ctx, 100)
	require.NoError(t, err)
	require.True(t, exists)

	qs, err := s.ScoreForPost(ctx, post.ID)
	require.NoError(t, err)
	require.NotNil(t, qs)
	require.InDelta(t, 0.6, qs.OverallInterest, 1e-9)
}

func TestCreatePostDuplicateKey(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreatePostWithScore(ctx, testPost(200, "alice"), testScore(0.5)))

	err := s.CreatePostWithScore(ctx, testPost(200, "bob"), testScore(0.5))
	require.Error(t, err)
	require.True(t, IsDuplicateKey(err))

	// The losing transaction left no score row behind.
	found, err := s.FindPostByHNID(ctx, 200)
	require.NoError(t, err)
	require.Equal(t, "alice", found.Author)
}

func TestFindPostAbsent(t *testing.T) {
	s := newTestStore(t)

	p, err := s.FindPostByHNID(context.Background(), 999)
	require.NoError(t, err)
	require.Nil(t, p)

	exists, err := s.PostExists(context.Background(), 999)
	require.NoError(t, err)
	require.False(t, exists)
}

func TestMarkPostSpam(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	post := testPost(300, "alice")
	post.IsHiddenGem = true
	require.NoError(t, s.CreatePostWithScore(ctx, post, testScore(0.7)))

	require.NoError(t, s.MarkPostSpam(ctx, 300))

	found, err := s.FindPostByHNID(ctx, 300)
	require.NoError(t, err)
	require.True(t, found.IsSpam)
	require.False(t, found.IsHiddenGem)
}

func TestRefreshPostPoll(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreatePostWithScore(ctx, testPost(400, "alice"), testScore(0.5)))

	checked := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, s.RefreshPostPoll(ctx, 400, 120, 30, checked))

	found, err := s.FindPostByHNID(ctx, 400)
	require.NoError(t, err)
	require.Equal(t, 120, found.CurrentScore)
	require.Equal(t, 30, found.Descendants)
	require.NotNil(t, found.LastCheckedAt)
	require.Equal(t, 120, found.BestScore())
}

func TestDuplicateCandidates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	since := time.Now().UTC().Add(-24 * time.Hour)

	require.NoError(t, s.CreatePostWithScore(ctx, testPost(500, "alice"), testScore(0.5)))
	require.NoError(t, s.CreatePostWithScore(ctx, testPost(501, "bob"), testScore(0.5)))
	other := testPost(502, "carol")
	other.URL = "https://elsewhere.net/x"
	require.NoError(t, s.CreatePostWithScore(ctx, other, testScore(0.5)))

	// Same author or same host, excluding the post itself.
	cands, err := s.DuplicateCandidates(ctx, "alice", "https://example.com/other", since, 500)
	require.NoError(t, err)
	require.Len(t, cands, 1)
	require.Equal(t, 501, cands[0].HNID)

	// Author only.
	cands, err = s.DuplicateCandidates(ctx, "carol", "", since, 999)
	require.NoError(t, err)
	require.Len(t, cands, 1)
	require.Equal(t, 502, cands[0].HNID)

	// Nothing to match on.
	cands, err = s.DuplicateCandidates(ctx, "", "", since, 999)
	require.NoError(t, err)
	require.Empty(t, cands)
}

func TestGemsFilter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	gem := testPost(600, "alice")
	gem.IsHiddenGem = true
	gem.AuthorKarma = 10
	require.NoError(t, s.CreatePostWithScore(ctx, gem, testScore(0.8)))

	weak := testPost(601, "bob")
	weak.IsHiddenGem = true
	weak.AuthorKarma = 10
	require.NoError(t, s.CreatePostWithScore(ctx, weak, testScore(0.2)))

	veteran := testPost(602, "carol")
	veteran.IsHiddenGem = true
	veteran.AuthorKarma = 5000
	require.NoError(t, s.CreatePostWithScore(ctx, veteran, testScore(0.9)))

	posts, err := s.Gems(ctx, GemFilter{
		KarmaCeiling: 100,
		MinScore:     0.3,
		Since:        time.Now().UTC().Add(-time.Hour),
	})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	require.Equal(t, 600, posts[0].HNID)
}

func TestGemsToMonitorExcludesSpam(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	gem := testPost(700, "alice")
	gem.IsHiddenGem = true
	require.NoError(t, s.CreatePostWithScore(ctx, gem, testScore(0.8)))

	spam := testPost(701, "bob")
	spam.IsHiddenGem = true
	spam.IsSpam = true
	require.NoError(t, s.CreatePostWithScore(ctx, spam, testScore(0.8)))

	posts, err := s.GemsToMonitor(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	require.Equal(t, 700, posts[0].HNID)
}

func TestReplaceScore(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	post := testPost(800, "alice")
	require.NoError(t, s.CreatePostWithScore(ctx, post, testScore(0.4)))

	fresh := testScore(0.9)
	fresh.PostID = post.ID
	fresh.AnalyzerVersion = "1.1"
	require.NoError(t, s.ReplaceScore(ctx, fresh))

	qs, err := s.ScoreForPost(ctx, post.ID)
	require.NoError(t, err)
	require.InDelta(t, 0.9, qs.OverallInterest, 1e-9)
	require.Equal(t, "1.1", qs.AnalyzerVersion)

	// Still a single row per post.
	var count int64
	require.NoError(t, s.db.Model(&model.QualityScore{}).Where("post_id = ?", post.ID).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestManualOverrideRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	post := testPost(850, "alice")
	require.NoError(t, s.CreatePostWithScore(ctx, post, testScore(0.2)))

	qs, err := s.ScoreForPost(ctx, post.ID)
	require.NoError(t, err)
	qs.Override(0.9, "scorer missed the context", "admin", time.Now().UTC())
	require.NoError(t, s.ReplaceScore(ctx, qs))

	got, err := s.ScoreForPost(ctx, post.ID)
	require.NoError(t, err)
	require.True(t, got.ManualOverride)
	require.InDelta(t, 0.9, got.EffectiveScore(), 1e-9)
	require.InDelta(t, 0.2, got.OverallInterest, 1e-9, "computed score survives the override")
	require.Equal(t, "admin", got.ManualUpdatedBy)
}

func TestUpsertUserRecomputesStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()
	joined := now.AddDate(-1, 0, 0)

	gem := testPost(900, "alice")
	gem.IsHiddenGem = true
	require.NoError(t, s.CreatePostWithScore(ctx, gem, testScore(0.8)))
	require.NoError(t, s.CreatePostWithScore(ctx, testPost(901, "alice"), testScore(0.1)))

	u, err := s.UpsertUser(ctx, "alice", 42, &joined, now)
	require.NoError(t, err)
	require.Equal(t, 42, u.Karma)
	require.Equal(t, 2, u.TotalPosts)
	require.Equal(t, 1, u.HiddenGemsCount)
	require.Equal(t, 0, u.HallOfFameCount)

	// A second upsert refreshes karma without duplicating the row.
	u, err = s.UpsertUser(ctx, "alice", 55, &joined, now)
	require.NoError(t, err)
	require.Equal(t, 55, u.Karma)

	found, err := s.FindUser(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, 55, found.Karma)
}

func TestHallOfFameRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	post := testPost(1000, "alice")
	post.IsHiddenGem = true
	require.NoError(t, s.CreatePostWithScore(ctx, post, testScore(0.8)))

	entry := &model.HallOfFame{
		PostID:           post.ID,
		DiscoveredAt:     now.Add(-3 * time.Hour),
		DiscoveryScore:   0.8,
		DiscoveryHNScore: 4,
	}
	entry.UpdateSuccess(150, 100, now)
	require.NoError(t, s.CreateHallOfFame(ctx, entry))

	err := s.CreateHallOfFame(ctx, &model.HallOfFame{PostID: post.ID, DiscoveredAt: now})
	require.True(t, IsDuplicateKey(err))

	got, err := s.HallOfFameByPostID(ctx, post.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.True(t, got.SuccessVerified)
	require.Equal(t, model.SuccessTierTop100, got.SuccessType)

	entries, err := s.HallOfFameEntries(ctx, FameFilter{VerifiedOnly: true})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	// The fame count feeds back into the author's aggregates.
	u, err := s.RecomputeUserStats(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, u)
	require.Equal(t, 1, u.HallOfFameCount)
}

func TestStatsAndTopAuthors(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	gem := testPost(1100, "alice")
	gem.IsHiddenGem = true
	require.NoError(t, s.CreatePostWithScore(ctx, gem, testScore(0.8)))

	spam := testPost(1101, "bob")
	spam.IsSpam = true
	require.NoError(t, s.CreatePostWithScore(ctx, spam, testScore(0.1)))

	_, err := s.UpsertUser(ctx, "alice", 10, nil, now)
	require.NoError(t, err)

	st, err := s.Stats(ctx, now)
	require.NoError(t, err)
	require.EqualValues(t, 2, st.TotalPosts)
	require.EqualValues(t, 1, st.HiddenGems)
	require.EqualValues(t, 1, st.SpamPosts)
	require.EqualValues(t, 2, st.RecentPosts24h)

	users, err := s.TopAuthors(ctx, 5)
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Equal(t, "alice", users[0].Username)
}

func TestRecomputeUnknownUser(t *testing.T) {
	s := newTestStore(t)

	u, err := s.RecomputeUserStats(context.Background(), "nobody")
	require.NoError(t, err)
	require.Nil(t, u)
}

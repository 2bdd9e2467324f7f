// Package dupe detects duplicate post pairs via normalized fingerprints
// and fuzzy similarity, and recommends which copy of a pair to keep.
package dupe

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// Similarity thresholds. Empirical values carried over unmodified; the
// same-author threshold is deliberately looser since reposting the same
// material is itself a signal.
const (
	URLSimilarityThreshold     = 0.95
	TitleSimilarityThreshold   = 0.85
	ContentSimilarityThreshold = 0.80
	SameAuthorThreshold        = 0.70
)

// Recommendation actions for a confirmed duplicate pair.
const (
	ActionRemoveLowerQuality = "remove_lower_quality"
	ActionFlagSpamBehavior   = "flag_spam_behavior"
)

// ReasonExactMatch is reported when two posts share a fingerprint.
const ReasonExactMatch = "Exact content match"

// PostContent is the material the detector compares.
type PostContent struct {
	HNID      int
	Title     string
	URL       string
	Text      string
	Author    string
	Score     int
	CreatedAt time.Time // HN submission time
}

// Match describes the comparison of one post pair.
type Match struct {
	IsDuplicate       bool
	URLSimilarity     float64
	TitleSimilarity   float64
	ContentSimilarity float64
	SameAuthor        bool
	Reasons           []string
	Confidence        float64
}

// Recommendation says what to do with a duplicate pair.
type Recommendation struct {
	Action  string
	Keep    PostContent
	Remove  PostContent
	Reasons []string
}

// Known tracking query parameters stripped during URL normalization.
var trackingParams = map[string]struct{}{
	"utm_source": {}, "utm_medium": {}, "utm_campaign": {}, "utm_term": {}, "utm_content": {},
	"fbclid": {}, "gclid": {}, "mc_cid": {}, "mc_eid": {}, "_ga": {}, "ref": {}, "source": {},
}

var (
	punctRe       = regexp.MustCompile(`[^\w\s]`)
	spacesRe      = regexp.MustCompile(`\s+`)
	markupRe      = regexp.MustCompile(`<[^>]+>`)
	forumPrefixRe = regexp.MustCompile(`^(ask hn:?|show hn:?|tell hn:?|hn:?|poll:?)\s*`)
)

// NormalizeURL lowercases a URL, drops known tracking parameters and
// strips the trailing slash and fragment.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(strings.ToLower(raw))
	if err != nil {
		return strings.ToLower(raw)
	}
	q := u.Query()
	for k := range q {
		if _, ok := trackingParams[strings.ToLower(k)]; ok {
			q.Del(k)
		}
	}
	u.RawQuery = q.Encode()
	u.Path = strings.TrimRight(u.Path, "/")
	u.Fragment = ""
	return u.String()
}

// NormalizeTitle lowercases, strips punctuation and collapses whitespace.
func NormalizeTitle(title string) string {
	t := strings.ToLower(strings.TrimSpace(title))
	t = punctRe.ReplaceAllString(t, " ")
	return strings.TrimSpace(spacesRe.ReplaceAllString(t, " "))
}

// NormalizeContent strips markup tags and forum prefix phrases, then
// lowercases and collapses whitespace.
func NormalizeContent(text string) string {
	t := markupRe.ReplaceAllString(text, "")
	t = strings.ToLower(strings.TrimSpace(t))
	t = spacesRe.ReplaceAllString(t, " ")
	t = forumPrefixRe.ReplaceAllString(t, "")
	return strings.TrimSpace(t)
}

// Fingerprint hashes the normalized (title, url, text) triple. Posts
// sharing a fingerprint are exact duplicates.
func Fingerprint(title, rawURL, text string) string {
	combined := fmt.Sprintf("%s|%s|%s", NormalizeTitle(title), NormalizeURL(rawURL), NormalizeContent(text))
	sum := sha256.Sum256([]byte(combined))
	return hex.EncodeToString(sum[:])
}

// Detector compares post pairs. The zero value is ready to use.
type Detector struct{}

// Compare decides whether a and b are duplicates. The decision is
// symmetric in its arguments.
func (Detector) Compare(a, b PostContent) Match {
	// Fast path: identical normalized content.
	if Fingerprint(a.Title, a.URL, a.Text) == Fingerprint(b.Title, b.URL, b.Text) {
		return Match{
			IsDuplicate:       true,
			URLSimilarity:     1.0,
			TitleSimilarity:   1.0,
			ContentSimilarity: 1.0,
			SameAuthor:        sameAuthor(a, b),
			Reasons:           []string{ReasonExactMatch},
			Confidence:        1.0,
		}
	}

	urlA, urlB := NormalizeURL(a.URL), NormalizeURL(b.URL)
	titleA, titleB := NormalizeTitle(a.Title), NormalizeTitle(b.Title)
	textA, textB := NormalizeContent(a.Text), NormalizeContent(b.Text)

	m := Match{SameAuthor: sameAuthor(a, b)}
	if urlA != "" && urlB != "" {
		m.URLSimilarity = orderedRatio(urlA, urlB)
	}
	m.TitleSimilarity = orderedRatio(titleA, titleB)
	if textA != "" && textB != "" {
		m.ContentSimilarity = orderedRatio(textA, textB)
	}

	if m.URLSimilarity >= URLSimilarityThreshold {
		m.IsDuplicate = true
		m.Reasons = append(m.Reasons, fmt.Sprintf("URL similarity: %.3f", m.URLSimilarity))
	}
	if m.TitleSimilarity >= TitleSimilarityThreshold {
		m.IsDuplicate = true
		m.Reasons = append(m.Reasons, fmt.Sprintf("Title similarity: %.3f", m.TitleSimilarity))
	}
	if m.ContentSimilarity >= ContentSimilarityThreshold {
		m.IsDuplicate = true
		m.Reasons = append(m.Reasons, fmt.Sprintf("Content similarity: %.3f", m.ContentSimilarity))
	}
	if m.SameAuthor && (m.TitleSimilarity >= SameAuthorThreshold || m.ContentSimilarity >= SameAuthorThreshold) {
		m.IsDuplicate = true
		m.Reasons = append(m.Reasons,
			fmt.Sprintf("Same author, similar content (T:%.3f, C:%.3f)", m.TitleSimilarity, m.ContentSimilarity))
	}

	m.Confidence = max3(m.URLSimilarity, m.TitleSimilarity, m.ContentSimilarity)
	return m
}

// Recommend picks which post of a duplicate pair to keep: higher HN
// score wins, then earlier HN submission, then lower HN id. Same-author
// pairs are flagged as spam behavior instead of a plain removal.
func (Detector) Recommend(a, b PostContent, m Match) Recommendation {
	rec := Recommendation{Action: ActionRemoveLowerQuality}
	if m.SameAuthor {
		rec.Action = ActionFlagSpamBehavior
		rec.Reasons = append(rec.Reasons, "Same author posting duplicate content")
	}

	keepA := false
	switch {
	case a.Score != b.Score:
		keepA = a.Score > b.Score
		rec.Reasons = append(rec.Reasons, fmt.Sprintf("Higher HN score (%d vs %d)", maxInt(a.Score, b.Score), minInt(a.Score, b.Score)))
	case !a.CreatedAt.Equal(b.CreatedAt) && !a.CreatedAt.IsZero() && !b.CreatedAt.IsZero():
		keepA = a.CreatedAt.Before(b.CreatedAt)
		rec.Reasons = append(rec.Reasons, "Posted earlier (likely original)")
	default:
		keepA = a.HNID < b.HNID
		rec.Reasons = append(rec.Reasons, fmt.Sprintf("Tie-breaker: keeping lower HN id %d", minInt(a.HNID, b.HNID)))
	}

	if keepA {
		rec.Keep, rec.Remove = a, b
	} else {
		rec.Keep, rec.Remove = b, a
	}
	return rec
}

// orderedRatio runs Ratio with the operands in lexicographic order.
// The greedy decomposition is orientation-sensitive, so pinning the
// orientation keeps Compare symmetric in its arguments.
func orderedRatio(a, b string) float64 {
	if a > b {
		a, b = b, a
	}
	return Ratio(a, b)
}

func sameAuthor(a, b PostContent) bool {
	aa := strings.ToLower(strings.TrimSpace(a.Author))
	bb := strings.ToLower(strings.TrimSpace(b.Author))
	return aa != "" && aa == bb
}

func max3(a, b, c float64) float64 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

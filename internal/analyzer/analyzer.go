// Package analyzer scores posts against keyword and domain heuristics.
// Scoring is a pure function of the post's title, url and text plus an
// optional code-host signal; it never fails a sweep: any internal error
// yields DefaultScores instead of propagating.
package analyzer

import (
	"context"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
)

// Version tags QualityScore rows with the heuristics revision that
// produced them.
const Version = "1.0"

// Weights of the overall_interest combination. Spam acts as a penalty.
const (
	weightTechnicalDepth   = 0.25
	weightOriginality      = 0.25
	weightProblemSolving   = 0.20
	weightGithubQuality    = 0.15
	weightDomainReputation = 0.10
	weightSpamPenalty      = 0.5
)

// Scores is the bounded [0,1] quality-dimension vector for one post.
type Scores struct {
	TechnicalDepth   float64
	Originality      float64
	ProblemSolving   float64
	SpamLikelihood   float64
	OverallInterest  float64
	GithubQuality    float64
	DomainReputation float64
}

// Input is the post material the analyzer looks at.
type Input struct {
	Title string
	URL   string
	Text  string
}

// RepoRater supplies the optional code-host reputation signal for
// posts that link to a repository. Implementations must return 0 on
// any failure.
type RepoRater interface {
	RateRepo(ctx context.Context, rawURL string) float64
}

// Analyzer computes quality-dimension vectors. The zero value works;
// Repos may be nil, in which case github_quality stays 0.
type Analyzer struct {
	Repos RepoRater
}

// DefaultScores is the documented fallback vector: neutral spam
// suspicion, unknown-domain reputation, everything else zeroed.
func DefaultScores() Scores {
	return Scores{SpamLikelihood: 0.5, DomainReputation: 0.4}
}

// Analyze scores a post. It recovers from any internal panic and
// returns DefaultScores so that scoring can never abort a sweep.
func (a *Analyzer) Analyze(ctx context.Context, in Input) (s Scores) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("analyzer: recovered from scoring failure", "title", in.Title, "panic", r)
			s = DefaultScores()
		}
	}()

	title := strings.ToLower(in.Title)
	text := strings.ToLower(in.Text)
	rawURL := in.URL

	s.TechnicalDepth = technicalDepth(title, text, rawURL)
	s.Originality = originality(title, text, rawURL)
	s.ProblemSolving = problemSolving(title, text)
	s.SpamLikelihood = spamLikelihood(title, in.Title, text, rawURL)
	if a.Repos != nil && strings.Contains(rawURL, "github.com") {
		s.GithubQuality = clamp01(a.Repos.RateRepo(ctx, rawURL))
	}
	s.DomainReputation = domainReputation(rawURL)
	s.OverallInterest = overall(s)
	return s
}

func technicalDepth(title, text, rawURL string) float64 {
	combined := title + " " + text

	basic := float64(countMatches(combined, techKeywords)) / 5
	if basic > 0.6 {
		basic = 0.6
	}

	advanced := float64(countMatches(combined, advancedKeywords)) / 3
	if advanced > 0.4 {
		advanced = 0.4
	}
	advanced *= 1.5

	var domainBonus float64
	for _, d := range techDomains {
		if strings.Contains(rawURL, d) {
			domainBonus = 0.2
			break
		}
	}

	return clamp01(basic + advanced + domainBonus)
}

func originality(title, text, rawURL string) float64 {
	var score float64

	if strings.HasPrefix(title, "show hn:") {
		score += 0.4
	}
	if containsAny(title, creationWords) {
		score += 0.3
	}
	if strings.Contains(rawURL, "github.com") {
		score += 0.2
	}
	if containsAny(title, personalIndicators) {
		score += 0.2
	}
	if containsAny(title, demoWords) || containsAny(text, demoWords) {
		score += 0.1
	}

	return clamp01(score)
}

func problemSolving(title, text string) float64 {
	combined := title + " " + text

	problem := float64(countMatches(combined, problemKeywords)) / 3
	if problem > 0.7 {
		problem = 0.7
	}

	pain := float64(countMatches(combined, painPointKeywords)) / 2
	if pain > 0.3 {
		pain = 0.3
	}

	return clamp01(problem + pain)
}

var capsRunRe = regexp.MustCompile(`[A-Z]{3,}`)

func spamLikelihood(title, rawTitle, text, rawURL string) float64 {
	var score float64

	if len(title) < 20 {
		score += 0.2
	}
	if strings.Count(title, "!") > 1 {
		score += 0.3
	}
	// Caps runs only exist in the raw-cased title.
	if len(capsRunRe.FindAllString(rawTitle, -1)) > 2 {
		score += 0.4
	}

	combined := title + " " + text
	kw := float64(countMatches(combined, spamKeywords)) * 0.2
	if kw > 0.6 {
		kw = 0.6
	}
	score += kw

	if strings.Contains(combined, "$$$") || strings.Contains(combined, "💰") {
		score += 0.3
	}
	if rawURL == "" && len(text) < 50 {
		score += 0.4
	}
	for _, d := range suspiciousDomains {
		if strings.Contains(rawURL, d) {
			score += 0.3
			break
		}
	}

	return clamp01(score)
}

func domainReputation(rawURL string) float64 {
	if rawURL == "" {
		// Neutral for text-only posts.
		return 0.5
	}
	host := ""
	if u, err := url.Parse(rawURL); err == nil {
		host = strings.ToLower(u.Host)
	}
	for _, d := range highRepDomains {
		if strings.Contains(host, d) {
			return 0.8
		}
	}
	for _, d := range mediumRepDomains {
		if strings.Contains(host, d) {
			return 0.6
		}
	}
	return 0.4
}

func overall(s Scores) float64 {
	v := s.TechnicalDepth*weightTechnicalDepth +
		s.Originality*weightOriginality +
		s.ProblemSolving*weightProblemSolving +
		s.GithubQuality*weightGithubQuality +
		s.DomainReputation*weightDomainReputation -
		s.SpamLikelihood*weightSpamPenalty
	return clamp01(v)
}

// countMatches counts how many keywords occur in s at least once.
func countMatches(s string, keywords []string) int {
	n := 0
	for _, k := range keywords {
		if strings.Contains(s, k) {
			n++
		}
	}
	return n
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

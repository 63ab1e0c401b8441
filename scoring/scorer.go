package scoring

import (
	"time"

	"radar/textnorm"
)

// Pesos do blend de relevância cliente x item.
const WEIGHT_KEYWORD = 0.4
const WEIGHT_PILLAR = 0.3
const WEIGHT_RECENCY = 0.2
const WEIGHT_QUALITY = 0.1

/************************************************
/**** MARK: SUGGESTED ACTION ****/
/************************************************/
const SUGGESTED_ASSIGN = "assign"
const SUGGESTED_REVIEW = "review"
const SUGGESTED_IGNORE = "ignore"

// Item é a projeção do ContentItem que o scorer enxerga.
type Item struct {
	Title       string
	Snippet     string
	Tags        []string
	SourceName  string
	PublishedAt *time.Time
}

// Profile é a projeção do perfil de clipping do cliente.
type Profile struct {
	Keywords            []string
	Pillars             []string
	EnableCalendarTotal bool
	CalendarWeight      int // 0..100
	EnableTrends        bool
	TrendWeight         int // 0..100
	TrendSources        []string
}

// Options são os tunables que vêm da configuração.
// Matcher nulo cai no WordMatcher.
type Options struct {
	Floor   float64
	Matcher textnorm.Matcher
	Now     time.Time // zero = time.Now(); fixável em testes e replays
}

type Factors struct {
	KeywordMatch    float64 `json:"keyword_match"`
	PillarAlignment float64 `json:"pillar_alignment"`
	Recency         float64 `json:"recency"`
	ContentQuality  float64 `json:"content_quality"`
}

type Result struct {
	Score           float64  `json:"score"` // 0..1
	MatchedKeywords []string `json:"matched_keywords"`
	MatchedPillars  []string `json:"matched_pillars"`
	Factors         Factors  `json:"factors"`
	Suggested       string   `json:"suggested"`
}

// Score é função pura de (item, profile, opts): sem estado escondido,
// replayável para re-score histórico quando o perfil muda.
// Monotônica no número de keywords e pilares que batem.
func Score(item Item, p Profile, opts Options) Result {
	m := opts.Matcher
	if m == nil {
		m = textnorm.WordMatcher{}
	}
	floor := opts.Floor
	if floor <= 0 {
		floor = 0.05
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	text := textnorm.Normalize(item.Title + " " + item.Snippet)
	for _, tag := range item.Tags {
		text += " " + textnorm.Normalize(tag)
	}

	var matchedKw []string
	for _, kw := range p.Keywords {
		if m.Matches(text, textnorm.Normalize(kw)) {
			matchedKw = append(matchedKw, kw)
		}
	}
	var matchedPillars []string
	for _, pl := range p.Pillars {
		if m.Matches(text, textnorm.Normalize(pl)) {
			matchedPillars = append(matchedPillars, pl)
		}
	}

	f := Factors{
		KeywordMatch:    capRatio(len(matchedKw), 3),
		PillarAlignment: capRatio(len(matchedPillars), 2),
		Recency:         recencyFactor(item.PublishedAt, now),
		ContentQuality:  qualityFactor(item.Title, item.Snippet),
	}

	if len(matchedKw) == 0 && len(matchedPillars) == 0 {
		// Piso de relevância "global": mantém o item vivo para tenants
		// com threshold de visibilidade abaixo do piso.
		return Result{
			Score:     floor,
			Factors:   f,
			Suggested: SUGGESTED_IGNORE,
		}
	}

	score := WEIGHT_KEYWORD*f.KeywordMatch +
		WEIGHT_PILLAR*f.PillarAlignment +
		WEIGHT_RECENCY*f.Recency +
		WEIGHT_QUALITY*f.ContentQuality

	if p.EnableCalendarTotal {
		score *= 1 + 0.2*float64(clampWeight(p.CalendarWeight))/100
	}
	if p.EnableTrends && isTrending(item, p.TrendSources) {
		score *= 1 + 0.3*float64(clampWeight(p.TrendWeight))/100
	}

	if score > 1 {
		score = 1
	}
	if score < floor {
		score = floor
	}

	return Result{
		Score:           score,
		MatchedKeywords: matchedKw,
		MatchedPillars:  matchedPillars,
		Factors:         f,
		Suggested:       suggestedAction(score),
	}
}

func suggestedAction(score float64) string {
	switch {
	case score >= 0.7:
		return SUGGESTED_ASSIGN
	case score >= 0.5:
		return SUGGESTED_REVIEW
	default:
		return SUGGESTED_IGNORE
	}
}

// capRatio satura em "full" matches: a partir daí o fator vale 1.
func capRatio(matched, full int) float64 {
	if matched <= 0 {
		return 0
	}
	if matched >= full {
		return 1
	}
	return float64(matched) / float64(full)
}

func recencyFactor(publishedAt *time.Time, now time.Time) float64 {
	if publishedAt == nil {
		return 0.2
	}
	age := now.Sub(*publishedAt)
	switch {
	case age <= 6*time.Hour:
		return 1
	case age <= 24*time.Hour:
		return 0.8
	case age <= 72*time.Hour:
		return 0.6
	case age <= 7*24*time.Hour:
		return 0.4
	case age <= 30*24*time.Hour:
		return 0.2
	default:
		return 0.1
	}
}

func qualityFactor(title, snippet string) float64 {
	n := len(title) + len(snippet)
	if n >= 400 {
		return 1
	}
	return float64(n) / 400
}

func isTrending(item Item, trendSources []string) bool {
	for _, tag := range item.Tags {
		if textnorm.Normalize(tag) == "trend" {
			return true
		}
	}
	src := textnorm.Normalize(item.SourceName)
	for _, s := range trendSources {
		if src != "" && src == textnorm.Normalize(s) {
			return true
		}
	}
	return false
}

func clampWeight(w int) int {
	if w < 0 {
		return 0
	}
	if w > 100 {
		return 100
	}
	return w
}

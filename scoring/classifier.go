package scoring

import (
	"radar/textnorm"
)

// Cutoffs guarda os cortes de tier (escala 0..100).
type Cutoffs struct {
	TierA float64
	TierB float64
}

func DefaultCutoffs() Cutoffs {
	return Cutoffs{TierA: 80, TierB: 55}
}

// Tier converte score em bucket discreto A/B/C.
func Tier(score float64, c Cutoffs) string {
	if c.TierA <= 0 && c.TierB <= 0 {
		c = DefaultCutoffs()
	}
	switch {
	case score >= c.TierA:
		return "A"
	case score >= c.TierB:
		return "B"
	default:
		return "C"
	}
}

// Categories testa cada categoria configurada contra tags e texto do item
// com containment bidirecional ("mobi" bate em "mobilidade" e vice-versa).
func Categories(tags []string, title, snippet string, configured []string, m textnorm.Matcher) []string {
	if m == nil {
		m = textnorm.LooseMatcher{}
	}
	text := textnorm.Normalize(title + " " + snippet)

	var normTags []string
	for _, t := range tags {
		if n := textnorm.Normalize(t); n != "" {
			normTags = append(normTags, n)
		}
	}

	var out []string
	for _, cat := range configured {
		nc := textnorm.Normalize(cat)
		if nc == "" {
			continue
		}
		matched := false
		for _, tag := range normTags {
			if m.Matches(tag, nc) {
				matched = true
				break
			}
		}
		if !matched && (textnorm.WordMatcher{}).Matches(text, nc) {
			matched = true
		}
		if matched {
			out = append(out, cat)
		}
	}
	return out
}

// MatchesRequired aplica o gate de required keywords: lista vazia libera,
// lista não vazia exige pelo menos um match normalizado no texto/tags.
// Aplicado depois do score, nunca dobrado dentro dele.
func MatchesRequired(title, snippet string, tags []string, required []string) bool {
	if len(required) == 0 {
		return true
	}
	text := textnorm.Normalize(title + " " + snippet)
	for _, tag := range tags {
		text += " " + textnorm.Normalize(tag)
	}
	m := textnorm.WordMatcher{}
	for _, kw := range required {
		if m.Matches(text, textnorm.Normalize(kw)) {
			return true
		}
	}
	return false
}

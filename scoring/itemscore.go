package scoring

import (
	"sort"
	"time"

	"radar/textnorm"
)

// Score inicial do item na ingestão (escala 0..100, independe de cliente).
// Serve só pra ordenar o feed bruto do radar antes de existir match.

var segmentKeywords = map[string][]string{
	"portuario":   {"porto", "portuaria", "portuario", "antaq", "terminal portuario", "navegacao", "cabotagem"},
	"logistica":   {"logistica", "frete", "transporte de carga", "armazem", "supply chain", "ferrovia", "rodovia"},
	"educacao":    {"educacao", "enem", "edital", "concurso", "vestibular", "escola", "universidade"},
	"saude":       {"saude", "hospital", "sus", "anvisa", "vacina", "medicamento"},
	"energia":     {"energia", "aneel", "eolica", "solar", "petroleo", "gas natural"},
	"agronegocio": {"agronegocio", "safra", "soja", "pecuaria", "agricultura", "embrapa"},
	"tecnologia":  {"tecnologia", "inteligencia artificial", "startup", "inovacao", "software"},
	"juridico":    {"justica", "stf", "stj", "tribunal", "licitacao", "regulacao"},
}

// InferSegments devolve os segmentos cujo vocabulário aparece no texto,
// em ordem estável.
func InferSegments(title, snippet string) []string {
	text := textnorm.Normalize(title + " " + snippet)
	if text == "" {
		return nil
	}
	m := textnorm.WordMatcher{}

	var out []string
	for seg, terms := range segmentKeywords {
		for _, term := range terms {
			if m.Matches(text, term) {
				out = append(out, seg)
				break
			}
		}
	}
	sort.Strings(out)
	return out
}

// InitialScore calcula o score de ingestão:
// base 10 + recência (40/30/20/10) + min(30, segmentos*8) + 10 se TREND.
// Sempre clampado em [0, 100].
func InitialScore(title, snippet string, tags []string, publishedAt *time.Time, now time.Time) (float64, []string) {
	score := 10.0

	switch {
	case publishedAt == nil:
		score += 10
	case now.Sub(*publishedAt) <= 6*time.Hour:
		score += 40
	case now.Sub(*publishedAt) <= 24*time.Hour:
		score += 30
	case now.Sub(*publishedAt) <= 72*time.Hour:
		score += 20
	default:
		score += 10
	}

	segments := InferSegments(title, snippet)
	bonus := float64(len(segments)) * 8
	if bonus > 30 {
		bonus = 30
	}
	score += bonus

	for _, tag := range tags {
		if textnorm.Normalize(tag) == "trend" {
			score += 10
			break
		}
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score, segments
}

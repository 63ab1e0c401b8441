package dedup

// Similaridade por conjuntos de trigramas de runas + Jaccard.
// Barato, sem dependência de embedding, e estável pra textos curtos/médios.

func trigramSet(normalized string) map[string]struct{} {
	runes := []rune(normalized)
	set := make(map[string]struct{})
	if len(runes) < 3 {
		if len(runes) > 0 {
			set[string(runes)] = struct{}{}
		}
		return set
	}
	for i := 0; i+3 <= len(runes); i++ {
		set[string(runes[i:i+3])] = struct{}{}
	}
	return set
}

// Jaccard retorna |A∩B| / |A∪B| dos trigramas de dois textos já normalizados.
// Texto idêntico dá 1.0.
func Jaccard(normA, normB string) float64 {
	return jaccardSets(trigramSet(normA), trigramSet(normB))
}

func jaccardSets(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for t := range a {
		if _, ok := b[t]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

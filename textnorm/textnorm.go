package textnorm

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalização compartilhada por scorer, classifier, collector e anti-repetição.
// "Terminal Portuário" e "terminal portuario" precisam virar a mesma coisa.

var accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize deixa o texto minúsculo, sem acentos e com qualquer sequência
// não alfanumérica colapsada num único espaço.
func Normalize(s string) string {
	out, _, err := transform.String(accentStripper, s)
	if err != nil {
		out = s
	}
	out = strings.ToLower(out)

	var b strings.Builder
	b.Grow(len(out))
	lastSpace := true
	for _, r := range out {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastSpace = false
			continue
		}
		if !lastSpace {
			b.WriteRune(' ')
			lastSpace = true
		}
	}
	return strings.TrimSpace(b.String())
}

func Tokens(s string) []string {
	n := Normalize(s)
	if n == "" {
		return nil
	}
	return strings.Fields(n)
}

// TitleHash gera a chave de dedup por título (hash da forma normalizada).
func TitleHash(title string) string {
	sum := sha1.Sum([]byte(Normalize(title)))
	return hex.EncodeToString(sum[:])
}

// Matcher decide se um termo "bate" num texto. Os dois lados já chegam
// normalizados. A regra de containment é trocável sem mexer no classifier.
type Matcher interface {
	Matches(normText, normTerm string) bool
}

// WordMatcher exige o termo como palavra(s) inteira(s) no texto.
// "porto" não bate em "comportamento".
type WordMatcher struct{}

func (WordMatcher) Matches(normText, normTerm string) bool {
	if normTerm == "" || normText == "" {
		return false
	}
	return strings.Contains(" "+normText+" ", " "+normTerm+" ")
}

// LooseMatcher aceita containment bidirecional: o termo contém o candidato
// ou vice-versa. Tolera matches parciais tipo "mobi" vs "mobilidade".
type LooseMatcher struct{}

func (LooseMatcher) Matches(normText, normTerm string) bool {
	if normTerm == "" || normText == "" {
		return false
	}
	return strings.Contains(normText, normTerm) || strings.Contains(normTerm, normText)
}

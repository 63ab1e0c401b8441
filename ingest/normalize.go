package ingest

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Parâmetros de rastreio que não mudam o conteúdo da página.
// Removidos antes do upsert pra URL virar chave estável.
var trackingParams = map[string]bool{
	"fbclid": true,
	"gclid":  true,
	"mc_cid": true,
	"mc_eid": true,
	"igshid": true,
}

// CanonicalURL normaliza a URL pra servir de chave de dedup:
// host minúsculo, sem fragmento, sem parâmetros de tracking.
func CanonicalURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	u.Fragment = ""
	u.Host = strings.ToLower(u.Host)

	q := u.Query()
	for key := range q {
		lower := strings.ToLower(key)
		if trackingParams[lower] || strings.HasPrefix(lower, "utm_") {
			q.Del(key)
		}
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// StripHTML remove markup e colapsa espaços. Entrada sem markup sai intacta
// (fora o colapso de whitespace).
func StripHTML(s string) string {
	if !strings.ContainsAny(s, "<>") {
		return CollapseWhitespace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return CollapseWhitespace(s)
	}
	return CollapseWhitespace(doc.Text())
}

func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

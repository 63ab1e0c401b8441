package ingest

import (
	"time"

	"radar/models"
	"radar/scoring"
	"radar/textnorm"

	"github.com/jinzhu/gorm"
)

// Options controla o upsert de entradas coletadas.
type Options struct {
	TitleDedupDays int
	MaxItems       int
	Cutoffs        scoring.Cutoffs
	Now            time.Time
}

// Result resume uma rodada de upsert de uma fonte.
type Result struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Skipped  int `json:"skipped"`
}

// Upsert grava as entradas como ContentItem com chave (tenant_id, url).
// Reingestão atualiza título/snippet/categorias mas preserva status e score:
// item arquivado não volta pro feed. Filtros da fonte (include/exclude,
// tamanho mínimo) e dedup por hash de título rodam antes da escrita.
func Upsert(db *gorm.DB, src models.Source, entries []Entry, opts Options) (Result, error) {
	if opts.TitleDedupDays <= 0 {
		opts.TitleDedupDays = 7
	}
	if opts.MaxItems <= 0 {
		opts.MaxItems = 50
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	var res Result
	matcher := textnorm.WordMatcher{}
	hashCutoff := now.AddDate(0, 0, -opts.TitleDedupDays)

	for i, entry := range entries {
		if i >= opts.MaxItems {
			break
		}

		canonical, err := CanonicalURL(entry.URL)
		if err != nil || canonical == "" {
			res.Skipped++
			continue
		}

		title := CollapseWhitespace(StripHTML(entry.Title))
		snippet := StripHTML(entry.Snippet)
		if title == "" {
			res.Skipped++
			continue
		}
		if !passesSourceFilters(src, title, snippet, matcher) {
			res.Skipped++
			continue
		}

		titleHash := textnorm.TitleHash(title)

		var existing models.ContentItem
		err = db.Where("tenant_id = ? AND url = ?", src.TenantID, canonical).First(&existing).Error
		if err == nil {
			updates := map[string]any{
				"title":      title,
				"snippet":    snippet,
				"title_hash": titleHash,
				"categories": mergeCategories(src, title, snippet),
				"tags":       mergeTags(src, entry),
			}
			if entry.PublishedAt != nil {
				updates["published_at"] = entry.PublishedAt
			}
			if err := db.Model(&models.ContentItem{}).Where("id = ?", existing.ID).Updates(updates).Error; err != nil {
				return res, err
			}
			res.Updated++
			continue
		}
		if !gorm.IsRecordNotFoundError(err) {
			return res, err
		}

		// Mesmo título publicado há pouco em outra URL do tenant: não duplica.
		var dupes int64
		if err := db.Model(&models.ContentItem{}).
			Where("tenant_id = ? AND title_hash = ? AND created_at >= ?", src.TenantID, titleHash, hashCutoff).
			Count(&dupes).Error; err != nil {
			return res, err
		}
		if dupes > 0 {
			res.Skipped++
			continue
		}

		score, _ := scoring.InitialScore(title, snippet, mergeTags(src, entry), entry.PublishedAt, now)
		item := models.ContentItem{
			TenantID:    src.TenantID,
			SourceID:    src.ID,
			Title:       title,
			Snippet:     snippet,
			URL:         canonical,
			TitleHash:   titleHash,
			PublishedAt: entry.PublishedAt,
			Score:       score,
			Tier:        scoring.Tier(score, opts.Cutoffs),
			Status:      models.ITEM_STATUS_NEW,
			Categories:  mergeCategories(src, title, snippet),
			Tags:        mergeTags(src, entry),
		}
		if err := db.Create(&item).Error; err != nil {
			return res, err
		}
		res.Inserted++
	}

	return res, nil
}

func passesSourceFilters(src models.Source, title, snippet string, m textnorm.Matcher) bool {
	if src.MinContentLength > 0 && len(title)+len(snippet) < src.MinContentLength {
		return false
	}
	text := textnorm.Normalize(title + " " + snippet)
	for _, kw := range src.ExcludeKeywords {
		if m.Matches(text, textnorm.Normalize(kw)) {
			return false
		}
	}
	if len(src.IncludeKeywords) > 0 {
		ok := false
		for _, kw := range src.IncludeKeywords {
			if m.Matches(text, textnorm.Normalize(kw)) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

func mergeCategories(src models.Source, title, snippet string) models.StringList {
	out := append(models.StringList{}, src.Categories...)
	for _, seg := range scoring.InferSegments(title, snippet) {
		if !out.Contains(seg) {
			out = append(out, seg)
		}
	}
	return out
}

func mergeTags(src models.Source, entry Entry) models.StringList {
	out := append(models.StringList{}, src.Tags...)
	for _, tag := range entry.Tags {
		if tag != "" && !out.Contains(tag) {
			out = append(out, tag)
		}
	}
	return out
}

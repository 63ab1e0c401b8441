package quality

import (
	"sort"
	"time"

	"radar/models"
	"radar/textnorm"

	"github.com/jinzhu/gorm"
)

// WindowDays traduz o range do dashboard pra dias.
func WindowDays(rng string) int {
	switch rng {
	case "today":
		return 1
	case "month":
		return 30
	default:
		return 7
	}
}

type Counts struct {
	Relevant    int64 `json:"relevant"`
	Irrelevant  int64 `json:"irrelevant"`
	WrongClient int64 `json:"wrong_client"`
}

func (c Counts) Total() int64 {
	return c.Relevant + c.Irrelevant + c.WrongClient
}

// Precision devolve relevant / total no período, ou nil quando não há
// feedback: "sem dado" não é a mesma coisa que "100% errado".
func Precision(c Counts) *float64 {
	total := c.Total()
	if total == 0 {
		return nil
	}
	p := float64(c.Relevant) / float64(total)
	return &p
}

func FeedbackCounts(db *gorm.DB, tenantID string, since time.Time) (Counts, error) {
	var rows []struct {
		Kind  string
		Count int64
	}
	err := db.Model(&models.FeedbackEvent{}).
		Select("kind, count(*) as count").
		Where("tenant_id = ? AND created_at >= ?", tenantID, since).
		Group("kind").
		Scan(&rows).Error
	if err != nil {
		return Counts{}, err
	}

	var c Counts
	for _, r := range rows {
		switch r.Kind {
		case models.FEEDBACK_RELEVANT:
			c.Relevant = r.Count
		case models.FEEDBACK_IRRELEVANT:
			c.Irrelevant = r.Count
		case models.FEEDBACK_WRONG_CLIENT:
			c.WrongClient = r.Count
		}
	}
	return c, nil
}

type ClientQuality struct {
	ClientID    int64    `json:"client_id"`
	Name        string   `json:"name"`
	Relevant    int64    `json:"relevant"`
	Irrelevant  int64    `json:"irrelevant"`
	WrongClient int64    `json:"wrong_client"`
	Precision   *float64 `json:"precision"`
}

func PerClient(db *gorm.DB, tenantID string, since time.Time) ([]ClientQuality, error) {
	var rows []ClientQuality
	err := db.Table("clients").
		Select(`clients.id as client_id, clients.name,
			sum(case when f.kind = 'relevant' then 1 else 0 end) as relevant,
			sum(case when f.kind = 'irrelevant' then 1 else 0 end) as irrelevant,
			sum(case when f.kind = 'wrong_client' then 1 else 0 end) as wrong_client`).
		Joins("join feedback_events f on f.client_id = clients.id and f.tenant_id = clients.tenant_id").
		Where("clients.tenant_id = ? AND f.created_at >= ?", tenantID, since).
		Group("clients.id, clients.name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].Precision = Precision(Counts{
			Relevant:    rows[i].Relevant,
			Irrelevant:  rows[i].Irrelevant,
			WrongClient: rows[i].WrongClient,
		})
	}
	return rows, nil
}

type SourceQuality struct {
	SourceID           int64   `json:"source_id"`
	Name               string  `json:"name"`
	TotalItems         int64   `json:"total_items"`
	Used               int64   `json:"used"`
	Archived           int64   `json:"archived"`
	ArchivedWithoutUse int64   `json:"archived_without_use"`
	AvgScore           float64 `json:"avg_score"`
	GarbagePct         float64 `json:"garbage_pct"`
}

// PerSource mede a qualidade de cada fonte no período. garbage_pct é a
// fatia de itens arquivados sem nunca terem sido usados (assign/pin/post).
func PerSource(db *gorm.DB, tenantID string, since time.Time) ([]SourceQuality, error) {
	var rows []SourceQuality
	err := db.Table("sources").
		Select(`sources.id as source_id, sources.name,
			count(i.id) as total_items,
			sum(case when i.status in ('ASSIGNED', 'PINNED') then 1 else 0 end) as used,
			sum(case when i.status = 'ARCHIVED' then 1 else 0 end) as archived,
			sum(case when i.status = 'ARCHIVED' and not exists (
				select 1 from item_actions a
				where a.item_id = i.id and a.action in ('ASSIGN', 'PIN', 'CREATE_POST')
			) then 1 else 0 end) as archived_without_use,
			avg(i.score) as avg_score`).
		Joins("join content_items i on i.source_id = sources.id and i.tenant_id = sources.tenant_id").
		Where("sources.tenant_id = ? AND i.created_at >= ?", tenantID, since).
		Group("sources.id, sources.name").
		Order("total_items desc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].TotalItems > 0 {
			rows[i].GarbagePct = float64(rows[i].ArchivedWithoutUse) / float64(rows[i].TotalItems) * 100
		}
	}
	return rows, nil
}

type KeywordCount struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
}

// Palavras funcionais que não servem de negative keyword.
var stopwords = map[string]bool{
	"a": true, "o": true, "e": true, "de": true, "da": true, "do": true,
	"das": true, "dos": true, "em": true, "no": true, "na": true, "nos": true,
	"nas": true, "um": true, "uma": true, "por": true, "para": true, "com": true,
	"que": true, "sobre": true, "entre": true, "mais": true, "como": true,
	"sem": true, "ser": true, "ao": true, "aos": true,
}

// SuggestedNegativeKeywords devolve os termos frequentes em itens marcados
// como irrelevantes e ausentes dos relevantes, em ordem de ocorrência.
func SuggestedNegativeKeywords(db *gorm.DB, tenantID string, since time.Time, limit int) ([]KeywordCount, error) {
	if limit <= 0 {
		limit = 10
	}

	irrelevant, err := feedbackItemTitles(db, tenantID, models.FEEDBACK_IRRELEVANT, since)
	if err != nil {
		return nil, err
	}
	relevant, err := feedbackItemTitles(db, tenantID, models.FEEDBACK_RELEVANT, since)
	if err != nil {
		return nil, err
	}

	goodTerms := map[string]bool{}
	for _, title := range relevant {
		for _, tok := range textnorm.Tokens(title) {
			goodTerms[tok] = true
		}
	}

	counts := map[string]int{}
	for _, title := range irrelevant {
		seen := map[string]bool{}
		for _, tok := range textnorm.Tokens(title) {
			if len(tok) < 4 || stopwords[tok] || goodTerms[tok] || seen[tok] {
				continue
			}
			seen[tok] = true
			counts[tok]++
		}
	}

	out := make([]KeywordCount, 0, len(counts))
	for term, n := range counts {
		out = append(out, KeywordCount{Term: term, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Term < out[j].Term
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func feedbackItemTitles(db *gorm.DB, tenantID, kind string, since time.Time) ([]string, error) {
	var rows []struct{ Title string }
	err := db.Table("content_items").
		Select("content_items.title").
		Joins("join feedback_events f on f.item_id = content_items.id and f.tenant_id = content_items.tenant_id").
		Where("content_items.tenant_id = ? AND f.kind = ? AND f.created_at >= ?", tenantID, kind, since).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	titles := make([]string, 0, len(rows))
	for _, r := range rows {
		titles = append(titles, r.Title)
	}
	return titles, nil
}

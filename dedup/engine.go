package dedup

import (
	"sort"
	"sync"
	"time"

	"radar/models"
	"radar/textnorm"

	"github.com/jinzhu/gorm"
	"go.uber.org/zap"
)

/************************************************
/**** MARK: RECOMMENDATION ****/
/************************************************/
const RECOMMENDATION_APPROVE = "approve"
const RECOMMENDATION_REVIEW = "review"
const RECOMMENDATION_REJECT = "reject"

// Config são os tunables do motor anti-repetição.
type Config struct {
	RejectThreshold  float64
	ReviewThreshold  float64
	MinTextLength    int
	CorpusWindow     int // N entradas mais recentes por tenant
	CorpusMaxAgeDays int
}

func DefaultConfig() Config {
	return Config{
		RejectThreshold:  0.95,
		ReviewThreshold:  0.85,
		MinTextLength:    50,
		CorpusWindow:     10,
		CorpusMaxAgeDays: 180,
	}
}

type MatchedCopy struct {
	ID         int64      `json:"id"`
	Output     string     `json:"output"`
	Similarity float64    `json:"similarity"`
	CreatedAt  *time.Time `json:"created_at"`
}

type Result struct {
	Validated             bool          `json:"validated"`
	IsOriginal            bool          `json:"is_original"`
	SimilarityScore       float64       `json:"similarity_score"`
	MatchedCopies         []MatchedCopy `json:"matched_copies"`
	Recommendation        string        `json:"recommendation"`
	Reason                string        `json:"reason"`
	BrandSafetyViolations []string      `json:"brand_safety_violations"`
}

// Engine compara texto candidato contra o corpus de saídas já aprovadas
// do tenant. Escritas no corpus são serializadas por tenant: duas validações
// concorrentes não conseguem aprovar quase-duplicatas sobre snapshot velho.
type Engine struct {
	db  *gorm.DB
	cfg Config
	log *zap.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewEngine(db *gorm.DB, cfg Config, log *zap.Logger) *Engine {
	if cfg.RejectThreshold <= 0 {
		cfg = DefaultConfig()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		db:    db,
		cfg:   cfg,
		log:   log,
		locks: map[string]*sync.Mutex{},
	}
}

func (e *Engine) tenantLock(tenantID string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.locks[tenantID]
	if !ok {
		l = &sync.Mutex{}
		e.locks[tenantID] = l
	}
	return l
}

// Validate roda o contrato completo: normaliza, compara contra as N entradas
// mais recentes do corpus, checa denylist de brand safety e, quando o
// resultado é approve, já anexa o texto ao corpus.
func (e *Engine) Validate(tenantID string, clientID *int64, text string, denylist []string) (Result, error) {
	lock := e.tenantLock(tenantID)
	lock.Lock()
	defer lock.Unlock()

	normalized := textnorm.Normalize(text)
	violations := brandViolations(normalized, denylist)

	if len([]rune(normalized)) < e.cfg.MinTextLength {
		// Texto curto gera sinal de similaridade ruim: devolve "não validado",
		// sem false-flag. Brand safety continua valendo.
		res := Result{
			Validated:             false,
			IsOriginal:            true,
			Recommendation:        RECOMMENDATION_APPROVE,
			Reason:                "texto curto demais para validação de originalidade",
			BrandSafetyViolations: violations,
		}
		if len(violations) > 0 {
			res.Recommendation = RECOMMENDATION_REVIEW
			res.Reason = "termos da denylist de brand safety encontrados"
		}
		return res, nil
	}

	entries, err := e.recentCorpus(tenantID)
	if err != nil {
		return Result{}, err
	}

	candidate := trigramSet(normalized)
	var matches []MatchedCopy
	best := 0.0
	var bestID int64
	for _, entry := range entries {
		norm := entry.Normalized
		if norm == "" {
			norm = textnorm.Normalize(entry.Output)
		}
		sim := jaccardSets(candidate, trigramSet(norm))
		if sim > best {
			best = sim
			bestID = entry.ID
		}
		if sim >= e.cfg.ReviewThreshold {
			matches = append(matches, MatchedCopy{
				ID:         entry.ID,
				Output:     entry.Output,
				Similarity: sim,
				CreatedAt:  entry.CreatedAt,
			})
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Similarity > matches[j].Similarity })
	if len(matches) > 5 {
		matches = matches[:5]
	}

	res := Result{
		Validated:             true,
		IsOriginal:            best < e.cfg.ReviewThreshold,
		SimilarityScore:       best,
		MatchedCopies:         matches,
		BrandSafetyViolations: violations,
	}

	switch {
	case best >= e.cfg.RejectThreshold:
		res.Recommendation = RECOMMENDATION_REJECT
		res.Reason = "texto praticamente idêntico a uma saída anterior"
	case best >= e.cfg.ReviewThreshold:
		res.Recommendation = RECOMMENDATION_REVIEW
		res.Reason = "alta similaridade com saída anterior, revisar antes de usar"
	default:
		res.Recommendation = RECOMMENDATION_APPROVE
		res.Reason = "texto original"
	}

	// Violação de brand safety nunca é engolida: força no mínimo review.
	if len(violations) > 0 && res.Recommendation == RECOMMENDATION_APPROVE {
		res.Recommendation = RECOMMENDATION_REVIEW
		res.Reason = "termos da denylist de brand safety encontrados"
	}

	if best >= e.cfg.ReviewThreshold && bestID > 0 {
		audit := models.DuplicateMatch{
			TenantID:      tenantID,
			CandidateText: text,
			MatchedCopyID: bestID,
			Similarity:    best,
		}
		if err := e.db.Create(&audit).Error; err != nil {
			e.log.Warn("dedup: falha ao gravar auditoria", zap.Error(err))
		}
	}

	if res.Recommendation == RECOMMENDATION_APPROVE {
		if err := e.appendLocked(tenantID, clientID, text, normalized); err != nil {
			return Result{}, err
		}
	}

	return res, nil
}

// Approve registra aprovação manual depois de um review: o texto entra no
// corpus pra não ser re-flagado toda vez.
func (e *Engine) Approve(tenantID string, clientID *int64, text string) error {
	lock := e.tenantLock(tenantID)
	lock.Lock()
	defer lock.Unlock()

	return e.appendLocked(tenantID, clientID, text, textnorm.Normalize(text))
}

func (e *Engine) appendLocked(tenantID string, clientID *int64, text, normalized string) error {
	entry := models.CopyEntry{
		TenantID:   tenantID,
		ClientID:   clientID,
		Output:     text,
		Normalized: normalized,
	}
	return e.db.Create(&entry).Error
}

func (e *Engine) recentCorpus(tenantID string) ([]models.CopyEntry, error) {
	cutoff := time.Now().AddDate(0, 0, -e.cfg.CorpusMaxAgeDays)
	var entries []models.CopyEntry
	err := e.db.
		Where("tenant_id = ? AND created_at >= ?", tenantID, cutoff).
		Order("created_at desc, id desc").
		Limit(e.cfg.CorpusWindow).
		Find(&entries).Error
	return entries, err
}

func brandViolations(normText string, denylist []string) []string {
	m := textnorm.WordMatcher{}
	var out []string
	for _, term := range denylist {
		if m.Matches(normText, textnorm.Normalize(term)) {
			out = append(out, term)
		}
	}
	return out
}

package dedup

import (
	"testing"

	dbpkg "radar/db"
	"radar/models"

	"github.com/jinzhu/gorm"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("abrindo sqlite em memória: %v", err)
	}
	gdb.DB().SetMaxOpenConns(1)
	gdb.LogMode(false)
	dbpkg.Migrate(gdb)
	t.Cleanup(func() { gdb.Close() })
	return gdb
}

func newTestEngine(t *testing.T) (*Engine, *gorm.DB) {
	t.Helper()
	gdb := testDB(t)
	return NewEngine(gdb, DefaultConfig(), nil), gdb
}

const longText = "antaq publica novo edital para o terminal portuario de santos"

func TestValidateIdenticalTextRejects(t *testing.T) {
	e, _ := newTestEngine(t)

	if err := e.Approve("t1", nil, longText); err != nil {
		t.Fatalf("approve: %v", err)
	}

	res, err := e.Validate("t1", nil, longText, nil)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if res.SimilarityScore != 1.0 {
		t.Fatalf("texto idêntico deveria dar 1.0, veio %v", res.SimilarityScore)
	}
	if res.Recommendation != RECOMMENDATION_REJECT {
		t.Fatalf("esperava reject, veio %s", res.Recommendation)
	}
	if res.IsOriginal {
		t.Fatalf("cópia idêntica não é original")
	}
}

func TestValidateNearDuplicateGoesToReview(t *testing.T) {
	e, _ := newTestEngine(t)

	if err := e.Approve("t1", nil, longText); err != nil {
		t.Fatalf("approve: %v", err)
	}

	// Uma letra trocada num texto de ~60 chars normalizados: similaridade
	// fica na faixa de review (entre 0.85 e 0.95).
	candidate := "antaq publica novo edital para o terminal portuaria de santos"
	res, err := e.Validate("t1", nil, candidate, nil)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if res.Recommendation != RECOMMENDATION_REVIEW {
		t.Fatalf("esperava review (sim=%v), veio %s", res.SimilarityScore, res.Recommendation)
	}
	if len(res.MatchedCopies) != 1 {
		t.Fatalf("esperava 1 matched copy, veio %d", len(res.MatchedCopies))
	}
	if res.SimilarityScore < 0.85 || res.SimilarityScore >= 0.95 {
		t.Fatalf("similaridade fora da faixa de review: %v", res.SimilarityScore)
	}
	if len(res.BrandSafetyViolations) != 0 {
		t.Fatalf("texto limpo não deveria ter violações: %v", res.BrandSafetyViolations)
	}
}

func TestValidateApproveAppendsToCorpus(t *testing.T) {
	e, gdb := newTestEngine(t)

	res, err := e.Validate("t1", nil, longText, nil)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if res.Recommendation != RECOMMENDATION_APPROVE || !res.IsOriginal {
		t.Fatalf("corpus vazio deveria aprovar: %+v", res)
	}

	var count int64
	gdb.Model(&models.CopyEntry{}).Where("tenant_id = ?", "t1").Count(&count)
	if count != 1 {
		t.Fatalf("approve deveria anexar ao corpus, count=%d", count)
	}

	// Segunda validação do mesmo texto agora encontra a cópia.
	res2, err := e.Validate("t1", nil, longText, nil)
	if err != nil {
		t.Fatalf("validate 2: %v", err)
	}
	if res2.Recommendation != RECOMMENDATION_REJECT {
		t.Fatalf("repetição deveria ser rejeitada, veio %s", res2.Recommendation)
	}
}

func TestValidateShortTextNotValidated(t *testing.T) {
	e, gdb := newTestEngine(t)

	res, err := e.Validate("t1", nil, "texto bem curto", nil)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if res.Validated {
		t.Fatalf("texto curto não deveria ser validado")
	}

	var count int64
	gdb.Model(&models.CopyEntry{}).Count(&count)
	if count != 0 {
		t.Fatalf("texto não validado não entra no corpus")
	}
}

func TestBrandSafetyForcesReview(t *testing.T) {
	e, _ := newTestEngine(t)

	text := "conteudo original e longo o suficiente falando da marca concorrente em detalhe"
	res, err := e.Validate("t1", nil, text, []string{"concorrente"})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if res.Recommendation != RECOMMENDATION_REVIEW {
		t.Fatalf("denylist deveria forçar review, veio %s", res.Recommendation)
	}
	if len(res.BrandSafetyViolations) != 1 || res.BrandSafetyViolations[0] != "concorrente" {
		t.Fatalf("violação não reportada: %v", res.BrandSafetyViolations)
	}
}

func TestValidateIsolatedPerTenant(t *testing.T) {
	e, _ := newTestEngine(t)

	if err := e.Approve("t1", nil, longText); err != nil {
		t.Fatalf("approve: %v", err)
	}

	res, err := e.Validate("t2", nil, longText, nil)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if res.Recommendation != RECOMMENDATION_APPROVE {
		t.Fatalf("corpus é por tenant; t2 deveria aprovar, veio %s", res.Recommendation)
	}
}

func TestCorpusWindowIsBounded(t *testing.T) {
	gdb := testDB(t)
	cfg := DefaultConfig()
	cfg.CorpusWindow = 2
	e := NewEngine(gdb, cfg, nil)

	oldest := longText
	if err := e.Approve("t1", nil, oldest); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if err := e.Approve("t1", nil, "segunda saida aprovada com tema completamente diferente sobre energia solar"); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if err := e.Approve("t1", nil, "terceira saida aprovada tratando de agronegocio e safra de soja no interior"); err != nil {
		t.Fatalf("approve: %v", err)
	}

	// A entrada mais antiga saiu da janela (N=2), então repetir o texto dela
	// passa como original.
	res, err := e.Validate("t1", nil, oldest, nil)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if res.Recommendation != RECOMMENDATION_APPROVE {
		t.Fatalf("fora da janela deveria aprovar, veio %s (sim=%v)", res.Recommendation, res.SimilarityScore)
	}
}

func TestJaccardBasics(t *testing.T) {
	t.Parallel()

	if got := Jaccard("abcdef", "abcdef"); got != 1.0 {
		t.Fatalf("Jaccard reflexivo: %v", got)
	}
	if got := Jaccard("abcdef", "uvwxyz"); got != 0 {
		t.Fatalf("sem trigramas em comum: %v", got)
	}
	if got := Jaccard("", "abcdef"); got != 0 {
		t.Fatalf("vazio: %v", got)
	}
}

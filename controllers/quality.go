package controllers

import (
	"net/http"
	"time"

	dbpkg "radar/db"
	"radar/quality"

	"github.com/gin-gonic/gin"
)

// GET /clipping/quality?range=today|week|month
// Tudo sai de uma transação só: a foto do período não mistura feedback
// parcialmente commitado.
func GetClippingQuality(c *gin.Context) {
	tenant, ok := TenantID(c)
	if !ok {
		return
	}
	rng := c.DefaultQuery("range", "week")
	since := time.Now().AddDate(0, 0, -quality.WindowDays(rng))

	db := dbpkg.DBInstance(c)
	tx := db.Begin()
	if tx.Error != nil {
		RespondError(c, tx.Error.Error(), http.StatusInternalServerError)
		return
	}
	defer tx.Rollback()

	counts, err := quality.FeedbackCounts(tx, tenant, since)
	if err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	perClient, err := quality.PerClient(tx, tenant, since)
	if err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	perSource, err := quality.PerSource(tx, tenant, since)
	if err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	negatives, err := quality.SuggestedNegativeKeywords(tx, tenant, since, 10)
	if err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	RespondSuccess(c, gin.H{
		"range":                       rng,
		"counts":                      counts,
		"precision":                   quality.Precision(counts),
		"per_client":                  perClient,
		"per_source":                  perSource,
		"suggested_negative_keywords": negatives,
	})
}

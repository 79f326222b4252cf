package handlers

import (
	"net/http"

	"github.com/bait0ngxaxa/survey-sub000/server/internal/models"
	"github.com/bait0ngxaxa/survey-sub000/server/internal/triage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SurveyHandler struct {
	log      *zap.Logger
	Catalogs models.CatalogSet
}

func NewSurveyHandler(log *zap.Logger, catalogs models.CatalogSet) *SurveyHandler {
	return &SurveyHandler{log: log, Catalogs: catalogs}
}

type surveySummary struct {
	Variant   string `json:"variant"`
	Title     string `json:"title"`
	Groups    int    `json:"groups"`
	Questions int    `json:"questions"`
}

// List returns the loaded survey variants.
func (h *SurveyHandler) List(c *gin.Context) {
	summaries := make([]surveySummary, 0, len(h.Catalogs))
	for _, name := range h.Catalogs.Variants() {
		catalog := h.Catalogs[name]
		summaries = append(summaries, surveySummary{
			Variant:   catalog.Variant,
			Title:     catalog.Title,
			Groups:    len(catalog.Groups),
			Questions: len(catalog.QuestionIDs()),
		})
	}
	c.JSON(http.StatusOK, summaries)
}

// Show returns the full catalog of one variant for the form layer.
func (h *SurveyHandler) Show(c *gin.Context) {
	catalog, ok := h.Catalogs[c.Param("variant")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown survey variant"})
		return
	}
	c.JSON(http.StatusOK, catalog)
}

type previewRequest struct {
	Variant  string          `json:"variant" binding:"required"`
	Answers  models.Answers  `json:"answers"`
	FollowUp models.FollowUp `json:"followUp"`
}

// Preview scores a full answer set without storing anything.
func (h *SurveyHandler) Preview(c *gin.Context) {
	var req previewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	catalog, ok := h.Catalogs[req.Variant]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown survey variant"})
		return
	}
	if err := req.Answers.Validate(catalog); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report := triage.AssembleAll(catalog, req.Answers, req.FollowUp)
	c.JSON(http.StatusOK, gin.H{
		"variant": catalog.Variant,
		"missing": nonNil(triage.MissingQuestions(catalog, req.Answers)),
		"report":  report,
		"rows":    report.ByDimension(catalog),
	})
}

func nonNil(ids []int) []int {
	if ids == nil {
		return []int{}
	}
	return ids
}

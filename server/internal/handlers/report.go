package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/bait0ngxaxa/survey-sub000/server/internal/models"
	"github.com/bait0ngxaxa/survey-sub000/server/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var errUnknownVariant = errors.New("unknown survey variant")

var bandColors = map[models.Band]string{
	models.BandCritical: "#d9534f",
	models.BandWatch:    "#f0ad4e",
	models.BandStable:   "#5cb85c",
}

type ReportHandler struct {
	log      *zap.Logger
	Catalogs models.CatalogSet
}

func NewReportHandler(log *zap.Logger, catalogs models.CatalogSet) *ReportHandler {
	return &ReportHandler{log: log, Catalogs: catalogs}
}

// Show returns the stored report with rows grouped by dimension.
func (h *ReportHandler) Show(c *gin.Context) {
	sub, catalog, ok := h.load(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":         sub.ID,
		"variant":    sub.Variant,
		"isComplete": sub.IsComplete,
		"report":     sub.Report,
		"rows":       sub.Report.ByDimension(catalog),
	})
}

// Chart returns echarts options plotting each group's average, colored by band.
func (h *ReportHandler) Chart(c *gin.Context) {
	sub, catalog, ok := h.load(c)
	if !ok {
		return
	}

	bar := generateAverageChart(sub.Report, catalog)
	options, err := json.Marshal(bar.JSON())
	if err != nil {
		h.log.Error("Failed to encode chart options", zap.Error(err), zap.String("submission", sub.ID.String()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build chart"})
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", options)
}

func (h *ReportHandler) load(c *gin.Context) (*models.Submission, *models.Catalog, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission id"})
		return nil, nil, false
	}

	sub, err := repository.GetSubmission(c.Request.Context(), id)
	if errors.Is(err, repository.ErrSubmissionNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		return nil, nil, false
	}
	if err != nil {
		h.log.Error("Failed to load submission", zap.Error(err), zap.String("submission", id.String()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load report"})
		return nil, nil, false
	}

	catalog, ok := h.Catalogs[sub.Variant]
	if !ok {
		h.log.Error("Submission refers to an unloaded survey variant", zap.Error(errUnknownVariant), zap.String("variant", sub.Variant))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Survey variant no longer available"})
		return nil, nil, false
	}
	return sub, catalog, true
}

func generateAverageChart(report models.Report, catalog *models.Catalog) *charts.Bar {
	labels := make([]string, 0, len(catalog.Groups))
	items := make([]opts.BarData, 0, len(catalog.Groups))

	for _, g := range catalog.Groups {
		res, ok := report.Get(g.ID)
		if !ok {
			continue
		}
		labels = append(labels, fmt.Sprintf("%s (%s)", g.Label, g.QuestionsLabel))
		items = append(items, opts.BarData{
			Name:      res.Band.String(),
			Value:     res.AverageScore,
			ItemStyle: &opts.ItemStyle{Color: bandColors[res.Band]},
		})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Group Averages",
			Subtitle: catalog.Title,
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Type: "category",
			Data: labels,
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type: "value",
			Min:  0,
			Max:  models.MaxScore,
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.AddSeries("Average score", items)
	return bar
}

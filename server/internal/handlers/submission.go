package handlers

import (
	"errors"
	"net/http"

	"github.com/bait0ngxaxa/survey-sub000/server/internal/models"
	"github.com/bait0ngxaxa/survey-sub000/server/internal/repository"
	"github.com/bait0ngxaxa/survey-sub000/server/internal/services"
	"github.com/bait0ngxaxa/survey-sub000/server/internal/triage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// errIncomplete aborts a completion attempt that still has unanswered questions.
var errIncomplete = errors.New("submission has unanswered questions")

type SubmissionHandler struct {
	log            *zap.Logger
	Catalogs       models.CatalogSet
	DefaultVariant string
	notifier       services.Notifier
}

func NewSubmissionHandler(log *zap.Logger, catalogs models.CatalogSet, defaultVariant string, notifier services.Notifier) *SubmissionHandler {
	return &SubmissionHandler{
		log:            log,
		Catalogs:       catalogs,
		DefaultVariant: defaultVariant,
		notifier:       notifier,
	}
}

type createRequest struct {
	Variant string `json:"variant"`
}

// Create starts a new draft submission.
func (h *SubmissionHandler) Create(c *gin.Context) {
	var req createRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
	}
	if req.Variant == "" {
		req.Variant = h.DefaultVariant
	}
	if _, ok := h.Catalogs[req.Variant]; !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown survey variant"})
		return
	}

	sub, err := repository.CreateSubmission(c.Request.Context(), req.Variant)
	if err != nil {
		h.log.Error("Failed to create submission", zap.Error(err), zap.String("variant", req.Variant))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create submission"})
		return
	}
	c.JSON(http.StatusCreated, sub)
}

type stepRequest struct {
	GroupIDs []int            `json:"groupIds"`
	Answers  models.Answers   `json:"answers"`
	FollowUp *models.FollowUp `json:"followUp"`
}

// SaveStep merges one step of answers into a draft and re-scores only the
// groups that step touched.
func (h *SubmissionHandler) SaveStep(c *gin.Context) {
	id, ok := h.submissionID(c)
	if !ok {
		return
	}

	var req stepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	var validationErr error
	sub, err := repository.UpdateDraft(c.Request.Context(), id, func(sub *models.Submission) error {
		catalog, ok := h.Catalogs[sub.Variant]
		if !ok {
			return errUnknownVariant
		}
		if err := req.Answers.Validate(catalog); err != nil {
			validationErr = err
			return err
		}

		sub.Answers = sub.Answers.Merge(req.Answers)
		if req.FollowUp != nil {
			sub.FollowUp = *req.FollowUp
		}
		groups := stepGroups(catalog, req.GroupIDs, req.Answers, sub.Answers, req.FollowUp != nil)
		sub.Report = triage.Assemble(sub.Report, groups, catalog, sub.Answers, sub.FollowUp)
		return nil
	})
	if validationErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
		return
	}
	if err != nil {
		h.writeRepoError(c, err, id)
		return
	}

	c.JSON(http.StatusOK, sub)
}

// Complete runs the completeness gate, assembles the final report and closes the submission.
func (h *SubmissionHandler) Complete(c *gin.Context) {
	id, ok := h.submissionID(c)
	if !ok {
		return
	}

	var missing []int
	sub, err := repository.UpdateDraft(c.Request.Context(), id, func(sub *models.Submission) error {
		catalog, ok := h.Catalogs[sub.Variant]
		if !ok {
			return errUnknownVariant
		}
		if missing = triage.MissingQuestions(catalog, sub.Answers); len(missing) > 0 {
			return errIncomplete
		}
		sub.Report = triage.AssembleAll(catalog, sub.Answers, sub.FollowUp)
		sub.IsComplete = true
		return nil
	})
	if errors.Is(err, errIncomplete) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Submission is incomplete", "missing": missing})
		return
	}
	if err != nil {
		h.writeRepoError(c, err, id)
		return
	}

	h.log.Info("Submission completed",
		zap.String("submission", sub.ID.String()),
		zap.String("variant", sub.Variant),
		zap.Int("critical", len(sub.Report.Critical())),
	)
	h.notifier.NotifyCritical(sub.ID, sub.Report.Results())

	c.JSON(http.StatusOK, sub)
}

func (h *SubmissionHandler) submissionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission id"})
		return uuid.Nil, false
	}
	return id, true
}

func (h *SubmissionHandler) writeRepoError(c *gin.Context, err error, id uuid.UUID) {
	switch {
	case errors.Is(err, repository.ErrSubmissionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
	case errors.Is(err, repository.ErrSubmissionComplete):
		c.JSON(http.StatusConflict, gin.H{"error": "Submission already completed"})
	case errors.Is(err, errUnknownVariant):
		h.log.Error("Submission refers to an unloaded survey variant", zap.String("submission", id.String()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Survey variant no longer available"})
	default:
		h.log.Error("Failed to update submission", zap.Error(err), zap.String("submission", id.String()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not save submission"})
	}
}

// stepGroups returns the groups a step must re-score: the requested ones, every
// group holding a question answered in this step and, when the follow-up flags
// changed, the already-started groups whose critical path reads them.
func stepGroups(catalog *models.Catalog, requested []int, step, all models.Answers, followUpChanged bool) []int {
	seen := make(map[int]bool)
	var ids []int
	add := func(id int) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	for _, id := range requested {
		add(id)
	}
	for _, g := range catalog.Groups {
		if anyAnswered(g, step) || (followUpChanged && g.FollowUp != models.FollowUpNone && anyAnswered(g, all)) {
			add(g.ID)
		}
	}
	return ids
}

func anyAnswered(g models.Group, answers models.Answers) bool {
	for _, q := range g.QuestionIDs {
		if _, ok := answers[q]; ok {
			return true
		}
	}
	return false
}

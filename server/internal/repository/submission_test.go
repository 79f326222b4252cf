package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bait0ngxaxa/survey-sub000/server/internal/database"
	"github.com/bait0ngxaxa/survey-sub000/server/internal/database/dbtest"
	"github.com/bait0ngxaxa/survey-sub000/server/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndGetSubmission(t *testing.T) {
	dbtest.Init(t)
	ctx := context.Background()

	sub, err := CreateSubmission(ctx, "standard")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, sub.ID)

	loaded, err := GetSubmission(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, "standard", loaded.Variant)
	assert.False(t, loaded.IsComplete)
	assert.Empty(t, loaded.Answers)

	_, err = GetSubmission(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrSubmissionNotFound)
}

func TestUpdateDraftPersistsReport(t *testing.T) {
	dbtest.Init(t)
	ctx := context.Background()

	sub, err := CreateSubmission(ctx, "standard")
	require.NoError(t, err)

	tired := true
	report := models.Report{
		models.ReportKey(2): {
			GroupID:        2,
			Band:           models.BandCritical,
			AverageScore:   1,
			Actions:        []models.Action{models.ReferToCareManagerOrPhysician},
			Action:         "refer_care_manager_or_physician",
			RelatedUnit:    "Rehabilitation",
			AdditionalInfo: &models.AdditionalInfo{Tired: &tired},
		},
	}

	_, err = UpdateDraft(ctx, sub.ID, func(s *models.Submission) error {
		s.Answers = s.Answers.Merge(models.Answers{4: 1, 5: 1})
		s.FollowUp = models.FollowUp{Tired: true}
		s.Report = report
		return nil
	})
	require.NoError(t, err)

	loaded, err := GetSubmission(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Answers{4: 1, 5: 1}, loaded.Answers)
	assert.True(t, loaded.FollowUp.Tired)
	assert.Equal(t, report, loaded.Report)
}

func TestUpdateDraftRollsBackOnError(t *testing.T) {
	dbtest.Init(t)
	ctx := context.Background()

	sub, err := CreateSubmission(ctx, "standard")
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = UpdateDraft(ctx, sub.ID, func(s *models.Submission) error {
		s.Answers = models.Answers{1: 6}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	loaded, err := GetSubmission(ctx, sub.ID)
	require.NoError(t, err)
	assert.Empty(t, loaded.Answers)
}

func TestUpdateDraftRejectsCompleted(t *testing.T) {
	dbtest.Init(t)
	ctx := context.Background()

	sub, err := CreateSubmission(ctx, "standard")
	require.NoError(t, err)

	_, err = UpdateDraft(ctx, sub.ID, func(s *models.Submission) error {
		s.IsComplete = true
		return nil
	})
	require.NoError(t, err)

	_, err = UpdateDraft(ctx, sub.ID, func(s *models.Submission) error { return nil })
	assert.ErrorIs(t, err, ErrSubmissionComplete)

	_, err = UpdateDraft(ctx, uuid.New(), func(s *models.Submission) error { return nil })
	assert.ErrorIs(t, err, ErrSubmissionNotFound)
}

func TestListSubmissions(t *testing.T) {
	dbtest.Init(t)
	ctx := context.Background()

	done, err := CreateSubmission(ctx, "standard")
	require.NoError(t, err)
	_, err = UpdateDraft(ctx, done.ID, func(s *models.Submission) error {
		s.IsComplete = true
		return nil
	})
	require.NoError(t, err)
	_, err = CreateSubmission(ctx, "standard")
	require.NoError(t, err)
	_, err = CreateSubmission(ctx, "short")
	require.NoError(t, err)

	all, err := ListSubmissions(ctx, "standard", false, 10)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	complete, err := ListSubmissions(ctx, "standard", true, 10)
	require.NoError(t, err)
	require.Len(t, complete, 1)
	assert.Equal(t, done.ID, complete[0].ID)
}

func TestDeleteStaleDrafts(t *testing.T) {
	dbtest.Init(t)
	ctx := context.Background()

	stale, err := CreateSubmission(ctx, "standard")
	require.NoError(t, err)
	fresh, err := CreateSubmission(ctx, "standard")
	require.NoError(t, err)
	old, err := CreateSubmission(ctx, "standard")
	require.NoError(t, err)

	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, database.DB.Model(&models.Submission{}).Where("id = ?", stale.ID).UpdateColumn("updated_at", past).Error)
	require.NoError(t, database.DB.Model(&models.Submission{}).Where("id = ?", old.ID).UpdateColumns(map[string]interface{}{"updated_at": past, "is_complete": true}).Error)

	deleted, err := DeleteStaleDrafts(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = GetSubmission(ctx, stale.ID)
	assert.ErrorIs(t, err, ErrSubmissionNotFound)
	_, err = GetSubmission(ctx, fresh.ID)
	assert.NoError(t, err)
	_, err = GetSubmission(ctx, old.ID)
	assert.NoError(t, err)

	drafts, err := CountDrafts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), drafts)
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/bait0ngxaxa/survey-sub000/server/internal/database"
	"github.com/bait0ngxaxa/survey-sub000/server/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrSubmissionComplete = errors.New("submission already completed")
)

// CreateSubmission starts an empty draft for a survey variant.
func CreateSubmission(ctx context.Context, variant string) (*models.Submission, error) {
	sub := &models.Submission{
		ID:       uuid.New(),
		Variant:  variant,
		Answers:  models.Answers{},
		Report:   models.Report{},
		FollowUp: models.FollowUp{},
	}
	if err := database.DB.WithContext(ctx).Create(sub).Error; err != nil {
		return nil, fmt.Errorf("failed to create submission: %w", err)
	}
	return sub, nil
}

// GetSubmission loads a submission by id.
func GetSubmission(ctx context.Context, id uuid.UUID) (*models.Submission, error) {
	var sub models.Submission
	err := database.DB.WithContext(ctx).First(&sub, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSubmissionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load submission %s: %w", id, err)
	}
	return &sub, nil
}

// UpdateDraft loads a draft, applies fn and saves the result in one transaction.
// Completed submissions are rejected with ErrSubmissionComplete. If fn returns
// an error nothing is written.
func UpdateDraft(ctx context.Context, id uuid.UUID, fn func(sub *models.Submission) error) (*models.Submission, error) {
	var sub models.Submission
	err := database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&sub, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSubmissionNotFound
			}
			return err
		}
		if sub.IsComplete {
			return ErrSubmissionComplete
		}
		if err := fn(&sub); err != nil {
			return err
		}
		return tx.Save(&sub).Error
	})
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// ListSubmissions returns the most recently updated submissions of a variant.
func ListSubmissions(ctx context.Context, variant string, completeOnly bool, limit int) ([]models.Submission, error) {
	var subs []models.Submission
	query := database.DB.WithContext(ctx).Where("variant = ?", variant)
	if completeOnly {
		query = query.Where("is_complete = ?", true)
	}
	err := query.Order("updated_at DESC").Limit(limit).Find(&subs).Error
	return subs, err
}

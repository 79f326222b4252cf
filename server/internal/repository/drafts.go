package repository

import (
	"context"
	"time"

	"github.com/bait0ngxaxa/survey-sub000/server/internal/database"
	"github.com/bait0ngxaxa/survey-sub000/server/internal/models"
)

// DeleteStaleDrafts removes incomplete submissions not touched since cutoff.
func DeleteStaleDrafts(ctx context.Context, cutoff time.Time) (int64, error) {
	result := database.DB.WithContext(ctx).
		Where("is_complete = ? AND updated_at < ?", false, cutoff).
		Delete(&models.Submission{})
	return result.RowsAffected, result.Error
}

// CountDrafts returns the number of incomplete submissions.
func CountDrafts(ctx context.Context) (int64, error) {
	var count int64
	err := database.DB.WithContext(ctx).Model(&models.Submission{}).
		Where("is_complete = ?", false).
		Count(&count).Error
	return count, err
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// Submission is one patient's pass through a survey variant. Answers and the
// assembled report are stored side by side.
type Submission struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Variant    string    `gorm:"index" json:"variant"`
	Answers    Answers   `gorm:"serializer:json" json:"answers"`
	FollowUp   FollowUp  `gorm:"serializer:json" json:"followUp"`
	Report     Report    `gorm:"serializer:json" json:"report"`
	IsComplete bool      `gorm:"index" json:"isComplete"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

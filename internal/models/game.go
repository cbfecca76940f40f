package models

import (
	"time"

	"gorm.io/datatypes"
)

type Game struct {
	ID             int64                          `json:"id" gorm:"primaryKey;autoIncrement"`
	Title          string                         `json:"title" gorm:"uniqueIndex;size:255;not null"`
	Description    *string                        `json:"description,omitempty"`
	Genres         datatypes.JSONSlice[string]    `json:"genres" gorm:"type:jsonb"`
	Platforms      datatypes.JSONSlice[string]    `json:"platforms" gorm:"type:jsonb"`
	Developer      *string                        `json:"developer,omitempty" gorm:"size:255;index"`
	Publisher      *string                        `json:"publisher,omitempty" gorm:"size:255"`
	ReleaseYear    int                            `json:"release_year" gorm:"not null;check:release_year >= 1900 AND release_year <= 2030"`
	CoverImagePath *string                        `json:"cover_image_path,omitempty" gorm:"size:512"`
	AverageRating  float64                        `json:"average_rating" gorm:"not null;default:0;check:average_rating >= 0 AND average_rating <= 10"`
	CreatedAt      time.Time                      `json:"created_at" gorm:"autoCreateTime"`

	// association
	Reviews []Review `json:"reviews,omitempty" gorm:"foreignKey:GameID;constraint:OnDelete:CASCADE;"`
}

func (Game) TableName() string {
	return "games"
}

package models

import "time"

type Review struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	GameID    int64     `json:"game_id" gorm:"not null;index;uniqueIndex:idx_reviews_game_origin"`
	IPAddress string    `json:"ip_address" gorm:"size:45;not null;uniqueIndex:idx_reviews_game_origin"`
	Rating    int       `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Text      *string   `json:"text,omitempty"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	Game Game `json:"-" gorm:"foreignKey:GameID;constraint:OnDelete:CASCADE;"`
}

func (Review) TableName() string {
	return "reviews"
}

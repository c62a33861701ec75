package models

import "time"

// Team is a followed team and the schedule page its fixtures come from
type Team struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	URL       string    `gorm:"type:text;not null;uniqueIndex" json:"url"`
	Name      string    `gorm:"type:text;not null" json:"name"`
	Enabled   bool      `gorm:"not null;default:true;index" json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Team) TableName() string {
	return "teams"
}

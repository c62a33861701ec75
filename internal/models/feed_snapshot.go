package models

import "time"

// FeedSnapshot holds the fixtures of the last published feed, JSON encoded
type FeedSnapshot struct {
	Key       string    `gorm:"primaryKey;type:text"`
	Payload   []byte    `gorm:"type:bytea;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (FeedSnapshot) TableName() string {
	return "feed_snapshots"
}

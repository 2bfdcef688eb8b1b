package state

import (
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type Entity struct {
	ID uint `gorm:"primaryKey"`
}

// Match is one played game from start to announcement.
type Match struct {
	Entity

	StartedAt time.Time
	EndedAt   time.Time

	Rounds       int64
	CrimsonScore int64
	AzureScore   int64

	// crimson, azure, or tie
	Winner string `gorm:"size:16"`

	Completions []*Completion
}

// Completion is a single challenge scored during a match.
type Completion struct {
	Entity

	MatchID uint `gorm:"not null"`

	Round       int64
	ChallengeID string `gorm:"size:64"`
	Title       string `gorm:"size:128"`
	Team        string `gorm:"size:16"`
	Points      int64

	CompletedAt time.Time
}

func InitDB(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	db.AutoMigrate(&Match{})
	db.AutoMigrate(&Completion{})

	return db, nil
}

package state

import (
	"context"
	"time"

	"github.com/lootrush/lootrush/pkg/game"
	"github.com/lootrush/lootrush/pkg/utils"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Recorder turns the orchestrator's event feed into match history rows. One
// Match row spans start to game over; completions attach as they happen.
type Recorder struct {
	db      *gorm.DB
	current *Match
}

func NewRecorder(db *gorm.DB) *Recorder {
	return &Recorder{db: db}
}

// Poll consumes events until the context is cancelled.
func (r *Recorder) Poll(ctx context.Context, events *utils.Topic[game.Event]) {
	subscriber := events.Subscribe()
	defer subscriber.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case event := <-subscriber.Recv():
			r.handle(event)
		}
	}
}

func (r *Recorder) handle(event game.Event) {
	switch event.Type {
	case game.EventRoundStarted:
		if event.Round == 1 && r.current == nil {
			r.begin(event)
		}
	case game.EventChallengeCompleted:
		r.recordCompletion(event)
	case game.EventGameOver:
		r.finish(event)
	case game.EventReset:
		r.abandon()
	}
}

func (r *Recorder) begin(event game.Event) {
	match := &Match{
		StartedAt: time.Now(),
		Rounds:    event.TotalRounds,
	}
	if err := r.db.Create(match).Error; err != nil {
		log.Error().Err(err).Msg("failed to create match record")
		return
	}
	r.current = match
}

func (r *Recorder) recordCompletion(event game.Event) {
	if r.current == nil || event.Challenge == nil {
		return
	}

	completion := &Completion{
		MatchID:     r.current.ID,
		Round:       event.Round,
		ChallengeID: event.Challenge.ID,
		Title:       event.Challenge.Title,
		Team:        string(event.Team),
		Points:      int64(event.Challenge.Points),
		CompletedAt: time.Now(),
	}
	if err := r.db.Create(completion).Error; err != nil {
		log.Error().Err(err).Msg("failed to record completion")
	}
}

func (r *Recorder) finish(event game.Event) {
	if r.current == nil {
		return
	}

	r.current.EndedAt = time.Now()
	r.current.CrimsonScore = event.CrimsonScore
	r.current.AzureScore = event.AzureScore
	r.current.Winner = event.Winner
	if err := r.db.Save(r.current).Error; err != nil {
		log.Error().Err(err).Msg("failed to finalize match record")
	}
	r.current = nil
}

// A reset mid-game leaves the row with no winner.
func (r *Recorder) abandon() {
	if r.current == nil {
		return
	}

	r.current.EndedAt = time.Now()
	if err := r.db.Save(r.current).Error; err != nil {
		log.Error().Err(err).Msg("failed to close abandoned match record")
	}
	r.current = nil
}

// RecentMatches returns the latest matches, newest first, with their
// completions attached.
func RecentMatches(db *gorm.DB, limit int) ([]Match, error) {
	var matches []Match
	err := db.
		Preload("Completions").
		Order("id desc").
		Limit(limit).
		Find(&matches).Error
	return matches, err
}

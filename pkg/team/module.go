package team

import (
	"fmt"
	"math/rand"

	"github.com/lootrush/lootrush/pkg/props"

	"github.com/rs/zerolog/log"
)

type ID string

const (
	Crimson ID = "crimson"
	Azure   ID = "azure"
)

// Teams returns both teams in the fixed order every scan uses.
func Teams() []ID {
	return []ID{Crimson, Azure}
}

func Parse(name string) (ID, error) {
	switch ID(name) {
	case Crimson:
		return Crimson, nil
	case Azure:
		return Azure, nil
	}
	return "", fmt.Errorf("unknown team %q", name)
}

func scoreKey(id ID) string {
	if id == Crimson {
		return props.KeyCrimsonScore
	}
	return props.KeyAzureScore
}

func rosterKey(id ID) string {
	if id == Crimson {
		return props.KeyCrimsonPlayers
	}
	return props.KeyAzurePlayers
}

// Registry owns team membership and scores. Membership lookups go through a
// reverse cache rebuilt from the two persisted rosters on every load.
type Registry struct {
	store *props.Store
	rng   *rand.Rand

	rosters    map[ID][]string
	memberTeam map[string]ID

	onEntered []func(participant string)
	onLeft    []func(participant string)
}

func NewRegistry(store *props.Store, rng *rand.Rand) *Registry {
	return &Registry{
		store:      store,
		rng:        rng,
		rosters:    map[ID][]string{Crimson: {}, Azure: {}},
		memberTeam: make(map[string]ID),
	}
}

// Load rebuilds rosters and the reverse-lookup cache from persisted state.
func (r *Registry) Load() {
	r.memberTeam = make(map[string]ID)
	for _, id := range Teams() {
		roster := props.GetJSON(r.store, rosterKey(id), []string{})
		r.rosters[id] = roster
		for _, participant := range roster {
			r.memberTeam[participant] = id
		}
	}
}

// Form shuffles the participants and splits them at the midpoint. Existing
// assignments are discarded.
func (r *Registry) Form(participants []string) {
	shuffled := make([]string, len(participants))
	copy(shuffled, participants)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := r.rng.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	midpoint := len(shuffled) / 2
	r.Clear()
	for i, participant := range shuffled {
		if i < midpoint {
			r.Assign(participant, Crimson)
		} else {
			r.Assign(participant, Azure)
		}
	}

	log.Info().
		Int("crimson", len(r.rosters[Crimson])).
		Int("azure", len(r.rosters[Azure])).
		Msg("formed teams")
}

// Assign moves a participant onto a team, removing any prior assignment.
func (r *Registry) Assign(participant string, id ID) {
	if prior, ok := r.memberTeam[participant]; ok && prior != id {
		r.rosters[prior] = remove(r.rosters[prior], participant)
	}

	r.memberTeam[participant] = id
	if !contains(r.rosters[id], participant) {
		r.rosters[id] = append(r.rosters[id], participant)
	}
	r.persist()
}

func (r *Registry) Clear() {
	r.rosters = map[ID][]string{Crimson: {}, Azure: {}}
	r.memberTeam = make(map[string]ID)
	r.persist()
}

func (r *Registry) TeamOf(participant string) (ID, bool) {
	id, ok := r.memberTeam[participant]
	return id, ok
}

func (r *Registry) Roster(id ID) []string {
	roster := make([]string, len(r.rosters[id]))
	copy(roster, r.rosters[id])
	return roster
}

func (r *Registry) Score(id ID) int64 {
	return r.store.GetNumber(scoreKey(id), 0)
}

func (r *Registry) SetScore(id ID, points int64) {
	if points < 0 {
		points = 0
	}
	r.store.SetNumber(scoreKey(id), points)
}

func (r *Registry) AddPoints(id ID, points int64) int64 {
	next := r.Score(id) + points
	r.SetScore(id, next)
	log.Debug().
		Str("team", string(id)).
		Int64("points", points).
		Int64("total", next).
		Msg("awarded points")
	return next
}

// OnEntered registers a callback for participants (re)entering the active
// session; OnLeft for participants leaving. Cosmetic collaborators use these
// to re-apply or release per-participant state.
func (r *Registry) OnEntered(fn func(participant string)) {
	r.onEntered = append(r.onEntered, fn)
}

func (r *Registry) OnLeft(fn func(participant string)) {
	r.onLeft = append(r.onLeft, fn)
}

func (r *Registry) Entered(participant string) {
	for _, fn := range r.onEntered {
		fn(participant)
	}
}

func (r *Registry) Left(participant string) {
	for _, fn := range r.onLeft {
		fn(participant)
	}
}

func (r *Registry) persist() {
	props.SetJSON(r.store, props.KeyCrimsonPlayers, r.rosters[Crimson])
	props.SetJSON(r.store, props.KeyAzurePlayers, r.rosters[Azure])
}

func contains(roster []string, participant string) bool {
	for _, member := range roster {
		if member == participant {
			return true
		}
	}
	return false
}

func remove(roster []string, participant string) []string {
	cleaned := make([]string, 0, len(roster))
	for _, member := range roster {
		if member == participant {
			continue
		}
		cleaned = append(cleaned, member)
	}
	return cleaned
}

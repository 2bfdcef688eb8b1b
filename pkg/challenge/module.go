package challenge

import (
	"math/rand"

	"github.com/lootrush/lootrush/pkg/props"
	"github.com/lootrush/lootrush/pkg/team"

	"github.com/repeale/fp-go/option"
	"github.com/rs/zerolog/log"
)

type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

type State string

const (
	// Available challenges are open for completion by either team.
	Available State = "available"
	// Locked is the transient claim taken before completing; it exists so
	// two near-simultaneous completion attempts cannot both observe an
	// available record.
	Locked State = "locked"
	// Completed is terminal.
	Completed State = "completed"
)

// Definition is one entry of the static catalog. Definitions are never
// mutated after process start.
type Definition struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	// Kind is the required item kind, or the name of a variant group when
	// AnyVariant is set.
	Kind       string     `json:"kind"`
	AnyVariant bool       `json:"anyVariant,omitempty"`
	Count      int        `json:"count"`
	Points     int64      `json:"points"`
	Difficulty Difficulty `json:"difficulty"`
}

// Record is a Definition selected for the current round. Records only move
// forward: available, then locked, then completed.
type Record struct {
	Definition
	State       State   `json:"state"`
	CompletedBy team.ID `json:"completedBy,omitempty"`
}

// MaxSlots caps how many challenges one round can carry regardless of the
// configured per-tier counts.
const MaxSlots = 10

// Catalog holds the static pool plus the mutable per-round challenge state,
// persisted through the property store.
type Catalog struct {
	store *props.Store
	rng   *rand.Rand

	pool      []Definition
	active    []Record
	completed []Record
}

func NewCatalog(store *props.Store, rng *rand.Rand, pool []Definition) *Catalog {
	return &Catalog{
		store: store,
		rng:   rng,
		pool:  pool,
	}
}

// Load rehydrates the active and completed lists from persisted state.
func (c *Catalog) Load() {
	c.active = props.GetJSON(c.store, props.KeyActiveChallenges, []Record{})
	c.completed = props.GetJSON(c.store, props.KeyCompletedChallenges, []Record{})
}

// Active returns the current round's records in selection order.
func (c *Catalog) Active() []Record {
	records := make([]Record, len(c.active))
	copy(records, c.active)
	return records
}

// Available filters Active down to records still open for completion.
func (c *Catalog) Available() []Record {
	available := make([]Record, 0, len(c.active))
	for _, record := range c.active {
		if record.State == Available {
			available = append(available, record)
		}
	}
	return available
}

func (c *Catalog) Completed() []Record {
	records := make([]Record, len(c.completed))
	copy(records, c.completed)
	return records
}

// Lock claims a challenge without completing it. Locking a record that is
// not available is a no-op.
func (c *Catalog) Lock(id string) {
	for i, record := range c.active {
		if record.ID != id || record.State != Available {
			continue
		}
		c.active[i].State = Locked
		c.persistActive()
		return
	}
}

// Complete transitions an available challenge to completed, crediting the
// team. The record is locked and persisted before the completed state is
// written, so a second caller racing on the same id always observes a
// non-available record and gets None. At most one team ever completes a
// given challenge.
func (c *Catalog) Complete(id string, winner team.ID) opt.Option[Record] {
	index := -1
	for i, record := range c.active {
		if record.ID == id {
			index = i
			break
		}
	}
	if index < 0 || c.active[index].State != Available {
		return opt.None[Record]()
	}

	c.active[index].State = Locked
	c.persistActive()

	c.active[index].State = Completed
	c.active[index].CompletedBy = winner
	record := c.active[index]
	c.completed = append(c.completed, record)
	c.persistActive()
	c.persistCompleted()

	log.Info().
		Str("challenge", id).
		Str("team", string(winner)).
		Int64("points", record.Points).
		Msg("challenge completed")

	return opt.Some(record)
}

// Reset clears the per-round state. The static pool is untouched.
func (c *Catalog) Reset() {
	c.active = []Record{}
	c.completed = []Record{}
	c.persistActive()
	c.persistCompleted()
}

func (c *Catalog) persistActive() {
	props.SetJSON(c.store, props.KeyActiveChallenges, c.active)
}

func (c *Catalog) persistCompleted() {
	props.SetJSON(c.store, props.KeyCompletedChallenges, c.completed)
}

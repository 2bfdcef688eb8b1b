package team

import (
	"math/rand"
	"testing"

	"github.com/lootrush/lootrush/pkg/props"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistry() *Registry {
	return NewRegistry(props.NewStore(props.NewMemory()), rand.New(rand.NewSource(1)))
}

func TestFormSplitsAtMidpoint(t *testing.T) {
	r := newRegistry()
	r.Form([]string{"ada", "grace", "edsger", "barbara"})

	assert.Len(t, r.Roster(Crimson), 2)
	assert.Len(t, r.Roster(Azure), 2)

	for _, participant := range []string{"ada", "grace", "edsger", "barbara"} {
		_, ok := r.TeamOf(participant)
		assert.True(t, ok, participant)
	}
}

func TestFormOddCountFavorsAzure(t *testing.T) {
	r := newRegistry()
	r.Form([]string{"ada", "grace", "edsger"})

	assert.Len(t, r.Roster(Crimson), 1)
	assert.Len(t, r.Roster(Azure), 2)
}

func TestAssignMovesBetweenTeams(t *testing.T) {
	r := newRegistry()
	r.Assign("ada", Crimson)
	r.Assign("ada", Azure)

	id, ok := r.TeamOf("ada")
	require.True(t, ok)
	assert.Equal(t, Azure, id)
	assert.Empty(t, r.Roster(Crimson))
	assert.Equal(t, []string{"ada"}, r.Roster(Azure))
}

func TestAssignIsIdempotent(t *testing.T) {
	r := newRegistry()
	r.Assign("ada", Crimson)
	r.Assign("ada", Crimson)

	assert.Equal(t, []string{"ada"}, r.Roster(Crimson))
}

func TestLoadRebuildsReverseLookup(t *testing.T) {
	store := props.NewStore(props.NewMemory())
	first := NewRegistry(store, rand.New(rand.NewSource(1)))
	first.Assign("ada", Crimson)
	first.Assign("grace", Azure)

	second := NewRegistry(store, rand.New(rand.NewSource(1)))
	second.Load()

	id, ok := second.TeamOf("ada")
	require.True(t, ok)
	assert.Equal(t, Crimson, id)
	id, ok = second.TeamOf("grace")
	require.True(t, ok)
	assert.Equal(t, Azure, id)
}

func TestScores(t *testing.T) {
	r := newRegistry()

	assert.Equal(t, int64(0), r.Score(Crimson))
	assert.Equal(t, int64(15), r.AddPoints(Crimson, 15))
	assert.Equal(t, int64(40), r.AddPoints(Crimson, 25))
	assert.Equal(t, int64(0), r.Score(Azure))

	r.SetScore(Crimson, -5)
	assert.Equal(t, int64(0), r.Score(Crimson))
}

func TestParse(t *testing.T) {
	id, err := Parse("crimson")
	require.NoError(t, err)
	assert.Equal(t, Crimson, id)

	_, err = Parse("chartreuse")
	assert.Error(t, err)
}

func TestObservers(t *testing.T) {
	r := newRegistry()

	entered := make([]string, 0)
	left := make([]string, 0)
	r.OnEntered(func(p string) { entered = append(entered, p) })
	r.OnLeft(func(p string) { left = append(left, p) })

	r.Entered("ada")
	r.Left("ada")

	assert.Equal(t, []string{"ada"}, entered)
	assert.Equal(t, []string{"ada"}, left)
}

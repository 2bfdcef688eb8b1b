package challenge

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func tierPool(tier Difficulty, n int) []Definition {
	defs := make([]Definition, 0, n)
	for i := 0; i < n; i++ {
		defs = append(defs, Definition{
			ID:         fmt.Sprintf("%s-%d", tier, i),
			Title:      fmt.Sprintf("%s %d", tier, i),
			Kind:       "stone",
			Count:      1,
			Points:     10,
			Difficulty: tier,
		})
	}
	return defs
}

func TestSelectRespectsCounts(t *testing.T) {
	pool := append(tierPool(Easy, 5), tierPool(Medium, 5)...)
	pool = append(pool, tierPool(Hard, 5)...)
	c := newCatalog(pool)

	records := c.Select(Counts{Easy: 3, Medium: 2, Hard: 1})
	assert.Len(t, records, 6)

	byTier := map[Difficulty]int{}
	for _, record := range records {
		byTier[record.Difficulty]++
		assert.Equal(t, Available, record.State)
	}
	assert.Equal(t, 3, byTier[Easy])
	assert.Equal(t, 2, byTier[Medium])
	assert.Equal(t, 1, byTier[Hard])
}

func TestSelectClampsToPoolSize(t *testing.T) {
	c := newCatalog(tierPool(Easy, 2))

	records := c.Select(Counts{Easy: 10, Medium: 3, Hard: 3})
	assert.Len(t, records, 2)
}

func TestSelectNeverExceedsMaxSlots(t *testing.T) {
	pool := append(tierPool(Easy, 8), tierPool(Medium, 8)...)
	pool = append(pool, tierPool(Hard, 8)...)
	c := newCatalog(pool)

	records := c.Select(Counts{Easy: 8, Medium: 8, Hard: 8})
	assert.Len(t, records, MaxSlots)
}

func TestSelectDeduplicatesByID(t *testing.T) {
	// Same id listed under two tiers; first-seen wins.
	pool := []Definition{
		{ID: "dup", Kind: "stone", Count: 1, Points: 10, Difficulty: Easy},
		{ID: "dup", Kind: "stone", Count: 1, Points: 30, Difficulty: Hard},
		{ID: "other", Kind: "dirt", Count: 1, Points: 10, Difficulty: Easy},
	}
	c := newCatalog(pool)

	records := c.Select(Counts{Easy: 2, Hard: 1})
	assert.Len(t, records, 2)

	seen := map[string]Record{}
	for _, record := range records {
		_, duplicate := seen[record.ID]
		assert.False(t, duplicate, record.ID)
		seen[record.ID] = record
	}
	assert.Equal(t, Easy, seen["dup"].Difficulty)
}

func TestSelectNegativeCounts(t *testing.T) {
	c := newCatalog(tierPool(Easy, 3))

	records := c.Select(Counts{Easy: -1})
	assert.Empty(t, records)
}

func TestSelectClearsCompleted(t *testing.T) {
	c := newCatalog(DefaultPool())
	c.Select(Counts{Easy: 2})
	c.Complete(c.Active()[0].ID, "crimson")

	c.Select(Counts{Easy: 2})
	assert.Empty(t, c.Completed())
}

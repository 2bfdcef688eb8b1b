package challenge

// Counts is how many challenges each difficulty tier contributes to a round.
type Counts struct {
	Easy   int
	Medium int
	Hard   int
}

func (c Counts) forTier(tier Difficulty) int {
	switch tier {
	case Easy:
		return c.Easy
	case Medium:
		return c.Medium
	case Hard:
		return c.Hard
	}
	return 0
}

// Select draws a fresh round's challenges from the pool: a per-tier shuffle
// and take, concatenated easy through hard, de-duplicated by id with the
// first occurrence winning, capped at MaxSlots. The result replaces the
// active set and the completed list is cleared, both persisted.
func (c *Catalog) Select(counts Counts) []Record {
	picked := make([]Definition, 0, MaxSlots)
	for _, tier := range []Difficulty{Easy, Medium, Hard} {
		picked = append(picked, c.drawTier(tier, counts.forTier(tier))...)
	}

	seen := make(map[string]struct{}, len(picked))
	records := make([]Record, 0, len(picked))
	for _, def := range picked {
		if _, duplicate := seen[def.ID]; duplicate {
			continue
		}
		if len(records) == MaxSlots {
			break
		}
		seen[def.ID] = struct{}{}
		records = append(records, Record{
			Definition: def,
			State:      Available,
		})
	}

	c.active = records
	c.completed = []Record{}
	c.persistActive()
	c.persistCompleted()

	return c.Active()
}

func (c *Catalog) drawTier(tier Difficulty, count int) []Definition {
	pool := make([]Definition, 0)
	for _, def := range c.pool {
		if def.Difficulty == tier {
			pool = append(pool, def)
		}
	}

	for i := len(pool) - 1; i > 0; i-- {
		j := c.rng.Intn(i + 1)
		pool[i], pool[j] = pool[j], pool[i]
	}

	if count > len(pool) {
		count = len(pool)
	}
	if count < 0 {
		count = 0
	}
	return pool[:count]
}

package challenge

// DefaultPool is the built-in catalog. IDs follow kind-count so operator
// tooling can read them at a glance.
func DefaultPool() []Definition {
	return []Definition{
		// Easy: common surface resources.
		{ID: "planks-10", Title: "Lumber Yard", Kind: "planks", AnyVariant: true, Count: 10, Points: 10, Difficulty: Easy},
		{ID: "cobblestone-32", Title: "Quarry Work", Kind: "cobblestone", Count: 32, Points: 10, Difficulty: Easy},
		{ID: "dirt-48", Title: "Groundskeeper", Kind: "dirt", Count: 48, Points: 10, Difficulty: Easy},
		{ID: "sand-24", Title: "Beachcomber", Kind: "sand", Count: 24, Points: 10, Difficulty: Easy},
		{ID: "log-16", Title: "Timber!", Kind: "log", AnyVariant: true, Count: 16, Points: 15, Difficulty: Easy},
		{ID: "wheat-12", Title: "Harvest Time", Kind: "wheat", Count: 12, Points: 15, Difficulty: Easy},

		// Medium: requires tools, farming, or hunting.
		{ID: "iron-ingot-8", Title: "Smeltery", Kind: "iron_ingot", Count: 8, Points: 20, Difficulty: Medium},
		{ID: "wool-16", Title: "Shear Madness", Kind: "wool", AnyVariant: true, Count: 16, Points: 20, Difficulty: Medium},
		{ID: "fish-6", Title: "Gone Fishing", Kind: "fish", AnyVariant: true, Count: 6, Points: 25, Difficulty: Medium},
		{ID: "glass-20", Title: "Clearly Superior", Kind: "glass", Count: 20, Points: 20, Difficulty: Medium},
		{ID: "leather-10", Title: "Tannery", Kind: "leather", Count: 10, Points: 25, Difficulty: Medium},
		{ID: "redstone-16", Title: "Power Grid", Kind: "redstone", Count: 16, Points: 25, Difficulty: Medium},

		// Hard: deep mining or dangerous trips.
		{ID: "gold-ingot-8", Title: "Gold Rush", Kind: "gold_ingot", Count: 8, Points: 30, Difficulty: Hard},
		{ID: "diamond-3", Title: "Shine Bright", Kind: "diamond", Count: 3, Points: 40, Difficulty: Hard},
		{ID: "obsidian-6", Title: "Hard as Rock", Kind: "obsidian", Count: 6, Points: 35, Difficulty: Hard},
		{ID: "ender-pearl-4", Title: "Pearl Diver", Kind: "ender_pearl", Count: 4, Points: 40, Difficulty: Hard},
		{ID: "blaze-rod-2", Title: "Playing with Fire", Kind: "blaze_rod", Count: 2, Points: 45, Difficulty: Hard},
	}
}

package challenge

import (
	"github.com/lootrush/lootrush/pkg/world"

	"github.com/rs/zerolog/log"
)

// Variants are the allow-lists behind AnyVariant definitions: any member of
// the group satisfies the requirement.
var Variants = map[string][]string{
	"planks": {
		"oak_planks", "spruce_planks", "birch_planks",
		"jungle_planks", "acacia_planks", "dark_oak_planks",
	},
	"log": {
		"oak_log", "spruce_log", "birch_log",
		"jungle_log", "acacia_log", "dark_oak_log",
	},
	"wool": {
		"white_wool", "black_wool", "red_wool", "blue_wool",
		"yellow_wool", "green_wool", "orange_wool", "purple_wool",
	},
	"fish": {
		"cod", "salmon", "tropical_fish", "pufferfish",
	},
}

// Matches reports whether an item kind satisfies the definition's
// requirement, either exactly or via the variant group allow-list.
func Matches(def Definition, kind string) bool {
	if !def.AnyVariant {
		return kind == def.Kind
	}
	for _, variant := range Variants[def.Kind] {
		if variant == kind {
			return true
		}
	}
	return false
}

// ValidateDeposit reports whether the container holds at least the required
// quantity of matching items. The scan short-circuits as soon as the running
// total reaches the requirement; slots may be empty or out of order.
func ValidateDeposit(container world.Container, def Definition) bool {
	total := 0
	for slot := 0; slot < container.Size(); slot++ {
		stack, ok := container.At(slot)
		if !ok || !Matches(def, stack.Kind) {
			continue
		}
		total += stack.Count
		if total >= def.Count {
			return true
		}
	}
	return false
}

// RemoveItems consumes exactly def.Count matching units in ascending slot
// order: whole stacks first, a partial decrement on the stack that would
// overshoot. The container is externally mutable, so a shortfall since
// validation is possible; in that case whatever matched is removed and the
// mismatch is logged rather than treated as a failure.
func RemoveItems(container world.Container, def Definition) {
	remaining := def.Count
	for slot := 0; slot < container.Size() && remaining > 0; slot++ {
		stack, ok := container.At(slot)
		if !ok || !Matches(def, stack.Kind) {
			continue
		}

		if stack.Count <= remaining {
			container.Clear(slot)
			remaining -= stack.Count
			continue
		}

		container.Set(slot, world.ItemStack{
			Kind:  stack.Kind,
			Count: stack.Count - remaining,
		})
		remaining = 0
	}

	if remaining > 0 {
		log.Warn().
			Str("challenge", def.ID).
			Int("shortfall", remaining).
			Msg("container changed between validation and consumption")
	}
}

package world

import (
	"github.com/repeale/fp-go/option"
	"github.com/sasha-s/go-deadlock"
)

type Location struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// ItemStack is one slot's worth of a single item kind. A zero Count stack is
// treated as an empty slot.
type ItemStack struct {
	Kind  string `json:"kind"`
	Count int    `json:"count"`
}

// Container is a fixed-size, externally mutable inventory. Reads are
// snapshots: participants can deposit or withdraw between any two calls, so
// callers must tolerate contents shifting under them.
type Container interface {
	Size() int
	At(slot int) (ItemStack, bool)
	Set(slot int, stack ItemStack)
	Clear(slot int)
}

// World is the boundary to whatever owns physical containers. The core only
// ever asks for a container at a location and mutates its slots.
type World interface {
	PlaceChest(loc Location)
	ContainerAt(loc Location) opt.Option[Container]
}

const chestSize = 27

type chest struct {
	mutex deadlock.Mutex
	slots [chestSize]ItemStack
}

func (c *chest) Size() int {
	return chestSize
}

func (c *chest) At(slot int) (ItemStack, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if slot < 0 || slot >= chestSize {
		return ItemStack{}, false
	}
	stack := c.slots[slot]
	if stack.Count <= 0 {
		return ItemStack{}, false
	}
	return stack, true
}

func (c *chest) Set(slot int, stack ItemStack) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if slot < 0 || slot >= chestSize {
		return
	}
	c.slots[slot] = stack
}

func (c *chest) Clear(slot int) {
	c.Set(slot, ItemStack{})
}

// Memory is the in-process World used by the server and tests.
type Memory struct {
	mutex  deadlock.Mutex
	chests map[Location]*chest
}

func NewMemory() *Memory {
	return &Memory{
		chests: make(map[Location]*chest),
	}
}

func (m *Memory) PlaceChest(loc Location) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, ok := m.chests[loc]; ok {
		return
	}
	m.chests[loc] = &chest{}
}

func (m *Memory) ContainerAt(loc Location) opt.Option[Container] {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if c, ok := m.chests[loc]; ok {
		return opt.Some[Container](c)
	}
	return opt.None[Container]()
}

// Deposit adds count units of kind to the first slots with room, stacking
// onto existing stacks of the same kind first. Returns the number of units
// that did not fit.
func Deposit(c Container, kind string, count int) int {
	const maxStack = 64

	for slot := 0; slot < c.Size() && count > 0; slot++ {
		stack, ok := c.At(slot)
		if !ok || stack.Kind != kind || stack.Count >= maxStack {
			continue
		}
		room := maxStack - stack.Count
		if room > count {
			room = count
		}
		c.Set(slot, ItemStack{Kind: kind, Count: stack.Count + room})
		count -= room
	}

	for slot := 0; slot < c.Size() && count > 0; slot++ {
		if _, ok := c.At(slot); ok {
			continue
		}
		placed := count
		if placed > maxStack {
			placed = maxStack
		}
		c.Set(slot, ItemStack{Kind: kind, Count: placed})
		count -= placed
	}

	return count
}

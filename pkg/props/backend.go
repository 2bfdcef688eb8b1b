package props

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/sasha-s/go-deadlock"
)

// Value is one durable slot: bool, int64, or string. A nil Value means the
// slot is absent.
type Value interface{}

// Backend is the durable string-keyed store behind the cache. Load returns
// (nil, nil) for absent keys.
type Backend interface {
	Load(ctx context.Context, key string) (Value, error)
	Store(ctx context.Context, key string, value Value) error
	Keys(ctx context.Context) ([]string, error)
}

// Values travel through backends as typed strings so every backend can share
// one wire format.
func encodeValue(value Value) (string, error) {
	switch v := value.(type) {
	case bool:
		return "b:" + strconv.FormatBool(v), nil
	case int64:
		return "n:" + strconv.FormatInt(v, 10), nil
	case string:
		return "s:" + v, nil
	}
	return "", fmt.Errorf("unsupported property type %T", value)
}

func decodeValue(encoded string) (Value, error) {
	if len(encoded) < 2 || encoded[1] != ':' {
		return nil, fmt.Errorf("malformed property encoding %q", encoded)
	}

	body := encoded[2:]
	switch encoded[0] {
	case 'b':
		parsed, err := strconv.ParseBool(body)
		if err != nil {
			return nil, err
		}
		return parsed, nil
	case 'n':
		parsed, err := strconv.ParseInt(body, 10, 64)
		if err != nil {
			return nil, err
		}
		return parsed, nil
	case 's':
		return body, nil
	}
	return nil, fmt.Errorf("unknown property tag %q", encoded[0])
}

// Memory is a Backend for tests and standalone play.
type Memory struct {
	mutex deadlock.Mutex
	slots map[string]string
}

func NewMemory() *Memory {
	return &Memory{
		slots: make(map[string]string),
	}
}

func (m *Memory) Load(ctx context.Context, key string) (Value, error) {
	m.mutex.Lock()
	encoded, ok := m.slots[key]
	m.mutex.Unlock()
	if !ok {
		return nil, nil
	}
	return decodeValue(encoded)
}

func (m *Memory) Store(ctx context.Context, key string, value Value) error {
	encoded, err := encodeValue(value)
	if err != nil {
		return err
	}

	m.mutex.Lock()
	m.slots[key] = encoded
	m.mutex.Unlock()
	return nil
}

func (m *Memory) Keys(ctx context.Context) ([]string, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	keys := make([]string, 0, len(m.slots))
	for key := range m.slots {
		if strings.HasPrefix(key, KeyPrefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

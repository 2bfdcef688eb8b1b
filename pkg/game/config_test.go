package game

import (
	"context"
	"testing"

	"github.com/lootrush/lootrush/pkg/props"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConfigStore(t *testing.T) *props.Store {
	t.Helper()
	store := props.NewStore(props.NewMemory())
	store.LoadAll(context.Background())
	return store
}

func TestConfigDefaults(t *testing.T) {
	m := NewConfigManager(newConfigStore(t))
	m.Load()

	assert.Equal(t, DefaultConfig(), m.Config())
}

func TestConfigSetPersists(t *testing.T) {
	store := newConfigStore(t)
	m := NewConfigManager(store)
	m.Load()

	require.NoError(t, m.Set("totalRounds", 6))
	require.NoError(t, m.Set("easyChallengeCount", 5))

	fresh := NewConfigManager(store)
	fresh.Load()
	assert.Equal(t, int64(6), fresh.Config().TotalRounds)
	assert.Equal(t, 5, fresh.Config().EasyChallengeCount)
}

func TestConfigRejectsInvalid(t *testing.T) {
	m := NewConfigManager(newConfigStore(t))
	m.Load()

	assert.Error(t, m.Set("totalRounds", 0))
	assert.Error(t, m.Set("roundDurationTicks", -100))
	assert.Error(t, m.Set("easyChallengeCount", -1))
	assert.Error(t, m.Set("noSuchKey", 3))

	assert.Equal(t, DefaultConfig(), m.Config(), "rejected writes leave config untouched")
}

func TestConfigLoadFallsBackOnGarbage(t *testing.T) {
	store := newConfigStore(t)
	store.SetString(props.KeyConfig, "{not json")

	m := NewConfigManager(store)
	m.Load()
	assert.Equal(t, DefaultConfig(), m.Config())
}

func TestConfigLoadRejectsInvalidPersisted(t *testing.T) {
	store := newConfigStore(t)
	store.SetString(props.KeyConfig, `{"totalRounds":0,"roundDurationTicks":18000,"monitorIntervalTicks":10}`)

	m := NewConfigManager(store)
	m.Load()
	assert.Equal(t, DefaultConfig(), m.Config())
}

func TestConfigReset(t *testing.T) {
	m := NewConfigManager(newConfigStore(t))
	m.Load()

	require.NoError(t, m.Set("hardChallengeCount", 4))
	m.Reset()
	assert.Equal(t, DefaultConfig(), m.Config())
}

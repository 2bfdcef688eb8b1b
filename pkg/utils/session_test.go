package utils

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSession(t *testing.T) {
	session := NewSession(context.Background())
	assert.False(t, session.IsDone())
	assert.WithinDuration(t, time.Now(), session.Started(), time.Second)

	session.Cancel()
	assert.True(t, session.IsDone())
	assert.ErrorIs(t, session.Ctx().Err(), context.Canceled)
}

func TestSessionParentCancel(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	session := NewSession(parent)

	cancel()
	assert.True(t, session.IsDone())
}

package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSessionRemaining(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Hour, Session{ExpiresAt: now.Add(time.Hour)}.Remaining(now))
	assert.Equal(t, time.Duration(0), Session{ExpiresAt: now.Add(-time.Second)}.Remaining(now))
	assert.Equal(t, time.Duration(0), Session{}.Remaining(now))
}

package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntry_Touch_MovesDirtyAndLastUpdatedTogether(t *testing.T) {
	e := Entry{Dirty: false}
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	e.Touch(now)

	assert.True(t, e.Dirty)
	assert.Equal(t, now, e.LastUpdated)
}

func TestEntry_Tombstone(t *testing.T) {
	e := Entry{Dirty: false}
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	e.Tombstone(now)

	assert.True(t, e.Tombstoned)
	assert.True(t, e.Dirty)
	require.NotNil(t, e.DeletedAt)
	assert.Equal(t, now, *e.DeletedAt)
	assert.Equal(t, now, e.LastUpdated)
}

func TestMood_Score(t *testing.T) {
	assert.Equal(t, 1, MoodAwful.Score())
	assert.Equal(t, 5, MoodRad.Score())
	assert.Equal(t, "meh", MoodMeh.String())
	assert.Equal(t, "unknown", Mood(9).String())
}

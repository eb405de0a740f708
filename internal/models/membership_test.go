package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatestAndFindExtension(t *testing.T) {
	first := Extension{ID: uuid.New(), NewEndDate: time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)}
	second := Extension{ID: uuid.New(), NewEndDate: time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)}
	m := Membership{Extensions: []Extension{first, second}}

	require.NotNil(t, m.LatestExtension())
	assert.Equal(t, second.ID, m.LatestExtension().ID)

	got, ok := m.FindExtension(first.ID)
	require.True(t, ok)
	assert.Equal(t, first.NewEndDate, got.NewEndDate)

	_, ok = m.FindExtension(uuid.New())
	assert.False(t, ok)

	assert.Nil(t, (&Membership{}).LatestExtension())
}

func TestCloneDetachesExtensions(t *testing.T) {
	m := Membership{Extensions: []Extension{{ID: uuid.New()}}}
	c := m.Clone()
	c.Extensions = append(c.Extensions, Extension{ID: uuid.New()})
	c.Extensions[0].DurationMonths = 9

	assert.Len(t, m.Extensions, 1)
	assert.Zero(t, m.Extensions[0].DurationMonths)
}

func TestValidDuration(t *testing.T) {
	assert.False(t, ValidDuration(0))
	assert.True(t, ValidDuration(1))
	assert.True(t, ValidDuration(12))
	assert.False(t, ValidDuration(13))
}

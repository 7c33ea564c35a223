package mysql

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNullable(t *testing.T) {
	var nilInt *int64
	v := int64(4)
	name := "ops"

	assert.Nil(t, nullable(nilInt))
	assert.Equal(t, int64(4), nullable(&v))
	assert.Equal(t, "ops", nullable(&name))
}

func TestUTC(t *testing.T) {
	assert.Nil(t, utc(nil))

	ts := time.Date(2025, 8, 1, 11, 0, 0, 0, time.FixedZone("CEST", 2*3600))
	got := utc(&ts).(time.Time)
	assert.Equal(t, time.UTC, got.Location())
	assert.Equal(t, 9, got.Hour())
}

func TestSeconds(t *testing.T) {
	assert.Nil(t, seconds(nil))

	d := 90*time.Minute + 500*time.Millisecond
	assert.Equal(t, int64(5400), seconds(&d))
}

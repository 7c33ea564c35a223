package instant

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_NaiveIsUTC(t *testing.T) {
	got, err := Parse("2024-01-01T10:00:00")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01T10:00:00Z", RFC3339UTC(got))
}

func TestParse_KeepsOffset(t *testing.T) {
	got, err := Parse("2024-01-01T10:00:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01T08:00:00Z", RFC3339UTC(got))

	_, offset := got.Zone()
	assert.Equal(t, 2*3600, offset, "offset from the input should survive parsing")
}

func TestParse_RFC3339RoundTrip(t *testing.T) {
	inputs := []string{
		"2024-03-10T23:15:00Z",
		"2024-03-10T23:15:00-05:00",
		"2025-08-01T09:00:00.123456Z",
		"2023-12-31T23:59:59+13:00",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			want, err := time.Parse(time.RFC3339Nano, in)
			require.NoError(t, err)

			got, err := Parse(in)
			require.NoError(t, err)

			out := RFC3339UTC(got)
			back, err := time.Parse(time.RFC3339Nano, out)
			require.NoError(t, err)
			assert.True(t, want.Equal(back), "round trip %s -> %s", in, out)
			assert.Equal(t, out, RFC3339UTC(back))
		})
	}
}

func TestParse_DateOnly(t *testing.T) {
	got, err := Parse("2024-05-06")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC), got.UTC())
}

func TestParse_Invalid(t *testing.T) {
	for _, in := range []string{"", "   ", "2024-13-45T99:99:99"} {
		_, err := Parse(in)
		require.Error(t, err, "input %q", in)

		var pe *ParseError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, in, pe.Text)
	}
}

func TestDisplay(t *testing.T) {
	ts := time.Date(2024, 1, 1, 22, 30, 0, 0, time.UTC)
	berlin := time.FixedZone("CET", 3600)

	assert.Equal(t, "2024-01-01 23:30", Display(ts, berlin))
	assert.Equal(t, "2024-01-01 22:30", Display(ts, time.UTC))
}

func TestLocalDisplay(t *testing.T) {
	orig := time.Local
	time.Local = time.FixedZone("TEST", -3*3600)
	t.Cleanup(func() { time.Local = orig })

	ts := time.Date(2024, 1, 1, 1, 5, 0, 0, time.UTC)
	assert.Equal(t, "2023-12-31 22:05", LocalDisplay(ts))
}

func TestRFC3339UTC(t *testing.T) {
	ts := time.Date(2024, 6, 1, 12, 0, 0, 0, time.FixedZone("X", 5*3600+1800))
	assert.Equal(t, "2024-06-01T06:30:00Z", RFC3339UTC(ts))
}

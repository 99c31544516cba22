package units

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allUnits = []Unit{Meters, Kilometers, Miles, Feet, Yards}

func TestRoundTrip(t *testing.T) {
	values := []float64{0, 0.001, 1, 322, 1609.34, 5000, 123456.789}
	for _, u := range allUnits {
		for _, x := range values {
			converted, err := FromMeters(x, u)
			require.NoError(t, err)
			back, err := ToMeters(converted, u)
			require.NoError(t, err)

			if x == 0 {
				assert.Equal(t, 0.0, back)
				continue
			}
			if rel := math.Abs(back-x) / x; rel > 1e-6 {
				t.Errorf("%s: round trip of %v gave %v", u, x, back)
			}
		}
	}
}

func TestKnownConstants(t *testing.T) {
	cases := []struct {
		unit  Unit
		value float64
		want  float64
	}{
		{Kilometers, 1, 1000},
		{Miles, 1, 1609.34},
		{Feet, 1, 0.3048},
		{Yards, 1, 0.9144},
		{Meters, 42, 42},
	}
	for _, tc := range cases {
		got, err := ToMeters(tc.value, tc.unit)
		require.NoError(t, err)
		assert.InDelta(t, tc.want, got, 1e-9, tc.unit)
	}
}

func TestUnknownUnitIsAnError(t *testing.T) {
	_, err := ToMeters(10, Unit("furlongs"))
	assert.True(t, errors.Is(err, ErrUnknownUnit))

	_, err = FromMeters(10, Unit("furlongs"))
	assert.True(t, errors.Is(err, ErrUnknownUnit))

	_, err = ParseUnit("parsecs")
	assert.True(t, errors.Is(err, ErrUnknownUnit))
}

func TestParseUnit(t *testing.T) {
	cases := map[string]Unit{
		"":           Meters,
		"m":          Meters,
		"KM":         Kilometers,
		" miles ":    Miles,
		"ft":         Feet,
		"yd":         Yards,
		"kilometers": Kilometers,
	}
	for in, want := range cases {
		got, err := ParseUnit(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	assert.Equal(t, "mi", Miles.Symbol())
	assert.False(t, Unit("nope").Valid())
}

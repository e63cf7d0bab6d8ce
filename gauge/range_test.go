package gauge

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampStaysInRange(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		min := rnd.Float64()*400 - 200
		max := min + 1 + rnd.Float64()*400
		v := rnd.Float64()*2000 - 1000
		got := Clamp(v, min, max)
		assert.GreaterOrEqual(t, got, min)
		assert.LessOrEqual(t, got, max)
	}
	assert.Equal(t, 0.0, Clamp(math.NaN(), 0, 180))
	assert.Equal(t, 180.0, Clamp(math.Inf(1), 0, 180))
	assert.Equal(t, 0.0, Clamp(math.Inf(-1), 0, 180))
}

func TestAngle(t *testing.T) {
	tests := []struct {
		name  string
		r     Range
		value float64
		want  float64
	}{
		{"min", Range{0, 180}, 0, -135},
		{"max", Range{0, 180}, 180, 135},
		{"midpoint", Range{0, 180}, 90, 0},
		{"host default", Range{0, 180}, 130, 60},
		{"offset range midpoint", Range{-40, 60}, 10, 0},
		{"below min clamps", Range{0, 180}, -50, -135},
		{"above max clamps", Range{0, 180}, 500, 135},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.r.Angle(tt.value), 1e-9)
		})
	}
}

func TestAngleMonotonic(t *testing.T) {
	r := Range{Min: 0, Max: 180}
	prev := r.Angle(0)
	for v := 1.0; v <= 180; v++ {
		a := r.Angle(v)
		assert.Greater(t, a, prev)
		assert.InDelta(t, 1.5, a-prev, 1e-9)
		prev = a
	}
}

func TestRangeValidate(t *testing.T) {
	require.NoError(t, Range{0, 180}.Validate())
	assert.Error(t, Range{180, 0}.Validate())
	assert.Error(t, Range{5, 5}.Validate())
	assert.Error(t, Range{math.NaN(), 5}.Validate())

	tests := []struct {
		name string
		r    Range
		ok   bool
	}{
		{"infinite max", Range{0, math.Inf(1)}, false},
		{"infinite min", Range{math.Inf(-1), 0}, false},
		{"both infinite", Range{math.Inf(-1), math.Inf(1)}, false},
		{"huge span", Range{0, 1e12}, false},
		{"widest allowed", Range{0, MaxTicks * MajorInterval}, true},
		{"just over", Range{0, MaxTicks*MajorInterval + 1}, false},
	}
	for _, tt := range tests {
		err := tt.r.Validate()
		if tt.ok {
			assert.NoError(t, err, tt.name)
		} else {
			assert.Error(t, err, tt.name)
		}
	}
}

func TestTicksNeverExceedBudget(t *testing.T) {
	assert.Nil(t, Ticks(Range{0, math.Inf(1)}, 300, DefaultWarnAbove))
	assert.Nil(t, Ticks(Range{0, 1e12}, 300, DefaultWarnAbove))
	ticks := Ticks(Range{0, MaxTicks * MajorInterval}, 300, DefaultWarnAbove)
	assert.Len(t, ticks, MaxTicks+1)
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "120", FormatValue(120))
	assert.Equal(t, "-40", FormatValue(-40))
	assert.Equal(t, "17.5", FormatValue(17.5))
	assert.Equal(t, "0-180", Range{0, 180}.String())
}

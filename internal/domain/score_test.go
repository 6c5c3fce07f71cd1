package domain

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestClampScore_NonFinite(t *testing.T) {
	assert.Equal(t, 0.0, ClampScore(math.NaN()))
	assert.Equal(t, 1.0, ClampScore(math.Inf(1)))
	assert.Equal(t, 0.0, ClampScore(math.Inf(-1)))
}

func TestClampScore_Bounds(t *testing.T) {
	assert.Equal(t, 0.0, ClampScore(-0.3))
	assert.Equal(t, 1.0, ClampScore(1.7))
	assert.Equal(t, 0.42, ClampScore(0.42))
}

func TestClampScore_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("result is always inside [0,1]", prop.ForAll(
		func(v float64) bool {
			got := ClampScore(v)
			return got >= 0 && got <= 1 && !math.IsNaN(got)
		},
		gen.Float64(),
	))

	properties.Property("in-range values pass through unchanged", prop.ForAll(
		func(v float64) bool {
			return ClampScore(v) == v
		},
		gen.Float64Range(0, 1),
	))

	properties.TestingRun(t)
}

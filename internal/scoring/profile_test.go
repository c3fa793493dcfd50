package scoring

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mnp/taskmatch/internal/types"
)

func TestProfileValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		require.NoError(t, testProfile().Validate())
	})

	t.Run("weights must sum to one", func(t *testing.T) {
		p := testProfile()
		p.Weights = types.WeightVector{Skill: 0.5, Availability: 0.5, Workload: 0.5, Performance: 0.5}
		err := p.Validate()
		require.Error(t, err)

		var integrity *types.DataIntegrityError
		assert.True(t, errors.As(err, &integrity))
	})

	t.Run("unknown performance default out of range", func(t *testing.T) {
		p := testProfile()
		p.UnknownPerformanceDefault = 1.5
		assert.Error(t, p.Validate())
	})

	t.Run("curve breakpoints out of order", func(t *testing.T) {
		p := testProfile()
		p.Curve.PeakLow = 0.9
		p.Curve.PeakHigh = 0.8
		assert.Error(t, p.Validate())
	})
}

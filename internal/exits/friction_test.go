package exits

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sawpanic/ictcore/internal/domain"
)

func TestFrictionConfig_AdjustedEntryExit(t *testing.T) {
	f := FrictionConfig{CommissionPercent: 0.001, SlippagePercent: 0.001}

	assert.Greater(t, f.AdjustedEntry(domain.Long, 100), 100.0, "expected long entry to be adjusted up")
	assert.Less(t, f.AdjustedExit(domain.Long, 100), 100.0, "expected long exit to be adjusted down")
	assert.Less(t, f.AdjustedEntry(domain.Short, 100), 100.0, "expected short entry to be adjusted down")
	assert.Greater(t, f.AdjustedExit(domain.Short, 100), 100.0, "expected short exit to be adjusted up")
}

func TestFrictionConfig_ZeroFrictionIsNoOp(t *testing.T) {
	f := FrictionConfig{}
	assert.Equal(t, 100.0, f.AdjustedEntry(domain.Long, 100))
	assert.Equal(t, 100.0, f.AdjustedExit(domain.Long, 100))
}

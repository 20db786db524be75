package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeframeDuration(t *testing.T) {
	assert.Equal(t, 5*time.Minute, TimeframeM5.Duration())
	assert.Equal(t, 15*time.Minute, TimeframeM15.Duration())
	assert.Equal(t, time.Hour, TimeframeH1.Duration())
	assert.Equal(t, 5*time.Minute, Timeframe("bogus").Duration())
}

func TestSideString(t *testing.T) {
	assert.Equal(t, "none", SideNone.String())
	assert.Equal(t, "long", SideLong.String())
	assert.Equal(t, "short", SideShort.String())
}

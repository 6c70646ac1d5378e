package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatic(t *testing.T) {
	start := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	clk := NewStatic(start)

	assert.Equal(t, start, clk.Now())

	clk.Advance(5 * time.Minute)
	assert.Equal(t, start.Add(5*time.Minute), clk.Now())

	pinned := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	clk.Set(pinned)
	assert.Equal(t, pinned, clk.Now())
}

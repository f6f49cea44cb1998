package simulator

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardStateAndExit(t *testing.T) {
	sim := newTestSimulator(t)
	var out bytes.Buffer

	d := NewDashboard(sim, strings.NewReader("1\n0\n"), &out)
	require.NoError(t, d.Run())

	assert.Contains(t, out.String(), "Cafe Simulator")
	assert.Contains(t, out.String(), "avg_daily_profit")
	assert.Contains(t, out.String(), "bye")
}

func TestDashboardApplyPriceChange(t *testing.T) {
	sim := newTestSimulator(t)
	var out bytes.Buffer

	input := "2\n1\ncoffee\n10\n0\n"
	d := NewDashboard(sim, strings.NewReader(input), &out)
	require.NoError(t, d.Run())

	require.Len(t, sim.ChangeLog, 1)
	assert.Contains(t, out.String(), "prices for coffee changed by +10.0%")
	assert.Contains(t, out.String(), "expected profit impact:   +80.0%")
}

func TestDashboardExitsOnEOF(t *testing.T) {
	sim := newTestSimulator(t)
	var out bytes.Buffer

	d := NewDashboard(sim, strings.NewReader("1\n"), &out)
	assert.Error(t, d.Run())
}

func TestDashboardUnknownOption(t *testing.T) {
	sim := newTestSimulator(t)
	var out bytes.Buffer

	d := NewDashboard(sim, strings.NewReader("42\n0\n"), &out)
	require.NoError(t, d.Run())
	assert.Contains(t, out.String(), "unknown option")
}

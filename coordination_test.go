package sumogen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComputeOffsets(t *testing.T) {
	offsets, err := ComputeOffsets(60, []float64{20, 25})
	require.NoError(t, err)
	require.Equal(t, []int{0, 20, 45}, offsets)
}

func TestComputeOffsetsWrapAround(t *testing.T) {
	offsets, err := ComputeOffsets(60, []float64{50, 30})
	require.NoError(t, err)
	require.Equal(t, []int{0, 50, 20}, offsets)

	offsets, err = ComputeOffsets(60, []float64{120})
	require.NoError(t, err)
	require.Equal(t, []int{0, 0}, offsets)
}

func TestComputeOffsetsInputValidation(t *testing.T) {
	_, err := ComputeOffsets(0, []float64{20})
	require.Error(t, err)

	_, err = ComputeOffsets(60, nil)
	require.Error(t, err)

	_, err = ComputeOffsets(60, []float64{20, -5})
	require.Error(t, err)
}

func TestCoordinateTwoWay(t *testing.T) {
	forward := CoordinationDirection{TravelTimes: []float64{20, 25}, VolumeVph: 800}
	backward := CoordinationDirection{TravelTimes: []float64{10, 15}, VolumeVph: 400}

	offsets, err := CoordinateTwoWay(60, forward, backward)
	require.NoError(t, err)
	require.Equal(t, []int{0, 20, 45}, offsets)

	// Heavier backward direction wins; its offsets come back in forward
	// chain order
	backward.VolumeVph = 1200
	offsets, err = CoordinateTwoWay(60, forward, backward)
	require.NoError(t, err)
	require.Equal(t, []int{25, 10, 0}, offsets)

	// Ties go to the forward direction
	backward.VolumeVph = 800
	offsets, err = CoordinateTwoWay(60, forward, backward)
	require.NoError(t, err)
	require.Equal(t, []int{0, 20, 45}, offsets)

	backward.TravelTimes = []float64{10}
	_, err = CoordinateTwoWay(60, forward, backward)
	require.Error(t, err)
}

// installs a trivial two-phase program with given cycle on every chained node
func installUniformPrograms(t *testing.T, sm *SignalModel, chain []NodeID, cycle int) {
	t.Helper()
	for _, nodeID := range chain {
		n := len(sm.Connections(nodeID))
		require.Greater(t, n, 0)
		tl := TrafficLight{
			NodeID: nodeID,
			Phases: []Phase{
				{DurationSeconds: cycle / 2, State: strings.Repeat("G", n)},
				{DurationSeconds: cycle - cycle/2, State: strings.Repeat("r", n)},
			},
		}
		require.NoError(t, sm.SetProgram(tl))
	}
}

func TestCoordinateChain(t *testing.T) {
	cfg := DefaultCorridorConfig()
	net, err := CreateNetwork(cfg)
	require.NoError(t, err)
	sm, err := NewSignalModel(net)
	require.NoError(t, err)
	router, err := NewRouter(net)
	require.NoError(t, err)

	chain := cfg.SignalNodeIDs()
	installUniformPrograms(t, sm, chain, 60)

	// 300 m spacing at 60 km/h gives 18 s per segment
	offsets, err := sm.CoordinateChain(router, chain)
	require.NoError(t, err)
	require.Equal(t, []int{0, 18, 36, 54, 12}, offsets)

	for i, nodeID := range chain {
		tl, ok := sm.Program(nodeID)
		require.True(t, ok)
		require.Equal(t, offsets[i], tl.OffsetSeconds)
	}
}

func TestCoordinateChainRequiresPrograms(t *testing.T) {
	cfg := DefaultCorridorConfig()
	net, err := CreateNetwork(cfg)
	require.NoError(t, err)
	sm, err := NewSignalModel(net)
	require.NoError(t, err)
	router, err := NewRouter(net)
	require.NoError(t, err)

	chain := cfg.SignalNodeIDs()
	_, err = sm.CoordinateChain(router, chain)
	require.Error(t, err)

	_, err = sm.CoordinateChain(router, chain[:1])
	require.Error(t, err)
}

func TestCoordinateChainRequiresCommonCycle(t *testing.T) {
	cfg := DefaultCorridorConfig()
	net, err := CreateNetwork(cfg)
	require.NoError(t, err)
	sm, err := NewSignalModel(net)
	require.NoError(t, err)
	router, err := NewRouter(net)
	require.NoError(t, err)

	chain := cfg.SignalNodeIDs()
	installUniformPrograms(t, sm, chain[:1], 60)
	installUniformPrograms(t, sm, chain[1:], 80)

	_, err = sm.CoordinateChain(router, chain)
	require.Error(t, err)
}

package sumogen

import (
	"math"

	"github.com/samber/lo"
)

/* Green wave coordination stuff */

// ComputeOffsets derives progression offsets for a chain of intersections
// sharing one cycle length: the first signal starts at 0, every following
// one is shifted by the free-flow travel time from its predecessor, modulo
// the cycle. travelTimes[i] is the travel time between intersection i and
// i+1, so the result has len(travelTimes)+1 entries, each in [0, cycle).
func ComputeOffsets(cycleSeconds int, travelTimes []float64) ([]int, error) {
	if cycleSeconds <= 0 {
		return nil, newInvalidParameter("cycle", "must be positive, got %d", cycleSeconds)
	}
	if len(travelTimes) == 0 {
		return nil, newInvalidParameter("travel_times", "must contain at least one segment")
	}
	offsets := make([]int, len(travelTimes)+1)
	current := 0.0
	for i, travelTime := range travelTimes {
		if travelTime < 0 {
			return nil, newInvalidParameter("travel_times", "segment %d must be non-negative, got %f", i, travelTime)
		}
		current = math.Mod(current+travelTime, float64(cycleSeconds))
		offsets[i+1] = int(math.Round(current)) % cycleSeconds
	}
	return offsets, nil
}

// CoordinationDirection is one direction of a two-way corridor: segment
// travel times in chain order and the aggregate hourly volume moving that
// way.
type CoordinationDirection struct {
	TravelTimes []float64
	VolumeVph   float64
}

// CoordinateTwoWay picks progression offsets favoring the heavier-volume
// direction of a corridor. Offsets are always reported in forward chain
// order; when the backward direction wins, its offsets are reversed back
// into that order. Ties go to the forward direction.
func CoordinateTwoWay(cycleSeconds int, forward, backward CoordinationDirection) ([]int, error) {
	if len(forward.TravelTimes) != len(backward.TravelTimes) {
		return nil, newInvalidParameter("travel_times", "directions must cover the same chain, got %d and %d segments", len(forward.TravelTimes), len(backward.TravelTimes))
	}
	if forward.VolumeVph >= backward.VolumeVph {
		return ComputeOffsets(cycleSeconds, forward.TravelTimes)
	}
	offsets, err := ComputeOffsets(cycleSeconds, backward.TravelTimes)
	if err != nil {
		return nil, err
	}
	return lo.Reverse(offsets), nil
}

// CoordinateChain computes offsets for a chain of signalized nodes from the
// network's own free-flow travel times and installs them on the stored
// programs. Every program must exist and share one cycle length.
func (sm *SignalModel) CoordinateChain(router *Router, chain []NodeID) ([]int, error) {
	if len(chain) < 2 {
		return nil, newInvalidParameter("chain", "must contain at least 2 intersections, got %d", len(chain))
	}
	cycle := 0
	for _, nodeID := range chain {
		tl, ok := sm.Program(nodeID)
		if !ok {
			return nil, newGraphIntegrity("trafficLight", string(nodeID), "no signal program installed for chained intersection")
		}
		if cycle == 0 {
			cycle = tl.CycleLength()
		} else if tl.CycleLength() != cycle {
			return nil, newInvalidParameter("chain", "intersection '%s' runs cycle %d, chain requires common cycle %d", nodeID, tl.CycleLength(), cycle)
		}
	}
	travelTimes, err := router.ChainTravelTimes(chain)
	if err != nil {
		return nil, err
	}
	offsets, err := ComputeOffsets(cycle, travelTimes)
	if err != nil {
		return nil, err
	}
	for i, nodeID := range chain {
		tl, _ := sm.Program(nodeID)
		updated := *tl
		updated.OffsetSeconds = offsets[i]
		if err := sm.SetProgram(updated); err != nil {
			return nil, err
		}
	}
	return offsets, nil
}

package sumogen

import (
	"math"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// Intersections with a critical flow ratio sum at or above this value get a
// clamped plan flagged CapacityExceeded instead of a Webster optimum.
const oversaturationThreshold = 0.95

// Default saturation flow per lane when no measured value is supplied,
// veh/h/lane.
const defaultSaturationFlowPerLane = 1800.0

// SignalDefaults is the single defaults table every optimization call
// receives explicitly; nothing is read from ambient state.
type SignalDefaults struct {
	MinCycleSeconds int
	MaxCycleSeconds int
	MinGreenSeconds int
	YellowSeconds   int
	// LostTimePerPhaseSeconds is used when the caller supplies no measured
	// lost time (startup plus clearance per phase change).
	LostTimePerPhaseSeconds int
}

func DefaultSignalDefaults() SignalDefaults {
	return SignalDefaults{
		MinCycleSeconds:         40,
		MaxCycleSeconds:         180,
		MinGreenSeconds:         7,
		YellowSeconds:           3,
		LostTimePerPhaseSeconds: 4,
	}
}

func (defaults SignalDefaults) validate() error {
	if defaults.MinCycleSeconds <= 0 {
		return newInvalidParameter("defaults.minCycle", "must be positive, got %d", defaults.MinCycleSeconds)
	}
	if defaults.MaxCycleSeconds < defaults.MinCycleSeconds {
		return newInvalidParameter("defaults.maxCycle", "must be >= minimum cycle %d, got %d", defaults.MinCycleSeconds, defaults.MaxCycleSeconds)
	}
	if defaults.MinGreenSeconds <= 0 {
		return newInvalidParameter("defaults.minGreen", "must be positive, got %d", defaults.MinGreenSeconds)
	}
	if defaults.YellowSeconds <= 0 {
		return newInvalidParameter("defaults.yellow", "must be positive, got %d", defaults.YellowSeconds)
	}
	return nil
}

// ApproachDemand is the measured input of one signal phase: hourly volume
// and saturation flow of the phase's critical approach.
type ApproachDemand struct {
	EdgeID             EdgeID
	VolumeVehsPerHour  float64
	SaturationFlowVphg float64
}

// PhasePlan is the optimizer output: per-phase effective greens and
// clearance intervals summing exactly to the cycle length. CapacityExceeded
// marks a clamped best-effort plan for an oversaturated intersection.
type PhasePlan struct {
	CycleLengthSeconds int
	GreenSeconds       []int
	ClearanceSeconds   []int
	CriticalRatios     []float64
	CriticalRatioSum   float64
	CapacityExceeded   bool
	AvgDelaySeconds    float64
}

// OptimizeWebster derives a cycle length and green split from per-phase
// demand using Webster's method: C = (1.5·L + 5) / (1 − Y), rounded up to a
// whole second and clamped to the configured [min, max] range. Greens are
// split proportionally to the critical flow ratios and floored at the
// configured minimum green; any shortfall is taken from the phases with the
// most slack so greens plus clearances equal the cycle exactly.
//
// When Y >= 0.95 the intersection is over capacity: in strict mode the call
// fails with CapacityExceededError, otherwise the cycle is clamped to the
// maximum and the plan is flagged.
func OptimizeWebster(approaches []ApproachDemand, lostTimeSeconds int, defaults SignalDefaults, strict bool) (*PhasePlan, error) {
	if err := defaults.validate(); err != nil {
		return nil, err
	}
	n := len(approaches)
	if n == 0 {
		return nil, newInvalidParameter("approaches", "must contain at least one phase")
	}
	if lostTimeSeconds < n {
		return nil, newInvalidParameter("lost_time", "must provide at least 1 s clearance per phase, got %d for %d phases", lostTimeSeconds, n)
	}
	ratios := make([]float64, n)
	for i, approach := range approaches {
		if approach.SaturationFlowVphg <= 0 {
			return nil, newInvalidParameter("saturation_flow", "approach %d must have positive saturation flow, got %f", i, approach.SaturationFlowVphg)
		}
		if approach.VolumeVehsPerHour < 0 {
			return nil, newInvalidParameter("volume", "approach %d must have non-negative volume, got %f", i, approach.VolumeVehsPerHour)
		}
		ratios[i] = approach.VolumeVehsPerHour / approach.SaturationFlowVphg
	}
	ratioSum := lo.Sum(ratios)

	exceeded := ratioSum >= oversaturationThreshold
	cycle := 0
	if exceeded {
		if strict {
			return nil, &CapacityExceededError{CriticalRatioSum: ratioSum}
		}
		cycle = defaults.MaxCycleSeconds
	} else {
		optimal := (1.5*float64(lostTimeSeconds) + 5.0) / (1.0 - ratioSum)
		cycle = int(math.Ceil(optimal))
		if cycle < defaults.MinCycleSeconds {
			cycle = defaults.MinCycleSeconds
		}
		if cycle > defaults.MaxCycleSeconds {
			cycle = defaults.MaxCycleSeconds
		}
	}
	// The cycle must fit every phase at minimum green
	floorCycle := lostTimeSeconds + n*defaults.MinGreenSeconds
	if cycle < floorCycle {
		if floorCycle > defaults.MaxCycleSeconds {
			return nil, newInvalidParameter("lost_time", "lost time %d with %d phases can not fit minimum greens inside maximum cycle %d", lostTimeSeconds, n, defaults.MaxCycleSeconds)
		}
		cycle = floorCycle
	}

	effectiveGreen := cycle - lostTimeSeconds
	greens := splitProportionally(ratios, ratioSum, effectiveGreen)
	if err := enforceMinGreens(greens, defaults.MinGreenSeconds); err != nil {
		return nil, err
	}
	clearances := splitEvenly(n, lostTimeSeconds)

	plan := &PhasePlan{
		CycleLengthSeconds: cycle,
		GreenSeconds:       greens,
		ClearanceSeconds:   clearances,
		CriticalRatios:     ratios,
		CriticalRatioSum:   ratioSum,
		CapacityExceeded:   exceeded,
	}
	if !exceeded {
		plan.AvgDelaySeconds = websterAvgDelay(float64(cycle), float64(lostTimeSeconds), ratioSum)
	}
	return plan, nil
}

// splitProportionally distributes total seconds over phases proportionally
// to their ratios using the largest remainder rule so the parts sum to
// total exactly. A zero ratio sum yields an even split.
func splitProportionally(ratios []float64, ratioSum float64, total int) []int {
	n := len(ratios)
	parts := make([]int, n)
	fractions := make([]float64, n)
	assigned := 0
	for i := range ratios {
		raw := float64(total) / float64(n)
		if ratioSum > 0 {
			raw = ratios[i] / ratioSum * float64(total)
		}
		parts[i] = int(math.Floor(raw))
		fractions[i] = raw - math.Floor(raw)
		assigned += parts[i]
	}
	for remainder := total - assigned; remainder > 0; remainder-- {
		best := 0
		for i := 1; i < n; i++ {
			if fractions[i] > fractions[best] {
				best = i
			}
		}
		parts[best]++
		fractions[best] = -1
	}
	return parts
}

// splitEvenly distributes total seconds over n parts, front-loading the
// remainder
func splitEvenly(n, total int) []int {
	parts := make([]int, n)
	for i := 0; i < n; i++ {
		parts[i] = total / n
		if i < total%n {
			parts[i]++
		}
	}
	return parts
}

// enforceMinGreens raises every green below the minimum and removes the
// shortfall from the phases with the largest slack, keeping the sum intact.
func enforceMinGreens(greens []int, minGreen int) error {
	deficit := 0
	for i := range greens {
		if greens[i] < minGreen {
			deficit += minGreen - greens[i]
			greens[i] = minGreen
		}
	}
	for ; deficit > 0; deficit-- {
		donor := -1
		for i := range greens {
			if greens[i] <= minGreen {
				continue
			}
			if donor < 0 || greens[i] > greens[donor] {
				donor = i
			}
		}
		if donor < 0 {
			return newInvalidParameter("min_green", "minimum green %d can not be satisfied within the effective green time", minGreen)
		}
		greens[donor]--
	}
	return nil
}

// websterAvgDelay estimates the uniform-delay term of Webster's delay
// formula for the whole intersection
func websterAvgDelay(cycle, lostTime, ratioSum float64) float64 {
	denominator := 2.0 * (1.0 - ratioSum*cycle/(cycle-lostTime))
	if denominator <= 0 {
		return 0
	}
	return cycle * math.Pow(1.0-ratioSum, 2) / denominator
}

// ProgramFromPlan renders a phase plan into a signal program for given node:
// one green phase followed by one clearance (yellow) phase per approach,
// summing exactly to the plan's cycle length. approachEdges fixes which
// incoming edge moves during which phase; every controlled connection must
// originate from one of them.
func (sm *SignalModel) ProgramFromPlan(nodeID NodeID, approachEdges []EdgeID, plan *PhasePlan) (TrafficLight, error) {
	tl := TrafficLight{NodeID: nodeID, ProgramID: "0"}
	connections, ok := sm.connections[nodeID]
	if !ok {
		return tl, newGraphIntegrity("trafficLight", string(nodeID), "node is not a controlled traffic-light node")
	}
	if len(approachEdges) != len(plan.GreenSeconds) {
		return tl, newInvalidParameter("approaches", "plan has %d phases but %d approach edges were given", len(plan.GreenSeconds), len(approachEdges))
	}
	known := map[EdgeID]struct{}{}
	for _, edgeID := range approachEdges {
		known[edgeID] = struct{}{}
	}
	for _, connection := range connections {
		if _, ok := known[connection.FromEdge]; !ok {
			return tl, newGraphIntegrity("connection", string(connection.FromEdge), "connection approach is not covered by any phase of node '%s'", nodeID)
		}
	}
	for i, edgeID := range approachEdges {
		greenState := phaseState(connections, edgeID, INDICATION_GREEN)
		yellowState := phaseState(connections, edgeID, INDICATION_YELLOW)
		tl.Phases = append(tl.Phases,
			Phase{DurationSeconds: plan.GreenSeconds[i], State: greenState},
			Phase{DurationSeconds: plan.ClearanceSeconds[i], State: yellowState},
		)
	}
	if cycle := tl.CycleLength(); cycle != plan.CycleLengthSeconds {
		return tl, errors.Errorf("phase durations sum to %d, plan cycle is %d", cycle, plan.CycleLengthSeconds)
	}
	return tl, nil
}

// phaseState builds one state string: the moving approach gets the given
// indication, everything else is red
func phaseState(connections []Connection, movingEdge EdgeID, indication byte) string {
	state := make([]byte, len(connections))
	for i, connection := range connections {
		if connection.FromEdge == movingEdge {
			state[i] = indication
		} else {
			state[i] = INDICATION_RED
		}
	}
	return string(state)
}

// MeasureApproachVolumes sums the hourly rates of all routable flows over
// the incoming edges of given node. This is how signal timing is derived
// from the demand crossing a controlled intersection.
func MeasureApproachVolumes(dm *DemandModel, router *Router, nodeID NodeID) (map[EdgeID]float64, error) {
	net := dm.Network()
	volumes := make(map[EdgeID]float64)
	incoming := map[EdgeID]struct{}{}
	for _, edge := range net.incomingEdges(nodeID) {
		incoming[edge.ID] = struct{}{}
		volumes[edge.ID] = 0
	}
	for _, flow := range dm.Flows() {
		_, route, err := router.FlowRoute(net, flow)
		if err != nil {
			return nil, err
		}
		hourly := flow.ArrivalRatePerSecond() * 3600.0
		for _, edgeID := range route {
			if _, ok := incoming[edgeID]; ok {
				volumes[edgeID] += hourly
			}
		}
	}
	return volumes, nil
}

// OptimizeNode measures approach volumes from the demand model, runs
// Webster's method (one phase per incoming approach) and installs the
// resulting program. Returns the stored plan.
func (sm *SignalModel) OptimizeNode(dm *DemandModel, router *Router, nodeID NodeID, defaults SignalDefaults, strict bool) (*PhasePlan, error) {
	volumes, err := MeasureApproachVolumes(dm, router, nodeID)
	if err != nil {
		return nil, err
	}
	incoming := sm.net.incomingEdges(nodeID)
	if len(incoming) == 0 {
		return nil, newGraphIntegrity("node", string(nodeID), "traffic-light node has no incoming edges")
	}
	approaches := make([]ApproachDemand, len(incoming))
	approachEdges := make([]EdgeID, len(incoming))
	for i, edge := range incoming {
		approaches[i] = ApproachDemand{
			EdgeID:             edge.ID,
			VolumeVehsPerHour:  volumes[edge.ID],
			SaturationFlowVphg: defaultSaturationFlowPerLane * float64(edge.NumLanes),
		}
		approachEdges[i] = edge.ID
	}
	lostTime := defaults.LostTimePerPhaseSeconds * len(incoming)
	plan, err := OptimizeWebster(approaches, lostTime, defaults, strict)
	if err != nil {
		if capErr, ok := err.(*CapacityExceededError); ok {
			capErr.NodeID = string(nodeID)
		}
		return nil, err
	}
	tl, err := sm.ProgramFromPlan(nodeID, approachEdges, plan)
	if err != nil {
		return nil, err
	}
	if err := sm.SetProgram(tl); err != nil {
		return nil, err
	}
	return plan, nil
}

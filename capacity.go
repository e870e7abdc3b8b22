package sumogen

/* Capacity and level-of-service stuff */

type LevelOfService byte

const (
	LOS_A = LevelOfService('A')
	LOS_B = LevelOfService('B')
	LOS_C = LevelOfService('C')
	LOS_D = LevelOfService('D')
	LOS_E = LevelOfService('E')
	LOS_F = LevelOfService('F')
)

func (los LevelOfService) String() string {
	return string(rune(los))
}

// Monotonic v/c thresholds; E ends exactly at capacity, everything above
// 1.0 is F.
var losThresholds = []struct {
	limit float64
	grade LevelOfService
}{
	{0.35, LOS_A},
	{0.55, LOS_B},
	{0.75, LOS_C},
	{0.90, LOS_D},
	{1.00, LOS_E},
}

// GradeVolumeCapacityRatio maps a v/c ratio to its level-of-service grade
func GradeVolumeCapacityRatio(ratio float64) LevelOfService {
	for _, threshold := range losThresholds {
		if ratio <= threshold.limit {
			return threshold.grade
		}
	}
	return LOS_F
}

// ApproachInput is the measured state of one approach: hourly volume,
// saturation flow and the effective green ratio g/C of the serving phase.
type ApproachInput struct {
	Approach           string
	VolumeVph          float64
	SaturationFlowVphg float64
	GreenRatio         float64
}

// CapacityReport is the per-approach analysis result. It is ephemeral:
// produced for display, never stored as model state.
type CapacityReport struct {
	Approach            string
	VolumeVph           float64
	SaturationFlowVphg  float64
	CapacityVph         float64
	VolumeCapacityRatio float64
	Grade               LevelOfService
}

// IntersectionSummary aggregates approach reports; the worst approach grade
// dominates.
type IntersectionSummary struct {
	Reports          []CapacityReport
	WorstGrade       LevelOfService
	CapacityExceeded bool
}

// AnalyzeApproach computes capacity = saturation flow × g/C and grades the
// resulting v/c ratio
func AnalyzeApproach(in ApproachInput) (CapacityReport, error) {
	report := CapacityReport{Approach: in.Approach}
	if in.SaturationFlowVphg <= 0 {
		return report, newInvalidParameter("saturation_flow", "approach '%s' must have positive saturation flow, got %f", in.Approach, in.SaturationFlowVphg)
	}
	if in.VolumeVph < 0 {
		return report, newInvalidParameter("volume", "approach '%s' must have non-negative volume, got %f", in.Approach, in.VolumeVph)
	}
	if in.GreenRatio <= 0 || in.GreenRatio > 1 {
		return report, newInvalidParameter("green_ratio", "approach '%s' must have green ratio within (0, 1], got %f", in.Approach, in.GreenRatio)
	}
	report.VolumeVph = in.VolumeVph
	report.SaturationFlowVphg = in.SaturationFlowVphg
	report.CapacityVph = in.SaturationFlowVphg * in.GreenRatio
	report.VolumeCapacityRatio = in.VolumeVph / report.CapacityVph
	report.Grade = GradeVolumeCapacityRatio(report.VolumeCapacityRatio)
	return report, nil
}

// AnalyzeIntersection runs the approach analysis for a whole intersection
func AnalyzeIntersection(inputs []ApproachInput) (*IntersectionSummary, error) {
	if len(inputs) == 0 {
		return nil, newInvalidParameter("approaches", "must contain at least one approach")
	}
	summary := &IntersectionSummary{WorstGrade: LOS_A}
	for _, in := range inputs {
		report, err := AnalyzeApproach(in)
		if err != nil {
			return nil, err
		}
		summary.Reports = append(summary.Reports, report)
		if report.Grade > summary.WorstGrade {
			summary.WorstGrade = report.Grade
		}
		if report.VolumeCapacityRatio > 1.0 {
			summary.CapacityExceeded = true
		}
	}
	return summary, nil
}

// AnalyzeProgram grades every approach of a node against its installed
// signal program, using the per-phase green ratios of the program and the
// measured volumes of the demand model.
func (sm *SignalModel) AnalyzeProgram(dm *DemandModel, router *Router, nodeID NodeID) (*IntersectionSummary, error) {
	tl, ok := sm.Program(nodeID)
	if !ok {
		return nil, newGraphIntegrity("trafficLight", string(nodeID), "no signal program installed")
	}
	volumes, err := MeasureApproachVolumes(dm, router, nodeID)
	if err != nil {
		return nil, err
	}
	cycle := float64(tl.CycleLength())
	connections := sm.Connections(nodeID)
	inputs := []ApproachInput{}
	for _, edge := range sm.net.incomingEdges(nodeID) {
		green := approachGreenSeconds(tl, connections, edge.ID)
		if green == 0 {
			return nil, newGraphIntegrity("connection", string(edge.ID), "approach never receives green at node '%s'", nodeID)
		}
		inputs = append(inputs, ApproachInput{
			Approach:           string(edge.ID),
			VolumeVph:          volumes[edge.ID],
			SaturationFlowVphg: defaultSaturationFlowPerLane * float64(edge.NumLanes),
			GreenRatio:         float64(green) / cycle,
		})
	}
	return AnalyzeIntersection(inputs)
}

// approachGreenSeconds sums the durations of phases in which any connection
// of the approach shows green
func approachGreenSeconds(tl *TrafficLight, connections []Connection, approach EdgeID) int {
	green := 0
	for _, phase := range tl.Phases {
		for i, connection := range connections {
			if connection.FromEdge != approach || i >= len(phase.State) {
				continue
			}
			if phase.State[i] == INDICATION_GREEN || phase.State[i] == INDICATION_GREEN_RIGHT {
				green += phase.DurationSeconds
				break
			}
		}
	}
	return green
}

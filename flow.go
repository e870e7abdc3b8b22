package sumogen

/* Flows stuff */

// DemandRateType selects which of the two demand representations a flow
// carries. A flow must use exactly one.
type DemandRateType uint16

const (
	DEMAND_VEHS_PER_HOUR = DemandRateType(iota + 1)
	DEMAND_PROBABILITY
	DEMAND_UNDEFINED = DemandRateType(0)
)

func (iotaIdx DemandRateType) String() string {
	return [...]string{"undefined", "vehs_per_hour", "probability"}[iotaIdx]
}

// Flow is a time-windowed stream of vehicles of one type between two edges.
// The demand rate is either an hourly rate (emitted with Poisson-like
// arrival spacing by the simulation engine) or a raw per-step insertion
// probability, never both.
type Flow struct {
	ID            string
	VehicleTypeID string
	FromEdge      EdgeID
	ToEdge        EdgeID
	BeginSeconds  float64
	EndSeconds    float64
	RateType      DemandRateType
	VehsPerHour   float64
	Probability   float64
}

// ArrivalRatePerSecond returns the mean arrival rate λ of the flow in
// vehicles per second. For probability flows the per-step probability is the
// rate at step length 1 s.
func (flow *Flow) ArrivalRatePerSecond() float64 {
	switch flow.RateType {
	case DEMAND_VEHS_PER_HOUR:
		return flow.VehsPerHour / 3600.0
	case DEMAND_PROBABILITY:
		return flow.Probability
	}
	return 0
}

func (flow *Flow) validate() error {
	if flow.VehicleTypeID == "" {
		return newInvalidParameter("flow.type", "flow '%s' must reference a vehicle type", flow.ID)
	}
	if flow.BeginSeconds < 0 {
		return newInvalidParameter("flow.begin", "flow '%s' must have non-negative begin time, got %f", flow.ID, flow.BeginSeconds)
	}
	if flow.BeginSeconds >= flow.EndSeconds {
		return newInvalidParameter("flow.end", "flow '%s' must have begin < end, got [%f, %f)", flow.ID, flow.BeginSeconds, flow.EndSeconds)
	}
	if flow.FromEdge == flow.ToEdge {
		return newInvalidParameter("flow.to", "flow '%s' must have distinct origin and destination edges", flow.ID)
	}
	switch flow.RateType {
	case DEMAND_VEHS_PER_HOUR:
		if flow.VehsPerHour < 0 {
			return newInvalidParameter("flow.vehsPerHour", "flow '%s' must have non-negative rate, got %f", flow.ID, flow.VehsPerHour)
		}
		if flow.Probability != 0 {
			return newInvalidParameter("flow.probability", "flow '%s' uses hourly rate and must not set probability", flow.ID)
		}
	case DEMAND_PROBABILITY:
		if flow.Probability < 0 || flow.Probability > 1 {
			return newInvalidParameter("flow.probability", "flow '%s' must have probability within [0, 1], got %f", flow.ID, flow.Probability)
		}
		if flow.VehsPerHour != 0 {
			return newInvalidParameter("flow.vehsPerHour", "flow '%s' uses probability and must not set hourly rate", flow.ID)
		}
	default:
		return newInvalidParameter("flow.rateType", "flow '%s' must select exactly one demand representation", flow.ID)
	}
	return nil
}

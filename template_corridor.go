package sumogen

import (
	"fmt"
)

// CorridorConfig parametrizes an arterial corridor: a main street with
// NumIntersections signalized crossings, each with a bidirectional cross
// street.
//
//	o---+---+---+---+---o
//	    |   |   |   |
//	   cross streets
type CorridorConfig struct {
	NumIntersections     int
	SpacingMeters        float64
	CrossArmLengthMeters float64
	MainLanes            int
	CrossLanes           int
	MainSpeedKmh         float64
	CrossSpeedKmh        float64
	Signalized           bool
}

func DefaultCorridorConfig() CorridorConfig {
	return CorridorConfig{
		NumIntersections:     5,
		SpacingMeters:        300.0,
		CrossArmLengthMeters: 150.0,
		MainLanes:            3,
		CrossLanes:           2,
		MainSpeedKmh:         60.0,
		CrossSpeedKmh:        40.0,
		Signalized:           true,
	}
}

func (cfg CorridorConfig) Kind() TemplateKind {
	return TEMPLATE_CORRIDOR
}

func (cfg CorridorConfig) Validate() error {
	if cfg.NumIntersections < 1 || cfg.NumIntersections > 20 {
		return newInvalidParameter("num_intersections", "must be within [1, 20], got %d", cfg.NumIntersections)
	}
	if err := checkPositive("spacing", cfg.SpacingMeters); err != nil {
		return err
	}
	if err := checkPositive("cross_arm_length", cfg.CrossArmLengthMeters); err != nil {
		return err
	}
	if err := checkLanesBound("main_lanes", cfg.MainLanes); err != nil {
		return err
	}
	if err := checkLanesBound("cross_lanes", cfg.CrossLanes); err != nil {
		return err
	}
	if err := checkPositive("main_speed", cfg.MainSpeedKmh); err != nil {
		return err
	}
	return checkPositive("cross_speed", cfg.CrossSpeedKmh)
}

// SignalNodeIDs returns identifiers of the signalized main-street nodes in
// west-to-east order. Useful as the chain input for coordination.
func (cfg CorridorConfig) SignalNodeIDs() []NodeID {
	chain := make([]NodeID, cfg.NumIntersections)
	for i := 1; i <= cfg.NumIntersections; i++ {
		chain[i-1] = NodeID(fmt.Sprintf("M%d", i))
	}
	return chain
}

func (cfg CorridorConfig) build() (*NetworkModel, error) {
	net := NewNetworkModel()
	mainSpeed := KmhToMs(cfg.MainSpeedKmh)
	crossSpeed := KmhToMs(cfg.CrossSpeedKmh)

	// Main street nodes: M0 and M{n+1} are the corridor ends
	for i := 0; i <= cfg.NumIntersections+1; i++ {
		x := float64(i) * cfg.SpacingMeters
		kind := NODE_PRIORITY
		if i > 0 && i <= cfg.NumIntersections && cfg.Signalized {
			kind = NODE_TRAFFIC_LIGHT
		}
		node := Node{ID: NodeID(fmt.Sprintf("M%d", i)), X: x, Y: 0, Kind: kind}
		if err := net.AddNode(node); err != nil {
			return nil, err
		}
		if i > 0 && i <= cfg.NumIntersections {
			north := Node{ID: NodeID(fmt.Sprintf("N%d", i)), X: x, Y: cfg.CrossArmLengthMeters, Kind: NODE_PRIORITY}
			if err := net.AddNode(north); err != nil {
				return nil, err
			}
			south := Node{ID: NodeID(fmt.Sprintf("S%d", i)), X: x, Y: -cfg.CrossArmLengthMeters, Kind: NODE_PRIORITY}
			if err := net.AddNode(south); err != nil {
				return nil, err
			}
		}
	}

	// Main street edges
	for i := 0; i <= cfg.NumIntersections; i++ {
		from := NodeID(fmt.Sprintf("M%d", i))
		to := NodeID(fmt.Sprintf("M%d", i+1))
		eastbound := Edge{
			ID:       EdgeID(fmt.Sprintf("main_%d_EB", i)),
			Source:   from,
			Target:   to,
			NumLanes: cfg.MainLanes,
			Speed:    mainSpeed,
			Priority: 2,
		}
		if err := net.AddEdge(eastbound); err != nil {
			return nil, err
		}
		westbound := Edge{
			ID:       EdgeID(fmt.Sprintf("main_%d_WB", i)),
			Source:   to,
			Target:   from,
			NumLanes: cfg.MainLanes,
			Speed:    mainSpeed,
			Priority: 2,
		}
		if err := net.AddEdge(westbound); err != nil {
			return nil, err
		}
	}

	// Cross streets
	for i := 1; i <= cfg.NumIntersections; i++ {
		main := NodeID(fmt.Sprintf("M%d", i))
		north := NodeID(fmt.Sprintf("N%d", i))
		south := NodeID(fmt.Sprintf("S%d", i))
		crossEdges := []Edge{
			{ID: EdgeID(fmt.Sprintf("cross_%d_NB", i)), Source: south, Target: main},
			{ID: EdgeID(fmt.Sprintf("cross_%d_NB2", i)), Source: main, Target: north},
			{ID: EdgeID(fmt.Sprintf("cross_%d_SB", i)), Source: north, Target: main},
			{ID: EdgeID(fmt.Sprintf("cross_%d_SB2", i)), Source: main, Target: south},
		}
		for _, edge := range crossEdges {
			edge.NumLanes = cfg.CrossLanes
			edge.Speed = crossSpeed
			edge.Priority = 1
			if err := net.AddEdge(edge); err != nil {
				return nil, err
			}
		}
	}
	return net, nil
}

package sumogen

import (
	"fmt"
)

// RoundaboutConfig parametrizes a roundabout with evenly spaced arms around
// a circular ring. Ring nodes are yield-controlled (priority), entering
// traffic gives way.
type RoundaboutConfig struct {
	NumArms         int
	RadiusMeters    float64
	ArmLengthMeters float64
	LanesPerArm     int
	RingLanes       int
	SpeedLimitKmh   float64
}

func DefaultRoundaboutConfig() RoundaboutConfig {
	return RoundaboutConfig{
		NumArms:         4,
		RadiusMeters:    30.0,
		ArmLengthMeters: 200.0,
		LanesPerArm:     1,
		RingLanes:       2,
		SpeedLimitKmh:   30.0,
	}
}

func (cfg RoundaboutConfig) Kind() TemplateKind {
	return TEMPLATE_ROUNDABOUT
}

func (cfg RoundaboutConfig) Validate() error {
	if cfg.NumArms < 3 || cfg.NumArms > 8 {
		return newInvalidParameter("num_arms", "must be within [3, 8], got %d", cfg.NumArms)
	}
	if err := checkPositive("radius", cfg.RadiusMeters); err != nil {
		return err
	}
	if err := checkPositive("arm_length", cfg.ArmLengthMeters); err != nil {
		return err
	}
	if err := checkLanesBound("lanes_per_arm", cfg.LanesPerArm); err != nil {
		return err
	}
	if cfg.RingLanes < 1 || cfg.RingLanes > 3 {
		return newInvalidParameter("ring_lanes", "must be within [1, 3], got %d", cfg.RingLanes)
	}
	return checkPositive("speed_limit", cfg.SpeedLimitKmh)
}

func (cfg RoundaboutConfig) build() (*NetworkModel, error) {
	net := NewNetworkModel()
	speed := KmhToMs(cfg.SpeedLimitKmh)
	angleStep := 360.0 / float64(cfg.NumArms)

	// Ring nodes, starting from North, clockwise
	for i := 0; i < cfg.NumArms; i++ {
		x, y := pointOnCircle(cfg.RadiusMeters, float64(i)*angleStep)
		node := Node{ID: NodeID(fmt.Sprintf("R%d", i)), X: x, Y: y, Kind: NODE_PRIORITY}
		if err := net.AddNode(node); err != nil {
			return nil, err
		}
	}
	// Arm tip nodes
	for i := 0; i < cfg.NumArms; i++ {
		x, y := pointOnCircle(cfg.RadiusMeters+cfg.ArmLengthMeters, float64(i)*angleStep)
		node := Node{ID: NodeID(fmt.Sprintf("A%d", i)), X: x, Y: y, Kind: NODE_PRIORITY}
		if err := net.AddNode(node); err != nil {
			return nil, err
		}
	}
	// Ring edges (one-directional circulation)
	for i := 0; i < cfg.NumArms; i++ {
		next := (i + 1) % cfg.NumArms
		edge := Edge{
			ID:       EdgeID(fmt.Sprintf("R%d2R%d", i, next)),
			Source:   NodeID(fmt.Sprintf("R%d", i)),
			Target:   NodeID(fmt.Sprintf("R%d", next)),
			NumLanes: cfg.RingLanes,
			Speed:    speed,
			Priority: 2,
		}
		if err := net.AddEdge(edge); err != nil {
			return nil, err
		}
	}
	// Entry and exit edges per arm
	for i := 0; i < cfg.NumArms; i++ {
		entry := Edge{
			ID:       EdgeID(fmt.Sprintf("A%d2R%d", i, i)),
			Source:   NodeID(fmt.Sprintf("A%d", i)),
			Target:   NodeID(fmt.Sprintf("R%d", i)),
			NumLanes: cfg.LanesPerArm,
			Speed:    speed,
			Priority: 1,
		}
		if err := net.AddEdge(entry); err != nil {
			return nil, err
		}
		exit := Edge{
			ID:       EdgeID(fmt.Sprintf("R%d2A%d", i, i)),
			Source:   NodeID(fmt.Sprintf("R%d", i)),
			Target:   NodeID(fmt.Sprintf("A%d", i)),
			NumLanes: cfg.LanesPerArm,
			Speed:    speed,
			Priority: 1,
		}
		if err := net.AddEdge(exit); err != nil {
			return nil, err
		}
	}
	return net, nil
}

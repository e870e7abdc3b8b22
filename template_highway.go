package sumogen

import (
	"fmt"
)

// HighwayConfig parametrizes a one-directional highway segment with evenly
// spaced on/off ramp pairs.
//
//	start ----junc_1----junc_2---- end
//	          /    \    /    \
//	        on_1 off_1 on_2 off_2
type HighwayConfig struct {
	LengthMeters  float64
	Lanes         int
	SpeedLimitKmh float64
	NumRamps      int
	RampLanes     int
	RampSpeedKmh  float64
}

func DefaultHighwayConfig() HighwayConfig {
	return HighwayConfig{
		LengthMeters:  2000.0,
		Lanes:         3,
		SpeedLimitKmh: 100.0,
		NumRamps:      2,
		RampLanes:     1,
		RampSpeedKmh:  60.0,
	}
}

func (cfg HighwayConfig) Kind() TemplateKind {
	return TEMPLATE_HIGHWAY
}

func (cfg HighwayConfig) Validate() error {
	if err := checkPositive("length", cfg.LengthMeters); err != nil {
		return err
	}
	if err := checkLanesBound("lanes", cfg.Lanes); err != nil {
		return err
	}
	if err := checkPositive("speed_limit", cfg.SpeedLimitKmh); err != nil {
		return err
	}
	if cfg.NumRamps < 0 || cfg.NumRamps > 10 {
		return newInvalidParameter("num_ramps", "must be within [0, 10], got %d", cfg.NumRamps)
	}
	if cfg.NumRamps > 0 {
		if cfg.RampLanes < 1 || cfg.RampLanes > 3 {
			return newInvalidParameter("ramp_lanes", "must be within [1, 3], got %d", cfg.RampLanes)
		}
		if err := checkPositive("ramp_speed", cfg.RampSpeedKmh); err != nil {
			return err
		}
	}
	return nil
}

func (cfg HighwayConfig) build() (*NetworkModel, error) {
	net := NewNetworkModel()
	speed := KmhToMs(cfg.SpeedLimitKmh)
	rampSpeed := KmhToMs(cfg.RampSpeedKmh)
	rampSpacing := cfg.LengthMeters / float64(cfg.NumRamps+1)

	if err := net.AddNode(Node{ID: "start", X: 0, Y: 0, Kind: NODE_DEAD_END}); err != nil {
		return nil, err
	}
	if err := net.AddNode(Node{ID: "end", X: cfg.LengthMeters, Y: 0, Kind: NODE_DEAD_END}); err != nil {
		return nil, err
	}
	for i := 1; i <= cfg.NumRamps; i++ {
		x := float64(i) * rampSpacing
		rampNodes := []Node{
			{ID: NodeID(fmt.Sprintf("junc_%d", i)), X: x, Y: 0, Kind: NODE_PRIORITY},
			{ID: NodeID(fmt.Sprintf("on_ramp_%d", i)), X: x - 100, Y: -100, Kind: NODE_DEAD_END},
			{ID: NodeID(fmt.Sprintf("off_ramp_%d", i)), X: x + 100, Y: -100, Kind: NODE_DEAD_END},
		}
		for _, node := range rampNodes {
			if err := net.AddNode(node); err != nil {
				return nil, err
			}
		}
	}

	// Mainline, split at every ramp junction
	prev := NodeID("start")
	for i := 1; i <= cfg.NumRamps; i++ {
		junc := NodeID(fmt.Sprintf("junc_%d", i))
		edge := Edge{
			ID:       EdgeID(fmt.Sprintf("hw_%s_%s", prev, junc)),
			Source:   prev,
			Target:   junc,
			NumLanes: cfg.Lanes,
			Speed:    speed,
			Priority: 3,
		}
		if err := net.AddEdge(edge); err != nil {
			return nil, err
		}
		prev = junc
	}
	last := Edge{
		ID:       EdgeID(fmt.Sprintf("hw_%s_end", prev)),
		Source:   prev,
		Target:   "end",
		NumLanes: cfg.Lanes,
		Speed:    speed,
		Priority: 3,
	}
	if err := net.AddEdge(last); err != nil {
		return nil, err
	}

	// Ramps
	for i := 1; i <= cfg.NumRamps; i++ {
		junc := NodeID(fmt.Sprintf("junc_%d", i))
		on := Edge{
			ID:       EdgeID(fmt.Sprintf("on_ramp_%d", i)),
			Source:   NodeID(fmt.Sprintf("on_ramp_%d", i)),
			Target:   junc,
			NumLanes: cfg.RampLanes,
			Speed:    rampSpeed,
			Priority: 1,
		}
		if err := net.AddEdge(on); err != nil {
			return nil, err
		}
		off := Edge{
			ID:       EdgeID(fmt.Sprintf("off_ramp_%d", i)),
			Source:   junc,
			Target:   NodeID(fmt.Sprintf("off_ramp_%d", i)),
			NumLanes: cfg.RampLanes,
			Speed:    rampSpeed,
			Priority: 1,
		}
		if err := net.AddEdge(off); err != nil {
			return nil, err
		}
	}
	return net, nil
}

package sumogen

// CrossIntersectionConfig parametrizes a standard 4-leg intersection:
//
//	     N
//	     |
//	W ---+--- E
//	     |
//	     S
type CrossIntersectionConfig struct {
	ArmLengthMeters float64
	LanesPerArm     int
	SpeedLimitKmh   float64
	Signalized      bool
}

func DefaultCrossIntersectionConfig() CrossIntersectionConfig {
	return CrossIntersectionConfig{
		ArmLengthMeters: 200.0,
		LanesPerArm:     2,
		SpeedLimitKmh:   50.0,
		Signalized:      true,
	}
}

func (cfg CrossIntersectionConfig) Kind() TemplateKind {
	return TEMPLATE_CROSS_INTERSECTION
}

func (cfg CrossIntersectionConfig) Validate() error {
	if err := checkPositive("arm_length", cfg.ArmLengthMeters); err != nil {
		return err
	}
	if err := checkLanesBound("lanes_per_arm", cfg.LanesPerArm); err != nil {
		return err
	}
	return checkPositive("speed_limit", cfg.SpeedLimitKmh)
}

func (cfg CrossIntersectionConfig) build() (*NetworkModel, error) {
	net := NewNetworkModel()
	speed := KmhToMs(cfg.SpeedLimitKmh)

	centerKind := NODE_PRIORITY
	if cfg.Signalized {
		centerKind = NODE_TRAFFIC_LIGHT
	}
	nodes := []Node{
		{ID: "C", X: 0, Y: 0, Kind: centerKind},
		{ID: "N", X: 0, Y: cfg.ArmLengthMeters, Kind: NODE_PRIORITY},
		{ID: "S", X: 0, Y: -cfg.ArmLengthMeters, Kind: NODE_PRIORITY},
		{ID: "E", X: cfg.ArmLengthMeters, Y: 0, Kind: NODE_PRIORITY},
		{ID: "W", X: -cfg.ArmLengthMeters, Y: 0, Kind: NODE_PRIORITY},
	}
	for _, node := range nodes {
		if err := net.AddNode(node); err != nil {
			return nil, err
		}
	}
	arms := []NodeID{"N", "S", "E", "W"}
	if err := addBidirectionalArms(net, "C", arms, cfg.LanesPerArm, speed, 1); err != nil {
		return nil, err
	}
	return net, nil
}

// TIntersectionConfig parametrizes a 3-leg T-junction:
//
//	     N
//	     |
//	W ---+--- E
type TIntersectionConfig struct {
	ArmLengthMeters float64
	LanesPerArm     int
	SpeedLimitKmh   float64
	Signalized      bool
}

func DefaultTIntersectionConfig() TIntersectionConfig {
	return TIntersectionConfig{
		ArmLengthMeters: 200.0,
		LanesPerArm:     2,
		SpeedLimitKmh:   50.0,
		Signalized:      true,
	}
}

func (cfg TIntersectionConfig) Kind() TemplateKind {
	return TEMPLATE_T_INTERSECTION
}

func (cfg TIntersectionConfig) Validate() error {
	if err := checkPositive("arm_length", cfg.ArmLengthMeters); err != nil {
		return err
	}
	if err := checkLanesBound("lanes_per_arm", cfg.LanesPerArm); err != nil {
		return err
	}
	return checkPositive("speed_limit", cfg.SpeedLimitKmh)
}

func (cfg TIntersectionConfig) build() (*NetworkModel, error) {
	net := NewNetworkModel()
	speed := KmhToMs(cfg.SpeedLimitKmh)

	centerKind := NODE_PRIORITY
	if cfg.Signalized {
		centerKind = NODE_TRAFFIC_LIGHT
	}
	nodes := []Node{
		{ID: "C", X: 0, Y: 0, Kind: centerKind},
		{ID: "N", X: 0, Y: cfg.ArmLengthMeters, Kind: NODE_PRIORITY},
		{ID: "E", X: cfg.ArmLengthMeters, Y: 0, Kind: NODE_PRIORITY},
		{ID: "W", X: -cfg.ArmLengthMeters, Y: 0, Kind: NODE_PRIORITY},
	}
	for _, node := range nodes {
		if err := net.AddNode(node); err != nil {
			return nil, err
		}
	}
	arms := []NodeID{"N", "E", "W"}
	if err := addBidirectionalArms(net, "C", arms, cfg.LanesPerArm, speed, 1); err != nil {
		return nil, err
	}
	return net, nil
}

// addBidirectionalArms connects every arm tip with the center node in both
// directions using the "N2C"/"C2N" naming scheme.
func addBidirectionalArms(net *NetworkModel, center NodeID, arms []NodeID, lanes int, speed float64, priority int) error {
	for _, arm := range arms {
		inbound := Edge{
			ID:       EdgeID(string(arm) + "2" + string(center)),
			Source:   arm,
			Target:   center,
			NumLanes: lanes,
			Speed:    speed,
			Priority: priority,
		}
		if err := net.AddEdge(inbound); err != nil {
			return err
		}
		outbound := Edge{
			ID:       EdgeID(string(center) + "2" + string(arm)),
			Source:   center,
			Target:   arm,
			NumLanes: lanes,
			Speed:    speed,
			Priority: priority,
		}
		if err := net.AddEdge(outbound); err != nil {
			return err
		}
	}
	return nil
}

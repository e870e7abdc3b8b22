package sumogen

import (
	"encoding/xml"
	"strconv"

	"github.com/pkg/errors"
)

// Re-parsing of produced artifacts under the same grammar. Parsing a
// serialized scenario reconstructs an entity graph equal by value to the
// source models, which is also how saved projects are loaded back.

// ParseNetwork rebuilds a validated network model from the node and edge
// artifacts
func ParseNetwork(nodesData, edgesData []byte) (*NetworkModel, error) {
	nodesDoc := xmlNodes{}
	if err := xml.Unmarshal(nodesData, &nodesDoc); err != nil {
		return nil, errors.Wrap(err, "Can't parse nodes document")
	}
	edgesDoc := xmlEdges{}
	if err := xml.Unmarshal(edgesData, &edgesDoc); err != nil {
		return nil, errors.Wrap(err, "Can't parse edges document")
	}
	net := NewNetworkModel()
	for _, entry := range nodesDoc.Nodes {
		kind, ok := nodeKindTxt[entry.Type]
		if !ok {
			return nil, newSerialization("nodes", "node", entry.Type, "unknown node type for node '%s'", entry.ID)
		}
		x, err := parseFloatAttr("nodes", "node", "x", entry.X)
		if err != nil {
			return nil, err
		}
		y, err := parseFloatAttr("nodes", "node", "y", entry.Y)
		if err != nil {
			return nil, err
		}
		if err := net.AddNode(Node{ID: NodeID(entry.ID), X: x, Y: y, Kind: kind, Standalone: entry.Standalone}); err != nil {
			return nil, err
		}
	}
	for _, entry := range edgesDoc.Edges {
		speed, err := parseFloatAttr("edges", "edge", "speed", entry.Speed)
		if err != nil {
			return nil, err
		}
		length, err := parseFloatAttr("edges", "edge", "length", entry.Length)
		if err != nil {
			return nil, err
		}
		edge := Edge{
			ID:           EdgeID(entry.ID),
			Source:       NodeID(entry.From),
			Target:       NodeID(entry.To),
			NumLanes:     entry.NumLanes,
			Speed:        speed,
			Priority:     entry.Priority,
			LengthMeters: length,
		}
		if err := net.AddEdge(edge); err != nil {
			return nil, err
		}
	}
	if err := net.Validate(); err != nil {
		return nil, err
	}
	return net, nil
}

// ParseDemand rebuilds a demand model from the route artifact
func ParseDemand(routesData []byte, net *NetworkModel) (*DemandModel, error) {
	doc := xmlRoutes{}
	if err := xml.Unmarshal(routesData, &doc); err != nil {
		return nil, errors.Wrap(err, "Can't parse routes document")
	}
	dm, err := NewDemandModel(net)
	if err != nil {
		return nil, err
	}
	for _, entry := range doc.VehicleTypes {
		vt := VehicleType{
			ID:            entry.ID,
			VehicleClass:  entry.VClass,
			Color:         entry.Color,
			EmissionClass: entry.EmissionClass,
		}
		floatAttrs := []struct {
			name  string
			value string
			dst   *float64
		}{
			{"length", entry.Length, &vt.LengthMeters},
			{"minGap", entry.MinGap, &vt.MinGapMeters},
			{"maxSpeed", entry.MaxSpeed, &vt.MaxSpeed},
			{"accel", entry.Accel, &vt.Accel},
			{"decel", entry.Decel, &vt.Decel},
			{"sigma", entry.Sigma, &vt.Sigma},
			{"tau", entry.Tau, &vt.Tau},
		}
		for _, attr := range floatAttrs {
			parsed, err := parseFloatAttr("routes", "vType", attr.name, attr.value)
			if err != nil {
				return nil, err
			}
			*attr.dst = parsed
		}
		if err := dm.AddVehicleType(vt); err != nil {
			return nil, err
		}
	}
	for _, entry := range doc.Flows {
		begin, err := parseFloatAttr("routes", "flow", "begin", entry.Begin)
		if err != nil {
			return nil, err
		}
		end, err := parseFloatAttr("routes", "flow", "end", entry.End)
		if err != nil {
			return nil, err
		}
		flow := Flow{
			ID:            entry.ID,
			VehicleTypeID: entry.Type,
			FromEdge:      EdgeID(entry.From),
			ToEdge:        EdgeID(entry.To),
			BeginSeconds:  begin,
			EndSeconds:    end,
		}
		switch {
		case entry.VehsPerHour != "" && entry.Probability != "":
			return nil, newSerialization("routes", "flow", entry.ID, "flow carries both demand representations")
		case entry.VehsPerHour != "":
			flow.RateType = DEMAND_VEHS_PER_HOUR
			flow.VehsPerHour, err = parseFloatAttr("routes", "flow", "vehsPerHour", entry.VehsPerHour)
		case entry.Probability != "":
			flow.RateType = DEMAND_PROBABILITY
			flow.Probability, err = parseFloatAttr("routes", "flow", "probability", entry.Probability)
		default:
			return nil, newSerialization("routes", "flow", entry.ID, "flow carries no demand representation")
		}
		if err != nil {
			return nil, err
		}
		if _, err := dm.AddFlow(flow); err != nil {
			return nil, err
		}
	}
	return dm, nil
}

// ParseTrafficLights rebuilds a signal model from the traffic-light-program
// artifact. Controlled connections are re-derived from the network, so the
// stored programs are validated against the same structure they were
// computed for.
func ParseTrafficLights(signalsData []byte, net *NetworkModel) (*SignalModel, error) {
	doc := xmlTlLogics{}
	if err := xml.Unmarshal(signalsData, &doc); err != nil {
		return nil, errors.Wrap(err, "Can't parse traffic light document")
	}
	sm, err := NewSignalModel(net)
	if err != nil {
		return nil, err
	}
	for _, logic := range doc.Logics {
		tl := TrafficLight{
			NodeID:        NodeID(logic.ID),
			ProgramID:     logic.ProgramID,
			OffsetSeconds: logic.Offset,
		}
		for _, phase := range logic.Phases {
			tl.Phases = append(tl.Phases, Phase{
				DurationSeconds: phase.Duration,
				State:           phase.State,
				MinDurSeconds:   phase.MinDur,
				MaxDurSeconds:   phase.MaxDur,
				Name:            phase.Name,
			})
		}
		if err := sm.SetProgram(tl); err != nil {
			return nil, err
		}
	}
	return sm, nil
}

// ParseConfig reads the simulation horizon back from the master
// configuration artifact
func ParseConfig(configData []byte) (SimulationSettings, error) {
	doc := xmlConfiguration{}
	settings := SimulationSettings{}
	if err := xml.Unmarshal(configData, &doc); err != nil {
		return settings, errors.Wrap(err, "Can't parse configuration document")
	}
	var err error
	if settings.BeginSeconds, err = parseFloatAttr("configuration", "time", "begin", doc.Time.Begin.Value); err != nil {
		return settings, err
	}
	if settings.EndSeconds, err = parseFloatAttr("configuration", "time", "end", doc.Time.End.Value); err != nil {
		return settings, err
	}
	if settings.StepLengthSeconds, err = parseFloatAttr("configuration", "time", "step-length", doc.Time.StepLength.Value); err != nil {
		return settings, err
	}
	if doc.Processing.TimeToTeleport.Value != "" {
		settings.TimeToTeleportSeconds, err = strconv.Atoi(doc.Processing.TimeToTeleport.Value)
		if err != nil {
			return settings, newSerialization("configuration", "processing", doc.Processing.TimeToTeleport.Value, "attribute 'time-to-teleport' is not numeric")
		}
	}
	settings.IgnoreRouteErrors = doc.Processing.IgnoreRouteErrors != nil && doc.Processing.IgnoreRouteErrors.Value == "true"
	if doc.Output != nil {
		if doc.Output.Tripinfo != nil {
			settings.TripinfoOutput = doc.Output.Tripinfo.Value
		}
		if doc.Output.Summary != nil {
			settings.SummaryOutput = doc.Output.Summary.Value
		}
	}
	return settings, nil
}

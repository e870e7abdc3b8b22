package sumogen

import (
	"encoding/xml"
	"strings"

	"github.com/pkg/errors"
)

// Artifact is one rendered output file: its target name and content.
type Artifact struct {
	Name string
	Data []byte
}

// SimulationSettings are the horizon parameters of the master configuration
// artifact.
type SimulationSettings struct {
	BeginSeconds          float64
	EndSeconds            float64
	StepLengthSeconds     float64
	TimeToTeleportSeconds int // -1 disables teleporting
	IgnoreRouteErrors     bool
	TripinfoOutput        string
	SummaryOutput         string
}

func DefaultSimulationSettings() SimulationSettings {
	return SimulationSettings{
		BeginSeconds:          0,
		EndSeconds:            3600,
		StepLengthSeconds:     1.0,
		TimeToTeleportSeconds: -1,
		IgnoreRouteErrors:     true,
	}
}

func (settings SimulationSettings) validate() error {
	if settings.BeginSeconds < 0 {
		return newInvalidParameter("simulation.begin", "must be non-negative, got %f", settings.BeginSeconds)
	}
	if settings.BeginSeconds >= settings.EndSeconds {
		return newInvalidParameter("simulation.end", "must be greater than begin, got [%f, %f)", settings.BeginSeconds, settings.EndSeconds)
	}
	if settings.StepLengthSeconds <= 0 {
		return newInvalidParameter("simulation.stepLength", "must be positive, got %f", settings.StepLengthSeconds)
	}
	return nil
}

// SerializeScenario renders all five artifacts of a scenario: node, edge,
// route and traffic-light descriptions plus the master configuration
// referencing them. Serialization is a pure function of the three models;
// the same input always yields byte-identical output.
func SerializeScenario(name string, net *NetworkModel, dm *DemandModel, sm *SignalModel, settings SimulationSettings) ([]Artifact, error) {
	if err := checkWritableID("scenario", "scenario", name); err != nil {
		return nil, err
	}
	nodesData, err := SerializeNodes(net)
	if err != nil {
		return nil, err
	}
	edgesData, err := SerializeEdges(net)
	if err != nil {
		return nil, err
	}
	routesData, err := SerializeRoutes(dm)
	if err != nil {
		return nil, err
	}
	signalsData, err := SerializeTrafficLights(sm)
	if err != nil {
		return nil, err
	}
	configData, err := SerializeConfig(name, settings)
	if err != nil {
		return nil, err
	}
	return []Artifact{
		{Name: name + ".nod.xml", Data: nodesData},
		{Name: name + ".edg.xml", Data: edgesData},
		{Name: name + ".rou.xml", Data: routesData},
		{Name: name + ".tll.xml", Data: signalsData},
		{Name: name + ".sumocfg", Data: configData},
	}, nil
}

// SerializeNodes renders the node description artifact
func SerializeNodes(net *NetworkModel) ([]byte, error) {
	if !net.Validated() {
		return nil, newGraphIntegrity("network", "", "network must be validated before serialization")
	}
	doc := xmlNodes{}
	for _, node := range net.Nodes() {
		if err := checkWritableID("nodes", "node", string(node.ID)); err != nil {
			return nil, err
		}
		doc.Nodes = append(doc.Nodes, xmlNode{
			ID:         string(node.ID),
			X:          formatFloat(node.X),
			Y:          formatFloat(node.Y),
			Type:       node.Kind.String(),
			Standalone: node.Standalone,
		})
	}
	return marshalDocument("nodes", doc)
}

// SerializeEdges renders the edge description artifact
func SerializeEdges(net *NetworkModel) ([]byte, error) {
	if !net.Validated() {
		return nil, newGraphIntegrity("network", "", "network must be validated before serialization")
	}
	doc := xmlEdges{}
	for _, edge := range net.Edges() {
		if err := checkWritableID("edges", "edge", string(edge.ID)); err != nil {
			return nil, err
		}
		doc.Edges = append(doc.Edges, xmlEdge{
			ID:       string(edge.ID),
			From:     string(edge.Source),
			To:       string(edge.Target),
			NumLanes: edge.NumLanes,
			Speed:    formatFloat(edge.Speed),
			Priority: edge.Priority,
			Length:   formatFloat(edge.LengthMeters),
		})
	}
	return marshalDocument("edges", doc)
}

// SerializeRoutes renders the route/demand artifact with one entry per
// vehicle type and per flow
func SerializeRoutes(dm *DemandModel) ([]byte, error) {
	doc := xmlRoutes{}
	for _, vt := range dm.VehicleTypes() {
		if err := checkWritableID("routes", "vType", vt.ID); err != nil {
			return nil, err
		}
		doc.VehicleTypes = append(doc.VehicleTypes, xmlVehicleType{
			ID:            vt.ID,
			Length:        formatFloat(vt.LengthMeters),
			MinGap:        formatFloat(vt.MinGapMeters),
			MaxSpeed:      formatFloat(vt.MaxSpeed),
			Accel:         formatFloat(vt.Accel),
			Decel:         formatFloat(vt.Decel),
			Sigma:         formatFloat(vt.Sigma),
			Tau:           formatFloat(vt.Tau),
			VClass:        vt.VehicleClass,
			Color:         vt.Color,
			EmissionClass: vt.EmissionClass,
		})
	}
	for _, flow := range dm.Flows() {
		if err := checkWritableID("routes", "flow", flow.ID); err != nil {
			return nil, err
		}
		entry := xmlFlow{
			ID:    flow.ID,
			Type:  flow.VehicleTypeID,
			Begin: formatFloat(flow.BeginSeconds),
			End:   formatFloat(flow.EndSeconds),
			From:  string(flow.FromEdge),
			To:    string(flow.ToEdge),
		}
		switch flow.RateType {
		case DEMAND_VEHS_PER_HOUR:
			entry.VehsPerHour = formatFloat(flow.VehsPerHour)
		case DEMAND_PROBABILITY:
			entry.Probability = formatFloat(flow.Probability)
		default:
			return nil, newSerialization("routes", "flow", flow.ID, "flow carries no demand representation")
		}
		doc.Flows = append(doc.Flows, entry)
	}
	return marshalDocument("routes", doc)
}

// SerializeTrafficLights renders the traffic-light-program artifact: one
// program per controlled node plus its controlled connections
func SerializeTrafficLights(sm *SignalModel) ([]byte, error) {
	doc := xmlTlLogics{}
	for _, tl := range sm.Programs() {
		if err := checkWritableID("tlLogics", "tlLogic", string(tl.NodeID)); err != nil {
			return nil, err
		}
		logic := xmlTlLogic{
			ID:        string(tl.NodeID),
			Type:      "static",
			ProgramID: tl.ProgramID,
			Offset:    tl.OffsetSeconds,
		}
		for _, phase := range tl.Phases {
			logic.Phases = append(logic.Phases, xmlPhase{
				Duration: phase.DurationSeconds,
				State:    phase.State,
				MinDur:   phase.MinDurSeconds,
				MaxDur:   phase.MaxDurSeconds,
				Name:     phase.Name,
			})
		}
		doc.Logics = append(doc.Logics, logic)
		for i, connection := range sm.Connections(tl.NodeID) {
			doc.Connections = append(doc.Connections, xmlConnection{
				From:      string(connection.FromEdge),
				To:        string(connection.ToEdge),
				FromLane:  connection.FromLane,
				ToLane:    connection.ToLane,
				Tl:        string(tl.NodeID),
				LinkIndex: i,
			})
		}
	}
	return marshalDocument("tlLogics", doc)
}

// SerializeConfig renders the master configuration artifact referencing the
// four scenario files by name
func SerializeConfig(name string, settings SimulationSettings) ([]byte, error) {
	if err := settings.validate(); err != nil {
		return nil, err
	}
	doc := xmlConfiguration{
		Input: xmlConfigInput{
			NetFile:    xmlConfigValue{Value: name + ".net.xml"},
			RouteFiles: xmlConfigValue{Value: name + ".rou.xml"},
		},
		Time: xmlConfigTime{
			Begin:      xmlConfigValue{Value: formatFloat(settings.BeginSeconds)},
			End:        xmlConfigValue{Value: formatFloat(settings.EndSeconds)},
			StepLength: xmlConfigValue{Value: formatFloat(settings.StepLengthSeconds)},
		},
		Processing: xmlConfigProcessing{
			TimeToTeleport: xmlConfigValue{Value: formatInt(settings.TimeToTeleportSeconds)},
		},
	}
	if settings.IgnoreRouteErrors {
		doc.Processing.IgnoreRouteErrors = &xmlConfigValue{Value: "true"}
	}
	if settings.TripinfoOutput != "" || settings.SummaryOutput != "" {
		doc.Output = &xmlConfigOutput{}
		if settings.TripinfoOutput != "" {
			doc.Output.Tripinfo = &xmlConfigValue{Value: settings.TripinfoOutput}
		}
		if settings.SummaryOutput != "" {
			doc.Output.Summary = &xmlConfigValue{Value: settings.SummaryOutput}
		}
	}
	return marshalDocument("configuration", doc)
}

func marshalDocument(artifact string, doc interface{}) ([]byte, error) {
	body, err := xml.MarshalIndent(doc, "", "    ")
	if err != nil {
		return nil, errors.Wrapf(err, "Can't marshal %s document", artifact)
	}
	out := make([]byte, 0, len(xml.Header)+len(body)+1)
	out = append(out, []byte(xml.Header)...)
	out = append(out, body...)
	out = append(out, '\n')
	return out, nil
}

// checkWritableID rejects identifiers the output grammar can not carry:
// the engine uses whitespace and commas as list separators inside attribute
// values.
func checkWritableID(artifact, entity, id string) error {
	if id == "" {
		return newSerialization(artifact, entity, id, "identifier must not be empty")
	}
	if idx := strings.IndexFunc(id, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == ',' || r == ';' || r < 0x20
	}); idx >= 0 {
		return newSerialization(artifact, entity, id, "identifier contains character illegal in the output format at position %d", idx)
	}
	return nil
}

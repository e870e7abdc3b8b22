package sumogen

import (
	"bytes"
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/require"
)

// builds a full scenario: cross intersection, two flows, one fixed-split
// signal program
func buildScenario(t *testing.T) (*NetworkModel, *DemandModel, *SignalModel) {
	t.Helper()
	net, dm := crossDemand(t)
	_, err := dm.AddFlow(Flow{
		VehicleTypeID: "car",
		FromEdge:      "N2C",
		ToEdge:        "C2S",
		EndSeconds:    3600,
		RateType:      DEMAND_VEHS_PER_HOUR,
		VehsPerHour:   540,
	})
	require.NoError(t, err)
	_, err = dm.AddFlow(Flow{
		VehicleTypeID: "car",
		FromEdge:      "E2C",
		ToEdge:        "C2W",
		BeginSeconds:  600,
		EndSeconds:    1800,
		RateType:      DEMAND_PROBABILITY,
		Probability:   0.25,
	})
	require.NoError(t, err)

	sm, err := NewSignalModel(net)
	require.NoError(t, err)
	plan := &PhasePlan{
		CycleLengthSeconds: 60,
		GreenSeconds:       []int{12, 12, 12, 12},
		ClearanceSeconds:   []int{3, 3, 3, 3},
	}
	tl, err := sm.ProgramFromPlan("C", []EdgeID{"N2C", "S2C", "E2C", "W2C"}, plan)
	require.NoError(t, err)
	tl.OffsetSeconds = 15
	require.NoError(t, sm.SetProgram(tl))
	return net, dm, sm
}

func TestSerializeScenarioArtifacts(t *testing.T) {
	net, dm, sm := buildScenario(t)
	artifacts, err := SerializeScenario("demo", net, dm, sm, DefaultSimulationSettings())
	require.NoError(t, err)
	require.Len(t, artifacts, 5)

	names := make([]string, len(artifacts))
	for i, artifact := range artifacts {
		names[i] = artifact.Name
		require.NotEmpty(t, artifact.Data)
		require.True(t, bytes.HasPrefix(artifact.Data, []byte(xml.Header)))
		require.True(t, bytes.HasSuffix(artifact.Data, []byte("\n")))
	}
	require.Equal(t, []string{"demo.nod.xml", "demo.edg.xml", "demo.rou.xml", "demo.tll.xml", "demo.sumocfg"}, names)
}

func TestSerializeScenarioDeterministic(t *testing.T) {
	net, dm, sm := buildScenario(t)
	first, err := SerializeScenario("demo", net, dm, sm, DefaultSimulationSettings())
	require.NoError(t, err)
	second, err := SerializeScenario("demo", net, dm, sm, DefaultSimulationSettings())
	require.NoError(t, err)
	require.Equal(t, len(first), len(second))
	for i := range first {
		require.True(t, bytes.Equal(first[i].Data, second[i].Data), "artifact %s differs between runs", first[i].Name)
	}
}

func TestNetworkRoundTrip(t *testing.T) {
	net, _, _ := buildScenario(t)
	nodesData, err := SerializeNodes(net)
	require.NoError(t, err)
	edgesData, err := SerializeEdges(net)
	require.NoError(t, err)

	parsed, err := ParseNetwork(nodesData, edgesData)
	require.NoError(t, err)
	require.True(t, parsed.Validated())
	require.Len(t, parsed.Nodes(), len(net.Nodes()))
	require.Len(t, parsed.Edges(), len(net.Edges()))

	center, ok := parsed.Node("C")
	require.True(t, ok)
	require.Equal(t, NODE_TRAFFIC_LIGHT, center.Kind)
	edge, ok := parsed.Edge("N2C")
	require.True(t, ok)
	require.InDelta(t, 200.0, edge.LengthMeters, 1e-9)
	require.Equal(t, 2, edge.NumLanes)

	// reserializing the parsed model reproduces the artifacts byte for byte
	nodesAgain, err := SerializeNodes(parsed)
	require.NoError(t, err)
	require.True(t, bytes.Equal(nodesData, nodesAgain))
	edgesAgain, err := SerializeEdges(parsed)
	require.NoError(t, err)
	require.True(t, bytes.Equal(edgesData, edgesAgain))
}

func TestNetworkRoundTripKeepsStandaloneNodes(t *testing.T) {
	net := NewNetworkModel()
	require.NoError(t, net.AddNode(Node{ID: "a", Kind: NODE_PRIORITY}))
	require.NoError(t, net.AddNode(Node{ID: "b", X: 100, Kind: NODE_PRIORITY}))
	require.NoError(t, net.AddNode(Node{ID: "fixture", X: 50, Y: 50, Kind: NODE_DEAD_END, Standalone: true}))
	require.NoError(t, net.AddEdge(Edge{ID: "e", Source: "a", Target: "b", NumLanes: 1, Speed: 10}))
	require.NoError(t, net.Validate())

	nodesData, err := SerializeNodes(net)
	require.NoError(t, err)
	edgesData, err := SerializeEdges(net)
	require.NoError(t, err)

	parsed, err := ParseNetwork(nodesData, edgesData)
	require.NoError(t, err)
	fixture, ok := parsed.Node("fixture")
	require.True(t, ok)
	require.True(t, fixture.Standalone)

	nodesAgain, err := SerializeNodes(parsed)
	require.NoError(t, err)
	require.True(t, bytes.Equal(nodesData, nodesAgain))
}

func TestDemandRoundTrip(t *testing.T) {
	net, dm, _ := buildScenario(t)
	routesData, err := SerializeRoutes(dm)
	require.NoError(t, err)

	parsed, err := ParseDemand(routesData, net)
	require.NoError(t, err)
	require.Len(t, parsed.VehicleTypes(), 1)
	require.Len(t, parsed.Flows(), 2)

	flow, ok := parsed.Flow("flow_1")
	require.True(t, ok)
	require.Equal(t, DEMAND_PROBABILITY, flow.RateType)
	require.InDelta(t, 0.25, flow.Probability, 1e-9)
	require.InDelta(t, 600.0, flow.BeginSeconds, 1e-9)

	routesAgain, err := SerializeRoutes(parsed)
	require.NoError(t, err)
	require.True(t, bytes.Equal(routesData, routesAgain))
}

func TestTrafficLightsRoundTrip(t *testing.T) {
	net, _, sm := buildScenario(t)
	signalsData, err := SerializeTrafficLights(sm)
	require.NoError(t, err)

	parsed, err := ParseTrafficLights(signalsData, net)
	require.NoError(t, err)
	tl, ok := parsed.Program("C")
	require.True(t, ok)
	require.Equal(t, 60, tl.CycleLength())
	require.Equal(t, 15, tl.OffsetSeconds)
	require.Len(t, tl.Phases, 8)

	signalsAgain, err := SerializeTrafficLights(parsed)
	require.NoError(t, err)
	require.True(t, bytes.Equal(signalsData, signalsAgain))
}

func TestConfigRoundTrip(t *testing.T) {
	settings := DefaultSimulationSettings()
	settings.EndSeconds = 7200
	settings.StepLengthSeconds = 0.5
	settings.TripinfoOutput = "tripinfo.xml"
	settings.SummaryOutput = "summary.xml"

	configData, err := SerializeConfig("demo", settings)
	require.NoError(t, err)
	require.Contains(t, string(configData), "demo.net.xml")
	require.Contains(t, string(configData), "demo.rou.xml")

	parsed, err := ParseConfig(configData)
	require.NoError(t, err)
	require.Equal(t, settings, parsed)
}

func TestSerializeRejectsIllegalIdentifiers(t *testing.T) {
	net := NewNetworkModel()
	require.NoError(t, net.AddNode(Node{ID: "a b", Kind: NODE_PRIORITY}))
	require.NoError(t, net.AddNode(Node{ID: "c", Kind: NODE_PRIORITY}))
	require.NoError(t, net.AddEdge(Edge{ID: "e", Source: "a b", Target: "c", NumLanes: 1, Speed: 10, LengthMeters: 100}))
	require.NoError(t, net.Validate())

	_, err := SerializeNodes(net)
	require.Error(t, err)
	var serErr *SerializationError
	require.ErrorAs(t, err, &serErr)
	require.Equal(t, "nodes", serErr.Artifact)
	require.Equal(t, "a b", serErr.Value)

	net2, dm, sm := buildScenario(t)
	_, err = SerializeScenario("bad name", net2, dm, sm, DefaultSimulationSettings())
	require.ErrorAs(t, err, &serErr)
}

func TestSerializeRequiresValidation(t *testing.T) {
	net := NewNetworkModel()
	require.NoError(t, net.AddNode(Node{ID: "a", Kind: NODE_PRIORITY}))
	require.NoError(t, net.AddNode(Node{ID: "b", Kind: NODE_PRIORITY}))
	require.NoError(t, net.AddEdge(Edge{ID: "e", Source: "a", Target: "b", NumLanes: 1, Speed: 10, LengthMeters: 100}))

	_, err := SerializeNodes(net)
	require.Error(t, err)
	_, err = SerializeEdges(net)
	require.Error(t, err)
}

func TestSerializeConfigValidation(t *testing.T) {
	settings := DefaultSimulationSettings()
	settings.EndSeconds = 0
	_, err := SerializeConfig("demo", settings)
	require.Error(t, err)

	settings = DefaultSimulationSettings()
	settings.StepLengthSeconds = 0
	_, err = SerializeConfig("demo", settings)
	require.Error(t, err)
}

package sumogen

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddNodeRejectsDuplicates(t *testing.T) {
	net := NewNetworkModel()
	require.NoError(t, net.AddNode(Node{ID: "a", Kind: NODE_PRIORITY}))
	err := net.AddNode(Node{ID: "a", Kind: NODE_DEAD_END})
	require.Error(t, err)
	var integrity *GraphIntegrityError
	require.ErrorAs(t, err, &integrity)
	require.Equal(t, "node", integrity.Entity)
	require.Equal(t, "a", integrity.ID)
}

func TestAddNodeRejectsUndefinedKind(t *testing.T) {
	net := NewNetworkModel()
	require.Error(t, net.AddNode(Node{ID: "a"}))
	require.Error(t, net.AddNode(Node{Kind: NODE_PRIORITY}))
}

func TestAddEdgeBounds(t *testing.T) {
	net := NewNetworkModel()
	require.NoError(t, net.AddNode(Node{ID: "a", Kind: NODE_PRIORITY}))
	require.NoError(t, net.AddNode(Node{ID: "b", Kind: NODE_PRIORITY}))

	require.Error(t, net.AddEdge(Edge{ID: "e", Source: "a", Target: "a", NumLanes: 1, Speed: 10}))
	require.Error(t, net.AddEdge(Edge{ID: "e", Source: "a", Target: "b", NumLanes: 0, Speed: 10}))
	require.Error(t, net.AddEdge(Edge{ID: "e", Source: "a", Target: "b", NumLanes: 1, Speed: 0}))
	require.Error(t, net.AddEdge(Edge{ID: "e", Source: "a", Target: "b", NumLanes: 1, Speed: 10, LengthMeters: -5}))

	require.NoError(t, net.AddEdge(Edge{ID: "e", Source: "a", Target: "b", NumLanes: 1, Speed: 10, LengthMeters: 100}))
	err := net.AddEdge(Edge{ID: "e", Source: "b", Target: "a", NumLanes: 1, Speed: 10, LengthMeters: 100})
	var integrity *GraphIntegrityError
	require.ErrorAs(t, err, &integrity)
	require.Equal(t, "edge", integrity.Entity)
}

func TestAddEdgeDerivesLength(t *testing.T) {
	net := NewNetworkModel()
	require.NoError(t, net.AddNode(Node{ID: "a", X: 0, Y: 0, Kind: NODE_PRIORITY}))
	require.NoError(t, net.AddNode(Node{ID: "b", X: 300, Y: 400, Kind: NODE_PRIORITY}))
	require.NoError(t, net.AddEdge(Edge{ID: "e", Source: "a", Target: "b", NumLanes: 1, Speed: 10}))

	edge, ok := net.Edge("e")
	require.True(t, ok)
	require.InDelta(t, 500.0, edge.LengthMeters, 1e-9)
	require.InDelta(t, 50.0, edge.travelTimeSeconds(), 1e-9)
}

func TestValidateDanglingReference(t *testing.T) {
	net := NewNetworkModel()
	require.NoError(t, net.AddNode(Node{ID: "a", Kind: NODE_PRIORITY}))
	require.NoError(t, net.AddEdge(Edge{ID: "e", Source: "a", Target: "ghost", NumLanes: 1, Speed: 10, LengthMeters: 100}))

	err := net.Validate()
	require.Error(t, err)
	var integrity *GraphIntegrityError
	require.ErrorAs(t, err, &integrity)
	require.Equal(t, "edge", integrity.Entity)
	require.Equal(t, "e", integrity.ID)
	require.False(t, net.Validated())
}

func TestValidateIsolatedNode(t *testing.T) {
	net := NewNetworkModel()
	require.NoError(t, net.AddNode(Node{ID: "a", Kind: NODE_PRIORITY}))
	require.NoError(t, net.AddNode(Node{ID: "b", Kind: NODE_PRIORITY}))
	require.NoError(t, net.AddNode(Node{ID: "lonely", Kind: NODE_PRIORITY}))
	require.NoError(t, net.AddEdge(Edge{ID: "e", Source: "a", Target: "b", NumLanes: 1, Speed: 10, LengthMeters: 100}))

	err := net.Validate()
	var integrity *GraphIntegrityError
	require.ErrorAs(t, err, &integrity)
	require.Equal(t, "lonely", integrity.ID)
}

func TestValidateStandaloneNodeAllowed(t *testing.T) {
	net := NewNetworkModel()
	require.NoError(t, net.AddNode(Node{ID: "a", Kind: NODE_PRIORITY}))
	require.NoError(t, net.AddNode(Node{ID: "b", Kind: NODE_PRIORITY}))
	require.NoError(t, net.AddNode(Node{ID: "poi", Kind: NODE_DEAD_END, Standalone: true}))
	require.NoError(t, net.AddEdge(Edge{ID: "e", Source: "a", Target: "b", NumLanes: 1, Speed: 10, LengthMeters: 100}))

	require.NoError(t, net.Validate())
	require.True(t, net.Validated())
}

func TestValidatedResetsOnChange(t *testing.T) {
	net := NewNetworkModel()
	require.NoError(t, net.AddNode(Node{ID: "a", Kind: NODE_PRIORITY}))
	require.NoError(t, net.AddNode(Node{ID: "b", Kind: NODE_PRIORITY}))
	require.NoError(t, net.AddEdge(Edge{ID: "e", Source: "a", Target: "b", NumLanes: 1, Speed: 10, LengthMeters: 100}))
	require.NoError(t, net.Validate())
	require.True(t, net.Validated())

	require.NoError(t, net.AddNode(Node{ID: "c", Kind: NODE_PRIORITY}))
	require.False(t, net.Validated())
}

func TestInsertionOrderPreserved(t *testing.T) {
	net := NewNetworkModel()
	ids := []NodeID{"z", "a", "m", "b"}
	for _, id := range ids {
		require.NoError(t, net.AddNode(Node{ID: id, Kind: NODE_PRIORITY, Standalone: true}))
	}
	nodes := net.Nodes()
	require.Len(t, nodes, len(ids))
	for i, node := range nodes {
		require.Equal(t, ids[i], node.ID)
	}
}

func TestIncomingOutcomingEdges(t *testing.T) {
	net, err := CreateNetwork(DefaultCrossIntersectionConfig())
	require.NoError(t, err)

	incoming := net.incomingEdges("C")
	require.Len(t, incoming, 4)
	require.Equal(t, EdgeID("N2C"), incoming[0].ID)
	require.Equal(t, EdgeID("S2C"), incoming[1].ID)
	require.Equal(t, EdgeID("E2C"), incoming[2].ID)
	require.Equal(t, EdgeID("W2C"), incoming[3].ID)

	outcoming := net.outcomingEdges("C")
	require.Len(t, outcoming, 4)
	require.Equal(t, EdgeID("C2N"), outcoming[0].ID)
}

func TestNodeKindString(t *testing.T) {
	require.Equal(t, "priority", NODE_PRIORITY.String())
	require.Equal(t, "traffic_light", NODE_TRAFFIC_LIGHT.String())
	require.Equal(t, "dead_end", NODE_DEAD_END.String())
	require.Equal(t, "undefined", NODE_UNDEFINED.String())
}

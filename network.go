package sumogen

import (
	"github.com/paulmach/orb/planar"
)

// NetworkModel holds nodes and edges of one generated road network.
// It is append-only: entities can be added but never removed or mutated.
// Validate() must be called (and succeed) before the model is handed to
// DemandModel, SignalModel or the serializer.
type NetworkModel struct {
	nodes map[NodeID]*Node
	edges map[EdgeID]*Edge

	// Insertion order is kept so every export is byte-reproducible.
	nodesOrder []NodeID
	edgesOrder []EdgeID

	validated bool
}

func NewNetworkModel() *NetworkModel {
	return &NetworkModel{
		nodes: make(map[NodeID]*Node),
		edges: make(map[EdgeID]*Edge),
	}
}

// AddNode appends a node to the model. Duplicate identifiers are rejected
// immediately rather than at validation time.
func (net *NetworkModel) AddNode(node Node) error {
	if node.ID == "" {
		return newInvalidParameter("node.id", "must be a non-empty string")
	}
	if node.Kind == NODE_UNDEFINED {
		return newInvalidParameter("node.kind", "node '%s' has undefined kind", node.ID)
	}
	if _, ok := net.nodes[node.ID]; ok {
		return newGraphIntegrity("node", string(node.ID), "duplicate node identifier")
	}
	net.nodes[node.ID] = &node
	net.nodesOrder = append(net.nodesOrder, node.ID)
	net.validated = false
	return nil
}

// AddEdge appends an edge to the model. Numeric bounds are checked here;
// referential integrity is checked by Validate(). When LengthMeters is zero
// it is derived from the planar distance between the endpoint nodes.
func (net *NetworkModel) AddEdge(edge Edge) error {
	if edge.ID == "" {
		return newInvalidParameter("edge.id", "must be a non-empty string")
	}
	if edge.Source == edge.Target {
		return newInvalidParameter("edge.target", "edge '%s' can not connect node '%s' to itself", edge.ID, edge.Source)
	}
	if edge.NumLanes < 1 {
		return newInvalidParameter("edge.numLanes", "edge '%s' must have at least 1 lane, got %d", edge.ID, edge.NumLanes)
	}
	if edge.Speed <= 0 {
		return newInvalidParameter("edge.speed", "edge '%s' must have positive speed, got %f", edge.ID, edge.Speed)
	}
	if edge.LengthMeters < 0 {
		return newInvalidParameter("edge.length", "edge '%s' must have positive length, got %f", edge.ID, edge.LengthMeters)
	}
	if _, ok := net.edges[edge.ID]; ok {
		return newGraphIntegrity("edge", string(edge.ID), "duplicate edge identifier")
	}
	if edge.LengthMeters == 0 {
		source, okSource := net.nodes[edge.Source]
		target, okTarget := net.nodes[edge.Target]
		if okSource && okTarget {
			edge.LengthMeters = planar.Distance(source.geom(), target.geom())
		}
	}
	if edge.LengthMeters <= 0 {
		return newInvalidParameter("edge.length", "edge '%s' must have positive length", edge.ID)
	}
	net.edges[edge.ID] = &edge
	net.edgesOrder = append(net.edgesOrder, edge.ID)
	net.validated = false
	return nil
}

// Validate checks referential integrity of the whole model: every edge must
// reference existing nodes and every node must be touched by at least one
// edge unless it is marked standalone. The first violation found (in
// insertion order) is returned.
func (net *NetworkModel) Validate() error {
	touched := make(map[NodeID]struct{}, len(net.nodes))
	for _, edgeID := range net.edgesOrder {
		edge := net.edges[edgeID]
		if _, ok := net.nodes[edge.Source]; !ok {
			return newGraphIntegrity("edge", string(edge.ID), "source node '%s' does not exist", edge.Source)
		}
		if _, ok := net.nodes[edge.Target]; !ok {
			return newGraphIntegrity("edge", string(edge.ID), "target node '%s' does not exist", edge.Target)
		}
		touched[edge.Source] = struct{}{}
		touched[edge.Target] = struct{}{}
	}
	for _, nodeID := range net.nodesOrder {
		node := net.nodes[nodeID]
		if node.Standalone {
			continue
		}
		if _, ok := touched[nodeID]; !ok {
			return newGraphIntegrity("node", string(nodeID), "node is not connected to any edge")
		}
	}
	net.validated = true
	return nil
}

// Validated reports whether the model passed Validate() since the last
// structural change.
func (net *NetworkModel) Validated() bool {
	return net.validated
}

// Node returns the node for given identifier
func (net *NetworkModel) Node(id NodeID) (*Node, bool) {
	node, ok := net.nodes[id]
	return node, ok
}

// Edge returns the edge for given identifier
func (net *NetworkModel) Edge(id EdgeID) (*Edge, bool) {
	edge, ok := net.edges[id]
	return edge, ok
}

// Nodes returns all nodes in insertion order
func (net *NetworkModel) Nodes() []*Node {
	nodes := make([]*Node, len(net.nodesOrder))
	for i, id := range net.nodesOrder {
		nodes[i] = net.nodes[id]
	}
	return nodes
}

// Edges returns all edges in insertion order
func (net *NetworkModel) Edges() []*Edge {
	edges := make([]*Edge, len(net.edgesOrder))
	for i, id := range net.edgesOrder {
		edges[i] = net.edges[id]
	}
	return edges
}

// incomingEdges returns edges entering given node in insertion order
func (net *NetworkModel) incomingEdges(nodeID NodeID) []*Edge {
	incoming := []*Edge{}
	for _, edgeID := range net.edgesOrder {
		if net.edges[edgeID].Target == nodeID {
			incoming = append(incoming, net.edges[edgeID])
		}
	}
	return incoming
}

// outcomingEdges returns edges leaving given node in insertion order
func (net *NetworkModel) outcomingEdges(nodeID NodeID) []*Edge {
	outcoming := []*Edge{}
	for _, edgeID := range net.edgesOrder {
		if net.edges[edgeID].Source == nodeID {
			outcoming = append(outcoming, net.edges[edgeID])
		}
	}
	return outcoming
}

package sumogen

import (
	"github.com/LdDl/ch"
	"github.com/pkg/errors"
)

// Router answers reachability and free-flow travel time queries on a
// validated network. Edge traversal cost is length divided by speed limit,
// in seconds. Queries are read-only and safe to run concurrently once the
// router is built.
type Router struct {
	graph ch.Graph

	vertexByNode map[NodeID]int64
	nodeByVertex map[int64]NodeID
	// First edge added between an ordered node pair wins; parallel edges do
	// not occur in generated templates.
	edgeByPair map[[2]NodeID]EdgeID
}

// NewRouter builds the routing graph and prepares contraction hierarchies
// so repeated queries stay cheap.
func NewRouter(net *NetworkModel) (*Router, error) {
	if !net.Validated() {
		return nil, newGraphIntegrity("network", "", "network must be validated before routing")
	}
	router := &Router{
		vertexByNode: make(map[NodeID]int64),
		nodeByVertex: make(map[int64]NodeID),
		edgeByPair:   make(map[[2]NodeID]EdgeID),
	}
	for i, node := range net.Nodes() {
		vertex := int64(i)
		if err := router.graph.CreateVertex(vertex); err != nil {
			return nil, errors.Wrapf(err, "Can't create vertex for node '%s'", node.ID)
		}
		router.vertexByNode[node.ID] = vertex
		router.nodeByVertex[vertex] = node.ID
	}
	for _, edge := range net.Edges() {
		source := router.vertexByNode[edge.Source]
		target := router.vertexByNode[edge.Target]
		if err := router.graph.AddEdge(source, target, edge.travelTimeSeconds()); err != nil {
			return nil, errors.Wrapf(err, "Can't add routing edge '%s'", edge.ID)
		}
		pair := [2]NodeID{edge.Source, edge.Target}
		if _, ok := router.edgeByPair[pair]; !ok {
			router.edgeByPair[pair] = edge.ID
		}
	}
	router.graph.PrepareContractionHierarchies()
	return router, nil
}

// Route returns free-flow travel time in seconds and the traversed edges
// between two nodes. A route from a node to itself is empty with zero cost.
func (router *Router) Route(from, to NodeID) (float64, []EdgeID, error) {
	source, ok := router.vertexByNode[from]
	if !ok {
		return 0, nil, newGraphIntegrity("node", string(from), "node is unknown to the router")
	}
	target, ok := router.vertexByNode[to]
	if !ok {
		return 0, nil, newGraphIntegrity("node", string(to), "node is unknown to the router")
	}
	if source == target {
		return 0, []EdgeID{}, nil
	}
	cost, vertices := router.graph.ShortestPath(source, target)
	if cost < 0 || len(vertices) < 2 {
		return 0, nil, newGraphIntegrity("node", string(from), "no route towards node '%s'", to)
	}
	edges := make([]EdgeID, 0, len(vertices)-1)
	for i := 1; i < len(vertices); i++ {
		pair := [2]NodeID{router.nodeByVertex[vertices[i-1]], router.nodeByVertex[vertices[i]]}
		edgeID, ok := router.edgeByPair[pair]
		if !ok {
			return 0, nil, newGraphIntegrity("node", string(pair[0]), "shortest path crosses unknown edge towards node '%s'", pair[1])
		}
		edges = append(edges, edgeID)
	}
	return cost, edges, nil
}

// FlowRoute resolves the full edge sequence of a flow: origin edge, the
// shortest connection between origin target and destination source, then the
// destination edge.
func (router *Router) FlowRoute(net *NetworkModel, flow *Flow) (float64, []EdgeID, error) {
	origin, ok := net.Edge(flow.FromEdge)
	if !ok {
		return 0, nil, newGraphIntegrity("flow", flow.ID, "origin edge '%s' does not exist in the network", flow.FromEdge)
	}
	destination, ok := net.Edge(flow.ToEdge)
	if !ok {
		return 0, nil, newGraphIntegrity("flow", flow.ID, "destination edge '%s' does not exist in the network", flow.ToEdge)
	}
	cost, between, err := router.Route(origin.Target, destination.Source)
	if err != nil {
		return 0, nil, errors.Wrapf(err, "flow '%s' is not routable", flow.ID)
	}
	edges := make([]EdgeID, 0, len(between)+2)
	edges = append(edges, origin.ID)
	edges = append(edges, between...)
	edges = append(edges, destination.ID)
	total := origin.travelTimeSeconds() + cost + destination.travelTimeSeconds()
	return total, edges, nil
}

// ValidateFlows checks that every flow of the demand model has a routable
// origin-destination connection.
func (router *Router) ValidateFlows(dm *DemandModel) error {
	for _, flow := range dm.Flows() {
		if _, _, err := router.FlowRoute(dm.Network(), flow); err != nil {
			return err
		}
	}
	return nil
}

// ChainTravelTimes returns free-flow travel times between consecutive nodes
// of an intersection chain, as the Coordinator expects them.
func (router *Router) ChainTravelTimes(chain []NodeID) ([]float64, error) {
	if len(chain) < 2 {
		return nil, newInvalidParameter("chain", "must contain at least 2 intersections, got %d", len(chain))
	}
	times := make([]float64, len(chain)-1)
	for i := 1; i < len(chain); i++ {
		cost, _, err := router.Route(chain[i-1], chain[i])
		if err != nil {
			return nil, err
		}
		times[i-1] = cost
	}
	return times, nil
}

package sumogen

import (
	"github.com/paulmach/orb/encoding/wkt"
)

// PrepareWKTEdge returns WKT representation of an edge geometry
func PrepareWKTEdge(net *NetworkModel, edge *Edge) string {
	geom := edge.geom(net)
	if geom == nil {
		return ""
	}
	return wkt.MarshalString(geom)
}

// PrepareWKTNode returns WKT representation of a node geometry
func PrepareWKTNode(node *Node) string {
	return wkt.MarshalString(node.geom())
}

package sumogen

import (
	"github.com/paulmach/orb"
)

/* Nodes stuff */

type NodeID string

type NodeKind uint16

const (
	NODE_PRIORITY = NodeKind(iota + 1)
	NODE_RIGHT_BEFORE_LEFT
	NODE_TRAFFIC_LIGHT
	NODE_DEAD_END
	NODE_UNDEFINED = NodeKind(0)
)

func (iotaIdx NodeKind) String() string {
	return [...]string{"undefined", "priority", "right_before_left", "traffic_light", "dead_end"}[iotaIdx]
}

var nodeKindTxt = map[string]NodeKind{
	"priority":          NODE_PRIORITY,
	"right_before_left": NODE_RIGHT_BEFORE_LEFT,
	"traffic_light":     NODE_TRAFFIC_LIGHT,
	"dead_end":          NODE_DEAD_END,
}

// Node is a junction (or dead end) of the road network. Coordinates are
// planar meters. Nodes are created by template builders and are not mutated
// afterwards; structural changes require rebuilding the template.
type Node struct {
	ID   NodeID
	X    float64
	Y    float64
	Kind NodeKind
	// Standalone marks a fixture which is allowed to have no incident edges.
	Standalone bool
}

func (node *Node) geom() orb.Point {
	return orb.Point{node.X, node.Y}
}

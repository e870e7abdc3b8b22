package sumogen

import (
	"github.com/paulmach/orb"
)

/* Edges stuff */

type EdgeID string

// Edge is a directed road segment between two nodes. Speed is in m/s,
// length in meters. Like nodes, edges are immutable once added.
type Edge struct {
	ID           EdgeID
	Source       NodeID
	Target       NodeID
	LengthMeters float64
	NumLanes     int
	Speed        float64
	Priority     int
}

// travelTimeSeconds returns free-flow traversal time of the edge
func (edge *Edge) travelTimeSeconds() float64 {
	return edge.LengthMeters / edge.Speed
}

func (edge *Edge) geom(net *NetworkModel) orb.LineString {
	source, okSource := net.Node(edge.Source)
	target, okTarget := net.Node(edge.Target)
	if !okSource || !okTarget {
		return nil
	}
	return orb.LineString{source.geom(), target.geom()}
}

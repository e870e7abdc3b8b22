package sumogen

import (
	"strings"
)

/* Traffic signals stuff */

// Indication characters use the simulation engine's state alphabet.
const (
	INDICATION_GREEN       = 'G'
	INDICATION_GREEN_RIGHT = 'g'
	INDICATION_YELLOW      = 'y'
	INDICATION_RED         = 'r'
)

const indicationAlphabet = "Ggyr"

// Connection is one lane-to-lane movement through a controlled node. The
// position of a connection in the node's connection list fixes which
// character of a phase state string applies to it.
type Connection struct {
	FromEdge EdgeID
	ToEdge   EdgeID
	FromLane int
	ToLane   int
}

// Phase is one fixed-duration interval of a signal program. State carries
// exactly one indication character per controlled connection.
type Phase struct {
	DurationSeconds int
	State           string
	MinDurSeconds   int
	MaxDurSeconds   int
	Name            string
}

// TrafficLight is a complete signal program owned by one traffic-light node.
type TrafficLight struct {
	NodeID        NodeID
	ProgramID     string
	OffsetSeconds int
	Phases        []Phase
}

// CycleLength returns the sum of all phase durations
func (tl *TrafficLight) CycleLength() int {
	cycle := 0
	for i := range tl.Phases {
		cycle += tl.Phases[i].DurationSeconds
	}
	return cycle
}

// SignalModel holds signal programs per controlled node of one validated
// network, together with the derived controlled connections. Programs are
// replaced wholesale, never patched, so a stored program always satisfies
// its invariants.
type SignalModel struct {
	net *NetworkModel

	lights      map[NodeID]*TrafficLight
	lightsOrder []NodeID

	connections map[NodeID][]Connection
}

// NewSignalModel derives controlled connections for every traffic-light
// node of the network.
func NewSignalModel(net *NetworkModel) (*SignalModel, error) {
	if net == nil {
		return nil, newInvalidParameter("network", "must not be nil")
	}
	if !net.Validated() {
		return nil, newGraphIntegrity("network", "", "network must be validated before signals are attached")
	}
	sm := &SignalModel{
		net:         net,
		lights:      make(map[NodeID]*TrafficLight),
		connections: make(map[NodeID][]Connection),
	}
	for _, node := range net.Nodes() {
		if node.Kind != NODE_TRAFFIC_LIGHT {
			continue
		}
		sm.connections[node.ID] = deriveConnections(net, node.ID)
	}
	return sm, nil
}

// deriveConnections enumerates lane movements at a node in deterministic
// order: incoming edges by insertion order, then outgoing edges by insertion
// order (U-turns skipped), then lanes ascending.
func deriveConnections(net *NetworkModel, nodeID NodeID) []Connection {
	connections := []Connection{}
	for _, incoming := range net.incomingEdges(nodeID) {
		for _, outcoming := range net.outcomingEdges(nodeID) {
			if outcoming.Target == incoming.Source {
				// U-turn back into the approach
				continue
			}
			for lane := 0; lane < incoming.NumLanes; lane++ {
				toLane := lane
				if toLane >= outcoming.NumLanes {
					toLane = outcoming.NumLanes - 1
				}
				connections = append(connections, Connection{
					FromEdge: incoming.ID,
					ToEdge:   outcoming.ID,
					FromLane: lane,
					ToLane:   toLane,
				})
			}
		}
	}
	return connections
}

// Network returns the network the signals are attached to
func (sm *SignalModel) Network() *NetworkModel {
	return sm.net
}

// Connections returns controlled connections of given traffic-light node
func (sm *SignalModel) Connections(nodeID NodeID) []Connection {
	return sm.connections[nodeID]
}

// ControlledNodes returns all traffic-light node identifiers in network
// insertion order
func (sm *SignalModel) ControlledNodes() []NodeID {
	controlled := []NodeID{}
	for _, node := range sm.net.Nodes() {
		if node.Kind == NODE_TRAFFIC_LIGHT {
			controlled = append(controlled, node.ID)
		}
	}
	return controlled
}

// SetProgram validates and stores a signal program, replacing any previous
// program of the same node wholesale.
func (sm *SignalModel) SetProgram(tl TrafficLight) error {
	node, ok := sm.net.Node(tl.NodeID)
	if !ok {
		return newGraphIntegrity("trafficLight", string(tl.NodeID), "owning node does not exist in the network")
	}
	if node.Kind != NODE_TRAFFIC_LIGHT {
		return newInvalidParameter("trafficLight.node", "node '%s' has kind '%s', signal programs require 'traffic_light'", node.ID, node.Kind)
	}
	if len(tl.Phases) == 0 {
		return newInvalidParameter("trafficLight.phases", "program of node '%s' must contain at least one phase", node.ID)
	}
	if tl.ProgramID == "" {
		tl.ProgramID = "0"
	}
	connections := sm.connections[tl.NodeID]
	for i := range tl.Phases {
		phase := &tl.Phases[i]
		if phase.DurationSeconds <= 0 {
			return newInvalidParameter("phase.duration", "phase %d of node '%s' must have positive duration, got %d", i, node.ID, phase.DurationSeconds)
		}
		if len(phase.State) != len(connections) {
			return newInvalidParameter("phase.state", "phase %d of node '%s' must cover %d connections, got %d indications", i, node.ID, len(connections), len(phase.State))
		}
		if invalid := strings.IndexFunc(phase.State, func(r rune) bool {
			return !strings.ContainsRune(indicationAlphabet, r)
		}); invalid >= 0 {
			return newInvalidParameter("phase.state", "phase %d of node '%s' contains indication '%c' outside alphabet '%s'", i, node.ID, phase.State[invalid], indicationAlphabet)
		}
	}
	cycle := tl.CycleLength()
	if tl.OffsetSeconds < 0 || tl.OffsetSeconds >= cycle {
		return newInvalidParameter("trafficLight.offset", "offset of node '%s' must be within [0, %d), got %d", node.ID, cycle, tl.OffsetSeconds)
	}
	if _, ok := sm.lights[tl.NodeID]; !ok {
		sm.lightsOrder = append(sm.lightsOrder, tl.NodeID)
	}
	sm.lights[tl.NodeID] = &tl
	return nil
}

// Program returns the signal program of given node
func (sm *SignalModel) Program(nodeID NodeID) (*TrafficLight, bool) {
	tl, ok := sm.lights[nodeID]
	return tl, ok
}

// Programs returns all signal programs in insertion order
func (sm *SignalModel) Programs() []*TrafficLight {
	programs := make([]*TrafficLight, len(sm.lightsOrder))
	for i, id := range sm.lightsOrder {
		programs[i] = sm.lights[id]
	}
	return programs
}

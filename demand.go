package sumogen

import (
	"fmt"
)

// DemandModel holds vehicle types and flows bound to one validated network.
// Entities are replaced wholesale by identifier, never mutated in place.
type DemandModel struct {
	net *NetworkModel

	vehicleTypes map[string]*VehicleType
	flows        map[string]*Flow

	vehicleTypesOrder []string
	flowsOrder        []string

	flowSeq int
}

// NewDemandModel binds a demand model to a network. The network must have
// passed validation so flow endpoint checks are meaningful.
func NewDemandModel(net *NetworkModel) (*DemandModel, error) {
	if net == nil {
		return nil, newInvalidParameter("network", "must not be nil")
	}
	if !net.Validated() {
		return nil, newGraphIntegrity("network", "", "network must be validated before demand is attached")
	}
	return &DemandModel{
		net:          net,
		vehicleTypes: make(map[string]*VehicleType),
		flows:        make(map[string]*Flow),
	}, nil
}

// Network returns the network the demand is bound to
func (dm *DemandModel) Network() *NetworkModel {
	return dm.net
}

// AddVehicleType validates and stores a vehicle type. An existing type with
// the same identifier is replaced.
func (dm *DemandModel) AddVehicleType(vt VehicleType) error {
	if err := vt.validate(); err != nil {
		return err
	}
	if _, ok := dm.vehicleTypes[vt.ID]; !ok {
		dm.vehicleTypesOrder = append(dm.vehicleTypesOrder, vt.ID)
	}
	dm.vehicleTypes[vt.ID] = &vt
	return nil
}

// AddFlow validates and stores a flow, assigning a sequential identifier
// ("flow_0", "flow_1", ...) when the flow carries none. An existing flow
// with the same identifier is replaced. Returns the stored identifier.
func (dm *DemandModel) AddFlow(flow Flow) (string, error) {
	if flow.ID == "" {
		// Skip identifiers already taken by explicitly named flows
		for {
			flow.ID = fmt.Sprintf("flow_%d", dm.flowSeq)
			if _, ok := dm.flows[flow.ID]; !ok {
				break
			}
			dm.flowSeq++
		}
	}
	if err := flow.validate(); err != nil {
		return "", err
	}
	if _, ok := dm.vehicleTypes[flow.VehicleTypeID]; !ok {
		return "", newInvalidParameter("flow.type", "flow '%s' references unknown vehicle type '%s'", flow.ID, flow.VehicleTypeID)
	}
	if _, ok := dm.net.Edge(flow.FromEdge); !ok {
		return "", newGraphIntegrity("flow", flow.ID, "origin edge '%s' does not exist in the network", flow.FromEdge)
	}
	if _, ok := dm.net.Edge(flow.ToEdge); !ok {
		return "", newGraphIntegrity("flow", flow.ID, "destination edge '%s' does not exist in the network", flow.ToEdge)
	}
	if _, ok := dm.flows[flow.ID]; !ok {
		dm.flowsOrder = append(dm.flowsOrder, flow.ID)
		dm.flowSeq++
	}
	dm.flows[flow.ID] = &flow
	return flow.ID, nil
}

// VehicleType returns the vehicle type for given identifier
func (dm *DemandModel) VehicleType(id string) (*VehicleType, bool) {
	vt, ok := dm.vehicleTypes[id]
	return vt, ok
}

// Flow returns the flow for given identifier
func (dm *DemandModel) Flow(id string) (*Flow, bool) {
	flow, ok := dm.flows[id]
	return flow, ok
}

// VehicleTypes returns all vehicle types in insertion order
func (dm *DemandModel) VehicleTypes() []*VehicleType {
	types := make([]*VehicleType, len(dm.vehicleTypesOrder))
	for i, id := range dm.vehicleTypesOrder {
		types[i] = dm.vehicleTypes[id]
	}
	return types
}

// Flows returns all flows in insertion order
func (dm *DemandModel) Flows() []*Flow {
	flows := make([]*Flow, len(dm.flowsOrder))
	for i, id := range dm.flowsOrder {
		flows[i] = dm.flows[id]
	}
	return flows
}

package sumogen

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func crossDemand(t *testing.T) (*NetworkModel, *DemandModel) {
	t.Helper()
	net, err := CreateNetwork(DefaultCrossIntersectionConfig())
	require.NoError(t, err)
	dm, err := NewDemandModel(net)
	require.NoError(t, err)
	require.NoError(t, dm.AddVehicleType(DefaultPassengerCar()))
	return net, dm
}

func TestNewDemandModelRequiresValidatedNetwork(t *testing.T) {
	_, err := NewDemandModel(nil)
	require.Error(t, err)

	net := NewNetworkModel()
	_, err = NewDemandModel(net)
	var integrity *GraphIntegrityError
	require.ErrorAs(t, err, &integrity)
}

func TestAddVehicleTypeValidation(t *testing.T) {
	_, dm := crossDemand(t)

	vt := DefaultPassengerCar()
	vt.LengthMeters = -1
	require.Error(t, dm.AddVehicleType(vt))

	vt = DefaultPassengerCar()
	vt.Sigma = 1.5
	require.Error(t, dm.AddVehicleType(vt))

	vt = DefaultPassengerCar()
	vt.ID = ""
	require.Error(t, dm.AddVehicleType(vt))
}

func TestAddVehicleTypeReplaces(t *testing.T) {
	_, dm := crossDemand(t)
	vt := DefaultPassengerCar()
	vt.MaxSpeed = 33.0
	require.NoError(t, dm.AddVehicleType(vt))

	require.Len(t, dm.VehicleTypes(), 1)
	stored, ok := dm.VehicleType(vt.ID)
	require.True(t, ok)
	require.InDelta(t, 33.0, stored.MaxSpeed, 1e-9)
}

func TestAddFlowAssignsSequentialIDs(t *testing.T) {
	_, dm := crossDemand(t)
	car := DefaultPassengerCar()

	first, err := dm.AddFlow(Flow{
		VehicleTypeID: car.ID,
		FromEdge:      "N2C",
		ToEdge:        "C2S",
		EndSeconds:    3600,
		RateType:      DEMAND_VEHS_PER_HOUR,
		VehsPerHour:   400,
	})
	require.NoError(t, err)
	require.Equal(t, "flow_0", first)

	second, err := dm.AddFlow(Flow{
		VehicleTypeID: car.ID,
		FromEdge:      "E2C",
		ToEdge:        "C2W",
		EndSeconds:    3600,
		RateType:      DEMAND_PROBABILITY,
		Probability:   0.1,
	})
	require.NoError(t, err)
	require.Equal(t, "flow_1", second)
	require.Len(t, dm.Flows(), 2)
}

func TestAddFlowSkipsTakenIdentifiers(t *testing.T) {
	_, dm := crossDemand(t)
	car := DefaultPassengerCar()

	base := Flow{
		VehicleTypeID: car.ID,
		FromEdge:      "N2C",
		ToEdge:        "C2S",
		EndSeconds:    3600,
		RateType:      DEMAND_VEHS_PER_HOUR,
		VehsPerHour:   400,
	}

	// an explicitly named flow occupies the identifier the counter would
	// hand out next
	named := base
	named.ID = "flow_1"
	id, err := dm.AddFlow(named)
	require.NoError(t, err)
	require.Equal(t, "flow_1", id)

	auto := base
	auto.FromEdge = "E2C"
	auto.ToEdge = "C2W"
	id, err = dm.AddFlow(auto)
	require.NoError(t, err)
	require.NotEqual(t, "flow_1", id)
	require.Len(t, dm.Flows(), 2)

	stored, ok := dm.Flow("flow_1")
	require.True(t, ok)
	require.Equal(t, EdgeID("N2C"), stored.FromEdge)
}

func TestAddFlowChecksReferences(t *testing.T) {
	_, dm := crossDemand(t)
	car := DefaultPassengerCar()

	base := Flow{
		VehicleTypeID: car.ID,
		FromEdge:      "N2C",
		ToEdge:        "C2S",
		EndSeconds:    3600,
		RateType:      DEMAND_VEHS_PER_HOUR,
		VehsPerHour:   400,
	}

	flow := base
	flow.VehicleTypeID = "hovercraft"
	_, err := dm.AddFlow(flow)
	var invalid *InvalidParameterError
	require.ErrorAs(t, err, &invalid)

	var integrity *GraphIntegrityError
	flow = base
	flow.FromEdge = "ghost"
	_, err = dm.AddFlow(flow)
	require.ErrorAs(t, err, &integrity)

	flow = base
	flow.ToEdge = "ghost"
	_, err = dm.AddFlow(flow)
	require.ErrorAs(t, err, &integrity)
}

func TestFlowValidation(t *testing.T) {
	_, dm := crossDemand(t)
	car := DefaultPassengerCar()

	// begin >= end
	_, err := dm.AddFlow(Flow{
		VehicleTypeID: car.ID,
		FromEdge:      "N2C",
		ToEdge:        "C2S",
		BeginSeconds:  3600,
		EndSeconds:    3600,
		RateType:      DEMAND_VEHS_PER_HOUR,
		VehsPerHour:   400,
	})
	require.Error(t, err)

	// same origin and destination edge
	_, err = dm.AddFlow(Flow{
		VehicleTypeID: car.ID,
		FromEdge:      "N2C",
		ToEdge:        "N2C",
		EndSeconds:    3600,
		RateType:      DEMAND_VEHS_PER_HOUR,
		VehsPerHour:   400,
	})
	require.Error(t, err)

	// both demand representations at once
	_, err = dm.AddFlow(Flow{
		VehicleTypeID: car.ID,
		FromEdge:      "N2C",
		ToEdge:        "C2S",
		EndSeconds:    3600,
		RateType:      DEMAND_VEHS_PER_HOUR,
		VehsPerHour:   400,
		Probability:   0.1,
	})
	require.Error(t, err)

	// no demand representation
	_, err = dm.AddFlow(Flow{
		VehicleTypeID: car.ID,
		FromEdge:      "N2C",
		ToEdge:        "C2S",
		EndSeconds:    3600,
	})
	require.Error(t, err)

	// probability out of range
	_, err = dm.AddFlow(Flow{
		VehicleTypeID: car.ID,
		FromEdge:      "N2C",
		ToEdge:        "C2S",
		EndSeconds:    3600,
		RateType:      DEMAND_PROBABILITY,
		Probability:   1.5,
	})
	require.Error(t, err)
}

func TestArrivalRatePerSecond(t *testing.T) {
	hourly := Flow{RateType: DEMAND_VEHS_PER_HOUR, VehsPerHour: 720}
	require.InDelta(t, 0.2, hourly.ArrivalRatePerSecond(), 1e-9)

	probability := Flow{RateType: DEMAND_PROBABILITY, Probability: 0.05}
	require.InDelta(t, 0.05, probability.ArrivalRatePerSecond(), 1e-9)
}

package sumogen

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRouterRequiresValidatedNetwork(t *testing.T) {
	net := NewNetworkModel()
	_, err := NewRouter(net)
	require.Error(t, err)
}

func TestRouteAcrossIntersection(t *testing.T) {
	net, err := CreateNetwork(DefaultCrossIntersectionConfig())
	require.NoError(t, err)
	router, err := NewRouter(net)
	require.NoError(t, err)

	// 200 m per arm at 50 km/h is 14.4 s per edge
	cost, edges, err := router.Route("N", "S")
	require.NoError(t, err)
	require.Equal(t, []EdgeID{"N2C", "C2S"}, edges)
	require.InDelta(t, 28.8, cost, 1e-6)

	cost, edges, err = router.Route("N", "N")
	require.NoError(t, err)
	require.Empty(t, edges)
	require.Zero(t, cost)

	_, _, err = router.Route("N", "ghost")
	require.Error(t, err)
}

func TestRouteUnreachable(t *testing.T) {
	net, err := CreateNetwork(DefaultHighwayConfig())
	require.NoError(t, err)
	router, err := NewRouter(net)
	require.NoError(t, err)

	// the mainline is one-directional: no way back from the end
	_, _, err = router.Route("end", "start")
	require.Error(t, err)
	var integrity *GraphIntegrityError
	require.ErrorAs(t, err, &integrity)
}

func TestFlowRoute(t *testing.T) {
	net, dm := crossDemand(t)
	router, err := NewRouter(net)
	require.NoError(t, err)

	id, err := dm.AddFlow(Flow{
		VehicleTypeID: "car",
		FromEdge:      "N2C",
		ToEdge:        "C2S",
		EndSeconds:    3600,
		RateType:      DEMAND_VEHS_PER_HOUR,
		VehsPerHour:   400,
	})
	require.NoError(t, err)
	flow, ok := dm.Flow(id)
	require.True(t, ok)

	cost, edges, err := router.FlowRoute(net, flow)
	require.NoError(t, err)
	require.Equal(t, []EdgeID{"N2C", "C2S"}, edges)
	require.InDelta(t, 28.8, cost, 1e-6)
}

func TestValidateFlows(t *testing.T) {
	net, err := CreateNetwork(DefaultHighwayConfig())
	require.NoError(t, err)
	dm, err := NewDemandModel(net)
	require.NoError(t, err)
	require.NoError(t, dm.AddVehicleType(DefaultPassengerCar()))
	router, err := NewRouter(net)
	require.NoError(t, err)

	_, err = dm.AddFlow(Flow{
		VehicleTypeID: "car",
		FromEdge:      "hw_start_junc_1",
		ToEdge:        "hw_junc_2_end",
		EndSeconds:    3600,
		RateType:      DEMAND_VEHS_PER_HOUR,
		VehsPerHour:   1000,
	})
	require.NoError(t, err)
	require.NoError(t, router.ValidateFlows(dm))

	// driving against the one-directional mainline is not routable
	_, err = dm.AddFlow(Flow{
		VehicleTypeID: "car",
		FromEdge:      "hw_junc_2_end",
		ToEdge:        "hw_start_junc_1",
		EndSeconds:    3600,
		RateType:      DEMAND_VEHS_PER_HOUR,
		VehsPerHour:   100,
	})
	require.NoError(t, err)
	require.Error(t, router.ValidateFlows(dm))
}

func TestChainTravelTimes(t *testing.T) {
	cfg := DefaultCorridorConfig()
	net, err := CreateNetwork(cfg)
	require.NoError(t, err)
	router, err := NewRouter(net)
	require.NoError(t, err)

	times, err := router.ChainTravelTimes(cfg.SignalNodeIDs())
	require.NoError(t, err)
	require.Len(t, times, 4)
	for _, travelTime := range times {
		require.InDelta(t, 18.0, travelTime, 1e-6)
	}

	_, err = router.ChainTravelTimes([]NodeID{"M1"})
	require.Error(t, err)
}

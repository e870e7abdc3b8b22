package sumogen

import (
	geojson "github.com/paulmach/go.geojson"
	"github.com/pkg/errors"
)

// ExportToGeoJSON returns GeoJSON representation of the network: one point
// feature per node and one linestring feature per edge. Meant for preview
// rendering in the caller's UI; it is not a simulation engine input.
func ExportToGeoJSON(net *NetworkModel) ([]byte, error) {
	fc := geojson.NewFeatureCollection()
	for _, node := range net.Nodes() {
		feature := geojson.NewPointFeature([]float64{node.X, node.Y})
		feature.SetProperty("id", string(node.ID))
		feature.SetProperty("type", node.Kind.String())
		fc.AddFeature(feature)
	}
	for _, edge := range net.Edges() {
		source, okSource := net.Node(edge.Source)
		target, okTarget := net.Node(edge.Target)
		if !okSource || !okTarget {
			return nil, newGraphIntegrity("edge", string(edge.ID), "dangling endpoint reference")
		}
		feature := geojson.NewLineStringFeature([][]float64{
			{source.X, source.Y},
			{target.X, target.Y},
		})
		feature.SetProperty("id", string(edge.ID))
		feature.SetProperty("numLanes", edge.NumLanes)
		feature.SetProperty("speed", edge.Speed)
		fc.AddFeature(feature)
	}
	b, err := fc.MarshalJSON()
	if err != nil {
		return nil, errors.Wrap(err, "Can't marshal feature collection")
	}
	return b, nil
}

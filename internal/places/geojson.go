// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package places

import (
	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/relabs-tech/ar_navigator/internal/geodesy"
)

// Feature kinds in the "kind" property.
const (
	KindDevice = "device"
	KindPlace  = "place"
	KindRoute  = "route"
)

func lonLat(p geodesy.GeographicPoint) geom.Point {
	return geom.NewPoint(geom.Coordinates{XY: geom.XY{X: p.Longitude, Y: p.Latitude}})
}

// FeatureCollection renders the device, its placements and, when the route
// leads somewhere, the route line as GeoJSON (lon/lat order).
func FeatureCollection(device geodesy.GeographicPoint, placements []Placement, route *Route) geom.GeoJSONFeatureCollection {
	fc := make(geom.GeoJSONFeatureCollection, 0, len(placements)+2)

	utm := geodesy.ReferenceUTM(device)
	fc = append(fc, geom.GeoJSONFeature{
		Geometry: lonLat(device).AsGeometry(),
		ID:       KindDevice,
		Properties: map[string]interface{}{
			"kind":         KindDevice,
			"utm_zone":     geodesy.Zone(device.Longitude),
			"utm_easting":  utm.Easting,
			"utm_northing": utm.Northing,
		},
	})

	for _, p := range placements {
		fc = append(fc, geom.GeoJSONFeature{
			Geometry: lonLat(p.Place.Location).AsGeometry(),
			ID:       p.Place.ID,
			Properties: map[string]interface{}{
				"kind":     KindPlace,
				"name":     p.Place.Name,
				"type":     p.Place.Type,
				"label":    p.Label,
				"distance": p.Distance,
				"bearing":  p.Bearing,
				"rank":     p.Rank,
				"mode":     p.Mode.Name,
			},
		})
	}

	if route != nil && route.Target != device {
		seq := geom.NewSequence([]float64{
			device.Longitude, device.Latitude,
			route.Target.Longitude, route.Target.Latitude,
		}, geom.DimXY)
		fc = append(fc, geom.GeoJSONFeature{
			Geometry: geom.NewLineString(seq).AsGeometry(),
			ID:       KindRoute,
			Properties: map[string]interface{}{
				"kind":     KindRoute,
				"distance": route.Distance,
				"bearing":  route.Bearing,
			},
		})
	}
	return fc
}

// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package geodesy

import (
	"github.com/wroge/wgs84"
)

const (
	epsgLonLat   = 4326
	epsgUTMNorth = 32600
	epsgUTMSouth = 32700
)

// ReferenceUTM projects a point to WGS84 UTM (EPSG:326xx/327xx) through the
// full ellipsoidal transform. It is slower than ProjectToPlane and uses the
// true WGS84 radius, so absolute values differ by a few kilometres; offsets
// between nearby points agree to within the radius ratio. The navigation
// frame and the GeoJSON export carry it as the device's grid reference.
func ReferenceUTM(p GeographicPoint) PlanarPoint {
	code := epsgUTMNorth + Zone(p.Longitude)
	if p.Latitude < 0 {
		code = epsgUTMSouth + Zone(p.Longitude)
	}

	transform := wgs84.EPSG().Transform(epsgLonLat, code)
	x, y, _ := transform(p.Longitude, p.Latitude, 0)
	return PlanarPoint{Easting: x, Northing: y}
}

package domain

import "math"

// GridSquare converts a WGS-84 coordinate pair into a 6-character Maidenhead
// subsquare label, e.g. (41.3069, -72.7639) -> "FN31pr". The longitude
// character precedes the latitude character at each precision level: field
// (A-R, 20x10 degrees), square (0-9, 2x1 degrees), subsquare (a-x, 5x2.5
// arc-minutes).
//
// Total for lat in [-90,90] and lon in [-180,180]; the north and east edges
// are clamped into the last cell so the poles and the antimeridian still get
// a valid label.
func GridSquare(lat, lon float64) string {
	adjLon := clamp(lon+180, 360)
	adjLat := clamp(lat+90, 180)

	b := [6]byte{
		'A' + byte(int(adjLon/20)),
		'A' + byte(int(adjLat/10)),
		'0' + byte(int(math.Mod(adjLon, 20)/2)),
		'0' + byte(int(math.Mod(adjLat, 10))),
		'a' + byte(int(math.Mod(adjLon, 2)*12)),
		'a' + byte(int(math.Mod(adjLat, 1)*24)),
	}
	return string(b[:])
}

// clamp restricts v to [0, limit).
func clamp(v, limit float64) float64 {
	if v < 0 {
		return 0
	}
	if v >= limit {
		return math.Nextafter(limit, 0)
	}
	return v
}

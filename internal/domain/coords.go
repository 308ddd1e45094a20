package domain

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrNoLocation marks an LA row whose coordinates resolve to exactly (0, 0).
// The FCC emits all-zero coordinate fields for licenses with no antenna
// location on file, so the pair is treated as missing data, not a position.
var ErrNoLocation = errors.New("location record carries no coordinates")

// LocationUpdate extracts and converts the LA field set. The eight
// sexagesimal fields are parsed as floats with blanks defaulting to zero;
// hemisphere S negates latitude and W negates longitude. A row with an
// unparsable numeric field is rejected. Latitude, longitude, and the grid
// square are set together on the returned update.
func LocationUpdate(r RawRecord) (Update, error) {
	latDeg, err := floatField(r, fieldLatDegrees)
	if err != nil {
		return Update{}, err
	}
	latMin, err := floatField(r, fieldLatMinutes)
	if err != nil {
		return Update{}, err
	}
	latSec, err := floatField(r, fieldLatSeconds)
	if err != nil {
		return Update{}, err
	}
	lonDeg, err := floatField(r, fieldLongDegrees)
	if err != nil {
		return Update{}, err
	}
	lonMin, err := floatField(r, fieldLongMinutes)
	if err != nil {
		return Update{}, err
	}
	lonSec, err := floatField(r, fieldLongSeconds)
	if err != nil {
		return Update{}, err
	}

	lat := latDeg + latMin/60 + latSec/3600
	if r.Field(fieldLatDirection) == "S" {
		lat = -lat
	}
	lon := lonDeg + lonMin/60 + lonSec/3600
	if r.Field(fieldLongDirection) == "W" {
		lon = -lon
	}

	if lat == 0 && lon == 0 {
		return Update{}, ErrNoLocation
	}

	return Update{
		Callsign:   r.Callsign,
		Latitude:   &lat,
		Longitude:  &lon,
		GridSquare: GridSquare(lat, lon),
	}, nil
}

// floatField parses a positional field as a float64, treating blank as zero.
func floatField(r RawRecord, i int) (float64, error) {
	s := r.Field(i)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("field %d: %w", i, err)
	}
	return v, nil
}

// Package domain models FCC Universal Licensing System (ULS) amateur radio
// license data.
//
// # Data Source
//
// The FCC publishes the amateur license database as pipe-delimited extracts,
// available as a full snapshot (l_amat.zip) and daily delta archives at
// https://data.fcc.gov/download/pub/uls/. Each archive contains one file per
// record family; the four families this system consumes are:
//
//	HD.dat  license header: status, service code, grant/expiration/cancellation dates
//	EN.dat  entity/licensee: names and mailing address
//	AM.dat  amateur service class: operator class, group and region codes
//	LA.dat  antenna location: sexagesimal coordinates (optional file)
//
// # File Conventions
//
// Rows are Latin-1, line-oriented, variable width, with no header row. Fields
// are positional: field 0 is the family tag and field 4 is the callsign in
// every family. Fields past the end of a short row are treated as empty.
// Empty string means "not provided" — the FCC re-emits partial rows in daily
// deltas, so an empty field must never clobber previously loaded data.
//
// Dates are MM/DD/YYYY. Coordinates are degrees/minutes/seconds with an
// N/S or E/W hemisphere field; an all-zero coordinate pair means "no location
// on file", not the Gulf of Guinea.
//
// # Grid Squares
//
// Locations are labeled with a 6-character Maidenhead subsquare (e.g.
// "FN31pr", ~5x2.5 arc-minute resolution), computed by [GridSquare]. The
// longitude character always precedes the latitude character at each
// precision level; downstream consumers depend on that ordering.
//
// # Reconciliation
//
// One [Entity] exists per callsign. Each accepted row contributes an [Update]
// that is merged under a field-preservation rule: a populated field is only
// replaced by a non-empty incoming value (non-nil for coordinates). This
// makes loads idempotent and family order immaterial, which is what allows
// full snapshots and daily deltas to be applied with the same code path.
package domain

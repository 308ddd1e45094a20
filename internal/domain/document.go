package domain

import (
	"strconv"
	"time"
)

// NotFound is the sentinel rendered for attributes with no available data.
const NotFound = "NOT_FOUND"

// Country is the constant jurisdiction for the FCC dataset.
const Country = "United States"

// Document is the hamdb response envelope, one per callsign.
type Document struct {
	HamDB HamDBData `json:"hamdb"`
}

type HamDBData struct {
	Version  string            `json:"version"`
	Callsign CallsignData      `json:"callsign"`
	Messages map[string]string `json:"messages"`
}

type CallsignData struct {
	Call    string `json:"call"`
	Class   string `json:"class"`
	Expires string `json:"expires"`
	Status  string `json:"status"`
	Grid    string `json:"grid"`
	Lat     string `json:"lat"`
	Lon     string `json:"lon"`
	FName   string `json:"fname"`
	MI      string `json:"mi"`
	Name    string `json:"name"`
	Suffix  string `json:"suffix"`
	Addr1   string `json:"addr1"`
	Addr2   string `json:"addr2"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

// BuildDocument renders a reconciled entity into the canonical output
// document. Every derivation is total: missing data becomes NOT_FOUND or the
// empty string, never an error. Name resolution falls back to the entity
// (organization) name when no individual last name is on file.
func BuildDocument(e Entity) Document {
	name := e.LastName
	if name == "" {
		name = e.EntityName
	}

	grid, lat, lon := NotFound, NotFound, NotFound
	if e.HasLocation() {
		grid = e.GridSquare
		lat = strconv.FormatFloat(*e.Latitude, 'f', -1, 64)
		lon = strconv.FormatFloat(*e.Longitude, 'f', -1, 64)
	}

	return Document{
		HamDB: HamDBData{
			Version: "1",
			Callsign: CallsignData{
				Call:    e.Callsign,
				Class:   orNotFound(e.OperatorClass),
				Expires: FormatExpiration(e.ExpiredDate),
				Status:  mapStatus(e.LicenseStatus),
				Grid:    grid,
				Lat:     lat,
				Lon:     lon,
				FName:   e.FirstName,
				MI:      e.MI,
				Name:    name,
				Suffix:  e.Suffix,
				Addr1:   e.StreetAddress,
				Addr2:   e.City,
				State:   e.State,
				Zip:     e.ZipCode,
				Country: Country,
			},
			Messages: map[string]string{"status": "OK"},
		},
	}
}

// NotFoundDocument is the envelope returned for a callsign with no entity on
// file: every attribute carries the sentinel and messages.status reports
// NOT_FOUND.
func NotFoundDocument() Document {
	return Document{
		HamDB: HamDBData{
			Version: "1",
			Callsign: CallsignData{
				Call: NotFound, Class: NotFound, Expires: NotFound,
				Status: NotFound, Grid: NotFound, Lat: NotFound, Lon: NotFound,
				FName: NotFound, MI: NotFound, Name: NotFound, Suffix: NotFound,
				Addr1: NotFound, Addr2: NotFound, State: NotFound, Zip: NotFound,
				Country: NotFound,
			},
			Messages: map[string]string{"status": NotFound},
		},
	}
}

// mapStatus passes through the four known FCC license status codes (Active,
// Canceled, Expired, Terminated); anything else renders as NOT_FOUND.
func mapStatus(code string) string {
	switch code {
	case "A", "C", "E", "T":
		return code
	}
	return NotFound
}

func orNotFound(s string) string {
	if s == "" {
		return NotFound
	}
	return s
}

// FormatExpiration validates and reformats an MM/DD/YYYY expiration date.
// Anything that is not exactly ten characters or does not parse renders as
// NOT_FOUND.
func FormatExpiration(s string) string {
	if len(s) != 10 {
		return NotFound
	}
	t, err := time.Parse("01/02/2006", s)
	if err != nil {
		return NotFound
	}
	return t.Format("01/02/2006")
}

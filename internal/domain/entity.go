package domain

import "time"

// Update is the partial field set contributed by one accepted record. Text
// fields follow the wire convention: empty string means "not provided" and
// never overwrites stored data. Latitude and longitude are pointers so an
// absent coordinate is distinct from zero.
type Update struct {
	Callsign string

	// HD
	LicenseStatus    string
	RadioServiceCode string
	GrantDate        string
	ExpiredDate      string
	CancellationDate string

	// AM
	OperatorClass string
	GroupCode     string
	RegionCode    string

	// EN
	EntityName    string
	FirstName     string
	MI            string
	LastName      string
	Suffix        string
	StreetAddress string
	City          string
	State         string
	ZipCode       string

	// LA. Latitude, Longitude, and GridSquare are always set together.
	Latitude   *float64
	Longitude  *float64
	GridSquare string
}

// Entity is the reconciled record for one callsign, merged from all four
// families. Owned by the store; mutate only through Upsert.
type Entity struct {
	Callsign string `json:"callsign"`

	LicenseStatus    string `json:"license_status,omitempty"`
	RadioServiceCode string `json:"radio_service_code,omitempty"`
	GrantDate        string `json:"grant_date,omitempty"`
	ExpiredDate      string `json:"expired_date,omitempty"`
	CancellationDate string `json:"cancellation_date,omitempty"`

	OperatorClass string `json:"operator_class,omitempty"`
	GroupCode     string `json:"group_code,omitempty"`
	RegionCode    string `json:"region_code,omitempty"`

	EntityName    string `json:"entity_name,omitempty"`
	FirstName     string `json:"first_name,omitempty"`
	MI            string `json:"mi,omitempty"`
	LastName      string `json:"last_name,omitempty"`
	Suffix        string `json:"suffix,omitempty"`
	StreetAddress string `json:"street_address,omitempty"`
	City          string `json:"city,omitempty"`
	State         string `json:"state,omitempty"`
	ZipCode       string `json:"zip_code,omitempty"`

	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
	GridSquare string   `json:"grid_square,omitempty"`

	LastUpdated time.Time `json:"last_updated"`
}

// Apply merges u into e under the field-preservation rule: a stored value is
// only replaced by a non-empty (non-nil) incoming value. LastUpdated advances
// on every call regardless of which fields changed. Used by the map and
// pebble store backings; the sqlite backing expresses the same rule in SQL.
func (e *Entity) Apply(u Update, now time.Time) {
	if e.Callsign == "" {
		e.Callsign = u.Callsign
	}

	setIf(&e.LicenseStatus, u.LicenseStatus)
	setIf(&e.RadioServiceCode, u.RadioServiceCode)
	setIf(&e.GrantDate, u.GrantDate)
	setIf(&e.ExpiredDate, u.ExpiredDate)
	setIf(&e.CancellationDate, u.CancellationDate)

	setIf(&e.OperatorClass, u.OperatorClass)
	setIf(&e.GroupCode, u.GroupCode)
	setIf(&e.RegionCode, u.RegionCode)

	setIf(&e.EntityName, u.EntityName)
	setIf(&e.FirstName, u.FirstName)
	setIf(&e.MI, u.MI)
	setIf(&e.LastName, u.LastName)
	setIf(&e.Suffix, u.Suffix)
	setIf(&e.StreetAddress, u.StreetAddress)
	setIf(&e.City, u.City)
	setIf(&e.State, u.State)
	setIf(&e.ZipCode, u.ZipCode)

	if u.Latitude != nil && u.Longitude != nil {
		lat, lon := *u.Latitude, *u.Longitude
		e.Latitude = &lat
		e.Longitude = &lon
		e.GridSquare = u.GridSquare
	}

	e.LastUpdated = now
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// HasLocation reports whether coordinates were ever merged onto the entity.
func (e *Entity) HasLocation() bool {
	return e.Latitude != nil && e.Longitude != nil
}

package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Family identifies one of the four ULS record families this system consumes.
type Family string

const (
	FamilyHeader   Family = "HD"
	FamilyEntity   Family = "EN"
	FamilyClass    Family = "AM"
	FamilyLocation Family = "LA"
)

// Row-level parse rejections. The correlator skips the offending line and
// continues; none of these abort a pass.
var (
	ErrShortRow      = errors.New("row has fewer than five fields")
	ErrUnknownFamily = errors.New("unrecognized record family tag")
	ErrNoCallsign    = errors.New("empty callsign field")
)

// Positional field indexes, fixed by the FCC file definitions. Field 0 is the
// family tag and field 4 the callsign in every family.
const (
	fieldCallsign = 4

	// HD
	fieldLicenseStatus    = 5
	fieldRadioServiceCode = 6
	fieldGrantDate        = 7
	fieldExpiredDate      = 8
	fieldCancellationDate = 9

	// EN
	fieldEntityName    = 7
	fieldFirstName     = 8
	fieldMI            = 9
	fieldLastName      = 10
	fieldSuffix        = 11
	fieldStreetAddress = 15
	fieldCity          = 16
	fieldState         = 17
	fieldZipCode       = 18

	// AM
	fieldOperatorClass = 5
	fieldGroupCode     = 6
	fieldRegionCode    = 7

	// LA
	fieldLatDegrees    = 13
	fieldLatMinutes    = 14
	fieldLatSeconds    = 15
	fieldLatDirection  = 16
	fieldLongDegrees   = 17
	fieldLongMinutes   = 18
	fieldLongSeconds   = 19
	fieldLongDirection = 20
)

// RawRecord is one accepted line from a ULS data file. It is ephemeral: the
// correlator converts it to an [Update] and discards it.
type RawRecord struct {
	Family   Family
	Callsign string
	fields   []string
}

// ParseLine splits one pipe-delimited line into a RawRecord. A line is
// rejected when it has fewer than five fields, carries an unrecognized family
// tag, or has an empty callsign. Rows may be shorter than the family's full
// schema; missing trailing fields read as empty.
func ParseLine(line string) (RawRecord, error) {
	fields := strings.Split(line, "|")
	if len(fields) < 5 {
		return RawRecord{}, ErrShortRow
	}

	family := Family(fields[0])
	switch family {
	case FamilyHeader, FamilyEntity, FamilyClass, FamilyLocation:
	default:
		return RawRecord{}, fmt.Errorf("%w: %q", ErrUnknownFamily, fields[0])
	}

	callsign := strings.TrimSpace(fields[fieldCallsign])
	if callsign == "" {
		return RawRecord{}, ErrNoCallsign
	}

	return RawRecord{Family: family, Callsign: callsign, fields: fields}, nil
}

// Field returns the trimmed value at a positional index, or the empty string
// when the row is too short to contain it.
func (r RawRecord) Field(i int) string {
	if i < 0 || i >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[i])
}

// HeaderUpdate extracts the HD field set.
func HeaderUpdate(r RawRecord) Update {
	return Update{
		Callsign:         r.Callsign,
		LicenseStatus:    r.Field(fieldLicenseStatus),
		RadioServiceCode: r.Field(fieldRadioServiceCode),
		GrantDate:        r.Field(fieldGrantDate),
		ExpiredDate:      r.Field(fieldExpiredDate),
		CancellationDate: r.Field(fieldCancellationDate),
	}
}

// EntityUpdate extracts the EN field set.
func EntityUpdate(r RawRecord) Update {
	return Update{
		Callsign:      r.Callsign,
		EntityName:    r.Field(fieldEntityName),
		FirstName:     r.Field(fieldFirstName),
		MI:            r.Field(fieldMI),
		LastName:      r.Field(fieldLastName),
		Suffix:        r.Field(fieldSuffix),
		StreetAddress: r.Field(fieldStreetAddress),
		City:          r.Field(fieldCity),
		State:         r.Field(fieldState),
		ZipCode:       r.Field(fieldZipCode),
	}
}

// ClassUpdate extracts the AM field set.
func ClassUpdate(r RawRecord) Update {
	return Update{
		Callsign:      r.Callsign,
		OperatorClass: r.Field(fieldOperatorClass),
		GroupCode:     r.Field(fieldGroupCode),
		RegionCode:    r.Field(fieldRegionCode),
	}
}

// UpdateFor dispatches to the family-specific extractor.
func UpdateFor(r RawRecord) (Update, error) {
	switch r.Family {
	case FamilyHeader:
		return HeaderUpdate(r), nil
	case FamilyEntity:
		return EntityUpdate(r), nil
	case FamilyClass:
		return ClassUpdate(r), nil
	case FamilyLocation:
		return LocationUpdate(r)
	}
	return Update{}, fmt.Errorf("%w: %q", ErrUnknownFamily, r.Family)
}

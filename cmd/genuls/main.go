// Command genuls writes a small, deterministic set of ULS-format record
// files for development and demos, so the ingest pipeline can be exercised
// without downloading a full FCC dump.
//
// Usage:
//
//	go run ./cmd/genuls -out testdata/uls
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// sample is one synthetic license spanning all four record families.
type sample struct {
	callsign string
	status   string
	grant    string
	expired  string
	class    string
	first    string
	mi       string
	last     string
	street   string
	city     string
	state    string
	zip      string
	entity   string

	// Sexagesimal coordinates; all-zero means no location on file.
	latDeg, latMin, latSec string
	latDir                 string
	lonDeg, lonMin, lonSec string
	lonDir                 string
}

var samples = []sample{
	{
		callsign: "W1AW", status: "A", grant: "12/08/2020", expired: "12/08/2030",
		class: "E", entity: "ARRL HQ OPERATORS CLUB",
		street: "225 Main St", city: "Newington", state: "CT", zip: "06111",
		latDeg: "41", latMin: "42", latSec: "52.9", latDir: "N",
		lonDeg: "72", lonMin: "43", lonSec: "37.9", lonDir: "W",
	},
	{
		callsign: "KB1ABC", status: "A", grant: "03/15/2022", expired: "03/15/2032",
		class: "G", first: "Jane", mi: "Q", last: "Doe",
		street: "1 Elm St", city: "Hartford", state: "CT", zip: "06103",
		latDeg: "41", latMin: "45", latSec: "49", latDir: "N",
		lonDeg: "72", lonMin: "41", lonSec: "0", lonDir: "W",
	},
	{
		callsign: "KC2DEF", status: "E", grant: "06/01/2010", expired: "06/01/2020",
		class: "T", first: "John", last: "Public",
		street: "9 Oak Ave", city: "Albany", state: "NY", zip: "12203",
		latDeg: "0", latMin: "0", latSec: "0", latDir: "N",
		lonDeg: "0", lonMin: "0", lonSec: "0", lonDir: "W",
	},
	{
		callsign: "VK3XYZ", status: "A", grant: "01/20/2023", expired: "01/20/2033",
		class: "E", first: "Alice", last: "Smith",
		street: "10 Collins St", city: "Melbourne", state: "VI", zip: "3000",
		latDeg: "37", latMin: "48", latSec: "49", latDir: "S",
		lonDeg: "144", lonMin: "57", lonSec: "47", lonDir: "E",
	},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "testdata/uls", "directory to write HD/EN/AM/LA .dat files into")
	flag.Parse()

	if err := os.MkdirAll(*out, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	files := map[string][]string{
		"HD.dat": nil, "EN.dat": nil, "AM.dat": nil, "LA.dat": nil,
	}
	for i, s := range samples {
		id := fmt.Sprintf("%07d", i+1)
		files["HD.dat"] = append(files["HD.dat"], hdLine(id, s))
		files["EN.dat"] = append(files["EN.dat"], enLine(id, s))
		files["AM.dat"] = append(files["AM.dat"], amLine(id, s))
		files["LA.dat"] = append(files["LA.dat"], laLine(id, s))
	}

	for name, lines := range files {
		path := filepath.Join(*out, name)
		data := strings.Join(lines, "\n") + "\n"
		if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		fmt.Printf("wrote %s (%d records)\n", path, len(lines))
	}
	return nil
}

// join builds a pipe-delimited line of n fields with the given positions set.
func join(n int, fields map[int]string) string {
	parts := make([]string, n)
	for i, v := range fields {
		parts[i] = v
	}
	return strings.Join(parts, "|")
}

func hdLine(id string, s sample) string {
	return join(10, map[int]string{
		0: "HD", 1: id, 4: s.callsign, 5: s.status, 6: "HA", 7: s.grant, 8: s.expired,
	})
}

func enLine(id string, s sample) string {
	return join(19, map[int]string{
		0: "EN", 1: id, 4: s.callsign,
		7: s.entity, 8: s.first, 9: s.mi, 10: s.last,
		15: s.street, 16: s.city, 17: s.state, 18: s.zip,
	})
}

func amLine(id string, s sample) string {
	return join(8, map[int]string{
		0: "AM", 1: id, 4: s.callsign, 5: s.class, 6: "A", 7: "1",
	})
}

func laLine(id string, s sample) string {
	return join(21, map[int]string{
		0: "LA", 1: id, 4: s.callsign,
		13: s.latDeg, 14: s.latMin, 15: s.latSec, 16: s.latDir,
		17: s.lonDeg, 18: s.lonMin, 19: s.lonSec, 20: s.lonDir,
	})
}

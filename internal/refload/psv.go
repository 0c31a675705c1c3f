// Package refload builds the in-memory reference dataset from one of its
// two supported sources: a directory of pipe-separated flat files in the
// G-NAF export layout, or a Postgres database loaded with the equivalent
// tables.
package refload

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/gnaf-verify/internal/refdata"
)

// Options tunes dataset construction independently of the source.
type Options struct {
	// NeighbourDepth bounds neighbour-graph propagation; zero keeps the
	// builder default.
	NeighbourDepth int

	// ExtraTrims are supplementary trim patterns compiled into the
	// dataset for loaders that carry site-specific noise.
	ExtraTrims []string
}

func (o Options) apply(b *refdata.Builder) error {
	if o.NeighbourDepth > 0 {
		b.NeighbourDepth = o.NeighbourDepth
	}
	for _, p := range o.ExtraTrims {
		if err := b.AddExtraTrim(p); err != nil {
			return err
		}
	}
	return nil
}

// Flat file names expected under the data directory. STATE and the
// supplementary files are optional; everything else must be present.
const (
	fileState             = "STATE.psv"
	fileLocality          = "LOCALITY.psv"
	fileLocalityPostcode  = "LOCALITY_POSTCODE.psv"
	fileLocalityNeighbour = "LOCALITY_NEIGHBOUR.psv"
	filePostcode          = "POSTCODE.psv"
	fileAusPost           = "AUSPOST_SUBURB.psv"
	fileStreet            = "STREET.psv"
	fileAddress           = "ADDRESS.psv"
	fileBuilding          = "BUILDING.psv"
	fileMeshBlock         = "MESH_BLOCK.psv"
)

// FromDir loads every reference file under dir and builds the dataset.
func FromDir(dir string, opts Options) (*refdata.Dataset, error) {
	b := refdata.NewBuilder()
	if err := opts.apply(b); err != nil {
		return nil, err
	}

	if err := loadStates(b, dir); err != nil {
		return nil, err
	}

	steps := []struct {
		file     string
		required bool
		fields   int
		row      func(f []string) error
	}{
		{fileLocality, true, 8, func(f []string) error {
			tag, err := suburbTag(f[3])
			if err != nil {
				return err
			}
			b.AddLocality(f[0], f[2], f[1], tag, geoPoint(f[6], f[7], f[4], f[5]))
			return nil
		}},
		{fileLocalityPostcode, true, 2, func(f []string) error {
			b.AddLocalityPostcode(f[0], f[1])
			return nil
		}},
		{fileLocalityNeighbour, false, 2, func(f []string) error {
			b.AddNeighbour(f[0], f[1])
			return nil
		}},
		{filePostcode, true, 7, func(f []string) error {
			b.AddPostcode(f[0], f[1], f[2], geoPoint(f[5], f[6], f[3], f[4]))
			return nil
		}},
		{fileAusPost, false, 5, func(f []string) error {
			b.AddAusPostSuburb(f[0], f[1], f[2], geoPoint("", "", f[3], f[4]))
			return nil
		}},
		{fileStreet, true, 8, func(f []string) error {
			lat, lon := coord(f[6]), coord(f[7])
			b.AddStreet(f[0], f[1], f[2], f[3], f[4], flag(f[5]), lat, lon)
			return nil
		}},
		{fileAddress, true, 8, func(f []string) error {
			first, err := strconv.Atoi(f[2])
			if err != nil {
				return fmt.Errorf("number %q: %w", f[2], err)
			}
			h := refdata.House{
				MeshBlock:  f[5],
				Lat:        coord(f[6]),
				Lon:        coord(f[7]),
				IsLot:      flag(f[4]),
				AddressPID: f[0],
			}
			if f[3] != "" && f[3] != f[2] {
				last, err := strconv.Atoi(f[3])
				if err != nil {
					return fmt.Errorf("number %q: %w", f[3], err)
				}
				b.AddHouseRange(f[1], first, last, h)
				return nil
			}
			b.AddHouse(f[1], first, h)
			return nil
		}},
		{fileBuilding, false, 4, func(f []string) error {
			n, err := strconv.Atoi(f[1])
			if err != nil {
				return fmt.Errorf("house number %q: %w", f[1], err)
			}
			b.AddBuilding(f[0], n, f[2], f[3])
			return nil
		}},
		{fileMeshBlock, false, 3, func(f []string) error {
			b.AddMeshBlock(f[0], f[1], f[2])
			return nil
		}},
	}

	for _, step := range steps {
		n, err := eachRow(filepath.Join(dir, step.file), step.fields, step.row)
		if err != nil {
			if os.IsNotExist(err) && !step.required {
				log.Debug().Str("file", step.file).Msg("optional reference file absent")
				continue
			}
			return nil, fmt.Errorf("refload: %s: %w", step.file, err)
		}
		log.Info().Str("file", step.file).Int("rows", n).Msg("reference file loaded")
	}

	return b.Build()
}

func loadStates(b *refdata.Builder, dir string) error {
	n, err := eachRow(filepath.Join(dir, fileState), 3, func(f []string) error {
		b.AddState(f[0], f[2], f[1])
		return nil
	})
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("refload: %s: %w", fileState, err)
		}
		for _, s := range refdata.DefaultStates() {
			b.AddState(s.PID, s.Abbrev, s.Name, s.AltAbbrevs...)
		}
		log.Debug().Msg("no state file, using the standard state table")
		return nil
	}
	log.Info().Str("file", fileState).Int("rows", n).Msg("reference file loaded")
	return nil
}

// eachRow streams one pipe-separated file, skipping the header row and
// blank lines, and hands every record to fn. Returns the record count.
func eachRow(path string, fields int, fn func(f []string) error) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	n := 0
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")
		if lineNo == 1 || line == "" {
			continue // header
		}
		parts := strings.Split(line, "|")
		if len(parts) != fields {
			return n, fmt.Errorf("line %d: %d fields, want %d", lineNo, len(parts), fields)
		}
		if err := fn(parts); err != nil {
			return n, fmt.Errorf("line %d: %w", lineNo, err)
		}
		n++
	}
	return n, sc.Err()
}

func suburbTag(src string) (refdata.Tag, error) {
	switch strings.ToUpper(strings.TrimSpace(src)) {
	case "G", "":
		return refdata.TagPrimary, nil
	case "GA":
		return refdata.TagAlias, nil
	case "C":
		return refdata.TagCommunity, nil
	}
	return refdata.Tag{}, fmt.Errorf("unknown locality source %q", src)
}

func geoPoint(sa1, lga, lat, lon string) refdata.GeoPoint {
	return refdata.GeoPoint{SA1: sa1, LGA: lga, Lat: coord(lat), Lon: coord(lon)}
}

func coord(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

func flag(s string) bool {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "Y", "1", "T", "TRUE":
		return true
	}
	return false
}

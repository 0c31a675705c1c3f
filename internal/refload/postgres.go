package refload

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/gnaf-verify/internal/refdata"
)

// FromPostgres loads the reference tables from a database connection and
// builds the dataset. The schema mirrors the flat-file layout; table or
// row errors abort the load.
func FromPostgres(ctx context.Context, db *sql.DB, opts Options) (*refdata.Dataset, error) {
	b := refdata.NewBuilder()
	if err := opts.apply(b); err != nil {
		return nil, err
	}

	if err := queryStates(ctx, db, b); err != nil {
		return nil, err
	}

	loaders := []struct {
		name string
		fn   func(context.Context, *sql.DB, *refdata.Builder) (int, error)
	}{
		{"localities", queryLocalities},
		{"locality_postcodes", queryLocalityPostcodes},
		{"locality_neighbours", queryNeighbours},
		{"postcodes", queryPostcodes},
		{"auspost_suburbs", queryAusPost},
		{"streets", queryStreets},
		{"addresses", queryAddresses},
		{"buildings", queryBuildings},
		{"mesh_blocks", queryMeshBlocks},
	}
	for _, l := range loaders {
		n, err := l.fn(ctx, db, b)
		if err != nil {
			return nil, fmt.Errorf("refload: %s: %w", l.name, err)
		}
		log.Info().Str("table", l.name).Int("rows", n).Msg("reference table loaded")
	}

	return b.Build()
}

func queryStates(ctx context.Context, db *sql.DB, b *refdata.Builder) error {
	rows, err := db.QueryContext(ctx,
		`SELECT state_pid, state_name, state_abbreviation FROM states ORDER BY state_pid`)
	if err != nil {
		return fmt.Errorf("refload: states: %w", err)
	}
	defer rows.Close()

	n := 0
	for rows.Next() {
		var pid, name, abbrev string
		if err := rows.Scan(&pid, &name, &abbrev); err != nil {
			return fmt.Errorf("refload: states: %w", err)
		}
		b.AddState(pid, abbrev, name)
		n++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("refload: states: %w", err)
	}
	if n == 0 {
		for _, s := range refdata.DefaultStates() {
			b.AddState(s.PID, s.Abbrev, s.Name, s.AltAbbrevs...)
		}
		log.Debug().Msg("states table empty, using the standard state table")
	}
	return nil
}

func queryLocalities(ctx context.Context, db *sql.DB, b *refdata.Builder) (int, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT locality_pid, locality_name, state_pid, source,
		       COALESCE(latitude, 0), COALESCE(longitude, 0),
		       COALESCE(sa1, ''), COALESCE(lga, '')
		FROM localities ORDER BY locality_pid`)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	n := 0
	for rows.Next() {
		var pid, name, statePID, source, sa1, lga string
		var lat, lon float64
		if err := rows.Scan(&pid, &name, &statePID, &source, &lat, &lon, &sa1, &lga); err != nil {
			return n, err
		}
		tag, err := suburbTag(source)
		if err != nil {
			return n, err
		}
		b.AddLocality(pid, statePID, name, tag, refdata.GeoPoint{SA1: sa1, LGA: lga, Lat: lat, Lon: lon})
		n++
	}
	return n, rows.Err()
}

func queryLocalityPostcodes(ctx context.Context, db *sql.DB, b *refdata.Builder) (int, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT locality_pid, postcode FROM locality_postcodes ORDER BY locality_pid, postcode`)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	n := 0
	for rows.Next() {
		var pid, pc string
		if err := rows.Scan(&pid, &pc); err != nil {
			return n, err
		}
		b.AddLocalityPostcode(pid, pc)
		n++
	}
	return n, rows.Err()
}

func queryNeighbours(ctx context.Context, db *sql.DB, b *refdata.Builder) (int, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT locality_pid, neighbour_locality_pid FROM locality_neighbours`)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	n := 0
	for rows.Next() {
		var a, c string
		if err := rows.Scan(&a, &c); err != nil {
			return n, err
		}
		b.AddNeighbour(a, c)
		n++
	}
	return n, rows.Err()
}

func queryPostcodes(ctx context.Context, db *sql.DB, b *refdata.Builder) (int, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT postcode, state_pid, COALESCE(suburb, ''),
		       COALESCE(latitude, 0), COALESCE(longitude, 0),
		       COALESCE(sa1, ''), COALESCE(lga, '')
		FROM postcodes ORDER BY postcode, state_pid`)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	n := 0
	for rows.Next() {
		var pc, statePID, suburb, sa1, lga string
		var lat, lon float64
		if err := rows.Scan(&pc, &statePID, &suburb, &lat, &lon, &sa1, &lga); err != nil {
			return n, err
		}
		b.AddPostcode(pc, statePID, suburb, refdata.GeoPoint{SA1: sa1, LGA: lga, Lat: lat, Lon: lon})
		n++
	}
	return n, rows.Err()
}

func queryAusPost(ctx context.Context, db *sql.DB, b *refdata.Builder) (int, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT suburb, state_pid, postcode,
		       COALESCE(latitude, 0), COALESCE(longitude, 0)
		FROM auspost_suburbs ORDER BY suburb, state_pid`)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	n := 0
	for rows.Next() {
		var suburb, statePID, pc string
		var lat, lon float64
		if err := rows.Scan(&suburb, &statePID, &pc, &lat, &lon); err != nil {
			return n, err
		}
		b.AddAusPostSuburb(suburb, statePID, pc, refdata.GeoPoint{Lat: lat, Lon: lon})
		n++
	}
	return n, rows.Err()
}

func queryStreets(ctx context.Context, db *sql.DB, b *refdata.Builder) (int, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT street_pid, locality_pid, name, COALESCE(type, ''),
		       COALESCE(suffix, ''), is_alias,
		       COALESCE(latitude, 0), COALESCE(longitude, 0)
		FROM streets ORDER BY street_pid, is_alias`)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	n := 0
	for rows.Next() {
		var pid, loc, name, stype, suffix string
		var alias bool
		var lat, lon float64
		if err := rows.Scan(&pid, &loc, &name, &stype, &suffix, &alias, &lat, &lon); err != nil {
			return n, err
		}
		b.AddStreet(pid, loc, name, stype, suffix, alias, lat, lon)
		n++
	}
	return n, rows.Err()
}

func queryAddresses(ctx context.Context, db *sql.DB, b *refdata.Builder) (int, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT address_pid, street_pid, number_first, COALESCE(number_last, 0),
		       is_lot, COALESCE(mesh_block, ''),
		       COALESCE(latitude, 0), COALESCE(longitude, 0)
		FROM addresses ORDER BY street_pid, number_first`)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	n := 0
	for rows.Next() {
		var pid, streetPID, mesh string
		var first, last int
		var isLot bool
		var lat, lon float64
		if err := rows.Scan(&pid, &streetPID, &first, &last, &isLot, &mesh, &lat, &lon); err != nil {
			return n, err
		}
		h := refdata.House{MeshBlock: mesh, Lat: lat, Lon: lon, IsLot: isLot, AddressPID: pid}
		if last > first {
			b.AddHouseRange(streetPID, first, last, h)
		} else {
			b.AddHouse(streetPID, first, h)
		}
		n++
	}
	return n, rows.Err()
}

func queryBuildings(ctx context.Context, db *sql.DB, b *refdata.Builder) (int, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT name, house_number, street_pid, locality_pid
		FROM buildings ORDER BY name, street_pid`)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	n := 0
	for rows.Next() {
		var name, streetPID, loc string
		var houseNo int
		if err := rows.Scan(&name, &houseNo, &streetPID, &loc); err != nil {
			return n, err
		}
		b.AddBuilding(name, houseNo, streetPID, loc)
		n++
	}
	return n, rows.Err()
}

func queryMeshBlocks(ctx context.Context, db *sql.DB, b *refdata.Builder) (int, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT mesh_block, sa1, lga FROM mesh_blocks ORDER BY mesh_block`)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	n := 0
	for rows.Next() {
		var mesh, sa1, lga string
		if err := rows.Scan(&mesh, &sa1, &lga); err != nil {
			return n, err
		}
		b.AddMeshBlock(mesh, sa1, lga)
		n++
	}
	return n, rows.Err()
}

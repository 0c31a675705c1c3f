package batch

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnaf-verify/internal/engine"
	"github.com/gnaf-verify/internal/refdata"
)

func testEngine(t *testing.T) *engine.Engine {
	t.Helper()
	b := refdata.NewBuilder()
	b.AddState("9", "ZZ", "ZEDLAND")
	b.AddLocality("L1", "9", "SAMPLETOWN", refdata.TagPrimary, refdata.GeoPoint{SA1: "10101", LGA: "LG01", Lat: -33.7, Lon: 150.3})
	b.AddLocalityPostcode("L1", "9999")
	b.AddStreet("S1", "L1", "SMITH", "STREET", "", false, -33.7, 150.3)
	b.AddHouse("S1", 12, refdata.House{MeshBlock: "MB1", Lat: -33.71, Lon: 150.31, AddressPID: "GAZZ12"})
	b.AddMeshBlock("MB1", "10101", "LG01")
	ds, err := b.Build()
	require.NoError(t, err)
	return engine.New(ds, nil)
}

func TestRunPreservesOrder(t *testing.T) {
	p := &Processor{
		Engine:     testEngine(t),
		Columns:    DefaultColumns(),
		Workers:    4,
		SkipHeader: true,
	}

	in := strings.Join([]string{
		"id,address",
		"r1,12 SMITH STREET SAMPLETOWN ZZ 9999",
		"r2,UNKNOWNTOWN",
		"r3,9999",
	}, "\n")

	var out bytes.Buffer
	summary, err := p.Run(context.Background(), strings.NewReader(in), &out)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 1, summary.ByAccuracy[engine.AccuracyProperty])
	assert.Equal(t, 1, summary.ByAccuracy[engine.AccuracyNone])

	rows, err := csv.NewReader(&out).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, outputHeader(), rows[0])
	assert.Equal(t, "r1", rows[1][0])
	assert.Equal(t, engine.AccuracyProperty, rows[1][1])
	assert.Equal(t, "r2", rows[2][0])
	assert.Equal(t, engine.StatusNotFound, rows[2][2])
	assert.Equal(t, "r3", rows[3][0])
}

func TestRunColumnMapping(t *testing.T) {
	p := &Processor{
		Engine: testEngine(t),
		Columns: Columns{
			ID:       0,
			Address:  []int{1, 2},
			Suburb:   3,
			State:    4,
			Postcode: 5,
		},
		Comma: '|',
	}

	in := "r1|12 SMITH STREET||SAMPLETOWN|ZZ|9999\n"
	var out bytes.Buffer
	_, err := p.Run(context.Background(), strings.NewReader(in), &out)
	require.NoError(t, err)

	rows, err := csv.NewReader(&out).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, engine.AccuracyProperty, rows[1][1])
	assert.Equal(t, "12 SMITH STREET", rows[1][5])
}

func TestRunMissingColumn(t *testing.T) {
	p := &Processor{
		Engine:  testEngine(t),
		Columns: Columns{ID: 0, Address: []int{5}, Suburb: -1, State: -1, Postcode: -1},
	}

	var out bytes.Buffer
	_, err := p.Run(context.Background(), strings.NewReader("r1,12 SMITH STREET\n"), &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
}

func TestRunCancelled(t *testing.T) {
	p := &Processor{Engine: testEngine(t), Columns: DefaultColumns(), Workers: 2}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	in := "r1,12 SMITH STREET SAMPLETOWN\nr2,12 SMITH STREET SAMPLETOWN\n"
	_, err := p.Run(ctx, strings.NewReader(in), &out)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunEmptyInput(t *testing.T) {
	p := &Processor{Engine: testEngine(t), Columns: DefaultColumns()}

	var out bytes.Buffer
	summary, err := p.Run(context.Background(), strings.NewReader(""), &out)
	require.NoError(t, err)
	assert.Zero(t, summary.Total)

	rows, err := csv.NewReader(&out).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

// Package batch runs the verification engine over CSV files, fanning
// rows out to a worker pool and writing results in input order.
package batch

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gnaf-verify/internal/engine"
)

// Columns maps input CSV columns to address fields. Address columns are
// joined as the free-text lines; a negative index means the column is
// absent.
type Columns struct {
	ID       int
	Address  []int
	Suburb   int
	State    int
	Postcode int
}

// DefaultColumns reads id,address from the first two columns.
func DefaultColumns() Columns {
	return Columns{ID: 0, Address: []int{1}, Suburb: -1, State: -1, Postcode: -1}
}

// Processor streams a CSV through the engine.
type Processor struct {
	Engine  *engine.Engine
	Columns Columns

	// Workers sizes the pool; values below 1 mean a single worker.
	Workers int

	// Comma is the input delimiter; zero means ','.
	Comma rune

	// SkipHeader drops the first input record.
	SkipHeader bool
}

// Summary reports one completed run.
type Summary struct {
	Total      int
	ByAccuracy map[string]int
	Elapsed    time.Duration
}

type job struct {
	seq  int
	addr engine.Address
}

type done struct {
	seq int
	res *engine.Result
}

// Run reads every row from in, verifies them concurrently and writes
// one output row per input row, in input order. It stops early when ctx
// is cancelled.
func (p *Processor) Run(ctx context.Context, in io.Reader, out io.Writer) (*Summary, error) {
	start := time.Now()

	reader := csv.NewReader(in)
	if p.Comma != 0 {
		reader.Comma = p.Comma
	}
	reader.FieldsPerRecord = -1

	jobs, err := p.readJobs(reader)
	if err != nil {
		return nil, err
	}

	results := p.verifyAll(ctx, jobs)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	writer := csv.NewWriter(out)
	if err := writer.Write(outputHeader()); err != nil {
		return nil, fmt.Errorf("batch: write header: %w", err)
	}
	summary := &Summary{ByAccuracy: map[string]int{}}
	for _, res := range results {
		if err := writer.Write(outputRow(res)); err != nil {
			return nil, fmt.Errorf("batch: write row: %w", err)
		}
		summary.Total++
		summary.ByAccuracy[res.Accuracy]++
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("batch: flush: %w", err)
	}

	summary.Elapsed = time.Since(start)
	log.Info().
		Int("total", summary.Total).
		Dur("elapsed", summary.Elapsed).
		Msg("batch complete")
	return summary, nil
}

func (p *Processor) readJobs(reader *csv.Reader) ([]job, error) {
	var jobs []job
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			return jobs, nil
		}
		if err != nil {
			return nil, fmt.Errorf("batch: read: %w", err)
		}
		line++
		if line == 1 && p.SkipHeader {
			continue
		}
		addr, err := p.Columns.address(record)
		if err != nil {
			return nil, fmt.Errorf("batch: line %d: %w", line, err)
		}
		jobs = append(jobs, job{seq: len(jobs), addr: addr})
	}
}

func (c Columns) address(record []string) (engine.Address, error) {
	var addr engine.Address
	field := func(i int) (string, error) {
		if i >= len(record) {
			return "", fmt.Errorf("column %d missing, row has %d fields", i, len(record))
		}
		return record[i], nil
	}

	if c.ID >= 0 {
		v, err := field(c.ID)
		if err != nil {
			return addr, err
		}
		addr.ID = v
	}
	for _, i := range c.Address {
		v, err := field(i)
		if err != nil {
			return addr, err
		}
		if v != "" {
			addr.AddressLines = append(addr.AddressLines, v)
		}
	}
	if c.Suburb >= 0 {
		v, err := field(c.Suburb)
		if err != nil {
			return addr, err
		}
		addr.Suburb = v
	}
	if c.State >= 0 {
		v, err := field(c.State)
		if err != nil {
			return addr, err
		}
		addr.State = v
	}
	if c.Postcode >= 0 {
		v, err := field(c.Postcode)
		if err != nil {
			return addr, err
		}
		addr.Postcode = v
	}
	return addr, nil
}

func (p *Processor) verifyAll(ctx context.Context, jobs []job) []*engine.Result {
	workers := p.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	results := make([]*engine.Result, len(jobs))
	if len(jobs) == 0 {
		return results
	}

	work := make(chan job)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range work {
				results[j.seq] = p.Engine.Verify(j.addr)
			}
		}()
	}

feed:
	for _, j := range jobs {
		select {
		case work <- j:
		case <-ctx.Done():
			break feed
		}
	}
	close(work)
	wg.Wait()
	return results
}

func outputHeader() []string {
	return []string{
		"id", "accuracy", "status", "score", "fuzzLevel",
		"addressLine1", "addressLine2", "gnafId",
		"latitude", "longitude", "messages",
	}
}

func outputRow(res *engine.Result) []string {
	msgs := ""
	for i, m := range res.Messages {
		if i > 0 {
			msgs += "; "
		}
		msgs += m
	}
	return []string{
		res.ID,
		res.Accuracy,
		res.Status,
		strconv.Itoa(res.Score),
		strconv.Itoa(res.FuzzLevel),
		res.AddressLine1,
		res.AddressLine2,
		res.GnafID,
		formatCoord(res.Latitude),
		formatCoord(res.Longitude),
		msgs,
	}
}

func formatCoord(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

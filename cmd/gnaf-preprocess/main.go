// gnaf-preprocess runs raw address text through libpostal before batch
// verification. Freeform input with units, care-of lines and country
// suffixes parses into labelled components; this tool keeps the parts
// the verifier consumes and emits a CSV ready for `verifier batch`.
package main

import (
	"bufio"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	postal "github.com/openvenues/gopostal/parser"

	"github.com/gnaf-verify/internal/normalize"
)

const version = "1.0.0"

func main() {
	var (
		command = flag.String("cmd", "", "Command: preprocess, test-parse")
		address = flag.String("address", "", "Single address to test parsing")
		input   = flag.String("input", "", "Input file, one raw address per line (default: stdin)")
		output  = flag.String("output", "", "Output CSV (default: stdout)")
		limit   = flag.Int("limit", 0, "Number of lines to process (0 = all)")
	)
	flag.Parse()

	switch *command {
	case "test-parse":
		if *address == "" {
			fmt.Println("Error: -address required for test-parse")
			return
		}
		testParse(*address)
	case "preprocess":
		if err := preprocess(*input, *output, *limit); err != nil {
			log.Fatalf("Error: %v", err)
		}
	default:
		printUsage()
	}
}

func printUsage() {
	fmt.Printf("gnaf-preprocess v%s\n", version)
	fmt.Println("Usage:")
	fmt.Println("  Test parse a single address:")
	fmt.Println("    ./gnaf-preprocess -cmd=test-parse -address=\"Unit 2, 12 Smith St, Sampletown NSW 2000\"")
	fmt.Println()
	fmt.Println("  Pre-process a file of raw addresses:")
	fmt.Println("    ./gnaf-preprocess -cmd=preprocess -input=raw.txt -output=clean.csv")
}

func testParse(address string) {
	fmt.Printf("Input: %s\n\n", address)
	for _, c := range postal.ParseAddress(address) {
		fmt.Printf("  %-16s %s\n", c.Label, c.Value)
	}
	fmt.Println()

	row := toRow(0, address)
	fmt.Printf("Output row: %s\n", strings.Join(row, ","))
}

func preprocess(input, output string, limit int) error {
	in := os.Stdin
	if input != "" {
		f, err := os.Open(input)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}
	out := os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	w := csv.NewWriter(out)
	if err := w.Write([]string{"id", "address", "suburb", "state", "postcode"}); err != nil {
		return err
	}

	sc := bufio.NewScanner(in)
	n := 0
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		n++
		if err := w.Write(toRow(n, line)); err != nil {
			return err
		}
		if limit > 0 && n >= limit {
			break
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "processed %d addresses\n", n)
	return nil
}

// toRow parses one raw line and rebuilds it as an output record. The
// street-level text keeps its original order; suburb, state and
// postcode move to their own columns when libpostal labels them.
func toRow(id int, line string) []string {
	var streetParts []string
	var suburb, state, postcode string

	for _, c := range postal.ParseAddress(line) {
		value := normalize.Clean(c.Value, false)
		switch c.Label {
		case "suburb", "city", "city_district":
			if suburb == "" {
				suburb = value
			}
		case "state":
			state = value
		case "postcode":
			postcode = value
		case "country", "country_region":
			// dropped
		default:
			streetParts = append(streetParts, value)
		}
	}

	if len(streetParts) == 0 {
		streetParts = append(streetParts, normalize.Clean(line, false))
	}
	return []string{
		fmt.Sprintf("%d", id),
		strings.Join(streetParts, " "),
		suburb,
		state,
		postcode,
	}
}

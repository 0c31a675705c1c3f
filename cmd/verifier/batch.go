package main

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/gnaf-verify/internal/batch"
)

var batchFlags struct {
	input      string
	output     string
	workers    int
	delimiter  string
	skipHeader bool
	idCol      int
	addrCols   []int
	suburbCol  int
	stateCol   int
	pcCol      int
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Verify a CSV file of addresses",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		eng, err := buildEngine(cfg)
		if err != nil {
			return err
		}

		in := os.Stdin
		if batchFlags.input != "" {
			f, err := os.Open(batchFlags.input)
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}
		out := os.Stdout
		if batchFlags.output != "" {
			f, err := os.Create(batchFlags.output)
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}

		p := &batch.Processor{
			Engine: eng,
			Columns: batch.Columns{
				ID:       batchFlags.idCol,
				Address:  batchFlags.addrCols,
				Suburb:   batchFlags.suburbCol,
				State:    batchFlags.stateCol,
				Postcode: batchFlags.pcCol,
			},
			Workers:    batchFlags.workers,
			SkipHeader: batchFlags.skipHeader,
		}
		if batchFlags.delimiter != "" {
			p.Comma = rune(batchFlags.delimiter[0])
		}

		summary, err := p.Run(cmd.Context(), in, out)
		if err != nil {
			return err
		}

		fmt.Fprintf(os.Stderr, "processed %d rows in %s\n", summary.Total, summary.Elapsed.Round(time.Millisecond))
		tiers := make([]string, 0, len(summary.ByAccuracy))
		for tier := range summary.ByAccuracy {
			tiers = append(tiers, tier)
		}
		sort.Strings(tiers)
		for _, tier := range tiers {
			fmt.Fprintf(os.Stderr, "  accuracy %s: %d\n", tier, summary.ByAccuracy[tier])
		}
		return nil
	},
}

func init() {
	batchCmd.Flags().StringVarP(&batchFlags.input, "input", "i", "", "input CSV (default: stdin)")
	batchCmd.Flags().StringVarP(&batchFlags.output, "output", "o", "", "output CSV (default: stdout)")
	batchCmd.Flags().IntVarP(&batchFlags.workers, "workers", "w", 4, "concurrent verifications")
	batchCmd.Flags().StringVar(&batchFlags.delimiter, "delimiter", "", "input field delimiter (default: comma)")
	batchCmd.Flags().BoolVar(&batchFlags.skipHeader, "skip-header", true, "skip the first input row")
	batchCmd.Flags().IntVar(&batchFlags.idCol, "id-col", 0, "ID column index")
	batchCmd.Flags().IntSliceVar(&batchFlags.addrCols, "address-cols", []int{1}, "address line column indexes")
	batchCmd.Flags().IntVar(&batchFlags.suburbCol, "suburb-col", -1, "suburb column index")
	batchCmd.Flags().IntVar(&batchFlags.stateCol, "state-col", -1, "state column index")
	batchCmd.Flags().IntVar(&batchFlags.pcCol, "postcode-col", -1, "postcode column index")
	rootCmd.AddCommand(batchCmd)
}

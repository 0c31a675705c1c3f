package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gnaf-verify/internal/engine"
)

var lineFlags struct {
	suburb   string
	state    string
	postcode string
	asJSON   bool
}

var lineCmd = &cobra.Command{
	Use:   "line [address line]...",
	Short: "Verify one address from the command line",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		eng, err := buildEngine(cfg)
		if err != nil {
			return err
		}

		res := eng.Verify(engine.Address{
			AddressLines: args,
			Suburb:       lineFlags.suburb,
			State:        lineFlags.state,
			Postcode:     lineFlags.postcode,
		})

		if lineFlags.asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}

		fmt.Printf("%s (accuracy %s, score %d)\n", res.Status, res.Accuracy, res.Score)
		fmt.Println(res.AddressLine1)
		fmt.Println(res.AddressLine2)
		if res.GnafID != "" {
			fmt.Printf("gnaf %s  mesh block %s  %.6f,%.6f\n", res.GnafID, res.MeshBlock, res.Latitude, res.Longitude)
		}
		if len(res.Messages) > 0 {
			fmt.Println(strings.Join(res.Messages, "; "))
		}
		return nil
	},
}

func init() {
	lineCmd.Flags().StringVar(&lineFlags.suburb, "suburb", "", "suburb hint")
	lineCmd.Flags().StringVar(&lineFlags.state, "state", "", "state hint")
	lineCmd.Flags().StringVar(&lineFlags.postcode, "postcode", "", "postcode hint")
	lineCmd.Flags().BoolVar(&lineFlags.asJSON, "json", false, "emit the full result as JSON")
	rootCmd.AddCommand(lineCmd)
}

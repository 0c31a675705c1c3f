package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Load the reference data and report basic counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ds, err := loadDataset(cfg)
		if err != nil {
			return err
		}

		fmt.Printf("source:     %s\n", cfg.Data.Source)
		fmt.Printf("states:     %d\n", len(ds.States))
		fmt.Printf("localities: %d\n", len(ds.LocalityName))
		fmt.Printf("streets:    %d\n", len(ds.PrimaryStreet))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pingCmd)
}

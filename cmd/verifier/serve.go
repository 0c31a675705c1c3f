package main

import (
	"github.com/spf13/cobra"

	"github.com/gnaf-verify/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the verification HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		eng, err := buildEngine(cfg)
		if err != nil {
			return err
		}
		return web.NewServer(cfg, eng).Start()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

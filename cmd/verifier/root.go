package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/gnaf-verify/internal/config"
	"github.com/gnaf-verify/internal/db"
	"github.com/gnaf-verify/internal/engine"
	"github.com/gnaf-verify/internal/refdata"
	"github.com/gnaf-verify/internal/refload"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "verifier",
	Short: "G-NAF address verification service",
	Long: `verifier matches free-text Australian addresses against the G-NAF
reference dataset, escalating through phonetic and edit-distance
correction when the literal text does not match.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: gnaf-verify.yaml)")
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	zerolog.SetGlobalLevel(cfg.LogLevel())
	if cfg.Log.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
	return cfg, nil
}

func loadDataset(cfg *config.Config) (*refdata.Dataset, error) {
	opts := refload.Options{NeighbourDepth: cfg.Engine.NeighbourDepth}

	switch cfg.Data.Source {
	case "postgres":
		conn, err := db.Open(cfg.Database)
		if err != nil {
			return nil, err
		}
		defer conn.Close()
		return refload.FromPostgres(context.Background(), conn, opts)
	default:
		return refload.FromDir(cfg.Data.Dir, opts)
	}
}

func buildEngine(cfg *config.Config) (*engine.Engine, error) {
	start := time.Now()
	ds, err := loadDataset(cfg)
	if err != nil {
		return nil, err
	}
	log.Info().Dur("elapsed", time.Since(start)).Msg("reference data loaded")

	opts := engine.DefaultOptions()
	opts.NTPostcodes = cfg.Engine.NTPostcodes
	opts.Region = cfg.Engine.Region
	opts.Abbreviate = cfg.Engine.Abbreviate
	opts.ReturnBoth = cfg.Engine.ReturnBoth
	opts.AddExtras = cfg.Engine.AddExtras
	opts.CommunityNames = cfg.Engine.CommunityNames
	opts.Trace = cfg.Engine.Trace
	if len(cfg.Engine.FuzzLevels) > 0 {
		opts.FuzzLevels = cfg.Engine.FuzzLevels
	}
	if cfg.Engine.MaxCandidates > 0 {
		opts.MaxCandidates = cfg.Engine.MaxCandidates
	}
	return engine.New(ds, opts), nil
}

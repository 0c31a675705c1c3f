// web starts the verification HTTP API with configuration taken from
// the default search path and GNAF_* environment variables. It is the
// container entry point; the verifier CLI offers the same server under
// `verifier serve` along with batch and single-line modes.
package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gnaf-verify/internal/config"
	"github.com/gnaf-verify/internal/engine"
	"github.com/gnaf-verify/internal/refload"
	"github.com/gnaf-verify/internal/web"
)

func main() {
	cfg, err := config.Load(os.Getenv("GNAF_CONFIG"))
	if err != nil {
		log.Fatal().Err(err).Msg("configuration failed")
	}
	zerolog.SetGlobalLevel(cfg.LogLevel())
	if cfg.Log.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	ds, err := refload.FromDir(cfg.Data.Dir, refload.Options{NeighbourDepth: cfg.Engine.NeighbourDepth})
	if err != nil {
		log.Fatal().Err(err).Msg("reference data failed to load")
	}

	opts := engine.DefaultOptions()
	opts.NTPostcodes = cfg.Engine.NTPostcodes
	opts.Region = cfg.Engine.Region
	opts.Abbreviate = cfg.Engine.Abbreviate
	opts.ReturnBoth = cfg.Engine.ReturnBoth
	opts.CommunityNames = cfg.Engine.CommunityNames
	if len(cfg.Engine.FuzzLevels) > 0 {
		opts.FuzzLevels = cfg.Engine.FuzzLevels
	}

	if err := web.NewServer(cfg, engine.New(ds, opts)).Start(); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

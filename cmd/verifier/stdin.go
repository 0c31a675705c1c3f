package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gnaf-verify/internal/engine"
)

var stdinCmd = &cobra.Command{
	Use:   "stdin",
	Short: "Verify addresses from standard input, one per line",
	Long: `Reads one free-text address per line from standard input and writes
one JSON result per line to standard output. Blank lines are skipped.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		eng, err := buildEngine(cfg)
		if err != nil {
			return err
		}

		scanner := bufio.NewScanner(os.Stdin)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		enc := json.NewEncoder(os.Stdout)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			res := eng.Verify(engine.Address{AddressLines: []string{line}})
			if err := enc.Encode(res); err != nil {
				return fmt.Errorf("encode result: %w", err)
			}
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(stdinCmd)
}

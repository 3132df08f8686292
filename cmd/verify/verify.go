// Package verify wires the verification tree onto a cobra subcommand, the
// way cmds/auditor wires the chain-sync node onto one.
package verify

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/rs/zerolog/log"
	"github.com/skratchdot/open-golang/open"
	"github.com/spf13/cobra"

	"github.com/nvotes/juvenal-lib/record"
	"github.com/nvotes/juvenal-lib/recorder"
	"github.com/nvotes/juvenal-lib/recordschema"
	"github.com/nvotes/juvenal-lib/report"
	"github.com/nvotes/juvenal-lib/verify"
)

// Register adds the "verify" subcommand to rootCmd.
func Register(rootCmd *cobra.Command) {
	var reportPath string
	var openReport bool
	var showProgress bool
	var schemaPath string
	var strictSchema bool
	var jsonOutput bool
	var parallel bool

	cmd := &cobra.Command{
		Use:   "verify <path-to-record.json>",
		Short: "Verify a serialized ElectionGuard v0.85 election record",
		Long:  "Verify reads an election record, checks every trustee, ballot, and tally predicate, and reports a pass/fail audit trail.",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				log.Fatal().Err(err).Str("path", path).Msg("reading election record")
			}

			var schemaValid *bool
			if !strictSchema {
				sch, err := loadSchema(schemaPath)
				if err != nil {
					log.Fatal().Err(err).Msg("loading JSON schema")
				}
				ok, err := sch.Validate(data)
				if err != nil {
					log.Fatal().Err(err).Msg("validating record against JSON schema")
				}
				schemaValid = &ok
			}

			wire, err := record.Parse(data)
			if err != nil {
				log.Fatal().Err(err).Msg("parsing election record")
			}

			var bar *pb.ProgressBar
			progress := func(done, total int) {}
			if showProgress {
				n := len(wire.CastBallots) + len(wire.ContestTallies) + len(wire.SpoiledBallots)
				if n > 0 {
					bar = pb.ProgressBarTemplate(`{{string . "prefix"}}{{counters . }} {{bar . }} {{percent . }} {{speed . }} {{etime . }`).New(n)
					bar.SetRefreshRate(time.Second)
					bar.Start()
					progress = func(done, total int) { bar.Increment() }
				}
			}

			opts := verify.Options{Parallel: parallel, Progress: progress}
			election := verify.NewElection(wire, opts)
			election.SchemaValid = schemaValid

			rec := recorder.NewCollectingRecorder()
			var verr error
			if parallel {
				verr = election.VerifyParallel(rec)
			} else {
				verr = election.Verify(rec)
			}
			if bar != nil {
				bar.Finish()
			}
			if verr != nil {
				log.Fatal().Err(verr).Msg("verifying election record")
			}

			if err := emit(rec, jsonOutput); err != nil {
				log.Fatal().Err(err).Msg("writing predicate trail")
			}

			if reportPath != "" {
				if err := writeReport(rec, reportPath, openReport); err != nil {
					log.Fatal().Err(err).Msg("writing HTML audit report")
				}
			}

			if rec.Failed() {
				os.Exit(1)
			}
		},
	}

	cmd.Flags().StringVar(&reportPath, "report", "", "Render an HTML audit trail to the given path")
	cmd.Flags().BoolVar(&openReport, "open-report", false, "Open the rendered report in the system default browser (requires --report)")
	cmd.Flags().BoolVar(&showProgress, "progress", false, "Show a progress bar over ballots and tallies while verifying")
	cmd.Flags().StringVar(&schemaPath, "schema", "", "Path to a JSON Schema overriding the embedded ElectionGuard 0.85 schema")
	cmd.Flags().BoolVar(&strictSchema, "strict-schema", false, "Skip JSON-schema shape validation entirely")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the predicate trail as a JSON array instead of text lines")
	cmd.Flags().BoolVar(&parallel, "parallel", false, "Verify independent ballots and tallies on a bounded worker pool")

	rootCmd.AddCommand(cmd)
}

func loadSchema(path string) (*recordschema.Schema, error) {
	if path == "" {
		return recordschema.Load()
	}
	return recordschema.LoadFile(path)
}

func emit(rec *recorder.CollectingRecorder, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rec.Entries)
	}
	for _, e := range rec.Entries {
		fmt.Println(e.String())
	}
	return nil
}

func writeReport(rec *recorder.CollectingRecorder, path string, openAfter bool) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report file: %w", err)
	}
	defer f.Close()
	if err := report.Write(f, rec); err != nil {
		return err
	}
	if openAfter {
		if err := open.Run(path); err != nil {
			log.Warn().Err(err).Msg("failed to open audit report in system browser")
		}
	}
	return nil
}

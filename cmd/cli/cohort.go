package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"qisim/adapters/export"
	"qisim/adapters/rng"
	"qisim/domain/cohort"
	"qisim/domain/core"
	cohortgen "qisim/internal/cohort"
	"qisim/internal/errors"

	"github.com/spf13/cobra"
)

func (a *app) newSimulateCmd() *cobra.Command {
	var (
		configFile   string
		participants int
		start, end   string
		seed         int64
		format       string
		out          string
		deep         bool
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Generate a synthetic cohort",
		Long: `Generate a synthetic participant cohort and write it as json, csv or xlsx.

Settings come from --config (a JSON simulation config) with flags overriding it.
A seed of 0 uses SIM_SEED, or a fresh seed that is printed for reuse.

Example: qisim simulate --participants 500 --start 2024-01-01 --end 2024-12-31 --seed 42 --format xlsx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			simCfg := cohort.DefaultSimulationConfig()
			simCfg.NumParticipants = a.cfg.Simulation.DefaultParticipants
			if configFile != "" {
				raw, err := os.ReadFile(configFile)
				if err != nil {
					return errors.Wrapf(err, "read simulation config %s", configFile)
				}
				if err := json.Unmarshal(raw, &simCfg); err != nil {
					return errors.Wrap(errors.InvalidInput(err.Error()), "parse simulation config")
				}
			}
			flags := cmd.Flags()
			if flags.Changed("participants") {
				simCfg.NumParticipants = participants
			}
			if flags.Changed("deep-phenotype") {
				simCfg.EnableDeepPhenotyping = deep
			}
			if err := dateFlag(cmd, "start", start, &simCfg.StartDate); err != nil {
				return err
			}
			if err := dateFlag(cmd, "end", end, &simCfg.EndDate); err != nil {
				return err
			}
			if simCfg.NumParticipants > a.cfg.Simulation.MaxParticipants {
				return errors.InvalidInput(fmt.Sprintf("%d participants exceed the limit of %d",
					simCfg.NumParticipants, a.cfg.Simulation.MaxParticipants))
			}

			seed = a.resolveSeed(seed)
			g, err := cohortgen.NewGenerator(simCfg, rng.NewProvider().Stream("simulate", seed), a.log)
			if err != nil {
				return err
			}
			ps, err := g.Generate()
			if err != nil {
				return err
			}

			if out == "" {
				out = filepath.Join(a.cfg.Paths.ExportDir, fmt.Sprintf("cohort-%d.%s", seed, format))
			}
			if err := writeCohort(out, format, ps); err != nil {
				return err
			}
			fmt.Printf("Generated %d participants (seed %d) -> %s\n", len(ps), seed, out)
			return nil
		},
	}

	cmd.Flags().StringVar(&configFile, "config", "", "JSON simulation config file")
	cmd.Flags().IntVar(&participants, "participants", 0, "Number of participants")
	cmd.Flags().StringVar(&start, "start", "", "Admission window start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "Admission window end (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&deep, "deep-phenotype", false, "Attach deep phenotype data")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed; 0 picks one")
	cmd.Flags().StringVar(&format, "format", "json", "Output format: json|csv|xlsx")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default EXPORT_DIR/cohort-<seed>.<format>)")
	return cmd
}

func (a *app) newDeriveCmd() *cobra.Command {
	var (
		relationsFile string
		seed          int64
		format        string
		out           string
	)

	cmd := &cobra.Command{
		Use:   "derive [cohort.json]",
		Short: "Apply dependency relations to an existing cohort",
		Long: `Derive variables as noisy weighted sums of other fields.

The relations file holds a JSON array of {targetVariable, dependsOn, coefficients, noiseLevel}.

Example: qisim derive cohort.json --relations relations.json -o derived.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ps, err := readCohort(args[0])
			if err != nil {
				return err
			}
			raw, err := os.ReadFile(relationsFile)
			if err != nil {
				return errors.Wrapf(err, "read relations %s", relationsFile)
			}
			var relations []cohort.DependencyRelation
			if err := json.Unmarshal(raw, &relations); err != nil {
				return errors.Wrap(errors.InvalidInput(err.Error()), "parse relations")
			}

			seed = a.resolveSeed(seed)
			derived, err := cohortgen.EvaluateDependencies(ps, relations, rng.NewProvider().Stream("derive", seed))
			if err != nil {
				return err
			}
			if out == "" {
				out = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + "-derived." + format
			}
			if err := writeCohort(out, format, derived); err != nil {
				return err
			}
			fmt.Printf("Applied %d relations to %d participants (seed %d) -> %s\n", len(relations), len(derived), seed, out)
			return nil
		},
	}

	cmd.Flags().StringVar(&relationsFile, "relations", "", "JSON file of dependency relations")
	_ = cmd.MarkFlagRequired("relations")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed for noise; 0 picks one")
	cmd.Flags().StringVar(&format, "format", "json", "Output format: json|csv|xlsx")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file")
	return cmd
}

func (a *app) newSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary [cohort.json]",
		Short: "Print a JSON profile of a cohort",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ps, err := readCohort(args[0])
			if err != nil {
				return err
			}
			return printJSON(cohortgen.Summarize(ps))
		},
	}
}

// dateFlag overwrites dst when the flag was given
func dateFlag(cmd *cobra.Command, name, value string, dst *core.Date) error {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	d, err := core.ParseDate(value)
	if err != nil {
		return errors.InvalidInput(fmt.Sprintf("--%s: %v", name, err))
	}
	*dst = d
	return nil
}

func (a *app) resolveSeed(seed int64) int64 {
	if seed == 0 {
		seed = a.cfg.Simulation.Seed
	}
	if seed == 0 {
		seed = rng.EntropySeed()
	}
	return seed
}

func readCohort(path string) ([]cohort.Participant, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open cohort %s", path)
	}
	defer f.Close()
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return export.ReadWorkbook(f)
	}
	return export.ReadJSON(f)
}

func writeCohort(path, format string, ps []cohort.Participant) (err error) {
	write := map[string]func(*os.File) error{
		"json": func(f *os.File) error { return export.WriteJSON(f, ps) },
		"csv":  func(f *os.File) error { return export.WriteCSV(f, ps) },
		"xlsx": func(f *os.File) error { return export.WriteWorkbook(f, ps) },
	}[format]
	if write == nil {
		return errors.InvalidInput("unsupported format: " + format)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "create output directory")
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create output file")
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = errors.Wrap(cerr, "close output file")
		}
	}()
	return write(f)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

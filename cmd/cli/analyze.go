package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"qisim/adapters/excel"
	"qisim/adapters/rng"
	"qisim/internal/analysis"
	cohortgen "qisim/internal/cohort"
	"qisim/internal/errors"
	"qisim/internal/report"

	"github.com/spf13/cobra"
)

// dataset is what the analysis commands run over
type dataset struct {
	rows    []analysis.Row
	numeric []string // default field list
	summary *cohortgen.CohortSummary
}

// loadDataset reads a cohort JSON export, or any CSV/XLSX table
func loadDataset(path string) (*dataset, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		ps, err := readCohort(path)
		if err != nil {
			return nil, err
		}
		summary := cohortgen.Summarize(ps)
		return &dataset{
			rows:    analysis.ParticipantRows(ps),
			numeric: []string{"age", "riskScore", "lengthOfStay", "readmissionRisk"},
			summary: &summary,
		}, nil
	case ".csv", ".xlsx":
		table, err := excel.NewDataReader(path).ReadData()
		if err != nil {
			return nil, err
		}
		return &dataset{rows: table.AnalysisRows(), numeric: excel.NumericColumns(table)}, nil
	default:
		return nil, errors.InvalidInput("unsupported input file: " + path)
	}
}

func splitFields(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func (a *app) newCorrelateCmd() *cobra.Command {
	var fields string

	cmd := &cobra.Command{
		Use:   "correlate [data-file]",
		Short: "Pairwise Pearson correlations over numeric fields",
		Long: `Compute the correlation matrix of the given fields (default: every numeric field).

Example: qisim correlate cohort.json --fields age,riskScore,lengthOfStay`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadDataset(args[0])
			if err != nil {
				return err
			}
			names := splitFields(fields)
			if len(names) == 0 {
				names = ds.numeric
			}
			cells, err := analysis.CorrelationMatrixContext(cmd.Context(), ds.rows, names)
			if err != nil {
				return err
			}
			for _, c := range cells {
				fmt.Printf("%-24s %-24s r=%+.4f n=%d\n", c.X, c.Y, c.R, c.N)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&fields, "fields", "", "Comma-separated field paths")
	return cmd
}

func (a *app) newFitLineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fit-line [data-file] [x] [y]",
		Short: "Least-squares line y = slope*x + intercept",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadDataset(args[0])
			if err != nil {
				return err
			}
			xs, ys := analysis.PairedColumns(ds.rows, args[1], args[2])
			fit := analysis.FitLine(xs, ys)
			fmt.Printf("%s = %.4f * %s %+.4f  (r=%.4f, n=%d)\n",
				args[2], fit.Slope, args[1], fit.Intercept, analysis.Correlation(xs, ys), len(xs))
			return nil
		},
	}
}

func (a *app) newRegressCmd() *cobra.Command {
	var (
		outcome    string
		predictors string
	)

	cmd := &cobra.Command{
		Use:   "regress [data-file]",
		Short: "Multiple linear regression",
		Long: `Fit outcome ~ predictors by ordinary least squares.

Example: qisim regress cohort.json --outcome readmissionRisk --predictors age,riskScore,lengthOfStay`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadDataset(args[0])
			if err != nil {
				return err
			}
			return printJSON(analysis.FitModel(ds.rows, outcome, splitFields(predictors)))
		},
	}
	cmd.Flags().StringVar(&outcome, "outcome", "", "Outcome field")
	cmd.Flags().StringVar(&predictors, "predictors", "", "Comma-separated predictor fields")
	_ = cmd.MarkFlagRequired("outcome")
	return cmd
}

func (a *app) newClusterCmd() *cobra.Command {
	var (
		features    string
		k           int
		iterate     bool
		maxIter     int
		standardize bool
		seed        int64
	)

	cmd := &cobra.Command{
		Use:   "cluster [data-file]",
		Short: "Partition rows into k groups by nearest centroid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadDataset(args[0])
			if err != nil {
				return err
			}
			names := splitFields(features)
			if len(names) == 0 {
				names = ds.numeric
			}
			seed = a.resolveSeed(seed)
			opts := analysis.ClusterOptions{Iterate: iterate, MaxIterations: maxIter, Standardize: standardize}
			res := analysis.ClusterRows(ds.rows, names, k, opts, rng.NewProvider().Stream("cluster", seed))
			a.log.Info("clustered %d rows into %d groups (seed %d)", len(res.Assignments), len(res.Centroids), seed)
			return printJSON(res)
		},
	}
	cmd.Flags().StringVar(&features, "features", "", "Comma-separated feature fields (default: numeric fields)")
	cmd.Flags().IntVarP(&k, "k", "k", 3, "Number of clusters")
	cmd.Flags().BoolVar(&iterate, "iterate", false, "Refine centroids until assignments settle")
	cmd.Flags().IntVar(&maxIter, "max-iterations", 0, "Refinement cap (0 uses the default)")
	cmd.Flags().BoolVar(&standardize, "standardize", false, "z-score features before clustering")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed for initial centroids; 0 picks one")
	return cmd
}

func (a *app) newReportCmd() *cobra.Command {
	var (
		title      string
		fields     string
		outcome    string
		predictors string
		clusterK   int
		format     string
		out        string
		seed       int64
	)

	cmd := &cobra.Command{
		Use:   "report [data-file]",
		Short: "Render a Markdown or HTML analysis report",
		Long: `Render a report with the cohort summary, a correlation matrix, a line fit for every
predictor, the multiple regression and, when --k is set, a clustering of the predictors.

Example: qisim report cohort.json --outcome readmissionRisk --predictors age,riskScore --k 3 --format html -o report.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadDataset(args[0])
			if err != nil {
				return err
			}
			if title == "" {
				title = a.cfg.Report.Title
			}
			rep := report.Report{Title: title, GeneratedAt: time.Now().UTC(), Summary: ds.summary}

			names := splitFields(fields)
			if len(names) == 0 {
				names = ds.numeric
			}
			if rep.Correlations, err = analysis.CorrelationMatrixContext(cmd.Context(), ds.rows, names); err != nil {
				return err
			}

			preds := splitFields(predictors)
			if outcome != "" {
				for _, p := range preds {
					xs, ys := analysis.PairedColumns(ds.rows, p, outcome)
					rep.Lines = append(rep.Lines, report.LineSection{
						X: p, Y: outcome, Fit: analysis.FitLine(xs, ys), R: analysis.Correlation(xs, ys), N: len(xs),
					})
				}
				rep.Regressions = append(rep.Regressions, analysis.FitModel(ds.rows, outcome, preds))
			}
			if clusterK > 0 && len(preds) > 0 {
				opts := analysis.ClusterOptions{Iterate: true, Standardize: true}
				res := analysis.ClusterRows(ds.rows, preds, clusterK, opts, rng.NewProvider().Stream("cluster", a.resolveSeed(seed)))
				rep.Clusters = append(rep.Clusters, report.ClusterSection{Features: preds, Result: res})
			}

			var body []byte
			switch format {
			case "markdown", "md":
				body = []byte(rep.Markdown())
			case "html":
				body = rep.HTML()
			default:
				return errors.InvalidInput("unsupported report format: " + format)
			}
			if out == "" {
				_, err = os.Stdout.Write(body)
				return err
			}
			if err := os.WriteFile(out, body, 0o644); err != nil {
				return errors.Wrap(err, "write report")
			}
			fmt.Printf("Report written to %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Report title (default REPORT_TITLE)")
	cmd.Flags().StringVar(&fields, "fields", "", "Correlation fields (default: numeric fields)")
	cmd.Flags().StringVar(&outcome, "outcome", "", "Outcome for line fits and regression")
	cmd.Flags().StringVar(&predictors, "predictors", "", "Comma-separated predictors")
	cmd.Flags().IntVarP(&clusterK, "k", "k", 0, "Cluster the predictors into k groups (0 skips)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed for clustering; 0 picks one")
	cmd.Flags().StringVar(&format, "format", "markdown", "Output format: markdown|html")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")
	return cmd
}

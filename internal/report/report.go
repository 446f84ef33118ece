// Package report renders analysis results as Markdown and HTML.
package report

import (
	"fmt"
	"strings"
	"time"

	"qisim/domain/stats"
	"qisim/internal/cohort"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// SignificanceLevel marks coefficients whose exact p-value falls below it
const SignificanceLevel = 0.05

// LineSection is one simple regression shown in the report
type LineSection struct {
	X   string        `json:"x"`
	Y   string        `json:"y"`
	Fit stats.LineFit `json:"fit"`
	R   float64       `json:"r"`
	N   int           `json:"n"`
}

// ClusterSection is one clustering run shown in the report
type ClusterSection struct {
	Features []string            `json:"features"`
	Result   stats.ClusterResult `json:"result"`
}

// Report collects everything one analysis report renders. Empty sections are omitted.
type Report struct {
	Title        string                   `json:"title"`
	GeneratedAt  time.Time                `json:"generatedAt"`
	Summary      *cohort.CohortSummary    `json:"summary,omitempty"`
	Correlations []stats.CorrelationCell  `json:"correlations,omitempty"`
	Lines        []LineSection            `json:"lines,omitempty"`
	Regressions  []stats.RegressionResult `json:"regressions,omitempty"`
	Clusters     []ClusterSection         `json:"clusters,omitempty"`
}

// Markdown renders the report
func (r Report) Markdown() string {
	var b strings.Builder
	title := r.Title
	if title == "" {
		title = "Analysis Report"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	if !r.GeneratedAt.IsZero() {
		fmt.Fprintf(&b, "_Generated %s_\n\n", r.GeneratedAt.UTC().Format(time.RFC3339))
	}

	if r.Summary != nil {
		writeSummary(&b, r.Summary)
	}
	if len(r.Correlations) > 0 {
		writeCorrelations(&b, r.Correlations)
	}
	if len(r.Lines) > 0 {
		writeLines(&b, r.Lines)
	}
	for _, reg := range r.Regressions {
		writeRegression(&b, reg)
	}
	for _, c := range r.Clusters {
		writeClusters(&b, c)
	}
	return b.String()
}

// HTML renders the Markdown through gomarkdown with tables enabled
func (r Report) HTML() []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.CompletePage,
		Title: r.Title,
	})
	return markdown.ToHTML([]byte(r.Markdown()), p, renderer)
}

func writeSummary(b *strings.Builder, s *cohort.CohortSummary) {
	b.WriteString("## Cohort\n\n")
	fmt.Fprintf(b, "- Participants: %d\n", s.Participants)
	fmt.Fprintf(b, "- Measurements: %d (missing rate %.1f%%)\n", s.Measurements, s.MissingRate*100)
	fmt.Fprintf(b, "- Treatments: %d (%d ongoing)\n", s.Treatments, s.OngoingTreatment)
	if s.Fingerprint != "" {
		fmt.Fprintf(b, "- Fingerprint: `%s`\n", shortHash(s.Fingerprint))
	}
	b.WriteString("\n| Measure | Mean | Median | SD | Min | Max |\n|---|---|---|---|---|---|\n")
	for _, row := range []struct {
		name string
		s    stats.Summary
	}{
		{"Age", s.Age},
		{"Risk score", s.RiskScore},
		{"Length of stay", s.LengthOfStay},
		{"Readmission risk", s.ReadmissionRisk},
	} {
		fmt.Fprintf(b, "| %s | %.2f | %.2f | %.2f | %.2f | %.2f |\n",
			row.name, row.s.Mean, row.s.Median, row.s.StdDev, row.s.Min, row.s.Max)
	}
	b.WriteString("\n")

	if len(s.Outcomes) > 0 {
		b.WriteString("| Outcome | Count |\n|---|---|\n")
		for _, o := range s.Outcomes {
			fmt.Fprintf(b, "| %s | %.0f |\n", o.Name, o.Value)
		}
		b.WriteString("\n")
	}
}

func writeCorrelations(b *strings.Builder, cells []stats.CorrelationCell) {
	b.WriteString("## Correlations\n\n| X | Y | r | n |\n|---|---|---|---|\n")
	for _, c := range cells {
		fmt.Fprintf(b, "| %s | %s | %.3f | %d |\n", c.X, c.Y, c.R, c.N)
	}
	b.WriteString("\n")
}

func writeLines(b *strings.Builder, lines []LineSection) {
	b.WriteString("## Simple regressions\n\n| Y | X | Slope | Intercept | r | n |\n|---|---|---|---|---|---|\n")
	for _, l := range lines {
		fmt.Fprintf(b, "| %s | %s | %.4f | %.4f | %.3f | %d |\n", l.Y, l.X, l.Fit.Slope, l.Fit.Intercept, l.R, l.N)
	}
	b.WriteString("\n")
}

func writeRegression(b *strings.Builder, r stats.RegressionResult) {
	fmt.Fprintf(b, "## Regression: %s\n\n", r.Outcome)
	if r.Degenerate {
		fmt.Fprintf(b, "No model could be fitted from %d complete observations (too few rows or collinear predictors).\n\n", r.Observations)
		return
	}
	fmt.Fprintf(b, "n = %d, R² = %.4f, adjusted R² = %.4f, F = %.3f (p = %.4g)\n\n",
		r.Observations, r.RSquared, r.AdjustedRSquared, r.FStat, r.FStatExactPValue)
	b.WriteString("| Term | Estimate | SE | t | p | |\n|---|---|---|---|---|---|\n")
	fmt.Fprintf(b, "| (intercept) | %.4f | | | | |\n", r.Intercept)
	for _, c := range r.Coefficients {
		mark := ""
		if c.ExactPValue < SignificanceLevel {
			mark = "*"
		}
		fmt.Fprintf(b, "| %s | %.4f | %.4f | %.3f | %.4g | %s |\n", c.Name, c.Value, c.StandardError, c.TStat, c.ExactPValue, mark)
	}
	b.WriteString("\n")
}

func writeClusters(b *strings.Builder, c ClusterSection) {
	fmt.Fprintf(b, "## Clusters: %s\n\n", strings.Join(c.Features, ", "))
	state := "single pass"
	if c.Result.Iterations > 1 {
		state = fmt.Sprintf("%d iterations", c.Result.Iterations)
		if c.Result.Converged {
			state += ", converged"
		}
	}
	fmt.Fprintf(b, "%s, inertia %.2f\n\n", state, c.Result.Inertia)

	b.WriteString("| Cluster | Size |")
	for _, f := range c.Features {
		fmt.Fprintf(b, " %s |", f)
	}
	b.WriteString("\n|---|---|" + strings.Repeat("---|", len(c.Features)) + "\n")
	for i, centroid := range c.Result.Centroids {
		size := 0
		if i < len(c.Result.Sizes) {
			size = c.Result.Sizes[i]
		}
		fmt.Fprintf(b, "| %d | %d |", i+1, size)
		for _, v := range centroid {
			fmt.Fprintf(b, " %.2f |", v)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

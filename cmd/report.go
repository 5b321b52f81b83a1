package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"sync"
	"syscall"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/cleardwell/assess-cli/internal/model"
	"github.com/cleardwell/assess-cli/internal/scoring"
	"github.com/cleardwell/assess-cli/internal/store"
)

// buildConcurrency bounds parallel report builds in --all mode.
const buildConcurrency = 4

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Score a property's readings",
	Long: `Build an assessment report from a property's current readings.

Within a category each metric is scored against its thresholds, rooms
aggregate worst-case, and weighted averages roll metrics up to category
and overall scores. Categories with no valid readings are reported as
having insufficient data rather than scored.

Examples:
  report --property 8f1c...
  report --property 8f1c... --format json --output report.json
  report --all`,
	RunE: runReport,
}

func init() {
	f := reportCmd.Flags()
	f.String("property", "", "property id")
	f.Bool("all", false, "score every property and print a summary")
	f.String("format", "table", "output format: table, json or csv")
	f.String("output", "", "write to file instead of stdout")

	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	propertyID, _ := cmd.Flags().GetString("property")
	all, _ := cmd.Flags().GetBool("all")
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")

	if all == (propertyID != "") {
		return eris.New("report: exactly one of --property or --all is required")
	}

	builder, _, err := newBuilder()
	if err != nil {
		return err
	}

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	out := io.Writer(os.Stdout)
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return eris.Wrapf(err, "report: create %s", output)
		}
		defer f.Close()
		out = f
	}

	if all {
		return reportAll(ctx, st, builder, out)
	}

	rep, err := buildReport(ctx, st, builder, propertyID)
	if err != nil {
		return err
	}

	switch format {
	case "table":
		return writeReportTable(out, rep)
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(rep), "report: encode json")
	case "csv":
		return writeReportCSV(out, rep)
	default:
		return eris.Errorf("report: unknown format %q", format)
	}
}

func buildReport(ctx context.Context, st store.Store, builder *scoring.Builder, propertyID string) (*model.Report, error) {
	if _, err := st.GetProperty(ctx, propertyID); err != nil {
		return nil, eris.Wrapf(err, "report: property %s", propertyID)
	}
	readings, err := st.ListReadings(ctx, store.ReadingFilter{PropertyID: propertyID})
	if err != nil {
		return nil, eris.Wrap(err, "report: list readings")
	}
	return builder.Build(propertyID, readings), nil
}

func reportAll(ctx context.Context, st store.Store, builder *scoring.Builder, out io.Writer) error {
	props, err := st.ListProperties(ctx)
	if err != nil {
		return eris.Wrap(err, "report: list properties")
	}
	if len(props) == 0 {
		fmt.Fprintln(out, "No properties found.")
		return nil
	}

	type row struct {
		prop model.Property
		rep  *model.Report
	}
	var (
		mu   sync.Mutex
		rows []row
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(buildConcurrency)
	for _, p := range props {
		g.Go(func() error {
			rep, err := buildReport(gctx, st, builder, p.ID)
			if err != nil {
				return err
			}
			mu.Lock()
			rows = append(rows, row{prop: p, rep: rep})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].prop.Address < rows[j].prop.Address })

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PROPERTY\tADDRESS\tSCORE\tLABEL\tREADINGS")
	for _, r := range rows {
		score, label := "-", "insufficient data"
		if !r.rep.OverallInsufficient {
			score = strconv.Itoa(r.rep.OverallScore)
			label = r.rep.OverallLabel
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n",
			r.prop.ID, r.prop.Address, score, label, r.rep.ReadingCount)
	}
	return w.Flush()
}

func writeReportTable(out io.Writer, rep *model.Report) error {
	fmt.Fprintf(out, "Property %s (generated %s)\n", rep.PropertyID,
		rep.GeneratedAt.Format("2006-01-02 15:04 MST"))
	if rep.OverallInsufficient {
		fmt.Fprintln(out, "Overall: insufficient data")
	} else {
		fmt.Fprintf(out, "Overall: %d (%s)\n", rep.OverallScore, rep.OverallLabel)
	}
	if rep.SkippedReadings > 0 {
		fmt.Fprintf(out, "Note: %d readings were skipped (unknown metric or invalid value).\n",
			rep.SkippedReadings)
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for i := range rep.Categories {
		cat := &rep.Categories[i]
		fmt.Fprintln(w)
		if cat.Insufficient {
			fmt.Fprintf(w, "%s\tinsufficient data\n", cat.Category)
			continue
		}
		fmt.Fprintf(w, "%s\t%d (%s)\n", cat.Category, cat.Score, cat.Label)
		fmt.Fprintf(w, "  METRIC\tVALUE\tSCORE\tLABEL\tBASELINE\n")
		for _, m := range cat.Metrics {
			baseline := "-"
			if m.Baseline != nil {
				baseline = fmt.Sprintf("%g %s", *m.Baseline, m.Unit)
			}
			fmt.Fprintf(w, "  %s\t%g %s\t%d\t%s\t%s\n",
				m.Name, m.Value, m.Unit, m.Score, m.Label, baseline)
		}
		fmt.Fprintf(w, "  %s\n", cat.Summary)
	}
	return w.Flush()
}

func writeReportCSV(out io.Writer, rep *model.Report) error {
	w := csv.NewWriter(out)
	header := []string{"category", "metric", "value", "unit", "score", "label"}
	if err := w.Write(header); err != nil {
		return eris.Wrap(err, "report: write csv header")
	}
	for i := range rep.Categories {
		cat := &rep.Categories[i]
		for _, m := range cat.Metrics {
			rec := []string{
				string(cat.Category),
				m.Key,
				strconv.FormatFloat(m.Value, 'g', -1, 64),
				m.Unit,
				strconv.Itoa(m.Score),
				m.Label,
			}
			if err := w.Write(rec); err != nil {
				return eris.Wrap(err, "report: write csv row")
			}
		}
	}
	w.Flush()
	return eris.Wrap(w.Error(), "report: flush csv")
}

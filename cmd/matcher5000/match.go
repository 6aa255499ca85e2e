package main

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/jrsherlock/contacts-matcher5000/pkg/columns"
	"github.com/jrsherlock/contacts-matcher5000/pkg/contactsmatcher"
	"github.com/jrsherlock/contacts-matcher5000/pkg/csvlist"
	"github.com/jrsherlock/contacts-matcher5000/pkg/export"
)

func matchCmd() *cobra.Command {
	var (
		masterPath  string
		sourcePaths []string
		weightFlags []string
		mapFlags    []string
		outPath     string
		reportPath  string
		encoding    string
		delimiter   string
	)

	cmd := &cobra.Command{
		Use:   "match --master FILE --source FILE [--source FILE...]",
		Short: "Match source lists against a master list",
		Long: `Match loads a master company list and one or more source contact lists,
fuzzy-matches every source record's company against the master companies,
and prints the consolidated overlap. CSV and text reports are written on
request.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if masterPath == "" || len(sourcePaths) == 0 {
				return fmt.Errorf("%w: --master and at least one --source are required", errUsage)
			}

			cfg, err := buildConfig(cmd, weightFlags)
			if err != nil {
				return err
			}
			overrides, err := columns.ParseOverrides(mapFlags)
			if err != nil {
				return fmt.Errorf("%w: %v", errUsage, err)
			}
			readOpts, err := readOptions(encoding, delimiter)
			if err != nil {
				return err
			}

			master, err := loadRecords(masterPath, "master", overrides, readOpts)
			if err != nil {
				return err
			}

			sources := make(map[string][]contactsmatcher.Record, len(sourcePaths))
			ids := make([]string, 0, len(sourcePaths))
			for _, path := range sourcePaths {
				id := csvlist.ListIDFromPath(path)
				if _, dup := sources[id]; dup {
					return fmt.Errorf("%w: duplicate list id %q", errUsage, id)
				}
				records, err := loadRecords(path, id, overrides, readOpts)
				if err != nil {
					return err
				}
				sources[id] = records
				ids = append(ids, id)
			}
			sort.Strings(ids)

			var bar *progressbar.ProgressBar
			matcher, err := contactsmatcher.NewMatcher(cfg,
				contactsmatcher.WithProgress(func(done, _ int) {
					if bar != nil {
						_ = bar.Set(done)
					}
				}))
			if err != nil {
				return err
			}

			perList := make(map[string][]contactsmatcher.MatchResult, len(sources))
			for _, id := range ids {
				bar = newProgressBar(len(sources[id]), "matching "+id)
				results, err := matcher.Match(sources[id], master)
				if err != nil {
					return err
				}
				_ = bar.Finish()
				perList[id] = results
			}

			report, err := matcher.Aggregate(master, perList)
			if err != nil {
				return err
			}

			printSummary(report)

			if outPath != "" {
				if err := writeFile(outPath, func(f *os.File) error { return export.WriteCSV(f, report) }); err != nil {
					return err
				}
				slog.Info("wrote match csv", "path", outPath)
			}
			if reportPath != "" {
				if err := writeFile(reportPath, func(f *os.File) error { return export.WriteText(f, report) }); err != nil {
					return err
				}
				slog.Info("wrote overlap report", "path", reportPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&masterPath, "master", "", "master company list (CSV)")
	cmd.Flags().StringArrayVar(&sourcePaths, "source", nil, "source contact list (repeatable)")
	cmd.Flags().Float64("threshold", contactsmatcher.DefaultThreshold, "minimum accepted score in [0, 1]")
	cmd.Flags().String("metric", string(contactsmatcher.DefaultMetric), "company-name metric (tokenset, editdistance, combined)")
	cmd.Flags().StringArrayVar(&weightFlags, "weight", nil, "field weight, field=w (repeatable; weights must sum to 1.0)")
	cmd.Flags().StringArrayVar(&mapFlags, "map", nil, "column override, column=header or column=#N (repeatable)")
	cmd.Flags().StringVar(&outPath, "out", "", "write per-record results to a CSV file")
	cmd.Flags().StringVar(&reportPath, "report", "", "write the overlap report to a text file")
	cmd.Flags().StringVar(&encoding, "encoding", "", "input encoding (utf-8, latin-1, windows-1252, mac-roman)")
	cmd.Flags().StringVar(&delimiter, "delimiter", "", "field delimiter (single character or 'tab')")

	return cmd
}

// printSummary renders the run summary box, the strongest matches, and the
// score distribution.
func printSummary(rep *contactsmatcher.Report) {
	summary := fmt.Sprintf("matched %d of %d source records (%.1f%%)\nthreshold %.2f   metric %s   run %s",
		rep.TotalMatched, rep.TotalSources, rep.MatchRate()*100, rep.Threshold, rep.Metric, rep.RunID)
	fmt.Println(boxStyle.Render(summary))

	results := rep.Results()
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if len(results) > 10 {
		results = results[:10]
	}

	if len(results) > 0 {
		fmt.Println(titleStyle.Render("strongest matches"))
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			headerStyle.Render("score"),
			headerStyle.Render("source"),
			headerStyle.Render("company"),
			headerStyle.Render("master"))
		for _, result := range results {
			master := subtleStyle.Render("no match")
			if result.Matched && result.Master != nil {
				master = result.Master.Name
			}
			fmt.Fprintf(w, "%.4f\t%s:%d\t%s\t%s\n",
				result.Score, result.Source.ListID, result.Source.Row, result.Source.Name, master)
		}
		w.Flush()
	}

	if len(rep.Orphans) > 0 {
		fmt.Println(warningStyle.Render(fmt.Sprintf("%d master companies had no matches", len(rep.Orphans))))
	}

	fmt.Println(titleStyle.Render("score distribution"))
	buckets := rep.ScoreBuckets()
	maxCount := 0
	for _, count := range buckets {
		if count > maxCount {
			maxCount = count
		}
	}
	for i, count := range buckets {
		bar := ""
		if count > 0 {
			width := count * 30 / maxCount
			if width == 0 {
				width = 1
			}
			bar = successStyle.Render(strings.Repeat("█", width))
		}
		fmt.Printf("  %.1f-%.1f  %5d  %s\n", float64(i)/10, float64(i)/10+0.1, count, bar)
	}
}

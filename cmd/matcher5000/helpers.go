package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jrsherlock/contacts-matcher5000/pkg/columns"
	"github.com/jrsherlock/contacts-matcher5000/pkg/contactsmatcher"
	"github.com/jrsherlock/contacts-matcher5000/pkg/csvlist"
)

// buildConfig assembles the matcher settings: library defaults, overlaid by
// the settings file and environment, overlaid by command-line flags.
func buildConfig(cmd *cobra.Command, weightFlags []string) (contactsmatcher.Config, error) {
	cfg := contactsmatcher.DefaultConfig()

	cfg.Threshold = viper.GetFloat64("threshold")
	cfg.Metric = contactsmatcher.Metric(viper.GetString("metric"))
	if weights := weightsFromSettings(); len(weights) > 0 {
		cfg.FieldWeights = weights
	}

	if cmd.Flags().Changed("threshold") {
		cfg.Threshold, _ = cmd.Flags().GetFloat64("threshold")
	}
	if cmd.Flags().Changed("metric") {
		metric, _ := cmd.Flags().GetString("metric")
		cfg.Metric = contactsmatcher.Metric(metric)
	}
	if len(weightFlags) > 0 {
		weights, err := parseWeights(weightFlags)
		if err != nil {
			return cfg, fmt.Errorf("%w: %v", errUsage, err)
		}
		cfg.FieldWeights = weights
	}

	return cfg, nil
}

// weightsFromSettings reads the weights table from the settings file, one
// key per scorable field.
func weightsFromSettings() map[contactsmatcher.Field]float64 {
	weights := make(map[contactsmatcher.Field]float64)
	for _, field := range contactsmatcher.Fields() {
		key := "weights." + string(field)
		if viper.IsSet(key) {
			weights[field] = viper.GetFloat64(key)
		}
	}
	return weights
}

// parseWeights parses repeated field=weight assignments.
func parseWeights(assignments []string) (map[contactsmatcher.Field]float64, error) {
	weights := make(map[contactsmatcher.Field]float64, len(assignments))
	for _, assignment := range assignments {
		name, value, found := strings.Cut(assignment, "=")
		if !found {
			return nil, fmt.Errorf("invalid weight %q: want field=weight", assignment)
		}
		field := contactsmatcher.Field(strings.ToLower(strings.TrimSpace(name)))
		if !field.Valid() {
			return nil, fmt.Errorf("unknown field %q (supported: %v)", name, contactsmatcher.Fields())
		}
		weight, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid weight %q: not a number", assignment)
		}
		weights[field] = weight
	}
	return weights, nil
}

// readOptions converts the encoding and delimiter flags to csvlist options.
func readOptions(encoding, delimiter string) ([]csvlist.Option, error) {
	var opts []csvlist.Option
	if encoding != "" {
		opts = append(opts, csvlist.WithEncoding(encoding))
	}
	switch {
	case delimiter == "":
	case delimiter == "tab" || delimiter == "\\t":
		opts = append(opts, csvlist.WithDelimiter('\t'))
	case len([]rune(delimiter)) == 1:
		opts = append(opts, csvlist.WithDelimiter([]rune(delimiter)[0]))
	default:
		return nil, fmt.Errorf("%w: delimiter must be a single character or 'tab', got %q", errUsage, delimiter)
	}
	return opts, nil
}

// loadRecords reads one list and drops rows without a company name, warning
// about each skipped row.
func loadRecords(path, id string, overrides columns.Overrides, opts []csvlist.Option) ([]contactsmatcher.Record, error) {
	list, err := csvlist.LoadFile(path, id, overrides, opts...)
	if err != nil {
		return nil, err
	}

	named, unnamed := csvlist.SplitNamed(list.Records)
	for _, rec := range unnamed {
		slog.Warn("skipping row without a company name", "list", id, "row", rec.Row)
	}
	slog.Debug("loaded list",
		"list", id,
		"rows", len(list.Records),
		"encoding", list.Table.Encoding,
		"delimiter", string(list.Table.Delimiter))
	return named, nil
}

// writeFile creates path and hands it to write, closing on the way out.
func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// newProgressBar builds the per-list matching progress bar.
func newProgressBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription(description),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(os.Stderr)
		}),
	)
}

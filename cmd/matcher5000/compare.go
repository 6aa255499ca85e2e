package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jrsherlock/contacts-matcher5000/pkg/contactsmatcher"
)

func compareCmd() *cobra.Command {
	var metric string

	cmd := &cobra.Command{
		Use:   "compare NAME NAME",
		Short: "Score two company names against each other",
		Long: `Compare normalizes two company names and prints their similarity under
each metric, handy for picking a threshold.`,
		Args: cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			normalizer := contactsmatcher.NewNormalizer()
			a, err := normalizer.Name(args[0])
			if err != nil {
				return fmt.Errorf("%w: %v", errUsage, err)
			}
			b, err := normalizer.Name(args[1])
			if err != nil {
				return fmt.Errorf("%w: %v", errUsage, err)
			}

			fmt.Printf("%s %q -> %q\n", subtleStyle.Render("normalized:"), args[0], a)
			fmt.Printf("%s %q -> %q\n", subtleStyle.Render("normalized:"), args[1], b)
			fmt.Println()

			metrics := contactsmatcher.Metrics()
			if metric != "" {
				metrics = []contactsmatcher.Metric{contactsmatcher.Metric(metric)}
			}

			for _, m := range metrics {
				cfg := contactsmatcher.DefaultConfig()
				cfg.Metric = m
				matcher, err := contactsmatcher.NewMatcher(cfg)
				if err != nil {
					return err
				}
				cand, err := matcher.Compare(
					contactsmatcher.Record{ListID: "left", Row: 1, Name: args[0]},
					contactsmatcher.Record{ListID: "right", Row: 1, Name: args[1]},
				)
				if err != nil {
					return err
				}
				line := fmt.Sprintf("%-13s %.4f", m, cand.Score)
				if cand.Score >= cfg.Threshold {
					line += "  " + successStyle.Render("match at default threshold")
				}
				fmt.Println(line)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&metric, "metric", "", "score only this metric (tokenset, editdistance, combined)")

	return cmd
}

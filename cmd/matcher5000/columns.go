package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jrsherlock/contacts-matcher5000/pkg/columns"
	"github.com/jrsherlock/contacts-matcher5000/pkg/csvlist"
)

func columnsCmd() *cobra.Command {
	var (
		mapFlags  []string
		encoding  string
		delimiter string
	)

	cmd := &cobra.Command{
		Use:   "columns FILE",
		Short: "Show how a list's columns would be read",
		Long: `Columns parses a list's header and prints which canonical field each
column would feed, so surprises surface before a match run.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			readOpts, err := readOptions(encoding, delimiter)
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening list: %w", err)
			}
			defer f.Close()

			table, err := csvlist.ReadTable(f, readOpts...)
			if err != nil {
				return err
			}

			overrides, err := columns.ParseOverrides(mapFlags)
			if err != nil {
				return fmt.Errorf("%w: %v", errUsage, err)
			}

			mapping := columns.Detect(table.Header)
			if len(overrides) > 0 {
				if mapping, err = columns.Resolve(table.Header, overrides); err != nil {
					return err
				}
			}

			fmt.Println(subtleStyle.Render(fmt.Sprintf("encoding %s, delimiter %q, %d data rows",
				table.Encoding, table.Delimiter, len(table.Rows))))

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "%s\t%s\t%s\n",
				headerStyle.Render("#"),
				headerStyle.Render("header"),
				headerStyle.Render("read as"))
			for i, name := range table.Header {
				role := ""
				for _, col := range mapping.Mapped() {
					if mapping[col] == i {
						role = string(col)
						break
					}
				}
				fmt.Fprintf(w, "%d\t%s\t%s\n", i+1, name, role)
			}
			w.Flush()

			var missing []string
			for _, col := range columns.Columns() {
				if !mapping.Has(col) {
					missing = append(missing, string(col))
				}
			}
			if len(missing) > 0 {
				fmt.Println(subtleStyle.Render("not detected: " + strings.Join(missing, ", ")))
			}
			if !mapping.Has(columns.ColumnCompanyName) {
				fmt.Println(warningStyle.Render("no company column: pass --map company_name=<header> to match this list"))
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&mapFlags, "map", nil, "column override, column=header or column=#N (repeatable)")
	cmd.Flags().StringVar(&encoding, "encoding", "", "input encoding (utf-8, latin-1, windows-1252, mac-roman)")
	cmd.Flags().StringVar(&delimiter, "delimiter", "", "field delimiter (single character or 'tab')")

	return cmd
}

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/c360studio/ontodag/dag"
	"github.com/c360studio/ontodag/export"
)

func exportCmd() *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Parse a DAG ontology file and export the term graph as RDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFormat(format)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if output != "" {
				file, err := os.Create(output)
				if err != nil {
					return err
				}
				defer file.Close()
				out = file
			}

			return runExport(out, args[0], f)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "turtle", "Output format (turtle, ntriples)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")

	return cmd
}

func runExport(w io.Writer, path string, format export.Format) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	roots, err := dag.Parse(f)
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	doc, err := export.NewRDFExporter().Export(roots, format)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, doc)
	return err
}

func parseFormat(s string) (export.Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "turtle", "ttl":
		return export.FormatTurtle, nil
	case "ntriples", "nt":
		return export.FormatNTriples, nil
	default:
		return "", fmt.Errorf("unknown format %q (expected turtle or ntriples)", s)
	}
}

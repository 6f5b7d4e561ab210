package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/c360studio/ontodag/dag"
)

func parseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a DAG ontology file and print a graph summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd.OutOrStdout(), args[0])
		},
	}
}

func runParse(w io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	roots, err := dag.Parse(f)
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	var isaEdges, partOfEdges, synonyms int
	dag.Walk(roots, func(t *dag.Term) {
		isaEdges += len(t.Children)
		partOfEdges += len(t.Components)
		synonyms += len(t.Synonyms)
	})

	fmt.Fprintf(w, "%s: %d roots, %d terms, %d is-a edges, %d part-of edges, %d synonyms\n",
		path, len(roots), dag.Count(roots), isaEdges, partOfEdges, synonyms)
	for _, root := range roots {
		fmt.Fprintf(w, "  $ %s (%s): %d children, %d components\n",
			root.Name, root.ID, len(root.Children), len(root.Components))
	}
	return nil
}

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/newthinker/pricedash/internal/layout"
)

var (
	layoutInput  string
	layoutOutput string
)

var layoutCmd = &cobra.Command{
	Use:   "layout [archetype]",
	Short: "Compose a chart layout from a JSON dataset",
	Long: `Compose a chart layout from a JSON dataset read from a file or stdin.
Without an archetype, the available archetypes are listed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLayout,
}

func init() {
	layoutCmd.Flags().StringVarP(&layoutInput, "file", "f", "-", "dataset file, - for stdin")
	layoutCmd.Flags().StringVarP(&layoutOutput, "output", "o", formatJSON, "output format: json, yaml or svg")
	rootCmd.AddCommand(layoutCmd)
}

func runLayout(cmd *cobra.Command, args []string) error {
	registry := layout.DefaultRegistry()
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		for _, name := range registry.Names() {
			fmt.Fprintln(out, name)
		}
		return nil
	}

	raw, err := readInput(cmd.InOrStdin(), layoutInput)
	if err != nil {
		return err
	}

	l, err := registry.Compose(args[0], raw)
	if err != nil {
		return err
	}
	return writeOutput(out, layoutOutput, l)
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "" || path == "-" {
		raw, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return raw, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dataset: %w", err)
	}
	return raw, nil
}

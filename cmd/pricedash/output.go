package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/newthinker/pricedash/internal/layout"
	"github.com/newthinker/pricedash/internal/render"
)

// Output formats.
const (
	formatJSON = "json"
	formatYAML = "yaml"
	formatSVG  = "svg"
)

// writeOutput prints v in the requested format. YAML output keeps the JSON
// field names. SVG is only available for a single layout.
func writeOutput(w io.Writer, format string, v any) error {
	switch format {
	case "", formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encoding output: %w", err)
		}
		var tree any
		if err := json.Unmarshal(raw, &tree); err != nil {
			return fmt.Errorf("encoding output: %w", err)
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(tree); err != nil {
			return fmt.Errorf("encoding output: %w", err)
		}
		return enc.Close()
	case formatSVG:
		l, ok := v.(layout.Layout)
		if !ok {
			return fmt.Errorf("svg output needs a single chart")
		}
		_, err := fmt.Fprintln(w, render.SVG(l))
		return err
	default:
		return fmt.Errorf("unknown output format %q (json, yaml or svg)", format)
	}
}

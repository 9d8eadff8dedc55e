package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"resume-parser/internal/exporter"
	"resume-parser/pkg/models"
)

// writeResult prints the parsed result and writes the requested exports. A
// result holding a parse failure is printed too, then reported as an error.
func writeResult(cmd *cobra.Command, opts *options, resp *models.ParseResponse) error {
	out := cmd.OutOrStdout()

	if opts.raw {
		body, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to render response: %w", err)
		}
		fmt.Fprintln(out, string(body))
	}

	artifact, err := exporter.ExportJSON(resp.ParsedData)
	if err != nil {
		return err
	}
	if !opts.raw {
		_, _ = out.Write(artifact.Body)
	}

	if opts.jsonOut != "" {
		if err := os.WriteFile(opts.jsonOut, artifact.Body, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", opts.jsonOut, err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", opts.jsonOut)
	}

	if opts.textOut != "" {
		text := exporter.ExportText(resp.ExtractedText)
		if err := os.WriteFile(opts.textOut, text.Body, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", opts.textOut, err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", opts.textOut)
	}

	if failure := resp.ParsedData.Failure; failure != nil {
		return fmt.Errorf("model response could not be parsed: %s", failure.Error)
	}
	return nil
}

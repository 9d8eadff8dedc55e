package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func newParseTextCmd(opts *options) *cobra.Command {
	var inputFile string

	cmd := &cobra.Command{
		Use:   "parse-text",
		Short: "Parse resume text read from --file or stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				data []byte
				err  error
			)
			if inputFile != "" {
				data, err = os.ReadFile(inputFile)
			} else {
				data, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return fmt.Errorf("failed to read resume text: %w", err)
			}

			resp, err := opts.newClient(cmd).ParseText(cmd.Context(), string(data))
			if err != nil {
				return err
			}
			return writeResult(cmd, opts, resp)
		},
	}

	cmd.Flags().StringVarP(&inputFile, "file", "f", "", "Read resume text from this file instead of stdin")
	return cmd
}

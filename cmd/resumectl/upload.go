package main

import (
	"github.com/spf13/cobra"
)

func newUploadCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a PDF or DOCX resume and print the parsed result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := opts.newClient(cmd).UploadFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeResult(cmd, opts, resp)
		},
	}
}

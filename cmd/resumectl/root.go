package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"resume-parser/internal/client"
	"resume-parser/internal/logging"
	"resume-parser/internal/logging/adapters"
	"resume-parser/pkg/utils"
)

// options shared by every subcommand
type options struct {
	server  string
	timeout time.Duration
	jsonOut string
	textOut string
	raw     bool
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "resumectl",
		Short:         "Parse resumes with a remote resume parser backend",
		Long:          "resumectl uploads PDF or DOCX resumes, or pasted text, to a resume parser backend and prints or saves the structured result.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaultServer := utils.GetStringOrDefault(os.Getenv("RESUME_API_URL"), client.DefaultBaseURL)

	flags := root.PersistentFlags()
	flags.StringVar(&opts.server, "server", defaultServer, "Backend base URL (env RESUME_API_URL)")
	flags.DurationVar(&opts.timeout, "timeout", 60*time.Second, "Request timeout")
	flags.StringVar(&opts.jsonOut, "json-out", "", "Write the parsed result as indented JSON to this file")
	flags.StringVar(&opts.textOut, "text-out", "", "Write the extracted text to this file")
	flags.BoolVar(&opts.raw, "raw", false, "Print the full backend response instead of the parsed result")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Log requests to stderr")

	root.AddCommand(
		newHealthCmd(opts),
		newUploadCmd(opts),
		newParseTextCmd(opts),
	)
	return root
}

// newClient builds the backend client with a stderr logger so stdout only
// carries results
func (o *options) newClient(cmd *cobra.Command) *client.Client {
	logger := logging.NewMultiLogger()
	logger.SetLevel(logging.WarnLevel)
	if o.verbose {
		logger.SetLevel(logging.DebugLevel)
	}
	_ = logger.AddAdapter(adapters.NewStreamAdapter("cli", cmd.ErrOrStderr(), adapters.StreamConfig{Format: "text"}))

	return client.New(o.server, o.timeout, logger)
}

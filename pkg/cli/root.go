package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// rootOptions holds values bound to persistent flags.
type rootOptions struct {
	configFile string
	envFile    string
	jsonOutput bool
	server     serverFlags

	// lookup overrides environment access in tests.
	lookup func(string) (string, bool)
}

// NewRootCommand builds the echoidp command tree.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&rootOptions{})
}

func newRootCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "echoidp",
		Short: "echoidp is a stand-in OAuth2 / OpenID Connect provider",
		Long: `echoidp serves discovery, authorization, token and introspection endpoints
without authenticating anyone. Tokens are base64-encoded JSON that echo the
request body back; introspection decodes them again.

Use it to exercise OAuth client integrations in tests and local development.
It is not a security boundary.

Configuration can be provided via flags, environment variables (ECHOIDP_*),
a .env file, or a YAML configuration file.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true, // We handle errors in Execute()
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.configFile, "config", "c", "", "YAML config file (env: ECHOIDP_CONFIG)")
	pf.StringVar(&opts.envFile, "env-file", "", "Load environment variables from this file (default: .env if present)")
	pf.BoolVar(&opts.jsonOutput, "json", false, "Output command results in JSON format")
	opts.server.register(pf)

	cmd.AddCommand(
		newServeCommand(opts),
		newTokenCommand(opts),
		newConfigCommand(opts),
		newVersionCommand(opts),
	)

	return cmd
}

// Run executes the command tree and returns the process exit code.
func Run() int {
	if err := NewRootCommand().Execute(); err != nil {
		printError(os.Stderr, err)
		return 1
	}
	return 0
}

// Execute runs the root command and exits non-zero on error.
// This is called by main.main().
func Execute() {
	if code := Run(); code != 0 {
		os.Exit(code)
	}
}

func printError(w io.Writer, err error) {
	fmt.Fprintln(w, "Error:", err)
}

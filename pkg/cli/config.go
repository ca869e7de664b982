package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getmockd/echoidp/pkg/cli/internal/output"
	"github.com/getmockd/echoidp/pkg/config"
)

// ConfigEntry is one resolved configuration value.
type ConfigEntry struct {
	Key    string `json:"key"`
	Value  any    `json:"value"`
	Source string `json:"source"`
}

// ConfigOutput is the JSON form of the config command.
type ConfigOutput struct {
	ConfigFile string        `json:"configFile,omitempty"`
	Values     []ConfigEntry `json:"values"`
}

func newConfigCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show effective configuration",
		Long: `Display the configuration serve would start with, and the source of each
value: default, file, env, flag, or derived (host computed from port).`,
		Example: `  echoidp config
  echoidp config --port 8080 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig(cmd, opts)
			if err != nil {
				return err
			}
			for _, w := range cfg.Warnings {
				output.Warn(cmd.ErrOrStderr(), "%s", w)
			}

			result := ConfigOutput{ConfigFile: cfg.ConfigFile}
			for _, key := range config.Keys {
				result.Values = append(result.Values, ConfigEntry{
					Key:    key,
					Value:  cfg.Value(key),
					Source: cfg.Sources[key],
				})
			}

			out := cmd.OutOrStdout()
			return printResult(out, opts, result, func() error {
				if result.ConfigFile != "" {
					fmt.Fprintf(out, "Config file: %s\n\n", result.ConfigFile)
				}
				tw := output.Table(out)
				fmt.Fprintln(tw, "KEY\tVALUE\tSOURCE")
				for _, e := range result.Values {
					fmt.Fprintf(tw, "%s\t%v\t%s\n", e.Key, e.Value, e.Source)
				}
				return tw.Flush()
			})
		},
	}
}

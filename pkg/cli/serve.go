package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/getmockd/echoidp/pkg/config"
	"github.com/getmockd/echoidp/pkg/logging"
	"github.com/getmockd/echoidp/pkg/server"
)

// serverFlags holds the server settings that can be given on the command line.
type serverFlags struct {
	port            int
	host            string
	verbose         bool
	logFormat       string
	idleTimeoutMS   int
	readTimeout     int
	writeTimeout    int
	shutdownTimeout int
	metrics         bool
}

// flagKeys maps flag names to config keys.
var flagKeys = map[string]string{
	"port":             config.KeyPort,
	"host":             config.KeyHost,
	"verbose":          config.KeyVerbose,
	"log-format":       config.KeyLogFormat,
	"idle-timeout-ms":  config.KeyIdleTimeoutMS,
	"read-timeout":     config.KeyReadTimeout,
	"write-timeout":    config.KeyWriteTimeout,
	"shutdown-timeout": config.KeyShutdownTimeout,
	"metrics":          config.KeyMetrics,
}

func (f *serverFlags) register(fs *pflag.FlagSet) {
	fs.IntVarP(&f.port, "port", "p", config.DefaultPort, "HTTP server port (env: ECHOIDP_PORT, PORT)")
	fs.StringVar(&f.host, "host", "", "Public base URL advertised in discovery (default: http://localhost:<port>)")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "Log lifecycle and request lines (env: ECHOIDP_VERBOSE, NODE_ENV=debug)")
	fs.StringVar(&f.logFormat, "log-format", config.DefaultLogFormat, "Log format: text or json")
	fs.IntVar(&f.idleTimeoutMS, "idle-timeout-ms", config.DefaultIdleTimeoutMS, "Close idle keep-alive connections after this many milliseconds")
	fs.IntVar(&f.readTimeout, "read-timeout", config.DefaultReadTimeout, "Read timeout in seconds")
	fs.IntVar(&f.writeTimeout, "write-timeout", config.DefaultWriteTimeout, "Write timeout in seconds")
	fs.IntVar(&f.shutdownTimeout, "shutdown-timeout", config.DefaultShutdownTimeout, "Graceful shutdown timeout in seconds")
	fs.BoolVar(&f.metrics, "metrics", true, "Expose Prometheus metrics on /metrics")
}

// toConfig returns the flag values with SetFields marking only the flags the
// user actually passed.
func (f *serverFlags) toConfig(fs *pflag.FlagSet) *config.Config {
	cfg := &config.Config{
		Port:            f.port,
		Host:            f.host,
		Verbose:         f.verbose,
		LogFormat:       f.logFormat,
		IdleTimeoutMS:   f.idleTimeoutMS,
		ReadTimeout:     f.readTimeout,
		WriteTimeout:    f.writeTimeout,
		ShutdownTimeout: f.shutdownTimeout,
		Metrics:         f.metrics,
		SetFields:       make(map[string]bool),
	}
	fs.Visit(func(fl *pflag.Flag) {
		if key, ok := flagKeys[fl.Name]; ok {
			cfg.SetFields[key] = true
		}
	})
	return cfg
}

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the identity provider (foreground)",
		Long: `Start the identity provider and serve until interrupted.

On SIGINT or SIGTERM the server stops accepting connections and waits for
in-flight requests up to the shutdown timeout.`,
		Example: `  # Start with defaults on port 3001
  echoidp serve

  # Advertise a public URL behind a proxy
  echoidp serve --port 8080 --host https://idp.example.test

  # Log lifecycle and request lines as JSON
  echoidp serve --verbose --log-format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}
}

// resolveConfig loads the configuration the way serve uses it.
func resolveConfig(cmd *cobra.Command, opts *rootOptions) (*config.Config, error) {
	return config.Load(config.LoadOptions{
		ConfigFile: opts.configFile,
		EnvFile:    opts.envFile,
		Flags:      opts.server.toConfig(cmd.Flags()),
		Lookup:     opts.lookup,
	})
}

func runServe(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := resolveConfig(cmd, opts)
	if err != nil {
		return err
	}

	log := logging.FromVerbosity(cfg.Verbose, cfg.LogFormat, cmd.ErrOrStderr())
	srv := server.New(*cfg, server.WithLogger(log))

	ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx)
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

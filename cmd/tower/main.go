package main

import (
	"context"
	"fmt"
	"github.com/go-kit/kit/log"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
	"io"
	"os"
	"os/signal"
	"tower"
	"tower/fmtlog"
	"tower/http"
	"tower/inmem"
	"tower/ratelimit"
)

func main() {
	// Setup signal handlers.
	ctx, cancel := context.WithCancel(context.Background())
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	go func() { <-c; cancel() }()

	// Instantiate a new type to represent our application.
	// This type lets us share setup code with our end-to-end tests.
	m := NewMain()

	if err := m.Command().ExecuteContext(ctx); err != nil {
		_ = m.Close()
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Clean up program.
	if err := m.Close(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Configuration path and parsed config data.
	Config     Config
	ConfigPath string

	// Overrides Config.Log.Format when set.
	LogFormat string

	// Output streams. Service logs and example output go to Stdout.
	Stdout io.Writer
	Stderr io.Writer

	// HTTP server exposing the services, used by the serve command.
	HTTPServer *http.Server
}

// NewMain returns a new instance of Main.
func NewMain() *Main {
	return &Main{
		Config:     DefaultConfig(),
		ConfigPath: DefaultConfigPath,

		Stdout: os.Stdout,
		Stderr: os.Stderr,

		HTTPServer: http.NewServer(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.HTTPServer != nil {
		if err := m.HTTPServer.Close(); err != nil {
			return err
		}
	}
	return nil
}

// Command returns the root command of the program.
func (m *Main) Command() *cobra.Command {
	root := &cobra.Command{
		Use:           "tower",
		Short:         "Drive example services through readiness and layers",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return m.LoadConfig(cmd.Flags().Changed("config"))
		},
	}
	root.PersistentFlags().StringVar(&m.ConfigPath, "config", DefaultConfigPath, "config path")
	root.PersistentFlags().StringVar(&m.LogFormat, "log-format", "", "log format (logfmt or json)")

	root.AddCommand(
		&cobra.Command{
			Use:   "echo [text]",
			Short: "Call the echo service once",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return m.RunEcho(cmd.Context(), textArg(args))
			},
		},
		&cobra.Command{
			Use:   "log [text]",
			Short: "Call the echo service once through the log layer",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return m.RunLog(cmd.Context(), textArg(args))
			},
		},
		m.alternatingCommand(),
		&cobra.Command{
			Use:   "serve",
			Short: "Serve the services over HTTP until interrupted",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := m.Run(cmd.Context()); err != nil {
					return err
				}

				// Wait for CTRL-C.
				<-cmd.Context().Done()
				return nil
			},
		},
	)
	return root
}

func (m *Main) alternatingCommand() *cobra.Command {
	var skipReady bool
	cmd := &cobra.Command{
		Use:   "alternating",
		Short: "Drive the alternating ready service with oneshot and with ready + call",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return m.RunAlternating(cmd.Context(), skipReady)
		},
	}
	cmd.Flags().BoolVar(&skipReady, "skip-ready", false, "call a second time without waiting for readiness (panics)")
	return cmd
}

func textArg(args []string) string {
	if len(args) == 0 {
		return "Hello, Tower!"
	}
	return args[0]
}

// LoadConfig loads the config file and applies flag overrides.
//
// A missing file at the default path is not an error: the defaults are used.
// A missing file that was asked for explicitly is.
func (m *Main) LoadConfig(explicit bool) error {
	// The expand() function is here to automatically expand "~" to the user's
	// home directory.
	configPath, err := expand(m.ConfigPath)
	if err != nil {
		return err
	}

	// Read our TOML formatted configuration file.
	config, err := ReadConfigFile(configPath)
	if os.IsNotExist(err) {
		if explicit {
			return fmt.Errorf("config file not found: %s", m.ConfigPath)
		}
		config = DefaultConfig()
	} else if err != nil {
		return err
	}

	if m.LogFormat != "" {
		config.Log.Format = m.LogFormat
	}
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	m.Config = config

	return nil
}

// RunEcho calls the echo service once with text and prints the response.
func (m *Main) RunEcho(ctx context.Context, text string) error {
	response, err := tower.Oneshot(ctx, inmem.NewEchoService(), tower.NewEchoRequest(text))
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(m.Stdout, "Echo service responded with: %s\n", response)
	return nil
}

// RunLog calls the echo service once through the log layer and prints the
// response after the layer's own records.
func (m *Main) RunLog(ctx context.Context, text string) error {
	echoService := tower.NewBuilder[tower.EchoRequest, tower.EchoResponse]().
		Layer(fmtlog.NewLogLayer[tower.EchoRequest, tower.EchoResponse](m.newLogger(m.Stdout))).
		Service(inmem.NewEchoService())

	response, err := tower.Oneshot(ctx, echoService, tower.NewEchoRequest(text))
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(m.Stdout, "Echo service responded with: %s\n", response)
	return nil
}

// RunAlternating drives the alternating ready service first with Oneshot, then
// with ReadyOneshot followed by a call. With skipReady it calls once more
// without waiting for readiness, which violates the service contract and
// panics.
func (m *Main) RunAlternating(ctx context.Context, skipReady bool) error {
	var req tower.AlternatingReadyRequest

	_, _ = fmt.Fprintln(m.Stdout, "# oneshot #")

	response, err := tower.Oneshot(ctx, inmem.NewAlternatingReadyService(), req)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(m.Stdout, "Alternating service responded with: %+v\n", response)

	_, _ = fmt.Fprintln(m.Stdout, "# ready #")

	service, err := tower.ReadyOneshot(ctx, inmem.NewAlternatingReadyService())
	if err != nil {
		return err
	}
	if response, err = tower.CallReady(ctx, service, req); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(m.Stdout, "Alternating service responded with: %+v\n", response)

	if skipReady {
		// We should wait for readiness once again before calling!
		_, err = tower.CallReady(ctx, service, req)
		return err
	}
	return nil
}

// Run starts the HTTP server. The configuration should already be loaded
// before calling this function.
func (m *Main) Run(ctx context.Context) error {
	logger := m.newLogger(m.Stderr)

	// All echo services built for requests share one limiter.
	echoBuilder := tower.NewBuilder[tower.EchoRequest, tower.EchoResponse]().
		Layer(fmtlog.NewLogLayer[tower.EchoRequest, tower.EchoResponse](logger))
	if rps := m.Config.RateLimit.RPS; rps > 0 {
		limiter := rate.NewLimiter(rate.Limit(rps), m.Config.RateLimit.Burst)
		echoBuilder.Layer(ratelimit.NewLayer[tower.EchoRequest, tower.EchoResponse](limiter))
	}
	alternatingBuilder := tower.NewBuilder[tower.AlternatingReadyRequest, tower.AlternatingReadyResponse]().
		Layer(fmtlog.NewLogLayer[tower.AlternatingReadyRequest, tower.AlternatingReadyResponse](logger))

	// Attach service constructors to the HTTP server.
	m.HTTPServer.EchoService = func() tower.EchoService {
		return echoBuilder.Service(inmem.NewEchoService())
	}
	m.HTTPServer.AlternatingService = func() tower.AlternatingReadyService {
		return alternatingBuilder.Service(inmem.NewAlternatingReadyService())
	}

	// Copy configuration settings to the HTTP server.
	m.HTTPServer.Addr = m.Config.HTTP.Addr
	m.HTTPServer.AllowedOrigins = m.Config.HTTP.AllowedOrigins
	m.HTTPServer.Logger = log.With(logger, "component", "http")

	if err := m.HTTPServer.Open(); err != nil {
		return err
	}
	_ = logger.Log("msg", "listening", "url", m.HTTPServer.URL())

	return nil
}

// newLogger returns a go-kit logger writing to w in the configured format.
func (m *Main) newLogger(w io.Writer) log.Logger {
	var logger log.Logger
	w = log.NewSyncWriter(w)
	if m.Config.Log.Format == LogFormatJSON {
		logger = log.NewJSONLogger(w)
	} else {
		logger = log.NewLogfmtLogger(w)
	}
	return log.With(logger, "ts", log.DefaultTimestampUTC)
}

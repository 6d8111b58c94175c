// Package cli wires configuration, the session, the API client and the page
// controllers into the pharmalink command tree. Each invocation is one page
// load: it boots from the persisted session and exits.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/cobra"

	"github.com/pharmalink/pharmalink/internal/api/client"
	"github.com/pharmalink/pharmalink/internal/api/metrics"
	"github.com/pharmalink/pharmalink/internal/cli/output"
	"github.com/pharmalink/pharmalink/internal/controller"
	"github.com/pharmalink/pharmalink/internal/core/service"
	"github.com/pharmalink/pharmalink/internal/infrastructure/config"
	"github.com/pharmalink/pharmalink/internal/infrastructure/db"
	"github.com/pharmalink/pharmalink/internal/infrastructure/httpclient"
	"github.com/pharmalink/pharmalink/pkg/logger"
)

// Options are the process-level inputs of one run.
type Options struct {
	Args    []string
	Stdout  io.Writer
	Stderr  io.Writer
	Version string
	// Lookuper replaces the process environment and .env file. Tests only.
	Lookuper envconfig.Lookuper
}

type globalFlags struct {
	jsonOut     bool
	verbose     bool
	noColor     bool
	metricsFile string
	apiURL      string
	profile     string
	store       string
}

// app is everything a command needs, built once per run in PersistentPreRunE.
type app struct {
	opts  Options
	flags globalFlags

	cfg        *config.Config
	log        zerolog.Logger
	printer    *output.Printer
	session    *service.SessionManager
	guard      *service.PageGuard
	api        *client.Client
	closeStore func() error

	auth       *controller.Auth
	patient    *controller.Patient
	pharmacist *controller.Pharmacist
	admin      *controller.Admin
}

// Run executes one command line and returns the process exit code.
func Run(ctx context.Context, opts Options) int {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	a := &app{opts: opts, log: zerolog.Nop()}
	root := a.rootCommand()
	root.SetArgs(opts.Args)
	root.SetOut(opts.Stdout)
	root.SetErr(opts.Stderr)

	err := root.ExecuteContext(ctx)
	a.shutdown()

	printer := a.printer
	if printer == nil {
		printer = output.NewPrinter(opts.Stdout, opts.Stderr, false)
	}
	return printer.Report(err)
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "pharmalink",
		Short: "PharmaLink pharmacy locator client",
		Long: `pharmalink talks to a PharmaLink service on behalf of a patient,
pharmacist or admin. Login state is kept between runs.

Example usage:
  pharmalink login --email patient@example.com --password password
  pharmalink patient search --medication panadol
  pharmalink pharmacist inventory
  pharmalink admin overview
  pharmalink logout

Exit codes: 0 ok, 1 error, 2 redirect (printed as "redirect: <page>"),
3 invalid input, 4 service error, 5 service unreachable.`,
		Version:       a.opts.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd.Context())
		},
	}

	pf := root.PersistentFlags()
	pf.BoolVar(&a.flags.jsonOut, "json", false, "print raw service payloads as JSON")
	pf.BoolVarP(&a.flags.verbose, "verbose", "v", false, "debug logging on stderr")
	pf.BoolVar(&a.flags.noColor, "no-color", false, "disable coloured output")
	pf.StringVar(&a.flags.metricsFile, "metrics-file", "", "write Prometheus metrics of this run to a textfile")
	pf.StringVar(&a.flags.apiURL, "api-url", "", "service base URL (overrides PHARMALINK_API_BASE_URL)")
	pf.StringVar(&a.flags.profile, "profile", "", "session profile (overrides PHARMALINK_SESSION_PROFILE)")
	pf.StringVar(&a.flags.store, "session-store", "", "file, redis or memory (overrides PHARMALINK_SESSION_STORE)")

	root.AddCommand(
		a.loginCommand(),
		a.registerCommand(),
		a.logoutCommand(),
		a.whoamiCommand(),
		a.routeCommand(),
		a.healthCommand(),
		a.patientCommand(),
		a.pharmacistCommand(),
		a.adminCommand(),
	)
	return root
}

// init loads configuration, applies flag overrides and builds the object graph.
func (a *app) init(ctx context.Context) error {
	a.printer = output.NewPrinter(a.opts.Stdout, a.opts.Stderr, !a.flags.noColor)

	cfg, err := a.loadConfig(ctx)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := cfg.LogLevel
	if a.flags.verbose {
		level = "debug"
	}
	logger.Init(logger.Options{Level: level, Output: a.opts.Stderr, JSON: cfg.Env == "production"})
	a.log = logger.Get()

	store, closeStore, err := db.OpenSessionStore(ctx, cfg)
	if err != nil {
		return err
	}
	a.closeStore = closeStore

	a.session = service.NewSessionManager(store, logger.For("session"))
	a.guard = service.NewPageGuard(a.session, logger.For("guard"))

	a.api, err = client.New(cfg.APIBaseURL, a.session,
		client.WithHTTPClient(httpclient.New(cfg.HTTPTimeout)),
		client.WithLogger(logger.For("client")),
		client.WithRateLimit(cfg.RateLimit),
		client.WithUserAgent("pharmalink-cli/"+a.version()),
	)
	if err != nil {
		return err
	}

	a.auth = controller.NewAuth(a.api, a.guard, logger.For("auth"))
	a.patient = controller.NewPatient(a.api, a.guard, logger.For("patient"))
	a.pharmacist = controller.NewPharmacist(a.api, a.guard, logger.For("pharmacist"))
	a.admin = controller.NewAdmin(a.api, a.guard, logger.For("admin"))

	a.log.Debug().
		Str("api", cfg.APIBaseURL).
		Str("store", cfg.Session.Store).
		Str("profile", cfg.Session.Profile).
		Msg("configuration loaded")
	return nil
}

func (a *app) loadConfig(ctx context.Context) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if a.opts.Lookuper != nil {
		cfg, err = config.LoadFrom(ctx, a.opts.Lookuper)
	} else {
		cfg, err = config.Load(ctx)
	}
	if err != nil {
		return nil, err
	}

	if a.flags.apiURL != "" {
		cfg.APIBaseURL = a.flags.apiURL
	}
	if a.flags.store != "" {
		cfg.Session.Store = a.flags.store
	}
	if a.flags.profile != "" && a.flags.profile != cfg.Session.Profile {
		cfg.Session.Profile = a.flags.profile
		cfg.Session.File = config.DefaultSessionFile(cfg.Session.Profile)
	}
	if cfg.Session.Store == config.StoreFile && cfg.Session.File == "" {
		cfg.Session.File = config.DefaultSessionFile(cfg.Session.Profile)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// shutdown releases the store and flushes metrics. Failures only warn.
func (a *app) shutdown() {
	if a.closeStore != nil {
		if err := a.closeStore(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close session store")
		}
	}
	if a.flags.metricsFile != "" {
		if err := metrics.WriteTextfile(a.flags.metricsFile); err != nil {
			a.log.Warn().Err(err).Str("path", a.flags.metricsFile).Msg("failed to write metrics")
		}
	}
}

func (a *app) version() string {
	if a.opts.Version == "" {
		return "dev"
	}
	return a.opts.Version
}

// emit prints raw under --json, otherwise runs the human renderer.
func (a *app) emit(raw []byte, render func() error) error {
	if a.flags.jsonOut {
		return a.printer.JSON(raw)
	}
	return render()
}

func requireFlag(cmd *cobra.Command, names ...string) {
	for _, n := range names {
		if err := cmd.MarkFlagRequired(n); err != nil {
			panic(fmt.Sprintf("mark %s required: %v", n, err))
		}
	}
}

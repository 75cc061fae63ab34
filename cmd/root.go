package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/joescharf/psum/internal/config"
	"github.com/joescharf/psum/internal/fetch"
	"github.com/joescharf/psum/internal/gitutil"
	"github.com/joescharf/psum/internal/logging"
	"github.com/joescharf/psum/internal/output"
	"github.com/joescharf/psum/internal/project"
	"github.com/joescharf/psum/internal/pymeta"
	"github.com/joescharf/psum/internal/report"
)

// Package-level shared dependencies, initialized in cobra.OnInitialize.
var (
	ui *output.UI

	verbose       int
	htmlOutput    bool
	outputFile    string
	httpCache     string
	noHTTPCache   bool
	cacheDuration string
	doFetch       bool
	doPull        bool
	skipBranches  bool
)

var rootCmd = &cobra.Command{
	Use:   "psum",
	Short: "Summarize release status of several projects",
	Long: `psum walks a set of local git checkouts and reports on their
release status: last tag, pending commits, CI results, test coverage,
open issues, and supported Python versions. The HTML report is a
sortable multi-tab dashboard; the default output is a plain table.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	DisableAutoGenTag: true,
}

// Execute is the main entry point called from main.go.
func Execute(version, commit, date string) {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	if err := rootCmd.Execute(); err != nil {
		var svcErr *fetch.ServiceError
		if errors.As(err, &svcErr) {
			// upstream service trouble: short message, no decoration
			fmt.Fprintf(os.Stderr, "%s\n", svcErr.Message)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initDeps)

	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return rootRun(cmd)
	}

	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "be more verbose (can be repeated)")
	rootCmd.PersistentFlags().String("config", "", "Config file (default ./psum.yaml or ~/.config/psum/psum.yaml)")

	rootCmd.Flags().BoolVar(&htmlOutput, "html", false, "produce HTML output")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "", "write the output to a file (default: stdout)")
	rootCmd.Flags().StringVar(&httpCache, "http-cache", ".httpcache.sqlite", "cache HTTP requests on disk in an sqlite database")
	rootCmd.Flags().BoolVar(&noHTTPCache, "no-http-cache", false, "disable HTTP disk caching")
	rootCmd.Flags().StringVar(&cacheDuration, "cache-duration", "15m", "how long to cache HTTP requests")
	rootCmd.Flags().BoolVar(&doFetch, "fetch", false, "run git fetch in each checkout first")
	rootCmd.Flags().BoolVar(&doPull, "pull", false, "run git pull in each checkout first")
	rootCmd.Flags().BoolVar(&skipBranches, "skip-branches", false, "ignore checkouts that aren't on the default branch")
}

func initConfig() {
	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "psum"))
		}
		viper.SetConfigName("psum")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("PSUM")
	viper.AutomaticEnv()

	config.SetDefaults(viper.GetViper())

	// Config file is optional; defaults produce an empty report.
	_ = viper.ReadInConfig()
}

func initDeps() {
	ui = output.New()
	ui.Verbose = verbose > 0
}

func rootRun(cmd *cobra.Command) error {
	logger := logging.New(verbose)

	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("fetch") {
		cfg.Fetch = doFetch
	}
	if cmd.Flags().Changed("pull") {
		cfg.Pull = doPull
	}
	if cmd.Flags().Changed("skip-branches") {
		cfg.SkipBranches = skipBranches
	}

	var cache *fetch.Cache
	if !noHTTPCache && httpCache != "" {
		expiry, err := config.ToSeconds(cacheDuration)
		if err != nil {
			return fmt.Errorf("bad --cache-duration: %w", err)
		}
		logger.Debug("caching HTTP requests", "db", httpCache, "duration", cacheDuration)
		cache, err = fetch.OpenCache(httpCache, time.Duration(expiry)*time.Second)
		if err != nil {
			return fmt.Errorf("open HTTP cache: %w", err)
		}
		defer cache.Close()
	}

	deps := project.Deps{
		Git:     gitutil.NewClient(logger),
		Meta:    pymeta.NewSetupPy(logger),
		Session: fetch.NewSession(cache, logger),
		Log:     logger,
	}
	projects := project.Projects(cmd.Context(), cfg, deps)

	if htmlOutput {
		return writeHTMLReport(projects, cfg, logger)
	}
	if outputFile != "" {
		ui.Warning("--output ignored in non-HTML mode")
	}
	return report.WriteText(ui, projects, verbose)
}

func writeHTMLReport(projects []*project.Project, cfg *config.Config, logger *slog.Logger) error {
	runID := ulid.Make().String()
	logger.Info("rendering report", "run", runID, "projects", len(projects))

	// Render fully before touching the output file so a failure never
	// truncates the previous report.
	html, err := report.RenderHTML(projects, cfg, report.ReportPages(cfg), runID)
	if err != nil {
		return err
	}
	if outputFile == "" || outputFile == "-" {
		_, err = os.Stdout.Write(html)
		return err
	}
	return os.WriteFile(outputFile, html, 0o644)
}

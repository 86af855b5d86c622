// Package commands implements the snyk-gc command line.
package commands

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/LerianStudio/lib-commons/commons/log"
	"github.com/LerianStudio/lib-commons/commons/zap"
	"github.com/LerianStudio/snyk-gc-projects/collector"
	"github.com/LerianStudio/snyk-gc-projects/internal/api"
	"github.com/LerianStudio/snyk-gc-projects/internal/config"
	"github.com/LerianStudio/snyk-gc-projects/model"
	"github.com/LerianStudio/snyk-gc-projects/util"
	"github.com/spf13/cobra"
)

// Version information injected at build time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Options carries collaborators that replace the production defaults
type Options struct {
	Logger     log.Logger
	HTTPClient *http.Client
	Clock      func() time.Time
}

// NewRootCmd builds the snyk-gc root command
func NewRootCmd(opts Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snyk-gc",
		Short: "Scan a Snyk Org for stale projects and optionally delete them",
		Long: `snyk-gc lists every project of a Snyk organization and checks when each
one was last tested. Projects whose last test is older than --age days are
reported, and deleted when --delete is given. Projects that were never tested
are kept.

The organization and token fall back to SNYK_ORG_ID and SNYK_API_TOKEN.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts)
		},
	}

	config.RegisterFlags(cmd.Flags())
	cmd.Flags().SortFlags = false

	cmd.AddCommand(newVersionCmd())
	cmd.CompletionOptions.DisableDefaultCmd = true

	return cmd
}

// Execute runs the root command with production collaborators.
func Execute() error {
	return NewRootCmd(Options{}).ExecuteContext(context.Background())
}

func run(cmd *cobra.Command, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = zap.InitializeLogger()
	}

	defer func() {
		_ = logger.Sync()
	}()

	if err := util.LoadDotenv(util.DotenvPath(), logger); err != nil {
		return err
	}

	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}

	printBanner(cmd.OutOrStdout(), cfg)
	logger.Debugf("Using org %s with API token %s at %s", cfg.OrgID, util.MaskToken(cfg.APIToken), cfg.APIURL)

	apiClient := api.New(cfg, opts.HTTPClient, logger)
	apiClient.SetClock(opts.Clock)

	gc, err := collector.New(cfg, apiClient, logger, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer gc.Close()

	gc.SetClock(opts.Clock)

	return gc.Run(cmd.Context())
}

func printBanner(w io.Writer, cfg model.Config) {
	mode := "Dry Run"
	if cfg.Delete {
		mode = "Deleting"
	}

	rule := strings.Repeat("*", 56)

	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "* %-11s Age = %d\n", mode, cfg.AgeDays)
	fmt.Fprintln(w, rule)
}

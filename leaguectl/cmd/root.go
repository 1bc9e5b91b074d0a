// Package cmd implements the leaguectl commands.
package cmd

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Ftotnem/LEAGUE-SERVICES/leaguectl/board"
	"github.com/Ftotnem/LEAGUE-SERVICES/shared/config"
	"github.com/Ftotnem/LEAGUE-SERVICES/shared/logger"
	"github.com/Ftotnem/LEAGUE-SERVICES/shared/models"
	"github.com/Ftotnem/LEAGUE-SERVICES/shared/service"
)

var rootLong = `leaguectl talks to any provider exposing the league HTTP interface.

It shows the standings table and team fixtures, and records fixtures, results and team owners.
When the provider has no table endpoint, the table is computed from its matches.`

// app holds what every subcommand needs, built once the flags are parsed.
type app struct {
	cfg    *config.ClientConfig
	lggr   logger.Logger
	client *service.LeagueServiceClient
	loader *board.Loader
}

type rootFlags struct {
	apiURL     string
	configFile string
	logLevel   string
}

// NewRootCommand builds the leaguectl command tree.
func NewRootCommand() *cobra.Command {
	var (
		f rootFlags
		a app
	)

	cmd := &cobra.Command{
		Use:           "leaguectl",
		Short:         "League table and fixtures client",
		Long:          rootLong,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(f)
		},
	}

	cmd.PersistentFlags().StringVar(&f.apiURL, "api", "", "Provider base URL (default from LEAGUE_API_URL or http://localhost:8080)")
	cmd.PersistentFlags().StringVar(&f.configFile, "config", "", "YAML or TOML config file (default from LEAGUE_CONFIG_FILE)")
	cmd.PersistentFlags().StringVar(&f.logLevel, "log-level", "", "Log level: debug, info, warn or error")

	cmd.AddCommand(
		newTableCmd(&a),
		newFixturesCmd(&a),
		newMatchesCmd(&a),
		newAddMatchCmd(&a),
		newSubmitResultCmd(&a),
		newSetOwnerCmd(&a),
		newWizardCmd(&a),
	)
	return cmd
}

func (a *app) init(f rootFlags) error {
	cfg, err := config.LoadClientConfig(f.configFile)
	if err != nil {
		return err
	}
	if f.apiURL != "" {
		cfg.BaseURL = strings.TrimRight(f.apiURL, "/")
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}

	lggr, err := logger.NewCLI(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	a.cfg = cfg
	a.lggr = lggr
	a.client = service.NewLeagueClient(cfg.BaseURL, &http.Client{Timeout: cfg.RequestTimeout}, lggr)
	a.loader = board.NewLoader(a.client, lggr)
	return nil
}

// resolveTeam accepts a team id or a case-insensitive team name. Ids win over names.
func resolveTeam(teams []models.ProviderTeam, ref string) (models.ProviderTeam, error) {
	ref = strings.TrimSpace(ref)
	id := models.ParseID(ref)
	for _, t := range teams {
		if t.ID == id {
			return t, nil
		}
	}
	for _, t := range teams {
		if strings.EqualFold(t.Name, ref) || (t.ShortName != "" && strings.EqualFold(t.ShortName, ref)) {
			return t, nil
		}
	}
	return models.ProviderTeam{}, fmt.Errorf("unknown team %q", ref)
}

func parseStatusFlag(s string) (models.MatchStatus, error) {
	if s == "" {
		return "", nil
	}
	return models.ParseMatchStatus(s)
}

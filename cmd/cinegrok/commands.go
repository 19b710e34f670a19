package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"cinegrok-backend/internal/browse"
	"cinegrok-backend/internal/models"
	"cinegrok-backend/pkg/client"
)

var loginCmd = &cobra.Command{
	Use:   "login [email]",
	Short: "Sign in and print the access token",
	Long: `Signs in with email and password and prints the access token.

The password is read from CINEGROK_PASSWORD.

Example:
  export CINEGROK_TOKEN=$(cinegrok login meera@example.com)`,
	Args: cobra.ExactArgs(1),
	RunE: runLogin,
}

var meCmd = &cobra.Command{
	Use:   "me",
	Short: "Show the signed-in account",
	RunE:  runMe,
}

var browseFilter browse.Filter

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "List published filmmakers",
	RunE:  runBrowse,
}

var showMode string

var showCmd = &cobra.Command{
	Use:   "show [filmmaker-id]",
	Short: "Show a filmmaker profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var (
	searchVector bool
	searchLimit  int
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search filmmakers by text, or by similarity with --vector",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

var interestsStatus string

var interestsCmd = &cobra.Command{
	Use:   "interests",
	Short: "List collaboration interests",
	RunE:  runInterests,
}

var interestsAddCmd = &cobra.Command{
	Use:   "add [filmmaker-id]",
	Short: "Mark a filmmaker as interesting",
	Args:  cobra.ExactArgs(1),
	RunE:  runInterestsAdd,
}

var interestsRemoveCmd = &cobra.Command{
	Use:   "remove [filmmaker-id]",
	Short: "Remove a collaboration interest",
	Args:  cobra.ExactArgs(1),
	RunE:  runInterestsRemove,
}

var ingestCmd = &cobra.Command{
	Use:   "ingest [file]",
	Short: "Import legacy filmmaker rows from a JSON or YAML file",
	Long: `Uploads legacy rows for import. The file holds a list of rows, or an
object with a "rows" list. Files ending in .yaml or .yml are read as YAML.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

var watchInterval time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Report login state changes until interrupted",
	RunE:  runWatch,
}

func init() {
	browseCmd.Flags().IntVar(&browseFilter.Page, "page", 1, "Page number")
	browseCmd.Flags().IntVar(&browseFilter.Limit, "limit", browse.DefaultLimit, "Page size")
	browseCmd.Flags().StringVar(&browseFilter.Search, "search", "", "Name or location")
	browseCmd.Flags().StringVar(&browseFilter.Role, "role", "", "Role")
	browseCmd.Flags().StringVar(&browseFilter.State, "state", "", "State")
	browseCmd.Flags().StringVar(&browseFilter.Genre, "genre", "", "Genre")
	browseCmd.Flags().BoolVar(&browseFilter.Collab, "collab", false, "Only filmmakers open to collaborations")

	showCmd.Flags().StringVar(&showMode, "mode", "audience", "audience or producer")

	searchCmd.Flags().BoolVar(&searchVector, "vector", false, "Rank by embedding similarity")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 0, "Maximum results")

	interestsCmd.Flags().StringVar(&interestsStatus, "status", "", "Only this status")
	interestsCmd.AddCommand(interestsAddCmd)
	interestsCmd.AddCommand(interestsRemoveCmd)

	watchCmd.Flags().DurationVar(&watchInterval, "interval", time.Minute, "Polling interval")
}

func runLogin(cmd *cobra.Command, args []string) error {
	password := os.Getenv("CINEGROK_PASSWORD")
	if password == "" {
		return fmt.Errorf("CINEGROK_PASSWORD is not set")
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()

	resp, err := newClient().Login(ctx, args[0], password)
	if err != nil {
		return err
	}
	if resp.Session == nil {
		return fmt.Errorf("login returned no session")
	}
	fmt.Fprintln(cmd.OutOrStdout(), resp.Session.AccessToken)
	return nil
}

func runMe(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	me, err := newClient().Me(ctx)
	if client.IsUnauthorized(err) {
		return fmt.Errorf("not signed in: run cinegrok login and export CINEGROK_TOKEN")
	}
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), me)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	page, err := newClient().ListFilmmakers(ctx, browseFilter)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, card := range page.Data {
		location := strings.Trim(strings.Join([]string{card.CurrentCity, card.CurrentState}, ", "), ", ")
		fmt.Fprintf(out, "%s  %-28s %-24s %s\n", card.ID, card.StageName, strings.Join(card.Roles, "/"), location)
	}
	p := page.Pagination
	fmt.Fprintf(out, "page %d of %d, %d filmmakers\n", p.Page, p.TotalPages, p.Total)
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	view, err := newClient().Filmmaker(ctx, args[0], showMode)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), view)
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	res, err := newClient().Search(ctx, strings.Join(args, " "), searchVector, searchLimit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, m := range res.Results {
		if res.Vector {
			fmt.Fprintf(out, "%.3f  %s  %s\n", m.Similarity, m.ID, m.StageName)
			continue
		}
		fmt.Fprintf(out, "%s  %s\n", m.ID, m.StageName)
	}
	if len(res.Results) == 0 {
		fmt.Fprintln(out, "no matches")
	}
	return nil
}

func runInterests(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	list, err := newClient().Interests(ctx, models.InterestStatus(interestsStatus))
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, in := range list {
		fmt.Fprintf(out, "%-12s %s  %s\n", in.Status, in.FilmmakerID, in.StageName)
	}
	return nil
}

func runInterestsAdd(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	in, err := newClient().ExpressInterest(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", in.Status, in.FilmmakerID)
	return nil
}

func runInterestsRemove(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()
	return newClient().RemoveInterest(ctx, args[0])
}

func runIngest(cmd *cobra.Command, args []string) error {
	rows, err := readRows(args[0])
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()

	res, err := newClient().Ingest(ctx, rows)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, r := range res.Rejected {
		fmt.Fprintf(out, "row %d rejected: %s\n", r.Index, strings.Join(r.Errors, "; "))
	}
	fmt.Fprintf(out, "%d imported, %d rejected\n", len(res.Imported), len(res.Rejected))
	return nil
}

// readRows loads legacy rows from a JSON or YAML file, as a bare list or
// under "rows".
func readRows(path string) ([]json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if data, err = json.Marshal(doc); err != nil {
			return nil, fmt.Errorf("failed to convert %s: %w", path, err)
		}
	}

	var rows []json.RawMessage
	if err := json.Unmarshal(data, &rows); err == nil {
		return rows, nil
	}
	var wrapped models.IngestRequest
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if wrapped.Rows == nil {
		return nil, fmt.Errorf("%s has no rows", path)
	}
	return wrapped.Rows, nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(baseContext(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w := client.NewSessionWatcher(newClient(), watchInterval, logger)
	updates, cancel := w.Subscribe()
	defer cancel()
	w.Start(ctx)
	defer w.Stop()

	out := cmd.OutOrStdout()
	for s := range updates {
		if s.LoggedIn {
			logger.Debug("session active", zap.String("user_id", s.User.ID))
			fmt.Fprintf(out, "%s signed in as %s\n", time.Now().Format(time.RFC3339), s.User.Email)
			continue
		}
		fmt.Fprintf(out, "%s signed out\n", time.Now().Format(time.RFC3339))
	}
	return nil
}

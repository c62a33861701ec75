package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/football-ical/internal/models"
)

var flagTeamsFormat string

func newTeamsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "teams",
		Short: "Manage the teams included in the feed",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List registered teams",
		Args:  cobra.NoArgs,
		RunE:  runTeamsList,
	}
	list.Flags().StringVar(&flagTeamsFormat, "format", "text", "Output format: text or json")

	add := &cobra.Command{
		Use:   "add URL",
		Short: "Register a team from any of its pages",
		Args:  cobra.ExactArgs(1),
		RunE:  runTeamsAdd,
	}

	toggle := &cobra.Command{
		Use:   "toggle ID",
		Short: "Enable or disable a team",
		Args:  cobra.ExactArgs(1),
		RunE:  runTeamsToggle,
	}

	cmd.AddCommand(list, add, toggle)
	return cmd
}

func runTeamsList(cmd *cobra.Command, args []string) error {
	format, err := parseFormat(flagTeamsFormat, FormatText, FormatJSON)
	if err != nil {
		return err
	}
	a, err := newApp(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	teams, err := a.store.ListTeams(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing teams: %w", err)
	}
	return WriteTeams(cmd.OutOrStdout(), teams, format)
}

func runTeamsAdd(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	scheduleURL, err := a.scraper.ScheduleURL(ctx, args[0])
	if err != nil {
		return fmt.Errorf("resolving schedule page: %w", err)
	}
	result, err := a.scraper.FetchTeam(ctx, scheduleURL, time.Now())
	if err != nil {
		return fmt.Errorf("reading schedule page: %w", err)
	}

	team := &models.Team{URL: scheduleURL, Name: result.Name, Enabled: true}
	if err := a.store.CreateTeam(ctx, team); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added team %d: %s (%d upcoming fixtures)\n", team.ID, team.Name, len(result.Events))
	return nil
}

func runTeamsToggle(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid team id: %s", args[0])
	}
	a, err := newApp(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	if err := a.store.FlipTeamStatus(ctx, id); err != nil {
		return err
	}
	team, err := a.store.GetTeam(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Team %d (%s) is now %s\n", team.ID, team.Name, statusLabel(team.Enabled))
	return nil
}

func statusLabel(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}

package cli

import (
	"context"
	"edunova/common"
	"edunova/settings"
	"encoding/json"
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newSettingsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the user settings",
	}

	getCmd := &cobra.Command{
		Use:   "get",
		Short: "Print the settings as JSON",
		Args:  cobra.NoArgs,
	}
	getCmd.RunE = a.clientRunE(func(ctx context.Context, cmd *cobra.Command, args []string) error {
		if err := a.requireSession(); err != nil {
			return err
		}
		s, err := a.settings.Get(ctx)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	})

	setCmd := &cobra.Command{
		Use:   "set <json>",
		Short: "Merge a JSON document into the settings",
		Long: `Merge a JSON document into the current settings. Fields that are left out
keep their value, e.g.

  edunova settings set '{"theme":"dark","preferences":{"playbackSpeed":1.5}}'`,
		Args: cobra.ExactArgs(1),
	}
	setCmd.RunE = a.clientRunE(func(ctx context.Context, cmd *cobra.Command, args []string) error {
		if err := a.requireSession(); err != nil {
			return err
		}
		current, err := a.settings.Get(ctx)
		if err != nil {
			return err
		}
		merged, err := settings.Merge(current, []byte(args[0]))
		if err != nil {
			return err
		}
		if err := a.settings.Update(ctx, merged); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Paramètres enregistrés")
		return nil
	})

	cmd.AddCommand(getCmd, setCmd)
	return cmd
}

func newProgressCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Track progress through documents, videos and exercises",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List progress entries",
		Args:  cobra.NoArgs,
	}
	listCmd.RunE = a.clientRunE(func(ctx context.Context, cmd *cobra.Command, args []string) error {
		if err := a.requireSession(); err != nil {
			return err
		}
		entries, err := a.progress.List(ctx)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TYPE\tID\tPROGRESS\tCOMPLETED\tLAST ACCESSED")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%d\t%d%%\t%t\t%s\n", e.ContentType, e.ContentID, e.Progress, e.Completed,
				e.LastAccessed.Local().Format(time.DateTime))
		}
		return w.Flush()
	})

	var completed bool
	updateCmd := &cobra.Command{
		Use:   "update <document|video|exercise> <id> <percent>",
		Short: "Record progress on one piece of content",
		Args:  cobra.ExactArgs(3),
	}
	updateCmd.Flags().BoolVar(&completed, "completed", false, "Mark the content as completed")
	updateCmd.RunE = a.clientRunE(func(ctx context.Context, cmd *cobra.Command, args []string) error {
		if err := a.requireSession(); err != nil {
			return err
		}
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		percent, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("%w: progress must be a number, got '%s'", common.ErrInvalidInput, args[2])
		}
		if err := a.progress.Update(ctx, args[0], id, percent, completed); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Progression enregistrée")
		return nil
	})

	cmd.AddCommand(listCmd, updateCmd)
	return cmd
}

func newStatsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarise progress",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = a.clientRunE(func(ctx context.Context, cmd *cobra.Command, args []string) error {
		if err := a.requireSession(); err != nil {
			return err
		}
		st, err := a.progress.Stats(ctx)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "Cours terminés:\t%d\n", st.Courses)
		fmt.Fprintf(w, "Exercices terminés:\t%d\n", st.Exercises)
		fmt.Fprintf(w, "Vidéos terminées:\t%d\n", st.Videos)
		fmt.Fprintf(w, "Taux de réussite:\t%d%%\n", st.SuccessRate)
		fmt.Fprintf(w, "Actifs cette semaine:\t%d\n", st.ActiveThisWeek)
		return w.Flush()
	})
	return cmd
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid id '%s'", common.ErrInvalidInput, s)
	}
	return id, nil
}

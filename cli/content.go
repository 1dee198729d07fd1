package cli

import (
	"context"
	"edunova/content"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func addFilterFlags(cmd *cobra.Command, f *content.Filter, withType bool) {
	cmd.Flags().StringVarP(&f.Search, "search", "s", "", "Case-insensitive text in title, description or subject")
	cmd.Flags().StringVar(&f.Subject, "subject", "", "Exact subject")
	cmd.Flags().StringVar(&f.Level, "level", "", "Exact level")
	if withType {
		cmd.Flags().StringVar(&f.Type, "type", "", "Exact document type (cours, exercices, resume, examen)")
	}
}

func newDocumentsCmd(a *app) *cobra.Command {
	var f content.Filter
	cmd := &cobra.Command{
		Use:     "documents [id]",
		Aliases: []string{"docs"},
		Short:   "List or show course documents",
		Args:    cobra.MaximumNArgs(1),
	}
	addFilterFlags(cmd, &f, true)

	cmd.RunE = a.clientRunE(func(ctx context.Context, cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if len(args) == 1 {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			doc, err := a.catalog.Document(ctx, id)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Title:\t%s\n", doc.Title)
			fmt.Fprintf(w, "Type:\t%s\n", doc.Type)
			fmt.Fprintf(w, "Subject:\t%s\n", doc.Subject)
			fmt.Fprintf(w, "Level:\t%s\n", doc.Level)
			fmt.Fprintf(w, "Pages:\t%d\n", doc.Pages)
			fmt.Fprintf(w, "Download:\t%s\n", doc.DownloadURL)
			fmt.Fprintf(w, "\n%s\n", doc.Description)
			return w.Flush()
		}

		docs, err := a.catalog.Documents(ctx, f)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tTYPE\tSUBJECT\tLEVEL\tPAGES")
		for _, d := range docs {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%d\n", d.ID, d.Title, d.Type, d.Subject, d.Level, d.Pages)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(out, "%d document(s)\n", len(docs))
		return nil
	})
	return cmd
}

func newVideosCmd(a *app) *cobra.Command {
	var f content.Filter
	cmd := &cobra.Command{
		Use:   "videos [id]",
		Short: "List or show video lessons",
		Args:  cobra.MaximumNArgs(1),
	}
	addFilterFlags(cmd, &f, false)

	cmd.RunE = a.clientRunE(func(ctx context.Context, cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if len(args) == 1 {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			v, err := a.catalog.Video(ctx, id)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Title:\t%s\n", v.Title)
			fmt.Fprintf(w, "Subject:\t%s\n", v.Subject)
			fmt.Fprintf(w, "Level:\t%s\n", v.Level)
			fmt.Fprintf(w, "Duration:\t%s\n", v.Duration)
			fmt.Fprintf(w, "Views:\t%d\n", v.Views)
			fmt.Fprintf(w, "Watch:\t%s\n", v.VideoURL)
			fmt.Fprintf(w, "\n%s\n", v.Description)
			return w.Flush()
		}

		videos, err := a.catalog.Videos(ctx, f)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tSUBJECT\tLEVEL\tDURATION\tVIEWS")
		for _, v := range videos {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%d\n", v.ID, v.Title, v.Subject, v.Level, v.Duration, v.Views)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(out, "%d video(s)\n", len(videos))
		return nil
	})
	return cmd
}

func newSubjectsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subjects",
		Short: "List the subjects and levels found in the catalogue",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = a.clientRunE(func(ctx context.Context, cmd *cobra.Command, args []string) error {
		subjects, levels, err := a.catalog.Facets(ctx)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Subjects: %s\n", strings.Join(subjects, ", "))
		fmt.Fprintf(out, "Levels:   %s\n", strings.Join(levels, ", "))
		return nil
	})
	return cmd
}

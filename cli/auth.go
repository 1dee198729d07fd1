package cli

import (
	"context"
	"edunova/models"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newLoginCmd(a *app) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "login <email>",
		Short: "Log in and keep the session",
		Long: `Log in with an email and password. The session is written to the store
and reused by later commands until 'edunova logout'.

The password is prompted for when --password is not given.`,
		Args: cobra.ExactArgs(1),
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (prompted when empty)")

	cmd.RunE = a.clientRunE(func(ctx context.Context, cmd *cobra.Command, args []string) error {
		if password == "" {
			pw, err := promptPassword(cmd.InOrStdin(), cmd.ErrOrStderr(), "Mot de passe")
			if err != nil {
				return err
			}
			password = pw
		}

		sess, err := a.session.Login(ctx, args[0], password)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Connecté en tant que %s (%s)\n", sess.User.FullName, sess.User.Email)
		return nil
	})
	return cmd
}

func newRegisterCmd(a *app) *cobra.Command {
	var reg models.Registration
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().StringVar(&reg.FullName, "name", "", "Full name")
	cmd.Flags().StringVar(&reg.Email, "email", "", "Email")
	cmd.Flags().StringVarP(&reg.Password, "password", "p", "", "Password (prompted when empty)")
	cmd.Flags().StringVar(&reg.Level, "level", "", "Education level, e.g. Licence 1")
	cmd.Flags().StringVar(&reg.Specialty, "specialty", "", "Specialty, e.g. Informatique")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")

	cmd.RunE = a.clientRunE(func(ctx context.Context, cmd *cobra.Command, args []string) error {
		if reg.Password == "" {
			pw, err := promptPassword(cmd.InOrStdin(), cmd.ErrOrStderr(), "Mot de passe")
			if err != nil {
				return err
			}
			confirm, err := promptPassword(cmd.InOrStdin(), cmd.ErrOrStderr(), "Confirmer le mot de passe")
			if err != nil {
				return err
			}
			reg.Password, reg.ConfirmPassword = pw, confirm
		}

		sess, err := a.session.Register(ctx, reg)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Compte créé pour %s (id %d)\n", sess.User.FullName, sess.User.ID)
		return nil
	})
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Clear the saved session",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = a.clientRunE(func(ctx context.Context, cmd *cobra.Command, args []string) error {
		if err := a.session.Logout(ctx); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Déconnecté")
		return nil
	})
	return cmd
}

func newWhoamiCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = a.clientRunE(func(ctx context.Context, cmd *cobra.Command, args []string) error {
		u := a.session.Current()
		out := cmd.OutOrStdout()
		if u == nil {
			fmt.Fprintf(out, "%s: not logged in\n", a.session.State())
			return nil
		}
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "State:\t%s\n", a.session.State())
		fmt.Fprintf(w, "Id:\t%d\n", u.ID)
		fmt.Fprintf(w, "Name:\t%s\n", u.FullName)
		fmt.Fprintf(w, "Email:\t%s\n", u.Email)
		fmt.Fprintf(w, "Level:\t%s\n", u.Level)
		fmt.Fprintf(w, "Specialty:\t%s\n", u.Specialty)
		fmt.Fprintf(w, "Joined:\t%s\n", u.JoinDate)
		return w.Flush()
	})
	return cmd
}

// newAccountsCmd lists the accounts without password material.
func newAccountsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "List the demo accounts",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = a.clientRunE(func(ctx context.Context, cmd *cobra.Command, args []string) error {
		users, err := a.accounts(ctx)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tEMAIL\tLEVEL\tSPECIALTY")
		for _, u := range users {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", u.ID, u.FullName, u.Email, u.Level, u.Specialty)
		}
		return w.Flush()
	})
	return cmd
}

func (a *app) accounts(ctx context.Context) ([]models.User, error) {
	if a.client != nil {
		return a.client.Accounts(ctx)
	}
	type accountLister interface {
		Accounts(ctx context.Context) ([]models.Account, error)
	}
	lister, ok := a.src.(accountLister)
	if !ok {
		return nil, fmt.Errorf("source cannot list accounts")
	}
	accounts, err := lister.Accounts(ctx)
	if err != nil {
		return nil, err
	}
	users := make([]models.User, 0, len(accounts))
	for _, acc := range accounts {
		users = append(users, acc.User())
	}
	return users, nil
}

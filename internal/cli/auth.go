package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/xavierca1/ligue-crm/internal/infra/session"
)

func newLoginCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "login [token]",
		Short: "Save a backend access token for the other commands",
		Long:  "Save a backend access token. Without an argument the token is read from stdin.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token := ""
			if len(args) == 1 {
				token = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read token: %w", err)
				}
				token = line
			}
			token = strings.TrimSpace(token)
			if token == "" {
				return errors.New("access token is required")
			}

			now := time.Now()
			s := session.New(token, a.cfg.Session.TTL, now)
			if s.Expired(now) {
				return errors.New("this token has expired")
			}
			if err := a.tokens.Save(s); err != nil {
				return err
			}

			who := s.Operator
			if who == "" {
				who = "operator"
			}
			fmt.Fprintf(a.out, "Signed in as %s until %s\n", who, s.ExpiresAt.Local().Format("02/01/2006 15:04"))
			return nil
		},
	}
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved token",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			if err := a.tokens.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Signed out")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the saved session",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			s, err := a.tokens.Load()
			if errors.Is(err, session.ErrNotFound) {
				fmt.Fprintln(a.out, "Not signed in")
				return nil
			}
			if err != nil {
				return err
			}
			if a.jsonOut {
				return a.printJSON(s)
			}
			state := "valid"
			if s.Expired(time.Now()) {
				state = "expired"
			}
			fmt.Fprintf(a.out, "Operator: %s\nSession:  %s (%s, expires %s)\nFile:     %s\n",
				s.Operator, s.ID, state, s.ExpiresAt.Local().Format("02/01/2006 15:04"), a.tokens.Path())
			return nil
		},
	}
}

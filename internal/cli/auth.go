package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/franknunes1612/saralucasacademy-sub002/internal/callback"
	"github.com/franknunes1612/saralucasacademy-sub002/internal/model"
	"github.com/franknunes1612/saralucasacademy-sub002/internal/server"
)

const defaultLoginTimeout = 5 * time.Minute

func newAuthCommand() *cobra.Command {
	authCmd := &cobra.Command{
		Use:   "auth",
		Short: "Sign in, sign out and inspect sign-in diagnostics",
	}

	authCmd.AddCommand(
		newAuthURLCommand(),
		newAuthLoginCommand(),
		newAuthLogoutCommand(),
		newAuthStatusCommand(),
		newAuthEventsCommand(),
	)
	return authCmd
}

func parseProvider(name string) (*model.AuthProvider, error) {
	p := model.ParseAuthProvider(strings.ToLower(strings.TrimSpace(name)))
	if p == nil {
		return nil, fmt.Errorf("unsupported provider %q (use google or apple)", name)
	}
	return p, nil
}

func newAuthURLCommand() *cobra.Command {
	var provider, redirectURI, projectID string

	cmd := &cobra.Command{
		Use:   "url",
		Short: "Print the broker sign-in URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parseProvider(provider)
			if err != nil {
				return err
			}
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}

			u := app.oauthBuilder().BuildInitiateURL(string(*p), redirectURI, projectID)
			app.authRecorder(cmd.Context()).Record(cmd.Context(), model.AuthStageInitiateURLBuilt, model.AuthEventDetails{
				Provider: p,
				Metadata: map[string]any{"redirectUri": redirectURI},
			})

			fmt.Fprintln(cmd.OutOrStdout(), u)
			return nil
		},
	}

	cmd.Flags().StringVar(&provider, "provider", string(model.AuthProviderGoogle), "OAuth provider (google or apple)")
	cmd.Flags().StringVar(&redirectURI, "redirect-uri", "", "Where the broker sends the user afterwards")
	cmd.Flags().StringVar(&projectID, "project-id", "", "Project id (defaults to CALORIESPOT_PROJECT_ID)")
	_ = cmd.MarkFlagRequired("redirect-uri")
	return cmd
}

func newAuthLoginCommand() *cobra.Command {
	var (
		provider  string
		projectID string
		timeout   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in through the browser",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parseProvider(provider)
			if err != nil {
				return err
			}
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			return runLogin(cmd, app, p, projectID, timeout)
		},
	}

	cmd.Flags().StringVar(&provider, "provider", string(model.AuthProviderGoogle), "OAuth provider (google or apple)")
	cmd.Flags().StringVar(&projectID, "project-id", "", "Project id (defaults to CALORIESPOT_PROJECT_ID)")
	cmd.Flags().DurationVar(&timeout, "timeout", defaultLoginTimeout, "How long to wait for the browser callback")
	return cmd
}

func runLogin(cmd *cobra.Command, app *App, provider *model.AuthProvider, projectID string, timeout time.Duration) error {
	ctx := cmd.Context()
	recorder := app.authRecorder(ctx)
	recorder.Record(ctx, model.AuthStageButtonClicked, model.AuthEventDetails{Provider: provider})

	cfg := app.cfg.OAuth
	layer := server.NewSecurityLayer(cfg.EnableHTTPS, cfg.CertFileName, cfg.PrivateKeyFileName)

	// The redirect URI needs the bound port, so the router is installed once the listener is up.
	builder := app.oauthBuilder()
	mux := &lateHandler{}
	srv := server.NewHTTPServer(mux, net.JoinHostPort("127.0.0.1", cfg.CallbackPort))

	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	g, gctx := errgroup.WithContext(waitCtx)
	g.Go(func() error {
		return srv.Start(layer)
	})
	g.Go(func() error {
		defer func() {
			stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer stopCancel()
			if err := srv.Stop(stopCtx); err != nil {
				app.logger.Warn("CLI: callback server did not stop cleanly", "error", err.Error())
			}
		}()

		select {
		case <-srv.Ready():
		case <-gctx.Done():
			return gctx.Err()
		}

		redirectURI := server.BaseURL(srv.Address(), cfg.EnableHTTPS) + callback.Path
		initiate := builder.BuildInitiate(string(*provider), redirectURI, projectID)
		handler := callback.NewHandler(app.sessions, recorder, provider, initiate.State, app.logger)
		mux.set(handler.Router())

		recorder.Record(ctx, model.AuthStageInitiateURLBuilt, model.AuthEventDetails{
			Provider: provider,
			Metadata: map[string]any{"redirectUri": redirectURI},
		})
		recorder.Record(ctx, model.AuthStageRedirecting, model.AuthEventDetails{Provider: provider, URL: initiate.URL})

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Open this URL in your browser to sign in:")
		fmt.Fprintln(out, initiate.URL)

		userID, err := handler.Wait(gctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Signed in as %s\n", userID)
		return nil
	})

	err := g.Wait()
	if errors.Is(err, context.DeadlineExceeded) {
		recorder.Record(ctx, model.AuthStageSessionMissing, model.AuthEventDetails{Provider: provider, Err: "timed out waiting for callback"})
		return fmt.Errorf("timed out waiting for sign-in after %s", timeout)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("sign-in failed: %w", err)
	}
	return err
}

func newAuthLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out on this device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			// Recorded before the session is cleared so the event carries the user id.
			app.authRecorder(ctx).Record(ctx, model.AuthStageSignOut, model.AuthEventDetails{})
			if err := app.sessions.Clear(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func newAuthStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			recorder := app.authRecorder(ctx)
			recorder.Record(ctx, model.AuthStageSessionCheck, model.AuthEventDetails{})

			userID, err := app.sessions.CurrentUserID(ctx)
			if err != nil {
				recorder.Record(ctx, model.AuthStageSessionMissing, model.AuthEventDetails{Err: err})
				if errors.Is(err, model.ErrNoSession) {
					fmt.Fprintln(cmd.OutOrStdout(), "Not signed in")
					return nil
				}
				return err
			}

			recorder.Record(ctx, model.AuthStageSessionEstablished, model.AuthEventDetails{})
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", userID)
			return nil
		},
	}
}

func newAuthEventsCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "events",
		Short: "List recent sign-in diagnostics (admin only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}

			events, err := app.authRecorder(cmd.Context()).ListRecent(cmd.Context(), limit)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TIME\tSTAGE\tPROVIDER\tUSER\tERROR")
			for _, e := range events {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					e.CreatedAt.Local().Format(time.DateTime),
					e.Stage,
					deref((*string)(e.Provider)),
					userString(e.UserID),
					deref(e.ErrorMessage))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of events")
	return cmd
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpin "dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/jobs"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

// NewRootCommand builds the dispatch CLI.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "dispatch",
		Short:         "Warehouse order board and loading queue",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newMigrateCmd())
	root.AddCommand(newQueueCmd())

	return root
}

// Execute runs the CLI until it finishes or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCommand().ExecuteContext(ctx)
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "serve",
		Aliases: []string{"start"},
		Short:   "Run the HTTP service and scheduled jobs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRoot(cmd, func(ctx context.Context, cfg Config, root *CompositionRoot) error {
				return serve(ctx, cfg, root)
			})
		},
	}
}

func serve(ctx context.Context, cfg Config, root *CompositionRoot) error {
	e, err := httpin.NewEcho(ctx, httpin.NewServer(root.HTTPHandlers(), root.logger), root.Registry(), root.logger)
	if err != nil {
		return err
	}

	var scheduled []jobs.Job
	audit, err := root.CreateQueueAuditJob()
	if err != nil {
		return err
	}
	if audit != nil {
		scheduled = append(scheduled, audit)
	}
	manager := jobs.NewJobManager(scheduled...)
	if err = manager.StartAll(); err != nil {
		return err
	}
	defer manager.StopAll()

	server := &http.Server{
		Addr:              net.JoinHostPort("0.0.0.0", cfg.HTTPPort),
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}
	failed := make(chan error, 1)
	go func() {
		root.logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			failed <- err
		}
		close(failed)
	}()

	select {
	case err = <-failed:
		return err
	case <-ctx.Done():
	}

	root.logger.Info("stopping HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd, func(ctx context.Context, mig *postgres.Migrator) error {
				if err := mig.Up(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
				return nil
			})
		},
	}

	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			steps, _ := cmd.Flags().GetInt("steps")
			all, _ := cmd.Flags().GetBool("all")
			return withMigrator(cmd, func(ctx context.Context, mig *postgres.Migrator) error {
				if err := mig.Down(ctx, steps, all); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migrations rolled back")
				return nil
			})
		},
	}
	downCmd.Flags().Int("steps", 1, "Number of migration steps to rollback")
	downCmd.Flags().Bool("all", false, "Rollback all applied migrations")

	cmd.AddCommand(upCmd, downCmd)
	return cmd
}

func newQueueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect and repair the loading queue",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "verify",
		Short: "Check that ranks run 1..n without gaps or duplicates",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRoot(cmd, func(ctx context.Context, _ Config, root *CompositionRoot) error {
				report, err := root.CreateVerifyQueueQueryHandler().Handle(ctx, queries.NewVerifyQueueQuery())
				if err != nil {
					return err
				}
				if !report.IsDense() {
					return fmt.Errorf("queue of %d orders is not dense: %w", report.Length, report.Problem)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "queue of %d orders is dense\n", report.Length)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "compact",
		Short: "Renumber the queue to 1..n keeping its order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRoot(cmd, func(ctx context.Context, _ Config, root *CompositionRoot) error {
				handler := root.CreateCompactQueueCommandHandler()
				renumbered, err := handler.Handle(ctx, commands.NewCompactQueueCommand())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d orders renumbered\n", renumbered)
				return nil
			})
		},
	})
	return cmd
}

func withRoot(cmd *cobra.Command, fn func(context.Context, Config, *CompositionRoot) error) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	logger := NewLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)

	ctx := cmd.Context()
	root, err := NewCompositionRoot(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := root.Close(closeCtx); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
	}()
	return fn(ctx, cfg, root)
}

func withMigrator(cmd *cobra.Command, fn func(context.Context, *postgres.Migrator) error) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	logger := NewLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)

	_, sqlDB, err := openDatabase(cfg, logger)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	mig, err := postgres.NewMigrator(sqlDB, logger)
	if err != nil {
		return err
	}
	return fn(cmd.Context(), mig)
}

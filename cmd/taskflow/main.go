package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"taskflow/internal/config"
	"taskflow/internal/stats"
	"taskflow/internal/ui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "taskflow",
		Short: "Manage your tasks in the terminal",
		Long: `TaskFlow is a local task manager.

Tasks can be added, edited, completed, filtered, searched and reordered.
Everything is stored on this machine.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), configPath, true)
			if err != nil {
				return err
			}
			defer s.Close()
			s.log.Info().Str("backend", s.cfg.Storage.Backend).Msg("session started")
			return ui.Run(cmd.Context(), s.board, s.cfg)
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default "+config.ResolveConfigPath()+")")
	root.AddCommand(newStatsCmd(&configPath))
	return root
}

func newStatsCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print task statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), *configPath, false)
			if err != nil {
				return err
			}
			defer s.Close()

			view := s.board.View()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "total:      %d\n", view.Stats.Total)
			fmt.Fprintf(out, "completed:  %d\n", view.Stats.Completed)
			fmt.Fprintf(out, "pending:    %d\n", view.Stats.Pending)
			fmt.Fprintf(out, "completion: %d%%\n", stats.CompletionRate(view.Stats))
			for _, tier := range view.Stats.Tiers() {
				fmt.Fprintf(out, "%-10s  %d\n", tier.Priority+":", tier.Count)
			}
			return nil
		},
	}
}

package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/suxatcode/mindtree/db"
	"github.com/suxatcode/mindtree/internal/app"
)

func newDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Work on trees stored in postgres (configured via DB_PG_* variables)",
	}
	cmd.AddCommand(newDBListCmd())
	cmd.AddCommand(newDBRearrangeCmd())
	return cmd
}

func newDBListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the ids of all stored trees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := app.ConnectDB(cmd.Context(), db.GetEnvConfig())
			if err != nil {
				return err
			}
			ids, err := backend.ListTrees(cmd.Context())
			if err != nil {
				return err
			}
			for _, id := range ids {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}
}

func newDBRearrangeCmd() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "rearrange <tree-id>",
		Short: "Load a tree, re-arrange it and store the new positions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return err
			}
			ctrl, stop, err := app.Setup(cmd.Context())
			if err != nil {
				return err
			}
			defer stop()
			_, future, err := ctrl.Load(cmd.Context(), id)
			if err != nil {
				return err
			}
			if _, err := future.Wait(cmd.Context()); err != nil {
				return err
			}
			if dryRun {
				log.Info().Msgf("dry run, positions of tree '%s' not saved", id)
				return nil
			}
			return ctrl.SavePositions(cmd.Context(), id)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "do not store the new positions")
	return cmd
}

package main

import (
	"context"
	"fmt"
	"os"

	pg "cat-care-console/internal/adapters/storage/postgres"
	"cat-care-console/internal/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "migrate",
		Short:        "Migraciones de base de datos (goose, embebidas)",
		SilenceUsage: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			_ = godotenv.Load()
		},
	}

	root.AddCommand(
		gooseCmd("up", "Aplica todas las migraciones pendientes"),
		gooseCmd("down", "Revierte la última migración"),
		gooseCmd("status", "Muestra el estado de cada migración"),
		gooseCmd("version", "Muestra la versión actual"),
		gooseCmd("redo", "Revierte y vuelve a aplicar la última migración"),
	)
	return root
}

func gooseCmd(command, short string) *cobra.Command {
	return &cobra.Command{
		Use:   command,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), command)
		},
	}
}

func run(ctx context.Context, command string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	dbCfg, err := config.LoadDB()
	if err != nil {
		return err
	}

	db, err := pg.Open(ctx, dbCfg)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	return pg.RunMigrations(ctx, db, command)
}

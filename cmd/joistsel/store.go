package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"Concreteflow/internal/auth"
	"Concreteflow/internal/repo"
)

type dbFlags struct {
	dsn     string
	timeout time.Duration
}

func (d *dbFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&d.dsn, "dsn", os.Getenv("DATABASE_URL"), "Postgres connection string")
	cmd.Flags().DurationVar(&d.timeout, "timeout", 30*time.Second, "database timeout")
}

// open connects, migrates and returns a context bounded by --timeout.
func (d *dbFlags) open(cmd *cobra.Command) (context.Context, *repo.Postgres, func(), error) {
	ctx, cancel := context.WithTimeout(cmd.Context(), d.timeout)
	db, err := repo.Open(ctx, d.dsn)
	if err != nil {
		cancel()
		return nil, nil, nil, err
	}
	pg := repo.NewPostgres(db)
	if err := pg.Migrate(ctx); err != nil {
		db.Close()
		cancel()
		return nil, nil, nil, err
	}
	return ctx, pg, func() { db.Close(); cancel() }, nil
}

func newCatalogCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage stored span tables",
	}

	var (
		db                 dbFlags
		name, manufacturer string
	)
	importCmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Store a .yaml or .xlsx span table and print its id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := readCatalog(args[0], a.log)
			if err != nil {
				return err
			}
			if name != "" {
				c.Name = name
			}
			if manufacturer != "" {
				c.Manufacturer = manufacturer
			}
			ctx, pg, closeDB, err := db.open(cmd)
			if err != nil {
				return err
			}
			defer closeDB()

			id, err := pg.Save(ctx, c)
			if err != nil {
				return err
			}
			a.log.Info("catalog stored", zap.String("id", id), zap.Int("rows", len(c.Entries)))
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
	db.bind(importCmd)
	importCmd.Flags().StringVar(&name, "name", "", "catalog name, file name when empty")
	importCmd.Flags().StringVar(&manufacturer, "manufacturer", "", "manufacturer")
	cmd.AddCommand(importCmd)
	return cmd
}

func newUserAddCmd(a *app) *cobra.Command {
	var (
		db          dbFlags
		login, role string
	)
	cmd := &cobra.Command{
		Use:   "useradd",
		Short: "Create an API login, password read from JOISTSEL_PASSWORD",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			password := os.Getenv("JOISTSEL_PASSWORD")
			if login == "" || len(password) < 8 {
				return errors.New("--login and a JOISTSEL_PASSWORD of at least 8 characters are required")
			}
			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}
			ctx, pg, closeDB, err := db.open(cmd)
			if err != nil {
				return err
			}
			defer closeDB()

			id, err := pg.CreateUser(ctx, login, hash, role)
			if err != nil {
				return err
			}
			a.log.Info("user created", zap.Int("id", id), zap.String("login", login))
			fmt.Fprintf(cmd.OutOrStdout(), "user %s created (id %d)\n", login, id)
			return nil
		},
	}
	db.bind(cmd)
	cmd.Flags().StringVar(&login, "login", "", "login")
	cmd.Flags().StringVar(&role, "role", "engineer", "role")
	return cmd
}

package main

import (
	"fmt"
	"os"

	"github.com/Aidin1998/qrmenu/internal/bulk"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func migrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the schema and seed default settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.migrate(cmd.Context())
		},
	}
}

func adminCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage admin accounts",
	}

	var username, password string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create an admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.migrate(cmd.Context()); err != nil {
				return err
			}
			admin, err := a.services.Identities.CreateAdmin(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "admin %q created (%s)\n", admin.Username, admin.ID)
			return nil
		},
	}
	create.Flags().StringVar(&username, "username", "", "Admin username")
	create.Flags().StringVar(&password, "password", "", "Admin password")
	_ = create.MarkFlagRequired("username")
	_ = create.MarkFlagRequired("password")

	cmd.AddCommand(create)
	return cmd
}

func importCmd(configPath *string) *cobra.Command {
	var file, mode string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import products from an .xlsx spreadsheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			importMode, err := bulk.ParseMode(mode)
			if err != nil {
				return err
			}

			a, err := newApp(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()

			rows, err := bulk.ReadXLSX(f)
			if err != nil {
				return err
			}
			result, err := a.services.Importer.Import(cmd.Context(), rows, importMode)
			if err != nil {
				return err
			}
			a.services.Media.Release(cmd.Context(), result.RemovedImages...)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d imported (%d created, %d updated), %d failed, %d categories created\n",
				result.SuccessCount, result.Created, result.Updated, result.ErrorCount, result.CategoriesCreated)
			for _, e := range result.Errors {
				fmt.Fprintf(out, "  %s\n", e)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Spreadsheet to import")
	cmd.Flags().StringVar(&mode, "mode", string(bulk.ModeUpdate), "Import mode: update or delete_all")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func exportCmd(configPath *string) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export products to an .xlsx spreadsheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			rows, err := a.services.Exporter.Export(cmd.Context())
			if err != nil {
				return err
			}

			f, err := os.Create(file)
			if err != nil {
				return err
			}
			if err := bulk.WriteXLSX(f, rows); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			a.logger.Info("products exported", zap.String("file", file), zap.Int("rows", len(rows)))
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "urunler.xlsx", "Destination file")
	return cmd
}

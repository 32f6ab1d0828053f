package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply schema migrations and seed the control settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := openStack(opts)
			if err != nil {
				return err
			}
			defer st.close()

			if err := st.service().Setting.SeedDefaults(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
			return nil
		},
	}
}

func newCreateAdminCmd(opts *rootOptions) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(password) < 6 {
				return fmt.Errorf("password must be at least 6 characters")
			}
			st, err := openStack(opts)
			if err != nil {
				return err
			}
			defer st.close()

			admin, err := st.service().Auth.CreateAdmin(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "admin %q created (id %d)\n", admin.Username, admin.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "admin username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "admin password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newImportStudentsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import-students <file.xlsx>",
		Short: "Add students from a spreadsheet to the eligibility roster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			st, err := openStack(opts)
			if err != nil {
				return err
			}
			defer st.close()

			roster := st.service().Roster
			rows, err := roster.ParseImportFile(f)
			if err != nil {
				return err
			}
			res, err := roster.ImportStudents(cmd.Context(), rows)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "rows: %d, inserted: %d, skipped: %d\n", res.Total, res.Inserted, res.Skipped)
			for _, e := range res.Errors {
				fmt.Fprintf(out, "  row %d: %s\n", e.Row, e.Reason)
			}
			return nil
		},
	}
}

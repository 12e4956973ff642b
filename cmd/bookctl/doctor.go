package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"booklibrary/internal/catalog"
)

func newDoctorCmd(get func() (*app, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the database and the ISBNdb API key",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := get()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			var failed []error
			check := func(name string, err error) {
				if err != nil {
					failed = append(failed, fmt.Errorf("%s: %w", name, err))
					fmt.Fprintf(out, "FAIL %-8s %v\n", name, err)
					return
				}
				fmt.Fprintf(out, "ok   %s\n", name)
			}

			check("database", a.repo.Ping(ctx))
			if a.cfg.ISBNdbAPIKey == "" {
				check("isbndb", errors.New("ISBNDB_API_KEY is not set"))
			} else {
				check("isbndb", a.external.Ping(ctx))
			}
			fmt.Fprintf(out, "     driver=%s dsn=%s\n", a.cfg.DBDriver, catalog.RedactDSN(a.cfg.DBDSN))
			return errors.Join(failed...)
		},
	}
	return withApp(cmd)
}

package main

import (
	"strings"

	"github.com/spf13/cobra"

	"booklibrary/internal/search"
)

func newSearchCmd(get func() (*app, error)) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the local catalog",
		Example: `  bookctl search Dune
  bookctl search "J.R.R. Tolkien" --limit 5`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := get()
			if err != nil {
				return err
			}
			res, err := a.orch.Search(cmd.Context(), search.NewSession(""), strings.Join(args, " "), limit)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "Maximum results")
	return withApp(cmd)
}

func newSearchExternalCmd(get func() (*app, error)) *cobra.Command {
	var (
		limit int
		all   bool
	)

	cmd := &cobra.Command{
		Use:   "search-external <query>",
		Short: "Search ISBNdb, hiding books the local catalog already returns",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := get()
			if err != nil {
				return err
			}
			query := strings.Join(args, " ")
			sess := search.NewSession("")
			if !all {
				if _, err := a.orch.Search(cmd.Context(), sess, query, limit); err != nil {
					return err
				}
			}
			res, err := a.orch.SearchExternal(cmd.Context(), sess, query, limit)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "Maximum results")
	cmd.Flags().BoolVar(&all, "all", false, "Do not hide books found locally")
	return withApp(cmd)
}

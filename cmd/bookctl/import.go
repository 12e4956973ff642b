package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"booklibrary/internal/catalog"
	"booklibrary/internal/search"
)

func newImportCmd(get func() (*app, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <isbn>...",
		Short: "Import books from ISBNdb by ISBN",
		Example: `  bookctl import 978-0-547-92821-0
  bookctl import 9780441172719 0441172717`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := get()
			if err != nil {
				return err
			}
			sess := search.NewSession("")
			books := make([]catalog.Book, 0, len(args))
			for _, isbn := range args {
				book, err := a.orch.ImportBook(cmd.Context(), sess, isbn)
				if err != nil {
					return fmt.Errorf("import %s: %w", isbn, err)
				}
				books = append(books, *book)
			}
			return printJSON(cmd.OutOrStdout(), books)
		},
	}
	return withApp(cmd)
}

func newImportFileCmd(get func() (*app, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import-file <path>",
		Short: "Import every ISBN listed in a file, one per line",
		Long: `Reads ISBNs from a file, one per line. Blank lines and lines starting
with # are ignored. Unknown ISBNs are reported and skipped; a rate limit from
ISBNdb stops the run.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := get()
			if err != nil {
				return err
			}
			isbns, err := readISBNFile(args[0])
			if err != nil {
				return err
			}

			_, report, err := a.importer.ImportISBNs(cmd.Context(), a.external, isbns)
			if printErr := printJSON(cmd.OutOrStdout(), report); printErr != nil {
				return printErr
			}
			return err
		},
	}
	return withApp(cmd)
}

func readISBNFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open isbn file: %w", err)
	}
	defer f.Close()

	var isbns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		isbns = append(isbns, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read isbn file: %w", err)
	}
	return isbns, nil
}

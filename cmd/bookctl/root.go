package main

import (
	"github.com/spf13/cobra"
)

// newRootCmd builds the command tree. The returned close func releases the
// app opened for the command that ran; call it once Execute returns, since
// cobra skips post-run hooks when RunE fails.
func newRootCmd(open appOpener) (*cobra.Command, func() error) {
	var a *app

	cmd := &cobra.Command{
		Use:   "bookctl",
		Short: "Search and import books from the command line",
		Long: `bookctl talks to the local catalog and the ISBNdb external catalog
with the same search and import rules as the HTTP API.

Settings come from the environment, .env, .env.local and config.yaml.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations["needsApp"] != "true" {
				return nil
			}
			var err error
			a, err = open(cmd.Context())
			return err
		},
	}

	get := func() (*app, error) {
		if a == nil {
			return nil, errNoApp
		}
		return a, nil
	}

	cmd.AddCommand(
		newSearchCmd(get),
		newSearchExternalCmd(get),
		newImportCmd(get),
		newImportFileCmd(get),
		newDoctorCmd(get),
		newTokenCmd(),
	)

	closeApp := func() error {
		err := a.Close()
		a = nil
		return err
	}
	return cmd, closeApp
}

func withApp(cmd *cobra.Command) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations["needsApp"] = "true"
	return cmd
}

package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/skillwiki/confluence-publish/confluence"
	"github.com/spf13/cobra"
)

var resolveUsage = strings.TrimSpace(`
Look up a page by exact title in the configured space and print its ID.  Useful for checking what
an upsert would target.  Note the lookup inspects only the first page of results and does not
disambiguate by parent.
`)

var resolveCmd = &cobra.Command{
	Use:   "resolve TITLE",
	Short: "Resolve a page title to its ID",
	Long:  resolveUsage,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		api, cleanup, err := newAPI()
		if err != nil {
			return err
		}
		defer cleanup()

		id, err := api.ResolvePageID(ctx, args[0])
		if err != nil {
			var notFound *confluence.NotFoundError
			if errors.As(err, &notFound) {
				return fmt.Errorf("resolve: %w", err)
			}
			return fmt.Errorf("resolve: lookup failed: %w", err)
		}

		fmt.Printf("%s\n", id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var publishFileUsage = strings.TrimSpace(`
Publish a single file as a page under the configured parent, with the raw file attached.  The page
title defaults to the filename; override it with --title.
`)

var publishFileCmd = &cobra.Command{
	Use:   "file FILE",
	Short: "Publish one file as a page with attachment",
	Long:  publishFileUsage,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		api, cleanup, err := newAPI()
		if err != nil {
			return err
		}
		defer cleanup()

		uploader, err := newUploader(api)
		if err != nil {
			return err
		}

		ref, err := uploader.UploadFile(ctx, args[0], PageTitle)
		if err != nil {
			return err
		}

		fmt.Printf("Published: %s\n", ref.WebURL)
		return printPreview(cmd, uploader, ref)
	},
}

var PageTitle string

func init() {
	publishCmd.AddCommand(publishFileCmd)

	publishFileCmd.Flags().StringVar(&PageTitle, "title", "", "page title (default: the filename)")
}

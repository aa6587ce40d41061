package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/skillwiki/confluence-publish/publish"
	"github.com/spf13/cobra"
)

var publishDirUsage = strings.TrimSpace(`
Publish every supported file directly inside DIR (no recursion) as a page hierarchy:

  <parent> / <section> / <directory page> / one page per file

Each file page embeds the file appropriately for its type (code block, inline image, or office
preview) and carries the raw file as an attachment.  Supported extensions: ` + strings.Join(publish.SupportedExtensions(), " ") + `
`)

var publishDirCmd = &cobra.Command{
	Use:   "dir DIR",
	Short: "Publish a directory of files as a page tree",
	Long:  publishDirUsage,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		dir := args[0]
		if DirTitle == "" {
			return fmt.Errorf("publish: provide the directory page title with --dir-title")
		}
		if SectionTitle == "" {
			return fmt.Errorf("publish: provide the section page title with --section")
		}

		api, cleanup, err := newAPI()
		if err != nil {
			return err
		}
		defer cleanup()

		uploader, err := newUploader(api)
		if err != nil {
			return err
		}

		debugLog("publishing %s as %q under section %q\n", dir, DirTitle, SectionTitle)
		return uploader.UploadDirectory(ctx, dir, DirTitle, SectionTitle)
	},
}

var (
	DirTitle     string
	SectionTitle string
)

func init() {
	publishCmd.AddCommand(publishDirCmd)

	publishDirCmd.Flags().StringVar(&DirTitle, "dir-title", "", "title for the directory container page")
	publishDirCmd.Flags().StringVar(&SectionTitle, "section", "", "title for the intermediate section page")
}

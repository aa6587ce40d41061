package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var publishReportUsage = strings.TrimSpace(`
Publish a tabular report page from a .csv or .xlsx file (first worksheet; first row is the header).
Optionally attach a pre-rendered plot image and reference it inline with --plot.
`)

var publishReportCmd = &cobra.Command{
	Use:   "report SHEET",
	Short: "Publish a data sheet as a report page",
	Long:  publishReportUsage,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		if ReportTitle == "" {
			return fmt.Errorf("publish: provide the report page title with --title")
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

		ref, err := uploader.PublishReport(ctx, ReportTitle, args[0], PlotPath)
		if err != nil {
			return err
		}

		fmt.Printf("Published: %s\n", ref.WebURL)
		return printPreview(cmd, uploader, ref)
	},
}

var (
	ReportTitle string
	PlotPath    string
)

func init() {
	publishCmd.AddCommand(publishReportCmd)

	publishReportCmd.Flags().StringVar(&ReportTitle, "title", "", "title for the report page")
	publishReportCmd.Flags().StringVar(&PlotPath, "plot", "", "path to a plot image to attach and embed")
}

package main

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"strings"

	"github.com/skillwiki/confluence-publish/confluence"
	"github.com/skillwiki/confluence-publish/publish"
	"github.com/spf13/cobra"
	"gopkg.in/dnaeon/go-vcr.v3/cassette"
	"gopkg.in/dnaeon/go-vcr.v3/recorder"
)

var publishUsage = strings.TrimSpace(`
Commands in this namespace push content into the wiki: single files, whole directories, or tabular
reports.  Every write is an idempotent upsert, so re-running a publish refreshes the existing pages
instead of duplicating them.
`)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Commands to publish content to Confluence",
	Long:  publishUsage,
}

var (
	WithVCR      bool
	ShowProgress bool
	Preview      bool
	ManifestPath string
)

func init() {
	rootCmd.AddCommand(publishCmd)

	publishCmd.PersistentFlags().BoolVar(&WithVCR, "with-vcr", false, "use go-vcr to record/replay HTTP interactions")
	publishCmd.PersistentFlags().BoolVar(&ShowProgress, "progress", true, "draw a progress bar over batch uploads")
	publishCmd.PersistentFlags().BoolVar(&Preview, "preview", false, "print a Markdown preview of the published page")
	publishCmd.PersistentFlags().StringVar(&ManifestPath, "manifest", "", "write a YAML manifest of published pages to this path")
}

// resolveToken fetches the Personal Access Token, either from auth-token-cmd
// or from the CONFLUENCE_PAT environment variable.
func resolveToken() (string, error) {
	if len(AuthTokenCmd) > 0 {
		tokenCmdOutput, err := exec.Command(AuthTokenCmd[0], AuthTokenCmd[1:]...).Output()
		if err != nil {
			return "", fmt.Errorf("publish: couldn't execute auth-token-cmd '%v': %w", AuthTokenCmd, err)
		}
		return strings.Split(string(tokenCmdOutput), "\n")[0], nil
	}

	if token := strings.TrimSpace(os.Getenv("CONFLUENCE_PAT")); token != "" {
		return token, nil
	}

	return "", fmt.Errorf("publish: no auth token; set CONFLUENCE_PAT or provide --auth-token-cmd")
}

// newAPI builds the API handle from the resolved configuration, optionally
// wrapping its HTTP client in a VCR recorder.  The caller must invoke the
// returned cleanup function.
func newAPI() (*confluence.API, func() error, error) {
	token, err := resolveToken()
	if err != nil {
		return nil, nil, err
	}

	api, err := confluence.NewAPI(BaseURL, AuthUsername, token, CABundle, SpaceKey)
	if err != nil {
		return nil, nil, fmt.Errorf("publish: Confluence API creation failed: %w", err)
	}

	cleanup := func() error { return nil }

	if WithVCR {
		// set up VCR recordings.
		opts := &recorder.Options{
			CassetteName:       "fixtures/confluence-publish",
			Mode:               recorder.ModeReplayWithNewEpisodes,
			SkipRequestLatency: true,
			RealTransport:      api.Client.Transport,
		}
		r, err := recorder.NewWithOptions(opts)
		if err != nil {
			return nil, nil, fmt.Errorf("publish: couldn't set up go-vcr recording: %w", err)
		}

		// Add a hook which removes Authorization headers from all requests
		hook := func(i *cassette.Interaction) error {
			delete(i.Request.Headers, "Authorization")
			return nil
		}
		r.AddHook(hook, recorder.AfterCaptureHook)
		r.SetReplayableInteractions(true)

		api.Client = r.GetDefaultClient()
		cleanup = r.Stop
	}

	return api, cleanup, nil
}

func newUploader(api *confluence.API) (*publish.Uploader, error) {
	if ParentTitle == "" {
		return nil, fmt.Errorf("publish: configure the global parent page with --parent")
	}

	return &publish.Uploader{
		API:          api,
		ParentTitle:  ParentTitle,
		Logger:       log.New(os.Stderr, "", log.LstdFlags),
		ShowProgress: ShowProgress,
		ManifestPath: ManifestPath,
	}, nil
}

// printPreview renders the freshly published page back as Markdown.
func printPreview(cmd *cobra.Command, uploader *publish.Uploader, ref confluence.PageRef) error {
	if !Preview {
		return nil
	}

	markdown, err := uploader.Preview(cmd.Context(), ref.ID)
	if err != nil {
		return err
	}

	fmt.Println(markdown)
	return nil
}

package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pushp314/releasenotes-backend/internal/config"
	"github.com/pushp314/releasenotes-backend/internal/syncer"
	"github.com/spf13/cobra"
)

type source struct {
	url   string
	token string
}

type runFunc func(ctx context.Context, src source, opts syncer.Options) (*syncer.Result, error)

var modifiedAfterLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

func parseModifiedAfter(value string) (*time.Time, error) {
	for _, layout := range modifiedAfterLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid --modified-after %q: use RFC 3339 or YYYY-MM-DD", value)
}

func newRootCmd(cfg *config.Config, run runFunc) *cobra.Command {
	var (
		src           source
		clean         bool
		modifiedAfter string
	)

	cmd := &cobra.Command{
		Use:   "rnasync",
		Short: "Sync releases and notes from a remote release notes API",
		Long: `Fetch releases, then notes, from the remote REST API and save them locally.

By default only records modified after the newest local record are requested.
Connection problems are reported to the administrators before the command fails.

Examples:
  rnasync --url https://notes.example.com/rna
  rnasync --clean
  rnasync --modified-after 2015-11-01`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src.url = strings.TrimSpace(src.url)
			if src.url == "" {
				return fmt.Errorf("no source url: pass --url or set RNA_SYNC_URL")
			}

			opts := syncer.Options{Clean: clean}
			if modifiedAfter != "" {
				if clean {
					return fmt.Errorf("--clean and --modified-after cannot be combined")
				}
				t, err := parseModifiedAfter(modifiedAfter)
				if err != nil {
					return err
				}
				opts.ModifiedAfter = t
			}

			res, err := run(cmd.Context(), src, opts)
			if err != nil {
				return err
			}
			cmd.Printf("Synced %d releases and %d notes", res.Releases, res.Notes)
			if res.SkippedLinks > 0 {
				cmd.Printf(" (%d links to unknown releases skipped)", res.SkippedLinks)
			}
			cmd.Println()
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&src.url, "url", cfg.SyncURL, "base URL of the remote API (RNA_SYNC_URL)")
	flags.StringVar(&src.token, "api-token", cfg.SyncAPIToken, "API token sent to the remote (RNA_SYNC_API_TOKEN)")
	flags.BoolVar(&clean, "clean", false, "replace all local releases and notes with a full fetch")
	flags.StringVar(&modifiedAfter, "modified-after", "", "only fetch records modified after this time")

	return cmd
}

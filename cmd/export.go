package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/iksnae/wxmsg/internal"
	"github.com/iksnae/wxmsg/internal/export"
	"github.com/spf13/cobra"
)

var (
	exportTalker  string
	exportFormat  string
	exportOutput  string
	exportWorkers int
	exportForce   bool
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export conversations to files",
	Long: `Export decoded messages to one file per conversation (jsonl, json, yaml, md).

All conversations are exported unless --talker names one. Messages are read
page by page; --workers decodes each page in parallel without changing the
order of the output.

A manifest.yaml in the output directory lists the files written. When it
shows the same database, unchanged since, exported in the same format and
time zone, the export is skipped unless --force is given. Conversation ids
that map to the same file name get a _2, _3 ... suffix.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("format") {
			cfg.Format = exportFormat
		}
		if cmd.Flags().Changed("output") {
			cfg.OutputDir = exportOutput
		}
		if cmd.Flags().Changed("workers") {
			cfg.Workers = exportWorkers
		}

		exporter, err := export.NewExporter(cfg.Format)
		if err != nil {
			return err
		}

		store, closeStore, err := openStorage()
		if err != nil {
			return err
		}
		defer closeStore()

		dbFile, err := internal.ResolveDatabase(cfg.Database)
		if err != nil {
			return err
		}
		zone := store.Decoder().Location().String()
		manifests := internal.NewManifestStore(cfg.OutputDir)
		if !exportForce {
			current, err := manifests.IsCurrent(dbFile, exporter.Extension(), exportTalker, zone)
			if err != nil {
				return err
			}
			if current {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), infoStyle.Render(fmt.Sprintf(
					"Exports in %s are up to date (use --force to rewrite)", cfg.OutputDir)))
				return nil
			}
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		var (
			records     []internal.MessageRecord
			transcripts []*internal.Transcript
			written     []string
		)
		pager := internal.NewPager(store, exportTalker, cfg.PageSize)
		manifest, err := internal.NewManifest(dbFile, exporter.Extension(), exportTalker, zone)
		if err != nil {
			return err
		}

		err = internal.ShowProgressWithSteps(ctx, []internal.ProgressStep{
			{
				Message: "Decoding messages",
				Fn: func() error {
					err := pager.Each(func(rows []internal.MessageRow) error {
						decoded, err := internal.DecodeRows(ctx, store.Decoder(), rows, cfg.Workers)
						if err != nil {
							return err
						}
						records = append(records, decoded...)
						internal.LogDebug("Decoded %d message(s)", pager.Offset())
						return nil
					})
					if err != nil {
						return fmt.Errorf("failed to read messages: %w", err)
					}
					transcripts = internal.GroupTranscripts(records)
					return nil
				},
			},
			{
				Message: "Writing transcripts",
				Fn: func() error {
					if len(transcripts) == 0 {
						return nil
					}
					var err error
					written, err = writeTranscripts(exporter, transcripts, cfg.OutputDir, store.Decoder(), manifest)
					return err
				},
			},
			{
				Message: "Saving manifest",
				Fn: func() error {
					if len(transcripts) == 0 {
						return nil
					}
					if err := manifests.Save(manifest); err != nil {
						return &internal.ExportError{Format: exporter.Extension(), Path: manifests.Path(), Err: err}
					}
					return nil
				},
			},
		})
		if err != nil {
			return err
		}

		if len(transcripts) == 0 {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), headerStyle.Render("📋 No messages to export"))
			return nil
		}

		_, _ = fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("✓ Exported %s message(s) in %d file(s) to %s",
			humanize.Comma(int64(len(records))), len(written), cfg.OutputDir)))
		return nil
	},
}

// writeTranscripts writes one file per transcript, recording each in
// manifest, and returns the paths written
func writeTranscripts(exporter export.Exporter, transcripts []*internal.Transcript, dir string, d *internal.Decoder, manifest *internal.ExportManifest) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, &internal.ExportError{Format: exporter.Extension(), Path: dir, Err: err}
	}

	exportedAt := internal.FormatTimestamp(time.Now().Unix(), d.Location())
	written := make([]string, 0, len(transcripts))
	taken := make(map[string]bool, len(transcripts))
	for _, t := range transcripts {
		t.ExportedAt = exportedAt
		name := uniqueFileName(exportFileName(t.ConversationID), exporter.Extension(), taken)
		path := filepath.Join(dir, name)

		f, err := os.Create(path)
		if err != nil {
			return written, &internal.ExportError{Format: exporter.Extension(), Path: path, Err: err}
		}
		if err := exporter.Export(t, f); err != nil {
			_ = f.Close()
			return written, &internal.ExportError{Format: exporter.Extension(), Path: path, Err: err}
		}
		if err := f.Close(); err != nil {
			return written, &internal.ExportError{Format: exporter.Extension(), Path: path, Err: err}
		}

		internal.LogInfo("Wrote %d message(s) to %s", len(t.Messages), path)
		manifest.Add(t, name)
		written = append(written, path)
	}
	return written, nil
}

// exportFileName maps a conversation id to a file name without separators
func exportFileName(conversationID string) string {
	if conversationID == "" {
		return "unknown"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-', r == '_', r == '.', r == '@':
			return r
		default:
			return '_'
		}
	}, conversationID)
}

// uniqueFileName returns base.ext, or base_N.ext for the smallest N >= 2
// when that name is already in taken, and marks the result taken
func uniqueFileName(base, ext string, taken map[string]bool) string {
	name := base + "." + ext
	for n := 2; taken[name]; n++ {
		name = fmt.Sprintf("%s_%d.%s", base, n, ext)
	}
	taken[name] = true
	return name
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportTalker, "talker", "", "Only export this conversation (user id or group id)")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "jsonl", "Export format (jsonl, json, yaml, md)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "./exports", "Output directory")
	exportCmd.Flags().IntVar(&exportWorkers, "workers", 1, "Goroutines decoding each page")
	exportCmd.Flags().BoolVar(&exportForce, "force", false, "Export even when the manifest shows the output is current")
}

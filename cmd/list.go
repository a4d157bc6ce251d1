package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/iksnae/wxmsg/internal"
	"github.com/spf13/cobra"
)

var (
	listTalker   string
	listOffset   int
	listPageSize int
	listJSON     bool
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List one page of decoded messages",
	Long: `List one page of decoded messages in creation order, optionally limited to
one conversation. Row numbers are positions in the whole (filtered) history,
so they stay the same whatever offset is used.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("page-size") {
			cfg.PageSize = listPageSize
		}
		if listOffset < 0 {
			return fmt.Errorf("offset must not be negative, got %d", listOffset)
		}

		store, closeStore, err := openStorage()
		if err != nil {
			return err
		}
		defer closeStore()

		records, err := store.ListMessages(listTalker, listOffset, cfg.PageSize)
		if err != nil {
			return fmt.Errorf("failed to list messages: %w", err)
		}

		out := cmd.OutOrStdout()
		if listJSON {
			return writeJSONLines(out, records)
		}

		displayRecords(out, records)
		if len(records) == cfg.PageSize {
			_, _ = fmt.Fprintln(out, idStyle.Render(fmt.Sprintf("💡 More messages: use --offset %d", listOffset+len(records))))
		}
		return nil
	},
}

func writeJSONLines(out io.Writer, records []internal.MessageRecord) error {
	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("failed to encode message %d: %w", rec.RowIndex, err)
		}
	}
	return nil
}

func displayRecords(out io.Writer, records []internal.MessageRecord) {
	if len(records) == 0 {
		_, _ = fmt.Fprintln(out, headerStyle.Render("📋 No messages found"))
		return
	}

	for _, rec := range records {
		displayRecord(out, rec)
	}
}

func displayRecord(out io.Writer, rec internal.MessageRecord) {
	talker := talkerStyle.Render(rec.Talker)
	if rec.IsSender {
		talker = selfStyle.Render(rec.Talker)
	}

	_, _ = fmt.Fprintf(out, "%s %s %s %s\n",
		idStyle.Render(fmt.Sprintf("#%d", rec.RowIndex)),
		dateStyle.Render(rec.CreateTime),
		talker,
		groupStyle.Render("["+rec.TypeName+"]"))

	if rec.Content.Text != "" {
		_, _ = fmt.Fprintln(out, contentStyle.Render(rec.Content.Text))
	}
	if src := rec.Content.SourceString(); src != "" {
		_, _ = fmt.Fprintln(out, contentStyle.Render(dateStyle.Render("source: "+src)))
	}
	_, _ = fmt.Fprintln(out)
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVar(&listTalker, "talker", "", "Only list this conversation (user id or group id)")
	listCmd.Flags().IntVar(&listOffset, "offset", 0, "Number of messages to skip")
	listCmd.Flags().IntVar(&listPageSize, "page-size", internal.DefaultPageSize, "Messages per page")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Print one JSON object per message")
}

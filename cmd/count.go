package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/iksnae/wxmsg/internal"
	"github.com/spf13/cobra"
)

var countTalker string

// countCmd represents the count command
var countCmd = &cobra.Command{
	Use:   "count",
	Short: "Count messages per conversation",
	Long: `Count stored messages for every conversation, highest first, followed by
the total. With --talker only that conversation is counted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closeStore, err := openStorage()
		if err != nil {
			return err
		}
		defer closeStore()

		counts, err := store.CountByConversation(countTalker)
		if err != nil {
			return fmt.Errorf("failed to count messages: %w", err)
		}
		total, err := store.TotalCount()
		if err != nil {
			return fmt.Errorf("failed to count messages: %w", err)
		}

		displayCounts(cmd.OutOrStdout(), counts, total)
		return nil
	},
}

func displayCounts(out io.Writer, counts []internal.ConversationCount, total int64) {
	if len(counts) == 0 {
		_, _ = fmt.Fprintln(out, headerStyle.Render("📋 No messages found"))
		return
	}

	_, _ = fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("📋 %d conversation(s)", len(counts))))
	_, _ = fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(w, titleStyle.Render("Conversation")+"\t"+titleStyle.Render("Kind")+"\t"+titleStyle.Render("Messages")+"\t")
	_, _ = fmt.Fprintln(w, strings.Repeat("─", 60))

	for _, c := range counts {
		kind := dateStyle.Render("direct")
		if strings.HasSuffix(c.ConversationID, internal.GroupSuffix) {
			kind = groupStyle.Render("group")
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t\n", c.ConversationID, kind, countStyle.Render(humanize.Comma(c.Count)))
	}
	_ = w.Flush()

	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, idStyle.Render(fmt.Sprintf("Total: %s message(s) in the store", humanize.Comma(total))))
}

func init() {
	rootCmd.AddCommand(countCmd)
	countCmd.Flags().StringVar(&countTalker, "talker", "", "Only count this conversation (user id or group id)")
}

package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/iksnae/wxmsg/internal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var showRaw bool

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <localId>",
	Short: "Show one decoded message",
	Long: `Display a single message by its localId. With --raw the undecoded row
fields are dumped as YAML next to the decoded attribute tree and markup.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		localID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid local id %q: %w", args[0], err)
		}

		store, closeStore, err := openStorage()
		if err != nil {
			return err
		}
		defer closeStore()

		row, err := store.GetRow(localID)
		if errors.Is(err, internal.ErrMessageNotFound) {
			return fmt.Errorf("no message with local id %d", localID)
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		rec := store.Decoder().BuildDetail(row)
		displayMessageHeader(out, row, rec)
		displayRecord(out, rec)

		if src, ok := rec.Content.Source.(internal.Markup); ok && len(src) > 0 {
			if err := writeYAML(out, map[string]interface{}{"source": src}); err != nil {
				return err
			}
		}

		if showRaw {
			_, _ = fmt.Fprintln(out, sectionStyle.Render("Raw row"))
			if err := writeYAML(out, rawView(row)); err != nil {
				return err
			}
		}
		return nil
	},
}

func displayMessageHeader(out io.Writer, row internal.MessageRow, rec internal.MessageRecord) {
	_, _ = fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("💬 Message %d", row.LocalID)))
	_, _ = fmt.Fprintf(out, "%s %s\n", titleStyle.Render("Conversation:"), rec.ConversationID)
	_, _ = fmt.Fprintf(out, "%s %s\n", titleStyle.Render("Server id:"), rec.ServerMsgID)
	_, _ = fmt.Fprintf(out, "%s %s (%d/%d)\n", titleStyle.Render("Type:"), rec.TypeName, row.Type, row.SubType)
	_, _ = fmt.Fprintln(out)
}

// rawView collects the undecoded row with its blobs decoded generically
func rawView(row internal.MessageRow) map[string]interface{} {
	view := map[string]interface{}{
		"local_id":        row.LocalID,
		"talker":          row.TalkerID,
		"type":            row.Type,
		"sub_type":        row.SubType,
		"is_sender":       row.IsSender,
		"sequence":        row.Sequence,
		"create_time":     row.CreateTime,
		"server_msg_id":   row.ServerMsgID,
		"display_content": row.DisplayContent,
		"content":         row.Content,
	}

	if m := internal.ParseMarkup(row.Content); len(m) > 0 {
		view["content_markup"] = m
	}
	if text, ok := internal.DecompressContent(row.CompressContent); ok {
		compressed := map[string]interface{}{"text": text}
		if m := internal.ParseMarkup(text); len(m) > 0 {
			compressed["markup"] = m
		}
		view["compress_content"] = compressed
	}
	if attrs := internal.DecodeAttributes(row.BytesExtra); attrs != nil {
		view["bytes_extra"] = attrs.Interface()
	}
	return view
}

func writeYAML(out io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return enc.Close()
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showRaw, "raw", false, "Also dump the raw row, attribute tree and markup")
}

package cmd

import (
	"fmt"
	"strings"

	"github.com/iksnae/wxmsg/internal"
	"github.com/spf13/cobra"
)

// talkersCmd represents the talkers command
var talkersCmd = &cobra.Command{
	Use:   "talkers <roomId>",
	Short: "List the senders of a group conversation",
	Long: `List the distinct sender ids of a group conversation in the order they
first spoke. Your own messages and system notices are left out.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		roomID := args[0]
		if !strings.HasSuffix(roomID, internal.GroupSuffix) {
			internal.PrintWarning(fmt.Sprintf("%s does not look like a group id (no %s suffix)", roomID, internal.GroupSuffix))
		}

		store, closeStore, err := openStorage()
		if err != nil {
			return err
		}
		defer closeStore()

		talkers, err := store.ListRoomTalkers(roomID)
		if err != nil {
			return fmt.Errorf("failed to list talkers: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(talkers) == 0 {
			_, _ = fmt.Fprintln(out, headerStyle.Render("👥 No senders found"))
			return nil
		}
		_, _ = fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("👥 %d sender(s) in %s", len(talkers), roomID)))
		for i, talker := range talkers {
			_, _ = fmt.Fprintf(out, "%s %s\n", idStyle.Render(fmt.Sprintf("%3d.", i+1)), talker)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(talkersCmd)
}

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/iksnae/wxmsg/internal"
	"github.com/spf13/cobra"
)

var healthcheckDetails bool

// healthcheckCmd represents the healthcheck command
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check that the message database can be located and read",
	Long: `Check the health of the configured message database by verifying:
  • The database can be located (file, or directory with one MSG*.db)
  • It opens read-only
  • The MSG table has every column the decoder reads
  • Messages can be counted

This command is useful for debugging a --db path or a config file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHealthcheck(cmd.OutOrStdout())
	},
}

func runHealthcheck(out io.Writer) error {
	_, _ = fmt.Fprintln(out, sectionStyle.Render("🔍 Message Database Health Check"))
	_, _ = fmt.Fprintln(out)

	_, _ = fmt.Fprintln(out, infoStyle.Render("Step 1: Locating database..."))
	path, err := internal.ResolveDatabase(cfg.Database)
	if err != nil {
		_, _ = fmt.Fprintln(out, errorStyle.Render("❌ Failed to locate database:"), err)
		return fmt.Errorf("health check failed: %w", err)
	}
	_, _ = fmt.Fprintln(out, successStyle.Render("✅ Database located"))
	if healthcheckDetails {
		_, _ = fmt.Fprintf(out, "   Path: %s\n", path)
	}
	_, _ = fmt.Fprintln(out)

	_, _ = fmt.Fprintln(out, infoStyle.Render("Step 2: Opening database..."))
	db, err := internal.OpenDatabase(path)
	if err != nil {
		_, _ = fmt.Fprintln(out, errorStyle.Render("❌ Failed to open database:"), err)
		return fmt.Errorf("health check failed: %w", err)
	}
	defer func() { _ = db.Close() }()
	_, _ = fmt.Fprintln(out, successStyle.Render("✅ Database opened read-only"))
	_, _ = fmt.Fprintln(out)

	_, _ = fmt.Fprintln(out, infoStyle.Render("Step 3: Checking MSG table..."))
	missing, err := internal.MissingColumns(db)
	if err != nil {
		_, _ = fmt.Fprintln(out, errorStyle.Render("❌ MSG table not readable:"), err)
		_, _ = fmt.Fprintln(out, "   The file may still be encrypted, or it is not a message database")
		return fmt.Errorf("health check failed: %w", err)
	}
	if len(missing) > 0 {
		_, _ = fmt.Fprintln(out, errorStyle.Render("❌ MSG table is missing columns:"), strings.Join(missing, ", "))
		return fmt.Errorf("health check failed: missing columns %s", strings.Join(missing, ", "))
	}
	_, _ = fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ All %d required columns present", len(internal.RequiredColumns))))
	_, _ = fmt.Fprintln(out)

	_, _ = fmt.Fprintln(out, infoStyle.Render("Step 4: Counting messages..."))
	store := internal.NewStorage(db, nil)
	total, err := store.TotalCount()
	if err != nil {
		_, _ = fmt.Fprintln(out, errorStyle.Render("❌ Failed to count messages:"), err)
		return fmt.Errorf("health check failed: %w", err)
	}
	counts, err := store.CountByConversation("")
	if err != nil {
		_, _ = fmt.Fprintln(out, errorStyle.Render("❌ Failed to count conversations:"), err)
		return fmt.Errorf("health check failed: %w", err)
	}
	if healthcheckDetails {
		for i, c := range counts {
			if i == 5 {
				_, _ = fmt.Fprintf(out, "   ... and %d more\n", len(counts)-5)
				break
			}
			_, _ = fmt.Fprintf(out, "   [%d] %s (%s)\n", i+1, c.ConversationID, humanize.Comma(c.Count))
		}
	}
	_, _ = fmt.Fprintln(out)

	_, _ = fmt.Fprintln(out, sectionStyle.Render("📊 Summary"))
	_, _ = fmt.Fprintln(out)
	if total == 0 {
		_, _ = fmt.Fprintln(out, warningStyle.Render("⚠️  Database readable but holds no messages"))
		return nil
	}
	_, _ = fmt.Fprintln(out, successStyle.Render("✅ Health check passed!"))
	_, _ = fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("   • Messages: %s", humanize.Comma(total))))
	_, _ = fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("   • Conversations: %d", len(counts))))
	return nil
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
	healthcheckCmd.Flags().BoolVarP(&healthcheckDetails, "details", "d", false, "Show detailed diagnostic information")
}

package cmd

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/iksnae/wxmsg/internal"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	dbPath     string
	configPath string
	timeZone   string
	version    string = "dev"
	commit     string = "unknown"
	date       string = "unknown"

	// cfg is resolved by PersistentPreRunE before any command runs
	cfg = internal.DefaultConfig()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "wxmsg",
	Short: "Decode and export messages from a decrypted WeChat MSG database",
	Long: `A CLI tool to read the MSG table of a decrypted WeChat message database
and turn every stored row into a readable, normalized record.

Compressed payloads, attribute blobs and XML message bodies are decoded per
message type: text, images, voice, video, stickers, files, chat records,
quotes, transfers, calls and more.

Features:
  • Count messages per conversation
  • Page through decoded messages
  • Inspect a single message, including its raw attribute tree
  • Export conversations (JSONL, JSON, YAML, Markdown)
  • List the senders of a group conversation

Quick Start:
  wxmsg --db MSG0.db count                  # Messages per conversation
  wxmsg --db MSG0.db list --talker wxid_x   # One page of a conversation
  wxmsg --db MSG0.db export -f md           # Export as Markdown

Settings can also come from a YAML or TOML file (--config), a .env file
in the working directory, or the WXMSG_DB, WXMSG_TZ and WXMSG_PAGE_SIZE
environment variables.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		internal.SetVerbose(verbose)
		return loadConfig(cmd)
	},
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig resolves cfg from file, dotenv, environment and the persistent flags
func loadConfig(cmd *cobra.Command) error {
	loaded, err := internal.LoadConfig(configPath, internal.DefaultEnvFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("db") {
		loaded.Database = dbPath
	}
	if cmd.Flags().Changed("tz") {
		loaded.TimeZone = timeZone
	}
	cfg = loaded
	internal.LogDebug("Config: db=%q tz=%q page_size=%d", cfg.Database, cfg.TimeZone, cfg.PageSize)
	return nil
}

// openDB resolves and opens the configured message database
func openDB() (*sql.DB, string, error) {
	path, err := internal.ResolveDatabase(cfg.Database)
	if err != nil {
		return nil, "", err
	}
	db, err := internal.OpenDatabase(path)
	if err != nil {
		return nil, "", err
	}
	internal.LogDebug("Opened %s", path)
	return db, path, nil
}

// openStorage opens the configured database and wraps it in a Storage
// decoding timestamps in the configured zone. The caller must call close.
func openStorage() (*internal.Storage, func(), error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, nil, err
	}

	db, _, err := openDB()
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() { _ = db.Close() }
	return internal.NewStorage(db, internal.NewDecoder(loc)), closeFn, nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to a decrypted MSG*.db file, or a directory holding one")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (.yaml, .yml or .toml)")
	rootCmd.PersistentFlags().StringVar(&timeZone, "tz", "", "Time zone for timestamps (IANA name, default local)")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/iksnae/wxmsg/internal"
	"github.com/iksnae/wxmsg/testutil"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// executeCommand runs rootCmd with args after resetting every flag, and
// returns what the command wrote
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	for _, key := range []string{internal.EnvDatabase, internal.EnvTimeZone, internal.EnvPageSize} {
		t.Setenv(key, "")
	}
	resetFlags(rootCmd)
	cfg = internal.DefaultConfig()

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return stdout.String(), err
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// sampleDB writes the sample message database and returns its path
func sampleDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "MSG0.db")
	testutil.CreateSQLiteFixture(t, path)
	return path
}

package cmd

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/iksnae/wxmsg/internal"
	"github.com/spf13/cobra"
)

var (
	inspectFormat     string
	inspectSampleRows int
)

// TableInfo describes one table of the inspected database
type TableInfo struct {
	Name    string                `json:"name" yaml:"name"`
	Rows    int64                 `json:"rows" yaml:"rows"`
	Columns []internal.ColumnInfo `json:"columns" yaml:"columns"`
}

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect [database-path]",
	Short: "Inspect database schema and structure",
	Long: `Inspect the schema and structure of a message database.

This command provides detailed information about:
  • Database schema (tables, columns, types)
  • Row counts
  • Sample data from each table (text mode)

Examples:
  wxmsg inspect MSG0.db                    # Inspect a specific database
  wxmsg --db Multi/MSG0.db inspect         # Inspect the configured database
  wxmsg inspect MSG0.db --format json      # JSON output`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			cfg.Database = args[0]
		}
		db, path, err := openDB()
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		tables, err := describeTables(db)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch inspectFormat {
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(tables)
		case "yaml":
			return writeYAML(out, tables)
		case "text":
			return displayTables(out, db, path, tables)
		default:
			return fmt.Errorf("unsupported format: %s (supported: text, json, yaml)", inspectFormat)
		}
	},
}

func describeTables(db *sql.DB) ([]TableInfo, error) {
	names, err := internal.ListTables(db)
	if err != nil {
		return nil, err
	}

	tables := make([]TableInfo, 0, len(names))
	for _, name := range names {
		info := TableInfo{Name: name}
		if err := db.QueryRow("SELECT COUNT(*) FROM " + quoteIdent(name)).Scan(&info.Rows); err != nil {
			return nil, fmt.Errorf("failed to count rows of %s: %w", name, err)
		}
		info.Columns, err = internal.TableColumns(db, name)
		if err != nil {
			return nil, err
		}
		tables = append(tables, info)
	}
	return tables, nil
}

func displayTables(out io.Writer, db *sql.DB, path string, tables []TableInfo) error {
	if len(tables) == 0 {
		_, _ = fmt.Fprintln(out, "⚠️  No tables found in database")
		return nil
	}

	_, _ = fmt.Fprintf(out, "📋 Database: %s\n", path)
	_, _ = fmt.Fprintf(out, "📊 Found %d table(s)\n\n", len(tables))

	for _, table := range tables {
		_, _ = fmt.Fprintf(out, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
		_, _ = fmt.Fprintf(out, "📦 Table: %s\n", table.Name)
		_, _ = fmt.Fprintf(out, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
		_, _ = fmt.Fprintf(out, "📊 Rows: %s\n\n", humanize.Comma(table.Rows))

		_, _ = fmt.Fprintf(out, "📐 Schema:\n")
		for _, col := range table.Columns {
			pk := ""
			if col.PK {
				pk = " [PRIMARY KEY]"
			}
			notNull := ""
			if col.NotNull {
				notNull = " NOT NULL"
			}
			_, _ = fmt.Fprintf(out, "  • %s: %s%s%s\n", col.Name, col.Type, notNull, pk)
		}
		_, _ = fmt.Fprintln(out)

		if table.Rows > 0 && inspectSampleRows > 0 {
			if err := showSampleData(out, db, table, inspectSampleRows); err != nil {
				_, _ = fmt.Fprintf(out, "⚠️  Error showing sample data: %v\n", err)
			}
			_, _ = fmt.Fprintln(out)
		}
	}
	return nil
}

func showSampleData(out io.Writer, db *sql.DB, table TableInfo, limit int) error {
	if len(table.Columns) == 0 {
		return nil
	}

	colNames := make([]string, len(table.Columns))
	for i, col := range table.Columns {
		colNames[i] = quoteIdent(col.Name)
	}

	rows, err := db.Query(fmt.Sprintf("SELECT %s FROM %s LIMIT ?", strings.Join(colNames, ", "), quoteIdent(table.Name)), limit)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	_, _ = fmt.Fprintf(out, "📄 Sample Data (first %d rows):\n", limit)
	rowNum := 0
	for rows.Next() {
		rowNum++
		values := make([]interface{}, len(table.Columns))
		valuePtrs := make([]interface{}, len(table.Columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			_, _ = fmt.Fprintf(out, "  ⚠️  Row %d: error scanning: %v\n", rowNum, err)
			continue
		}

		_, _ = fmt.Fprintf(out, "\n  Row %d:\n", rowNum)
		for i, col := range table.Columns {
			_, _ = fmt.Fprintf(out, "    %s: %s\n", col.Name, sampleValue(values[i]))
		}
	}

	return rows.Err()
}

// sampleValue renders a scanned value on one line
func sampleValue(val interface{}) string {
	var s string
	switch v := val.(type) {
	case nil:
		return "<NULL>"
	case []byte:
		if !utf8.Valid(v) {
			return fmt.Sprintf("[binary: %s]", humanize.Bytes(uint64(len(v))))
		}
		s = string(v)
	default:
		s = fmt.Sprintf("%v", v)
	}

	if len(s) > 200 {
		s = s[:200] + "..."
	}
	if strings.Contains(s, "\n") {
		s = strings.Split(s, "\n")[0] + "..."
	}
	return s
}

// quoteIdent quotes a SQLite identifier
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVar(&inspectFormat, "format", "text", "Output format (text, json, yaml)")
	inspectCmd.Flags().IntVar(&inspectSampleRows, "sample", 3, "Number of sample rows to show")
}

package internal

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// Querier is the query interface the storage layer runs on. *sql.DB satisfies it.
type Querier interface {
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// OpenDatabase opens a SQLite database in read-only mode
func OpenDatabase(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, &StorageError{Path: path, Op: "open", Err: err}
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &StorageError{Path: path, Op: "ping", Err: err}
	}

	return db, nil
}

// ColumnInfo describes one column of a table
type ColumnInfo struct {
	Name    string `json:"name" yaml:"name"`
	Type    string `json:"type" yaml:"type"`
	NotNull bool   `json:"not_null" yaml:"not_null"`
	PK      bool   `json:"pk" yaml:"pk"`
}

// ListTables returns the user tables of the database in name order
func ListTables(db Querier) ([]string, error) {
	rows, err := db.Query("SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		return nil, &QueryError{Op: "schema", Err: err}
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, &QueryError{Op: "schema", Err: fmt.Errorf("scan failed: %w", err)}
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, &QueryError{Op: "schema", Err: fmt.Errorf("rows iteration error: %w", err)}
	}
	return tables, nil
}

// TableColumns returns the columns of table. The name is checked against
// sqlite_master first because PRAGMA arguments cannot be bound.
func TableColumns(db Querier, table string) ([]ColumnInfo, error) {
	var exists int
	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name = ?", table).Scan(&exists); err != nil {
		return nil, &QueryError{Op: "schema", Err: err}
	}
	if exists == 0 {
		return nil, &QueryError{Op: "schema", Err: fmt.Errorf("table %q not found", table)}
	}

	rows, err := db.Query("SELECT name, type, \"notnull\", pk FROM pragma_table_info(?)", table)
	if err != nil {
		return nil, &QueryError{Op: "schema", Err: err}
	}
	defer rows.Close()

	var columns []ColumnInfo
	for rows.Next() {
		var col ColumnInfo
		var notNull, pk int
		if err := rows.Scan(&col.Name, &col.Type, &notNull, &pk); err != nil {
			return nil, &QueryError{Op: "schema", Err: fmt.Errorf("scan failed: %w", err)}
		}
		col.NotNull = notNull != 0
		col.PK = pk != 0
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, &QueryError{Op: "schema", Err: fmt.Errorf("rows iteration error: %w", err)}
	}
	return columns, nil
}

// RequiredColumns are the MSG columns the storage layer selects
var RequiredColumns = []string{
	"localId", "IsSender", "StrContent", "StrTalker", "Sequence", "Type", "SubType",
	"CreateTime", "MsgSvrID", "DisplayContent", "CompressContent", "BytesExtra",
}

// MissingColumns returns the RequiredColumns absent from the MSG table.
// Column names compare case-insensitively, as SQLite does.
func MissingColumns(db Querier) ([]string, error) {
	columns, err := TableColumns(db, "MSG")
	if err != nil {
		return nil, err
	}

	present := make(map[string]bool, len(columns))
	for _, col := range columns {
		present[strings.ToLower(col.Name)] = true
	}

	var missing []string
	for _, name := range RequiredColumns {
		if !present[strings.ToLower(name)] {
			missing = append(missing, name)
		}
	}
	return missing, nil
}

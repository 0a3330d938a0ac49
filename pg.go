package sortdata

import (
	"bytes"
	"database/sql"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"text/template"

	"github.com/lib/pq"
	uuid "github.com/satori/go.uuid"
)

var (
	badChars *regexp.Regexp
	sepChars *regexp.Regexp

	sqlTmpl = template.New("sql")

	queryTmpls = map[string]string{
		"createSchema": `create schema if not exists "{{.Schema}}"`,
		"createTable":  `create table if not exists "{{.Schema}}"."{{.Table}}" ( {{.Columns}} )`,
		"dropTable":    `drop table if exists "{{.Schema}}"."{{.Table}}"`,
		"renameTable":  `alter table "{{.Schema}}"."{{.TempTable}}" rename to "{{.Table}}"`,
		"analyzeTable": `analyze "{{.Schema}}"."{{.Table}}"`,
	}
)

func init() {
	// Initialize SQL statement templates.
	for name, tmpl := range queryTmpls {
		template.Must(sqlTmpl.New(name).Parse(tmpl))
	}

	badChars = regexp.MustCompile(`[^a-z0-9_\-\.\+]+`)
	sepChars = regexp.MustCompile(`[_\-\.\+]+`)
}

type tableData struct {
	Schema    string
	TempTable string
	Table     string
	Columns   string
}

func cleanFieldName(n string) string {
	n = strings.ToLower(n)
	n = badChars.ReplaceAllString(n, "_")
	return sepChars.ReplaceAllString(n, "_")
}

// tableColumns renders the column definitions for the combined rows.
// Every column is text: the pipeline does not infer value types, it
// only unifies field names. Column order follows the unified header.
func tableColumns(fields []string) string {
	columns := make([]string, len(fields))

	for i, f := range fields {
		columns[i] = fmt.Sprintf("%s text", pq.QuoteIdentifier(cleanFieldName(f)))
	}

	return strings.Join(columns, ",")
}

// pgClient loads the combined TSV into a Postgres table with COPY.
type pgClient struct {
	db *sql.DB
}

func newPgClient(db *sql.DB) *pgClient {
	return &pgClient{db: db}
}

// execTx calls a function within a transaction.
func (c *pgClient) execTx(fn func(tx *sql.Tx) error) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

// Replace loads the rows into a fresh table: data is copied into a
// temporary table which is renamed over the target, so readers never
// observe a half-loaded table.
func (c *pgClient) Replace(schemaName, tableName string, fields []string, data io.Reader) (int64, error) {
	tempTableName := uuid.NewV4().String()

	if err := c.createSchema(schemaName); err != nil {
		return 0, err
	}

	if err := c.createTable(schemaName, tempTableName, fields); err != nil {
		return 0, err
	}

	n, err := c.copyData(schemaName, tempTableName, fields, data)
	if err != nil {
		return 0, err
	}

	if err := c.renameTable(schemaName, tempTableName, tableName); err != nil {
		return n, err
	}

	return n, c.analyzeTable(schemaName, tableName)
}

// Append loads the rows into the target table, creating it if needed.
func (c *pgClient) Append(schemaName, tableName string, fields []string, data io.Reader) (int64, error) {
	if err := c.createSchema(schemaName); err != nil {
		return 0, err
	}

	if err := c.createTable(schemaName, tableName, fields); err != nil {
		return 0, err
	}

	n, err := c.copyData(schemaName, tableName, fields, data)
	if err != nil {
		return 0, err
	}

	return n, c.analyzeTable(schemaName, tableName)
}

func (c *pgClient) createSchema(schemaName string) error {
	data := &tableData{
		Schema: schemaName,
	}

	var b bytes.Buffer
	if err := sqlTmpl.ExecuteTemplate(&b, "createSchema", data); err != nil {
		return err
	}

	return c.execTx(func(tx *sql.Tx) error {
		sql := b.String()
		if _, err := tx.Exec(sql); err != nil {
			return fmt.Errorf("error creating schema: %s\n%s", err, sql)
		}

		return nil
	})
}

func (c *pgClient) createTable(schemaName, tableName string, fields []string) error {
	data := &tableData{
		Schema:  schemaName,
		Table:   tableName,
		Columns: tableColumns(fields),
	}

	var b bytes.Buffer
	if err := sqlTmpl.ExecuteTemplate(&b, "createTable", data); err != nil {
		return err
	}

	return c.execTx(func(tx *sql.Tx) error {
		sql := b.String()
		if _, err := tx.Exec(sql); err != nil {
			return fmt.Errorf("error creating table: %s\n%s", err, sql)
		}

		return nil
	})
}

func (c *pgClient) renameTable(schemaName, tempTableName, tableName string) error {
	data := &tableData{
		Schema:    schemaName,
		TempTable: tempTableName,
		Table:     tableName,
	}

	tmpls := []string{
		"dropTable",
		"renameTable",
	}

	var b bytes.Buffer

	return c.execTx(func(tx *sql.Tx) error {
		for _, name := range tmpls {
			b.Reset()
			if err := sqlTmpl.ExecuteTemplate(&b, name, data); err != nil {
				return err
			}

			if _, err := tx.Exec(b.String()); err != nil {
				return fmt.Errorf("error renaming table: %s", err)
			}
		}

		return nil
	})
}

func (c *pgClient) analyzeTable(schemaName, tableName string) error {
	return c.execTx(func(tx *sql.Tx) error {
		data := &tableData{
			Schema: schemaName,
			Table:  tableName,
		}

		var b bytes.Buffer
		if err := sqlTmpl.ExecuteTemplate(&b, "analyzeTable", data); err != nil {
			return err
		}

		sql := b.String()
		if _, err := tx.Exec(sql); err != nil {
			return fmt.Errorf("error analyzing table: %s\n%s", err, sql)
		}

		return nil
	})
}

// copyArgs fills the COPY arguments for one row, loading empty fields
// as null.
func copyArgs(args []interface{}, row []string) {
	for i, v := range row {
		if v == "" {
			args[i] = nil
		} else {
			args[i] = v
		}
	}
}

// copyData streams the combined TSV into the table. The header line is
// skipped; empty fields load as null.
func (c *pgClient) copyData(schemaName, tableName string, fields []string, in io.Reader) (int64, error) {
	rows := newTSVRows(in)

	// Skip the header written by the combining pass.
	if _, err := rows.Read(); err != nil {
		return 0, err
	}

	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = cleanFieldName(f)
	}

	var n int64

	err := c.execTx(func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(pq.CopyInSchema(schemaName, tableName, columns...))
		if err != nil {
			return fmt.Errorf("error preparing copy: %s", err)
		}

		cargs := make([]interface{}, len(columns))

		for {
			row, err := rows.Read()
			if err == io.EOF {
				break
			}

			if err != nil {
				return fmt.Errorf("error reading record: %s", err)
			}

			if len(row) != len(columns) {
				return fmt.Errorf("row has %d fields, expected %d", len(row), len(columns))
			}

			copyArgs(cargs, row)

			if _, err := stmt.Exec(cargs...); err != nil {
				return fmt.Errorf("error sending row: %s", err)
			}

			n++
		}

		// Empty exec to flush the buffer.
		if _, err := stmt.Exec(); err != nil {
			return fmt.Errorf("error executing copy: %s", err)
		}

		return nil
	})

	if err != nil {
		return 0, err
	}

	return n, nil
}

// loadDatabase opens the target database and loads the combined file
// into the requested table.
func loadDatabase(r *Request, outName, outPath string, fields []string) (int64, error) {
	schemaName := r.Schema
	if schemaName == "" {
		schemaName = "public"
	}

	tableName := r.Table
	if tableName == "" {
		tableName = outName
	}

	db, err := sql.Open("postgres", r.Database)
	if err != nil {
		return 0, fmt.Errorf("cannot open db connection: %s", err)
	}
	defer db.Close()

	f, err := os.Open(outPath)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	c := newPgClient(db)
	if r.AppendTable {
		return c.Append(schemaName, tableName, fields, f)
	}

	return c.Replace(schemaName, tableName, fields, f)
}

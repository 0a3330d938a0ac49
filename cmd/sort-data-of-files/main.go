// Command sort-data-of-files combines the CSV, JSON, XML and Parquet
// files of a directory into one tab-separated file under the
// directory's result/ folder, optionally loading the result into a
// Postgres table.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	sortdata "github.com/Jony-softdeveloper/Sorting-data-of-files"
)

var (
	configPath string
	outName    string
	dbURL      string
	dbSchema   string
	dbTable    string
	appendTbl  bool
	logLevel   string
	quiet      bool
)

func main() {
	cmd := &cobra.Command{
		Use:           "sort-data-of-files <directory>",
		Short:         "Combine CSV, JSON, XML and Parquet files into one TSV file",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	flags := cmd.Flags()
	flags.StringVarP(&configPath, "config", "c", "", "YAML config file with run defaults.")
	flags.StringVarP(&outName, "out", "o", "", "Base name of the output file (default \"result\").")
	flags.StringVar(&dbURL, "db", "", "Postgres URL to load the combined rows into.")
	flags.StringVar(&dbSchema, "db.schema", "", "Target schema name (default \"public\").")
	flags.StringVar(&dbTable, "db.table", "", "Target table name (defaults to the output name).")
	flags.BoolVar(&appendTbl, "append", false, "Append to the target table instead of replacing it.")
	flags.StringVar(&logLevel, "log", "info", "Log level: debug, info, warn, error.")
	flags.BoolVarP(&quiet, "quiet", "q", false, "Suppress the per-file summary table.")

	if err := cmd.Execute(); err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLevel(logLevel),
	})))

	req := &sortdata.Request{}

	if configPath != "" {
		loaded, err := sortdata.LoadConfig(configPath)
		if err != nil {
			return err
		}
		req = loaded
	}

	// Flags overlay the config file.
	req.Dir = args[0]
	if outName != "" {
		req.OutName = outName
	}
	if dbURL != "" {
		req.Database = dbURL
	}
	if dbSchema != "" {
		req.Schema = dbSchema
	}
	if dbTable != "" {
		req.Table = dbTable
	}
	if cmd.Flags().Changed("append") {
		req.AppendTable = appendTbl
	}

	// Path existence is the CLI's responsibility; the core assumes a
	// readable directory.
	stat, err := os.Stat(req.Dir)
	if err != nil {
		return err
	}
	if !stat.IsDir() {
		return fmt.Errorf("%s is not a directory", req.Dir)
	}

	out, err := sortdata.Run(req)
	if err != nil {
		slog.Error("combining failed",
			"kind", sortdata.KindOf(err).String(),
			"error", err,
		)
		os.Exit(1)
	}

	slog.Info("combined",
		"rows", out.RowsWritten,
		"skipped_rows", out.RowsSkipped,
		"fields", len(out.Fields),
		"output", out.OutputPath,
	)

	for _, name := range out.SkippedFiles {
		slog.Debug("ignored unsupported file", "file", name)
	}

	if req.Database != "" {
		slog.Info("loaded into database", "rows", out.RowsLoaded)
	}

	if !quiet {
		printSummary(out)
	}

	return nil
}

func printSummary(out *sortdata.Outcome) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"File", "Records", "Skipped Rows"})

	for _, f := range out.Files {
		table.Append([]string{
			f.Name,
			strconv.FormatInt(f.Records, 10),
			strconv.Itoa(f.Skipped),
		})
	}

	table.SetFooter([]string{"total", strconv.FormatInt(out.RowsWritten, 10), strconv.FormatInt(out.RowsSkipped, 10)})
	table.Render()
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	return slog.LevelInfo
}

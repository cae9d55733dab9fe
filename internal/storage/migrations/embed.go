// Package migrations embeds and applies the storefront schema: the
// PostgreSQL tables for users, strategies and backtest reports, and the
// ClickHouse table for per-trade backtest analytics.
package migrations

import (
	"embed"
	"log"
	"os"
	"sort"
	"strings"
)

// PostgresFS holds the users/strategies/backtest_reports schema files.
//
//go:embed postgres/*.sql
var PostgresFS embed.FS

// ClickhouseFS holds the backtest_trades analytics schema files.
//
//go:embed clickhouse/*.sql
var ClickhouseFS embed.FS

var logger = log.New(os.Stdout, "[migrations] ", log.LstdFlags)

// sqlFiles returns the .sql entries of dir in lexical order, so numeric
// prefixes like 001_init.sql decide apply order.
func sqlFiles(fsys embed.FS, dir string) ([]string, error) {
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

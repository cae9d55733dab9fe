package migrations

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	chstore "strategy-studio/internal/storage/clickhouse"
)

// RunClickhouseMigrations prepares the analytics side of the storefront:
// it creates the target database if needed, applies the backtest_trades
// schema, and returns a connection bound to that database for the trade
// store to reuse.
func RunClickhouseMigrations(ctx context.Context, dsn string) (*chstore.Conn, error) {
	dbName, err := databaseFromDSN(dsn)
	if err != nil {
		return nil, err
	}

	adminConn, err := chstore.NewConnWithDatabase(ctx, dsn, "")
	if err != nil {
		return nil, fmt.Errorf("connect clickhouse admin: %w", err)
	}
	if err := adminConn.Exec(ctx, fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", dbName)); err != nil {
		adminConn.Close()
		return nil, fmt.Errorf("create database %s: %w", dbName, err)
	}
	if err := adminConn.Close(); err != nil {
		return nil, fmt.Errorf("close admin connection: %w", err)
	}

	conn, err := chstore.NewConnWithDatabase(ctx, dsn, dbName)
	if err != nil {
		return nil, fmt.Errorf("connect clickhouse db: %w", err)
	}

	files, err := sqlFiles(ClickhouseFS, "clickhouse")
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("read embedded clickhouse migrations: %w", err)
	}

	for _, file := range files {
		if err := applyClickhouseFile(ctx, conn, file); err != nil {
			conn.Close()
			return nil, err
		}
		logger.Printf("applied clickhouse migration %s to %s", file, dbName)
	}

	return conn, nil
}

// applyClickhouseFile runs one embedded schema file statement by statement.
// The driver's Exec takes a single statement, so files are split on
// semicolons after the splitter-safety check.
func applyClickhouseFile(ctx context.Context, conn *chstore.Conn, file string) error {
	data, err := ClickhouseFS.ReadFile("clickhouse/" + file)
	if err != nil {
		return fmt.Errorf("read migration %s: %w", file, err)
	}
	if err := checkSplitterSafe(string(data)); err != nil {
		return fmt.Errorf("validate migration %s: %w", file, err)
	}
	for _, stmt := range splitStatements(string(data)) {
		if err := conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migration %s: %w", file, err)
		}
	}
	return nil
}

// splitStatements breaks a schema file into statements on semicolons,
// dropping blank lines and -- comments first.
//
// The split is deliberately naive. Files under clickhouse/ must not put
// semicolons inside string literals or block comments, and must use --
// comments only. checkSplitterSafe rejects the literal case up front.
func splitStatements(input string) []string {
	var filtered []string
	for _, line := range strings.Split(input, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		filtered = append(filtered, line)
	}
	joined := strings.Join(filtered, "\n")

	var stmts []string
	for _, part := range strings.Split(joined, ";") {
		if stmt := strings.TrimSpace(part); stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

// checkSplitterSafe rejects SQL carrying a semicolon inside a
// single-quoted string, which splitStatements would cut in half.
// Doubled quotes ('') count as an escape, not a string boundary.
func checkSplitterSafe(sql string) error {
	inString := false
	for i := 0; i < len(sql); i++ {
		switch {
		case sql[i] == '\'':
			if i+1 < len(sql) && sql[i+1] == '\'' {
				i++
				continue
			}
			inString = !inString
		case sql[i] == ';' && inString:
			return fmt.Errorf("semicolon inside string literal breaks the statement splitter")
		}
	}
	return nil
}

func databaseFromDSN(dsn string) (string, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("parse clickhouse dsn: %w", err)
	}
	db := strings.TrimPrefix(u.Path, "/")
	if db == "" {
		return "", fmt.Errorf("clickhouse dsn missing database")
	}
	return db, nil
}

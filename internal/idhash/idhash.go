// Package idhash computes deterministic identifiers using SHA256.
// Deterministic ids make the mocked backtest reproducible and keep store
// inserts idempotent across retries.
package idhash

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ComputeStrategyID computes a deterministic strategy id.
// Formula: SHA256(owner|name|created_at_ms)
// Returns hex-encoded hash (64 characters).
func ComputeStrategyID(ownerID, name string, createdAtMs int64) string {
	return sum(fmt.Sprintf("%s|%s|%d", ownerID, name, createdAtMs))
}

// ComputeBacktestID computes a deterministic report id for a backtest run.
// Formula: SHA256(strategy_id|symbol|timeframe|start_ms|end_ms)
func ComputeBacktestID(strategyID, symbol, timeframe string, startMs, endMs int64) string {
	return sum(fmt.Sprintf("%s|%s|%s|%d|%d", strategyID, symbol, timeframe, startMs, endMs))
}

// ComputeTradeID computes a deterministic trade id within a report.
// Formula: SHA256(report_id|index)
func ComputeTradeID(reportID string, index int) string {
	return sum(fmt.Sprintf("%s|%d", reportID, index))
}

// ComputeAssetID computes a deterministic asset id from its location and
// content hash. Formula: SHA256(folder|filename|content_sha)
func ComputeAssetID(folder, filename string, content []byte) string {
	contentSum := sha256.Sum256(content)
	return sum(fmt.Sprintf("%s|%s|%s", folder, filename, hex.EncodeToString(contentSum[:])))
}

// NewRandomID returns a 32-character random hex id for entities created in
// the editor (conditions, groups, rules, sessions). Never reused.
func NewRandomID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		// crypto/rand failure is unrecoverable
		panic(fmt.Sprintf("idhash: read random: %v", err))
	}
	return hex.EncodeToString(b[:])
}

func sum(data string) string {
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}

package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"strategy-studio/internal/domain"
	"strategy-studio/internal/storage"
)

// StrategyStore implements storage.StrategyStore using PostgreSQL. The four
// rule sets and the risk config are stored as JSONB columns; identity and
// listing fields stay relational so they can be indexed and queried.
type StrategyStore struct {
	pool *Pool
}

// NewStrategyStore creates a new StrategyStore.
func NewStrategyStore(pool *Pool) *StrategyStore {
	return &StrategyStore{pool: pool}
}

// Compile-time interface check.
var _ storage.StrategyStore = (*StrategyStore)(nil)

const strategyColumns = `
	strategy_id, owner_id, name, description,
	entry_long, entry_short, exit_long, exit_short, risk_management,
	is_public, status, version, created_at, updated_at
`

// Insert adds a new strategy. Returns ErrDuplicateKey if the id exists.
func (s *StrategyStore) Insert(ctx context.Context, rec *domain.StrategyRecord) error {
	if rec == nil || rec.ID == "" {
		return storage.ErrInvalidInput
	}

	cols, err := marshalRuleColumns(rec)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO strategies (
			strategy_id, owner_id, name, description,
			entry_long, entry_short, exit_long, exit_short, risk_management,
			is_public, status, version, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $13)
		RETURNING status, version, created_at, updated_at
	`

	status := rec.Status
	if status == "" {
		status = domain.StatusDraft
	}
	version := rec.Version
	if version == 0 {
		version = 1
	}
	if rec.CreatedAt == 0 {
		rec.CreatedAt = time.Now().UnixMilli()
	}

	row := s.pool.QueryRow(ctx, query,
		rec.ID,
		rec.OwnerID,
		rec.Name,
		rec.Description,
		cols.entryLong,
		cols.entryShort,
		cols.exitLong,
		cols.exitShort,
		cols.risk,
		rec.IsPublic,
		string(status),
		version,
		rec.CreatedAt,
	)

	var statusStr string
	if err := row.Scan(&statusStr, &rec.Version, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert strategy: %w", err)
	}
	rec.Status = domain.StrategyStatus(statusStr)
	return nil
}

// GetByID retrieves a strategy by its id. Returns ErrNotFound if not exists.
func (s *StrategyStore) GetByID(ctx context.Context, strategyID string) (*domain.StrategyRecord, error) {
	query := `SELECT ` + strategyColumns + ` FROM strategies WHERE strategy_id = $1`

	row := s.pool.QueryRow(ctx, query, strategyID)
	rec, err := scanStrategy(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get strategy by id: %w", err)
	}
	return rec, nil
}

// List retrieves all strategies owned by a user, ordered by created_at ASC.
func (s *StrategyStore) List(ctx context.Context, ownerID string) ([]*domain.StrategyRecord, error) {
	query := `
		SELECT ` + strategyColumns + `
		FROM strategies
		WHERE owner_id = $1
		ORDER BY created_at ASC, strategy_id ASC
	`

	rows, err := s.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list strategies: %w", err)
	}
	defer rows.Close()

	return scanStrategies(rows)
}

// ListPublic retrieves all public strategies, ordered by updated_at DESC.
func (s *StrategyStore) ListPublic(ctx context.Context) ([]*domain.StrategyRecord, error) {
	query := `
		SELECT ` + strategyColumns + `
		FROM strategies
		WHERE is_public = TRUE
		ORDER BY updated_at DESC, strategy_id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list public strategies: %w", err)
	}
	defer rows.Close()

	return scanStrategies(rows)
}

// Update replaces a stored strategy, bumps its version, and refreshes
// updated_at. Returns ErrNotFound if the id does not exist.
func (s *StrategyStore) Update(ctx context.Context, rec *domain.StrategyRecord) error {
	if rec == nil || rec.ID == "" {
		return storage.ErrInvalidInput
	}

	cols, err := marshalRuleColumns(rec)
	if err != nil {
		return err
	}

	query := `
		UPDATE strategies SET
			name = $2,
			description = $3,
			entry_long = $4,
			entry_short = $5,
			exit_long = $6,
			exit_short = $7,
			risk_management = $8,
			is_public = $9,
			status = $10,
			version = version + 1,
			updated_at = $11
		WHERE strategy_id = $1
		RETURNING owner_id, version, created_at, updated_at
	`

	status := rec.Status
	if status == "" {
		status = domain.StatusDraft
	}

	row := s.pool.QueryRow(ctx, query,
		rec.ID,
		rec.Name,
		rec.Description,
		cols.entryLong,
		cols.entryShort,
		cols.exitLong,
		cols.exitShort,
		cols.risk,
		rec.IsPublic,
		string(status),
		time.Now().UnixMilli(),
	)

	if err := row.Scan(&rec.OwnerID, &rec.Version, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		if isNotFoundError(err) {
			return storage.ErrNotFound
		}
		return fmt.Errorf("update strategy: %w", err)
	}
	return nil
}

// Delete removes a strategy. Returns ErrNotFound if the id does not exist.
func (s *StrategyStore) Delete(ctx context.Context, strategyID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM strategies WHERE strategy_id = $1`, strategyID)
	if err != nil {
		return fmt.Errorf("delete strategy: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ruleColumns carries the marshalled JSONB payloads for one record.
type ruleColumns struct {
	entryLong  []byte
	entryShort []byte
	exitLong   []byte
	exitShort  []byte
	risk       []byte
}

func marshalRuleColumns(rec *domain.StrategyRecord) (*ruleColumns, error) {
	var cols ruleColumns
	var err error

	if cols.entryLong, err = json.Marshal(rec.EntryLong); err != nil {
		return nil, fmt.Errorf("marshal entry_long: %w", err)
	}
	if cols.entryShort, err = json.Marshal(rec.EntryShort); err != nil {
		return nil, fmt.Errorf("marshal entry_short: %w", err)
	}
	if cols.exitLong, err = json.Marshal(rec.ExitLong); err != nil {
		return nil, fmt.Errorf("marshal exit_long: %w", err)
	}
	if cols.exitShort, err = json.Marshal(rec.ExitShort); err != nil {
		return nil, fmt.Errorf("marshal exit_short: %w", err)
	}
	if rec.RiskManagement != nil {
		if cols.risk, err = json.Marshal(rec.RiskManagement); err != nil {
			return nil, fmt.Errorf("marshal risk_management: %w", err)
		}
	}
	return &cols, nil
}

// scanStrategy scans a single row into a StrategyRecord.
func scanStrategy(row pgx.Row) (*domain.StrategyRecord, error) {
	var rec domain.StrategyRecord
	var statusStr string
	var entryLong, entryShort, exitLong, exitShort, risk []byte

	err := row.Scan(
		&rec.ID,
		&rec.OwnerID,
		&rec.Name,
		&rec.Description,
		&entryLong,
		&entryShort,
		&exitLong,
		&exitShort,
		&risk,
		&rec.IsPublic,
		&statusStr,
		&rec.Version,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	rec.Status = domain.StrategyStatus(statusStr)
	if err := unmarshalRuleColumns(&rec, entryLong, entryShort, exitLong, exitShort, risk); err != nil {
		return nil, err
	}
	return &rec, nil
}

// scanStrategies scans multiple rows into a slice of StrategyRecord.
func scanStrategies(rows pgx.Rows) ([]*domain.StrategyRecord, error) {
	var records []*domain.StrategyRecord

	for rows.Next() {
		rec, err := scanStrategy(rows)
		if err != nil {
			return nil, fmt.Errorf("scan strategy row: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate strategy rows: %w", err)
	}

	return records, nil
}

func unmarshalRuleColumns(rec *domain.StrategyRecord, entryLong, entryShort, exitLong, exitShort, risk []byte) error {
	if err := json.Unmarshal(entryLong, &rec.EntryLong); err != nil {
		return fmt.Errorf("unmarshal entry_long: %w", err)
	}
	if err := json.Unmarshal(entryShort, &rec.EntryShort); err != nil {
		return fmt.Errorf("unmarshal entry_short: %w", err)
	}
	if err := json.Unmarshal(exitLong, &rec.ExitLong); err != nil {
		return fmt.Errorf("unmarshal exit_long: %w", err)
	}
	if err := json.Unmarshal(exitShort, &rec.ExitShort); err != nil {
		return fmt.Errorf("unmarshal exit_short: %w", err)
	}
	if len(risk) > 0 {
		rec.RiskManagement = &domain.RiskManagementConfig{}
		if err := json.Unmarshal(risk, rec.RiskManagement); err != nil {
			return fmt.Errorf("unmarshal risk_management: %w", err)
		}
	}
	return nil
}

package sqliteengine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3" // dialect import

	"github.com/openshelf/circulation-go/statestore"
)

const (
	defaultStateTableName = "library_state"

	colStateType = "state_type"
	colVersion   = "version"
	colPayload   = "payload"
	colMetadata  = "metadata"
	colUpdatedAt = "updated_at"

	cteContext      = "context"
	aliasMaxVersion = "max_version"
	dialectSQLite   = "sqlite3"

	logMsgSQLExecuted         = "executed sql for: "
	logMsgOperation           = "statestore operation: "
	logMsgStateLoaded         = "state loaded"
	logMsgStateSaved          = "state saved"
	logMsgConcurrencyConflict = "concurrency conflict detected"
	logMsgScanRowFailed       = "failed to scan database row"

	logAttrError           = "error"
	logAttrQuery           = "query"
	logAttrStateType       = "state_type"
	logAttrVersion         = "version"
	logAttrExpectedVersion = "expected_version"
	logAttrDurationMS      = "duration_ms"

	logActionLoad = "load"
	logActionSave = "save"

	schemaTemplate = `CREATE TABLE IF NOT EXISTS %s (
	state_type TEXT    NOT NULL,
	version    INTEGER NOT NULL,
	payload    TEXT    NOT NULL,
	metadata   TEXT    NOT NULL,
	updated_at TEXT    NOT NULL,
	PRIMARY KEY (state_type, version)
)`
)

// StateStore is a state journal on top of an embedded SQLite database.
type StateStore struct {
	db             *sql.DB
	stateTableName string
	logger         statestore.Logger
}

// Option defines a functional option for configuring StateStore.
type Option func(*StateStore) error

// WithTableName sets the table name for the StateStore.
func WithTableName(tableName string) Option {
	return func(es *StateStore) error {
		if tableName == "" {
			return statestore.ErrEmptyStateTableNameSupplied
		}

		es.stateTableName = tableName

		return nil
	}
}

// WithLogger sets the logger for the StateStore. SQL queries with timing are
// logged at debug level, operational results at info level.
func WithLogger(logger statestore.Logger) Option {
	return func(es *StateStore) error {
		es.logger = logger
		return nil
	}
}

// NewStateStore creates a new StateStore using a sql.DB with optional configuration.
func NewStateStore(db *sql.DB, options ...Option) (StateStore, error) {
	if db == nil {
		return StateStore{}, statestore.ErrNilDatabaseConnection
	}

	es := StateStore{
		db:             db,
		stateTableName: defaultStateTableName,
	}

	for _, option := range options {
		if err := option(&es); err != nil {
			return StateStore{}, err
		}
	}

	return es, nil
}

// EnsureSchema creates the journal table when it does not exist yet.
func (es StateStore) EnsureSchema(ctx context.Context) error {
	if _, err := es.db.ExecContext(ctx, fmt.Sprintf(schemaTemplate, es.stateTableName)); err != nil {
		return errors.Join(statestore.ErrBuildingQueryFailed, err)
	}

	return nil
}

// Load retrieves the newest version of the state document with the given
// state type, together with its version number. A state type that was never
// saved yields a zero statestore.StorableState and version 0, without an error.
func (es StateStore) Load(ctx context.Context, stateType string) (
	statestore.StorableState,
	statestore.VersionUint,
	error,
) {

	var empty statestore.StorableState

	if stateType == "" {
		return empty, 0, statestore.ErrEmptyStateTypeSupplied
	}

	sqlQuery, buildQueryErr := es.buildLoadQuery(stateType)
	if buildQueryErr != nil {
		return empty, 0, buildQueryErr
	}

	start := time.Now()
	row := es.db.QueryRowContext(ctx, sqlQuery)
	var (
		payload   []byte
		metadata  []byte
		updatedAt string
		version   int64
	)
	scanErr := row.Scan(&payload, &metadata, &updatedAt, &version)
	duration := time.Since(start)
	es.logQueryWithDuration(sqlQuery, logActionLoad, duration)

	if errors.Is(scanErr, sql.ErrNoRows) {
		return empty, 0, nil // nothing stored yet for this state type
	}

	if scanErr != nil {
		es.logError(logMsgScanRowFailed, scanErr)

		return empty, 0, errors.Join(statestore.ErrLoadingStateFailed, scanErr)
	}

	updatedAtTime, parseErr := time.Parse(time.RFC3339Nano, updatedAt)
	if parseErr != nil {
		es.logError(logMsgScanRowFailed, parseErr)

		return empty, 0, errors.Join(statestore.ErrScanningDBRowFailed, parseErr)
	}

	storableState, buildErr := statestore.BuildStorableState(stateType, updatedAtTime, payload, metadata)
	if buildErr != nil {
		return empty, 0, errors.Join(statestore.ErrBuildingStorableStateFailed, buildErr)
	}

	es.logOperation(logMsgStateLoaded,
		logAttrStateType, stateType,
		logAttrVersion, version,
		logAttrDurationMS, toMilliseconds(duration))

	return storableState, statestore.VersionUint(version), nil
}

// Save appends the next version of the state document, guarded by the
// expected version. When a competing writer got there first, the guarded
// insert affects zero rows and statestore.ErrConcurrencyConflict is returned.
func (es StateStore) Save(
	ctx context.Context,
	expectedVersion statestore.VersionUint,
	storableState statestore.StorableState,
) error {

	if storableState.StateType == "" {
		return statestore.ErrEmptyStateTypeSupplied
	}

	sqlQuery, buildQueryErr := es.buildSaveQuery(expectedVersion, storableState)
	if buildQueryErr != nil {
		return buildQueryErr
	}

	start := time.Now()
	result, execErr := es.db.ExecContext(ctx, sqlQuery)
	duration := time.Since(start)
	es.logQueryWithDuration(sqlQuery, logActionSave, duration)

	if execErr != nil {
		es.logError("database execution failed during state save", execErr, logAttrQuery, sqlQuery)

		return errors.Join(statestore.ErrSavingStateFailed, execErr)
	}

	rowsAffected, rowsAffectedErr := result.RowsAffected()
	if rowsAffectedErr != nil {
		es.logError("failed to get rows affected count", rowsAffectedErr)

		return errors.Join(statestore.ErrGettingRowsAffectedFailed, rowsAffectedErr)
	}

	if rowsAffected < 1 {
		es.logOperation(logMsgConcurrencyConflict,
			logAttrStateType, storableState.StateType,
			logAttrExpectedVersion, expectedVersion)

		return statestore.ErrConcurrencyConflict
	}

	es.logOperation(logMsgStateSaved,
		logAttrStateType, storableState.StateType,
		logAttrVersion, expectedVersion+1,
		logAttrDurationMS, toMilliseconds(duration))

	return nil
}

func (es StateStore) buildLoadQuery(stateType string) (string, error) {
	selectStmt := goqu.Dialect(dialectSQLite).
		From(es.stateTableName).
		Select(colPayload, colMetadata, colUpdatedAt, colVersion).
		Where(goqu.Ex{colStateType: stateType}).
		Order(goqu.I(colVersion).Desc()).
		Limit(1)

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(statestore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

// buildSaveQuery builds the same guarded insert as the postgres engine, with
// timestamps rendered as RFC 3339 strings.
func (es StateStore) buildSaveQuery(
	expectedVersion statestore.VersionUint,
	storableState statestore.StorableState,
) (string, error) {

	builder := goqu.Dialect(dialectSQLite)

	cteStmt := builder.
		From(es.stateTableName).
		Select(goqu.MAX(colVersion).As(aliasMaxVersion)).
		Where(goqu.Ex{colStateType: storableState.StateType})

	selectStmt := builder.
		From(cteContext).
		Select(
			goqu.V(storableState.StateType),
			goqu.V(int64(expectedVersion)+1),
			goqu.V(string(storableState.PayloadJSON)),
			goqu.V(string(storableState.MetadataJSON)),
			goqu.V(storableState.UpdatedAt.UTC().Format(time.RFC3339Nano)),
		).
		Where(goqu.COALESCE(goqu.C(aliasMaxVersion), 0).Eq(goqu.V(int64(expectedVersion))))

	insertStmt := builder.
		Insert(es.stateTableName).
		Cols(colStateType, colVersion, colPayload, colMetadata, colUpdatedAt).
		FromQuery(selectStmt).
		With(cteContext, cteStmt)

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(statestore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (es StateStore) logQueryWithDuration(sqlQuery string, action string, duration time.Duration) {
	if es.logger != nil {
		es.logger.Debug(logMsgSQLExecuted+action, logAttrDurationMS, toMilliseconds(duration), logAttrQuery, sqlQuery)
	}
}

func (es StateStore) logOperation(action string, args ...any) {
	if es.logger != nil {
		es.logger.Info(logMsgOperation+action, args...)
	}
}

func (es StateStore) logError(message string, err error, args ...any) {
	if es.logger != nil {
		allArgs := []any{logAttrError, err.Error()}
		allArgs = append(allArgs, args...)
		es.logger.Error(message, allArgs...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds.
func toMilliseconds(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1e6
}

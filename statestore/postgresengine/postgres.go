package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect import
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/openshelf/circulation-go/statestore"
	"github.com/openshelf/circulation-go/statestore/postgresengine/internal/adapters"
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
	dialectPostgres = "postgres"
)

type (
	sqlQueryString    = string
	rowsAffectedInt64 = int64
	queryDuration     = time.Duration
)

// StateStore is a state journal on top of a PostgreSQL table.
//
// Each state type occupies its own sequence of rows (state_type, version);
// Load returns the row with the highest version, and Save appends the next
// version guarded by the expected one, so a stale writer affects zero rows
// and receives a concurrency conflict.
type StateStore struct {
	db               adapters.DBAdapter
	stateTableName   string
	logger           statestore.Logger
	contextualLogger statestore.ContextualLogger
	metricsCollector statestore.MetricsCollector
	tracingCollector statestore.TracingCollector
}

type queryResultRow struct {
	payload   []byte
	metadata  []byte
	updatedAt time.Time
	version   int64
}

// NewStateStoreFromPGXPool creates a new StateStore using a pgx Pool with optional configuration.
func NewStateStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (StateStore, error) {
	if db == nil {
		return StateStore{}, statestore.ErrNilDatabaseConnection
	}

	return newStateStore(adapters.NewPGXAdapter(db), options...)
}

// NewStateStoreFromPGXPoolAndReplica creates a new StateStore using a pgx Pool
// for writes and strongly consistent reads, plus a replica pool that serves
// reads which tolerate replica lag.
func NewStateStoreFromPGXPoolAndReplica(db *pgxpool.Pool, replica *pgxpool.Pool, options ...Option) (StateStore, error) {
	if db == nil || replica == nil {
		return StateStore{}, statestore.ErrNilDatabaseConnection
	}

	return newStateStore(adapters.NewPGXAdapterWithReplica(db, replica), options...)
}

// NewStateStoreFromSQLDB creates a new StateStore using a sql.DB with optional configuration.
func NewStateStoreFromSQLDB(db *sql.DB, options ...Option) (StateStore, error) {
	if db == nil {
		return StateStore{}, statestore.ErrNilDatabaseConnection
	}

	return newStateStore(adapters.NewSQLAdapter(db), options...)
}

// NewStateStoreFromSQLX creates a new StateStore using a sqlx.DB with optional configuration.
func NewStateStoreFromSQLX(db *sqlx.DB, options ...Option) (StateStore, error) {
	if db == nil {
		return StateStore{}, statestore.ErrNilDatabaseConnection
	}

	return newStateStore(adapters.NewSQLXAdapter(db), options...)
}

func newStateStore(db adapters.DBAdapter, options ...Option) (StateStore, error) {
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

	ctx, span := es.startLoadSpan(ctx, stateType)

	sqlQuery, buildQueryErr := es.buildLoadQuery(stateType)
	if buildQueryErr != nil {
		es.logError(ctx, logMsgBuildSelectQueryFailed, buildQueryErr)
		es.finishSpanError(span, errorTypeQueryBuild, 0)

		return empty, 0, buildQueryErr
	}

	rows, duration, queryErr := es.executeLoadQuery(ctx, sqlQuery)
	if queryErr != nil {
		es.recordErrorMetrics(ctx, operationLoad, errorTypeDatabase)
		es.recordDurationMetrics(ctx, metricLoadDuration, duration, operationLoad, statusError)
		es.finishSpanError(span, errorTypeDatabase, duration)

		return empty, 0, queryErr
	}
	defer es.closeRows(ctx, rows)

	storableState, version, scanErr := es.scanLoadResult(ctx, rows, stateType)
	if scanErr != nil {
		es.recordErrorMetrics(ctx, operationLoad, errorTypeScan)
		es.recordDurationMetrics(ctx, metricLoadDuration, duration, operationLoad, statusError)
		es.finishSpanError(span, errorTypeScan, duration)

		return empty, 0, scanErr
	}

	es.logOperation(ctx, logMsgStateLoaded,
		logAttrStateType, stateType,
		logAttrVersion, version,
		logAttrDurationMS, toMilliseconds(duration))
	es.recordDurationMetrics(ctx, metricLoadDuration, duration, operationLoad, statusSuccess)
	es.recordValueMetrics(ctx, metricStateVersion, float64(version), operationLoad, statusSuccess)
	es.finishLoadSpanSuccess(span, version, duration)

	return storableState, version, nil
}

// Save appends the next version of the state document, guarded by the
// expected version. When a competing writer got there first, the guarded
// insert affects zero rows and statestore.ErrConcurrencyConflict is returned;
// the caller is expected to reload and retry.
func (es StateStore) Save(
	ctx context.Context,
	expectedVersion statestore.VersionUint,
	storableState statestore.StorableState,
) error {

	if storableState.StateType == "" {
		return statestore.ErrEmptyStateTypeSupplied
	}

	ctx, span := es.startSaveSpan(ctx, storableState.StateType, expectedVersion)

	sqlQuery, buildQueryErr := es.buildSaveQuery(expectedVersion, storableState)
	if buildQueryErr != nil {
		es.logError(ctx, logMsgBuildInsertQueryFailed, buildQueryErr, logAttrStateType, storableState.StateType)
		es.finishSpanError(span, errorTypeQueryBuild, 0)

		return buildQueryErr
	}

	rowsAffected, duration, execErr := es.executeSaveQuery(ctx, sqlQuery)
	if execErr != nil {
		es.recordErrorMetrics(ctx, operationSave, errorTypeDatabase)
		es.recordDurationMetrics(ctx, metricSaveDuration, duration, operationSave, statusError)
		es.finishSpanError(span, errorTypeDatabase, duration)

		return execErr
	}

	if rowsAffected < 1 {
		es.logOperation(ctx, logMsgConcurrencyConflict,
			logAttrStateType, storableState.StateType,
			logAttrExpectedVersion, expectedVersion,
			logAttrRowsAffected, rowsAffected)
		es.recordConcurrencyConflictMetrics(ctx, operationSave)
		es.recordDurationMetrics(ctx, metricSaveDuration, duration, operationSave, statusError)
		es.finishSpanError(span, errorTypeConcurrencyConflict, duration)

		return statestore.ErrConcurrencyConflict
	}

	es.logOperation(ctx, logMsgStateSaved,
		logAttrStateType, storableState.StateType,
		logAttrVersion, expectedVersion+1,
		logAttrDurationMS, toMilliseconds(duration))
	es.recordDurationMetrics(ctx, metricSaveDuration, duration, operationSave, statusSuccess)
	es.recordValueMetrics(ctx, metricStateVersion, float64(expectedVersion+1), operationSave, statusSuccess)
	es.finishSaveSpanSuccess(span, rowsAffected, duration)

	return nil
}

// executeLoadQuery executes the SQL query and returns rows with timing information.
func (es StateStore) executeLoadQuery(ctx context.Context, sqlQuery string) (
	adapters.DBRows,
	time.Duration,
	error,
) {

	start := time.Now()
	rows, queryErr := es.db.Query(ctx, sqlQuery)
	duration := time.Since(start)
	es.logQueryWithDuration(ctx, sqlQuery, logActionLoad, duration)

	if queryErr != nil {
		es.logError(ctx, logMsgDBQueryFailed, queryErr, logAttrQuery, sqlQuery)

		return nil, duration, errors.Join(statestore.ErrLoadingStateFailed, queryErr)
	}

	return rows, duration, nil
}

// scanLoadResult reads the zero-or-one result row and converts it into a
// storable state with its version.
func (es StateStore) scanLoadResult(ctx context.Context, rows adapters.DBRows, stateType string) (
	statestore.StorableState,
	statestore.VersionUint,
	error,
) {

	var empty statestore.StorableState

	if !rows.Next() {
		return empty, 0, nil // nothing stored yet for this state type
	}

	result := queryResultRow{}

	if rowScanErr := rows.Scan(&result.payload, &result.metadata, &result.updatedAt, &result.version); rowScanErr != nil {
		es.logError(ctx, logMsgScanRowFailed, rowScanErr)

		return empty, 0, errors.Join(statestore.ErrScanningDBRowFailed, rowScanErr)
	}

	storableState, buildErr := statestore.BuildStorableState(stateType, result.updatedAt, result.payload, result.metadata)
	if buildErr != nil {
		es.logError(ctx, logMsgBuildStorableStateFailed, buildErr, logAttrStateType, stateType)

		return empty, 0, errors.Join(statestore.ErrBuildingStorableStateFailed, buildErr)
	}

	return storableState, statestore.VersionUint(result.version), nil
}

// executeSaveQuery executes the SQL insert query and returns rows affected and duration.
func (es StateStore) executeSaveQuery(ctx context.Context, sqlQuery string) (
	rowsAffectedInt64,
	queryDuration,
	error,
) {

	start := time.Now()
	tag, execErr := es.db.Exec(ctx, sqlQuery)
	duration := time.Since(start)
	es.logQueryWithDuration(ctx, sqlQuery, logActionSave, duration)

	if execErr != nil {
		es.logError(ctx, logMsgDBExecFailed, execErr, logAttrQuery, sqlQuery)

		return 0, duration, errors.Join(statestore.ErrSavingStateFailed, execErr)
	}

	rowsAffected, rowsAffectedErr := tag.RowsAffected()
	if rowsAffectedErr != nil {
		es.logError(ctx, logMsgRowsAffectedFailed, rowsAffectedErr)

		return 0, duration, errors.Join(statestore.ErrGettingRowsAffectedFailed, rowsAffectedErr)
	}

	return rowsAffected, duration, nil
}

// closeRows safely closes database rows and logs any errors.
func (es StateStore) closeRows(ctx context.Context, rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		es.logWarn(ctx, logMsgCloseRowsFailed, logAttrError, closeErr.Error())
	}
}

func (es StateStore) buildLoadQuery(stateType string) (sqlQueryString, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
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

// buildSaveQuery builds the guarded insert: a CTE selects the current maximum
// version for the state type, and the insert only selects its values when
// that maximum still equals the expected version. A stale expectation makes
// the insert affect zero rows instead of overwriting a newer document.
func (es StateStore) buildSaveQuery(
	expectedVersion statestore.VersionUint,
	storableState statestore.StorableState,
) (sqlQueryString, error) {

	builder := goqu.Dialect(dialectPostgres)

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
			goqu.V(storableState.UpdatedAt),
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

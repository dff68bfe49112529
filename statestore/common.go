package statestore

import (
	"errors"
)

var (
	// ErrEmptyStateTableNameSupplied occurs when an empty state table name is supplied to an engine option.
	ErrEmptyStateTableNameSupplied = errors.New("empty state table name supplied")

	// ErrNilDatabaseConnection occurs when a nil database connection or client is supplied to an engine factory.
	ErrNilDatabaseConnection = errors.New("database connection must not be nil")

	// ErrEmptyStateTypeSupplied occurs when an operation is attempted with an empty state type.
	ErrEmptyStateTypeSupplied = errors.New("empty state type supplied")

	// ErrConcurrencyConflict occurs when the expected version is stale and the guarded save affected no rows.
	ErrConcurrencyConflict = errors.New("concurrency error, no rows were affected")

	// ErrLoadingStateFailed occurs when loading a state document from the store fails.
	ErrLoadingStateFailed = errors.New("loading state failed")

	// ErrSavingStateFailed occurs when saving a state document to the store fails.
	ErrSavingStateFailed = errors.New("saving state failed")

	// ErrBuildingQueryFailed occurs when building an SQL query fails.
	ErrBuildingQueryFailed = errors.New("building sql query failed")

	// ErrScanningDBRowFailed occurs when scanning a database row fails.
	ErrScanningDBRowFailed = errors.New("scanning database row failed")

	// ErrGettingRowsAffectedFailed occurs when reading the affected row count fails.
	ErrGettingRowsAffectedFailed = errors.New("getting rows affected failed")

	// ErrBuildingStorableStateFailed occurs when a loaded database row does not yield a valid storable state.
	ErrBuildingStorableStateFailed = errors.New("building storable state from database row failed")
)

// VersionUint is a type alias for uint, representing the version of a stored
// state document. Version 0 means "nothing stored yet"; the first saved
// document gets version 1.
type VersionUint = uint

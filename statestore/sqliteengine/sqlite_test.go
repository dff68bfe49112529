package sqliteengine_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite" // sqlite driver

	"github.com/openshelf/circulation-go/statestore"
	"github.com/openshelf/circulation-go/statestore/sqliteengine"
)

const testStateType = "LibraryState"

func Test_StateStore_Load_FromEmptyJournal(t *testing.T) {
	// arrange
	store := givenSQLiteStore(t)

	// act
	storable, version, err := store.Load(context.Background(), testStateType)

	// assert
	require.NoError(t, err)
	assert.Equal(t, statestore.VersionUint(0), version)
	assert.Empty(t, storable.PayloadJSON)
}

func Test_StateStore_SaveAndLoad_RoundTrip(t *testing.T) {
	// arrange
	store := givenSQLiteStore(t)
	updatedAt := time.Now().UTC().Truncate(time.Microsecond)
	storable := givenStorableState(t, updatedAt, `{"catalog":[{"id":0}]}`)

	// act
	saveErr := store.Save(context.Background(), 0, storable)
	loaded, version, loadErr := store.Load(context.Background(), testStateType)

	// assert
	require.NoError(t, saveErr)
	require.NoError(t, loadErr)
	assert.Equal(t, statestore.VersionUint(1), version)
	assert.JSONEq(t, string(storable.PayloadJSON), string(loaded.PayloadJSON))
	assert.JSONEq(t, string(storable.MetadataJSON), string(loaded.MetadataJSON))
	assert.True(t, updatedAt.Equal(loaded.UpdatedAt), "the update timestamp must survive the round trip")
}

func Test_StateStore_Save_DetectsConcurrencyConflict(t *testing.T) {
	// arrange - two writers both expect version 0
	store := givenSQLiteStore(t)
	updatedAt := time.Now()

	first := givenStorableState(t, updatedAt, `{"writer":"first"}`)
	second := givenStorableState(t, updatedAt, `{"writer":"second"}`)

	require.NoError(t, store.Save(context.Background(), 0, first))

	// act
	err := store.Save(context.Background(), 0, second)

	// assert - the stale writer loses and the journal keeps the first document
	require.ErrorIs(t, err, statestore.ErrConcurrencyConflict)

	loaded, version, loadErr := store.Load(context.Background(), testStateType)
	require.NoError(t, loadErr)
	assert.Equal(t, statestore.VersionUint(1), version)
	assert.JSONEq(t, `{"writer":"first"}`, string(loaded.PayloadJSON))
}

func Test_StateStore_VersionsGrowSequentially(t *testing.T) {
	// arrange
	store := givenSQLiteStore(t)
	updatedAt := time.Now()

	// act
	for expected := statestore.VersionUint(0); expected < 3; expected++ {
		storable := givenStorableState(t, updatedAt, `{"n":1}`)
		require.NoError(t, store.Save(context.Background(), expected, storable))
	}

	// assert
	_, version, err := store.Load(context.Background(), testStateType)
	require.NoError(t, err)
	assert.Equal(t, statestore.VersionUint(3), version)
}

func Test_StateStore_SeparateJournalsPerStateType(t *testing.T) {
	// arrange
	store := givenSQLiteStore(t)
	updatedAt := time.Now()

	libraryState, err := statestore.BuildStorableStateWithEmptyMetadata(testStateType, updatedAt, []byte(`{"kind":"library"}`))
	require.NoError(t, err)
	otherState, err := statestore.BuildStorableStateWithEmptyMetadata("OtherState", updatedAt, []byte(`{"kind":"other"}`))
	require.NoError(t, err)

	// act - both journals start at version 0 independently
	require.NoError(t, store.Save(context.Background(), 0, libraryState))
	require.NoError(t, store.Save(context.Background(), 0, otherState))

	// assert
	_, libraryVersion, err := store.Load(context.Background(), testStateType)
	require.NoError(t, err)
	_, otherVersion, err := store.Load(context.Background(), "OtherState")
	require.NoError(t, err)

	assert.Equal(t, statestore.VersionUint(1), libraryVersion)
	assert.Equal(t, statestore.VersionUint(1), otherVersion)
}

func Test_StateStore_CustomTableName(t *testing.T) {
	// arrange
	db := givenSQLiteDB(t)
	store, err := sqliteengine.NewStateStore(db, sqliteengine.WithTableName("circulation_journal"))
	require.NoError(t, err)
	require.NoError(t, store.EnsureSchema(context.Background()))

	storable := givenStorableState(t, time.Now(), `{"v":1}`)

	// act
	saveErr := store.Save(context.Background(), 0, storable)
	_, version, loadErr := store.Load(context.Background(), testStateType)

	// assert
	require.NoError(t, saveErr)
	require.NoError(t, loadErr)
	assert.Equal(t, statestore.VersionUint(1), version)
}

func Test_NewStateStore_WithNilDatabaseConnection(t *testing.T) {
	// act
	_, err := sqliteengine.NewStateStore(nil)

	// assert
	assert.ErrorIs(t, err, statestore.ErrNilDatabaseConnection)
}

func Test_NewStateStore_WithEmptyTableName(t *testing.T) {
	// arrange
	db := givenSQLiteDB(t)

	// act
	_, err := sqliteengine.NewStateStore(db, sqliteengine.WithTableName(""))

	// assert
	assert.ErrorIs(t, err, statestore.ErrEmptyStateTableNameSupplied)
}

func givenSQLiteDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)

	// One connection keeps all statements on the same in-memory database
	// and serializes writers the way SQLite expects.
	db.SetMaxOpenConns(1)

	t.Cleanup(func() { _ = db.Close() })

	return db
}

func givenSQLiteStore(t *testing.T) sqliteengine.StateStore {
	t.Helper()

	store, err := sqliteengine.NewStateStore(givenSQLiteDB(t))
	require.NoError(t, err)
	require.NoError(t, store.EnsureSchema(context.Background()))

	return store
}

func givenStorableState(t *testing.T, updatedAt time.Time, payload string) statestore.StorableState {
	t.Helper()

	storable, err := statestore.BuildStorableState(testStateType, updatedAt, []byte(payload), []byte(`{"commandType":"Test"}`))
	require.NoError(t, err)

	return storable
}

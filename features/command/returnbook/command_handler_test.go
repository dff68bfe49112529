package returnbook_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshelf/circulation-go/core"
	"github.com/openshelf/circulation-go/features/command/addbook"
	"github.com/openshelf/circulation-go/features/command/checkoutbyisbn"
	"github.com/openshelf/circulation-go/features/command/returnbook"
	"github.com/openshelf/circulation-go/shell"
	"github.com/openshelf/circulation-go/statestore/memoryengine"
)

func Test_CommandHandler_Handle_Success(t *testing.T) {
	// arrange
	store := memoryengine.NewStateStore()
	givenCheckedOutBook(t, store, "978-1-111-11111-1", "Ada Lovelace")
	handler := returnbook.NewCommandHandler(store)

	// act
	result, err := handler.Handle(context.Background(),
		returnbook.BuildCommand(0, "Ada Lovelace", time.Now()))

	// assert
	require.NoError(t, err)
	assert.False(t, result.Idempotent)

	storable, _, loadErr := store.Load(context.Background(), shell.LibraryStateType)
	require.NoError(t, loadErr)
	state, mapErr := shell.LibraryStateFrom(storable)
	require.NoError(t, mapErr)
	require.Len(t, state.Circulations, 1)
	assert.False(t, state.Circulations[0].IsOpen())
}

func Test_CommandHandler_Handle_NotFound_StoresNothing(t *testing.T) {
	// arrange - catalog entry exists but was never checked out
	store := memoryengine.NewStateStore()
	seedCatalog(t, store, "978-1-111-11111-1")
	versionsBefore := store.JournalLength(shell.LibraryStateType)
	handler := returnbook.NewCommandHandler(store)

	// act
	result, err := handler.Handle(context.Background(),
		returnbook.BuildCommand(0, "Ada Lovelace", time.Now()))

	// assert
	assert.ErrorIs(t, err, core.ErrCirculationNotFound)
	assert.False(t, result.Idempotent)
	assert.Equal(t, versionsBefore, store.JournalLength(shell.LibraryStateType),
		"A failed return must not produce a new version")
}

func Test_CommandHandler_Handle_ReturnThenCheckoutReselectsCopy(t *testing.T) {
	// arrange - single copy, checked out
	store := memoryengine.NewStateStore()
	givenCheckedOutBook(t, store, "978-1-111-11111-1", "Ada Lovelace")

	returnHandler := returnbook.NewCommandHandler(store)
	checkoutHandler := checkoutbyisbn.NewCommandHandler(store)

	// act
	_, returnErr := returnHandler.Handle(context.Background(),
		returnbook.BuildCommand(0, "Ada Lovelace", time.Now()))
	require.NoError(t, returnErr)

	result, checkoutErr := checkoutHandler.Handle(context.Background(),
		checkoutbyisbn.BuildCommand("978-1-111-11111-1", "Grace Hopper", time.Now()))

	// assert - the returned copy is immediately available again
	require.NoError(t, checkoutErr)
	assert.False(t, result.Idempotent)

	storable, _, loadErr := store.Load(context.Background(), shell.LibraryStateType)
	require.NoError(t, loadErr)
	state, mapErr := shell.LibraryStateFrom(storable)
	require.NoError(t, mapErr)
	assert.Equal(t, 0, state.Circulations[0].BookID)
	assert.Equal(t, "Grace Hopper", state.Circulations[0].BorrowedBy)
}

func seedCatalog(t *testing.T, store *memoryengine.StateStore, isbn core.ISBNString) {
	t.Helper()

	handler := addbook.NewCommandHandler(store)
	_, err := handler.Handle(context.Background(), addbook.BuildCommand(
		[]core.AuthorNameString{"Test Author"},
		"Test Book Title",
		isbn,
		"Test Librarian",
		time.Now(),
	))
	require.NoError(t, err)
}

func givenCheckedOutBook(t *testing.T, store *memoryengine.StateStore, isbn core.ISBNString, borrower core.BorrowerNameString) {
	t.Helper()

	seedCatalog(t, store, isbn)

	handler := checkoutbyisbn.NewCommandHandler(store)
	_, err := handler.Handle(context.Background(), checkoutbyisbn.BuildCommand(isbn, borrower, time.Now()))
	require.NoError(t, err)
}

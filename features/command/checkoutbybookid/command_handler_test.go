package checkoutbybookid_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshelf/circulation-go/core"
	"github.com/openshelf/circulation-go/features/command/addbook"
	"github.com/openshelf/circulation-go/features/command/checkoutbybookid"
	"github.com/openshelf/circulation-go/shell"
	"github.com/openshelf/circulation-go/statestore/memoryengine"
)

func Test_CommandHandler_Handle_Success(t *testing.T) {
	// arrange
	store := memoryengine.NewStateStore()
	seedCatalog(t, store, "978-1-111-11111-1")
	handler := checkoutbybookid.NewCommandHandler(store)

	// act
	result, err := handler.Handle(context.Background(),
		checkoutbybookid.BuildCommand(0, "Ada Lovelace", time.Now()))

	// assert
	require.NoError(t, err)
	assert.False(t, result.Idempotent)
	assert.Equal(t, 2, store.JournalLength(shell.LibraryStateType))
}

func Test_CommandHandler_Handle_UnknownID_IsIdempotent(t *testing.T) {
	// arrange
	store := memoryengine.NewStateStore()
	seedCatalog(t, store, "978-1-111-11111-1")
	handler := checkoutbybookid.NewCommandHandler(store)

	// act
	result, err := handler.Handle(context.Background(),
		checkoutbybookid.BuildCommand(42, "Ada Lovelace", time.Now()))

	// assert
	require.NoError(t, err)
	assert.True(t, result.Idempotent)
	assert.Equal(t, 1, store.JournalLength(shell.LibraryStateType), "An idempotent command must not produce a new version")
}

func Test_CommandHandler_Handle_SecondCheckout_IsIdempotent(t *testing.T) {
	// arrange
	store := memoryengine.NewStateStore()
	seedCatalog(t, store, "978-1-111-11111-1")
	handler := checkoutbybookid.NewCommandHandler(store)

	_, err := handler.Handle(context.Background(),
		checkoutbybookid.BuildCommand(0, "Ada Lovelace", time.Now()))
	require.NoError(t, err)

	// act
	result, err := handler.Handle(context.Background(),
		checkoutbybookid.BuildCommand(0, "Grace Hopper", time.Now()))

	// assert
	require.NoError(t, err)
	assert.True(t, result.Idempotent)
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

package checkoutbyisbn_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshelf/circulation-go/core"
	"github.com/openshelf/circulation-go/features/command/checkoutbyisbn"
)

func Test_Decide_Success_SelectsLowestAvailableID(t *testing.T) {
	// arrange
	now := time.Now()
	state := core.EmptyLibraryState().
		WithBookAdded(givenBook(t, 0, "978-1-111-11111-1", now.Add(-3*time.Hour))).
		WithBookAdded(givenBook(t, 1, "978-1-111-11111-1", now.Add(-2*time.Hour))).
		WithBookAdded(givenBook(t, 2, "978-1-111-11111-1", now.Add(-1*time.Hour)))

	command := checkoutbyisbn.BuildCommand("978-1-111-11111-1", "Ada Lovelace", now)

	// act
	result := checkoutbyisbn.Decide(state, command)

	// assert
	assertCheckoutOf(t, result, 0, "Ada Lovelace")
}

func Test_Decide_Success_SkipsCheckedOutCopies(t *testing.T) {
	// arrange
	now := time.Now()
	state := core.EmptyLibraryState().
		WithBookAdded(givenBook(t, 0, "978-1-111-11111-1", now.Add(-3*time.Hour))).
		WithBookAdded(givenBook(t, 1, "978-1-111-11111-1", now.Add(-2*time.Hour))).
		WithCirculationOpened(core.BuildCirculation(0, "Grace Hopper", now.Add(-1*time.Hour)))

	command := checkoutbyisbn.BuildCommand("978-1-111-11111-1", "Ada Lovelace", now)

	// act
	result := checkoutbyisbn.Decide(state, command)

	// assert
	assertCheckoutOf(t, result, 1, "Ada Lovelace")
}

func Test_Decide_Success_ReturnedCopyIsSelectedAgain(t *testing.T) {
	// arrange - copy 0 went out and came back, copy 1 is still out
	now := time.Now()
	state := core.EmptyLibraryState().
		WithBookAdded(givenBook(t, 0, "978-1-111-11111-1", now.Add(-5*time.Hour))).
		WithBookAdded(givenBook(t, 1, "978-1-111-11111-1", now.Add(-4*time.Hour))).
		WithCirculationOpened(core.BuildCirculation(0, "Grace Hopper", now.Add(-3*time.Hour))).
		WithCirculationOpened(core.BuildCirculation(1, "Margaret Hamilton", now.Add(-2*time.Hour)))
	state, found := state.WithCirculationCompleted(0, now.Add(-1*time.Hour))
	require.True(t, found)

	command := checkoutbyisbn.BuildCommand("978-1-111-11111-1", "Ada Lovelace", now)

	// act
	result := checkoutbyisbn.Decide(state, command)

	// assert - the returned copy 0 is available again and has the lowest id
	assertCheckoutOf(t, result, 0, "Ada Lovelace")
}

func Test_Decide_Idempotent_WhenAllCopiesOut(t *testing.T) {
	// arrange
	now := time.Now()
	state := core.EmptyLibraryState().
		WithBookAdded(givenBook(t, 0, "978-1-111-11111-1", now.Add(-2*time.Hour))).
		WithCirculationOpened(core.BuildCirculation(0, "Grace Hopper", now.Add(-1*time.Hour)))

	command := checkoutbyisbn.BuildCommand("978-1-111-11111-1", "Ada Lovelace", now)

	// act
	result := checkoutbyisbn.Decide(state, command)

	// assert
	assert.False(t, result.HasStateToStore(), "Exhausted availability must be a silent no-op")
	assert.NoError(t, result.HasError())
	assert.Equal(t, state, result.State, "State must be unchanged")
}

func Test_Decide_Idempotent_WhenISBNUnknown(t *testing.T) {
	// arrange
	now := time.Now()
	state := core.EmptyLibraryState().
		WithBookAdded(givenBook(t, 0, "978-1-111-11111-1", now.Add(-1*time.Hour)))

	command := checkoutbyisbn.BuildCommand("978-9-999-99999-9", "Ada Lovelace", now)

	// act
	result := checkoutbyisbn.Decide(state, command)

	// assert
	assert.False(t, result.HasStateToStore(), "Unknown ISBN must be a silent no-op")
	assert.NoError(t, result.HasError())
}

func Test_Decide_DoesNotModifyInputState(t *testing.T) {
	// arrange
	now := time.Now()
	input := core.EmptyLibraryState().
		WithBookAdded(givenBook(t, 0, "978-1-111-11111-1", now.Add(-1*time.Hour)))
	circulationsBefore := len(input.Circulations)

	// act
	result := checkoutbyisbn.Decide(input, checkoutbyisbn.BuildCommand("978-1-111-11111-1", "Ada Lovelace", now))

	// assert
	require.True(t, result.HasStateToStore())
	assert.Len(t, input.Circulations, circulationsBefore, "Decide must not mutate its input")
}

func givenBook(t *testing.T, id core.BookIDInt, isbn core.ISBNString, addedAt time.Time) core.Book {
	t.Helper()

	return core.BuildBook(
		id,
		core.BuildBookInfo([]core.AuthorNameString{"Test Author"}, "Test Book Title", isbn),
		"Test Librarian",
		addedAt,
	)
}

func assertCheckoutOf(t *testing.T, result core.TransitionResult, expectedID core.BookIDInt, expectedBorrower core.BorrowerNameString) {
	t.Helper()

	require.NoError(t, result.HasError())
	require.True(t, result.HasStateToStore(), "Expected a state change")

	newest := result.State.Circulations[0]
	assert.Equal(t, expectedID, newest.BookID, "Expected the copy with the lowest available id")
	assert.Equal(t, expectedBorrower, newest.BorrowedBy)
	assert.True(t, newest.IsOpen())
}

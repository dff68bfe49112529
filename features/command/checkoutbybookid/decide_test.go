package checkoutbybookid_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshelf/circulation-go/core"
	"github.com/openshelf/circulation-go/features/command/checkoutbybookid"
)

func Test_Decide_Success(t *testing.T) {
	// arrange
	now := time.Now()
	state := core.EmptyLibraryState().
		WithBookAdded(givenBook(t, 0, "978-1-111-11111-1", now.Add(-2*time.Hour))).
		WithBookAdded(givenBook(t, 1, "978-1-111-11111-1", now.Add(-1*time.Hour)))

	command := checkoutbybookid.BuildCommand(1, "Ada Lovelace", now)

	// act
	result := checkoutbybookid.Decide(state, command)

	// assert
	require.NoError(t, result.HasError())
	require.True(t, result.HasStateToStore())

	newest := result.State.Circulations[0]
	assert.Equal(t, 1, newest.BookID, "The requested copy should be lent, not the lowest id")
	assert.Equal(t, "Ada Lovelace", newest.BorrowedBy)
	assert.True(t, newest.IsOpen())
}

func Test_Decide_Idempotent_WhenIDUnknown(t *testing.T) {
	// arrange
	now := time.Now()
	state := core.EmptyLibraryState().
		WithBookAdded(givenBook(t, 0, "978-1-111-11111-1", now.Add(-1*time.Hour)))

	command := checkoutbybookid.BuildCommand(42, "Ada Lovelace", now)

	// act
	result := checkoutbybookid.Decide(state, command)

	// assert
	assert.False(t, result.HasStateToStore(), "Unknown id must be a silent no-op")
	assert.NoError(t, result.HasError())
	assert.Equal(t, state, result.State)
}

func Test_Decide_Idempotent_WhenCopyAlreadyOut(t *testing.T) {
	// arrange
	now := time.Now()
	state := core.EmptyLibraryState().
		WithBookAdded(givenBook(t, 0, "978-1-111-11111-1", now.Add(-2*time.Hour))).
		WithCirculationOpened(core.BuildCirculation(0, "Grace Hopper", now.Add(-1*time.Hour)))

	command := checkoutbybookid.BuildCommand(0, "Ada Lovelace", now)

	// act
	result := checkoutbybookid.Decide(state, command)

	// assert
	assert.False(t, result.HasStateToStore(), "A copy that is already out must not be lent twice")
	assert.NoError(t, result.HasError())
}

func Test_Decide_SharedID_AcrossISBNs_ChecksTheIDOnly(t *testing.T) {
	// arrange - two titles, both with a copy 0; the id is out for one of them
	now := time.Now()
	state := core.EmptyLibraryState().
		WithBookAdded(givenBook(t, 0, "978-1-111-11111-1", now.Add(-3*time.Hour))).
		WithBookAdded(givenBook(t, 0, "978-2-222-22222-2", now.Add(-2*time.Hour))).
		WithCirculationOpened(core.BuildCirculation(0, "Grace Hopper", now.Add(-1*time.Hour)))

	command := checkoutbybookid.BuildCommand(0, "Ada Lovelace", now)

	// act
	result := checkoutbybookid.Decide(state, command)

	// assert - ids are not globally unique, so id 0 counts as out
	assert.False(t, result.HasStateToStore())
}

func Test_Decide_DoesNotModifyInputState(t *testing.T) {
	// arrange
	now := time.Now()
	input := core.EmptyLibraryState().
		WithBookAdded(givenBook(t, 0, "978-1-111-11111-1", now.Add(-1*time.Hour)))
	circulationsBefore := len(input.Circulations)

	// act
	result := checkoutbybookid.Decide(input, checkoutbybookid.BuildCommand(0, "Ada Lovelace", now))

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

package availablebooks_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshelf/circulation-go/core"
	"github.com/openshelf/circulation-go/features/query/availablebooks"
)

func Test_Project_EmptyState(t *testing.T) {
	// act
	result := availablebooks.Project(core.EmptyLibraryState(), availablebooks.BuildQuery())

	// assert
	assert.Zero(t, result.Count)
	assert.Empty(t, result.Titles)
}

func Test_Project_ListsAvailableCopiesPerTitle(t *testing.T) {
	// arrange - two titles; one has a copy out
	now := time.Now()
	state := core.EmptyLibraryState().
		WithBookAdded(givenBook(t, 0, "978-1-111-11111-1", "A Title", now.Add(-5*time.Hour))).
		WithBookAdded(givenBook(t, 1, "978-1-111-11111-1", "A Title", now.Add(-4*time.Hour))).
		WithBookAdded(givenBook(t, 0, "978-2-222-22222-2", "B Title", now.Add(-3*time.Hour))).
		WithCirculationOpened(core.BuildCirculation(0, "Ada Lovelace", now.Add(-1*time.Hour)))

	// act
	result := availablebooks.Project(state, availablebooks.BuildQuery())

	// assert - ids are shared across ISBNs, so the open record for id 0 blocks
	// copy 0 of both titles; only "A Title" still has a copy left
	require.Equal(t, 1, result.Count)
	assert.Equal(t, "A Title", result.Titles[0].Info.Title)
	assert.Equal(t, []core.BookIDInt{1}, result.Titles[0].AvailableCopyIDs)
	assert.Equal(t, 2, result.Titles[0].TotalCopies)
}

func Test_Project_TitleWithAllCopiesOut_IsNotListed(t *testing.T) {
	// arrange
	now := time.Now()
	state := core.EmptyLibraryState().
		WithBookAdded(givenBook(t, 0, "978-1-111-11111-1", "A Title", now.Add(-2*time.Hour))).
		WithCirculationOpened(core.BuildCirculation(0, "Ada Lovelace", now.Add(-1*time.Hour)))

	// act
	result := availablebooks.Project(state, availablebooks.BuildQuery())

	// assert
	assert.Zero(t, result.Count)
}

func Test_Project_SortedByTitleThenISBN(t *testing.T) {
	// arrange
	now := time.Now()
	state := core.EmptyLibraryState().
		WithBookAdded(givenBook(t, 0, "978-3-333-33333-3", "Zebra Stories", now.Add(-3*time.Hour))).
		WithBookAdded(givenBook(t, 0, "978-2-222-22222-2", "Aardvark Tales", now.Add(-2*time.Hour))).
		WithBookAdded(givenBook(t, 0, "978-1-111-11111-1", "Aardvark Tales", now.Add(-1*time.Hour)))

	// act
	result := availablebooks.Project(state, availablebooks.BuildQuery())

	// assert
	require.Equal(t, 3, result.Count)
	assert.Equal(t, "978-1-111-11111-1", result.Titles[0].Info.ISBN)
	assert.Equal(t, "978-2-222-22222-2", result.Titles[1].Info.ISBN)
	assert.Equal(t, "Zebra Stories", result.Titles[2].Info.Title)
}

func Test_Project_ISBNFilter(t *testing.T) {
	// arrange
	now := time.Now()
	state := core.EmptyLibraryState().
		WithBookAdded(givenBook(t, 0, "978-1-111-11111-1", "A Title", now.Add(-2*time.Hour))).
		WithBookAdded(givenBook(t, 0, "978-2-222-22222-2", "B Title", now.Add(-1*time.Hour)))

	// act
	result := availablebooks.Project(state, availablebooks.BuildQueryForISBN("978-2-222-22222-2"))

	// assert
	require.Equal(t, 1, result.Count)
	assert.Equal(t, "B Title", result.Titles[0].Info.Title)
}

func givenBook(t *testing.T, id core.BookIDInt, isbn core.ISBNString, title string, addedAt time.Time) core.Book {
	t.Helper()

	return core.BuildBook(
		id,
		core.BuildBookInfo([]core.AuthorNameString{"Test Author"}, title, isbn),
		"Test Librarian",
		addedAt,
	)
}

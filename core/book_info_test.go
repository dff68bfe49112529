package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openshelf/circulation-go/core"
)

func Test_BuildBookInfo_CopiesAuthors(t *testing.T) {
	// arrange
	authors := []core.AuthorNameString{"Ursula K. Le Guin"}

	// act
	info := core.BuildBookInfo(authors, "The Dispossessed", "978-0-06-051275-7")
	authors[0] = "Someone Else"

	// assert
	assert.Equal(t, "Ursula K. Le Guin", info.Authors[0], "Mutating the input slice must not change the info")
}

func Test_BookInfo_Equals(t *testing.T) {
	base := core.BuildBookInfo([]core.AuthorNameString{"First Author", "Second Author"}, "Some Title", "978-1-111-11111-1")

	testCases := []struct {
		name     string
		other    core.BookInfo
		expected bool
	}{
		{
			name:     "identical",
			other:    core.BuildBookInfo([]core.AuthorNameString{"First Author", "Second Author"}, "Some Title", "978-1-111-11111-1"),
			expected: true,
		},
		{
			name:     "author order matters",
			other:    core.BuildBookInfo([]core.AuthorNameString{"Second Author", "First Author"}, "Some Title", "978-1-111-11111-1"),
			expected: false,
		},
		{
			name:     "different title",
			other:    core.BuildBookInfo([]core.AuthorNameString{"First Author", "Second Author"}, "Other Title", "978-1-111-11111-1"),
			expected: false,
		},
		{
			name:     "different isbn",
			other:    core.BuildBookInfo([]core.AuthorNameString{"First Author", "Second Author"}, "Some Title", "978-2-222-22222-2"),
			expected: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, base.Equals(tc.other))
		})
	}
}

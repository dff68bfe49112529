package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/openshelf/circulation-go/features/query/checkedoutbooks"
)

var checkedOutCmd = &cobra.Command{
	Use:   "checked-out",
	Short: "List copies currently checked out",
	RunE:  runCheckedOut,
}

func init() {
	rootCmd.AddCommand(checkedOutCmd)
}

func runCheckedOut(cmd *cobra.Command, _ []string) error {
	result, err := app.checkedOutBooks.Handle(cmd.Context(), checkedoutbooks.BuildQuery())
	if err != nil {
		return err
	}

	if result.Count == 0 {
		fmt.Println("No copies are currently checked out.")

		return nil
	}

	for _, book := range result.Books {
		fmt.Printf("copy %d of %q (ISBN %s), borrowed by %s since %s\n",
			book.BookID,
			book.Info.Title,
			book.Info.ISBN,
			book.BorrowedBy,
			book.BorrowedAt.Format(time.RFC3339),
		)
	}

	return nil
}

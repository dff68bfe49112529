package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openshelf/circulation-go/features/query/availablebooks"
)

var availableCmd = &cobra.Command{
	Use:   "available",
	Short: "List titles with available copies",
	RunE:  runAvailable,
}

func init() {
	rootCmd.AddCommand(availableCmd)

	availableCmd.Flags().String("isbn", "", "narrow the listing to one ISBN")
}

func runAvailable(cmd *cobra.Command, _ []string) error {
	query := availablebooks.BuildQuery()
	if cmd.Flags().Changed("isbn") {
		isbn, _ := cmd.Flags().GetString("isbn")
		query = availablebooks.BuildQueryForISBN(isbn)
	}

	result, err := app.availableBooks.Handle(cmd.Context(), query)
	if err != nil {
		return err
	}

	if result.Count == 0 {
		fmt.Println("No copies are currently available.")

		return nil
	}

	for _, title := range result.Titles {
		fmt.Printf("%q by %s (ISBN %s): %d of %d copies available, ids %v\n",
			title.Info.Title,
			strings.Join(title.Info.Authors, ", "),
			title.Info.ISBN,
			len(title.AvailableCopyIDs),
			title.TotalCopies,
			title.AvailableCopyIDs,
		)
	}

	return nil
}

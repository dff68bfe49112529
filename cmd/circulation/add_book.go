package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/openshelf/circulation-go/features/command/addbook"
)

var addBookCmd = &cobra.Command{
	Use:   "add-book",
	Short: "Add a copy of a book to the catalog",
	Long: `Add a copy of a book to the catalog. Adding the same ISBN again adds
another copy of that title; copies are numbered 0, 1, 2, ... per ISBN.`,
	RunE: runAddBook,
}

func init() {
	rootCmd.AddCommand(addBookCmd)

	addBookCmd.Flags().StringSlice("author", nil, "author of the book; repeat for multiple authors")
	addBookCmd.Flags().String("title", "", "title of the book")
	addBookCmd.Flags().String("isbn", "", "ISBN shared by all copies of the title")
	addBookCmd.Flags().String("by", "", "name of the librarian adding the copy")

	_ = addBookCmd.MarkFlagRequired("author")
	_ = addBookCmd.MarkFlagRequired("title")
	_ = addBookCmd.MarkFlagRequired("isbn")
	_ = addBookCmd.MarkFlagRequired("by")
}

func runAddBook(cmd *cobra.Command, _ []string) error {
	authors, _ := cmd.Flags().GetStringSlice("author")
	title, _ := cmd.Flags().GetString("title")
	isbn, _ := cmd.Flags().GetString("isbn")
	addedBy, _ := cmd.Flags().GetString("by")

	command := addbook.BuildCommand(authors, title, isbn, addedBy, time.Now())

	if _, err := app.addBook.Handle(cmd.Context(), command); err != nil {
		return err
	}

	fmt.Printf("Added a copy of %q (ISBN %s) to the catalog.\n", title, isbn)

	return nil
}

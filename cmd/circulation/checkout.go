package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/openshelf/circulation-go/features/command/checkoutbybookid"
	"github.com/openshelf/circulation-go/features/command/checkoutbyisbn"
)

var checkoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Check out a copy to a borrower",
	Long: `Check out a copy to a borrower, either any available copy of a title
(--isbn) or one specific copy (--book-id). When nothing is available the
command reports it and changes nothing.`,
	RunE: runCheckout,
}

func init() {
	rootCmd.AddCommand(checkoutCmd)

	checkoutCmd.Flags().String("isbn", "", "check out the lowest-numbered available copy of this ISBN")
	checkoutCmd.Flags().Int("book-id", 0, "check out this specific copy")
	checkoutCmd.Flags().String("by", "", "name of the borrower")

	_ = checkoutCmd.MarkFlagRequired("by")
	checkoutCmd.MarkFlagsMutuallyExclusive("isbn", "book-id")
	checkoutCmd.MarkFlagsOneRequired("isbn", "book-id")
}

func runCheckout(cmd *cobra.Command, _ []string) error {
	borrowedBy, _ := cmd.Flags().GetString("by")

	if cmd.Flags().Changed("isbn") {
		isbn, _ := cmd.Flags().GetString("isbn")

		command := checkoutbyisbn.BuildCommand(isbn, borrowedBy, time.Now())

		result, err := app.checkoutByISBN.Handle(cmd.Context(), command)
		if err != nil {
			return err
		}

		if result.Idempotent {
			fmt.Printf("No copy of ISBN %s is available right now.\n", isbn)

			return nil
		}

		fmt.Printf("Checked out a copy of ISBN %s to %s.\n", isbn, borrowedBy)

		return nil
	}

	bookID, _ := cmd.Flags().GetInt("book-id")

	command := checkoutbybookid.BuildCommand(bookID, borrowedBy, time.Now())

	result, err := app.checkoutByBookID.Handle(cmd.Context(), command)
	if err != nil {
		return err
	}

	if result.Idempotent {
		fmt.Printf("Copy %d is not available right now.\n", bookID)

		return nil
	}

	fmt.Printf("Checked out copy %d to %s.\n", bookID, borrowedBy)

	return nil
}

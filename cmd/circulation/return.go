package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/openshelf/circulation-go/core"
	"github.com/openshelf/circulation-go/features/command/returnbook"
)

var returnCmd = &cobra.Command{
	Use:   "return",
	Short: "Return a checked out copy",
	Long: `Return a checked out copy. Anyone can hand a copy back; the name given
with --by is recorded but not matched against the borrower.`,
	RunE: runReturn,
}

func init() {
	rootCmd.AddCommand(returnCmd)

	returnCmd.Flags().Int("book-id", 0, "the copy being returned")
	returnCmd.Flags().String("by", "", "name of the person returning the copy")

	_ = returnCmd.MarkFlagRequired("book-id")
	_ = returnCmd.MarkFlagRequired("by")
}

func runReturn(cmd *cobra.Command, _ []string) error {
	bookID, _ := cmd.Flags().GetInt("book-id")
	returnedBy, _ := cmd.Flags().GetString("by")

	command := returnbook.BuildCommand(bookID, returnedBy, time.Now())

	if _, err := app.returnBook.Handle(cmd.Context(), command); err != nil {
		if errors.Is(err, core.ErrCirculationNotFound) {
			return fmt.Errorf("copy %d is not checked out", bookID)
		}

		return err
	}

	fmt.Printf("Returned copy %d.\n", bookID)

	return nil
}

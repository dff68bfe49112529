// Package singlewriter serializes command execution across handlers that
// write the same state journal.
//
// Every command handler competes for the single LibraryState journal, so under
// concurrent load the optimistic concurrency check turns parallel commands
// into conflict-and-retry loops. Wrapping the handlers with a shared mutex
// hands each command the latest state version instead, trading parallelism
// that the single journal cannot use anyway for conflict-free writes.
//
// The wrapper implements shell.CoreCommandHandler, so it composes with the
// observable wrapper:
//
//	var writerLock sync.Mutex
//
//	addBook := singlewriter.NewCommandWrapperWithMutex[addbook.Command](
//		addbook.NewCommandHandler(stateStore), &writerLock)
//	checkout := singlewriter.NewCommandWrapperWithMutex[checkoutbyisbn.Command](
//		checkoutbyisbn.NewCommandHandler(stateStore), &writerLock)
//
//	observableAddBook, err := observable.NewCommandWrapper[addbook.Command](addBook, ...)
//
// Serialization applies to writers sharing the mutex only; query handlers
// stay unwrapped and read concurrently.
package singlewriter

package singlewriter_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/openshelf/circulation-go/core"
	"github.com/openshelf/circulation-go/features/command/addbook"
	"github.com/openshelf/circulation-go/features/command/checkoutbyisbn"
	"github.com/openshelf/circulation-go/shell"
	"github.com/openshelf/circulation-go/shell/singlewriter"
	"github.com/openshelf/circulation-go/statestore/memoryengine"
)

func Test_CommandWrapper_DelegatesToCoreHandler(t *testing.T) {
	// arrange
	expectedResult := shell.HandlerResult{Idempotent: true, RetryAttempts: 1}
	handler := &mockCoreHandler{result: expectedResult}
	wrapper := singlewriter.NewCommandWrapper[mockCommand](handler)

	// act
	result, err := wrapper.Handle(context.Background(), mockCommand{})

	// assert
	assert.NoError(t, err)
	assert.Equal(t, expectedResult, result, "Should pass the handler result through")
	assert.Equal(t, int32(1), handler.calls.Load(), "Should call handler once")
}

func Test_CommandWrapper_CanceledContext_FailsFastWithoutCallingHandler(t *testing.T) {
	// arrange
	handler := &mockCoreHandler{}
	wrapper := singlewriter.NewCommandWrapper[mockCommand](handler)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// act
	_, err := wrapper.Handle(ctx, mockCommand{})

	// assert
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(0), handler.calls.Load(), "Should not call handler for a dead command")
}

func Test_CommandWrapper_SharedMutexSerializesAcrossWrappers(t *testing.T) {
	defer goleak.VerifyNone(t)

	// arrange - two wrappers sharing one mutex around one overlap detector
	handler := &overlapDetectingHandler{}
	var writerLock sync.Mutex
	firstWrapper := singlewriter.NewCommandWrapperWithMutex[mockCommand](handler, &writerLock)
	secondWrapper := singlewriter.NewCommandWrapperWithMutex[mockCommand](handler, &writerLock)

	// act
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wrapper := firstWrapper
		if i%2 == 1 {
			wrapper = secondWrapper
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = wrapper.Handle(context.Background(), mockCommand{})
		}()
	}
	wg.Wait()

	// assert
	assert.Equal(t, int32(10), handler.calls.Load(), "Should execute every command")
	assert.False(t, handler.overlapped.Load(), "Should never run two commands at once")
}

func Test_CommandWrapper_ConcurrentCheckouts_SeeLatestStateWithoutConflicts(t *testing.T) {
	defer goleak.VerifyNone(t)

	// arrange - two copies of one title, all writers sharing one lock
	store := memoryengine.NewStateStore()
	var writerLock sync.Mutex

	wrappedAddBook := singlewriter.NewCommandWrapperWithMutex[addbook.Command](
		addbook.NewCommandHandler(store), &writerLock)
	wrappedCheckout := singlewriter.NewCommandWrapperWithMutex[checkoutbyisbn.Command](
		checkoutbyisbn.NewCommandHandler(store), &writerLock)

	for i := 0; i < 2; i++ {
		addCommand := addbook.BuildCommand(
			[]core.AuthorNameString{"Douglas Adams"},
			"The Hitchhiker's Guide to the Galaxy",
			"978-0345391803",
			"Some Librarian",
			time.Now(),
		)
		_, err := wrappedAddBook.Handle(context.Background(), addCommand)
		require.NoError(t, err)
	}

	// act - five borrowers race for the two copies
	type checkoutOutcome struct {
		result shell.HandlerResult
		err    error
	}

	borrowers := []core.BorrowerNameString{"Anna", "Bert", "Cleo", "Dana", "Egon"}
	outcomes := make(chan checkoutOutcome, len(borrowers))

	var wg sync.WaitGroup
	for _, borrower := range borrowers {
		checkoutCommand := checkoutbyisbn.BuildCommand("978-0345391803", borrower, time.Now())

		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := wrappedCheckout.Handle(context.Background(), checkoutCommand)
			outcomes <- checkoutOutcome{result: result, err: err}
		}()
	}
	wg.Wait()
	close(outcomes)

	// assert - both copies go out, the rest are no-ops, nobody retries
	var checkedOut, idempotent int
	for outcome := range outcomes {
		require.NoError(t, outcome.err)
		assert.Equal(t, 1, outcome.result.RetryAttempts, "Serialized writers should never hit a conflict")

		if outcome.result.Idempotent {
			idempotent++
		} else {
			checkedOut++
		}
	}

	assert.Equal(t, 2, checkedOut)
	assert.Equal(t, 3, idempotent)
}

// mockCommand implements shell.Command for testing.
type mockCommand struct{}

func (c mockCommand) CommandType() string {
	return "TestCommand"
}

// mockCoreHandler implements shell.CoreCommandHandler for testing.
type mockCoreHandler struct {
	result shell.HandlerResult
	err    error
	calls  atomic.Int32
}

func (h *mockCoreHandler) Handle(_ context.Context, _ mockCommand) (shell.HandlerResult, error) {
	h.calls.Add(1)
	return h.result, h.err
}

// overlapDetectingHandler records whether two commands ever ran concurrently.
type overlapDetectingHandler struct {
	active     atomic.Int32
	overlapped atomic.Bool
	calls      atomic.Int32
}

func (h *overlapDetectingHandler) Handle(_ context.Context, _ mockCommand) (shell.HandlerResult, error) {
	if h.active.Add(1) > 1 {
		h.overlapped.Store(true)
	}

	time.Sleep(time.Millisecond)

	h.active.Add(-1)
	h.calls.Add(1)

	return shell.HandlerResult{RetryAttempts: 1}, nil
}

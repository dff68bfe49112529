package shell

import (
	"errors"

	jsoniter "github.com/json-iterator/go"

	"github.com/openshelf/circulation-go/core"
	"github.com/openshelf/circulation-go/statestore"
)

// ErrMappingToLibraryStateFailed occurs when a stored payload cannot be unmarshaled.
var ErrMappingToLibraryStateFailed = errors.New("mapping to library state failed")

// LibraryStateFrom deserializes a stored state document back into the library
// state value. A zero StorableState, as returned by the engines when nothing
// was stored yet, yields the empty library state.
func LibraryStateFrom(storableState statestore.StorableState) (core.LibraryState, error) {
	if len(storableState.PayloadJSON) == 0 {
		return core.EmptyLibraryState(), nil
	}

	state := new(core.LibraryState)

	if err := jsoniter.ConfigFastest.Unmarshal(storableState.PayloadJSON, state); err != nil {
		return core.LibraryState{}, errors.Join(ErrMappingToLibraryStateFailed, err)
	}

	return *state, nil
}

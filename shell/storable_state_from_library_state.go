package shell

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/openshelf/circulation-go/core"
	"github.com/openshelf/circulation-go/statestore"
)

// LibraryStateType identifies the library state document in the state store.
// All features of the circulation system share this single document.
const LibraryStateType = "LibraryState"

// ErrMappingToStorableStateFailed occurs when the library state cannot be serialized.
var ErrMappingToStorableStateFailed = errors.New("mapping to storable state failed")

// StorableStateFrom serializes the library state and its command metadata into
// the statestore DTO. The updatedAt timestamp records when this version of the
// state was produced, which is the occurred-at time of the causing command.
func StorableStateFrom(state core.LibraryState, metadata CommandMetadata, updatedAt time.Time) (statestore.StorableState, error) {
	payloadJSON, marshalErr := json.Marshal(state)
	if marshalErr != nil {
		return statestore.StorableState{}, errors.Join(ErrMappingToStorableStateFailed, marshalErr)
	}

	metadataJSON, marshalErr := json.Marshal(metadata)
	if marshalErr != nil {
		return statestore.StorableState{}, errors.Join(ErrMappingToStorableStateFailed, marshalErr)
	}

	return statestore.BuildStorableState(LibraryStateType, updatedAt, payloadJSON, metadataJSON)
}

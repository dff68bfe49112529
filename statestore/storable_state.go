package statestore

import (
	"encoding/json"
	"errors"
	"time"
)

var (
	// ErrInvalidPayloadJSON occurs when the payload is not valid JSON.
	ErrInvalidPayloadJSON = errors.New("payload is not valid json")

	// ErrInvalidMetadataJSON occurs when the metadata is not valid JSON.
	ErrInvalidMetadataJSON = errors.New("metadata is not valid json")
)

// StorableState is a DTO (data transfer object) used by the state store to
// save state documents and load them back.
//
// It is built on scalars and raw JSON to be completely agnostic of the
// implementation of the domain state in the client code.
//
// While its properties are exported, to be used by the state store
// implementations, it should only be constructed with the supplied
// factory methods:
//   - BuildStorableState
//   - BuildStorableStateWithEmptyMetadata
type StorableState struct {
	StateType    string
	UpdatedAt    time.Time
	PayloadJSON  []byte
	MetadataJSON []byte
}

// BuildStorableState creates a StorableState with the given state type,
// update timestamp, payload and metadata. It validates that the state type
// is not empty and that payload and metadata are valid JSON.
func BuildStorableState(
	stateType string,
	updatedAt time.Time,
	payloadJSON []byte,
	metadataJSON []byte,
) (StorableState, error) {
	if stateType == "" {
		return StorableState{}, ErrEmptyStateTypeSupplied
	}

	if !json.Valid(payloadJSON) {
		return StorableState{}, ErrInvalidPayloadJSON
	}

	if !json.Valid(metadataJSON) {
		return StorableState{}, ErrInvalidMetadataJSON
	}

	return StorableState{
		StateType:    stateType,
		UpdatedAt:    updatedAt,
		PayloadJSON:  payloadJSON,
		MetadataJSON: metadataJSON,
	}, nil
}

// BuildStorableStateWithEmptyMetadata creates a StorableState with empty
// JSON metadata.
func BuildStorableStateWithEmptyMetadata(
	stateType string,
	updatedAt time.Time,
	payloadJSON []byte,
) (StorableState, error) {
	return BuildStorableState(stateType, updatedAt, payloadJSON, []byte(`{}`))
}

package shell

import (
	"errors"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/openshelf/circulation-go/statestore"
)

// ErrMappingToCommandMetadataFailed occurs when stored metadata cannot be unmarshaled.
var ErrMappingToCommandMetadataFailed = errors.New("mapping to command metadata failed")

// Type aliases for the message identity concepts.
type (
	// MessageID uniquely identifies one command message.
	MessageID = string

	// CausationID identifies the message that caused this one.
	CausationID = string

	// CorrelationID groups all messages belonging to one logical flow.
	CorrelationID = string
)

// CommandMetadata records which command produced a state version and how it
// relates to other messages. It is stored next to the state payload so that
// every version of the journal can be traced back to its cause.
type CommandMetadata struct {
	CommandType   string
	MessageID     MessageID
	CausationID   CausationID
	CorrelationID CorrelationID
}

// BuildCommandMetadata creates CommandMetadata from the given command type and UUIDs.
// For a command that starts a new flow, all three ids are typically the same UUID.
func BuildCommandMetadata(commandType string, messageID, causationID, correlationID uuid.UUID) CommandMetadata {
	return CommandMetadata{
		CommandType:   commandType,
		MessageID:     messageID.String(),
		CausationID:   causationID.String(),
		CorrelationID: correlationID.String(),
	}
}

// CommandMetadataFrom unmarshals the metadata of a stored state document.
func CommandMetadataFrom(storableState statestore.StorableState) (CommandMetadata, error) {
	metadata := new(CommandMetadata)

	if err := jsoniter.ConfigFastest.Unmarshal(storableState.MetadataJSON, metadata); err != nil {
		return CommandMetadata{}, errors.Join(ErrMappingToCommandMetadataFailed, err)
	}

	return *metadata, nil
}

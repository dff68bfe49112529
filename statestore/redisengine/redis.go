package redisengine

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/openshelf/circulation-go/statestore"
)

const (
	defaultKeyPrefix = "circulation"

	fieldVersion   = "version"
	fieldPayload   = "payload"
	fieldMetadata  = "metadata"
	fieldUpdatedAt = "updated_at"

	logMsgOperation           = "statestore operation: "
	logMsgStateLoaded         = "state loaded"
	logMsgStateSaved          = "state saved"
	logMsgConcurrencyConflict = "concurrency conflict detected"

	logAttrStateType       = "state_type"
	logAttrVersion         = "version"
	logAttrExpectedVersion = "expected_version"
	logAttrKey             = "key"
)

// ErrEmptyKeyPrefixSupplied occurs when an empty key prefix is supplied to an engine option.
var ErrEmptyKeyPrefixSupplied = errors.New("empty key prefix supplied")

// StateStore is a state store on top of a Redis hash per state type.
type StateStore struct {
	client    *redis.Client
	keyPrefix string
	logger    statestore.Logger
}

// Option defines a functional option for configuring StateStore.
type Option func(*StateStore) error

// WithKeyPrefix sets the key prefix under which state hashes are stored.
func WithKeyPrefix(prefix string) Option {
	return func(es *StateStore) error {
		if prefix == "" {
			return ErrEmptyKeyPrefixSupplied
		}

		es.keyPrefix = prefix

		return nil
	}
}

// WithLogger sets the logger for the StateStore.
func WithLogger(logger statestore.Logger) Option {
	return func(es *StateStore) error {
		es.logger = logger
		return nil
	}
}

// NewStateStore creates a new StateStore using a redis client with optional configuration.
func NewStateStore(client *redis.Client, options ...Option) (StateStore, error) {
	if client == nil {
		return StateStore{}, statestore.ErrNilDatabaseConnection
	}

	es := StateStore{
		client:    client,
		keyPrefix: defaultKeyPrefix,
	}

	for _, option := range options {
		if err := option(&es); err != nil {
			return StateStore{}, err
		}
	}

	return es, nil
}

// Load retrieves the newest state document with the given state type together
// with its version number. A state type that was never saved yields a zero
// statestore.StorableState and version 0, without an error.
func (es StateStore) Load(ctx context.Context, stateType string) (
	statestore.StorableState,
	statestore.VersionUint,
	error,
) {

	var empty statestore.StorableState

	if stateType == "" {
		return empty, 0, statestore.ErrEmptyStateTypeSupplied
	}

	key := es.stateKey(stateType)

	fields, getErr := es.client.HGetAll(ctx, key).Result()
	if getErr != nil {
		return empty, 0, errors.Join(statestore.ErrLoadingStateFailed, getErr)
	}

	if len(fields) == 0 {
		return empty, 0, nil // nothing stored yet for this state type
	}

	version, versionErr := strconv.ParseUint(fields[fieldVersion], 10, 64)
	if versionErr != nil {
		return empty, 0, errors.Join(statestore.ErrScanningDBRowFailed, versionErr)
	}

	updatedAt, parseErr := time.Parse(time.RFC3339Nano, fields[fieldUpdatedAt])
	if parseErr != nil {
		return empty, 0, errors.Join(statestore.ErrScanningDBRowFailed, parseErr)
	}

	storableState, buildErr := statestore.BuildStorableState(
		stateType,
		updatedAt,
		[]byte(fields[fieldPayload]),
		[]byte(fields[fieldMetadata]),
	)
	if buildErr != nil {
		return empty, 0, errors.Join(statestore.ErrBuildingStorableStateFailed, buildErr)
	}

	es.logOperation(logMsgStateLoaded, logAttrStateType, stateType, logAttrVersion, version)

	return storableState, statestore.VersionUint(version), nil
}

// Save replaces the state hash with the next version, guarded by the expected
// version. The current version is re-read under WATCH; when it no longer
// matches, or a competing writer touches the key before the transaction
// commits, statestore.ErrConcurrencyConflict is returned.
func (es StateStore) Save(
	ctx context.Context,
	expectedVersion statestore.VersionUint,
	storableState statestore.StorableState,
) error {

	if storableState.StateType == "" {
		return statestore.ErrEmptyStateTypeSupplied
	}

	key := es.stateKey(storableState.StateType)

	txErr := es.client.Watch(ctx, func(tx *redis.Tx) error {
		currentVersion, versionErr := es.currentVersion(ctx, tx, key)
		if versionErr != nil {
			return versionErr
		}

		if currentVersion != expectedVersion {
			return statestore.ErrConcurrencyConflict
		}

		_, pipeErr := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key,
				fieldVersion, strconv.FormatUint(uint64(expectedVersion)+1, 10),
				fieldPayload, string(storableState.PayloadJSON),
				fieldMetadata, string(storableState.MetadataJSON),
				fieldUpdatedAt, storableState.UpdatedAt.UTC().Format(time.RFC3339Nano),
			)

			return nil
		})

		return pipeErr
	}, key)

	switch {
	case errors.Is(txErr, redis.TxFailedErr):
		es.logOperation(logMsgConcurrencyConflict,
			logAttrStateType, storableState.StateType,
			logAttrExpectedVersion, expectedVersion,
			logAttrKey, key)

		return statestore.ErrConcurrencyConflict

	case errors.Is(txErr, statestore.ErrConcurrencyConflict):
		es.logOperation(logMsgConcurrencyConflict,
			logAttrStateType, storableState.StateType,
			logAttrExpectedVersion, expectedVersion,
			logAttrKey, key)

		return statestore.ErrConcurrencyConflict

	case txErr != nil:
		return errors.Join(statestore.ErrSavingStateFailed, txErr)
	}

	es.logOperation(logMsgStateSaved,
		logAttrStateType, storableState.StateType,
		logAttrVersion, expectedVersion+1)

	return nil
}

// currentVersion reads the stored version inside the transaction; a missing
// key counts as version 0.
func (es StateStore) currentVersion(ctx context.Context, tx *redis.Tx, key string) (statestore.VersionUint, error) {
	version, err := tx.HGet(ctx, key, fieldVersion).Uint64()

	switch {
	case errors.Is(err, redis.Nil):
		return 0, nil
	case err != nil:
		return 0, errors.Join(statestore.ErrLoadingStateFailed, err)
	}

	return statestore.VersionUint(version), nil
}

func (es StateStore) stateKey(stateType string) string {
	return es.keyPrefix + ":" + stateType
}

func (es StateStore) logOperation(action string, args ...any) {
	if es.logger != nil {
		es.logger.Info(logMsgOperation+action, args...)
	}
}

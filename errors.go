package goSession

import "errors"

var (
	// ErrRedisRequired is returned by Build when no Redis client was supplied.
	ErrRedisRequired = errors.New("redis client required")
	// ErrBuilderUsed is returned when Build is called twice on the same Builder.
	ErrBuilderUsed = errors.New("builder already used")
	// ErrInvalidConfig wraps every configuration validation failure.
	ErrInvalidConfig = errors.New("invalid session store config")
	// ErrInvalidStoreOption is returned when a known store option carries an unusable value.
	ErrInvalidStoreOption = errors.New("invalid store option")
	// ErrCommitConflict is returned when a transactional write lost the race on every allowed attempt.
	ErrCommitConflict = errors.New("session commit conflict")
	// ErrNilIdentifier is returned when a write is attempted without a session identifier.
	ErrNilIdentifier = errors.New("nil session identifier")
	// ErrIDGeneration wraps failures of the random source behind new identifiers.
	ErrIDGeneration = errors.New("session id generation failed")
	// ErrRedisUnavailable is returned by Ping when Redis does not answer.
	ErrRedisUnavailable = errors.New("redis unavailable")
)

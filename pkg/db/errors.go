package db

import "errors"

var (
	ErrFailedToParseDBConfig    = errors.New("db: failed to parse database configuration")
	ErrFailedToOpenDBConnection = errors.New("db: failed to open database connection")
	ErrAcquireTimeout           = errors.New("db: timed out acquiring a connection")
	ErrAcquireFailed            = errors.New("db: failed to acquire a connection")
	ErrBeginFailed              = errors.New("db: failed to begin transaction")
	ErrCommitFailed             = errors.New("db: failed to commit transaction")
	ErrHealthcheckFailed        = errors.New("db: healthcheck failed")
	ErrSetDialect               = errors.New("db migrator: failed to set dialect")
	ErrApplyMigrations          = errors.New("db migrator: failed to apply migrations")
)

package model

// DBCursor walks the entries of a single bucket in key order. The state
// store replays per-block diffs through it.
type DBCursor interface {
	// Next advances to the next entry and reports whether one exists
	Next() bool

	// First rewinds to the first entry and reports whether one exists
	First() bool

	// Seek positions the cursor at the first key that is not less than key,
	// or returns ErrNotFound
	Seek(key DBKey) error

	// Key and Value return ErrNotFound once the cursor is exhausted. The
	// returned bytes are only valid until the next move.
	Key() (DBKey, error)
	Value() ([]byte, error)

	Close() error
}

// DBReader is the read side shared by the database and its transactions
type DBReader interface {
	// Get returns ErrNotFound for a missing key
	Get(key DBKey) ([]byte, error)
	Has(key DBKey) (bool, error)
	Cursor(bucket DBBucket) (DBCursor, error)
}

// DBWriter adds writes to DBReader. Deleting a missing key is not an error.
type DBWriter interface {
	DBReader
	Put(key DBKey, value []byte) error
	Delete(key DBKey) error
}

// DBTransaction groups the writes of one staging area commit
type DBTransaction interface {
	DBWriter
	Commit() error
	Rollback() error

	// RollbackUnlessClosed is meant to be deferred right after Begin
	RollbackUnlessClosed() error
}

// DBManager is the database handle stores read through and commit into
type DBManager interface {
	DBWriter
	Begin() (DBTransaction, error)
}

// DBKey is a bucket path plus a suffix
type DBKey interface {
	Bytes() []byte
	Bucket() DBBucket
	Suffix() []byte
}

// DBBucket is a key prefix. Nested buckets extend the path.
type DBBucket interface {
	Bucket(bucketBytes []byte) DBBucket
	Key(suffix []byte) DBKey
	Path() []byte
}

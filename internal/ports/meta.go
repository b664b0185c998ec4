package ports

import "context"

// MetaStore keeps schema bookkeeping values alongside the lab tables.
type MetaStore interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key string, value string) error
}

const (
	MetaSchemaFingerprint = "schema.fingerprint"
	MetaMaterializedAt    = "schema.materialized_at"
)

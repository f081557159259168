package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// IndexChecker checks that the asset search index is usable.
type IndexChecker interface {
	IndexReady(ctx context.Context) error
}

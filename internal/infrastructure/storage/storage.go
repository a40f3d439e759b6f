package storage

import "context"

// DumpSink receives a serialized raw batch for debugging. Dump failures
// are advisory; the pipeline logs and moves on.
type DumpSink interface {
	Dump(ctx context.Context, name string, data []byte) error
}

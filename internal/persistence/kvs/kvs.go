// Package kvs is the region-keyed key-value store shared between runners
// and the partitioner. All records are last-writer-wins; the only
// versioning is the step timestamp embedded in the value.
package kvs

import (
	"github.com/google/uuid"

	"physgrid.dev/internal/sim/object"
)

// Store is the persistence client. Warm and watch records are keyed by
// region, cold records by body uuid.
type Store interface {
	PutWarmSet(region string, set object.WarmSet) error
	GetWarmSet(region string) (object.WarmSet, bool, error)

	PutWatchSet(region string, set object.WatchSet) error
	GetWatchSet(region string) (object.WatchSet, bool, error)

	PutColdBody(id uuid.UUID, cold object.Cold) error
	GetColdBody(id uuid.UUID) (object.Cold, bool, error)

	// PutRunner registers a runner as available for region assignment.
	PutRunner(id uuid.UUID) error

	Close() error
}

func warmKey(region string) string  { return "warm/" + region }
func watchKey(region string) string { return "watch/" + region }
func coldKey(id uuid.UUID) string   { return "cold/" + id.String() }
func runnerKey(id uuid.UUID) string { return "runner/" + id.String() }

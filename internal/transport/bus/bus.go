// Package bus is the at-least-once pub/sub transport between runners and
// the partitioner. Topics are cheap strings; a runner listens on its own
// identity topic and on the topic of the region it currently owns.
package bus

import "github.com/google/uuid"

// PartitionerTopic carries runner registrations, step acks, and reassign
// broadcasts.
const PartitionerTopic = "partitioner"

// RunnerTopic addresses one runner process directly.
func RunnerTopic(id uuid.UUID) string { return "runner/" + id.String() }

// RegionTopic addresses whichever runner currently owns a region; used
// for migration sends, where the sender knows the destination region but
// not its owner.
func RegionTopic(key string) string { return "region/" + key }

type Bus interface {
	Publish(topic string, payload []byte) error
	// Subscribe returns a channel of payloads for topic. Delivery into the
	// channel is non-blocking: a subscriber that stops draining loses
	// messages instead of stalling the bus.
	Subscribe(topic string) (<-chan []byte, error)
	Unsubscribe(topic string) error
	Close() error
}

package bus

import "sync"

// Memory is an in-process Bus for tests and single-process setups.
type Memory struct {
	mu   sync.Mutex
	subs map[string][]chan []byte
}

func NewMemory() *Memory {
	return &Memory{subs: map[string][]chan []byte{}}
}

func (b *Memory) Publish(topic string, payload []byte) error {
	b.mu.Lock()
	chans := append([]chan []byte(nil), b.subs[topic]...)
	b.mu.Unlock()

	for _, ch := range chans {
		cp := append([]byte(nil), payload...)
		select {
		case ch <- cp:
		default:
		}
	}
	return nil
}

func (b *Memory) Subscribe(topic string) (<-chan []byte, error) {
	ch := make(chan []byte, 256)
	b.mu.Lock()
	b.subs[topic] = append(b.subs[topic], ch)
	b.mu.Unlock()
	return ch, nil
}

func (b *Memory) Unsubscribe(topic string) error {
	b.mu.Lock()
	delete(b.subs, topic)
	b.mu.Unlock()
	return nil
}

func (b *Memory) Close() error {
	b.mu.Lock()
	b.subs = map[string][]chan []byte{}
	b.mu.Unlock()
	return nil
}

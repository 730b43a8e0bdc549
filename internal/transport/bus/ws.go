package bus

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	opPub   = "pub"
	opSub   = "sub"
	opUnsub = "unsub"
)

type envelope struct {
	Op      string          `json:"op"`
	Topic   string          `json:"topic"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// WS is a Bus over a single websocket connection to a broker speaking
// {op, topic, payload} envelopes.
type WS struct {
	conn *websocket.Conn
	log  *log.Logger

	writeMu sync.Mutex

	mu   sync.Mutex
	subs map[string]chan []byte

	done chan struct{}
}

func DialWS(url string, logger *log.Logger) (*WS, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("bus dial %s: %w", url, err)
	}
	b := &WS{
		conn: conn,
		log:  logger,
		subs: map[string]chan []byte{},
		done: make(chan struct{}),
	}
	go b.readLoop()
	return b, nil
}

func (b *WS) readLoop() {
	for {
		_, msg, err := b.conn.ReadMessage()
		if err != nil {
			select {
			case <-b.done:
			default:
				b.log.Printf("bus: read: %v", err)
			}
			return
		}
		var env envelope
		if err := json.Unmarshal(msg, &env); err != nil {
			b.log.Printf("bus: bad envelope: %v", err)
			continue
		}
		if env.Op != opPub {
			continue
		}
		b.mu.Lock()
		ch := b.subs[env.Topic]
		b.mu.Unlock()
		if ch == nil {
			continue
		}
		select {
		case ch <- []byte(env.Payload):
		default:
			b.log.Printf("bus: dropping message on %s (subscriber behind)", env.Topic)
		}
	}
}

func (b *WS) write(env envelope) error {
	b.writeMu.Lock()
	defer b.writeMu.Unlock()
	_ = b.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if err := b.conn.WriteJSON(env); err != nil {
		return fmt.Errorf("bus write %s %s: %w", env.Op, env.Topic, err)
	}
	return nil
}

func (b *WS) Publish(topic string, payload []byte) error {
	return b.write(envelope{Op: opPub, Topic: topic, Payload: payload})
}

func (b *WS) Subscribe(topic string) (<-chan []byte, error) {
	ch := make(chan []byte, 256)
	b.mu.Lock()
	b.subs[topic] = ch
	b.mu.Unlock()
	if err := b.write(envelope{Op: opSub, Topic: topic}); err != nil {
		b.mu.Lock()
		delete(b.subs, topic)
		b.mu.Unlock()
		return nil, err
	}
	return ch, nil
}

func (b *WS) Unsubscribe(topic string) error {
	b.mu.Lock()
	delete(b.subs, topic)
	b.mu.Unlock()
	return b.write(envelope{Op: opUnsub, Topic: topic})
}

func (b *WS) Close() error {
	close(b.done)
	return b.conn.Close()
}

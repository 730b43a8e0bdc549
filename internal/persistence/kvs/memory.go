package kvs

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"

	"physgrid.dev/internal/sim/object"
)

// Memory is an in-process Store used by tests and single-node setups.
type Memory struct {
	mu sync.Mutex
	m  map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{m: map[string][]byte{}}
}

func (s *Memory) put(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.m[key] = raw
	s.mu.Unlock()
	return nil
}

func (s *Memory) get(key string, out any) (bool, error) {
	s.mu.Lock()
	raw, ok := s.m[key]
	s.mu.Unlock()
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, out)
}

func (s *Memory) PutWarmSet(region string, set object.WarmSet) error {
	return s.put(warmKey(region), set)
}

func (s *Memory) GetWarmSet(region string) (object.WarmSet, bool, error) {
	var set object.WarmSet
	ok, err := s.get(warmKey(region), &set)
	return set, ok, err
}

func (s *Memory) PutWatchSet(region string, set object.WatchSet) error {
	return s.put(watchKey(region), set)
}

func (s *Memory) GetWatchSet(region string) (object.WatchSet, bool, error) {
	var set object.WatchSet
	ok, err := s.get(watchKey(region), &set)
	return set, ok, err
}

func (s *Memory) PutColdBody(id uuid.UUID, cold object.Cold) error {
	return s.put(coldKey(id), cold)
}

func (s *Memory) GetColdBody(id uuid.UUID) (object.Cold, bool, error) {
	var cold object.Cold
	ok, err := s.get(coldKey(id), &cold)
	return cold, ok, err
}

func (s *Memory) PutRunner(id uuid.UUID) error {
	return s.put(runnerKey(id), struct{}{})
}

func (s *Memory) Close() error { return nil }

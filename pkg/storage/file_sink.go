package storage

import (
	"bufio"
	"encoding/json"
	"os"
	"sync"

	"github.com/bttger/bloomberg-exchange-hackatum2022/pkg/engine"
)

// FileSink appends events as JSON lines to a single file.
type FileSink struct {
	mu  sync.Mutex
	f   *os.File
	enc *json.Encoder
}

func NewFileSink(path string) (*FileSink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	return &FileSink{f: f, enc: json.NewEncoder(f)}, nil
}

func (s *FileSink) Append(ev engine.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enc.Encode(ev)
}

func (s *FileSink) Close() error { return s.f.Close() }

// ReadFileEvents loads every event from a FileSink file, in append order.
func ReadFileEvents(path string) ([]engine.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var events []engine.Event
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var ev engine.Event
		if err := json.Unmarshal(sc.Bytes(), &ev); err != nil {
			continue
		}
		events = append(events, ev)
	}
	return events, sc.Err()
}

var _ engine.EventSink = (*FileSink)(nil)

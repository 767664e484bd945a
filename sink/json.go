package sink

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"go.jacobcolvin.com/chirp"
)

// Record is the JSON representation of an event written by [JSON] and
// [File].
type Record struct {
	Time     time.Time `json:"time"`
	Session  string    `json:"session,omitempty"`
	Caller   *Caller   `json:"caller,omitempty"`
	Level    string    `json:"level"`
	Channel  string    `json:"channel,omitempty"`
	Color    string    `json:"color,omitempty"`
	Message  string    `json:"msg"`
	Error    string    `json:"error,omitempty"`
	Messages []string  `json:"messages,omitempty"`
}

// Caller is the call site of a [Record].
type Caller struct {
	Function string `json:"function"`
	File     string `json:"file"`
	Line     int    `json:"line"`
}

// NewRecord converts evt to a [Record]. Message values are rendered with
// [fmt.Sprint]; Messages is omitted for single-value payloads.
func NewRecord(evt chirp.Event) Record {
	rec := Record{
		Time:    evt.Time(),
		Level:   evt.Level().String(),
		Message: evt.Message(),
	}

	if ch := evt.Channel(); ch != nil {
		rec.Channel = ch.ID()
		rec.Color = ch.Color().Hex()
	}

	if err := evt.Err(); err != nil {
		rec.Error = err.Error()
	}

	if msgs := evt.Messages(); len(msgs) > 1 {
		rec.Messages = make([]string, len(msgs))
		for i, m := range msgs {
			rec.Messages[i] = fmt.Sprint(m)
		}
	}

	if f, ok := evt.Caller(); ok {
		rec.Caller = &Caller{Function: f.Function, File: f.File, Line: f.Line}
	}

	return rec
}

// JSON is a [chirp.Sink] writing one JSON object per line to an
// [io.Writer]. Each Initialize starts a new session whose id is stamped on
// every record, so runs appending to the same output can be told apart.
// Safe for concurrent use.
type JSON struct {
	enc     *json.Encoder
	session string
	mu      sync.Mutex
}

var _ chirp.Sink = (*JSON)(nil)

// NewJSON creates a [JSON] sink writing to w.
func NewJSON(w io.Writer) *JSON {
	return &JSON{enc: json.NewEncoder(w), session: uuid.NewString()}
}

// Session returns the current session id.
func (j *JSON) Session() string {
	j.mu.Lock()
	defer j.mu.Unlock()

	return j.session
}

// Initialize implements [chirp.Sink]. It starts a new session.
func (j *JSON) Initialize() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.session = uuid.NewString()

	return nil
}

// Destroy implements [chirp.Sink].
func (j *JSON) Destroy() error { return nil }

// Append implements [chirp.Sink].
func (j *JSON) Append(evt chirp.Event) error {
	rec := NewRecord(evt)

	j.mu.Lock()
	defer j.mu.Unlock()

	rec.Session = j.session

	err := j.enc.Encode(rec)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	return nil
}

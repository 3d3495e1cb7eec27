// Package progrock renders run phases as progrock vertices.
package progrock

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
	"go.trai.ch/wasmc/internal/core/domain"
	"go.trai.ch/wasmc/internal/core/ports"
)

// Recorder implements ports.Tracer by recording one vertex per span.
type Recorder struct {
	w   progrock.Writer
	rec *progrock.Recorder
	seq atomic.Uint64
}

// New creates a new Recorder with a default tape.
func New() *Recorder {
	return NewRecorder(progrock.NewTape())
}

// NewRecorder creates a new Recorder with the given writer.
func NewRecorder(w progrock.Writer) *Recorder {
	return &Recorder{
		w:   w,
		rec: progrock.NewRecorder(w),
	}
}

// Start begins a vertex named after the span. Every span gets its own vertex,
// even when phases of different runs share a name.
func (r *Recorder) Start(ctx context.Context, name string) (context.Context, ports.Span) {
	id := strconv.FormatUint(r.seq.Add(1), 10)
	v := r.rec.Vertex(digest.FromString(id+"/"+name), name)
	return ctx, &Span{vertex: v}
}

// Close flushes and closes the recording session.
func (r *Recorder) Close() error {
	if c, ok := r.w.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

// Span wraps *progrock.VertexRecorder.
type Span struct {
	vertex *progrock.VertexRecorder

	mu  sync.Mutex
	err error
}

// End marks the vertex as finished with the last recorded error.
func (s *Span) End() {
	s.mu.Lock()
	err := s.err
	s.mu.Unlock()
	s.vertex.Done(err)
}

// RecordError remembers err for End.
func (s *Span) RecordError(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

// SetAttribute marks the vertex cached on a cache hit and writes other
// attributes to the vertex output.
func (s *Span) SetAttribute(key string, value any) {
	if key == domain.AttrCacheHit {
		if hit, ok := value.(bool); ok && hit {
			s.vertex.Cached()
		}
		return
	}
	writeAttribute(s.vertex.Stdout(), key, value)
}

var (
	_ ports.Tracer = (*Recorder)(nil)
	_ ports.Span   = (*Span)(nil)
)

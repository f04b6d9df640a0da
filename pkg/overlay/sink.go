package overlay

import (
	"context"
	"sync"
)

// Sink receives finished frames. The external renderer implements it; the
// transform never holds a renderer reference itself.
type Sink interface {
	Draw(ctx context.Context, f Frame) error
}

// SinkFunc adapts a function to [Sink].
type SinkFunc func(ctx context.Context, f Frame) error

// Draw calls fn.
func (fn SinkFunc) Draw(ctx context.Context, f Frame) error { return fn(ctx, f) }

// Recorder is a Sink that keeps every frame it is given. It is safe for
// concurrent use.
type Recorder struct {
	mu     sync.Mutex
	frames []Frame
}

// Draw records f.
func (r *Recorder) Draw(ctx context.Context, f Frame) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, f)
	return nil
}

// Frames returns a copy of the recorded frames.
func (r *Recorder) Frames() []Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Frame(nil), r.frames...)
}

// Last returns the most recent frame, if any.
func (r *Recorder) Last() (Frame, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.frames) == 0 {
		return Frame{}, false
	}
	return r.frames[len(r.frames)-1], true
}

// Redraw formats in and hands the frame to s.
func Redraw(ctx context.Context, s Sink, in Input) (Frame, error) {
	f, err := Format(ctx, in)
	if err != nil {
		return Frame{}, err
	}
	return f, s.Draw(ctx, f)
}

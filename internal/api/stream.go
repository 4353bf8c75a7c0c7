package api

import (
	"context"
	"strings"

	"github.com/Elijahuni/chatbot-1/internal/models"
)

// ChunkStream yields the text fragments of a streamed reply.
// Next advances to the following non-empty fragment; once it returns false
// Err reports whether the stream ended in failure.
type ChunkStream interface {
	Next() bool
	Current() string
	Err() error
	Close() error
}

// Streamer starts a streamed chat completion for an ordered message list
type Streamer interface {
	StreamChat(ctx context.Context, messages []models.Message) ChunkStream
}

// ChatClient is the client surface used by the commands and the TUI
type ChatClient interface {
	Streamer
	GetModel() models.Model
	SetModel(model models.Model)
	Close()
}

// Collect drains a stream, passing every fragment to onChunk in arrival order.
// It returns the concatenated text and the stream error, if any. The partial
// text is returned alongside an error so callers can show what arrived.
func Collect(stream ChunkStream, onChunk func(string)) (string, error) {
	defer stream.Close()

	var sb strings.Builder
	for stream.Next() {
		chunk := stream.Current()
		sb.WriteString(chunk)
		if onChunk != nil {
			onChunk(chunk)
		}
	}
	return sb.String(), stream.Err()
}

// SliceStream replays a fixed list of fragments and then reports err
type SliceStream struct {
	ctx    context.Context
	chunks []string
	err    error
	pos    int
	closed bool
}

// NewSliceStream creates a stream over chunks. Empty fragments are skipped.
func NewSliceStream(ctx context.Context, chunks []string, err error) *SliceStream {
	if ctx == nil {
		ctx = context.Background()
	}
	return &SliceStream{ctx: ctx, chunks: chunks, err: err, pos: -1}
}

func (s *SliceStream) Next() bool {
	if s.closed {
		return false
	}
	for s.pos+1 < len(s.chunks) {
		if s.ctx.Err() != nil {
			return false
		}
		s.pos++
		if s.chunks[s.pos] != "" {
			return true
		}
	}
	return false
}

func (s *SliceStream) Current() string {
	if s.pos < 0 || s.pos >= len(s.chunks) {
		return ""
	}
	return s.chunks[s.pos]
}

func (s *SliceStream) Err() error {
	if err := s.ctx.Err(); err != nil {
		return err
	}
	if s.pos+1 < len(s.chunks) && !s.closed {
		return nil
	}
	return s.err
}

func (s *SliceStream) Close() error {
	s.closed = true
	return nil
}

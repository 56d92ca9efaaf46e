// Package engine drives the heist narrative. It wraps an llm.Provider in a
// conversational client: each running heist is a handle, the engine keeps
// the full conversation for that handle, and callers only ever send the
// latest player input.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/abhisek/specter/internal/llm"
)

// Handle identifies one running heist conversation.
type Handle string

// Engine is the narrative game master.
type Engine interface {
	// Start opens a new heist around documentText and returns the opening
	// briefing. The document is truncated to MaxDocumentChars before it is
	// sent.
	Start(ctx context.Context, documentText string) (Handle, *Response, error)

	// Send continues the conversation identified by handle with one player
	// message.
	Send(ctx context.Context, handle Handle, text string) (*Response, error)

	// Close discards the conversation for handle. Closing an unknown
	// handle is a no-op.
	Close(handle Handle)
}

// Config tunes the underlying LLM calls.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns the standard engine tuning.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   4096,
		Temperature: 0.7,
	}
}

// ErrUnknownHandle is returned by Send for a handle the engine does not
// hold, including handles discarded by Close.
var ErrUnknownHandle = fmt.Errorf("engine: unknown session handle")

type llmEngine struct {
	provider llm.Provider
	cfg      Config

	mu            sync.Mutex
	conversations map[Handle][]llm.Message
}

// New returns an Engine backed by provider.
func New(provider llm.Provider, cfg Config) Engine {
	if cfg.MaxTokens == 0 {
		cfg = DefaultConfig()
	}
	return &llmEngine{
		provider:      provider,
		cfg:           cfg,
		conversations: make(map[Handle][]llm.Message),
	}
}

func (e *llmEngine) Start(ctx context.Context, documentText string) (Handle, *Response, error) {
	handle := Handle(uuid.NewString())
	opening := llm.Message{Role: llm.RoleUser, Content: briefingMessage(documentText)}

	resp, raw, err := e.generate(ctx, "heist-briefing", []llm.Message{opening})
	if err != nil {
		return "", nil, err
	}

	e.mu.Lock()
	e.conversations[handle] = []llm.Message{
		opening,
		{Role: llm.RoleAssistant, Content: string(raw)},
	}
	e.mu.Unlock()

	return handle, resp, nil
}

func (e *llmEngine) Send(ctx context.Context, handle Handle, text string) (*Response, error) {
	e.mu.Lock()
	history, ok := e.conversations[handle]
	e.mu.Unlock()
	if !ok {
		return nil, ErrUnknownHandle
	}

	messages := make([]llm.Message, len(history), len(history)+1)
	copy(messages, history)
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: text})

	resp, raw, err := e.generate(ctx, "heist-turn", messages)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	// The conversation may have been closed while the call was in flight.
	// Advancing a dead handle would resurrect it, so check again.
	if _, live := e.conversations[handle]; live {
		e.conversations[handle] = append(messages, llm.Message{Role: llm.RoleAssistant, Content: string(raw)})
	}
	e.mu.Unlock()

	return resp, nil
}

func (e *llmEngine) Close(handle Handle) {
	e.mu.Lock()
	delete(e.conversations, handle)
	e.mu.Unlock()
}

func (e *llmEngine) generate(ctx context.Context, purpose string, messages []llm.Message) (*Response, json.RawMessage, error) {
	ctx = llm.WithPurpose(ctx, purpose)

	out, err := e.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Messages:    messages,
		Schema:      TurnSchema,
		MaxTokens:   e.cfg.MaxTokens,
		Temperature: e.cfg.Temperature,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("engine generate: %w", err)
	}

	resp, err := decodeResponse(out.Content)
	if err != nil {
		return nil, nil, err
	}
	return resp, out.Content, nil
}

// Static is an Engine with canned responses, for tests and offline demo
// runs. Responses are served FIFO and shared across handles.
type Static struct {
	mu        sync.Mutex
	responses []*Response
	handles   map[Handle]bool

	// Calls records every player message sent through Start or Send.
	Calls []string
}

// NewStatic returns a Static engine that will serve the given responses
// in order.
func NewStatic(responses ...*Response) *Static {
	return &Static{
		responses: responses,
		handles:   make(map[Handle]bool),
	}
}

func (s *Static) Start(ctx context.Context, documentText string) (Handle, *Response, error) {
	resp, err := s.next(documentText)
	if err != nil {
		return "", nil, err
	}
	handle := Handle(uuid.NewString())
	s.mu.Lock()
	s.handles[handle] = true
	s.mu.Unlock()
	return handle, resp, nil
}

func (s *Static) Send(ctx context.Context, handle Handle, text string) (*Response, error) {
	s.mu.Lock()
	live := s.handles[handle]
	s.mu.Unlock()
	if !live {
		return nil, ErrUnknownHandle
	}
	return s.next(text)
}

func (s *Static) Close(handle Handle) {
	s.mu.Lock()
	delete(s.handles, handle)
	s.mu.Unlock()
}

func (s *Static) next(input string) (*Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, input)
	if len(s.responses) == 0 {
		return nil, fmt.Errorf("static engine: no responses left")
	}
	resp := s.responses[0]
	s.responses = s.responses[1:]
	return resp, nil
}

// StaticResponse builds a minimal Response for canned scripts.
func StaticResponse(markdown string) *Response {
	return &Response{Markdown: markdown}
}

var _ Engine = (*llmEngine)(nil)
var _ Engine = (*Static)(nil)

// Package log implements the severity-leveled logging used throughout the
// stack. Components never write to stdout directly; they build a Message and
// hand it to Record, so the active Handler decides format and destination.
package log

import (
	"fmt"
	"sync"
	"time"
)

// Severity controls whether a message is surfaced, and at what level.
type Severity int32

const (
	Severity_Unknown Severity = 0
	Severity_Error   Severity = 1
	Severity_Warning Severity = 2
	Severity_Info    Severity = 3
	Severity_Debug   Severity = 4
)

func (s Severity) String() string {
	switch s {
	case Severity_Error:
		return "Error"
	case Severity_Warning:
		return "Warning"
	case Severity_Info:
		return "Info"
	case Severity_Debug:
		return "Debug"
	default:
		return "Unknown"
	}
}

// Message is anything that can be recorded by a Handler.
type Message interface {
	String() string
}

// GeneralMessage wraps an arbitrary payload with a severity.
type GeneralMessage struct {
	Severity Severity
	Content  interface{}
}

func (m *GeneralMessage) String() string {
	return fmt.Sprintf("[%s] %v", m.Severity, m.Content)
}

// Handler receives every message recorded at or below the configured level.
type Handler interface {
	Handle(msg Message)
}

type syncHandler struct {
	sync.RWMutex
	Handler
}

func (h *syncHandler) Set(handler Handler) {
	h.Lock()
	defer h.Unlock()
	h.Handler = handler
}

func (h *syncHandler) Handle(msg Message) {
	h.RLock()
	defer h.RUnlock()
	if h.Handler != nil {
		h.Handler.Handle(msg)
	}
}

var streamLoggerInstance = syncHandler{Handler: NewConsoleHandler(Severity_Info)}

// RegisterHandler replaces the process-wide log handler.
func RegisterHandler(handler Handler) {
	if handler == nil {
		panic("nil handler")
	}
	streamLoggerInstance.Set(handler)
}

// Record hands a message to the active handler. Safe for concurrent use by
// both the main thread and the interrupt worker.
func Record(msg Message) {
	streamLoggerInstance.Handle(msg)
}

// ConsoleHandler writes messages at or above its minimum severity to
// standard output, timestamped.
type ConsoleHandler struct {
	min Severity
	mu  sync.Mutex
}

// NewConsoleHandler creates a Handler that drops messages whose severity is
// numerically greater (i.e. less urgent) than min.
func NewConsoleHandler(min Severity) *ConsoleHandler {
	return &ConsoleHandler{min: min}
}

func (h *ConsoleHandler) Handle(msg Message) {
	sev := Severity_Info
	if gm, ok := msg.(*GeneralMessage); ok {
		sev = gm.Severity
	}
	if sev > h.min {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	fmt.Printf("%s %s\n", time.Now().Format("2006/01/02 15:04:05.000000"), msg.String())
}

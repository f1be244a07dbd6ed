package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandlerRegistry_Register(t *testing.T) {
	registry := NewHandlerRegistry()
	typed := &recordingHandler{}
	wildcard := &recordingHandler{}

	registry.Register(typed, "QuoteCreated", "QuoteContentChanged")
	registry.Register(wildcard)

	handlers := registry.GetHandlers("QuoteCreated")
	assert.Len(t, handlers, 2)
	assert.Same(t, typed, handlers[0])
	assert.Same(t, wildcard, handlers[1])

	handlers = registry.GetHandlers("InvoiceCreated")
	assert.Len(t, handlers, 1)
	assert.Same(t, wildcard, handlers[0])
}

func TestHandlerRegistry_Unregister(t *testing.T) {
	registry := NewHandlerRegistry()
	a := &recordingHandler{}
	b := &recordingHandler{}

	registry.Register(a, "QuoteCreated")
	registry.Register(b, "QuoteCreated")
	registry.Register(a)

	registry.Unregister(a)

	handlers := registry.GetHandlers("QuoteCreated")
	assert.Len(t, handlers, 1)
	assert.Same(t, b, handlers[0])

	registry.Unregister(b)
	assert.Empty(t, registry.GetHandlers("QuoteCreated"))
	assert.Empty(t, registry.handlers)
}

package rag

import "context"

// MockClient devuelve respuestas fijas; útil en tests y ambientes sin API RAG.
type MockClient struct {
	Answer string
	Err    error
	Calls  int
}

func (m *MockClient) Ask(_ context.Context, question string, _ []Message) (string, error) {
	m.Calls++
	if m.Err != nil {
		return "", m.Err
	}
	if m.Answer != "" {
		return m.Answer, nil
	}
	return "mock answer to: " + question, nil
}

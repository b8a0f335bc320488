package llm

import "context"

// MockClient is a test double for the LLM Client interface.
type MockClient struct {
	Response *Response
	Err      error
	Queue    []*Response // consumed in order before falling back to Response
	Calls    []string    // records prompts sent
}

// Complete records the call and returns the next queued response, or
// the fixed Response/Err pair when the queue is empty.
func (m *MockClient) Complete(ctx context.Context, prompt string) (*Response, error) {
	m.Calls = append(m.Calls, prompt)
	if len(m.Queue) > 0 {
		r := m.Queue[0]
		m.Queue = m.Queue[1:]
		return r, nil
	}
	return m.Response, m.Err
}

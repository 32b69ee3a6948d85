package mock

import (
	"context"
	"sync"
	"time"
)

// Client is a scripted llm.Client. Outcomes are consumed in order; when the
// script is exhausted the last Response/Error applies to every further call.
type Client struct {
	Response string
	Error    error
	Script   []Outcome
	Delay    time.Duration

	CallCount  int
	LastSystem string
	LastPrompt string

	mu sync.Mutex
}

type Outcome struct {
	Response string
	Error    error
}

func New() *Client {
	return &Client{Response: "**Mock lead.** Eight supporting sentences follow."}
}

func (c *Client) WithResponse(response string) *Client {
	c.Response = response
	return c
}

func (c *Client) WithError(err error) *Client {
	c.Error = err
	return c
}

func (c *Client) WithScript(outcomes ...Outcome) *Client {
	c.Script = outcomes
	return c
}

func (c *Client) CompleteWithSystem(ctx context.Context, system, prompt string) (string, error) {
	c.mu.Lock()
	call := c.CallCount
	c.CallCount++
	c.LastSystem = system
	c.LastPrompt = prompt
	response, err := c.Response, c.Error
	if call < len(c.Script) {
		response, err = c.Script[call].Response, c.Script[call].Error
	}
	delay := c.Delay
	c.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}
	}

	if err != nil {
		return "", err
	}
	return response, nil
}

func (c *Client) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.CallCount
}

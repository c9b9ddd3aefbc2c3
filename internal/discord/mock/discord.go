// Package mock provides test doubles for the Discord front desk.
package mock

import (
	"sync"

	"github.com/bwmarrin/discordgo"
)

// SentMessage is one recorded ChannelMessageSend call.
type SentMessage struct {
	ChannelID string
	Content   string
}

// Sender records channel messages.
type Sender struct {
	mu    sync.Mutex
	sent  []SentMessage
	calls int

	// Err is returned by ChannelMessageSend when non-nil.
	Err error
}

// ChannelMessageSend records the message and returns the configured error.
func (m *Sender) ChannelMessageSend(channelID, content string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.Err != nil {
		return nil, m.Err
	}
	m.sent = append(m.sent, SentMessage{ChannelID: channelID, Content: content})
	return &discordgo.Message{ID: "mock-message", ChannelID: channelID, Content: content}, nil
}

// Sent returns a copy of every recorded message.
func (m *Sender) Sent() []SentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentMessage, len(m.sent))
	copy(out, m.sent)
	return out
}

// Calls returns how many sends were attempted, failed ones included.
func (m *Sender) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// SetErr changes the error returned by later sends.
func (m *Sender) SetErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Err = err
}

// Reset clears recorded messages, call counts and errors.
func (m *Sender) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = nil
	m.calls = 0
	m.Err = nil
}

// InteractionResponder records interaction responses.
type InteractionResponder struct {
	// Responses records all InteractionRespond calls.
	Responses []*discordgo.InteractionResponse

	// Err is returned by InteractionRespond when non-nil.
	Err error
}

// InteractionRespond records the response and returns the configured error.
func (m *InteractionResponder) InteractionRespond(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	m.Responses = append(m.Responses, resp)
	return m.Err
}

// LastResponse returns the most recently recorded response, or nil.
func (m *InteractionResponder) LastResponse() *discordgo.InteractionResponse {
	if len(m.Responses) == 0 {
		return nil
	}
	return m.Responses[len(m.Responses)-1]
}

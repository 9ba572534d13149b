package gateway

import (
	"context"
	"errors"

	"taskpilot/internal/agent"
	"taskpilot/internal/store"
)

// Conversation drives one turn of the state machine per incoming message.
type Conversation interface {
	StartThread(ctx context.Context, threadID string) (agent.Reply, error)
	Resume(ctx context.Context, threadID, input string) (agent.Reply, error)
}

// ThreadStore lets gateways look up and discard thread records.
type ThreadStore interface {
	LoadConversation(threadID string) ([]byte, error)
	DeleteConversation(threadID string) error
}

// Messenger defines the interface for communication gateways (Telegram, Discord, etc.)
type Messenger interface {
	// Start begins the message listening loop
	Start() error
	// Send sends a message to a specific chat
	Send(chatID string, text string) error
	// Stop gracefully shuts down the gateway
	Stop() error
}

// handleIncoming runs one user message through the machine and returns
// the assistant messages to deliver, in order. An unknown thread is
// started first, so the user sees the greeting before the reply to
// their actual request. Finished threads are discarded so the next
// message starts a fresh conversation.
func handleIncoming(ctx context.Context, conv Conversation, threads ThreadStore, threadID, text string) ([]string, error) {
	var out []string

	if _, err := threads.LoadConversation(threadID); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		greeting, err := conv.StartThread(ctx, threadID)
		if err != nil {
			return nil, err
		}
		out = append(out, greeting.Message)
	}

	reply, err := conv.Resume(ctx, threadID, text)
	if err != nil {
		return nil, err
	}
	out = append(out, reply.Message)

	if reply.Finished {
		if err := threads.DeleteConversation(threadID); err != nil {
			return out, err
		}
	}
	return out, nil
}

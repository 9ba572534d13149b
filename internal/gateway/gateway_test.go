package gateway

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskpilot/internal/agent"
	"taskpilot/internal/store"
)

type fakeConversation struct {
	started  []string
	resumed  []string
	finished bool
	err      error
}

func (f *fakeConversation) StartThread(_ context.Context, threadID string) (agent.Reply, error) {
	if f.err != nil {
		return agent.Reply{}, f.err
	}
	f.started = append(f.started, threadID)
	return agent.Reply{Message: `{"type":"greeting"}`}, nil
}

func (f *fakeConversation) Resume(_ context.Context, threadID, input string) (agent.Reply, error) {
	if f.err != nil {
		return agent.Reply{}, f.err
	}
	f.resumed = append(f.resumed, input)
	return agent.Reply{Message: `{"type":"plan"}`, Finished: f.finished}, nil
}

type fakeThreads struct {
	known   map[string]bool
	deleted []string
}

func (f *fakeThreads) LoadConversation(threadID string) ([]byte, error) {
	if !f.known[threadID] {
		return nil, store.ErrNotFound
	}
	return []byte("{}"), nil
}

func (f *fakeThreads) DeleteConversation(threadID string) error {
	f.deleted = append(f.deleted, threadID)
	return nil
}

func TestHandleIncomingStartsUnknownThread(t *testing.T) {
	conv := &fakeConversation{}
	threads := &fakeThreads{known: map[string]bool{}}

	out, err := handleIncoming(context.Background(), conv, threads, "tg_1", "hello")
	require.NoError(t, err)
	require.Len(t, out, 2, "greeting first, then the reply")
	assert.Contains(t, out[0], "greeting")
	assert.Contains(t, out[1], "plan")
	assert.Equal(t, []string{"tg_1"}, conv.started)
	assert.Equal(t, []string{"hello"}, conv.resumed)
}

func TestHandleIncomingKnownThreadSkipsGreeting(t *testing.T) {
	conv := &fakeConversation{}
	threads := &fakeThreads{known: map[string]bool{"tg_1": true}}

	out, err := handleIncoming(context.Background(), conv, threads, "tg_1", "yes")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Empty(t, conv.started)
}

func TestHandleIncomingDiscardsFinishedThread(t *testing.T) {
	conv := &fakeConversation{finished: true}
	threads := &fakeThreads{known: map[string]bool{"tg_1": true}}

	_, err := handleIncoming(context.Background(), conv, threads, "tg_1", "quit")
	require.NoError(t, err)
	assert.Equal(t, []string{"tg_1"}, threads.deleted)
}

func TestHandleIncomingPropagatesErrors(t *testing.T) {
	conv := &fakeConversation{err: errors.New("backend down")}
	threads := &fakeThreads{known: map[string]bool{"tg_1": true}}

	_, err := handleIncoming(context.Background(), conv, threads, "tg_1", "hello")
	require.Error(t, err)
}

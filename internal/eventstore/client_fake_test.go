package eventstore

import (
	"context"
	"strconv"
	"sync"

	"github.com/kanbanstr/board-sync-service/internal/nostr"
)

// fakeClient is an in-memory event log for tests.
type fakeClient struct {
	mu        sync.Mutex
	events    []*nostr.Event
	published []*nostr.Event
	user      string
	fetchErr  error
	seq       int
}

var _ nostr.Client = (*fakeClient)(nil)

func newFakeClient(user string, events ...*nostr.Event) *fakeClient {
	return &fakeClient{user: user, events: events}
}

func (f *fakeClient) Fetch(ctx context.Context, filter nostr.Filter) ([]*nostr.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	var out []*nostr.Event
	for _, ev := range f.events {
		if filter.Matches(ev) {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (f *fakeClient) Publish(ctx context.Context, e *nostr.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	if e.ID == "" {
		e.ID = "ev-" + strconv.Itoa(f.seq)
	}
	if e.PubKey == "" {
		e.PubKey = f.user
	}
	if e.CreatedAt == 0 {
		e.CreatedAt = int64(1700000000 + f.seq)
	}
	f.published = append(f.published, e)
	f.events = append(f.events, e)
	return nil
}

func (f *fakeClient) CurrentUser() (string, error) {
	return f.user, nil
}

func (f *fakeClient) publishedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.published)
}

package nostr

import (
	"context"

	"github.com/pkg/errors"
)

// Client is the only door to the relay network. Everything above it works on
// the snapshot a Fetch returns; there is no other read or write path.
type Client interface {
	// Fetch returns every stored event matching the filter that the
	// connected relays currently hold. Results may contain superseded
	// revisions and duplicates across relays.
	Fetch(ctx context.Context, f Filter) ([]*Event, error)
	// Publish signs (via the configured signer) and broadcasts an event.
	// It succeeds once at least one relay acknowledged the write.
	Publish(ctx context.Context, e *Event) error
	// CurrentUser returns the acting identity's public key, or an error
	// when the service runs without a signer.
	CurrentUser() (string, error)
}

// Signer owns key material. Sign must fill in ID and Sig.
type Signer interface {
	PubKey() string
	Sign(e *Event) error
}

// ErrReadOnly is returned by publish paths when no signer is configured.
var ErrReadOnly = errors.New("no signer configured, read-only mode")

// ReadOnlySigner carries a public key for fetch scoping but refuses to sign.
// Deployments plug a real signer here; the core never sees key material.
type ReadOnlySigner struct {
	pubKey string
}

func NewReadOnlySigner(pubKey string) *ReadOnlySigner {
	return &ReadOnlySigner{pubKey: pubKey}
}

func (s *ReadOnlySigner) PubKey() string {
	return s.pubKey
}

func (s *ReadOnlySigner) Sign(e *Event) error {
	return ErrReadOnly
}

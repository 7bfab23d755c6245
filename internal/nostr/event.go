// Package nostr holds the event-log data model and the relay client boundary.
// Records are append-only events; replaceable kinds are addressed by
// kind:pubkey:d and newer revisions supersede older ones.
package nostr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Tag is an ordered tuple of strings. The first element is the tag name.
type Tag []string

// Key returns the tag name, empty for malformed tags.
func (t Tag) Key() string {
	if len(t) == 0 {
		return ""
	}
	return t[0]
}

// Value returns the first value after the tag name.
func (t Tag) Value() string {
	if len(t) < 2 {
		return ""
	}
	return t[1]
}

type Tags []Tag

// Find returns the first tag with the given name, nil if absent.
func (ts Tags) Find(name string) Tag {
	for _, t := range ts {
		if t.Key() == name {
			return t
		}
	}
	return nil
}

// FindAll returns every tag with the given name, in record order.
func (ts Tags) FindAll(name string) []Tag {
	var out []Tag
	for _, t := range ts {
		if t.Key() == name {
			out = append(out, t)
		}
	}
	return out
}

// Value returns the first value of the first tag with the given name.
func (ts Tags) Value(name string) string {
	return ts.Find(name).Value()
}

// ValueDefault is Value with a fallback for absent or empty tags.
func (ts Tags) ValueDefault(name, def string) string {
	if v := ts.Value(name); v != "" {
		return v
	}
	return def
}

// Event is a single record in the log. Signing and id derivation happen
// behind the Signer interface; the core treats both as opaque.
type Event struct {
	ID        string `json:"id"`
	PubKey    string `json:"pubkey"`
	CreatedAt int64  `json:"created_at"`
	Kind      int    `json:"kind"`
	Tags      Tags   `json:"tags"`
	Content   string `json:"content"`
	Sig       string `json:"sig"`
}

// D returns the stable identifier of a replaceable event.
func (e *Event) D() string {
	return e.Tags.Value("d")
}

// Address returns the replaceable address kind:pubkey:d.
func (e *Event) Address() string {
	return fmt.Sprintf("%d:%s:%s", e.Kind, e.PubKey, e.D())
}

// Addr is a parsed replaceable address.
type Addr struct {
	Kind       int
	PubKey     string
	Identifier string
}

func (a Addr) String() string {
	return fmt.Sprintf("%d:%s:%s", a.Kind, a.PubKey, a.Identifier)
}

// ParseAddr parses a kind:pubkey:d address. The identifier part may itself
// contain colons.
func ParseAddr(s string) (Addr, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) != 3 {
		return Addr{}, errors.Errorf("malformed address %q", s)
	}
	kind, err := strconv.Atoi(parts[0])
	if err != nil {
		return Addr{}, errors.Wrapf(err, "malformed address kind %q", s)
	}
	if parts[1] == "" {
		return Addr{}, errors.Errorf("malformed address pubkey %q", s)
	}
	return Addr{Kind: kind, PubKey: parts[1], Identifier: parts[2]}, nil
}

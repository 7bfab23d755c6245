// Package codec translates between domain entities and event tag tuples,
// including the retired JSON-content format still found on old records.
package codec

import (
	"fmt"

	"github.com/bytedance/sonic"

	"github.com/kanbanstr/board-sync-service/internal/nostr"
)

// Tag names of the current wire format.
const (
	TagD           = "d"
	TagTitle       = "title"
	TagDescription = "description"
	TagAlt         = "alt"
	TagColumn      = "col"
	TagPubKey      = "p"
	TagZap         = "zap"
	TagStatus      = "s"
	TagRank        = "rank"
	TagAddr        = "a"
	TagURL         = "u"
	TagTopic       = "t"
	TagKind        = "k"
	TagTracking    = "tracking"
	TagLink        = "link"
)

// ZapPolicyNone is the zap tag value marking a board with payment
// affordances disabled.
const ZapPolicyNone = "none"

// DecodeError marks a single record that could not be decoded. Batch loads
// log and skip these; point loads propagate them.
type DecodeError struct {
	EventID string
	Kind    int
	Reason  string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("undecodable kind %d record %s: %s", e.Kind, e.EventID, e.Reason)
}

func decodeErr(ev *nostr.Event, reason string) *DecodeError {
	return &DecodeError{EventID: ev.ID, Kind: ev.Kind, Reason: reason}
}

// legacyBoardContent is the retired JSON payload of board records.
type legacyBoardContent struct {
	Description   string         `json:"description"`
	ColumnMapping string         `json:"columnMapping"`
	Columns       []legacyColumn `json:"columns"`
	IsNoZapBoard  bool           `json:"isNoZapBoard"`
}

type legacyColumn struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Order int    `json:"order"`
}

// legacyCardContent is the retired JSON payload of card records.
type legacyCardContent struct {
	Description string   `json:"description"`
	Status      string   `json:"status"`
	Order       float64  `json:"order"`
	Attachments []string `json:"attachments"`
}

func decodeLegacyCardContent(content string, into *legacyCardContent) error {
	return sonic.UnmarshalString(content, into)
}

// parseLegacyBoardContent reports whether the content is a legacy board
// payload, i.e. a JSON object carrying a columns array.
func parseLegacyBoardContent(content string) (*legacyBoardContent, bool) {
	if content == "" {
		return nil, false
	}
	var lc legacyBoardContent
	if err := sonic.UnmarshalString(content, &lc); err != nil {
		return nil, false
	}
	if lc.Columns == nil {
		return nil, false
	}
	return &lc, true
}

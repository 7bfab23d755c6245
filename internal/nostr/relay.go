package nostr

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/lxzan/gws"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/kanbanstr/board-sync-service/pkg/logger"
)

// frame labels of the relay wire protocol
const (
	frameEvent  = "EVENT"
	frameReq    = "REQ"
	frameClose  = "CLOSE"
	frameEose   = "EOSE"
	frameOK     = "OK"
	frameNotice = "NOTICE"
	frameClosed = "CLOSED"
)

type subscription struct {
	events chan *Event
	eose   chan struct{}
	once   sync.Once
}

func (s *subscription) closeEose() {
	s.once.Do(func() { close(s.eose) })
}

type publishAck struct {
	accepted bool
	reason   string
}

// relay is a single outbound websocket connection. It dials lazily and is
// safe for concurrent subscribe/publish.
type relay struct {
	url    string
	logger *zap.Logger

	mu   sync.Mutex
	conn *gws.Conn
	subs map[string]*subscription
	acks map[string]chan publishAck
}

func newRelay(url string, lg *zap.Logger) *relay {
	return &relay{
		url:    url,
		logger: lg,
		subs:   make(map[string]*subscription),
		acks:   make(map[string]chan publishAck),
	}
}

// ensureConnected dials the relay if no live connection exists.
func (r *relay) ensureConnected() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conn != nil {
		return nil
	}

	conn, _, err := gws.NewClient(r, &gws.ClientOption{
		Addr: r.url,
		PermessageDeflate: gws.PermessageDeflate{
			Enabled: true,
		},
	})
	if err != nil {
		return errors.Wrapf(err, "dial relay %s", r.url)
	}
	r.conn = conn
	go conn.ReadLoop()
	return nil
}

func (r *relay) send(payload []any) error {
	b, err := sonic.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "encode frame")
	}
	r.mu.Lock()
	conn := r.conn
	r.mu.Unlock()
	if conn == nil {
		return errors.Errorf("relay %s not connected", r.url)
	}
	return conn.WriteMessage(gws.OpcodeText, b)
}

// subscribe opens a REQ and returns the channels the read loop feeds.
func (r *relay) subscribe(subID string, f Filter) (*subscription, error) {
	if err := r.ensureConnected(); err != nil {
		return nil, err
	}
	sub := &subscription{
		events: make(chan *Event, 64),
		eose:   make(chan struct{}),
	}
	r.mu.Lock()
	r.subs[subID] = sub
	r.mu.Unlock()

	if err := r.send([]any{frameReq, subID, f}); err != nil {
		r.dropSub(subID)
		return nil, err
	}
	return sub, nil
}

func (r *relay) unsubscribe(subID string) {
	_ = r.send([]any{frameClose, subID})
	r.dropSub(subID)
}

func (r *relay) dropSub(subID string) {
	r.mu.Lock()
	delete(r.subs, subID)
	r.mu.Unlock()
}

// publish sends an EVENT frame and waits for the relay's OK.
func (r *relay) publish(e *Event, timeout time.Duration) error {
	if err := r.ensureConnected(); err != nil {
		return err
	}
	ack := make(chan publishAck, 1)
	r.mu.Lock()
	r.acks[e.ID] = ack
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		delete(r.acks, e.ID)
		r.mu.Unlock()
	}()

	if err := r.send([]any{frameEvent, e}); err != nil {
		return err
	}

	select {
	case a := <-ack:
		if !a.accepted {
			return errors.Errorf("relay %s rejected event: %s", r.url, a.reason)
		}
		return nil
	case <-time.After(timeout):
		return errors.Errorf("relay %s publish timeout", r.url)
	}
}

func (r *relay) close() {
	r.mu.Lock()
	conn := r.conn
	r.conn = nil
	r.mu.Unlock()
	if conn != nil {
		_ = conn.WriteClose(1000, nil)
	}
}

// gws.Event implementation // 处理 websocket 回调

func (r *relay) OnOpen(socket *gws.Conn) {
	r.logger.Debug("relay connected", zap.String(logger.FieldRelay, r.url))
}

func (r *relay) OnClose(socket *gws.Conn, err error) {
	r.mu.Lock()
	r.conn = nil
	// wake every pending subscription so fetches do not hang
	for id, sub := range r.subs {
		sub.closeEose()
		delete(r.subs, id)
	}
	r.mu.Unlock()
	if err != nil {
		r.logger.Debug("relay disconnected",
			zap.String(logger.FieldRelay, r.url),
			zap.Error(err))
	}
}

func (r *relay) OnPing(socket *gws.Conn, payload []byte) {
	_ = socket.WritePong(payload)
}

func (r *relay) OnPong(socket *gws.Conn, payload []byte) {}

func (r *relay) OnMessage(socket *gws.Conn, message *gws.Message) {
	defer message.Close()
	r.handleFrame(message.Bytes())
}

func (r *relay) handleFrame(data []byte) {
	var frame []json.RawMessage
	if err := sonic.Unmarshal(data, &frame); err != nil || len(frame) == 0 {
		r.logger.Debug("relay sent malformed frame", zap.String(logger.FieldRelay, r.url))
		return
	}
	var label string
	if err := sonic.Unmarshal(frame[0], &label); err != nil {
		return
	}

	switch label {
	case frameEvent:
		if len(frame) < 3 {
			return
		}
		var subID string
		var ev Event
		if err := sonic.Unmarshal(frame[1], &subID); err != nil {
			return
		}
		if err := sonic.Unmarshal(frame[2], &ev); err != nil {
			r.logger.Debug("relay sent undecodable event", zap.String(logger.FieldRelay, r.url))
			return
		}
		r.mu.Lock()
		sub := r.subs[subID]
		r.mu.Unlock()
		if sub != nil {
			select {
			case sub.events <- &ev:
			default:
				// subscriber is not draining, drop rather than block the read loop
				r.logger.Warn("subscription buffer full, dropping event",
					zap.String(logger.FieldRelay, r.url),
					zap.String(logger.FieldEventID, ev.ID))
			}
		}

	case frameEose, frameClosed:
		if len(frame) < 2 {
			return
		}
		var subID string
		if err := sonic.Unmarshal(frame[1], &subID); err != nil {
			return
		}
		r.mu.Lock()
		sub := r.subs[subID]
		r.mu.Unlock()
		if sub != nil {
			sub.closeEose()
		}

	case frameOK:
		if len(frame) < 3 {
			return
		}
		var id string
		var accepted bool
		var reason string
		_ = sonic.Unmarshal(frame[1], &id)
		_ = sonic.Unmarshal(frame[2], &accepted)
		if len(frame) > 3 {
			_ = sonic.Unmarshal(frame[3], &reason)
		}
		r.mu.Lock()
		ack := r.acks[id]
		r.mu.Unlock()
		if ack != nil {
			select {
			case ack <- publishAck{accepted: accepted, reason: reason}:
			default:
			}
		}

	case frameNotice:
		r.logger.Debug("relay notice", zap.String(logger.FieldRelay, r.url))
	}
}

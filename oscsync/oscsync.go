// Package oscsync broadcasts transport state over OSC so external gear and
// other machines can follow the timeline.
package oscsync

import (
	"context"

	"github.com/hypebeast/go-osc/osc"
	"github.com/robmorgan/cadence/beats"
	"github.com/robmorgan/cadence/logger"
	"github.com/robmorgan/cadence/rhythm"
	"github.com/sirupsen/logrus"
)

// OSC addresses of the sync protocol.
const (
	AddressPulse = "/sync/pulse"
	AddressTempo = "/sync/tempo"
)

// Broadcaster sends transport state to a single OSC destination.
type Broadcaster struct {
	client *osc.Client
	log    *logrus.Entry
}

// NewBroadcaster creates a Broadcaster sending to host:port over UDP.
func NewBroadcaster(host string, port int) *Broadcaster {
	return &Broadcaster{
		client: osc.NewClient(host, port),
		log:    logger.GetLogger("oscsync"),
	}
}

// SendPulse publishes one pulse: whole beats, tick offset and pulse index.
func (b *Broadcaster) SendPulse(p rhythm.Pulse) error {
	msg := osc.NewMessage(AddressPulse)
	msg.Append(p.Position.BeatCount())
	msg.Append(p.Position.TickCount())
	msg.Append(p.Tick)
	return b.client.Send(msg)
}

// SendTempo publishes a tempo change in beats per minute.
func (b *Broadcaster) SendTempo(bpm float64) error {
	msg := osc.NewMessage(AddressTempo)
	msg.Append(float32(bpm))
	return b.client.Send(msg)
}

// Run forwards every pulse from in until ctx is canceled. Send failures are
// logged and skipped; sync traffic is fire-and-forget.
func (b *Broadcaster) Run(ctx context.Context, in <-chan rhythm.Pulse) {
	b.log.Info("osc broadcaster started")
	for {
		select {
		case <-ctx.Done():
			b.log.Info("osc broadcaster stopped")
			return
		case p := <-in:
			if err := b.SendPulse(p); err != nil {
				b.log.WithError(err).Warn("failed to send pulse")
			}
		}
	}
}

// Receiver dispatches incoming sync messages to callbacks.
type Receiver struct {
	server     *osc.Server
	dispatcher *osc.StandardDispatcher
}

// NewReceiver creates a Receiver listening on addr. Either callback may be
// nil. Malformed messages are dropped.
func NewReceiver(addr string, onPulse func(pos beats.Beats, tick int64), onTempo func(bpm float64)) (*Receiver, error) {
	log := logger.GetLogger("oscsync")
	d := osc.NewStandardDispatcher()

	err := d.AddMsgHandler(AddressPulse, func(msg *osc.Message) {
		if len(msg.Arguments) < 3 || onPulse == nil {
			return
		}
		b, ok1 := msg.Arguments[0].(int32)
		t, ok2 := msg.Arguments[1].(int32)
		tick, ok3 := msg.Arguments[2].(int64)
		if !ok1 || !ok2 || !ok3 {
			log.Warnf("dropping malformed pulse message with %d arguments", len(msg.Arguments))
			return
		}
		onPulse(beats.New(b, t), tick)
	})
	if err != nil {
		return nil, err
	}

	err = d.AddMsgHandler(AddressTempo, func(msg *osc.Message) {
		if len(msg.Arguments) < 1 || onTempo == nil {
			return
		}
		if bpm, ok := msg.Arguments[0].(float32); ok {
			onTempo(float64(bpm))
		}
	})
	if err != nil {
		return nil, err
	}

	return &Receiver{
		server:     &osc.Server{Addr: addr, Dispatcher: d},
		dispatcher: d,
	}, nil
}

// ListenAndServe blocks, serving sync messages until the listener fails.
func (r *Receiver) ListenAndServe() error {
	return r.server.ListenAndServe()
}

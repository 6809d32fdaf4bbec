// Package driver implements the connection driver: the outer loop that
// sequences a Framer read, a Session dispatch, and the resulting transport
// write for one accepted TCP connection. One Driver.Serve call runs for the
// lifetime of a single robot connection; cmd/navgateway spawns one goroutine
// per accepted socket.
package driver

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vivrish/navgateway/internal/bridge"
	"github.com/vivrish/navgateway/internal/config"
	"github.com/vivrish/navgateway/internal/dashboard"
	"github.com/vivrish/navgateway/internal/events"
	"github.com/vivrish/navgateway/internal/session"
	"github.com/vivrish/navgateway/internal/wire"
)

// publishDeadline bounds how long a single event publish may take; it must
// never let a slow or absent Redis stall a session.
const publishDeadline = 200 * time.Millisecond

// Driver sequences Framer -> Session -> transport write for one connection.
type Driver struct {
	timeouts  config.TimeoutConfig
	publisher bridge.Publisher
	dashboard *dashboard.Hub
	codec     *events.Codec
	logger    *zap.SugaredLogger
}

// New builds a Driver. dashboard may be nil if the ambient dashboard hub is
// disabled; a nil dashboard simply means no broadcast happens.
func New(timeouts config.TimeoutConfig, publisher bridge.Publisher, hub *dashboard.Hub, logger *zap.SugaredLogger) *Driver {
	return &Driver{
		timeouts:  timeouts,
		publisher: publisher,
		dashboard: hub,
		codec:     events.NewCodec(),
		logger:    logger,
	}
}

// Serve drives conn to completion: authentication, navigation, teardown. It
// closes conn itself on every exit path and never panics out to the caller.
func (d *Driver) Serve(conn net.Conn) {
	sessionID := uuid.NewString()
	log := d.logger.With("session_id", sessionID)

	defer func() {
		if r := recover(); r != nil {
			log.Errorw("session driver panic recovered", "panic", r)
		}
		conn.Close()
	}()

	sess := session.New()
	framer := wire.NewFramer(conn)
	log.Infow("session accepted", "remote_addr", conn.RemoteAddr())
	d.publish(sessionID, "", events.KindConnected, nil)

	for {
		timeout := d.timeouts.Default()
		if sess.State == wire.StateClientRecharging {
			timeout = d.timeouts.Recharge()
		}
		conn.SetReadDeadline(time.Now().Add(timeout))

		result, err := framer.ReadFrame(sess.State)
		if err != nil {
			d.handleReadError(log, conn, sess, sessionID, err)
			return
		}

		outcome := sess.Dispatch(result.Payload, result.EnteredRecharge)
		d.emit(sessionID, sess, outcome)

		if terminate := d.respond(log, conn, sess, outcome); terminate {
			log.Infow("session terminated", "state", sess.State, "err", outcome.Err)
			d.publish(sessionID, "", events.KindDisconnected, nil)
			return
		}
	}
}

func (d *Driver) handleReadError(log *zap.SugaredLogger, conn net.Conn, sess *session.Session, sessionID string, err error) {
	switch {
	case errors.Is(err, wire.ErrTimeout):
		log.Debugw("read timeout, closing connection", "state", sess.State)
	case errors.Is(err, wire.ErrSyntax):
		out := sess.FrameSyntaxError()
		conn.Write(frameBytes(out))
		log.Infow("framing syntax error, terminating", "state", sess.State)
	default:
		log.Warnw("unexpected read error, closing connection", "err", err)
	}
	d.publish(sessionID, "", events.KindDisconnected, nil)
}

// respond writes outcome's response (if any), handles the double-response
// continuation, and reports whether the driver loop must stop.
func (d *Driver) respond(log *zap.SugaredLogger, conn net.Conn, sess *session.Session, outcome session.Outcome) bool {
	if outcome.NoResponse {
		return outcome.Terminate
	}
	if _, err := conn.Write(frameBytes(outcome)); err != nil {
		log.Warnw("write failed", "err", err)
		return true
	}
	if outcome.Terminate {
		return true
	}
	if outcome.Double {
		second := sess.DispatchCurrentNoInput()
		if second.NoResponse {
			return second.Terminate
		}
		if _, err := conn.Write(frameBytes(second)); err != nil {
			log.Warnw("write failed", "err", err)
			return true
		}
		return second.Terminate
	}
	return false
}

func frameBytes(out session.Outcome) []byte {
	if out.Cmd == wire.CmdConfirmation {
		return wire.Confirmation(out.ConfirmationHash)
	}
	return wire.Frame(out.Cmd)
}

// emit mirrors one observable moment to the Redis bridge and the dashboard
// hub, matching the well-defined points listed in SPEC_FULL.md §4.7. Never
// invoked for a NoResponse outcome that isn't itself a recharge transition,
// since those carry no new information beyond "still recharging".
func (d *Driver) emit(sessionID string, sess *session.Session, outcome session.Outcome) {
	kind, payload, ok := classify(sess, outcome)
	if !ok {
		return
	}
	d.publish(sessionID, "", kind, payload)
}

func classify(sess *session.Session, outcome session.Outcome) (events.Kind, map[string]any, bool) {
	switch {
	case outcome.Cmd == wire.CmdOK && outcome.Double:
		return events.KindAuthenticated, nil, true
	case outcome.Cmd == wire.CmdLoginFailed:
		return events.KindLoginFailed, nil, true
	case outcome.Cmd == wire.CmdLogout:
		return events.KindMessageReceived, nil, true
	case outcome.NoResponse && sess.State == wire.StateClientRecharging:
		return events.KindRecharging, nil, true
	case outcome.NoResponse:
		return events.KindFullPower, nil, true
	case outcome.Cmd == wire.CmdMove || outcome.Cmd == wire.CmdTurnRight || outcome.Cmd == wire.CmdPickUp:
		pos := sess.Robot().Pos
		return events.KindPosition, map[string]any{"x": pos.X, "y": pos.Y}, true
	default:
		return "", nil, false
	}
}

func (d *Driver) publish(sessionID, robotName string, kind events.Kind, payload map[string]any) {
	ev := events.New(sessionID, robotName, kind, payload)

	ctx, cancel := context.WithTimeout(context.Background(), publishDeadline)
	defer cancel()
	if err := d.publisher.Publish(ctx, ev); err != nil {
		d.logger.Warnw("event publish failed", "err", err, "kind", kind)
	}

	if d.dashboard == nil {
		return
	}
	if data, err := d.codec.Encode(ev); err == nil {
		d.dashboard.Broadcast(data)
	}
}

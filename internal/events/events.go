// Package events defines the observability-only envelope mirrored to Redis
// (internal/bridge) and the fleet dashboard (internal/dashboard). Nothing in
// internal/session or internal/driver ever reads an Event back; it exists
// purely so an external operator can watch the fleet.
package events

import "time"

// Kind names one observable lifecycle or navigation moment of a session.
type Kind string

const (
	KindConnected       Kind = "connected"
	KindAuthenticated   Kind = "authenticated"
	KindLoginFailed     Kind = "login_failed"
	KindPosition        Kind = "position"
	KindRecharging      Kind = "recharging"
	KindFullPower       Kind = "full_power"
	KindMessageReceived Kind = "message_received"
	KindDisconnected    Kind = "disconnected"
)

// Event is one mirrored moment. Payload is kind-specific (e.g. {"x":.., "y":..}
// for KindPosition) and is left as a map so the envelope needs no per-kind
// struct, mirroring the teacher's Message.Payload shape.
type Event struct {
	SessionID string         `msgpack:"session_id" json:"session_id"`
	RobotName string         `msgpack:"robot_name" json:"robot_name"`
	Kind      Kind           `msgpack:"kind" json:"kind"`
	Timestamp int64          `msgpack:"timestamp" json:"timestamp"`
	Payload   map[string]any `msgpack:"payload,omitempty" json:"payload,omitempty"`
}

// New builds an Event stamped with the current time.
func New(sessionID, robotName string, kind Kind, payload map[string]any) Event {
	return Event{
		SessionID: sessionID,
		RobotName: robotName,
		Kind:      kind,
		Timestamp: time.Now().Unix(),
		Payload:   payload,
	}
}

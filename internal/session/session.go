// Package session implements the per-connection state machine: it consumes
// framed payloads from internal/wire, dispatches to a per-state handler,
// mutates an internal/robotnav.Robot, and produces the symbolic command the
// driver should write back (internal/driver resolves it to wire bytes).
package session

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/vivrish/navgateway/internal/keytable"
	"github.com/vivrish/navgateway/internal/robotnav"
	"github.com/vivrish/navgateway/internal/wire"
)

// Sentinel errors describing why a session is terminating, for logging only;
// the frame to send is already captured in Outcome.Cmd.
var (
	ErrSyntaxError   = errors.New("session: syntax error")
	ErrKeyOutOfRange = errors.New("session: key index out of range")
	ErrLoginFailed   = errors.New("session: login failed")
	ErrLogicError    = errors.New("session: logic error")
)

var (
	keyIDPattern        = regexp.MustCompile(`^-?[0-9]+$`)
	confirmationPattern = regexp.MustCompile(`^[0-9-]+$`)
	floatPattern        = regexp.MustCompile(`[0-9]\.[0-9]`)
	intPattern          = regexp.MustCompile(`-?\d+`)
)

// Outcome is the result of one Dispatch call: what (if anything) to send,
// and whether the connection should close afterward.
type Outcome struct {
	// Cmd is the symbolic response to send. Meaningless if NoResponse is true.
	Cmd wire.Command
	// ConfirmationHash carries the computed hash when Cmd == wire.CmdConfirmation.
	ConfirmationHash string
	// NoResponse means nothing should be written to the socket this cycle
	// (recharge entry/exit transitions).
	NoResponse bool
	// Double means the driver must immediately invoke DispatchCurrentNoInput
	// and send its result too, without reading another frame first. Used
	// only for the OK+MOVE pair at the end of authentication.
	Double bool
	// Terminate means the driver closes the socket after sending Cmd (if any).
	Terminate bool
	// Err is set for logging when Terminate was caused by a protocol error.
	Err error
}

// Session is one connection's state machine. The zero value is not valid;
// use New.
type Session struct {
	State         wire.State
	previousState wire.State

	username     string
	expectedHash string

	robot *robotnav.Robot

	previousCmd wire.Command
	hasPrev     bool
}

// New returns a Session ready to receive the first username frame.
func New() *Session {
	return &Session{
		State: wire.StateClientUsername,
		robot: robotnav.New(),
	}
}

// Robot exposes navigation state for observability (internal/driver emits
// SessionEvents carrying the robot's position).
func (s *Session) Robot() *robotnav.Robot { return s.robot }

// Dispatch processes one frame read by the driver's Framer. enteredRecharge
// must be true iff the Framer signaled a mid-read recharge transition for
// this payload.
func (s *Session) Dispatch(payload string, enteredRecharge bool) Outcome {
	out := s.process(payload, enteredRecharge)
	if !out.NoResponse {
		s.previousCmd = out.Cmd
		s.hasPrev = true
	}
	return out
}

// DispatchCurrentNoInput re-invokes the handler for the current state
// without consuming a new frame. Used for the double-response pair only:
// the state has already advanced (CLIENT_CONFIRMATION -> INITIAL_MOVE) and
// INITIAL_MOVE's handler ignores its payload.
func (s *Session) DispatchCurrentNoInput() Outcome {
	out := s.dispatchNormal("")
	if !out.NoResponse {
		s.previousCmd = out.Cmd
		s.hasPrev = true
	}
	return out
}

func (s *Session) process(payload string, enteredRecharge bool) Outcome {
	wasRecharging := s.State == wire.StateClientRecharging

	switch {
	case enteredRecharge:
		s.previousState = s.State
		s.State = wire.StateClientRecharging
	case !wasRecharging && (strings.Contains(payload, "RECHARGING") || strings.Contains(payload, "FULL POWER")):
		s.previousState = s.State
		s.State = wire.StateClientRecharging
	}

	if s.State == wire.StateClientRecharging {
		return s.dispatchRecharge(payload, wasRecharging)
	}
	return s.dispatchNormal(payload)
}

func (s *Session) dispatchRecharge(payload string, wasRecharging bool) Outcome {
	switch {
	case payload == "FULL POWER":
		if wasRecharging {
			s.State = s.previousState
			return Outcome{NoResponse: true}
		}
		return s.logicError()
	case !wasRecharging && strings.Contains(payload, "RECHARGING"):
		return Outcome{NoResponse: true}
	default:
		return s.logicError()
	}
}

func (s *Session) dispatchNormal(payload string) Outcome {
	switch s.State {
	case wire.StateClientUsername:
		return s.handleUsername(payload)
	case wire.StateClientKeyID:
		return s.handleKeyID(payload)
	case wire.StateClientConfirmation:
		return s.handleConfirmation(payload)
	case wire.StateInitialMove:
		return s.handleInitialMove()
	case wire.StateDefineLocation:
		return s.handleDefineLocation(payload)
	case wire.StateDefineDirection:
		return s.handleDefineDirection(payload)
	case wire.StateClientOK:
		return s.handleClientOK(payload)
	case wire.StateEvade:
		return s.handleEvade(payload)
	case wire.StateClientMessage:
		return s.handleMessage()
	case wire.StateLogout:
		return s.handleLogout()
	default:
		return s.logicError()
	}
}

func (s *Session) handleUsername(payload string) Outcome {
	s.username = payload
	s.State = wire.StateClientKeyID
	return Outcome{Cmd: wire.CmdKeyRequest}
}

func (s *Session) handleKeyID(payload string) Outcome {
	if !keyIDPattern.MatchString(payload) {
		return s.syntaxError()
	}
	idx, err := strconv.Atoi(payload)
	if err != nil {
		return s.syntaxError()
	}
	entry, ok := keytable.Lookup(idx)
	if !ok {
		return s.keyOutOfRangeError()
	}
	hash := wire.CalculateHash(s.username, entry.ServerKey)
	s.expectedHash = wire.CalculateHash(s.username, entry.ClientKey)
	s.State = wire.StateClientConfirmation
	return Outcome{Cmd: wire.CmdConfirmation, ConfirmationHash: hash}
}

func (s *Session) handleConfirmation(payload string) Outcome {
	if !confirmationPattern.MatchString(payload) {
		return s.syntaxError()
	}
	if payload == s.expectedHash {
		s.State = wire.StateInitialMove
		return Outcome{Cmd: wire.CmdOK, Double: true}
	}
	s.State = wire.StateTerminateConnection
	return Outcome{Cmd: wire.CmdLoginFailed, Terminate: true, Err: ErrLoginFailed}
}

func (s *Session) handleInitialMove() Outcome {
	s.State = wire.StateDefineLocation
	return Outcome{Cmd: wire.CmdMove}
}

func (s *Session) handleDefineLocation(payload string) Outcome {
	if out := s.validateNumeric(payload); out != nil {
		return *out
	}
	x, y, ok := parseXY(payload)
	if !ok {
		return s.syntaxError()
	}
	s.robot.SetLocation(x, y)
	if s.robot.IsAtOrigin() {
		s.State = wire.StateClientMessage
		return s.handleMessage()
	}
	s.State = wire.StateDefineDirection
	return Outcome{Cmd: wire.CmdMove}
}

func (s *Session) handleDefineDirection(payload string) Outcome {
	if out := s.validateNumeric(payload); out != nil {
		return *out
	}
	x, y, ok := parseXY(payload)
	if !ok {
		return s.syntaxError()
	}
	s.robot.SetLocation(x, y)
	if !s.robot.PositionChanged() {
		s.State = wire.StateEvade
		return Outcome{Cmd: wire.CmdTurnRight}
	}
	s.robot.InferDirection()
	if s.robot.IsAtOrigin() {
		s.State = wire.StateClientMessage
		return s.handleMessage()
	}
	s.State = wire.StateClientOK
	s.robot.ComputeNeeded()
	if s.robot.FacingNeeded() {
		return Outcome{Cmd: wire.CmdMove}
	}
	s.robot.TurnRight()
	return Outcome{Cmd: wire.CmdTurnRight}
}

func (s *Session) handleClientOK(payload string) Outcome {
	if out := s.validateNumeric(payload); out != nil {
		return *out
	}
	x, y, ok := parseXY(payload)
	if !ok {
		return s.syntaxError()
	}
	s.robot.SetLocation(x, y)
	if s.robot.IsAtOrigin() {
		s.State = wire.StateClientMessage
		return s.handleMessage()
	}
	if !s.robot.PositionChanged() && s.hasPrev && s.previousCmd == wire.CmdMove {
		s.robot.ToggleInverse()
		s.State = wire.StateEvade
		s.robot.TurnRight()
		return Outcome{Cmd: wire.CmdTurnRight}
	}
	s.robot.ComputeNeeded()
	if s.robot.FacingNeeded() {
		return Outcome{Cmd: wire.CmdMove}
	}
	s.robot.TurnRight()
	return Outcome{Cmd: wire.CmdTurnRight}
}

func (s *Session) handleEvade(payload string) Outcome {
	if out := s.validateNumeric(payload); out != nil {
		return *out
	}
	x, y, ok := parseXY(payload)
	if !ok {
		return s.syntaxError()
	}
	s.robot.SetLocation(x, y)
	s.State = wire.StateDefineDirection
	return Outcome{Cmd: wire.CmdMove}
}

func (s *Session) handleMessage() Outcome {
	s.State = wire.StateLogout
	return Outcome{Cmd: wire.CmdPickUp}
}

func (s *Session) handleLogout() Outcome {
	s.State = wire.StateTerminateConnection
	return Outcome{Cmd: wire.CmdLogout, Terminate: true}
}

// validateNumeric applies the conditional fractional-number / too-many-spaces
// check: it only fires when the previous response sent was MOVE or
// TURN RIGHT, matching the source exactly (see DESIGN.md Open Question 1).
func (s *Session) validateNumeric(payload string) *Outcome {
	if !s.hasPrev || (s.previousCmd != wire.CmdMove && s.previousCmd != wire.CmdTurnRight) {
		return nil
	}
	if floatPattern.MatchString(payload) {
		out := s.syntaxError()
		return &out
	}
	if strings.Count(payload, " ") > 2 {
		out := s.syntaxError()
		return &out
	}
	return nil
}

// parseXY extracts all signed-integer substrings from payload and takes the
// first two, in order, as (x, y).
func parseXY(payload string) (int, int, bool) {
	matches := intPattern.FindAllString(payload, -1)
	if len(matches) < 2 {
		return 0, 0, false
	}
	x, err1 := strconv.Atoi(matches[0])
	y, err2 := strconv.Atoi(matches[1])
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return x, y, true
}

// FrameSyntaxError builds the terminal Outcome for a Framer-level failure
// (budget exhausted with no recharge prefix match) — the driver calls this
// directly since that failure never reaches Dispatch as a payload.
func (s *Session) FrameSyntaxError() Outcome {
	return s.syntaxError()
}

func (s *Session) syntaxError() Outcome {
	s.State = wire.StateTerminateConnection
	return Outcome{Cmd: wire.CmdSyntaxError, Terminate: true, Err: ErrSyntaxError}
}

func (s *Session) keyOutOfRangeError() Outcome {
	s.State = wire.StateTerminateConnection
	return Outcome{Cmd: wire.CmdKeyOutOfRange, Terminate: true, Err: ErrKeyOutOfRange}
}

func (s *Session) logicError() Outcome {
	s.State = wire.StateTerminateConnection
	return Outcome{Cmd: wire.CmdLogicError, Terminate: true, Err: ErrLogicError}
}

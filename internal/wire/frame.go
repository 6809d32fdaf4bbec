// Package wire implements the length-bounded, terminator-delimited framing
// protocol robots speak over the TCP connection, plus the fixed set of
// server command frames and the authentication hash calculation.
//
// Every frame, in either direction, ends with the two-byte terminator
// 0x07 0x08 ("\a\b"). The Framer reads one byte at a time so it can enforce
// a per-state maximum length and detect a recharge episode starting
// mid-frame, before the terminator has been seen.
package wire

import (
	"bufio"
	"errors"
	"io"
)

// Terminator bytes ending every frame.
const (
	TermBell = 0x07
	TermBS   = 0x08
)

// State identifies which per-state length budget applies to the next read.
// Defined here (rather than in internal/session) because the budget table is
// a framing concern; internal/session imports this type for its own state
// enum instead of duplicating the table.
type State int

const (
	StateClientUsername State = iota
	StateClientKeyID
	StateClientConfirmation
	StateInitialMove
	StateDefineLocation
	StateDefineDirection
	StateClientOK
	StateRotation
	StateClientMessage
	StateLogout
	StateTerminateConnection
	StateEvade
	StateClientRecharging
	StateClientFullPower
	StateUnknown
)

// maxLength mirrors the Python source's maxLength table exactly.
var maxLength = map[State]int{
	StateClientUsername:     20,
	StateClientKeyID:        5,
	StateClientConfirmation: 7,
	StateInitialMove:        12,
	StateDefineLocation:     12,
	StateDefineDirection:    12,
	StateClientOK:           12,
	StateRotation:           12,
	StateEvade:              12,
	StateClientRecharging:   12,
	StateClientFullPower:    12,
	StateClientMessage:      100,
	StateLogout:             100,
}

// rechargeBudget applies once a mid-read recharge transition has fired.
const rechargeBudget = 12

// ErrSyntax is returned when a frame exceeds its length budget without a
// valid recharge prefix, or the terminator never arrives within that budget.
var ErrSyntax = errors.New("wire: syntax error")

// ErrTimeout is returned when the underlying reader's deadline expires
// mid-frame. The driver treats this as a silent connection close, never an
// error frame.
var ErrTimeout = errors.New("wire: read timeout")

// rechargePrefixes are the two prefixes that, if seen as the first five bytes
// of an over-budget read, trigger a recharge transition instead of a syntax
// failure.
var rechargePrefixes = []string{"RECHA", "FULL "}

// ReadResult is the outcome of one Framer.ReadFrame call.
type ReadResult struct {
	// Payload is the frame content, terminator excluded.
	Payload string
	// EnteredRecharge is true if the read budget was exceeded mid-frame and
	// the first 5 bytes matched a recharge prefix; the Framer kept reading
	// under the recharge budget rather than failing. The caller must stash
	// the previous state and switch to StateClientRecharging.
	EnteredRecharge bool
}

// Framer reads frames, one byte at a time, off a byte source.
type Framer struct {
	r *bufio.Reader
}

// NewFramer wraps r. r must already have any deadline handling the caller
// wants applied to each byte read (internal/driver sets a read deadline on
// the underlying net.Conn before calling ReadFrame).
func NewFramer(r io.Reader) *Framer {
	return &Framer{r: bufio.NewReader(r)}
}

// ReadFrame reads bytes until the terminator, enforcing state's length
// budget. If the budget is exhausted before the terminator and the
// accumulated bytes start with a recharge prefix, it continues reading under
// the recharge budget and returns with EnteredRecharge set instead of
// failing.
func (f *Framer) ReadFrame(state State) (ReadResult, error) {
	budget := maxLength[state]
	entered := false

	var buf []byte
	var prev byte
	for {
		b, err := f.r.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return ReadResult{}, ErrTimeout
			}
			return ReadResult{}, classifyReadErr(err)
		}
		buf = append(buf, b)

		if prev == TermBell && b == TermBS {
			return ReadResult{Payload: string(buf[:len(buf)-2]), EnteredRecharge: entered}, nil
		}
		prev = b

		if len(buf) >= budget {
			if !entered && hasRechargePrefix(buf) {
				entered = true
				budget = rechargeBudget
				continue
			}
			return ReadResult{}, ErrSyntax
		}
	}
}

func hasRechargePrefix(buf []byte) bool {
	if len(buf) < 5 {
		return false
	}
	prefix := string(buf[:5])
	for _, p := range rechargePrefixes {
		if prefix == p {
			return true
		}
	}
	return false
}

// classifyReadErr maps a net.Conn deadline error to ErrTimeout; anything else
// surfaces as-is so the driver can log it and close.
func classifyReadErr(err error) error {
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout
	}
	return err
}

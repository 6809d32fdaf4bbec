package wire

import (
	"bytes"
	"io"
	"testing"
)

func TestReadFrame_SimplePayload(t *testing.T) {
	f := NewFramer(bytes.NewReader([]byte("Mereck\a\b")))
	result, err := f.ReadFrame(StateClientUsername)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Payload != "Mereck" {
		t.Errorf("payload = %q, want Mereck", result.Payload)
	}
	if result.EnteredRecharge {
		t.Error("did not expect recharge entry")
	}
}

func TestReadFrame_BudgetExceededNoRechargePrefix(t *testing.T) {
	f := NewFramer(bytes.NewReader([]byte("999999\a\b")))
	_, err := f.ReadFrame(StateClientKeyID)
	if err != ErrSyntax {
		t.Errorf("err = %v, want ErrSyntax", err)
	}
}

func TestReadFrame_RechargePrefixMidFrame(t *testing.T) {
	// StateClientKeyID's budget is 5; "RECHA" fills it exactly, triggering
	// the recharge-prefix check before the rest of "RECHARGING" arrives.
	f := NewFramer(bytes.NewReader([]byte("RECHARGING\a\b")))
	result, err := f.ReadFrame(StateClientKeyID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.EnteredRecharge {
		t.Error("expected EnteredRecharge to be true")
	}
	if result.Payload != "RECHARGING" {
		t.Errorf("payload = %q, want RECHARGING", result.Payload)
	}
}

func TestReadFrame_FullPowerPrefixMidFrame(t *testing.T) {
	f := NewFramer(bytes.NewReader([]byte("FULL POWER\a\b")))
	result, err := f.ReadFrame(StateClientConfirmation)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.EnteredRecharge {
		t.Error("expected EnteredRecharge to be true")
	}
	if result.Payload != "FULL POWER" {
		t.Errorf("payload = %q, want FULL POWER", result.Payload)
	}
}

func TestReadFrame_EOFBeforeTerminatorIsTimeout(t *testing.T) {
	f := NewFramer(bytes.NewReader([]byte("abc")))
	_, err := f.ReadFrame(StateClientUsername)
	if err != ErrTimeout {
		t.Errorf("err = %v, want ErrTimeout", err)
	}
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

type timeoutReader struct{}

func (timeoutReader) Read(p []byte) (int, error) {
	return 0, timeoutErr{}
}

func TestReadFrame_DeadlineExceededIsTimeout(t *testing.T) {
	f := NewFramer(timeoutReader{})
	_, err := f.ReadFrame(StateClientUsername)
	if err != ErrTimeout {
		t.Errorf("err = %v, want ErrTimeout", err)
	}
}

func TestReadFrame_OtherErrorSurfaces(t *testing.T) {
	f := NewFramer(iotest{})
	_, err := f.ReadFrame(StateClientUsername)
	if err == nil || err == ErrTimeout || err == ErrSyntax {
		t.Errorf("expected a surfaced error, got %v", err)
	}
}

type iotest struct{}

func (iotest) Read(p []byte) (int, error) {
	return 0, io.ErrClosedPipe
}

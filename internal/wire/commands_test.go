package wire

import (
	"bytes"
	"testing"
)

func TestFrame_LiteralsMatchTerminator(t *testing.T) {
	cases := map[Command]string{
		CmdMove:          "102 MOVE",
		CmdTurnLeft:      "103 TURN LEFT",
		CmdTurnRight:     "104 TURN RIGHT",
		CmdPickUp:        "105 GET MESSAGE",
		CmdLogout:        "106 LOGOUT",
		CmdKeyRequest:    "107 KEY REQUEST",
		CmdOK:            "200 OK",
		CmdLoginFailed:   "300 LOGIN FAILED",
		CmdSyntaxError:   "301 SYNTAX ERROR",
		CmdLogicError:    "302 LOGIC ERROR",
		CmdKeyOutOfRange: "303 KEY OUT OF RANGE",
	}
	for cmd, literal := range cases {
		want := append([]byte(literal), TermBell, TermBS)
		got := Frame(cmd)
		if !bytes.Equal(got, want) {
			t.Errorf("Frame(%d) = %q, want %q", cmd, got, want)
		}
	}
}

func TestConfirmation_AppendsTerminator(t *testing.T) {
	got := Confirmation("32195")
	want := []byte("32195\a\b")
	if !bytes.Equal(got, want) {
		t.Errorf("Confirmation(32195) = %q, want %q", got, want)
	}
}

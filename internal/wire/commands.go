package wire

// Command identifies a server response by its symbolic name, exactly as the
// per-state handler table in internal/session returns symbols rather than
// raw bytes. internal/driver resolves a Command to its literal Frame before
// writing to the socket.
type Command int

const (
	CmdMove Command = iota
	CmdTurnLeft
	CmdTurnRight
	CmdPickUp
	CmdLogout
	CmdKeyRequest
	CmdOK
	CmdLoginFailed
	CmdSyntaxError
	CmdLogicError
	CmdKeyOutOfRange
	// CmdConfirmation's literal is computed per-session (it carries the
	// hash) and is never looked up in frameLiterals; see Confirmation below.
	CmdConfirmation
)

var frameLiterals = map[Command]string{
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

// Frame resolves a Command to the exact bytes written to the wire, terminator
// included. Confirmation must be built with Confirmation(hash) instead.
func Frame(c Command) []byte {
	return append([]byte(frameLiterals[c]), TermBell, TermBS)
}

// Confirmation builds the one frame whose payload isn't fixed: the decimal
// hash computed from the client's username and the server's half of the key
// pair.
func Confirmation(hash string) []byte {
	return append([]byte(hash), TermBell, TermBS)
}

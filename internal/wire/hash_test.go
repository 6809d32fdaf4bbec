package wire

import "testing"

func TestCalculateHash_KnownVector(t *testing.T) {
	// "Mereck" summed: M=77 e=101 r=114 e=101 c=99 k=107 = 599
	// (599*1000) mod 65536 = 9176
	// 9176 + 23019 = 32195, mod 65536 = 32195
	got := CalculateHash("Mereck", 23019)
	if got != "32195" {
		t.Errorf("CalculateHash(Mereck, 23019) = %s, want 32195", got)
	}
}

func TestCalculateHash_WrapsModulo(t *testing.T) {
	got := CalculateHash("", 0)
	if got != "0" {
		t.Errorf("CalculateHash(empty, 0) = %s, want 0", got)
	}

	// (599*1000) mod 65536 = 9176; 9176 + 65535 = 74711, mod 65536 = 9175
	got = CalculateHash("Mereck", 65535)
	if got != "9175" {
		t.Errorf("CalculateHash(Mereck, 65535) = %s, want 9175", got)
	}
}

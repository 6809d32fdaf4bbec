package keytable

import "testing"

func TestLookup_InRange(t *testing.T) {
	entry, ok := Lookup(0)
	if !ok {
		t.Fatal("expected index 0 to be in range")
	}
	if entry.ServerKey != 23019 || entry.ClientKey != 32037 {
		t.Errorf("unexpected entry for index 0: %+v", entry)
	}

	entry, ok = Lookup(4)
	if !ok {
		t.Fatal("expected index 4 to be in range")
	}
	if entry.ServerKey != 18189 || entry.ClientKey != 21952 {
		t.Errorf("unexpected entry for index 4: %+v", entry)
	}
}

func TestLookup_OutOfRange(t *testing.T) {
	cases := []int{-1, 5, 100}
	for _, idx := range cases {
		if _, ok := Lookup(idx); ok {
			t.Errorf("expected index %d to be out of range", idx)
		}
	}
}

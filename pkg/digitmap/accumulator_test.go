package digitmap

import (
	"errors"
	"strings"
	"testing"
)

func TestAccumulator_RejectsFillToCapacity(t *testing.T) {
	a := newAccumulator(8)
	if err := a.appendString("1234"); err != nil {
		t.Fatalf("appendString: %v", err)
	}
	// Meeting remaining capacity exactly also fails; one byte is always
	// held back.
	if err := a.appendString("5678"); !errors.Is(err, ErrBufferExhausted) {
		t.Fatalf("err = %v, want ErrBufferExhausted", err)
	}
	// Prior successful appends stay committed.
	if got := string(a.bytes()); got != "1234" {
		t.Fatalf("bytes = %q", got)
	}
	if err := a.appendString("567"); err != nil {
		t.Fatalf("appendString after failure: %v", err)
	}
	if got := string(a.bytes()); got != "1234567" {
		t.Fatalf("bytes = %q", got)
	}
}

func TestAccumulator_LongFragment(t *testing.T) {
	a := newAccumulator(16)
	if err := a.appendString(strings.Repeat("x", 32)); !errors.Is(err, ErrBufferExhausted) {
		t.Fatalf("err = %v, want ErrBufferExhausted", err)
	}
	if a.len() != 0 {
		t.Fatalf("len = %d after failed append", a.len())
	}
}

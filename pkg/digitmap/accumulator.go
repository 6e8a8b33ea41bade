package digitmap

// accumulator is an append-only sink over a fixed-capacity buffer. The
// capacity is shared by the whole generation tree; an append that would
// meet or exceed the remaining space fails and poisons nothing already
// written. Matching the device firmware convention, one byte is always
// held back (the C implementations reserve it for the terminator), so a
// map can never fill the buffer exactly.
type accumulator struct {
	buf []byte
	n   int
}

func newAccumulator(capacity int) *accumulator {
	return &accumulator{buf: make([]byte, 0, capacity)}
}

func (a *accumulator) appendString(s string) error {
	if a.n+len(s) >= cap(a.buf) {
		return ErrBufferExhausted
	}
	a.buf = append(a.buf, s...)
	a.n += len(s)
	return nil
}

func (a *accumulator) appendByte(b byte) error {
	if a.n+1 >= cap(a.buf) {
		return ErrBufferExhausted
	}
	a.buf = append(a.buf, b)
	a.n++
	return nil
}

func (a *accumulator) len() int { return a.n }

func (a *accumulator) bytes() []byte { return a.buf }

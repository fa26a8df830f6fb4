package automaton

// clock is a logical clock stamping trace events in search order.
//
// Each Trace call owns its own clock, so sequence numbers are repeatable
// across runs and independent of wall time.
type clock struct {
	seq int64
}

// next returns the next sequence number, starting at 1.
func (c *clock) next() int64 {
	c.seq++
	return c.seq
}

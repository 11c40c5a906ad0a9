package uploader

import "bytes"

type readState int

const (
	readFound readState = iota
	readAbsent
	readFailed
)

// readResult keeps "confirmed absent" and "read error" apart until the
// comparison, where both mean nothing is stored yet.
type readResult struct {
	state readState
	body  []byte
	err   error
}

func (r readResult) differs(payload []byte) bool {
	if r.state != readFound {
		return true
	}
	return !bytes.Equal(r.body, payload)
}

package gesture

import (
	"encoding/binary"
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
)

// maxMessage bounds a single frame from the detector.
const maxMessage = 1 << 20

// Landmark is one normalized hand keypoint.
type Landmark struct {
	X float64 `msgpack:"x"`
	Y float64 `msgpack:"y"`
	Z float64 `msgpack:"z"`
}

// Frame is one detector result: zero or more hands of 21 landmarks each.
type Frame struct {
	TS    time.Duration
	Hands [][]Landmark
}

type wireFrame struct {
	TSMillis float64      `msgpack:"ts_ms"`
	Hands    [][]Landmark `msgpack:"hands"`
	Error    string       `msgpack:"error,omitempty"`
}

type command struct {
	Type    string `msgpack:"type"`
	Command string `msgpack:"command"`
}

// writeMessage writes v as a 4-byte big-endian length followed by msgpack.
func writeMessage(w io.Writer, v any) error {
	data, err := msgpack.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "marshal message")
	}
	var prefix [4]byte
	binary.BigEndian.PutUint32(prefix[:], uint32(len(data)))
	if _, err := w.Write(prefix[:]); err != nil {
		return errors.Wrap(err, "write length prefix")
	}
	if _, err := w.Write(data); err != nil {
		return errors.Wrap(err, "write message")
	}
	return nil
}

// readMessage reads one length-prefixed msgpack message into v. It returns
// io.EOF when the stream ends cleanly between messages.
func readMessage(r io.Reader, v any) error {
	var prefix [4]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		if err == io.EOF {
			return io.EOF
		}
		return errors.Wrap(err, "read length prefix")
	}
	n := binary.BigEndian.Uint32(prefix[:])
	if n > maxMessage {
		return errors.Errorf("message of %d bytes exceeds limit", n)
	}
	data := make([]byte, n)
	if _, err := io.ReadFull(r, data); err != nil {
		return errors.Wrapf(err, "read %d byte message", n)
	}
	if err := msgpack.Unmarshal(data, v); err != nil {
		return errors.Wrap(err, "unmarshal message")
	}
	return nil
}

// readFrame decodes one detector frame. A frame carrying an error string
// is returned as an error.
func readFrame(r io.Reader) (Frame, error) {
	var wf wireFrame
	if err := readMessage(r, &wf); err != nil {
		return Frame{}, err
	}
	if wf.Error != "" {
		return Frame{}, errors.Errorf("detector: %s", wf.Error)
	}
	return Frame{
		TS:    time.Duration(wf.TSMillis * float64(time.Millisecond)),
		Hands: wf.Hands,
	}, nil
}

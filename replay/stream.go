package replay

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"time"
)

// Replay is a fully-loaded replay stream: header plus every recorded
// DataPoint, kept in frame order. Grounded on
// ecs_engine/src/replay/replay_data.rs's Replay_Data.
type Replay struct {
	MsPerFrame float32
	Seed       Seed
	Data       []DataPoint
	Duration   time.Duration
}

// Seed is the RNG seed recorded at the start of a replay. The caller is
// responsible for reseeding its RNG with it on load — the replay stream
// itself never touches any RNG (spec §4.7).
type Seed = uint64

// Writer records a replay to an underlying io.Writer: a header written
// once up front, followed by one DataPoint per call to WritePoint.
type Writer struct {
	w          io.Writer
	frameCount uint32
}

// NewWriter writes the replay header (ms-per-frame and RNG seed) and
// returns a Writer ready to accept DataPoints.
func NewWriter(w io.Writer, msPerFrame float32, seed Seed) (*Writer, error) {
	if err := binary.Write(w, binary.LittleEndian, msPerFrame); err != nil {
		return nil, err
	}
	if err := binary.Write(w, binary.LittleEndian, seed); err != nil {
		return nil, err
	}
	return &Writer{w: w}, nil
}

// WritePoint appends one DataPoint to the stream.
func (rw *Writer) WritePoint(p DataPoint) error {
	if err := p.write(rw.w); err != nil {
		return err
	}
	rw.frameCount++
	return nil
}

// Load reads a full replay stream: header then every DataPoint until
// EOF. An EOF that lands exactly on a point boundary ends the stream
// cleanly; any other read failure (including an unknown event tag) is
// returned as an error (spec §4.7 — deserialize failures are tier-4:
// a returned error, never a panic).
func Load(r io.Reader) (*Replay, error) {
	br := bufio.NewReader(r)

	var msPerFrame float32
	if err := binary.Read(br, binary.LittleEndian, &msPerFrame); err != nil {
		return nil, fmt.Errorf("replay: reading header: %w", err)
	}
	var seed Seed
	if err := binary.Read(br, binary.LittleEndian, &seed); err != nil {
		return nil, fmt.Errorf("replay: reading header: %w", err)
	}

	rep := &Replay{MsPerFrame: msPerFrame, Seed: seed}

	for {
		p, err := readDataPoint(br)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("replay: reading point %d: %w", len(rep.Data), err)
		}
		rep.Data = append(rep.Data, p)
	}

	rep.Duration = time.Duration(float64(len(rep.Data)) * float64(msPerFrame) * float64(time.Millisecond))
	return rep, nil
}

// Iter is a one-shot, consuming iterator over a Replay's points,
// grounded on Replay_Data_Iter's swap-and-advance Next() — here
// expressed idiomatically as a cursor rather than a mem::swap, since Go
// has no analogous move semantics to exploit.
type Iter struct {
	data []DataPoint
	idx  int
}

// NewIter returns an iterator over rep's points in frame order.
func NewIter(rep *Replay) *Iter {
	return &Iter{data: rep.Data}
}

// Next returns the next point and true, or a zero DataPoint and false
// once the stream is exhausted.
func (it *Iter) Next() (DataPoint, bool) {
	if it.idx >= len(it.data) {
		return DataPoint{}, false
	}
	p := it.data[it.idx]
	it.idx++
	return p, true
}

// Remaining reports how many points are left unconsumed.
func (it *Iter) Remaining() int {
	return len(it.data) - it.idx
}

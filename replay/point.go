// Package replay implements the replay stream (C7): per-frame recording
// and deterministic playback of raw input, in the packed little-endian
// wire format spec §4.7 defines.
//
// Grounded on ecs_engine/src/replay/replay_data.rs's Replay_Data_Point /
// Replay_Joystick_Data and their hand-rolled Binary_Serializable
// impls — the same bitmask-skips-unchanged-data design, ported from the
// Rust Byte_Stream reader/writer onto Go's encoding/binary.
package replay

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/silverweed/forge/input"
	"github.com/silverweed/forge/input/device"
)

// ErrInvalidReplayTag is returned when a recorded event's tag byte does
// not match one of the 7 known event kinds (spec §4.7).
var ErrInvalidReplayTag = errors.New("replay: invalid data")

const axesCount = int(device.JoyAxisCount)
const joyCount = device.MaxJoysticks

// JoystickData is the per-frame, per-joystick analog snapshot recorded
// into a DataPoint. AxesMask skips serializing axes that didn't change
// or belong to a disconnected joystick.
type JoystickData struct {
	Axes     [axesCount]float32
	AxesMask uint8
}

func (d *JoystickData) write(w io.Writer) error {
	if err := writeU8(w, d.AxesMask); err != nil {
		return err
	}
	for i := 0; i < axesCount; i++ {
		if d.AxesMask&(1<<uint(i)) == 0 {
			continue
		}
		if err := binary.Write(w, binary.LittleEndian, d.Axes[i]); err != nil {
			return err
		}
	}
	return nil
}

func readJoystickData(r io.Reader) (JoystickData, error) {
	var d JoystickData
	mask, err := readU8(r)
	if err != nil {
		return d, err
	}
	d.AxesMask = mask
	for i := 0; i < axesCount; i++ {
		if mask&(1<<uint(i)) == 0 {
			continue
		}
		if err := binary.Read(r, binary.LittleEndian, &d.Axes[i]); err != nil {
			return d, err
		}
	}
	return d, nil
}

// DataPoint is one recorded frame: the events that occurred plus the
// joystick axis deltas, diffed against the previous point (spec §4.7).
type DataPoint struct {
	FrameNumber uint32
	Events      []input.RawEvent
	JoyData     [joyCount]JoystickData
	JoyMask     uint8
}

// ShouldRecordEvent reports whether ev belongs to the subset of raw
// events the wire format can represent (tags 0x0..0x6); core
// window/focus events are never serialized into a replay.
func ShouldRecordEvent(ev input.RawEvent) bool {
	switch ev.Kind {
	case input.EventKeyPressed, input.EventKeyReleased,
		input.EventJoyButtonPressed, input.EventJoyButtonReleased,
		input.EventMouseButtonPressed, input.EventMouseButtonReleased,
		input.EventWheelScrolled:
		return true
	default:
		return false
	}
}

// NewDataPoint filters events down to the recordable subset before
// building the point (mirrors Replay_Data_Point::new's use of
// should_event_be_serialized).
func NewDataPoint(frameNumber uint32, events []input.RawEvent, joyData [joyCount]JoystickData, joyMask uint8) DataPoint {
	var recordable []input.RawEvent
	for _, ev := range events {
		if ShouldRecordEvent(ev) {
			recordable = append(recordable, ev)
		}
	}
	return DataPoint{
		FrameNumber: frameNumber,
		Events:      recordable,
		JoyData:     joyData,
		JoyMask:     joyMask,
	}
}

func (p *DataPoint) write(w io.Writer) error {
	if err := binary.Write(w, binary.LittleEndian, p.FrameNumber); err != nil {
		return err
	}
	if len(p.Events) > 0xFF {
		return fmt.Errorf("replay: too many events in one frame (%d > 255)", len(p.Events))
	}
	if err := writeU8(w, uint8(len(p.Events))); err != nil {
		return err
	}
	for _, ev := range p.Events {
		if err := writeEvent(w, ev); err != nil {
			return err
		}
	}
	if err := writeU8(w, p.JoyMask); err != nil {
		return err
	}
	for i := 0; i < joyCount; i++ {
		if p.JoyMask&(1<<uint(i)) == 0 {
			continue
		}
		if err := p.JoyData[i].write(w); err != nil {
			return err
		}
	}
	return nil
}

func readDataPoint(r io.Reader) (p DataPoint, err error) {
	if err = binary.Read(r, binary.LittleEndian, &p.FrameNumber); err != nil {
		return p, err
	}
	// Once the frame number is read, running out of input means the point
	// was cut short, not that the stream ended on a point boundary.
	defer func() {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
	}()
	nEvents, err := readU8(r)
	if err != nil {
		return p, err
	}
	for i := uint8(0); i < nEvents; i++ {
		ev, err := readEvent(r)
		if err != nil {
			return p, err
		}
		p.Events = append(p.Events, ev)
	}
	joyMask, err := readU8(r)
	if err != nil {
		return p, err
	}
	p.JoyMask = joyMask
	for i := 0; i < joyCount; i++ {
		if joyMask&(1<<uint(i)) == 0 {
			continue
		}
		data, err := readJoystickData(r)
		if err != nil {
			return p, err
		}
		p.JoyData[i] = data
	}
	return p, nil
}

func writeU8(w io.Writer, b uint8) error {
	_, err := w.Write([]byte{b})
	return err
}

func readU8(r io.Reader) (uint8, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

const (
	tagKeyPressed uint8 = iota
	tagKeyReleased
	tagJoyPressed
	tagJoyReleased
	tagMousePressed
	tagMouseReleased
	tagWheelScrolled
)

func writeEvent(w io.Writer, ev input.RawEvent) error {
	switch ev.Kind {
	case input.EventKeyPressed:
		return writeTagged(w, tagKeyPressed, func(w io.Writer) error {
			return binary.Write(w, binary.LittleEndian, uint16(ev.Key))
		})
	case input.EventKeyReleased:
		return writeTagged(w, tagKeyReleased, func(w io.Writer) error {
			return binary.Write(w, binary.LittleEndian, uint16(ev.Key))
		})
	case input.EventJoyButtonPressed:
		return writeTagged(w, tagJoyPressed, func(w io.Writer) error {
			if err := writeU8(w, uint8(ev.JoyID)); err != nil {
				return err
			}
			return writeU8(w, uint8(ev.JoyButton))
		})
	case input.EventJoyButtonReleased:
		return writeTagged(w, tagJoyReleased, func(w io.Writer) error {
			if err := writeU8(w, uint8(ev.JoyID)); err != nil {
				return err
			}
			return writeU8(w, uint8(ev.JoyButton))
		})
	case input.EventMouseButtonPressed:
		return writeTagged(w, tagMousePressed, func(w io.Writer) error {
			return writeU8(w, uint8(ev.MouseButton))
		})
	case input.EventMouseButtonReleased:
		return writeTagged(w, tagMouseReleased, func(w io.Writer) error {
			return writeU8(w, uint8(ev.MouseButton))
		})
	case input.EventWheelScrolled:
		return writeTagged(w, tagWheelScrolled, func(w io.Writer) error {
			return binary.Write(w, binary.LittleEndian, ev.WheelDelta)
		})
	default:
		return fmt.Errorf("replay: event kind %v is not recordable", ev.Kind)
	}
}

func writeTagged(w io.Writer, tag uint8, payload func(io.Writer) error) error {
	if err := writeU8(w, tag); err != nil {
		return err
	}
	return payload(w)
}

func readEvent(r io.Reader) (input.RawEvent, error) {
	tag, err := readU8(r)
	if err != nil {
		return input.RawEvent{}, err
	}
	switch tag {
	case tagKeyPressed, tagKeyReleased:
		var code uint16
		if err := binary.Read(r, binary.LittleEndian, &code); err != nil {
			return input.RawEvent{}, err
		}
		kind := input.EventKeyPressed
		if tag == tagKeyReleased {
			kind = input.EventKeyReleased
		}
		return input.RawEvent{Kind: kind, Key: device.Key(code)}, nil
	case tagJoyPressed, tagJoyReleased:
		joy, err := readU8(r)
		if err != nil {
			return input.RawEvent{}, err
		}
		btn, err := readU8(r)
		if err != nil {
			return input.RawEvent{}, err
		}
		kind := input.EventJoyButtonPressed
		if tag == tagJoyReleased {
			kind = input.EventJoyButtonReleased
		}
		return input.RawEvent{Kind: kind, JoyID: int(joy), JoyButton: device.JoyButton(btn)}, nil
	case tagMousePressed, tagMouseReleased:
		btn, err := readU8(r)
		if err != nil {
			return input.RawEvent{}, err
		}
		kind := input.EventMouseButtonPressed
		if tag == tagMouseReleased {
			kind = input.EventMouseButtonReleased
		}
		return input.RawEvent{Kind: kind, MouseButton: device.MouseButton(btn)}, nil
	case tagWheelScrolled:
		var delta float32
		if err := binary.Read(r, binary.LittleEndian, &delta); err != nil {
			return input.RawEvent{}, err
		}
		return input.RawEvent{Kind: input.EventWheelScrolled, WheelDelta: delta}, nil
	default:
		return input.RawEvent{}, ErrInvalidReplayTag
	}
}

package input

import "github.com/silverweed/forge/input/device"

// RawEventKind discriminates the variants of RawEvent. Tag values 0x0..0x6
// match the wire encoding the replay stream uses (spec §4.7); the core
// window/focus events have no wire encoding since they are never
// recorded into a replay.
type RawEventKind uint8

const (
	EventKeyPressed RawEventKind = iota
	EventKeyReleased
	EventJoyButtonPressed
	EventJoyButtonReleased
	EventMouseButtonPressed
	EventMouseButtonReleased
	EventWheelScrolled
	EventWindowClosed
	EventWindowResized
	EventJoystickConnected
	EventJoystickDisconnected
	EventFocusLost
	EventFocusGained
)

// RawEvent is one raw device or window event, as delivered in receipt
// order within a frame.
type RawEvent struct {
	Kind RawEventKind

	Key         device.Key
	JoyID       int
	JoyButton   device.JoyButton
	MouseButton device.MouseButton
	WheelDelta  float32

	Width, Height int
}

// JoystickInfo is the per-axis analog state of one connected joystick.
type JoystickInfo struct {
	Connected bool
	Axes      [device.JoyAxisCount]float32
}

// KeyboardState is the live modifier mask plus the set of currently
// pressed keys.
type KeyboardState struct {
	Modifiers device.Modifier
	Pressed   map[device.Key]bool
}

// MouseState is the live button bitset, cursor position, and last wheel
// delta.
type MouseState struct {
	Pressed  map[device.MouseButton]bool
	X, Y     float32
	WheelAcc float32
}

// RawState is the input raw state (spec §3): the device-level snapshot
// the translation pipeline consumes each frame.
type RawState struct {
	Keyboard   KeyboardState
	Mouse      MouseState
	Joysticks  [device.MaxJoysticks]JoystickInfo
	RawEvents  []RawEvent
}

// NewRawState creates an empty raw state with no joysticks connected.
func NewRawState() *RawState {
	return &RawState{
		Keyboard: KeyboardState{Pressed: make(map[device.Key]bool)},
		Mouse:    MouseState{Pressed: make(map[device.MouseButton]bool)},
	}
}

// CoreActionKind names the window/device lifecycle actions that remain
// observable even while a replay input source is driving game actions
// (spec §4.6).
type CoreActionKind uint8

const (
	CoreQuit CoreActionKind = iota
	CoreResize
	CoreJoystickConnected
	CoreJoystickDisconnected
	CoreFocusLost
	CoreFocusGained
)

// CoreAction is one core (always-active) action emitted this frame.
type CoreAction struct {
	Kind          CoreActionKind
	Width, Height int
	JoyID         int
}

// Package input implements the per-frame input translation pipeline
// (C6): raw device events plus live modifier state, translated through
// a set of bindings into named core/game actions and virtual axis
// values.
//
// Grounded on ecs_engine/inle_input/src/bindings.rs (Input_Action,
// Axis_Bindings, the modifier bitmask) and
// ecs_engine/src/input/input_state.rs (the per-frame update algorithm).
package input

import "github.com/silverweed/forge/input/device"

// ActionKind distinguishes a press from a release of whatever triggered
// a game action.
type ActionKind uint8

const (
	Pressed ActionKind = iota
	Released
)

func (k ActionKind) String() string {
	if k == Pressed {
		return "Pressed"
	}
	return "Released"
}

// GameAction is one emitted action: a name and whether it was triggered
// by a press or a release.
type GameAction struct {
	Name string
	Kind ActionKind
}

// SourceKind discriminates the variants of InputSource.
type SourceKind uint8

const (
	SourceKey SourceKind = iota
	SourceJoyButton
	SourceMouseButton
	SourceMouseWheel
)

// InputSource is one of {Key(k), JoyButton(b), MouseButton(m),
// MouseWheel(up|down)} (spec §4.6).
type InputSource struct {
	Kind        SourceKind
	Key         device.Key
	JoyButton   device.JoyButton
	MouseButton device.MouseButton
	WheelUp     bool
}

func KeySource(k device.Key) InputSource { return InputSource{Kind: SourceKey, Key: k} }
func JoySource(b device.JoyButton) InputSource {
	return InputSource{Kind: SourceJoyButton, JoyButton: b}
}
func MouseSource(b device.MouseButton) InputSource {
	return InputSource{Kind: SourceMouseButton, MouseButton: b}
}
func WheelSource(up bool) InputSource { return InputSource{Kind: SourceMouseWheel, WheelUp: up} }

// Action pairs an InputSource with the modifier mask that must be held
// for a binding on it to fire.
type Action struct {
	Source    InputSource
	Modifiers device.Modifier
}

// AxisEndpoint is the value an emulated (digital) axis snaps to while its
// driving input is held.
type AxisEndpoint int8

const (
	EndpointMin AxisEndpoint = -1
	EndpointMax AxisEndpoint = 1
)

// EmulatedAxisBinding names the virtual axis an emulated endpoint drives.
type EmulatedAxisBinding struct {
	AxisName string
	Endpoint AxisEndpoint
}

// AxisBindings holds both the real (analog) and emulated (digital)
// axis-binding tables.
type AxisBindings struct {
	AxesNames []string
	Real      map[device.JoyAxis][]string
	Emulated  map[InputSource][]EmulatedAxisBinding
}

func newAxisBindings() AxisBindings {
	return AxisBindings{
		Real:     make(map[device.JoyAxis][]string),
		Emulated: make(map[InputSource][]EmulatedAxisBinding),
	}
}

// Bindings is the full set of action and axis bindings for a frame's
// input translation.
type Bindings struct {
	Action map[Action][]string
	Axis   AxisBindings
}

// NewBindings creates an empty binding set.
func NewBindings() *Bindings {
	return &Bindings{
		Action: make(map[Action][]string),
		Axis:   newAxisBindings(),
	}
}

func (b *Bindings) actionsFor(source InputSource, mods device.Modifier) []string {
	return b.Action[Action{Source: source, Modifiers: mods}]
}

// KeyActions returns the action names bound to key under the given live
// modifier mask.
func (b *Bindings) KeyActions(k device.Key, mods device.Modifier) []string {
	return b.actionsFor(KeySource(k), mods)
}

// JoyButtonActions returns the action names bound to a joystick button.
// Joystick bindings do not carry modifiers (spec follows the source's
// @Incomplete note: modifiers are a keyboard/mouse-only concept here).
func (b *Bindings) JoyButtonActions(btn device.JoyButton) []string {
	return b.actionsFor(JoySource(btn), 0)
}

// MouseButtonActions returns the action names bound to a mouse button
// under the given live modifier mask.
func (b *Bindings) MouseButtonActions(btn device.MouseButton, mods device.Modifier) []string {
	return b.actionsFor(MouseSource(btn), mods)
}

// MouseWheelActions returns the action names bound to a wheel scroll in
// the given direction under the given live modifier mask. Wheel events
// always count as Pressed (spec §4.6).
func (b *Bindings) MouseWheelActions(up bool, mods device.Modifier) []string {
	return b.actionsFor(WheelSource(up), mods)
}

func (b *Bindings) emulatedFor(source InputSource) []EmulatedAxisBinding {
	return b.Axis.Emulated[source]
}

func (b *Bindings) KeyEmulatedAxes(k device.Key) []EmulatedAxisBinding {
	return b.emulatedFor(KeySource(k))
}

func (b *Bindings) JoyButtonEmulatedAxes(btn device.JoyButton) []EmulatedAxisBinding {
	return b.emulatedFor(JoySource(btn))
}

func (b *Bindings) MouseButtonEmulatedAxes(btn device.MouseButton) []EmulatedAxisBinding {
	return b.emulatedFor(MouseSource(btn))
}

func (b *Bindings) MouseWheelEmulatedAxes(up bool) []EmulatedAxisBinding {
	return b.emulatedFor(WheelSource(up))
}

// VirtualAxesFromRealAxis returns the virtual-axis names a real joystick
// axis feeds.
func (b *Bindings) VirtualAxesFromRealAxis(axis device.JoyAxis) []string {
	return b.Axis.Real[axis]
}

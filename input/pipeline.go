package input

import "github.com/silverweed/forge/input/device"

// Pipeline is the per-frame input translation pipeline (C6): a pure
// function of (raw state, bindings) producing core actions, game
// actions, and virtual axis values.
//
// Grounded on ecs_engine/src/input/input_state.rs's Input_State /
// update_input / read_events_to_actions / update_real_axes.
type Pipeline struct {
	Bindings *Bindings
	Axes     *VirtualAxes

	CoreActions []CoreAction
	GameActions []GameAction
	RawEvents   []RawEvent
}

// NewPipeline creates a pipeline bound to the given bindings, with one
// virtual axis per name in bindings.Axis.AxesNames.
func NewPipeline(bindings *Bindings) *Pipeline {
	return &Pipeline{
		Bindings: bindings,
		Axes:     NewVirtualAxes(bindings.Axis.AxesNames),
	}
}

// Update processes one frame of raw_state through the bindings,
// producing this frame's core/game actions and axis values.
// processGameActions gates game-action emission and axis emulation
// (false while paused or while a console/menu has focus); core actions
// are always processed, even during replay.
func (p *Pipeline) Update(raw *RawState, processGameActions bool) {
	p.updateRealAxes(raw)

	p.CoreActions = p.CoreActions[:0]
	p.GameActions = p.GameActions[:0]
	p.RawEvents = p.RawEvents[:0]

	for _, ev := range raw.RawEvents {
		p.RawEvents = append(p.RawEvents, ev)
		if p.processCoreEvent(ev) {
			continue
		}
		if processGameActions {
			p.processGameEvent(ev, raw.Keyboard.Modifiers)
		}
	}
}

func (p *Pipeline) updateRealAxes(raw *RawState) {
	p.Axes.zeroUnlessEmulated()

	for joyID := range raw.Joysticks {
		joy := &raw.Joysticks[joyID]
		if !joy.Connected {
			continue
		}
		for axis := device.JoyAxis(0); axis < device.JoyAxisCount; axis++ {
			value := joy.Axes[axis]
			for _, virtualName := range p.Bindings.VirtualAxesFromRealAxis(axis) {
				p.Axes.applyReal(virtualName, value)
			}
		}
	}
}

// processCoreEvent handles the window/device lifecycle events that stay
// active even while a replay source drives game actions. Returns true if
// ev was a core event (and therefore should not also be tried as a game
// event).
func (p *Pipeline) processCoreEvent(ev RawEvent) bool {
	switch ev.Kind {
	case EventWindowClosed:
		p.CoreActions = append(p.CoreActions, CoreAction{Kind: CoreQuit})
	case EventWindowResized:
		p.CoreActions = append(p.CoreActions, CoreAction{Kind: CoreResize, Width: ev.Width, Height: ev.Height})
	case EventJoystickConnected:
		p.CoreActions = append(p.CoreActions, CoreAction{Kind: CoreJoystickConnected, JoyID: ev.JoyID})
	case EventJoystickDisconnected:
		p.CoreActions = append(p.CoreActions, CoreAction{Kind: CoreJoystickDisconnected, JoyID: ev.JoyID})
	case EventFocusLost:
		p.CoreActions = append(p.CoreActions, CoreAction{Kind: CoreFocusLost})
	case EventFocusGained:
		p.CoreActions = append(p.CoreActions, CoreAction{Kind: CoreFocusGained})
	default:
		return false
	}
	return true
}

func (p *Pipeline) processGameEvent(ev RawEvent, liveMods device.Modifier) {
	switch ev.Kind {
	case EventKeyPressed:
		mods := liveMods &^ device.ModifierForKey(ev.Key)
		p.emitActions(p.Bindings.KeyActions(ev.Key, mods), Pressed)
		p.emitEmulated(p.Bindings.KeyEmulatedAxes(ev.Key), true)
	case EventKeyReleased:
		mods := liveMods &^ device.ModifierForKey(ev.Key)
		p.emitActions(p.Bindings.KeyActions(ev.Key, mods), Released)
		p.emitEmulated(p.Bindings.KeyEmulatedAxes(ev.Key), false)
	case EventJoyButtonPressed:
		p.emitActions(p.Bindings.JoyButtonActions(ev.JoyButton), Pressed)
		p.emitEmulated(p.Bindings.JoyButtonEmulatedAxes(ev.JoyButton), true)
	case EventJoyButtonReleased:
		p.emitActions(p.Bindings.JoyButtonActions(ev.JoyButton), Released)
		p.emitEmulated(p.Bindings.JoyButtonEmulatedAxes(ev.JoyButton), false)
	case EventMouseButtonPressed:
		p.emitActions(p.Bindings.MouseButtonActions(ev.MouseButton, liveMods), Pressed)
		p.emitEmulated(p.Bindings.MouseButtonEmulatedAxes(ev.MouseButton), true)
	case EventMouseButtonReleased:
		p.emitActions(p.Bindings.MouseButtonActions(ev.MouseButton, liveMods), Released)
		p.emitEmulated(p.Bindings.MouseButtonEmulatedAxes(ev.MouseButton), false)
	case EventWheelScrolled:
		up := ev.WheelDelta > 0
		// Wheel events always count as Pressed (spec §4.6) — there is no
		// corresponding "release" tick to drive a Released action.
		p.emitActions(p.Bindings.MouseWheelActions(up, liveMods), Pressed)
		p.emitEmulated(p.Bindings.MouseWheelEmulatedAxes(up), true)
	}
}

func (p *Pipeline) emitActions(names []string, kind ActionKind) {
	for _, name := range names {
		p.GameActions = append(p.GameActions, GameAction{Name: name, Kind: kind})
	}
}

func (p *Pipeline) emitEmulated(bindings []EmulatedAxisBinding, pressed bool) {
	for _, b := range bindings {
		if pressed {
			p.Axes.SetEmulatedValue(b.AxisName, b.Endpoint)
		} else {
			p.Axes.ResetEmulatedValue(b.AxisName, b.Endpoint)
		}
	}
}

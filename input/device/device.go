// Package device names the raw input vocabulary the translation pipeline
// (input.Pipeline) binds against: keys, mouse buttons, joystick buttons,
// joystick axes and the wheel direction.
//
// Key and MouseButton are aliases over github.com/go-gl/glfw/v3.3/glfw's
// own constants, the same key-code vocabulary
// Carmen-Shannon-oxy-go/engine/window/window_glfw.go's callback-based
// input layer translates from window-system events. JoyButton/JoyAxis are
// not backed by glfw (glfw's joystick API numbers buttons/axes by raw
// index, with no portable names) and are grounded instead on
// ecs_engine/src/input/bindings/joystick.rs's Joystick_Button/
// Joystick_Axis enums and their per-platform XInput id tables.
package device

import "github.com/go-gl/glfw/v3.3/glfw"

// Key identifies a keyboard key.
type Key = glfw.Key

// MouseButton identifies a mouse button.
type MouseButton = glfw.MouseButton

// JoyButton identifies a button on a gamepad, independent of the
// platform-specific raw button index it maps to.
type JoyButton uint8

const (
	FaceTop JoyButton = iota
	FaceRight
	FaceBottom
	FaceLeft
	SpecialLeft
	SpecialRight
	SpecialMiddle
	StickLeft
	StickRight
	ShoulderLeft
	ShoulderRight
	DpadTop
	DpadRight
	DpadBottom
	DpadLeft
	TriggerLeftBtn
	TriggerRightBtn
	JoyButtonCount
)

// JoyAxis identifies an analog axis on a gamepad.
type JoyAxis uint8

const (
	StickLeftH JoyAxis = iota
	StickLeftV
	StickRightH
	StickRightV
	TriggerLeftAxis
	TriggerRightAxis
	DpadH
	DpadV
	JoyAxisCount
)

// WheelDir is the direction of a mouse-wheel scroll tick.
type WheelDir uint8

const (
	WheelUp WheelDir = iota
	WheelDown
)

// MaxJoysticks bounds the fixed-size joystick array the raw input state
// carries (spec §3: joysticks: array[8] of optional {...}).
const MaxJoysticks = 8

// Modifier is an 8-bit mask: left/right × {ctrl, shift, alt, super}.
type Modifier uint8

const (
	ModLCtrl Modifier = 1 << iota
	ModRCtrl
	ModLShift
	ModRShift
	ModLAlt
	ModRAlt
	ModLSuper
	ModRSuper
)

// ModifierForKey returns the single modifier bit a key contributes to the
// live modifier mask, or 0 if key is not itself a modifier key.
func ModifierForKey(k Key) Modifier {
	switch k {
	case glfw.KeyLeftControl:
		return ModLCtrl
	case glfw.KeyRightControl:
		return ModRCtrl
	case glfw.KeyLeftShift:
		return ModLShift
	case glfw.KeyRightShift:
		return ModRShift
	case glfw.KeyLeftAlt:
		return ModLAlt
	case glfw.KeyRightAlt:
		return ModRAlt
	case glfw.KeyLeftSuper:
		return ModLSuper
	case glfw.KeyRightSuper:
		return ModRSuper
	default:
		return 0
	}
}

var joyButtonNames = map[string]JoyButton{
	"Face_Top":       FaceTop,
	"Face_Right":     FaceRight,
	"Face_Bottom":    FaceBottom,
	"Face_Left":      FaceLeft,
	"Special_Left":   SpecialLeft,
	"Special_Right":  SpecialRight,
	"Special_Middle": SpecialMiddle,
	"Stick_Left":     StickLeft,
	"Stick_Right":    StickRight,
	"Shoulder_Left":  ShoulderLeft,
	"Shoulder_Right": ShoulderRight,
	"Dpad_Top":       DpadTop,
	"Dpad_Right":     DpadRight,
	"Dpad_Bottom":    DpadBottom,
	"Dpad_Left":      DpadLeft,
	"Trigger_Left":   TriggerLeftBtn,
	"Trigger_Right":  TriggerRightBtn,
}

// StringToJoyButton parses a joystick-button token (without its "Joy_"
// prefix), returning ok=false for an unrecognized name.
func StringToJoyButton(s string) (JoyButton, bool) {
	b, ok := joyButtonNames[s]
	return b, ok
}

var joyAxisNames = map[string]JoyAxis{
	"Stick_Left_H":  StickLeftH,
	"Stick_Left_V":  StickLeftV,
	"Stick_Right_H": StickRightH,
	"Stick_Right_V": StickRightV,
	"Trigger_Left":  TriggerLeftAxis,
	"Trigger_Right": TriggerRightAxis,
	"Dpad_H":        DpadH,
	"Dpad_V":        DpadV,
}

// StringToJoyAxis parses a joystick-axis token, returning ok=false for an
// unrecognized name.
func StringToJoyAxis(s string) (JoyAxis, bool) {
	a, ok := joyAxisNames[s]
	return a, ok
}

var mouseButtonNames = map[string]MouseButton{
	"Left":   glfw.MouseButtonLeft,
	"Right":  glfw.MouseButtonRight,
	"Middle": glfw.MouseButtonMiddle,
}

// StringToMouseButton parses a mouse-button token (without its "Mouse_"
// prefix), returning ok=false for an unrecognized name.
func StringToMouseButton(s string) (MouseButton, bool) {
	b, ok := mouseButtonNames[s]
	return b, ok
}

var keyNames = buildKeyNames()

func buildKeyNames() map[string]Key {
	m := map[string]Key{
		"Space": glfw.KeySpace, "Apostrophe": glfw.KeyApostrophe,
		"Comma": glfw.KeyComma, "Dash": glfw.KeyMinus, "Minus": glfw.KeyMinus,
		"Period": glfw.KeyPeriod, "Slash": glfw.KeySlash,
		"Num0": glfw.Key0, "Num1": glfw.Key1, "Num2": glfw.Key2, "Num3": glfw.Key3,
		"Num4": glfw.Key4, "Num5": glfw.Key5, "Num6": glfw.Key6, "Num7": glfw.Key7,
		"Num8": glfw.Key8, "Num9": glfw.Key9,
		"Semicolon": glfw.KeySemicolon, "Equal": glfw.KeyEqual,
		"LBracket": glfw.KeyLeftBracket, "Backslash": glfw.KeyBackslash,
		"RBracket": glfw.KeyRightBracket, "Tilde": glfw.KeyGraveAccent,
		"Escape": glfw.KeyEscape, "Enter": glfw.KeyEnter, "Tab": glfw.KeyTab,
		"Backspace": glfw.KeyBackspace, "Insert": glfw.KeyInsert, "Delete": glfw.KeyDelete,
		"Right": glfw.KeyRight, "Left": glfw.KeyLeft, "Down": glfw.KeyDown, "Up": glfw.KeyUp,
		"PageUp": glfw.KeyPageUp, "PageDown": glfw.KeyPageDown,
		"Home": glfw.KeyHome, "End": glfw.KeyEnd,
		"LControl": glfw.KeyLeftControl, "RControl": glfw.KeyRightControl,
		"LShift": glfw.KeyLeftShift, "RShift": glfw.KeyRightShift,
		"LAlt": glfw.KeyLeftAlt, "RAlt": glfw.KeyRightAlt,
		"LSystem": glfw.KeyLeftSuper, "RSystem": glfw.KeyRightSuper,
		"Pause": glfw.KeyPause,
	}
	for c := 'A'; c <= 'Z'; c++ {
		m[string(c)] = glfw.Key(int(glfw.KeyA) + int(c-'A'))
	}
	for i := 1; i <= 12; i++ {
		m["F"+itoa(i)] = glfw.Key(int(glfw.KeyF1) + i - 1)
	}
	return m
}

func itoa(i int) string {
	if i < 10 {
		return string(rune('0' + i))
	}
	return string(rune('0'+i/10)) + string(rune('0'+i%10))
}

// StringToKey parses a bare key-name token, returning ok=false for an
// unrecognized name.
func StringToKey(s string) (Key, bool) {
	k, ok := keyNames[s]
	return k, ok
}

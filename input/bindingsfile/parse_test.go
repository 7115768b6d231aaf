package bindingsfile

import (
	"strings"
	"testing"

	"github.com/silverweed/forge/input"
	"github.com/silverweed/forge/input/device"
)

func TestParseActionBindingsBasic(t *testing.T) {
	src := `
# This is a sample file
action1: Num0
action2: Num1,Num2#This is an action
   action3   :   Num3,
 action4:

##############
action5:Num4,Num5,Num6 # Num7
action6:Num0,Num0,Num0,Num0,   Num0,       Num0
action8: Mouse_Left, Mouse_Right, Mouse_MIDDLE
action9: Num1
action9: Num2
action10: Joy_Face_Bottom, Joy_Special_Left
action11: J, Joy_Stick_Right, Mouse_Middle
`
	parsed := ParseActionBindings(strings.NewReader(src))

	num0Key, _ := device.StringToKey("Num0")
	got := parsed[input.Action{Source: input.KeySource(num0Key)}]
	want := []string{"action1", "action6"}
	if !equalUnordered(got, want) {
		t.Errorf("Num0 actions = %v, want %v", got, want)
	}

	num1Key, _ := device.StringToKey("Num1")
	got = parsed[input.Action{Source: input.KeySource(num1Key)}]
	want = []string{"action2", "action9"}
	if !equalUnordered(got, want) {
		t.Errorf("Num1 actions = %v, want %v", got, want)
	}

	leftBtn, _ := device.StringToMouseButton("Left")
	got = parsed[input.Action{Source: input.MouseSource(leftBtn)}]
	if !equalUnordered(got, []string{"action8"}) {
		t.Errorf("Mouse_Left actions = %v", got)
	}
	// "Mouse_MIDDLE" is case-sensitive-unknown, so it's skipped; only
	// Left and Right survive from action8's token list.
	rightBtn, _ := device.StringToMouseButton("Right")
	got = parsed[input.Action{Source: input.MouseSource(rightBtn)}]
	if !equalUnordered(got, []string{"action8"}) {
		t.Errorf("Mouse_Right actions = %v", got)
	}

	faceBottom, _ := device.StringToJoyButton("Face_Bottom")
	got = parsed[input.Action{Source: input.JoySource(faceBottom)}]
	if !equalUnordered(got, []string{"action10"}) {
		t.Errorf("Joy_Face_Bottom actions = %v", got)
	}
}

func TestParseActionBindingsWithModifiers(t *testing.T) {
	src := "save: LCtrl+S\nquit: Ctrl+Q\n"
	parsed := ParseActionBindings(strings.NewReader(src))

	sKey, _ := device.StringToKey("S")
	got := parsed[input.Action{Source: input.KeySource(sKey), Modifiers: device.ModLCtrl}]
	if !equalUnordered(got, []string{"save"}) {
		t.Errorf("LCtrl+S actions = %v", got)
	}

	qKey, _ := device.StringToKey("Q")
	gotL := parsed[input.Action{Source: input.KeySource(qKey), Modifiers: device.ModLCtrl}]
	gotR := parsed[input.Action{Source: input.KeySource(qKey), Modifiers: device.ModRCtrl}]
	if !equalUnordered(gotL, []string{"quit"}) || !equalUnordered(gotR, []string{"quit"}) {
		t.Errorf("generic Ctrl+Q should bind under both LCtrl and RCtrl masks, got L=%v R=%v", gotL, gotR)
	}
}

func TestParseActionBindingsUnknownTokenSkipped(t *testing.T) {
	src := "action7: Nummmmmm0\n"
	parsed := ParseActionBindings(strings.NewReader(src))
	if len(parsed) != 0 {
		t.Errorf("expected unknown token to produce no bindings, got %v", parsed)
	}
}

func TestParseEmulatedAxisBindings(t *testing.T) {
	src := "move_x: A+Min, D+Max\n"
	parsed := ParseEmulatedAxisBindings(strings.NewReader(src))

	aKey, _ := device.StringToKey("A")
	dKey, _ := device.StringToKey("D")

	aBindings := parsed[input.KeySource(aKey)]
	if len(aBindings) != 1 || aBindings[0].AxisName != "move_x" || aBindings[0].Endpoint != input.EndpointMin {
		t.Errorf("unexpected A binding: %+v", aBindings)
	}
	dBindings := parsed[input.KeySource(dKey)]
	if len(dBindings) != 1 || dBindings[0].AxisName != "move_x" || dBindings[0].Endpoint != input.EndpointMax {
		t.Errorf("unexpected D binding: %+v", dBindings)
	}
}

func TestParseRealAxisBindings(t *testing.T) {
	src := "move_x: Stick_Left_H\nmove_y: Stick_Left_V\n"
	parsed := ParseRealAxisBindings(strings.NewReader(src))

	h, _ := device.StringToJoyAxis("Stick_Left_H")
	if !equalUnordered(parsed[h], []string{"move_x"}) {
		t.Errorf("unexpected Stick_Left_H bindings: %v", parsed[h])
	}
}

func equalUnordered(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	counts := make(map[string]int)
	for _, s := range a {
		counts[s]++
	}
	for _, s := range b {
		counts[s]--
	}
	for _, c := range counts {
		if c != 0 {
			return false
		}
	}
	return true
}

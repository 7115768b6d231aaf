package device

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func TestStringToKey(t *testing.T) {
	cases := map[string]Key{
		"Space": glfw.KeySpace,
		"A":     glfw.KeyA,
		"Num0":  glfw.Key0,
		"F1":    glfw.KeyF1,
		"F12":   glfw.KeyF12,
		"Dash":  glfw.KeyMinus,
	}
	for tok, want := range cases {
		got, ok := StringToKey(tok)
		if !ok || got != want {
			t.Errorf("StringToKey(%q) = %v, %v; want %v, true", tok, got, ok, want)
		}
	}
	if _, ok := StringToKey("Spacex"); ok {
		t.Error("expected unknown token to fail")
	}
}

func TestStringToJoyButton(t *testing.T) {
	b, ok := StringToJoyButton("Face_Bottom")
	if !ok || b != FaceBottom {
		t.Errorf("got %v, %v", b, ok)
	}
	if _, ok := StringToJoyButton(""); ok {
		t.Error("expected empty token to fail")
	}
}

func TestStringToMouseButton(t *testing.T) {
	b, ok := StringToMouseButton("Left")
	if !ok || b != glfw.MouseButtonLeft {
		t.Errorf("got %v, %v", b, ok)
	}
	if _, ok := StringToMouseButton("MIDDLE"); ok {
		t.Error("expected case-sensitive mismatch to fail")
	}
}

func TestModifierForKey(t *testing.T) {
	if ModifierForKey(glfw.KeyLeftControl) != ModLCtrl {
		t.Error("expected LControl to map to ModLCtrl")
	}
	if ModifierForKey(glfw.KeySpace) != 0 {
		t.Error("expected non-modifier key to map to 0")
	}
}

// Package bindingsfile parses the plain-text, line-oriented bindings
// file format (spec §6): `# comment` lines, `name: Token, Token+Modifier,
// ...` entries. Malformed lines and unknown tokens are logged and
// skipped rather than failing the whole parse — these are tier-3
// "resource/config" errors (spec §6), not programmer errors.
//
// Grounded on src/input/bindings/parsing.rs's parse_bindings_lines and
// parse_action: strip everything from the first '#' onward, split each
// remaining line on the first ':', split the right-hand side on ',',
// sort+dedup the parsed tokens before inserting.
package bindingsfile

import (
	"bufio"
	"io"
	"log"
	"sort"
	"strings"

	"github.com/silverweed/forge/input"
	"github.com/silverweed/forge/input/device"
)

const commentStart = '#'

// ParsedAction is one action-file entry before being inverted into the
// token->action-names lookup Bindings.Action expects.
type ParsedAction struct {
	Source    input.InputSource
	Modifiers device.Modifier
}

// ParseActionBindings reads an action-bindings file and returns the
// inverted `{input_source, modifier_mask} -> [action_name]` map the
// engine looks entries up by at runtime.
func ParseActionBindings(r io.Reader) map[input.Action][]string {
	out := make(map[input.Action][]string)
	for name, tokens := range parseLines(r) {
		for _, tok := range tokens {
			source, modCombos, ok := parseActionToken(tok)
			if !ok {
				log.Printf("[ WARNING ] unrecognized binding token %q for action %q", tok, name)
				continue
			}
			for _, mods := range modCombos {
				key := input.Action{Source: source, Modifiers: mods}
				out[key] = append(out[key], name)
			}
		}
	}
	return out
}

// ParseEmulatedAxisBindings reads an axis-bindings file whose right-hand
// tokens name an emulated endpoint, e.g. `move_x: A+Min, D+Max`.
func ParseEmulatedAxisBindings(r io.Reader) map[input.InputSource][]input.EmulatedAxisBinding {
	out := make(map[input.InputSource][]input.EmulatedAxisBinding)
	for name, tokens := range parseLines(r) {
		for _, tok := range tokens {
			source, endpoint, ok := parseEmulatedAxisToken(tok)
			if !ok {
				log.Printf("[ WARNING ] unrecognized axis-emulation token %q for axis %q", tok, name)
				continue
			}
			out[source] = append(out[source], input.EmulatedAxisBinding{AxisName: name, Endpoint: endpoint})
		}
	}
	return out
}

// ParseRealAxisBindings reads an axis-bindings file whose right-hand
// tokens name real joystick axes, e.g. `move_x: Stick_Left_H`.
func ParseRealAxisBindings(r io.Reader) map[device.JoyAxis][]string {
	out := make(map[device.JoyAxis][]string)
	for name, tokens := range parseLines(r) {
		for _, tok := range tokens {
			axis, ok := device.StringToJoyAxis(tok)
			if !ok {
				log.Printf("[ WARNING ] unrecognized joystick axis %q for virtual axis %q", tok, name)
				continue
			}
			out[axis] = append(out[axis], name)
		}
	}
	return out
}

// parseLines implements the shared "name: tok, tok, ..." line grammar,
// returning the sorted+deduped token list per name; tokens repeated on
// several lines for the same name are merged too.
func parseLines(r io.Reader) map[string][]string {
	result := make(map[string][]string)
	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := scanner.Text()
		if idx := strings.IndexByte(line, commentStart); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			log.Printf("[ WARNING ] invalid line %d while parsing bindings: %q", lineno, line)
			continue
		}
		name := strings.TrimSpace(parts[0])

		var tokens []string
		for _, raw := range strings.Split(parts[1], ",") {
			tok := strings.TrimSpace(raw)
			if tok != "" {
				tokens = append(tokens, tok)
			}
		}
		tokens = append(result[name], tokens...)
		sort.Strings(tokens)
		result[name] = dedupSorted(tokens)
	}
	return result
}

func dedupSorted(s []string) []string {
	if len(s) == 0 {
		return s
	}
	out := s[:1]
	for _, v := range s[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}

// parseActionToken parses a single "Mod+Mod+Token" token into an
// InputSource plus every exact modifier-mask combination it expands to.
// A generic modifier name ("Ctrl") is ambiguous about which physical key
// satisfies it, so it expands into one binding per side (LCtrl, RCtrl)
// rather than OR-ing both bits into a single mask that could never be
// matched exactly by a live modifier state with only one side held.
func parseActionToken(tok string) (input.InputSource, []device.Modifier, bool) {
	parts := strings.Split(tok, "+")
	base := parts[len(parts)-1]

	combos := []device.Modifier{0}
	for _, m := range parts[:len(parts)-1] {
		bits, ok := parseModifierToken(m)
		if !ok {
			return input.InputSource{}, nil, false
		}
		var next []device.Modifier
		for _, prefix := range combos {
			for _, bit := range bits {
				next = append(next, prefix|bit)
			}
		}
		combos = next
	}

	source, ok := parseBareSource(base)
	return source, combos, ok
}

func parseEmulatedAxisToken(tok string) (input.InputSource, input.AxisEndpoint, bool) {
	idx := strings.LastIndexByte(tok, '+')
	if idx < 0 {
		return input.InputSource{}, 0, false
	}
	base, endpointTok := tok[:idx], tok[idx+1:]
	var endpoint input.AxisEndpoint
	switch endpointTok {
	case "Min":
		endpoint = input.EndpointMin
	case "Max":
		endpoint = input.EndpointMax
	default:
		return input.InputSource{}, 0, false
	}
	source, ok := parseBareSource(base)
	return source, endpoint, ok
}

func parseBareSource(s string) (input.InputSource, bool) {
	switch {
	case strings.HasPrefix(s, "Joy_"):
		b, ok := device.StringToJoyButton(s[len("Joy_"):])
		return input.JoySource(b), ok
	case s == "Mouse_Wheel_Up":
		return input.WheelSource(true), true
	case s == "Mouse_Wheel_Down":
		return input.WheelSource(false), true
	case strings.HasPrefix(s, "Mouse_"):
		b, ok := device.StringToMouseButton(s[len("Mouse_"):])
		return input.MouseSource(b), ok
	default:
		k, ok := device.StringToKey(s)
		return input.KeySource(k), ok
	}
}

func parseModifierToken(s string) ([]device.Modifier, bool) {
	switch s {
	case "LCtrl":
		return []device.Modifier{device.ModLCtrl}, true
	case "RCtrl":
		return []device.Modifier{device.ModRCtrl}, true
	case "Ctrl":
		return []device.Modifier{device.ModLCtrl, device.ModRCtrl}, true
	case "LShift":
		return []device.Modifier{device.ModLShift}, true
	case "RShift":
		return []device.Modifier{device.ModRShift}, true
	case "Shift":
		return []device.Modifier{device.ModLShift, device.ModRShift}, true
	case "LAlt":
		return []device.Modifier{device.ModLAlt}, true
	case "RAlt":
		return []device.Modifier{device.ModRAlt}, true
	case "Alt":
		return []device.Modifier{device.ModLAlt, device.ModRAlt}, true
	case "LSuper":
		return []device.Modifier{device.ModLSuper}, true
	case "RSuper":
		return []device.Modifier{device.ModRSuper}, true
	case "Super":
		return []device.Modifier{device.ModLSuper, device.ModRSuper}, true
	default:
		return nil, false
	}
}

package input

// emulationState tracks which endpoints of an emulated axis are
// currently held down. Both endpoints held simultaneously yields 0
// (spec §4.6).
type emulationState struct {
	minHeld, maxHeld bool
}

// VirtualAxes holds the current value of every named virtual axis, plus
// whether each is currently driven by a digital emulation endpoint
// rather than a real analog axis.
type VirtualAxes struct {
	values    map[string]float32
	emulation map[string]*emulationState
}

// NewVirtualAxes creates a zeroed axis set with one entry per name.
func NewVirtualAxes(names []string) *VirtualAxes {
	v := &VirtualAxes{
		values:    make(map[string]float32, len(names)),
		emulation: make(map[string]*emulationState, len(names)),
	}
	for _, n := range names {
		v.values[n] = 0
		v.emulation[n] = &emulationState{}
	}
	return v
}

// Value returns the current value of the named axis.
func (v *VirtualAxes) Value(name string) float32 { return v.values[name] }

// Names returns every registered virtual-axis name.
func (v *VirtualAxes) Names() []string {
	out := make([]string, 0, len(v.values))
	for n := range v.values {
		out = append(out, n)
	}
	return out
}

// IsHeldByEmulation reports whether name is currently overridden by a
// digital emulation endpoint (either Min or Max held), meaning the
// per-frame real-axis update must leave it alone.
func (v *VirtualAxes) IsHeldByEmulation(name string) bool {
	st := v.emulation[name]
	return st != nil && (st.minHeld || st.maxHeld)
}

func (v *VirtualAxes) emulState(name string) *emulationState {
	st, ok := v.emulation[name]
	if !ok {
		st = &emulationState{}
		v.emulation[name] = st
	}
	return st
}

// SetEmulatedValue marks endpoint as held for the named axis and
// recomputes its value.
func (v *VirtualAxes) SetEmulatedValue(name string, endpoint AxisEndpoint) {
	st := v.emulState(name)
	switch endpoint {
	case EndpointMin:
		st.minHeld = true
	case EndpointMax:
		st.maxHeld = true
	}
	v.recompute(name, st)
}

// ResetEmulatedValue marks endpoint as released for the named axis and
// recomputes its value.
func (v *VirtualAxes) ResetEmulatedValue(name string, endpoint AxisEndpoint) {
	st := v.emulState(name)
	switch endpoint {
	case EndpointMin:
		st.minHeld = false
	case EndpointMax:
		st.maxHeld = false
	}
	v.recompute(name, st)
}

func (v *VirtualAxes) recompute(name string, st *emulationState) {
	switch {
	case st.minHeld && st.maxHeld:
		v.values[name] = 0
	case st.minHeld:
		v.values[name] = float32(EndpointMin)
	case st.maxHeld:
		v.values[name] = float32(EndpointMax)
	default:
		v.values[name] = 0
	}
}

// zeroUnlessEmulated resets every axis not currently held by an
// emulation endpoint to 0, ahead of the real-axis update pass.
func (v *VirtualAxes) zeroUnlessEmulated() {
	for name := range v.values {
		if !v.IsHeldByEmulation(name) {
			v.values[name] = 0
		}
	}
}

// applyReal applies the max-absolute-value rule for a single real axis
// reading against one of the virtual axes it's bound to. Axes currently
// held by emulation are left untouched.
func (v *VirtualAxes) applyReal(name string, newValue float32) {
	if v.IsHeldByEmulation(name) {
		return
	}
	if _, ok := v.values[name]; !ok {
		v.values[name] = 0
	}
	if abs32(newValue) > abs32(v.values[name]) {
		v.values[name] = newValue
	}
}

func abs32(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}

package engine

import "github.com/ayusman/veena/internal/layout"

// decideTrigger combines one finger's motion classification with its
// selected key and decides whether the key is asserted this frame, updating
// the finger's trigger bookkeeping when it is.
//
// Callers must already have applied the hard rest gate (a resting finger
// with no movement this frame is never offered to decideTrigger).
//
// Rules, in order:
//   - no selected key: the finger's assignment is cleared; note-off is not
//     forced here, release always flows through the hysteresis smoother
//   - a key change always asserts, bypassing the cooldown (fast runs)
//   - active movement or a downward press asserts even inside the cooldown
//     window (sustain: a continuously pressed key re-asserts every frame)
//   - otherwise the cooldown must have elapsed
func decideTrigger(st *fingerState, sel *layout.Key, m motion, frame int, cfg Config) bool {
	if sel == nil {
		st.assignedKey = -1
		return false
	}

	keyChanged := st.assignedKey != sel.Index
	cooldownOver := frame-st.triggeredAt >= cfg.CooldownFrames
	pressing := m.moving || m.pressing

	if !keyChanged && !cooldownOver && !pressing {
		return false
	}

	st.assignedKey = sel.Index
	st.triggeredKey = sel.Index
	st.triggeredAt = frame
	st.restFrames = 0
	return true
}

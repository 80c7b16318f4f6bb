package stride

import "github.com/milk9111/stride/backend"

// FallThroughHelper decides, tick by tick, whether ghost (pass-through)
// platforms count as ground. Install its Filter on the controller with
// SetGroundFilter and call SetFalling every tick with the player's
// fall-through input (typically down+jump). Two rules:
//
//   - A ghost hit closer than minProximity never counts. A character
//     jumping up through a platform brushes past it at near-zero proximity
//     and must not get snapped onto it mid-ascent; landing from above keeps
//     the proximity at the float height, well past the threshold.
//   - While falling through, the platform under the character is memorized
//     and stays ignored until the character has passed it, even if the
//     input is released mid-fall.
//
// Solid hits are never filtered.
type FallThroughHelper struct {
	minProximity float64
	falling      bool
	ignored      map[backend.BodyHandle]bool
}

// NewFallThroughHelper creates a helper with the given minimum proximity
// for standing on ghost platforms.
func NewFallThroughHelper(minProximity float64) *FallThroughHelper {
	return &FallThroughHelper{
		minProximity: minProximity,
		ignored:      make(map[backend.BodyHandle]bool),
	}
}

// SetFalling sets whether the host wants to drop through the current ghost
// platform. Call it before the controller tick.
func (h *FallThroughHelper) SetFalling(falling bool) {
	h.falling = falling
}

// Filter is a ground filter for Controller.SetGroundFilter.
func (h *FallThroughHelper) Filter(hit *backend.GroundHit) *backend.GroundHit {
	if hit == nil || !hit.Ghost {
		// back on solid ground (or in the air past the platform): whatever
		// was being fallen through is gone from under the feet
		if len(h.ignored) > 0 {
			h.ignored = make(map[backend.BodyHandle]bool)
		}
		return hit
	}
	if h.ignored[hit.Body] {
		return nil
	}
	if h.falling {
		h.ignored[hit.Body] = true
		return nil
	}
	if hit.Distance < h.minProximity {
		return nil
	}
	return hit
}

// SPDX-License-Identifier: EPL-2.0

package selection

// State is the playback state of the controller.
type State int

const (
	NoFile State = iota
	Loading
	Ready
	Playing
	Paused
	Finished
)

var stateNames = [...]string{
	NoFile:   "no file",
	Loading:  "loading",
	Ready:    "ready",
	Playing:  "playing",
	Paused:   "paused",
	Finished: "finished",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Loaded reports whether decoded audio is available in this state.
func (s State) Loaded() bool {
	return s >= Ready
}

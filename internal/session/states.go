package session

// State classifies a target character for display.
type State int

// Character states.
const (
	Untyped State = iota
	Correct
	Incorrect
)

func (s State) String() string {
	switch s {
	case Correct:
		return "correct"
	case Incorrect:
		return "incorrect"
	default:
		return "untyped"
	}
}

// CharState pairs a target character with its state.
type CharState struct {
	Char  rune
	State State
}

// CharacterStates compares typed against target position by position.
func CharacterStates(target, typed string) []CharState {
	return characterStates([]rune(target), []rune(typed))
}

func characterStates(target, typed []rune) []CharState {
	out := make([]CharState, len(target))
	for i, ch := range target {
		state := Untyped
		if i < len(typed) {
			if typed[i] == ch {
				state = Correct
			} else {
				state = Incorrect
			}
		}
		out[i] = CharState{Char: ch, State: state}
	}
	return out
}

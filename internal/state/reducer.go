package state

import "github.com/bassista/tzcache/internal/timezone"

// State is the root cache state. Its JSON form has exactly the keys
// "items" and "requesting".
type State struct {
	Items      timezone.CacheState `json:"items"`
	Requesting bool                `json:"requesting"`
}

// Items reduces the timezone cache. A nil state starts from timezone.Empty().
// The input state is never modified; a no-op returns it as is.
func Items(s *timezone.CacheState, ev Event) timezone.CacheState {
	current := timezone.Empty()
	if s != nil {
		current = *s
	}

	switch e := ev.(type) {
	case ReceiveTimezones:
		return e.Timezones
	case Serialize:
		return current
	case Deserialize:
		return timezone.Validate(e.Candidate).State
	default:
		return current
	}
}

// Requesting reduces the in-flight flag. A nil state starts from false.
func Requesting(s *bool, ev Event) bool {
	current := false
	if s != nil {
		current = *s
	}

	switch ev.(type) {
	case RequestTimezones:
		return true
	case RequestTimezonesSuccess, RequestTimezonesFailure:
		return false
	default:
		return current
	}
}

// Combine applies ev to both branches of the root state.
// A nil state is the first call and gives both reducers a nil sub-state.
func Combine(s *State, ev Event) State {
	if s == nil {
		return State{
			Items:      Items(nil, ev),
			Requesting: Requesting(nil, ev),
		}
	}
	return State{
		Items:      Items(&s.Items, ev),
		Requesting: Requesting(&s.Requesting, ev),
	}
}

// Initial is the root state before any event was applied.
func Initial() State {
	return Combine(nil, Unknown{})
}

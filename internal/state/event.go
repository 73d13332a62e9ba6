package state

import "github.com/bassista/tzcache/internal/timezone"

// Event tags as they appear on the wire.
const (
	TagReceiveTimezones        = "RECEIVE_TIMEZONES"
	TagRequestTimezones        = "REQUEST_TIMEZONES"
	TagRequestTimezonesSuccess = "REQUEST_TIMEZONES_SUCCESS"
	TagRequestTimezonesFailure = "REQUEST_TIMEZONES_FAILURE"
	TagSerialize               = "SERIALIZE"
	TagDeserialize             = "DESERIALIZE"
)

// Event is the closed set of events the reducers understand.
// Unknown carries any tag outside that set.
type Event interface {
	Tag() string
	event()
}

// ReceiveTimezones carries an already-normalized cache state.
type ReceiveTimezones struct {
	Timezones timezone.CacheState
}

// RequestTimezones marks the start of an upstream fetch.
type RequestTimezones struct{}

// RequestTimezonesSuccess marks a fetch that completed.
type RequestTimezonesSuccess struct{}

// RequestTimezonesFailure marks a fetch that failed.
type RequestTimezonesFailure struct{}

// Serialize is the snapshot point for persistence.
type Serialize struct{}

// Deserialize offers a previously persisted value for restoration.
type Deserialize struct {
	Candidate any
}

// Unknown is any event the reducers do not handle.
type Unknown struct {
	Name string
}

func (ReceiveTimezones) Tag() string        { return TagReceiveTimezones }
func (RequestTimezones) Tag() string        { return TagRequestTimezones }
func (RequestTimezonesSuccess) Tag() string { return TagRequestTimezonesSuccess }
func (RequestTimezonesFailure) Tag() string { return TagRequestTimezonesFailure }
func (Serialize) Tag() string               { return TagSerialize }
func (Deserialize) Tag() string             { return TagDeserialize }
func (u Unknown) Tag() string               { return u.Name }

func (ReceiveTimezones) event()        {}
func (RequestTimezones) event()        {}
func (RequestTimezonesSuccess) event() {}
func (RequestTimezonesFailure) event() {}
func (Serialize) event()               {}
func (Deserialize) event()             {}
func (Unknown) event()                 {}

// ParseTag maps a payload-less tag to its event. Tags that need a payload
// (RECEIVE_TIMEZONES, DESERIALIZE) and unrecognized tags become Unknown.
func ParseTag(tag string) Event {
	switch tag {
	case TagRequestTimezones:
		return RequestTimezones{}
	case TagRequestTimezonesSuccess:
		return RequestTimezonesSuccess{}
	case TagRequestTimezonesFailure:
		return RequestTimezonesFailure{}
	case TagSerialize:
		return Serialize{}
	default:
		return Unknown{Name: tag}
	}
}

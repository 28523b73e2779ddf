// Package mutation holds the outcome type of the write operations issued by
// the views. A view applies its local change only for a successful result.
package mutation

import "attendance/internal/model"

type Kind string

const (
	AddTag           Kind = "add_tag"
	RemoveTag        Kind = "remove_tag"
	DeletePhoto      Kind = "delete_photo"
	DeleteAttendance Kind = "delete_attendance"
	DeletePerson     Kind = "delete_person"
)

// Result is either a success carrying the applied change or a failure
// carrying the reason. The zero value is not valid.
type Result struct {
	Kind   Kind   `json:"kind"`
	Target string `json:"target"`
	Value  string `json:"value,omitempty"`
	OK     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
	err    error
}

func Succeeded(kind Kind, target, value string) Result {
	return Result{Kind: kind, Target: target, Value: value, OK: true}
}

func Failed(kind Kind, target, value string, err error) Result {
	if err == nil {
		err = model.ErrRequestFailed
	}
	return Result{Kind: kind, Target: target, Value: value, Reason: err.Error(), err: err}
}

// Err returns the failure reason, nil on success.
func (r Result) Err() error {
	return r.err
}

// Then runs fn only when the mutation succeeded.
func (r Result) Then(fn func()) Result {
	if r.OK && fn != nil {
		fn()
	}
	return r
}

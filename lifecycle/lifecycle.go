// Package lifecycle owns the status workflow of a damage report: which role
// may move a report from one status to another, and what record mutation each
// move produces. It performs no storage I/O; callers persist the returned
// mutation themselves.
package lifecycle

import (
	"errors"
	"fmt"
	"time"
)

// Status enum
type Status string

const (
	StatusPending   Status = "pending"
	StatusAssigned  Status = "assigned"
	StatusProgress  Status = "progress"
	StatusCompleted Status = "completed"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
)

// Role enum
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleTechnician Role = "technician"
	RoleGovernment Role = "government"
	RolePublic     Role = "public"
)

// ValidStatus reports whether s is a known report status.
func ValidStatus(s string) bool {
	switch Status(s) {
	case StatusPending, StatusAssigned, StatusProgress, StatusCompleted, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Report is a storage-agnostic snapshot of the fields the workflow reads.
// AssignedTo is empty while the report is unassigned.
type Report struct {
	ID         string
	Status     Status
	AssignedTo string
}

// Mutation maps field names to the values the caller must persist. Every
// mutation carries "status" and "updated_at"; "assigned_to" and
// "completion_notes" appear when the transition touches them, with a nil
// value meaning the field is cleared.
type Mutation map[string]interface{}

var (
	// ErrUnauthorized means the actor's role or identity does not permit
	// the requested transition.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrIllegalTransition means the target status is not reachable from
	// the report's current status.
	ErrIllegalTransition = errors.New("illegal transition")
	// ErrValidation means required accompanying data is missing.
	ErrValidation = errors.New("validation failed")
	// ErrConcurrentModification is returned by callers, not this package,
	// when the record changed between read and conditional write.
	ErrConcurrentModification = errors.New("concurrent modification")
)

// rule describes one edge of the transition graph.
type rule struct {
	roles           []Role
	assigneeOnly    bool // an acting technician must be the current assignee
	notesRequired   bool // transition must carry notes (rejections)
	needsTechnician bool // transition needs a technician id (use AssignTechnician)
	apply           func(r Report, actorID, notes string, m Mutation)
}

func setNotes(_ Report, _ string, notes string, m Mutation) {
	m["completion_notes"] = notes
}

var transitions = map[Status]map[Status]rule{
	StatusPending: {
		StatusAssigned: {
			roles:           []Role{RoleAdmin},
			needsTechnician: true,
		},
		StatusProgress: {
			roles: []Role{RoleAdmin, RoleTechnician},
			apply: func(r Report, actorID, _ string, m Mutation) {
				// working on an unassigned report claims it
				if r.AssignedTo == "" {
					m["assigned_to"] = actorID
				}
			},
		},
		StatusRejected: {
			roles:         []Role{RoleAdmin},
			notesRequired: true,
			apply:         setNotes,
		},
	},
	StatusAssigned: {
		StatusProgress: {
			roles:        []Role{RoleAdmin, RoleTechnician},
			assigneeOnly: true,
		},
		StatusRejected: {
			roles:         []Role{RoleAdmin},
			notesRequired: true,
			apply:         setNotes,
		},
	},
	StatusProgress: {
		StatusCompleted: {
			roles:        []Role{RoleAdmin, RoleTechnician},
			assigneeOnly: true,
			apply: func(r Report, _ string, notes string, m Mutation) {
				if notes != "" {
					m["completion_notes"] = notes
				}
			},
		},
		StatusRejected: {
			roles:         []Role{RoleAdmin},
			notesRequired: true,
			apply:         setNotes,
		},
	},
	StatusCompleted: {
		StatusApproved: {
			roles: []Role{RoleAdmin},
		},
	},
	StatusRejected: {
		StatusPending: {
			roles: []Role{RoleAdmin},
			apply: func(_ Report, _ string, _ string, m Mutation) {
				// reactivation starts a fresh lifecycle run
				m["completion_notes"] = nil
				m["assigned_to"] = nil
			},
		},
	},
}

// targetOrder fixes the iteration order for AllowedTargets.
var targetOrder = []Status{
	StatusPending, StatusAssigned, StatusProgress,
	StatusCompleted, StatusApproved, StatusRejected,
}

func roleAllowed(roles []Role, role Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// RequestTransition evaluates a transition request against the table and
// returns the mutation to persist. The report is never altered; on failure
// the returned mutation is nil and the error is one of ErrIllegalTransition,
// ErrUnauthorized or ErrValidation.
func RequestTransition(r Report, target Status, role Role, actorID string, notes string) (Mutation, error) {
	rules, ok := transitions[r.Status]
	if !ok {
		return nil, fmt.Errorf("%w: no transitions out of %q", ErrIllegalTransition, r.Status)
	}
	rl, ok := rules[target]
	if !ok {
		return nil, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, r.Status, target)
	}
	if !roleAllowed(rl.roles, role) {
		return nil, fmt.Errorf("%w: role %q may not trigger %s -> %s", ErrUnauthorized, role, r.Status, target)
	}
	if rl.assigneeOnly && role == RoleTechnician && actorID != r.AssignedTo {
		return nil, fmt.Errorf("%w: technician %q is not the assignee", ErrUnauthorized, actorID)
	}
	if rl.needsTechnician {
		return nil, fmt.Errorf("%w: transition to %s requires a technician id", ErrValidation, target)
	}
	if rl.notesRequired && notes == "" {
		return nil, fmt.Errorf("%w: transition to %s requires notes", ErrValidation, target)
	}

	m := Mutation{
		"status":     target,
		"updated_at": time.Now(),
	}
	if rl.apply != nil {
		rl.apply(r, actorID, notes, m)
	}
	return m, nil
}

// AssignTechnician hands a pending report to a technician. Admin only.
func AssignTechnician(r Report, technicianID string, role Role) (Mutation, error) {
	if role != RoleAdmin {
		return nil, fmt.Errorf("%w: role %q may not assign technicians", ErrUnauthorized, role)
	}
	if r.Status != StatusPending {
		return nil, fmt.Errorf("%w: cannot assign while %q", ErrIllegalTransition, r.Status)
	}
	if technicianID == "" {
		return nil, fmt.Errorf("%w: technician id is required", ErrValidation)
	}
	return Mutation{
		"status":      StatusAssigned,
		"assigned_to": technicianID,
		"updated_at":  time.Now(),
	}, nil
}

// UnassignTechnician reverts an assignment, returning the report to the
// pending pool. Admin only; legal while pending or assigned.
func UnassignTechnician(r Report, role Role) (Mutation, error) {
	if role != RoleAdmin {
		return nil, fmt.Errorf("%w: role %q may not unassign technicians", ErrUnauthorized, role)
	}
	if r.Status != StatusPending && r.Status != StatusAssigned {
		return nil, fmt.Errorf("%w: cannot unassign while %q", ErrIllegalTransition, r.Status)
	}
	return Mutation{
		"status":      StatusPending,
		"assigned_to": nil,
		"updated_at":  time.Now(),
	}, nil
}

// AllowedTargets lists the statuses the given role may move a report in
// status s to. Assignee identity is not considered; a technician caller
// still needs to be the assignee for the assignee-only edges.
func AllowedTargets(s Status, role Role) []Status {
	rules, ok := transitions[s]
	if !ok {
		return nil
	}
	var out []Status
	for _, target := range targetOrder {
		rl, ok := rules[target]
		if !ok {
			continue
		}
		if roleAllowed(rl.roles, role) {
			out = append(out, target)
		}
	}
	return out
}

package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allStatuses = []Status{
	StatusPending, StatusAssigned, StatusProgress,
	StatusCompleted, StatusApproved, StatusRejected,
}

var allRoles = []Role{RoleAdmin, RoleTechnician, RoleGovernment, RolePublic}

// tableEdges mirrors the documented transition graph; every (from, to) pair
// absent from this map must fail for every role.
var tableEdges = map[Status][]Status{
	StatusPending:   {StatusAssigned, StatusProgress, StatusRejected},
	StatusAssigned:  {StatusProgress, StatusRejected},
	StatusProgress:  {StatusCompleted, StatusRejected},
	StatusCompleted: {StatusApproved},
	StatusRejected:  {StatusPending},
}

func inTable(from, to Status) bool {
	for _, t := range tableEdges[from] {
		if t == to {
			return true
		}
	}
	return false
}

// TestRequestTransition_PairsOutsideTable verifies that every status pair not
// in the transition table fails with ErrIllegalTransition for every role.
func TestRequestTransition_PairsOutsideTable(t *testing.T) {
	for _, from := range allStatuses {
		for _, to := range allStatuses {
			if inTable(from, to) {
				continue
			}
			for _, role := range allRoles {
				m, err := RequestTransition(Report{ID: "r1", Status: from}, to, role, "u1", "notes")
				assert.Nil(t, m, "%s -> %s as %s should produce no mutation", from, to, role)
				assert.ErrorIs(t, err, ErrIllegalTransition, "%s -> %s as %s", from, to, role)
			}
		}
	}
}

// TestRequestTransition_RoleGating verifies that government and public roles
// can never trigger any in-table transition.
func TestRequestTransition_RoleGating(t *testing.T) {
	for from, targets := range tableEdges {
		for _, to := range targets {
			for _, role := range []Role{RoleGovernment, RolePublic} {
				m, err := RequestTransition(Report{ID: "r1", Status: from, AssignedTo: "u1"}, to, role, "u1", "notes")
				assert.Nil(t, m)
				assert.ErrorIs(t, err, ErrUnauthorized, "%s -> %s as %s", from, to, role)
			}
		}
	}
}

// TestRequestTransition_SelfTargetFailsCleanly covers idempotent
// re-submission: target == current status is never in the table.
func TestRequestTransition_SelfTargetFailsCleanly(t *testing.T) {
	for _, s := range allStatuses {
		_, err := RequestTransition(Report{ID: "r1", Status: s, AssignedTo: "t1"}, s, RoleAdmin, "a1", "notes")
		assert.ErrorIs(t, err, ErrIllegalTransition, "self transition on %s", s)
	}
}

func TestRequestTransition_PendingToAssignedNeedsTechnician(t *testing.T) {
	_, err := RequestTransition(Report{ID: "r1", Status: StatusPending}, StatusAssigned, RoleAdmin, "a1", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRequestTransition_PendingToProgressClaimsReport(t *testing.T) {
	t.Run("unassigned report is claimed by the actor", func(t *testing.T) {
		m, err := RequestTransition(Report{ID: "r1", Status: StatusPending}, StatusProgress, RoleTechnician, "tech-9", "")
		require.NoError(t, err)
		assert.Equal(t, StatusProgress, m["status"])
		assert.Equal(t, "tech-9", m["assigned_to"])
		assert.Contains(t, m, "updated_at")
		assert.NotContains(t, m, "completion_notes")
	})

	t.Run("admin shortcut claims for the admin", func(t *testing.T) {
		m, err := RequestTransition(Report{ID: "r1", Status: StatusPending}, StatusProgress, RoleAdmin, "admin-1", "")
		require.NoError(t, err)
		assert.Equal(t, "admin-1", m["assigned_to"])
	})

	t.Run("existing assignee is kept", func(t *testing.T) {
		m, err := RequestTransition(Report{ID: "r1", Status: StatusPending, AssignedTo: "tech-9"}, StatusProgress, RoleAdmin, "admin-1", "")
		require.NoError(t, err)
		assert.NotContains(t, m, "assigned_to")
	})
}

// TestRequestTransition_AssigneeOnly verifies a technician who is not the
// current assignee cannot move an assigned or in-progress report.
func TestRequestTransition_AssigneeOnly(t *testing.T) {
	report := Report{ID: "r1", Status: StatusAssigned, AssignedTo: "tech-42"}

	t.Run("other technician is rejected", func(t *testing.T) {
		_, err := RequestTransition(report, StatusProgress, RoleTechnician, "tech-7", "")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("assignee is accepted", func(t *testing.T) {
		m, err := RequestTransition(report, StatusProgress, RoleTechnician, "tech-42", "")
		require.NoError(t, err)
		assert.Equal(t, StatusProgress, m["status"])
	})

	t.Run("admin bypasses the assignee check", func(t *testing.T) {
		_, err := RequestTransition(report, StatusProgress, RoleAdmin, "admin-1", "")
		assert.NoError(t, err)
	})

	t.Run("other technician cannot complete", func(t *testing.T) {
		inProgress := Report{ID: "r1", Status: StatusProgress, AssignedTo: "tech-42"}
		_, err := RequestTransition(inProgress, StatusCompleted, RoleTechnician, "tech-7", "")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
}

func TestRequestTransition_RejectionRequiresNotes(t *testing.T) {
	for _, from := range []Status{StatusPending, StatusAssigned, StatusProgress} {
		t.Run(string(from), func(t *testing.T) {
			report := Report{ID: "r1", Status: from, AssignedTo: "tech-42"}

			_, err := RequestTransition(report, StatusRejected, RoleAdmin, "admin-1", "")
			assert.ErrorIs(t, err, ErrValidation)

			m, err := RequestTransition(report, StatusRejected, RoleAdmin, "admin-1", "out of scope")
			require.NoError(t, err)
			assert.Equal(t, "out of scope", m["completion_notes"])
		})
	}
}

func TestRequestTransition_CompletionNotesOptional(t *testing.T) {
	report := Report{ID: "r1", Status: StatusProgress, AssignedTo: "tech-42"}

	m, err := RequestTransition(report, StatusCompleted, RoleTechnician, "tech-42", "")
	require.NoError(t, err)
	assert.NotContains(t, m, "completion_notes")

	m, err = RequestTransition(report, StatusCompleted, RoleTechnician, "tech-42", "replaced the lamp")
	require.NoError(t, err)
	assert.Equal(t, "replaced the lamp", m["completion_notes"])
}

// TestRequestTransition_CompletedOnlyApproves verifies approval is the only
// way out of completed.
func TestRequestTransition_CompletedOnlyApproves(t *testing.T) {
	report := Report{ID: "r1", Status: StatusCompleted, AssignedTo: "tech-42"}

	_, err := RequestTransition(report, StatusProgress, RoleAdmin, "admin-1", "")
	assert.ErrorIs(t, err, ErrIllegalTransition)

	m, err := RequestTransition(report, StatusApproved, RoleAdmin, "admin-1", "")
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, m["status"])
	assert.NotContains(t, m, "assigned_to")
	assert.NotContains(t, m, "completion_notes")
}

// TestRequestTransition_ReactivationClears verifies rejected -> pending wipes
// the rejection notes and the stale assignee.
func TestRequestTransition_ReactivationClears(t *testing.T) {
	report := Report{ID: "r1", Status: StatusRejected, AssignedTo: "tech-42"}

	m, err := RequestTransition(report, StatusPending, RoleAdmin, "admin-1", "")
	require.NoError(t, err)
	assert.Equal(t, StatusPending, m["status"])
	assert.Nil(t, m["completion_notes"])
	assert.Contains(t, m, "completion_notes")
	assert.Nil(t, m["assigned_to"])
	assert.Contains(t, m, "assigned_to")

	_, err = RequestTransition(report, StatusPending, RoleTechnician, "tech-42", "")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAssignTechnician(t *testing.T) {
	t.Run("admin assigns a pending report", func(t *testing.T) {
		m, err := AssignTechnician(Report{ID: "r1", Status: StatusPending}, "tech-42", RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, StatusAssigned, m["status"])
		assert.Equal(t, "tech-42", m["assigned_to"])
		assert.Contains(t, m, "updated_at")
		assert.Len(t, m, 3)
	})

	t.Run("non-admin roles are rejected", func(t *testing.T) {
		for _, role := range []Role{RoleTechnician, RoleGovernment, RolePublic} {
			_, err := AssignTechnician(Report{ID: "r1", Status: StatusPending}, "tech-42", role)
			assert.ErrorIs(t, err, ErrUnauthorized, "role %s", role)
		}
	})

	t.Run("only pending reports can be assigned", func(t *testing.T) {
		for _, s := range []Status{StatusAssigned, StatusProgress, StatusCompleted, StatusApproved, StatusRejected} {
			_, err := AssignTechnician(Report{ID: "r1", Status: s}, "tech-42", RoleAdmin)
			assert.ErrorIs(t, err, ErrIllegalTransition, "status %s", s)
		}
	})

	t.Run("missing technician id", func(t *testing.T) {
		_, err := AssignTechnician(Report{ID: "r1", Status: StatusPending}, "", RoleAdmin)
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestUnassignTechnician(t *testing.T) {
	t.Run("assigned report returns to pending", func(t *testing.T) {
		m, err := UnassignTechnician(Report{ID: "r1", Status: StatusAssigned, AssignedTo: "tech-42"}, RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, StatusPending, m["status"])
		assert.Nil(t, m["assigned_to"])
		assert.Contains(t, m, "assigned_to")
	})

	t.Run("illegal once work started", func(t *testing.T) {
		for _, s := range []Status{StatusProgress, StatusCompleted, StatusApproved, StatusRejected} {
			_, err := UnassignTechnician(Report{ID: "r1", Status: s}, RoleAdmin)
			assert.ErrorIs(t, err, ErrIllegalTransition, "status %s", s)
		}
	})

	t.Run("admin only", func(t *testing.T) {
		_, err := UnassignTechnician(Report{ID: "r1", Status: StatusAssigned}, RoleTechnician)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
}

// TestLifecycle_Scenario walks the documented happy path: assign, start,
// verify a stranger is locked out.
func TestLifecycle_Scenario(t *testing.T) {
	report := Report{ID: "r1", Status: StatusPending}

	m, err := AssignTechnician(report, "tech-42", RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, StatusAssigned, m["status"])
	assert.Equal(t, "tech-42", m["assigned_to"])

	report.Status = StatusAssigned
	report.AssignedTo = "tech-42"

	m, err = RequestTransition(report, StatusProgress, RoleTechnician, "tech-42", "")
	require.NoError(t, err)
	assert.Equal(t, StatusProgress, m["status"])

	_, err = RequestTransition(report, StatusProgress, RoleTechnician, "tech-7", "")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAllowedTargets(t *testing.T) {
	assert.Equal(t, []Status{StatusAssigned, StatusProgress, StatusRejected}, AllowedTargets(StatusPending, RoleAdmin))
	assert.Equal(t, []Status{StatusProgress}, AllowedTargets(StatusPending, RoleTechnician))
	assert.Equal(t, []Status{StatusApproved}, AllowedTargets(StatusCompleted, RoleAdmin))
	assert.Empty(t, AllowedTargets(StatusCompleted, RoleTechnician))
	assert.Empty(t, AllowedTargets(StatusApproved, RoleAdmin))
	assert.Empty(t, AllowedTargets(StatusPending, RoleGovernment))
	assert.Empty(t, AllowedTargets(StatusPending, RolePublic))
}

func TestValidStatus(t *testing.T) {
	for _, s := range allStatuses {
		assert.True(t, ValidStatus(string(s)))
	}
	assert.False(t, ValidStatus("resolved"))
	assert.False(t, ValidStatus(""))
}

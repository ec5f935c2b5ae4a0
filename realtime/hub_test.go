package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterMatches(t *testing.T) {
	ev := Event{
		Type:          ReportUpdated,
		ReporterEmail: "citizen@example.com",
		AssignedTo:    "tech-42",
	}

	t.Run("all filter sees everything", func(t *testing.T) {
		assert.True(t, Filter{All: true}.Matches(ev))
	})

	t.Run("reporter follows own reports", func(t *testing.T) {
		assert.True(t, Filter{ReporterEmail: "citizen@example.com"}.Matches(ev))
		assert.False(t, Filter{ReporterEmail: "someone@example.com"}.Matches(ev))
	})

	t.Run("technician follows assigned reports", func(t *testing.T) {
		assert.True(t, Filter{AssignedTo: "tech-42"}.Matches(ev))
		assert.False(t, Filter{AssignedTo: "tech-7"}.Matches(ev))
	})

	t.Run("empty filter matches nothing", func(t *testing.T) {
		assert.False(t, Filter{}.Matches(ev))
	})

	t.Run("unassigned event does not leak to empty technician filter", func(t *testing.T) {
		unassigned := Event{Type: ReportCreated, ReporterEmail: "citizen@example.com"}
		assert.False(t, Filter{AssignedTo: ""}.Matches(unassigned))
	})
}

func TestFilterForRole(t *testing.T) {
	assert.Equal(t, Filter{All: true}, FilterForRole("admin", "u1", "a@example.com"))
	assert.Equal(t, Filter{All: true}, FilterForRole("government", "u2", "g@example.com"))
	assert.Equal(t, Filter{AssignedTo: "u3"}, FilterForRole("technician", "u3", "t@example.com"))
	assert.Equal(t, Filter{ReporterEmail: "p@example.com"}, FilterForRole("public", "u4", "p@example.com"))
	assert.Equal(t, Filter{ReporterEmail: "x@example.com"}, FilterForRole("", "u5", "x@example.com"))
}

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidCategory(t *testing.T) {
	for _, c := range []string{"road", "streetlight", "drainage", "park", "bridge", "public_facility", "other"} {
		assert.True(t, ValidCategory(c), c)
	}
	assert.False(t, ValidCategory("water"))
	assert.False(t, ValidCategory(""))
	assert.False(t, ValidCategory("Road"))
}

func TestValidPriority(t *testing.T) {
	for _, p := range []string{"low", "medium", "high"} {
		assert.True(t, ValidPriority(p), p)
	}
	assert.False(t, ValidPriority("urgent"))
	assert.False(t, ValidPriority(""))
}

func TestValidRole(t *testing.T) {
	for _, r := range []string{"admin", "technician", "government", "public"} {
		assert.True(t, ValidRole(r), r)
	}
	assert.False(t, ValidRole("root"))
	assert.False(t, ValidRole(""))
}

func TestValidFacilityStatus(t *testing.T) {
	for _, s := range []string{"active", "inactive", "maintenance"} {
		assert.True(t, ValidFacilityStatus(s), s)
	}
	assert.False(t, ValidFacilityStatus("closed"))
}

func TestUserPasswordHashing(t *testing.T) {
	u := User{Password: "hunter22"}
	assert.NoError(t, u.HashPassword())
	assert.NotEqual(t, "hunter22", u.Password)
	assert.True(t, u.ComparePassword("hunter22"))
	assert.False(t, u.ComparePassword("hunter23"))
}

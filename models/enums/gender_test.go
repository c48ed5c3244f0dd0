package enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeGender(t *testing.T) {
	cases := map[string]Gender{
		"男":      GenderMale,
		"女":      GenderFemale,
		"其他":     GenderOther,
		"Male":   GenderMale,
		" female": GenderFemale,
		"other":  GenderOther,
	}
	for in, want := range cases {
		got, ok := NormalizeGender(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	_, ok := NormalizeGender("unknown")
	assert.False(t, ok)
}

func TestDefaultPermissions(t *testing.T) {
	assert.Equal(t, []string{"edit_self", "view_self"}, DefaultPermissions(RolePerformer))
	assert.Contains(t, DefaultPermissions(RoleManager), PermAssignActor)
	assert.Len(t, DefaultPermissions(RoleAdmin), 7)
	assert.Nil(t, DefaultPermissions(UserRole("guest")))
}

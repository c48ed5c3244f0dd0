package utils

import (
	"regexp"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)
	assert.NoError(t, CheckPassword(hash, "secret123"))
	assert.Error(t, CheckPassword(hash, "wrong123"))
}

func TestGenerateInviteCode(t *testing.T) {
	re := regexp.MustCompile(`^\d{6}$`)
	for i := 0; i < 200; i++ {
		assert.Regexp(t, re, GenerateInviteCode())
	}
}

func TestNewActorID(t *testing.T) {
	day := time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)
	id := NewActorID(day)

	assert.Len(t, id, 18)
	assert.Regexp(t, `^AC20240309[0-9A-F]{8}$`, id)
	assert.NotEqual(t, id, NewActorID(day))
}

func TestDecodeJSONFieldFallsBackToRaw(t *testing.T) {
	list, err := EncodeJSONField([]string{"唱歌", "跳舞"})
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"唱歌", "跳舞"}, DecodeJSONField(list))

	raw := "会骑马，会游泳"
	assert.Equal(t, raw, DecodeJSONField(&raw))

	assert.Nil(t, DecodeJSONField(nil))
	empty := ""
	assert.Nil(t, DecodeJSONField(&empty))

	none, err := EncodeJSONField(nil)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestSanitizeText(t *testing.T) {
	assert.Equal(t, "hello", SanitizeText("  <b>hello</b><script>alert(1)</script> "))

	tests := []struct {
		in   string
		want string
	}{
		{"O'Brien", "O'Brien"},
		{"Tom & Jerry", "Tom & Jerry"},
		{"Room <3>, A & B Rd", "Room <3>, A & B Rd"},
		{"1 < 2", "1 < 2"},
		{`say "hi"`, `say "hi"`},
		{"<i>李</i>雷", "李雷"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeText(tt.in), tt.in)
	}
	assert.Nil(t, SanitizeTextPtr(nil))
}

type validationTarget struct {
	Phone  string  `validate:"ChinesePhone"`
	Name   string  `validate:"Account"`
	Pwd    string  `validate:"Password"`
	Code   string  `validate:"InviteCode"`
	Gender *string `validate:"omitempty,Gender"`
	Role   string  `validate:"Role"`
}

func TestCustomValidations(t *testing.T) {
	v := validator.New()
	require.NoError(t, RegisterValidations(v))

	gender := "女"
	ok := validationTarget{Phone: "13800138000", Name: "li_wei", Pwd: "abc123", Code: "123456", Gender: &gender, Role: "manager"}
	assert.NoError(t, v.Struct(ok))

	bad := ok
	bad.Phone = "12345"
	assert.Error(t, v.Struct(bad))

	bad = ok
	bad.Pwd = "abcdefg"
	assert.Error(t, v.Struct(bad))

	bad = ok
	invalid := "unknown"
	bad.Gender = &invalid
	assert.Error(t, v.Struct(bad))

	bad = ok
	bad.Role = "guest"
	assert.Error(t, v.Struct(bad))

	bad = ok
	bad.Code = "12a456"
	assert.Error(t, v.Struct(bad))
}

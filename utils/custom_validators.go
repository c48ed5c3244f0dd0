package utils

import (
	"fmt"
	"regexp"  // 正则表达式包
	"unicode" // Unicode字符处理包

	"github.com/gin-gonic/gin/binding"       // Gin 框架的数据绑定包
	"github.com/go-playground/validator/v10" // 数据校验库

	"github.com/Xushengqwer/actor_hub/models/enums"
)

var (
	// phoneNumberRegex 中国大陆手机号：以1开头，第二位3到9，后接9位数字。
	phoneNumberRegex = regexp.MustCompile(`^1[3-9]\d{9}$`)

	// usernameRegex 用户名只包含字母、数字和下划线，长度3到50。
	usernameRegex = regexp.MustCompile(`^[A-Za-z0-9_]{3,50}$`)

	// inviteCodeRegex 6 位数字邀请码
	inviteCodeRegex = regexp.MustCompile(`^\d{6}$`)
)

// ValidateChinesePhone 校验是否为中国大陆手机号。
// validator 会自动解引用指针字段，这里拿到的总是底层值。
func ValidateChinesePhone(fl validator.FieldLevel) bool {
	return phoneNumberRegex.MatchString(fl.Field().String())
}

// ValidateAccount 校验登录用户名格式
func ValidateAccount(fl validator.FieldLevel) bool {
	return usernameRegex.MatchString(fl.Field().String())
}

// ValidatePassword 校验密码格式。
// 要求：长度在6到30位之间，并且必须同时包含至少一个字母和一个数字。
func ValidatePassword(fl validator.FieldLevel) bool {
	pwd := fl.Field().String()
	if len(pwd) < 6 || len(pwd) > 30 {
		return false
	}
	var hasLetter, hasDigit bool
	for _, char := range pwd {
		if unicode.IsLetter(char) {
			hasLetter = true
		} else if unicode.IsDigit(char) {
			hasDigit = true
		}
		if hasLetter && hasDigit {
			return true
		}
	}
	return false
}

// ValidateInviteCode 校验 6 位数字邀请码
func ValidateInviteCode(fl validator.FieldLevel) bool {
	return inviteCodeRegex.MatchString(fl.Field().String())
}

// ValidGender 接受 男/女/其他 与 male/female/other
func ValidGender(fl validator.FieldLevel) bool {
	_, ok := enums.NormalizeGender(fl.Field().String())
	return ok
}

// ValidRole 校验用户角色
func ValidRole(fl validator.FieldLevel) bool {
	return enums.UserRole(fl.Field().String()).IsValid()
}

// ValidUserStatus 校验用户状态
func ValidUserStatus(fl validator.FieldLevel) bool {
	return enums.UserStatus(fl.Field().String()).IsValid()
}

// ValidActorStatus 校验演员状态
func ValidActorStatus(fl validator.FieldLevel) bool {
	return enums.ActorStatus(fl.Field().String()).IsValid()
}

// ValidRank 校验演员咖位
func ValidRank(fl validator.FieldLevel) bool {
	return enums.ActorRank(fl.Field().String()).IsValid()
}

// customValidations 标签名到校验函数的映射
var customValidations = map[string]validator.Func{
	"ChinesePhone": ValidateChinesePhone,
	"Account":      ValidateAccount,
	"Password":     ValidatePassword,
	"InviteCode":   ValidateInviteCode,
	"Gender":       ValidGender,
	"Role":         ValidRole,
	"UserStatus":   ValidUserStatus,
	"ActorStatus":  ValidActorStatus,
	"Rank":         ValidRank,
}

// RegisterCustomValidators 将所有自定义的校验函数注册到 Gin 的 validator 引擎中。
// 这样就可以在 DTO 的 struct tag 中使用这些标签，例如 `binding:"omitempty,Gender"`。
func RegisterCustomValidators() error {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		return RegisterValidations(v)
	}
	return nil
}

// RegisterValidations 把自定义标签注册到指定的 validator 实例
func RegisterValidations(v *validator.Validate) error {
	for tag, validation := range customValidations {
		if err := v.RegisterValidation(tag, validation); err != nil {
			return fmt.Errorf("注册验证器 '%s' 失败: %w", tag, err)
		}
	}
	return nil
}

package enums

import "strings"

// Gender 表示性别的枚举类型
type Gender string

const (
	GenderMale   Gender = "male"   // 男性
	GenderFemale Gender = "female" // 女性
	GenderOther  Gender = "other"  // 其他
)

// localizedGender 前端表单提交的中文取值
var localizedGender = map[string]Gender{
	"男":  GenderMale,
	"女":  GenderFemale,
	"其他": GenderOther,
}

// NormalizeGender 把 男/女/其他 以及 male/female/other（不区分大小写）统一为存储值。
// 无法识别时返回 false。
func NormalizeGender(raw string) (Gender, bool) {
	s := strings.TrimSpace(raw)
	if g, ok := localizedGender[s]; ok {
		return g, true
	}
	switch Gender(strings.ToLower(s)) {
	case GenderMale:
		return GenderMale, true
	case GenderFemale:
		return GenderFemale, true
	case GenderOther:
		return GenderOther, true
	}
	return "", false
}

package utils

import (
	"encoding/json"
)

// EncodeJSONField 把列表或对象序列化为文本列；v 为 nil 时返回 nil
func EncodeJSONField(v interface{}) (*string, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	s := string(b)
	return &s, nil
}

// DecodeJSONField 解析文本列中的 JSON。
// 历史数据里可能存在非 JSON 的纯文本，此时原样返回字符串。
func DecodeJSONField(raw *string) interface{} {
	if raw == nil || *raw == "" {
		return nil
	}
	var v interface{}
	if err := json.Unmarshal([]byte(*raw), &v); err != nil {
		return *raw
	}
	return v
}

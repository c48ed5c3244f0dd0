package vo

// Empty 成功但无数据返回时使用
type Empty struct{}

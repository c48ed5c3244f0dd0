package dto

// CreateTagDTO 创建标签
type CreateTagDTO struct {
	Name     string  `json:"name" binding:"required,min=1,max=50"`
	Category *string `json:"category" binding:"omitempty,max=50"`
}

// UpdateTagDTO 更新标签
type UpdateTagDTO struct {
	Name     *string `json:"name" binding:"omitempty,min=1,max=50"`
	Category *string `json:"category" binding:"omitempty,max=50"`
}

// TagListQuery 标签列表查询
type TagListQuery struct {
	Category string `form:"category"`
	SortBy   string `form:"sort_by" binding:"omitempty,oneof=name category created_at"`
	SortDesc bool   `form:"sort_desc"`
}

// TagIDsDTO 替换演员标签的请求体
type TagIDsDTO struct {
	TagIDs []uint `json:"tag_ids"`
}

// TagIDsQuery 通过查询参数传入的标签 ID 列表，例如 ?tag_ids=1&tag_ids=2
type TagIDsQuery struct {
	TagIDs []uint `form:"tag_ids" binding:"required,min=1"`
}

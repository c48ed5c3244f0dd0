package vo

import "time"

type TagVO struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Category  *string   `json:"category"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TagCountVO 标签及其关联的演员数量
type TagCountVO struct {
	ID         uint    `json:"id"`
	Name       string  `json:"name"`
	Category   *string `json:"category"`
	ActorCount int64   `json:"actor_count"`
}

// ActorTagsVO 演员的标签列表
type ActorTagsVO struct {
	ActorID   string   `json:"actor_id"`
	ActorName string   `json:"actor_name"`
	Tags      []*TagVO `json:"tags"`
}

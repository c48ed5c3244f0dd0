package entities

import "time"

// Tag 演员标签
type Tag struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"type:varchar(50);not null;uniqueIndex"`
	Category  *string   `gorm:"type:varchar(50);index"`
	CreatedAt time.Time `gorm:"type:datetime;autoCreateTime"`
	UpdatedAt time.Time `gorm:"type:datetime;autoUpdateTime"`
}

// ActorTag 演员与标签的关联，记录由谁添加
type ActorTag struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	ActorID   string    `gorm:"type:varchar(20);not null;uniqueIndex:uk_actor_tag"`
	TagID     uint      `gorm:"not null;uniqueIndex:uk_actor_tag;index"`
	CreatedBy *uint
	CreatedAt time.Time `gorm:"type:datetime;autoCreateTime"`
}

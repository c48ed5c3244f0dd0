package enums

// ActorStatus 演员档案状态
type ActorStatus string

const (
	ActorStatusActive      ActorStatus = "active"
	ActorStatusInactive    ActorStatus = "inactive"
	ActorStatusSuspended   ActorStatus = "suspended"
	ActorStatusRetired     ActorStatus = "retired"
	ActorStatusBlacklisted ActorStatus = "blacklisted"
	ActorStatusDeleted     ActorStatus = "deleted" // 软删除
)

func (s ActorStatus) IsValid() bool {
	switch s {
	case ActorStatusActive, ActorStatusInactive, ActorStatusSuspended,
		ActorStatusRetired, ActorStatusBlacklisted, ActorStatusDeleted:
		return true
	}
	return false
}

// ActorRank 演员咖位
type ActorRank string

const (
	RankLead       ActorRank = "主角"
	RankSupporting ActorRank = "角色"
	RankFeatured   ActorRank = "特约"
	RankExtra      ActorRank = "群演"
	RankNone       ActorRank = "无经验"
)

func (r ActorRank) IsValid() bool {
	switch r {
	case RankLead, RankSupporting, RankFeatured, RankExtra, RankNone:
		return true
	}
	return false
}

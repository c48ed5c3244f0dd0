package profile

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Xushengqwer/actor_hub/commonerrors"
	"github.com/Xushengqwer/actor_hub/models/entities"
	"github.com/Xushengqwer/actor_hub/models/vo"
	"github.com/Xushengqwer/actor_hub/utils"
)

// aggregate 读取演员及三个子表并组装为一份平铺的档案，签约信息不存在时为 nil
func (s *profileService) aggregate(ctx context.Context, db *gorm.DB, actorID string) (*vo.ActorVO, error) {
	actor, err := s.actorRepo.GetActorByID(ctx, db, actorID)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return nil, commonerrors.NewNotFound(msgActorNotFound)
		}
		return nil, commonerrors.NewInternal(err)
	}

	professional, err := s.profileRepo.GetProfessionalInfo(ctx, db, actorID)
	if err != nil && !errors.Is(err, commonerrors.ErrRepoNotFound) {
		return nil, commonerrors.NewInternal(err)
	}
	contact, err := s.profileRepo.GetContactInfo(ctx, db, actorID)
	if err != nil && !errors.Is(err, commonerrors.ErrRepoNotFound) {
		return nil, commonerrors.NewInternal(err)
	}
	contract, err := s.profileRepo.GetContractInfo(ctx, db, actorID)
	if err != nil && !errors.Is(err, commonerrors.ErrRepoNotFound) {
		return nil, commonerrors.NewInternal(err)
	}

	var agentName *string
	if contract != nil && contract.AgentID != nil {
		agent, err := s.userRepo.GetUserByID(ctx, db, *contract.AgentID)
		switch {
		case err == nil:
			agentName = &agent.Username
		case errors.Is(err, commonerrors.ErrRepoNotFound):
			// 经纪人账户已删除，只返回 ID
		default:
			return nil, commonerrors.NewInternal(err)
		}
	}

	return buildActorVO(actor, professional, contact, contract, agentName), nil
}

func buildActorVO(
	actor *entities.Actor,
	professional *entities.ActorProfessionalInfo,
	contact *entities.ActorContactInfo,
	contract *entities.ActorContractInfo,
	agentName *string,
) *vo.ActorVO {
	out := &vo.ActorVO{
		ID:             actor.ID,
		UserID:         actor.UserID,
		RealName:       actor.RealName,
		StageName:      actor.StageName,
		Age:            actor.Age,
		Height:         actor.Height,
		Weight:         actor.Weight,
		Bust:           actor.Bust,
		Waist:          actor.Waist,
		Hip:            actor.Hip,
		Status:         string(actor.Status),
		AvatarURL:      actor.AvatarURL,
		DeletionReason: actor.DeletionReason,
		DeletedAt:      actor.DeletedAt,
		CreatedAt:      actor.CreatedAt,
		UpdatedAt:      actor.UpdatedAt,
	}
	if actor.Gender != nil {
		g := string(*actor.Gender)
		out.Gender = &g
	}

	if professional != nil {
		out.Bio = professional.Bio
		out.Skills = utils.DecodeJSONField(professional.Skills)
		out.Experience = utils.DecodeJSONField(professional.Experience)
		out.Education = utils.DecodeJSONField(professional.Education)
		out.Awards = utils.DecodeJSONField(professional.Awards)
		out.Languages = utils.DecodeJSONField(professional.Languages)
		if professional.Rank != nil {
			r := string(*professional.Rank)
			out.CurrentRank = &r
		}
		out.MinimumFee = professional.MinimumFee
	}

	if contact != nil {
		out.Phone = contact.Phone
		out.Email = contact.Email
		out.Address = contact.Address
		out.Wechat = contact.Wechat
		out.SocialMedia = utils.DecodeJSONField(contact.SocialMedia)
		out.EmergencyContact = contact.EmergencyContact
		out.EmergencyPhone = contact.EmergencyPhone
	}

	if contract != nil {
		out.ContractInfo = NewContractInfoVO(contract, agentName)
	}
	return out
}

// NewContractInfoVO 转换签约信息，日期格式为 YYYY-MM-DD
func NewContractInfoVO(contract *entities.ActorContractInfo, agentName *string) *vo.ContractInfoVO {
	return &vo.ContractInfoVO{
		AgentID:           contract.AgentID,
		AgentName:         agentName,
		FeeStandard:       contract.FeeStandard,
		ContractStartDate: formatDate(contract.ContractStartDate),
		ContractEndDate:   formatDate(contract.ContractEndDate),
		ContractTerms:     contract.ContractTerms,
		CommissionRate:    contract.CommissionRate,
	}
}

package profile

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/actor_hub/commonerrors"
	"github.com/Xushengqwer/actor_hub/models/dto"
	"github.com/Xushengqwer/actor_hub/models/entities"
	"github.com/Xushengqwer/actor_hub/models/enums"
	"github.com/Xushengqwer/actor_hub/models/vo"
	"github.com/Xushengqwer/actor_hub/service/guard"
	"github.com/Xushengqwer/actor_hub/utils"
)

const dateLayout = "2006-01-02"

// basicFields 把基础信息请求转换为待更新的列；只包含请求中提供的字段
func basicFields(req *dto.BasicInfoDTO) (map[string]interface{}, error) {
	fields := map[string]interface{}{}
	if req == nil {
		return fields, nil
	}
	if req.RealName != nil {
		name := utils.SanitizeText(*req.RealName)
		if name == "" {
			return nil, commonerrors.NewValidation(msgRealNameRequired)
		}
		fields["real_name"] = name
	}
	if req.StageName != nil {
		fields["stage_name"] = utils.SanitizeTextPtr(req.StageName)
	}
	if req.Gender != nil {
		g, ok := enums.NormalizeGender(*req.Gender)
		if !ok {
			return nil, commonerrors.NewValidation("无效的性别")
		}
		fields["gender"] = g
	}
	setInt(fields, "age", req.Age)
	setInt(fields, "height", req.Height)
	setInt(fields, "weight", req.Weight)
	setInt(fields, "bust", req.Bust)
	setInt(fields, "waist", req.Waist)
	setInt(fields, "hip", req.Hip)
	return fields, nil
}

func professionalFields(req *dto.ProfessionalInfoDTO) (map[string]interface{}, error) {
	fields := map[string]interface{}{}
	if req == nil {
		return fields, nil
	}
	if req.Bio != nil {
		fields["bio"] = utils.SanitizeTextPtr(req.Bio)
	}
	lists := []struct {
		column string
		value  *[]string
	}{
		{"skills", req.Skills},
		{"experience", req.Experience},
		{"education", req.Education},
		{"awards", req.Awards},
		{"languages", req.Languages},
	}
	for _, l := range lists {
		if l.value == nil {
			continue
		}
		encoded, err := utils.EncodeJSONField(*l.value)
		if err != nil {
			return nil, commonerrors.NewValidation("专业信息格式错误")
		}
		fields[l.column] = encoded
	}
	if req.Rank != nil {
		rank := enums.ActorRank(*req.Rank)
		if !rank.IsValid() {
			return nil, commonerrors.NewValidation("无效的演员等级")
		}
		fields["current_rank"] = rank
	}
	if req.MinimumFee != nil {
		fields["minimum_fee"] = *req.MinimumFee
	}
	return fields, nil
}

func contactFields(req *dto.ContactInfoDTO) (map[string]interface{}, error) {
	fields := map[string]interface{}{}
	if req == nil {
		return fields, nil
	}
	setString(fields, "phone", req.Phone)
	setString(fields, "email", req.Email)
	setString(fields, "address", req.Address)
	setString(fields, "wechat", req.Wechat)
	setString(fields, "emergency_contact", req.EmergencyContact)
	setString(fields, "emergency_phone", req.EmergencyPhone)
	if req.SocialMedia != nil {
		encoded, err := utils.EncodeJSONField(*req.SocialMedia)
		if err != nil {
			return nil, commonerrors.NewValidation("社交媒体格式错误")
		}
		fields["social_media"] = encoded
	}
	return fields, nil
}

func contractFields(req *dto.ContractInfoDTO) (map[string]interface{}, error) {
	fields := map[string]interface{}{}
	if req == nil {
		return fields, nil
	}
	setString(fields, "fee_standard", req.FeeStandard)
	setString(fields, "contract_terms", req.ContractTerms)
	var start, end *time.Time
	for _, d := range []struct {
		column string
		value  *string
		target **time.Time
	}{
		{"contract_start_date", req.ContractStartDate, &start},
		{"contract_end_date", req.ContractEndDate, &end},
	} {
		if d.value == nil {
			continue
		}
		t, err := time.Parse(dateLayout, *d.value)
		if err != nil {
			return nil, commonerrors.NewValidation("日期格式应为 YYYY-MM-DD")
		}
		*d.target = &t
		fields[d.column] = t
	}
	if start != nil && end != nil && end.Before(*start) {
		return nil, commonerrors.NewValidation("合同结束日期不能早于开始日期")
	}
	if req.CommissionRate != nil {
		fields["commission_rate"] = *req.CommissionRate
	}
	return fields, nil
}

func setInt(fields map[string]interface{}, column string, v *int) {
	if v != nil {
		fields[column] = *v
	}
}

func setString(fields map[string]interface{}, column string, v *string) {
	if v != nil {
		fields[column] = utils.SanitizeTextPtr(v)
	}
}

// writeSections 写入基础信息并按需创建或更新专业信息与联系方式
func (s *profileService) writeSections(ctx context.Context, tx *gorm.DB, actorID string, basic, professional, contact map[string]interface{}) error {
	if err := s.actorRepo.UpdateActorFields(ctx, tx, actorID, basic); err != nil {
		return commonerrors.NewInternal(err)
	}
	if err := s.upsertProfessional(ctx, tx, actorID, professional); err != nil {
		return commonerrors.NewInternal(err)
	}
	if err := s.upsertContact(ctx, tx, actorID, contact); err != nil {
		return commonerrors.NewInternal(err)
	}
	return nil
}

// 子表行不存在时先以 actor_id 建行，再写入提供的字段
func (s *profileService) upsertProfessional(ctx context.Context, tx *gorm.DB, actorID string, fields map[string]interface{}) error {
	if _, err := s.profileRepo.GetProfessionalInfo(ctx, tx, actorID); err != nil {
		if !errors.Is(err, commonerrors.ErrRepoNotFound) {
			return err
		}
		if err := s.profileRepo.CreateProfessionalInfo(ctx, tx, &entities.ActorProfessionalInfo{ActorID: actorID}); err != nil {
			return err
		}
	}
	return s.profileRepo.UpdateProfessionalInfo(ctx, tx, actorID, fields)
}

func (s *profileService) upsertContact(ctx context.Context, tx *gorm.DB, actorID string, fields map[string]interface{}) error {
	if _, err := s.profileRepo.GetContactInfo(ctx, tx, actorID); err != nil {
		if !errors.Is(err, commonerrors.ErrRepoNotFound) {
			return err
		}
		if err := s.profileRepo.CreateContactInfo(ctx, tx, &entities.ActorContactInfo{ActorID: actorID}); err != nil {
			return err
		}
	}
	return s.profileRepo.UpdateContactInfo(ctx, tx, actorID, fields)
}

func (s *profileService) upsertContract(ctx context.Context, tx *gorm.DB, actorID string, fields map[string]interface{}) error {
	if _, err := s.profileRepo.GetContractInfo(ctx, tx, actorID); err != nil {
		if !errors.Is(err, commonerrors.ErrRepoNotFound) {
			return err
		}
		if err := s.profileRepo.CreateContractInfo(ctx, tx, &entities.ActorContractInfo{ActorID: actorID}); err != nil {
			return err
		}
	}
	return s.profileRepo.UpdateContractInfo(ctx, tx, actorID, fields)
}

// updateSection 单个分区更新的公共流程：存在性与权限检查、写入、返回最新档案
func (s *profileService) updateSection(
	ctx context.Context,
	operation string,
	caller guard.Caller,
	actorID string,
	action guard.Action,
	write func(tx *gorm.DB) error,
) (*vo.ActorVO, error) {
	var result *vo.ActorVO
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.AuthorizeActor(ctx, tx, caller, actorID, action); err != nil {
			return err
		}
		if err := write(tx); err != nil {
			var appErr *commonerrors.AppError
			if errors.As(err, &appErr) {
				return err
			}
			return commonerrors.NewInternal(err)
		}
		var err error
		result, err = s.aggregate(ctx, tx, actorID)
		return err
	})
	if err != nil {
		s.logFailure(operation, actorID, err)
		return nil, err
	}
	s.logger.Info("演员档案已更新", zap.String("operation", operation), zap.String("actorID", actorID), zap.Uint("by", caller.UserID))
	return result, nil
}

func (s *profileService) UpdateBasicInfo(ctx context.Context, caller guard.Caller, actorID string, req *dto.BasicInfoDTO) (*vo.ActorVO, error) {
	fields, err := basicFields(req)
	if err != nil {
		return nil, err
	}
	return s.updateSection(ctx, "ProfileService.UpdateBasicInfo", caller, actorID, guard.ActionEditActor, func(tx *gorm.DB) error {
		return s.actorRepo.UpdateActorFields(ctx, tx, actorID, fields)
	})
}

func (s *profileService) UpdateProfessionalInfo(ctx context.Context, caller guard.Caller, actorID string, req *dto.ProfessionalInfoDTO) (*vo.ActorVO, error) {
	fields, err := professionalFields(req)
	if err != nil {
		return nil, err
	}
	return s.updateSection(ctx, "ProfileService.UpdateProfessionalInfo", caller, actorID, guard.ActionEditActor, func(tx *gorm.DB) error {
		return s.upsertProfessional(ctx, tx, actorID, fields)
	})
}

func (s *profileService) UpdateContactInfo(ctx context.Context, caller guard.Caller, actorID string, req *dto.ContactInfoDTO) (*vo.ActorVO, error) {
	fields, err := contactFields(req)
	if err != nil {
		return nil, err
	}
	return s.updateSection(ctx, "ProfileService.UpdateContactInfo", caller, actorID, guard.ActionEditActor, func(tx *gorm.DB) error {
		return s.upsertContact(ctx, tx, actorID, fields)
	})
}

func (s *profileService) UpdateContractInfo(ctx context.Context, caller guard.Caller, actorID string, req *dto.ContractInfoDTO) (*vo.ActorVO, error) {
	fields, err := contractFields(req)
	if err != nil {
		return nil, err
	}
	return s.updateSection(ctx, "ProfileService.UpdateContractInfo", caller, actorID, guard.ActionEditContract, func(tx *gorm.DB) error {
		return s.upsertContract(ctx, tx, actorID, fields)
	})
}

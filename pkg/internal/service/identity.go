package service

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"gorm.io/gorm"

	"github.com/yeisme/docvault/pkg/configs"
	ctxPkg "github.com/yeisme/docvault/pkg/context"
	"github.com/yeisme/docvault/pkg/internal/billing"
	"github.com/yeisme/docvault/pkg/internal/model"
	dbc "github.com/yeisme/docvault/pkg/internal/storage/db"
	"github.com/yeisme/docvault/pkg/internal/types"
	dlog "github.com/yeisme/docvault/pkg/log"
)

// IdentityService 登录后身份同步：users 行的懒创建与资料刷新.
//
// 计费客户对象在首次同步时创建，之后所有 Stripe 交互都复用同一个
// customer. 并发的重复同步靠唯一键冲突收敛到同一行，绝不会造出第二个客户.
type IdentityService struct {
	dbc     *dbc.Client
	billing billing.CustomerCreator
}

// NewIdentityService 创建并返回一个新的 IdentityService 实例.
func NewIdentityService(c context.Context) *IdentityService {
	svc := &IdentityService{
		dbc: ctxPkg.GetDBClient(c),
	}

	if configs.GetConfig().Billing.Enabled {
		svc.billing = billing.New()
	}

	return svc
}

// Sync 同步一次登录身份. 返回数据库里的最终行.
func (s *IdentityService) Sync(ctx context.Context, req *types.SyncUserRequest) (*types.UserProfile, error) {
	var user model.User

	err := s.dbc.WithContext(ctx).First(&user, "id = ?", req.UID).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return s.createUser(ctx, req)
	case err != nil:
		return nil, fmt.Errorf("load user: %w", err)
	}

	return s.refreshUser(ctx, &user, req)
}

// createUser 首次同步：先建计费客户再落库. 落库撞唯一键说明并发同步
// 已经建好了行，改走读取路径.
func (s *IdentityService) createUser(ctx context.Context, req *types.SyncUserRequest) (*types.UserProfile, error) {
	user := model.User{
		ID:        req.UID,
		Email:     req.Email,
		Name:      req.Name,
		AvatarURL: req.AvatarURL,
		Role:      s.roleFor(req.Email),
	}

	if s.billing != nil {
		customerID, err := s.billing.CreateCustomer(ctx, req.UID, req.Email, req.Name)
		if err != nil {
			return nil, fmt.Errorf("%w: create billing customer: %v", ErrUpstream, err)
		}

		user.StripeCustomerID = &customerID
	}

	err := s.dbc.WithContext(ctx).Create(&user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		dlog.Logger().Debug().Str("uid", req.UID).Msg("并发同步撞唯一键，改读已有行")

		var existing model.User
		if err := s.dbc.WithContext(ctx).First(&existing, "id = ?", req.UID).Error; err != nil {
			return nil, fmt.Errorf("reload user after duplicate insert: %w", err)
		}

		return toProfile(&existing), nil
	}

	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return toProfile(&user), nil
}

// refreshUser 已有行：补缺失的计费客户，资料变了才写库.
func (s *IdentityService) refreshUser(ctx context.Context, user *model.User, req *types.SyncUserRequest) (*types.UserProfile, error) {
	updates := map[string]any{}

	if user.StripeCustomerID == nil && s.billing != nil {
		customerID, err := s.billing.CreateCustomer(ctx, user.ID, req.Email, req.Name)
		if err != nil {
			return nil, fmt.Errorf("%w: create billing customer: %v", ErrUpstream, err)
		}

		updates["stripe_customer_id"] = customerID
		user.StripeCustomerID = &customerID
	}

	if req.Email != "" && req.Email != user.Email {
		updates["email"] = req.Email
		user.Email = req.Email
	}

	if req.Name != "" && req.Name != user.Name {
		updates["name"] = req.Name
		user.Name = req.Name
	}

	if req.AvatarURL != "" && req.AvatarURL != user.AvatarURL {
		updates["avatar_url"] = req.AvatarURL
		user.AvatarURL = req.AvatarURL
	}

	// 邮箱进了引导名单但角色还是普通用户时提级
	if user.Role != model.RoleAdmin && s.roleFor(user.Email) == model.RoleAdmin {
		updates["role"] = model.RoleAdmin
		user.Role = model.RoleAdmin
	}

	if len(updates) > 0 {
		if err := s.dbc.WithContext(ctx).Model(&model.User{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("refresh user: %w", err)
		}
	}

	return toProfile(user), nil
}

// roleFor 邮箱在引导名单里时授予 admin.
func (s *IdentityService) roleFor(email string) string {
	if email != "" && slices.Contains(configs.GetConfig().Auth.AdminEmails, email) {
		return model.RoleAdmin
	}

	return model.RoleUser
}

func toProfile(user *model.User) *types.UserProfile {
	return &types.UserProfile{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		AvatarURL: user.AvatarURL,
		Role:      user.Role,
		IsPro:     user.IsPro,
	}
}

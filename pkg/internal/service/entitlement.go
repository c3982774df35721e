package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/stripe/stripe-go/v79"
	"gorm.io/gorm"

	"github.com/yeisme/docvault/pkg/configs"
	ctxPkg "github.com/yeisme/docvault/pkg/context"
	"github.com/yeisme/docvault/pkg/internal/billing"
	"github.com/yeisme/docvault/pkg/internal/model"
	dbc "github.com/yeisme/docvault/pkg/internal/storage/db"
	"github.com/yeisme/docvault/pkg/internal/storage/mq"
	dlog "github.com/yeisme/docvault/pkg/log"
	"github.com/yeisme/docvault/pkg/queue"
)

// billingPort 权益服务对计费端的完整依赖面.
type billingPort interface {
	billing.CustomerCreator
	billing.CheckoutStarter
}

// EntitlementService 付费权益：is_pro 判定、结账会话与 webhook 落库.
//
// is_pro 只有 webhook 路径能翻转，结账成功页、客户端状态都只是展示，
// 不作为权益依据.
type EntitlementService struct {
	dbc     *dbc.Client
	billing billingPort
	mqc     *mq.Client
}

// NewEntitlementService 创建并返回一个新的 EntitlementService 实例.
func NewEntitlementService(c context.Context) *EntitlementService {
	svc := &EntitlementService{
		dbc: ctxPkg.GetDBClient(c),
		mqc: ctxPkg.GetMQClient(c),
	}

	if configs.GetConfig().Billing.Enabled {
		svc.billing = billing.New()
	}

	return svc
}

// IsPro 判定用户当前是否持有有效付费权益. 用户不存在按未付费处理.
func (s *EntitlementService) IsPro(ctx context.Context, uid string) (bool, error) {
	var user model.User

	err := s.dbc.WithContext(ctx).Select("is_pro").First(&user, "id = ?", uid).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("load user entitlement: %w", err)
	}

	return user.IsPro, nil
}

// GetUser 读取用户行，middleware 的角色判定也走这里.
func (s *EntitlementService) GetUser(ctx context.Context, uid string) (*model.User, error) {
	var user model.User

	err := s.dbc.WithContext(ctx).First(&user, "id = ?", uid).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}

	return &user, nil
}

// Checkout 创建订阅结账会话并返回托管页地址. 客户对象缺失时懒创建.
func (s *EntitlementService) Checkout(ctx context.Context, uid string) (string, error) {
	if s.billing == nil {
		return "", fmt.Errorf("%w: billing disabled", ErrUpstream)
	}

	user, err := s.GetUser(ctx, uid)
	if err != nil {
		return "", err
	}

	if user.StripeCustomerID == nil {
		customerID, err := s.billing.CreateCustomer(ctx, user.ID, user.Email, user.Name)
		if err != nil {
			return "", fmt.Errorf("%w: create billing customer: %v", ErrUpstream, err)
		}

		if err := s.dbc.WithContext(ctx).Model(&model.User{}).Where("id = ?", uid).
			Update("stripe_customer_id", customerID).Error; err != nil {
			return "", fmt.Errorf("persist billing customer: %w", err)
		}

		user.StripeCustomerID = &customerID
	}

	url, err := s.billing.NewCheckoutSession(ctx, uid, *user.StripeCustomerID)
	if err != nil {
		return "", fmt.Errorf("%w: create checkout session: %v", ErrUpstream, err)
	}

	return url, nil
}

// HandleWebhookEvent 处理已验签的计费事件. 不认识的事件类型直接忽略.
func (s *EntitlementService) HandleWebhookEvent(ctx context.Context, event stripe.Event) error {
	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		return s.activateFromCheckout(ctx, event)
	case stripe.EventTypeCustomerSubscriptionDeleted:
		return s.deactivateFromSubscription(ctx, event)
	default:
		dlog.Logger().Debug().Str("event_type", string(event.Type)).Msg("忽略计费事件")
		return nil
	}
}

// activateFromCheckout 结账完成：开通权益并落 Stripe 外部引用.
func (s *EntitlementService) activateFromCheckout(ctx context.Context, event stripe.Event) error {
	var sess stripe.CheckoutSession
	if err := sonic.Unmarshal(event.Data.Raw, &sess); err != nil {
		return fmt.Errorf("decode checkout session: %w", err)
	}

	uid := sess.Metadata[billing.MetadataAuthUID]
	if uid == "" {
		return fmt.Errorf("%w: checkout session missing %s metadata", ErrValidation, billing.MetadataAuthUID)
	}

	updates := map[string]any{"is_pro": true}

	if sess.Customer != nil && sess.Customer.ID != "" {
		updates["stripe_customer_id"] = sess.Customer.ID
	}

	if sess.Subscription != nil && sess.Subscription.ID != "" {
		updates["stripe_subscription_id"] = sess.Subscription.ID
	}

	return s.applyEntitlement(ctx, uid, updates, true, string(event.Type))
}

// deactivateFromSubscription 订阅终止：关闭权益并清掉订阅引用.
// 元数据缺 uid 时退回按客户 ID 反查（老订阅可能没带元数据）.
func (s *EntitlementService) deactivateFromSubscription(ctx context.Context, event stripe.Event) error {
	var sub stripe.Subscription
	if err := sonic.Unmarshal(event.Data.Raw, &sub); err != nil {
		return fmt.Errorf("decode subscription: %w", err)
	}

	uid := sub.Metadata[billing.MetadataAuthUID]
	if uid == "" && sub.Customer != nil {
		var user model.User

		err := s.dbc.WithContext(ctx).Select("id").
			First(&user, "stripe_customer_id = ?", sub.Customer.ID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			dlog.Logger().Warn().Str("customer", sub.Customer.ID).Msg("订阅终止事件找不到对应用户")
			return nil
		}

		if err != nil {
			return fmt.Errorf("resolve user by customer: %w", err)
		}

		uid = user.ID
	}

	if uid == "" {
		return fmt.Errorf("%w: subscription event missing user reference", ErrValidation)
	}

	updates := map[string]any{
		"is_pro":                 false,
		"stripe_subscription_id": nil,
	}

	return s.applyEntitlement(ctx, uid, updates, false, string(event.Type))
}

func (s *EntitlementService) applyEntitlement(ctx context.Context, uid string, updates map[string]any, isPro bool, sourceEvent string) error {
	res := s.dbc.WithContext(ctx).Model(&model.User{}).Where("id = ?", uid).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("apply entitlement: %w", res.Error)
	}

	if res.RowsAffected == 0 {
		dlog.Logger().Warn().Str("uid", uid).Msg("权益事件指向不存在的用户")
		return nil
	}

	dlog.Logger().Info().Str("uid", uid).Bool("is_pro", isPro).Str("event", sourceEvent).Msg("付费权益已更新")

	publishEvent(ctx, s.mqc, queue.TopicEntitlementChanged, func() error {
		return queue.PublishEntitlementChanged(s.mqc, queue.EntitlementChangedPayload{
			UserID:      uid,
			IsPro:       isPro,
			SourceEvent: sourceEvent,
		})
	})

	return nil
}

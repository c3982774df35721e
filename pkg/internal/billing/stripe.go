// Package billing 封装 Stripe 客户端：客户对象、订阅结账会话与 webhook 验签.
//
// 约定：Stripe 侧所有对象都带 auth_uid 元数据回指本系统用户，webhook 处理
// 依赖它把事件映射回 users 行. 客户对象懒创建（首次身份同步时）.
package billing

import (
	"context"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/checkout/session"
	"github.com/stripe/stripe-go/v79/customer"
	"github.com/stripe/stripe-go/v79/webhook"

	"github.com/yeisme/docvault/pkg/configs"
)

// MetadataAuthUID Stripe 元数据里回指用户主键的键名.
const MetadataAuthUID = "auth_uid"

// CustomerCreator 创建计费客户. 身份同步依赖它，测试中可替换.
type CustomerCreator interface {
	CreateCustomer(ctx context.Context, uid, email, name string) (customerID string, err error)
}

// CheckoutStarter 创建订阅结账会话.
type CheckoutStarter interface {
	NewCheckoutSession(ctx context.Context, uid, customerID string) (url string, err error)
}

// Client 基于 stripe-go 的计费客户端.
type Client struct {
	cfg configs.BillingConfig
}

// New 创建计费客户端并设置全局 API 密钥.
func New() *Client {
	cfg := configs.GetConfig().Billing
	stripe.Key = cfg.SecretKey

	return &Client{cfg: cfg}
}

// CreateCustomer 在 Stripe 侧创建客户对象，元数据带 auth_uid.
func (c *Client) CreateCustomer(ctx context.Context, uid, email, name string) (string, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
		Name:  stripe.String(name),
	}
	params.Context = ctx
	params.AddMetadata(MetadataAuthUID, uid)

	cust, err := customer.New(params)
	if err != nil {
		return "", fmt.Errorf("create stripe customer: %w", err)
	}

	return cust.ID, nil
}

// NewCheckoutSession 创建订阅模式的结账会话.
// auth_uid 同时写在会话与未来订阅的元数据上，webhook 两类事件都能找回用户.
func (c *Client) NewCheckoutSession(ctx context.Context, uid, customerID string) (string, error) {
	base := strings.TrimRight(configs.GetConfig().Server.PublicBaseURL, "/")

	params := &stripe.CheckoutSessionParams{
		Mode:     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		Customer: stripe.String(customerID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(c.cfg.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{MetadataAuthUID: uid},
		},
		SuccessURL: stripe.String(base + c.cfg.SuccessPath),
		CancelURL:  stripe.String(base + c.cfg.CancelPath),
	}
	params.Context = ctx
	params.AddMetadata(MetadataAuthUID, uid)

	sess, err := session.New(params)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}

	return sess.URL, nil
}

// VerifyWebhook 校验 webhook 签名并返回事件. 签名不合法直接报错，
// 权益翻转只信任通过这里的事件.
func (c *Client) VerifyWebhook(payload []byte, signature string) (stripe.Event, error) {
	event, err := webhook.ConstructEvent(payload, signature, c.cfg.WebhookSecret)
	if err != nil {
		return stripe.Event{}, fmt.Errorf("verify webhook signature: %w", err)
	}

	return event, nil
}

package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stripe/stripe-go/v79"

	"github.com/yeisme/docvault/pkg/internal/model"
)

func seedUser(t *testing.T, svc *EntitlementService, user model.User) model.User {
	t.Helper()

	if err := svc.dbc.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	return user
}

func checkoutCompletedEvent(t *testing.T, raw string) stripe.Event {
	t.Helper()

	return stripe.Event{
		Type: stripe.EventTypeCheckoutSessionCompleted,
		Data: &stripe.EventData{Raw: json.RawMessage(raw)},
	}
}

func TestWebhookCheckoutCompletedActivatesPro(t *testing.T) {
	ctx := context.Background()
	svc := &EntitlementService{dbc: newTestDB(t)}

	seedUser(t, svc, model.User{ID: "u1", Email: "a@example.com"})

	event := checkoutCompletedEvent(t, `{
		"metadata": {"auth_uid": "u1"},
		"customer": "cus_123",
		"subscription": "sub_456"
	}`)

	if err := svc.HandleWebhookEvent(ctx, event); err != nil {
		t.Fatalf("HandleWebhookEvent: %v", err)
	}

	var user model.User

	svc.dbc.First(&user, "id = ?", "u1")
	if !user.IsPro {
		t.Error("is_pro should be true")
	}

	if user.StripeCustomerID == nil || *user.StripeCustomerID != "cus_123" {
		t.Errorf("customer id = %v", user.StripeCustomerID)
	}

	if user.StripeSubscriptionID == nil || *user.StripeSubscriptionID != "sub_456" {
		t.Errorf("subscription id = %v", user.StripeSubscriptionID)
	}

	ok, err := svc.IsPro(ctx, "u1")
	if err != nil || !ok {
		t.Errorf("IsPro = %v, %v", ok, err)
	}
}

func TestWebhookCheckoutMissingUIDRejected(t *testing.T) {
	ctx := context.Background()
	svc := &EntitlementService{dbc: newTestDB(t)}

	event := checkoutCompletedEvent(t, `{"metadata": {}}`)

	if err := svc.HandleWebhookEvent(ctx, event); !errors.Is(err, ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}
}

func TestWebhookSubscriptionDeletedDeactivates(t *testing.T) {
	ctx := context.Background()
	svc := &EntitlementService{dbc: newTestDB(t)}

	subID := "sub_456"
	custID := "cus_123"
	seedUser(t, svc, model.User{
		ID: "u1", IsPro: true,
		StripeCustomerID: &custID, StripeSubscriptionID: &subID,
	})

	event := stripe.Event{
		Type: stripe.EventTypeCustomerSubscriptionDeleted,
		Data: &stripe.EventData{Raw: json.RawMessage(`{
			"metadata": {"auth_uid": "u1"},
			"customer": "cus_123"
		}`)},
	}

	if err := svc.HandleWebhookEvent(ctx, event); err != nil {
		t.Fatalf("HandleWebhookEvent: %v", err)
	}

	var user model.User

	svc.dbc.First(&user, "id = ?", "u1")
	if user.IsPro {
		t.Error("is_pro should be false")
	}

	if user.StripeSubscriptionID != nil {
		t.Errorf("subscription id should be cleared, got %v", *user.StripeSubscriptionID)
	}

	// 客户引用保留，再次订阅时复用
	if user.StripeCustomerID == nil {
		t.Error("customer id should survive")
	}
}

func TestWebhookSubscriptionDeletedResolvesByCustomer(t *testing.T) {
	ctx := context.Background()
	svc := &EntitlementService{dbc: newTestDB(t)}

	custID := "cus_old"
	seedUser(t, svc, model.User{ID: "u2", IsPro: true, StripeCustomerID: &custID})

	// 老订阅没带元数据，按客户 ID 反查
	event := stripe.Event{
		Type: stripe.EventTypeCustomerSubscriptionDeleted,
		Data: &stripe.EventData{Raw: json.RawMessage(`{"customer": "cus_old"}`)},
	}

	if err := svc.HandleWebhookEvent(ctx, event); err != nil {
		t.Fatalf("HandleWebhookEvent: %v", err)
	}

	var user model.User

	svc.dbc.First(&user, "id = ?", "u2")
	if user.IsPro {
		t.Error("is_pro should be false")
	}
}

func TestWebhookIgnoresUnknownEvents(t *testing.T) {
	ctx := context.Background()
	svc := &EntitlementService{dbc: newTestDB(t)}

	event := stripe.Event{
		Type: stripe.EventTypeInvoicePaid,
		Data: &stripe.EventData{Raw: json.RawMessage(`{}`)},
	}

	if err := svc.HandleWebhookEvent(ctx, event); err != nil {
		t.Errorf("unknown event should be ignored: %v", err)
	}
}

func TestIsProUnknownUserIsFalse(t *testing.T) {
	ctx := context.Background()
	svc := &EntitlementService{dbc: newTestDB(t)}

	ok, err := svc.IsPro(ctx, "ghost")
	if err != nil {
		t.Fatalf("IsPro: %v", err)
	}

	if ok {
		t.Error("unknown user must not be pro")
	}
}

func TestCheckoutLazilyCreatesCustomer(t *testing.T) {
	ctx := context.Background()
	fb := &fakeBilling{}
	svc := &EntitlementService{dbc: newTestDB(t), billing: fb}

	seedUser(t, svc, model.User{ID: "u1", Email: "a@example.com"})

	url, err := svc.Checkout(ctx, "u1")
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}

	if url == "" {
		t.Error("empty checkout url")
	}

	if fb.customersCreated != 1 || fb.sessionsCreated != 1 {
		t.Errorf("billing calls = %d customers, %d sessions", fb.customersCreated, fb.sessionsCreated)
	}

	var user model.User

	svc.dbc.First(&user, "id = ?", "u1")
	if user.StripeCustomerID == nil {
		t.Error("customer id should be persisted")
	}

	// 第二次结账复用已有客户
	if _, err := svc.Checkout(ctx, "u1"); err != nil {
		t.Fatalf("second Checkout: %v", err)
	}

	if fb.customersCreated != 1 {
		t.Errorf("customers created = %d, want 1", fb.customersCreated)
	}
}

package types

// CheckoutResponse 返回 Stripe 托管结账页地址.
type CheckoutResponse struct {
	URL string `json:"url"`
}

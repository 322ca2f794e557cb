package model

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Channel describes one Bayarcash payment method. All methods share a single
// gateway implementation parametrized by this record.
type Channel struct {
	Method        string          `json:"method" yaml:"method"`
	Title         string          `json:"title" yaml:"title"`
	MethodTitle   string          `json:"method_title" yaml:"method_title"`
	Description   string          `json:"description" yaml:"description"`
	ChannelNumber int             `json:"channel_number" yaml:"channel_number"`
	Icon          string          `json:"icon" yaml:"icon"`
	LogTitle      string          `json:"log_title" yaml:"log_title"`
	Recurring     bool            `json:"recurring" yaml:"recurring"`
	MaxAmount     decimal.Decimal `json:"max_amount" yaml:"-"`
}

// SupportsAmount reports whether the channel accepts the order total.
func (c Channel) SupportsAmount(total decimal.Decimal) bool {
	if c.MaxAmount.IsZero() {
		return true
	}
	return total.LessThanOrEqual(c.MaxAmount)
}

// DefaultChannels is the built-in Bayarcash catalogue.
func DefaultChannels() map[string]Channel {
	list := []Channel{
		{Method: MethodFPX, Title: "Online Banking", MethodTitle: "Bayarcash FPX", Description: "Pay with online banking FPX.", ChannelNumber: 1, Icon: "fpx-online-banking.png", LogTitle: "bayarcash_fpx"},
		{Method: MethodDirectDebit, Title: "Recurring Direct Debit", MethodTitle: "Bayarcash Direct Debit", Description: "Pay with Direct Debit. Bank authorization takes 1-3 working days.", ChannelNumber: 3, Icon: "direct-debit.png", LogTitle: "bayarcash_directdebit", Recurring: true},
		{Method: MethodCreditCard, Title: "Credit Card", MethodTitle: "Bayarcash Credit Card Account", Description: "Pay with credit card.", ChannelNumber: 4, Icon: "credit-card.png", LogTitle: "bayarcash_linecredit"},
		{Method: MethodDuitNowOBW, Title: "Online Banking", MethodTitle: "Bayarcash DuitNow OBW", Description: "Pay with DuitNow Online Banking/Wallets.", ChannelNumber: 5, Icon: "duitnow-online-banking.png", LogTitle: "bayarcash_duitnow"},
		{Method: MethodDuitNowQR, Title: "DuitNow QR", MethodTitle: "Bayarcash DuitNow QR", Description: "Scan and pay with any banking app or e-wallet.", ChannelNumber: 6, Icon: "duitnow-qr.png", LogTitle: "bayarcash_duitnowqr"},
		{Method: MethodSPayLater, Title: "SPayLater", MethodTitle: "Bayarcash BNPL by Shopee", Description: "Buy now, pay later with SPayLater.", ChannelNumber: 7, Icon: "spaylater.png", LogTitle: "bayarcash_duitnowshopee", MaxAmount: decimal.NewFromInt(1000)},
		{Method: MethodBoostPayFlex, Title: "Boost PayFlex", MethodTitle: "Bayarcash BNPL by Boost", Description: "Buy now, pay later with Boost PayFlex.", ChannelNumber: 8, Icon: "boost-payflex.png", LogTitle: "bayarcash_duitnowboost"},
		{Method: MethodQRIS, Title: "Indonesia Online Banking", MethodTitle: "Bayarcash QRIS Online Banking", Description: "Pay with Indonesian online banking.", ChannelNumber: 9, Icon: "qris.png", LogTitle: "bayarcash_duitnowqris"},
		{Method: MethodQRISWallet, Title: "Indonesia e-Wallet", MethodTitle: "Bayarcash QRIS e-Wallet", Description: "Pay with Indonesian e-wallets.", ChannelNumber: 10, Icon: "qris-wallet.png", LogTitle: "bayarcash_duitnowqriswallet"},
	}

	channels := make(map[string]Channel, len(list))
	for _, ch := range list {
		channels[ch.Method] = ch
	}
	return channels
}

// SortedChannels returns the catalogue ordered by channel number.
func SortedChannels(channels map[string]Channel) []Channel {
	out := make([]Channel, 0, len(channels))
	for _, ch := range channels {
		out = append(out, ch)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ChannelNumber < out[j].ChannelNumber
	})
	return out
}

// MethodSettings holds the merchant credentials of one payment method.
type MethodSettings struct {
	Method        string `json:"method" yaml:"method"`
	Enabled       bool   `json:"enabled" yaml:"enabled"`
	PortalKey     string `json:"portal_key" yaml:"portal_key"`
	BearerToken   string `json:"-" yaml:"bearer_token"`
	APISecretKey  string `json:"-" yaml:"api_secret_key"`
	Sandbox       bool   `json:"sandbox" yaml:"sandbox"`
	Debug         bool   `json:"debug" yaml:"debug"`
	EmailFallback string `json:"email_fallback" yaml:"email_fallback"`
}

// HasCredentials reports whether the method can talk to the provider API.
func (s *MethodSettings) HasCredentials() bool {
	return s != nil && s.BearerToken != ""
}

// MissingFields lists the credentials required to create payment intents.
func (s *MethodSettings) MissingFields() []string {
	var missing []string
	if s.PortalKey == "" {
		missing = append(missing, "portal_key")
	}
	if s.BearerToken == "" {
		missing = append(missing, "bearer_token")
	}
	if s.APISecretKey == "" {
		missing = append(missing, "api_secret_key")
	}
	return missing
}

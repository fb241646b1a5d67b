package upi

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/pitabwire/frame"
	"github.com/shopspring/decimal"
)

// FallbackVPA is used when a merchant is not in the known-merchant table.
const FallbackVPA = "test@upi"

// naive map; in the real world keep a config store
var knownMerchantVPA = map[string]string{
	"amazon india": "amazonpay@apl",
	"swiggy":       "swiggy@icici",
	"zomato":       "zomato@hdfcbank",
	"flipkart":     "flipkart@icici",
	"myntra":       "myntra@icici",
}

// Android package names for the UPI apps the front end offers.
var appPackages = map[string]string{
	"gpay":    "com.google.android.apps.nbu.paisa.user",
	"phonepe": "com.phonepe.app",
	"paytm":   "net.one97.paytm",
	"amazon":  "in.amazon.mShop.android.shopping",
	"bhim":    "",
}

// VPAForMerchant resolves the payee VPA for a merchant name, matching
// case-insensitively on the trimmed name.
func VPAForMerchant(merchant string) string {
	if vpa, ok := knownMerchantVPA[strings.ToLower(strings.TrimSpace(merchant))]; ok {
		return vpa
	}
	return FallbackVPA
}

// AppPackage returns the Android package for a payment method id, empty when
// the method has no package-specific intent.
func AppPackage(methodID string) string {
	return appPackages[methodID]
}

// PayURL builds a upi://pay URI. Parameter order is fixed: pa, pn, am, cu,
// tn, tr, every value percent-encoded. URIs built here must stay byte-stable
// since external apps parse them.
func PayURL(vpa, name string, amount decimal.Decimal, note, reference string) string {
	if name == "" {
		name = "Merchant"
	}
	if note == "" {
		note = "Payment"
	}
	return fmt.Sprintf("upi://pay?pa=%s&pn=%s&am=%s&cu=INR&tn=%s&tr=%s",
		url.QueryEscape(vpa),
		url.QueryEscape(name),
		url.QueryEscape(amount.String()),
		url.QueryEscape(note),
		url.QueryEscape(reference),
	)
}

// IntentURL builds an Android intent URI asking for a specific UPI app
// package. Some browsers restrict intent: URIs; callers fall back to PayURL.
func IntentURL(appPackage, vpa, name string, amount decimal.Decimal, note, reference string) string {
	params := fmt.Sprintf("pa=%s&pn=%s&tn=%s&am=%s&cu=INR&tr=%s",
		url.QueryEscape(vpa),
		url.QueryEscape(name),
		url.QueryEscape(note),
		url.QueryEscape(amount.String()),
		url.QueryEscape(reference),
	)
	return fmt.Sprintf("intent://upi/pay?%s#Intent;scheme=upi;package=%s;end", params, appPackage)
}

// Launcher hands a constructed URI to whatever can open an external UPI app.
// Launching is best effort: the outcome of the handoff is unobservable and
// never gates a payment attempt.
type Launcher interface {
	Launch(ctx context.Context, uri string) error
}

// LogLauncher is the server-side launcher: it can only record that a handoff
// was attempted. The UI performs the actual navigation with the URI it gets
// back from the pay endpoint.
type LogLauncher struct {
	Service *frame.Service
}

func (l *LogLauncher) Launch(ctx context.Context, uri string) error {
	l.Service.Log(ctx).WithField("type", "DeepLink").WithField("uri", uri).Info("handing off to external app")
	return nil
}

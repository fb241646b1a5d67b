package models

import (
	"strings"
	"time"

	"github.com/pitabwire/frame"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	TxnRefStatusPending   = "pending"
	TxnRefStatusCompleted = "completed"
	TxnRefStatusFailed    = "failed"

	TransactionStatusCompleted = "Completed"
	TransactionStatusFailed    = "Failed"

	TransactionTypePayment    = "Payment"
	CategoryDigitalPayment    = "Digital Payment"
	TransactionLocationOnline = "Online"
)

// Transaction is a ledger entry. Rows are append-only: a row is created once
// a payment attempt reaches a terminal state and is never mutated afterwards.
type Transaction struct {
	frame.BaseModel

	Date        string              `gorm:"type:varchar(20)" json:"date"`
	Time        string              `gorm:"type:varchar(20)" json:"time"`
	Description string              `gorm:"type:varchar(250)" json:"description"`
	Merchant    string              `gorm:"type:varchar(250)" json:"merchant"`
	Amount      decimal.NullDecimal `gorm:"type:numeric" json:"amount"`
	Category    string              `gorm:"type:varchar(50)" json:"category"`
	Type        string              `gorm:"type:varchar(50)" json:"type"`
	Status      string              `gorm:"type:varchar(20)" json:"status"`
	Reference   string              `gorm:"type:varchar(50);index" json:"reference"`
	Location    string              `gorm:"type:varchar(50)" json:"location"`
	Extra       datatypes.JSONMap   `gorm:"index:,type:gin,option:jsonb_path_ops" json:"extra"`
}

// TxnRef is the server-side mirror of a payment reference. It starts out
// pending and is reconciled to completed/failed when the owning attempt
// reaches a terminal state. Abandoned attempts leave the row pending.
type TxnRef struct {
	frame.BaseModel

	Reference string              `gorm:"type:varchar(50);uniqueIndex"`
	Amount    decimal.NullDecimal `gorm:"type:numeric" json:"amount"`
	Status    string              `gorm:"type:varchar(20)"`
	Extra     datatypes.JSONMap   `gorm:"index:,type:gin,option:jsonb_path_ops" json:"extra"`
}

func (model *TxnRef) IsTerminal() bool {
	return model.Status == TxnRefStatusCompleted || model.Status == TxnRefStatusFailed
}

// PaymentIntent records a best-effort deep-link attempt. Logging is advisory
// only; nothing on the payment path reads these rows back.
type PaymentIntent struct {
	frame.BaseModel

	TxnRef      string `gorm:"type:varchar(50);index"`
	UpiID       string `gorm:"type:varchar(250)"`
	Amount      string `gorm:"type:varchar(50)"`
	AppPackage  string `gorm:"type:varchar(250)"`
	AttemptedAt string `gorm:"type:varchar(50)"`
}

// KycDocument tracks an uploaded KYC file on disk.
type KycDocument struct {
	frame.BaseModel

	FileName string `gorm:"type:varchar(250)"`
	FileURL  string `gorm:"type:varchar(250)"`
	MimeType string `gorm:"type:varchar(100)"`
	Size     int64
}

// OtpRecord lives in the OTP store only, never in the database. At most one
// record exists per mobile number; a new send overwrites any prior record.
type OtpRecord struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (r *OtpRecord) Expired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}

type SendOtpRequest struct {
	Mobile string `json:"mobile"`
}

type VerifyOtpRequest struct {
	Mobile string `json:"mobile"`
	Otp    string `json:"otp"`
}

type CreateTransactionRequest struct {
	Amount string `json:"amount"`
}

type LogIntentRequest struct {
	TxnRef      string `json:"txnRef"`
	UpiID       string `json:"upiId"`
	Amount      string `json:"amount"`
	AppPackage  string `json:"appPackage"`
	AttemptedAt string `json:"attemptedAt"`
}

type PayRequest struct {
	MethodID    string `json:"methodId"`
	MethodLabel string `json:"methodLabel"`
	Amount      string `json:"amount"`
	Merchant    string `json:"merchant"`
	// Mobile-class clients get a deep link back, desktop-class ones a notice.
	MobileClient bool `json:"mobileClient"`
}

type CheckoutSessionRequest struct {
	Amount string `json:"amount"`
}

// LedgerReference turns a local attempt reference into the form stored on the
// ledger row: dashes stripped, uppercased.
func LedgerReference(ref string) string {
	return strings.ToUpper(strings.ReplaceAll(ref, "-", ""))
}

package config

import "github.com/pitabwire/frame"

type UniPayConfig struct {
	frame.ConfigurationDefault

	TwilioAccountSID  string `envDefault:"" env:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken   string `envDefault:"" env:"TWILIO_AUTH_TOKEN"`
	TwilioPhoneNumber string `envDefault:"" env:"TWILIO_PHONE_NUMBER"`
	TwilioEnv         string `envDefault:"https://api.twilio.com" env:"TWILIO_ENV"`

	StripeSecretKey string `envDefault:"" env:"STRIPE_SECRET_KEY"`
	StripeEnv       string `envDefault:"https://api.stripe.com" env:"STRIPE_ENV"`
	FrontendURL     string `envDefault:"http://localhost:8080" env:"FRONTEND_URL"`

	RedisHost string `envDefault:"localhost" env:"REDIS_HOST"`
	RedisPort string `envDefault:"6379" env:"REDIS_PORT"`

	// Code stored when the SMS gateway is unreachable or unconfigured.
	DemoOtpCode string `envDefault:"123456" env:"DEMO_OTP_CODE"`

	MerchantVPA  string `envDefault:"unipay-demo@oksbi" env:"MERCHANT_UPI_ID"`
	MerchantName string `envDefault:"UniPay Demo" env:"MERCHANT_NAME"`

	UploadDir string `envDefault:"uploads" env:"UPLOAD_DIR"`

	HTTPServerPort string `envDefault:":5000" env:"HTTP_SERVER_PORT"`
}

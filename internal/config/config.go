package config

import (
	"fmt"
	"github.com/ilyakaznacheev/cleanenv"
	"log"
	"sync"
)

type Listen struct {
	BindIp string `yaml:"bind_ip" env:"LISTEN_BIND_IP" env-default:"0.0.0.0"`
	Port   string `yaml:"port" env:"LISTEN_PORT" env-default:"8080"`
}

type StripeConfig struct {
	APIKey            string `yaml:"api_key" env:"STRIPE_API_KEY" env-default:""`
	WebhookSecret     string `yaml:"webhook_secret" env:"STRIPE_WEBHOOK_SECRET" env-default:""`
	TestKey           string `yaml:"test_key" env:"STRIPE_TEST_KEY" env-default:""`
	TestWebhookSecret string `yaml:"test_webhook_secret" env:"STRIPE_TEST_WEBHOOK_SECRET" env-default:""`
	TestMode          bool   `yaml:"test_mode" env:"STRIPE_TEST_MODE" env-default:"false"`
	SuccessURL        string `yaml:"success_url" env:"STRIPE_SUCCESS_URL" env-default:""`
	CancelURL         string `yaml:"cancel_url" env:"STRIPE_CANCEL_URL" env-default:""`
}

type PricingConfig struct {
	Currency string `yaml:"currency" env:"PRICING_CURRENCY" env-default:"GBP"`
}

type AutomationConfig struct {
	AvailabilityURL    string `yaml:"availability_url" env:"AUTOMATION_AVAILABILITY_URL" env-default:""`
	BookingURL         string `yaml:"booking_url" env:"AUTOMATION_BOOKING_URL" env-default:""`
	UnavailableMessage string `yaml:"unavailable_message" env:"AUTOMATION_UNAVAILABLE_MESSAGE" env-default:""`
}

type TelegramConfig struct {
	Enabled bool   `yaml:"enabled" env:"TELEGRAM_ENABLED" env-default:"false"`
	ApiKey  string `yaml:"api_key" env:"TELEGRAM_API_KEY" env-default:""`
	ChatId  int64  `yaml:"chat_id" env:"TELEGRAM_CHAT_ID" env-default:"0"`
}

type GeoConfig struct {
	PostcodesURL string `yaml:"postcodes_url" env:"GEO_POSTCODES_URL" env-default:"https://api.postcodes.io"`
	OsrmURL      string `yaml:"osrm_url" env:"GEO_OSRM_URL" env-default:"https://router.project-osrm.org"`
	GoogleAPIKey string `yaml:"google_api_key" env:"GEO_GOOGLE_API_KEY" env-default:""`
}

type Config struct {
	Stripe     StripeConfig     `yaml:"stripe"`
	Pricing    PricingConfig    `yaml:"pricing"`
	Automation AutomationConfig `yaml:"automation"`
	Telegram   TelegramConfig   `yaml:"telegram"`
	Geo        GeoConfig        `yaml:"geo"`
	Listen     Listen           `yaml:"listen"`
	Env        string           `yaml:"env" env:"ENV" env-default:"local"`
}

var instance *Config
var once sync.Once

func MustLoad(path string) *Config {
	var err error
	once.Do(func() {
		instance = &Config{}
		if err = cleanenv.ReadConfig(path, instance); err != nil {
			desc, _ := cleanenv.GetDescription(instance, nil)
			err = fmt.Errorf("config: %s; %s", err, desc)
			instance = nil
			log.Fatal(err)
		}
	})
	return instance
}

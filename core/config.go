package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type (
	ServerConfig struct {
		Host            string        `mapstructure:"host"`
		Address         string        `mapstructure:"address"`
		DebugHost       string        `mapstructure:"debughost"`
		ShutdownTimeout time.Duration `mapstructure:"shutdowntimeout"`
		ReadTimeout     time.Duration `mapstructure:"readtimeout"`
		WriteTimeout    time.Duration `mapstructure:"writetimeout"`
		CORSOrigins     []string      `mapstructure:"corsorigins"`
	}

	DatabaseConfig struct {
		Engine  string        `mapstructure:"engine"` // mongo | memory
		URI     string        `mapstructure:"uri"`
		Name    string        `mapstructure:"name"`
		Timeout time.Duration `mapstructure:"timeout"`
	}

	PaymentConfig struct {
		StripeSecretKey string `mapstructure:"stripesecretkey"`
		Currency        string `mapstructure:"currency"`
	}

	Config struct {
		Env                string        `mapstructure:"-"`
		Debug              bool          `mapstructure:"debug"`
		TestMode           bool          `mapstructure:"testmode"`
		AppName            string        `mapstructure:"appname"`
		Build              string        `mapstructure:"build"`
		SecretKey          string        `mapstructure:"secretkey"`
		JWTExpirationDelta time.Duration `mapstructure:"jwtexpirationdelta"`
		DefaultFromEmail   string        `mapstructure:"defaultfromemail"`
		LogLevel           string        `mapstructure:"loglevel"`
		RollbarToken       string        `mapstructure:"rollbartoken"`
		SentryDSN          string        `mapstructure:"sentrydsn"`
		SendgridAPIKey     string        `mapstructure:"sendgridapikey"`

		Server   ServerConfig   `mapstructure:"server"`
		Database DatabaseConfig `mapstructure:"database"`
		Payment  PaymentConfig  `mapstructure:"payment"`
	}
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("debug", false) // DEV turns it on in config/.env.dev
	v.SetDefault("testMode", false)
	v.SetDefault("appName", "Study Platform")
	v.SetDefault("build", "develop")
	v.SetDefault("secretKey", "k7#r2q!vx9=mzp$4w@e8u^t0yb&h6c(n")
	v.SetDefault("jwtExpirationDelta", time.Hour)
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("logLevel", "info")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("sentryDSN", "")
	v.SetDefault("sendgridAPIKey", "")

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.address", ":5000")
	v.SetDefault("server.debugHost", ":4000")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.readTimeout", 5*time.Second)
	v.SetDefault("server.writeTimeout", 10*time.Second)
	v.SetDefault("server.corsOrigins", []string{"http://localhost:5173"})

	v.SetDefault("database.engine", "mongo")
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "studyPlatform")
	v.SetDefault("database.timeout", 10*time.Second)

	v.SetDefault("payment.stripeSecretKey", "")
	v.SetDefault("payment.currency", "usd")
}

// NewConfig loads the application Config from defaults, `config/.env.<env>` and the environment.
// ENV selects the environment (DEV by default; TEST, QA, PROD) and is also the variable prefix,
// e.g. DEV_SERVER_ADDRESS overrides server.address.
func NewConfig() *Config {
	conf, err := LoadConfig(os.Getenv("ENV"), filepath.Join(Getwd(), "config"))
	if err != nil {
		log.Fatalf("core.NewConfig: %v", err)
	}
	return conf
}

// LoadConfig is NewConfig with an explicit environment and .env directory.
func LoadConfig(env, dotEnvDir string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	env = strings.ToUpper(CleanString(env))
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}

	// load .env if it exists (ignore if it does not)
	if dotEnvDir != "" {
		dotEnvPath := filepath.Join(dotEnvDir, ".env."+strings.ToLower(env))
		if _, err := os.Stat(dotEnvPath); err == nil {
			if err := godotenv.Load(dotEnvPath); err != nil {
				return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
			}
		} else if !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "stat %s", dotEnvPath)
		}
	}

	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	conf := new(Config)
	if err := v.Unmarshal(conf); err != nil {
		return nil, errors.Wrap(err, "decoding config")
	}
	conf.Env = env

	// PORT is what most hosting platforms hand out
	if port := os.Getenv("PORT"); port != "" {
		conf.Server.Address = ":" + port
	}
	return conf, nil
}

// DefaultFrom returns DefaultFromEmail as an address, falling back to a bare address with AppName.
func (c *Config) DefaultFrom() mail.Address {
	if addr, err := mail.ParseAddress(c.DefaultFromEmail); err == nil {
		return *addr
	}
	return mail.Address{Name: c.AppName, Address: c.DefaultFromEmail}
}

package config

import (
	"log"

	"github.com/mekha7/mekha-store/internal/models"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Defaults DefaultsConfig
	Site     models.SiteInfo
}

type ServerConfig struct {
	Port               string
	Env                string
	JWTSecret          string `mapstructure:"jwt_secret"`
	JWTExpirationHours int    `mapstructure:"jwt_expiration_hours"`
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	URL      string
}

type DefaultsConfig struct {
	AdminUsername     string `mapstructure:"admin_username"`
	AdminPassword     string `mapstructure:"admin_password"`
	InvoicePrefix     string `mapstructure:"invoice_prefix"`
	LowStockThreshold int    `mapstructure:"low_stock_threshold"`
	CompanyName       string `mapstructure:"company_name"`
	CompanyLogo       string `mapstructure:"company_logo"`
	CompanyAddress    string `mapstructure:"company_address"`
	CompanyPhone      string `mapstructure:"company_phone"`
	CompanyEmail      string `mapstructure:"company_email"`
}

var AppConfig *Config

func LoadConfig() {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, checking environment variables: %v", err)
	}

	// Enable reading from OS environment variables as fallback/override
	viper.AutomaticEnv()

	viper.BindEnv("SERVER_PORT", "PORT") // Fallback to PORT if SERVER_PORT is missing
	viper.BindEnv("DATABASE_URL")

	viper.SetDefault("INVOICE_PREFIX", "MSS")
	viper.SetDefault("LOW_STOCK_THRESHOLD", 5)

	AppConfig = &Config{
		Server: ServerConfig{
			Port:               viper.GetString("SERVER_PORT"),
			Env:                viper.GetString("SERVER_ENV"),
			JWTSecret:          viper.GetString("JWT_SECRET"),
			JWTExpirationHours: viper.GetInt("JWT_EXPIRATION_HOURS"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Name:     viper.GetString("DB_NAME"),
			URL:      viper.GetString("DATABASE_URL"),
		},
		Defaults: DefaultsConfig{
			AdminUsername:     viper.GetString("ADMIN_USERNAME"),
			AdminPassword:     viper.GetString("ADMIN_PASSWORD"),
			InvoicePrefix:     viper.GetString("INVOICE_PREFIX"),
			LowStockThreshold: viper.GetInt("LOW_STOCK_THRESHOLD"),
			CompanyName:       viper.GetString("COMPANY_NAME"),
			CompanyLogo:       viper.GetString("COMPANY_LOGO"),
			CompanyAddress:    viper.GetString("COMPANY_ADDRESS"),
			CompanyPhone:      viper.GetString("COMPANY_PHONE"),
			CompanyEmail:      viper.GetString("COMPANY_EMAIL"),
		},
	}

	// Load TOML config for the public site info block
	siteViper := viper.New()
	siteViper.SetConfigFile("config/config.toml")
	siteViper.SetConfigType("toml")
	if err := siteViper.ReadInConfig(); err != nil {
		log.Printf("Warning: config/config.toml not found, using empty site info: %v", err)
	} else {
		if err := siteViper.UnmarshalKey("site", &AppConfig.Site); err != nil {
			log.Printf("Error: Failed to unmarshal site info from TOML: %v", err)
		}
	}

	log.Printf("Configuration loaded:")
	log.Printf("- Server Port: %s", AppConfig.Server.Port)
	log.Printf("- Server Env: %s", AppConfig.Server.Env)
	log.Printf("- Database Name: %s", AppConfig.Database.Name)
	log.Printf("- Invoice Prefix: %s", AppConfig.Defaults.InvoicePrefix)
	log.Printf("- Company Name: %s", AppConfig.Defaults.CompanyName)
}

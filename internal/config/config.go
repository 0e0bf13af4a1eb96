package config

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const EnvPrefix = "CREDREG"

var (
	ErrInvalidPort     = errors.New("port must be between 1 and 65535")
	ErrInvalidTokenTTL = errors.New("token_ttl must be positive")
	ErrInvalidAdmin    = errors.New("admins entries must be name:password")
)

type MySQLConfig struct {
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
}

// DSN returns the go-sql-driver/mysql data source name without a database.
func (c MySQLConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/", c.User, c.Password, c.Host, c.Port)
}

type Config struct {
	Port          int           `mapstructure:"port"`
	TokenTTL      time.Duration `mapstructure:"token_ttl"`
	Hasher        string        `mapstructure:"hasher"`
	BcryptCost    int           `mapstructure:"bcrypt_cost"`
	Admins        []string      `mapstructure:"admins"`
	PrivateKeyEnv string        `mapstructure:"private_key_env"`
	PublicKeyEnv  string        `mapstructure:"public_key_env"`
	PolicyFile    string        `mapstructure:"policy_file"`
	MySQL         MySQLConfig   `mapstructure:"mysql"`

	// AdminAccounts maps each admin name to its password, parsed from Admins.
	AdminAccounts map[string]string `mapstructure:"-"`
}

// AdminNames returns the configured admin usernames in sorted order.
func (c *Config) AdminNames() []string {
	return slices.Sorted(maps.Keys(c.AdminAccounts))
}

func defaults() map[string]any {
	return map[string]any{
		"port":            8080,
		"token_ttl":       time.Hour,
		"hasher":          "plaintext",
		"bcrypt_cost":     10,
		"admins":          []string{},
		"private_key_env": "PRIVATE_KEY_BASE64",
		"public_key_env":  "PUBLIC_KEY_BASE64",
		"policy_file":     "",
		"mysql.user":      "",
		"mysql.password":  "",
		"mysql.host":      "localhost",
		"mysql.port":      "3306",
	}
}

// Load builds the configuration from defaults, an optional YAML file,
// CREDREG_* environment variables and command line flags, in increasing precedence.
func Load(flags *pflag.FlagSet, configFile string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults() {
		v.SetDefault(key, value)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", err)
		}
	}

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: %d", ErrInvalidPort, c.Port)
	}

	if c.TokenTTL <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidTokenTTL, c.TokenTTL)
	}

	accounts, err := parseAdmins(c.Admins)
	if err != nil {
		return err
	}

	c.AdminAccounts = accounts
	return nil
}

// parseAdmins splits "name:password" entries. The password may itself contain colons.
func parseAdmins(entries []string) (map[string]string, error) {
	accounts := make(map[string]string, len(entries))
	for _, entry := range entries {
		name, password, ok := strings.Cut(entry, ":")
		if !ok || name == "" || password == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidAdmin, name)
		}

		if _, dup := accounts[name]; dup {
			return nil, fmt.Errorf("%w: %q listed twice", ErrInvalidAdmin, name)
		}

		accounts[name] = password
	}

	return accounts, nil
}

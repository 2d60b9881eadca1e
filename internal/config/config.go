package config

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

type Config struct {
	ListenPort int    `toml:"port"`
	BaseURL    string `toml:"base_url"`

	API struct {
		// Where the listings backend (and its /auth endpoints) live
		BaseURL string `toml:"base_url"`
		// Seconds before an outbound call is abandoned
		Timeout int `toml:"timeout"`
	} `toml:"api"`

	Session struct {
		// Seconds a flash message survives if it's never displayed
		FlashLifetime int `toml:"flash_lifetime"`

		Cookie struct {
			// The backend's session cookie. We only ever check for its presence and pass it along
			Name   string `toml:"name"`
			Secret string `toml:"secret"`
			Secure bool   `toml:"secure"`
		} `toml:"cookie"`
	} `toml:"session"`

	Guard struct {
		ProtectedPrefixes []string `toml:"protected_prefixes"`
		LoginPath         string   `toml:"login_path"`
	} `toml:"guard"`
}

// TOML marshaller doesn't override fields that weren't set in the TOML, so we can apply defaults here
func (c *Config) setDefaults() {
	c.ListenPort = 3000

	c.API.BaseURL = "http://localhost:8080"
	c.API.Timeout = 10

	c.Session.FlashLifetime = 60
	c.Session.Cookie.Name = "JSESSIONID"
	c.Session.Cookie.Secure = true

	c.Guard.ProtectedPrefixes = []string{"/usuarios", "/bairros", "/tipos-imoveis", "/imoveis", "/dashboard"}
	c.Guard.LoginPath = "/login"
}

func (c *Config) APITimeout() time.Duration {
	return time.Duration(c.API.Timeout) * time.Second
}

func (c *Config) FlashLifetime() time.Duration {
	return time.Duration(c.Session.FlashLifetime) * time.Second
}

// Default returns a config with every default applied and a random cookie secret. Handy for tests and local runs
func Default() *Config {
	conf := new(Config)
	conf.setDefaults()
	if err := conf.validate(); err != nil {
		panic(err)
	}
	return conf
}

func LoadFromTomlFileAndValidate(filepath string) (*Config, error) {
	file, err := os.ReadFile(filepath)
	if err != nil {
		return nil, err
	}

	return LoadFromTomlAndValidate(file)
}

func LoadFromTomlAndValidate(data []byte) (*Config, error) {
	conf := new(Config)
	conf.setDefaults()

	err := toml.Unmarshal(data, conf)
	if err != nil {
		return nil, err
	}

	if err := conf.validate(); err != nil {
		return nil, err
	}

	return conf, nil
}

func (c *Config) validate() error {
	c.API.BaseURL = strings.TrimSuffix(c.API.BaseURL, "/")
	if c.API.BaseURL == "" {
		return errors.New("please supply api.base_url")
	}

	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive, got %d", c.API.Timeout)
	}

	if c.Session.Cookie.Name == "" {
		return errors.New("session.cookie.name can't be empty")
	}

	if c.Session.FlashLifetime <= 0 {
		return fmt.Errorf("session.flash_lifetime must be positive, got %d", c.Session.FlashLifetime)
	}

	if len(c.Session.Cookie.Secret) == 0 {
		log.Printf("No cookie secret was provided, randomly generating one...")
		buff := make([]byte, 16)
		_, err := rand.Read(buff)
		if err != nil {
			return fmt.Errorf("failed to generate random cookie secret: %w", err)
		}

		c.Session.Cookie.Secret = base64.RawStdEncoding.EncodeToString(buff)
		log.Printf("Note: because your cookie secret was randomly generated, pending flash messages are lost when imob-admin restarts.")
	} else if len(c.Session.Cookie.Secret) < 16 {
		return errors.New("your session.cookie.secret was less than 16 characters. Please supply a long, random secret")
	}

	if !strings.HasPrefix(c.Guard.LoginPath, "/") {
		return fmt.Errorf("guard.login_path must be an absolute path, got %q", c.Guard.LoginPath)
	}

	for _, prefix := range c.Guard.ProtectedPrefixes {
		if !strings.HasPrefix(prefix, "/") || prefix == "/" {
			return fmt.Errorf("invalid protected prefix %q: must be an absolute path other than /", prefix)
		}
		if prefix == c.Guard.LoginPath {
			return fmt.Errorf("the login path %s can't also be protected, nobody would be able to login", prefix)
		}
	}

	return nil
}

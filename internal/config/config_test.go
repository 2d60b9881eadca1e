package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	conf, err := LoadFromTomlAndValidate([]byte(``))
	require.NoError(t, err)

	assert.Equal(t, 3000, conf.ListenPort)
	assert.Equal(t, "http://localhost:8080", conf.API.BaseURL)
	assert.Equal(t, 10*time.Second, conf.APITimeout())
	assert.Equal(t, "JSESSIONID", conf.Session.Cookie.Name)
	assert.Equal(t, "/login", conf.Guard.LoginPath)
	assert.ElementsMatch(t, []string{"/usuarios", "/bairros", "/tipos-imoveis", "/imoveis", "/dashboard"}, conf.Guard.ProtectedPrefixes)

	// A secret gets generated when none is supplied
	assert.NotEmpty(t, conf.Session.Cookie.Secret)
}

func TestOverrides(t *testing.T) {
	conf, err := LoadFromTomlAndValidate([]byte(`
port = 4000

[api]
base_url = "https://api.example.com/"
timeout = 3

[session.cookie]
name = "SESSION"
secret = "0123456789abcdef0123"

[guard]
protected_prefixes = ["/admin"]
login_path = "/entrar"
`))
	require.NoError(t, err)

	assert.Equal(t, 4000, conf.ListenPort)
	assert.Equal(t, "https://api.example.com", conf.API.BaseURL)
	assert.Equal(t, 3*time.Second, conf.APITimeout())
	assert.Equal(t, "SESSION", conf.Session.Cookie.Name)
	assert.Equal(t, "0123456789abcdef0123", conf.Session.Cookie.Secret)
	assert.Equal(t, []string{"/admin"}, conf.Guard.ProtectedPrefixes)
	assert.Equal(t, "/entrar", conf.Guard.LoginPath)
}

func TestValidationFailures(t *testing.T) {
	cases := map[string]string{
		"short secret":       "[session.cookie]\nsecret = \"short\"",
		"empty cookie name":  "[session.cookie]\nname = \"\"",
		"zero timeout":       "[api]\ntimeout = 0",
		"relative login":     "[guard]\nlogin_path = \"login\"",
		"root prefix":        "[guard]\nprotected_prefixes = [\"/\"]",
		"login is protected": "[guard]\nprotected_prefixes = [\"/login\"]",
		"malformed toml":     "port = ",
	}

	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadFromTomlAndValidate([]byte(doc))
			assert.Error(t, err)
		})
	}
}

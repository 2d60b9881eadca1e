package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	jwt "github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

const FlashCookieName = "_imob_flash"

var jwtSigningMethod = jwt.SigningMethodHS256

var ErrInvalidFlash = errors.New("flash token was invalid")

type FlashKind string

const (
	FlashSuccess FlashKind = "success"
	FlashError   FlashKind = "error"
	FlashWarning FlashKind = "warning"
)

// Flash is a one-shot message carried across a redirect
type Flash struct {
	Kind    FlashKind `json:"kind"`
	Message string    `json:"message"`
}

// Aliasing it so we can use it in the struct literal for composition
type jwtRegisteredClaims = jwt.RegisteredClaims

type flashClaims struct {
	Flash
	jwtRegisteredClaims
}

// FlashHandler signs flashes into a short-lived cookie so they can't be forged into the page
type FlashHandler struct {
	Secret       []byte
	CookieSecure bool
	Lifetime     time.Duration
}

func (f *FlashHandler) Set(c echo.Context, flash Flash) error {
	expiry := time.Now().Add(f.Lifetime)

	token := jwt.NewWithClaims(jwtSigningMethod, &flashClaims{
		Flash: flash,
		jwtRegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiry),
		},
	})

	signed, err := token.SignedString(f.Secret)
	if err != nil {
		return fmt.Errorf("couldn't sign flash JWT: %w", err)
	}

	c.SetCookie(&http.Cookie{
		Name:     FlashCookieName,
		Value:    signed,
		Path:     "/",
		Secure:   f.CookieSecure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  expiry,
	})

	return nil
}

// Pop returns the pending flash, if any, and expires its cookie. No cookie at all gives (nil, nil).
func (f *FlashHandler) Pop(c echo.Context) (*Flash, error) {
	cookie, err := c.Cookie(FlashCookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}

	c.SetCookie(&http.Cookie{
		Name:    FlashCookieName,
		Value:   "",
		Path:    "/",
		Expires: time.Unix(0, 0),
		MaxAge:  -1,
	})

	decoder := jwt.NewParser(jwt.WithValidMethods([]string{jwtSigningMethod.Alg()}))

	claims := new(flashClaims)
	token, err := decoder.ParseWithClaims(cookie.Value, claims, func(token *jwt.Token) (interface{}, error) {
		return f.Secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidFlash
	}

	return &claims.Flash, nil
}

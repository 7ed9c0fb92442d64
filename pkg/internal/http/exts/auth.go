package exts

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"git.solsynth.dev/hypernet/chronicle/pkg/internal/models"
	"git.solsynth.dev/hypernet/chronicle/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	SessionCookieName = "session_token"
	DefaultLoginURL   = "/auth/login"
)

// SessionClaims is issued by the identity provider, the subject is the account id.
type SessionClaims struct {
	Name string `json:"name"`
	Nick string `json:"nick"`

	jwt.RegisteredClaims
}

func (v SessionClaims) AccountID() (uint, error) {
	id, err := strconv.ParseUint(v.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid subject %q", v.Subject)
	}
	return uint(id), nil
}

func ParseToken(secret []byte, token string) (SessionClaims, error) {
	var claims SessionClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return claims, err
	}
	return claims, nil
}

func SignSessionToken(secret []byte, account models.Account, ttl time.Duration) (string, error) {
	claims := SessionClaims{
		Name: account.Name,
		Nick: account.Nick,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(account.ID), 10),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func tokenFromRequest(c *fiber.Ctx) string {
	if header := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return c.Cookies(SessionCookieName)
}

// ContextMiddleware attaches the account of a valid session token to the request.
// Requests without a usable token simply stay anonymous.
func ContextMiddleware(secret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := tokenFromRequest(c)
		if len(token) == 0 || len(secret) == 0 {
			return c.Next()
		}

		claims, err := ParseToken(secret, token)
		if err != nil {
			log.Debug().Err(err).Msg("Ignored invalid session token.")
			return c.Next()
		}
		id, err := claims.AccountID()
		if err != nil {
			log.Debug().Err(err).Msg("Ignored session token without account.")
			return c.Next()
		}
		if len(strings.TrimSpace(claims.Name)) == 0 {
			log.Debug().Uint("account", id).Msg("Ignored session token without account name.")
			return c.Next()
		}

		account, err := services.EnsureAccount(id, claims.Name, claims.Nick)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}

		c.Locals("user", account)
		return c.Next()
	}
}

func GetAccount(c *fiber.Ctx) *models.Account {
	if user, ok := c.Locals("user").(models.Account); ok {
		return &user
	}
	return nil
}

func GetLoginURL() string {
	if target := viper.GetString("security.login_url"); len(target) > 0 {
		return target
	}
	return DefaultLoginURL
}

// RedirectToLogin sends the visitor to the login page and back here afterwards.
func RedirectToLogin(c *fiber.Ctx) error {
	target := fmt.Sprintf("%s?next=%s", GetLoginURL(), url.QueryEscape(c.OriginalURL()))
	return c.Redirect(target, fiber.StatusFound)
}

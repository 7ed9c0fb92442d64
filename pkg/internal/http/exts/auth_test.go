package exts

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"git.solsynth.dev/hypernet/chronicle/pkg/internal/database"
	"git.solsynth.dev/hypernet/chronicle/pkg/internal/models"
	"git.solsynth.dev/hypernet/chronicle/pkg/internal/services"
	"git.solsynth.dev/hypernet/chronicle/pkg/internal/testutils"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("not-so-secret")

func newTestApp() *fiber.App {
	app := fiber.New()
	app.Use(ContextMiddleware(testSecret))
	app.Get("/whoami", func(c *fiber.Ctx) error {
		if user := GetAccount(c); user != nil {
			return c.SendString(user.Name)
		}
		return c.SendString("anonymous")
	})
	app.Get("/private", func(c *fiber.Ctx) error {
		if GetAccount(c) == nil {
			return RedirectToLogin(c)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func whoami(t *testing.T, app *fiber.App, bearer, cookie string) string {
	t.Helper()

	req := httptest.NewRequest("GET", "/whoami", nil)
	if len(bearer) > 0 {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+bearer)
	}
	if len(cookie) > 0 {
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: cookie})
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestContextMiddleware(t *testing.T) {
	testutils.CreateTempDB(t)
	app := newTestApp()

	token, err := SignSessionToken(testSecret, models.Account{BaseModel: models.BaseModel{ID: 7}, Name: "leo", Nick: "Leo"}, time.Hour)
	require.NoError(t, err)

	assert.Equal(t, "anonymous", whoami(t, app, "", ""))
	assert.Equal(t, "leo", whoami(t, app, token, ""))
	assert.Equal(t, "leo", whoami(t, app, "", token))

	forged, err := SignSessionToken([]byte("another-secret"), models.Account{BaseModel: models.BaseModel{ID: 8}, Name: "eve"}, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "anonymous", whoami(t, app, forged, ""))

	expired, err := SignSessionToken(testSecret, models.Account{BaseModel: models.BaseModel{ID: 7}, Name: "leo"}, -time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "anonymous", whoami(t, app, expired, ""))

	assert.EqualValues(t, 1, testutils.CountRows(t, &models.Account{}))
}

func TestContextMiddlewareNameTakenOver(t *testing.T) {
	testutils.CreateTempDB(t)
	app := newTestApp()

	previous := testutils.CreateAccount(t, "leo")
	require.NotEqual(t, uint(7), previous.ID)

	token, err := SignSessionToken(testSecret, models.Account{BaseModel: models.BaseModel{ID: 7}, Name: "leo", Nick: "Leo"}, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "leo", whoami(t, app, token, ""))

	current, err := services.GetAccountByName("leo")
	require.NoError(t, err)
	assert.EqualValues(t, 7, current.ID)

	var released models.Account
	require.NoError(t, database.C.First(&released, previous.ID).Error)
	assert.Equal(t, services.GetStaleAccountName(previous.ID), released.Name)

	// The previous holder takes a new name on its next visit
	again, err := SignSessionToken(testSecret, models.Account{BaseModel: models.BaseModel{ID: previous.ID}, Name: "leonard"}, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "leonard", whoami(t, app, again, ""))
	assert.EqualValues(t, 2, testutils.CountRows(t, &models.Account{}))
}

func TestContextMiddlewareEmptyName(t *testing.T) {
	testutils.CreateTempDB(t)
	app := newTestApp()

	for _, name := range []string{"", "   "} {
		token, err := SignSessionToken(testSecret, models.Account{BaseModel: models.BaseModel{ID: 9}, Name: name}, time.Hour)
		require.NoError(t, err)
		assert.Equal(t, "anonymous", whoami(t, app, token, ""))
	}
	assert.EqualValues(t, 0, testutils.CountRows(t, &models.Account{}))
}

func TestRedirectToLogin(t *testing.T) {
	testutils.CreateTempDB(t)
	app := newTestApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/private?page=2", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/auth/login?next=%2Fprivate%3Fpage%3D2", resp.Header.Get(fiber.HeaderLocation))
}

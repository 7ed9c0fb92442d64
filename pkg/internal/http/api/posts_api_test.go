package api

import (
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"git.solsynth.dev/hypernet/chronicle/pkg/internal/models"
	"git.solsynth.dev/hypernet/chronicle/pkg/internal/services"
	"git.solsynth.dev/hypernet/chronicle/pkg/internal/testutils"
	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp() *fiber.App {
	app := fiber.New(fiber.Config{
		JSONEncoder: jsoniter.ConfigCompatibleWithStandardLibrary.Marshal,
		JSONDecoder: jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal,
	})
	MapAPIs(app, "/api")
	return app
}

func getJSON(t *testing.T, app *fiber.App, path string, out any) int {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest("GET", path, nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	if resp.StatusCode == fiber.StatusOK {
		require.NoError(t, jsoniter.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestListPost(t *testing.T) {
	testutils.CreateTempDB(t)
	app := newTestApp()
	leo := testutils.CreateAccount(t, "leo")
	mia := testutils.CreateAccount(t, "mia")
	cats := testutils.CreateGroup(t, "cats")
	now := time.Now()
	testutils.CreatePost(t, leo, &cats, "oldest", now.Add(-3*time.Minute))
	testutils.CreatePost(t, mia, nil, "middle", now.Add(-2*time.Minute))
	testutils.CreatePost(t, leo, nil, "newest", now.Add(-time.Minute))

	var out struct {
		Count int64         `json:"count"`
		Data  []models.Post `json:"data"`
	}

	require.Equal(t, fiber.StatusOK, getJSON(t, app, "/api/posts?take=2", &out))
	assert.EqualValues(t, 3, out.Count)
	require.Len(t, out.Data, 2)
	assert.Equal(t, "newest", out.Data[0].Text)
	assert.Equal(t, "leo", out.Data[0].Author.Name)

	require.Equal(t, fiber.StatusOK, getJSON(t, app, "/api/posts?author=leo&offset=1", &out))
	assert.EqualValues(t, 2, out.Count)
	require.Len(t, out.Data, 1)
	assert.Equal(t, "oldest", out.Data[0].Text)

	require.Equal(t, fiber.StatusOK, getJSON(t, app, "/api/posts?group=cats", &out))
	assert.EqualValues(t, 1, out.Count)

	assert.Equal(t, fiber.StatusNotFound, getJSON(t, app, "/api/posts?author=nobody", &out))
	assert.Equal(t, fiber.StatusBadRequest, getJSON(t, app, "/api/posts?take=-1", &out))
}

func TestGetPost(t *testing.T) {
	testutils.CreateTempDB(t)
	app := newTestApp()
	leo := testutils.CreateAccount(t, "leo")
	post := testutils.CreatePost(t, leo, nil, "hello", time.Now())
	_, err := services.NewComment(leo, post, models.Comment{Text: "self reply"})
	require.NoError(t, err)

	var out struct {
		models.Post
		Comments []models.Comment `json:"comments"`
	}
	require.Equal(t, fiber.StatusOK, getJSON(t, app, fmt.Sprintf("/api/posts/%d", post.ID), &out))
	assert.Equal(t, "hello", out.Text)
	require.Len(t, out.Comments, 1)
	assert.Equal(t, "self reply", out.Comments[0].Text)

	assert.Equal(t, fiber.StatusNotFound, getJSON(t, app, "/api/posts/999", &out))
}

func TestListGroup(t *testing.T) {
	testutils.CreateTempDB(t)
	app := newTestApp()
	testutils.CreateGroup(t, "zebras")
	testutils.CreateGroup(t, "cats")

	var out []models.Group
	require.Equal(t, fiber.StatusOK, getJSON(t, app, "/api/groups", &out))
	require.Len(t, out, 2)
	assert.Equal(t, "cats", out[0].Slug)
}

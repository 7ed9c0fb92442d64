package services

import (
	"strconv"
	"testing"

	"git.solsynth.dev/hypernet/chronicle/pkg/internal/models"
	"git.solsynth.dev/hypernet/chronicle/pkg/internal/testutils"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostCreateFormValidate(t *testing.T) {
	testutils.CreateTempDB(t)
	cats := testutils.CreateGroup(t, "cats")

	form := PostCreateForm{Text: "   "}
	assert.False(t, form.Validate())
	assert.True(t, form.Errors.Has("text"))

	form = PostCreateForm{Text: "hello", Group: "cats"}
	assert.False(t, form.Validate())
	assert.True(t, form.Errors.Has("group"))

	form = PostCreateForm{Text: "hello", Group: "999"}
	assert.False(t, form.Validate())
	assert.True(t, form.Errors.Has("group"))

	form = PostCreateForm{Text: "  hello  ", Group: strconv.Itoa(int(cats.ID))}
	require.True(t, form.Validate())
	post := form.Save(models.Post{})
	assert.Equal(t, "hello", post.Text)
	require.NotNil(t, post.GroupID)
	assert.Equal(t, cats.ID, *post.GroupID)

	// Dropping the group on edit
	form = PostCreateForm{Text: "hello"}
	require.True(t, form.Validate())
	post = form.Save(post)
	assert.Nil(t, post.GroupID)
	assert.Nil(t, post.Group)
}

func TestPostCreateFormImage(t *testing.T) {
	testutils.CreateTempDB(t)
	t.Cleanup(viper.Reset)

	form := PostCreateForm{Text: "hello", Image: testutils.FileHeader(t, "pixel.gif", testutils.TinyGIF)}
	require.True(t, form.Validate())
	assert.Equal(t, ".gif", form.ImageExtension())

	form = PostCreateForm{Text: "hello", Image: testutils.FileHeader(t, "notes.gif", []byte("just some text"))}
	assert.False(t, form.Validate())
	assert.True(t, form.Errors.Has("image"))

	viper.Set("media.max_size", 8)
	form = PostCreateForm{Text: "hello", Image: testutils.FileHeader(t, "pixel.gif", testutils.TinyGIF)}
	assert.False(t, form.Validate())
	assert.True(t, form.Errors.Has("image"))
}

func TestPostFormFromPost(t *testing.T) {
	group := uint(7)
	form := PostFormFromPost(models.Post{Text: "hello", GroupID: &group})
	assert.Equal(t, "hello", form.Text)
	assert.Equal(t, "7", form.Group)
	assert.False(t, form.ShouldClearImage())

	form.ImageClear = "on"
	assert.True(t, form.ShouldClearImage())
}

func TestCommentForm(t *testing.T) {
	form := CommentForm{Text: "\n\t "}
	assert.False(t, form.Validate())
	assert.True(t, form.Errors.Has("text"))

	form = CommentForm{Text: " nice post "}
	require.True(t, form.Validate())
	comment := form.Save(models.Comment{})
	assert.Equal(t, "nice post", comment.Text)
}

package testutils

import (
	"fmt"
	"testing"
	"time"

	"git.solsynth.dev/hypernet/chronicle/pkg/internal/database"
	"git.solsynth.dev/hypernet/chronicle/pkg/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/clause"
)

func CreateAccount(t *testing.T, name string) models.Account {
	t.Helper()

	account := models.Account{Name: name, Nick: name}
	require.NoError(t, database.C.Create(&account).Error)
	return account
}

func CreateGroup(t *testing.T, slug string) models.Group {
	t.Helper()

	group := models.Group{
		Title:       fmt.Sprintf("Group %s", slug),
		Slug:        slug,
		Description: fmt.Sprintf("Everything about %s", slug),
	}
	require.NoError(t, database.C.Create(&group).Error)
	return group
}

// CreatePost inserts a post directly, published at the given time so ordering is deterministic.
func CreatePost(t *testing.T, author models.Account, group *models.Group, text string, publishedAt time.Time) models.Post {
	t.Helper()

	post := models.Post{
		Text:        text,
		Language:    "en",
		PublishedAt: publishedAt,
		AuthorID:    author.ID,
	}
	if group != nil {
		post.GroupID = &group.ID
	}
	require.NoError(t, database.C.Omit(clause.Associations).Create(&post).Error)

	post.Author = author
	post.Group = group
	return post
}

func CountRows(t *testing.T, model any) int64 {
	t.Helper()

	var count int64
	require.NoError(t, database.C.Model(model).Count(&count).Error)
	return count
}

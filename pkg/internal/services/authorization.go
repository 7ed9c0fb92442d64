package services

import "git.solsynth.dev/hypernet/chronicle/pkg/internal/models"

// CanEditPost reports whether the user may change the post. Only the author can.
func CanEditPost(user *models.Account, post models.Post) bool {
	if user == nil {
		return false
	}
	return user.ID == post.AuthorID
}

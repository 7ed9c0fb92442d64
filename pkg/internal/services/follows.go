package services

import (
	"errors"
	"fmt"

	"git.solsynth.dev/hypernet/chronicle/pkg/internal/database"
	"git.solsynth.dev/hypernet/chronicle/pkg/internal/models"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func GetFollow(user models.Account, target models.Account) (*models.Follow, error) {
	var follow models.Follow
	if err := database.C.Where("follower_id = ? AND author_id = ?", user.ID, target.ID).First(&follow).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("unable to get follow: %v", err)
	}
	return &follow, nil
}

func IsFollowing(user *models.Account, target models.Account) bool {
	if user == nil {
		return false
	}
	follow, err := GetFollow(*user, target)
	if err != nil {
		log.Warn().Err(err).Uint("user", user.ID).Uint("target", target.ID).Msg("Unable to check follow state...")
		return false
	}
	return follow != nil
}

// FollowAccount is idempotent. Following an account twice, even from two
// racing requests, leaves a single row behind. It does not reject following
// yourself, callers decide that.
func FollowAccount(user models.Account, target models.Account) error {
	follow := models.Follow{
		FollowerID: user.ID,
		AuthorID:   target.ID,
	}

	tx := database.C.
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&follow)
	if tx.Error != nil {
		return fmt.Errorf("unable to follow account: %v", tx.Error)
	}

	if tx.RowsAffected > 0 {
		log.Debug().Uint("user", user.ID).Uint("target", target.ID).Msg("Account followed.")
	}
	return nil
}

func UnfollowAccount(user models.Account, target models.Account) error {
	if err := database.C.
		Where("follower_id = ? AND author_id = ?", user.ID, target.ID).
		Delete(&models.Follow{}).Error; err != nil {
		return fmt.Errorf("unable to unfollow account: %v", err)
	}
	return nil
}

func CountFollowers(target models.Account) (int64, error) {
	var count int64
	err := database.C.Model(&models.Follow{}).Where("author_id = ?", target.ID).Count(&count).Error
	return count, err
}

func CountFollowing(user models.Account) (int64, error) {
	var count int64
	err := database.C.Model(&models.Follow{}).Where("follower_id = ?", user.ID).Count(&count).Error
	return count, err
}

package services

import (
	"fmt"
	"strings"

	"git.solsynth.dev/hypernet/chronicle/pkg/internal/database"
	"git.solsynth.dev/hypernet/chronicle/pkg/internal/models"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func GetAccountByName(name string) (models.Account, error) {
	var account models.Account
	if err := database.C.Where("name = ?", name).First(&account).Error; err != nil {
		return account, err
	}
	return account, nil
}

// GetStaleAccountName is the placeholder given to a mirror whose name was
// taken over by another account. It is replaced on that account's next sync.
func GetStaleAccountName(id uint) string {
	return fmt.Sprintf("#stale-%d", id)
}

// EnsureAccount mirrors an account issued by the identity provider.
// The id is kept as given, name and nick follow the latest token.
func EnsureAccount(id uint, name, nick string) (models.Account, error) {
	account := models.Account{
		BaseModel: models.BaseModel{ID: id},
		Name:      name,
		Nick:      nick,
	}
	if len(strings.TrimSpace(name)) == 0 {
		return account, fmt.Errorf("unable to sync account: name cannot be empty")
	}

	err := database.C.Transaction(func(tx *gorm.DB) error {
		// Names move between accounts when users rename at the provider
		var stale []models.Account
		if err := tx.Where("name = ? AND id <> ?", name, id).Find(&stale).Error; err != nil {
			return err
		}
		for _, item := range stale {
			if err := tx.Model(&item).Update("name", GetStaleAccountName(item.ID)).Error; err != nil {
				return err
			}
			log.Info().Uint("account", item.ID).Str("name", name).Msg("Released account name taken by another account.")
		}

		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "nick", "updated_at"}),
		}).Create(&account).Error
	})
	if err != nil {
		return account, fmt.Errorf("unable to sync account: %v", err)
	}

	log.Trace().Uint("account", id).Str("name", name).Msg("Account synced from token.")
	return account, nil
}

func CountAccountPosts(account models.Account) (int64, error) {
	return CountPost(FilterPostWithAuthor(database.C, account.ID))
}

package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"git.solsynth.dev/hypernet/chronicle/pkg/internal/database"
	"git.solsynth.dev/hypernet/chronicle/pkg/internal/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

const (
	postImageArea = "posts"

	// Uploads younger than this may belong to a post that is still being saved
	orphanGracePeriod = time.Hour
)

// MediaStore keeps uploaded files on the local disk. Names handed out are
// relative to the root and use forward slashes.
type MediaStore struct {
	root string
}

func NewMediaStore(root string) *MediaStore {
	return &MediaStore{root: root}
}

func NewMediaStoreFromConfig() *MediaStore {
	root := viper.GetString("media.dir")
	if len(root) == 0 {
		root = "./uploads"
	}
	return NewMediaStore(root)
}

func (v *MediaStore) Root() string {
	return v.root
}

func (v *MediaStore) resolve(name string) (string, error) {
	cleaned := filepath.ToSlash(filepath.Clean("/" + name))[1:]
	if !strings.HasPrefix(cleaned, postImageArea+"/") {
		return "", fmt.Errorf("media %q is outside of the managed area", name)
	}
	return filepath.Join(v.root, filepath.FromSlash(cleaned)), nil
}

func (v *MediaStore) SaveImage(header *multipart.FileHeader, ext string) (string, error) {
	dir := filepath.Join(v.root, postImageArea)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("unable to create media directory: %v", err)
	}

	src, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("unable to open uploaded file: %v", err)
	}
	defer src.Close()

	name := postImageArea + "/" + uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(v.root, filepath.FromSlash(name)))
	if err != nil {
		return "", fmt.Errorf("unable to create media file: %v", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("unable to write media file: %v", err)
	}

	log.Debug().Str("media", name).Int64("size", header.Size).Msg("Stored uploaded image.")
	return name, nil
}

// Remove deletes the file, a file that is already gone is not an error.
func (v *MediaStore) Remove(name string) error {
	path, err := v.resolve(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("unable to remove media file: %v", err)
	}
	return nil
}

// CleanupOrphans removes stored images older than the given age that no post refers to.
func (v *MediaStore) CleanupOrphans(olderThan time.Duration) (int, error) {
	entries, err := os.ReadDir(filepath.Join(v.root, postImageArea))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("unable to list media files: %v", err)
	}

	cutoff := time.Now().Add(-olderThan)
	candidates := lo.FilterMap(entries, func(item os.DirEntry, _ int) (string, bool) {
		if item.IsDir() {
			return "", false
		}
		info, err := item.Info()
		if err != nil || info.ModTime().After(cutoff) {
			return "", false
		}
		return postImageArea + "/" + item.Name(), true
	})
	if len(candidates) == 0 {
		return 0, nil
	}

	var used []string
	if err := database.C.Model(&models.Post{}).
		Where("image IN ?", candidates).
		Pluck("image", &used).Error; err != nil {
		return 0, fmt.Errorf("unable to check media references: %v", err)
	}

	var removed int
	for _, name := range lo.Without(candidates, used...) {
		if err := v.Remove(name); err != nil {
			log.Warn().Err(err).Str("media", name).Msg("Unable to remove orphan media...")
			continue
		}
		removed++
	}

	return removed, nil
}

func (v *MediaStore) DoAutoCleanup() {
	log.Debug().Time("now", time.Now()).Msg("Now cleaning up orphan media...")

	count, err := v.CleanupOrphans(orphanGracePeriod)
	if err != nil {
		log.Error().Err(err).Msg("An error occurred when cleaning up orphan media...")
		return
	}

	log.Debug().Int("count", count).Msg("Clean up orphan media has been done.")
}

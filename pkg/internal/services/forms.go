package services

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"git.solsynth.dev/hypernet/chronicle/pkg/internal/models"
	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"github.com/spf13/viper"
	"gorm.io/gorm"
)

const DefaultMaxImageSize = 5 << 20

var validation = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// FormErrors collects messages per field, the empty key holds form wide errors.
type FormErrors map[string][]string

func (v FormErrors) Add(field, message string) {
	v[field] = append(v[field], message)
}

func (v FormErrors) Get(field string) []string {
	return v[field]
}

func (v FormErrors) Has(field string) bool {
	return len(v[field]) > 0
}

func (v FormErrors) Any() bool {
	return len(v) > 0
}

func collectValidationErrors(errs FormErrors, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs.Add("", err.Error())
		return
	}
	for _, item := range verrs {
		switch item.Tag() {
		case "required":
			errs.Add(item.Field(), "This field is required.")
		case "max":
			errs.Add(item.Field(), fmt.Sprintf("Ensure this value has at most %s characters.", item.Param()))
		default:
			errs.Add(item.Field(), fmt.Sprintf("Failed on the %s rule.", item.Tag()))
		}
	}
}

type PostCreateForm struct {
	Group      string `json:"group" form:"group"`
	Text       string `json:"text" form:"text" validate:"required"`
	ImageClear string `json:"image_clear" form:"image-clear"`

	Image  *multipart.FileHeader `json:"-" form:"-" validate:"-"`
	Errors FormErrors            `json:"-" form:"-" validate:"-"`

	group     *models.Group
	imageType string
}

// PostFormFromPost prefills the form for editing.
func PostFormFromPost(post models.Post) PostCreateForm {
	form := PostCreateForm{Text: post.Text, Errors: FormErrors{}}
	if post.GroupID != nil {
		form.Group = strconv.FormatUint(uint64(*post.GroupID), 10)
	}
	return form
}

func (v *PostCreateForm) ShouldClearImage() bool {
	return lo.Contains([]string{"on", "true", "1"}, strings.ToLower(v.ImageClear))
}

// ImageExtension is only known after a successful validation with an image.
func (v *PostCreateForm) ImageExtension() string {
	return allowedImageTypes[v.imageType]
}

func (v *PostCreateForm) Validate() bool {
	v.Errors = FormErrors{}
	v.Text = strings.TrimSpace(v.Text)
	v.Group = strings.TrimSpace(v.Group)

	if err := validation.Struct(v); err != nil {
		collectValidationErrors(v.Errors, err)
	}

	v.group = nil
	if len(v.Group) > 0 {
		id, err := strconv.ParseUint(v.Group, 10, 64)
		if err != nil {
			v.Errors.Add("group", "Select a valid choice.")
		} else if group, err := GetGroup(uint(id)); err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				v.Errors.Add("group", fmt.Sprintf("Unable to load the group: %v", err))
			} else {
				v.Errors.Add("group", "Select a valid choice. That choice is not one of the available choices.")
			}
		} else {
			v.group = &group
		}
	}

	if v.Image != nil {
		if kind, err := CheckImage(v.Image); err != nil {
			v.Errors.Add("image", err.Error())
		} else {
			v.imageType = kind
		}
	}

	return !v.Errors.Any()
}

// Save binds the validated fields onto the post. Author and image are left to the caller.
func (v *PostCreateForm) Save(instance models.Post) models.Post {
	instance.Text = v.Text
	if v.group != nil {
		instance.GroupID = &v.group.ID
	} else {
		instance.GroupID = nil
	}
	instance.Group = v.group
	return instance
}

type CommentForm struct {
	Text   string     `json:"text" form:"text" validate:"required"`
	Errors FormErrors `json:"-" form:"-" validate:"-"`
}

func (v *CommentForm) Validate() bool {
	v.Errors = FormErrors{}
	v.Text = strings.TrimSpace(v.Text)

	if err := validation.Struct(v); err != nil {
		collectValidationErrors(v.Errors, err)
	}

	return !v.Errors.Any()
}

// Save binds the text, the caller assigns author and post.
func (v *CommentForm) Save(instance models.Comment) models.Comment {
	instance.Text = v.Text
	return instance
}

func GetMaxImageSize() int64 {
	if size := viper.GetInt64("media.max_size"); size > 0 {
		return size
	}
	return DefaultMaxImageSize
}

// CheckImage sniffs the upload and returns its content type.
func CheckImage(header *multipart.FileHeader) (string, error) {
	if header.Size > GetMaxImageSize() {
		return "", fmt.Errorf("The image is too large, at most %d bytes allowed.", GetMaxImageSize())
	}

	file, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("Unable to read the uploaded image.")
	}
	defer file.Close()

	head := make([]byte, 512)
	n, err := file.Read(head)
	if err != nil || n == 0 {
		return "", fmt.Errorf("The submitted file is empty.")
	}

	kind := http.DetectContentType(head[:n])
	if _, ok := allowedImageTypes[kind]; !ok {
		return "", fmt.Errorf("Upload a valid image. The file you uploaded was either not an image or a corrupted image.")
	}
	return kind, nil
}

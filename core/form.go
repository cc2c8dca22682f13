package core

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/wansing/news/upload"
)

var usernameRegexp = regexp.MustCompile(`^[\p{L}\p{N}@.+\-_]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("form"); name != "" {
			return name
		}
		return f.Name
	})
	v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernameRegexp.MatchString(fl.Field().String())
	})
	return v
}

// FormErrors maps form field names to messages. The empty key holds errors which don't belong to a field.
type FormErrors map[string]string

func (fe FormErrors) Error() string {
	var keys = make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var parts = make([]string, len(keys))
	for i, k := range keys {
		if k == "" {
			parts[i] = fe[k]
		} else {
			parts[i] = k + ": " + fe[k]
		}
	}
	return strings.Join(parts, "; ")
}

func (fe FormErrors) add(field, message string) FormErrors {
	if fe == nil {
		fe = make(FormErrors)
	}
	if _, ok := fe[field]; !ok {
		fe[field] = message
	}
	return fe
}

// Validate checks the validate tags of a form struct. It returns nil if the form is valid.
func Validate(form interface{}) FormErrors {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FormErrors{"": err.Error()}
	}
	var fe FormErrors
	for _, e := range verrs {
		fe = fe.add(e.Field(), message(e))
	}
	return fe
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "Обязательное поле."
	case "max":
		return fmt.Sprintf("Не более %s символов.", e.Param())
	case "min":
		return fmt.Sprintf("Не менее %s символов.", e.Param())
	case "eqfield":
		return "Пароли не совпадают."
	case "username":
		return "Допустимы только буквы, цифры и символы @/./+/-/_."
	default:
		return "Некорректное значение."
	}
}

type ArticleForm struct {
	Title      string        `form:"title" validate:"required,max=200"`
	Body       string        `form:"body" validate:"required"`
	Image      *upload.Image `form:"image" validate:"-"`
	ClearImage bool          `form:"image-clear" validate:"-"`
}

type CommentForm struct {
	Body string `form:"body" validate:"required,max=2000"`
}

type LoginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

type RegisterForm struct {
	Username  string `form:"username" validate:"required,max=150,username"`
	Password  string `form:"password" validate:"required,min=8"`
	Password2 string `form:"password2" validate:"required,eqfield=Password"`
}

func imageMessage(err error) string {
	switch {
	case errors.Is(err, upload.ErrTooLarge):
		return "Файл слишком большой."
	case errors.Is(err, upload.ErrNoImage):
		return "Загрузите корректное изображение (JPEG, PNG или GIF)."
	default:
		return "Не удалось прочитать файл."
	}
}

// maxFieldBytes limits the size of a text field in a multipart form.
const maxFieldBytes = 1 << 20

// ArticleForm parses and validates a (usually multipart) article form from the request body.
// Multipart bodies are read part by part, so the text fields in front of an oversized image are kept.
// If the form is invalid, the returned error is of type FormErrors.
func (req *Request) ArticleForm() (*ArticleForm, error) {

	var maxBytes = req.db.MaxUploadBytes
	req.request.Body = http.MaxBytesReader(req.writer, req.request.Body, maxBytes+maxFieldBytes)

	var values = url.Values{}
	var img *upload.Image
	var imgErr error

	mr, err := req.request.MultipartReader()
	switch {
	case err == nil:
		img, imgErr = readArticleParts(mr, maxBytes, values)
	case errors.Is(err, http.ErrNotMultipart):
		if err := req.request.ParseForm(); err != nil {
			return nil, err
		}
		values = req.request.PostForm
	default:
		return nil, err
	}

	var form = &ArticleForm{
		Title:      strings.TrimSpace(values.Get("title")),
		Body:       strings.TrimSpace(values.Get("body")),
		ClearImage: values.Get("image-clear") != "",
	}

	var fe = Validate(form)

	var tooLarge *http.MaxBytesError
	switch {
	case imgErr == nil:
		form.Image = img
	case errors.As(imgErr, &tooLarge):
		fe = fe.add("image", imageMessage(upload.ErrTooLarge))
	case errors.Is(imgErr, upload.ErrTooLarge), errors.Is(imgErr, upload.ErrNoImage):
		fe = fe.add("image", imageMessage(imgErr))
	default:
		return nil, imgErr
	}

	if len(fe) > 0 {
		return form, fe
	}
	return form, nil
}

// readArticleParts adds the text fields of mr to values and reads the "image" file.
// Values read before an error are kept.
func readArticleParts(mr *multipart.Reader, maxBytes int64, values url.Values) (*upload.Image, error) {
	var img *upload.Image
	var imgErr error
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			return img, imgErr
		}
		if err != nil {
			return nil, err
		}
		if name := part.FormName(); name == "image" {
			if part.FileName() != "" {
				img, imgErr = upload.Read(part, maxBytes)
			}
		} else {
			data, err := io.ReadAll(io.LimitReader(part, maxFieldBytes))
			if err != nil {
				return nil, err
			}
			values.Add(name, string(data))
		}
	}
}

// CommentForm parses and validates a comment form.
func (req *Request) CommentForm() (*CommentForm, error) {
	var form = &CommentForm{
		Body: strings.TrimSpace(req.request.PostFormValue("body")),
	}
	if fe := Validate(form); len(fe) > 0 {
		return form, fe
	}
	return form, nil
}

func (req *Request) LoginForm() (*LoginForm, error) {
	var form = &LoginForm{
		Username: strings.TrimSpace(req.request.PostFormValue("username")),
		Password: req.request.PostFormValue("password"),
	}
	if fe := Validate(form); len(fe) > 0 {
		return form, fe
	}
	return form, nil
}

func (req *Request) RegisterForm() (*RegisterForm, error) {
	var form = &RegisterForm{
		Username:  strings.TrimSpace(req.request.PostFormValue("username")),
		Password:  req.request.PostFormValue("password"),
		Password2: req.request.PostFormValue("password2"),
	}
	if fe := Validate(form); len(fe) > 0 {
		return form, fe
	}
	return form, nil
}

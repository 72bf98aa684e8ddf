package validator

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	govalidator "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	once   sync.Once
	engine *govalidator.Validate
	trans  ut.Translator
)

// Engine returns the shared validator used outside of HTTP binding
// (question banks, configuration). Field names in errors are JSON tag names.
func Engine() *govalidator.Validate {
	once.Do(func() {
		engine = govalidator.New(govalidator.WithRequiredStructEnabled())
		configure(engine)
	})
	return engine
}

// Setup applies the same field naming and English messages to Gin's
// binding engine. Call once before building the router.
func Setup() {
	Engine()
	if v, ok := binding.Validator.Engine().(*govalidator.Validate); ok {
		configure(v)
	}
}

func configure(v *govalidator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	if trans == nil {
		enLocale := en.New()
		uni := ut.New(enLocale, enLocale)
		trans, _ = uni.GetTranslator("en")
	}
	_ = en_translations.RegisterDefaultTranslations(v, trans)
}

// FieldError is one failed rule, named by its JSON path.
type FieldError struct {
	Field   string
	Message string
}

// Struct validates s with the shared engine and returns one FieldError per
// failed rule. A non-validation error (e.g. s is not a struct) is returned
// as err.
func Struct(s any) ([]FieldError, error) {
	err := Engine().Struct(s)
	if err == nil {
		return nil, nil
	}
	var ve govalidator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil, err
	}
	out := make([]FieldError, 0, len(ve))
	for _, fe := range ve {
		out = append(out, FieldError{Field: fieldPath(fe), Message: fe.Translate(trans)})
	}
	return out, nil
}

// TranslateErrors maps a binding or validation error to field → message.
// Errors that are not validation errors land under "detail".
func TranslateErrors(err error) map[string]string {
	fields := make(map[string]string)

	var ve govalidator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			fields[fieldPath(fe)] = fe.Translate(trans)
		}
		return fields
	}

	fields["detail"] = err.Error()
	return fields
}

// Bind binds and validates the JSON body into dst.
// Returns nil on success or the translated field errors.
func Bind(c *gin.Context, dst any) map[string]string {
	if err := c.ShouldBindJSON(dst); err != nil {
		return TranslateErrors(err)
	}
	return nil
}

// fieldPath drops the top-level struct name from the namespace,
// so "Item.options[1]" becomes "options[1]".
func fieldPath(fe govalidator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

func newValidator() (*validator.Validate, ut.Translator, error) {
	validate := validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, nil, fmt.Errorf("failed to register default translations: %w", err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return validate, trans, nil
}

// Validate reports every invalid setting by its config key.
func (c *Config) Validate() error {
	validate, trans, err := newValidator()
	if err != nil {
		return err
	}
	err = validate.Struct(c)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("can not validate config: %w", err)
	}
	messages := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		key := strings.TrimPrefix(fe.Namespace(), "Config.")
		messages = append(messages, fmt.Sprintf("%s: %s", key, fe.Translate(trans)))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(messages, "; "))
}

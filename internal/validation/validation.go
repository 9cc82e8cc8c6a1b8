// Package validation enforces the write rules of posts and users and reports
// failures per attribute in the Rails error style clients already expect.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+$`)

var (
	once     sync.Once
	validate *validator.Validate
)

func engine() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return strings.ToLower(f.Name)
			}
			return name
		})
		_ = v.RegisterValidation("present", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		_ = v.RegisterValidation("email_format", func(fl validator.FieldLevel) bool {
			return emailPattern.MatchString(fl.Field().String())
		})
		validate = v
	})
	return validate
}

// Errors maps an attribute name to its failure messages.
type Errors map[string][]string

// Add records msg against attr.
func (e Errors) Add(attr, msg string) {
	e[attr] = append(e[attr], msg)
}

// Any reports whether at least one failure is recorded.
func (e Errors) Any() bool { return len(e) > 0 }

// FullMessages renders "Title is too short (minimum is 10 characters)" style
// lines, sorted by attribute.
func (e Errors) FullMessages() []string {
	attrs := make([]string, 0, len(e))
	for attr := range e {
		attrs = append(attrs, attr)
	}
	sort.Strings(attrs)

	var out []string
	for _, attr := range attrs {
		for _, msg := range e[attr] {
			out = append(out, humanize(attr)+" "+msg)
		}
	}
	return out
}

func (e Errors) Error() string {
	return "validation failed: " + strings.Join(e.FullMessages(), ", ")
}

// Struct validates v against its `validate` tags. It returns nil or an Errors.
func Struct(v any) error {
	err := engine().Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate %T: %w", v, err)
	}
	out := Errors{}
	for _, fe := range fieldErrs {
		out.Add(fe.Field(), message(fe))
		if fe.Tag() == "present" {
			if msg := shortAfterBlank(v, fe); msg != "" {
				out.Add(fe.Field(), msg)
			}
		}
	}
	return out
}

// shortAfterBlank checks the min rule that validator skipped because the
// field already failed "present".
func shortAfterBlank(v any, fe validator.FieldError) string {
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return ""
	}
	sf, ok := t.FieldByName(fe.StructField())
	if !ok {
		return ""
	}
	val, _ := fe.Value().(string)
	for _, rule := range strings.Split(sf.Tag.Get("validate"), ",") {
		param, found := strings.CutPrefix(rule, "min=")
		if !found {
			continue
		}
		n, err := strconv.Atoi(param)
		if err == nil && utf8.RuneCountInString(val) < n {
			return fmt.Sprintf("is too short (minimum is %d characters)", n)
		}
	}
	return ""
}

// As extracts validation Errors from err.
func As(err error) (Errors, bool) {
	var ve Errors
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "present", "required":
		return "can't be blank"
	case "min":
		return fmt.Sprintf("is too short (minimum is %s characters)", fe.Param())
	case "max":
		return fmt.Sprintf("is too long (maximum is %s characters)", fe.Param())
	case "email_format":
		return "is invalid"
	default:
		return "is invalid"
	}
}

func humanize(attr string) string {
	attr = strings.TrimSuffix(attr, "_id")
	attr = strings.ReplaceAll(attr, "_", " ")
	if attr == "" {
		return attr
	}
	return strings.ToUpper(attr[:1]) + attr[1:]
}

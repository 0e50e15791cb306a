package dto

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Base58 and Bech32 encodings only use ASCII letters and digits.
var zcashAddrRe = regexp.MustCompile(`^[a-zA-Z0-9]{1,512}$`)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("zcash_addr", validateZcashAddr)
	}
}

// validateZcashAddr is a syntax pre-check only; the full node decides
// validity and network.
func validateZcashAddr(fl validator.FieldLevel) bool {
	return zcashAddrRe.MatchString(fl.Field().String())
}

// SanitizeStruct trims leading and trailing whitespace from every exported
// string field (including *string) of a struct pointer. Memos are trimmed
// too but never escaped, since they are written on chain.
func SanitizeStruct(v interface{}) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return
	}
	sanitizeFields(rv.Elem())
}

func sanitizeFields(rv reflect.Value) {
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if !f.CanSet() {
			continue
		}
		switch f.Kind() {
		case reflect.String:
			f.SetString(strings.TrimSpace(f.String()))
		case reflect.Ptr:
			if f.IsNil() {
				continue
			}
			elem := f.Elem()
			if elem.Kind() == reflect.String {
				elem.SetString(strings.TrimSpace(elem.String()))
			}
		}
	}
}

package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	apperror "uaifood/internal/errors"
)

// maxBodyBytes limita o tamanho do corpo JSON aceito.
const maxBodyBytes = 1 << 20

var (
	phoneRegex = regexp.MustCompile(`^[1-9][0-9]{9,10}$`)
	nameRegex  = regexp.MustCompile(`^[\p{L} ]+$`)
	nonDigits  = regexp.MustCompile(`[^0-9]`)

	validUFs = map[string]struct{}{
		"AC": {}, "AL": {}, "AP": {}, "AM": {}, "BA": {}, "CE": {}, "DF": {}, "ES": {}, "GO": {},
		"MA": {}, "MT": {}, "MS": {}, "MG": {}, "PA": {}, "PB": {}, "PR": {}, "PE": {}, "PI": {},
		"RJ": {}, "RN": {}, "RS": {}, "RO": {}, "RR": {}, "SC": {}, "SP": {}, "SE": {}, "TO": {},
	}
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})

	// decimal.Decimal é validado como número (gt, required).
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	mustRegister(v, "br_phone", func(fl validator.FieldLevel) bool {
		return phoneRegex.MatchString(fl.Field().String())
	})
	mustRegister(v, "personname", func(fl validator.FieldLevel) bool {
		return nameRegex.MatchString(fl.Field().String())
	})
	mustRegister(v, "password", func(fl validator.FieldLevel) bool {
		return hasLowerAndDigit(fl.Field().String())
	})
	mustRegister(v, "uf", func(fl validator.FieldLevel) bool {
		_, ok := validUFs[strings.ToUpper(fl.Field().String())]
		return ok
	})
	mustRegister(v, "zipcode", func(fl validator.FieldLevel) bool {
		return len(NormalizeZipCode(fl.Field().String())) == 8
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: falha ao registrar %q: %v", tag, err))
	}
}

func hasLowerAndDigit(s string) bool {
	var lower, digit bool
	for _, r := range s {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return lower && digit
}

// NormalizeZipCode remove tudo que não for dígito do CEP.
func NormalizeZipCode(zip string) string {
	return nonDigits.ReplaceAllString(zip, "")
}

// DecodeJSON lê o corpo da requisição em dest, rejeitando campos desconhecidos.
func DecodeJSON(r *http.Request, dest any) error {
	defer func() {
		_, _ = io.Copy(io.Discard, r.Body)
	}()

	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return decodeError(err)
	}
	return nil
}

func decodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return apperror.NewFieldValidationError("Payload JSON inválido.", map[string]string{
			typeErr.Field: fmt.Sprintf("deve ser do tipo %s", typeErr.Type.String()),
		})
	}
	if errors.Is(err, io.EOF) {
		return apperror.NewValidationError("Corpo da requisição vazio.")
	}
	return apperror.NewValidationError(fmt.Sprintf("Payload JSON inválido: %s", err.Error()))
}

// Struct valida v pelas tags `validate` e devolve um ValidationError com detalhes por campo.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperror.NewValidationError(err.Error())
	}

	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		details[fieldPath(fe)] = message(fe)
	}
	return apperror.NewFieldValidationError("Dados inválidos.", details)
}

// fieldPath remove o nome da struct raiz do namespace: "PlaceOrderRequest.items[0].quantity" -> "items[0].quantity".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "campo obrigatório"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("deve ter pelo menos %s item(ns)", fe.Param())
		}
		return fmt.Sprintf("deve ter no mínimo %s caracteres", fe.Param())
	case "max":
		return fmt.Sprintf("deve ter no máximo %s caracteres", fe.Param())
	case "len":
		return fmt.Sprintf("deve ter exatamente %s caracteres", fe.Param())
	case "gt":
		return fmt.Sprintf("deve ser maior que %s", fe.Param())
	case "lte":
		return fmt.Sprintf("deve ser no máximo %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("deve ser um dos valores: %s", fe.Param())
	case "eqfield":
		return "as senhas não coincidem"
	case "br_phone":
		return "telefone deve ter 10 ou 11 dígitos e não começar com 0"
	case "personname":
		return "deve conter apenas letras e espaços"
	case "password":
		return "deve conter pelo menos uma letra minúscula e um número"
	case "uf":
		return "estado inválido"
	case "zipcode":
		return "CEP deve ter 8 dígitos"
	}
	return "valor inválido"
}

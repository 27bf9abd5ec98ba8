package httpx

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"sge-admin/internal/shared/apperr"
	"sge-admin/internal/shared/model"
)

// ============================================================================
// 输入校验（go-playground/validator，字段名取 json tag）
// ============================================================================

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// notblank: 去掉空白后不能为空；指针字段配合 omitempty 用于部分更新
	if err := v.RegisterValidation("notblank", notBlank); err != nil {
		panic(err)
	}
	// Nullable 按其内部指针校验，未出现与 null 都由 omitempty 跳过
	v.RegisterCustomTypeFunc(nullableValue, model.Nullable[string]{})
	return v
}

func nullableValue(field reflect.Value) interface{} {
	if n, ok := field.Interface().(interface{ Interface() any }); ok {
		return n.Interface()
	}
	return field.Interface()
}

func notBlank(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return true
	}
	return strings.TrimSpace(field.String()) != ""
}

// Validate 按 validate tag 校验结构体，所有问题合并为一个 Validation 错误
func Validate(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Internal(err)
	}
	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		problems = append(problems, describe(fe.Field(), fe))
	}
	return apperr.Validation("%s", strings.Join(problems, "; "))
}

// ValidateVar 校验单个值，field 用于错误信息
func ValidateVar(field string, value interface{}, tag string) error {
	err := validate.Var(value, tag)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperr.Internal(err)
	}
	return apperr.Validation("%s", describe(field, verrs[0]))
}

func describe(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return field + " is required"
	case "email":
		return field + " is not a valid email address"
	case "oneof":
		return field + " must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "gt":
		if fe.Param() == "0" {
			return field + " must be positive"
		}
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte", "min":
		if fe.Param() == "0" {
			return field + " must not be negative"
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())
	}
}

package util

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// 月份标签，如 "2025-07" 或 "Juillet 2025"
var monthLabelPattern = regexp.MustCompile(`^(\d{4}-(0[1-9]|1[0-2])|\p{L}+ \d{4})$`)

// ValidateMonthLabel 验证员工缴费的月份标签
func ValidateMonthLabel(fl validator.FieldLevel) bool {
	label := strings.TrimSpace(fl.Field().String())
	if label == "" || len(label) > 20 {
		return false
	}
	return monthLabelPattern.MatchString(label)
}

// RegisterValidators 注册自定义验证器
func RegisterValidators(v *validator.Validate) error {
	return v.RegisterValidation("month_label", ValidateMonthLabel)
}

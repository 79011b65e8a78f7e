package util

import "fmt"

// FormatNumber 格式化数字用于展示（千位以空格分隔，百万以 M 表示）
func FormatNumber(number int64) string {
	switch {
	case number >= 1000000:
		return fmt.Sprintf("%.1fM", float64(number)/1000000)
	case number >= 1000:
		return fmt.Sprintf("%d %03d", number/1000, number%1000)
	default:
		return fmt.Sprintf("%d", number)
	}
}

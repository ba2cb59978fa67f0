package etl

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// DateLayout 规范化日期格式
const DateLayout = "2006-01-02"

// 可接受的年份范围，与 pandas Timestamp 的取值范围一致
// 没有年份的输入 (例如 "3.14"、"12:30") 会被推断为 0 年，落在范围外
const (
	minYear = 1677
	maxYear = 2262
)

// dayFirstLayouts 日在前的常见格式，优先于自动推断
var dayFirstLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2-1-2006",
	"02.01.2006",
	"2.1.2006",
	"02/01/2006 15:04",
	"02/01/2006 15:04:05",
}

// ParseDateDayFirst 按日在前解析日期
// 日在前格式都不匹配时(例如日>12的月在前写法)退回到自动推断
func ParseDateDayFirst(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, ok := parseDayFirstLayouts(value); ok {
		return t, nil
	}
	return checkYear(dateparse.ParseIn(value, time.UTC))
}

// ParseDate 自动推断格式解析日期，歧义时按月在前
// 月在前解析失败时(例如月份位置 >12)再按日在前解析
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	t, err := checkYear(dateparse.ParseIn(value, time.UTC))
	if err == nil {
		return t, nil
	}
	if t, ok := parseDayFirstLayouts(value); ok {
		return t, nil
	}
	return time.Time{}, err
}

// NormalizeDate 解析并输出 YYYY-MM-DD，失败返回 nil
func NormalizeDate(value *string) *string {
	if value == nil {
		return nil
	}
	t, err := ParseDate(*value)
	if err != nil {
		return nil
	}
	s := t.Format(DateLayout)
	return &s
}

func parseDayFirstLayouts(value string) (time.Time, bool) {
	for _, layout := range dayFirstLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			if _, err := checkYear(t, nil); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

func checkYear(t time.Time, err error) (time.Time, error) {
	if err != nil {
		return time.Time{}, err
	}
	if t.Year() < minYear || t.Year() > maxYear {
		return time.Time{}, fmt.Errorf("year %d out of range [%d, %d]", t.Year(), minYear, maxYear)
	}
	return t, nil
}

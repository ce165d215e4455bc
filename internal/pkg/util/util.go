package util

import (
	"strconv"
	"time"
)

// StrToInt64 Convert string to int64
func StrToInt64(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

// StrToInt Convert string to int
func StrToInt(s string) (int, error) {
	return strconv.Atoi(s)
}

// Int64ToStr Convert int64 to string
func Int64ToStr(i int64) string {
	return strconv.FormatInt(i, 10)
}

// IntToStr Convert int to string
func IntToStr(i int) string {
	return strconv.Itoa(i)
}

// UnixToTime Convert unix timestamp to time.Time
func UnixToTime(ts int64) time.Time {
	return time.Unix(ts, 0)
}

// TimeToUnix Convert time.Time to unix timestamp
func TimeToUnix(t time.Time) int64 {
	return t.Unix()
}

// DefaultIfEmpty Return default value if string is empty
func DefaultIfEmpty(s, defaultVal string) string {
	if s == "" {
		return defaultVal
	}
	return s
}

// QueryInt 解析查询参数里的整数，解析失败返回默认值
func QueryInt(s string, defaultVal int) int {
	if s == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return n
}

package convert

import (
	"strconv"
)

type StrTo string

func (s StrTo) String() string {
	return string(s)
}

func (s StrTo) Int() (int, error) {
	v, err := strconv.Atoi(s.String())
	return v, err
}

func (s StrTo) MustInt() int {
	v, _ := s.Int()
	return v
}

func (s StrTo) Int64() (int64, error) {
	v, err := strconv.Atoi(s.String())
	return int64(v), err
}

func (s StrTo) MustInt64() int64 {
	v, _ := s.Int64()
	return v
}

func (s StrTo) Float64() (float64, error) {
	return strconv.ParseFloat(s.String(), 64)
}

// MustFloat64 converts to float64, returning 0 on malformed input
// MustFloat64 转换为 float64，格式错误时返回 0
func (s StrTo) MustFloat64() float64 {
	v, _ := s.Float64()
	return v
}

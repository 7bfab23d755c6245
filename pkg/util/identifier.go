package util

import (
	"strings"

	"github.com/google/uuid"
)

// NewIdentifier generates a stable record identifier for a new board or card.
// NewIdentifier 为新看板或卡片生成稳定标识
func NewIdentifier() string {
	return uuid.New().String()
}

// FirstLine returns the first line of s truncated to max runes, used when a
// record carries no explicit title.
// FirstLine 返回 s 的首行并按 max 截断，用于缺失标题的记录
func FirstLine(s string, max int) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	r := []rune(strings.TrimSpace(s))
	if len(r) > max {
		r = r[:max]
	}
	return string(r)
}

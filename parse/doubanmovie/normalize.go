package doubanmovie

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Nrich-sunny/moviecrawler/collector"
)

const (
	TitleSep      = "\u00a0/\u00a0"
	DirectorLabel = "导演: "
	CastLabel     = "主演: "
	MetaSep       = "/"
	CountLabel    = "人评价"
)

var (
	ErrNoTitleSeparator = errors.New("title separator not found")
	ErrNoDirector       = errors.New("director label not found")
	ErrShortMeta        = errors.New("metadata line has too few fields")
	ErrMissingNode      = errors.New("missing node")
)

// SplitTitle 标题形如 "中文名 / 外文名"，取第一段
func SplitTitle(s string) (string, error) {
	if !strings.Contains(s, TitleSep) {
		return "", fmt.Errorf("%w: %q", ErrNoTitleSeparator, s)
	}
	return strings.TrimSpace(strings.Split(s, TitleSep)[0]), nil
}

// CleanAltTitle 去掉外文名两侧的 "&nbsp;/&nbsp;"，普通空格保留
func CleanAltTitle(s string) string {
	return strings.Trim(s, "\u00a0/")
}

// SplitCrew 拆分 "导演: xxx   主演: yyy"，没有主演时返回 collector.UnknownCast
func SplitCrew(s string) (director, cast string, err error) {
	s = strings.TrimSpace(s)
	parts := strings.SplitN(s, DirectorLabel, 2)
	if len(parts) < 2 {
		return "", "", fmt.Errorf("%w: %q", ErrNoDirector, s)
	}
	director = strings.TrimSpace(strings.Split(parts[1], CastLabel)[0])

	cast = collector.UnknownCast
	if i := strings.Index(s, CastLabel); i >= 0 {
		cast = strings.TrimSpace(s[i+len(CastLabel):])
	}
	return director, cast, nil
}

// Meta 年份、国家/地区、类型
type Meta struct {
	Year    string
	Country string
	Genre   string
}

// SplitMeta 拆分 "1994 / 美国 / 犯罪 剧情"。
// 第二个字段以多字节字符开头时认为它就是国家；否则前面多了一个字段
// (例如另一个上映年份)，国家和类型各向后移一位。
// 国家名本身是单字节字符时这个判断会出错，保持现状。
func SplitMeta(s string) (Meta, error) {
	var fields []string
	for _, f := range strings.Split(strings.TrimSpace(s), MetaSep) {
		fields = append(fields, strings.TrimSpace(f))
	}
	if len(fields) < 3 || fields[1] == "" {
		return Meta{}, fmt.Errorf("%w: %q", ErrShortMeta, s)
	}

	offset := 1
	if multiByte(fields[1]) {
		offset = 0
	}
	if len(fields) < 3+offset {
		return Meta{}, fmt.Errorf("%w: %q", ErrShortMeta, s)
	}
	return Meta{
		Year:    fields[0],
		Country: fields[1+offset],
		Genre:   fields[2+offset],
	}, nil
}

func multiByte(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return utf8.RuneLen(r) > 1
}

func ParseRating(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("parse rating: %w", err)
	}
	return v, nil
}

// ParseRatingCount "1234567人评价" -> 1234567
func ParseRatingCount(s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(strings.ReplaceAll(s, CountLabel, "")))
	if err != nil {
		return 0, fmt.Errorf("parse rating count: %w", err)
	}
	return v, nil
}

package models

import "strings"

type Category string

const (
	CategoryChinese Category = "chinese"
	CategoryEnglish Category = "english"
	CategoryPun     Category = "pun"
	CategoryCode    Category = "code"
)

// FallbackCategory is used whenever a selection yields no jokes.
const FallbackCategory = CategoryChinese

func Categories() []Category {
	return []Category{CategoryChinese, CategoryEnglish, CategoryPun, CategoryCode}
}

func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	switch c {
	case CategoryChinese, CategoryEnglish, CategoryPun, CategoryCode:
		return c, true
	}
	return "", false
}

type Platform string

const (
	PlatformFeishu   Platform = "feishu"
	PlatformWeCom    Platform = "wecom"
	PlatformTelegram Platform = "telegram"
)

func Platforms() []Platform {
	return []Platform{PlatformFeishu, PlatformWeCom, PlatformTelegram}
}

func ParsePlatform(s string) (Platform, bool) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case PlatformFeishu, PlatformWeCom, PlatformTelegram:
		return p, true
	}
	return "", false
}

// DisplayName is the tag senders print in front of a message.
func (p Platform) DisplayName() string {
	switch p {
	case PlatformFeishu:
		return "Feishu"
	case PlatformWeCom:
		return "WeCom"
	case PlatformTelegram:
		return "Telegram"
	default:
		return string(p)
	}
}

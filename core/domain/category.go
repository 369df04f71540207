// ABOUTME: Category taxonomy used to partition article lists and requests
// ABOUTME: Maps the fixed category keys to their display labels

package domain

// Category keys
const (
	CategoryTop      = "top"
	CategoryGuonei   = "guonei"
	CategoryGuoji    = "guoji"
	CategoryYule     = "yule"
	CategoryTiyu     = "tiyu"
	CategoryJunshi   = "junshi"
	CategoryKeji     = "keji"
	CategoryCaijing  = "caijing"
	CategoryShishang = "shishang"
)

// DefaultCategory is used when no category is given
const DefaultCategory = CategoryTop

// CategoryInfo describes one entry of the taxonomy
type CategoryInfo struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Categories lists the taxonomy in display order
var Categories = []CategoryInfo{
	{Key: CategoryTop, Label: "头条"},
	{Key: CategoryGuonei, Label: "国内"},
	{Key: CategoryGuoji, Label: "国际"},
	{Key: CategoryYule, Label: "娱乐"},
	{Key: CategoryTiyu, Label: "体育"},
	{Key: CategoryJunshi, Label: "军事"},
	{Key: CategoryKeji, Label: "科技"},
	{Key: CategoryCaijing, Label: "财经"},
	{Key: CategoryShishang, Label: "时尚"},
}

// CategoryLabel returns the display label for key; unknown keys map to the top label
func CategoryLabel(key string) string {
	for _, c := range Categories {
		if c.Key == key {
			return c.Label
		}
	}
	return Categories[0].Label
}

// IsKnownCategory reports whether key is part of the taxonomy
func IsKnownCategory(key string) bool {
	for _, c := range Categories {
		if c.Key == key {
			return true
		}
	}
	return false
}

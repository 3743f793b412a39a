package models

import "strings"

// UnknownSource marks items whose filename carries no origin-work segment.
const UnknownSource = "未知"

// Item is one collectible image in the store, keyed by its filename.
type Item struct {
	Key         string
	Source      string
	DisplayName string
}

// ParseItemKey splits an item key into its facets. Two naming shapes are
// accepted: "source.name.ext" (three or more dot-separated segments) and
// "name.ext".
func ParseItemKey(key string) Item {
	parts := strings.Split(key, ".")
	if len(parts) >= 3 {
		return Item{Key: key, Source: parts[0], DisplayName: parts[1]}
	}
	return Item{Key: key, Source: UnknownSource, DisplayName: parts[0]}
}

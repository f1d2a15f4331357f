package specification

import (
	"encoding/json"
	"strings"

	"gorm.io/gorm"
)

type ByTitle struct {
	Title string
}

func (s ByTitle) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("title = ?", s.Title)
}

// ByTitleInsensitive matches the whole title case-insensitively (not a
// substring search).
type ByTitleInsensitive struct {
	Title string
}

func (s ByTitleInsensitive) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("LOWER(title) = LOWER(?)", s.Title)
}

// ByTag filters on jsonb containment over the lowercase tag list.
type ByTag struct {
	Tag string
}

func (s ByTag) Apply(db *gorm.DB) *gorm.DB {
	needle, _ := json.Marshal([]string{strings.ToLower(s.Tag)})
	return db.Where("tags @> ?", string(needle))
}

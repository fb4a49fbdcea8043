package specification

import "gorm.io/gorm"

type ByStep struct {
	Step string
}

func (s ByStep) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("step = ?", s.Step)
}

type ByItem struct {
	Kind string
	Id   string
}

func (s ByItem) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("item_kind = ? AND item_id = ?", s.Kind, s.Id)
}

type Unread struct{}

func (s Unread) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_read = ?", false)
}

package entity

type Tag struct {
	Base
	Name  string  `db:"name"`
	Color *string `db:"color"`
}

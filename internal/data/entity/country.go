package entity

type Country struct {
	Base
	Name string `db:"name"`
	ISO2 string `db:"iso2"`
	ISO3 string `db:"iso3"`
}

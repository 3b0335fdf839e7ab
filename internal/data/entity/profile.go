package entity

// Profile holds the optional one-to-one extended attributes of a user.
type Profile struct {
	Base
	UserID      int64   `db:"user_id"`
	Address     *string `db:"address"`
	CountryID   *int64  `db:"country_id"`
	State       *string `db:"state"`
	City        *string `db:"city"`
	PostCode    *string `db:"post_code"`
	CompanyName *string `db:"company_name"`
	TaxID       *string `db:"tax_id"`
}

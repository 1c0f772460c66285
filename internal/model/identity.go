package model

type Identity struct {
	ID    string `db:"id" json:"id"`
	Email string `db:"email" json:"email"`
}

type IdentityList []Identity

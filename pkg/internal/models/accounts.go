package models

// Account is the local mirror of an identity issued by the external
// identity provider. The ID is the one carried in the session token.
type Account struct {
	BaseModel

	Name string `json:"name" gorm:"uniqueIndex;size:150"`
	Nick string `json:"nick" gorm:"size:150"`
}

func (v Account) DisplayName() string {
	if len(v.Nick) > 0 {
		return v.Nick
	}
	return v.Name
}

package models

// Follow is a directed edge from Follower to Author. The pair is unique,
// following yourself is not rejected here.
type Follow struct {
	BaseModel

	FollowerID uint    `json:"follower_id" gorm:"uniqueIndex:idx_follow_pair"`
	Follower   Account `json:"follower" gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE"`
	AuthorID   uint    `json:"author_id" gorm:"uniqueIndex:idx_follow_pair;index"`
	Author     Account `json:"author" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
}

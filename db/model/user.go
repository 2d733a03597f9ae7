package model

type User struct {
	Base
	Handle               string    `gorm:"unique" json:"handle"`
	Email                string    `gorm:"unique" json:"-"`
	Pass                 string    `json:"-"`
	Bio                  string    `json:"bio"`
	IsPrivate            bool      `json:"is_private"`
	HideVotesFromFriends bool      `json:"hide_votes_from_friends"`
	Sessions             []Session `json:"-"`
}

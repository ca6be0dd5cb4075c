package models

import "time"

// UserProfile is the durable per-user record. Language is nil until the user
// completes language selection.
type UserProfile struct {
	UserID    string    `json:"user_id" bson:"user_id"`
	Language  *string   `json:"language" bson:"language"`
	Username  string    `json:"username" bson:"username"`
	FullName  string    `json:"full_name" bson:"full_name"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// LanguageCode returns the stored language or "" when unset.
func (u *UserProfile) LanguageCode() string {
	if u == nil || u.Language == nil {
		return ""
	}
	return *u.Language
}

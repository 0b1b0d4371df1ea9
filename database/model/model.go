// Package model defines the persistent entities of sidac-ui.
package model

// User is a registered account. Password always holds the bcrypt digest,
// never the plaintext credential.
type User struct {
	Id       int    `json:"id" gorm:"primaryKey;autoIncrement"`
	Username string `json:"username" gorm:"size:15;uniqueIndex;not null"`
	Email    string `json:"email" gorm:"size:50;uniqueIndex;not null"`
	Password string `json:"-" gorm:"size:80;not null"`
}

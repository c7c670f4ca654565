// Package pushtoken reads the device token registry and picks one token per entry.
package pushtoken

import (
	"errors"

	"github.com/orderpush/orderpush/internal/document"
)

// Repository errors.
var (
	ErrEntryNotFound = errors.New("push token entry not found")
)

// Collection is the document collection (or table) holding registry entries.
const Collection = "pushTokens"

// Role tags a registry entry with the recipient class it belongs to.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleOwner Role = "owner"
)

// Entry is a registry record. Customer entries are keyed by the customer UID.
type Entry struct {
	ID           string
	Role         Role
	OwnerStoreID string
	DeviceToken  string
	FCMToken     string
	TokenType    string
	Token        string
	ExpoToken    string
}

// FromDocument builds an Entry from a raw document.
func FromDocument(id string, data document.Fields) *Entry {
	return &Entry{
		ID:           id,
		Role:         Role(data.String("role")),
		OwnerStoreID: data.String("ownerStoreId"),
		DeviceToken:  data.String("deviceToken"),
		FCMToken:     data.String("fcmToken"),
		TokenType:    data.String("tokenType"),
		Token:        data.String("token"),
		ExpoToken:    data.String("expoToken"),
	}
}

// Last4 returns the last four characters of a token for logging.
func Last4(token string) string {
	if len(token) < 4 {
		return token
	}
	return token[len(token)-4:]
}

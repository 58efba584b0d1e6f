package domain

import "time"

// NotificationPrefs holds per-channel opt-in flags.
type NotificationPrefs struct {
	OrderUpdates    bool `json:"orderUpdates"`
	Promotions      bool `json:"promotions"`
	Recommendations bool `json:"recommendations"`
}

// Preferences holds user-tunable settings.
type Preferences struct {
	Notifications NotificationPrefs `json:"notifications"`
	Language      string            `json:"language"`
	Currency      string            `json:"currency"`
}

// DefaultPreferences returns the preferences assigned to a new user.
func DefaultPreferences() Preferences {
	return Preferences{
		Notifications: NotificationPrefs{
			OrderUpdates:    true,
			Promotions:      true,
			Recommendations: true,
		},
		Language: "en",
		Currency: "USD",
	}
}

// User is a shopper provisioned on first successful authentication against the
// external identity provider. Users are never hard-deleted.
type User struct {
	ID            string      `json:"id"`
	ExternalUID   string      `json:"-"`
	Email         string      `json:"email"`
	DisplayName   string      `json:"displayName"`
	PhotoURL      string      `json:"photoURL,omitempty"`
	Addresses     []Address   `json:"addresses"`
	Preferences   Preferences `json:"preferences"`
	LoyaltyPoints int         `json:"loyaltyPoints"`
	Version       int         `json:"-"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// LoyaltyTier derives the reward level from the accumulated points.
func (u User) LoyaltyTier() int {
	return TierOf(u.LoyaltyPoints)
}

// PointsToNextTier derives how many points remain until the next tier.
func (u User) PointsToNextTier() int {
	return PointsToNextTier(u.LoyaltyPoints)
}

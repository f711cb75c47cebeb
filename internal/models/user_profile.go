package models

import "time"

// UserProfile est entièrement synthétisé au chargement, un par customer_id distinct.
type UserProfile struct {
	CustomerID   string      `json:"customer_id" bson:"customer_id"`
	Preferences  Preferences `json:"preferences" bson:"preferences"`
	LastActivity *time.Time  `json:"last_activity" bson:"last_activity"`
}

type Preferences struct {
	Newsletter    bool `json:"newsletter" bson:"newsletter"`
	Notifications bool `json:"notifications" bson:"notifications"`
}

func NewUserProfile(customerID string) UserProfile {
	return UserProfile{
		CustomerID: customerID,
		Preferences: Preferences{
			Newsletter:    false,
			Notifications: true,
		},
	}
}

// UserProfilesFor dédoublonne les identifiants en gardant l'ordre de première apparition.
func UserProfilesFor(customers []Customer) []UserProfile {
	seen := make(map[string]struct{}, len(customers))
	profiles := make([]UserProfile, 0, len(customers))
	for _, c := range customers {
		if c.CustomerID == "" {
			continue
		}
		if _, ok := seen[c.CustomerID]; ok {
			continue
		}
		seen[c.CustomerID] = struct{}{}
		profiles = append(profiles, NewUserProfile(c.CustomerID))
	}
	return profiles
}

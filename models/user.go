package models

import "time"

// UserBinding associates a LINE user id with a phone number so chat orders
// don't have to re-enter contact info. Created on first contact; the phone is
// attached later by the 綁定 command or inferred from a web order that
// carries the LIFF user id.
type UserBinding struct {
	PlatformUserID string    `json:"platformUserId" bson:"platform_user_id"`
	DisplayName    string    `json:"displayName" bson:"display_name"`
	Phone          string    `json:"phone" bson:"phone"`
	FirstSeenAt    time.Time `json:"firstSeenAt" bson:"first_seen_at"`
	LastSeenAt     time.Time `json:"lastSeenAt" bson:"last_seen_at"`
}

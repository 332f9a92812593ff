// internal/profile/models.go

package profile

import "time"

// Profile is the user document stored in the users collection, keyed by
// the authentication identity id
type Profile struct {
	UID         string    `json:"uid" firestore:"uid"`
	Email       string    `json:"email" firestore:"email"`
	DisplayName string    `json:"display_name" firestore:"displayName"`
	PhotoURL    *string   `json:"photo_url" firestore:"photoURL"`
	Bio         string    `json:"bio" firestore:"bio"`
	CreatedAt   time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt   time.Time `json:"updated_at" firestore:"updatedAt"`
}

// UpdateProfileRequest patches the owner-editable profile fields.
// Nil fields are left untouched.
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name,omitempty"`
	Bio         *string `json:"bio,omitempty"`
	PhotoURL    *string `json:"photo_url,omitempty" validate:"omitempty,url"`
}

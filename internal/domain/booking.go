package domain

import "time"

// Booking is a court slot claimed by a player. The admission core only
// cares about existence-since-a-timestamp (the sweeper's exemption
// check); the player fields come from the booking form.
type Booking struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	PlayerName  string    `json:"player_name"`
	PlayerLevel string    `json:"player_level,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Validate validates a booking before insertion
func (b *Booking) Validate() error {
	if b.UserID == "" {
		return ErrInvalidUserID
	}
	if b.PlayerName == "" {
		return ErrInvalidPlayerName
	}
	return nil
}

// Profile is the slice of the auth collaborator's player profile the
// admission core reads: contact info for notifications plus the gender
// category denormalized into queue entries at join time.
type Profile struct {
	UserID         string `json:"user_id"`
	Name           string `json:"name"`
	Phone          string `json:"phone,omitempty"`
	GenderCategory string `json:"gender_category"`
}

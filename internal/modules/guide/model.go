// README: Guide (user) document model and eligibility filter.
package guide

import (
	"gonow/internal/types"
)

// Guide mirrors a users/{id} document. Clients live in the same collection;
// only the guide-specific fields matter here.
type Guide struct {
	ID               types.ID `firestore:"-"`
	AccountValidated bool     `firestore:"accountValidated"`
	AccountAccepted  bool     `firestore:"accountAccepted"`
	Disabled         bool     `firestore:"disabled"`
	GuideMode        bool     `firestore:"guideMode"`
	TukTukElectric   bool     `firestore:"tuktukElectric"`
	TukTukSeats      int      `firestore:"tuktukSeats"`
	Languages        []string `firestore:"language"`
	FirebaseToken    string   `firestore:"firebaseToken"`
	AppLanguage      string   `firestore:"appLanguage"`
	NeedSelectTukTuk bool     `firestore:"needSelectTukTuk"`
}

// Filter narrows the validated-guide pool for a trip. Zero values mean
// "no restriction".
type Filter struct {
	OnlyElectric bool
	Languages    []string
	MinSeats     int
}

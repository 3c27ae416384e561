package models

// DefaultAvatarURL is shown for users who never uploaded an avatar.
const DefaultAvatarURL = "https://cdn.pixabay.com/photo/2015/10/05/22/37/blank-profile-picture-973460__480.png"

// Image references a file held by the hosted image store.
type Image struct {
	URL      string `gorm:"size:512" bson:"url" json:"url"`
	PublicID string `gorm:"size:255" bson:"public_id" json:"public_id"`
}

// IsHosted reports whether the image lives on the hosted image store
// (as opposed to the built-in placeholder).
func (i Image) IsHosted() bool {
	return i.PublicID != ""
}

// DefaultAvatar is the placeholder avatar assigned at registration.
func DefaultAvatar() Image {
	return Image{URL: DefaultAvatarURL}
}

package model

import "time"

// ProfileID is the fixed primary key of the singleton profile row. The table
// carries a CHECK constraint so no other row can exist.
const ProfileID = 1

// SocialLinks holds optional external profile URLs.
type SocialLinks struct {
	Github    string `json:"github,omitempty"`
	Linkedin  string `json:"linkedin,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Website   string `json:"website,omitempty"`
	Instagram string `json:"instagram,omitempty"`
}

// Profile is the singleton site owner record. Picture and ResumeURL each
// reference a single remote asset owned exclusively by this record.
type Profile struct {
	ID             int64       `json:"id"`
	Name           string      `json:"name"`
	Title          string      `json:"title"`
	Subtitle       string      `json:"subtitle"`
	Bio            string      `json:"bio"`
	ContactEmail   string      `json:"contact_email"`
	SocialLinks    SocialLinks `json:"social_links"`
	Picture        string      `json:"picture,omitempty"`
	PictureAssetID string      `json:"-"`
	ResumeURL      string      `json:"resume_url,omitempty"`
	ResumeAssetID  string      `json:"-"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// DefaultProfile returns the profile created when none exists yet.
func DefaultProfile() Profile {
	return Profile{
		ID:           ProfileID,
		Name:         "John Doe",
		Title:        "Full Stack Developer",
		Subtitle:     "Building exceptional digital experiences",
		Bio:          "I specialize in creating robust, scalable applications with modern tech stacks.",
		ContactEmail: "john.doe@example.com",
		SocialLinks: SocialLinks{
			Github:   "https://github.com",
			Linkedin: "https://linkedin.com",
		},
	}
}

package store

import (
	"context"
	"time"

	"github.com/hus-nain/portfolio-go/internal/model"
)

const profileColumns = `id, name, title, subtitle, bio, contact_email,
	github, linkedin, twitter, website, instagram,
	picture, picture_asset_id, resume_url, resume_asset_id, updated_at`

func scanProfile(row interface{ Scan(...any) error }) (model.Profile, error) {
	var p model.Profile
	err := row.Scan(&p.ID, &p.Name, &p.Title, &p.Subtitle, &p.Bio, &p.ContactEmail,
		&p.SocialLinks.Github, &p.SocialLinks.Linkedin, &p.SocialLinks.Twitter,
		&p.SocialLinks.Website, &p.SocialLinks.Instagram,
		&p.Picture, &p.PictureAssetID, &p.ResumeURL, &p.ResumeAssetID, &p.UpdatedAt)
	if err != nil {
		return model.Profile{}, err
	}
	return p, nil
}

// GetProfile returns the singleton profile row. Returns sql.ErrNoRows if it
// has not been created yet.
func (q *Queries) GetProfile(ctx context.Context) (model.Profile, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = ?`, model.ProfileID)
	return scanProfile(row)
}

// EnsureProfile creates the singleton profile row with the given defaults if
// it does not exist. The insert is idempotent: the fixed primary key plus
// ON CONFLICT DO NOTHING makes concurrent callers converge on one row.
func (q *Queries) EnsureProfile(ctx context.Context, defaults model.Profile) (model.Profile, error) {
	_, err := q.db.ExecContext(ctx, `INSERT INTO profiles
		(id, name, title, subtitle, bio, contact_email,
		 github, linkedin, twitter, website, instagram,
		 picture, picture_asset_id, resume_url, resume_asset_id, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING`,
		model.ProfileID, defaults.Name, defaults.Title, defaults.Subtitle,
		defaults.Bio, defaults.ContactEmail,
		defaults.SocialLinks.Github, defaults.SocialLinks.Linkedin,
		defaults.SocialLinks.Twitter, defaults.SocialLinks.Website,
		defaults.SocialLinks.Instagram,
		defaults.Picture, defaults.PictureAssetID,
		defaults.ResumeURL, defaults.ResumeAssetID, time.Now().UTC())
	if err != nil {
		return model.Profile{}, err
	}
	return q.GetProfile(ctx)
}

// UpdateProfile overwrites the singleton profile row and returns it. The
// caller merges partial input into the current record first.
func (q *Queries) UpdateProfile(ctx context.Context, p model.Profile) (model.Profile, error) {
	_, err := q.db.ExecContext(ctx, `UPDATE profiles SET
		name = ?, title = ?, subtitle = ?, bio = ?, contact_email = ?,
		github = ?, linkedin = ?, twitter = ?, website = ?, instagram = ?,
		picture = ?, picture_asset_id = ?, resume_url = ?, resume_asset_id = ?,
		updated_at = ?
		WHERE id = ?`,
		p.Name, p.Title, p.Subtitle, p.Bio, p.ContactEmail,
		p.SocialLinks.Github, p.SocialLinks.Linkedin, p.SocialLinks.Twitter,
		p.SocialLinks.Website, p.SocialLinks.Instagram,
		p.Picture, p.PictureAssetID, p.ResumeURL, p.ResumeAssetID,
		time.Now().UTC(), model.ProfileID)
	if err != nil {
		return model.Profile{}, err
	}
	return q.GetProfile(ctx)
}

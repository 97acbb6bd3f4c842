package model

import (
	"strings"
	"time"
)

// Profile is a user's account-level record. Identity and credentials live
// with the external auth provider; this row anchors job ownership and holds
// the extracted sender profile.
type Profile struct {
	ID             string         `json:"id"               db:"id"`
	UserID         string         `json:"user_id"          db:"user_id"`
	Email          string         `json:"email"            db:"email"`
	FullName       string         `json:"full_name"        db:"full_name"`
	SenderProfile  *SenderProfile `json:"sender_profile"   db:"sender_profile"`
	ProfileRawText string         `json:"profile_raw_text" db:"profile_raw_text"`
	CreatedAt      time.Time      `json:"created_at"       db:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"       db:"updated_at"`
}

// SenderProfile is structured personalization data extracted from a user's
// free-text biography. It is overwritten wholesale on each extraction.
type SenderProfile struct {
	Education      []string `json:"education"`
	Experience     []string `json:"experience"`
	CurrentCompany string   `json:"current_company"`
	CurrentRole    string   `json:"current_role"`
	Interests      []string `json:"interests"`
}

// Complete reports whether the profile carries enough signal to personalize
// a message. Drafting refuses to run against an incomplete profile.
func (p *SenderProfile) Complete() bool {
	if p == nil {
		return false
	}
	return len(p.Education) > 0 || strings.TrimSpace(p.CurrentRole) != ""
}

// HasSchool reports whether education contains the given school,
// compared case-insensitively after trimming.
func (p *SenderProfile) HasSchool(school string) (string, bool) {
	return matchEntry(p.educationOrNil(), school)
}

// HasCompany reports whether experience contains the given company,
// compared case-insensitively after trimming.
func (p *SenderProfile) HasCompany(company string) (string, bool) {
	if p == nil {
		return "", false
	}
	return matchEntry(p.Experience, company)
}

func (p *SenderProfile) educationOrNil() []string {
	if p == nil {
		return nil
	}
	return p.Education
}

// matchEntry returns the first entry equal to target after trimming and
// case-folding, preserving the stored spelling of the matched entry.
func matchEntry(entries []string, target string) (string, bool) {
	want := strings.ToLower(strings.TrimSpace(target))
	if want == "" {
		return "", false
	}
	for _, e := range entries {
		if strings.ToLower(strings.TrimSpace(e)) == want {
			return strings.TrimSpace(e), true
		}
	}
	return "", false
}

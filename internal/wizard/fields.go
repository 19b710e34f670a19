package wizard

import (
	"encoding/json"

	"cinegrok-backend/internal/models"
)

// personalFields are the keys the Personal step may write.
type personalFields struct {
	ProfilePhotoURL  string `json:"profilePhotoUrl"`
	StageName        string `json:"stageName"`
	LegalName        string `json:"legalName"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	Pronouns         string `json:"pronouns"`
	DateOfBirth      string `json:"dateOfBirth"`
	Country          string `json:"country"`
	CurrentState     string `json:"currentState"`
	CurrentCity      string `json:"currentCity"`
	NativeState      string `json:"nativeState"`
	NativeCity       string `json:"nativeCity"`
	Nationality      string `json:"nationality"`
	Languages        string `json:"languages"`
	PreferredContact string `json:"preferredContact"`
	Bio              string `json:"bio"`
}

// professionalFields excludes the role lists, which only change through
// the role selection methods.
type professionalFields struct {
	YearsActive           string   `json:"yearsActive"`
	PreferredGenres       []string `json:"preferredGenres"`
	VisualStyle           string   `json:"visualStyle"`
	CreativeInfluences    string   `json:"creativeInfluences"`
	CreativePhilosophy    string   `json:"creativePhilosophy"`
	BeliefAboutCinema     string   `json:"beliefAboutCinema"`
	MessageOrIntent       string   `json:"messageOrIntent"`
	CreativeSignature     string   `json:"creativeSignature"`
	OpenToCollaborations  string   `json:"openToCollaborations"`
	Availability          string   `json:"availability"`
	PreferredWorkLocation string   `json:"preferredWorkLocation"`
}

func applyPersonal(data []byte, p *models.ProfileData) error {
	f := personalFields{
		ProfilePhotoURL:  p.ProfilePhotoURL,
		StageName:        p.StageName,
		LegalName:        p.LegalName,
		Email:            p.Email,
		Phone:            p.Phone,
		Pronouns:         p.Pronouns,
		DateOfBirth:      p.DateOfBirth,
		Country:          p.Country,
		CurrentState:     p.CurrentState,
		CurrentCity:      p.CurrentCity,
		NativeState:      p.NativeState,
		NativeCity:       p.NativeCity,
		Nationality:      p.Nationality,
		Languages:        p.Languages,
		PreferredContact: p.PreferredContact,
		Bio:              p.Bio,
	}
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	p.ProfilePhotoURL = f.ProfilePhotoURL
	p.StageName = f.StageName
	p.LegalName = f.LegalName
	p.Email = f.Email
	p.Phone = f.Phone
	p.Pronouns = f.Pronouns
	p.DateOfBirth = f.DateOfBirth
	p.Country = f.Country
	p.CurrentState = f.CurrentState
	p.CurrentCity = f.CurrentCity
	p.NativeState = f.NativeState
	p.NativeCity = f.NativeCity
	p.Nationality = f.Nationality
	p.Languages = f.Languages
	p.PreferredContact = f.PreferredContact
	p.Bio = f.Bio
	return nil
}

func applyProfessional(data []byte, p *models.ProfileData) error {
	f := professionalFields{
		YearsActive:           p.YearsActive,
		PreferredGenres:       p.PreferredGenres,
		VisualStyle:           p.VisualStyle,
		CreativeInfluences:    p.CreativeInfluences,
		CreativePhilosophy:    p.CreativePhilosophy,
		BeliefAboutCinema:     p.BeliefAboutCinema,
		MessageOrIntent:       p.MessageOrIntent,
		CreativeSignature:     p.CreativeSignature,
		OpenToCollaborations:  p.OpenToCollaborations,
		Availability:          p.Availability,
		PreferredWorkLocation: p.PreferredWorkLocation,
	}
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	p.YearsActive = f.YearsActive
	p.PreferredGenres = f.PreferredGenres
	if p.PreferredGenres == nil {
		p.PreferredGenres = []string{}
	}
	p.VisualStyle = f.VisualStyle
	p.CreativeInfluences = f.CreativeInfluences
	p.CreativePhilosophy = f.CreativePhilosophy
	p.BeliefAboutCinema = f.BeliefAboutCinema
	p.MessageOrIntent = f.MessageOrIntent
	p.CreativeSignature = f.CreativeSignature
	p.OpenToCollaborations = f.OpenToCollaborations
	p.Availability = f.Availability
	p.PreferredWorkLocation = f.PreferredWorkLocation
	return nil
}

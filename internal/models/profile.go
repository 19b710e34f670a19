package models

import "time"

// Collaboration stances.
const (
	CollabYes       = "Yes"
	CollabNo        = "No"
	CollabSelective = "Selective"
)

// Availability values.
const (
	AvailabilityAvailable = "Available"
	AvailabilityBusy      = "Busy"
	AvailabilitySelective = "Selective"
	AvailabilityPartTime  = "Part-time"
)

// StandardRoles is the suggested role grid shown by the wizard.
var StandardRoles = []string{
	"Director", "Producer", "Screenwriter", "Cinematographer", "Editor",
	"Actor", "Sound Designer", "Composer", "Production Designer",
	"Costume Designer", "Makeup Artist", "VFX Artist", "Colorist",
	"Animator", "Casting Director", "Art Director",
}

// Genres offered by the preferred-genres multi-select.
var Genres = []string{
	"Drama", "Comedy", "Thriller", "Horror", "Romance", "Action",
	"Documentary", "Sci-Fi", "Fantasy", "Animation", "Experimental",
	"Crime", "Mystery", "Musical", "Biographical", "Social",
}

type SocialLinks struct {
	Instagram  string `json:"instagram,omitempty"`
	YouTube    string `json:"youtube,omitempty"`
	IMDb       string `json:"imdb,omitempty"`
	LinkedIn   string `json:"linkedin,omitempty"`
	Twitter    string `json:"twitter,omitempty"`
	Facebook   string `json:"facebook,omitempty"`
	Website    string `json:"website,omitempty"`
	Letterboxd string `json:"letterboxd,omitempty"`
}

// SocialLink is one populated entry of SocialLinks.
type SocialLink struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Links returns the populated links in display order.
func (s SocialLinks) Links() []SocialLink {
	all := []SocialLink{
		{"instagram", s.Instagram},
		{"youtube", s.YouTube},
		{"imdb", s.IMDb},
		{"linkedin", s.LinkedIn},
		{"twitter", s.Twitter},
		{"facebook", s.Facebook},
		{"website", s.Website},
		{"letterboxd", s.Letterboxd},
	}
	links := make([]SocialLink, 0, len(all))
	for _, l := range all {
		if l.URL != "" {
			links = append(links, l)
		}
	}
	return links
}

type Education struct {
	Schooling       string `json:"schooling,omitempty"`
	HigherSecondary string `json:"higherSecondary,omitempty"`
	Undergraduate   string `json:"undergraduate,omitempty"`
	Postgraduate    string `json:"postgraduate,omitempty"`
	PhD             string `json:"phd,omitempty"`
	Certifications  string `json:"certifications,omitempty"`
}

// ProfileData is the canonical filmmaker record. Every intake path is
// converted into this shape before anything reads it.
type ProfileData struct {
	// Personal
	ProfilePhotoURL  string `json:"profilePhotoUrl"`
	StageName        string `json:"stageName"`
	LegalName        string `json:"legalName,omitempty"`
	Email            string `json:"email"`
	Phone            string `json:"phone,omitempty"`
	Pronouns         string `json:"pronouns,omitempty"`
	DateOfBirth      string `json:"dateOfBirth,omitempty"`
	Country          string `json:"country"`
	CurrentState     string `json:"currentState,omitempty"`
	CurrentCity      string `json:"currentCity,omitempty"`
	CurrentLocation  string `json:"currentLocation,omitempty"`
	NativeState      string `json:"nativeState,omitempty"`
	NativeCity       string `json:"nativeCity,omitempty"`
	Nationality      string `json:"nationality,omitempty"`
	Languages        string `json:"languages,omitempty"`
	PreferredContact string `json:"preferredContact,omitempty"`
	Bio              string `json:"bio,omitempty"`

	// Professional
	PrimaryRoles          []string `json:"primaryRoles"`
	SecondaryRoles        []string `json:"secondaryRoles"`
	YearsActive           string   `json:"yearsActive,omitempty"`
	PreferredGenres       []string `json:"preferredGenres"`
	VisualStyle           string   `json:"visualStyle,omitempty"`
	CreativeInfluences    string   `json:"creativeInfluences,omitempty"`
	CreativePhilosophy    string   `json:"creativePhilosophy,omitempty"`
	BeliefAboutCinema     string   `json:"beliefAboutCinema,omitempty"`
	MessageOrIntent       string   `json:"messageOrIntent,omitempty"`
	CreativeSignature     string   `json:"creativeSignature,omitempty"`
	OpenToCollaborations  string   `json:"openToCollaborations,omitempty"`
	Availability          string   `json:"availability,omitempty"`
	PreferredWorkLocation string   `json:"preferredWorkLocation,omitempty"`

	Filmography []FilmographyEntry `json:"filmography"`
	SocialLinks SocialLinks        `json:"socialLinks"`
	Education   Education          `json:"education"`

	IsComplete  bool      `json:"isComplete"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// NewProfileData returns an empty profile with non-nil lists.
func NewProfileData() ProfileData {
	p := ProfileData{}
	p.EnsureLists()
	return p
}

// EnsureLists replaces nil slices, recursively, so readers never see null lists.
func (p *ProfileData) EnsureLists() {
	if p.PrimaryRoles == nil {
		p.PrimaryRoles = []string{}
	}
	if p.SecondaryRoles == nil {
		p.SecondaryRoles = []string{}
	}
	if p.PreferredGenres == nil {
		p.PreferredGenres = []string{}
	}
	if p.Filmography == nil {
		p.Filmography = []FilmographyEntry{}
	}
	for i := range p.Filmography {
		p.Filmography[i].EnsureLists()
	}
}

// AllRoles returns primary roles followed by secondary roles.
func (p ProfileData) AllRoles() []string {
	roles := make([]string, 0, len(p.PrimaryRoles)+len(p.SecondaryRoles))
	roles = append(roles, p.PrimaryRoles...)
	return append(roles, p.SecondaryRoles...)
}

// FilmIndex returns the position of the film with the given id, or -1.
func (p ProfileData) FilmIndex(id string) int {
	for i, f := range p.Filmography {
		if f.ID == id {
			return i
		}
	}
	return -1
}

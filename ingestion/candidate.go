package ingestion

import (
	"fmt"
	"strings"
	"time"

	"github.com/rpupo63/linkedfolio-backend/errs"
	"github.com/rpupo63/linkedfolio-backend/models"
)

// CandidateProfile is the structured data inferred from document text before
// it is persisted. Scalar fields are pointers because the model returns null
// for anything the document does not mention; array fields are never nil
// after normalization.
type CandidateProfile struct {
	Name        *string               `json:"name"`
	Location    *string               `json:"location"`
	Bio         *string               `json:"bio"`
	About       *string               `json:"about"`
	Slug        *string               `json:"slug"`
	Skills      []CandidateSkill      `json:"skills"`
	Experiences []CandidateExperience `json:"experiences"`
	Projects    []CandidateProject    `json:"projects"`
	Socials     []CandidateSocial     `json:"socials"`
	Education   []CandidateEducation  `json:"education"`
}

type CandidateSkill struct {
	Name string `json:"name"`
}

type CandidateExperience struct {
	Role        string  `json:"role"`
	Company     *string `json:"company"`
	Description *string `json:"description"`
	From        string  `json:"from"`
	To          *string `json:"to"`
	Location    *string `json:"location"`
	IsCurrent   bool    `json:"isCurrent"`
}

type CandidateProject struct {
	Name        string  `json:"name"`
	URL         *string `json:"url"`
	Description *string `json:"description"`
}

type CandidateSocial struct {
	URL  string `json:"url"`
	Icon string `json:"icon"`
}

type CandidateEducation struct {
	Degree      string  `json:"degree"`
	Institution string  `json:"institution"`
	From        string  `json:"from"`
	To          *string `json:"to"`
	Location    *string `json:"location"`
	Description *string `json:"description"`
}

// normalize repairs the soft spots the model is allowed to get slightly
// wrong: nil arrays become empty, and a current role must not carry an end
// date.
func (c *CandidateProfile) normalize() {
	if c.Skills == nil {
		c.Skills = []CandidateSkill{}
	}
	if c.Experiences == nil {
		c.Experiences = []CandidateExperience{}
	}
	if c.Projects == nil {
		c.Projects = []CandidateProject{}
	}
	if c.Socials == nil {
		c.Socials = []CandidateSocial{}
	}
	if c.Education == nil {
		c.Education = []CandidateEducation{}
	}
	for i := range c.Experiences {
		if c.Experiences[i].IsCurrent {
			c.Experiences[i].To = nil
		}
	}
}

// SlugSeed returns the string slug generation should start from: the model's
// suggested slug, falling back to the first name, falling back to a generic
// seed when the document gave us neither.
func (c *CandidateProfile) SlugSeed() string {
	if c.Slug != nil && strings.TrimSpace(*c.Slug) != "" {
		return *c.Slug
	}
	if c.Name != nil {
		if first, _, _ := strings.Cut(strings.TrimSpace(*c.Name), " "); first != "" {
			return first
		}
	}
	return "profile"
}

// ToProfile converts the candidate into a persistable profile graph owned by
// userID. Child identifiers and timestamps are assigned by the persistence
// layer; dates are parsed here so nothing untyped crosses into storage.
func (c *CandidateProfile) ToProfile(userID string) (*models.Profile, error) {
	profile := &models.Profile{
		UserID:      userID,
		Name:        c.Name,
		Location:    c.Location,
		Bio:         c.Bio,
		About:       c.About,
		IsPublished: false,
	}

	for _, skill := range c.Skills {
		profile.Skills = append(profile.Skills, models.Skill{Name: skill.Name})
	}

	for i, exp := range c.Experiences {
		from, err := parseCandidateDate(exp.From)
		if err != nil {
			return nil, errs.NewCandidateValidationError([]string{
				fmt.Sprintf("experiences[%d].from: %v", i, err),
			})
		}
		to, err := parseOptionalCandidateDate(exp.To)
		if err != nil {
			return nil, errs.NewCandidateValidationError([]string{
				fmt.Sprintf("experiences[%d].to: %v", i, err),
			})
		}
		profile.Experiences = append(profile.Experiences, models.Experience{
			Role:        exp.Role,
			Company:     exp.Company,
			Description: exp.Description,
			From:        from,
			To:          to,
			Location:    exp.Location,
			IsCurrent:   exp.IsCurrent,
		})
	}

	for _, project := range c.Projects {
		profile.Projects = append(profile.Projects, models.Project{
			Name:        project.Name,
			URL:         project.URL,
			Description: project.Description,
		})
	}

	for _, social := range c.Socials {
		profile.Socials = append(profile.Socials, models.Social{
			URL:  social.URL,
			Icon: social.Icon,
		})
	}

	for i, edu := range c.Education {
		from, err := parseCandidateDate(edu.From)
		if err != nil {
			return nil, errs.NewCandidateValidationError([]string{
				fmt.Sprintf("education[%d].from: %v", i, err),
			})
		}
		to, err := parseOptionalCandidateDate(edu.To)
		if err != nil {
			return nil, errs.NewCandidateValidationError([]string{
				fmt.Sprintf("education[%d].to: %v", i, err),
			})
		}
		profile.Education = append(profile.Education, models.Education{
			Degree:      edu.Degree,
			Institution: edu.Institution,
			From:        from,
			To:          to,
			Location:    edu.Location,
			Description: edu.Description,
		})
	}

	return profile, nil
}

// parseCandidateDate accepts the normalized form the prompt asks for plus the
// partial dates models emit anyway, padding them to the first of the period.
func parseCandidateDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02", "2006-01", "2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}

func parseOptionalCandidateDate(s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	t, err := parseCandidateDate(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

package model

// ParsedResume is the structured output of the resume-parsing collaborator.
// Contact fields may be absent; the intake flow collects them from the
// candidate before a Candidate record is created.
type ParsedResume struct {
	Text       string   `json:"text"`
	Name       string   `json:"name,omitempty"`
	Email      string   `json:"email,omitempty"`
	Phone      string   `json:"phone,omitempty"`
	Skills     []string `json:"skills,omitempty"`
	Experience []string `json:"experience,omitempty"`
	Education  []string `json:"education,omitempty"`
	Summary    string   `json:"summary,omitempty"`
}

// MissingFields lists the contact fields the parser could not extract.
func (p *ParsedResume) MissingFields() []string {
	var missing []string
	if p.Name == "" {
		missing = append(missing, "name")
	}
	if p.Email == "" {
		missing = append(missing, "email")
	}
	if p.Phone == "" {
		missing = append(missing, "phone")
	}
	return missing
}

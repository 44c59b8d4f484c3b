// Package domain defines the core entity types, validation rules, and error
// taxonomy shared across the matching engine.
package domain

// Kind identifies which logical index an entity belongs to.
type Kind string

const (
	KindCandidate Kind = "candidate"
	KindJob       Kind = "job"
)

// Opposite returns the counterpart kind for a matching query.
func (k Kind) Opposite() Kind {
	if k == KindCandidate {
		return KindJob
	}
	return KindCandidate
}

// Candidate is a stored candidate profile. The email is the stable key.
type Candidate struct {
	Email            string `json:"email"`
	Name             string `json:"name"`
	LinkedinURL      string `json:"linkedin_url,omitempty"`
	SkillsExperience string `json:"skills_experience"`
}

// ProfileText returns the text that gets embedded for this candidate.
func (c Candidate) ProfileText() string {
	return c.SkillsExperience
}

// Metadata returns the payload stored alongside the candidate vector.
func (c Candidate) Metadata() map[string]string {
	return map[string]string{
		"name":             c.Name,
		"email":            c.Email,
		"linkedin_url":     c.LinkedinURL,
		"skill_experience": c.SkillsExperience,
	}
}

// Job is a stored job posting. The ID is the stable key, generated
// server-side when the client does not supply one.
type Job struct {
	ID          string `json:"job_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Company     string `json:"company,omitempty"`
	Location    string `json:"location,omitempty"`
	PostedDate  string `json:"posted_date,omitempty"`
	Salary      string `json:"salary,omitempty"`
	JobType     string `json:"job_type,omitempty"`
}

// ProfileText returns the text that gets embedded for this job.
func (j Job) ProfileText() string {
	return j.Title + " " + j.Description
}

// Metadata returns the payload stored alongside the job vector.
func (j Job) Metadata() map[string]string {
	return map[string]string{
		"title":       j.Title,
		"description": j.Description,
		"company":     j.Company,
		"location":    j.Location,
		"posted_date": j.PostedDate,
		"salary":      j.Salary,
		"job_type":    j.JobType,
	}
}

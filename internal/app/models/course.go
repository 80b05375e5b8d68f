package models

import "time"

// Difficulty is the enumerated course level
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "Beginner"
	DifficultyIntermediate Difficulty = "Intermediate"
	DifficultyAdvanced     Difficulty = "Advanced"
)

// IsValid checks if the difficulty is one of the known levels
func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

// Duration is a course length expressed as a count of a unit (days or hours)
type Duration struct {
	Count int    `json:"count" yaml:"count"`
	Unit  string `json:"unit" yaml:"unit"`
}

// Instructor identifies the trainer shown on a course page
type Instructor struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Title string `json:"title" yaml:"title"`
}

// Price is an amount in a currency (ISO 4217 code)
type Price struct {
	Amount   float64 `json:"amount" yaml:"amount"`
	Currency string  `json:"currency" yaml:"currency"`
}

// Schedule tells whether the course can be booked and when it runs next
type Schedule struct {
	Available   bool       `json:"available" yaml:"available"`
	NextSession *time.Time `json:"nextSession,omitempty" yaml:"nextSession,omitempty"`
}

// Certification describes the exam a course prepares for
type Certification struct {
	Available bool   `json:"available" yaml:"available"`
	Name      string `json:"name,omitempty" yaml:"name,omitempty"`
}

// CourseMetadata is the catalog record of a single training
type CourseMetadata struct {
	ID                 string        `json:"id" yaml:"id"`
	Slug               string        `json:"slug" yaml:"slug"`
	Title              string        `json:"title" yaml:"title"`
	Description        string        `json:"description" yaml:"description"`
	Content            string        `json:"content" yaml:"content"`
	Category           string        `json:"category" yaml:"category"`
	Subcategory        string        `json:"subcategory" yaml:"subcategory"`
	Difficulty         Difficulty    `json:"difficulty" yaml:"difficulty"`
	Duration           Duration      `json:"duration" yaml:"duration"`
	Prerequisites      []string      `json:"prerequisites" yaml:"prerequisites"`
	LearningObjectives []string      `json:"learningObjectives" yaml:"learningObjectives"`
	Instructor         Instructor    `json:"instructor" yaml:"instructor"`
	Price              Price         `json:"price" yaml:"price"`
	Schedule           Schedule      `json:"schedule" yaml:"schedule"`
	Tags               []string      `json:"tags" yaml:"tags"`
	Featured           bool          `json:"featured" yaml:"featured"`
	Certification      Certification `json:"certification" yaml:"certification"`
	MaxParticipants    *int          `json:"maxParticipants,omitempty" yaml:"maxParticipants,omitempty"`
	Icon               string        `json:"icon,omitempty" yaml:"icon,omitempty"`
}

// HasTag reports whether the course carries tag (exact match)
func (c *CourseMetadata) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can't alter registry data
func (c CourseMetadata) Clone() CourseMetadata {
	c.Prerequisites = cloneStrings(c.Prerequisites)
	c.LearningObjectives = cloneStrings(c.LearningObjectives)
	c.Tags = cloneStrings(c.Tags)
	if c.Schedule.NextSession != nil {
		next := *c.Schedule.NextSession
		c.Schedule.NextSession = &next
	}
	if c.MaxParticipants != nil {
		n := *c.MaxParticipants
		c.MaxParticipants = &n
	}
	return c
}

// Heading is one entry of a course content outline
type Heading struct {
	Level int    `json:"level"`
	ID    string `json:"id,omitempty"`
	Text  string `json:"text"`
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

package domain

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Defaults applied to missing syllabus fields.
const (
	DefaultCourseName = "Unknown Course"
	DefaultUnitName   = "Unknown Unit"
	DefaultUnitTitle  = "Untitled"
	UnknownUnitID     = "UNIT-UNKNOWN"
)

var unitIDPattern = regexp.MustCompile(`^(UNIT)([IVXLCDM\d]+)`)

// Syllabus is a course outline as found in a syllabus JSON file.
type Syllabus struct {
	CourseName string `json:"course_name"`
	Units      []Unit `json:"units"`
}

// Unit is one section of a syllabus.
type Unit struct {
	Unit    string `json:"unit"`
	Title   string `json:"title"`
	Content string `json:"syllabus_content"`
}

// ParseSyllabus decodes a syllabus JSON document and fills defaults
// for a missing course name, unit name or title.
func ParseSyllabus(data []byte) (*Syllabus, error) {
	var s Syllabus
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: syllabus JSON: %v", ErrInvalidInput, err)
	}
	if strings.TrimSpace(s.CourseName) == "" {
		s.CourseName = DefaultCourseName
	}
	for i := range s.Units {
		if s.Units[i].Unit == "" {
			s.Units[i].Unit = DefaultUnitName
		}
		if s.Units[i].Title == "" {
			s.Units[i].Title = DefaultUnitTitle
		}
	}
	return &s, nil
}

// NormaliseUnitID canonicalises a unit label such as "Unit 3" or
// "unit_iv" to "UNIT-3" / "UNIT-IV". Labels that do not look like a
// unit number are returned upper-cased with spaces and underscores
// removed. An empty label yields UnknownUnitID.
func NormaliseUnitID(name string) string {
	if name == "" {
		return UnknownUnitID
	}
	id := strings.ToUpper(name)
	id = strings.ReplaceAll(id, " ", "")
	id = strings.ReplaceAll(id, "_", "")
	if m := unitIDPattern.FindStringSubmatch(id); m != nil {
		return m[1] + "-" + m[2]
	}
	return id
}

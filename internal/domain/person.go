package domain

import "time"

// Person is the people side of the directory: clergy and lay records with
// their contact details, histories and assignments eager-loaded for
// projection.
type Person struct {
	ID              int64
	FirstName       string
	MiddleName      string
	LastName        string
	Prefix          string
	Suffix          string
	PersonType      string
	ResidencyType   string
	ActiveOutsideDOC string
	LegalStatus     string

	DateBirth    *time.Time
	DateBaptism  *time.Time
	DateRetired  *time.Time
	DateDeceased *time.Time

	SafeEnvironmentTraining *bool
	PaidEmployee            bool

	Residence *Address
	Mailing   *Address

	PriestDetail *PriestDetail

	Emails          []TypedContact
	Phones          []TypedContact
	Languages       []string
	Statuses        []DatedEntry
	Titles          []DatedEntry
	Degrees         []Degree
	FacultiesGrants []DatedEntry
	Assignments     []Assignment
	Relationships   []Relationship
}

// FullName joins the non-empty name parts with single spaces.
func (p *Person) FullName() string {
	out := ""
	for _, part := range []string{p.FirstName, p.MiddleName, p.LastName} {
		if part == "" {
			continue
		}
		if out != "" {
			out += " "
		}
		out += part
	}
	return out
}

// PriestDetail holds the priest-specific extension of a Person.
// Only people with PersonType "priest" carry one.
type PriestDetail struct {
	DiocesanReligious string
	MassEnglish       *bool
	MassSpanish       *bool
	DateOrdination    *time.Time
	PlaceOfBaptism    string
	BirthCity         string
	BirthState        string
	Notes             string
}

// TypedContact is one email or phone row, tagged with its lookup type
// (Personal/Parish/Diocesan for emails, Cell/Home for phones).
type TypedContact struct {
	Type    string
	Value   string
	Primary bool
}

// DatedEntry is a named history row with an assignment window, used for
// statuses, titles and faculties grants.
type DatedEntry struct {
	Name         string
	DateAssigned time.Time
	DateReleased *time.Time
	Details      string
}

// Degree is an earned degree or certificate.
type Degree struct {
	Institute    string
	Subject      string
	DegreeType   string
	DateAcquired *time.Time
}

// Relationship links two people. Rows are stored in whichever direction the
// data entry happened to use, so display resolution must look at both ends.
type Relationship struct {
	Type             string
	FirstPersonID    int64
	FirstPersonName  string
	SecondPersonID   int64
	SecondPersonName string
}

// OtherName returns the name of whichever end of the relationship is not
// selfID. A row that does not involve selfID at all yields "".
func (r Relationship) OtherName(selfID int64) string {
	switch selfID {
	case r.FirstPersonID:
		return r.SecondPersonName
	case r.SecondPersonID:
		return r.FirstPersonName
	}
	return ""
}

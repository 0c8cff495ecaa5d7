package domain

import "time"

// Location is a church, school, campus ministry, hospital or other diocesan
// entity, with its type-specific detail record and statistical history.
type Location struct {
	ID        int64
	Name      string
	Type      string
	Website   string
	Latitude  *float64
	Longitude *float64

	Physical *Address
	Mailing  *Address

	Vicariate string
	County    string

	Detail LocationDetail

	Emails                 []TypedContact
	Phones                 []TypedContact
	Statuses               []DatedEntry
	Languages              []string
	SocialOutreachPrograms []string
	Assignments            []Assignment

	StatusAnimarum    []StatusAnimarum
	Offertories       []Offertory
	OctoberMassCounts []OctoberMassCount

	// PriestCount is the derived count of distinct assignments at this
	// location held by people with a priest detail. Computed per query,
	// never stored.
	PriestCount int64
}

// LocationDetail is the closed set of type-specific detail variants.
// A location has exactly one detail matching its type discriminant.
type LocationDetail interface {
	isLocationDetail()
}

// ChurchDetail extends a Location of type "church".
type ChurchDetail struct {
	ParishUniqueName     string
	Mission              bool
	DiocesanEntity       bool
	CityServed           string
	MissionOf            string
	RectoryAddress       *Address
	HasChildCareDayCare  bool
	DateEstablished      *time.Time
	DateFirstDedication  *time.Time
	DateSecondDedication *time.Time
	Notes                string
}

// SchoolDetail extends a Location of type "school".
type SchoolDetail struct {
	SchoolCode        int64
	SchoolType        string
	GradeLevels       string
	AffiliatedParish  string
	MACS              bool
	CanonicalStatus   string
	HasChapel         *bool
}

// CampusMinistryDetail extends a Location of type "campus_ministry".
type CampusMinistryDetail struct {
	MassAtParish        bool
	ServedBy            string
	UniversityServed    string
	SundayMassSchedule  string
	CampusMinistryHours string
}

// HospitalDetail extends a Location of type "hospital".
type HospitalDetail struct {
	FacilityType   string
	Diocese        string
	ParishBoundary string
}

// OtherEntityDetail extends a Location of type "other_entity".
type OtherEntityDetail struct{}

func (ChurchDetail) isLocationDetail()         {}
func (SchoolDetail) isLocationDetail()         {}
func (CampusMinistryDetail) isLocationDetail() {}
func (HospitalDetail) isLocationDetail()       {}
func (OtherEntityDetail) isLocationDetail()    {}

// StatusAnimarum is one year's statistical report for a church.
type StatusAnimarum struct {
	Year int

	FullTimeDeacons  int64
	FullTimeBrothers int64
	FullTimeSisters  int64
	FullTimeOther    int64
	PartTimeStaff    int64
	Volunteers       int64

	RegisteredHouseholds int64
	MaxMass              int64
	SeatingCapacity      int64

	BaptismAge1_7  int64
	BaptismAge8_17 int64
	BaptismAge18   int64

	FullCommunionRCIA int64
	FirstCommunion    int64
	Confirmation      int64

	MarriageCatholic   int64
	MarriageInterfaith int64
	Deaths             int64

	ChildrenInFaithFormation int64
	SchoolPreK5              int64
	SchoolGrade6_8           int64
	SchoolGrade9_12          int64
	YouthMinistry            int64
	AdultEducation           int64
	AdultSacramentPrep       int64
	CatechistPaid            int64
	CatechistVol             int64
	RCIARCIC                 int64
	VolunteersWorkingYouth   int64

	PercentAfrican         float64
	PercentAfricanAmerican float64
	PercentAsian           float64
	PercentHispanic        float64
	PercentAmericanIndian  float64
	PercentOther           float64

	CensusEstimate             bool
	ReferralsCatholicCharities *int64

	HasHomeschoolProgram       bool
	HasChildCareDayCare        bool
	HasScoutingProgram         bool
	HasChapelOnCampus          bool
	HasAdorationChapelOnCampus bool
	HasColumbarium             bool
	HasCemetery                bool
	HasSchoolOnSite            bool

	NonParochialSchoolUsingFacilities bool
}

// Offertory is one year's offertory income for a church.
type Offertory struct {
	Year   int
	Income float64
}

// OctoberMassCount records the four weekly October attendance counts.
type OctoberMassCount struct {
	Year  int
	Week1 int64
	Week2 int64
	Week3 int64
	Week4 int64
}

// Total sums the weekly counts.
func (o OctoberMassCount) Total() int64 {
	return o.Week1 + o.Week2 + o.Week3 + o.Week4
}

// LatestStatusAnimarum returns the report with the highest year, or nil
// when no reports exist. Latest means descending year, first row.
func (l *Location) LatestStatusAnimarum() *StatusAnimarum {
	var latest *StatusAnimarum
	for i := range l.StatusAnimarum {
		if latest == nil || l.StatusAnimarum[i].Year > latest.Year {
			latest = &l.StatusAnimarum[i]
		}
	}
	return latest
}

// LatestOffertory returns the highest-year offertory row, or nil.
func (l *Location) LatestOffertory() *Offertory {
	var latest *Offertory
	for i := range l.Offertories {
		if latest == nil || l.Offertories[i].Year > latest.Year {
			latest = &l.Offertories[i]
		}
	}
	return latest
}

// LatestOctoberMassCount returns the highest-year count row, or nil.
func (l *Location) LatestOctoberMassCount() *OctoberMassCount {
	var latest *OctoberMassCount
	for i := range l.OctoberMassCounts {
		if latest == nil || l.OctoberMassCounts[i].Year > latest.Year {
			latest = &l.OctoberMassCounts[i]
		}
	}
	return latest
}

package projection

import (
	"testing"
	"time"

	"github.com/cryptadb/crypta/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func testPerson() *domain.Person {
	released := date(2018, 6, 30)
	ordained := date(2001, 5, 19)
	return &domain.Person{
		ID:         42,
		FirstName:  "john",
		MiddleName: "patrick",
		LastName:   "smith",
		Prefix:     "Reverend",
		PersonType: "priest",
		Residence: &domain.Address{
			Address1: "10 Rectory Ln", City: "charlotte", State: "NC", ZipCode: "28202", Country: "USA",
		},
		PriestDetail: &domain.PriestDetail{
			DiocesanReligious: "diocesan",
			DateOrdination:    &ordained,
			BirthCity:         "Boston",
			BirthState:        "MA",
		},
		Emails: []domain.TypedContact{
			{Type: "Personal", Value: "john@example.com"},
			{Type: "Parish", Value: "pastor@stmary.org"},
			{Type: "Personal", Value: "jp@example.com"},
		},
		Phones: []domain.TypedContact{
			{Type: "Cell", Value: "704-555-0101"},
			{Type: "Home", Value: "704-555-0102"},
		},
		Languages: []string{"English", "Spanish"},
		Statuses: []domain.DatedEntry{
			{Name: "Active", DateAssigned: date(2010, 1, 1)},
		},
		Assignments: []domain.Assignment{
			{Type: "Pastor", LocationName: "St. Mary", DateAssigned: date(2019, 7, 1)},
			{Type: "Parochial Vicar", LocationName: "St. Anne", DateAssigned: date(2015, 7, 1), DateReleased: &released},
		},
		Relationships: []domain.Relationship{
			{Type: "Sibling", FirstPersonID: 42, FirstPersonName: "John Smith", SecondPersonID: 7, SecondPersonName: "mary smith"},
			{Type: "Parent", FirstPersonID: 8, FirstPersonName: "ann smith", SecondPersonID: 42, SecondPersonName: "John Smith"},
		},
	}
}

func TestPersonProjection(t *testing.T) {
	p := New(WithClock(fixedClock(date(2024, 3, 1))))
	rec := p.Person(testPerson(), nil)

	assert.Equal(t, int64(42), rec["id"])
	assert.Equal(t, "John Patrick Smith", rec["Full Name"])
	assert.Equal(t, "Priest", rec["Person Type"])
	assert.Equal(t, true, rec["Is Priest?"])
	assert.Equal(t, false, rec["Is Deacon?"])
}

func TestPersonEmailsSplitByType(t *testing.T) {
	p := New(WithTitleCase(false))
	rec := p.Person(testPerson(), nil)

	assert.Equal(t, "john@example.com; jp@example.com", rec["Personal Emails"])
	assert.Equal(t, "pastor@stmary.org", rec["Parish Emails"])
	assert.Equal(t, "", rec["Diocesan Emails"])
	assert.Equal(t, "704-555-0101", rec["Cell Phones"])
	assert.Equal(t, "704-555-0102", rec["Home Phones"])
}

func TestPersonHistoryFormat(t *testing.T) {
	p := New(WithTitleCase(false))
	rec := p.Person(testPerson(), nil)

	assert.Equal(t, "Active (2010-01-01 → present)", rec["Status History"])
	assert.Equal(t,
		"Pastor at St. Mary (2019-07-01 → present); Parochial Vicar at St. Anne (2015-07-01 → 2018-06-30)",
		rec["Assignments"])
}

func TestPersonActiveAssignmentsWindow(t *testing.T) {
	p := New(WithTitleCase(false), WithClock(fixedClock(date(2024, 3, 1))))
	rec := p.Person(testPerson(), nil)

	// The St. Anne assignment was released in 2018.
	assert.Equal(t, "Pastor at St. Mary (2019-07-01 → present)", rec["Active Assignments"])

	// Before the St. Mary assignment started, only St. Anne was active.
	p = New(WithTitleCase(false), WithClock(fixedClock(date(2016, 1, 1))))
	rec = p.Person(testPerson(), nil)
	assert.Equal(t, "Parochial Vicar at St. Anne (2015-07-01 → 2018-06-30)", rec["Active Assignments"])
}

func TestPersonRelationshipsBidirectional(t *testing.T) {
	p := New(WithTitleCase(false))
	rec := p.Person(testPerson(), nil)

	// Row one stores self as first person, row two as second; both resolve
	// to the other party's name.
	assert.Equal(t, "Sibling: mary smith; Parent: ann smith", rec["Relationships"])
}

func TestPersonMissingRelatedObjects(t *testing.T) {
	p := New(WithTitleCase(false))
	rec := p.Person(&domain.Person{ID: 1, FirstName: "Jane", LastName: "Doe", PersonType: "lay"}, nil)

	assert.Equal(t, "", rec["Residence City"])
	assert.Equal(t, "", rec["Mailing Address"])
	assert.Equal(t, "", rec["Priest Ordination"])
	assert.Equal(t, "", rec["Retirement Date"])
	assert.Equal(t, "", rec["Relationships"])
}

func TestPersonTitleCasing(t *testing.T) {
	p := New()
	rec := p.Person(testPerson(), nil)

	assert.Equal(t, "John Patrick Smith", rec["Full Name"])
	// The quirk is uniform: state abbreviations get title-cased too.
	assert.Equal(t, "Nc", rec["Residence State"])
	assert.Equal(t, "Charlotte", rec["Residence City"])

	off := New(WithTitleCase(false))
	rec = off.Person(testPerson(), nil)
	assert.Equal(t, "NC", rec["Residence State"])
	assert.Equal(t, "charlotte", rec["Residence City"])
}

func TestPersonAllowedFieldsTrim(t *testing.T) {
	p := New()
	rec := p.Person(testPerson(), []string{"Full Name", "Person Type"})

	require.Len(t, rec, 2)
	assert.Contains(t, rec, "Full Name")
	assert.Contains(t, rec, "Person Type")
	assert.NotContains(t, rec, "id")
	assert.NotContains(t, rec, "Cell Phones")
}

func TestPersonNilAllowedShowsAllFields(t *testing.T) {
	p := New()
	rec := p.Person(testPerson(), nil)
	assert.Greater(t, len(rec), 30)
}

func TestPersonBirthCityState(t *testing.T) {
	p := New(WithTitleCase(false))
	rec := p.Person(testPerson(), nil)
	assert.Equal(t, "Boston, MA", rec["Birth (City,State)"])
}

package projection

import (
	"testing"

	"github.com/cryptadb/crypta/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testChurch() *domain.Location {
	return &domain.Location{
		ID:        7,
		Name:      "st. mary",
		Type:      "church",
		Vicariate: "Northern",
		County:    "Mecklenburg",
		Physical:  &domain.Address{Address1: "100 Church St", City: "Charlotte", State: "NC"},
		Detail: domain.ChurchDetail{
			ParishUniqueName: "st mary parish",
			Mission:          false,
			CityServed:       "charlotte",
		},
		Languages:   []string{"English", "Spanish"},
		PriestCount: 3,
		StatusAnimarum: []domain.StatusAnimarum{
			{Year: 2021, RegisteredHouseholds: 900, HasCemetery: false},
			{Year: 2023, RegisteredHouseholds: 1200, HasCemetery: true, Deaths: 14},
			{Year: 2022, RegisteredHouseholds: 1000},
		},
		Offertories: []domain.Offertory{
			{Year: 2022, Income: 410000},
			{Year: 2023, Income: 450000},
		},
		OctoberMassCounts: []domain.OctoberMassCount{
			{Year: 2022, Week1: 500, Week2: 480, Week3: 510, Week4: 495},
			{Year: 2023, Week1: 520, Week2: 505, Week3: 530, Week4: 515},
		},
	}
}

func TestLocationProjectionMostRecentYear(t *testing.T) {
	p := New(WithTitleCase(false))
	rec := p.Location(testChurch(), nil)

	// Statistics come from the 2023 row even though 2021 was loaded first.
	assert.Equal(t, int64(1200), rec["Registered Households"])
	assert.Equal(t, int64(14), rec["Deaths"])
	assert.Equal(t, true, rec["Cemetery on Site?"])
	assert.Equal(t, 450000.0, rec["Offertory"])
	assert.Equal(t, int64(2070), rec["October Mass Count"])
}

func TestLocationChurchDetail(t *testing.T) {
	p := New(WithTitleCase(false))
	rec := p.Location(testChurch(), nil)

	assert.Equal(t, "st mary parish", rec["Parish Name"])
	assert.Equal(t, false, rec["Is Mission"])
	assert.Equal(t, "charlotte", rec["City Served"])
	assert.NotContains(t, rec, "School Code")
	assert.NotContains(t, rec, "Facility Type")
}

func TestLocationSchoolDetail(t *testing.T) {
	chapel := true
	loc := &domain.Location{
		ID:   8,
		Name: "Holy Trinity Middle",
		Type: "school",
		Detail: domain.SchoolDetail{
			SchoolCode:  4411,
			SchoolType:  "middle",
			GradeLevels: "6-8",
			MACS:        true,
			HasChapel:   &chapel,
		},
	}

	p := New(WithTitleCase(false))
	rec := p.Location(loc, nil)

	assert.Equal(t, int64(4411), rec["School Code"])
	assert.Equal(t, true, rec["MACS School"])
	assert.Equal(t, true, rec["Chapel on Site"])
	assert.NotContains(t, rec, "Parish Name")
}

func TestLocationCampusMinistryAndHospitalDetails(t *testing.T) {
	p := New(WithTitleCase(false))

	cm := p.Location(&domain.Location{Type: "campus_ministry", Detail: domain.CampusMinistryDetail{
		MassAtParish:     true,
		ServedBy:         "St. Peter",
		UniversityServed: "UNC Charlotte",
	}}, nil)
	assert.Equal(t, true, cm["Campus Mass At Parish"])
	assert.Equal(t, "St. Peter", cm["Served By"])

	h := p.Location(&domain.Location{Type: "hospital", Detail: domain.HospitalDetail{
		FacilityType: "hospital",
		Diocese:      "Charlotte",
	}}, nil)
	assert.Equal(t, "hospital", h["Facility Type"])
	assert.NotContains(t, h, "Served By")
}

func TestLocationNoDetailNoStats(t *testing.T) {
	p := New(WithTitleCase(false))
	rec := p.Location(&domain.Location{ID: 9, Name: "Annex", Type: "other_entity", Detail: domain.OtherEntityDetail{}}, nil)

	assert.Equal(t, true, rec["Is Other Entity"])
	assert.NotContains(t, rec, "Registered Households")
	assert.NotContains(t, rec, "Offertory")
	assert.Equal(t, "", rec["Physical Addr"])
}

func TestLocationPriestCount(t *testing.T) {
	p := New(WithTitleCase(false))
	rec := p.Location(testChurch(), nil)
	assert.Equal(t, int64(3), rec["Priest Count"])
}

func TestLocationTitleCaseToggle(t *testing.T) {
	p := New()
	rec := p.Location(testChurch(), nil)
	assert.Equal(t, "St. Mary", rec["Name"])
	assert.Equal(t, "Church", rec["Type"])

	off := New(WithTitleCase(false))
	rec = off.Location(testChurch(), nil)
	assert.Equal(t, "st. mary", rec["Name"])
}

func TestLocationAllowedFieldsTrim(t *testing.T) {
	p := New()
	rec := p.Location(testChurch(), []string{"Name", "Type"})
	require.Len(t, rec, 2)
	assert.Contains(t, rec, "Name")
	assert.Contains(t, rec, "Type")
}

func TestStatDisplayToPathCoversGridStats(t *testing.T) {
	table := StatDisplayToPath()
	assert.Equal(t, "statusAnimarum.registeredHouseholds", table["Registered Households"])
	assert.Equal(t, "priestCount", table["Priest Count"])
	assert.Equal(t, "offertory.income", table["Offertory"])
	assert.Equal(t, "octoberMassCount.week1", table["October Mass Count"])
}

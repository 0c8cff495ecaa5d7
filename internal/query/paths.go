package query

import (
	"fmt"

	"github.com/cryptadb/crypta/internal/domain"
)

// Join fragments shared by several person paths.
var (
	joinPriestDetail = Join{Table: "priest_detail", Alias: "pd", On: "pd.person_id = p.id"}
	joinAssignmentP  = Join{Table: "assignment", Alias: "a", On: "a.person_id = p.id"}
	joinAssignmentL  = Join{Table: "assignment", Alias: "a", On: "a.location_id = l.id"}
	joinAssignType   = Join{Table: "assignment_type", Alias: "at", On: "at.id = a.assignment_type_id"}
	joinAssignLoc    = Join{Table: "location", Alias: "aloc", On: "aloc.id = a.location_id"}
	joinChurchDetail = Join{Table: "church_detail", Alias: "cd", On: "cd.location_id = l.id"}
	joinStatusAnim   = Join{Table: "status_animarum", Alias: "sa", On: "sa.location_id = l.id"}
)

// NewPersonRegistry enumerates every queryable path on the person base.
func NewPersonRegistry() (*Registry, error) {
	paths := []FieldPath{
		{Name: "personType", Expr: "p.person_type"},
		{Name: "prefix", Expr: "p.prefix"},
		{Name: "residencyType", Expr: "p.residency_type"},
		{Name: "activeOutsideDOC", Expr: "p.active_outside_doc"},
		{Name: "legalStatus", Expr: "p.legal_status"},
		{Name: "dateBaptism", Expr: "p.date_baptism", Kind: KindDate},
		{Name: "dateDeceased", Expr: "p.date_deceased", Kind: KindDate},
		{Name: "dateRetired", Expr: "p.date_retired", Kind: KindDate},
		{Name: "safeEnvironmentTraining", Expr: "p.is_safe_environment_training", Kind: KindBool},

		{Name: "priestDetail.diocesanReligious", Joins: []Join{joinPriestDetail}, Expr: "pd.diocesan_religious"},
		{Name: "priestDetail.massEnglish", Joins: []Join{joinPriestDetail}, Expr: "pd.is_mass_english", Kind: KindBool},
		{Name: "priestDetail.massSpanish", Joins: []Join{joinPriestDetail}, Expr: "pd.is_mass_spanish", Kind: KindBool},

		{Name: "residence.city", Joins: []Join{{Table: "address", Alias: "addr_res", On: "addr_res.id = p.residence_address_id"}}, Expr: "addr_res.city"},
		{Name: "residence.state", Joins: []Join{{Table: "address", Alias: "addr_res", On: "addr_res.id = p.residence_address_id"}}, Expr: "addr_res.state"},
		{Name: "mailing.city", Joins: []Join{{Table: "address", Alias: "addr_mail", On: "addr_mail.id = p.mailing_address_id"}}, Expr: "addr_mail.city"},
		{Name: "mailing.state", Joins: []Join{{Table: "address", Alias: "addr_mail", On: "addr_mail.id = p.mailing_address_id"}}, Expr: "addr_mail.state"},

		{Name: "assignment.type", Joins: []Join{joinAssignmentP, joinAssignType}, Expr: "at.title"},
		{Name: "assignment.location", Joins: []Join{joinAssignmentP, joinAssignLoc}, Expr: "aloc.name"},
		{Name: "assignment.dateAssigned", Joins: []Join{joinAssignmentP}, Expr: "a.date_assigned", Kind: KindDate},
		{Name: "assignment.vicariate", Joins: []Join{joinAssignmentP, joinAssignLoc, {Table: "vicariate", Alias: "av", On: "av.id = aloc.vicariate_id"}}, Expr: "av.name"},
		{Name: "assignment.county", Joins: []Join{joinAssignmentP, joinAssignLoc, {Table: "county", Alias: "acty", On: "acty.id = aloc.county_id"}}, Expr: "acty.name"},

		{Name: "status.name", Joins: []Join{
			{Table: "person_status", Alias: "ps", On: "ps.person_id = p.id"},
			{Table: "status", Alias: "st", On: "st.id = ps.status_id"},
		}, Expr: "st.name"},
	}
	return NewRegistry(domain.KindPerson, "person", "p", paths)
}

// NewLocationRegistry enumerates every queryable path on the location base,
// including the per-year statistical columns used by range filters.
func NewLocationRegistry() (*Registry, error) {
	paths := []FieldPath{
		{Name: "type", Expr: "l.type"},
		{Name: "vicariate", Joins: []Join{{Table: "vicariate", Alias: "v", On: "v.id = l.vicariate_id"}}, Expr: "v.name"},
		{Name: "county", Joins: []Join{{Table: "county", Alias: "cty", On: "cty.id = l.county_id"}}, Expr: "cty.name"},

		{Name: "assignment.type", Joins: []Join{joinAssignmentL, joinAssignType}, Expr: "at.title"},

		{Name: "church.cityServed", Joins: []Join{joinChurchDetail}, Expr: "cd.city_served"},
		{Name: "church.childCareProgram", Joins: []Join{joinChurchDetail}, Expr: "cd.has_child_care_day_care", Kind: KindBool},
		{Name: "church.diocesanEntity", Joins: []Join{joinChurchDetail}, Expr: "cd.is_doc", Kind: KindBool},
		{Name: "church.mission", Joins: []Join{joinChurchDetail}, Expr: "cd.is_mission", Kind: KindBool},
		{Name: "church.rectoryCity", Joins: []Join{joinChurchDetail, {Table: "address", Alias: "addr_rect", On: "addr_rect.id = cd.rectory_address_id"}}, Expr: "addr_rect.city"},

		{Name: "language", Joins: []Join{
			{Table: "church_language", Alias: "cl", On: "cl.location_id = l.id"},
			{Table: "language", Alias: "lang", On: "lang.id = cl.language_id"},
		}, Expr: "lang.name"},

		{Name: "physical.city", Joins: []Join{{Table: "address", Alias: "addr_phys", On: "addr_phys.id = l.physical_address_id"}}, Expr: "addr_phys.city"},
		{Name: "physical.state", Joins: []Join{{Table: "address", Alias: "addr_phys", On: "addr_phys.id = l.physical_address_id"}}, Expr: "addr_phys.state"},
		{Name: "mailing.city", Joins: []Join{{Table: "address", Alias: "addr_mail", On: "addr_mail.id = l.mailing_address_id"}}, Expr: "addr_mail.city"},
		{Name: "mailing.state", Joins: []Join{{Table: "address", Alias: "addr_mail", On: "addr_mail.id = l.mailing_address_id"}}, Expr: "addr_mail.state"},

		{Name: "socialOutreach", Joins: []Join{{Table: "social_outreach_program", Alias: "sop", On: "sop.location_id = l.id"}}, Expr: "sop.name"},

		// Derived: distinct assignments at the location held by people with a
		// priest detail. Correlated aggregate, not a stored column.
		{Name: "priestCount", Expr: "(SELECT COUNT(DISTINCT pa.id) FROM assignment pa JOIN priest_detail ppd ON ppd.person_id = pa.person_id WHERE pa.location_id = l.id)", Kind: KindNumber},

		{Name: "offertory.income", Joins: []Join{{Table: "offertory", Alias: "ofr", On: "ofr.location_id = l.id"}}, Expr: "ofr.income", Kind: KindNumber},
		{Name: "octoberMassCount.week1", Joins: []Join{{Table: "october_mass_count", Alias: "omc", On: "omc.location_id = l.id"}}, Expr: "omc.week1", Kind: KindNumber},
	}
	paths = append(paths, statusAnimarumPaths()...)
	return NewRegistry(domain.KindLocation, "location", "l", paths)
}

func statusAnimarumPaths() []FieldPath {
	numeric := []struct{ name, col string }{
		{"fullTimeDeacons", "full_time_deacons"},
		{"fullTimeBrothers", "full_time_brothers"},
		{"fullTimeSisters", "full_time_sisters"},
		{"fullTimeLay", "full_time_other"},
		{"partTimeStaff", "part_time_staff"},
		{"volunteers", "volunteers"},
		{"registeredHouseholds", "registered_households"},
		{"maxMass", "max_mass"},
		{"seatingCapacity", "seating_capacity"},
		{"baptisms1_7", "baptism_age_1_7"},
		{"baptisms8_17", "baptism_age_8_17"},
		{"baptisms18", "baptism_age_18"},
		{"fullCommunionRCIA", "full_communion_rcia"},
		{"firstCommunion", "first_communion"},
		{"confirmation", "confirmation"},
		{"marriagesCatholic", "marriage_catholic"},
		{"marriagesInterfaith", "marriage_interfaith"},
		{"deaths", "deaths"},
		{"childrenInFaithFormation", "children_in_faith_formation"},
		{"kidsPrek5", "school_prek_5"},
		{"kids6_8", "school_grade6_8"},
		{"kids9_12", "school_grade9_12"},
		{"youthMinistry", "youth_ministry"},
		{"adultEducation", "adult_education"},
		{"adultSacramentPrep", "adult_sacrament_prep"},
		{"catechistsPaid", "catechist_paid"},
		{"catechistsVolunteer", "catechist_vol"},
		{"rciaRcic", "rcia_rcic"},
		{"volunteersYouth", "volunteers_working_youth"},
		{"percentAfrican", "percent_african"},
		{"percentAfricanAmerican", "percent_african_american"},
		{"percentAsian", "percent_asian"},
		{"percentHispanic", "percent_hispanic"},
		{"percentAmericanIndian", "percent_american_indian"},
		{"percentOther", "percent_other"},
		{"referralsCatholicCharities", "referrals_catholic_charities"},
	}
	boolean := []struct{ name, col string }{
		{"censusEstimate", "is_census_estimate"},
		{"homeschoolProgram", "has_homeschool_program"},
		{"childCareDayCare", "has_child_care_day_care"},
		{"scoutingProgram", "has_scouting_program"},
		{"chapelOnCampus", "has_chapel_on_campus"},
		{"adorationChapelOnCampus", "has_adoration_chapel_on_campus"},
		{"columbarium", "has_columbarium"},
		{"cemetery", "has_cemetery"},
		{"schoolOnSite", "has_school_on_site"},
		{"nonParochialSchoolUsingFacilities", "is_non_parochial_school_using_facilities"},
	}

	paths := make([]FieldPath, 0, len(numeric)+len(boolean))
	for _, c := range numeric {
		paths = append(paths, FieldPath{
			Name:  "statusAnimarum." + c.name,
			Joins: []Join{joinStatusAnim},
			Expr:  fmt.Sprintf("sa.%s", c.col),
			Kind:  KindNumber,
		})
	}
	for _, c := range boolean {
		paths = append(paths, FieldPath{
			Name:  "statusAnimarum." + c.name,
			Joins: []Join{joinStatusAnim},
			Expr:  fmt.Sprintf("sa.%s", c.col),
			Kind:  KindBool,
		})
	}
	return paths
}

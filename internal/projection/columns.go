package projection

import "github.com/cryptadb/crypta/internal/domain"

// Grid column tables: the display fields each base kind exposes, the
// queryable path behind each (empty when the field is projection-only)
// and the category the UI groups it under.

func col(title, sqlField, category string) domain.Column {
	return domain.Column{Title: title, Field: title, SQLField: sqlField, Category: category}
}

// PersonColumns returns the person grid column set.
func PersonColumns() []domain.Column {
	return []domain.Column{
		col("Full Name", "", "Primary Info"),
		col("Person Type", "personType", "Primary Info"),
		col("Retirement Date", "dateRetired", "Primary Info"),
		col("Deceased Date", "dateDeceased", "Primary Info"),
		col("Status History", "status.name", "Primary Info"),
		col("Titles", "", "Primary Info"),
		col("Assignments", "assignment.type", "Primary Info"),
		col("Active Assignments", "", "Primary Info"),
		col("Diocesan/Religious", "priestDetail.diocesanReligious", "Primary Info"),

		col("Residence Addr", "", "Contact Info"),
		col("Residence City", "residence.city", "Contact Info"),
		col("Residence State", "residence.state", "Contact Info"),
		col("Residence Zip Code", "", "Contact Info"),
		col("Residence Country", "", "Contact Info"),
		col("Mailing Address", "", "Contact Info"),
		col("Mailing City", "mailing.city", "Contact Info"),
		col("Mailing State", "mailing.state", "Contact Info"),
		col("Mailing Zip Code", "", "Contact Info"),
		col("Mailing Country", "", "Contact Info"),
		col("Personal Emails", "", "Contact Info"),
		col("Parish Emails", "", "Contact Info"),
		col("Diocesan Emails", "", "Contact Info"),
		col("Cell Phones", "", "Contact Info"),
		col("Home Phones", "", "Contact Info"),

		col("Birth Date", "", "Birth/Sacraments"),
		col("Baptism Date", "dateBaptism", "Birth/Sacraments"),
		col("Priest Ordination", "", "Birth/Sacraments"),
		col("Place of Baptism", "", "Birth/Sacraments"),
		col("Birth (City,State)", "", "Birth/Sacraments"),

		col("Safe Env Trng", "safeEnvironmentTraining", "Standing in Diocese"),
		col("Paid Employee", "", "Standing in Diocese"),
		col("Is Priest?", "", "Standing in Diocese"),
		col("Is Deacon?", "", "Standing in Diocese"),
		col("Is Lay?", "", "Standing in Diocese"),
		col("Legal Status", "legalStatus", "Standing in Diocese"),
		col("Residency Type", "residencyType", "Standing in Diocese"),
		col("Active Outside DOC", "activeOutsideDOC", "Standing in Diocese"),

		col("Languages", "", "Degrees/Skills/Lang"),
		col("Degrees", "", "Degrees/Skills/Lang"),
		col("Faculties Grants", "", "Degrees/Skills/Lang"),

		col("First Name", "", "Name Details"),
		col("Middle Name", "", "Name Details"),
		col("Last Name", "", "Name Details"),
		col("Prefix", "prefix", "Name Details"),
		col("Suffix", "", "Name Details"),

		col("Relationships", "", "Emergency Info"),
		col("Priest Notes", "", "Emergency Info"),
	}
}

// LocationColumns returns the location grid column set, including the
// Statistics columns the Stats Summarizer ranges over.
func LocationColumns() []domain.Column {
	cols := []domain.Column{
		col("Name", "", "Primary Info"),
		col("Type", "type", "Primary Info"),
		col("Vicariate", "vicariate", "Primary Info"),
		col("County", "county", "Primary Info"),
		col("Website", "", "Primary Info"),
		col("Emails", "", "Primary Info"),
		col("Phones", "", "Primary Info"),
		col("Parish Name", "", "Primary Info"),
		col("Is Mission", "church.mission", "Primary Info"),
		col("City Served", "church.cityServed", "Primary Info"),
		col("Date Established", "", "Primary Info"),
		col("First Dedication", "", "Primary Info"),
		col("Second Dedication", "", "Primary Info"),
		col("Missions", "", "Primary Info"),

		col("Physical Addr", "", "Location Info"),
		col("Mailing Addr", "", "Location Info"),
		col("Church Notes", "", "Location Info"),
		col("School Code", "", "Location Info"),
		col("School Type", "", "Location Info"),
		col("Grade Levels", "", "Location Info"),
		col("Affiliated Parish", "", "Location Info"),
		col("MACS School", "", "Location Info"),
		col("Canonical Status", "", "Location Info"),
		col("Chapel on Site", "", "Location Info"),

		col("Mass Languages", "language", "Masses/Ministries"),
		col("Campus Mass At Parish", "", "Masses/Ministries"),
		col("Served By", "", "Masses/Ministries"),
		col("University Served", "", "Masses/Ministries"),
		col("Mass Schedule", "", "Masses/Ministries"),
		col("Hours", "", "Masses/Ministries"),
		col("Facility Type", "", "Masses/Ministries"),
		col("Diocese", "", "Masses/Ministries"),
		col("Parish Boundary", "", "Masses/Ministries"),
		col("Is Other Entity", "", "Masses/Ministries"),
		col("Social Outreach Programs", "socialOutreach", "Masses/Ministries"),

		col("# Deacons", "statusAnimarum.fullTimeDeacons", "Staff"),
		col("# Brothers", "statusAnimarum.fullTimeBrothers", "Staff"),
		col("# Sisters", "statusAnimarum.fullTimeSisters", "Staff"),
		col("# Lay", "statusAnimarum.fullTimeLay", "Staff"),
		col("# Staff", "statusAnimarum.partTimeStaff", "Staff"),
	}

	stats := []struct{ title, sqlField string }{
		{"Registered Households", "statusAnimarum.registeredHouseholds"},
		{"Max Mass Size", "statusAnimarum.maxMass"},
		{"Seating Capacity", "statusAnimarum.seatingCapacity"},
		{"Baptisms 1-7", "statusAnimarum.baptisms1_7"},
		{"Baptisms 8-17", "statusAnimarum.baptisms8_17"},
		{"Baptisms 18+", "statusAnimarum.baptisms18"},
		{"Full Communion RCIA", "statusAnimarum.fullCommunionRCIA"},
		{"First Communion", "statusAnimarum.firstCommunion"},
		{"Confirmation", "statusAnimarum.confirmation"},
		{"Catholic Marriages", "statusAnimarum.marriagesCatholic"},
		{"Interfaith Marriages", "statusAnimarum.marriagesInterfaith"},
		{"Deaths", "statusAnimarum.deaths"},
		{"Children in Faith Formation", "statusAnimarum.childrenInFaithFormation"},
		{"Kids: PreK - 5", "statusAnimarum.kidsPrek5"},
		{"Kids: 6-8", "statusAnimarum.kids6_8"},
		{"Kids: 9-12", "statusAnimarum.kids9_12"},
		{"Youth Ministry", "statusAnimarum.youthMinistry"},
		{"Adult Education", "statusAnimarum.adultEducation"},
		{"Adult Sacrament Prep", "statusAnimarum.adultSacramentPrep"},
		{"# Paid Catechists", "statusAnimarum.catechistsPaid"},
		{"# Volunteer Catechists", "statusAnimarum.catechistsVolunteer"},
		{"RCIA/RCIC", "statusAnimarum.rciaRcic"},
		{"# Volunteers Youth", "statusAnimarum.volunteersYouth"},
		{"% African", "statusAnimarum.percentAfrican"},
		{"% African-American", "statusAnimarum.percentAfricanAmerican"},
		{"% Asian", "statusAnimarum.percentAsian"},
		{"% Hispanic", "statusAnimarum.percentHispanic"},
		{"% American-Indian", "statusAnimarum.percentAmericanIndian"},
		{"% Other", "statusAnimarum.percentOther"},
		{"Volunteers", "statusAnimarum.volunteers"},
		{"Estimate Census?", "statusAnimarum.censusEstimate"},
		{"# Referrals to Catholic Charities", "statusAnimarum.referralsCatholicCharities"},
		{"HomeSchool Program?", "statusAnimarum.homeschoolProgram"},
		{"Child Care Day Care?", "statusAnimarum.childCareDayCare"},
		{"Scouting Program?", "statusAnimarum.scoutingProgram"},
		{"Chapel on Campus?", "statusAnimarum.chapelOnCampus"},
		{"Adoration Chapel on Campus?", "statusAnimarum.adorationChapelOnCampus"},
		{"Columbarium on Site?", "statusAnimarum.columbarium"},
		{"Cemetery on Site?", "statusAnimarum.cemetery"},
		{"School on Site?", "statusAnimarum.schoolOnSite"},
		{"NonParochial School Using Facilities?", "statusAnimarum.nonParochialSchoolUsingFacilities"},
		{"Priest Count", "priestCount"},
		{"Offertory", "offertory.income"},
		{"October Mass Count", "octoberMassCount.week1"},
	}
	for _, s := range stats {
		cols = append(cols, col(s.title, s.sqlField, "Statistics"))
	}
	return cols
}

// StatDisplayToPath derives the stats display-name → queryable-path table
// from the Statistics columns, so range filters and the grid stay in sync.
func StatDisplayToPath() map[string]string {
	out := make(map[string]string)
	for _, c := range LocationColumns() {
		if c.Category == "Statistics" && c.SQLField != "" {
			out[c.Title] = c.SQLField
		}
	}
	return out
}

package projection

import "github.com/cryptadb/crypta/internal/domain"

// Location flattens a location, its type-specific detail and its latest
// statistical records into a display record. The detail variants are a
// closed set; exactly one applies per location type.
func (p *Projector) Location(loc *domain.Location, allowed []string) domain.ProjectedRecord {
	rec := domain.ProjectedRecord{
		"id":        loc.ID,
		"Name":      loc.Name,
		"Type":      loc.Type,
		"Website":   loc.Website,
		"Vicariate": loc.Vicariate,
		"County":    loc.County,

		"Physical Addr": loc.Physical.OneLine(),
		"Mailing Addr":  loc.Mailing.OneLine(),

		"Emails": joinAllContacts(loc.Emails),
		"Phones": joinAllContacts(loc.Phones),

		"Mass Languages":           joinStrings(loc.Languages),
		"Social Outreach Programs": joinStrings(loc.SocialOutreachPrograms),

		"Status History": joinHistory(loc.Statuses),
		"Assignments":    p.joinAssignmentPeople(loc.Assignments),

		"Priest Count": loc.PriestCount,
	}

	p.projectDetail(rec, loc.Detail)
	p.projectStatistics(rec, loc)

	return p.finish(rec, allowed)
}

// joinAssignmentPeople renders who serves at the location.
func (p *Projector) joinAssignmentPeople(assignments []domain.Assignment) string {
	today := p.now()
	parts := make([]string, 0, len(assignments))
	for _, a := range assignments {
		if !a.ActiveOn(today) {
			continue
		}
		label := a.Type
		if a.PersonName != "" {
			label += ": " + a.PersonName
		}
		parts = append(parts, label)
	}
	return joinStrings(parts)
}

func (p *Projector) projectDetail(rec domain.ProjectedRecord, detail domain.LocationDetail) {
	switch d := detail.(type) {
	case domain.ChurchDetail:
		rec["Parish Name"] = d.ParishUniqueName
		rec["Is Mission"] = d.Mission
		rec["City Served"] = d.CityServed
		rec["Missions"] = d.MissionOf
		rec["Date Established"] = formatDate(d.DateEstablished)
		rec["First Dedication"] = formatDate(d.DateFirstDedication)
		rec["Second Dedication"] = formatDate(d.DateSecondDedication)
		rec["Church Notes"] = d.Notes
	case domain.SchoolDetail:
		rec["School Code"] = d.SchoolCode
		rec["School Type"] = d.SchoolType
		rec["Grade Levels"] = d.GradeLevels
		rec["Affiliated Parish"] = d.AffiliatedParish
		rec["MACS School"] = d.MACS
		rec["Canonical Status"] = d.CanonicalStatus
		rec["Chapel on Site"] = boolValue(d.HasChapel)
	case domain.CampusMinistryDetail:
		rec["Campus Mass At Parish"] = d.MassAtParish
		rec["Served By"] = d.ServedBy
		rec["University Served"] = d.UniversityServed
		rec["Mass Schedule"] = d.SundayMassSchedule
		rec["Hours"] = d.CampusMinistryHours
	case domain.HospitalDetail:
		rec["Facility Type"] = d.FacilityType
		rec["Diocese"] = d.Diocese
		rec["Parish Boundary"] = d.ParishBoundary
	case domain.OtherEntityDetail:
		rec["Is Other Entity"] = true
	}
}

// projectStatistics merges the most recent year's StatusAnimarum report,
// offertory income and summed October mass count. Most recent means
// descending year order, first row.
func (p *Projector) projectStatistics(rec domain.ProjectedRecord, loc *domain.Location) {
	if sa := loc.LatestStatusAnimarum(); sa != nil {
		rec["# Deacons"] = sa.FullTimeDeacons
		rec["# Brothers"] = sa.FullTimeBrothers
		rec["# Sisters"] = sa.FullTimeSisters
		rec["# Lay"] = sa.FullTimeOther
		rec["# Staff"] = sa.PartTimeStaff
		rec["Volunteers"] = sa.Volunteers

		rec["Registered Households"] = sa.RegisteredHouseholds
		rec["Max Mass Size"] = sa.MaxMass
		rec["Seating Capacity"] = sa.SeatingCapacity

		rec["Baptisms 1-7"] = sa.BaptismAge1_7
		rec["Baptisms 8-17"] = sa.BaptismAge8_17
		rec["Baptisms 18+"] = sa.BaptismAge18

		rec["Full Communion RCIA"] = sa.FullCommunionRCIA
		rec["First Communion"] = sa.FirstCommunion
		rec["Confirmation"] = sa.Confirmation

		rec["Catholic Marriages"] = sa.MarriageCatholic
		rec["Interfaith Marriages"] = sa.MarriageInterfaith
		rec["Deaths"] = sa.Deaths

		rec["Children in Faith Formation"] = sa.ChildrenInFaithFormation
		rec["Kids: PreK - 5"] = sa.SchoolPreK5
		rec["Kids: 6-8"] = sa.SchoolGrade6_8
		rec["Kids: 9-12"] = sa.SchoolGrade9_12
		rec["Youth Ministry"] = sa.YouthMinistry
		rec["Adult Education"] = sa.AdultEducation
		rec["Adult Sacrament Prep"] = sa.AdultSacramentPrep
		rec["# Paid Catechists"] = sa.CatechistPaid
		rec["# Volunteer Catechists"] = sa.CatechistVol
		rec["RCIA/RCIC"] = sa.RCIARCIC
		rec["# Volunteers Youth"] = sa.VolunteersWorkingYouth

		rec["% African"] = sa.PercentAfrican
		rec["% African-American"] = sa.PercentAfricanAmerican
		rec["% Asian"] = sa.PercentAsian
		rec["% Hispanic"] = sa.PercentHispanic
		rec["% American-Indian"] = sa.PercentAmericanIndian
		rec["% Other"] = sa.PercentOther

		rec["Estimate Census?"] = sa.CensusEstimate
		if sa.ReferralsCatholicCharities != nil {
			rec["# Referrals to Catholic Charities"] = *sa.ReferralsCatholicCharities
		}

		rec["HomeSchool Program?"] = sa.HasHomeschoolProgram
		rec["Child Care Day Care?"] = sa.HasChildCareDayCare
		rec["Scouting Program?"] = sa.HasScoutingProgram
		rec["Chapel on Campus?"] = sa.HasChapelOnCampus
		rec["Adoration Chapel on Campus?"] = sa.HasAdorationChapelOnCampus
		rec["Columbarium on Site?"] = sa.HasColumbarium
		rec["Cemetery on Site?"] = sa.HasCemetery
		rec["School on Site?"] = sa.HasSchoolOnSite
		rec["NonParochial School Using Facilities?"] = sa.NonParochialSchoolUsingFacilities
	}

	if o := loc.LatestOffertory(); o != nil {
		rec["Offertory"] = o.Income
	}
	if c := loc.LatestOctoberMassCount(); c != nil {
		rec["October Mass Count"] = c.Total()
	}
}

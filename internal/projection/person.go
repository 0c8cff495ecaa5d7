package projection

import (
	"strings"

	"github.com/cryptadb/crypta/internal/domain"
)

// Person flattens a person and their related collections into a display
// record. Missing related objects project as empty strings, never nil
// dereferences.
func (p *Projector) Person(person *domain.Person, allowed []string) domain.ProjectedRecord {
	rec := domain.ProjectedRecord{
		"id":          person.ID,
		"Full Name":   person.FullName(),
		"First Name":  person.FirstName,
		"Middle Name": person.MiddleName,
		"Last Name":   person.LastName,
		"Prefix":      person.Prefix,
		"Suffix":      person.Suffix,
		"Person Type": person.PersonType,

		"Residency Type":     person.ResidencyType,
		"Active Outside DOC": person.ActiveOutsideDOC,
		"Legal Status":       person.LegalStatus,

		"Birth Date":      formatDate(person.DateBirth),
		"Baptism Date":    formatDate(person.DateBaptism),
		"Retirement Date": formatDate(person.DateRetired),
		"Deceased Date":   formatDate(person.DateDeceased),

		"Safe Env Trng": boolValue(person.SafeEnvironmentTraining),
		"Paid Employee": person.PaidEmployee,

		"Is Priest?": strings.EqualFold(person.PersonType, "priest"),
		"Is Deacon?": strings.EqualFold(person.PersonType, "deacon"),
		"Is Lay?":    strings.EqualFold(person.PersonType, "lay"),
	}

	projectAddress(rec, "Residence", person.Residence)
	projectAddress(rec, "Mailing", person.Mailing)
	rec["Residence Addr"] = person.Residence.OneLine()
	rec["Mailing Address"] = person.Mailing.OneLine()

	rec["Personal Emails"] = joinContacts(person.Emails, "Personal")
	rec["Parish Emails"] = joinContacts(person.Emails, "Parish")
	rec["Diocesan Emails"] = joinContacts(person.Emails, "Diocesan")
	rec["Cell Phones"] = joinContacts(person.Phones, "Cell")
	rec["Home Phones"] = joinContacts(person.Phones, "Home")

	rec["Languages"] = joinStrings(person.Languages)
	rec["Status History"] = joinHistory(person.Statuses)
	rec["Titles"] = joinHistory(person.Titles)
	rec["Faculties Grants"] = joinHistory(person.FacultiesGrants)
	rec["Degrees"] = p.joinDegrees(person.Degrees)

	rec["Assignments"] = p.joinAssignments(person.Assignments, false)
	rec["Active Assignments"] = p.joinAssignments(person.Assignments, true)
	rec["Relationships"] = p.joinRelationships(person)

	if pd := person.PriestDetail; pd != nil {
		rec["Diocesan/Religious"] = pd.DiocesanReligious
		rec["Priest Ordination"] = formatDate(pd.DateOrdination)
		rec["Place of Baptism"] = pd.PlaceOfBaptism
		rec["Birth (City,State)"] = joinNonEmpty(", ", pd.BirthCity, pd.BirthState)
		rec["Priest Notes"] = pd.Notes
	} else {
		rec["Diocesan/Religious"] = ""
		rec["Priest Ordination"] = ""
		rec["Place of Baptism"] = ""
		rec["Birth (City,State)"] = ""
		rec["Priest Notes"] = ""
	}

	return p.finish(rec, allowed)
}

func projectAddress(rec domain.ProjectedRecord, prefix string, addr *domain.Address) {
	city, state, zip, country := "", "", "", ""
	if addr != nil {
		city, state, zip, country = addr.City, addr.State, addr.ZipCode, addr.Country
	}
	rec[prefix+" City"] = city
	rec[prefix+" State"] = state
	rec[prefix+" Zip Code"] = zip
	rec[prefix+" Country"] = country
}

// joinAssignments renders assignment history rows as
// "{type} at {location} ({start} → {end|present})". activeOnly narrows to
// the rows whose window covers today.
func (p *Projector) joinAssignments(assignments []domain.Assignment, activeOnly bool) string {
	today := p.now()
	parts := make([]string, 0, len(assignments))
	for _, a := range assignments {
		if activeOnly && !a.ActiveOn(today) {
			continue
		}
		label := a.Type
		if a.LocationName != "" {
			label += " at " + a.LocationName
		}
		parts = append(parts, label+" ("+formatWindow(a.DateAssigned, a.DateReleased)+")")
	}
	return strings.Join(parts, "; ")
}

// joinRelationships shows the other person's name regardless of which
// direction the row was stored in.
func (p *Projector) joinRelationships(person *domain.Person) string {
	parts := make([]string, 0, len(person.Relationships))
	for _, r := range person.Relationships {
		other := r.OtherName(person.ID)
		if other == "" {
			continue
		}
		parts = append(parts, r.Type+": "+other)
	}
	return strings.Join(parts, "; ")
}

func (p *Projector) joinDegrees(degrees []domain.Degree) string {
	parts := make([]string, 0, len(degrees))
	for _, d := range degrees {
		label := d.DegreeType
		if d.Subject != "" {
			label = joinNonEmpty(" in ", label, d.Subject)
		}
		if d.Institute != "" {
			label += ", " + d.Institute
		}
		if d.DateAcquired != nil {
			label += " (" + formatDate(d.DateAcquired) + ")"
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, "; ")
}

func joinNonEmpty(sep string, vals ...string) string {
	parts := make([]string, 0, len(vals))
	for _, v := range vals {
		if v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, sep)
}

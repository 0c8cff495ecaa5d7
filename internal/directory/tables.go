package directory

import "github.com/cryptadb/crypta/internal/domain"

// DefaultFacetFields lists, in display order, the field paths each base
// exposes as facets in the filter panel.
func DefaultFacetFields() map[domain.EntityKind][]string {
	return map[domain.EntityKind][]string{
		domain.KindPerson: {
			"personType",
			"assignment.county",
			"assignment.location",
			"assignment.type",
			"dateBaptism",
			"safeEnvironmentTraining",
			"dateDeceased",
			"priestDetail.diocesanReligious",
			"legalStatus",
			"activeOutsideDOC",
			"mailing.city",
			"mailing.state",
			"priestDetail.massEnglish",
			"priestDetail.massSpanish",
			"prefix",
			"residencyType",
			"dateRetired",
			"residence.city",
			"residence.state",
			"status.name",
			"assignment.dateAssigned",
			"assignment.vicariate",
		},
		domain.KindLocation: {
			"type",
			"assignment.type",
			"church.cityServed",
			"church.childCareProgram",
			"county",
			"church.diocesanEntity",
			"church.mission",
			"language",
			"physical.city",
			"physical.state",
			"mailing.city",
			"mailing.state",
			"church.rectoryCity",
			"socialOutreach",
			"vicariate",
		},
	}
}

// DefaultFacetLabels maps facet field paths to the display labels the UI
// shows. Paths absent here fall back to a mechanical transform.
func DefaultFacetLabels() map[string]string {
	return map[string]string{
		"personType":                     "Person Type",
		"prefix":                         "Prefix",
		"residencyType":                  "Residency Type",
		"activeOutsideDOC":               "Active Outside DOC",
		"legalStatus":                    "Legal Status",
		"priestDetail.diocesanReligious": "Diocesan/Religious",
		"priestDetail.massEnglish":       "Mass in English",
		"priestDetail.massSpanish":       "Mass in Spanish",
		"safeEnvironmentTraining":        "Completed Safe Environment Training",
		"dateBaptism":                    "Baptism Date",
		"dateDeceased":                   "Date Deceased",
		"dateRetired":                    "Retirement Date",
		"residence.city":                 "Residence: City",
		"residence.state":                "Residence: State",
		"assignment.type":                "Assignment Type",
		"assignment.location":            "Assignment Location",
		"assignment.dateAssigned":        "Status Assigned",
		"assignment.vicariate":           "Vicariate",
		"assignment.county":              "Assignment County",
		"status.name":                    "Status",

		"type":                    "Location Type",
		"physical.city":           "Physical City",
		"physical.state":          "Physical State",
		"mailing.city":            "Mailing City",
		"mailing.state":           "Mailing State",
		"vicariate":               "Vicariate",
		"county":                  "County",
		"church.cityServed":       "City Served",
		"church.diocesanEntity":   "Diocesan Entity",
		"church.mission":          "Mission",
		"church.rectoryCity":      "Rectory City",
		"church.childCareProgram": "Child Care Program",
		"language":                "Language Options",
		"socialOutreach":          "Social Outreach Programs",
	}
}

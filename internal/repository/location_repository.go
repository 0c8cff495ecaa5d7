package repository

import (
	"context"
	"fmt"

	"github.com/cryptadb/crypta/internal/domain"
	"github.com/cryptadb/crypta/internal/query"

	"github.com/jackc/pgx/v5/pgxpool"
)

type locationRepository struct {
	pool *pgxpool.Pool
}

// NewLocationRepository creates a PostgreSQL-backed location repository.
func NewLocationRepository(pool *pgxpool.Pool) LocationRepository {
	return &locationRepository{pool: pool}
}

func (r *locationRepository) ListIDs(ctx context.Context, q *query.EntityQuery) ([]int64, error) {
	if q.DeniesAll() {
		return nil, nil
	}
	sql, args := q.IDQuery()
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list location ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan location id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *locationRepository) Search(ctx context.Context, q *query.EntityQuery, term string) ([]domain.SearchHit, error) {
	if q.DeniesAll() {
		return nil, nil
	}
	sql, args := q.SearchQuery("l.id, l.name", []string{"l.name"}, term)
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search locations: %w", err)
	}
	defer rows.Close()

	var hits []domain.SearchHit
	for rows.Next() {
		var hit domain.SearchHit
		if err := rows.Scan(&hit.ID, &hit.Name); err != nil {
			return nil, fmt.Errorf("failed to scan location search row: %w", err)
		}
		hits = append(hits, hit)
	}
	return hits, rows.Err()
}

func (r *locationRepository) GetByIDs(ctx context.Context, ids []int64) ([]domain.Location, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	locations := make(map[int64]*domain.Location, len(ids))

	if err := r.loadCore(ctx, ids, locations); err != nil {
		return nil, err
	}
	loaders := []func(context.Context, []int64, map[int64]*domain.Location) error{
		r.loadDetails,
		r.loadContactsAndStatuses,
		r.loadLanguages,
		r.loadOutreachPrograms,
		r.loadAssignments,
		r.loadStatusAnimarum,
		r.loadOffertories,
		r.loadOctoberMassCounts,
		r.loadPriestCounts,
	}
	for _, load := range loaders {
		if err := load(ctx, ids, locations); err != nil {
			return nil, err
		}
	}

	out := make([]domain.Location, 0, len(locations))
	for _, id := range ids {
		if l, ok := locations[id]; ok {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (r *locationRepository) loadCore(ctx context.Context, ids []int64, locations map[int64]*domain.Location) error {
	sql := `SELECT l.id, l.name, l.type, l.website, l.latitude, l.longitude,
		v.name, cty.name,
		pa.id, pa.address1, pa.address2, pa.city, pa.state, pa.zip_code, pa.country,
		ma.id, ma.address1, ma.address2, ma.city, ma.state, ma.zip_code, ma.country
	FROM location l
	LEFT JOIN vicariate v ON v.id = l.vicariate_id
	LEFT JOIN county cty ON cty.id = l.county_id
	LEFT JOIN address pa ON pa.id = l.physical_address_id
	LEFT JOIN address ma ON ma.id = l.mailing_address_id
	WHERE l.id = ANY($1)`

	rows, err := r.pool.Query(ctx, sql, ids)
	if err != nil {
		return fmt.Errorf("failed to load locations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			l                  domain.Location
			website            *string
			vicariate, county  *string
			phys, mail         addressRow
		)
		if err := rows.Scan(&l.ID, &l.Name, &l.Type, &website, &l.Latitude, &l.Longitude,
			&vicariate, &county,
			&phys.id, &phys.address1, &phys.address2, &phys.city, &phys.state, &phys.zip, &phys.country,
			&mail.id, &mail.address1, &mail.address2, &mail.city, &mail.state, &mail.zip, &mail.country,
		); err != nil {
			return fmt.Errorf("failed to scan location: %w", err)
		}
		l.Website = deref(website)
		l.Vicariate = deref(vicariate)
		l.County = deref(county)
		l.Physical = phys.toAddress()
		l.Mailing = mail.toAddress()
		locations[l.ID] = &l
	}
	return rows.Err()
}

// loadDetails probes the five detail tables and attaches the variant
// matching each location. The sets are disjoint by construction; the
// variant type makes the alternatives explicit.
func (r *locationRepository) loadDetails(ctx context.Context, ids []int64, locations map[int64]*domain.Location) error {
	if err := r.loadChurchDetails(ctx, ids, locations); err != nil {
		return err
	}
	if err := r.loadSchoolDetails(ctx, ids, locations); err != nil {
		return err
	}
	if err := r.loadCampusMinistryDetails(ctx, ids, locations); err != nil {
		return err
	}
	if err := r.loadHospitalDetails(ctx, ids, locations); err != nil {
		return err
	}
	// Locations with no detail row of their own type get the other-entity
	// marker when typed as such.
	for _, l := range locations {
		if l.Detail == nil && l.Type == "other_entity" {
			l.Detail = domain.OtherEntityDetail{}
		}
	}
	return nil
}

func (r *locationRepository) loadChurchDetails(ctx context.Context, ids []int64, locations map[int64]*domain.Location) error {
	sql := `SELECT cd.location_id, cd.parish_unique_name, cd.is_mission, cd.is_doc, cd.city_served,
		mo.name, cd.has_child_care_day_care,
		cd.date_established, cd.date_first_dedication, cd.date_second_dedication, cd.notes,
		ra.id, ra.address1, ra.address2, ra.city, ra.state, ra.zip_code, ra.country
	FROM church_detail cd
	LEFT JOIN location mo ON mo.id = cd.mission_of_id
	LEFT JOIN address ra ON ra.id = cd.rectory_address_id
	WHERE cd.location_id = ANY($1)`

	rows, err := r.pool.Query(ctx, sql, ids)
	if err != nil {
		return fmt.Errorf("failed to load church details: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			locationID          int64
			d                   domain.ChurchDetail
			cityServed, notes   *string
			missionOf           *string
			rectory             addressRow
		)
		if err := rows.Scan(&locationID, &d.ParishUniqueName, &d.Mission, &d.DiocesanEntity, &cityServed,
			&missionOf, &d.HasChildCareDayCare,
			&d.DateEstablished, &d.DateFirstDedication, &d.DateSecondDedication, &notes,
			&rectory.id, &rectory.address1, &rectory.address2, &rectory.city, &rectory.state, &rectory.zip, &rectory.country,
		); err != nil {
			return fmt.Errorf("failed to scan church detail: %w", err)
		}
		d.CityServed = deref(cityServed)
		d.MissionOf = deref(missionOf)
		d.Notes = deref(notes)
		d.RectoryAddress = rectory.toAddress()
		if l, ok := locations[locationID]; ok {
			l.Detail = d
		}
	}
	return rows.Err()
}

func (r *locationRepository) loadSchoolDetails(ctx context.Context, ids []int64, locations map[int64]*domain.Location) error {
	sql := `SELECT sd.location_id, sd.school_code, sd.school_type, sd.grade_levels,
		ap.name, sd.is_macs, sd.canonical_status, sd.is_school_chapel
	FROM school_detail sd
	LEFT JOIN location ap ON ap.id = sd.affiliated_parish_id
	WHERE sd.location_id = ANY($1)`

	rows, err := r.pool.Query(ctx, sql, ids)
	if err != nil {
		return fmt.Errorf("failed to load school details: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			locationID        int64
			d                 domain.SchoolDetail
			affiliated, canon *string
		)
		if err := rows.Scan(&locationID, &d.SchoolCode, &d.SchoolType, &d.GradeLevels,
			&affiliated, &d.MACS, &canon, &d.HasChapel); err != nil {
			return fmt.Errorf("failed to scan school detail: %w", err)
		}
		d.AffiliatedParish = deref(affiliated)
		d.CanonicalStatus = deref(canon)
		if l, ok := locations[locationID]; ok {
			l.Detail = d
		}
	}
	return rows.Err()
}

func (r *locationRepository) loadCampusMinistryDetails(ctx context.Context, ids []int64, locations map[int64]*domain.Location) error {
	sql := `SELECT cm.location_id, cm.is_mass_at_parish, ch.name, cm.university_served,
		cm.sunday_mass_schedule, cm.campus_ministry_hours
	FROM campus_ministry_detail cm
	LEFT JOIN location ch ON ch.id = cm.church_id
	WHERE cm.location_id = ANY($1)`

	rows, err := r.pool.Query(ctx, sql, ids)
	if err != nil {
		return fmt.Errorf("failed to load campus ministry details: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			locationID                       int64
			d                                domain.CampusMinistryDetail
			served, university, sched, hours *string
		)
		if err := rows.Scan(&locationID, &d.MassAtParish, &served, &university, &sched, &hours); err != nil {
			return fmt.Errorf("failed to scan campus ministry detail: %w", err)
		}
		d.ServedBy = deref(served)
		d.UniversityServed = deref(university)
		d.SundayMassSchedule = deref(sched)
		d.CampusMinistryHours = deref(hours)
		if l, ok := locations[locationID]; ok {
			l.Detail = d
		}
	}
	return rows.Err()
}

func (r *locationRepository) loadHospitalDetails(ctx context.Context, ids []int64, locations map[int64]*domain.Location) error {
	sql := `SELECT hd.location_id, hd.facility_type, hd.diocese, pb.name
	FROM hospital_detail hd
	LEFT JOIN location pb ON pb.id = hd.parish_boundary_id
	WHERE hd.location_id = ANY($1)`

	rows, err := r.pool.Query(ctx, sql, ids)
	if err != nil {
		return fmt.Errorf("failed to load hospital details: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			locationID int64
			d          domain.HospitalDetail
			boundary   *string
		)
		if err := rows.Scan(&locationID, &d.FacilityType, &d.Diocese, &boundary); err != nil {
			return fmt.Errorf("failed to scan hospital detail: %w", err)
		}
		d.ParishBoundary = deref(boundary)
		if l, ok := locations[locationID]; ok {
			l.Detail = d
		}
	}
	return rows.Err()
}

func (r *locationRepository) loadContactsAndStatuses(ctx context.Context, ids []int64, locations map[int64]*domain.Location) error {
	emailSQL := `SELECT le.location_id, et.name, le.email, le.is_primary
	FROM location_email le JOIN email_type et ON et.id = le.email_type_id
	WHERE le.location_id = ANY($1) ORDER BY le.id`
	if err := r.loadContacts(ctx, ids, locations, emailSQL,
		func(l *domain.Location, c domain.TypedContact) { l.Emails = append(l.Emails, c) }); err != nil {
		return err
	}

	phoneSQL := `SELECT lp.location_id, pt.name, lp.phone_number, lp.is_primary
	FROM location_phone lp JOIN phone_type pt ON pt.id = lp.phone_type_id
	WHERE lp.location_id = ANY($1) ORDER BY lp.id`
	if err := r.loadContacts(ctx, ids, locations, phoneSQL,
		func(l *domain.Location, c domain.TypedContact) { l.Phones = append(l.Phones, c) }); err != nil {
		return err
	}

	statusSQL := `SELECT ls.location_id, st.name, ls.date_assigned, ls.date_released, ls.details
	FROM location_status ls JOIN status st ON st.id = ls.status_id
	WHERE ls.location_id = ANY($1) ORDER BY ls.date_assigned DESC`
	rows, err := r.pool.Query(ctx, statusSQL, ids)
	if err != nil {
		return fmt.Errorf("failed to load location statuses: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			locationID int64
			e          domain.DatedEntry
			details    *string
		)
		if err := rows.Scan(&locationID, &e.Name, &e.DateAssigned, &e.DateReleased, &details); err != nil {
			return fmt.Errorf("failed to scan location status: %w", err)
		}
		e.Details = deref(details)
		if l, ok := locations[locationID]; ok {
			l.Statuses = append(l.Statuses, e)
		}
	}
	return rows.Err()
}

func (r *locationRepository) loadContacts(ctx context.Context, ids []int64, locations map[int64]*domain.Location,
	sql string, add func(*domain.Location, domain.TypedContact)) error {
	rows, err := r.pool.Query(ctx, sql, ids)
	if err != nil {
		return fmt.Errorf("failed to load location contacts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			locationID int64
			c          domain.TypedContact
		)
		if err := rows.Scan(&locationID, &c.Type, &c.Value, &c.Primary); err != nil {
			return fmt.Errorf("failed to scan location contact: %w", err)
		}
		if l, ok := locations[locationID]; ok {
			add(l, c)
		}
	}
	return rows.Err()
}

func (r *locationRepository) loadLanguages(ctx context.Context, ids []int64, locations map[int64]*domain.Location) error {
	sql := `SELECT cl.location_id, lang.name
	FROM church_language cl JOIN language lang ON lang.id = cl.language_id
	WHERE cl.location_id = ANY($1) ORDER BY lang.name`

	rows, err := r.pool.Query(ctx, sql, ids)
	if err != nil {
		return fmt.Errorf("failed to load location languages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			locationID int64
			name       string
		)
		if err := rows.Scan(&locationID, &name); err != nil {
			return fmt.Errorf("failed to scan location language: %w", err)
		}
		if l, ok := locations[locationID]; ok {
			l.Languages = append(l.Languages, name)
		}
	}
	return rows.Err()
}

func (r *locationRepository) loadOutreachPrograms(ctx context.Context, ids []int64, locations map[int64]*domain.Location) error {
	sql := `SELECT sop.location_id, sop.name FROM social_outreach_program sop
	WHERE sop.location_id = ANY($1) ORDER BY sop.name`

	rows, err := r.pool.Query(ctx, sql, ids)
	if err != nil {
		return fmt.Errorf("failed to load outreach programs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			locationID int64
			name       string
		)
		if err := rows.Scan(&locationID, &name); err != nil {
			return fmt.Errorf("failed to scan outreach program: %w", err)
		}
		if l, ok := locations[locationID]; ok {
			l.SocialOutreachPrograms = append(l.SocialOutreachPrograms, name)
		}
	}
	return rows.Err()
}

func (r *locationRepository) loadAssignments(ctx context.Context, ids []int64, locations map[int64]*domain.Location) error {
	sql := `SELECT a.id, a.person_id, p.name_first, p.name_middle, p.name_last,
		a.location_id, at.title, a.term, a.date_assigned, a.date_released
	FROM assignment a
	JOIN assignment_type at ON at.id = a.assignment_type_id
	JOIN person p ON p.id = a.person_id
	WHERE a.location_id = ANY($1) ORDER BY a.date_assigned DESC`

	rows, err := r.pool.Query(ctx, sql, ids)
	if err != nil {
		return fmt.Errorf("failed to load location assignments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			a             domain.Assignment
			first, last   string
			middle        *string
		)
		if err := rows.Scan(&a.ID, &a.PersonID, &first, &middle, &last,
			&a.LocationID, &a.Type, &a.Term, &a.DateAssigned, &a.DateReleased); err != nil {
			return fmt.Errorf("failed to scan location assignment: %w", err)
		}
		a.PersonName = buildName(first, middle, last)
		if l, ok := locations[a.LocationID]; ok {
			l.Assignments = append(l.Assignments, a)
		}
	}
	return rows.Err()
}

func (r *locationRepository) loadStatusAnimarum(ctx context.Context, ids []int64, locations map[int64]*domain.Location) error {
	sql := `SELECT sa.location_id, sa.year,
		sa.full_time_deacons, sa.full_time_brothers, sa.full_time_sisters, sa.full_time_other,
		sa.part_time_staff, sa.volunteers,
		sa.registered_households, sa.max_mass, sa.seating_capacity,
		sa.baptism_age_1_7, sa.baptism_age_8_17, sa.baptism_age_18,
		sa.full_communion_rcia, sa.first_communion, sa.confirmation,
		sa.marriage_catholic, sa.marriage_interfaith, sa.deaths,
		sa.children_in_faith_formation, sa.school_prek_5, sa.school_grade6_8, sa.school_grade9_12,
		sa.youth_ministry, sa.adult_education, sa.adult_sacrament_prep,
		sa.catechist_paid, sa.catechist_vol, sa.rcia_rcic, sa.volunteers_working_youth,
		sa.percent_african, sa.percent_african_american, sa.percent_asian,
		sa.percent_hispanic, sa.percent_american_indian, sa.percent_other,
		sa.is_census_estimate, sa.referrals_catholic_charities,
		sa.has_homeschool_program, sa.has_child_care_day_care, sa.has_scouting_program,
		sa.has_chapel_on_campus, sa.has_adoration_chapel_on_campus,
		sa.has_columbarium, sa.has_cemetery, sa.has_school_on_site,
		sa.is_non_parochial_school_using_facilities
	FROM status_animarum sa WHERE sa.location_id = ANY($1) ORDER BY sa.year DESC`

	rows, err := r.pool.Query(ctx, sql, ids)
	if err != nil {
		return fmt.Errorf("failed to load status animarum: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			locationID int64
			sa         domain.StatusAnimarum
		)
		if err := rows.Scan(&locationID, &sa.Year,
			&sa.FullTimeDeacons, &sa.FullTimeBrothers, &sa.FullTimeSisters, &sa.FullTimeOther,
			&sa.PartTimeStaff, &sa.Volunteers,
			&sa.RegisteredHouseholds, &sa.MaxMass, &sa.SeatingCapacity,
			&sa.BaptismAge1_7, &sa.BaptismAge8_17, &sa.BaptismAge18,
			&sa.FullCommunionRCIA, &sa.FirstCommunion, &sa.Confirmation,
			&sa.MarriageCatholic, &sa.MarriageInterfaith, &sa.Deaths,
			&sa.ChildrenInFaithFormation, &sa.SchoolPreK5, &sa.SchoolGrade6_8, &sa.SchoolGrade9_12,
			&sa.YouthMinistry, &sa.AdultEducation, &sa.AdultSacramentPrep,
			&sa.CatechistPaid, &sa.CatechistVol, &sa.RCIARCIC, &sa.VolunteersWorkingYouth,
			&sa.PercentAfrican, &sa.PercentAfricanAmerican, &sa.PercentAsian,
			&sa.PercentHispanic, &sa.PercentAmericanIndian, &sa.PercentOther,
			&sa.CensusEstimate, &sa.ReferralsCatholicCharities,
			&sa.HasHomeschoolProgram, &sa.HasChildCareDayCare, &sa.HasScoutingProgram,
			&sa.HasChapelOnCampus, &sa.HasAdorationChapelOnCampus,
			&sa.HasColumbarium, &sa.HasCemetery, &sa.HasSchoolOnSite,
			&sa.NonParochialSchoolUsingFacilities,
		); err != nil {
			return fmt.Errorf("failed to scan status animarum: %w", err)
		}
		if l, ok := locations[locationID]; ok {
			l.StatusAnimarum = append(l.StatusAnimarum, sa)
		}
	}
	return rows.Err()
}

func (r *locationRepository) loadOffertories(ctx context.Context, ids []int64, locations map[int64]*domain.Location) error {
	sql := `SELECT o.location_id, o.year, o.income FROM offertory o
	WHERE o.location_id = ANY($1) ORDER BY o.year DESC`

	rows, err := r.pool.Query(ctx, sql, ids)
	if err != nil {
		return fmt.Errorf("failed to load offertories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			locationID int64
			o          domain.Offertory
		)
		if err := rows.Scan(&locationID, &o.Year, &o.Income); err != nil {
			return fmt.Errorf("failed to scan offertory: %w", err)
		}
		if l, ok := locations[locationID]; ok {
			l.Offertories = append(l.Offertories, o)
		}
	}
	return rows.Err()
}

func (r *locationRepository) loadOctoberMassCounts(ctx context.Context, ids []int64, locations map[int64]*domain.Location) error {
	sql := `SELECT c.location_id, c.year, c.week1, c.week2, c.week3, c.week4
	FROM october_mass_count c WHERE c.location_id = ANY($1) ORDER BY c.year DESC`

	rows, err := r.pool.Query(ctx, sql, ids)
	if err != nil {
		return fmt.Errorf("failed to load october mass counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			locationID int64
			c          domain.OctoberMassCount
		)
		if err := rows.Scan(&locationID, &c.Year, &c.Week1, &c.Week2, &c.Week3, &c.Week4); err != nil {
			return fmt.Errorf("failed to scan october mass count: %w", err)
		}
		if l, ok := locations[locationID]; ok {
			l.OctoberMassCounts = append(l.OctoberMassCounts, c)
		}
	}
	return rows.Err()
}

func (r *locationRepository) loadPriestCounts(ctx context.Context, ids []int64, locations map[int64]*domain.Location) error {
	sql := `SELECT a.location_id, COUNT(DISTINCT a.id)
	FROM assignment a
	JOIN priest_detail pd ON pd.person_id = a.person_id
	WHERE a.location_id = ANY($1)
	GROUP BY a.location_id`

	rows, err := r.pool.Query(ctx, sql, ids)
	if err != nil {
		return fmt.Errorf("failed to load priest counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			locationID int64
			count      int64
		)
		if err := rows.Scan(&locationID, &count); err != nil {
			return fmt.Errorf("failed to scan priest count: %w", err)
		}
		if l, ok := locations[locationID]; ok {
			l.PriestCount = count
		}
	}
	return rows.Err()
}

package repository

import (
	"context"
	"fmt"

	"github.com/cryptadb/crypta/internal/domain"
	"github.com/cryptadb/crypta/internal/query"

	"github.com/jackc/pgx/v5/pgxpool"
)

type personRepository struct {
	pool *pgxpool.Pool
}

// NewPersonRepository creates a PostgreSQL-backed person repository.
func NewPersonRepository(pool *pgxpool.Pool) PersonRepository {
	return &personRepository{pool: pool}
}

func (r *personRepository) ListIDs(ctx context.Context, q *query.EntityQuery) ([]int64, error) {
	if q.DeniesAll() {
		return nil, nil
	}
	sql, args := q.IDQuery()
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list person ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan person id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *personRepository) Search(ctx context.Context, q *query.EntityQuery, term string) ([]domain.SearchHit, error) {
	if q.DeniesAll() {
		return nil, nil
	}
	sql, args := q.SearchQuery(
		"p.id, p.name_first, p.name_middle, p.name_last",
		[]string{"p.name_first", "p.name_middle", "p.name_last"},
		term,
	)
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search people: %w", err)
	}
	defer rows.Close()

	var hits []domain.SearchHit
	for rows.Next() {
		var (
			id            int64
			first, last   string
			middle        *string
		)
		if err := rows.Scan(&id, &first, &middle, &last); err != nil {
			return nil, fmt.Errorf("failed to scan person search row: %w", err)
		}
		hits = append(hits, domain.SearchHit{ID: id, Name: buildName(first, middle, last)})
	}
	return hits, rows.Err()
}

func (r *personRepository) GetByIDs(ctx context.Context, ids []int64) ([]domain.Person, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	people := make(map[int64]*domain.Person, len(ids))

	if err := r.loadCore(ctx, ids, people); err != nil {
		return nil, err
	}
	loaders := []func(context.Context, []int64, map[int64]*domain.Person) error{
		r.loadPriestDetails,
		r.loadEmails,
		r.loadPhones,
		r.loadLanguages,
		r.loadStatuses,
		r.loadTitles,
		r.loadDegrees,
		r.loadFacultiesGrants,
		r.loadAssignments,
		r.loadRelationships,
	}
	for _, load := range loaders {
		if err := load(ctx, ids, people); err != nil {
			return nil, err
		}
	}

	out := make([]domain.Person, 0, len(people))
	for _, id := range ids {
		if p, ok := people[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *personRepository) loadCore(ctx context.Context, ids []int64, people map[int64]*domain.Person) error {
	sql := `SELECT p.id, p.name_first, p.name_middle, p.name_last, p.prefix, p.suffix,
		p.person_type, p.residency_type, p.active_outside_doc, p.legal_status,
		p.date_birth, p.date_baptism, p.date_retired, p.date_deceased,
		p.is_safe_environment_training, p.is_paid_employee,
		ra.id, ra.address1, ra.address2, ra.city, ra.state, ra.zip_code, ra.country,
		ma.id, ma.address1, ma.address2, ma.city, ma.state, ma.zip_code, ma.country
	FROM person p
	LEFT JOIN address ra ON ra.id = p.residence_address_id
	LEFT JOIN address ma ON ma.id = p.mailing_address_id
	WHERE p.id = ANY($1)`

	rows, err := r.pool.Query(ctx, sql, ids)
	if err != nil {
		return fmt.Errorf("failed to load people: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			p                                  domain.Person
			middle, prefix, suffix             *string
			residencyType, activeOutside       *string
			legalStatus                        *string
			res, mail                          addressRow
		)
		if err := rows.Scan(&p.ID, &p.FirstName, &middle, &p.LastName, &prefix, &suffix,
			&p.PersonType, &residencyType, &activeOutside, &legalStatus,
			&p.DateBirth, &p.DateBaptism, &p.DateRetired, &p.DateDeceased,
			&p.SafeEnvironmentTraining, &p.PaidEmployee,
			&res.id, &res.address1, &res.address2, &res.city, &res.state, &res.zip, &res.country,
			&mail.id, &mail.address1, &mail.address2, &mail.city, &mail.state, &mail.zip, &mail.country,
		); err != nil {
			return fmt.Errorf("failed to scan person: %w", err)
		}
		p.MiddleName = deref(middle)
		p.Prefix = deref(prefix)
		p.Suffix = deref(suffix)
		p.ResidencyType = deref(residencyType)
		p.ActiveOutsideDOC = deref(activeOutside)
		p.LegalStatus = deref(legalStatus)
		p.Residence = res.toAddress()
		p.Mailing = mail.toAddress()
		people[p.ID] = &p
	}
	return rows.Err()
}

func (r *personRepository) loadPriestDetails(ctx context.Context, ids []int64, people map[int64]*domain.Person) error {
	sql := `SELECT pd.person_id, pd.diocesan_religious, pd.is_mass_english, pd.is_mass_spanish,
		pd.date_ordination, pd.place_of_baptism, pd.birth_city, pd.birth_state, pd.notes
	FROM priest_detail pd WHERE pd.person_id = ANY($1)`

	rows, err := r.pool.Query(ctx, sql, ids)
	if err != nil {
		return fmt.Errorf("failed to load priest details: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			personID                            int64
			d                                   domain.PriestDetail
			diocesan, place, bCity, bState, not *string
		)
		if err := rows.Scan(&personID, &diocesan, &d.MassEnglish, &d.MassSpanish,
			&d.DateOrdination, &place, &bCity, &bState, &not); err != nil {
			return fmt.Errorf("failed to scan priest detail: %w", err)
		}
		d.DiocesanReligious = deref(diocesan)
		d.PlaceOfBaptism = deref(place)
		d.BirthCity = deref(bCity)
		d.BirthState = deref(bState)
		d.Notes = deref(not)
		if p, ok := people[personID]; ok {
			p.PriestDetail = &d
		}
	}
	return rows.Err()
}

func (r *personRepository) loadEmails(ctx context.Context, ids []int64, people map[int64]*domain.Person) error {
	return r.loadContacts(ctx, ids, people,
		`SELECT pe.person_id, et.name, pe.email, pe.is_primary
		FROM person_email pe JOIN email_type et ON et.id = pe.email_type_id
		WHERE pe.person_id = ANY($1) ORDER BY pe.id`,
		func(p *domain.Person, c domain.TypedContact) { p.Emails = append(p.Emails, c) })
}

func (r *personRepository) loadPhones(ctx context.Context, ids []int64, people map[int64]*domain.Person) error {
	return r.loadContacts(ctx, ids, people,
		`SELECT pp.person_id, pt.name, pp.phone_number, pp.is_primary
		FROM person_phone pp JOIN phone_type pt ON pt.id = pp.phone_type_id
		WHERE pp.person_id = ANY($1) ORDER BY pp.id`,
		func(p *domain.Person, c domain.TypedContact) { p.Phones = append(p.Phones, c) })
}

func (r *personRepository) loadContacts(ctx context.Context, ids []int64, people map[int64]*domain.Person,
	sql string, add func(*domain.Person, domain.TypedContact)) error {
	rows, err := r.pool.Query(ctx, sql, ids)
	if err != nil {
		return fmt.Errorf("failed to load contacts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			personID int64
			c        domain.TypedContact
		)
		if err := rows.Scan(&personID, &c.Type, &c.Value, &c.Primary); err != nil {
			return fmt.Errorf("failed to scan contact: %w", err)
		}
		if p, ok := people[personID]; ok {
			add(p, c)
		}
	}
	return rows.Err()
}

func (r *personRepository) loadLanguages(ctx context.Context, ids []int64, people map[int64]*domain.Person) error {
	sql := `SELECT pl.person_id, lang.name
	FROM person_language pl JOIN language lang ON lang.id = pl.language_id
	WHERE pl.person_id = ANY($1) ORDER BY lang.name`

	rows, err := r.pool.Query(ctx, sql, ids)
	if err != nil {
		return fmt.Errorf("failed to load person languages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			personID int64
			name     string
		)
		if err := rows.Scan(&personID, &name); err != nil {
			return fmt.Errorf("failed to scan person language: %w", err)
		}
		if p, ok := people[personID]; ok {
			p.Languages = append(p.Languages, name)
		}
	}
	return rows.Err()
}

func (r *personRepository) loadStatuses(ctx context.Context, ids []int64, people map[int64]*domain.Person) error {
	sql := `SELECT ps.person_id, st.name, ps.date_assigned, ps.date_released, ps.details
	FROM person_status ps JOIN status st ON st.id = ps.status_id
	WHERE ps.person_id = ANY($1) ORDER BY ps.date_assigned DESC`
	return r.loadDatedEntries(ctx, ids, people, sql,
		func(p *domain.Person, e domain.DatedEntry) { p.Statuses = append(p.Statuses, e) })
}

func (r *personRepository) loadTitles(ctx context.Context, ids []int64, people map[int64]*domain.Person) error {
	sql := `SELECT pt.person_id, t.name, pt.date_assigned, pt.date_expiration, NULL::text
	FROM person_title pt JOIN title t ON t.id = pt.title_id
	WHERE pt.person_id = ANY($1) ORDER BY pt.date_assigned DESC`
	return r.loadDatedEntries(ctx, ids, people, sql,
		func(p *domain.Person, e domain.DatedEntry) { p.Titles = append(p.Titles, e) })
}

func (r *personRepository) loadFacultiesGrants(ctx context.Context, ids []int64, people map[int64]*domain.Person) error {
	sql := `SELECT fg.person_id, fg.grant_type, fg.date_granted, fg.date_removed, NULL::text
	FROM person_faculties_grant fg
	WHERE fg.person_id = ANY($1) ORDER BY fg.date_granted DESC`
	return r.loadDatedEntries(ctx, ids, people, sql,
		func(p *domain.Person, e domain.DatedEntry) { p.FacultiesGrants = append(p.FacultiesGrants, e) })
}

func (r *personRepository) loadDatedEntries(ctx context.Context, ids []int64, people map[int64]*domain.Person,
	sql string, add func(*domain.Person, domain.DatedEntry)) error {
	rows, err := r.pool.Query(ctx, sql, ids)
	if err != nil {
		return fmt.Errorf("failed to load history entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			personID int64
			e        domain.DatedEntry
			details  *string
		)
		if err := rows.Scan(&personID, &e.Name, &e.DateAssigned, &e.DateReleased, &details); err != nil {
			return fmt.Errorf("failed to scan history entry: %w", err)
		}
		e.Details = deref(details)
		if p, ok := people[personID]; ok {
			add(p, e)
		}
	}
	return rows.Err()
}

func (r *personRepository) loadDegrees(ctx context.Context, ids []int64, people map[int64]*domain.Person) error {
	sql := `SELECT pd.person_id, pd.institute, pd.subject, pd.degree_type, pd.date_acquired
	FROM person_degree pd WHERE pd.person_id = ANY($1) ORDER BY pd.date_acquired DESC NULLS LAST`

	rows, err := r.pool.Query(ctx, sql, ids)
	if err != nil {
		return fmt.Errorf("failed to load degrees: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			personID           int64
			d                  domain.Degree
			institute, subject *string
		)
		if err := rows.Scan(&personID, &institute, &subject, &d.DegreeType, &d.DateAcquired); err != nil {
			return fmt.Errorf("failed to scan degree: %w", err)
		}
		d.Institute = deref(institute)
		d.Subject = deref(subject)
		if p, ok := people[personID]; ok {
			p.Degrees = append(p.Degrees, d)
		}
	}
	return rows.Err()
}

func (r *personRepository) loadAssignments(ctx context.Context, ids []int64, people map[int64]*domain.Person) error {
	sql := `SELECT a.id, a.person_id, a.location_id, loc.name, at.title, a.term, a.date_assigned, a.date_released
	FROM assignment a
	JOIN assignment_type at ON at.id = a.assignment_type_id
	JOIN location loc ON loc.id = a.location_id
	WHERE a.person_id = ANY($1) ORDER BY a.date_assigned DESC`

	rows, err := r.pool.Query(ctx, sql, ids)
	if err != nil {
		return fmt.Errorf("failed to load assignments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a domain.Assignment
		if err := rows.Scan(&a.ID, &a.PersonID, &a.LocationID, &a.LocationName,
			&a.Type, &a.Term, &a.DateAssigned, &a.DateReleased); err != nil {
			return fmt.Errorf("failed to scan assignment: %w", err)
		}
		if p, ok := people[a.PersonID]; ok {
			p.Assignments = append(p.Assignments, a)
		}
	}
	return rows.Err()
}

func (r *personRepository) loadRelationships(ctx context.Context, ids []int64, people map[int64]*domain.Person) error {
	sql := `SELECT rt.name, pr.first_person_id, fp.name_first, fp.name_middle, fp.name_last,
		pr.second_person_id, sp.name_first, sp.name_middle, sp.name_last
	FROM person_relationship pr
	JOIN relationship_type rt ON rt.id = pr.relationship_type_id
	JOIN person fp ON fp.id = pr.first_person_id
	JOIN person sp ON sp.id = pr.second_person_id
	WHERE pr.first_person_id = ANY($1) OR pr.second_person_id = ANY($1)
	ORDER BY pr.id`

	rows, err := r.pool.Query(ctx, sql, ids)
	if err != nil {
		return fmt.Errorf("failed to load relationships: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			rel                    domain.Relationship
			fFirst, fLast          string
			sFirst, sLast          string
			fMiddle, sMiddle       *string
		)
		if err := rows.Scan(&rel.Type, &rel.FirstPersonID, &fFirst, &fMiddle, &fLast,
			&rel.SecondPersonID, &sFirst, &sMiddle, &sLast); err != nil {
			return fmt.Errorf("failed to scan relationship: %w", err)
		}
		rel.FirstPersonName = buildName(fFirst, fMiddle, fLast)
		rel.SecondPersonName = buildName(sFirst, sMiddle, sLast)
		if p, ok := people[rel.FirstPersonID]; ok {
			p.Relationships = append(p.Relationships, rel)
		}
		if p, ok := people[rel.SecondPersonID]; ok && rel.SecondPersonID != rel.FirstPersonID {
			p.Relationships = append(p.Relationships, rel)
		}
	}
	return rows.Err()
}

// addressRow scans a LEFT JOINed address; a NULL id means no address.
type addressRow struct {
	id                 *int64
	address1, address2 *string
	city, state        *string
	zip, country       *string
}

func (a addressRow) toAddress() *domain.Address {
	if a.id == nil {
		return nil
	}
	return &domain.Address{
		ID:       *a.id,
		Address1: deref(a.address1),
		Address2: deref(a.address2),
		City:     deref(a.city),
		State:    deref(a.state),
		ZipCode:  deref(a.zip),
		Country:  deref(a.country),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func buildName(first string, middle *string, last string) string {
	if middle != nil && *middle != "" {
		return first + " " + *middle + " " + last
	}
	return first + " " + last
}

package importer

import (
	"context"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/meridianps/portfolio-api/internal/domain"
)

// MatchVia tags how the resolver arrived at an entity, so callers and tests
// can distinguish match confidence.
type MatchVia string

const (
	MatchExact      MatchVia = "exact"
	MatchCodePrefix MatchVia = "code_prefix"
	MatchSubstring  MatchVia = "substring"
	MatchCreated    MatchVia = "created"
)

// ProjectRef is a resolved project reference.
type ProjectRef struct {
	ID  uuid.UUID
	Via MatchVia
}

// EmployeeRef is a resolved employee reference.
type EmployeeRef struct {
	ID  uuid.UUID
	Via MatchVia
}

var (
	// code-like leading token, e.g. "ACM042" or "NBF2103"
	codeTokenRe = regexp.MustCompile(`^[A-Z]{2,6}\d{2,4}`)

	// internal/non-project markers: bare numbers and "Reason ..." labels
	internalMarkerRe = regexp.MustCompile(`^\d+$|^Reason\s`)

	nonAlphaRe = regexp.MustCompile(`[\d\-]`)
)

type nameEntry struct {
	lower string
	id    uuid.UUID
}

// Resolver matches spreadsheet labels to existing projects and employees,
// or synthesizes new records. Newly created entities are registered in the
// in-memory indexes immediately so later rows in the same import batch
// resolve against them; resolution is single-pass.
//
// Substring containment (the third project stage) is first-match-wins with
// no ranking. It can mis-attribute unrelated projects sharing a common
// substring; the behavior is inherited from the source system and exposed
// through MatchVia rather than changed.
type Resolver struct {
	store Storage
	seq   *CodeSequencer

	projectsByName map[string]uuid.UUID // lower(name) -> id
	projectsByCode map[string]uuid.UUID // upper(code) -> id
	projectNames   []nameEntry          // insertion-ordered, for containment scan
	projectCodes   []string             // insertion-ordered upper codes, for prefix scan

	employeesByFull map[string]uuid.UUID // lower(full name) -> id
	employeesByLast map[string]uuid.UUID // lower(last name) -> id
}

// NewResolver builds a resolver primed with the current contents of storage.
func NewResolver(ctx context.Context, store Storage, seq *CodeSequencer) (*Resolver, error) {
	r := &Resolver{
		store:           store,
		seq:             seq,
		projectsByName:  make(map[string]uuid.UUID),
		projectsByCode:  make(map[string]uuid.UUID),
		employeesByFull: make(map[string]uuid.UUID),
		employeesByLast: make(map[string]uuid.UUID),
	}

	projects, err := store.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	for i := range projects {
		r.RegisterProject(&projects[i])
	}

	employees, err := store.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}
	for i := range employees {
		r.RegisterEmployee(&employees[i])
	}

	return r, nil
}

// RegisterProject adds a project to the lookup indexes and seeds the code
// sequencer with its code.
func (r *Resolver) RegisterProject(p *domain.Project) {
	lower := strings.ToLower(strings.TrimSpace(p.Name))
	if lower != "" {
		if _, exists := r.projectsByName[lower]; !exists {
			r.projectsByName[lower] = p.ID
			r.projectNames = append(r.projectNames, nameEntry{lower: lower, id: p.ID})
		}
	}
	if code := strings.ToUpper(strings.TrimSpace(p.Code)); code != "" {
		if _, exists := r.projectsByCode[code]; !exists {
			r.projectsByCode[code] = p.ID
			r.projectCodes = append(r.projectCodes, code)
		}
		r.seq.ObserveProjectCode(code)
	}
}

// RegisterEmployee adds an employee to the lookup indexes and seeds the
// code sequencer.
func (r *Resolver) RegisterEmployee(e *domain.Employee) {
	full := strings.ToLower(strings.TrimSpace(e.FullName()))
	if full != "" {
		if _, exists := r.employeesByFull[full]; !exists {
			r.employeesByFull[full] = e.ID
		}
	}
	if last := strings.ToLower(strings.TrimSpace(e.LastName)); last != "" {
		if _, exists := r.employeesByLast[last]; !exists {
			r.employeesByLast[last] = e.ID
		}
	}
	if e.Code != "" {
		r.seq.ObserveEmployeeCode(e.Code)
	}
}

// HasProjectName reports whether a project with this name (case-insensitive)
// is already known, from storage or created earlier in this run.
func (r *Resolver) HasProjectName(name string) bool {
	_, ok := r.projectsByName[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// HasEmployeeName reports whether an employee with this full name is known.
func (r *Resolver) HasEmployeeName(fullName string) bool {
	_, ok := r.employeesByFull[strings.ToLower(strings.TrimSpace(fullName))]
	return ok
}

// LookupProject runs the matching stages without creating anything:
// exact name/code, then code-prefix token, then substring containment.
func (r *Resolver) LookupProject(label string) (ProjectRef, bool) {
	label = strings.TrimSpace(label)
	if label == "" {
		return ProjectRef{}, false
	}
	lower := strings.ToLower(label)
	upper := strings.ToUpper(label)

	// (a) exact case-insensitive match on name or code
	if id, ok := r.projectsByName[lower]; ok {
		return ProjectRef{ID: id, Via: MatchExact}, true
	}
	if id, ok := r.projectsByCode[upper]; ok {
		return ProjectRef{ID: id, Via: MatchExact}, true
	}

	// (b) code-like leading token matched against known codes
	if token := codeTokenRe.FindString(upper); token != "" {
		if id, ok := r.projectsByCode[token]; ok {
			return ProjectRef{ID: id, Via: MatchCodePrefix}, true
		}
		for _, code := range r.projectCodes {
			if strings.HasPrefix(code, token) {
				return ProjectRef{ID: r.projectsByCode[code], Via: MatchCodePrefix}, true
			}
		}
	}

	// (c) substring containment, first match wins
	for _, entry := range r.projectNames {
		if strings.Contains(entry.lower, lower) || strings.Contains(lower, entry.lower) {
			return ProjectRef{ID: entry.id, Via: MatchSubstring}, true
		}
	}

	return ProjectRef{}, false
}

// ResolveProject matches label to an existing project or creates a new one.
func (r *Resolver) ResolveProject(ctx context.Context, label string) (ProjectRef, error) {
	if ref, ok := r.LookupProject(label); ok {
		return ref, nil
	}

	label = strings.TrimSpace(label)
	project := &domain.Project{
		Code:     r.seq.NextInternalCode(),
		Name:     label,
		Client:   inferClient(label),
		Status:   domain.ProjectStatusActive,
		WorkType: domain.WorkTypeClient,
	}
	if internalMarkerRe.MatchString(label) {
		project.WorkType = domain.WorkTypeInternal
	}

	if err := r.store.CreateProject(ctx, project); err != nil {
		return ProjectRef{}, err
	}
	r.RegisterProject(project)
	return ProjectRef{ID: project.ID, Via: MatchCreated}, nil
}

// LookupEmployee matches a full name exactly, then by last name only.
func (r *Resolver) LookupEmployee(fullName string) (EmployeeRef, bool) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return EmployeeRef{}, false
	}
	lower := strings.ToLower(fullName)

	if id, ok := r.employeesByFull[lower]; ok {
		return EmployeeRef{ID: id, Via: MatchExact}, true
	}

	parts := strings.Fields(lower)
	if len(parts) > 1 {
		if id, ok := r.employeesByLast[parts[len(parts)-1]]; ok {
			return EmployeeRef{ID: id, Via: MatchSubstring}, true
		}
	}
	return EmployeeRef{}, false
}

// ResolveEmployee matches a full name to an existing employee or creates a
// new one with a synthesized unique code.
func (r *Resolver) ResolveEmployee(ctx context.Context, fullName string) (EmployeeRef, error) {
	if ref, ok := r.LookupEmployee(fullName); ok {
		return ref, nil
	}

	first, last := splitName(strings.TrimSpace(fullName))
	employee := &domain.Employee{
		Code:      r.seq.NextEmployeeCode(),
		FirstName: first,
		LastName:  last,
		StaffType: domain.StaffTypePermanent,
		Status:    domain.EmployeeStatusActive,
	}
	if err := r.store.CreateEmployee(ctx, employee); err != nil {
		return EmployeeRef{}, err
	}
	r.RegisterEmployee(employee)
	return EmployeeRef{ID: employee.ID, Via: MatchCreated}, nil
}

// splitName splits on the first space into first/last.
func splitName(fullName string) (string, string) {
	if i := strings.Index(fullName, " "); i > 0 {
		return fullName[:i], strings.TrimSpace(fullName[i+1:])
	}
	return fullName, ""
}

// inferClient derives a client label from the leading code-like token of a
// project label by stripping digits and dashes.
func inferClient(label string) string {
	token := codeTokenRe.FindString(strings.ToUpper(label))
	if token == "" {
		fields := strings.Fields(strings.ToUpper(label))
		if len(fields) == 0 {
			return ""
		}
		token = fields[0]
	}
	return nonAlphaRe.ReplaceAllString(token, "")
}

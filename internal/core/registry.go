package core

// Registry is the root of the Project -> Institution -> Beneficiary tree.
type Registry struct {
	projects []*Project
}

// Match locates a beneficiary found by a registry wide search.
type Match struct {
	Project     string
	Institution string
	Beneficiary *Beneficiary
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Add appends a project.
func (r *Registry) Add(p *Project) {
	r.projects = append(r.projects, p)
}

// Find returns the first project named exactly name.
func (r *Registry) Find(name string) (*Project, bool) {
	for _, p := range r.projects {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// Projects returns a copy of the project list.
func (r *Registry) Projects() []*Project {
	return append([]*Project(nil), r.projects...)
}

// Names lists project names in insertion order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.projects))
	for _, p := range r.projects {
		names = append(names, p.Name)
	}
	return names
}

// TotalBeneficiaries sums the beneficiaries of every project.
func (r *Registry) TotalBeneficiaries() int {
	total := 0
	for _, p := range r.projects {
		total += p.TotalBeneficiaries()
	}
	return total
}

// FindBeneficiary searches every institution of every project, in order, and
// returns one match per institution holding a beneficiary named name.
func (r *Registry) FindBeneficiary(name string) []Match {
	var matches []Match
	for _, p := range r.projects {
		for _, inst := range p.institutions {
			if b, ok := inst.Find(name); ok {
				matches = append(matches, Match{Project: p.Name, Institution: inst.Name, Beneficiary: b})
			}
		}
	}
	return matches
}

// ConsolidatedReport builds the specialized report of every project.
func (r *Registry) ConsolidatedReport() ConsolidatedReport {
	report := ConsolidatedReport{
		GeneratedAt:        nowFunc(),
		TotalProjects:      len(r.projects),
		TotalBeneficiaries: r.TotalBeneficiaries(),
		Projects:           make([]ProjectReport, 0, len(r.projects)),
	}
	for _, p := range r.projects {
		report.Projects = append(report.Projects, p.Report())
	}
	return report
}

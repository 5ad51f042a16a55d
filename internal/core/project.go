package core

import (
	"fmt"
	"time"
)

// Variant selects the kind of therapy program. The differences between
// variants are data only, see variants below.
type Variant int

const (
	MusicTherapy Variant = iota
	ArtTherapy
)

type variantInfo struct {
	label        string   // value of tipo_proyecto
	catalogField string   // report key holding the catalog
	usageField   string   // report key holding the tool usage table
	catalog      []string // treatment tools offered by the program
}

var variants = [...]variantInfo{
	MusicTherapy: {
		label:        "Musicoterapia",
		catalogField: "herramientas_disponibles",
		usageField:   "abordajes_mas_usados",
		catalog:      []string{"Meditación sonora", "Acompañamiento musical", "Taller"},
	},
	ArtTherapy: {
		label:        "Arteterapia",
		catalogField: "tecnicas_disponibles",
		usageField:   "tecnicas_mas_usadas",
		catalog:      []string{"Pintura", "Poesía", "Lectura", "Artesanías", "Otro"},
	},
}

func (v Variant) info() variantInfo {
	if v < 0 || int(v) >= len(variants) {
		return variantInfo{label: fmt.Sprintf("Variant(%d)", int(v)), catalogField: "catalogo", usageField: "uso"}
	}
	return variants[v]
}

// String returns the report label of the variant.
func (v Variant) String() string { return v.info().label }

// Project is a therapy program spanning several institutions.
type Project struct {
	Name        string
	Description string
	StartDate   time.Time
	Variant     Variant

	institutions []*Institution
}

func NewProject(variant Variant, name, description string, startDate time.Time) *Project {
	return &Project{
		Name:        name,
		Description: description,
		StartDate:   startDate,
		Variant:     variant,
	}
}

// NewMusicTherapy creates a music therapy project.
func NewMusicTherapy(name, description string, startDate time.Time) *Project {
	return NewProject(MusicTherapy, name, description, startDate)
}

// NewArtTherapy creates an art therapy project.
func NewArtTherapy(name, description string, startDate time.Time) *Project {
	return NewProject(ArtTherapy, name, description, startDate)
}

// Add appends an institution to the project.
func (p *Project) Add(inst *Institution) {
	p.institutions = append(p.institutions, inst)
}

// Find returns the first institution named exactly name.
func (p *Project) Find(name string) (*Institution, bool) {
	for _, inst := range p.institutions {
		if inst.Name == name {
			return inst, true
		}
	}
	return nil, false
}

// Institutions returns a copy of the institution list.
func (p *Project) Institutions() []*Institution {
	return append([]*Institution(nil), p.institutions...)
}

// Catalog returns a copy of the treatment tools offered by the variant.
func (p *Project) Catalog() []string {
	return append([]string(nil), p.Variant.info().catalog...)
}

// Label returns the project type shown in reports.
func (p *Project) Label() string {
	return p.Variant.info().label
}

// TotalBeneficiaries sums the beneficiaries of every institution.
func (p *Project) TotalBeneficiaries() int {
	total := 0
	for _, inst := range p.institutions {
		total += inst.Len()
	}
	return total
}

// GeneralStats returns the variant independent part of the report.
func (p *Project) GeneralStats() ProjectStats {
	stats := ProjectStats{
		Name:          p.Name,
		Institutions:  len(p.institutions),
		Beneficiaries: p.TotalBeneficiaries(),
		ByInstitution: make(StatsByInstitution, 0, len(p.institutions)),
	}
	for _, inst := range p.institutions {
		stats.ByInstitution = stats.ByInstitution.set(inst.Name, inst.Stats())
	}
	return stats
}

// Report returns the specialized report: the general statistics plus the
// catalog and how often each treatment tool is in use. Tools are counted by
// their stored value whether or not they belong to the catalog.
func (p *Project) Report() ProjectReport {
	usage := make(map[string]int)
	for _, inst := range p.institutions {
		for _, b := range inst.beneficiaries {
			usage[b.Tool]++
		}
	}
	return ProjectReport{
		ProjectStats: p.GeneralStats(),
		Variant:      p.Variant,
		Type:         p.Label(),
		Catalog:      p.Catalog(),
		Usage:        usage,
	}
}

func (p *Project) String() string {
	return fmt.Sprintf("%s - %d instituciones", p.Name, len(p.institutions))
}

package core

import (
	"bytes"
	"encoding/json"
	"time"
)

// NamedStats pairs an institution name with its statistics.
type NamedStats struct {
	Name  string
	Stats InstitutionStats
}

// StatsByInstitution keeps institution statistics in insertion order and
// marshals to a JSON object keyed by institution name.
type StatsByInstitution []NamedStats

// ProjectStats is the general report shared by every project variant.
type ProjectStats struct {
	Name          string             `json:"nombre_proyecto"`
	Institutions  int                `json:"total_instituciones"`
	Beneficiaries int                `json:"total_beneficiarios"`
	ByInstitution StatsByInstitution `json:"estadisticas_por_institucion"`
}

// ProjectReport is the specialized report of a project. The JSON names of
// the catalog and usage fields depend on the variant.
type ProjectReport struct {
	ProjectStats
	Variant Variant
	Type    string
	Catalog []string
	Usage   map[string]int
}

// ConsolidatedReport covers every project of a registry.
type ConsolidatedReport struct {
	GeneratedAt        time.Time       `json:"fecha_generacion"`
	TotalProjects      int             `json:"total_proyectos"`
	TotalBeneficiaries int             `json:"total_beneficiarios"`
	Projects           []ProjectReport `json:"proyectos"`
}

// ProjectSummary is a flat per-project line used by tabular report sinks.
type ProjectSummary struct {
	Name          string
	Type          string
	Institutions  int
	Beneficiaries int
}

// Get returns the statistics stored for name.
func (s StatsByInstitution) Get(name string) (InstitutionStats, bool) {
	for _, ns := range s {
		if ns.Name == name {
			return ns.Stats, true
		}
	}
	return InstitutionStats{}, false
}

// set stores stats under name. A repeated name keeps its first position and
// takes the latest statistics.
func (s StatsByInstitution) set(name string, stats InstitutionStats) StatsByInstitution {
	for idx := range s {
		if s[idx].Name == name {
			s[idx].Stats = stats
			return s
		}
	}
	return append(s, NamedStats{Name: name, Stats: stats})
}

func (s StatsByInstitution) MarshalJSON() ([]byte, error) {
	var w objectWriter
	for _, ns := range s {
		w.field(ns.Name, ns.Stats)
	}
	return w.bytes()
}

// CatalogField is the JSON key under which the catalog is reported.
func (r ProjectReport) CatalogField() string { return r.Variant.info().catalogField }

// UsageField is the JSON key under which tool usage is reported.
func (r ProjectReport) UsageField() string { return r.Variant.info().usageField }

func (r ProjectReport) MarshalJSON() ([]byte, error) {
	catalog := r.Catalog
	if catalog == nil {
		catalog = []string{}
	}
	usage := r.Usage
	if usage == nil {
		usage = map[string]int{}
	}
	byInst := r.ByInstitution
	if byInst == nil {
		byInst = StatsByInstitution{}
	}

	var w objectWriter
	w.field("nombre_proyecto", r.Name)
	w.field("total_instituciones", r.Institutions)
	w.field("total_beneficiarios", r.Beneficiaries)
	w.field("estadisticas_por_institucion", byInst)
	w.field("tipo_proyecto", r.Type)
	w.field(r.CatalogField(), catalog)
	w.field(r.UsageField(), usage)
	return w.bytes()
}

// Summaries flattens the report to one line per project.
func (c ConsolidatedReport) Summaries() []ProjectSummary {
	out := make([]ProjectSummary, 0, len(c.Projects))
	for _, p := range c.Projects {
		out = append(out, ProjectSummary{
			Name:          p.Name,
			Type:          p.Type,
			Institutions:  p.Institutions,
			Beneficiaries: p.Beneficiaries,
		})
	}
	return out
}

// objectWriter builds a JSON object with keys in call order.
type objectWriter struct {
	buf bytes.Buffer
	n   int
	err error
}

func (w *objectWriter) field(key string, v any) {
	if w.err != nil {
		return
	}
	k, err := marshalNoEscape(key)
	if err != nil {
		w.err = err
		return
	}
	val, err := marshalNoEscape(v)
	if err != nil {
		w.err = err
		return
	}
	if w.n == 0 {
		w.buf.WriteByte('{')
	} else {
		w.buf.WriteByte(',')
	}
	w.buf.Write(k)
	w.buf.WriteByte(':')
	w.buf.Write(val)
	w.n++
}

func (w *objectWriter) bytes() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	if w.n == 0 {
		return []byte("{}"), nil
	}
	w.buf.WriteByte('}')
	return w.buf.Bytes(), nil
}

// marshalNoEscape is json.Marshal without HTML escaping, so names such as
// "Arte & Salud" stay literal in the output.
func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

package core

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func buildRegistry() *Registry {
	reg := NewRegistry()

	music := NewMusicTherapy("Melodía Vital", "Musicoterapia para bienestar integral", start)
	hospital := NewInstitution("Hospital General", "Av. Salud 123", "555-0001")
	hospital.Add(NewBeneficiary("Ana García", HealthWorker, Female, 35, "Estrés laboral", "Meditación sonora", Excellent))
	hospital.Add(NewBeneficiary("Carlos López", PatientCaregiver, Male, 42, "Ansiedad", "Acompañamiento musical", Good))
	music.Add(hospital)
	music.Add(NewInstitution("Clínica del Valle", "Calle Bienestar 456", "555-0002"))

	art := NewArtTherapy("Cuadro Clínico", "Arteterapia para expresión y sanación", start.AddDate(0, 0, 17))
	artHospital := NewInstitution("Hospital General", "Av. Salud 123", "555-0001")
	artHospital.Add(NewBeneficiary("Ana García", HealthWorker, Female, 35, "Estrés laboral", "Pintura", Good))
	art.Add(artHospital)

	reg.Add(music)
	reg.Add(art)
	return reg
}

func TestRegistryFindAndNames(t *testing.T) {
	reg := buildRegistry()
	if got := reg.Names(); !equalStrings(got, []string{"Melodía Vital", "Cuadro Clínico"}) {
		t.Fatalf("unexpected names %v", got)
	}
	if p, ok := reg.Find("Cuadro Clínico"); !ok || p.Variant != ArtTherapy {
		t.Fatalf("unexpected project %v", p)
	}
	if _, ok := reg.Find("Inexistente"); ok {
		t.Fatalf("expected not found")
	}
	if got := NewRegistry().Names(); len(got) != 0 {
		t.Fatalf("expected no names, got %v", got)
	}
}

func TestRegistryFindBeneficiary(t *testing.T) {
	reg := buildRegistry()

	matches := reg.FindBeneficiary("Ana García")
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].Project != "Melodía Vital" || matches[0].Institution != "Hospital General" || matches[0].Beneficiary.Tool != "Meditación sonora" {
		t.Fatalf("unexpected first match %+v", matches[0])
	}
	if matches[1].Project != "Cuadro Clínico" || matches[1].Beneficiary.Tool != "Pintura" {
		t.Fatalf("unexpected second match %+v", matches[1])
	}

	if got := reg.FindBeneficiary("Carlos López"); len(got) != 1 {
		t.Fatalf("expected 1 match, got %d", len(got))
	}
	if got := reg.FindBeneficiary("Nadie"); len(got) != 0 {
		t.Fatalf("expected no matches, got %v", got)
	}
}

func TestRegistryFindBeneficiaryOnePerInstitution(t *testing.T) {
	reg := NewRegistry()
	p := NewMusicTherapy("P", "", start)
	inst := NewInstitution("I", "", "")
	inst.Add(newTestBeneficiary("Ana", Good))
	inst.Add(newTestBeneficiary("Ana", Poor))
	p.Add(inst)
	reg.Add(p)

	matches := reg.FindBeneficiary("Ana")
	if len(matches) != 1 || matches[0].Beneficiary.Response != Good {
		t.Fatalf("expected the first Ana only, got %+v", matches)
	}
}

func TestRegistryConsolidatedReport(t *testing.T) {
	at := time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC)
	withClock(t, at)
	reg := buildRegistry()

	report := reg.ConsolidatedReport()
	if !report.GeneratedAt.Equal(at) {
		t.Fatalf("unexpected generation time %v", report.GeneratedAt)
	}
	if report.TotalProjects != 2 || len(report.Projects) != 2 {
		t.Fatalf("unexpected project count: %+v", report)
	}
	sum := 0
	for _, p := range reg.Projects() {
		sum += p.TotalBeneficiaries()
	}
	if report.TotalBeneficiaries != sum || sum != 3 {
		t.Fatalf("expected %d beneficiaries, got %d", sum, report.TotalBeneficiaries)
	}
	if report.Projects[0].Type != "Musicoterapia" || report.Projects[1].Type != "Arteterapia" {
		t.Fatalf("unexpected project order: %v, %v", report.Projects[0].Type, report.Projects[1].Type)
	}

	summaries := report.Summaries()
	if len(summaries) != 2 || summaries[0].Institutions != 2 || summaries[1].Beneficiaries != 1 {
		t.Fatalf("unexpected summaries %+v", summaries)
	}
}

func TestRegistryConsolidatedReportEmpty(t *testing.T) {
	b, err := EncodeReport(NewRegistry().ConsolidatedReport())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.Contains(string(b), `"proyectos": []`) {
		t.Fatalf("expected empty project list, got %s", b)
	}
}

func TestRegistryExport(t *testing.T) {
	reg := buildRegistry()
	path := filepath.Join(t.TempDir(), "reporte_proyectos.json")

	if !reg.Export(path) {
		t.Fatalf("expected export to succeed")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if decoded["total_proyectos"] != float64(2) || decoded["total_beneficiarios"] != float64(3) {
		t.Fatalf("unexpected totals: %v / %v", decoded["total_proyectos"], decoded["total_beneficiarios"])
	}
	if _, err := time.Parse(time.RFC3339Nano, decoded["fecha_generacion"].(string)); err != nil {
		t.Fatalf("generation date is not ISO-8601: %v", err)
	}

	text := string(raw)
	if !strings.Contains(text, "\n  \"total_proyectos\": 2") {
		t.Fatalf("expected two space indentation:\n%s", text)
	}
	for _, literal := range []string{"Melodía Vital", "Meditación sonora", "Clínica del Valle", "Artesanías"} {
		if !strings.Contains(text, literal) {
			t.Fatalf("expected literal %q in export", literal)
		}
	}
	if strings.Contains(text, `\u00`) {
		t.Fatalf("non-ASCII characters were escaped")
	}

	matches, _ := filepath.Glob(path + ".tmp-*")
	if len(matches) != 0 {
		t.Fatalf("temp files left behind: %v", matches)
	}
}

func TestRegistryExportKeepsAmpersand(t *testing.T) {
	reg := NewRegistry()
	reg.Add(NewArtTherapy("Arte & Salud", "", start))
	path := filepath.Join(t.TempDir(), "out.json")
	if !reg.Export(path) {
		t.Fatalf("expected export to succeed")
	}
	raw, _ := os.ReadFile(path)
	if !strings.Contains(string(raw), "Arte & Salud") {
		t.Fatalf("expected literal ampersand:\n%s", raw)
	}
}

func TestRegistryExportFailure(t *testing.T) {
	reg := buildRegistry()
	path := filepath.Join(t.TempDir(), "missing", "dir", "out.json")
	if reg.Export(path) {
		t.Fatalf("expected export into a missing directory to fail")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected no file, stat err=%v", err)
	}
}

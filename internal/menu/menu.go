// Package menu implements the interactive text session over the registry.
package menu

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"sanartes/internal/core"
	applog "sanartes/internal/log"
	"sanartes/internal/services"
)

// Options lists the main menu entries in display order.
var Options = []string{
	"1. Agregar beneficiario",
	"2. Consultar beneficiario",
	"3. Ver estadísticas proyecto",
	"4. Generar reporte consolidado",
	"5. Exportar datos",
	"6. Salir",
}

const (
	optAdd = iota + 1
	optLookup
	optStats
	optReport
	optExport
	optExit
)

const separator = "=================================================="

// maxLineSize bounds one line of input.
const maxLineSize = 1 << 20

var (
	// errInvalid marks a bad selection inside a sub-flow.
	errInvalid            = errors.New("entrada no válida")
	errOutOfRange         = fmt.Errorf("%w: fuera de rango", errInvalid)
	errInvalidProject     = errors.New("proyecto no válido")
	errInvalidInstitution = errors.New("institución no válida")
)

// Exporter writes the consolidated report and fans it out to the sinks.
type Exporter interface {
	Export(ctx context.Context, path string) services.ExportResult
}

type Menu struct {
	in         *bufio.Scanner
	out        io.Writer
	registry   *services.RegistryService
	exporter   Exporter
	exportPath string
	logger     *applog.Logger
}

func New(in io.Reader, out io.Writer, registry *services.RegistryService, exporter Exporter, exportPath string, logger *applog.Logger) *Menu {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	if exportPath == "" {
		exportPath = core.DefaultExportPath
	}
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)
	return &Menu{
		in:         scanner,
		out:        out,
		registry:   registry,
		exporter:   exporter,
		exportPath: exportPath,
		logger:     logger.WithComponent(applog.ComponentMenu),
	}
}

// Run loops until the user picks exit, input ends or ctx is cancelled.
func (m *Menu) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		op, ok := m.choose()
		if !ok || op == optExit {
			break
		}
		var err error
		switch op {
		case optAdd:
			err = m.addBeneficiary()
		case optLookup:
			err = m.lookup()
		case optStats:
			err = m.stats()
		case optReport:
			m.PrintReport(m.registry.ConsolidatedReport())
		case optExport:
			m.export(ctx)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		switch {
		case errors.Is(err, errInvalidProject):
			m.println("Proyecto no válido")
		case errors.Is(err, errInvalidInstitution):
			m.println("Institución no válida")
		case err != nil:
			m.println("Entrada no válida")
		}
	}

	if err := m.in.Err(); err != nil {
		m.logger.Warn("Input ended with a read error", applog.FieldError, err)
		if errors.Is(err, bufio.ErrTooLong) {
			m.printf("\nEntrada demasiado larga (máximo %d bytes)\n", maxLineSize)
		} else {
			m.println("\nError al leer la entrada")
		}
	}

	m.println("\n=== SISTEMA FINALIZADO ===")
	m.println("Gracias por usar el sistema de gestión de proyectos de salud pública de Fundacion Sanartes")
	return nil
}

// choose prints the main menu and reads a selection until it is in range.
func (m *Menu) choose() (int, bool) {
	m.println("\n" + separator)
	m.println("MENÚ DE OPCIONES - SISTEMA DE SALUD PÚBLICA")
	m.println(separator)
	for _, o := range Options {
		m.println(o)
	}
	for {
		line, ok := m.prompt("\nDigite su opción: ")
		if !ok {
			return 0, false
		}
		op, err := strconv.Atoi(strings.TrimSpace(line))
		if err == nil && op >= 1 && op <= len(Options) {
			return op, true
		}
		m.printf("Su opción debe ser un número entre 1 y %d\n", len(Options))
	}
}

func (m *Menu) addBeneficiary() error {
	m.println("\n--- AGREGAR BENEFICIARIO ---")
	project, err := m.selectProject()
	if err != nil {
		return err
	}

	m.printf("\nInstituciones en %s:\n", project.Name)
	institutions := project.Institutions()
	for i, inst := range institutions {
		m.printf("%d. %s\n", i+1, inst.Name)
	}
	idx, err := m.readIndex("Seleccione institución (número): ", len(institutions))
	if errors.Is(err, errOutOfRange) {
		return errInvalidInstitution
	}
	if err != nil {
		return err
	}
	institution := institutions[idx]

	name, ok := m.prompt("Nombre del beneficiario: ")
	if !ok {
		return io.EOF
	}

	category, err := pick(m, "Tipos de beneficiario:", "Seleccione tipo (número): ", core.AllCategories())
	if err != nil {
		return err
	}
	gender, err := pick(m, "Géneros:", "Seleccione género (número): ", core.AllGenders())
	if err != nil {
		return err
	}
	age, err := m.readInt("Edad: ")
	if err != nil {
		return err
	}
	condition, ok := m.prompt("Enfermedad/Padecimiento: ")
	if !ok {
		return io.EOF
	}
	tool, err := pick(m, "Herramientas de tratamiento disponibles:", "Seleccione herramienta (número): ", project.Catalog())
	if err != nil {
		return err
	}
	response, err := pick(m, "Respuesta al tratamiento:", "Seleccione respuesta (número): ", core.AllResponses())
	if err != nil {
		return err
	}

	b := core.NewBeneficiary(name, category, gender, age, condition, tool, response)
	if err := m.registry.AddBeneficiary(project.Name, institution.Name, b); err != nil {
		m.logger.Warn("Failed to add beneficiary", applog.FieldError, err)
		return err
	}
	m.printf("Beneficiario %s agregado a %s\n", b.Name, institution.Name)
	return nil
}

func (m *Menu) lookup() error {
	m.println("\n--- CONSULTAR BENEFICIARIO ---")
	name, ok := m.prompt("Nombre del beneficiario a buscar: ")
	if !ok {
		return io.EOF
	}
	matches := m.registry.FindBeneficiary(strings.TrimSpace(name))
	if len(matches) == 0 {
		m.println("Beneficiario no encontrado")
		return nil
	}
	for _, match := range matches {
		m.printf("\nEncontrado en: %s -> %s\n", match.Project, match.Institution)
		m.PrintBeneficiary(match.Beneficiary)
	}
	return nil
}

func (m *Menu) stats() error {
	m.println("\n--- ESTADÍSTICAS POR PROYECTO ---")
	project, err := m.selectProject()
	if err != nil {
		return err
	}
	m.PrintProjectReport(project.Report())
	return nil
}

func (m *Menu) export(ctx context.Context) {
	m.println("\n--- EXPORTAR DATOS ---")
	result := m.exporter.Export(ctx, m.exportPath)
	if !result.OK {
		m.println("✗ Error al exportar datos")
		return
	}
	m.printf("✓ Datos exportados exitosamente a '%s'\n", result.Path)
	if failed := result.FailedSinks(); len(failed) > 0 {
		m.printf("⚠ Destinos con error: %s\n", strings.Join(failed, ", "))
	}
}

func (m *Menu) selectProject() (*core.Project, error) {
	projects := m.registry.Projects()
	m.println("Proyectos disponibles:")
	for i, p := range projects {
		m.printf("%d. %s\n", i+1, p.Name)
	}
	idx, err := m.readIndex("Seleccione proyecto (número): ", len(projects))
	if errors.Is(err, errOutOfRange) {
		return nil, errInvalidProject
	}
	if err != nil {
		return nil, err
	}
	return projects[idx], nil
}

// PrintBeneficiary writes the detail block of one beneficiary.
func (m *Menu) PrintBeneficiary(b *core.Beneficiary) {
	m.printf("\nId beneficiario: %s\n", b.Name)
	m.printf("Tipo: %s\n", b.Category)
	m.printf("Género: %s\n", b.Gender)
	m.printf("Edad: %d\n", b.Age)
	m.printf("Enfermedad/Padecimiento: %s\n", b.Condition)
	m.printf("Herramienta de tratamiento: %s\n", b.Tool)
	m.printf("Respuesta al tratamiento: %s\n", b.Response)
}

// PrintProjectReport writes the headline of a specialized project report.
func (m *Menu) PrintProjectReport(r core.ProjectReport) {
	m.printf("\n=== ESTADÍSTICAS %s ===\n", strings.ToUpper(r.Type))
	m.printf("Proyecto: %s\n", r.Name)
	m.printf("Total instituciones: %d\n", r.Institutions)
	m.printf("Total beneficiarios: %d\n", r.Beneficiaries)

	title := "Técnicas más usadas:"
	if r.Variant == core.MusicTherapy {
		title = "Abordajes más usados:"
	}
	if len(r.Usage) == 0 {
		m.printf("%s ninguno\n", title)
		return
	}
	m.println(title)
	for _, u := range sortedUsage(r.Usage) {
		m.printf("  - %s: %d\n", u.tool, u.count)
	}
}

// PrintReport writes the consolidated report summary.
func (m *Menu) PrintReport(r core.ConsolidatedReport) {
	m.println("\n--- REPORTE CONSOLIDADO ---")
	m.printf("Fecha: %s\n", r.GeneratedAt.Format(time.RFC3339))
	m.printf("Total proyectos: %d\n", r.TotalProjects)
	m.printf("Total beneficiarios: %d\n", r.TotalBeneficiaries)
	m.println("\nProyectos:")
	for _, p := range r.Summaries() {
		m.printf("- %s (%s): %d beneficiarios\n", p.Name, p.Type, p.Beneficiaries)
	}
}

type usage struct {
	tool  string
	count int
}

// sortedUsage orders tools by count, most used first, then by name.
func sortedUsage(counts map[string]int) []usage {
	out := make([]usage, 0, len(counts))
	for tool, n := range counts {
		out = append(out, usage{tool, n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].tool < out[j].tool
	})
	return out
}

func pick[T ~string](m *Menu, title, question string, choices []T) (T, error) {
	var zero T
	m.println(title)
	for i, c := range choices {
		m.printf("%d. %v\n", i+1, c)
	}
	idx, err := m.readIndex(question, len(choices))
	if err != nil {
		return zero, err
	}
	return choices[idx], nil
}

// readIndex reads a 1-based selection and returns it 0-based.
func (m *Menu) readIndex(question string, n int) (int, error) {
	v, err := m.readInt(question)
	if err != nil {
		return 0, err
	}
	if v < 1 || v > n {
		return 0, errOutOfRange
	}
	return v - 1, nil
}

func (m *Menu) readInt(question string) (int, error) {
	line, ok := m.prompt(question)
	if !ok {
		return 0, io.EOF
	}
	v, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return 0, errInvalid
	}
	return v, nil
}

func (m *Menu) prompt(question string) (string, bool) {
	fmt.Fprint(m.out, question)
	if !m.in.Scan() {
		return "", false
	}
	return m.in.Text(), true
}

func (m *Menu) println(s string) {
	fmt.Fprintln(m.out, s)
}

func (m *Menu) printf(format string, args ...any) {
	fmt.Fprintf(m.out, format, args...)
}

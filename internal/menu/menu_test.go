package menu

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	applog "sanartes/internal/log"
	"sanartes/internal/seed"
	"sanartes/internal/services"
	"sanartes/internal/sink"
)

type fakeExporter struct {
	paths  []string
	result services.ExportResult
}

func (f *fakeExporter) Export(_ context.Context, path string) services.ExportResult {
	f.paths = append(f.paths, path)
	r := f.result
	r.Path = path
	return r
}

func run(t *testing.T, input string, exporter Exporter) (string, *services.RegistryService) {
	t.Helper()
	logger := applog.New(applog.Config{Output: &bytes.Buffer{}})
	registry := services.NewRegistryService(seed.Demo(), nil, logger)
	if exporter == nil {
		exporter = &fakeExporter{result: services.ExportResult{OK: true}}
	}
	var out bytes.Buffer
	m := New(strings.NewReader(input), &out, registry, exporter, "", logger)
	require.NoError(t, m.Run(context.Background()))
	return out.String(), registry
}

func TestMenu_ExitAndEOF(t *testing.T) {
	out, _ := run(t, "6\n", nil)
	assert.Contains(t, out, "MENÚ DE OPCIONES - SISTEMA DE SALUD PÚBLICA")
	assert.Contains(t, out, "=== SISTEMA FINALIZADO ===")

	out, _ = run(t, "", nil)
	assert.Contains(t, out, "=== SISTEMA FINALIZADO ===")
}

func TestMenu_RepromptsOnBadSelection(t *testing.T) {
	out, _ := run(t, "abc\n0\n7\n6\n", nil)
	assert.Equal(t, 3, strings.Count(out, "Su opción debe ser un número entre 1 y 6"))
	assert.Equal(t, 1, strings.Count(out, "MENÚ DE OPCIONES"), "bad input re-prompts without reprinting the menu")
}

func TestMenu_Lookup(t *testing.T) {
	out, _ := run(t, "2\nAna García\n2\nNadie\n6\n", nil)
	assert.Contains(t, out, "Encontrado en: Melodía Vital -> Hospital General")
	assert.Contains(t, out, "Id beneficiario: Ana García")
	assert.Contains(t, out, "Respuesta al tratamiento: excelente")
	assert.Contains(t, out, "Beneficiario no encontrado")
}

func TestMenu_AddBeneficiary(t *testing.T) {
	// Cuadro Clínico, Clínica del Valle, Luis, persona_particular, masculino,
	// 50, Insomnio, Poesía, buena.
	input := "1\n2\n2\nLuis\n3\n1\n50\nInsomnio\n2\n2\n6\n"
	out, registry := run(t, input, nil)

	assert.Contains(t, out, "Beneficiario Luis agregado a Clínica del Valle")
	matches := registry.FindBeneficiary("Luis")
	require.Len(t, matches, 1)
	assert.Equal(t, "Cuadro Clínico", matches[0].Project)
	assert.Equal(t, "Clínica del Valle", matches[0].Institution)
	assert.Equal(t, "Poesía", matches[0].Beneficiary.Tool)
	assert.Equal(t, 50, matches[0].Beneficiary.Age)
	assert.Equal(t, 4, registry.Registry().TotalBeneficiaries())
}

func TestMenu_AddBeneficiaryInvalidInput(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"project out of range", "1\n9\n6\n", "Proyecto no válido"},
		{"project not a number", "1\nuno\n6\n", "Entrada no válida"},
		{"institution out of range", "1\n1\n4\n6\n", "Institución no válida"},
		{"institution not a number", "1\n1\nx\n6\n", "Entrada no válida"},
		{"age not a number", "1\n1\n1\nLuis\n1\n1\ntreinta\n6\n", "Entrada no válida"},
		{"tool out of range", "1\n1\n1\nLuis\n1\n1\n30\nEstrés\n9\n6\n", "Entrada no válida"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, registry := run(t, tc.input, nil)
			assert.Contains(t, out, tc.want)
			assert.Equal(t, 3, registry.Registry().TotalBeneficiaries())
			assert.Contains(t, out, "=== SISTEMA FINALIZADO ===")
		})
	}
}

func TestMenu_EOFInsideFlowEnds(t *testing.T) {
	out, registry := run(t, "1\n1\n1\nLuis\n", nil)
	assert.NotContains(t, out, "Entrada no válida")
	assert.Contains(t, out, "=== SISTEMA FINALIZADO ===")
	assert.Equal(t, 3, registry.Registry().TotalBeneficiaries())
}

func TestMenu_Stats(t *testing.T) {
	out, _ := run(t, "3\n1\n3\n2\n6\n", nil)
	assert.Contains(t, out, "=== ESTADÍSTICAS MUSICOTERAPIA ===")
	assert.Contains(t, out, "Proyecto: Melodía Vital")
	assert.Contains(t, out, "Total instituciones: 3")
	assert.Contains(t, out, "Total beneficiarios: 3")
	assert.Contains(t, out, "Abordajes más usados:")
	assert.Contains(t, out, "  - Meditación sonora: 1")
	assert.Contains(t, out, "=== ESTADÍSTICAS ARTETERAPIA ===")
	assert.Contains(t, out, "Técnicas más usadas: ninguno")
}

func TestMenu_Report(t *testing.T) {
	out, _ := run(t, "4\n6\n", nil)
	assert.Contains(t, out, "--- REPORTE CONSOLIDADO ---")
	assert.Contains(t, out, "Total proyectos: 2")
	assert.Contains(t, out, "Total beneficiarios: 3")
	assert.Contains(t, out, "- Melodía Vital (Musicoterapia): 3 beneficiarios")
	assert.Contains(t, out, "- Cuadro Clínico (Arteterapia): 0 beneficiarios")
}

func TestMenu_Export(t *testing.T) {
	ok := &fakeExporter{result: services.ExportResult{
		OK:    true,
		Sinks: []sink.Result{{Sink: "sqlite"}, {Sink: "amqp", Err: errors.New("down")}},
	}}
	out, _ := run(t, "5\n6\n", ok)
	assert.Equal(t, []string{"reporte_proyectos.json"}, ok.paths)
	assert.Contains(t, out, "✓ Datos exportados exitosamente a 'reporte_proyectos.json'")
	assert.Contains(t, out, "⚠ Destinos con error: amqp")

	failed := &fakeExporter{result: services.ExportResult{OK: false}}
	out, _ = run(t, "5\n6\n", failed)
	assert.Contains(t, out, "✗ Error al exportar datos")
}

func TestSortedUsage(t *testing.T) {
	got := sortedUsage(map[string]int{"Taller": 1, "Canto": 3, "Arpa": 1})
	require.Len(t, got, 3)
	assert.Equal(t, "Canto", got[0].tool)
	assert.Equal(t, "Arpa", got[1].tool)
	assert.Equal(t, "Taller", got[2].tool)
}

func TestMenu_StatsProjectOutOfRange(t *testing.T) {
	out, _ := run(t, "3\n5\n6\n", nil)
	assert.Contains(t, out, "Proyecto no válido")
	assert.NotContains(t, out, "Entrada no válida")
}

func TestMenu_LongLines(t *testing.T) {
	name := strings.Repeat("a", 100*1024)
	out, _ := run(t, "2\n"+name+"\n6\n", nil)
	assert.Contains(t, out, "Beneficiario no encontrado")
	assert.NotContains(t, out, "Entrada demasiado larga")

	out, _ = run(t, "2\n"+strings.Repeat("a", maxLineSize+1)+"\n6\n", nil)
	assert.Contains(t, out, "Entrada demasiado larga")
	assert.Contains(t, out, "=== SISTEMA FINALIZADO ===")
}

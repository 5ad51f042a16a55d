// Package seed builds the demonstration registry loaded at startup.
package seed

import (
	"time"

	"sanartes/internal/core"
)

type institutionInfo struct {
	name, address, phone string
}

var demoInstitutions = []institutionInfo{
	{"Hospital General", "Av. Salud 123", "555-0001"},
	{"Clínica del Valle", "Calle Bienestar 456", "555-0002"},
	{"Centro de Rehabilitación", "Plaza Esperanza 789", "555-0003"},
}

// Demo returns two projects sharing the same three institution names. Each
// project owns its own institution instances. The three sample
// beneficiaries are registered in the music therapy project's hospital.
func Demo() *core.Registry {
	music := core.NewMusicTherapy(
		"Melodía Vital",
		"Proyecto de musicoterapia para bienestar integral",
		time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	)
	art := core.NewArtTherapy(
		"Cuadro Clínico",
		"Proyecto de arteterapia para expresión y sanación",
		time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	)

	for _, p := range []*core.Project{music, art} {
		for _, info := range demoInstitutions {
			p.Add(core.NewInstitution(info.name, info.address, info.phone))
		}
	}

	hospital, _ := music.Find("Hospital General")
	hospital.Add(core.NewBeneficiary("Ana García", core.HealthWorker, core.Female, 35,
		"Estrés laboral", "Meditación sonora", core.Excellent))
	hospital.Add(core.NewBeneficiary("Carlos López", core.PatientCaregiver, core.Male, 42,
		"Ansiedad", "Acompañamiento musical", core.Good))
	hospital.Add(core.NewBeneficiary("María Torres", core.PrivateIndividual, core.Female, 28,
		"Depresión", "Taller", core.Fair))

	reg := core.NewRegistry()
	reg.Add(music)
	reg.Add(art)
	return reg
}

package core

import (
	"fmt"
	"time"
)

const (
	HealthWorker      Category = "trabajador_salud"
	PatientCaregiver  Category = "paciente_cuidador"
	PrivateIndividual Category = "persona_particular"
)

const (
	Male   Gender = "masculino"
	Female Gender = "femenino"
	Other  Gender = "otro"
)

const (
	Excellent Response = "excelente"
	Good      Response = "buena"
	Fair      Response = "regular"
	Poor      Response = "mala"
)

type (
	Category string
	Gender   string
	Response string

	// Beneficiary is a person receiving therapy within an institution.
	// Only the treatment response changes after registration.
	Beneficiary struct {
		Name         string // lookup key within an institution
		Category     Category
		Gender       Gender
		Age          int
		Condition    string
		Tool         string // treatment tool or technique, normally from the project catalog
		Response     Response
		RegisteredAt time.Time
	}
)

// nowFunc is swapped in tests that need stable timestamps.
var nowFunc = time.Now

// NewBeneficiary builds a beneficiary stamped with the current time.
// Inputs are taken as given; callers validate before constructing.
func NewBeneficiary(name string, category Category, gender Gender, age int, condition, tool string, response Response) *Beneficiary {
	return &Beneficiary{
		Name:         name,
		Category:     category,
		Gender:       gender,
		Age:          age,
		Condition:    condition,
		Tool:         tool,
		Response:     response,
		RegisteredAt: nowFunc(),
	}
}

// SetResponse replaces the treatment response.
func (b *Beneficiary) SetResponse(r Response) {
	b.Response = r
}

func (b *Beneficiary) String() string {
	return fmt.Sprintf("%s (%s, %d años)", b.Name, b.Category, b.Age)
}

// AllCategories returns the categories in presentation order.
func AllCategories() []Category {
	return []Category{HealthWorker, PatientCaregiver, PrivateIndividual}
}

// AllGenders returns the genders in presentation order.
func AllGenders() []Gender {
	return []Gender{Male, Female, Other}
}

// AllResponses returns the treatment responses from best to worst.
func AllResponses() []Response {
	return []Response{Excellent, Good, Fair, Poor}
}

func (c Category) String() string { return string(c) }
func (g Gender) String() string   { return string(g) }
func (r Response) String() string { return string(r) }

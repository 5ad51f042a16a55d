package core

import "fmt"

// Institution is a site taking part in a project. It owns its beneficiaries
// in insertion order; names are not required to be unique.
type Institution struct {
	Name    string
	Address string
	Phone   string

	beneficiaries []*Beneficiary
}

// InstitutionStats summarises the beneficiaries of one institution.
// An empty institution carries only Total.
type InstitutionStats struct {
	Total      int              `json:"total"`
	ByCategory map[Category]int `json:"por_tipo"`
	ByGender   map[Gender]int   `json:"por_genero"`
	ByResponse map[Response]int `json:"por_respuesta"`
	AverageAge float64          `json:"edad_promedio"`
}

func NewInstitution(name, address, phone string) *Institution {
	return &Institution{Name: name, Address: address, Phone: phone}
}

// Add appends b without checking for duplicate names.
func (i *Institution) Add(b *Beneficiary) {
	i.beneficiaries = append(i.beneficiaries, b)
}

// Remove deletes the first beneficiary named exactly name and reports
// whether one was found.
func (i *Institution) Remove(name string) bool {
	for idx, b := range i.beneficiaries {
		if b.Name == name {
			i.beneficiaries = append(i.beneficiaries[:idx], i.beneficiaries[idx+1:]...)
			return true
		}
	}
	return false
}

// Find returns the first beneficiary named exactly name.
func (i *Institution) Find(name string) (*Beneficiary, bool) {
	for _, b := range i.beneficiaries {
		if b.Name == name {
			return b, true
		}
	}
	return nil, false
}

// Beneficiaries returns a copy of the beneficiary list.
func (i *Institution) Beneficiaries() []*Beneficiary {
	return append([]*Beneficiary(nil), i.beneficiaries...)
}

// Len returns the number of beneficiaries.
func (i *Institution) Len() int {
	return len(i.beneficiaries)
}

// Stats computes the totals, the average age and the frequency tables by
// category, gender and treatment response.
func (i *Institution) Stats() InstitutionStats {
	total := len(i.beneficiaries)
	if total == 0 {
		return InstitutionStats{}
	}

	stats := InstitutionStats{
		Total:      total,
		ByCategory: make(map[Category]int),
		ByGender:   make(map[Gender]int),
		ByResponse: make(map[Response]int),
	}
	ageSum := 0
	for _, b := range i.beneficiaries {
		ageSum += b.Age
		stats.ByCategory[b.Category]++
		stats.ByGender[b.Gender]++
		stats.ByResponse[b.Response]++
	}
	stats.AverageAge = float64(ageSum) / float64(total)
	return stats
}

func (i *Institution) String() string {
	return fmt.Sprintf("%s (%d beneficiarios)", i.Name, len(i.beneficiaries))
}

// MarshalJSON renders an empty summary as {"total":0}.
func (s InstitutionStats) MarshalJSON() ([]byte, error) {
	if s.Total == 0 {
		return []byte(`{"total":0}`), nil
	}
	type plain InstitutionStats
	return marshalNoEscape(plain(s))
}

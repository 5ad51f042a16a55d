package services

import (
	"errors"
	"fmt"

	"sanartes/internal/core"
	applog "sanartes/internal/log"
	"sanartes/internal/metrics"
)

var (
	ErrProjectNotFound     = errors.New("project not found")
	ErrInstitutionNotFound = errors.New("institution not found")
)

// RegistryService is the single writer of the registry. It wraps the core
// operations the menu exposes with logging and metrics.
type RegistryService struct {
	registry *core.Registry
	metrics  *metrics.Metrics
	logger   *applog.Logger
}

func NewRegistryService(registry *core.Registry, m *metrics.Metrics, logger *applog.Logger) *RegistryService {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	m.SetRegistryBeneficiaries(registry.TotalBeneficiaries())
	return &RegistryService{
		registry: registry,
		metrics:  m,
		logger:   logger.WithComponent(applog.ComponentRegistry),
	}
}

func (s *RegistryService) Registry() *core.Registry { return s.registry }

// Projects returns the projects in insertion order.
func (s *RegistryService) Projects() []*core.Project {
	return s.registry.Projects()
}

// AddBeneficiary registers b in the named institution of the named project.
func (s *RegistryService) AddBeneficiary(projectName, institutionName string, b *core.Beneficiary) error {
	p, ok := s.registry.Find(projectName)
	if !ok {
		return fmt.Errorf("%w: %s", ErrProjectNotFound, projectName)
	}
	inst, ok := p.Find(institutionName)
	if !ok {
		return fmt.Errorf("%w: %s", ErrInstitutionNotFound, institutionName)
	}
	inst.Add(b)

	s.metrics.IncrementBeneficiariesAdded()
	s.metrics.SetRegistryBeneficiaries(s.registry.TotalBeneficiaries())
	s.logger.Info("Beneficiary registered",
		applog.NewFields().
			WithOperation(applog.OpCreate).
			WithPlacement(p.Name, inst.Name, b.Name).
			ToSlice()...)
	return nil
}

// FindBeneficiary searches every project and institution by exact name.
func (s *RegistryService) FindBeneficiary(name string) []core.Match {
	matches := s.registry.FindBeneficiary(name)
	s.metrics.ObserveLookup(len(matches))
	s.logger.Debug("Beneficiary lookup",
		applog.FieldOperation, applog.OpLookup,
		applog.FieldBeneficiary, name,
		applog.FieldMatches, len(matches))
	return matches
}

// ProjectReport returns the specialized report of the named project.
func (s *RegistryService) ProjectReport(name string) (core.ProjectReport, bool) {
	p, ok := s.registry.Find(name)
	if !ok {
		return core.ProjectReport{}, false
	}
	return p.Report(), true
}

// ConsolidatedReport builds a fresh report over every project.
func (s *RegistryService) ConsolidatedReport() core.ConsolidatedReport {
	report := s.registry.ConsolidatedReport()
	s.metrics.IncrementReportsGenerated()
	s.logger.Debug("Consolidated report generated",
		applog.FieldOperation, applog.OpReport,
		applog.FieldProjects, report.TotalProjects,
		applog.FieldBeneficiaries, report.TotalBeneficiaries)
	return report
}

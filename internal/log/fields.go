package log

// Common field names for structured logging
const (
	FieldComponent     = "component"
	FieldSuccess       = "success"
	FieldError         = "error"
	FieldOperation     = "operation"
	FieldProject       = "project"
	FieldProjectType   = "project_type"
	FieldInstitution   = "institution"
	FieldBeneficiary   = "beneficiary"
	FieldPath          = "path"
	FieldSink          = "sink"
	FieldExportID      = "export_id"
	FieldMatches       = "matches"
	FieldProjects      = "projects"
	FieldBeneficiaries = "beneficiaries"
	FieldDuration      = "duration_ms"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentMenu     = "menu"
	ComponentExport   = "export"
	ComponentStorage  = "storage"
	ComponentAMQP     = "amqp"
	ComponentSheets   = "sheets"
	ComponentBlob     = "blob"
	ComponentSink     = "sink"
	ComponentMetrics  = "metrics"
	ComponentRegistry = "registry"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpRead     = "read"
	OpDelete   = "delete"
	OpList     = "list"
	OpLookup   = "lookup"
	OpReport   = "report"
	OpExport   = "export"
	OpPublish  = "publish"
	OpValidate = "validate"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithPlacement adds the project and institution a beneficiary belongs to
func (f LogFields) WithPlacement(project, institution, beneficiary string) LogFields {
	f[FieldProject] = project
	f[FieldInstitution] = institution
	if beneficiary != "" {
		f[FieldBeneficiary] = beneficiary
	}
	return f
}

// WithSink adds sink related fields
func (f LogFields) WithSink(sink, exportID string, success bool) LogFields {
	f[FieldSink] = sink
	f[FieldExportID] = exportID
	f[FieldSuccess] = success
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}

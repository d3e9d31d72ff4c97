package normalizer

// Historical field aliases. The legacy front-end went through several
// generations of payloads: the canonical snake_case names, the localized
// camelCase names of the first Spanish UI, and a handful of English names
// from the earliest prototype. Resolution order is fixed per field:
// canonical first, then localized, then legacy; the first key present wins.
var (
	projectName        = []string{"name", "nombre", "project_name"}
	projectCountry     = []string{"country", "pais"}
	projectConsultant  = []string{"consultant", "consultor"}
	projectOppNumber   = []string{"opportunity_number", "numeroOportunidad", "opp_number"}
	projectClient      = []string{"client", "cliente"}
	projectManager     = []string{"manager", "jefeProyecto", "project_manager"}
	projectOppAmount   = []string{"opportunity_amount", "montoOportunidad", "amount"}
	projectPlanned     = []string{"planned_hours", "horasPlanificadas", "plannedHours"}
	projectExecuted    = []string{"executed_hours", "horasEjecutadas", "executedHours"}
	projectHourlyRate  = []string{"hourly_rate", "valorHora", "hourlyRate"}
	projectStartDate   = []string{"start_date", "fechaInicio"}
	projectEndDate     = []string{"end_date", "fechaTermino"}
	projectObservation = []string{"observations", "observaciones", "notes"}
	projectFinalized   = []string{"finalized", "finalizado"}

	visitProduct    = []string{"product", "producto"}
	visitClient     = []string{"client", "cliente"}
	visitOppNumber  = []string{"opportunity_number", "numeroOportunidad", "opp_number"}
	visitCountry    = []string{"country", "pais"}
	visitConsultant = []string{"consultant", "consultor"}
	visitHours      = []string{"hours", "horas", "duration"}
	visitDate       = []string{"visit_date", "fechaVisita", "date"}
	visitOppValue   = []string{"opportunity_value", "valorOportunidad", "value"}
)

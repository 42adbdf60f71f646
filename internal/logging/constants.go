package logging

// Field names shared by every package that logs, so runs can be filtered
// consistently in JSON output.
const (
	FieldScenario    = "scenario"
	FieldStage       = "stage"
	FieldMode        = "ppa_mode"
	FieldPPAPrice    = "ppa_price"
	FieldFlipYear    = "flip_year"
	FieldTargetYear  = "target_year"
	FieldIterations  = "iterations"
	FieldDebt        = "size_of_debt"
	FieldBindingYear = "debt_binding_year"
	FieldWorker      = "worker"
	FieldCount       = "count"
	FieldFailed      = "failed"
	FieldDuration    = "duration_ms"
	FieldError       = "error"
	FieldFormat      = "format"
	FieldDelimiter   = "delimiter"
	FieldInputFile   = "input_file"
	FieldOutputFile  = "output_file"
)

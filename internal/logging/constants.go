package logging

// Field names shared by every component so log lines can be filtered consistently.
const (
	FieldFile          = "file_path"
	FieldComponent     = "component"
	FieldBank          = "bank"
	FieldStrategy      = "strategy"
	FieldConfidence    = "confidence"
	FieldTransactionID = "transaction_id"
	FieldLine          = "line"
	FieldPage          = "page"
	FieldFormat        = "format"
	FieldCategory      = "category"
	FieldReason        = "reason"
	FieldCount         = "count"
	FieldDuplicates    = "duplicates_removed"
	FieldRejected      = "rejected"
	FieldDuration      = "duration_ms"
	FieldInputFile     = "input_file"
	FieldOutputFile    = "output_file"
	FieldAccount       = "account"
)

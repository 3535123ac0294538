package logging

// Standard structured field keys.
const (
	FieldComponent    = "component"
	FieldRunID        = "run_id"
	FieldBatch        = "batch"
	FieldSegment      = "segment"
	FieldWordID       = "word_id"
	FieldChain        = "chain"
	FieldEventType    = "event_type"
	FieldErrorHint    = "error_hint"
	FieldImpact       = "impact"
	FieldDecisionType = "decision_type"
	FieldAlert        = "alert"
)

package constants

// Outcome is the terminal state of one file in a batch run.
type Outcome string

// Stable values (printed in logs and summaries).
const (
	OutcomeOrganized Outcome = "ORGANIZED" // copied and recorded in the manifest
	OutcomeSkipped   Outcome = "SKIPPED"   // no grade could be inferred
	OutcomeFailed    Outcome = "FAILED"    // error while processing
)

// ImportOutcome is the result of importing one manifest record into the catalog.
type ImportOutcome string

const (
	ImportInserted  ImportOutcome = "IMPORTED"
	ImportDuplicate ImportOutcome = "DUPLICATE" // a product with the same file name exists
	ImportFailed    ImportOutcome = "FAILED"
)

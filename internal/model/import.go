package model

// ImportFailure records one CSV row that could not be imported.
type ImportFailure struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// ImportReport summarizes a CSV import run.
type ImportReport struct {
	BatchID         string          `json:"batchId"`
	RowsRead        int             `json:"rowsRead"`
	EntriesImported int             `json:"entriesImported"`
	ExitsImported   int             `json:"exitsImported"`
	Failures        []ImportFailure `json:"failures"`
}

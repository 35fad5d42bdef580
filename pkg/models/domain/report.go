package domain

// Report represents a dataset inspection report
type Report struct {
	Title    string
	Sources  Sources
	Sections []ReportSection
}

// ReportSection represents a logical section in the report
type ReportSection struct {
	Title   string
	Summary map[string]interface{}
	Details []ReportDetail
}

// ReportDetail represents a single row within a section
type ReportDetail struct {
	Name        string
	Value       interface{}
	Unit        string
	Description string
}

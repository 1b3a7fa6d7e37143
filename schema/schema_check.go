package schema

// SourceCheck is the outcome of validating one source file's header schema
// without running the pipeline.
type SourceCheck struct {
	Source SourceType `json:"source"`
	Path   string     `json:"path"`
	OK     bool       `json:"ok"`
	Detail string     `json:"detail,omitempty"`
}

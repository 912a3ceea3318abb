package models

// FunctionNamesMetadataKey is the object metadata key listing the functions an archive belongs to.
const FunctionNamesMetadataKey = "function.names"

// NotificationEvent is one decoded "object uploaded" notification.
type NotificationEvent struct {
	Records []Record `json:"records"`
}

// Record describes a single uploaded object.
// A nil Metadata means the notification carried no metadata block at all.
type Record struct {
	Region     string            `json:"region"`
	BucketName string            `json:"bucket"`
	ObjectKey  string            `json:"key"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// FunctionNames returns the raw "function.names" metadata value, if present.
func (r Record) FunctionNames() (string, bool) {
	if r.Metadata == nil {
		return "", false
	}
	names, ok := r.Metadata[FunctionNamesMetadataKey]
	return names, ok
}

type ResolvedTarget struct {
	FunctionName string `json:"functionName"`
	SourceBucket string `json:"sourceBucket"`
	SourceKey    string `json:"sourceKey"`
}

type UpdateOutcome struct {
	FunctionName string `json:"functionName"`
	Succeeded    bool   `json:"succeeded"`
	Err          error  `json:"-"`
}

// AggregateResult is the combined outcome of every update in one invocation.
type AggregateResult struct {
	Outcomes  []UpdateOutcome `json:"outcomes"`
	Succeeded bool            `json:"succeeded"`
}

// FailedFunctions returns the names of every function whose update failed.
func (ar AggregateResult) FailedFunctions() []string {
	failed := []string{}

	for _, outcome := range ar.Outcomes {
		if !outcome.Succeeded {
			failed = append(failed, outcome.FunctionName)
		}
	}

	return failed
}

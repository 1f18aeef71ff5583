package accessor

// Recorder receives accessor events, typically for metrics.
type Recorder interface {
	RecordArchiveLoad(status string)
	SetNamespaceEntries(n int)
	RecordArticleEnumerated()
	RecordEnumerationPass()
	RecordLookup(status string, hops int)
}

type nopRecorder struct{}

func (nopRecorder) RecordArchiveLoad(string) {}
func (nopRecorder) SetNamespaceEntries(int)  {}
func (nopRecorder) RecordArticleEnumerated() {}
func (nopRecorder) RecordEnumerationPass()   {}
func (nopRecorder) RecordLookup(string, int) {}

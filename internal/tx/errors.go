package tx

import "fmt"

// InvalidTranscriptError reports a structural violation in a transcript's
// geometry (overlapping exons, coordinates outside [start,end], a missing
// strand on a multi-exonic transcript). The containing locus is expected to
// drop the offending transcript and continue, per the recovery policy.
type InvalidTranscriptError struct {
	ID     string
	Reason string
}

func (e *InvalidTranscriptError) Error() string {
	return fmt.Sprintf("invalid transcript %q: %s", e.ID, e.Reason)
}

// InvalidCDSError reports a CDS/UTR length inconsistency. The recovery
// policy strips the offending ORF and retains the transcript as non-coding.
type InvalidCDSError struct {
	ID     string
	Reason string
}

func (e *InvalidCDSError) Error() string {
	return fmt.Sprintf("invalid CDS for transcript %q: %s", e.ID, e.Reason)
}

package llm

import "context"

type purposeKey struct{}

// PurposeUnknown labels calls made without WithPurpose.
const PurposeUnknown = "unknown"

// WithPurpose labels the calls made with ctx, e.g. "bank-gen", for the
// audit log and `quizzy llm stats`.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the label set by WithPurpose.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey{}).(string); ok && v != "" {
		return v
	}
	return PurposeUnknown
}

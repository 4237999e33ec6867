package dto

// UpdateOutput is one relevant push from the live channel. Data carries the
// event's embedded payload verbatim; the consumer renders it directly
// instead of re-fetching over REST.
type UpdateOutput struct {
	Type string
	Data []byte
}

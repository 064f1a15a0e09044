package llm

import "fmt"

// ProviderError is a non-success response from a provider's API: the call
// reached the provider but was rejected (bad request, auth, rate limit,
// overload). Network-level failures are not ProviderErrors — they come back
// as wrapped transport errors. Callers that need to tell the two apart use
// errors.As.
type ProviderError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s returned HTTP %d: %s", e.Provider, e.StatusCode, e.Body)
}

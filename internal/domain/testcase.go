package domain

// TestCase represents one input/expected-output pair a submission is
// judged against. Supplied by the caller and never mutated.
type TestCase struct {
	Input          string
	ExpectedOutput string
	Hidden         bool
}

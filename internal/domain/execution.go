package domain

// Language identifies a supported submission language
type Language string

const (
	LanguageJava   Language = "java"
	LanguageCpp    Language = "cpp"
	LanguagePython Language = "python"
	LanguageScript Language = "script"
)

// SupportedLanguages lists every language the orchestrator accepts,
// in a stable order
func SupportedLanguages() []Language {
	return []Language{LanguageJava, LanguageCpp, LanguagePython, LanguageScript}
}

// IsSupported reports whether l is one of the supported languages
func (l Language) IsSupported() bool {
	switch l {
	case LanguageJava, LanguageCpp, LanguagePython, LanguageScript:
		return true
	}
	return false
}

// ExecutionRequest is one attempt to run code against a single stdin.
// Every backend in the chain receives the same request shape.
type ExecutionRequest struct {
	Code      string   `json:"code"`
	Language  Language `json:"language"`
	Stdin     string   `json:"stdin"`
	TimeoutMs int64    `json:"timeoutMs"`
}

// ExecutionResult is the canonical result shape every backend adapter
// maps into. Stderr and ExitCode are pointers because a backend may
// not report them; Simulated marks results produced without running
// the code.
type ExecutionResult struct {
	Stdout    string  `json:"stdout"`
	Stderr    *string `json:"stderr"`
	ExitCode  *int    `json:"exitCode"`
	RuntimeMs int64   `json:"runtimeMs"`
	Memory    string  `json:"memory"`
	Simulated bool    `json:"simulated"`
}

package execution

import (
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"gitlab.com/codearena-2026.net/internal/core/ports/primary"
	"gitlab.com/codearena-2026.net/internal/domain"
)

// simulatedFailures is the fixed set of runtime failures injected when
// the quality draw does not succeed. A crude static heuristic cannot
// know whether code is correct; injecting failures keeps the platform
// from silently reporting 100% success for unexecutable code.
var simulatedFailures = []string{
	"runtime error: null pointer dereference",
	"runtime error: index out of range",
	"runtime error: division by zero",
	"time limit exceeded",
}

var (
	javaClassPattern = regexp.MustCompile(`\bclass\s+\w+`)
	javaMainPattern  = regexp.MustCompile(`\bstatic\s+void\s+main\b`)
	cppMainPattern   = regexp.MustCompile(`\bint\s+main\s*\(`)
)

// Simulator is the last-resort heuristic executor used only when every
// real backend is unreachable. It validates superficial well-formedness,
// injects failures proportional to a crude quality score, and
// pattern-matches the code/input to synthesize plausible output.
type Simulator struct {
	mu     sync.Mutex
	rng    *rand.Rand
	logger primary.Logger
}

// NewSimulator creates a simulator with the given random source. The
// source is injected so tests can seed it deterministically.
func NewSimulator(rng *rand.Rand, logger primary.Logger) *Simulator {
	return &Simulator{rng: rng, logger: logger}
}

// Simulate fabricates an execution result for structurally valid code
// and returns an error otherwise. The result is always flagged
// simulated so callers can distinguish it from a real run.
func (s *Simulator) Simulate(req *domain.ExecutionRequest) (*domain.ExecutionResult, error) {
	if strings.TrimSpace(req.Code) == "" {
		return nil, errors.New("compilation error: source code is empty")
	}

	if err := checkWellFormed(req.Code, req.Language); err != nil {
		return nil, err
	}

	score := qualityScore(req.Code)

	s.mu.Lock()
	draw := s.rng.Float64()
	failureIdx := s.rng.Intn(len(simulatedFailures))
	runtimeMs := int64(40 + s.rng.Intn(210))
	memoryKb := 8192 + s.rng.Intn(24576)
	s.mu.Unlock()

	if draw >= score {
		failure := simulatedFailures[failureIdx]
		s.logger.Debug("Simulation injected a failure",
			"language", req.Language,
			"score", score,
			"failure", failure)
		return nil, errors.New(failure)
	}

	stdout := synthesizeOutput(req.Code, req.Stdin)

	return &domain.ExecutionResult{
		Stdout:    stdout,
		ExitCode:  intPtr(0),
		RuntimeMs: runtimeMs,
		Memory:    fmt.Sprintf("%d KB", memoryKb),
		Simulated: true,
	}, nil
}

// checkWellFormed applies language-specific structural checks. Absence
// of an entry point or a broken block structure is an error, never a
// fabricated success.
func checkWellFormed(code string, language domain.Language) error {
	switch language {
	case domain.LanguageJava:
		if !javaClassPattern.MatchString(code) {
			return errors.New("missing entry point: expected a class declaration")
		}
		if !javaMainPattern.MatchString(code) {
			return errors.New("missing entry point: expected a static void main method")
		}
	case domain.LanguageCpp:
		if !cppMainPattern.MatchString(code) {
			return errors.New("missing entry point: expected int main()")
		}
	case domain.LanguagePython:
		if !strings.Contains(code, "print(") && !strings.Contains(code, "def ") {
			return errors.New("missing entry point: expected a print call or function definition")
		}
		if err := checkPythonIndentation(code); err != nil {
			return err
		}
	case domain.LanguageScript:
		if !strings.Contains(code, "print") && !strings.Contains(code, "function") {
			return errors.New("missing entry point: expected a print call or function definition")
		}
	}
	return nil
}

// checkPythonIndentation is a naive continuity check: a line opening a
// block must be followed by a more-indented non-empty line.
func checkPythonIndentation(code string) error {
	lines := strings.Split(code, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || !strings.HasSuffix(trimmed, ":") {
			continue
		}
		opener := indentOf(line)
		indented := false
		for j := i + 1; j < len(lines); j++ {
			if strings.TrimSpace(lines[j]) == "" {
				continue
			}
			indented = indentOf(lines[j]) > opener
			break
		}
		if !indented {
			return fmt.Errorf("compilation error: expected an indented block after line %d", i+1)
		}
	}
	return nil
}

func indentOf(line string) int {
	return len(line) - len(strings.TrimLeft(line, " \t"))
}

// qualityScore is a crude heuristic over the source: a fixed baseline,
// a bonus for passing the well-formedness gate, a reasonable length
// band, and common control-flow keywords, capped at 1.0.
func qualityScore(code string) float64 {
	score := 0.5
	score += 0.2 // well-formedness gate already passed
	if len(code) >= 30 && len(code) <= 3000 {
		score += 0.15
	}
	if strings.Contains(code, "for") || strings.Contains(code, "while") || strings.Contains(code, "if") {
		score += 0.1
	}
	if strings.Contains(code, "return") {
		score += 0.05
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// synthesizeOutput pattern-matches keywords in the source against the
// numeric content of the input to compute a plausible answer with the
// corresponding real algorithm; with no match it echoes the first
// input line.
func synthesizeOutput(code, stdin string) string {
	numbers := parseNumbers(stdin)
	lower := strings.ToLower(code)

	switch {
	case strings.Contains(lower, "factorial") && len(numbers) > 0:
		return strconv.Itoa(factorial(numbers[0])) + "\n"
	case (strings.Contains(lower, "fibonacci") || strings.Contains(lower, "fib")) && len(numbers) > 0:
		return strconv.Itoa(fibonacci(numbers[0])) + "\n"
	case (strings.Contains(lower, "sum") || strings.Contains(code, "+")) && len(numbers) > 0:
		total := 0
		for _, n := range numbers {
			total += n
		}
		return strconv.Itoa(total) + "\n"
	case strings.Contains(code, "*") && len(numbers) > 0:
		product := 1
		for _, n := range numbers {
			product *= n
		}
		return strconv.Itoa(product) + "\n"
	case strings.Contains(code, "/") && len(numbers) >= 2 && numbers[1] != 0:
		return strconv.Itoa(numbers[0]/numbers[1]) + "\n"
	case strings.Contains(code, "%") && len(numbers) >= 2 && numbers[1] != 0:
		return strconv.Itoa(numbers[0]%numbers[1]) + "\n"
	}

	firstLine := stdin
	if idx := strings.IndexByte(stdin, '\n'); idx >= 0 {
		firstLine = stdin[:idx]
	}
	return strings.TrimRight(firstLine, "\r") + "\n"
}

func parseNumbers(stdin string) []int {
	var numbers []int
	for _, field := range strings.Fields(stdin) {
		if n, err := strconv.Atoi(field); err == nil {
			numbers = append(numbers, n)
		}
	}
	return numbers
}

// factorial computes n! iteratively, clamped to 10!
func factorial(n int) int {
	if n < 0 {
		return 0
	}
	if n > 10 {
		n = 10
	}
	result := 1
	for i := 2; i <= n; i++ {
		result *= i
	}
	return result
}

// fibonacci computes the nth term iteratively, clamped to the 20th
func fibonacci(n int) int {
	if n <= 0 {
		return 0
	}
	if n > 20 {
		n = 20
	}
	a, b := 0, 1
	for i := 1; i < n; i++ {
		a, b = b, a+b
	}
	return b
}

func intPtr(n int) *int {
	return &n
}

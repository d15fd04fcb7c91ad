package luasandbox

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"

	"gitlab.com/codearena-2026.net/internal/core/ports/primary"
	"gitlab.com/codearena-2026.net/internal/core/ports/secondary"
	"gitlab.com/codearena-2026.net/internal/domain"
)

var _ secondary.Executor = (*Sandbox)(nil)

// Sandbox executes script-language code in-process inside an isolated
// lua state. The state exposes only print and the injected read
// primitives; module loading is denied. Script failures never escape
// as errors — they are captured into the result's stderr.
type Sandbox struct {
	logger primary.Logger
}

// NewSandbox creates a new in-process script sandbox
func NewSandbox(logger primary.Logger) *Sandbox {
	return &Sandbox{logger: logger}
}

func (s *Sandbox) Name() string {
	return "lua-sandbox"
}

// readPrimitiveAliases are the stdin read functions injected into the
// script's global scope. Each pops the next unread input line and
// returns the empty string once input is exhausted.
var readPrimitiveAliases = []string{"readLine", "gets", "prompt"}

// deniedGlobals would allow escaping the sandbox; calling any of them
// fails with a fixed capability-denied error.
var deniedGlobals = []string{"require", "dofile", "loadfile"}

// Execute runs script code with a hard wall-clock timeout. Only script
// requests are handled; other languages fall through to the next
// backend in the chain.
func (s *Sandbox) Execute(ctx context.Context, req *domain.ExecutionRequest) (*domain.ExecutionResult, error) {
	if req.Language != domain.LanguageScript {
		return nil, fmt.Errorf("%w: sandbox only runs script code, got %s", secondary.ErrUnsupportedLanguage, req.Language)
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		if err := L.CallByParam(lua.P{
			Fn:      L.NewFunction(lib.fn),
			NRet:    0,
			Protect: true,
		}, lua.LString(lib.name)); err != nil {
			return nil, fmt.Errorf("failed to initialize sandbox libraries: %w", err)
		}
	}

	for _, name := range deniedGlobals {
		name := name
		L.SetGlobal(name, L.NewFunction(func(L *lua.LState) int {
			L.RaiseError("%s is not allowed: module loading is disabled in the sandbox", name)
			return 0
		}))
	}

	// Blocking stdin reads are modeled as synchronous pulls from a
	// pre-buffered line queue.
	lines := splitLines(req.Stdin)
	next := 0
	readLine := L.NewFunction(func(L *lua.LState) int {
		if next < len(lines) {
			L.Push(lua.LString(lines[next]))
			next++
		} else {
			L.Push(lua.LString(""))
		}
		return 1
	})
	for _, alias := range readPrimitiveAliases {
		L.SetGlobal(alias, readLine)
	}

	var stdout bytes.Buffer
	L.SetGlobal("print", L.NewFunction(func(L *lua.LState) int {
		top := L.GetTop()
		parts := make([]string, 0, top)
		for i := 1; i <= top; i++ {
			parts = append(parts, L.ToStringMeta(L.Get(i)).String())
		}
		stdout.WriteString(strings.Join(parts, "\t"))
		stdout.WriteString("\n")
		return 0
	}))

	runCtx, cancel := context.WithTimeout(ctx, time.Duration(req.TimeoutMs)*time.Millisecond)
	defer cancel()
	L.SetContext(runCtx)

	start := time.Now()
	err := L.DoString(req.Code)
	elapsed := time.Since(start).Milliseconds()

	if err != nil {
		// Partial stdout from a failed run is unreliable; discard it.
		msg := err.Error()
		if runCtx.Err() == context.DeadlineExceeded {
			msg = fmt.Sprintf("time limit exceeded after %dms", req.TimeoutMs)
		}
		exitCode := 1
		s.logger.Debug("Sandbox run failed", "error", msg)
		return &domain.ExecutionResult{
			Stdout:    "",
			Stderr:    &msg,
			ExitCode:  &exitCode,
			RuntimeMs: elapsed,
			Memory:    "N/A",
		}, nil
	}

	exitCode := 0
	return &domain.ExecutionResult{
		Stdout:    stdout.String(),
		ExitCode:  &exitCode,
		RuntimeMs: elapsed,
		Memory:    "N/A",
	}, nil
}

func splitLines(stdin string) []string {
	if stdin == "" {
		return nil
	}
	normalized := strings.ReplaceAll(stdin, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	return strings.Split(normalized, "\n")
}

// Package arduinocli invokes the arduino-cli executable as an opaque child
// process. Commands run synchronously with captured output; the tool's text
// is relayed verbatim and never parsed here.
package arduinocli

import (
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/odvcencio/sketchd/pkg/logging"
)

var metricInvocations = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "sketchd",
	Name:      "tool_invocations_total",
	Help:      "External tool invocations by leading subcommand and status.",
}, []string{"command", "status"})

const (
	// StatusSuccess marks a zero-exit invocation.
	StatusSuccess = "success"
	// StatusError marks a non-zero exit or a failure to launch.
	StatusError = "error"
)

// Result is the normalized outcome of one invocation. Failures are routine
// outcomes (compile errors, missing cores) rather than faults, so the result
// carries them instead of an error return.
type Result struct {
	Status string `json:"status"`
	Output string `json:"output"`
	Error  string `json:"error"`

	ExitCode int           `json:"-"`
	Duration time.Duration `json:"-"`
}

// Succeeded reports whether the invocation exited zero.
func (r *Result) Succeeded() bool {
	return r.Status == StatusSuccess
}

// Runner invokes a fixed arduino-cli binary. Compile and upload always pin
// the configured FQBN.
type Runner struct {
	binary string
	fqbn   string
	logger *logging.Logger
}

// New creates a runner for the given binary path and board FQBN.
func New(binary, fqbn string, logger *logging.Logger) *Runner {
	return &Runner{
		binary: binary,
		fqbn:   fqbn,
		logger: logger,
	}
}

// Run executes the tool with the given argument vector, blocking until it
// exits. Arguments are passed as a discrete vector with no shell
// interpretation. There is no timeout and no cancellation: a launched command
// always runs to completion.
func (r *Runner) Run(args []string, dir string) *Result {
	start := time.Now()

	cmd := exec.Command(r.binary, args...)
	if dir != "" {
		cmd.Dir = dir
	}

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := &Result{
		Status:   StatusSuccess,
		Output:   stdout.String(),
		Duration: time.Since(start),
	}

	if err != nil {
		result.Status = StatusError
		result.Output = ""
		if exitErr, ok := err.(*exec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
			result.Error = stderr.String()
		} else {
			// The process never started (missing binary, permissions).
			result.ExitCode = -1
			result.Error = err.Error()
		}
	}

	metricInvocations.WithLabelValues(leadingCommand(args), result.Status).Inc()
	r.logRun(args, result)
	return result
}

func leadingCommand(args []string) string {
	if len(args) == 0 {
		return "none"
	}
	return args[0]
}

func (r *Runner) logRun(args []string, result *Result) {
	if r.logger == nil {
		return
	}
	details := map[string]any{
		"args":        args,
		"exit_code":   result.ExitCode,
		"duration_ms": result.Duration.Milliseconds(),
	}
	if result.Succeeded() {
		_ = r.logger.Info(logging.CategoryTool, "exec", fmt.Sprintf("%s %s", r.binary, strings.Join(args, " ")), details)
		return
	}
	details["stderr"] = result.Error
	_ = r.logger.Error(logging.CategoryTool, "exec_failed", fmt.Sprintf("%s %s", r.binary, strings.Join(args, " ")), details)
}

// Compile builds the sketch in projectDir for the pinned FQBN. workDir sets
// the subprocess working directory (the sketchbook root).
func (r *Runner) Compile(projectDir, workDir string) *Result {
	return r.Run([]string{"compile", "--fqbn", r.fqbn, projectDir}, workDir)
}

// Upload flashes the sketch in projectDir to the board on the given port.
func (r *Runner) Upload(projectDir, port, workDir string) *Result {
	return r.Run([]string{"upload", "-p", port, "--fqbn", r.fqbn, projectDir}, workDir)
}

// LibList lists installed libraries.
func (r *Runner) LibList() *Result {
	return r.Run([]string{"lib", "list"}, "")
}

// LibSearch searches the library index for a keyword.
func (r *Runner) LibSearch(keyword string) *Result {
	return r.Run([]string{"lib", "search", keyword}, "")
}

// LibInstall installs a library by name.
func (r *Runner) LibInstall(name string) *Result {
	return r.Run([]string{"lib", "install", name}, "")
}

// LibUninstall uninstalls a library by name.
func (r *Runner) LibUninstall(name string) *Result {
	return r.Run([]string{"lib", "uninstall", name}, "")
}

// LibUpdate updates a single library.
func (r *Runner) LibUpdate(name string) *Result {
	return r.Run([]string{"lib", "update", name}, "")
}

// LibUpdateAll updates every installed library.
func (r *Runner) LibUpdateAll() *Result {
	return r.Run([]string{"lib", "update"}, "")
}

// BoardList lists boards connected to the host.
func (r *Runner) BoardList() *Result {
	return r.Run([]string{"board", "list"}, "")
}

// CoreSearch searches the core index for a keyword.
func (r *Runner) CoreSearch(keyword string) *Result {
	return r.Run([]string{"core", "search", keyword}, "")
}

// CoreInstall installs a board core.
func (r *Runner) CoreInstall(core string) *Result {
	return r.Run([]string{"core", "install", core}, "")
}

// CoreUninstall uninstalls a board core.
func (r *Runner) CoreUninstall(core string) *Result {
	return r.Run([]string{"core", "uninstall", core}, "")
}

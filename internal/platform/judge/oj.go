package judge

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"
	"vjbot/internal/common"
	"vjbot/internal/domain/model"

	"golang.org/x/sync/semaphore"
)

// runFunc executes the submission tool with the given arguments and returns
// its stdout and stderr. Swapped out in tests.
type runFunc func(ctx context.Context, args ...string) (stdout, stderr string, err error)

// OJClient drives the `oj` command-line tool against VJudge. Every
// invocation runs as a subprocess under a timeout; a weighted semaphore caps
// how many subprocesses run at once across all submissions.
type OJClient struct {
	bin     string
	baseURL string
	timeout time.Duration
	sem     *semaphore.Weighted
	run     runFunc
}

func NewOJClient(bin, baseURL string, timeout time.Duration, maxConcurrent int64) *OJClient {
	c := &OJClient{
		bin:     bin,
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		sem:     semaphore.NewWeighted(maxConcurrent),
	}
	c.run = c.execTool
	return c
}

func (c *OJClient) execTool(ctx context.Context, args ...string) (string, string, error) {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return "", "", err
	}
	defer c.sem.Release(1)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.bin, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func (c *OJClient) problemURL(judge, problemID string) string {
	return c.baseURL + "/problem/" + judge + "-" + problemID
}

func (c *OJClient) Submit(ctx context.Context, cred *model.JudgeCredential, req *model.SubmissionRequest) (model.SubmissionHandle, error) {
	// The secret travels only into the tool's argv, never into logs or
	// error messages.
	_, stderr, err := c.run(ctx,
		"login", c.baseURL+"/user/login",
		"--username", cred.Username,
		"--password", cred.Secret,
	)
	if err != nil {
		if isAuthFailure(stderr) {
			return "", fmt.Errorf("login as %s: %w", cred.Username, common.ErrCredentialRejected)
		}
		return "", fmt.Errorf("login: %s: %w", firstLine(stderr), common.ErrUploadFailed)
	}

	srcPath, err := writeSource(req.Code, req.Language)
	if err != nil {
		return "", fmt.Errorf("write source file: %w", err)
	}
	defer os.Remove(srcPath)

	stdout, stderr, err := c.run(ctx,
		"submit", c.problemURL(req.Judge, req.ProblemID),
		"--language", req.Language,
		srcPath,
	)
	if err != nil {
		if isInvalidProblem(stderr) {
			return "", fmt.Errorf("problem %s-%s: %w", req.Judge, req.ProblemID, common.ErrInvalidProblem)
		}
		return "", fmt.Errorf("submit: %s: %w", firstLine(stderr), common.ErrUploadFailed)
	}

	// The tool prints the submission id as the last token of its output.
	fields := strings.Fields(stdout)
	if len(fields) == 0 {
		return "", fmt.Errorf("submit: tool returned no submission id: %w", common.ErrUploadFailed)
	}
	return model.SubmissionHandle(fields[len(fields)-1]), nil
}

func (c *OJClient) Status(ctx context.Context, handle model.SubmissionHandle) (*StatusResult, error) {
	stdout, stderr, err := c.run(ctx, "get", string(handle))
	if err != nil {
		return nil, fmt.Errorf("status of %s: %s: %w", handle, firstLine(stderr), common.ErrUploadFailed)
	}
	return ParseStatus(stdout, handle)
}

// ParseStatus extracts the verdict row for the given handle from the tool's
// tabular output. A row that has not appeared yet means the judge is still
// queueing the submission.
func ParseStatus(out string, handle model.SubmissionHandle) (*StatusResult, error) {
	for _, line := range strings.Split(out, "\n") {
		if !strings.Contains(line, string(handle)) {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) < 4 {
			return nil, fmt.Errorf("status of %s: malformed row %q: %w", handle, line, common.ErrUploadFailed)
		}
		res := &StatusResult{Verdict: mapVerdict(parts[3])}
		if len(parts) > 4 {
			res.TimeMs = parseMetric(parts[4])
		}
		if len(parts) > 5 {
			res.MemoryKb = parseMetric(parts[5])
		}
		return res, nil
	}
	return &StatusResult{Verdict: model.VerdictPending}, nil
}

// mapVerdict normalizes the judge's verdict labels. Unknown labels are
// treated as still judging; the poll deadline bounds how long that can last.
func mapVerdict(raw string) model.Verdict {
	norm := strings.ToUpper(strings.Trim(raw, "_-"))
	norm = strings.ReplaceAll(norm, "_", "")
	switch norm {
	case "AC", "ACCEPTED", "OK":
		return model.VerdictAccepted
	case "WA", "WRONGANSWER":
		return model.VerdictWrongAnswer
	case "RE", "RTE", "RUNTIMEERROR":
		return model.VerdictRuntimeError
	case "TLE", "TIMELIMIT", "TIMELIMITEXCEEDED":
		return model.VerdictTimeLimitExceeded
	case "CE", "COMPILEERROR", "COMPILATIONERROR":
		return model.VerdictCompileError
	case "SE", "SYSTEMERROR", "JUDGEERROR":
		return model.VerdictSystemError
	case "PENDING", "QUEUED", "QUEUING", "INQUEUE", "SUBMITTED", "WAITING":
		return model.VerdictPending
	default:
		return model.VerdictJudging
	}
}

func parseMetric(raw string) *int {
	trimmed := strings.TrimFunc(raw, func(r rune) bool {
		return r < '0' || r > '9'
	})
	v, err := strconv.Atoi(trimmed)
	if err != nil {
		return nil
	}
	return &v
}

func writeSource(code, language string) (string, error) {
	f, err := os.CreateTemp("", "submission-*"+extForLanguage(language))
	if err != nil {
		return "", err
	}
	if _, err := f.WriteString(code); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

func extForLanguage(language string) string {
	lower := strings.ToLower(language)
	switch {
	case strings.Contains(lower, "py"):
		return ".py"
	case strings.Contains(lower, "java") && !strings.Contains(lower, "javascript"):
		return ".java"
	case strings.Contains(lower, "javascript") || strings.Contains(lower, "node"):
		return ".js"
	case strings.Contains(lower, "go"):
		return ".go"
	case strings.Contains(lower, "rust"):
		return ".rs"
	default:
		return ".cpp"
	}
}

func isAuthFailure(stderr string) bool {
	lower := strings.ToLower(stderr)
	return strings.Contains(lower, "login failed") ||
		strings.Contains(lower, "invalid username") ||
		strings.Contains(lower, "invalid password") ||
		strings.Contains(lower, "authentication")
}

func isInvalidProblem(stderr string) bool {
	lower := strings.ToLower(stderr)
	return strings.Contains(lower, "problem not found") ||
		strings.Contains(lower, "no such problem") ||
		strings.Contains(lower, "404")
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

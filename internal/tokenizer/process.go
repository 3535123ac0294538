package tokenizer

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// ProcessConfig describes an external tagging process.
type ProcessConfig struct {
	Command string
	Args    []string
	Env     []string
	// Language is passed to the process as VOCABSUB_LANGUAGE.
	Language string
	// StopTimeout bounds how long Close waits for a clean exit.
	StopTimeout time.Duration
}

// ProcessTagger talks to a model process over JSON lines. The process must
// print {"status":"ready"} (or {"status":"error","error":"..."}) once its
// model is loaded, then answer every {"text":"..."} line with
// {"tokens":[...]} or {"error":"..."}.
type ProcessTagger struct {
	cfg ProcessConfig

	mu     sync.Mutex
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	lines  chan lineResult
	stderr *tailBuffer
	broken error
}

type lineResult struct {
	line []byte
	err  error
}

type handshake struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

type processRequest struct {
	Text string `json:"text"`
}

type processResponse struct {
	Tokens []Token `json:"tokens"`
	Error  string  `json:"error"`
}

// NewProcessTagger validates cfg. The process is not started until Load.
func NewProcessTagger(cfg ProcessConfig) (*ProcessTagger, error) {
	cfg.Command = strings.TrimSpace(cfg.Command)
	if cfg.Command == "" {
		return nil, errors.New("tokenizer: process command required")
	}
	if cfg.StopTimeout <= 0 {
		cfg.StopTimeout = 5 * time.Second
	}
	return &ProcessTagger{cfg: cfg}, nil
}

// Load starts the process and waits for its readiness line.
func (p *ProcessTagger) Load(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cmd != nil {
		return errors.New("tokenizer: process already started")
	}

	cmd := exec.Command(p.cfg.Command, p.cfg.Args...)
	cmd.Env = append(os.Environ(), p.cfg.Env...)
	if p.cfg.Language != "" {
		cmd.Env = append(cmd.Env, "VOCABSUB_LANGUAGE="+p.cfg.Language)
	}
	setProcessGroup(cmd)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	p.stderr = newTailBuffer(4096)
	cmd.Stderr = p.stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", p.cfg.Command, err)
	}
	p.cmd = cmd
	p.stdin = stdin
	p.lines = make(chan lineResult)
	go readLines(stdout, p.lines)

	line, err := p.readLine(ctx)
	if err != nil {
		return p.failure("handshake", err)
	}
	var hs handshake
	if err := json.Unmarshal(line, &hs); err != nil {
		return p.failure("handshake", fmt.Errorf("decode %q: %w", strings.TrimSpace(string(line)), err))
	}
	switch strings.ToLower(strings.TrimSpace(hs.Status)) {
	case "ready":
		return nil
	case "error":
		return p.failure("handshake", errors.New(strings.TrimSpace(hs.Error)))
	default:
		return p.failure("handshake", fmt.Errorf("unexpected status %q", hs.Status))
	}
}

// Tag sends one request and reads one response line.
func (p *ProcessTagger) Tag(ctx context.Context, text string) ([]Token, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.broken != nil {
		return nil, p.broken
	}
	if p.cmd == nil {
		return nil, errors.New("tokenizer: process not started")
	}

	payload, err := json.Marshal(processRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	payload = append(payload, '\n')
	if _, err := p.stdin.Write(payload); err != nil {
		p.broken = p.failure("write", err)
		return nil, p.broken
	}
	line, err := p.readLine(ctx)
	if err != nil {
		// the stream is out of step once a response is abandoned
		p.broken = p.failure("read", err)
		return nil, p.broken
	}
	var resp processResponse
	if err := json.Unmarshal(line, &resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if msg := strings.TrimSpace(resp.Error); msg != "" {
		return nil, fmt.Errorf("tagger error: %s", msg)
	}
	return resp.Tokens, nil
}

// Close asks the process to exit by closing stdin, then kills its process
// group if it has not gone within StopTimeout.
func (p *ProcessTagger) Close() error {
	if p.cmd == nil || p.cmd.Process == nil {
		return nil
	}
	if p.stdin != nil {
		_ = p.stdin.Close()
	}
	exited := make(chan error, 1)
	go func() { exited <- p.cmd.Wait() }()
	select {
	case <-exited:
		return nil
	case <-time.After(p.cfg.StopTimeout):
		killProcessGroup(p.cmd)
		<-exited
		return nil
	}
}

func (p *ProcessTagger) readLine(ctx context.Context) ([]byte, error) {
	select {
	case res, ok := <-p.lines:
		if !ok {
			return nil, io.EOF
		}
		return res.line, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (p *ProcessTagger) failure(stage string, err error) error {
	if tail := strings.TrimSpace(p.stderr.String()); tail != "" {
		return fmt.Errorf("tagger %s: %w (stderr: %s)", stage, err, tail)
	}
	return fmt.Errorf("tagger %s: %w", stage, err)
}

func readLines(r io.Reader, out chan<- lineResult) {
	defer close(out)
	reader := bufio.NewReaderSize(r, 64*1024)
	for {
		line, err := reader.ReadBytes('\n')
		if len(strings.TrimSpace(string(line))) > 0 {
			out <- lineResult{line: line}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				out <- lineResult{err: err}
			}
			return
		}
	}
}

// tailBuffer keeps the last limit bytes written to it.
type tailBuffer struct {
	mu    sync.Mutex
	limit int
	data  []byte
}

func newTailBuffer(limit int) *tailBuffer {
	return &tailBuffer{limit: limit}
}

func (b *tailBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = append(b.data, p...)
	if over := len(b.data) - b.limit; over > 0 {
		b.data = b.data[over:]
	}
	return len(p), nil
}

func (b *tailBuffer) String() string {
	if b == nil {
		return ""
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.data)
}

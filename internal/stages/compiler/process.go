package compiler

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// lineBuffer collects lines from one stream. Appends may race with the final read
// when a killed process leaves its pipe open, hence the mutex.
type lineBuffer struct {
	mu      sync.Mutex
	builder strings.Builder
}

func (b *lineBuffer) appendLine(line string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.builder.WriteString(line)
	b.builder.WriteByte('\n')
}

func (b *lineBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.builder.String()
}

// drainLines reads r line by line until EOF. The returned channel is closed at end of stream.
func drainLines(r io.Reader, buf *lineBuffer) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		reader := bufio.NewReader(r)
		for {
			line, err := reader.ReadString('\n')
			if line != "" {
				buf.appendLine(strings.TrimRight(line, "\r\n"))
			}
			if err != nil {
				return
			}
		}
	}()
	return done
}

func waitWithGrace(done <-chan struct{}, grace time.Duration) {
	timer := time.NewTimer(grace)
	defer timer.Stop()
	select {
	case <-done:
	case <-timer.C:
	}
}

// executeToolchain starts the process described by info, kills it once the timeout elapses and
// returns the combined, trimmed stdout and stderr text captured so far.
func (pc *ProcessCompiler) executeToolchain(info *StartInfo) string {
	ctx, cancel := context.WithTimeout(context.Background(), pc.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, info.Path, info.Args...)
	cmd.Dir = info.Dir
	if len(info.Env) > 0 {
		cmd.Env = info.Env
	}

	var stdoutBuf, stderrBuf lineBuffer
	var readers []<-chan struct{}
	var parentEnds, childEnds []*os.File
	defer func() {
		for _, f := range parentEnds {
			_ = f.Close()
		}
	}()

	if info.StdoutFile != "" {
		stdoutFile, err := os.Create(info.StdoutFile)
		if err != nil {
			return fmt.Sprintf("Could not create toolchain output file %s: %s", info.StdoutFile, err)
		}
		// A listing that received nothing counts as missing output.
		defer func() {
			_ = stdoutFile.Close()
			removeIfEmpty(info.StdoutFile, pc.logger)
		}()
		cmd.Stdout = stdoutFile
	} else {
		r, w, err := os.Pipe()
		if err != nil {
			return fmt.Sprintf("Could not start toolchain. %s", err)
		}
		parentEnds = append(parentEnds, r)
		childEnds = append(childEnds, w)
		cmd.Stdout = w
		readers = append(readers, drainLines(r, &stdoutBuf))
	}

	r, w, err := os.Pipe()
	if err != nil {
		closeAll(childEnds)
		return fmt.Sprintf("Could not start toolchain. %s", err)
	}
	parentEnds = append(parentEnds, r)
	childEnds = append(childEnds, w)
	cmd.Stderr = w
	readers = append(readers, drainLines(r, &stderrBuf))

	err = cmd.Start()
	// The child holds its own copies of the write ends; readers see EOF once it exits.
	closeAll(childEnds)
	if err != nil {
		pc.logger.Errorf("Could not start toolchain %s: %s", info.Path, err)
		return fmt.Sprintf("Could not start toolchain. %s", err)
	}

	waitErr := cmd.Wait()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		pc.logger.Warnf("Toolchain %s exceeded %s and was killed", info.Path, pc.timeout)
	} else if waitErr != nil {
		pc.logger.Debugf("Toolchain %s exited with: %s", info.Path, waitErr)
	}

	for _, done := range readers {
		waitWithGrace(done, pc.grace)
	}

	output := strings.TrimSpace(stdoutBuf.String())
	errorOutput := strings.TrimSpace(stderrBuf.String())

	return strings.TrimSpace(output + "\n" + errorOutput)
}

func removeIfEmpty(path string, logger *zap.SugaredLogger) {
	stat, err := os.Stat(path)
	if err != nil || stat.Size() > 0 {
		return
	}
	if err := os.Remove(path); err != nil {
		logger.Warnf("Could not remove empty toolchain output %s: %s", path, err)
	}
}

func closeAll(files []*os.File) {
	for _, f := range files {
		_ = f.Close()
	}
}

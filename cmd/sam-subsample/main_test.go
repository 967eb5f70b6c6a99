package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

// samInput renders a queryname-grouped SAM stream with two records per
// template.
func samInput(pairs int) string {
	var b strings.Builder
	b.WriteString("@HD\tVN:1.6\tSO:queryname\n")
	b.WriteString("@SQ\tSN:chr1\tLN:248956422\n")
	for i := 0; i < pairs; i++ {
		name := fmt.Sprintf("r%04d", i)
		fmt.Fprintf(&b, "%s\t99\tchr1\t%d\t60\t100M\t=\t%d\t200\tACGT\tFFFF\n", name, 100+i, 300+i)
		fmt.Fprintf(&b, "%s\t147\tchr1\t%d\t60\t100M\t=\t%d\t-200\tACGT\tFFFF\n", name, 300+i, 100+i)
	}
	return b.String()
}

func writeSAM(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// execute runs the command end to end against real files and returns the
// exit code.
func execute(t *testing.T, args ...string) int {
	t.Helper()
	argv := append([]string{"sam-subsample", "--level", "error"}, args...)
	return run(context.Background(), argv)
}

func TestRunPassesShortStreamThrough(t *testing.T) {
	t.Parallel()

	input := samInput(3)
	in := writeSAM(t, "in.sam", input)
	out := filepath.Join(t.TempDir(), "out.sam")

	code := execute(t, "-i", in, "-o", out, "-n", "10", "--seed", "7")
	require.Equal(t, 0, code)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	// Below capacity every template survives in arrival order, so the
	// stream passes through byte for byte.
	assert.Equal(t, input, string(got))
}

func TestRunSamplesDeterministically(t *testing.T) {
	t.Parallel()

	in := writeSAM(t, "in.sam", samInput(100))
	dir := t.TempDir()
	first := filepath.Join(dir, "first.sam")
	second := filepath.Join(dir, "second.sam")

	require.Equal(t, 0, execute(t, "-i", in, "-o", first, "-n", "5", "--seed", "1"))
	require.Equal(t, 0, execute(t, "-i", in, "-o", second, "-n", "5", "--seed", "1"))

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))

	lines := strings.Split(strings.TrimSuffix(string(a), "\n"), "\n")
	require.Len(t, lines, 2+5*2)
	assert.True(t, strings.HasPrefix(lines[0], "@HD"))
	assert.True(t, strings.HasPrefix(lines[1], "@SQ"))

	// Templates stay whole: body lines pair up under one name.
	for i := 2; i < len(lines); i += 2 {
		mate1 := strings.SplitN(lines[i], "\t", 2)[0]
		mate2 := strings.SplitN(lines[i+1], "\t", 2)[0]
		assert.Equal(t, mate1, mate2)
	}
}

func TestRunSortedOutput(t *testing.T) {
	t.Parallel()

	in := writeSAM(t, "in.sam", samInput(50))
	out := filepath.Join(t.TempDir(), "out.sam")

	require.Equal(t, 0, execute(t, "-i", in, "-o", out, "-n", "5", "--seed", "3", "--sorted"))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 2+5*2)

	var names []string
	for _, line := range lines[2:] {
		names = append(names, strings.SplitN(line, "\t", 2)[0])
	}
	assert.IsIncreasing(t, removeAdjacentDuplicates(names))
}

func removeAdjacentDuplicates(names []string) []string {
	var out []string
	for _, n := range names {
		if len(out) == 0 || out[len(out)-1] != n {
			out = append(out, n)
		}
	}
	return out
}

func TestRunHeaderOnlyInput(t *testing.T) {
	t.Parallel()

	header := "@HD\tVN:1.6\tSO:queryname\n@SQ\tSN:chr1\tLN:248956422\n"
	in := writeSAM(t, "in.sam", header)
	out := filepath.Join(t.TempDir(), "out.sam")

	require.Equal(t, 0, execute(t, "-i", in, "-o", out, "--strict-order", "--algorithm-r"))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, header, string(data))
}

func TestRunExitCodes(t *testing.T) {
	t.Parallel()

	queryname := writeSAM(t, "queryname.sam", samInput(2))
	coordinate := writeSAM(t, "coordinate.sam",
		"@HD\tVN:1.6\tSO:coordinate\nr1\t99\tchr1\t100\t60\t4M\t=\t200\t104\tACGT\tFFFF\n")
	bare := writeSAM(t, "bare.sam",
		"r1\t99\tchr1\t100\t60\t4M\t=\t200\t104\tACGT\tFFFF\n")

	tests := []struct {
		name string
		args []string
		want int
	}{
		{
			name: "missing input file",
			args: []string{"-i", filepath.Join(t.TempDir(), "absent.sam"), "-o", "-"},
			want: 1,
		},
		{
			name: "coordinate sorted input",
			args: []string{"-i", coordinate, "-o", "-"},
			want: 1,
		},
		{
			name: "header without sort order",
			args: []string{"-i", bare, "-o", "-"},
			want: 1,
		},
		{
			name: "unknown flag",
			args: []string{"-i", queryname, "-o", "-", "--nope"},
			want: 2,
		},
		{
			name: "missing infile",
			args: []string{"-o", "-"},
			want: 2,
		},
		{
			name: "bam input",
			args: []string{"-i", "reads.bam", "-o", "-"},
			want: 2,
		},
		{
			name: "bad level",
			args: []string{"-i", queryname, "-o", "-", "--level", "loud"},
			want: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			argv := append([]string{"sam-subsample"}, tt.args...)
			assert.Equal(t, tt.want, run(context.Background(), argv))
		})
	}
}

func TestOpenInputStdio(t *testing.T) {
	t.Parallel()

	r, closeFn, err := openInput("-")
	require.NoError(t, err)
	assert.Same(t, os.Stdin, r)
	assert.NoError(t, closeFn())
}

func TestOpenOutputStdio(t *testing.T) {
	t.Parallel()

	w, closeFn, err := openOutput("-")
	require.NoError(t, err)
	assert.Same(t, os.Stdout, w)
	assert.NoError(t, closeFn())
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{in: "error", want: zapcore.ErrorLevel},
		{in: "warn", want: zapcore.WarnLevel},
		{in: "info", want: zapcore.InfoLevel},
		{in: "debug", want: zapcore.DebugLevel},
		{in: "trace", want: zapcore.DebugLevel},
		{in: "loud", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run("level "+tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := parseLevel(tt.in)
			if tt.wantErr {
				assert.ErrorContains(t, err, "unknown log level")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	logger, err := newLogger("debug")
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	_, err = newLogger("loud")
	assert.Error(t, err)
}

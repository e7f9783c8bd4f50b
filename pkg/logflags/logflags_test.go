package logflags

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestMakeLogger_usingLoggerFactory(t *testing.T) {
	if loggerFactory != nil {
		t.Fatalf("expected loggerFactory to be nil; but was <%v>", loggerFactory)
	}
	defer func() {
		loggerFactory = nil
	}()
	logOut = &bufferWriter{}
	defer reset()

	expectedLogger := &logrusLogger{}
	SetLoggerFactory(func(level logrus.Level, fields Fields, out io.Writer) Logger {
		if level != logrus.DebugLevel {
			t.Fatalf("expected level to be <%v>; but was <%v>", logrus.DebugLevel, level)
		}
		if len(fields) != 1 || fields["layer"] != "codec" {
			t.Fatalf("expected fields to be {'layer':'codec'}; but was <%v>", fields)
		}
		if out != logOut {
			t.Fatalf("expected out to be <%v>; but was <%v>", logOut, out)
		}
		return expectedLogger
	})

	codec = true
	if actual := CodecLogger(); actual != expectedLogger {
		t.Fatalf("expected actual to <%v>; but was <%v>", expectedLogger, actual)
	}
}

func TestMakeFlaggableLogger(t *testing.T) {
	for _, tc := range []struct {
		flag  bool
		level logrus.Level
	}{
		{false, logrus.ErrorLevel},
		{true, logrus.DebugLevel},
	} {
		actual, ok := makeFlaggableLogger(tc.flag, Fields{"foo": "bar"}).(*logrusLogger)
		if !ok {
			t.Fatalf("expected a *logrusLogger")
		}
		if actual.Logger.Level != tc.level {
			t.Fatalf("flag %v: expected level <%v>; but was <%v>", tc.flag, tc.level, actual.Logger.Level)
		}
		if len(actual.Data) != 1 || actual.Data["foo"] != "bar" {
			t.Fatalf("expected data to be {'foo':'bar'}; but was <%v>", actual.Data)
		}
		if actual.Logger.Formatter != textFormatterInstance {
			t.Fatalf("expected the text formatter; but was <%v>", actual.Logger.Formatter)
		}
	}
}

func TestSetup(t *testing.T) {
	defer reset()

	if err := Setup(false, "codec", ""); err != errLogstrWithoutLog {
		t.Fatalf("expected <%v>; but was <%v>", errLogstrWithoutLog, err)
	}
	if err := Setup(true, "config,repl", ""); err != nil {
		t.Fatal(err)
	}
	if Codec() || !Config() || !Repl() {
		t.Fatalf("wrong layers: codec=%v config=%v repl=%v", Codec(), Config(), Repl())
	}
	reset()

	if err := Setup(true, "", ""); err != nil {
		t.Fatal(err)
	}
	if !Codec() {
		t.Fatal("codec should be the default layer")
	}
	if err := Setup(true, "gdbwire", ""); err == nil {
		t.Fatal("expected an error for an unknown layer")
	}
}

func TestLogDest(t *testing.T) {
	defer reset()
	dest := filepath.Join(t.TempDir(), "leb128.log")
	if err := Setup(true, "codec", dest); err != nil {
		t.Fatal(err)
	}
	CodecLogger().WithField("type", "u32").Debugf("encoded %d bytes", 3)
	CodecLogger().Debug("written")
	ConfigLogger().Debug("not written")
	Close()

	buf, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(buf)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected two lines; but got <%q>", buf)
	}
	if !strings.HasSuffix(lines[0], " debug layer=codec type=u32 encoded 3 bytes") {
		t.Fatalf("unexpected line <%s>", lines[0])
	}
	if !strings.HasSuffix(lines[1], " debug layer=codec written") {
		t.Fatalf("unexpected line <%s>", lines[1])
	}
}

type bufferWriter struct {
	bytes.Buffer
}

func (bw bufferWriter) Close() error {
	return nil
}

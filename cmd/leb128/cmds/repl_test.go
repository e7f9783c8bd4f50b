package cmds

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-delve/leb128/pkg/config"
)

func newTestSession(conf *config.Config) (*session, *bytes.Buffer) {
	var out bytes.Buffer
	return newSession(conf, "u64", config.DefaultMaxSize, &out), &out
}

func TestSessionEncodeDecode(t *testing.T) {
	s, out := newTestSession(nil)

	require.NoError(t, s.execute("enc 624485"))
	assert.Equal(t, "e58e26\n", out.String())
	out.Reset()

	require.NoError(t, s.execute("t i32"))
	require.NoError(t, s.execute("e -123456 0x10"))
	assert.Equal(t, "c0bb78\n10\n", out.String())
	out.Reset()

	require.NoError(t, s.execute("dec c0bb78 'e5 8e 26'"))
	assert.Equal(t, "-123456\n624485\n", out.String())
	out.Reset()

	require.NoError(t, s.execute("ty"))
	assert.Equal(t, "i32\n", out.String())
	assert.Equal(t, "(i32) ", s.prompt())
}

func TestSessionMaxSize(t *testing.T) {
	s, out := newTestSession(nil)
	require.NoError(t, s.execute("type uint"))
	require.NoError(t, s.execute("ma 1"))
	require.NoError(t, s.execute("maxsize"))
	assert.Equal(t, "1\n", out.String())

	assert.Error(t, s.execute("dec 808001"))
	assert.Error(t, s.execute("maxsize -3"))
	assert.Error(t, s.execute("type u8"))
}

func TestSessionCommands(t *testing.T) {
	s, out := newTestSession(&config.Config{Aliases: map[string][]string{"dec": {"decode"}}})

	require.NoError(t, s.execute("decode 01"))
	assert.Equal(t, "1\n", out.String())

	assert.EqualError(t, s.execute("x"), "command not available")
	assert.Equal(t, errExit, s.execute("exit"))
	assert.Equal(t, errExit, s.execute("  q  "))
	assert.NoError(t, s.execute(""))
	assert.Error(t, s.execute("enc `echo 1`"))
	assert.Error(t, s.execute("enc"))

	out.Reset()
	require.NoError(t, s.execute("help"))
	assert.True(t, strings.HasPrefix(out.String(), "The following commands are available:\n"))
	assert.Contains(t, out.String(), "dec (alias: d | decode)")

	out.Reset()
	require.NoError(t, s.execute("help maxsize"))
	assert.True(t, strings.HasPrefix(out.String(), "Shows or changes the maximum size"))
}

func TestSessionConfig(t *testing.T) {
	s, out := newTestSession(&config.Config{})

	require.NoError(t, s.execute("config alias enc en"))
	require.NoError(t, s.execute("en 1"))
	assert.Equal(t, "01\n", out.String())

	require.NoError(t, s.execute("config history-limit 10"))
	assert.Equal(t, 10, s.conf.History())

	out.Reset()
	require.NoError(t, s.execute("config -list"))
	assert.Contains(t, out.String(), "history-limit 10")

	assert.Error(t, s.execute("config"))
	assert.Error(t, s.execute("config nonexistent 1"))
}

func TestSessionComplete(t *testing.T) {
	s, _ := newTestSession(nil)
	assert.Equal(t, []string{"dec"}, s.complete("de"))
	assert.Equal(t, []string{"e", "enc", "exit"}, s.complete("e"))
	assert.Nil(t, s.complete("enc 1"))
}

func TestTrimHistory(t *testing.T) {
	assert.Equal(t, "b\nc\n", string(trimHistory("a\nb\nc\n", 2)))
	assert.Equal(t, "a\nb\n", string(trimHistory("a\nb", 5)))
	assert.Nil(t, trimHistory("", 5))
	assert.Nil(t, trimHistory("a\n", 0))
}

func TestSessionConfigUpdatesSession(t *testing.T) {
	s, _ := newTestSession(&config.Config{})

	require.NoError(t, s.execute("config default-type i32"))
	assert.Equal(t, "(i32) ", s.prompt())

	require.NoError(t, s.execute("config max-size 1"))
	assert.Equal(t, 1, s.maxSize)
	require.NoError(t, s.execute("type uint"))
	assert.Error(t, s.execute("dec 808001"))

	assert.Error(t, s.execute("config default-type u8"))
}

func TestSessionSourceFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cmds.txt")
	require.NoError(t, os.WriteFile(path, []byte("# comment\n\ntype i32\nenc -123456\nbogus\nenc 1\n"), 0600))

	s, out := newTestSession(nil)
	require.NoError(t, s.execute("source "+path))
	assert.Equal(t, "c0bb78\n"+path+":5: command not available\n01\n", out.String())

	assert.Error(t, s.execute("source"))
	assert.Error(t, s.execute("source "+filepath.Join(t.TempDir(), "missing")))
}

func TestSessionSourceStarlark(t *testing.T) {
	dir := t.TempDir()
	result := filepath.Join(dir, "result.txt")
	script := filepath.Join(dir, "script.star")
	src := fmt.Sprintf(`
def main():
    leb_command("type i32")
    print(encode(-123456))
    print(decode("e58e26", "u32"))
    print(decode("c0bb78"))
    print(cur_type())
    write_file(%q, encode(1 << 70, "u128"))
`, result)
	require.NoError(t, os.WriteFile(script, []byte(src), 0600))

	s, out := newTestSession(nil)
	require.NoError(t, s.execute("source "+script))
	assert.Equal(t, "c0bb78\n[624485]\n[-123456]\ni32\n", out.String())
	assert.Equal(t, "i32", s.Type())

	buf, err := os.ReadFile(result)
	require.NoError(t, err)
	assert.Equal(t, "8080808080808080808001", string(buf))

	bad := filepath.Join(dir, "bad.star")
	require.NoError(t, os.WriteFile(bad, []byte(`encode("x")`+"\n"), 0600))
	err = s.execute("source " + bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not an int")

	overflow := filepath.Join(dir, "overflow.star")
	require.NoError(t, os.WriteFile(overflow, []byte(`encode(70000, "u16")`+"\n"), 0600))
	err = s.execute("source " + overflow)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range for u16")
}

package cmds

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/cosiner/argv"
	"github.com/derekparker/trie"
	"github.com/go-delve/liner"

	"github.com/go-delve/leb128/cmd/leb128/cmds/starbind"
	"github.com/go-delve/leb128/pkg/config"
	"github.com/go-delve/leb128/pkg/leb128"
	"github.com/go-delve/leb128/pkg/logflags"
)

type replCmdfunc func(s *session, args []string) error

type replCommand struct {
	aliases []string
	helpMsg string
	fn      replCmdfunc
}

// errExit is returned by the exit command to end the session.
var errExit = errors.New("exit")

// session is an interactive encode/decode loop.
type session struct {
	conf    *config.Config
	typ     intType
	maxSize int
	out     io.Writer
	cmds    []replCommand
	names   *trie.Trie
	line    *liner.State
	log     logflags.Logger

	starlarkEnv *starbind.Env
}

func newSession(conf *config.Config, typ intType, maxSize int, out io.Writer) *session {
	if conf == nil {
		conf = &config.Config{}
	}
	s := &session{
		conf:    conf,
		typ:     typ,
		maxSize: maxSize,
		out:     out,
		log:     logflags.ReplLogger(),
	}
	s.cmds = []replCommand{
		{aliases: []string{"help", "h"}, fn: helpCommand, helpMsg: `Prints the help message.

	help [command]

Type "help" followed by the name of a command for more information about it.`},
		{aliases: []string{"enc", "e"}, fn: encCommand, helpMsg: `Encodes values.

	enc value...

Prints the encoding of each value, using the current type, as hex.
Values are decimal or prefixed with 0x, 0o or 0b.`},
		{aliases: []string{"dec", "d"}, fn: decCommand, helpMsg: `Decodes values.

	dec hex...

Each argument is a hex string holding one or more encoded values of the
current type. Decoded values are printed in decimal, one per line.`},
		{aliases: []string{"type", "t"}, fn: typeCommand, helpMsg: `Shows or changes the current type.

	type [u16|u32|u64|u128|i16|i32|i64|i128|uint|int]`},
		{aliases: []string{"maxsize"}, fn: maxSizeCommand, helpMsg: `Shows or changes the maximum size, in bytes, of uint and int values.

	maxsize [n]`},
		{aliases: []string{"config"}, fn: configCommand, helpMsg: `Changes configuration parameters.

	config -list

Show all configuration parameters.

	config -save

Saves the configuration file to disk, overwriting the current configuration file.

	config <parameter> <value>

Changes the value of a configuration parameter.

	config alias <command> <alias>

Defines <alias> as an alias to <command>.`},
		{aliases: []string{"source"}, fn: sourceCommand, helpMsg: `Executes a file containing a list of commands.

	source <path>

If path ends with the .star extension it will be interpreted as a starlark
script. Scripts can call encode(value, type), decode(hex, type), cur_type(),
leb_command(command), read_file(path), write_file(path, text) and help(). If
the script defines a main function it is called after the script is loaded.`},
		{aliases: []string{"exit", "quit", "q"}, fn: exitCommand, helpMsg: "Exits the session."},
	}
	s.loadAliases()
	return s
}

// loadAliases adds the aliases from the configuration file to the command
// list and rebuilds the name lookup trie.
func (s *session) loadAliases() {
	for i := range s.cmds {
		cmd := &s.cmds[i]
		for _, alias := range s.conf.Aliases[cmd.aliases[0]] {
			if !containsString(cmd.aliases, alias) {
				cmd.aliases = append(cmd.aliases, alias)
			}
		}
	}
	s.names = trie.New()
	for i := range s.cmds {
		for _, alias := range s.cmds[i].aliases {
			s.names.Add(alias, &s.cmds[i])
		}
	}
}

func containsString(v []string, s string) bool {
	for _, x := range v {
		if x == s {
			return true
		}
	}
	return false
}

// find resolves a command by name, alias or unambiguous prefix.
func (s *session) find(name string) (*replCommand, error) {
	if n, ok := s.names.Find(name); ok {
		return n.Meta().(*replCommand), nil
	}
	var found *replCommand
	for _, key := range s.names.PrefixSearch(name) {
		n, _ := s.names.Find(key)
		cmd := n.Meta().(*replCommand)
		if found != nil && found != cmd {
			return nil, fmt.Errorf("ambiguous command %q", name)
		}
		found = cmd
	}
	if found == nil {
		return nil, fmt.Errorf("command not available")
	}
	return found, nil
}

func (s *session) complete(line string) []string {
	if strings.ContainsAny(line, " \t") {
		return nil
	}
	c := s.names.PrefixSearch(strings.ToLower(line))
	sort.Strings(c)
	return c
}

func (s *session) execute(cmdstr string) error {
	cmdstr = strings.TrimSpace(cmdstr)
	if cmdstr == "" {
		return nil
	}
	v, err := argv.Argv(cmdstr,
		func(str string) (string, error) {
			return "", fmt.Errorf("backtick not supported in '%s'", str)
		},
		nil)
	if err != nil {
		return err
	}
	if len(v) != 1 {
		return fmt.Errorf("illegal command line '%s'", cmdstr)
	}
	args := v[0]
	if len(args) == 0 {
		return nil
	}
	cmd, err := s.find(args[0])
	if err != nil {
		return err
	}
	s.log.Debugf("%s %q", cmd.aliases[0], args[1:])
	return cmd.fn(s, args[1:])
}

func (s *session) prompt() string {
	return fmt.Sprintf("(%s) ", s.typ)
}

// Run reads and executes commands until exit or end of input.
func (s *session) Run() error {
	s.line = liner.NewLiner()
	defer s.line.Close()
	s.line.SetCtrlCAborts(true)
	s.line.SetCompleter(s.complete)

	s.loadHistory()
	fmt.Fprintln(s.out, "Type 'help' for list of commands.")

	for {
		cmdstr, err := s.promptForInput()
		if err != nil {
			if err == io.EOF || err == liner.ErrPromptAborted {
				fmt.Fprintln(s.out, "exit")
				return s.saveHistory()
			}
			return fmt.Errorf("prompt for input failed: %v", err)
		}
		if err := s.execute(cmdstr); err != nil {
			if err == errExit {
				return s.saveHistory()
			}
			fmt.Fprintf(os.Stderr, "Command failed: %s\n", err)
		}
	}
}

func (s *session) promptForInput() (string, error) {
	l, err := s.line.Prompt(s.prompt())
	if err != nil {
		return "", err
	}
	l = strings.TrimSuffix(l, "\n")
	if l != "" {
		s.line.AppendHistory(l)
	}
	return l, nil
}

func (s *session) loadHistory() {
	path, err := config.GetHistoryFilePath()
	if err != nil {
		s.log.Warnf("Unable to load history file: %v", err)
		return
	}
	f, err := os.Open(path)
	if err != nil {
		s.log.Debugf("no history: %v", err)
		return
	}
	defer f.Close()
	if _, err := s.line.ReadHistory(f); err != nil {
		s.log.Warnf("readline history error: %v", err)
	}
}

func (s *session) saveHistory() error {
	path, err := config.GetHistoryFilePath()
	if err != nil {
		return fmt.Errorf("error saving history file: %v", err)
	}
	var buf bytes.Buffer
	if _, err := s.line.WriteHistory(&buf); err != nil {
		return fmt.Errorf("readline history error: %v", err)
	}
	return os.WriteFile(path, trimHistory(buf.String(), s.conf.History()), 0600)
}

// trimHistory keeps the last limit lines of history.
func trimHistory(history string, limit int) []byte {
	history = strings.TrimSuffix(history, "\n")
	if history == "" || limit <= 0 {
		return nil
	}
	lines := strings.Split(history, "\n")
	if len(lines) > limit {
		lines = lines[len(lines)-limit:]
	}
	return []byte(strings.Join(lines, "\n") + "\n")
}

func helpCommand(s *session, args []string) error {
	if len(args) > 0 {
		cmd, err := s.find(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(s.out, cmd.helpMsg)
		return nil
	}

	fmt.Fprintln(s.out, "The following commands are available:")
	w := tabwriter.NewWriter(s.out, 0, 8, 0, '-', 0)
	for _, cmd := range s.cmds {
		h := cmd.helpMsg
		if idx := strings.Index(h, "\n"); idx >= 0 {
			h = h[:idx]
		}
		if len(cmd.aliases) > 1 {
			fmt.Fprintf(w, "    %s (alias: %s) \t %s\n", cmd.aliases[0], strings.Join(cmd.aliases[1:], " | "), h)
		} else {
			fmt.Fprintf(w, "    %s \t %s\n", cmd.aliases[0], h)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "Type help followed by a command for full documentation.")
	return nil
}

func encCommand(s *session, args []string) error {
	if len(args) == 0 {
		return errors.New("not enough arguments")
	}
	var buf []byte
	for _, arg := range args {
		x, err := parseValue(arg)
		if err != nil {
			return err
		}
		buf, err = appendEncoded(buf[:0], s.typ, x)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "%x\n", buf)
	}
	return nil
}

func decCommand(s *session, args []string) error {
	if len(args) == 0 {
		return errors.New("not enough arguments")
	}
	for _, arg := range args {
		b, err := parseHex(arg)
		if err != nil {
			return err
		}
		if err := decodeStream(s.out, bytes.NewReader(b), s.typ, s.maxSize); err != nil {
			return err
		}
	}
	return nil
}

func typeCommand(s *session, args []string) error {
	switch len(args) {
	case 0:
		fmt.Fprintln(s.out, s.typ)
		return nil
	case 1:
		return s.typ.Set(args[0])
	}
	return errors.New("too many arguments")
}

func maxSizeCommand(s *session, args []string) error {
	switch len(args) {
	case 0:
		fmt.Fprintln(s.out, s.maxSize)
		return nil
	case 1:
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			return fmt.Errorf("argument to maxsize must be a number greater than or equal to zero")
		}
		s.maxSize = n
		return nil
	}
	return errors.New("too many arguments")
}

func configCommand(s *session, args []string) error {
	switch {
	case len(args) == 0:
		return errors.New("wrong number of arguments to \"config\"")
	case args[0] == "-list":
		return config.ConfigureList(s.out, s.conf)
	case args[0] == "-save":
		return config.SaveConfig(s.conf)
	}
	if err := config.ConfigureSet(s.conf, strings.Join(args, " ")); err != nil {
		return err
	}
	switch args[0] {
	case "alias":
		s.loadAliases()
	case "default-type":
		if err := s.typ.Set(s.conf.Type()); err != nil {
			return err
		}
	case "max-size":
		s.maxSize = s.conf.Limit()
	}
	return nil
}

func sourceCommand(s *session, args []string) error {
	if len(args) != 1 {
		return errors.New("wrong number of arguments: source <filename>")
	}
	if filepath.Ext(args[0]) == ".star" {
		if s.starlarkEnv == nil {
			s.starlarkEnv = starbind.New(s, s.out)
		}
		_, err := s.starlarkEnv.Execute(args[0], nil)
		return err
	}
	return s.executeFile(args[0])
}

// executeFile runs every line of name as a command. Blank lines and lines
// starting with # are skipped.
func (s *session) executeFile(name string) error {
	fh, err := os.Open(name)
	if err != nil {
		return err
	}
	defer fh.Close()

	scanner := bufio.NewScanner(fh)
	lineno := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		lineno++

		if line == "" || line[0] == '#' {
			continue
		}

		if err := s.execute(line); err != nil {
			if err == errExit {
				return err
			}
			fmt.Fprintf(s.out, "%s:%d: %v\n", name, lineno, err)
		}
	}

	return scanner.Err()
}

// CallCommand runs cmdstr as if it was typed at the prompt.
func (s *session) CallCommand(cmdstr string) error {
	return s.execute(cmdstr)
}

// Encode returns the encoding of x as typ.
func (s *session) Encode(typ string, x *big.Int) ([]byte, error) {
	var t intType
	if err := t.Set(typ); err != nil {
		return nil, err
	}
	return appendEncoded(nil, t, x)
}

// Decode decodes every value of type typ stored in a hex string.
func (s *session) Decode(typ string, hex string) ([]*big.Int, error) {
	var t intType
	if err := t.Set(typ); err != nil {
		return nil, err
	}
	b, err := parseHex(hex)
	if err != nil {
		return nil, err
	}
	src := leb128.NewSource(bytes.NewReader(b))
	var r []*big.Int
	for {
		x, err := decodeValue(src, t, s.maxSize)
		if err == io.EOF {
			return r, nil
		}
		if err != nil {
			return nil, err
		}
		r = append(r, x)
	}
}

// Type returns the current type of the session.
func (s *session) Type() string {
	return string(s.typ)
}

func exitCommand(s *session, args []string) error {
	return errExit
}

package cmds

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/go-delve/leb128/cmd/leb128/cmds/helphelpers"
	"github.com/go-delve/leb128/pkg/config"
	"github.com/go-delve/leb128/pkg/leb128"
	"github.com/go-delve/leb128/pkg/logflags"
	"github.com/go-delve/leb128/pkg/version"
)

var (
	// log is whether to log debug statements.
	log bool
	// logOutput is a comma separated list of components that should produce debug output.
	logOutput string
	// logDest is the file path or file descriptor where logs should go.
	logDest string

	// typ is the integer type values are encoded as or decoded to.
	typ intType
	// maxSize bounds the length of uint and int decodes.
	maxSize int
	// output selects hex or raw output for encode.
	output outputMode
	// showSize prints the encoded length next to each hex value.
	showSize bool
	// inFile is the raw input of decode, "-" for stdin.
	inFile string

	conf *config.Config
)

const leb128CommandLongDesc = `leb128 encodes and decodes Little Endian Base 128 integers.

Fixed width types (u16 to u128, i16 to i128) follow the width of the
corresponding machine integer and reject values that do not fit. The uint and
int types handle values of any length, bounded by --max-size when decoding.

Values are read as decimal, or with a 0x, 0o or 0b prefix. Encoded values are
printed as hex on a terminal and as raw bytes otherwise, see --output.`

// New returns an initialized command tree.
func New() *cobra.Command {
	typ, output, maxSize, showSize, inFile = "", outputAuto, 0, false, ""

	rootCommand := &cobra.Command{
		Use:   "leb128",
		Short: "leb128 is a Little Endian Base 128 encoder and decoder.",
		Long:  leb128CommandLongDesc,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := logflags.Setup(log, logOutput, logDest); err != nil {
				return err
			}
			conf = config.LoadConfig()
			applyConfig(cmd)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logflags.Close()
		},
		SilenceUsage: true,
	}

	rootCommand.PersistentFlags().BoolVarP(&log, "log", "", false, "Enable logging.")
	rootCommand.PersistentFlags().StringVarP(&logOutput, "log-output", "", "", `Comma separated list of components that should produce debug output (see 'leb128 help log')`)
	rootCommand.PersistentFlags().StringVarP(&logDest, "log-dest", "", "", "Writes logs to the specified file or file descriptor (see 'leb128 help log').")

	rootCommand.PersistentFlags().VarP(&typ, "type", "t", `Integer type, one of u16, u32, u64, u128, i16, i32, i64, i128, uint or int (see 'leb128 help types').`)
	rootCommand.PersistentFlags().IntVar(&maxSize, "max-size", config.DefaultMaxSize, "Maximum number of bytes a uint or int value may decode to.")
	rootCommand.PersistentFlags().VarP(&output, "output", "o", "Output format of encoded values: auto, hex or raw.")

	// 'encode' subcommand.
	encodeCommand := &cobra.Command{
		Use:   "encode value...",
		Short: "Encodes integers.",
		Long: `Encodes each value with the LEB128 encoding of the selected type.

In hex mode every value is printed on its own line. In raw mode the encoded
values are concatenated, ready to be fed to 'leb128 decode --in -'.

Negative values must follow --, as in 'leb128 encode -t i32 -- -5'.`,
		Args: cobra.MinimumNArgs(1),
		RunE: encodeCmd,
	}
	encodeCommand.Flags().BoolVarP(&showSize, "size", "s", false, "Print the encoded length of each value in hex mode.")
	rootCommand.AddCommand(encodeCommand)

	// 'decode' subcommand.
	decodeCommand := &cobra.Command{
		Use:   "decode [hex...]",
		Short: "Decodes integers.",
		Long: `Decodes LEB128 values of the selected type and prints them in decimal.

Each argument is a hex string holding one or more encoded values. Without
arguments a raw byte stream is read from --in until it ends, the stream must
end on a value boundary.`,
		RunE: decodeCmd,
	}
	decodeCommand.Flags().StringVarP(&inFile, "in", "i", "-", "File to read raw encoded values from, - is standard input.")
	rootCommand.AddCommand(decodeCommand)

	// 'repl' subcommand.
	rootCommand.AddCommand(&cobra.Command{
		Use:   "repl",
		Short: "Starts an interactive session.",
		Long: `Starts an interactive session where values can be encoded and decoded
one line at a time. Type 'help' in the session for the list of commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return newSession(conf, typ, maxSize, cmd.OutOrStdout()).Run()
		},
	})

	// 'source' subcommand.
	rootCommand.AddCommand(&cobra.Command{
		Use:   "source path",
		Short: "Runs a file of session commands or a starlark script.",
		Long: `Runs the commands of a file, one per line, as if they were typed in an
interactive session. Files with the .star extension are run as starlark
scripts, see 'help source' inside 'leb128 repl' for the available builtins.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := newSession(conf, typ, maxSize, cmd.OutOrStdout())
			if err := sourceCommand(s, args); err != nil && err != errExit {
				return err
			}
			return nil
		},
	})

	// 'version' subcommand.
	rootCommand.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Prints version.",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "leb128\n%s\n", version.LEB128Version)
			if log {
				fmt.Fprintln(cmd.OutOrStdout(), version.BuildInfo())
			}
		},
	})

	rootCommand.AddCommand(&cobra.Command{
		Use:   "types",
		Short: "Help about the --type flag.",
		Long: `The --type flag selects the integer type, possible values are:

	u16 u32 u64 u128	unsigned integers of the given width
	i16 i32 i64 i128	two's complement integers of the given width
	uint			unsigned integer of any length
	int			two's complement integer of any length

Decoding a fixed width type fails when the encoded value does not fit the
width. Decoding uint or int fails when the value needs more than --max-size
bytes.

If --type is not given the default-type option of the configuration file is
used, and u64 if that is not set either.
`})

	rootCommand.AddCommand(&cobra.Command{
		Use:   "log",
		Short: "Help about logging flags.",
		Long: `Logging can be enabled by specifying the --log flag and using the
--log-output flag to select which components should produce logs.

The argument of --log-output must be a comma separated list of component
names selected from this list:


	codec	Log every value encoded or decoded
	config	Log loading and saving of the configuration file
	repl	Log commands run by the interactive session

Additionally --log-dest can be used to specify where the logs should be
written.
If the argument is a number it will be interpreted as a file descriptor,
otherwise as a file path.

`,
	})

	defUsage := rootCommand.UsageFunc()
	rootCommand.SetUsageFunc(func(cmd *cobra.Command) error {
		helphelpers.Prepare(cmd)
		return defUsage(cmd)
	})

	rootCommand.DisableAutoGenTag = true

	return rootCommand
}

// applyConfig fills the flags the user did not set from the configuration.
func applyConfig(cmd *cobra.Command) {
	if !cmd.Flags().Changed("type") {
		if err := typ.Set(conf.Type()); err != nil {
			logflags.ConfigLogger().Warnf("ignoring default-type: %v", err)
			typ = config.DefaultType
		}
	}
	if !cmd.Flags().Changed("max-size") {
		maxSize = conf.Limit()
	}
	if !cmd.Flags().Changed("output") && conf.Output != "" {
		if err := output.Set(conf.Output); err != nil {
			logflags.ConfigLogger().Warnf("ignoring output: %v", err)
		}
	}
	if !cmd.Flags().Changed("size") {
		showSize = conf.ShowSize
	}
}

func encodeCmd(cmd *cobra.Command, args []string) error {
	out := bufio.NewWriter(cmd.OutOrStdout())
	defer out.Flush()

	mode := resolveOutput(output, cmd.OutOrStdout())
	logger := logflags.CodecLogger().WithField("type", typ)

	var buf []byte
	for _, arg := range args {
		x, err := parseValue(arg)
		if err != nil {
			return err
		}
		buf, err = appendEncoded(buf[:0], typ, x)
		if err != nil {
			return err
		}
		logger.Debugf("encode %s: %x", x, buf)
		if mode == outputRaw {
			if _, err := out.Write(buf); err != nil {
				return err
			}
			continue
		}
		if showSize {
			fmt.Fprintf(out, "%x\t%d\n", buf, len(buf))
		} else {
			fmt.Fprintf(out, "%x\n", buf)
		}
	}
	return nil
}

func decodeCmd(cmd *cobra.Command, args []string) error {
	out := bufio.NewWriter(cmd.OutOrStdout())
	defer out.Flush()

	if len(args) > 0 {
		for _, arg := range args {
			b, err := parseHex(arg)
			if err != nil {
				return err
			}
			if err := decodeStream(out, bytes.NewReader(b), typ, maxSize); err != nil {
				return fmt.Errorf("decoding %s: %w", arg, err)
			}
		}
		return nil
	}

	var in io.Reader = cmd.InOrStdin()
	if inFile != "-" {
		fh, err := os.Open(inFile)
		if err != nil {
			return err
		}
		defer fh.Close()
		in = fh
	}
	return decodeStream(out, bufio.NewReader(in), typ, maxSize)
}

// decodeStream decodes values from r until it is exhausted and prints one
// per line.
func decodeStream(out io.Writer, r io.Reader, typ intType, maxSize int) error {
	logger := logflags.CodecLogger().WithField("type", typ)
	src := leb128.NewSource(r)
	for n := 0; ; n++ {
		x, err := decodeValue(src, typ, maxSize)
		if err == io.EOF {
			if n == 0 {
				return errors.New("no input")
			}
			return nil
		}
		if err != nil {
			return err
		}
		logger.Debugf("decode value %d: %s", n, x)
		fmt.Fprintln(out, x)
	}
}

// resolveOutput turns outputAuto into hex for terminals and raw for
// anything else.
func resolveOutput(mode outputMode, w io.Writer) outputMode {
	if mode != outputAuto {
		return mode
	}
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return outputHex
	}
	return outputRaw
}

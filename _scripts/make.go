//go:build ignore
// +build ignore

package main

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"
)

const LEB128MainPackagePath = "github.com/go-delve/leb128/cmd/leb128"

var Verbose bool
var TestSet, TestRegex string

func NewMakeCommands() *cobra.Command {
	RootCommand := &cobra.Command{
		Use:   "make.go",
		Short: "make script for leb128.",
	}

	RootCommand.AddCommand(&cobra.Command{
		Use:   "build",
		Short: "Build leb128",
		Run: func(cmd *cobra.Command, args []string) {
			execute("go", "build", buildFlags(), LEB128MainPackagePath)
		},
	})

	RootCommand.AddCommand(&cobra.Command{
		Use:   "install",
		Short: "Installs leb128",
		Run: func(cmd *cobra.Command, args []string) {
			execute("go", "install", buildFlags(), LEB128MainPackagePath)
		},
	})

	RootCommand.AddCommand(&cobra.Command{
		Use:   "uninstall",
		Short: "Uninstalls leb128",
		Run: func(cmd *cobra.Command, args []string) {
			execute("go", "clean", "-i", LEB128MainPackagePath)
		},
	})

	test := &cobra.Command{
		Use:   "test",
		Short: "Tests leb128",
		Long: `Tests leb128.

Use the flags -s and -r to specify which tests to run. Specifying nothing will run all tests.
`,
		Run: testCmd,
	}
	test.PersistentFlags().BoolVarP(&Verbose, "verbose", "v", false, "Verbose tests")
	test.PersistentFlags().StringVarP(&TestSet, "test-set", "s", "", `Select the set of tests to run, one of either:
	all		tests all packages
	codec		tests pkg/leb128, pkg/wide, pkg/numio and pkg/strio
	package-name	test the specified package only
`)
	test.PersistentFlags().StringVarP(&TestRegex, "test-run", "r", "", `Only runs the tests matching the specified regex. This option can only be specified if testset is a single package`)
	RootCommand.AddCommand(test)

	RootCommand.AddCommand(&cobra.Command{
		Use:   "docs",
		Short: "Regenerates Documentation/usage",
		Run: func(cmd *cobra.Command, args []string) {
			execute("go", "run", "_scripts/gen-usage-docs.go")
		},
	})

	return RootCommand
}

func strflatten(v []interface{}) []string {
	r := []string{}
	for _, s := range v {
		switch s := s.(type) {
		case []string:
			r = append(r, s...)
		case string:
			if s != "" {
				r = append(r, s)
			}
		}
	}
	return r
}

func execute(cmd string, args ...interface{}) {
	fmt.Printf("%s %s\n", cmd, strings.Join(quotemaybe(strflatten(args)), " "))
	x := exec.Command(cmd, strflatten(args)...)
	x.Stdout = os.Stdout
	x.Stderr = os.Stderr
	x.Env = os.Environ()
	err := x.Run()
	if x.ProcessState != nil && !x.ProcessState.Success() {
		os.Exit(1)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func quotemaybe(args []string) []string {
	for i := range args {
		if strings.Contains(args[i], " ") {
			args[i] = fmt.Sprintf("%q", args[i])
		}
	}
	return args
}

// buildFlags stamps the git revision into the version package.
func buildFlags() []string {
	buildSHA, err := exec.Command("git", "rev-parse", "HEAD").CombinedOutput()
	if err != nil {
		return nil
	}
	ldFlags := "-X github.com/go-delve/leb128/pkg/version.build=" + strings.TrimSpace(string(buildSHA))
	return []string{fmt.Sprintf("-ldflags=%s", ldFlags)}
}

func testFlags() []string {
	testFlags := []string{"-count", "1"}
	if Verbose {
		testFlags = append(testFlags, "-v")
	}
	return testFlags
}

func testCmd(cmd *cobra.Command, args []string) {
	var pkgs []string
	switch TestSet {
	case "", "all":
		pkgs = []string{"./..."}
	case "codec":
		pkgs = []string{"./pkg/leb128", "./pkg/wide", "./pkg/numio", "./pkg/strio"}
	default:
		pkgs = []string{"github.com/go-delve/leb128/" + strings.TrimPrefix(TestSet, "./")}
	}
	var run []string
	if TestRegex != "" {
		if len(pkgs) != 1 || pkgs[0] == "./..." {
			log.Fatal("-r can only be used with a single package")
		}
		run = []string{"-run", TestRegex}
	}
	execute("go", "test", testFlags(), run, pkgs)
}

func main() {
	NewMakeCommands().Execute()
}

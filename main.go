package main

import (
	_ "embed" // this is required in order for go:embed to work
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/fatih/color"
	"github.com/google/uuid"

	"github.com/c-linkage/software-post/framework"
	"github.com/c-linkage/software-post/framework/selftest"
	"github.com/c-linkage/software-post/game"
	"github.com/c-linkage/software-post/intlist"
	"github.com/c-linkage/software-post/memtrack"
)

//go:embed VERSION
var versionString string // comes from the VERSION file which we update for each release

var leakColor = color.New(color.FgRed) //nolint:gochecknoglobals

func main() {
	var params commandParams
	if !params.Read(os.Args) {
		os.Exit(1)
	}

	if params.version {
		v, err := version()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("software-post v%s\n", v)
		return
	}

	ok, err := run(params, os.Stdin, os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if !ok {
		os.Exit(1)
	}
}

func version() (*semver.Version, error) {
	v, err := semver.NewVersion(strings.TrimSpace(versionString))
	if err != nil {
		return nil, fmt.Errorf("bad VERSION %q: %w", strings.TrimSpace(versionString), err)
	}
	return v, nil
}

// run returns false only if the self-tests failed; the outcome of the game itself does not
// affect the result.
func run(params commandParams, in io.Reader, out, errOut io.Writer) (bool, error) {
	cfg := params.config

	debugLogger := framework.NullLogger()
	if params.debug {
		debugLogger = framework.LoggerWithPrefix(log.New(errOut, "", log.LstdFlags), fmt.Sprintf("[%s] ", uuid.New()))
	}
	debugLogger.Println("starting")

	if cfg.SelfTest {
		tests := params.tests
		if tests == nil {
			tests = selftest.Default
		}
		backend, err := selftest.BackendByName(cfg.Backend, errOut)
		if err != nil {
			return false, err
		}
		if padded, ok := backend.(*selftest.PaddedBackend); ok {
			padded.AfterEach = memtrack.AfterEachTest()
		}
		flags := selftest.FlagNone
		if cfg.StopOnFailure {
			flags |= selftest.FlagStopOnFailure
		}
		debugLogger.Printf("running %d self-tests with the %s backend", tests.Len(), backend.Name())
		if !selftest.RunWith(backend, tests, nil, flags) {
			debugLogger.Println("self-tests failed")
			return false, nil
		}
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	debugLogger.Printf("game seed is %d", seed)

	var heap memtrack.Heap
	heap.Init()
	defer heap.Uninit(reportLeak, errOut)

	holder := memtrack.Create[intlist.List](&heap)
	if holder == nil {
		return false, errors.New("could not allocate the list")
	}
	list := &holder.Value
	list.Init(&heap)

	var err error
	if game.Populate(list, rand.New(rand.NewSource(seed)), cfg.Numbers, cfg.MaxValue) { //nolint:gosec
		var won bool
		won, err = game.Play(in, out, list, cfg.MaxTries)
		debugLogger.Printf("game over, won: %t", won)
	} else {
		err = errors.New("could not allocate the game's numbers")
	}

	list.Clear()
	heap.Free(holder)
	if err != nil {
		return false, err
	}
	return true, nil
}

// reportLeak is the memtrack.LeakReporter for the program's heap. data is the io.Writer that
// receives the report.
func reportLeak(file string, line int, data interface{}) {
	w, ok := data.(io.Writer)
	if !ok {
		w = os.Stderr
	}
	leakColor.Fprintf(w, "%s:%d: error: memory leak detected!\n", file, line)
}

package selftest

import (
	"runtime"
	"strings"

	"golang.org/x/exp/slices"
)

const testifyPackagePrefix = "github.com/stretchr/testify/"

// cleanAssertionMessage turns the multi-line failure text produced by testify/assert into a
// single line. The "Error Trace:" block is dropped because the harness reports its own
// location, and the remaining labeled sections are flattened.
func cleanAssertionMessage(msg string) string {
	if !strings.Contains(msg, "Error Trace:") {
		return flatten(strings.Split(msg, "\n"))
	}
	var out []string
	inError := false
	for _, line := range strings.Split(msg, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "Error Trace:"):
			inError = false
		case strings.HasPrefix(line, "Error:"):
			inError = true
			out = append(out, strings.TrimSpace(strings.TrimPrefix(line, "Error:")))
		case strings.HasPrefix(line, "Test:"):
			inError = false
		case strings.HasPrefix(line, "Messages:"):
			inError = true
			out = append(out, "("+strings.TrimSpace(strings.TrimPrefix(line, "Messages:"))+")")
		case inError:
			out = append(out, line)
		}
	}
	if len(out) == 0 {
		return flatten(strings.Split(msg, "\n"))
	}
	return flatten(out)
}

func flatten(lines []string) string {
	var kept []string
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, " ")
}

func currentPackageName() string {
	pc, _, _, ok := runtime.Caller(0)
	if !ok {
		return "?"
	}
	f := runtime.FuncForPC(pc)
	if f == nil {
		return "?"
	}
	packageName, _ := parsePackageAndFunctionName(f.Name())
	return packageName
}

// callerLocation finds the first stack frame that belongs to the code under test: frames in
// this package (other than its own tests), in testify, and in registered helper functions are
// skipped.
func callerLocation(helperFns []string) Location {
	currentPackage := currentPackageName()
	for i := 1; ; i++ { // start at 1 because 0 would just be callerLocation itself
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			return NoLocation
		}
		f := runtime.FuncForPC(pc)
		if f == nil {
			return NoLocation
		}
		fullFunctionName := f.Name()
		packageName, _ := parsePackageAndFunctionName(fullFunctionName)

		if packageName == currentPackage && !strings.HasSuffix(file, "_test.go") {
			continue
		}
		if strings.HasPrefix(packageName, testifyPackagePrefix) {
			continue
		}
		if slices.Contains(helperFns, fullFunctionName) {
			continue
		}

		parts := strings.Split(file, "/")
		return At(parts[len(parts)-1], line)
	}
}

func parsePackageAndFunctionName(fullName string) (string, string) {
	lastSlash := strings.LastIndex(fullName, "/")
	firstDotAfterSlash := strings.Index(fullName[lastSlash+1:], ".")
	if firstDotAfterSlash < 0 {
		return fullName, ""
	}
	packageName := fullName[0 : lastSlash+firstDotAfterSlash+1]
	functionName := fullName[len(packageName)+1:]
	return packageName, functionName
}

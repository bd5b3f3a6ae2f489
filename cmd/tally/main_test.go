package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func writeBallots(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun(t *testing.T) {
	convey.Convey("Given a ballot file", t, func() {
		path := writeBallots(t, "votes.csv", "A,B,C\nA,B,C\nB,C,A\nA,B,C\n")
		var stdout, stderr bytes.Buffer

		convey.Convey("When no method is named", func() {
			code := run([]string{path}, &stdout, &stderr)

			convey.Convey("Then the schedule and the default methods are printed", func() {
				convey.So(code, convey.ShouldEqual, exitOK)
				out := stdout.String()
				convey.So(out, convey.ShouldStartWith, "Preference Schedule:\nVoter 1: A, B, C\n")
				convey.So(out, convey.ShouldContainSubstring, "2 Voters: A, B, C\n")
				convey.So(out, convey.ShouldContainSubstring, "Plurality method:\n")
				convey.So(out, convey.ShouldContainSubstring, "Borda count:\n")
				convey.So(out, convey.ShouldContainSubstring, "Borda scores: A 7, B 7, C 4\nThe winner(s) is(are) A, B\n")
				convey.So(out, convey.ShouldContainSubstring, "Pairwise comparison method:\n")
				convey.So(out, convey.ShouldNotContainSubstring, "Elimination method:")
			})
		})

		convey.Convey("When methods are named", func() {
			code := run([]string{path, "-m", "irv,runoff"}, &stdout, &stderr)

			convey.Convey("Then only those run", func() {
				convey.So(code, convey.ShouldEqual, exitOK)
				convey.So(stdout.String(), convey.ShouldContainSubstring, "Elimination method:\n")
				convey.So(stdout.String(), convey.ShouldContainSubstring, "Runoff method:\n")
				convey.So(stdout.String(), convey.ShouldNotContainSubstring, "Borda count:")
			})
		})

		convey.Convey("When a method is unknown", func() {
			code := run([]string{path, "--method", "approval"}, &stdout, &stderr)

			convey.Convey("Then it exits with the unknown-method code", func() {
				convey.So(code, convey.ShouldEqual, exitUnknownMethod)
				convey.So(stderr.String(), convey.ShouldContainSubstring, "unknown method")
				convey.So(stdout.Len(), convey.ShouldEqual, 0)
			})
		})
	})

	convey.Convey("Given a ballot file with sixty-five candidates", t, func() {
		names := make([]string, 65)
		for i := range names {
			names[i] = fmt.Sprintf("C%02d", i)
		}
		row := strings.Join(names, ",")
		path := writeBallots(t, "large.csv", row+"\n"+row+"\n")
		var stdout, stderr bytes.Buffer

		convey.Convey("When no limit is given", func() {
			code := run([]string{path, "-m", "plurality"}, &stdout, &stderr)

			convey.Convey("Then the whole file is counted", func() {
				convey.So(code, convey.ShouldEqual, exitOK)
				convey.So(stderr.String(), convey.ShouldNotContainSubstring, "too large")
				convey.So(stdout.String(), convey.ShouldContainSubstring, "The winner(s) is(are) C00\n")
			})
		})

		convey.Convey("When a smaller candidate limit is given", func() {
			code := run([]string{path, "--max-candidates", "64"}, &stdout, &stderr)

			convey.Convey("Then the file is rejected", func() {
				convey.So(code, convey.ShouldEqual, exitInput)
				convey.So(stderr.String(), convey.ShouldContainSubstring, "election too large")
				convey.So(stdout.Len(), convey.ShouldEqual, 0)
			})
		})
	})

	convey.Convey("Given invalid input", t, func() {
		var stdout, stderr bytes.Buffer

		convey.Convey("When the file does not exist", func() {
			code := run([]string{filepath.Join(t.TempDir(), "none.csv")}, &stdout, &stderr)
			convey.So(code, convey.ShouldEqual, exitInput)
			convey.So(stderr.String(), convey.ShouldContainSubstring, "not found")
		})

		convey.Convey("When the file is not CSV", func() {
			code := run([]string{writeBallots(t, "votes.txt", "A,B\n")}, &stdout, &stderr)
			convey.So(code, convey.ShouldEqual, exitInput)
		})

		convey.Convey("When a ballot repeats a candidate", func() {
			path := writeBallots(t, "dup.csv", "A,B,C\nA,A,B\n")

			convey.Convey("Then strict mode rejects it", func() {
				code := run([]string{path}, &stdout, &stderr)
				convey.So(code, convey.ShouldEqual, exitInput)
				convey.So(stderr.String(), convey.ShouldContainSubstring, "duplicate ranking")
			})

			convey.Convey("Then --lenient accepts it", func() {
				code := run([]string{path, "--lenient", "-m", "plurality"}, &stdout, &stderr)
				convey.So(code, convey.ShouldEqual, exitOK)
				convey.So(stdout.String(), convey.ShouldContainSubstring, "A 1, B 0, C 0")
			})
		})

		convey.Convey("When no file is given", func() {
			code := run(nil, &stdout, &stderr)
			convey.So(code, convey.ShouldEqual, exitInput)
			convey.So(strings.ToLower(stderr.String()), convey.ShouldContainSubstring, "error")
		})
	})
}

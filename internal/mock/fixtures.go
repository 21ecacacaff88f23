package mock

import (
	"fmt"
	"html"
	"sort"
	"strings"
)

// ExampleNames lists the examples served by default
var ExampleNames = []string{
	"altbit",
	"branch-dependent-deadlock",
	"channel-scoping-test",
	"commaok",
	"dining-philosophers",
	"factorial",
	"fanin-pattern",
	"fanin-pattern-commaok",
	"fcall",
	"forselect",
	"giachino-concur14-dining-philosopher",
	"giachino-concur14-factorial",
	"github-golang-go-issue-12734",
	"issue-11-non-communicating-fn-call",
	"jobsched",
	"local-deadlock-fixed",
	"loop-variations",
	"makechan-in-loop",
	"multi-makechan-same-var",
	"multiple-timeout",
	"parallel-twoprocess-fibonacci",
	"philo",
	"popl17",
	"producer-consumer",
	"ring-pattern",
	"russ-cox-fizzbuzz",
	"select-with-weak-mismatch",
	"semaphores",
	"send-recv-with-interfaces",
	"single-gortn-method-call",
	"squaring-pipeline",
	"timeout-behaviour",
}

// DefaultChannels are the options of the chan-cfsm selector
var DefaultChannels = []string{"1", "2", "3", "4", "5"}

const (
	spanOK   = "<span style='color: #87ff87; font-weight: bold'>"
	spanFail = "<span style='color: #ff005f; font-weight: bold'>"
	spanEnd  = "</span>"
)

// exampleSource returns a small program for an example name
func exampleSource(name string) string {
	return fmt.Sprintf(`// %s
package main

import "fmt"

func main() {
    ch := make(chan int)
    done := make(chan struct{})
    go worker(ch, done)
    ch <- %d
    <-done
    fmt.Println("done")
}

func worker(ch chan int, done chan struct{}) {
    fmt.Println(<-ch)
    close(done)
}
`, name, len(name))
}

func defaultExamples() map[string]string {
	m := make(map[string]string, len(ExampleNames))
	for _, n := range ExampleNames {
		m[n] = exampleSource(n)
	}
	return m
}

func sortedNames(m map[string]string) []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// machines is one per goroutine plus main
func machines(src string) int {
	return strings.Count(src, "go ") + 1
}

func ssaOutput(src string) string {
	lines := strings.Count(src, "\n")
	return fmt.Sprintf(`# Name: main.main
# Package: main
# Location: prog.go:%d
func main():
0:                                                                entry P:0 S:0
	t0 = make chan int 0:int                                      chan int
	t1 = make closure main$1 [t0]                          func(ch chan int)
	go t1(t0)
	t2 = <-t0                                                            int
	t3 = new [1]interface{} (varargs)                       *[1]interface{}
	t4 = fmt.Println(t3...)                              (n int, err error)
	return
`, lines)
}

func cfsmOutput(src string) (cfsm, dot string) {
	n := machines(src)
	var sb strings.Builder
	sb.WriteString("-- # of machines\n")
	fmt.Fprintf(&sb, "%d\n", n)
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, "-- Machine #%d\n.outputs\n.state graph\nq0 0 ! int q1\n.marking q0\n.end\n", i)
	}
	dot = "digraph G {\n  q0 -> q1 [label=\"0 ! int\"];\n  q1 -> q2 [label=\"1 ? int\"];\n}\n"
	return sb.String(), dot
}

func migoOutput() string {
	return `def main.main():
    let t0 = newchan main.main.t0_0_0, 0;
    spawn main.main$1(t0);
    recv t0;
def main.main$1(ch):
    send ch;
`
}

func gongOutput(migo string) string {
	live := strings.Contains(migo, "send") && strings.Contains(migo, "recv")
	verdict := func(ok bool) string {
		if ok {
			return spanOK + "true" + spanEnd
		}
		return spanFail + "false" + spanEnd
	}
	return fmt.Sprintf(`Bound (k): 1
Number of k-states: 4
Liveness: %s
Safety: %s
Channel safety: %s
Eventual reception: %s
`, verdict(live), verdict(true), verdict(true), verdict(live))
}

func smcOutput(channels string) string {
	return fmt.Sprintf(`Checking %s channel CFSM(s)
Representability: %sTrue%s
Branching property: %sTrue%s
Safe: %sTrue%s
`, channels, spanOK, spanEnd, spanOK, spanEnd, spanOK, spanEnd)
}

func svg(title string) string {
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="160" height="60"><title>%s</title><text x="10" y="30">%s</text></svg>`, title, title)
}

// indexPage renders the page that advertises examples and channels
func indexPage(examples []string, channels []string) string {
	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html><head><title>Examples</title></head><body>\n")
	sb.WriteString("<select id=\"examples\">\n")
	for _, e := range examples {
		fmt.Fprintf(&sb, "  <option>%s</option>\n", html.EscapeString(e))
	}
	sb.WriteString("</select>\n<select id=\"chan-cfsm\">\n")
	for _, c := range channels {
		fmt.Fprintf(&sb, "  <option value=\"%s\">%s</option>\n", html.EscapeString(c), html.EscapeString(c))
	}
	sb.WriteString("</select>\n</body></html>\n")
	return sb.String()
}

package jsengine

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	scriptTag = regexp.MustCompile(`(?is)<script([^>]*)>(.*?)</script>`)
	srcAttr   = regexp.MustCompile(`(?i)\bsrc\s*=\s*"([^"]*)"`)
	testRow   = regexp.MustCompile(`<tr class="test-row"`)
)

// ReportCheck is what running a report's scripts revealed about it.
type ReportCheck struct {
	Tests           int      // length of the embedded test data array
	Rows            int      // test rows in the results table
	ChartCounts     []int64  // [passed, failed, skipped] handed to the chart
	ExternalScripts []string // src of every external script
	InlineScripts   int      // inline scripts that ran
	Listeners       []string // document event listener types
}

// CheckReport runs every inline script of a report document in order and
// cross-checks the embedded data against the table. It fails when a script
// does not compile or throws, when the data array is missing, or when the
// number of data entries and table rows differ.
func CheckReport(html string) (*ReportCheck, error) {
	e := New()

	check := &ReportCheck{
		Rows: len(testRow.FindAllStringIndex(html, -1)),
	}

	for i, m := range scriptTag.FindAllStringSubmatch(html, -1) {
		if src := srcAttr.FindStringSubmatch(m[1]); src != nil {
			check.ExternalScripts = append(check.ExternalScripts, src[1])
			continue
		}
		body := m[2]
		if strings.TrimSpace(body) == "" {
			continue
		}
		if err := e.RunScript(fmt.Sprintf("script#%d", i), body); err != nil {
			return nil, err
		}
		check.InlineScripts++
	}

	tests, err := e.EvalInt(`typeof allTestsData === 'undefined' ? -1 : allTestsData.length`)
	if err != nil {
		return nil, err
	}
	if tests < 0 {
		return nil, fmt.Errorf("report has no embedded test data")
	}
	check.Tests = int(tests)

	counts, err := e.Eval(`__charts.length > 0 ? __charts[0].data.datasets[0].data : []`)
	if err != nil {
		return nil, err
	}
	if arr, ok := counts.([]interface{}); ok {
		for _, v := range arr {
			switch n := v.(type) {
			case int64:
				check.ChartCounts = append(check.ChartCounts, n)
			case float64:
				check.ChartCounts = append(check.ChartCounts, int64(n))
			}
		}
	}

	listeners, err := e.Eval(`__listeners.map(function (l) { return l.type; })`)
	if err != nil {
		return nil, err
	}
	if arr, ok := listeners.([]interface{}); ok {
		for _, v := range arr {
			check.Listeners = append(check.Listeners, fmt.Sprint(v))
		}
	}

	if check.Tests != check.Rows {
		return check, fmt.Errorf("report embeds %d tests but shows %d rows", check.Tests, check.Rows)
	}

	return check, nil
}

// Open runs the report's inline scripts, then dispatches a click on the
// element carrying data-action=action for the given test, the way a reader
// would. It returns the engine for inspecting the resulting DOM state.
func Open(html, action string, testIndex int) (*Engine, error) {
	e := New()
	for i, m := range scriptTag.FindAllStringSubmatch(html, -1) {
		if srcAttr.MatchString(m[1]) || strings.TrimSpace(m[2]) == "" {
			continue
		}
		if err := e.RunScript(fmt.Sprintf("script#%d", i), m[2]); err != nil {
			return nil, err
		}
	}

	e.SetVariable("__action", action)
	e.SetVariable("__index", testIndex)
	_, err := e.Eval(`(function () {
    var target = new __Element('', 'button');
    target.setAttribute('data-action', __action);
    target.setAttribute('data-test-index', __index);
    target.closest = function () { return target; };
    __listeners.forEach(function (l) {
        if (l.type === 'click') { l.fn({ target: target }); }
    });
})()`)
	if err != nil {
		return nil, err
	}
	return e, nil
}

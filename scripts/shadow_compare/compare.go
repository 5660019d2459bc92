package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/noah-isme/tutoring-schedule-api/pkg/timeofday"
)

// Comparison modes.
const (
	modeBody        = "body"
	modeOccurrences = "occurrences"
)

type target struct {
	Method     string `json:"method"`
	Path       string `json:"path"`
	LegacyPath string `json:"legacy_path"`
	Compare    string `json:"compare"`
	Critical   bool   `json:"critical"`
}

type targetsFile struct {
	Targets []target `json:"targets"`
}

type comparison struct {
	Target         target
	LegacyStatus   int
	GoStatus       int
	StatusMatch    bool
	BodyMatch      bool
	Missing        []string
	Extra          []string
	Error          error
	DurationGo     time.Duration
	DurationLegacy time.Duration
}

// OK reports whether both backends agreed.
func (c comparison) OK() bool {
	return c.Error == nil && c.StatusMatch && c.BodyMatch
}

func loadTargets(path string) ([]target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg targetsFile
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if len(cfg.Targets) == 0 {
		return nil, fmt.Errorf("no targets defined in %s", path)
	}
	return cfg.Targets, nil
}

type runner struct {
	client     *http.Client
	goBase     string
	legacyBase string
	token      string
}

func (r *runner) compare(tgt target) comparison {
	comp := comparison{Target: tgt}

	legacyPath := tgt.LegacyPath
	if legacyPath == "" {
		legacyPath = tgt.Path
	}
	goStatus, goBody, goDur, goErr := r.fetch(r.goBase, tgt.Method, tgt.Path, r.token)
	legacyStatus, legacyBody, legacyDur, legacyErr := r.fetch(r.legacyBase, tgt.Method, legacyPath, "")
	comp.DurationGo = goDur
	comp.DurationLegacy = legacyDur

	if goErr != nil {
		comp.Error = fmt.Errorf("go request failed: %w", goErr)
		return comp
	}
	if legacyErr != nil {
		comp.Error = fmt.Errorf("legacy request failed: %w", legacyErr)
		return comp
	}

	comp.GoStatus = goStatus
	comp.LegacyStatus = legacyStatus
	comp.StatusMatch = goStatus == legacyStatus

	if tgt.Compare == modeOccurrences {
		goKeys, err := occurrenceKeys(goBody)
		if err != nil {
			comp.Error = fmt.Errorf("decode go occurrences: %w", err)
			return comp
		}
		legacyKeys, err := occurrenceKeys(legacyBody)
		if err != nil {
			comp.Error = fmt.Errorf("decode legacy occurrences: %w", err)
			return comp
		}
		comp.Missing, comp.Extra = diffKeys(legacyKeys, goKeys)
		comp.BodyMatch = len(comp.Missing) == 0 && len(comp.Extra) == 0
		return comp
	}

	comp.BodyMatch = bodiesEqual(unwrapData(goBody), unwrapData(legacyBody))
	return comp
}

func (r *runner) fetch(base, method, path, token string) (int, []byte, time.Duration, error) {
	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" {
		method = http.MethodGet
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	req, err := http.NewRequest(method, strings.TrimRight(base, "/")+path, nil)
	if err != nil {
		return 0, nil, 0, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := r.client.Do(req)
	if err != nil {
		return 0, nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, time.Since(start), fmt.Errorf("read body: %w", err)
	}
	return resp.StatusCode, body, time.Since(start), nil
}

// unwrapData strips the {"data": ...} envelope this service responds with so
// payloads can be compared with bare legacy bodies.
func unwrapData(body []byte) []byte {
	var env map[string]json.RawMessage
	if err := json.Unmarshal(body, &env); err != nil {
		return body
	}
	if data, ok := env["data"]; ok {
		return data
	}
	return body
}

// occurrenceKeys reduces a schedule payload to sorted "date time" keys.
// Clock values are normalised so "4:00 PM" and "16:00:00" agree.
func occurrenceKeys(body []byte) ([]string, error) {
	var items []map[string]interface{}
	if err := json.Unmarshal(unwrapData(body), &items); err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(items))
	for _, item := range items {
		date := stringField(item, "postponed_date", "date")
		clock := stringField(item, "hour", "time")
		if normalized, err := timeofday.Normalize(clock); err == nil {
			clock = normalized
		}
		keys = append(keys, date+" "+clock)
	}
	slices.Sort(keys)
	return keys, nil
}

func stringField(item map[string]interface{}, names ...string) string {
	for _, name := range names {
		if v, ok := item[name].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// diffKeys returns the keys only in want (missing) and only in got (extra).
// Both inputs must be sorted.
func diffKeys(want, got []string) (missing, extra []string) {
	i, j := 0, 0
	for i < len(want) && j < len(got) {
		switch {
		case want[i] == got[j]:
			i++
			j++
		case want[i] < got[j]:
			missing = append(missing, want[i])
			i++
		default:
			extra = append(extra, got[j])
			j++
		}
	}
	missing = append(missing, want[i:]...)
	extra = append(extra, got[j:]...)
	return missing, extra
}

func bodiesEqual(a, b []byte) bool {
	if bytes.Equal(bytes.TrimSpace(a), bytes.TrimSpace(b)) {
		return true
	}

	var aj, bj interface{}
	if err := json.Unmarshal(a, &aj); err != nil {
		return false
	}
	if err := json.Unmarshal(b, &bj); err != nil {
		return false
	}
	return reflect.DeepEqual(aj, bj)
}

func printReport(w io.Writer, results []comparison) {
	fmt.Fprintln(w, "Shadow Compare Report")
	fmt.Fprintln(w, "======================")
	for _, res := range results {
		status := "OK"
		if res.Error != nil {
			status = "ERROR"
		} else if !res.OK() {
			status = "DIFF"
		}
		fmt.Fprintf(w, "[%s] %s %s\n", status, res.Target.Method, res.Target.Path)
		fmt.Fprintf(w, "  Go Status: %d (%s)\n", res.GoStatus, res.DurationGo)
		fmt.Fprintf(w, "  Legacy Status: %d (%s)\n", res.LegacyStatus, res.DurationLegacy)
		if res.Error != nil {
			fmt.Fprintf(w, "  Error: %v\n", res.Error)
			continue
		}
		fmt.Fprintf(w, "  Status match: %t | Body match: %t | Critical: %t\n", res.StatusMatch, res.BodyMatch, res.Target.Critical)
		for _, key := range res.Missing {
			fmt.Fprintf(w, "  - missing %s\n", key)
		}
		for _, key := range res.Extra {
			fmt.Fprintf(w, "  + extra   %s\n", key)
		}
	}
}

// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package main provides verspec, a small command line tool for evaluating
// version ranges and assembly identities without writing Go.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/edwardmeng/wheatech/assemblyidentity"
	"github.com/edwardmeng/wheatech/log"
	"github.com/edwardmeng/wheatech/version"
	"github.com/edwardmeng/wheatech/versionrange"
)

// Check is one named unit of work loaded from a config file: either a
// range match ("does Version satisfy Range?") or an identity comparison
// ("does Identity equal CompareTo, under Mode?").
type Check struct {
	Name      string `toml:"name"`
	Version   string `toml:"version"`
	Range     string `toml:"range"`
	Identity  string `toml:"identity"`
	CompareTo string `toml:"compare_to"`
	Mode      string `toml:"mode"`
}

// Config is the schema of a -config TOML file: a flat list of checks.
type Config struct {
	Checks []Check `toml:"check"`
}

// Result is the JSON-serializable outcome of running one Check.
type Result struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Matched bool   `json:"matched"`
	Detail  string `json:"detail,omitempty"`
	Error   string `json:"error,omitempty"`
}

func main() {
	var (
		configPath  = flag.String("config", "", "path to a TOML file listing named checks")
		versionFlag = flag.String("version", "", "a single version to test, e.g. against -range")
		rangeFlag   = flag.String("range", "", "a single version range to test -version against")
		verbose     = flag.Bool("verbose", false, "enable debug logging")
	)
	flag.Parse()

	if *verbose {
		log.SetLogger(&log.DefaultLogger{Verbose: true})
	}

	var checks []Check
	if *configPath != "" {
		cfg, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "verspec: %v\n", err)
			os.Exit(1)
		}
		checks = cfg.Checks
	}
	if *versionFlag != "" && *rangeFlag != "" {
		checks = append(checks, Check{
			Name:    fmt.Sprintf("%s satisfies %s", *versionFlag, *rangeFlag),
			Version: *versionFlag,
			Range:   *rangeFlag,
		})
	}
	if len(checks) == 0 {
		fmt.Fprintln(os.Stderr, "verspec: nothing to do; pass -config, or both -version and -range")
		flag.Usage()
		os.Exit(2)
	}

	results := make([]Result, 0, len(checks))
	failed := false
	for _, c := range checks {
		r := runCheck(c)
		if r.Error != "" {
			failed = true
		}
		results = append(results, r)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		log.Errorf("failed to encode results: %v", err)
		os.Exit(1)
	}
	if failed {
		os.Exit(1)
	}
}

func loadConfig(path string) (Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("reading config %q: %w", path, err)
	}
	return cfg, nil
}

func runCheck(c Check) Result {
	name := c.Name
	switch {
	case c.Range != "":
		return runRangeCheck(name, c)
	case c.Identity != "" && c.CompareTo != "":
		return runIdentityCheck(name, c)
	default:
		return Result{Name: name, Error: "check has neither a range nor an identity comparison configured"}
	}
}

func runRangeCheck(name string, c Check) Result {
	if name == "" {
		name = fmt.Sprintf("%s in %s", c.Version, c.Range)
	}
	v, err := version.Parse(c.Version)
	if err != nil {
		log.Debugf("invalid version %q: %v", c.Version, err)
		return Result{Name: name, Kind: "range", Error: err.Error()}
	}
	expr, err := versionrange.Parse(c.Range)
	if err != nil {
		log.Debugf("invalid range %q: %v", c.Range, err)
		return Result{Name: name, Kind: "range", Error: err.Error()}
	}

	matched := expr.Match(v)
	detail := expr.String()
	if composite, ok := expr.(*versionrange.CompositeComparator); ok {
		if lo, hi, ok := composite.Bounds(); ok {
			detail = fmt.Sprintf("%s (lower %s, upper %s)", detail, lo.String(), hi.String())
		}
	}
	log.Infof("range check %q: %s matches %s = %v", name, c.Version, c.Range, matched)
	return Result{Name: name, Kind: "range", Matched: matched, Detail: detail}
}

func runIdentityCheck(name string, c Check) Result {
	if name == "" {
		name = fmt.Sprintf("%s == %s", c.Identity, c.CompareTo)
	}
	a, err := assemblyidentity.Parse(c.Identity)
	if err != nil {
		log.Debugf("invalid identity %q: %v", c.Identity, err)
		return Result{Name: name, Kind: "identity", Error: err.Error()}
	}
	b, err := assemblyidentity.Parse(c.CompareTo)
	if err != nil {
		log.Debugf("invalid identity %q: %v", c.CompareTo, err)
		return Result{Name: name, Kind: "identity", Error: err.Error()}
	}

	mode, err := parseIdentityMode(c.Mode)
	if err != nil {
		return Result{Name: name, Kind: "identity", Error: err.Error()}
	}

	comparer := assemblyidentity.NewComparer(mode)
	matched := comparer.Equals(a, b)
	log.Infof("identity check %q: %s == %s under mode %v = %v", name, a.Format(), b.Format(), mode, matched)
	return Result{Name: name, Kind: "identity", Matched: matched, Detail: fmt.Sprintf("%s vs %s", a.Format(), b.Format())}
}

func parseIdentityMode(s string) (assemblyidentity.Mode, error) {
	switch s {
	case "", "architecture":
		return assemblyidentity.ModeDefault, nil
	case "shortname":
		return assemblyidentity.ModeShortName, nil
	case "version":
		return assemblyidentity.ModeVersion, nil
	case "culture":
		return assemblyidentity.ModeCulture, nil
	case "publickeytoken":
		return assemblyidentity.ModePublicKeyToken, nil
	default:
		return 0, fmt.Errorf("unrecognized comparison mode %q", s)
	}
}

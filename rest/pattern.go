// Copyright (c) 2025 ProsePilot and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"fmt"
	"strings"
)

// splitPath normalizes a path into its segments: leading and trailing
// slashes are stripped and runs of slashes collapse, so "/hello", "hello"
// and "hello/" name the same path. The root path has zero segments.
func splitPath(p string) []string {
	parts := strings.Split(p, "/")
	segments := parts[:0]
	for _, part := range parts {
		if part == "" {
			continue
		}
		segments = append(segments, part)
	}
	return segments
}

type pathSegment struct {
	literal string
	param   string
}

// pathPattern is a compiled path template. Segments beginning with ':' are
// named parameters, everything else matches literally and
// case-sensitively.
type pathPattern struct {
	template string
	segments []pathSegment
}

func compilePattern(template string) (pathPattern, error) {
	parts := splitPath(template)

	pattern := pathPattern{
		template: template,
		segments: make([]pathSegment, 0, len(parts)),
	}
	var params map[string]struct{}
	for _, part := range parts {
		if !strings.HasPrefix(part, ":") {
			pattern.segments = append(pattern.segments, pathSegment{literal: part})
			continue
		}

		name := part[1:]
		if name == "" {
			return pathPattern{}, fmt.Errorf("rest: path template %q has an unnamed parameter segment", template)
		}
		if _, ok := params[name]; ok {
			return pathPattern{}, fmt.Errorf("rest: path template %q declares parameter %q twice", template, name)
		}
		if params == nil {
			params = make(map[string]struct{})
		}
		params[name] = struct{}{}
		pattern.segments = append(pattern.segments, pathSegment{param: name})
	}
	return pattern, nil
}

// match compares pre-split path segments against the pattern. Parameter
// segments capture their candidate segment verbatim; a candidate with a
// different segment count never matches.
func (p pathPattern) match(segments []string) (map[string]string, bool) {
	if len(segments) != len(p.segments) {
		return nil, false
	}

	params := make(map[string]string)
	for i, seg := range p.segments {
		if seg.param != "" {
			params[seg.param] = segments[i]
			continue
		}
		if seg.literal != segments[i] {
			return nil, false
		}
	}
	return params, true
}

// paramNames lists the declared parameters in template order.
func (p pathPattern) paramNames() []string {
	names := make([]string, 0, len(p.segments))
	for _, seg := range p.segments {
		if seg.param != "" {
			names = append(names, seg.param)
		}
	}
	return names
}
